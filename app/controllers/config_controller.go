package controllers

import (
	"net/http"

	"github.com/shashiranjanraj/arstoys/pkg/response"
)

// Config handles GET /api/config: the public storefront settings.
func Config(waNumber string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		response.Success(w, response.Payload{"waNumber": waNumber})
	}
}
