// Package response writes the storefront's JSON envelope:
//
//	{"success": true, ...payload}
//	{"success": false, "message": "..."}
package response

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/shashiranjanraj/arstoys/pkg/apperr"
	"github.com/shashiranjanraj/arstoys/pkg/logger"
)

// Payload holds the top-level keys merged next to "success".
type Payload map[string]interface{}

func write(w http.ResponseWriter, status int, body Payload) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body) //nolint:errcheck
}

// JSON sends payload with the given status and success=true.
func JSON(w http.ResponseWriter, status int, payload Payload) {
	body := make(Payload, len(payload)+1)
	for k, v := range payload {
		body[k] = v
	}
	body["success"] = true
	write(w, status, body)
}

// Success sends a 200 with payload.
func Success(w http.ResponseWriter, payload Payload) {
	JSON(w, http.StatusOK, payload)
}

// Created sends a 201 with payload.
func Created(w http.ResponseWriter, payload Payload) {
	JSON(w, http.StatusCreated, payload)
}

// Message sends a 200 carrying only a message.
func Message(w http.ResponseWriter, message string) {
	JSON(w, http.StatusOK, Payload{"message": message})
}

// Error sends a failure envelope with an explicit status.
func Error(w http.ResponseWriter, status int, message string) {
	write(w, status, Payload{"success": false, "message": message})
}

// Fail maps err through the apperr taxonomy. Internal causes are logged
// with the request's logger and replaced by a generic message.
func Fail(w http.ResponseWriter, r *http.Request, err error) {
	status := apperr.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		logger.WithCtx(requestContext(r)).Error("request failed",
			"kind", apperr.KindOf(err).String(),
			"error", err,
		)
	}
	write(w, status, Payload{"success": false, "message": apperr.PublicMessage(err)})
}

// Unauthorized sends a 401.
func Unauthorized(w http.ResponseWriter, message string) {
	Error(w, http.StatusUnauthorized, message)
}

// Forbidden sends a 403.
func Forbidden(w http.ResponseWriter) {
	Error(w, http.StatusForbidden, "Forbidden")
}

// NotFound sends a 404.
func NotFound(w http.ResponseWriter) {
	Error(w, http.StatusNotFound, "Route not found")
}

func requestContext(r *http.Request) context.Context {
	if r == nil {
		return context.Background()
	}
	return r.Context()
}
