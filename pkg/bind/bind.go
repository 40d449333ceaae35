// Package bind decodes and validates HTTP request bodies.
package bind

import (
	"encoding/json"
	"errors"
	"mime"
	"net/http"
	"strings"

	"github.com/shashiranjanraj/arstoys/pkg/apperr"
	"github.com/shashiranjanraj/arstoys/pkg/validate"
)

// MaxJSONBytes caps JSON request bodies.
const MaxJSONBytes = 1 << 20

// JSON decodes r.Body into dest and runs validate.Struct on it. Malformed
// bodies and failed rules are reported as validation errors.
func JSON(w http.ResponseWriter, r *http.Request, dest interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, MaxJSONBytes)

	if err := json.NewDecoder(r.Body).Decode(dest); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return apperr.Validation("Request body too large")
		}
		return apperr.Validation("Invalid JSON body")
	}

	if errs := validate.Struct(dest); validate.HasErrors(errs) {
		return apperr.Validation("%s", validate.First(errs))
	}
	return nil
}

// IsMultipart reports whether r carries a multipart/form-data body.
func IsMultipart(r *http.Request) bool {
	mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && strings.EqualFold(mt, "multipart/form-data")
}

// DefaultMaxUpload is the upload cap used when Multipart is given none.
const DefaultMaxUpload = 5 << 20

// Multipart parses a multipart body carrying at most limit bytes of files
// plus a little room for the text fields.
func Multipart(w http.ResponseWriter, r *http.Request, limit int64) error {
	if limit <= 0 {
		limit = DefaultMaxUpload
	}
	r.Body = http.MaxBytesReader(w, r.Body, limit+(1<<20))
	if err := r.ParseMultipartForm(limit); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return apperr.Validation("File too large")
		}
		return apperr.Validation("Invalid multipart body")
	}
	return nil
}
