package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/shashiranjanraj/arstoys/pkg/auth"
	"github.com/shashiranjanraj/arstoys/pkg/response"
)

// TokenCookie is the cookie consulted when no Authorization header is sent.
const TokenCookie = "token"

// Verifier resolves a bearer token to an administrator.
type Verifier interface {
	Verify(ctx context.Context, token string) (*auth.Identity, error)
}

// Authenticate rejects requests without a valid administrator token and
// stores the resolved identity in the request context.
//
// The token is read from "Authorization: Bearer", then the "token" cookie,
// and for websocket upgrades and event streams (which cannot set headers
// from a browser) from the "token" query parameter.
func Authenticate(v Verifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := TokenFromRequest(r)
			if token == "" {
				response.Unauthorized(w, "Not authorized")
				return
			}

			id, err := v.Verify(r.Context(), token)
			if err != nil {
				response.Fail(w, r, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(auth.WithIdentity(r.Context(), id)))
		})
	}
}

// TokenFromRequest extracts the raw bearer token, or "".
func TokenFromRequest(r *http.Request) string {
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	if c, err := r.Cookie(TokenCookie); err == nil && c.Value != "" {
		return c.Value
	}
	if strings.EqualFold(r.Header.Get("Upgrade"), "websocket") ||
		strings.Contains(r.Header.Get("Accept"), "text/event-stream") {
		return r.URL.Query().Get("token")
	}
	return ""
}
