// Package rbac provides role checks layered on top of middleware.Authenticate.
package rbac

import (
	"net/http"

	"github.com/shashiranjanraj/arstoys/pkg/auth"
	"github.com/shashiranjanraj/arstoys/pkg/response"
)

// RoleAdmin is the role every seeded administrator carries.
const RoleAdmin = "admin"

// HasRole allows the request through only when the authenticated identity
// carries one of roles. Unauthenticated requests get 401.
func HasRole(roles ...string) func(http.Handler) http.Handler {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := auth.IdentityFromCtx(r.Context())
			if !ok {
				response.Unauthorized(w, "Not authorized")
				return
			}
			if !allowed[id.Role] {
				response.Forbidden(w)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
