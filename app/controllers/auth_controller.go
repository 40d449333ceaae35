package controllers

import (
	"net/http"

	"github.com/shashiranjanraj/arstoys/pkg/auth"
	"github.com/shashiranjanraj/arstoys/pkg/bind"
	"github.com/shashiranjanraj/arstoys/pkg/response"
)

type AuthController struct {
	auth Authenticator
}

func NewAuthController(a Authenticator) *AuthController {
	return &AuthController{auth: a}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login handles POST /api/auth/login.
func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	var body loginRequest
	if err := bind.JSON(w, r, &body); err != nil {
		response.Fail(w, r, err)
		return
	}

	token, admin, err := c.auth.Login(r.Context(), body.Email, body.Password)
	if err != nil {
		response.Fail(w, r, err)
		return
	}

	response.Success(w, response.Payload{
		"token": token,
		"admin": map[string]string{"id": admin.ID, "name": admin.Name, "email": admin.Email},
	})
}

// Me handles GET /api/auth/me.
func (c *AuthController) Me(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.IdentityFromCtx(r.Context())
	admin, err := c.auth.Me(r.Context(), id)
	if err != nil {
		response.Fail(w, r, err)
		return
	}
	response.Success(w, response.Payload{"admin": admin})
}

// Logout handles POST /api/auth/logout. Tokens are not revoked; the client
// discards its copy.
func (c *AuthController) Logout(w http.ResponseWriter, r *http.Request) {
	response.Message(w, "Logged out")
}
