package services

import (
	"context"
	"strings"

	"github.com/shashiranjanraj/arstoys/app/models"
	"github.com/shashiranjanraj/arstoys/pkg/apperr"
	"github.com/shashiranjanraj/arstoys/pkg/auth"
	"github.com/shashiranjanraj/arstoys/pkg/logger"
)

// AuthService logs administrators in and resolves their tokens.
type AuthService struct {
	admins AdminStore
	tokens *auth.Tokens
}

func NewAuthService(admins AdminStore, tokens *auth.Tokens) *AuthService {
	return &AuthService{admins: admins, tokens: tokens}
}

// Login checks credentials and issues a token.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, models.Admin, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return "", models.Admin{}, apperr.Validation("Email and password required")
	}

	admin, err := s.admins.FindByEmail(ctx, email)
	if apperr.Is(err, apperr.KindNotFound) {
		return "", models.Admin{}, apperr.Auth("Invalid credentials")
	}
	if err != nil {
		return "", models.Admin{}, err
	}
	if !auth.CheckPassword(admin.Password, password) {
		logger.WithCtx(ctx).Warn("auth: failed login", "email", admin.Email)
		return "", models.Admin{}, apperr.Auth("Invalid credentials")
	}

	token, err := s.tokens.Issue(admin.ID, admin.Role)
	if err != nil {
		return "", models.Admin{}, apperr.Internal(err)
	}
	return token, admin, nil
}

// Verify resolves a bearer token to the administrator it was issued to.
func (s *AuthService) Verify(ctx context.Context, token string) (*auth.Identity, error) {
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return nil, apperr.Auth("Token invalid")
	}

	admin, err := s.admins.FindByID(ctx, claims.Subject)
	if apperr.Is(err, apperr.KindNotFound) {
		return nil, apperr.Auth("Admin not found")
	}
	if err != nil {
		return nil, err
	}
	return &auth.Identity{ID: admin.ID, Name: admin.Name, Email: admin.Email, Role: admin.Role}, nil
}

// Me returns the administrator record behind an identity.
func (s *AuthService) Me(ctx context.Context, id *auth.Identity) (models.Admin, error) {
	if id == nil {
		return models.Admin{}, apperr.Auth("Not authorized")
	}
	admin, err := s.admins.FindByID(ctx, id.ID)
	if err == nil {
		return admin, nil
	}
	if apperr.Is(err, apperr.KindNotFound) {
		return models.Admin{}, apperr.Auth("Admin not found")
	}
	return models.Admin{}, err
}
