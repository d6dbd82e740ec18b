package ports

import (
	"context"

	"github.com/eaglecrew/rules-service/internal/core/domain"
)

// AuthService resolves admin identity. Sessions are bearer tokens issued
// either by Login (password path) or by the external OAuth-capable identity
// backend that shares the same signing secret.
type AuthService interface {
	// Login authenticates the configured admin credential and returns a
	// session token. Returns domain.ErrInvalidCredentials on any mismatch.
	Login(ctx context.Context, email, password string) (string, error)
	// AdminStatus inspects a session token without erroring: an invalid or
	// expired token simply yields an unauthenticated status.
	AdminStatus(token string) domain.AdminStatus
}
