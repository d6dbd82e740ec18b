package service

import (
	"context"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/eaglecrew/rules-service/internal/core/domain"
)

// AuthService implements the password login path and session inspection.
// There is exactly one admin identity: a session is "admin" iff its email
// claim matches the configured admin email after normalization. OAuth logins
// are handled by the external identity backend, which signs session tokens
// with the same secret, so AdminStatus covers both paths.
type AuthService struct {
	adminEmail   string // normalized
	passwordHash string // bcrypt hash of the admin password
	jwtSecret    string
	tokenTTL     time.Duration
}

func NewAuthService(adminEmail, passwordHash, jwtSecret string, tokenTTL time.Duration) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthService{
		adminEmail:   normalizeEmail(adminEmail),
		passwordHash: passwordHash,
		jwtSecret:    jwtSecret,
		tokenTTL:     tokenTTL,
	}
}

// Login checks the credential against the configured admin identity and
// returns a signed session token. All failure modes collapse into
// ErrInvalidCredentials so the response never reveals which part mismatched.
func (s *AuthService) Login(_ context.Context, email, password string) (string, error) {
	if email == "" || password == "" {
		return "", domain.ErrInvalidCredentials
	}
	if s.adminEmail == "" || s.passwordHash == "" {
		return "", domain.ErrInvalidCredentials
	}

	normalized := normalizeEmail(email)
	if normalized != s.adminEmail {
		return "", domain.ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(s.passwordHash), []byte(password)) != nil {
		return "", domain.ErrInvalidCredentials
	}

	return s.generateToken(normalized)
}

// AdminStatus inspects a bearer session token. Invalid, expired, or
// wrongly-signed tokens yield an unauthenticated status rather than an error.
func (s *AuthService) AdminStatus(token string) domain.AdminStatus {
	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil || !parsed.Valid {
		return domain.AdminStatus{}
	}

	email, _ := claims["email"].(string)
	return domain.AdminStatus{
		IsAuthenticated: true,
		IsAdmin:         s.isAdminEmail(email),
		Email:           email,
	}
}

func (s *AuthService) isAdminEmail(email string) bool {
	if email == "" || s.adminEmail == "" {
		return false
	}
	return normalizeEmail(email) == s.adminEmail
}

func (s *AuthService) generateToken(email string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   "admin",
		"email": email,
		"iat":   now.Unix(),
		"exp":   now.Add(s.tokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
