package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/eaglecrew/rules-service/internal/core/ports"
)

// Context keys set by the auth middlewares.
const (
	// ContextKeyActor identifies who performed the request: the admin email
	// for session callers, the token subject (or issuer) for capability
	// token callers.
	ContextKeyActor = "actor"
	// ContextKeyAuthMethod is "admin_session" or "capability_token".
	ContextKeyAuthMethod = "auth_method"
)

const (
	AuthMethodAdminSession    = "admin_session"
	AuthMethodCapabilityToken = "capability_token"
)

// BearerToken extracts the bearer credential from the Authorization header.
func BearerToken(c echo.Context) (string, bool) {
	authHeader := c.Request().Header.Get("Authorization")
	if authHeader == "" {
		return "", false
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

// AdminSession requires a valid admin session token: 401 when the bearer
// credential is missing or does not authenticate, 403 when it authenticates
// as someone other than the configured admin.
func AdminSession(auth ports.AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := BearerToken(c)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized")
			}

			status := auth.AdminStatus(token)
			if !status.IsAuthenticated {
				return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized")
			}
			if !status.IsAdmin {
				return echo.NewHTTPError(http.StatusForbidden, "Forbidden")
			}

			c.Set(ContextKeyActor, status.Email)
			c.Set(ContextKeyAuthMethod, AuthMethodAdminSession)

			return next(c)
		}
	}
}
