package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/eaglecrew/rules-service/internal/api/metrics"
	"github.com/eaglecrew/rules-service/internal/core/ports"
)

// RuleCreator authorizes the rule-creation endpoint. The bearer credential is
// accepted when it is EITHER a valid capability token with the rules:create
// scope OR an admin session. The capability check runs first because it is a
// pure local computation.
func RuleCreator(capabilities ports.CapabilityService, auth ports.AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := BearerToken(c)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized")
			}

			verification := capabilities.Verify(token)
			if verification.IsValid {
				metrics.TokenVerificationsTotal.WithLabelValues("valid").Inc()

				actor := verification.Claims.Subject
				if actor == "" {
					actor = verification.Claims.Issuer
				}
				c.Set(ContextKeyActor, actor)
				c.Set(ContextKeyAuthMethod, AuthMethodCapabilityToken)

				return next(c)
			}
			metrics.TokenVerificationsTotal.WithLabelValues("invalid").Inc()

			status := auth.AdminStatus(token)
			if !status.IsAuthenticated || !status.IsAdmin {
				return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized")
			}

			c.Set(ContextKeyActor, status.Email)
			c.Set(ContextKeyAuthMethod, AuthMethodAdminSession)

			return next(c)
		}
	}
}
