package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/eaglecrew/rules-service/internal/api/middleware"
)

// ctxActor extracts the identity injected by the auth middlewares: the admin
// email for session callers, the token subject (or issuer) for capability
// token callers. Both values may be empty when the route runs without auth.
func ctxActor(c echo.Context) (actor, authMethod string) {
	actor, _ = c.Get(middleware.ContextKeyActor).(string)
	authMethod, _ = c.Get(middleware.ContextKeyAuthMethod).(string)
	return actor, authMethod
}
