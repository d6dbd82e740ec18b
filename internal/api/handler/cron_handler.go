package handler

import (
	"context"
	"crypto/subtle"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/eaglecrew/rules-service/internal/api/middleware"
)

// StorePinger issues a minimal read against the backing store.
type StorePinger interface {
	Ping(ctx context.Context) error
}

// CronHandler serves the scheduled keepalive endpoint that stops the backing
// store from being paused for inactivity.
type CronHandler struct {
	store  StorePinger
	secret string
}

func NewCronHandler(store StorePinger, secret string) *CronHandler {
	return &CronHandler{store: store, secret: secret}
}

// Keepalive handles GET /v1/cron/keepalive. When a cron secret is configured
// the caller must present it, as a bearer credential or in X-Cron-Secret;
// when it is not, the endpoint stays open since a keepalive read is harmless.
//
// @Summary      Touch the backing store so it is not idled
// @Tags         cron
// @Produce      json
// @Param        X-Cron-Secret  header    string  false  "Cron secret (alternative to Authorization: Bearer)"
// @Success      200            {object}  keepaliveResponse
// @Failure      401            {object}  errorResponse
// @Failure      500            {object}  errorResponse
// @Router       /v1/cron/keepalive [get]
func (h *CronHandler) Keepalive(c echo.Context) error {
	if h.secret != "" && !h.authorized(c) {
		return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized")
	}

	if err := h.store.Ping(c.Request().Context()); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, keepaliveResponse{
		OK:        true,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

func (h *CronHandler) authorized(c echo.Context) bool {
	candidate, ok := middleware.BearerToken(c)
	if !ok {
		candidate = c.Request().Header.Get("X-Cron-Secret")
	}
	if candidate == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(candidate), []byte(h.secret)) == 1
}
