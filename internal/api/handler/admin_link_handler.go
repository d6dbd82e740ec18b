package handler

import (
	"crypto/subtle"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/eaglecrew/rules-service/internal/api/metrics"
	"github.com/eaglecrew/rules-service/internal/api/middleware"
	"github.com/eaglecrew/rules-service/internal/core/ports"
)

// AdminLinkHandler mints one-shot admin links for trusted automation (the
// Discord bot). Callers authenticate with a static issuer secret, shared
// out-of-band, not with an admin session.
type AdminLinkHandler struct {
	capabilities ports.CapabilityService
	issuerSecret string
	baseURL      string
}

func NewAdminLinkHandler(capabilities ports.CapabilityService, issuerSecret, baseURL string) *AdminLinkHandler {
	return &AdminLinkHandler{
		capabilities: capabilities,
		issuerSecret: issuerSecret,
		baseURL:      baseURL,
	}
}

// Create handles POST /v1/admin-links.
//
// @Summary      Issue an admin link with an embedded capability token
// @Tags         admin-links
// @Accept       json
// @Produce      json
// @Param        X-Admin-Link-Secret  header    string                  false  "Issuer secret (alternative to Authorization: Bearer)"
// @Param        body                 body      createAdminLinkRequest  false  "Token options"
// @Success      200                  {object}  createAdminLinkResponse
// @Failure      400                  {object}  errorResponse
// @Failure      401                  {object}  errorResponse
// @Failure      500                  {object}  errorResponse
// @Router       /v1/admin-links [post]
func (h *AdminLinkHandler) Create(c echo.Context) error {
	if !h.authorized(c) {
		return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized")
	}

	// The body is optional: bots that want the defaults send nothing at all.
	var req createAdminLinkRequest
	if err := c.Bind(&req); err != nil {
		req = createAdminLinkRequest{}
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload.")
	}

	ttl := req.TTLMinutes
	if ttl == nil {
		ttl = req.TTLMinutesAlt
	}

	token, err := h.capabilities.Issue(ports.IssueTokenInput{
		TTLMinutes: ttl,
		Subject:    strings.TrimSpace(req.Actor),
		Issuer:     strings.TrimSpace(req.Issuer),
	})
	if err != nil {
		return err
	}

	// Read the expiry back off the minted token rather than recomputing it,
	// so the response always matches what the token actually says.
	verification := h.capabilities.Verify(token)
	if !verification.IsValid {
		return echo.NewHTTPError(http.StatusInternalServerError, "Could not create token.")
	}

	metrics.AdminLinksIssuedTotal.Inc()

	return c.JSON(http.StatusOK, createAdminLinkResponse{
		Token:     token,
		URL:       h.baseURL + "/?admin=" + url.QueryEscape(token),
		ExpiresAt: time.Unix(verification.Claims.ExpiresAt, 0).UTC().Format(time.RFC3339),
	})
}

// authorized checks the issuer secret, accepted either as a bearer credential
// or in the X-Admin-Link-Secret header. An unset secret disables the endpoint
// entirely rather than leaving it open.
func (h *AdminLinkHandler) authorized(c echo.Context) bool {
	if h.issuerSecret == "" {
		return false
	}

	candidate, ok := middleware.BearerToken(c)
	if !ok {
		candidate = c.Request().Header.Get("X-Admin-Link-Secret")
	}
	if candidate == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(candidate), []byte(h.issuerSecret)) == 1
}
