package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/eaglecrew/rules-service/internal/api/middleware"
	"github.com/eaglecrew/rules-service/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// adminStatusResponse extends domain.AdminStatus with an error field for the
// unauthenticated case, so clients get one stable shape either way.
type adminStatusResponse struct {
	IsAuthenticated bool   `json:"isAuthenticated"`
	IsAdmin         bool   `json:"isAdmin"`
	Email           string `json:"email,omitempty"`
	Error           string `json:"error,omitempty"`
}

// Login authenticates the configured admin credential and returns a session
// token.
//
// @Summary      Password login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  loginResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /v1/auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload.")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload.")
	}

	token, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, loginResponse{Token: token, Email: req.Email})
}

// AdminStatus reports whether the bearer session token belongs to the
// configured admin. A missing or invalid token yields a 401 carrying the same
// shape with both flags false, never an opaque error page.
//
// @Summary      Check admin status of the current session
// @Tags         auth
// @Produce      json
// @Success      200  {object}  adminStatusResponse
// @Failure      401  {object}  adminStatusResponse
// @Router       /v1/auth/admin-status [get]
func (h *AuthHandler) AdminStatus(c echo.Context) error {
	token, ok := middleware.BearerToken(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, adminStatusResponse{Error: "Unauthorized"})
	}

	status := h.authService.AdminStatus(token)
	if !status.IsAuthenticated {
		return c.JSON(http.StatusUnauthorized, adminStatusResponse{Error: "Unauthorized"})
	}

	return c.JSON(http.StatusOK, adminStatusResponse{
		IsAuthenticated: status.IsAuthenticated,
		IsAdmin:         status.IsAdmin,
		Email:           status.Email,
	})
}
