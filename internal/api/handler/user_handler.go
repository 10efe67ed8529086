package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/storehouse/access-api/internal/core/ports"
)

const secretBody = "Welcome to the secret area"

// UserHandler serves the authenticated-only informational routes.
type UserHandler struct {
	authService ports.AuthService
}

func NewUserHandler(authService ports.AuthService) *UserHandler {
	return &UserHandler{authService: authService}
}

// Secret handles GET /secret. Any resolved principal may see it.
//
// @Summary      Authenticated probe route
// @Tags         users
// @Produce      plain
// @Security     BearerAuth
// @Success      200  {string}  string
// @Failure      401  {object}  errorResponse
// @Router       /secret [get]
func (h *UserHandler) Secret(c echo.Context) error {
	return c.String(http.StatusOK, secretBody)
}

// Users handles GET /users. Admin only, returns usernames in creation order.
//
// @Summary      List registered usernames
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   string
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Router       /users [get]
func (h *UserHandler) Users(c echo.Context) error {
	usernames, err := h.authService.ListUsernames(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, usernames)
}
