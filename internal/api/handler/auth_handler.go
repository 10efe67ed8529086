package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/storehouse/access-api/internal/core/domain"
	"github.com/storehouse/access-api/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Signup creates a new user account.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      signupRequest  true  "User registration details"
// @Success      201   {object}  authResponse
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /signup [post]
func (h *AuthHandler) Signup(c echo.Context) error {
	var req signupRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	role, err := domain.ParseRole(req.Role)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.authService.Signup(c.Request().Context(), req.Username, req.Password, role)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, authResponse{User: toUserView(user, "")})
}

// Signin authenticates a user via Basic credentials and returns a token.
// The credentials travel in the Authorization header, not the body.
//
// @Summary      Sign in with Basic credentials
// @Tags         auth
// @Produce      json
// @Security     BasicAuth
// @Success      200  {object}  authResponse
// @Failure      401  {object}  errorResponse
// @Failure      429  {object}  errorResponse
// @Router       /signin [post]
func (h *AuthHandler) Signin(c echo.Context) error {
	cred, err := domain.ParseAuthorization(c.Request().Header.Get("Authorization"))
	if err != nil {
		return err
	}

	basic, ok := cred.(domain.BasicCredential)
	if !ok {
		// Signin exchanges a password for a token; a Bearer token here is the
		// wrong scheme, not an alternative one.
		return domain.ErrMalformedCredentials
	}

	user, token, err := h.authService.Signin(c.Request().Context(), basic.Username, basic.Password)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, authResponse{User: toUserView(user, token)})
}
