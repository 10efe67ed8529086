package middleware

import (
	"context"

	"github.com/labstack/echo/v4"

	"github.com/storehouse/access-api/internal/core/domain"
)

// principalKey is the echo context key the resolved principal is stored under.
const principalKey = "principal"

// Authenticator resolves a parsed Authorization credential into a principal.
type Authenticator interface {
	Authenticate(ctx context.Context, cred domain.Credential) (domain.Principal, error)
}

// Authenticate parses the Authorization header into the credential union,
// resolves a principal, and injects it into the request context. A missing
// header, a malformed payload, and a failed verification all surface as the
// domain's 401-class errors; the error handler collapses them to one message.
func Authenticate(auth Authenticator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cred, err := domain.ParseAuthorization(c.Request().Header.Get("Authorization"))
			if err != nil {
				return err
			}

			principal, err := auth.Authenticate(c.Request().Context(), cred)
			if err != nil {
				return err
			}

			c.Set(principalKey, principal)
			return next(c)
		}
	}
}

// PrincipalFrom extracts the principal injected by Authenticate. The second
// return is false when no principal was resolved for this request.
func PrincipalFrom(c echo.Context) (domain.Principal, bool) {
	principal, ok := c.Get(principalKey).(domain.Principal)
	return principal, ok
}
