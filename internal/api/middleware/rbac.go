package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/storehouse/access-api/internal/core/domain"
)

// RBAC enforces the route's role requirement against the principal resolved
// by Authenticate. A request with no principal is unauthenticated; a principal
// with the wrong role is forbidden.
func RBAC(allowedRoles ...domain.Role) echo.MiddlewareFunc {
	allowed := make(map[domain.Role]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			principal, ok := PrincipalFrom(c)
			if !ok {
				return domain.ErrUnauthenticated
			}
			if _, ok := allowed[principal.Role]; !ok {
				return domain.ErrForbidden
			}
			return next(c)
		}
	}
}
