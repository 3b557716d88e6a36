package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/docsewa/marketplace-api/internal/api/handler"
	"github.com/docsewa/marketplace-api/internal/core/domain"
)

// RBAC enforces role-based access control over the resolved Principal. It
// must run after Session.
func RBAC(allowedRoles ...domain.Role) echo.MiddlewareFunc {
	allowed := make(map[domain.Role]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			principal, err := handler.Principal(c)
			if err != nil {
				return err
			}
			if _, ok := allowed[principal.Role]; !ok {
				return domain.ErrForbidden
			}
			return next(c)
		}
	}
}
