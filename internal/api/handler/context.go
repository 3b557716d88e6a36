package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/docsewa/marketplace-api/internal/core/domain"
)

const principalKey = "principal"

// SetPrincipal stashes the resolved Principal for the rest of the request.
// Called by the Session middleware only.
func SetPrincipal(c echo.Context, p domain.Principal) {
	c.Set(principalKey, p)
}

// Principal extracts the Principal injected by the Session middleware. A
// missing principal means the route was wired without the middleware; fail
// closed as unauthenticated.
func Principal(c echo.Context) (domain.Principal, error) {
	p, ok := c.Get(principalKey).(domain.Principal)
	if !ok || p.Role == "" {
		return domain.Principal{}, domain.ErrUnauthenticated
	}
	return p, nil
}
