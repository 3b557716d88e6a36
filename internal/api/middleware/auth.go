package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/docsewa/marketplace-api/internal/api/handler"
	"github.com/docsewa/marketplace-api/internal/core/domain"
	"github.com/docsewa/marketplace-api/internal/core/ports"
)

// SessionCookie is the cookie the login handler sets and this middleware
// reads. API clients may instead send the token as a bearer header.
const SessionCookie = "session_token"

// Session resolves the caller's session token into a Principal and injects it
// into the request context. Requests without a resolvable session fail with
// the auth service's domain error (401 via the error handler).
func Session(auth ports.AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := sessionToken(c)
			if token == "" {
				return domain.ErrUnauthenticated
			}

			principal, err := auth.Resolve(c.Request().Context(), token)
			if err != nil {
				return err
			}

			handler.SetPrincipal(c, *principal)
			return next(c)
		}
	}
}

// sessionToken extracts the token from the session cookie, falling back to
// an Authorization: Bearer header.
func sessionToken(c echo.Context) string {
	if cookie, err := c.Cookie(SessionCookie); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	header := c.Request().Header.Get("Authorization")
	parts := strings.SplitN(header, " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
		return strings.TrimSpace(parts[1])
	}
	return ""
}
