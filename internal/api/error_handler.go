package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/docsewa/marketplace-api/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors. Code is
// the machine-readable taxonomy name; Error carries the human message.
type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their appropriate HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"error": "...", "code": "..."}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status, code, msg := resolveError(err, log, c)
		_ = c.JSON(status, errorResponse{Error: msg, Code: code})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string, string) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, codeForStatus(he.Code), fmt.Sprintf("%v", he.Message)
	}

	// Known domain errors map to deterministic statuses. Auth failures never
	// reveal whether the account, session or resource exists.
	switch {
	case errors.Is(err, domain.ErrSessionExpired):
		return http.StatusUnauthorized, "SESSION_EXPIRED", "session expired"
	case errors.Is(err, domain.ErrUnauthenticated):
		return http.StatusUnauthorized, "UNAUTHENTICATED", "authentication required"
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, "INVALID_CREDENTIALS", "invalid credentials"

	case errors.Is(err, domain.ErrPartnerNotVerified):
		return http.StatusForbidden, "PARTNER_NOT_VERIFIED", err.Error()
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, "FORBIDDEN", "access forbidden"

	case errors.Is(err, domain.ErrOrderNotFound),
		errors.Is(err, domain.ErrServiceNotFound),
		errors.Is(err, domain.ErrPartnerNotFound),
		errors.Is(err, domain.ErrVoucherNotFound),
		errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrProfileNotFound):
		return http.StatusNotFound, "NOT_FOUND", err.Error()

	case errors.Is(err, domain.ErrInvalidState),
		errors.Is(err, domain.ErrAlreadyAssigned):
		return http.StatusBadRequest, "INVALID_STATE", err.Error()
	case errors.Is(err, domain.ErrInvalidSignature):
		return http.StatusBadRequest, "INVALID_SIGNATURE", err.Error()
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest, "VALIDATION_ERROR", err.Error()

	case errors.Is(err, domain.ErrUserExists),
		errors.Is(err, domain.ErrVoucherExists),
		errors.Is(err, domain.ErrConflict):
		return http.StatusConflict, "CONFLICT", err.Error()

	case errors.Is(err, domain.ErrGatewayNotConfigured):
		return http.StatusInternalServerError, "CONFIGURATION_ERROR", "payment gateway not configured"
	case errors.Is(err, domain.ErrGatewayUnavailable):
		return http.StatusInternalServerError, "UPSTREAM_ERROR", "payment gateway unavailable"
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "INTERNAL", "internal server error"
}

func codeForStatus(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "VALIDATION_ERROR"
	case http.StatusUnauthorized:
		return "UNAUTHENTICATED"
	case http.StatusForbidden:
		return "FORBIDDEN"
	case http.StatusNotFound:
		return "NOT_FOUND"
	default:
		return "INTERNAL"
	}
}
