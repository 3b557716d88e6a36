package domain

import "errors"

// Error taxonomy. Every handler failure maps to exactly one of these (or an
// echo binding error) so the API layer can render a stable status code and
// machine-readable error code without leaking storage detail.
var (
	ErrUnauthenticated    = errors.New("not authenticated")
	ErrSessionExpired     = errors.New("session expired")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrForbidden          = errors.New("access forbidden")

	ErrUserNotFound    = errors.New("user not found")
	ErrUserExists      = errors.New("user already exists")
	ErrProfileNotFound = errors.New("profile not found")
	ErrOrderNotFound   = errors.New("order not found")
	ErrServiceNotFound = errors.New("service not found")
	ErrPartnerNotFound = errors.New("partner not found")
	ErrVoucherNotFound = errors.New("voucher not found")
	ErrVoucherExists   = errors.New("voucher code already exists")

	// ErrInvalidState: the caller has the right role and owns the resource,
	// but the order's current status does not permit the requested transition.
	ErrInvalidState = errors.New("invalid order state for this operation")
	// ErrAlreadyAssigned: the claim/assign conditional update matched no row
	// because another partner got there first.
	ErrAlreadyAssigned    = errors.New("order has already been assigned to a partner")
	ErrPartnerNotVerified = errors.New("partner is not verified")

	ErrInvalidSignature     = errors.New("invalid payment signature")
	ErrGatewayNotConfigured = errors.New("payment gateway credentials not configured")
	ErrGatewayUnavailable   = errors.New("payment gateway unavailable")

	// ErrConflict: a concurrent conditional update lost the race (voucher cap
	// reached between validate and redeem, etc.).
	ErrConflict = errors.New("conflicting concurrent update")

	ErrValidation = errors.New("invalid input")
)
