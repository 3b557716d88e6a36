package ports

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/docsewa/marketplace-api/internal/core/domain"
)

// GatewayIntent is the remote payment-provider record representing an
// expected payment.
type GatewayIntent struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"` // minor units (paise)
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
}

// PaymentGateway is the external payment provider. CreateIntent sizes the
// intent in the gateway's minor currency unit; VerifySignature checks the
// provider's HMAC over its order and payment identifiers. No other trust is
// assumed from the gateway.
type PaymentGateway interface {
	CreateIntent(ctx context.Context, amountMinorUnits int64, currency, receipt string) (*GatewayIntent, error)
	VerifySignature(gatewayOrderID, paymentID, signature string) bool
}

// VerifyPaymentInput is the reconciliation payload. Either the signed triple
// (GatewayOrderID, PaymentID, Signature) or FreeOrder must be supplied,
// always together with the local OrderID.
type VerifyPaymentInput struct {
	OrderID        string
	GatewayOrderID string
	PaymentID      string
	Signature      string
	// FreeOrder marks a zero-priced order (100% voucher); no gateway payment
	// exists, so no signature is required and ownership is checked instead.
	FreeOrder bool
}

// PaymentService integrates the gateway with the order state machine.
type PaymentService interface {
	// CreateIntent requests a remote payment intent for the given amount in
	// whole currency units.
	CreateIntent(ctx context.Context, p domain.Principal, amount decimal.Decimal) (*GatewayIntent, error)

	// Verify reconciles a gateway confirmation into the order: verifies the
	// signature (or the free-order ownership), marks the order paid, and
	// redeems an attached voucher exactly once. Idempotent under replay.
	Verify(ctx context.Context, p domain.Principal, in VerifyPaymentInput) error
}
