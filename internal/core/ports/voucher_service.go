package ports

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/docsewa/marketplace-api/internal/core/domain"
)

// CreateVoucherInput carries admin voucher creation data. Zero-valued optional
// fields mean "unset".
type CreateVoucherInput struct {
	Code           string
	DiscountType   domain.DiscountType
	DiscountValue  decimal.Decimal
	MinOrderAmount *decimal.Decimal
	MaxDiscount    *decimal.Decimal
	MaxUses        *int
	ValidUntil     *time.Time
}

// VoucherService implements public validation and admin management of
// discount codes. Validation is informational; redemption happens only during
// payment reconciliation.
type VoucherService interface {
	// Validate checks a code against an order amount. Unknown codes yield a
	// non-error result with Valid=false and the "Invalid code" reason.
	Validate(ctx context.Context, code string, orderAmount decimal.Decimal) (*domain.VoucherResult, error)

	// Redeem atomically consumes one use of the code.
	Redeem(ctx context.Context, code string) error

	List(ctx context.Context, p domain.Principal) ([]*domain.Voucher, error)
	Create(ctx context.Context, p domain.Principal, in CreateVoucherInput) (*domain.Voucher, error)
	SetActive(ctx context.Context, p domain.Principal, id string, active bool) error
	Delete(ctx context.Context, p domain.Principal, id string) error
}
