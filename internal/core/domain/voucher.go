package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DiscountType distinguishes percentage vouchers from flat-amount vouchers.
type DiscountType string

const (
	DiscountPercentage DiscountType = "PERCENTAGE"
	DiscountFixed      DiscountType = "FIXED"
)

// Voucher is a discount code. CurrentUses never exceeds MaxUses (when set);
// the increment is a conditional update at the store, never read-then-write.
type Voucher struct {
	ID             string           `json:"id"`
	Code           string           `json:"code"`
	DiscountType   DiscountType     `json:"discount_type"`
	DiscountValue  decimal.Decimal  `json:"discount_value"`
	MinOrderAmount *decimal.Decimal `json:"min_order_amount,omitempty"`
	// MaxDiscount caps the computed discount; meaningful for PERCENTAGE only.
	MaxDiscount *decimal.Decimal `json:"max_discount,omitempty"`
	MaxUses     *int             `json:"max_uses,omitempty"`
	CurrentUses int              `json:"current_uses"`
	IsActive    bool             `json:"is_active"`
	ValidFrom   time.Time        `json:"valid_from"`
	ValidUntil  *time.Time       `json:"valid_until,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
}

// NormalizeVoucherCode upper-cases and trims a code; lookups are always by the
// normalized form.
func NormalizeVoucherCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Voucher rejection reasons, surfaced verbatim to the caller.
const (
	VoucherReasonInvalidCode = "Invalid code"
	VoucherReasonInactive    = "Inactive"
	VoucherReasonNotYetValid = "Not yet valid"
	VoucherReasonExpired     = "Expired"
	VoucherReasonUsageLimit  = "Usage limit reached"
	VoucherReasonBelowMin    = "Below minimum order amount"
)

// VoucherResult is the informational outcome of validating a code against an
// order amount. It reserves nothing; redemption is a separate atomic step.
type VoucherResult struct {
	Valid       bool            `json:"valid"`
	Discount    decimal.Decimal `json:"discount"`
	FinalAmount decimal.Decimal `json:"final_amount"`
	Reason      string          `json:"reason,omitempty"`
}

// Validate checks the voucher against an order amount at a point in time and
// computes the discount. Checks short-circuit in a fixed order; amounts are
// rounded half-up to whole currency units.
func (v *Voucher) Validate(orderAmount decimal.Decimal, now time.Time) VoucherResult {
	reject := func(reason string) VoucherResult {
		return VoucherResult{Valid: false, FinalAmount: orderAmount.Round(0), Reason: reason}
	}

	if !v.IsActive {
		return reject(VoucherReasonInactive)
	}
	if now.Before(v.ValidFrom) {
		return reject(VoucherReasonNotYetValid)
	}
	if v.ValidUntil != nil && now.After(*v.ValidUntil) {
		return reject(VoucherReasonExpired)
	}
	if v.MaxUses != nil && v.CurrentUses >= *v.MaxUses {
		return reject(VoucherReasonUsageLimit)
	}
	if v.MinOrderAmount != nil && orderAmount.LessThan(*v.MinOrderAmount) {
		return reject(VoucherReasonBelowMin)
	}

	var discount decimal.Decimal
	switch v.DiscountType {
	case DiscountPercentage:
		discount = orderAmount.Mul(v.DiscountValue).Div(decimal.NewFromInt(100))
		if v.MaxDiscount != nil && discount.GreaterThan(*v.MaxDiscount) {
			discount = *v.MaxDiscount
		}
	default: // FIXED
		discount = v.DiscountValue
	}

	// The discount never exceeds the price; the final amount is never negative.
	if discount.GreaterThan(orderAmount) {
		discount = orderAmount
	}

	discount = discount.Round(0)
	final := orderAmount.Round(0).Sub(discount)
	if final.IsNegative() {
		final = decimal.Zero
	}

	return VoucherResult{Valid: true, Discount: discount, FinalAmount: final}
}

// Exhausted reports whether the usage cap has been reached.
func (v *Voucher) Exhausted() bool {
	return v.MaxUses != nil && v.CurrentUses >= *v.MaxUses
}
