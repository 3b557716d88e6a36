package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

var voucherNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func money(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func moneyPtr(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

func intPtr(v int) *int { return &v }

func activeVoucher(code string) *Voucher {
	until := voucherNow.AddDate(0, 6, 0)
	return &Voucher{
		ID:            "v_" + code,
		Code:          code,
		DiscountType:  DiscountPercentage,
		DiscountValue: money(10),
		IsActive:      true,
		ValidFrom:     voucherNow.AddDate(0, -1, 0),
		ValidUntil:    &until,
	}
}

func TestVoucher_Validate_PercentageWithCap(t *testing.T) {
	// SAVE20: 20% off, capped at 2000, no minimum. 5000 -> discount 1000, final 4000.
	v := activeVoucher("SAVE20")
	v.DiscountValue = money(20)
	v.MaxDiscount = moneyPtr(2000)

	res := v.Validate(money(5000), voucherNow)
	if !res.Valid {
		t.Fatalf("expected valid, got reason %q", res.Reason)
	}
	if !res.Discount.Equal(money(1000)) {
		t.Errorf("discount: expected 1000, got %s", res.Discount)
	}
	if !res.FinalAmount.Equal(money(4000)) {
		t.Errorf("final: expected 4000, got %s", res.FinalAmount)
	}
}

func TestVoucher_Validate_PercentageCapApplies(t *testing.T) {
	v := activeVoucher("SAVE20")
	v.DiscountValue = money(20)
	v.MaxDiscount = moneyPtr(2000)

	// 20% of 20000 = 4000, capped at 2000.
	res := v.Validate(money(20000), voucherNow)
	if !res.Discount.Equal(money(2000)) {
		t.Errorf("discount: expected cap 2000, got %s", res.Discount)
	}
	if !res.FinalAmount.Equal(money(18000)) {
		t.Errorf("final: expected 18000, got %s", res.FinalAmount)
	}
}

func TestVoucher_Validate_BelowMinimum(t *testing.T) {
	// FLAT500: 500 off, minimum order 999. 800 -> rejected.
	v := activeVoucher("FLAT500")
	v.DiscountType = DiscountFixed
	v.DiscountValue = money(500)
	v.MinOrderAmount = moneyPtr(999)

	res := v.Validate(money(800), voucherNow)
	if res.Valid {
		t.Fatal("expected invalid below minimum")
	}
	if res.Reason != VoucherReasonBelowMin {
		t.Errorf("reason: expected %q, got %q", VoucherReasonBelowMin, res.Reason)
	}
}

func TestVoucher_Validate_FixedDiscount(t *testing.T) {
	v := activeVoucher("FLAT500")
	v.DiscountType = DiscountFixed
	v.DiscountValue = money(500)
	v.MinOrderAmount = moneyPtr(999)

	res := v.Validate(money(1500), voucherNow)
	if !res.Valid {
		t.Fatalf("expected valid, got %q", res.Reason)
	}
	if !res.Discount.Equal(money(500)) || !res.FinalAmount.Equal(money(1000)) {
		t.Errorf("expected 500/1000, got %s/%s", res.Discount, res.FinalAmount)
	}
}

func TestVoucher_Validate_DiscountClampedToAmount(t *testing.T) {
	v := activeVoucher("BIG")
	v.DiscountType = DiscountFixed
	v.DiscountValue = money(5000)

	res := v.Validate(money(1200), voucherNow)
	if !res.Valid {
		t.Fatalf("expected valid, got %q", res.Reason)
	}
	if !res.Discount.Equal(money(1200)) {
		t.Errorf("discount must clamp to amount: got %s", res.Discount)
	}
	if !res.FinalAmount.Equal(decimal.Zero) {
		t.Errorf("final must be zero, got %s", res.FinalAmount)
	}
}

func TestVoucher_Validate_HundredPercent(t *testing.T) {
	v := activeVoucher("TESTFREE100")
	v.DiscountValue = money(100)

	res := v.Validate(money(2499), voucherNow)
	if !res.Valid {
		t.Fatalf("expected valid, got %q", res.Reason)
	}
	if !res.FinalAmount.IsZero() {
		t.Errorf("100%% voucher must zero the amount, got %s", res.FinalAmount)
	}
}

func TestVoucher_Validate_RoundsHalfUp(t *testing.T) {
	v := activeVoucher("SAVE")
	v.DiscountValue = money(15) // 15% of 1745 = 261.75 -> 262

	res := v.Validate(money(1745), voucherNow)
	if !res.Discount.Equal(money(262)) {
		t.Errorf("discount: expected 262 (half-up), got %s", res.Discount)
	}
	if !res.FinalAmount.Equal(money(1483)) {
		t.Errorf("final: expected 1483, got %s", res.FinalAmount)
	}
}

func TestVoucher_Validate_Rejections(t *testing.T) {
	past := voucherNow.AddDate(0, -2, 0)

	cases := []struct {
		name   string
		mutate func(*Voucher)
		reason string
	}{
		{"inactive", func(v *Voucher) { v.IsActive = false }, VoucherReasonInactive},
		{"not yet valid", func(v *Voucher) { v.ValidFrom = voucherNow.AddDate(0, 1, 0) }, VoucherReasonNotYetValid},
		{"expired", func(v *Voucher) { v.ValidUntil = &past }, VoucherReasonExpired},
		{"usage limit", func(v *Voucher) { v.MaxUses = intPtr(5); v.CurrentUses = 5 }, VoucherReasonUsageLimit},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			v := activeVoucher("X")
			tc.mutate(v)
			res := v.Validate(money(1000), voucherNow)
			if res.Valid {
				t.Fatal("expected invalid")
			}
			if res.Reason != tc.reason {
				t.Errorf("reason: expected %q, got %q", tc.reason, res.Reason)
			}
		})
	}
}

func TestVoucher_Validate_OpenEndedValidity(t *testing.T) {
	v := activeVoucher("FOREVER")
	v.ValidUntil = nil

	res := v.Validate(money(1000), voucherNow.AddDate(10, 0, 0))
	if !res.Valid {
		t.Errorf("nil validUntil means open-ended, got %q", res.Reason)
	}
}

func TestNormalizeVoucherCode(t *testing.T) {
	if got := NormalizeVoucherCode("  save20 "); got != "SAVE20" {
		t.Errorf("expected SAVE20, got %q", got)
	}
}
