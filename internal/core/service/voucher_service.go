package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/docsewa/marketplace-api/internal/core/domain"
	"github.com/docsewa/marketplace-api/internal/core/ports"
)

// VoucherService implements public voucher validation and admin management.
// Validation is purely informational; redemption is the separate atomic
// increment performed during payment reconciliation.
type VoucherService struct {
	repo ports.VoucherRepository
	log  zerolog.Logger
	// now is swappable for tests.
	now func() time.Time
}

func NewVoucherService(repo ports.VoucherRepository, log zerolog.Logger) *VoucherService {
	return &VoucherService{repo: repo, log: log, now: func() time.Time { return time.Now().UTC() }}
}

// Validate checks a code against an order amount. An unknown code is not an
// error: the result carries Valid=false with the rejection reason.
func (s *VoucherService) Validate(ctx context.Context, code string, orderAmount decimal.Decimal) (*domain.VoucherResult, error) {
	normalized := domain.NormalizeVoucherCode(code)
	if normalized == "" {
		return nil, domain.ErrValidation
	}

	voucher, err := s.repo.FindByCode(ctx, normalized)
	if err != nil {
		if errors.Is(err, domain.ErrVoucherNotFound) {
			return &domain.VoucherResult{
				Valid:       false,
				FinalAmount: orderAmount.Round(0),
				Reason:      domain.VoucherReasonInvalidCode,
			}, nil
		}
		return nil, err
	}

	result := voucher.Validate(orderAmount, s.now())
	return &result, nil
}

// Redeem consumes one use of the code. The cap check happens inside the
// store's conditional increment, never here.
func (s *VoucherService) Redeem(ctx context.Context, code string) error {
	normalized := domain.NormalizeVoucherCode(code)
	if normalized == "" {
		return domain.ErrValidation
	}

	if err := s.repo.Redeem(ctx, normalized); err != nil {
		return err
	}
	s.log.Info().Str("code", normalized).Msg("voucher redeemed")
	return nil
}

// List returns all vouchers, admin only.
func (s *VoucherService) List(ctx context.Context, p domain.Principal) ([]*domain.Voucher, error) {
	if !p.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	return s.repo.List(ctx)
}

// Create registers a new voucher, admin only.
func (s *VoucherService) Create(ctx context.Context, p domain.Principal, in ports.CreateVoucherInput) (*domain.Voucher, error) {
	if !p.IsAdmin() {
		return nil, domain.ErrForbidden
	}

	code := domain.NormalizeVoucherCode(in.Code)
	if code == "" || in.DiscountValue.LessThanOrEqual(decimal.Zero) {
		return nil, domain.ErrValidation
	}
	switch in.DiscountType {
	case domain.DiscountPercentage:
		if in.DiscountValue.GreaterThan(decimal.NewFromInt(100)) {
			return nil, domain.ErrValidation
		}
	case domain.DiscountFixed:
	default:
		return nil, domain.ErrValidation
	}

	voucher, err := s.repo.Create(ctx, &domain.Voucher{
		ID:             uuid.NewString(),
		Code:           code,
		DiscountType:   in.DiscountType,
		DiscountValue:  in.DiscountValue,
		MinOrderAmount: in.MinOrderAmount,
		MaxDiscount:    in.MaxDiscount,
		MaxUses:        in.MaxUses,
		IsActive:       true,
		ValidFrom:      s.now(),
		ValidUntil:     in.ValidUntil,
		CreatedAt:      s.now(),
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("code", code).Str("type", string(in.DiscountType)).Msg("voucher created")
	return voucher, nil
}

// SetActive toggles a voucher, admin only.
func (s *VoucherService) SetActive(ctx context.Context, p domain.Principal, id string, active bool) error {
	if !p.IsAdmin() {
		return domain.ErrForbidden
	}
	return s.repo.SetActive(ctx, id, active)
}

// Delete removes a voucher, admin only.
func (s *VoucherService) Delete(ctx context.Context, p domain.Principal, id string) error {
	if !p.IsAdmin() {
		return domain.ErrForbidden
	}
	return s.repo.Delete(ctx, id)
}
