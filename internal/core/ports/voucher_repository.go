package ports

import (
	"context"

	"github.com/docsewa/marketplace-api/internal/core/domain"
)

// VoucherRepository defines persistence for vouchers. Redeem must be a single
// conditional increment at the store so that concurrent redemptions can never
// push current_uses past max_uses.
type VoucherRepository interface {
	Create(ctx context.Context, v *domain.Voucher) (*domain.Voucher, error)
	FindByCode(ctx context.Context, code string) (*domain.Voucher, error)
	List(ctx context.Context) ([]*domain.Voucher, error)
	SetActive(ctx context.Context, id string, active bool) error
	Delete(ctx context.Context, id string) error

	// Redeem atomically increments current_uses, guarded by the usage cap.
	// Returns domain.ErrConflict when the cap was reached concurrently and
	// domain.ErrVoucherNotFound for unknown codes.
	Redeem(ctx context.Context, code string) error
}
