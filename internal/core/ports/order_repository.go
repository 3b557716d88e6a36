package ports

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/docsewa/marketplace-api/internal/core/domain"
)

// OrderListFilter scopes an order listing. Zero values mean "no filter";
// the service layer always sets the scope matching the caller's role.
type OrderListFilter struct {
	CustomerID string
	ProviderID string
	// Unassigned additionally includes payment-completed orders with no
	// provider (the marketplace pool a partner may claim from).
	Unassigned bool
}

// OrderUpdate is a partial mutation applied by PATCH. Nil fields are left
// untouched.
type OrderUpdate struct {
	Status  *domain.OrderStatus
	Rating  *int
	Remarks *string
}

// StatusUpdate is the poll-feed projection of one mutated order.
type StatusUpdate struct {
	OrderID       string
	Status        domain.OrderStatus
	PaymentStatus domain.PaymentStatus
	ServiceID     string
	UpdatedAt     time.Time
}

// OrderRepository defines persistence for orders. Claim, Assign and MarkPaid
// are conditional updates evaluated atomically at the store; they are the only
// legal way to mutate provider_id or move an order into PAYMENT_COMPLETED.
type OrderRepository interface {
	Create(ctx context.Context, o *domain.Order) error
	FindByID(ctx context.Context, id string) (*domain.Order, error)
	List(ctx context.Context, filter OrderListFilter) ([]*domain.Order, error)

	// Claim attaches providerID to an unassigned PAYMENT_COMPLETED order and
	// moves it to PROCESSING in one conditional update. Exactly one of two
	// concurrent claims succeeds; the loser gets domain.ErrAlreadyAssigned
	// (or domain.ErrInvalidState when the order was never claimable).
	Claim(ctx context.Context, orderID, providerID string) (*domain.Order, error)

	// Assign is the admin override: sets providerID unconditionally and
	// promotes status to PROCESSING only when the order is currently
	// PAYMENT_COMPLETED.
	Assign(ctx context.Context, orderID, providerID string) (*domain.Order, error)

	// MarkPaid moves an order into PAYMENT_COMPLETED/SUCCESS if and only if it
	// is still in a pre-payment status, setting finalPrice when non-nil.
	// Returns applied=false when the order was already reconciled, so the
	// caller can keep reconciliation idempotent (no double voucher redeem).
	MarkPaid(ctx context.Context, orderID string, finalPrice *decimal.Decimal) (applied bool, err error)

	// ApplyUpdate performs the role-checked partial mutation of PATCH.
	ApplyUpdate(ctx context.Context, orderID string, update OrderUpdate) (*domain.Order, error)

	// UpdatedSince returns up to limit orders in scope mutated after since,
	// newest first.
	UpdatedSince(ctx context.Context, filter OrderListFilter, since time.Time, limit int) ([]StatusUpdate, error)

	Count(ctx context.Context) (int64, error)
	// RevenueTotal sums final_price across successfully paid orders.
	RevenueTotal(ctx context.Context) (decimal.Decimal, error)
}
