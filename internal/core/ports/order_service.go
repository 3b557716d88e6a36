package ports

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/docsewa/marketplace-api/internal/core/domain"
)

// CreateOrderInput carries the data needed to place an order. The price is
// never taken from the caller; it derives from the service's base price and
// the voucher engine.
type CreateOrderInput struct {
	ServiceID   string
	VoucherCode string
}

// CreateOrderResult is returned after placing an order.
type CreateOrderResult struct {
	OrderID     string
	Status      domain.OrderStatus
	BasePrice   decimal.Decimal
	Discount    decimal.Decimal
	FinalPrice  decimal.Decimal
	VoucherCode string
	CreatedAt   time.Time
}

// UpdateOrderInput is the PATCH payload. Which fields are honoured depends on
// the caller's role (see OrderService.Update).
type UpdateOrderInput struct {
	Status  *domain.OrderStatus
	Rating  *int
	Remarks *string
}

// OrderDetail is the full order view with resolved references.
type OrderDetail struct {
	Order    *domain.Order
	Service  *domain.Service
	Customer *domain.RequesterProfile
	Provider *domain.PartnerProfile
}

// StatusFeedItem is one entry of the poll feed, with the service label
// resolved for display.
type StatusFeedItem struct {
	OrderID       string               `json:"order_id"`
	Status        domain.OrderStatus   `json:"status"`
	PaymentStatus domain.PaymentStatus `json:"payment_status"`
	Service       string               `json:"service"`
	UpdatedAt     time.Time            `json:"updated_at"`
}

// StatusFeed is the poll response: the batch plus the server timestamp the
// caller must persist as the next since cursor.
type StatusFeed struct {
	Updates   []StatusFeedItem `json:"updates"`
	Timestamp time.Time        `json:"timestamp"`
}

// OrderService defines the order lifecycle use cases. Every method receives
// the resolved Principal explicitly; none reads ambient auth state.
type OrderService interface {
	// Create places an order for the calling requester, pricing it through
	// the voucher engine when a code is supplied.
	Create(ctx context.Context, p domain.Principal, in CreateOrderInput) (*CreateOrderResult, error)

	// Get returns an order with references resolved, enforcing role scope:
	// requesters see their own, partners see assigned or unassigned orders,
	// admins see all.
	Get(ctx context.Context, p domain.Principal, orderID string) (*OrderDetail, error)

	// List returns the orders visible to the principal, newest first.
	List(ctx context.Context, p domain.Principal) ([]*domain.Order, error)

	// Update applies the role-scoped PATCH matrix: requester cancel (before
	// processing) and post-completion rating/remarks, partner status
	// progression on assigned orders, admin anything.
	Update(ctx context.Context, p domain.Principal, orderID string, in UpdateOrderInput) (*domain.Order, error)

	// Accept lets a verified partner claim an unassigned payment-completed
	// order. Exclusive under concurrency.
	Accept(ctx context.Context, p domain.Principal, orderID string) (*domain.Order, error)

	// Assign lets an admin attach a verified partner to an order.
	Assign(ctx context.Context, p domain.Principal, orderID, providerID string) (*domain.Order, error)

	// StatusFeed returns orders in the caller's scope mutated after since.
	StatusFeed(ctx context.Context, p domain.Principal, since time.Time) (*StatusFeed, error)
}
