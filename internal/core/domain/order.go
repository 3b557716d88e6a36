package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus represents the lifecycle state of an order.
type OrderStatus string

const (
	OrderCreated          OrderStatus = "CREATED"
	OrderPaymentPending   OrderStatus = "PAYMENT_PENDING"
	OrderPaymentCompleted OrderStatus = "PAYMENT_COMPLETED"
	OrderProcessing       OrderStatus = "PROCESSING"
	OrderCompleted        OrderStatus = "COMPLETED"
	OrderCancelled        OrderStatus = "CANCELLED"
	OrderRefunded         OrderStatus = "REFUNDED"
)

// validTransitions defines the allowed state machine transitions.
// PAYMENT_PENDING is an optional pass-through: a fully discounted order jumps
// straight from CREATED to PAYMENT_COMPLETED.
var validTransitions = map[OrderStatus][]OrderStatus{
	OrderCreated:          {OrderPaymentPending, OrderPaymentCompleted, OrderCancelled},
	OrderPaymentPending:   {OrderPaymentCompleted, OrderCancelled},
	OrderPaymentCompleted: {OrderProcessing, OrderRefunded},
	OrderProcessing:       {OrderCompleted, OrderRefunded},
}

// CanTransitionTo reports whether a transition from the current status to next
// is legal for non-admin actors. Admins override the table entirely.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Cancellable reports whether a requester may still cancel: only before any
// partner work has started.
func (s OrderStatus) Cancellable() bool {
	return s == OrderCreated || s == OrderPaymentPending
}

// Terminal reports whether the status is a terminal off-ramp.
func (s OrderStatus) Terminal() bool {
	return s == OrderCompleted || s == OrderCancelled || s == OrderRefunded
}

// Valid reports whether s is one of the known order statuses.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderCreated, OrderPaymentPending, OrderPaymentCompleted,
		OrderProcessing, OrderCompleted, OrderCancelled, OrderRefunded:
		return true
	}
	return false
}

// PaymentStatus tracks the money side of an order independently of fulfillment.
type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "PENDING"
	PaymentSuccess  PaymentStatus = "SUCCESS"
	PaymentFailed   PaymentStatus = "FAILED"
	PaymentRefunded PaymentStatus = "REFUNDED"
)

// Order is the core aggregate root: a paid service request moving through the
// lifecycle state machine. ProviderID stays nil until a verified partner claims
// the order or an admin assigns one; it changes at most once without an admin
// override.
type Order struct {
	ID             string           `json:"id"`
	ServiceID      string           `json:"service_id"`
	CustomerID     string           `json:"customer_id"`
	ProviderID     *string          `json:"provider_id,omitempty"`
	Status         OrderStatus      `json:"status"`
	PaymentStatus  PaymentStatus    `json:"payment_status"`
	FinalPrice     *decimal.Decimal `json:"final_price,omitempty"`
	VoucherCode    string           `json:"voucher_code,omitempty"`
	DiscountAmount *decimal.Decimal `json:"discount_amount,omitempty"`
	Rating         *int             `json:"rating,omitempty"`
	Remarks        string           `json:"remarks,omitempty"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
}

// Assigned reports whether a provider has been attached.
func (o *Order) Assigned() bool {
	return o.ProviderID != nil && *o.ProviderID != ""
}
