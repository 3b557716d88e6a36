package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/docsewa/marketplace-api/internal/api/metrics"
	"github.com/docsewa/marketplace-api/internal/core/domain"
	"github.com/docsewa/marketplace-api/internal/core/ports"
)

const (
	statusFeedLimit   = 10
	statusFeedDefault = 60 * time.Second

	minRating = 1
	maxRating = 5
)

// OrderService implements the order lifecycle state machine. All writes that
// carry a correctness-critical invariant (claim exclusivity, provider
// immutability, paid-state entry) are delegated to the repository's
// conditional updates; this layer decides who may ask for which transition.
type OrderService struct {
	orders     ports.OrderRepository
	catalog    ports.ServiceRepository
	partners   ports.PartnerRepository
	requesters ports.RequesterRepository
	vouchers   ports.VoucherService
	log        zerolog.Logger
	now        func() time.Time
}

func NewOrderService(
	orders ports.OrderRepository,
	catalog ports.ServiceRepository,
	partners ports.PartnerRepository,
	requesters ports.RequesterRepository,
	vouchers ports.VoucherService,
	log zerolog.Logger,
) *OrderService {
	return &OrderService{
		orders:     orders,
		catalog:    catalog,
		partners:   partners,
		requesters: requesters,
		vouchers:   vouchers,
		log:        log,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// Create places an order for the calling requester. The price derives from
// the catalog entry and, when a code is supplied, the voucher engine; it is
// locked at creation and never taken from the caller.
func (s *OrderService) Create(ctx context.Context, p domain.Principal, in ports.CreateOrderInput) (*ports.CreateOrderResult, error) {
	if p.Role != domain.RoleRequester {
		return nil, domain.ErrForbidden
	}
	if p.ProfileID == "" {
		return nil, domain.ErrProfileNotFound
	}

	svc, err := s.catalog.FindByID(ctx, in.ServiceID)
	if err != nil {
		return nil, err
	}
	if !svc.IsActive {
		return nil, domain.ErrServiceNotFound
	}

	basePrice := svc.BasePrice.Round(0)
	discount := decimal.Zero
	finalPrice := basePrice
	voucherCode := ""

	if in.VoucherCode != "" {
		result, err := s.vouchers.Validate(ctx, in.VoucherCode, basePrice)
		if err != nil {
			return nil, err
		}
		if !result.Valid {
			return nil, fmt.Errorf("%w: voucher rejected: %s", domain.ErrValidation, result.Reason)
		}
		discount = result.Discount
		finalPrice = result.FinalAmount
		voucherCode = domain.NormalizeVoucherCode(in.VoucherCode)
	}

	now := s.now()
	order := &domain.Order{
		ID:            uuid.NewString(),
		ServiceID:     svc.ID,
		CustomerID:    p.ProfileID,
		Status:        domain.OrderCreated,
		PaymentStatus: domain.PaymentPending,
		FinalPrice:    &finalPrice,
		VoucherCode:   voucherCode,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if voucherCode != "" {
		order.DiscountAmount = &discount
	}

	if err := s.orders.Create(ctx, order); err != nil {
		return nil, err
	}

	metrics.OrdersCreatedTotal.WithLabelValues(svc.DocumentType).Inc()
	s.log.Info().
		Str("order_id", order.ID).
		Str("service_id", svc.ID).
		Str("final_price", finalPrice.String()).
		Msg("order created")

	return &ports.CreateOrderResult{
		OrderID:     order.ID,
		Status:      order.Status,
		BasePrice:   basePrice,
		Discount:    discount,
		FinalPrice:  finalPrice,
		VoucherCode: voucherCode,
		CreatedAt:   now,
	}, nil
}

// Get returns an order with references resolved, enforcing role scope.
func (s *OrderService) Get(ctx context.Context, p domain.Principal, orderID string) (*ports.OrderDetail, error) {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	switch p.Role {
	case domain.RoleRequester:
		if order.CustomerID != p.ProfileID {
			return nil, domain.ErrForbidden
		}
	case domain.RolePartner:
		// Partners see their assigned orders and the unassigned pool.
		if order.Assigned() && *order.ProviderID != p.ProfileID {
			return nil, domain.ErrForbidden
		}
	case domain.RoleAdmin:
	default:
		return nil, domain.ErrForbidden
	}

	detail := &ports.OrderDetail{Order: order}
	if svc, err := s.catalog.FindByID(ctx, order.ServiceID); err == nil {
		detail.Service = svc
	}
	if customer, err := s.requesters.FindByID(ctx, order.CustomerID); err == nil {
		detail.Customer = customer
	}
	if order.Assigned() {
		if provider, err := s.partners.FindByID(ctx, *order.ProviderID); err == nil {
			detail.Provider = provider
		}
	}
	return detail, nil
}

// List returns the orders visible to the principal, newest first.
func (s *OrderService) List(ctx context.Context, p domain.Principal) ([]*domain.Order, error) {
	filter, err := scopeFilter(p)
	if err != nil {
		return nil, err
	}
	return s.orders.List(ctx, filter)
}

// Update applies the role-scoped PATCH matrix. Unauthorized fields and
// transitions are rejected, never silently ignored.
func (s *OrderService) Update(ctx context.Context, p domain.Principal, orderID string, in ports.UpdateOrderInput) (*domain.Order, error) {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	var update ports.OrderUpdate

	switch p.Role {
	case domain.RoleRequester:
		if order.CustomerID != p.ProfileID {
			return nil, domain.ErrForbidden
		}
		update, err = requesterUpdate(order, in)
	case domain.RolePartner:
		if !order.Assigned() || *order.ProviderID != p.ProfileID {
			return nil, domain.ErrForbidden
		}
		update, err = partnerUpdate(order, in)
	case domain.RoleAdmin:
		update, err = adminUpdate(in)
	default:
		return nil, domain.ErrForbidden
	}
	if err != nil {
		return nil, err
	}

	if update.Status == nil && update.Rating == nil && update.Remarks == nil {
		return nil, fmt.Errorf("%w: no valid updates for role %s", domain.ErrValidation, p.Role)
	}

	updated, err := s.orders.ApplyUpdate(ctx, orderID, update)
	if err != nil {
		return nil, err
	}

	if update.Status != nil {
		metrics.OrderTransitionsTotal.WithLabelValues(string(*update.Status), string(p.Role)).Inc()
		s.log.Info().
			Str("order_id", orderID).
			Str("status", string(*update.Status)).
			Str("role", string(p.Role)).
			Msg("order status updated")
	}
	return updated, nil
}

// requesterUpdate: cancel before processing; rate and remark after completion.
func requesterUpdate(order *domain.Order, in ports.UpdateOrderInput) (ports.OrderUpdate, error) {
	var update ports.OrderUpdate

	if in.Status != nil {
		if *in.Status != domain.OrderCancelled {
			return update, domain.ErrForbidden
		}
		if !order.Status.Cancellable() {
			return update, fmt.Errorf("%w: cannot cancel order in %s", domain.ErrInvalidState, order.Status)
		}
		update.Status = in.Status
	}

	if in.Rating != nil || in.Remarks != nil {
		if order.Status != domain.OrderCompleted {
			return update, fmt.Errorf("%w: rating allowed only after completion", domain.ErrInvalidState)
		}
		if in.Rating != nil {
			if *in.Rating < minRating || *in.Rating > maxRating {
				return update, fmt.Errorf("%w: rating must be between %d and %d", domain.ErrValidation, minRating, maxRating)
			}
			update.Rating = in.Rating
		}
		update.Remarks = in.Remarks
	}

	return update, nil
}

// partnerUpdate: progress an assigned order along the legal transitions.
func partnerUpdate(order *domain.Order, in ports.UpdateOrderInput) (ports.OrderUpdate, error) {
	var update ports.OrderUpdate

	if in.Rating != nil || in.Remarks != nil {
		return update, domain.ErrForbidden
	}
	if in.Status != nil {
		if *in.Status != domain.OrderProcessing && *in.Status != domain.OrderCompleted {
			return update, domain.ErrForbidden
		}
		if !order.Status.CanTransitionTo(*in.Status) {
			return update, fmt.Errorf("%w: %s -> %s", domain.ErrInvalidState, order.Status, *in.Status)
		}
		update.Status = in.Status
	}

	return update, nil
}

// adminUpdate: unrestricted override, bounded only by known values.
func adminUpdate(in ports.UpdateOrderInput) (ports.OrderUpdate, error) {
	var update ports.OrderUpdate

	if in.Status != nil {
		if !in.Status.Valid() {
			return update, fmt.Errorf("%w: unknown status %q", domain.ErrValidation, *in.Status)
		}
		update.Status = in.Status
	}
	if in.Rating != nil {
		if *in.Rating < minRating || *in.Rating > maxRating {
			return update, fmt.Errorf("%w: rating must be between %d and %d", domain.ErrValidation, minRating, maxRating)
		}
		update.Rating = in.Rating
	}
	update.Remarks = in.Remarks

	return update, nil
}

// Accept lets a verified partner claim an unassigned payment-completed order.
// Verification is re-checked here, never cached from login; exclusivity is
// enforced by the repository's conditional update.
func (s *OrderService) Accept(ctx context.Context, p domain.Principal, orderID string) (*domain.Order, error) {
	if p.Role != domain.RolePartner {
		return nil, domain.ErrForbidden
	}

	profile, err := s.partners.FindByUserID(ctx, p.UserID)
	if err != nil {
		return nil, err
	}
	if profile.VerificationStatus != domain.VerificationVerified {
		return nil, domain.ErrPartnerNotVerified
	}

	order, err := s.orders.Claim(ctx, orderID, profile.ID)
	if err != nil {
		if errors.Is(err, domain.ErrAlreadyAssigned) {
			metrics.ClaimConflictsTotal.Inc()
		}
		return nil, err
	}

	s.log.Info().Str("order_id", orderID).Str("provider_id", profile.ID).Msg("order claimed")
	return order, nil
}

// Assign lets an admin attach a verified partner to an order, overriding any
// current assignment.
func (s *OrderService) Assign(ctx context.Context, p domain.Principal, orderID, providerID string) (*domain.Order, error) {
	if !p.IsAdmin() {
		return nil, domain.ErrForbidden
	}

	provider, err := s.partners.FindByID(ctx, providerID)
	if err != nil {
		return nil, err
	}
	if provider.VerificationStatus != domain.VerificationVerified {
		return nil, fmt.Errorf("%w: cannot assign order to unverified partner", domain.ErrValidation)
	}

	order, err := s.orders.Assign(ctx, orderID, provider.ID)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("order_id", orderID).Str("provider_id", provider.ID).Msg("order assigned")
	return order, nil
}

// StatusFeed returns up to statusFeedLimit orders in the caller's scope
// mutated after since, plus the server timestamp to use as the next cursor.
func (s *OrderService) StatusFeed(ctx context.Context, p domain.Principal, since time.Time) (*ports.StatusFeed, error) {
	now := s.now()
	if since.IsZero() {
		since = now.Add(-statusFeedDefault)
	}

	feed := &ports.StatusFeed{Updates: []ports.StatusFeedItem{}, Timestamp: now}

	filter, err := scopeFilter(p)
	if err != nil {
		if errors.Is(err, domain.ErrProfileNotFound) {
			// No profile means nothing can be in scope.
			return feed, nil
		}
		return nil, err
	}
	// The poll feed covers only orders the caller is attached to.
	filter.Unassigned = false

	updates, err := s.orders.UpdatedSince(ctx, filter, since, statusFeedLimit)
	if err != nil {
		return nil, err
	}

	labels := make(map[string]string)
	for _, u := range updates {
		label, ok := labels[u.ServiceID]
		if !ok {
			if svc, err := s.catalog.FindByID(ctx, u.ServiceID); err == nil {
				label = svc.DocumentType
			}
			labels[u.ServiceID] = label
		}
		feed.Updates = append(feed.Updates, ports.StatusFeedItem{
			OrderID:       u.OrderID,
			Status:        u.Status,
			PaymentStatus: u.PaymentStatus,
			Service:       label,
			UpdatedAt:     u.UpdatedAt,
		})
	}

	return feed, nil
}

// scopeFilter maps a principal to the order listing scope of its role.
func scopeFilter(p domain.Principal) (ports.OrderListFilter, error) {
	switch p.Role {
	case domain.RoleAdmin:
		return ports.OrderListFilter{}, nil
	case domain.RoleRequester:
		if p.ProfileID == "" {
			return ports.OrderListFilter{}, domain.ErrProfileNotFound
		}
		return ports.OrderListFilter{CustomerID: p.ProfileID}, nil
	case domain.RolePartner:
		if p.ProfileID == "" {
			return ports.OrderListFilter{}, domain.ErrProfileNotFound
		}
		return ports.OrderListFilter{ProviderID: p.ProfileID, Unassigned: true}, nil
	default:
		return ports.OrderListFilter{}, domain.ErrForbidden
	}
}
