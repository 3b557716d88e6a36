package handler

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/docsewa/marketplace-api/internal/core/domain"
	"github.com/docsewa/marketplace-api/internal/core/ports"
)

// Money renders as decimal strings on the wire.

func moneyString(d *decimal.Decimal) *string {
	if d == nil {
		return nil
	}
	s := d.String()
	return &s
}

// parseMoney rejects malformed and negative amounts.
func parseMoney(field, raw string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %s must be a decimal number", domain.ErrValidation, field)
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: %s cannot be negative", domain.ErrValidation, field)
	}
	return d, nil
}

func toUserResponse(u *domain.User) userResponse {
	return userResponse{
		ID:     u.ID,
		Email:  u.Email,
		Role:   string(u.Role),
		Status: string(u.Status),
	}
}

func toServiceResponse(s *domain.Service) *serviceResponse {
	if s == nil {
		return nil
	}
	resp := &serviceResponse{
		ID:           s.ID,
		DocumentType: s.DocumentType,
		State:        s.State,
		BasePrice:    s.BasePrice.String(),
		IsActive:     s.IsActive,
	}
	for _, req := range s.Requirements {
		resp.Requirements = append(resp.Requirements, requirementResponse{
			ID:          req.ID,
			Name:        req.Name,
			Description: req.Description,
			IsRequired:  req.IsRequired,
			SortOrder:   req.SortOrder,
		})
	}
	return resp
}

func toOrderResponse(o *domain.Order) orderResponse {
	return orderResponse{
		ID:             o.ID,
		ServiceID:      o.ServiceID,
		CustomerID:     o.CustomerID,
		ProviderID:     o.ProviderID,
		Status:         string(o.Status),
		PaymentStatus:  string(o.PaymentStatus),
		FinalPrice:     moneyString(o.FinalPrice),
		VoucherCode:    o.VoucherCode,
		DiscountAmount: moneyString(o.DiscountAmount),
		Rating:         o.Rating,
		Remarks:        o.Remarks,
		CreatedAt:      o.CreatedAt,
		UpdatedAt:      o.UpdatedAt,
	}
}

func toOrderDetailResponse(d *ports.OrderDetail) orderDetailResponse {
	resp := orderDetailResponse{orderResponse: toOrderResponse(d.Order)}
	resp.Service = toServiceResponse(d.Service)
	if d.Customer != nil {
		resp.Customer = &profileResponse{
			ID:       d.Customer.ID,
			FullName: d.Customer.FullName,
			Phone:    d.Customer.Phone,
		}
	}
	if d.Provider != nil {
		provider := toPartnerResponse(d.Provider)
		resp.Provider = &provider
	}
	return resp
}

func toPartnerResponse(p *domain.PartnerProfile) partnerResponse {
	return partnerResponse{
		ID:                 p.ID,
		UserID:             p.UserID,
		FullName:           p.FullName,
		Phone:              p.Phone,
		Profession:         p.Profession,
		VerificationStatus: string(p.VerificationStatus),
		Rating:             p.Rating,
	}
}

func toVoucherResponse(v *domain.Voucher) voucherResponse {
	resp := voucherResponse{
		ID:             v.ID,
		Code:           v.Code,
		DiscountType:   string(v.DiscountType),
		DiscountValue:  v.DiscountValue.String(),
		MinOrderAmount: moneyString(v.MinOrderAmount),
		MaxDiscount:    moneyString(v.MaxDiscount),
		MaxUses:        v.MaxUses,
		CurrentUses:    v.CurrentUses,
		IsActive:       v.IsActive,
	}
	if v.ValidUntil != nil {
		until := v.ValidUntil.UTC().Format(time.RFC3339)
		resp.ValidUntil = &until
	}
	return resp
}

func toStatusFeedResponse(feed *ports.StatusFeed) statusFeedResponse {
	resp := statusFeedResponse{
		Updates:   make([]statusFeedItemResponse, 0, len(feed.Updates)),
		Timestamp: feed.Timestamp,
	}
	for _, u := range feed.Updates {
		resp.Updates = append(resp.Updates, statusFeedItemResponse{
			OrderID:       u.OrderID,
			Status:        string(u.Status),
			PaymentStatus: string(u.PaymentStatus),
			Service:       u.Service,
			UpdatedAt:     u.UpdatedAt,
		})
	}
	return resp
}
