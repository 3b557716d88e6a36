package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/docsewa/marketplace-api/internal/core/domain"
	"github.com/docsewa/marketplace-api/internal/core/ports"
)

// AdminService covers partner vetting and the dashboard stats rollup.
type AdminService struct {
	partners   ports.PartnerRepository
	requesters ports.RequesterRepository
	orders     ports.OrderRepository
	log        zerolog.Logger
}

func NewAdminService(partners ports.PartnerRepository, requesters ports.RequesterRepository, orders ports.OrderRepository, log zerolog.Logger) *AdminService {
	return &AdminService{partners: partners, requesters: requesters, orders: orders, log: log}
}

// ListPartners returns all partner profiles regardless of verification state.
func (s *AdminService) ListPartners(ctx context.Context, p domain.Principal) ([]*domain.PartnerProfile, error) {
	if !p.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	return s.partners.List(ctx)
}

// VerifyPartner moves a partner through the vetting states.
func (s *AdminService) VerifyPartner(ctx context.Context, p domain.Principal, partnerID string, status domain.VerificationStatus) (*domain.PartnerProfile, error) {
	if !p.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	if !status.Valid() {
		return nil, fmt.Errorf("%w: unknown verification status %q", domain.ErrValidation, status)
	}

	profile, err := s.partners.UpdateVerification(ctx, partnerID, status)
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Str("partner_id", partnerID).
		Str("verification_status", string(status)).
		Msg("partner verification updated")
	return profile, nil
}

// Stats aggregates the dashboard counters.
func (s *AdminService) Stats(ctx context.Context, p domain.Principal) (*ports.Stats, error) {
	if !p.IsAdmin() {
		return nil, domain.ErrForbidden
	}

	orders, err := s.orders.Count(ctx)
	if err != nil {
		return nil, err
	}
	partners, err := s.partners.Count(ctx)
	if err != nil {
		return nil, err
	}
	requesters, err := s.requesters.Count(ctx)
	if err != nil {
		return nil, err
	}
	revenue, err := s.orders.RevenueTotal(ctx)
	if err != nil {
		return nil, err
	}

	return &ports.Stats{
		Orders:     orders,
		Partners:   partners,
		Requesters: requesters,
		Revenue:    revenue,
	}, nil
}
