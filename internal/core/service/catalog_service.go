package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/docsewa/marketplace-api/internal/core/domain"
	"github.com/docsewa/marketplace-api/internal/core/ports"
)

// CatalogService exposes the service catalog: public reads, admin writes.
type CatalogService struct {
	services ports.ServiceRepository
	log      zerolog.Logger
}

func NewCatalogService(services ports.ServiceRepository, log zerolog.Logger) *CatalogService {
	return &CatalogService{services: services, log: log}
}

// List returns active catalog entries. Public: no principal required.
func (s *CatalogService) List(ctx context.Context) ([]*domain.Service, error) {
	return s.services.ListActive(ctx)
}

// Get returns one catalog entry with its requirements, sorted for display.
func (s *CatalogService) Get(ctx context.Context, id string) (*domain.Service, error) {
	svc, err := s.services.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(svc.Requirements, func(i, j int) bool {
		return svc.Requirements[i].SortOrder < svc.Requirements[j].SortOrder
	})
	return svc, nil
}

// Create adds a catalog entry. Admin only.
func (s *CatalogService) Create(ctx context.Context, p domain.Principal, in ports.UpsertServiceInput) (*domain.Service, error) {
	if !p.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	if in.DocumentType == "" || in.State == "" {
		return nil, fmt.Errorf("%w: document type and state are required", domain.ErrValidation)
	}
	if in.BasePrice.IsNegative() {
		return nil, fmt.Errorf("%w: base price cannot be negative", domain.ErrValidation)
	}

	svc := &domain.Service{
		ID:           uuid.NewString(),
		DocumentType: in.DocumentType,
		State:        in.State,
		BasePrice:    in.BasePrice.Round(0),
		IsActive:     true,
		Requirements: in.Requirements,
		CreatedAt:    time.Now().UTC(),
	}
	for i := range svc.Requirements {
		if svc.Requirements[i].ID == "" {
			svc.Requirements[i].ID = uuid.NewString()
		}
	}

	created, err := s.services.Create(ctx, svc)
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("service_id", created.ID).Str("document_type", created.DocumentType).Msg("catalog entry created")
	return created, nil
}

// SetActive toggles a catalog entry. Admin only; deactivation is how entries
// retire, existing orders keep their reference.
func (s *CatalogService) SetActive(ctx context.Context, p domain.Principal, id string, active bool) error {
	if !p.IsAdmin() {
		return domain.ErrForbidden
	}
	return s.services.SetActive(ctx, id, active)
}
