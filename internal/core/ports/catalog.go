package ports

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/docsewa/marketplace-api/internal/core/domain"
)

// ServiceRepository defines persistence for the service catalog.
type ServiceRepository interface {
	Create(ctx context.Context, s *domain.Service) (*domain.Service, error)
	FindByID(ctx context.Context, id string) (*domain.Service, error)
	// ListActive returns active catalog entries, newest first, without
	// requirements.
	ListActive(ctx context.Context) ([]*domain.Service, error)
	SetActive(ctx context.Context, id string, active bool) error
}

// UpsertServiceInput carries admin catalog mutations.
type UpsertServiceInput struct {
	DocumentType string
	State        string
	BasePrice    decimal.Decimal
	Requirements []domain.Requirement
}

// CatalogService exposes the service catalog: public reads, admin writes.
type CatalogService interface {
	List(ctx context.Context) ([]*domain.Service, error)
	Get(ctx context.Context, id string) (*domain.Service, error)
	Create(ctx context.Context, p domain.Principal, in UpsertServiceInput) (*domain.Service, error)
	SetActive(ctx context.Context, p domain.Principal, id string, active bool) error
}
