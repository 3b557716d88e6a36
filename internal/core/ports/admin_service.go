package ports

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/docsewa/marketplace-api/internal/core/domain"
)

// Stats is the admin dashboard summary.
type Stats struct {
	Orders     int64           `json:"orders"`
	Partners   int64           `json:"partners"`
	Requesters int64           `json:"requesters"`
	Revenue    decimal.Decimal `json:"revenue"`
}

// AdminService covers partner vetting and platform stats.
type AdminService interface {
	ListPartners(ctx context.Context, p domain.Principal) ([]*domain.PartnerProfile, error)
	// VerifyPartner transitions a partner's verification status.
	VerifyPartner(ctx context.Context, p domain.Principal, partnerID string, status domain.VerificationStatus) (*domain.PartnerProfile, error)
	Stats(ctx context.Context, p domain.Principal) (*Stats, error)
}
