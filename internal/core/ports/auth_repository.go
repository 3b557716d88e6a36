package ports

import (
	"context"

	"github.com/docsewa/marketplace-api/internal/core/domain"
)

// UserRepository defines persistence for user accounts.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	UpdateStatus(ctx context.Context, id string, status domain.UserStatus) error
}

// PartnerRepository defines persistence for partner profiles.
type PartnerRepository interface {
	Create(ctx context.Context, p *domain.PartnerProfile) (*domain.PartnerProfile, error)
	FindByID(ctx context.Context, id string) (*domain.PartnerProfile, error)
	FindByUserID(ctx context.Context, userID string) (*domain.PartnerProfile, error)
	List(ctx context.Context) ([]*domain.PartnerProfile, error)
	UpdateVerification(ctx context.Context, id string, status domain.VerificationStatus) (*domain.PartnerProfile, error)
	Count(ctx context.Context) (int64, error)
}

// RequesterRepository defines persistence for requester profiles.
type RequesterRepository interface {
	Create(ctx context.Context, r *domain.RequesterProfile) (*domain.RequesterProfile, error)
	FindByID(ctx context.Context, id string) (*domain.RequesterProfile, error)
	FindByUserID(ctx context.Context, userID string) (*domain.RequesterProfile, error)
	Count(ctx context.Context) (int64, error)
}
