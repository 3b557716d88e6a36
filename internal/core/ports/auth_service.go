package ports

import (
	"context"
	"time"

	"github.com/docsewa/marketplace-api/internal/core/domain"
)

// SignupInput carries requester registration data.
type SignupInput struct {
	Email    string
	Password string
	FullName string
	Phone    string
}

// PartnerSignupInput carries partner registration data. The profile starts in
// PENDING verification and cannot take orders until an admin verifies it.
type PartnerSignupInput struct {
	Email      string
	Password   string
	FullName   string
	Phone      string
	Profession string
}

// LoginResult is returned on successful login; Token goes into the session
// cookie, Expires into its expiry attribute.
type LoginResult struct {
	Token   string
	Expires time.Time
	User    *domain.User
}

// AuthService implements signup, login, logout, and principal resolution.
type AuthService interface {
	RegisterRequester(ctx context.Context, in SignupInput) (*domain.User, error)
	RegisterPartner(ctx context.Context, in PartnerSignupInput) (*domain.User, error)
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	Logout(ctx context.Context, token string) error
	// Resolve turns a session token into a Principal, joining the owning user
	// to its profile. Fails with domain.ErrUnauthenticated on absent/expired
	// sessions.
	Resolve(ctx context.Context, token string) (*domain.Principal, error)
}
