package ports

import (
	"context"

	"github.com/docsewa/marketplace-api/internal/core/domain"
)

// SessionStore holds server-side login sessions keyed by opaque token.
// Get must reject absent and expired tokens with domain.ErrUnauthenticated /
// domain.ErrSessionExpired; Delete on an unknown token is a no-op.
type SessionStore interface {
	Create(ctx context.Context, session *domain.Session) error
	Get(ctx context.Context, token string) (*domain.Session, error)
	Delete(ctx context.Context, token string) error
}
