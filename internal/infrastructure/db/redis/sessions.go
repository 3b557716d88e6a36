package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/docsewa/marketplace-api/internal/core/domain"
)

// SessionStore keeps login sessions in Redis.
// Key format: session:<token>, value is the JSON session, TTL matches the
// absolute expiry. The expiry is also checked on read in case the key
// outlives it (clock drift, persistence restores).
type SessionStore struct {
	client *redis.Client
}

// NewSessionStore creates a SessionStore wrapping the given Redis client.
func NewSessionStore(client *redis.Client) *SessionStore {
	return &SessionStore{client: client}
}

type sessionRecord struct {
	UserID    string    `json:"user_id"`
	Expires   time.Time `json:"expires"`
	CreatedAt time.Time `json:"created_at"`
}

func (s *SessionStore) Create(ctx context.Context, session *domain.Session) error {
	ttl := time.Until(session.Expires)
	if ttl <= 0 {
		return fmt.Errorf("session expiry is in the past")
	}

	payload, err := json.Marshal(sessionRecord{
		UserID:    session.UserID,
		Expires:   session.Expires,
		CreatedAt: session.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	if err := s.client.Set(ctx, s.key(session.Token), payload, ttl).Err(); err != nil {
		return fmt.Errorf("store session: %w", err)
	}
	return nil
}

func (s *SessionStore) Get(ctx context.Context, token string) (*domain.Session, error) {
	raw, err := s.client.Get(ctx, s.key(token)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrUnauthenticated
		}
		return nil, fmt.Errorf("load session: %w", err)
	}

	var record sessionRecord
	if err := json.Unmarshal(raw, &record); err != nil {
		return nil, fmt.Errorf("unmarshal session: %w", err)
	}

	session := &domain.Session{
		Token:     token,
		UserID:    record.UserID,
		Expires:   record.Expires,
		CreatedAt: record.CreatedAt,
	}
	if session.Expired(time.Now().UTC()) {
		_ = s.client.Del(ctx, s.key(token)).Err()
		return nil, domain.ErrSessionExpired
	}
	return session, nil
}

// Delete destroys one session. Unknown tokens are a no-op.
func (s *SessionStore) Delete(ctx context.Context, token string) error {
	if err := s.client.Del(ctx, s.key(token)).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (s *SessionStore) key(token string) string {
	return "session:" + token
}
