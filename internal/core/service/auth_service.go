package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/docsewa/marketplace-api/internal/api/metrics"
	"github.com/docsewa/marketplace-api/internal/core/domain"
	"github.com/docsewa/marketplace-api/internal/core/ports"
)

const defaultSessionTTL = 7 * 24 * time.Hour

// AuthService implements registration, login and session resolution over a
// server-side session store.
type AuthService struct {
	users      ports.UserRepository
	partners   ports.PartnerRepository
	requesters ports.RequesterRepository
	sessions   ports.SessionStore
	sessionTTL time.Duration
	log        zerolog.Logger
}

func NewAuthService(
	users ports.UserRepository,
	partners ports.PartnerRepository,
	requesters ports.RequesterRepository,
	sessions ports.SessionStore,
	sessionTTL time.Duration,
	log zerolog.Logger,
) *AuthService {
	if sessionTTL <= 0 {
		sessionTTL = defaultSessionTTL
	}
	return &AuthService{
		users:      users,
		partners:   partners,
		requesters: requesters,
		sessions:   sessions,
		sessionTTL: sessionTTL,
		log:        log,
	}
}

// RegisterRequester creates a REQUESTER account with its profile.
func (s *AuthService) RegisterRequester(ctx context.Context, in ports.SignupInput) (*domain.User, error) {
	user, err := s.createUser(ctx, in.Email, in.Password, domain.RoleRequester)
	if err != nil {
		return nil, err
	}

	_, err = s.requesters.Create(ctx, &domain.RequesterProfile{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		FullName:  in.FullName,
		Phone:     in.Phone,
		CreatedAt: user.CreatedAt,
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", user.ID).Msg("requester registered")
	return user, nil
}

// RegisterPartner creates a PARTNER account. The profile starts PENDING and
// cannot take orders until an admin verifies it.
func (s *AuthService) RegisterPartner(ctx context.Context, in ports.PartnerSignupInput) (*domain.User, error) {
	if in.FullName == "" || in.Phone == "" || in.Profession == "" {
		return nil, domain.ErrValidation
	}

	user, err := s.createUser(ctx, in.Email, in.Password, domain.RolePartner)
	if err != nil {
		return nil, err
	}

	_, err = s.partners.Create(ctx, &domain.PartnerProfile{
		ID:                 uuid.NewString(),
		UserID:             user.ID,
		FullName:           in.FullName,
		Phone:              in.Phone,
		Profession:         in.Profession,
		VerificationStatus: domain.VerificationPending,
		CreatedAt:          user.CreatedAt,
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", user.ID).Msg("partner registered, verification pending")
	return user, nil
}

func (s *AuthService) createUser(ctx context.Context, email, password string, role domain.Role) (*domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, domain.ErrValidation
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	return s.users.Create(ctx, &domain.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		Status:       domain.UserActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
}

// Login verifies credentials and opens a new session. Unknown emails and bad
// passwords are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (*ports.LoginResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}

	if user.Status != domain.UserActive {
		return nil, domain.ErrForbidden
	}

	now := time.Now().UTC()
	session := &domain.Session{
		Token:     newSessionToken(),
		UserID:    user.ID,
		Expires:   now.Add(s.sessionTTL),
		CreatedAt: now,
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, err
	}

	metrics.SessionsIssuedTotal.WithLabelValues(string(user.Role)).Inc()
	s.log.Info().Str("user_id", user.ID).Str("role", string(user.Role)).Msg("login")

	return &ports.LoginResult{
		Token:   session.Token,
		Expires: session.Expires,
		User:    user,
	}, nil
}

// Logout destroys the session. Unknown tokens are ignored.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return s.sessions.Delete(ctx, token)
}

// Resolve turns a session token into a Principal, joining the owning user to
// its role profile.
func (s *AuthService) Resolve(ctx context.Context, token string) (*domain.Principal, error) {
	if token == "" {
		return nil, domain.ErrUnauthenticated
	}

	session, err := s.sessions.Get(ctx, token)
	if err != nil {
		return nil, err
	}

	user, err := s.users.FindByID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUnauthenticated
		}
		return nil, err
	}
	if user.Status != domain.UserActive {
		return nil, domain.ErrForbidden
	}

	principal := &domain.Principal{
		UserID:      user.ID,
		Role:        user.Role,
		Email:       user.Email,
		DisplayName: user.Email,
	}

	switch user.Role {
	case domain.RolePartner:
		if profile, err := s.partners.FindByUserID(ctx, user.ID); err == nil {
			principal.ProfileID = profile.ID
			principal.DisplayName = profile.FullName
		}
	case domain.RoleRequester:
		if profile, err := s.requesters.FindByUserID(ctx, user.ID); err == nil {
			principal.ProfileID = profile.ID
			principal.DisplayName = profile.FullName
		}
	}

	return principal, nil
}

// newSessionToken returns an opaque 256-bit token. Session tokens carry no
// claims; everything is resolved against the store.
func newSessionToken() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return uuid.NewString()
	}
	return hex.EncodeToString(b)
}
