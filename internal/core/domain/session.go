package domain

import "time"

// Session is a server-side login session: an opaque token owned by one user
// with an absolute expiry. A user may hold several concurrent sessions;
// logout destroys exactly one.
type Session struct {
	Token     string    `json:"-"`
	UserID    string    `json:"user_id"`
	Expires   time.Time `json:"expires"`
	CreatedAt time.Time `json:"created_at"`
}

// Expired reports whether the session is past its absolute expiry.
func (s *Session) Expired(now time.Time) bool {
	return now.After(s.Expires)
}

// Principal is the authenticated identity resolved from a session for the
// duration of one request. Handlers receive it explicitly; nothing reads
// ambient auth state.
type Principal struct {
	UserID      string `json:"user_id"`
	Role        Role   `json:"role"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	// ProfileID is the requester or partner profile owned by the user;
	// empty for admins.
	ProfileID string `json:"profile_id,omitempty"`
}

// IsAdmin reports whether the principal carries the ADMIN role.
func (p Principal) IsAdmin() bool { return p.Role == RoleAdmin }

// PartnerOrAdmin reports whether the principal may use partner surfaces.
func (p Principal) PartnerOrAdmin() bool {
	return p.Role == RolePartner || p.Role == RoleAdmin
}
