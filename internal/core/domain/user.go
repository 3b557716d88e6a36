package domain

import "time"

// Role is the closed set of actor roles in the marketplace.
type Role string

const (
	RoleRequester Role = "REQUESTER"
	RolePartner   Role = "PARTNER"
	RoleAdmin     Role = "ADMIN"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleRequester, RolePartner, RoleAdmin:
		return true
	}
	return false
}

// UserStatus is the account status of a user. Accounts are never hard-deleted;
// suspension is the terminal administrative action.
type UserStatus string

const (
	UserActive    UserStatus = "ACTIVE"
	UserSuspended UserStatus = "SUSPENDED"
)

// User models an account in the system. A user owns at most one profile,
// matching its role.
type User struct {
	ID           string     `json:"id"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	Role         Role       `json:"role"`
	Status       UserStatus `json:"status"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// VerificationStatus is the admin-controlled vetting state of a partner.
type VerificationStatus string

const (
	VerificationPending   VerificationStatus = "PENDING"
	VerificationVerified  VerificationStatus = "VERIFIED"
	VerificationRejected  VerificationStatus = "REJECTED"
	VerificationSuspended VerificationStatus = "SUSPENDED"
)

// Valid reports whether v is one of the known verification states.
func (v VerificationStatus) Valid() bool {
	switch v {
	case VerificationPending, VerificationVerified, VerificationRejected, VerificationSuspended:
		return true
	}
	return false
}

// PartnerProfile extends a PARTNER user. A partner may claim or be assigned
// orders only while VERIFIED; this is re-checked at claim time.
type PartnerProfile struct {
	ID                 string             `json:"id"`
	UserID             string             `json:"user_id"`
	FullName           string             `json:"full_name"`
	Phone              string             `json:"phone"`
	Profession         string             `json:"profession"`
	VerificationStatus VerificationStatus `json:"verification_status"`
	Rating             float64            `json:"rating"`
	CreatedAt          time.Time          `json:"created_at"`
}

// RequesterProfile extends a REQUESTER user.
type RequesterProfile struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	FullName  string    `json:"full_name"`
	Phone     string    `json:"phone"`
	CreatedAt time.Time `json:"created_at"`
}
