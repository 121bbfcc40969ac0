package model

import "time"

// Global roles
const (
	RoleUser       = "user"
	RoleAdmin      = "admin"
	RoleSuperAdmin = "superadmin"
)

// In-community roles
const (
	CommunityRoleMember    = "member"
	CommunityRoleModerator = "moderator"
	CommunityRoleAdmin     = "admin"
)

// Community membership statuses
const (
	CommunityStatusPending  = "pending"
	CommunityStatusApproved = "approved"
	CommunityStatusRejected = "rejected"
)

// User represents a platform user. A user belongs to at most one community;
// membership must be approved before the user can act within it.
type User struct {
	ID        string `json:"id,omitempty"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`

	// Code is the user's unique referral code, generated at registration.
	Code string `json:"code,omitempty"`

	// At least one of Email or Phone is required.
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`

	PasswordHash string `json:"-"`

	Role   string `json:"role"`
	Active bool   `json:"active"`

	Community       string `json:"community,omitempty"`
	CommunityStatus string `json:"communityStatus,omitempty"`
	RoleInCommunity string `json:"roleInCommunity,omitempty"`

	Gender       string   `json:"gender,omitempty"`
	Occupation   string   `json:"occupation,omitempty"`
	Religion     string   `json:"religion,omitempty"`
	MotherTongue string   `json:"motherTongue,omitempty"`
	Interests    []string `json:"interests,omitempty"`

	CreatedAt time.Time `json:"createdAt,omitempty"`
}

// Identity derives the caller identity from a stored user record.
func (u *User) Identity() *Identity {
	return &Identity{
		UserID:          u.ID,
		Role:            u.Role,
		Community:       u.Community,
		RoleInCommunity: u.RoleInCommunity,
		CommunityStatus: u.CommunityStatus,
	}
}
