package model

import "time"

// Community is the tenant boundary: every community-scoped resource
// references exactly one community.
type Community struct {
	ID          string `json:"id,omitempty"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`

	// JoinCode is the referral code a prospective member presents to
	// request membership in this community.
	JoinCode string `json:"joinCode,omitempty"`

	CreatedBy string `json:"createdBy,omitempty"`

	// Configuration references the community's configuration document,
	// when one has been created.
	Configuration string `json:"communityConfiguration,omitempty"`

	CreatedAt time.Time `json:"createdAt,omitempty"`
	UpdatedAt time.Time `json:"updatedAt,omitempty"`
}

// CommunityConfiguration holds per-community feature settings. The shape is
// deliberately loose; the platform only cares that at most one configuration
// exists per community and that it is written atomically with the
// community's back-reference.
type CommunityConfiguration struct {
	ID        string                 `json:"id,omitempty"`
	Community string                 `json:"community"`
	Settings  map[string]interface{} `json:"settings,omitempty"`
	UpdatedAt time.Time              `json:"updatedAt,omitempty"`
}
