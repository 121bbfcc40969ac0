package model

// Identity is the per-request caller identity derived from a verified
// bearer token and a fresh user lookup. It is constructed by the identity
// service, carried on the request context, and discarded after the
// response is sent.
type Identity struct {
	UserID          string
	Role            string // global role: user, admin, superadmin
	Community       string // community record the caller belongs to, if any
	RoleInCommunity string // member, moderator, admin
	CommunityStatus string // pending, approved, rejected
}

// IsSuperAdmin reports whether the caller has unrestricted cross-community
// access.
func (i *Identity) IsSuperAdmin() bool {
	return i.Role == RoleSuperAdmin
}

// IsCommunityAdmin reports whether the caller is an admin of their own
// community. Meaningless without a community reference.
func (i *Identity) IsCommunityAdmin() bool {
	return i.Community != "" && i.RoleInCommunity == CommunityRoleAdmin
}

// IsApprovedMember reports whether the caller may act within their
// community: they must belong to one and the membership must be approved.
// Super-admins act everywhere and never carry a membership.
func (i *Identity) IsApprovedMember() bool {
	return i.Community != "" && i.CommunityStatus == CommunityStatusApproved
}
