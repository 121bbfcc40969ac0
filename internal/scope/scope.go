package scope

import (
	"errors"
	"fmt"

	"github.com/kull-platform/api/internal/model"
	"github.com/kull-platform/api/internal/query"
)

// Document fields the scoping layer owns. Every community-scoped resource
// carries these; the layer constrains them before any store access.
const (
	FieldCommunity = "community"
	FieldCreatedBy = "createdBy"
)

// Gate failures. Messages are user-facing and stable; the handler layer
// maps them to 403.
var (
	// ErrSuperAdminOnly is returned when an operation is restricted to the
	// global super-admin.
	ErrSuperAdminOnly = errors.New("Access denied: Only superAdmin allowed")

	// ErrAdminOnly is returned when an operation requires super-admin or
	// community-admin privileges.
	ErrAdminOnly = errors.New("Access denied: Only superAdmin or communityAdmin allowed")

	// ErrCommunityAccessRequired is returned when a caller has no community,
	// or a membership that is not approved, and tries to touch
	// community-scoped data.
	ErrCommunityAccessRequired = errors.New("Community access is required")

	// ErrCrossCommunity is returned when a caller targets a document owned
	// by another community.
	ErrCrossCommunity = errors.New("Not authorized to act on resources outside your community")
)

// CommunityRequiredError is returned when a super-admin creates a resource
// without naming a target community. Super-admins belong to no community, so
// the target cannot be inferred.
type CommunityRequiredError struct {
	Resource string
}

func (e *CommunityRequiredError) Error() string {
	return fmt.Sprintf("Community is required when creating %s as super admin", e.Resource)
}

// RequireSuperAdmin passes only for the global super-admin.
func RequireSuperAdmin(id *model.Identity) error {
	if id != nil && id.IsSuperAdmin() {
		return nil
	}
	return ErrSuperAdminOnly
}

// RequireSuperOrCommunityAdmin passes for the super-admin or an admin of
// their own community.
func RequireSuperOrCommunityAdmin(id *model.Identity) error {
	if id != nil && (id.IsSuperAdmin() || id.IsCommunityAdmin()) {
		return nil
	}
	return ErrAdminOnly
}

// RequireApprovedMember enforces the membership invariant: a non-super-admin
// caller must belong to a community and the membership must be approved
// before they can read or write anything community-scoped.
func RequireApprovedMember(id *model.Identity) error {
	if id == nil {
		return ErrCommunityAccessRequired
	}
	if id.IsSuperAdmin() || id.IsApprovedMember() {
		return nil
	}
	return ErrCommunityAccessRequired
}

// RequireSameCommunity gates mutations of a specific document, after it has
// been fetched, against the document's own community field. Super-admins
// bypass; everyone else must be an approved member of exactly that
// community.
func RequireSameCommunity(id *model.Identity, targetCommunity string) error {
	if id != nil && id.IsSuperAdmin() {
		return nil
	}
	if err := RequireApprovedMember(id); err != nil {
		return err
	}
	if id.Community != targetCommunity {
		return ErrCrossCommunity
	}
	return nil
}

// ScopeList rewrites a list query's filter so a caller can only see their
// own community's documents. Super-admins pass through unchanged — they may
// narrow by community explicitly via the filter. For everyone else any
// caller-supplied community value is discarded and force-overridden with the
// caller's own; no input manipulation widens visibility.
func ScopeList(id *model.Identity, spec *query.Spec) error {
	if id != nil && id.IsSuperAdmin() {
		return nil
	}
	if err := RequireApprovedMember(id); err != nil {
		return err
	}
	if spec.Filter == nil {
		spec.Filter = make(map[string]interface{})
	}
	spec.Filter[FieldCommunity] = id.Community
	return nil
}

// ScopeCreate constrains a create payload's ownership fields. A super-admin
// must explicitly name the target community (they have none of their own)
// and becomes the default createdBy. Any other caller has community and
// createdBy force-overwritten with their own values, whatever the request
// body claimed.
func ScopeCreate(id *model.Identity, doc map[string]interface{}, resource string) error {
	if id != nil && id.IsSuperAdmin() {
		community, _ := doc[FieldCommunity].(string)
		if community == "" {
			return &CommunityRequiredError{Resource: resource}
		}
		createdBy, _ := doc[FieldCreatedBy].(string)
		if createdBy == "" {
			doc[FieldCreatedBy] = id.UserID
		}
		return nil
	}
	if err := RequireApprovedMember(id); err != nil {
		return err
	}
	doc[FieldCommunity] = id.Community
	doc[FieldCreatedBy] = id.UserID
	return nil
}
