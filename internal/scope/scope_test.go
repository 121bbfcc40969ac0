package scope

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kull-platform/api/internal/model"
	"github.com/kull-platform/api/internal/query"
)

func superAdmin() *model.Identity {
	return &model.Identity{UserID: "user:root", Role: model.RoleSuperAdmin}
}

func communityAdmin(community string) *model.Identity {
	return &model.Identity{
		UserID:          "user:admin",
		Role:            model.RoleUser,
		Community:       community,
		RoleInCommunity: model.CommunityRoleAdmin,
		CommunityStatus: model.CommunityStatusApproved,
	}
}

func member(community string) *model.Identity {
	return &model.Identity{
		UserID:          "user:member",
		Role:            model.RoleUser,
		Community:       community,
		RoleInCommunity: model.CommunityRoleMember,
		CommunityStatus: model.CommunityStatusApproved,
	}
}

func TestRequireSuperAdmin(t *testing.T) {
	assert.NoError(t, RequireSuperAdmin(superAdmin()))
	assert.ErrorIs(t, RequireSuperAdmin(communityAdmin("community:c1")), ErrSuperAdminOnly)
	assert.ErrorIs(t, RequireSuperAdmin(member("community:c1")), ErrSuperAdminOnly)
	assert.ErrorIs(t, RequireSuperAdmin(nil), ErrSuperAdminOnly)
}

func TestRequireSuperOrCommunityAdmin(t *testing.T) {
	assert.NoError(t, RequireSuperOrCommunityAdmin(superAdmin()))
	assert.NoError(t, RequireSuperOrCommunityAdmin(communityAdmin("community:c1")))
	assert.ErrorIs(t, RequireSuperOrCommunityAdmin(member("community:c1")), ErrAdminOnly)

	// Admin role without a community reference carries no privileges.
	orphanAdmin := &model.Identity{UserID: "user:x", Role: model.RoleUser, RoleInCommunity: model.CommunityRoleAdmin}
	assert.ErrorIs(t, RequireSuperOrCommunityAdmin(orphanAdmin), ErrAdminOnly)
}

func TestRequireApprovedMember(t *testing.T) {
	assert.NoError(t, RequireApprovedMember(superAdmin()))
	assert.NoError(t, RequireApprovedMember(member("community:c1")))

	pending := member("community:c1")
	pending.CommunityStatus = model.CommunityStatusPending
	assert.ErrorIs(t, RequireApprovedMember(pending), ErrCommunityAccessRequired)

	rejected := member("community:c1")
	rejected.CommunityStatus = model.CommunityStatusRejected
	assert.ErrorIs(t, RequireApprovedMember(rejected), ErrCommunityAccessRequired)

	homeless := &model.Identity{UserID: "user:x", Role: model.RoleUser}
	assert.ErrorIs(t, RequireApprovedMember(homeless), ErrCommunityAccessRequired)
}

func TestRequireSameCommunity(t *testing.T) {
	assert.NoError(t, RequireSameCommunity(superAdmin(), "community:anything"))
	assert.NoError(t, RequireSameCommunity(communityAdmin("community:c1"), "community:c1"))

	// An admin of community A cannot touch community B's documents.
	err := RequireSameCommunity(communityAdmin("community:a"), "community:b")
	assert.ErrorIs(t, err, ErrCrossCommunity)

	pending := member("community:c1")
	pending.CommunityStatus = model.CommunityStatusPending
	assert.ErrorIs(t, RequireSameCommunity(pending, "community:c1"), ErrCommunityAccessRequired)
}

func TestScopeList_SuperAdminPassesThrough(t *testing.T) {
	spec := &query.Spec{Filter: map[string]interface{}{"community": "community:c2"}}
	require.NoError(t, ScopeList(superAdmin(), spec))
	assert.Equal(t, "community:c2", spec.Filter["community"])
}

func TestScopeList_MemberFilterOverridden(t *testing.T) {
	// The caller claims community:c2; the scope must discard that and pin
	// the filter to the caller's own community.
	spec := &query.Spec{Filter: map[string]interface{}{"community": "community:c2"}}
	require.NoError(t, ScopeList(member("community:c1"), spec))
	assert.Equal(t, "community:c1", spec.Filter["community"])
}

func TestScopeList_NilFilterInitialized(t *testing.T) {
	spec := &query.Spec{}
	require.NoError(t, ScopeList(member("community:c1"), spec))
	assert.Equal(t, "community:c1", spec.Filter["community"])
}

func TestScopeList_UnapprovedMemberRejected(t *testing.T) {
	pending := member("community:c1")
	pending.CommunityStatus = model.CommunityStatusPending
	err := ScopeList(pending, &query.Spec{})
	assert.ErrorIs(t, err, ErrCommunityAccessRequired)
}

func TestScopeCreate_MemberOwnershipForced(t *testing.T) {
	doc := map[string]interface{}{
		"title":     "hello",
		"community": "community:c2",
		"createdBy": "user:somebody-else",
	}
	require.NoError(t, ScopeCreate(member("community:c1"), doc, "Post"))
	assert.Equal(t, "community:c1", doc["community"])
	assert.Equal(t, "user:member", doc["createdBy"])
}

func TestScopeCreate_SuperAdminMustNameCommunity(t *testing.T) {
	doc := map[string]interface{}{"shopName": "chai corner"}
	err := ScopeCreate(superAdmin(), doc, "Dukaan")

	var reqErr *CommunityRequiredError
	require.True(t, errors.As(err, &reqErr))
	assert.Equal(t, "Community is required when creating Dukaan as super admin", reqErr.Error())
}

func TestScopeCreate_SuperAdminExplicitCommunityPreserved(t *testing.T) {
	doc := map[string]interface{}{"shopName": "chai corner", "community": "community:c2"}
	require.NoError(t, ScopeCreate(superAdmin(), doc, "Dukaan"))
	assert.Equal(t, "community:c2", doc["community"])
	assert.Equal(t, "user:root", doc["createdBy"])
}

func TestScopeCreate_SuperAdminKeepsExplicitCreatedBy(t *testing.T) {
	doc := map[string]interface{}{"community": "community:c2", "createdBy": "user:owner"}
	require.NoError(t, ScopeCreate(superAdmin(), doc, "Dukaan"))
	assert.Equal(t, "user:owner", doc["createdBy"])
}
