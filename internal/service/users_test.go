package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kull-platform/api/internal/model"
	"github.com/kull-platform/api/internal/scope"
)

type fakeUserStore struct {
	byID map[string]*model.User

	lastFields     map[string]interface{}
	lastMembership [2]string
}

func (f *fakeUserStore) GetByID(_ context.Context, id string) (*model.User, error) {
	return f.byID[id], nil
}

func (f *fakeUserStore) UpdateFields(_ context.Context, id string, fields map[string]interface{}) (*model.User, error) {
	user := f.byID[id]
	if user == nil {
		return nil, nil
	}
	f.lastFields = fields
	return user, nil
}

func (f *fakeUserStore) SetMembership(_ context.Context, id, status, roleInCommunity string) (*model.User, error) {
	user := f.byID[id]
	if user == nil {
		return nil, nil
	}
	f.lastMembership = [2]string{status, roleInCommunity}
	user.CommunityStatus = status
	if roleInCommunity != "" {
		user.RoleInCommunity = roleInCommunity
	}
	return user, nil
}

func pendingUser(id, community string) *model.User {
	return &model.User{
		ID:              id,
		Role:            model.RoleUser,
		Community:       community,
		CommunityStatus: model.CommunityStatusPending,
		Active:          true,
	}
}

func TestApproveMembership(t *testing.T) {
	store := &fakeUserStore{byID: map[string]*model.User{
		"user:p": pendingUser("user:p", "community:x"),
	}}
	svc := NewUserService(store)

	updated, err := svc.Approve(context.Background(), communityAdminIdentity("community:x"), "user:p")
	require.NoError(t, err)
	assert.Equal(t, model.CommunityStatusApproved, updated.CommunityStatus)
	assert.Equal(t, model.CommunityRoleMember, updated.RoleInCommunity)
}

func TestApproveRequiresAdmin(t *testing.T) {
	store := &fakeUserStore{byID: map[string]*model.User{
		"user:p": pendingUser("user:p", "community:x"),
	}}
	svc := NewUserService(store)

	_, err := svc.Approve(context.Background(), memberIdentity("community:x"), "user:p")
	assert.ErrorIs(t, err, scope.ErrAdminOnly)
}

func TestApproveCrossCommunityDenied(t *testing.T) {
	store := &fakeUserStore{byID: map[string]*model.User{
		"user:p": pendingUser("user:p", "community:y"),
	}}
	svc := NewUserService(store)

	_, err := svc.Approve(context.Background(), communityAdminIdentity("community:x"), "user:p")
	assert.ErrorIs(t, err, scope.ErrCrossCommunity)
}

func TestApproveWithoutMembershipRequest(t *testing.T) {
	store := &fakeUserStore{byID: map[string]*model.User{
		"user:p": {ID: "user:p", Role: model.RoleUser, Active: true},
	}}
	svc := NewUserService(store)

	_, err := svc.Approve(context.Background(), superAdminIdentity(), "user:p")
	assert.ErrorIs(t, err, ErrNoMembershipRequest)
}

func TestRejectMembership(t *testing.T) {
	store := &fakeUserStore{byID: map[string]*model.User{
		"user:p": pendingUser("user:p", "community:x"),
	}}
	svc := NewUserService(store)

	updated, err := svc.Reject(context.Background(), superAdminIdentity(), "user:p")
	require.NoError(t, err)
	assert.Equal(t, model.CommunityStatusRejected, updated.CommunityStatus)
}

func TestUpdateSelfStripsProtectedFields(t *testing.T) {
	store := &fakeUserStore{byID: map[string]*model.User{
		"user:member": {ID: "user:member", Role: model.RoleUser, Community: "community:x", CommunityStatus: model.CommunityStatusApproved, Active: true},
	}}
	svc := NewUserService(store)

	_, err := svc.Update(context.Background(), memberIdentity("community:x"), "user:member", map[string]interface{}{
		"firstName": "New",
		"role":      model.RoleSuperAdmin,
		"community": "community:y",
	})

	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{"firstName": "New"}, store.lastFields)
}

func TestUpdateOtherUserRequiresAdmin(t *testing.T) {
	store := &fakeUserStore{byID: map[string]*model.User{
		"user:other": {ID: "user:other", Community: "community:x", CommunityStatus: model.CommunityStatusApproved, Active: true},
	}}
	svc := NewUserService(store)

	_, err := svc.Update(context.Background(), memberIdentity("community:x"), "user:other", map[string]interface{}{
		"firstName": "New",
	})
	assert.ErrorIs(t, err, scope.ErrAdminOnly)
}

func TestGetUserCrossCommunityDenied(t *testing.T) {
	store := &fakeUserStore{byID: map[string]*model.User{
		"user:other": {ID: "user:other", Community: "community:y", Active: true},
	}}
	svc := NewUserService(store)

	_, err := svc.Get(context.Background(), memberIdentity("community:x"), "user:other")
	assert.ErrorIs(t, err, scope.ErrCrossCommunity)
}

func TestGetUserNotFound(t *testing.T) {
	svc := NewUserService(&fakeUserStore{byID: map[string]*model.User{}})

	_, err := svc.Get(context.Background(), superAdminIdentity(), "user:none")
	assert.ErrorIs(t, err, ErrUserNotFound)
}
