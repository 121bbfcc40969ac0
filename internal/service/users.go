package service

import (
	"context"

	"github.com/kull-platform/api/internal/model"
	"github.com/kull-platform/api/internal/scope"
)

// UserStore is the user persistence the user service needs.
type UserStore interface {
	GetByID(ctx context.Context, id string) (*model.User, error)
	UpdateFields(ctx context.Context, id string, fields map[string]interface{}) (*model.User, error)
	SetMembership(ctx context.Context, id, status, roleInCommunity string) (*model.User, error)
}

// protectedUserFields can never be changed through a profile update. Role
// and membership state only move through the dedicated membership
// operations, credentials only through auth flows.
var protectedUserFields = []string{
	"id", "role", "community", "communityStatus", "roleInCommunity",
	"passwordHash", "password", "code", "active", "createdAt",
}

// UserService handles user profiles and community membership decisions.
type UserService struct {
	users UserStore
}

// NewUserService creates a new user service
func NewUserService(users UserStore) *UserService {
	return &UserService{users: users}
}

// Get retrieves a user visible to the caller. Members see users in their
// own community; super admins see anyone.
func (s *UserService) Get(ctx context.Context, ident *model.Identity, id string) (*model.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	if ident.UserID != user.ID {
		if err := scope.RequireSameCommunity(ident, user.Community); err != nil {
			return nil, err
		}
	}
	return user, nil
}

// Update merges profile fields into a user. Users update themselves;
// community admins update members of their community; super admins update
// anyone. Role and membership fields are stripped for everyone but super
// admins.
func (s *UserService) Update(ctx context.Context, ident *model.Identity, id string, fields map[string]interface{}) (*model.User, error) {
	target, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, ErrUserNotFound
	}

	if ident.UserID != target.ID {
		if err := scope.RequireSuperOrCommunityAdmin(ident); err != nil {
			return nil, err
		}
		if err := scope.RequireSameCommunity(ident, target.Community); err != nil {
			return nil, err
		}
	}

	if !ident.IsSuperAdmin() {
		for _, field := range protectedUserFields {
			delete(fields, field)
		}
	}
	if len(fields) == 0 {
		return target, nil
	}

	updated, err := s.users.UpdateFields(ctx, id, fields)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, ErrUserNotFound
	}
	return updated, nil
}

// Approve grants a pending membership request. Only a super admin or an
// admin of the target's community may approve.
func (s *UserService) Approve(ctx context.Context, ident *model.Identity, id string) (*model.User, error) {
	return s.decideMembership(ctx, ident, id, model.CommunityStatusApproved)
}

// Reject declines a membership request.
func (s *UserService) Reject(ctx context.Context, ident *model.Identity, id string) (*model.User, error) {
	return s.decideMembership(ctx, ident, id, model.CommunityStatusRejected)
}

func (s *UserService) decideMembership(ctx context.Context, ident *model.Identity, id, status string) (*model.User, error) {
	if err := scope.RequireSuperOrCommunityAdmin(ident); err != nil {
		return nil, err
	}

	target, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, ErrUserNotFound
	}
	if target.Community == "" {
		return nil, ErrNoMembershipRequest
	}
	if err := scope.RequireSameCommunity(ident, target.Community); err != nil {
		return nil, err
	}

	role := target.RoleInCommunity
	if role == "" && status == model.CommunityStatusApproved {
		role = model.CommunityRoleMember
	}

	updated, err := s.users.SetMembership(ctx, id, status, role)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, ErrUserNotFound
	}
	return updated, nil
}
