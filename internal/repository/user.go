package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/kull-platform/api/internal/database"
	"github.com/kull-platform/api/internal/model"
)

// UserRepository handles user data access
type UserRepository struct {
	db database.Database
}

// NewUserRepository creates a new user repository
func NewUserRepository(db database.Database) *UserRepository {
	return &UserRepository{db: db}
}

// Create creates a new user. Duplicate email or phone surfaces as
// database.ErrDuplicate.
func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	createQuery := `
		CREATE user CONTENT {
			firstName: $firstName,
			lastName: $lastName,
			code: $code,
			email: IF $email IS NOT NULL THEN $email ELSE NONE END,
			phone: IF $phone IS NOT NULL THEN $phone ELSE NONE END,
			passwordHash: $passwordHash,
			role: $role,
			active: true,
			community: IF $community IS NOT NULL THEN $community ELSE NONE END,
			communityStatus: IF $communityStatus IS NOT NULL THEN $communityStatus ELSE NONE END,
			roleInCommunity: IF $roleInCommunity IS NOT NULL THEN $roleInCommunity ELSE NONE END,
			createdAt: time::now()
		}
	`
	vars := map[string]interface{}{
		"firstName":       user.FirstName,
		"lastName":        user.LastName,
		"code":            user.Code,
		"email":           nilIfEmpty(user.Email),
		"phone":           nilIfEmpty(user.Phone),
		"passwordHash":    user.PasswordHash,
		"role":            user.Role,
		"community":       nilIfEmpty(user.Community),
		"communityStatus": nilIfEmpty(user.CommunityStatus),
		"roleInCommunity": nilIfEmpty(user.RoleInCommunity),
	}

	result, err := r.db.QueryOne(ctx, createQuery, vars)
	if err != nil {
		return err
	}

	created, err := parseUser(recordFromResult(result))
	if err != nil {
		return err
	}
	user.ID = created.ID
	user.Active = created.Active
	user.CreatedAt = created.CreatedAt
	return nil
}

// GetByID retrieves a user by id. Returns nil when the user does not exist.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*model.User, error) {
	result, err := r.db.QueryOne(ctx, "SELECT * FROM type::record($id)", map[string]interface{}{
		"id": ensureRecordID("user", id),
	})
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return parseUser(recordFromResult(result))
}

// GetByEmailOrPhone looks a user up by login identifier.
func (r *UserRepository) GetByEmailOrPhone(ctx context.Context, identifier string) (*model.User, error) {
	lookup := "SELECT * FROM user WHERE email = $identifier OR phone = $identifier LIMIT 1"
	result, err := r.db.QueryOne(ctx, lookup, map[string]interface{}{"identifier": identifier})
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return parseUser(recordFromResult(result))
}

// UpdateFields merges fields into a user record and returns the updated
// user, or nil when the user does not exist.
func (r *UserRepository) UpdateFields(ctx context.Context, id string, fields map[string]interface{}) (*model.User, error) {
	result, err := r.db.QueryOne(ctx, "UPDATE type::record($id) MERGE $data", map[string]interface{}{
		"id":   ensureRecordID("user", id),
		"data": fields,
	})
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return parseUser(recordFromResult(result))
}

// SetMembership updates a user's community membership status and role.
func (r *UserRepository) SetMembership(ctx context.Context, id, status, roleInCommunity string) (*model.User, error) {
	fields := map[string]interface{}{"communityStatus": status}
	if roleInCommunity != "" {
		fields["roleInCommunity"] = roleInCommunity
	}
	return r.UpdateFields(ctx, id, fields)
}

// parseUser converts a normalized record into a User.
func parseUser(record map[string]interface{}) (*model.User, error) {
	if record == nil {
		return nil, nil
	}

	passwordHash := getString(record, "passwordHash")
	delete(record, "passwordHash")

	data, err := json.Marshal(record)
	if err != nil {
		return nil, fmt.Errorf("parse user: %w", err)
	}
	var user model.User
	if err := json.Unmarshal(data, &user); err != nil {
		return nil, fmt.Errorf("parse user: %w", err)
	}
	user.PasswordHash = passwordHash
	return &user, nil
}
