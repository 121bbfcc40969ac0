package service

import (
	"context"

	"github.com/kull-platform/api/internal/model"
	"github.com/kull-platform/api/pkg/token"
)

// IdentityUserStore is the user lookup the identity service needs.
type IdentityUserStore interface {
	GetByID(ctx context.Context, id string) (*model.User, error)
}

// IdentityService builds the per-request caller identity from a bearer
// token.
//
// The token is verified first, then the user record is re-fetched from the
// store and the identity derived from the stored state, not the token
// claims. This trades one store read per request for zero staleness: a
// community admin demoted or a membership rejected mid-token-lifetime loses
// its powers immediately rather than at token expiry.
type IdentityService struct {
	tokens *token.Service
	users  IdentityUserStore
}

// NewIdentityService creates a new identity service
func NewIdentityService(tokens *token.Service, users IdentityUserStore) *IdentityService {
	return &IdentityService{tokens: tokens, users: users}
}

// Authenticate verifies a raw bearer token and resolves it to a fresh
// caller identity.
func (s *IdentityService) Authenticate(ctx context.Context, raw string) (*model.Identity, error) {
	claims, err := s.tokens.Verify(raw)
	if err != nil {
		return nil, err
	}

	user, err := s.users.GetByID(ctx, claims.Subject)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUnknownTokenUser
	}
	if !user.Active {
		return nil, ErrUserDisabled
	}

	return user.Identity(), nil
}
