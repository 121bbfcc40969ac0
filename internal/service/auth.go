package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/kull-platform/api/internal/database"
	"github.com/kull-platform/api/internal/model"
	"github.com/kull-platform/api/pkg/token"
)

const bcryptCost = 12

// AuthUserStore is the user persistence the auth service needs.
type AuthUserStore interface {
	Create(ctx context.Context, user *model.User) error
	GetByEmailOrPhone(ctx context.Context, identifier string) (*model.User, error)
}

// JoinCodeResolver resolves a community join code to its community.
type JoinCodeResolver interface {
	GetByJoinCode(ctx context.Context, code string) (*model.Community, error)
}

// AuthService handles registration and login.
type AuthService struct {
	users       AuthUserStore
	communities JoinCodeResolver
	tokens      *token.Service
}

// NewAuthService creates a new auth service
func NewAuthService(users AuthUserStore, communities JoinCodeResolver, tokens *token.Service) *AuthService {
	return &AuthService{users: users, communities: communities, tokens: tokens}
}

// RegisterRequest carries the fields accepted at sign-up.
type RegisterRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Password  string `json:"password"`
	JoinCode  string `json:"joinCode"`
	Gender    string `json:"gender"`
}

// Register creates a user account and returns the user with a signed token.
//
// A valid join code enrolls the user into that community with a pending
// membership; approval is a separate admin action. An invalid join code
// fails the whole registration rather than silently creating an unaffiliated
// account.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*model.User, string, error) {
	if req.FirstName == "" || req.LastName == "" {
		return nil, "", ErrNameRequired
	}
	if req.Email == "" && req.Phone == "" {
		return nil, "", ErrEmailOrPhoneRequired
	}
	if req.Password == "" {
		return nil, "", ErrPasswordRequired
	}
	if len(req.Password) < 8 {
		return nil, "", ErrPasswordTooShort
	}

	for _, identifier := range []string{req.Email, req.Phone} {
		if identifier == "" {
			continue
		}
		existing, err := s.users.GetByEmailOrPhone(ctx, identifier)
		if err != nil {
			return nil, "", err
		}
		if existing != nil {
			return nil, "", ErrUserExists
		}
	}

	user := &model.User{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Code:      uuid.NewString(),
		Email:     req.Email,
		Phone:     req.Phone,
		Role:      model.RoleUser,
		Gender:    req.Gender,
	}

	if req.JoinCode != "" {
		community, err := s.communities.GetByJoinCode(ctx, req.JoinCode)
		if err != nil {
			return nil, "", err
		}
		if community == nil {
			return nil, "", ErrInvalidJoinCode
		}
		user.Community = community.ID
		user.CommunityStatus = model.CommunityStatusPending
		user.RoleInCommunity = model.CommunityRoleMember
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		return nil, "", err
	}
	user.PasswordHash = string(hash)

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			return nil, "", ErrUserExists
		}
		return nil, "", err
	}

	signed, err := s.signFor(user)
	if err != nil {
		return nil, "", err
	}
	return user, signed, nil
}

// Login authenticates by email or phone plus password.
func (s *AuthService) Login(ctx context.Context, identifier, password string) (*model.User, string, error) {
	if identifier == "" {
		return nil, "", ErrEmailOrPhoneRequired
	}
	if password == "" {
		return nil, "", ErrPasswordRequired
	}

	user, err := s.users.GetByEmailOrPhone(ctx, identifier)
	if err != nil {
		return nil, "", err
	}
	if user == nil {
		return nil, "", ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}
	if !user.Active {
		return nil, "", ErrUserDisabled
	}

	signed, err := s.signFor(user)
	if err != nil {
		return nil, "", err
	}
	return user, signed, nil
}

func (s *AuthService) signFor(user *model.User) (string, error) {
	claims := token.Claims{
		Email:           user.Email,
		Phone:           user.Phone,
		Role:            user.Role,
		Community:       user.Community,
		RoleInCommunity: user.RoleInCommunity,
	}
	claims.Subject = user.ID
	return s.tokens.Sign(claims)
}
