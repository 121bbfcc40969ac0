package service

import (
	"errors"
	"fmt"
)

// Centralized service layer errors. All errors returned by service methods
// are defined here (or as the typed errors below) so handler-side mapping
// stays predictable. Messages are user-facing.

// ===== Authentication =====
var (
	ErrInvalidCredentials = errors.New("Invalid credentials")
	ErrUnknownTokenUser   = errors.New("Invalid token user")
	ErrUserDisabled       = errors.New("User account is disabled")
)

// ===== Registration =====
var (
	ErrNameRequired         = errors.New("First name and last name are required")
	ErrEmailOrPhoneRequired = errors.New("Either email or phone is required")
	ErrPasswordRequired     = errors.New("Password is required")
	ErrPasswordTooShort     = errors.New("Password must be at least 8 characters")
	ErrUserExists           = errors.New("A user with this email or phone already exists")
	ErrInvalidJoinCode      = errors.New("Invalid community join code")
)

// ===== Users / membership =====
var (
	ErrUserNotFound        = errors.New("User not found")
	ErrNoMembershipRequest = errors.New("User has not requested to join a community")
)

// ===== Communities =====
var (
	ErrCommunityNotFound     = errors.New("Community not found")
	ErrCommunityNameRequired = errors.New("Community name is required")
	ErrCommunityNameExists   = errors.New("Community name already exists")
	ErrConfigurationNotFound = errors.New("Configuration not found")
)

// NotFoundError is returned when a named resource document is absent.
type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found", e.Resource)
}

// RequiredFieldError is returned when a create payload omits a field the
// resource declared mandatory. Label is the user-facing field label, e.g.
// "Dukaan name".
type RequiredFieldError struct {
	Label string
}

func (e *RequiredFieldError) Error() string {
	return fmt.Sprintf("%s is required", e.Label)
}
