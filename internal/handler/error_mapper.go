package handler

import (
	"errors"
	"log/slog"

	"github.com/kull-platform/api/internal/database"
	"github.com/kull-platform/api/internal/model"
	"github.com/kull-platform/api/internal/query"
	"github.com/kull-platform/api/internal/scope"
	"github.com/kull-platform/api/internal/service"
)

// verboseErrors controls whether unhandled errors carry their detail in the
// response's error field. Enabled outside production so developers see the
// cause without digging through logs.
var verboseErrors bool

// SetVerboseErrors toggles detail on unhandled (500) error responses.
// Called once at startup from the loaded configuration.
func SetVerboseErrors(enabled bool) {
	verboseErrors = enabled
}

// MapServiceError converts a service error to an API error envelope. This
// centralizes error handling for all handlers, ensuring consistent HTTP
// status codes and messages across the API. Unknown errors are logged and
// sanitized to a generic 500.
func MapServiceError(err error) *model.APIError {
	if err == nil {
		return nil
	}

	var notFound *service.NotFoundError
	var requiredField *service.RequiredFieldError
	var communityRequired *scope.CommunityRequiredError

	switch {
	// ===== Authentication Errors → 401 =====
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrUnknownTokenUser):
		return model.NewUnauthorizedError(err.Error())

	// ===== Authorization Errors → 403 =====
	case errors.Is(err, scope.ErrSuperAdminOnly),
		errors.Is(err, scope.ErrAdminOnly),
		errors.Is(err, scope.ErrCommunityAccessRequired),
		errors.Is(err, scope.ErrCrossCommunity),
		errors.Is(err, service.ErrUserDisabled):
		return model.NewForbiddenError(err.Error())

	// ===== Not Found Errors → 404 =====
	case errors.Is(err, service.ErrUserNotFound):
		return model.NewNotFoundError("User")
	case errors.Is(err, service.ErrCommunityNotFound):
		return model.NewNotFoundError("Community")
	case errors.Is(err, service.ErrConfigurationNotFound):
		return model.NewNotFoundError("Configuration")
	case errors.As(err, &notFound):
		return model.NewNotFoundError(notFound.Resource)

	// ===== Conflict Errors → 409 =====
	case errors.Is(err, service.ErrUserExists),
		errors.Is(err, service.ErrCommunityNameExists),
		errors.Is(err, database.ErrDuplicate):
		return model.NewConflictError(err.Error())

	// ===== Validation Errors → 400 =====
	case errors.Is(err, query.ErrInvalidFilter):
		return model.NewBadRequestError("Invalid filter")
	case errors.As(err, &communityRequired),
		errors.As(err, &requiredField):
		return model.NewBadRequestError(err.Error())
	case errors.Is(err, service.ErrNameRequired),
		errors.Is(err, service.ErrEmailOrPhoneRequired),
		errors.Is(err, service.ErrPasswordRequired),
		errors.Is(err, service.ErrPasswordTooShort),
		errors.Is(err, service.ErrInvalidJoinCode),
		errors.Is(err, service.ErrCommunityNameRequired),
		errors.Is(err, service.ErrNoMembershipRequest):
		return model.NewBadRequestError(err.Error())

	// ===== Default → 500 =====
	default:
		slog.Error("unhandled service error", slog.Any("error", err))
		apiErr := model.NewInternalError("")
		if verboseErrors {
			apiErr.Err = err.Error()
		}
		return apiErr
	}
}
