package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/kull-platform/api/internal/model"
	"github.com/kull-platform/api/internal/service"
	"github.com/kull-platform/api/pkg/token"
)

// Authenticator resolves a bearer token to a caller identity.
type Authenticator interface {
	Authenticate(ctx context.Context, raw string) (*model.Identity, error)
}

// Auth returns a middleware that authenticates the request and stores the
// resolved identity in context. Every route behind it sees a non-nil
// identity.
func Auth(auth Authenticator) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				model.NewUnauthorizedError("No token provided").WriteJSON(w)
				return
			}

			// Check Bearer prefix
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				model.NewUnauthorizedError("Invalid authorization header format").WriteJSON(w)
				return
			}

			ident, err := auth.Authenticate(r.Context(), parts[1])
			if err != nil {
				switch {
				case errors.Is(err, token.ErrTokenExpired):
					model.NewUnauthorizedError("Token expired").WriteJSON(w)
				case errors.Is(err, service.ErrUnknownTokenUser):
					model.NewUnauthorizedError("Invalid token user").WriteJSON(w)
				case errors.Is(err, service.ErrUserDisabled):
					model.NewForbiddenError("User account is disabled").WriteJSON(w)
				default:
					model.NewUnauthorizedError("Invalid token").WriteJSON(w)
				}
				return
			}

			ctx := context.WithValue(r.Context(), IdentityKey, ident)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetIdentity extracts the caller identity from context. Returns nil when
// the request did not pass through Auth.
func GetIdentity(ctx context.Context) *model.Identity {
	if ident, ok := ctx.Value(IdentityKey).(*model.Identity); ok {
		return ident
	}
	return nil
}
