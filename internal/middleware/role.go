package middleware

import (
	"net/http"

	"github.com/kull-platform/api/internal/model"
	"github.com/kull-platform/api/internal/scope"
)

// RequireSuperAdmin returns a middleware that rejects everyone but the
// global super admin. Must run after Auth.
func RequireSuperAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := scope.RequireSuperAdmin(GetIdentity(r.Context())); err != nil {
			model.NewForbiddenError(err.Error()).WriteJSON(w)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin returns a middleware that rejects callers who are neither
// super admin nor an admin of their community. Must run after Auth.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := scope.RequireSuperOrCommunityAdmin(GetIdentity(r.Context())); err != nil {
			model.NewForbiddenError(err.Error()).WriteJSON(w)
			return
		}
		next.ServeHTTP(w, r)
	})
}
