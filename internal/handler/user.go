package handler

import (
	"net/http"

	"github.com/kull-platform/api/internal/middleware"
	"github.com/kull-platform/api/internal/model"
	"github.com/kull-platform/api/internal/service"
)

// UserHandler handles user profile and membership endpoints
type UserHandler struct {
	userService *service.UserService
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// Me handles GET /v1/users/me
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	ident := middleware.GetIdentity(r.Context())
	user, err := h.userService.Get(r.Context(), ident, ident.UserID)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}
	WriteData(w, http.StatusOK, user)
}

// Get handles GET /v1/users/{id}
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	ident := middleware.GetIdentity(r.Context())
	user, err := h.userService.Get(r.Context(), ident, r.PathValue("id"))
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}
	WriteData(w, http.StatusOK, user)
}

// Update handles PATCH /v1/users/{id}
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	var fields map[string]interface{}
	if err := DecodeJSON(r, &fields); err != nil {
		WriteError(w, model.NewBadRequestError("Invalid request body"))
		return
	}

	ident := middleware.GetIdentity(r.Context())
	user, err := h.userService.Update(r.Context(), ident, r.PathValue("id"), fields)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}
	WriteMessage(w, http.StatusOK, "User updated successfully", user)
}

// Approve handles POST /v1/users/{id}/approve
func (h *UserHandler) Approve(w http.ResponseWriter, r *http.Request) {
	ident := middleware.GetIdentity(r.Context())
	user, err := h.userService.Approve(r.Context(), ident, r.PathValue("id"))
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}
	WriteMessage(w, http.StatusOK, "User approved successfully", user)
}

// Reject handles POST /v1/users/{id}/reject
func (h *UserHandler) Reject(w http.ResponseWriter, r *http.Request) {
	ident := middleware.GetIdentity(r.Context())
	user, err := h.userService.Reject(r.Context(), ident, r.PathValue("id"))
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}
	WriteMessage(w, http.StatusOK, "User rejected successfully", user)
}
