package handler

import (
	"net/http"

	"github.com/kull-platform/api/internal/middleware"
	"github.com/kull-platform/api/internal/model"
	"github.com/kull-platform/api/internal/query"
	"github.com/kull-platform/api/internal/service"
)

// communityQueryOptions are the allow-lists for listing communities.
var communityQueryOptions = query.Options{
	AllowFilterFields:  []string{"name", "createdBy"},
	AllowSortFields:    []string{"name", "createdAt", "updatedAt"},
	AllowProjectFields: []string{"name", "description", "joinCode", "createdBy", "createdAt", "updatedAt"},
}

// CommunityHandler handles community and configuration endpoints
type CommunityHandler struct {
	communityService *service.CommunityService
}

// NewCommunityHandler creates a new community handler
func NewCommunityHandler(communityService *service.CommunityService) *CommunityHandler {
	return &CommunityHandler{communityService: communityService}
}

// Create handles POST /v1/communities
func (h *CommunityHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req service.CreateCommunityRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("Invalid request body"))
		return
	}

	ident := middleware.GetIdentity(r.Context())
	community, err := h.communityService.Create(r.Context(), ident, req)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}
	WriteMessage(w, http.StatusCreated, "Community created successfully", community)
}

// List handles GET /v1/communities
func (h *CommunityHandler) List(w http.ResponseWriter, r *http.Request) {
	spec, err := query.Parse(r.URL.Query(), communityQueryOptions)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	ident := middleware.GetIdentity(r.Context())
	docs, total, err := h.communityService.List(r.Context(), ident, spec)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}
	WriteList(w, docs, total, spec.Page, spec.Limit)
}

// Get handles GET /v1/communities/{id}
func (h *CommunityHandler) Get(w http.ResponseWriter, r *http.Request) {
	ident := middleware.GetIdentity(r.Context())
	community, err := h.communityService.Get(r.Context(), ident, r.PathValue("id"))
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}
	WriteData(w, http.StatusOK, community)
}

// Update handles PATCH /v1/communities/{id}
func (h *CommunityHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req service.CreateCommunityRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("Invalid request body"))
		return
	}

	ident := middleware.GetIdentity(r.Context())
	community, err := h.communityService.Update(r.Context(), ident, r.PathValue("id"), req)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}
	WriteMessage(w, http.StatusOK, "Community updated successfully", community)
}

// Delete handles DELETE /v1/communities/{id}
func (h *CommunityHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ident := middleware.GetIdentity(r.Context())
	if err := h.communityService.Delete(r.Context(), ident, r.PathValue("id")); err != nil {
		WriteError(w, MapServiceError(err))
		return
	}
	WriteMessage(w, http.StatusOK, "Community deleted successfully", nil)
}

// GetConfiguration handles GET /v1/communities/{id}/configuration
func (h *CommunityHandler) GetConfiguration(w http.ResponseWriter, r *http.Request) {
	ident := middleware.GetIdentity(r.Context())
	config, err := h.communityService.GetConfiguration(r.Context(), ident, r.PathValue("id"))
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}
	WriteData(w, http.StatusOK, config)
}

// UpsertConfiguration handles PUT /v1/communities/{id}/configuration
func (h *CommunityHandler) UpsertConfiguration(w http.ResponseWriter, r *http.Request) {
	var settings map[string]interface{}
	if err := DecodeJSON(r, &settings); err != nil {
		WriteError(w, model.NewBadRequestError("Invalid request body"))
		return
	}

	ident := middleware.GetIdentity(r.Context())
	config, err := h.communityService.UpsertConfiguration(r.Context(), ident, r.PathValue("id"), settings)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}
	WriteMessage(w, http.StatusOK, "Configuration saved successfully", config)
}

// DeleteConfiguration handles DELETE /v1/communities/{id}/configuration
func (h *CommunityHandler) DeleteConfiguration(w http.ResponseWriter, r *http.Request) {
	ident := middleware.GetIdentity(r.Context())
	if err := h.communityService.DeleteConfiguration(r.Context(), ident, r.PathValue("id")); err != nil {
		WriteError(w, MapServiceError(err))
		return
	}
	WriteMessage(w, http.StatusOK, "Configuration deleted successfully", nil)
}
