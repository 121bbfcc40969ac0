package handler

import (
	"net/http"

	"github.com/kull-platform/api/internal/middleware"
	"github.com/kull-platform/api/internal/model"
	"github.com/kull-platform/api/internal/query"
	"github.com/kull-platform/api/internal/service"
)

// ResourceHandler serves the uniform CRUD surface of one content resource.
// All per-resource variation (allow-lists, required fields, write
// restrictions) lives in the resource definition; the handler code is
// identical for every resource.
type ResourceHandler struct {
	svc *service.ResourceService
}

// NewResourceHandler creates a handler for one resource service
func NewResourceHandler(svc *service.ResourceService) *ResourceHandler {
	return &ResourceHandler{svc: svc}
}

// List handles GET /v1/{resource}
func (h *ResourceHandler) List(w http.ResponseWriter, r *http.Request) {
	spec, err := query.Parse(r.URL.Query(), h.svc.Definition().Query)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	ident := middleware.GetIdentity(r.Context())
	docs, total, err := h.svc.List(r.Context(), ident, spec)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}
	WriteList(w, docs, total, spec.Page, spec.Limit)
}

// Get handles GET /v1/{resource}/{id}
func (h *ResourceHandler) Get(w http.ResponseWriter, r *http.Request) {
	ident := middleware.GetIdentity(r.Context())
	doc, err := h.svc.Get(r.Context(), ident, r.PathValue("id"))
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}
	WriteData(w, http.StatusOK, doc)
}

// Create handles POST /v1/{resource}
func (h *ResourceHandler) Create(w http.ResponseWriter, r *http.Request) {
	var doc map[string]interface{}
	if err := DecodeJSON(r, &doc); err != nil {
		WriteError(w, model.NewBadRequestError("Invalid request body"))
		return
	}
	if doc == nil {
		doc = map[string]interface{}{}
	}

	ident := middleware.GetIdentity(r.Context())
	created, err := h.svc.Create(r.Context(), ident, doc)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}
	WriteMessage(w, http.StatusCreated, h.svc.Definition().Name+" created successfully", created)
}

// Update handles PATCH /v1/{resource}/{id}
func (h *ResourceHandler) Update(w http.ResponseWriter, r *http.Request) {
	var fields map[string]interface{}
	if err := DecodeJSON(r, &fields); err != nil {
		WriteError(w, model.NewBadRequestError("Invalid request body"))
		return
	}
	if fields == nil {
		fields = map[string]interface{}{}
	}

	ident := middleware.GetIdentity(r.Context())
	updated, err := h.svc.Update(r.Context(), ident, r.PathValue("id"), fields)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}
	WriteMessage(w, http.StatusOK, h.svc.Definition().Name+" updated successfully", updated)
}

// Delete handles DELETE /v1/{resource}/{id}
func (h *ResourceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ident := middleware.GetIdentity(r.Context())
	if err := h.svc.Delete(r.Context(), ident, r.PathValue("id")); err != nil {
		WriteError(w, MapServiceError(err))
		return
	}
	WriteMessage(w, http.StatusOK, h.svc.Definition().Name+" deleted successfully", nil)
}

// Register mounts the resource's routes on a mux under the given path
// segment, e.g. "posts" → /v1/posts and /v1/posts/{id}. Every route is
// passed through wrap, which the server uses to require authentication.
func (h *ResourceHandler) Register(mux *http.ServeMux, segment string, wrap func(http.HandlerFunc) http.Handler) {
	mux.Handle("GET /v1/"+segment, wrap(h.List))
	mux.Handle("POST /v1/"+segment, wrap(h.Create))
	mux.Handle("GET /v1/"+segment+"/{id}", wrap(h.Get))
	mux.Handle("PATCH /v1/"+segment+"/{id}", wrap(h.Update))
	mux.Handle("DELETE /v1/"+segment+"/{id}", wrap(h.Delete))
}
