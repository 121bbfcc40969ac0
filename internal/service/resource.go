package service

import (
	"context"

	"github.com/kull-platform/api/internal/model"
	"github.com/kull-platform/api/internal/query"
	"github.com/kull-platform/api/internal/scope"
)

// ResourceStore is the document persistence a resource service drives.
type ResourceStore interface {
	List(ctx context.Context, spec *query.Spec) ([]map[string]interface{}, int, error)
	Get(ctx context.Context, id string) (map[string]interface{}, error)
	Create(ctx context.Context, doc map[string]interface{}) (map[string]interface{}, error)
	Update(ctx context.Context, id string, doc map[string]interface{}) (map[string]interface{}, error)
	Delete(ctx context.Context, id string) error
}

// RequiredField declares a field a create payload must carry, with its
// user-facing label for the error message.
type RequiredField struct {
	Field string
	Label string
}

// ResourceDef is the declarative description of one community content
// resource. Adding a resource to the platform means adding one of these at
// wiring time; no per-resource service or repository code is written.
type ResourceDef struct {
	// Name is the user-facing singular name, e.g. "Post" or "Dukaan".
	Name string

	// Table is the store table backing the resource.
	Table string

	// Query holds the resource's filter/sort/projection allow-lists.
	Query query.Options

	// Required lists fields a create payload must carry.
	Required []RequiredField

	// AdminWrites restricts create, update, and delete to super admins and
	// community admins. Reads stay open to approved members.
	AdminWrites bool
}

// ResourceService applies the shared authorization and scoping pipeline to
// one content resource, then delegates to the store.
type ResourceService struct {
	def   ResourceDef
	store ResourceStore
}

// NewResourceService creates a resource service from its definition
func NewResourceService(def ResourceDef, store ResourceStore) *ResourceService {
	return &ResourceService{def: def, store: store}
}

// Definition returns the resource's declarative definition.
func (s *ResourceService) Definition() ResourceDef {
	return s.def
}

// List pages over documents visible to the caller. Non-super-admin callers
// are confined to their own community no matter what filter they sent, and
// responses carry only allow-listed fields.
func (s *ResourceService) List(ctx context.Context, ident *model.Identity, spec *query.Spec) ([]map[string]interface{}, int, error) {
	if err := scope.ScopeList(ident, spec); err != nil {
		return nil, 0, err
	}
	if len(spec.Projection) == 0 {
		spec.Projection = append([]string(nil), s.def.Query.AllowProjectFields...)
	}
	docs, total, err := s.store.List(ctx, spec)
	if err != nil {
		return nil, 0, err
	}
	for i, doc := range docs {
		docs[i] = s.pruneDoc(doc)
	}
	return docs, total, nil
}

// Get retrieves a single document, enforcing community visibility against
// the stored document rather than the request.
func (s *ResourceService) Get(ctx context.Context, ident *model.Identity, id string) (map[string]interface{}, error) {
	doc, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, &NotFoundError{Resource: s.def.Name}
	}
	if err := scope.RequireSameCommunity(ident, docCommunity(doc)); err != nil {
		return nil, err
	}
	return s.pruneDoc(doc), nil
}

// Create validates required fields, pins the document's ownership fields to
// the caller, and stores it.
func (s *ResourceService) Create(ctx context.Context, ident *model.Identity, doc map[string]interface{}) (map[string]interface{}, error) {
	if s.def.AdminWrites {
		if err := scope.RequireSuperOrCommunityAdmin(ident); err != nil {
			return nil, err
		}
	}

	for _, req := range s.def.Required {
		if value, _ := doc[req.Field].(string); value == "" {
			return nil, &RequiredFieldError{Label: req.Label}
		}
	}

	if err := scope.ScopeCreate(ident, doc, s.def.Name); err != nil {
		return nil, err
	}
	return s.store.Create(ctx, doc)
}

// Update merges fields into an existing document. Ownership fields cannot
// be rewritten by anyone but a super admin, so documents cannot be re-homed
// into another community.
func (s *ResourceService) Update(ctx context.Context, ident *model.Identity, id string, fields map[string]interface{}) (map[string]interface{}, error) {
	if s.def.AdminWrites {
		if err := scope.RequireSuperOrCommunityAdmin(ident); err != nil {
			return nil, err
		}
	}

	existing, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, &NotFoundError{Resource: s.def.Name}
	}
	if err := scope.RequireSameCommunity(ident, docCommunity(existing)); err != nil {
		return nil, err
	}

	if ident == nil || !ident.IsSuperAdmin() {
		delete(fields, scope.FieldCommunity)
		delete(fields, scope.FieldCreatedBy)
	}
	delete(fields, "id")

	updated, err := s.store.Update(ctx, id, fields)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, &NotFoundError{Resource: s.def.Name}
	}
	return updated, nil
}

// Delete removes a document after the same visibility check as Update.
func (s *ResourceService) Delete(ctx context.Context, ident *model.Identity, id string) error {
	if s.def.AdminWrites {
		if err := scope.RequireSuperOrCommunityAdmin(ident); err != nil {
			return err
		}
	}

	existing, err := s.store.Get(ctx, id)
	if err != nil {
		return err
	}
	if existing == nil {
		return &NotFoundError{Resource: s.def.Name}
	}
	if err := scope.RequireSameCommunity(ident, docCommunity(existing)); err != nil {
		return err
	}

	return s.store.Delete(ctx, id)
}

func docCommunity(doc map[string]interface{}) string {
	community, _ := doc[scope.FieldCommunity].(string)
	return community
}

// pruneDoc drops stored fields outside the resource's projection allow-list.
// Documents can carry fields that are never part of the read surface, such
// as credential hashes on user records; those must not round-trip to
// clients. A resource with no projection allow-list is served as stored.
func (s *ResourceService) pruneDoc(doc map[string]interface{}) map[string]interface{} {
	allowed := s.def.Query.AllowProjectFields
	if doc == nil || len(allowed) == 0 {
		return doc
	}
	pruned := make(map[string]interface{}, len(allowed)+1)
	if id, ok := doc["id"]; ok {
		pruned["id"] = id
	}
	for _, field := range allowed {
		if value, ok := doc[field]; ok {
			pruned[field] = value
		}
	}
	return pruned
}
