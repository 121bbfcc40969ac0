package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/kull-platform/api/internal/database"
	"github.com/kull-platform/api/internal/model"
	"github.com/kull-platform/api/internal/query"
	"github.com/kull-platform/api/internal/scope"
)

// CommunityStore is the community persistence the community service needs.
type CommunityStore interface {
	Create(ctx context.Context, community *model.Community) error
	GetByID(ctx context.Context, id string) (*model.Community, error)
	GetByName(ctx context.Context, name string) (*model.Community, error)
	UpdateFields(ctx context.Context, id string, fields map[string]interface{}) (*model.Community, error)
	Delete(ctx context.Context, id string) error
	GetConfiguration(ctx context.Context, communityID string) (*model.CommunityConfiguration, error)
	UpsertConfiguration(ctx context.Context, communityID string, settings map[string]interface{}) (*model.CommunityConfiguration, error)
	DeleteConfiguration(ctx context.Context, communityID string) error
}

// CommunityLister pages over community documents.
type CommunityLister interface {
	List(ctx context.Context, spec *query.Spec) ([]map[string]interface{}, int, error)
}

// CommunityService handles community lifecycle and per-community
// configuration. Communities themselves are platform-level objects: only
// super admins create, rename, or delete them. Configuration is delegated
// to each community's own admins.
type CommunityService struct {
	communities CommunityStore
	lister      CommunityLister
}

// NewCommunityService creates a new community service
func NewCommunityService(communities CommunityStore, lister CommunityLister) *CommunityService {
	return &CommunityService{communities: communities, lister: lister}
}

// List pages over communities. Super admins page over all communities;
// everyone else sees at most their own, regardless of the requested filter.
func (s *CommunityService) List(ctx context.Context, ident *model.Identity, spec *query.Spec) ([]map[string]interface{}, int, error) {
	if ident.IsSuperAdmin() {
		return s.lister.List(ctx, spec)
	}

	if err := scope.RequireApprovedMember(ident); err != nil {
		return nil, 0, err
	}
	own, err := s.communities.GetByID(ctx, ident.Community)
	if err != nil {
		return nil, 0, err
	}
	if own == nil {
		return []map[string]interface{}{}, 0, nil
	}
	doc, err := communityDoc(own)
	if err != nil {
		return nil, 0, err
	}
	return []map[string]interface{}{doc}, 1, nil
}

// CreateCommunityRequest carries the fields accepted when creating a
// community.
type CreateCommunityRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Create provisions a new community with a fresh join code.
func (s *CommunityService) Create(ctx context.Context, ident *model.Identity, req CreateCommunityRequest) (*model.Community, error) {
	if err := scope.RequireSuperAdmin(ident); err != nil {
		return nil, err
	}
	if req.Name == "" {
		return nil, ErrCommunityNameRequired
	}

	existing, err := s.communities.GetByName(ctx, req.Name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrCommunityNameExists
	}

	community := &model.Community{
		Name:        req.Name,
		Description: req.Description,
		JoinCode:    uuid.NewString(),
		CreatedBy:   ident.UserID,
	}
	if err := s.communities.Create(ctx, community); err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			return nil, ErrCommunityNameExists
		}
		return nil, err
	}
	return community, nil
}

// Get retrieves a community. Super admins see any community; everyone else
// sees only their own.
func (s *CommunityService) Get(ctx context.Context, ident *model.Identity, id string) (*model.Community, error) {
	community, err := s.communities.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if community == nil {
		return nil, ErrCommunityNotFound
	}
	if err := scope.RequireSameCommunity(ident, community.ID); err != nil {
		return nil, err
	}
	return community, nil
}

// Update merges name/description changes into a community.
func (s *CommunityService) Update(ctx context.Context, ident *model.Identity, id string, req CreateCommunityRequest) (*model.Community, error) {
	if err := scope.RequireSuperAdmin(ident); err != nil {
		return nil, err
	}

	fields := map[string]interface{}{}
	if req.Name != "" {
		conflict, err := s.communities.GetByName(ctx, req.Name)
		if err != nil {
			return nil, err
		}
		if conflict != nil && conflict.ID != ensureCommunityID(id) {
			return nil, ErrCommunityNameExists
		}
		fields["name"] = req.Name
	}
	if req.Description != "" {
		fields["description"] = req.Description
	}

	updated, err := s.communities.UpdateFields(ctx, id, fields)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, ErrCommunityNotFound
	}
	return updated, nil
}

// Delete removes a community and its configuration.
func (s *CommunityService) Delete(ctx context.Context, ident *model.Identity, id string) error {
	if err := scope.RequireSuperAdmin(ident); err != nil {
		return err
	}
	existing, err := s.communities.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if existing == nil {
		return ErrCommunityNotFound
	}
	return s.communities.Delete(ctx, id)
}

// GetConfiguration retrieves a community's configuration. Any member of the
// community (or a super admin) may read it.
func (s *CommunityService) GetConfiguration(ctx context.Context, ident *model.Identity, communityID string) (*model.CommunityConfiguration, error) {
	if err := scope.RequireSameCommunity(ident, ensureCommunityID(communityID)); err != nil {
		return nil, err
	}
	config, err := s.communities.GetConfiguration(ctx, communityID)
	if err != nil {
		return nil, err
	}
	if config == nil {
		return nil, ErrConfigurationNotFound
	}
	return config, nil
}

// UpsertConfiguration creates or replaces a community's configuration
// settings. Restricted to super admins and that community's admins.
func (s *CommunityService) UpsertConfiguration(ctx context.Context, ident *model.Identity, communityID string, settings map[string]interface{}) (*model.CommunityConfiguration, error) {
	if err := scope.RequireSuperOrCommunityAdmin(ident); err != nil {
		return nil, err
	}
	if err := scope.RequireSameCommunity(ident, ensureCommunityID(communityID)); err != nil {
		return nil, err
	}

	community, err := s.communities.GetByID(ctx, communityID)
	if err != nil {
		return nil, err
	}
	if community == nil {
		return nil, ErrCommunityNotFound
	}

	return s.communities.UpsertConfiguration(ctx, communityID, settings)
}

// DeleteConfiguration removes a community's configuration.
func (s *CommunityService) DeleteConfiguration(ctx context.Context, ident *model.Identity, communityID string) error {
	if err := scope.RequireSuperOrCommunityAdmin(ident); err != nil {
		return err
	}
	if err := scope.RequireSameCommunity(ident, ensureCommunityID(communityID)); err != nil {
		return err
	}

	existing, err := s.communities.GetConfiguration(ctx, communityID)
	if err != nil {
		return err
	}
	if existing == nil {
		return ErrConfigurationNotFound
	}
	return s.communities.DeleteConfiguration(ctx, communityID)
}

func communityDoc(community *model.Community) (map[string]interface{}, error) {
	data, err := json.Marshal(community)
	if err != nil {
		return nil, err
	}
	var doc map[string]interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// ensureCommunityID qualifies a bare community id for comparisons against
// the canonical "community:id" form stored on identities.
func ensureCommunityID(id string) string {
	if strings.Contains(id, ":") {
		return id
	}
	return "community:" + id
}
