package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/kull-platform/api/internal/database"
	"github.com/kull-platform/api/internal/model"
)

// CommunityRepository handles community and community-configuration data
// access.
type CommunityRepository struct {
	db database.Database
}

// NewCommunityRepository creates a new community repository
func NewCommunityRepository(db database.Database) *CommunityRepository {
	return &CommunityRepository{db: db}
}

// Create creates a new community. Duplicate names surface as
// database.ErrDuplicate.
func (r *CommunityRepository) Create(ctx context.Context, community *model.Community) error {
	createQuery := `
		CREATE community CONTENT {
			name: $name,
			description: IF $description IS NOT NULL THEN $description ELSE NONE END,
			joinCode: $joinCode,
			createdBy: IF $createdBy IS NOT NULL THEN $createdBy ELSE NONE END,
			createdAt: time::now(),
			updatedAt: time::now()
		}
	`
	vars := map[string]interface{}{
		"name":        community.Name,
		"description": nilIfEmpty(community.Description),
		"joinCode":    community.JoinCode,
		"createdBy":   nilIfEmpty(community.CreatedBy),
	}

	result, err := r.db.QueryOne(ctx, createQuery, vars)
	if err != nil {
		return err
	}

	created, err := parseCommunity(recordFromResult(result))
	if err != nil {
		return err
	}
	community.ID = created.ID
	community.CreatedAt = created.CreatedAt
	community.UpdatedAt = created.UpdatedAt
	return nil
}

// GetByID retrieves a community by id. Returns nil when absent.
func (r *CommunityRepository) GetByID(ctx context.Context, id string) (*model.Community, error) {
	result, err := r.db.QueryOne(ctx, "SELECT * FROM type::record($id)", map[string]interface{}{
		"id": ensureRecordID("community", id),
	})
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return parseCommunity(recordFromResult(result))
}

// GetByName retrieves a community by its unique name.
func (r *CommunityRepository) GetByName(ctx context.Context, name string) (*model.Community, error) {
	result, err := r.db.QueryOne(ctx, "SELECT * FROM community WHERE name = $name LIMIT 1", map[string]interface{}{
		"name": name,
	})
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return parseCommunity(recordFromResult(result))
}

// GetByJoinCode resolves a join/referral code to its community.
func (r *CommunityRepository) GetByJoinCode(ctx context.Context, code string) (*model.Community, error) {
	result, err := r.db.QueryOne(ctx, "SELECT * FROM community WHERE joinCode = $code LIMIT 1", map[string]interface{}{
		"code": code,
	})
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return parseCommunity(recordFromResult(result))
}

// UpdateFields merges fields into a community record and returns the
// updated community, or nil when it does not exist.
func (r *CommunityRepository) UpdateFields(ctx context.Context, id string, fields map[string]interface{}) (*model.Community, error) {
	fields["updatedAt"] = time.Now().UTC().Format(time.RFC3339)
	result, err := r.db.QueryOne(ctx, "UPDATE type::record($id) MERGE $data", map[string]interface{}{
		"id":   ensureRecordID("community", id),
		"data": fields,
	})
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return parseCommunity(recordFromResult(result))
}

// Delete removes a community together with its configuration in one
// transaction so neither can outlive the other.
func (r *CommunityRepository) Delete(ctx context.Context, id string) error {
	recordID := ensureRecordID("community", id)
	batch := database.NewAtomicBatch()
	batch.Add("DELETE community_configuration WHERE community = $community", map[string]interface{}{
		"community": recordID,
	})
	batch.Add("DELETE type::record($id)", map[string]interface{}{
		"id": recordID,
	})
	return batch.Execute(ctx, r.db)
}

// GetConfiguration retrieves a community's configuration. Returns nil when
// none exists.
func (r *CommunityRepository) GetConfiguration(ctx context.Context, communityID string) (*model.CommunityConfiguration, error) {
	lookup := "SELECT * FROM community_configuration WHERE community = $community LIMIT 1"
	result, err := r.db.QueryOne(ctx, lookup, map[string]interface{}{
		"community": ensureRecordID("community", communityID),
	})
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return parseConfiguration(recordFromResult(result))
}

// UpsertConfiguration creates or updates a community's configuration. On
// first creation the configuration document and the community's
// back-reference are written in a single transaction, closing the
// partial-failure window between the two writes.
func (r *CommunityRepository) UpsertConfiguration(ctx context.Context, communityID string, settings map[string]interface{}) (*model.CommunityConfiguration, error) {
	recordID := ensureRecordID("community", communityID)

	existing, err := r.GetConfiguration(ctx, communityID)
	if err != nil {
		return nil, err
	}

	if existing == nil {
		createQuery := `
			LET $cfg = (CREATE community_configuration CONTENT {
				community: $community,
				settings: $settings,
				updatedAt: time::now()
			});
			UPDATE type::record($community) SET communityConfiguration = $cfg[0].id
		`
		txQuery := "BEGIN TRANSACTION;\n" + createQuery + ";\nCOMMIT TRANSACTION;"
		if _, err := r.db.Query(ctx, txQuery, map[string]interface{}{
			"community": recordID,
			"settings":  settings,
		}); err != nil {
			return nil, err
		}
	} else {
		updateQuery := `
			UPDATE community_configuration
			MERGE { settings: $settings, updatedAt: time::now() }
			WHERE community = $community
		`
		if err := r.db.Execute(ctx, updateQuery, map[string]interface{}{
			"community": recordID,
			"settings":  settings,
		}); err != nil {
			return nil, err
		}
	}

	return r.GetConfiguration(ctx, communityID)
}

// DeleteConfiguration removes a community's configuration and clears the
// back-reference atomically.
func (r *CommunityRepository) DeleteConfiguration(ctx context.Context, communityID string) error {
	recordID := ensureRecordID("community", communityID)
	batch := database.NewAtomicBatch()
	batch.Add("DELETE community_configuration WHERE community = $community", map[string]interface{}{
		"community": recordID,
	})
	batch.Add("UPDATE type::record($id) SET communityConfiguration = NONE", map[string]interface{}{
		"id": recordID,
	})
	return batch.Execute(ctx, r.db)
}

func parseCommunity(record map[string]interface{}) (*model.Community, error) {
	if record == nil {
		return nil, nil
	}
	data, err := json.Marshal(record)
	if err != nil {
		return nil, fmt.Errorf("parse community: %w", err)
	}
	var community model.Community
	if err := json.Unmarshal(data, &community); err != nil {
		return nil, fmt.Errorf("parse community: %w", err)
	}
	return &community, nil
}

func parseConfiguration(record map[string]interface{}) (*model.CommunityConfiguration, error) {
	if record == nil {
		return nil, nil
	}
	data, err := json.Marshal(record)
	if err != nil {
		return nil, fmt.Errorf("parse configuration: %w", err)
	}
	var config model.CommunityConfiguration
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("parse configuration: %w", err)
	}
	return &config, nil
}
