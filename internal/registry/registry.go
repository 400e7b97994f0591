// Package registry manages working-group creation and lookup. Groups are
// append-only: once created, configuration is never updated or deleted, and
// only the usage counters move (through the ingestion pipeline).
package registry

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/openagora/agora/internal/models"
	"github.com/openagora/agora/internal/storage"
	"go.uber.org/zap"
)

type Registry struct {
	store  storage.GroupStore
	logger *zap.Logger
}

func New(store storage.GroupStore, logger *zap.Logger) *Registry {
	return &Registry{store: store, logger: logger}
}

// Create assigns a fresh id, merges the overrides onto the default
// configuration template, and initializes usage metadata to zero.
func (r *Registry) Create(ctx context.Context, name, description, domain, createdBy string, overrides models.WorkingGroupConfig) (*models.WorkingGroup, error) {
	if name == "" {
		return nil, fmt.Errorf("working group name is required")
	}

	now := time.Now()
	group := &models.WorkingGroup{
		ID:          uuid.New().String(),
		Name:        name,
		Description: description,
		Domain:      domain,
		Status:      "active",
		CreatedBy:   createdBy,
		Config:      models.MergeConfig(models.DefaultWorkingGroupConfig(), overrides),
		Metadata: models.WorkingGroupMetadata{
			CreatedAt:    now,
			UpdatedAt:    now,
			LastActivity: now,
		},
	}

	if err := r.store.CreateGroup(ctx, group); err != nil {
		return nil, fmt.Errorf("failed to create working group: %w", err)
	}

	r.logger.Info("Created working group",
		zap.String("group_id", group.ID),
		zap.String("name", group.Name),
		zap.String("domain", group.Domain))
	return group, nil
}

func (r *Registry) Get(ctx context.Context, id string) (*models.WorkingGroup, error) {
	return r.store.GetGroup(ctx, id)
}

func (r *Registry) List(ctx context.Context) ([]*models.WorkingGroup, error) {
	return r.store.ListGroups(ctx)
}
