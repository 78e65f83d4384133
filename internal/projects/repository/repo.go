package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/roomify/roomify-backend/internal/projects/domain"
	"github.com/roomify/roomify-backend/internal/store"
)

const projectKeyPrefix = "project:" // project:{project_id} inside the owner's scope

// Repo persists project records in the owner-scoped key/value store.
// Saves are last-write-wins; there is no delete.
type Repo struct {
	kv store.KV
}

func NewRepo(kv store.KV) *Repo {
	return &Repo{kv: kv}
}

// Save writes the record under project:{id}. Re-saving the same id
// overwrites the previous value.
func (r *Repo) Save(ctx context.Context, ownerID string, record *domain.ProjectRecord) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal project: %w", err)
	}

	if err := r.kv.Set(ctx, ownerID, r.projectKey(record.ID), data); err != nil {
		return fmt.Errorf("failed to save project: %w", err)
	}

	return nil
}

func (r *Repo) Get(ctx context.Context, ownerID, projectID string) (*domain.ProjectRecord, error) {
	data, err := r.kv.Get(ctx, ownerID, r.projectKey(projectID))
	if errors.Is(err, store.ErrNotFound) {
		return nil, domain.ErrProjectNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get project: %w", err)
	}

	var record domain.ProjectRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("failed to unmarshal project: %w", err)
	}

	return &record, nil
}

// List returns all of the owner's project records, values included.
func (r *Repo) List(ctx context.Context, ownerID string) ([]*domain.ProjectRecord, error) {
	entries, err := r.kv.List(ctx, ownerID, projectKeyPrefix)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}

	records := make([]*domain.ProjectRecord, 0, len(entries))
	for _, entry := range entries {
		var record domain.ProjectRecord
		if err := json.Unmarshal(entry.Value, &record); err != nil {
			return nil, fmt.Errorf("failed to unmarshal project %q: %w", entry.Key, err)
		}
		records = append(records, &record)
	}

	return records, nil
}

func (r *Repo) projectKey(projectID string) string {
	return fmt.Sprintf("%s%s", projectKeyPrefix, projectID)
}
