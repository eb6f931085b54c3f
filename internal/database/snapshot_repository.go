package database

import (
	"database/sql"
	"errors"
	"fmt"
)

// SnapshotRepository handles database operations for the persisted progress
// slot. The whole aggregate is stored as one JSON payload under a fixed key.
type SnapshotRepository struct{}

// NewSnapshotRepository creates a new repository instance
func NewSnapshotRepository() *SnapshotRepository {
	return &SnapshotRepository{}
}

// LoadPayload returns the raw serialized snapshot for the given key. The
// second return value is false when no snapshot has been saved yet.
func (r *SnapshotRepository) LoadPayload(key string) (string, bool, error) {
	var payload string
	err := DB.Get(&payload, "SELECT payload FROM progress_snapshots WHERE key = $1", key)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to load progress snapshot: %v", err)
	}
	return payload, true, nil
}

// SavePayload overwrites the snapshot stored under the given key
func (r *SnapshotRepository) SavePayload(key, payload string) error {
	query := `
		INSERT INTO progress_snapshots (key, payload, updated_at)
		VALUES ($1, $2, CURRENT_TIMESTAMP)
		ON CONFLICT (key) DO UPDATE SET payload = $2, updated_at = CURRENT_TIMESTAMP
	`
	if _, err := DB.Exec(query, key, payload); err != nil {
		return fmt.Errorf("failed to save progress snapshot: %v", err)
	}
	return nil
}
