// internal/infra/database/kv_repository.go
package database

import (
	"context"
	"database/sql"
	"fmt"

	"time_recorder_bot/internal/domain/attendance"
)

// ErrKeyNotFound is returned by Get for keys that were never set or were deleted.
var ErrKeyNotFound = fmt.Errorf("key not found")

// KeyValueRepository stores settings and cached state as one row per key.
// Every write replaces the whole value, so concurrent writers cannot leave a
// torn record behind; the last one wins.
type KeyValueRepository struct {
	db *sql.DB
}

func NewKeyValueRepository(db *sql.DB) *KeyValueRepository {
	return &KeyValueRepository{db: db}
}

var _ attendance.KeyValueStore = (*KeyValueRepository)(nil)

func (r *KeyValueRepository) Get(ctx context.Context, key string) (string, error) {
	query := `SELECT value FROM kv_store WHERE setting_key = $1`

	var value string
	err := r.db.QueryRowContext(ctx, query, key).Scan(&value)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", ErrKeyNotFound
		}
		return "", fmt.Errorf("error getting key %s: %w", key, err)
	}
	return value, nil
}

func (r *KeyValueRepository) Set(ctx context.Context, key, value string) error {
	query := `INSERT INTO kv_store (setting_key, value, updated_at)
               VALUES ($1, $2, CURRENT_TIMESTAMP)
               ON CONFLICT (setting_key) DO UPDATE
               SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`

	if _, err := r.db.ExecContext(ctx, query, key, value); err != nil {
		return fmt.Errorf("error setting key %s: %w", key, err)
	}
	return nil
}

func (r *KeyValueRepository) Delete(ctx context.Context, key string) error {
	query := `DELETE FROM kv_store WHERE setting_key = $1`

	if _, err := r.db.ExecContext(ctx, query, key); err != nil {
		return fmt.Errorf("error deleting key %s: %w", key, err)
	}
	return nil
}
