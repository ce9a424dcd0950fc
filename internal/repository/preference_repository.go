package repository

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
)

// PreferenceRepository is a per-user key-value store of string-encoded settings
type PreferenceRepository struct {
	db *sql.DB
}

// NewPreferenceRepository creates a new preference repository
func NewPreferenceRepository(db *sql.DB) *PreferenceRepository {
	return &PreferenceRepository{db: db}
}

// Get returns every stored value of a user
func (r *PreferenceRepository) Get(ctx context.Context, userID int64) (map[string]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT key, value FROM user_preferences WHERE user_id = ?`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query preferences: %w", err)
	}
	defer rows.Close()

	values := make(map[string]string)
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, fmt.Errorf("failed to scan preference: %w", err)
		}
		values[k] = v
	}
	return values, rows.Err()
}

// Set writes the given keys, leaving other keys untouched
func (r *PreferenceRepository) Set(ctx context.Context, userID int64, values map[string]string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO user_preferences (user_id, key, value) VALUES (?, ?, ?)
			ON CONFLICT (user_id, key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`,
			userID, k, values[k],
		)
		if err != nil {
			return fmt.Errorf("failed to set preference %s: %w", k, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit preferences: %w", err)
	}
	return nil
}
