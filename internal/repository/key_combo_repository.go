package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jengzang/grenades-backend-go/internal/models"
)

// KeyComboRepository handles database operations for key combos
type KeyComboRepository struct {
	db DBTX
}

// NewKeyComboRepository creates a new key combo repository
func NewKeyComboRepository(db DBTX) *KeyComboRepository {
	return &KeyComboRepository{db: db}
}

// WithTx returns a repository bound to tx
func (r *KeyComboRepository) WithTx(tx *sql.Tx) *KeyComboRepository {
	return &KeyComboRepository{db: tx}
}

// List returns every key combo
func (r *KeyComboRepository) List(ctx context.Context) ([]models.KeyCombo, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, text FROM key_combos ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query key combos: %w", err)
	}
	defer rows.Close()

	combos := []models.KeyCombo{}
	for rows.Next() {
		var k models.KeyCombo
		if err := rows.Scan(&k.ID, &k.Text); err != nil {
			return nil, fmt.Errorf("failed to scan key combo: %w", err)
		}
		combos = append(combos, k)
	}
	return combos, rows.Err()
}

// GetByID retrieves a key combo by ID
func (r *KeyComboRepository) GetByID(ctx context.Context, id int64) (*models.KeyCombo, error) {
	var k models.KeyCombo
	err := r.db.QueryRowContext(ctx, `SELECT id, text FROM key_combos WHERE id = ?`, id).Scan(&k.ID, &k.Text)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("key combo %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get key combo: %w", err)
	}
	return &k, nil
}

// Create inserts a key combo. Texts are unique ignoring case.
func (r *KeyComboRepository) Create(ctx context.Context, k *models.KeyCombo) error {
	result, err := r.db.ExecContext(ctx, `INSERT INTO key_combos (text) VALUES (?)`, k.Text)
	if isUniqueViolation(err) {
		return fmt.Errorf("key combo %q: %w", k.Text, ErrConflict)
	}
	if err != nil {
		return fmt.Errorf("failed to create key combo: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	k.ID = id
	return nil
}

// Update changes the text of a key combo
func (r *KeyComboRepository) Update(ctx context.Context, k models.KeyCombo) error {
	result, err := r.db.ExecContext(ctx, `UPDATE key_combos SET text = ? WHERE id = ?`, k.Text, k.ID)
	if isUniqueViolation(err) {
		return fmt.Errorf("key combo %q: %w", k.Text, ErrConflict)
	}
	if err != nil {
		return fmt.Errorf("failed to update key combo: %w", err)
	}
	return expectOne(result, "key combo", k.ID)
}

// Delete removes a key combo together with every grenade that uses it
func (r *KeyComboRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM key_combos WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete key combo: %w", err)
	}
	return expectOne(result, "key combo", id)
}
