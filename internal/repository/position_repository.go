package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jengzang/grenades-backend-go/internal/models"
)

// PositionRepository handles database operations for named map positions
type PositionRepository struct {
	db DBTX
}

// NewPositionRepository creates a new position repository
func NewPositionRepository(db DBTX) *PositionRepository {
	return &PositionRepository{db: db}
}

// WithTx returns a repository bound to tx
func (r *PositionRepository) WithTx(tx *sql.Tx) *PositionRepository {
	return &PositionRepository{db: tx}
}

const positionColumns = `id, map, name, pos_top, pos_left, pos_bottom, pos_right`

func scanPosition(row interface{ Scan(...any) error }) (models.MapPosition, error) {
	var p models.MapPosition
	err := row.Scan(&p.ID, &p.Map, &p.Name, &p.Position.Top, &p.Position.Left, &p.Position.Bottom, &p.Position.Right)
	return p, err
}

// ListByMap returns every saved position of a map
func (r *PositionRepository) ListByMap(ctx context.Context, m models.CsMap) ([]models.MapPosition, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+positionColumns+` FROM map_positions WHERE map = ? ORDER BY id`, m)
	if err != nil {
		return nil, fmt.Errorf("failed to query map positions: %w", err)
	}
	defer rows.Close()

	positions := []models.MapPosition{}
	for rows.Next() {
		p, err := scanPosition(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan map position: %w", err)
		}
		positions = append(positions, p)
	}
	return positions, rows.Err()
}

// GetByID retrieves a position by ID
func (r *PositionRepository) GetByID(ctx context.Context, id int64) (*models.MapPosition, error) {
	p, err := scanPosition(r.db.QueryRowContext(ctx, `SELECT `+positionColumns+` FROM map_positions WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("map position %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get map position: %w", err)
	}
	return &p, nil
}

// Create inserts a new position and sets its ID
func (r *PositionRepository) Create(ctx context.Context, p *models.MapPosition) error {
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO map_positions (map, name, pos_top, pos_left, pos_bottom, pos_right) VALUES (?, ?, ?, ?, ?, ?)`,
		p.Map, p.Name, p.Position.Top, p.Position.Left, p.Position.Bottom, p.Position.Right,
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("map position at %s on %s: %w", p.Position.Key(), p.Map, ErrConflict)
	}
	if err != nil {
		return fmt.Errorf("failed to create map position: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	p.ID = id
	return nil
}

// Update renames or moves a saved position
func (r *PositionRepository) Update(ctx context.Context, p models.MapPosition) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE map_positions SET name = ?, pos_top = ?, pos_left = ?, pos_bottom = ?, pos_right = ? WHERE id = ?`,
		p.Name, p.Position.Top, p.Position.Left, p.Position.Bottom, p.Position.Right, p.ID,
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("map position at %s: %w", p.Position.Key(), ErrConflict)
	}
	if err != nil {
		return fmt.Errorf("failed to update map position: %w", err)
	}
	return expectOne(result, "map position", p.ID)
}

// Delete removes a position together with every grenade that uses it
func (r *PositionRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM map_positions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete map position: %w", err)
	}
	return expectOne(result, "map position", id)
}

func expectOne(result sql.Result, what string, id int64) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s %d: %w", what, id, ErrNotFound)
	}
	return nil
}
