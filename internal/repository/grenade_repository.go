package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jengzang/grenades-backend-go/internal/models"
)

// GrenadeRepository handles database operations for grenade setups
type GrenadeRepository struct {
	db DBTX
}

// NewGrenadeRepository creates a new grenade repository
func NewGrenadeRepository(db DBTX) *GrenadeRepository {
	return &GrenadeRepository{db: db}
}

// WithTx returns a repository bound to tx
func (r *GrenadeRepository) WithTx(tx *sql.Tx) *GrenadeRepository {
	return &GrenadeRepository{db: tx}
}

// The favourite flag is joined for the user bound to the first placeholder
const grenadeSelect = `
	SELECT g.id, g.map, g.type, g.side, g.difficult, g.data, g.tg_post_id, g.tg_data, g.updated_at,
		k.id, k.text,
		ip.id, ip.map, ip.name, ip.pos_top, ip.pos_left, ip.pos_bottom, ip.pos_right,
		fp.id, fp.map, fp.name, fp.pos_top, fp.pos_left, fp.pos_bottom, fp.pos_right,
		CASE WHEN f.user_id IS NULL THEN 0 ELSE 1 END
	FROM grenades g
	JOIN key_combos k ON k.id = g.key_combo_id
	JOIN map_positions ip ON ip.id = g.initial_position_id
	JOIN map_positions fp ON fp.id = g.final_position_id
	LEFT JOIN user_favourites f ON f.grenade_id = g.id AND f.user_id = ?`

func scanGrenade(row interface{ Scan(...any) error }) (models.Grenade, error) {
	var (
		g         models.Grenade
		data      string
		tgData    string
		tgPostID  sql.NullInt64
		updatedAt sql.NullString
		favourite int
	)
	err := row.Scan(
		&g.ID, &g.Map, &g.Type, &g.Side, &g.Difficult, &data, &tgPostID, &tgData, &updatedAt,
		&g.KeyCombo.ID, &g.KeyCombo.Text,
		&g.InitialPosition.ID, &g.InitialPosition.Map, &g.InitialPosition.Name,
		&g.InitialPosition.Position.Top, &g.InitialPosition.Position.Left,
		&g.InitialPosition.Position.Bottom, &g.InitialPosition.Position.Right,
		&g.FinalPosition.ID, &g.FinalPosition.Map, &g.FinalPosition.Name,
		&g.FinalPosition.Position.Top, &g.FinalPosition.Position.Left,
		&g.FinalPosition.Position.Bottom, &g.FinalPosition.Position.Right,
		&favourite,
	)
	if err != nil {
		return g, err
	}

	if err := json.Unmarshal([]byte(data), &g.Data); err != nil {
		return g, fmt.Errorf("failed to decode grenade data: %w", err)
	}
	if err := json.Unmarshal([]byte(tgData), &g.TgData); err != nil {
		return g, fmt.Errorf("failed to decode telegram data: %w", err)
	}
	if tgPostID.Valid {
		id := tgPostID.Int64
		g.TgPostID = &id
	}
	g.UpdatedAt = updatedAt.String
	g.IsFavourite = favourite == 1
	return g, nil
}

// ListByMap returns the grenades of a map with favourite flags for userID.
// Only grenades with a published post are listed unless includeDrafts is set.
func (r *GrenadeRepository) ListByMap(ctx context.Context, m models.CsMap, userID int64, includeDrafts bool) ([]models.Grenade, error) {
	query := grenadeSelect + ` WHERE g.map = ?`
	if !includeDrafts {
		query += ` AND g.tg_post_id IS NOT NULL`
	}
	query += ` ORDER BY g.id`

	rows, err := r.db.QueryContext(ctx, query, userID, m)
	if err != nil {
		return nil, fmt.Errorf("failed to query grenades: %w", err)
	}
	defer rows.Close()

	grenades := []models.Grenade{}
	for rows.Next() {
		g, err := scanGrenade(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan grenade: %w", err)
		}
		grenades = append(grenades, g)
	}
	return grenades, rows.Err()
}

// GetByID retrieves a grenade with the favourite flag for userID
func (r *GrenadeRepository) GetByID(ctx context.Context, id, userID int64) (*models.Grenade, error) {
	g, err := scanGrenade(r.db.QueryRowContext(ctx, grenadeSelect+` WHERE g.id = ?`, userID, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("grenade %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get grenade: %w", err)
	}
	return &g, nil
}

// GrenadeRecord is the row form of a grenade, referencing its positions and combo by ID
type GrenadeRecord struct {
	ID                int64
	Map               models.CsMap
	Type              models.GrenadeType
	Side              models.Side
	Difficult         int
	Data              models.GrenadeData
	TgPostID          *int64
	TgData            models.TelegramData
	KeyComboID        int64
	InitialPositionID int64
	FinalPositionID   int64
}

func (rec GrenadeRecord) encode() (string, string, error) {
	data, err := json.Marshal(rec.Data)
	if err != nil {
		return "", "", fmt.Errorf("failed to encode grenade data: %w", err)
	}
	tgData, err := json.Marshal(rec.TgData)
	if err != nil {
		return "", "", fmt.Errorf("failed to encode telegram data: %w", err)
	}
	return string(data), string(tgData), nil
}

func (r *GrenadeRepository) classify(err error, rec GrenadeRecord, action string) error {
	switch {
	case isUniqueViolation(err):
		return fmt.Errorf("grenade %s from position %d to %d on %s: %w", rec.Type, rec.InitialPositionID, rec.FinalPositionID, rec.Map, ErrConflict)
	case isForeignKeyViolation(err):
		return fmt.Errorf("grenade references a missing position or key combo: %w", ErrNotFound)
	}
	return fmt.Errorf("failed to %s grenade: %w", action, err)
}

// Create inserts a grenade and sets rec.ID
func (r *GrenadeRepository) Create(ctx context.Context, rec *GrenadeRecord) error {
	data, tgData, err := rec.encode()
	if err != nil {
		return err
	}

	result, err := r.db.ExecContext(ctx, `
		INSERT INTO grenades (
			map, type, side, difficult, data, tg_post_id, tg_data,
			key_combo_id, initial_position_id, final_position_id
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.Map, rec.Type, rec.Side, rec.Difficult, data, rec.TgPostID, tgData,
		rec.KeyComboID, rec.InitialPositionID, rec.FinalPositionID,
	)
	if err != nil {
		return r.classify(err, *rec, "create")
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	rec.ID = id
	return nil
}

// Update overwrites every column of an existing grenade
func (r *GrenadeRepository) Update(ctx context.Context, rec GrenadeRecord) error {
	data, tgData, err := rec.encode()
	if err != nil {
		return err
	}

	result, err := r.db.ExecContext(ctx, `
		UPDATE grenades SET
			map = ?, type = ?, side = ?, difficult = ?, data = ?, tg_post_id = ?, tg_data = ?,
			key_combo_id = ?, initial_position_id = ?, final_position_id = ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`,
		rec.Map, rec.Type, rec.Side, rec.Difficult, data, rec.TgPostID, tgData,
		rec.KeyComboID, rec.InitialPositionID, rec.FinalPositionID, rec.ID,
	)
	if err != nil {
		return r.classify(err, rec, "update")
	}
	return expectOne(result, "grenade", rec.ID)
}

// Delete removes a grenade
func (r *GrenadeRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM grenades WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete grenade: %w", err)
	}
	return expectOne(result, "grenade", id)
}
