package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jengzang/grenades-backend-go/internal/models"
)

// UserRepository handles database operations for mini app users
type UserRepository struct {
	db DBTX
}

// NewUserRepository creates a new user repository
func NewUserRepository(db DBTX) *UserRepository {
	return &UserRepository{db: db}
}

// Upsert inserts the user or refreshes their profile and returns the stored subscription flag.
// The invite URL is only recorded on first insert.
func (r *UserRepository) Upsert(ctx context.Context, u models.User) (bool, error) {
	var subscribed int
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO users (id, username, name, language_code, invite_url)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			username = excluded.username,
			name = excluded.name,
			language_code = excluded.language_code,
			updated_at = CURRENT_TIMESTAMP
		RETURNING is_subscribed`,
		u.ID, u.Username, u.Name, u.LanguageCode, u.InviteURL,
	).Scan(&subscribed)
	if err != nil {
		return false, fmt.Errorf("failed to upsert user: %w", err)
	}
	return subscribed == 1, nil
}

// GetByID retrieves a user by Telegram ID
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	var (
		u          models.User
		username   sql.NullString
		name       sql.NullString
		lang       sql.NullString
		invite     sql.NullString
		subscribed int
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT id, username, name, language_code, invite_url, is_subscribed FROM users WHERE id = ?`, id,
	).Scan(&u.ID, &username, &name, &lang, &invite, &subscribed)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	u.Username, u.Name, u.LanguageCode, u.InviteURL = username.String, name.String, lang.String, invite.String
	u.IsSubscribed = subscribed == 1
	return &u, nil
}

// SetSubscribed records whether the user follows the channel
func (r *UserRepository) SetSubscribed(ctx context.Context, id int64, subscribed bool) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE users SET is_subscribed = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		boolToInt(subscribed), id,
	)
	if err != nil {
		return fmt.Errorf("failed to update subscription: %w", err)
	}
	return expectOne(result, "user", id)
}
