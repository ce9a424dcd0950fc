package repository

import (
	"context"
	"fmt"
)

// FavouriteRepository stores which grenades each user marked as favourite
type FavouriteRepository struct {
	db DBTX
}

// NewFavouriteRepository creates a new favourite repository
func NewFavouriteRepository(db DBTX) *FavouriteRepository {
	return &FavouriteRepository{db: db}
}

// Add marks a grenade as favourite. Adding twice is not an error.
func (r *FavouriteRepository) Add(ctx context.Context, userID, grenadeID int64) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO user_favourites (user_id, grenade_id) VALUES (?, ?) ON CONFLICT DO NOTHING`,
		userID, grenadeID,
	)
	if isForeignKeyViolation(err) {
		return fmt.Errorf("user %d or grenade %d: %w", userID, grenadeID, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to add favourite: %w", err)
	}
	return nil
}

// Remove unmarks a grenade. Removing a missing favourite is not an error.
func (r *FavouriteRepository) Remove(ctx context.Context, userID, grenadeID int64) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM user_favourites WHERE user_id = ? AND grenade_id = ?`,
		userID, grenadeID,
	)
	if err != nil {
		return fmt.Errorf("failed to remove favourite: %w", err)
	}
	return nil
}

// IsFavourite reports whether the user marked the grenade
func (r *FavouriteRepository) IsFavourite(ctx context.Context, userID, grenadeID int64) (bool, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM user_favourites WHERE user_id = ? AND grenade_id = ?`,
		userID, grenadeID,
	).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("failed to check favourite: %w", err)
	}
	return n > 0, nil
}
