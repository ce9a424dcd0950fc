package service

import (
	"context"
	"fmt"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/jengzang/grenades-backend-go/internal/models"
	"github.com/jengzang/grenades-backend-go/internal/repository"
)

// Preference keys besides the grenade type and side names
const (
	PrefFavourite  = "is_favourite"
	PrefDifficulty = "difficulty"
)

// PreferenceService persists the filter toggles of a user.
// Drill-down fields are never stored.
type PreferenceService struct {
	repo *repository.PreferenceRepository
	log  zerolog.Logger
}

// NewPreferenceService creates a new preference service
func NewPreferenceService(repo *repository.PreferenceRepository, log zerolog.Logger) *PreferenceService {
	return &PreferenceService{repo: repo, log: log}
}

// Load returns the stored filter state, falling back to defaults for missing or malformed keys
func (s *PreferenceService) Load(ctx context.Context, userID int64) (models.FilterState, error) {
	values, err := s.repo.Get(ctx, userID)
	if err != nil {
		return models.FilterState{}, err
	}
	return DecodePreferences(values), nil
}

// Save writes every toggle of f
func (s *PreferenceService) Save(ctx context.Context, userID int64, f models.FilterState) (models.FilterState, error) {
	if f.MaxDifficulty != 0 && !models.ValidDifficulty(f.MaxDifficulty) {
		return models.FilterState{}, fmt.Errorf("%w: difficulty must be within %d..%d",
			ErrInvalidInput, models.MinDifficulty, models.MaxDifficulty)
	}
	values := EncodePreferences(f)
	if err := s.repo.Set(ctx, userID, values); err != nil {
		return models.FilterState{}, err
	}
	return DecodePreferences(values), nil
}

// EncodePreferences stores each toggle as "true"/"false".
// Types or sides missing from f are stored as visible.
func EncodePreferences(f models.FilterState) map[string]string {
	values := make(map[string]string, len(models.GrenadeTypes)+len(models.Sides)+2)
	for _, t := range models.GrenadeTypes {
		visible, ok := f.TypeVisible[t]
		values[string(t)] = strconv.FormatBool(visible || !ok)
	}
	for _, side := range models.Sides {
		visible, ok := f.SideVisible[side]
		values[string(side)] = strconv.FormatBool(visible || !ok)
	}
	values[PrefFavourite] = strconv.FormatBool(f.FavouritesOnly)

	difficulty := f.MaxDifficulty
	if difficulty == 0 {
		difficulty = models.MaxDifficulty
	}
	values[PrefDifficulty] = strconv.Itoa(difficulty)
	return values
}

// DecodePreferences is the inverse of EncodePreferences
func DecodePreferences(values map[string]string) models.FilterState {
	f := models.DefaultFilterState()
	for _, t := range models.GrenadeTypes {
		if b, ok := parseBool(values[string(t)]); ok {
			f.TypeVisible[t] = b
		}
	}
	for _, side := range models.Sides {
		if b, ok := parseBool(values[string(side)]); ok {
			f.SideVisible[side] = b
		}
	}
	if b, ok := parseBool(values[PrefFavourite]); ok {
		f.FavouritesOnly = b
	}
	if d, err := strconv.Atoi(values[PrefDifficulty]); err == nil && models.ValidDifficulty(d) {
		f.MaxDifficulty = d
	}
	return f
}

func parseBool(s string) (bool, bool) {
	switch s {
	case "true":
		return true, true
	case "false":
		return false, true
	}
	return false, false
}
