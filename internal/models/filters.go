package models

import (
	"errors"
	"fmt"
)

var ErrInvalidFilter = errors.New("invalid filter")

// FilterState is a user's current view selection on the map
type FilterState struct {
	TypeVisible    map[GrenadeType]bool `json:"type"`
	SideVisible    map[Side]bool        `json:"side"`
	FavouritesOnly bool                 `json:"is_favourite"`
	MaxDifficulty  int                  `json:"difficulty"` // Ceiling, 1-3

	// Drill-down fields, reset on every map change
	ActiveDestination string      `json:"activeFinalPosId,omitempty"`
	ExtraType         GrenadeType `json:"extraFilter,omitempty"`
}

// DefaultFilterState shows everything with no drill-down
func DefaultFilterState() FilterState {
	f := FilterState{
		TypeVisible:   make(map[GrenadeType]bool, len(GrenadeTypes)),
		SideVisible:   make(map[Side]bool, len(Sides)),
		MaxDifficulty: MaxDifficulty,
	}
	for _, t := range GrenadeTypes {
		f.TypeVisible[t] = true
	}
	for _, s := range Sides {
		f.SideVisible[s] = true
	}
	return f
}

// Clone returns a deep copy so callers can mutate the toggles safely
func (f FilterState) Clone() FilterState {
	out := f
	out.TypeVisible = make(map[GrenadeType]bool, len(f.TypeVisible))
	for k, v := range f.TypeVisible {
		out.TypeVisible[k] = v
	}
	out.SideVisible = make(map[Side]bool, len(f.SideVisible))
	for k, v := range f.SideVisible {
		out.SideVisible[k] = v
	}
	return out
}

// WithDefaults fills type and side toggles left out of f with their default visibility
func (f FilterState) WithDefaults() FilterState {
	out := f.Clone()
	for _, t := range GrenadeTypes {
		if _, ok := out.TypeVisible[t]; !ok {
			out.TypeVisible[t] = true
		}
	}
	for _, s := range Sides {
		if _, ok := out.SideVisible[s]; !ok {
			out.SideVisible[s] = true
		}
	}
	return out
}

// Validate rejects unknown toggle keys and an out-of-scale difficulty ceiling
func (f FilterState) Validate() error {
	if !ValidDifficulty(f.MaxDifficulty) {
		return fmt.Errorf("%w: difficulty must be within %d..%d, got %d", ErrInvalidFilter, MinDifficulty, MaxDifficulty, f.MaxDifficulty)
	}
	for t := range f.TypeVisible {
		if !t.Valid() {
			return fmt.Errorf("%w: unknown grenade type %q", ErrInvalidFilter, t)
		}
	}
	for s := range f.SideVisible {
		if !s.Valid() {
			return fmt.Errorf("%w: unknown side %q", ErrInvalidFilter, s)
		}
	}
	if f.ExtraType != "" && !f.ExtraType.Valid() {
		return fmt.Errorf("%w: unknown extraFilter %q", ErrInvalidFilter, f.ExtraType)
	}
	return nil
}

// VisibleRequest asks for the visible set of a map under a filter state
type VisibleRequest struct {
	Map    CsMap        `json:"map_name" binding:"required"`
	UserID int64        `json:"user_id"`
	Filter *FilterState `json:"filter"`
}
