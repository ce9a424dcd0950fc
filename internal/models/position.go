package models

import (
	"errors"
	"fmt"
	"math"
	"strconv"
)

const positionEpsilon = 1e-6

// Position is a point on the radar image, expressed as percentages of the map size
type Position struct {
	Top    float64 `json:"top"`
	Left   float64 `json:"left"`
	Bottom float64 `json:"bottom"`
	Right  float64 `json:"right"`
}

// NewPosition builds a position from its top/left offsets, deriving bottom and right
func NewPosition(top, left float64) Position {
	return Position{Top: top, Left: left, Bottom: 100 - top, Right: 100 - left}
}

// Validate checks the range of every side and that opposite sides sum to 100
func (p Position) Validate() error {
	for name, v := range map[string]float64{"top": p.Top, "left": p.Left, "bottom": p.Bottom, "right": p.Right} {
		if v < 0 || v > 100 {
			return fmt.Errorf("%s must be within 0..100, got %v", name, v)
		}
	}
	if math.Abs(p.Top+p.Bottom-100) > positionEpsilon {
		return fmt.Errorf("top (%v) and bottom (%v) must sum to 100", p.Top, p.Bottom)
	}
	if math.Abs(p.Left+p.Right-100) > positionEpsilon {
		return fmt.Errorf("left (%v) and right (%v) must sum to 100", p.Left, p.Right)
	}
	return nil
}

// Key returns the destination group key for this position
func (p Position) Key() string {
	return strconv.FormatFloat(p.Top, 'f', -1, 64) + "_" + strconv.FormatFloat(p.Left, 'f', -1, 64)
}

// MapPosition is a named point saved for a map
type MapPosition struct {
	ID       int64    `json:"id" db:"id"`
	Map      CsMap    `json:"map,omitempty" db:"map"`
	Name     string   `json:"name" db:"name"`
	Position Position `json:"position" db:"position"`
}

// NewMapPosition references a saved position by ID or describes a new one
type NewMapPosition struct {
	ID       int64     `json:"id,omitempty"`
	Name     string    `json:"name,omitempty"`
	Position *Position `json:"position,omitempty"`
}

var (
	ErrPositionAmbiguous  = errors.New("position id and position data cannot be sent together")
	ErrPositionIncomplete = errors.New("new position requires both name and position")
)

// IsReference reports whether the position points at an already saved one
func (p NewMapPosition) IsReference() bool {
	return p.ID != 0
}

// Validate enforces the id-xor-data rule
func (p NewMapPosition) Validate() error {
	if p.ID != 0 {
		if p.Position != nil {
			return ErrPositionAmbiguous
		}
		return nil
	}
	if p.Name == "" || p.Position == nil {
		return ErrPositionIncomplete
	}
	return p.Position.Validate()
}

// KeyCombo is the key binding used to perform a throw
type KeyCombo struct {
	ID   int64  `json:"id" db:"id"`
	Text string `json:"text" db:"text"`
}

// NewKeyCombo references a saved key combo by ID or carries the text of a new one
type NewKeyCombo struct {
	ID   int64  `json:"id,omitempty"`
	Text string `json:"text,omitempty"`
}

var (
	ErrKeyComboAmbiguous = errors.New("key combo id and text cannot be sent together")
	ErrKeyComboEmpty     = errors.New("key combo requires either id or text")
)

// Validate enforces the id-xor-text rule
func (k NewKeyCombo) Validate() error {
	switch {
	case k.ID != 0 && k.Text != "":
		return ErrKeyComboAmbiguous
	case k.ID == 0 && k.Text == "":
		return ErrKeyComboEmpty
	}
	return nil
}
