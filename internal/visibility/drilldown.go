package visibility

import (
	"errors"

	"github.com/jengzang/grenades-backend-go/internal/models"
)

// DrillState is the disclosure level of the map view
type DrillState int

const (
	Collapsed DrillState = iota
	Expanded
	Disambiguated
)

func (s DrillState) String() string {
	switch s {
	case Collapsed:
		return "COLLAPSED"
	case Expanded:
		return "EXPANDED"
	case Disambiguated:
		return "DISAMBIGUATED"
	}
	return "UNKNOWN"
}

var (
	ErrNotExpanded   = errors.New("no destination is expanded")
	ErrNotCluster    = errors.New("expanded destination has a single grenade type")
	ErrTypeNotInside = errors.New("grenade type is not present in the expanded destination")
	ErrTypeChosen    = errors.New("a grenade type is already selected")
)

// DrillDown tracks which destination group the user opened and which type
// they picked inside a multi-type cluster.
type DrillDown struct {
	active string
	extra  models.GrenadeType
	types  []models.GrenadeType
}

// State returns the current disclosure level
func (d *DrillDown) State() DrillState {
	switch {
	case d.active == "":
		return Collapsed
	case d.extra == "":
		return Expanded
	default:
		return Disambiguated
	}
}

// Active returns the expanded destination key, empty when collapsed
func (d *DrillDown) Active() string {
	return d.active
}

// ExtraType returns the type picked inside a cluster, empty when none
func (d *DrillDown) ExtraType() models.GrenadeType {
	return d.extra
}

// NeedsChoice reports whether an expanded cluster is waiting for a type choice
func (d *DrillDown) NeedsChoice() bool {
	return d.State() == Expanded && len(d.types) > 1
}

// ClickMarker handles a click on a destination marker
func (d *DrillDown) ClickMarker(m Marker) {
	if d.active != m.Key {
		d.active = m.Key
		d.extra = ""
		d.types = append([]models.GrenadeType(nil), m.Types...)
		return
	}
	if d.extra != "" {
		d.extra = ""
		return
	}
	d.reset()
}

// SelectType narrows an expanded cluster to one grenade type.
// Once a type is picked the marker has to be clicked again before choosing another.
func (d *DrillDown) SelectType(t models.GrenadeType) error {
	switch d.State() {
	case Collapsed:
		return ErrNotExpanded
	case Disambiguated:
		return ErrTypeChosen
	}
	if len(d.types) < 2 {
		return ErrNotCluster
	}
	for _, known := range d.types {
		if known == t {
			d.extra = t
			return nil
		}
	}
	return ErrTypeNotInside
}

// ClickEmpty handles a click on the map outside every marker
func (d *DrillDown) ClickEmpty() {
	d.reset()
}

// ChangeMap resets the drill-down when another map is selected
func (d *DrillDown) ChangeMap() {
	d.reset()
}

func (d *DrillDown) reset() {
	d.active = ""
	d.extra = ""
	d.types = nil
}

// Apply returns a copy of f carrying the drill-down fields
func (d *DrillDown) Apply(f models.FilterState) models.FilterState {
	out := f.Clone()
	out.ActiveDestination = d.active
	out.ExtraType = d.extra
	return out
}
