package visibility

import "github.com/jengzang/grenades-backend-go/internal/models"

// MarkerKind tells the renderer how to draw a destination marker
type MarkerKind string

const (
	MarkerEmpty   MarkerKind = "empty"
	MarkerSingle  MarkerKind = "single"
	MarkerCluster MarkerKind = "cluster"
)

// Marker describes one destination marker on the map
type Marker struct {
	Key   string               `json:"key"`
	Kind  MarkerKind           `json:"kind"`
	Types []models.GrenadeType `json:"types"` // Distinct types, first-seen order
	Count int                  `json:"count"`
}

// Classify derives the marker of a destination group from its visible setups
func Classify(key string, setups []models.Grenade) Marker {
	m := Marker{Key: key, Types: []models.GrenadeType{}, Count: len(setups)}
	seen := make(map[models.GrenadeType]struct{}, len(models.GrenadeTypes))
	for _, g := range setups {
		if _, ok := seen[g.Type]; ok {
			continue
		}
		seen[g.Type] = struct{}{}
		m.Types = append(m.Types, g.Type)
	}

	switch len(m.Types) {
	case 0:
		m.Kind = MarkerEmpty
	case 1:
		m.Kind = MarkerSingle
	default:
		m.Kind = MarkerCluster
	}
	return m
}

// Markers classifies every group of a visible set
func Markers(v VisibleSet) []Marker {
	out := make([]Marker, 0, v.Len())
	for _, g := range v.groups {
		out = append(out, Classify(g.Key, g.Setups))
	}
	return out
}

// HasType reports whether the marker contains setups of type t
func (m Marker) HasType(t models.GrenadeType) bool {
	for _, mt := range m.Types {
		if mt == t {
			return true
		}
	}
	return false
}
