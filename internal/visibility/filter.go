package visibility

import (
	"bytes"
	"encoding/json"

	"github.com/jengzang/grenades-backend-go/internal/models"
)

// VisibleGroup is one destination group after filtering
type VisibleGroup struct {
	Key    string           `json:"key"`
	Setups []models.Grenade `json:"setups"`
}

// VisibleSet is the filtered view of a catalog, ordered like the catalog
type VisibleSet struct {
	groups []VisibleGroup
}

// Groups returns the visible groups in order
func (v VisibleSet) Groups() []VisibleGroup {
	return v.groups
}

// Get returns the visible setups under key
func (v VisibleSet) Get(key string) ([]models.Grenade, bool) {
	for _, g := range v.groups {
		if g.Key == key {
			return g.Setups, true
		}
	}
	return nil, false
}

// Keys returns the visible destination keys in order
func (v VisibleSet) Keys() []string {
	keys := make([]string, len(v.groups))
	for i, g := range v.groups {
		keys[i] = g.Key
	}
	return keys
}

// Len returns the number of visible groups
func (v VisibleSet) Len() int {
	return len(v.groups)
}

// MarshalJSON encodes the set as {destinationKey: [setup, ...]} keeping group order
func (v VisibleSet) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, g := range v.groups {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeKey(&buf, g.Key); err != nil {
			return nil, err
		}
		b, err := json.Marshal(g.Setups)
		if err != nil {
			return nil, err
		}
		buf.Write(b)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Passes reports whether a single setup survives every filter predicate.
// Missing keys in the toggle maps count as hidden.
func Passes(g models.Grenade, f models.FilterState) bool {
	return f.TypeVisible[g.Type] &&
		f.SideVisible[g.Side] &&
		f.MaxDifficulty >= g.Difficult &&
		(!f.FavouritesOnly || g.IsFavourite) &&
		(f.ExtraType == "" || g.Type == f.ExtraType)
}

func filterGroup(setups []models.Grenade, f models.FilterState) []models.Grenade {
	out := make([]models.Grenade, 0, len(setups))
	for _, g := range setups {
		if Passes(g, f) {
			out = append(out, g)
		}
	}
	return out
}

// Compute returns the setups visible under f, grouped by destination.
//
// With an active destination the result has exactly one entry under that key,
// empty when nothing passes or the key is not in the catalog. Otherwise every
// group with at least one visible setup is returned and empty groups are dropped.
func Compute(c *Catalog, f models.FilterState) VisibleSet {
	if f.ActiveDestination != "" {
		setups, _ := c.Group(f.ActiveDestination)
		return VisibleSet{groups: []VisibleGroup{{
			Key:    f.ActiveDestination,
			Setups: filterGroup(setups, f),
		}}}
	}

	var out VisibleSet
	if c == nil {
		return out
	}
	for _, g := range c.groups {
		visible := filterGroup(g.setups, f)
		if len(visible) > 0 {
			out.groups = append(out.groups, VisibleGroup{Key: g.key, Setups: visible})
		}
	}
	return out
}
