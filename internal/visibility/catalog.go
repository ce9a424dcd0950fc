// Package visibility decides which grenade setups a map view shows.
package visibility

import (
	"bytes"
	"encoding/json"
	"strconv"

	"github.com/jengzang/grenades-backend-go/internal/models"
)

type group struct {
	key    string
	setups []models.Grenade
	byID   map[int64]int
}

// Catalog holds every setup of one map grouped by destination.
// Groups and setups keep insertion order.
type Catalog struct {
	groups []*group
	byKey  map[string]int
}

// NewCatalog creates an empty catalog
func NewCatalog() *Catalog {
	return &Catalog{byKey: make(map[string]int)}
}

// GroupByDestination builds a catalog keyed by each setup's destination position
func GroupByDestination(grenades []models.Grenade) *Catalog {
	c := NewCatalog()
	for _, g := range grenades {
		c.Add(g.DestinationKey(), g)
	}
	return c
}

// Add places a setup under the given destination key. A setup whose ID is
// already in that group replaces the earlier entry in place.
func (c *Catalog) Add(key string, g models.Grenade) {
	i, ok := c.byKey[key]
	if !ok {
		i = len(c.groups)
		c.byKey[key] = i
		c.groups = append(c.groups, &group{key: key, byID: make(map[int64]int)})
	}
	grp := c.groups[i]
	if j, dup := grp.byID[g.ID]; dup {
		grp.setups[j] = g
		return
	}
	grp.byID[g.ID] = len(grp.setups)
	grp.setups = append(grp.setups, g)
}

// Group returns the setups stored under key
func (c *Catalog) Group(key string) ([]models.Grenade, bool) {
	if c == nil {
		return nil, false
	}
	i, ok := c.byKey[key]
	if !ok {
		return nil, false
	}
	return c.groups[i].setups, true
}

// Keys returns the destination keys in insertion order
func (c *Catalog) Keys() []string {
	if c == nil {
		return nil
	}
	keys := make([]string, len(c.groups))
	for i, g := range c.groups {
		keys[i] = g.key
	}
	return keys
}

// Len returns the number of destination groups
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.groups)
}

// Size returns the total number of setups
func (c *Catalog) Size() int {
	if c == nil {
		return 0
	}
	n := 0
	for _, g := range c.groups {
		n += len(g.setups)
	}
	return n
}

// SetFavourite updates the favourite flag of a setup and reports whether it was found
func (c *Catalog) SetFavourite(id int64, favourite bool) bool {
	if c == nil {
		return false
	}
	for _, g := range c.groups {
		if j, ok := g.byID[id]; ok {
			g.setups[j].IsFavourite = favourite
			return true
		}
	}
	return false
}

// Clone returns a copy that can be modified without touching c
func (c *Catalog) Clone() *Catalog {
	out := NewCatalog()
	if c == nil {
		return out
	}
	for _, g := range c.groups {
		for _, s := range g.setups {
			out.Add(g.key, s)
		}
	}
	return out
}

// MarshalJSON encodes the catalog as {destinationKey: {setupID: setup}} in insertion order
func (c *Catalog) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	if c != nil {
		for i, g := range c.groups {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeKey(&buf, g.key); err != nil {
				return nil, err
			}
			buf.WriteByte('{')
			for j, s := range g.setups {
				if j > 0 {
					buf.WriteByte(',')
				}
				if err := writeKey(&buf, strconv.FormatInt(s.ID, 10)); err != nil {
					return nil, err
				}
				b, err := json.Marshal(s)
				if err != nil {
					return nil, err
				}
				buf.Write(b)
			}
			buf.WriteByte('}')
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func writeKey(buf *bytes.Buffer, key string) error {
	b, err := json.Marshal(key)
	if err != nil {
		return err
	}
	buf.Write(b)
	buf.WriteByte(':')
	return nil
}
