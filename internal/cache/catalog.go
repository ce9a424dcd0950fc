package cache

import (
	"sync"
	"time"

	"github.com/jengzang/grenades-backend-go/internal/models"
	"github.com/jengzang/grenades-backend-go/internal/visibility"
)

// Key identifies one personalised catalog
type Key struct {
	Map    models.CsMap
	UserID int64
}

type entry struct {
	catalog *visibility.Catalog
	expires time.Time
}

// CatalogCache keeps recently built catalogs so repeated filter changes
// do not hit the database. Entries expire after ttl.
//
// Every write that changes what a catalog would contain bumps a generation
// counter. A fill started before such a write is refused by Put.
type CatalogCache struct {
	mu        sync.Mutex
	ttl       time.Duration
	now       func() time.Time
	entries   map[Key]entry
	nextSweep time.Time

	epoch    uint64
	mapGens  map[models.CsMap]uint64
	userGens map[int64]uint64
}

// NewCatalogCache creates a cache. A non-positive ttl disables caching.
func NewCatalogCache(ttl time.Duration) *CatalogCache {
	return &CatalogCache{
		ttl:      ttl,
		now:      time.Now,
		entries:  make(map[Key]entry),
		mapGens:  make(map[models.CsMap]uint64),
		userGens: make(map[int64]uint64),
	}
}

// Generation returns the token a filler must read before loading the
// catalog of k and hand back to Put.
func (c *CatalogCache) Generation(k Key) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generation(k)
}

// counters only grow, so any bump changes the sum
func (c *CatalogCache) generation(k Key) uint64 {
	return c.epoch + c.mapGens[k.Map] + c.userGens[k.UserID]
}

// Get returns a cached catalog. Callers must not modify it.
func (c *CatalogCache) Get(k Key) (*visibility.Catalog, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[k]
	if !ok {
		return nil, false
	}
	if !c.now().Before(e.expires) {
		delete(c.entries, k)
		return nil, false
	}
	return e.catalog, true
}

// Put stores a catalog under k unless a write touched k after gen was read.
// It reports whether the catalog was stored.
func (c *CatalogCache) Put(k Key, gen uint64, catalog *visibility.Catalog) bool {
	if c.ttl <= 0 {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.generation(k) {
		return false
	}

	now := c.now()
	if !now.Before(c.nextSweep) {
		c.sweep(now)
		c.nextSweep = now.Add(c.ttl)
	}
	c.entries[k] = entry{catalog: catalog, expires: now.Add(c.ttl)}
	return true
}

func (c *CatalogCache) sweep(now time.Time) {
	for k, e := range c.entries {
		if !now.Before(e.expires) {
			delete(c.entries, k)
		}
	}
}

// SetFavourite patches the favourite flag of a grenade in every cached
// catalog of the user, replacing the entry with a patched copy.
func (c *CatalogCache) SetFavourite(userID, grenadeID int64, favourite bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.userGens[userID]++

	now := c.now()
	for k, e := range c.entries {
		if k.UserID != userID {
			continue
		}
		if !now.Before(e.expires) {
			delete(c.entries, k)
			continue
		}
		patched := e.catalog.Clone()
		if patched.SetFavourite(grenadeID, favourite) {
			c.entries[k] = entry{catalog: patched, expires: e.expires}
		}
	}
}

// InvalidateMap drops every cached catalog of a map
func (c *CatalogCache) InvalidateMap(m models.CsMap) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.mapGens[m]++
	for k := range c.entries {
		if k.Map == m {
			delete(c.entries, k)
		}
	}
}

// Reset drops every entry
func (c *CatalogCache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.epoch++
	c.entries = make(map[Key]entry)
}

// Len returns the number of stored entries, expired ones not yet swept included
func (c *CatalogCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
