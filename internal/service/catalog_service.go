package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/jengzang/grenades-backend-go/internal/cache"
	"github.com/jengzang/grenades-backend-go/internal/models"
	"github.com/jengzang/grenades-backend-go/internal/repository"
	"github.com/jengzang/grenades-backend-go/internal/visibility"
)

// CatalogService builds per-user catalogs and runs the filter engine over them
type CatalogService struct {
	repo  *repository.GrenadeRepository
	cache *cache.CatalogCache
	log   zerolog.Logger
}

// NewCatalogService creates a new catalog service
func NewCatalogService(repo *repository.GrenadeRepository, c *cache.CatalogCache, log zerolog.Logger) *CatalogService {
	return &CatalogService{repo: repo, cache: c, log: log}
}

// VisibleResult is the visible set of a map together with its marker classification
type VisibleResult struct {
	Visible visibility.VisibleSet `json:"visible"`
	Markers []visibility.Marker   `json:"markers"`
}

// Grenades returns the published grenades of a map with favourite flags for userID
func (s *CatalogService) Grenades(ctx context.Context, m models.CsMap, userID int64) ([]models.Grenade, error) {
	if !m.Valid() {
		return nil, fmt.Errorf("%w: unknown map %q", ErrInvalidInput, m)
	}
	return s.repo.ListByMap(ctx, m, userID, false)
}

// Catalog returns the published grenades of a map grouped by destination.
// The result is shared with the cache and must not be modified.
func (s *CatalogService) Catalog(ctx context.Context, m models.CsMap, userID int64) (*visibility.Catalog, error) {
	key := cache.Key{Map: m, UserID: userID}
	if c, ok := s.cache.Get(key); ok {
		return c, nil
	}

	gen := s.cache.Generation(key)
	grenades, err := s.Grenades(ctx, m, userID)
	if err != nil {
		return nil, err
	}
	c := visibility.GroupByDestination(grenades)
	if !s.cache.Put(key, gen, c) {
		s.log.Debug().Str("map", string(m)).Int64("user_id", userID).Msg("Catalog not cached")
	}

	s.log.Debug().Str("map", string(m)).Int64("user_id", userID).
		Int("groups", c.Len()).Int("grenades", c.Size()).Msg("Catalog built")
	return c, nil
}

// Visible runs the filter engine for the user's catalog of a map
func (s *CatalogService) Visible(ctx context.Context, m models.CsMap, userID int64, f models.FilterState) (VisibleResult, error) {
	c, err := s.Catalog(ctx, m, userID)
	if err != nil {
		return VisibleResult{}, err
	}
	v := visibility.Compute(c, f)
	return VisibleResult{Visible: v, Markers: visibility.Markers(v)}, nil
}

// FavouriteChanged patches cached catalogs after a favourite write
func (s *CatalogService) FavouriteChanged(userID, grenadeID int64, favourite bool) {
	s.cache.SetFavourite(userID, grenadeID, favourite)
}

// Invalidate drops cached catalogs of the given maps
func (s *CatalogService) Invalidate(maps ...models.CsMap) {
	for _, m := range maps {
		s.cache.InvalidateMap(m)
	}
}

// InvalidateAll drops every cached catalog
func (s *CatalogService) InvalidateAll() {
	s.cache.Reset()
}
