package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/jengzang/grenades-backend-go/internal/repository"
)

// FavouriteService marks and unmarks grenades for a user
type FavouriteService struct {
	repo    *repository.FavouriteRepository
	catalog *CatalogService
	log     zerolog.Logger
}

// NewFavouriteService creates a new favourite service
func NewFavouriteService(repo *repository.FavouriteRepository, catalog *CatalogService, log zerolog.Logger) *FavouriteService {
	return &FavouriteService{repo: repo, catalog: catalog, log: log}
}

// Add marks the grenade and returns the stored state
func (s *FavouriteService) Add(ctx context.Context, userID, grenadeID int64) (bool, error) {
	if err := s.repo.Add(ctx, userID, grenadeID); err != nil {
		return false, err
	}
	return s.settle(ctx, userID, grenadeID)
}

// Remove unmarks the grenade and returns the stored state
func (s *FavouriteService) Remove(ctx context.Context, userID, grenadeID int64) (bool, error) {
	if err := s.repo.Remove(ctx, userID, grenadeID); err != nil {
		return false, err
	}
	return s.settle(ctx, userID, grenadeID)
}

// Toggle flips the state the client believes the grenade is in.
// The returned value is read back from storage and wins over the client's view.
func (s *FavouriteService) Toggle(ctx context.Context, userID, grenadeID int64, currentlyFavourite bool) (bool, error) {
	if currentlyFavourite {
		return s.Remove(ctx, userID, grenadeID)
	}
	return s.Add(ctx, userID, grenadeID)
}

func (s *FavouriteService) settle(ctx context.Context, userID, grenadeID int64) (bool, error) {
	favourite, err := s.repo.IsFavourite(ctx, userID, grenadeID)
	if err != nil {
		return false, err
	}
	s.catalog.FavouriteChanged(userID, grenadeID, favourite)
	s.log.Debug().Int64("user_id", userID).Int64("grenade_id", grenadeID).
		Bool("favourite", favourite).Msg("Favourite updated")
	return favourite, nil
}
