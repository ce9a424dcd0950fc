package api

import (
	"database/sql"

	"github.com/rs/zerolog"

	"github.com/jengzang/grenades-backend-go/internal/auth"
	"github.com/jengzang/grenades-backend-go/internal/cache"
	"github.com/jengzang/grenades-backend-go/internal/config"
	"github.com/jengzang/grenades-backend-go/internal/logging"
	"github.com/jengzang/grenades-backend-go/internal/repository"
	"github.com/jengzang/grenades-backend-go/internal/service"
)

// Services holds everything the router serves
type Services struct {
	UserIssuer  *auth.Issuer
	AdminIssuer *auth.Issuer

	Catalog     *service.CatalogService
	Grenades    *service.GrenadeService
	Favourites  *service.FavouriteService
	Preferences *service.PreferenceService
	Users       *service.UserService
	Admin       *service.AdminService
}

// NewServices wires repositories and services over db
func NewServices(db *sql.DB, cfg *config.Config, log zerolog.Logger) *Services {
	users := repository.NewUserRepository(db)
	positions := repository.NewPositionRepository(db)
	combos := repository.NewKeyComboRepository(db)

	s := &Services{
		UserIssuer:  auth.NewIssuer(cfg.BotToken, cfg.UserTokenTTL),
		AdminIssuer: auth.NewIssuer(cfg.AdminSecret, cfg.AdminTokenTTL),
	}
	s.Catalog = service.NewCatalogService(
		repository.NewGrenadeRepository(db),
		cache.NewCatalogCache(cfg.CacheTTL),
		logging.Component(log, "catalog"),
	)
	s.Grenades = service.NewGrenadeService(db, s.Catalog, logging.Component(log, "grenades"))
	s.Favourites = service.NewFavouriteService(repository.NewFavouriteRepository(db), s.Catalog, logging.Component(log, "favourites"))
	s.Preferences = service.NewPreferenceService(repository.NewPreferenceRepository(db), logging.Component(log, "preferences"))
	s.Users = service.NewUserService(cfg.BotToken, s.UserIssuer, users, logging.Component(log, "users"))
	s.Admin = service.NewAdminService(
		service.AdminConfig{
			Username:     cfg.AdminUsername,
			PasswordHash: cfg.AdminPasswordHash,
			SnapRadius:   cfg.SnapRadius,
		},
		s.AdminIssuer, positions, combos, users, s.Catalog,
		logging.Component(log, "admin"),
	)
	return s
}
