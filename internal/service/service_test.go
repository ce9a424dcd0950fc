package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jengzang/grenades-backend-go/internal/cache"
	"github.com/jengzang/grenades-backend-go/internal/database/dbtest"
	"github.com/jengzang/grenades-backend-go/internal/models"
	"github.com/jengzang/grenades-backend-go/internal/repository"
)

type env struct {
	db        *sql.DB
	catalog   *CatalogService
	grenades  *GrenadeService
	favs      *FavouriteService
	prefs     *PreferenceService
	users     *repository.UserRepository
	positions *repository.PositionRepository
	combos    *repository.KeyComboRepository
}

func newEnv(t *testing.T) *env {
	db := dbtest.Open(t)
	log := zerolog.Nop()
	catalog := NewCatalogService(repository.NewGrenadeRepository(db), cache.NewCatalogCache(time.Minute), log)
	return &env{
		db:        db,
		catalog:   catalog,
		grenades:  NewGrenadeService(db, catalog, log),
		favs:      NewFavouriteService(repository.NewFavouriteRepository(db), catalog, log),
		prefs:     NewPreferenceService(repository.NewPreferenceRepository(db), log),
		users:     repository.NewUserRepository(db),
		positions: repository.NewPositionRepository(db),
		combos:    repository.NewKeyComboRepository(db),
	}
}

func postID(id int64) *int64 { return &id }

func newPosition(name string, top, left float64) models.NewMapPosition {
	p := models.NewPosition(top, left)
	return models.NewMapPosition{Name: name, Position: &p}
}

func smokeFromSpawn() models.NewGrenade {
	return models.NewGrenade{
		Map:             models.MapMirage,
		Type:            models.GrenadeSmoke,
		Side:            models.SideT,
		Difficult:       2,
		TgPostID:        postID(100),
		InitialPosition: newPosition("t spawn", 80, 90),
		FinalPosition:   newPosition("window", 40, 30),
		KeyCombo:        models.NewKeyCombo{Text: "jump throw"},
	}
}

// save stores ng and returns the saved grenade
func (e *env) save(t *testing.T, ng models.NewGrenade) *models.Grenade {
	res, err := e.grenades.Save(context.Background(), ng)
	require.NoError(t, err)
	return res.Grenade
}

func TestGrenadeService_SaveCreatesReferences(t *testing.T) {
	e := newEnv(t)
	ng := smokeFromSpawn()
	ng.BestTime = &models.BestTime{Minutes: 1, Seconds: 0}

	res, err := e.grenades.Save(context.Background(), ng)
	require.NoError(t, err)

	g := res.Grenade
	assert.NotZero(t, g.ID)
	assert.Equal(t, "window", g.FinalPosition.Name)
	assert.Equal(t, "40_30", g.DestinationKey())
	assert.Equal(t, "jump throw", g.KeyCombo.Text)
	require.NotNil(t, g.Data.BestTiming)
	assert.Equal(t, 59, *g.Data.BestTiming)
	assert.Len(t, res.Messages, 4)
}

func TestGrenadeService_SaveReusesReferences(t *testing.T) {
	e := newEnv(t)
	first := e.save(t, smokeFromSpawn())

	ng := smokeFromSpawn()
	ng.Type = models.GrenadeFlash
	ng.InitialPosition = models.NewMapPosition{ID: first.InitialPosition.ID}
	ng.FinalPosition = models.NewMapPosition{ID: first.FinalPosition.ID}
	ng.KeyCombo = models.NewKeyCombo{ID: first.KeyCombo.ID}

	res, err := e.grenades.Save(context.Background(), ng)
	require.NoError(t, err)
	assert.Equal(t, first.FinalPosition.ID, res.Grenade.FinalPosition.ID)
	assert.Len(t, res.Messages, 1)
}

func TestGrenadeService_SaveRejects(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	first := e.save(t, smokeFromSpawn())

	decoy := smokeFromSpawn()
	decoy.Type = "DECOY"
	_, err := e.grenades.Save(ctx, decoy)
	assert.ErrorIs(t, err, ErrInvalidInput)

	same := smokeFromSpawn()
	same.InitialPosition = models.NewMapPosition{ID: first.FinalPosition.ID}
	same.FinalPosition = models.NewMapPosition{ID: first.FinalPosition.ID}
	_, err = e.grenades.Save(ctx, same)
	assert.ErrorIs(t, err, ErrInvalidInput)

	otherMap := smokeFromSpawn()
	otherMap.Map = models.MapNuke
	otherMap.InitialPosition = models.NewMapPosition{ID: first.InitialPosition.ID}
	_, err = e.grenades.Save(ctx, otherMap)
	assert.ErrorIs(t, err, ErrInvalidInput)

	missing := smokeFromSpawn()
	missing.ID = 999
	_, err = e.grenades.Save(ctx, missing)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestGrenadeService_SaveRollsBackOnConflict(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	first := e.save(t, smokeFromSpawn())

	dup := smokeFromSpawn()
	dup.InitialPosition = models.NewMapPosition{ID: first.InitialPosition.ID}
	dup.FinalPosition = models.NewMapPosition{ID: first.FinalPosition.ID}
	dup.KeyCombo = models.NewKeyCombo{Text: "run throw"}

	_, err := e.grenades.Save(ctx, dup)
	assert.ErrorIs(t, err, repository.ErrConflict)

	combos, err := e.combos.List(ctx)
	require.NoError(t, err)
	require.Len(t, combos, 1)
	assert.Equal(t, "jump throw", combos[0].Text)
}

func TestGrenadeService_UpdateAndDelete(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	first := e.save(t, smokeFromSpawn())

	edit := smokeFromSpawn()
	edit.ID = first.ID
	edit.Difficult = 3
	edit.InitialPosition = models.NewMapPosition{ID: first.InitialPosition.ID}
	edit.FinalPosition = models.NewMapPosition{ID: first.FinalPosition.ID}
	edit.KeyCombo = models.NewKeyCombo{ID: first.KeyCombo.ID}

	res, err := e.grenades.Save(ctx, edit)
	require.NoError(t, err)
	assert.Equal(t, first.ID, res.Grenade.ID)
	assert.Equal(t, 3, res.Grenade.Difficult)
	assert.Equal(t, []string{"Grenade 1 updated"}, res.Messages)

	require.NoError(t, e.grenades.Delete(ctx, first.ID))
	assert.ErrorIs(t, e.grenades.Delete(ctx, first.ID), repository.ErrNotFound)
}

func TestCatalogService_Catalog(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	first := e.save(t, smokeFromSpawn())

	flash := smokeFromSpawn()
	flash.Type = models.GrenadeFlash
	flash.InitialPosition = models.NewMapPosition{ID: first.InitialPosition.ID}
	flash.FinalPosition = models.NewMapPosition{ID: first.FinalPosition.ID}
	flash.KeyCombo = models.NewKeyCombo{ID: first.KeyCombo.ID}
	e.save(t, flash)

	draft := smokeFromSpawn()
	draft.TgPostID = nil
	draft.FinalPosition = newPosition("connector", 50, 50)
	draft.InitialPosition = models.NewMapPosition{ID: first.InitialPosition.ID}
	draft.KeyCombo = models.NewKeyCombo{ID: first.KeyCombo.ID}
	e.save(t, draft)

	c, err := e.catalog.Catalog(ctx, models.MapMirage, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"40_30"}, c.Keys())
	assert.Equal(t, 2, c.Size())

	_, err = e.catalog.Catalog(ctx, "SHORTDUST", 0)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestCatalogService_InvalidatedOnSave(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	c, err := e.catalog.Catalog(ctx, models.MapMirage, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, c.Len())

	e.save(t, smokeFromSpawn())

	c, err = e.catalog.Catalog(ctx, models.MapMirage, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, c.Len())
}

func TestCatalogService_Visible(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	first := e.save(t, smokeFromSpawn())

	molly := smokeFromSpawn()
	molly.Type = models.GrenadeMolotov
	molly.Side = models.SideCT
	molly.InitialPosition = models.NewMapPosition{ID: first.InitialPosition.ID}
	molly.FinalPosition = models.NewMapPosition{ID: first.FinalPosition.ID}
	molly.KeyCombo = models.NewKeyCombo{ID: first.KeyCombo.ID}
	e.save(t, molly)

	res, err := e.catalog.Visible(ctx, models.MapMirage, 0, models.DefaultFilterState())
	require.NoError(t, err)
	require.Len(t, res.Markers, 1)
	assert.Equal(t, "cluster", string(res.Markers[0].Kind))
	assert.Equal(t, []models.GrenadeType{models.GrenadeSmoke, models.GrenadeMolotov}, res.Markers[0].Types)

	f := models.DefaultFilterState()
	f.SideVisible[models.SideCT] = false
	res, err = e.catalog.Visible(ctx, models.MapMirage, 0, f)
	require.NoError(t, err)
	setups, ok := res.Visible.Get("40_30")
	require.True(t, ok)
	require.Len(t, setups, 1)
	assert.Equal(t, models.GrenadeSmoke, setups[0].Type)
}

func TestFavouriteService_Toggle(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	g := e.save(t, smokeFromSpawn())
	_, err := e.users.Upsert(ctx, models.User{ID: 7, Name: "Ivan"})
	require.NoError(t, err)

	// warm the cache so the toggle has to patch it
	_, err = e.catalog.Catalog(ctx, models.MapMirage, 7)
	require.NoError(t, err)

	fav, err := e.favs.Toggle(ctx, 7, g.ID, false)
	require.NoError(t, err)
	assert.True(t, fav)

	c, err := e.catalog.Catalog(ctx, models.MapMirage, 7)
	require.NoError(t, err)
	setups, _ := c.Group("40_30")
	assert.True(t, setups[0].IsFavourite)

	others, err := e.catalog.Catalog(ctx, models.MapMirage, 8)
	require.NoError(t, err)
	setups, _ = others.Group("40_30")
	assert.False(t, setups[0].IsFavourite)

	// a stale client view still ends in the stored state
	fav, err = e.favs.Toggle(ctx, 7, g.ID, false)
	require.NoError(t, err)
	assert.True(t, fav)

	fav, err = e.favs.Toggle(ctx, 7, g.ID, true)
	require.NoError(t, err)
	assert.False(t, fav)

	_, err = e.favs.Add(ctx, 7, 999)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestPreferenceService_Defaults(t *testing.T) {
	e := newEnv(t)
	f, err := e.prefs.Load(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, models.DefaultFilterState(), f)
}

func TestPreferenceService_RoundTrip(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	f := models.DefaultFilterState()
	f.TypeVisible[models.GrenadeHE] = false
	f.SideVisible[models.SideT] = false
	f.FavouritesOnly = true
	f.MaxDifficulty = 1
	f.ActiveDestination = "40_30"
	f.ExtraType = models.GrenadeSmoke

	_, err := e.prefs.Save(ctx, 1, f)
	require.NoError(t, err)

	got, err := e.prefs.Load(ctx, 1)
	require.NoError(t, err)
	assert.False(t, got.TypeVisible[models.GrenadeHE])
	assert.True(t, got.TypeVisible[models.GrenadeSmoke])
	assert.False(t, got.SideVisible[models.SideT])
	assert.True(t, got.FavouritesOnly)
	assert.Equal(t, 1, got.MaxDifficulty)
	assert.Empty(t, got.ActiveDestination)
	assert.Empty(t, got.ExtraType)

	f.MaxDifficulty = 5
	_, err = e.prefs.Save(ctx, 1, f)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestEncodePreferences(t *testing.T) {
	f := models.FilterState{
		TypeVisible:   map[models.GrenadeType]bool{models.GrenadeFlash: false},
		MaxDifficulty: 2,
	}
	assert.Equal(t, map[string]string{
		"SMOKE": "true", "HE": "true", "FLASH": "false", "MOLOTOV": "true",
		"T": "true", "CT": "true",
		"is_favourite": "false", "difficulty": "2",
	}, EncodePreferences(f))
}

func TestDecodePreferences_Malformed(t *testing.T) {
	f := DecodePreferences(map[string]string{
		"SMOKE":        "yes",
		"CT":           "false",
		"is_favourite": "1",
		"difficulty":   "9",
	})
	assert.True(t, f.TypeVisible[models.GrenadeSmoke])
	assert.False(t, f.SideVisible[models.SideCT])
	assert.False(t, f.FavouritesOnly)
	assert.Equal(t, models.MaxDifficulty, f.MaxDifficulty)
}

func TestGrenadeService_SanitizesText(t *testing.T) {
	e := newEnv(t)
	ng := smokeFromSpawn()
	ng.Data.AdditionalInfo = "<b>aim</b> at the antenna<script>alert(1)</script>"
	ng.FinalPosition.Name = "<i>window</i>"
	ng.KeyCombo.Text = "<b>jump</b> throw"

	g := e.save(t, ng)
	assert.Equal(t, "<b>aim</b> at the antenna", g.Data.AdditionalInfo)
	assert.Equal(t, "window", g.FinalPosition.Name)
	assert.Equal(t, "jump throw", g.KeyCombo.Text)

	blank := smokeFromSpawn()
	blank.Type = models.GrenadeHE
	blank.FinalPosition.Name = "<script>x</script>"
	_, err := e.grenades.Save(context.Background(), blank)
	assert.ErrorIs(t, err, ErrInvalidInput)
}
