package visibility

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jengzang/grenades-backend-go/internal/models"
)

func setup(id int64, t models.GrenadeType, side models.Side, difficulty int, fav bool) models.Grenade {
	return models.Grenade{ID: id, Type: t, Side: side, Difficult: difficulty, IsFavourite: fav}
}

func scenarioCatalog() *Catalog {
	c := NewCatalog()
	c.Add("D1", setup(1, models.GrenadeSmoke, models.SideT, 1, false))
	c.Add("D1", setup(2, models.GrenadeHE, models.SideT, 2, false))
	return c
}

func ids(setups []models.Grenade) []int64 {
	out := make([]int64, len(setups))
	for i, s := range setups {
		out[i] = s.ID
	}
	return out
}

func TestCompute_ScenarioA_DifficultyCeiling(t *testing.T) {
	f := models.DefaultFilterState()
	f.MaxDifficulty = 1

	v := Compute(scenarioCatalog(), f)

	require.Equal(t, []string{"D1"}, v.Keys())
	got, _ := v.Get("D1")
	assert.Equal(t, []int64{1}, ids(got))
}

func TestCompute_ScenarioB_ClusterMarker(t *testing.T) {
	f := models.DefaultFilterState()
	f.MaxDifficulty = 3

	v := Compute(scenarioCatalog(), f)

	got, ok := v.Get("D1")
	require.True(t, ok)
	assert.Equal(t, []int64{1, 2}, ids(got))

	markers := Markers(v)
	require.Len(t, markers, 1)
	assert.Equal(t, MarkerCluster, markers[0].Kind)
	assert.Equal(t, []models.GrenadeType{models.GrenadeSmoke, models.GrenadeHE}, markers[0].Types)
}

func TestCompute_ScenarioC_FavouritesDropGroup(t *testing.T) {
	f := models.DefaultFilterState()
	f.FavouritesOnly = true

	v := Compute(scenarioCatalog(), f)

	assert.Equal(t, 0, v.Len())
	b, err := json.Marshal(v)
	require.NoError(t, err)
	assert.JSONEq(t, `{}`, string(b))
}

func TestCompute_ScenarioD_ExtraTypeFilter(t *testing.T) {
	f := models.DefaultFilterState()
	f.ActiveDestination = "D1"
	f.ExtraType = models.GrenadeHE

	v := Compute(scenarioCatalog(), f)

	require.Equal(t, []string{"D1"}, v.Keys())
	got, _ := v.Get("D1")
	assert.Equal(t, []int64{2}, ids(got))
}

func TestCompute_DrillDownKeepsSingleGroup(t *testing.T) {
	c := scenarioCatalog()
	c.Add("D2", setup(3, models.GrenadeFlash, models.SideCT, 1, false))
	f := models.DefaultFilterState()
	f.ActiveDestination = "D2"

	v := Compute(c, f)

	assert.Equal(t, []string{"D2"}, v.Keys())
}

func TestCompute_DrillDownEmptyGroupIsEmitted(t *testing.T) {
	f := models.DefaultFilterState()
	f.ActiveDestination = "D1"
	f.FavouritesOnly = true

	v := Compute(scenarioCatalog(), f)

	got, ok := v.Get("D1")
	require.True(t, ok)
	assert.Empty(t, got)
	assert.NotNil(t, got)
}

func TestCompute_DrillDownMissingKey(t *testing.T) {
	f := models.DefaultFilterState()
	f.ActiveDestination = "nowhere"

	v := Compute(scenarioCatalog(), f)

	require.Equal(t, []string{"nowhere"}, v.Keys())
	b, err := json.Marshal(v)
	require.NoError(t, err)
	assert.JSONEq(t, `{"nowhere": []}`, string(b))
}

func TestCompute_EmptyAndNilCatalog(t *testing.T) {
	f := models.DefaultFilterState()

	assert.Equal(t, 0, Compute(NewCatalog(), f).Len())
	assert.Equal(t, 0, Compute(nil, f).Len())
}

func TestCompute_MissingToggleKeysHide(t *testing.T) {
	f := models.FilterState{
		TypeVisible:   map[models.GrenadeType]bool{models.GrenadeSmoke: true},
		SideVisible:   map[models.Side]bool{models.SideT: true},
		MaxDifficulty: 3,
	}

	v := Compute(scenarioCatalog(), f)

	got, _ := v.Get("D1")
	assert.Equal(t, []int64{1}, ids(got))
}

func TestCompute_SideToggle(t *testing.T) {
	c := NewCatalog()
	c.Add("A", setup(1, models.GrenadeSmoke, models.SideT, 1, false))
	c.Add("B", setup(2, models.GrenadeSmoke, models.SideCT, 1, false))
	f := models.DefaultFilterState()
	f.SideVisible[models.SideT] = false

	v := Compute(c, f)

	assert.Equal(t, []string{"B"}, v.Keys())
}

func TestCompute_PreservesCatalogOrder(t *testing.T) {
	c := NewCatalog()
	c.Add("z", setup(9, models.GrenadeSmoke, models.SideT, 1, false))
	c.Add("a", setup(3, models.GrenadeHE, models.SideT, 1, false))
	c.Add("z", setup(1, models.GrenadeFlash, models.SideT, 1, false))

	v := Compute(c, models.DefaultFilterState())

	assert.Equal(t, []string{"z", "a"}, v.Keys())
	got, _ := v.Get("z")
	assert.Equal(t, []int64{9, 1}, ids(got))

	b, err := json.Marshal(v)
	require.NoError(t, err)
	assert.Regexp(t, `^\{"z":\[.*\],"a":\[.*\]\}$`, string(b))
}

func testStates() []models.FilterState {
	var states []models.FilterState
	for d := models.MinDifficulty; d <= models.MaxDifficulty; d++ {
		for _, fav := range []bool{false, true} {
			for _, hidden := range append([]models.GrenadeType{""}, models.GrenadeTypes...) {
				f := models.DefaultFilterState()
				f.MaxDifficulty = d
				f.FavouritesOnly = fav
				if hidden != "" {
					f.TypeVisible[hidden] = false
				}
				states = append(states, f)
			}
		}
	}
	return states
}

func mixedCatalog() *Catalog {
	c := NewCatalog()
	var id int64
	for i, key := range []string{"10_20", "30_40", "50_60"} {
		for j, tp := range models.GrenadeTypes {
			id++
			side := models.Sides[(i+j)%2]
			c.Add(key, setup(id, tp, side, (i+j)%3+1, id%3 == 0))
		}
	}
	return c
}

func TestCompute_SoundAndComplete(t *testing.T) {
	c := mixedCatalog()
	for _, f := range testStates() {
		v := Compute(c, f)

		visible := make(map[int64]bool)
		for _, g := range v.Groups() {
			require.NotEmpty(t, g.Setups, "group %s must not be empty", g.Key)
			for _, s := range g.Setups {
				assert.True(t, Passes(s, f))
				visible[s.ID] = true
			}
		}
		for _, key := range c.Keys() {
			setups, _ := c.Group(key)
			for _, s := range setups {
				assert.Equal(t, Passes(s, f), visible[s.ID], "setup %d", s.ID)
			}
		}
	}
}

func TestCompute_Idempotent(t *testing.T) {
	c := mixedCatalog()
	f := models.DefaultFilterState()
	f.MaxDifficulty = 2

	first, err := json.Marshal(Compute(c, f))
	require.NoError(t, err)
	second, err := json.Marshal(Compute(c, f))
	require.NoError(t, err)

	assert.Equal(t, string(first), string(second))
}

func TestCompute_DifficultyMonotonic(t *testing.T) {
	c := mixedCatalog()
	for d := models.MinDifficulty; d < models.MaxDifficulty; d++ {
		lower := models.DefaultFilterState()
		lower.MaxDifficulty = d
		higher := lower.Clone()
		higher.MaxDifficulty = d + 1

		before := make(map[int64]bool)
		for _, g := range Compute(c, lower).Groups() {
			for _, s := range g.Setups {
				before[s.ID] = true
			}
		}
		after := make(map[int64]bool)
		for _, g := range Compute(c, higher).Groups() {
			for _, s := range g.Setups {
				after[s.ID] = true
				if !before[s.ID] {
					assert.Equal(t, d+1, s.Difficult)
				}
			}
		}
		for id := range before {
			assert.True(t, after[id], "setup %d disappeared at ceiling %d", id, d+1)
		}
	}
}
