package visibility

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jengzang/grenades-backend-go/internal/models"
)

var (
	singleMarker  = Marker{Key: "S", Kind: MarkerSingle, Types: []models.GrenadeType{models.GrenadeSmoke}}
	clusterMarker = Marker{Key: "C", Kind: MarkerCluster, Types: []models.GrenadeType{models.GrenadeSmoke, models.GrenadeHE}}
)

func TestClassify(t *testing.T) {
	assert.Equal(t, MarkerEmpty, Classify("k", nil).Kind)

	single := Classify("k", []models.Grenade{
		setup(1, models.GrenadeFlash, models.SideT, 1, false),
		setup(2, models.GrenadeFlash, models.SideCT, 2, false),
	})
	assert.Equal(t, MarkerSingle, single.Kind)
	assert.Equal(t, 2, single.Count)
	assert.True(t, single.HasType(models.GrenadeFlash))
	assert.False(t, single.HasType(models.GrenadeHE))
}

func TestDrillDown_SingleMarkerToggles(t *testing.T) {
	var d DrillDown
	assert.Equal(t, Collapsed, d.State())

	d.ClickMarker(singleMarker)
	assert.Equal(t, Expanded, d.State())
	assert.Equal(t, "S", d.Active())
	assert.False(t, d.NeedsChoice())

	d.ClickMarker(singleMarker)
	assert.Equal(t, Collapsed, d.State())
}

func TestDrillDown_ClusterDisambiguation(t *testing.T) {
	var d DrillDown
	d.ClickMarker(clusterMarker)
	require.Equal(t, Expanded, d.State())
	assert.True(t, d.NeedsChoice())

	require.NoError(t, d.SelectType(models.GrenadeHE))
	assert.Equal(t, Disambiguated, d.State())
	assert.Equal(t, models.GrenadeHE, d.ExtraType())

	d.ClickMarker(clusterMarker)
	assert.Equal(t, Expanded, d.State())
	assert.Equal(t, "C", d.Active())
	assert.Empty(t, d.ExtraType())
}

func TestDrillDown_SelectTypeErrors(t *testing.T) {
	var d DrillDown
	assert.ErrorIs(t, d.SelectType(models.GrenadeSmoke), ErrNotExpanded)

	d.ClickMarker(singleMarker)
	assert.ErrorIs(t, d.SelectType(models.GrenadeSmoke), ErrNotCluster)

	d.ClickMarker(clusterMarker)
	assert.ErrorIs(t, d.SelectType(models.GrenadeMolotov), ErrTypeNotInside)
	assert.Equal(t, Expanded, d.State())
}

func TestDrillDown_SelectTypeOnlyFromExpanded(t *testing.T) {
	var d DrillDown
	d.ClickMarker(clusterMarker)
	require.NoError(t, d.SelectType(models.GrenadeSmoke))

	assert.ErrorIs(t, d.SelectType(models.GrenadeHE), ErrTypeChosen)
	assert.Equal(t, models.GrenadeSmoke, d.ExtraType())

	d.ClickMarker(clusterMarker)
	require.NoError(t, d.SelectType(models.GrenadeHE))
	assert.Equal(t, models.GrenadeHE, d.ExtraType())
}

func TestDrillDown_ResetTransitions(t *testing.T) {
	var d DrillDown
	d.ClickMarker(clusterMarker)
	require.NoError(t, d.SelectType(models.GrenadeSmoke))
	d.ClickEmpty()
	assert.Equal(t, Collapsed, d.State())

	d.ClickMarker(clusterMarker)
	require.NoError(t, d.SelectType(models.GrenadeSmoke))
	d.ChangeMap()
	assert.Equal(t, Collapsed, d.State())
	assert.Empty(t, d.Active())
}

func TestDrillDown_SwitchMarker(t *testing.T) {
	var d DrillDown
	d.ClickMarker(clusterMarker)
	require.NoError(t, d.SelectType(models.GrenadeSmoke))

	d.ClickMarker(singleMarker)
	assert.Equal(t, Expanded, d.State())
	assert.Equal(t, "S", d.Active())
}

func TestDrillDown_ApplyDrivesCompute(t *testing.T) {
	var d DrillDown
	base := models.DefaultFilterState()
	v := Compute(scenarioCatalog(), base)
	markers := Markers(v)
	require.Len(t, markers, 1)

	d.ClickMarker(markers[0])
	require.NoError(t, d.SelectType(models.GrenadeSmoke))
	f := d.Apply(base)

	assert.Empty(t, base.ActiveDestination)
	got, _ := Compute(scenarioCatalog(), f).Get("D1")
	assert.Equal(t, []int64{1}, ids(got))
}
