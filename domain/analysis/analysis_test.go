package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultState(t *testing.T) {
	s := DefaultState()

	assert.Equal(t, DefaultNumCurves, s.NumCurves)
	assert.True(t, s.SetZeroForce)
	assert.Equal(t, ElasticityParams{Interpolate: true, Order: 2, Window: 61}, s.ElasticityParams)
	assert.Equal(t, ForceModelParams{MaxInd: 800, MinInd: 0, Poisson: 0.5}, s.ForceModelParams)
	assert.Equal(t, StatusDisconnected, s.ConnectionStatus)
	assert.NotNil(t, s.Filters.Regular)
}

func TestStateCloneIsDeep(t *testing.T) {
	s := DefaultState()
	s.Filters.Regular["median"] = map[string]interface{}{"window_size": 5.0}
	s.SelectedCurveIDs = []string{"c1"}

	c := s.Clone()
	c.Filters.Regular["median"].(map[string]interface{})["window_size"] = 9.0
	c.SelectedCurveIDs[0] = "c2"

	assert.Equal(t, 5.0, s.Filters.Regular["median"].(map[string]interface{})["window_size"])
	assert.Equal(t, "c1", s.SelectedCurveIDs[0])
}

func TestSnapshotFingerprintIgnoresKeyOrder(t *testing.T) {
	a := DefaultState()
	a.Filters.Regular["median"] = map[string]interface{}{"window_size": 5.0}
	a.Filters.Regular["savgol"] = map[string]interface{}{"window_size": 11.0, "polyorder": 3.0}

	b := DefaultState()
	b.Filters.Regular["savgol"] = map[string]interface{}{"polyorder": 3.0, "window_size": 11.0}
	b.Filters.Regular["median"] = map[string]interface{}{"window_size": 5.0}

	require.False(t, SnapshotOf(a).Fingerprint().IsEmpty())
	assert.Equal(t, SnapshotOf(a).Fingerprint(), SnapshotOf(b).Fingerprint())
	assert.True(t, SnapshotOf(a).FiltersEqual(SnapshotOf(b)))
}

func TestSnapshotNilFamiliesEqualEmpty(t *testing.T) {
	a := DefaultState()
	b := DefaultState()
	b.Filters.CPFilters = nil

	assert.Equal(t, SnapshotOf(a).Fingerprint(), SnapshotOf(b).Fingerprint())
}

func TestSnapshotDetectsCurveCountChange(t *testing.T) {
	a := DefaultState()
	b := DefaultState()
	b.NumCurves = 20

	assert.NotEqual(t, SnapshotOf(a).Fingerprint(), SnapshotOf(b).Fingerprint())
	assert.True(t, SnapshotOf(a).FiltersEqual(SnapshotOf(b)))
}

func TestFiltersFamilyLookup(t *testing.T) {
	f := DefaultFilters()
	f.ForceModels["hertz"] = map[string]interface{}{}

	got, ok := f.Family(FamilyForceModels)
	require.True(t, ok)
	assert.Contains(t, got, "hertz")

	_, ok = f.Family("bogus")
	assert.False(t, ok)
}

func TestPresetRoundTripThroughState(t *testing.T) {
	s := DefaultState()
	s.Filters.Regular["median"] = map[string]interface{}{"window_size": 5.0}
	s.NumCurves = 30
	s.SetZeroForce = false
	s.SelectedCurveID = "c1"

	p := PresetFrom("soft-gels", s)

	target := DefaultState()
	target.SelectedCurveID = "keep"
	p.ApplyTo(&target)

	assert.Equal(t, 30, target.NumCurves)
	assert.False(t, target.SetZeroForce)
	assert.Contains(t, target.Filters.Regular, "median")
	assert.NotNil(t, target.Filters.CPFilters)
	assert.Equal(t, "keep", target.SelectedCurveID)
}

func TestValidatePresetName(t *testing.T) {
	assert.NoError(t, ValidatePresetName("hertz default"))
	assert.Error(t, ValidatePresetName("  "))
	assert.Error(t, ValidatePresetName("a/b"))
}
