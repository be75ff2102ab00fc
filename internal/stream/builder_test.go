package stream

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"afmdash/domain/analysis"
)

func TestBuildRequestResetOnChange(t *testing.T) {
	prior := analysis.SnapshotOf(analysis.DefaultState())

	changed := analysis.DefaultState()
	changed.Filters.Regular["median"] = map[string]interface{}{"window_size": 5.0}
	assert.True(t, BuildRequest(changed, &prior, false).Reset)

	same := analysis.DefaultState()
	assert.False(t, BuildRequest(same, &prior, false).Reset)
}

func TestBuildRequestResetRules(t *testing.T) {
	base := analysis.DefaultState()
	base.Filters.CPFilters["autotresh"] = map[string]interface{}{"range_to_set_zero": 500.0}
	prior := analysis.SnapshotOf(base)

	moreCurves := base.Clone()
	moreCurves.NumCurves = 25

	reordered := analysis.DefaultState()
	reordered.Filters.CPFilters["autotresh"] = map[string]interface{}{"range_to_set_zero": 500.0}

	onlyParams := base.Clone()
	onlyParams.ForceModelParams.Poisson = 0.3
	onlyParams.SelectedCurveID = "c9"

	tests := []struct {
		name  string
		state analysis.State
		prior *analysis.RequestSnapshot
		force bool
		want  bool
	}{
		{"no prior", base, nil, false, true},
		{"force refresh", base, &prior, true, true},
		{"curve count", moreCurves, &prior, false, true},
		{"structurally equal filters", reordered, &prior, false, false},
		{"model params do not reset", onlyParams, &prior, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BuildRequest(tt.state, tt.prior, tt.force).Reset)
		})
	}
}

func TestBuilderCommitLifecycle(t *testing.T) {
	b := NewBuilder()
	s := analysis.DefaultState()

	first := b.Build(s)
	assert.True(t, first.Reset, "first request of a session resets")

	// building alone must not record anything
	assert.True(t, b.Build(s).Reset)

	b.Commit(first)
	assert.False(t, b.Build(s).Reset)

	b.ForceRefresh()
	forced := b.Build(s)
	assert.True(t, forced.Reset)
	b.Commit(forced)
	assert.False(t, b.Build(s).Reset, "commit clears force refresh")

	b.Forget()
	_, ok := b.Prior()
	assert.False(t, ok)
	assert.True(t, b.Build(s).Reset)
}

func TestBuildCarriesSelection(t *testing.T) {
	s := analysis.DefaultState()
	s.SelectedCurveID = "curve_4"
	s.NumCurves = 5

	p := NewBuilder().Build(s)
	assert.Equal(t, "curve_4", p.Request.CurveID)
	assert.Equal(t, 5, p.Request.NumCurves)
	assert.Equal(t, 5, p.Snapshot.NumCurves)
}
