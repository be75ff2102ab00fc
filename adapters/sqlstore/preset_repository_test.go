package sqlstore

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"afmdash/domain/analysis"
	"afmdash/domain/core"
	apperrors "afmdash/internal/errors"
	"afmdash/internal/migration"
)

func newTestRepo(t *testing.T) *PresetRepositoryImpl {
	t.Helper()
	ctx := context.Background()
	db, err := Open(ctx, filepath.Join(t.TempDir(), "presets.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, migration.NewRunner().Run(ctx, db))
	// running twice must be harmless
	require.NoError(t, migration.NewRunner().Run(ctx, db))

	versions, err := migration.AppliedVersions(ctx, db)
	require.NoError(t, err)
	assert.Equal(t, []string{"1.0.0"}, versions)

	return NewPresetRepository(db).(*PresetRepositoryImpl)
}

func TestPresetRoundTrip(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	st := analysis.DefaultState()
	st.NumCurves = 40
	p := analysis.PresetFrom("stiff cells", st)
	require.NoError(t, repo.SavePreset(ctx, p))

	got, err := repo.GetPreset(ctx, "stiff cells")
	require.NoError(t, err)
	assert.Equal(t, 40, got.NumCurves)
	assert.Equal(t, st.ForceModelParams, got.ForceModelParams)
	assert.Equal(t, st.Filters.Regular, got.Filters.Regular)
	assert.False(t, got.CreatedAt.IsZero())
}

func TestSavePresetUpsertKeepsCreatedAt(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	first := time.UnixMilli(1_700_000_000_000)
	repo.now = func() time.Time { return first }
	require.NoError(t, repo.SavePreset(ctx, analysis.Preset{Name: "p", NumCurves: 5}))

	repo.now = func() time.Time { return first.Add(time.Hour) }
	require.NoError(t, repo.SavePreset(ctx, analysis.Preset{Name: "p", NumCurves: 8}))

	got, err := repo.GetPreset(ctx, "p")
	require.NoError(t, err)
	assert.Equal(t, 8, got.NumCurves)
	assert.True(t, got.CreatedAt.Equal(first))
	assert.True(t, got.UpdatedAt.Equal(first.Add(time.Hour)))

	list, err := repo.ListPresets(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestListPresetsOrderedByName(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	for _, name := range []string{"b", "a", "c"} {
		require.NoError(t, repo.SavePreset(ctx, analysis.Preset{Name: name}))
	}

	list, err := repo.ListPresets(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "a", list[0].Name)
	assert.Equal(t, "c", list[2].Name)
}

func TestPresetNotFound(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	_, err := repo.GetPreset(ctx, "missing")
	assert.ErrorIs(t, err, core.ErrPresetNotFound)
	assert.ErrorIs(t, repo.DeletePreset(ctx, "missing"), core.ErrPresetNotFound)
}

func TestDeletePreset(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.SavePreset(ctx, analysis.Preset{Name: "gone"}))
	require.NoError(t, repo.DeletePreset(ctx, "gone"))

	_, err := repo.GetPreset(ctx, "gone")
	assert.ErrorIs(t, err, core.ErrPresetNotFound)
}

func TestSavePresetRejectsBadName(t *testing.T) {
	repo := newTestRepo(t)

	err := repo.SavePreset(context.Background(), analysis.Preset{Name: "a/b"})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeInvalidInput))
}
