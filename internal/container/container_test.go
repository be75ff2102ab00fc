package container

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"afmdash/domain/analysis"
	"afmdash/internal"
	"afmdash/internal/config"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Backend: config.BackendConfig{
			URL:          "http://127.0.0.1:1",
			WSPath:       "/ws/data",
			WebSocketURL: "ws://127.0.0.1:1/ws/data",
			RateLimit:    5,
		},
		Session: config.SessionConfig{LoadingTimeout: time.Second, DialTimeout: 200 * time.Millisecond},
		Server:  config.ServerConfig{Port: "8080", GinMode: "test"},
	}
}

func quiet() *internal.Logger {
	return internal.NewLoggerTo(io.Discard, internal.LogLevelError)
}

func TestNewWiresServices(t *testing.T) {
	c, err := New(testConfig(t), quiet())
	require.NoError(t, err)
	defer c.Shutdown(context.Background())

	assert.NotNil(t, c.Controller)
	assert.NotNil(t, c.Imports)
	assert.NotNil(t, c.Exports)
	assert.NotNil(t, c.Parameters)
	assert.False(t, c.Presets.Enabled())
	assert.Equal(t, analysis.StatusDisconnected, c.Controller.View().Status)

	require.NoError(t, c.InitWithDatabase(context.Background()))
	assert.Nil(t, c.DB)
}

func TestStoreChangesReachEventHub(t *testing.T) {
	c, err := New(testConfig(t), quiet())
	require.NoError(t, err)
	defer c.Shutdown(context.Background())

	first, ok := c.SSEHub.LatestState()
	require.True(t, ok)

	c.Store.SetNumCurves(25)
	e, ok := c.SSEHub.LatestState()
	require.True(t, ok)
	assert.Greater(t, e.Revision, first.Revision)
	assert.Equal(t, 25, e.State.NumCurves)
}

func TestNewSeedsStateFromPresetFile(t *testing.T) {
	cfg := testConfig(t)
	cfg.Presets.File = filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(cfg.Presets.File, []byte("num_curves: 42\n"), 0o644))

	c, err := New(cfg, quiet())
	require.NoError(t, err)
	defer c.Shutdown(context.Background())

	assert.Equal(t, 42, c.Store.Snapshot().NumCurves)
}

func TestInitWithDatabaseEnablesPresets(t *testing.T) {
	cfg := testConfig(t)
	cfg.Database.URL = filepath.Join(t.TempDir(), "afm.db")

	c, err := New(cfg, quiet())
	require.NoError(t, err)
	defer c.Shutdown(context.Background())

	require.NoError(t, c.InitWithDatabase(context.Background()))
	require.NotNil(t, c.DB)
	assert.True(t, c.Presets.Enabled())

	_, err = c.Presets.Save(context.Background(), "default")
	require.NoError(t, err)
}
