package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, 26, cfg.WorkingDays)
	assert.Equal(t, time.Friday, cfg.Closure())
	assert.Equal(t, 240*time.Second, cfg.TimeLimit())
	assert.Equal(t, 0.001, cfg.Solver.RelativeGap)
	assert.Equal(t, "products.csv", cfg.ProductsFile)
}

func TestLoad_OverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
data_dir: /srv/retail
year: 2025
closure_weekday: Sunday
solver:
  time_limit_seconds: 30
  seed: 42
logging:
  level: debug
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/srv/retail", cfg.DataDir)
	assert.Equal(t, 2025, cfg.Year)
	assert.Equal(t, time.Sunday, cfg.Closure())
	assert.Equal(t, 30*time.Second, cfg.TimeLimit())
	assert.Equal(t, int64(42), cfg.Solver.Seed)
	assert.Equal(t, "debug", cfg.Logging.Level)

	// untouched keys keep their defaults
	assert.Equal(t, 26, cfg.WorkingDays)
	assert.Equal(t, "products.csv", cfg.ProductsFile)
}

func TestLoad_EmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default().WorkingDays, cfg.WorkingDays)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestConfig_Paths(t *testing.T) {
	cfg := Default()
	cfg.DataDir = "/data"
	cfg.OutputDir = "/out"

	assert.Equal(t, filepath.Join("/data", "products.csv"), cfg.ProductsPath())
	assert.Equal(t, filepath.Join("/out", "1-transform"), cfg.TransformDir())
	assert.Equal(t, filepath.Join("/out", "2-calculate"), cfg.CalculateDir())
	assert.Equal(t, filepath.Join("/out", "3-validate"), cfg.ValidateDir())
}

func TestConfig_ClosureFallsBackToFriday(t *testing.T) {
	cfg := Default()
	cfg.ClosureWeekday = "someday"
	assert.Equal(t, time.Friday, cfg.Closure())
}
