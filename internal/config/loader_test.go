package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, 30, cfg.BaselineBeforeDays)
	assert.Equal(t, 0, cfg.BaselineGapDays)
	assert.InDelta(t, 0.64, cfg.DirectShare, 1e-9)
	assert.InDelta(t, 1.7, cfg.BaselineMultiplier, 1e-9)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("EVENTLY_ADDR", ":9090")
	t.Setenv("EVENTLY_BASELINE_BEFORE_DAYS", "21")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, 21, cfg.BaselineBeforeDays)
	// Untouched values keep their defaults
	assert.Equal(t, 14, cfg.ImpactWindowBeforeDays)
}

func TestLoadYAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("db_path: /tmp/test.db\nrate_limit_per_minute: 10\n"), 0o644))
	t.Setenv("EVENTLY_CONFIG", path)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/tmp/test.db", cfg.DBPath)
	assert.Equal(t, 10, cfg.RateLimitPerMinute)
}

func TestLoadEnvBeatsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("addr: :7070\n"), 0o644))
	t.Setenv("EVENTLY_CONFIG", path)
	t.Setenv("EVENTLY_ADDR", ":6060")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":6060", cfg.Addr)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	t.Setenv("EVENTLY_BASELINE_BEFORE_DAYS", "-3")

	_, err := Load()
	assert.Error(t, err)
}
