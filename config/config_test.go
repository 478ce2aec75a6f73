package config_test

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/timesheet-engine/config"
)

func TestLoad_Defaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := config.Load(nil)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, config.StoreSQLite, cfg.Store)
	assert.Equal(t, "timesheets.db", cfg.DBPath)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.NotEmpty(t, cfg.CORSOrigins)
}

func TestLoad_Precedence(t *testing.T) {
	// GIVEN: A config file, an env var and a flag
	dir := t.TempDir()
	chdir(t, dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(
		"port: 9000\nstore: memory\nlog_level: warn\n"), 0o600))
	t.Setenv("TIMESHEET_LOG_LEVEL", "debug")

	fs := config.Flags()
	require.NoError(t, fs.Parse([]string{"--port=7000"}))

	// WHEN: Loading
	cfg, err := config.Load(fs)
	require.NoError(t, err)

	// THEN: flag > env > file > default
	assert.Equal(t, 7000, cfg.Port)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, config.StoreMemory, cfg.Store)
	assert.Equal(t, "timesheets.db", cfg.DBPath)
}

func TestLoad_ExplicitMissingFileFails(t *testing.T) {
	chdir(t, t.TempDir())
	fs := config.Flags()
	require.NoError(t, fs.Parse([]string{"--config=/does/not/exist.yaml"}))

	_, err := config.Load(fs)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := config.Config{Port: 8080, Store: config.StoreMemory, LogLevel: "info"}
	assert.NoError(t, valid.Validate())

	tests := map[string]func(c *config.Config){
		"port out of range": func(c *config.Config) { c.Port = 70000 },
		"unknown store":     func(c *config.Config) { c.Store = "postgres" },
		"sqlite without db": func(c *config.Config) { c.Store = config.StoreSQLite; c.DBPath = "" },
		"bad log level":     func(c *config.Config) { c.LogLevel = "loud" },
	}
	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			c := valid
			mutate(&c)
			assert.Error(t, c.Validate())
		})
	}
}

func TestParseLevel(t *testing.T) {
	level, err := config.ParseLevel("warn")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelWarn, level)
}

// chdir changes the working directory for the duration of the test
// (stand-in for testing.T.Chdir, which needs Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}
