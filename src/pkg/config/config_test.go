package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"outliner/local-app/src/pkg/model"
)

func useConfigPath(t *testing.T, path string) {
	t.Helper()
	old := ConfigPath()
	SetConfigPath(path)
	t.Cleanup(func() { SetConfigPath(old) })
}

func TestConfigLoadCreatesDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "config.json")
	useConfigPath(t, path)

	require.NoError(t, ConfigLoad())

	_, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), ConfigGet())
}

func TestConfigLoadExistingJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	useConfigPath(t, path)
	require.NoError(t, os.WriteFile(path, []byte(`{"store_type":"memory","default_key":"notes"}`), 0644))

	require.NoError(t, ConfigLoad())

	cfg := ConfigGet()
	assert.Equal(t, "memory", cfg.StoreType)
	assert.Equal(t, "notes", cfg.DefaultKey)
	// fields missing from the file keep their defaults
	assert.Equal(t, "./logs", cfg.LogFolder)
}

func TestConfigYAMLRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	useConfigPath(t, path)

	cfg := DefaultConfig()
	cfg.StoreType = "badger"
	cfg.BadgerDir = "/tmp/outline"
	require.NoError(t, ConfigSave(cfg))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "store_type: badger")

	require.NoError(t, ConfigLoad())
	assert.Equal(t, cfg, ConfigGet())
}

func TestConfigLoadEnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	useConfigPath(t, path)
	t.Setenv("OUTLINER_STORE_TYPE", "redis")
	t.Setenv("OUTLINER_REDIS_ADDR", "cache:6380")
	t.Setenv("OUTLINER_REDIS_DB", "3")
	t.Setenv("OUTLINER_REDIS_TIMEOUT_MS", "not-a-number")

	require.NoError(t, ConfigLoad())

	cfg := ConfigGet()
	assert.Equal(t, "redis", cfg.StoreType)
	assert.Equal(t, "cache:6380", cfg.RedisAddr)
	assert.Equal(t, 3, cfg.RedisDB)
	assert.Equal(t, 2000, cfg.RedisTimeoutMS)
}

func TestLoadEnvFiles(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("OUTLINER_TEST_ONLY=from-file\n"), 0644))
	t.Cleanup(func() { os.Unsetenv("OUTLINER_TEST_ONLY") })

	loaded := LoadEnvFiles(filepath.Join(dir, "missing.env"), envFile)

	assert.Equal(t, []string{envFile}, loaded)
	assert.Equal(t, "from-file", os.Getenv("OUTLINER_TEST_ONLY"))
}

func TestConfigLoadInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	useConfigPath(t, path)
	require.NoError(t, os.WriteFile(path, []byte(`{"store_type":"floppy"}`), 0644))

	assert.Error(t, ConfigLoad())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*model.Config)
		ok     bool
	}{
		{"defaults", func(*model.Config) {}, true},
		{"memory", func(c *model.Config) { c.StoreType = "memory" }, true},
		{"sqlite without file", func(c *model.Config) { c.DatabaseFile = "" }, false},
		{"badger without dir", func(c *model.Config) { c.StoreType = "badger"; c.BadgerDir = "" }, false},
		{"redis without addr", func(c *model.Config) { c.StoreType = "redis"; c.RedisAddr = "" }, false},
		{"bad level", func(c *model.Config) { c.LogLevel = "chatty" }, false},
		{"empty key", func(c *model.Config) { c.DefaultKey = "" }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := Validate(cfg)
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}
