package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "zoneserver.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadZoneServer_MissingFileGivesDefaults(t *testing.T) {
	cfg, err := LoadZoneServer(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultZoneServer(), cfg)
	assert.NoError(t, cfg.Validate())
}

func TestLoadZoneServer(t *testing.T) {
	path := writeConfig(t, `
log_level: debug
map_cache_path: /data/map_cache.dat
map_index_source: database
database:
  host: db
  port: 6543
cell_stack_limit: 3
tick_interval: 50ms
map_flags:
  prontera: [pvp, pvp_noparty]
  guild_vs1: [gvg]
`)
	cfg, err := LoadZoneServer(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "/data/map_cache.dat", cfg.MapCachePath)
	assert.Equal(t, IndexSourceDatabase, cfg.MapIndexSource)
	assert.Equal(t, 3, cfg.CellStackLimit)
	assert.Equal(t, 50*time.Millisecond, cfg.TickInterval)
	assert.Equal(t, []string{"pvp", "pvp_noparty"}, cfg.MapFlags["prontera"])

	// unset keys keep their defaults
	assert.Equal(t, 1500, cfg.MaxMaps)
	assert.Equal(t, "db/map_index.txt", cfg.MapIndexPath)
	assert.Equal(t, "postgres://zonecore:zonecore@db:6543/zonecore?sslmode=disable", cfg.Database.DSN())
}

func TestLoadZoneServer_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"bad yaml", "max_maps: [1"},
		{"bad source", "map_index_source: redis"},
		{"negative stack", "cell_stack_limit: -1"},
		{"empty cache path", "map_cache_path: ''"},
		{"bad duration", "tick_interval: soon"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadZoneServer(writeConfig(t, tt.body))
			assert.Error(t, err)
		})
	}
}
