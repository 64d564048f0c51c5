package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Map index sources.
const (
	IndexSourceFile     = "file"
	IndexSourceDatabase = "database"
)

// ZoneServer holds all configuration for the zone server.
type ZoneServer struct {
	LogLevel string `yaml:"log_level"` // debug, info, warn, error

	// Map data
	MapCachePath   string `yaml:"map_cache_path"`
	MapIndexSource string `yaml:"map_index_source"` // file or database
	MapIndexPath   string `yaml:"map_index_path"`

	// Database, used when MapIndexSource is "database"
	Database DatabaseConfig `yaml:"database"`

	// World
	MaxMaps        int           `yaml:"max_maps"`
	LoadWorkers    int           `yaml:"load_workers"`     // 0 = GOMAXPROCS
	CellStackLimit int           `yaml:"cell_stack_limit"` // 0 = unlimited
	TickInterval   time.Duration `yaml:"tick_interval"`
	WorkQueueSize  int           `yaml:"work_queue_size"`

	// Initial map flags, e.g. prontera: [pvp, pvp_noparty]
	MapFlags map[string][]string `yaml:"map_flags"`
}

// DatabaseConfig holds PostgreSQL connection parameters.
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
	SSLMode  string `yaml:"sslmode"`
}

// DSN returns the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

// DefaultZoneServer returns ZoneServer config with sensible defaults.
func DefaultZoneServer() ZoneServer {
	return ZoneServer{
		LogLevel:       "info",
		MapCachePath:   "db/map_cache.dat",
		MapIndexSource: IndexSourceFile,
		MapIndexPath:   "db/map_index.txt",
		Database: DatabaseConfig{
			Host:     "127.0.0.1",
			Port:     5432,
			User:     "zonecore",
			Password: "zonecore",
			DBName:   "zonecore",
			SSLMode:  "disable",
		},
		MaxMaps:        1500,
		CellStackLimit: 0,
		TickInterval:   100 * time.Millisecond,
		WorkQueueSize:  1024,
	}
}

// Validate rejects settings the server cannot start with.
func (c ZoneServer) Validate() error {
	switch c.MapIndexSource {
	case IndexSourceFile, IndexSourceDatabase:
	default:
		return fmt.Errorf("map_index_source must be %q or %q, got %q", IndexSourceFile, IndexSourceDatabase, c.MapIndexSource)
	}
	if c.MapCachePath == "" {
		return fmt.Errorf("map_cache_path is empty")
	}
	if c.MapIndexSource == IndexSourceFile && c.MapIndexPath == "" {
		return fmt.Errorf("map_index_path is empty")
	}
	if c.MaxMaps < 0 || c.LoadWorkers < 0 || c.CellStackLimit < 0 || c.WorkQueueSize < 0 {
		return fmt.Errorf("max_maps, load_workers, cell_stack_limit and work_queue_size must not be negative")
	}
	if c.TickInterval < 0 {
		return fmt.Errorf("tick_interval must not be negative")
	}
	return nil
}

// LoadZoneServer loads zone server config from a YAML file.
// If the file doesn't exist, returns defaults.
func LoadZoneServer(path string) (ZoneServer, error) {
	cfg := DefaultZoneServer()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}

	return cfg, nil
}
