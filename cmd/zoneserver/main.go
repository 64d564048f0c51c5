package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/udisondev/zonecore/internal/config"
	"github.com/udisondev/zonecore/internal/db"
	"github.com/udisondev/zonecore/internal/mapcache"
	"github.com/udisondev/zonecore/internal/mapindex"
	"github.com/udisondev/zonecore/internal/world"
)

const ConfigPath = "config/zoneserver.yaml"

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("shutting down", "signal", sig)
		cancel()
	}()

	if err := run(ctx); err != nil {
		slog.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfgPath := ConfigPath
	if p := os.Getenv("ZONECORE_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.LoadZoneServer(cfgPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	})))

	slog.Info("zonecore zone server starting", "config", cfgPath)

	dir, err := loadDirectory(ctx, cfg)
	if err != nil {
		return err
	}

	cache, err := mapcache.Load(cfg.MapCachePath)
	if err != nil {
		return fmt.Errorf("loading map cache: %w", err)
	}

	flags := make(map[string]world.MapFlag, len(cfg.MapFlags))
	for name, names := range cfg.MapFlags {
		f, err := world.ParseMapFlags(names)
		if err != nil {
			return fmt.Errorf("map flags for %s: %w", name, err)
		}
		flags[name] = f
	}

	start := time.Now()
	reg, err := world.NewRegistry(dir, cache, world.Options{
		MaxMaps:        cfg.MaxMaps,
		Workers:        cfg.LoadWorkers,
		CellStackLimit: cfg.CellStackLimit,
		MapFlags:       flags,
	})
	if err != nil {
		return fmt.Errorf("initializing maps: %w", err)
	}
	stats := reg.Stats()
	slog.Info("world ready",
		"maps", stats.Maps,
		"cells", stats.Cells,
		"blocks", stats.Blocks,
		"took", time.Since(start))

	loop := world.NewLoop(reg, cfg.TickInterval, cfg.WorkQueueSize)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := loop.Run(gctx); err != nil && gctx.Err() == nil {
			return fmt.Errorf("world loop: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// loadDirectory builds the map directory from the configured source.
func loadDirectory(ctx context.Context, cfg config.ZoneServer) (mapindex.Directory, error) {
	switch cfg.MapIndexSource {
	case config.IndexSourceDatabase:
		database, err := db.New(ctx, cfg.Database.DSN())
		if err != nil {
			return nil, fmt.Errorf("connecting to database: %w", err)
		}
		defer database.Close()

		if err := database.Migrate(ctx); err != nil {
			return nil, fmt.Errorf("running migrations: %w", err)
		}

		idx, err := db.NewMapIndexRepository(database.Pool()).LoadIndex(ctx)
		if err != nil {
			return nil, fmt.Errorf("loading map index: %w", err)
		}
		slog.Info("map index loaded", "source", "database", "maps", idx.Len())
		return idx, nil
	default:
		idx, err := mapindex.LoadFile(cfg.MapIndexPath)
		if err != nil {
			return nil, fmt.Errorf("loading map index: %w", err)
		}
		return idx, nil
	}
}

func parseLogLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
