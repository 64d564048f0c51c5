package main

import (
	"fmt"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"

	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/udisondev/zonecore/internal/mapcache"
	"github.com/udisondev/zonecore/internal/mapcache/gat"
	"github.com/udisondev/zonecore/internal/mapindex"
)

type buildOptions struct {
	gatDir    string
	indexPath string
	waterPath string
	outPath   string
}

type buildStats struct {
	maps    int
	missing []string // listed in the index but without a .gat file
	size    int
	digest  string
}

func build(opts buildOptions) (buildStats, error) {
	var stats buildStats

	water, err := loadWaterLevels(opts.waterPath)
	if err != nil {
		return stats, err
	}

	names, err := gatNames(opts.gatDir)
	if err != nil {
		return stats, err
	}

	if opts.indexPath != "" {
		idx, err := mapindex.LoadFile(opts.indexPath)
		if err != nil {
			return stats, err
		}
		var listed []string
		for _, e := range idx.Entries() {
			if _, ok := names[strings.ToLower(e.Name)]; !ok {
				stats.missing = append(stats.missing, e.Name)
				continue
			}
			listed = append(listed, strings.ToLower(e.Name))
		}
		return write(opts, stats, listed, names, water)
	}

	order := slices.Sorted(maps.Keys(names))
	return write(opts, stats, order, names, water)
}

// write encodes the maps in order and writes the cache file.
func write(opts buildOptions, stats buildStats, order []string, files map[string]string, water map[string]float32) (buildStats, error) {
	data := make([]mapcache.MapData, len(order))

	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, name := range order {
		g.Go(func() error {
			t, err := gat.Read(files[name])
			if err != nil {
				return err
			}
			if t.Width > mapcache.MaxMapSide || t.Height > mapcache.MaxMapSide {
				return fmt.Errorf("map %s: %dx%d exceeds %d", name, t.Width, t.Height, mapcache.MaxMapSide)
			}
			level, ok := water[name]
			if !ok {
				level = gat.NoWater
			}
			data[i] = mapcache.MapData{
				Name:   name,
				Width:  uint16(t.Width),
				Height: uint16(t.Height),
				Codes:  t.Codes(level),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return stats, err
	}

	payload, err := mapcache.Encode(data)
	if err != nil {
		return stats, err
	}
	c, err := mapcache.Parse(payload)
	if err != nil {
		return stats, fmt.Errorf("verifying encoded cache: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(opts.outPath), 0o755); err != nil {
		return stats, fmt.Errorf("creating output dir: %w", err)
	}
	if err := os.WriteFile(opts.outPath, payload, 0o644); err != nil {
		return stats, fmt.Errorf("writing %s: %w", opts.outPath, err)
	}

	stats.maps = c.Len()
	stats.size = len(payload)
	stats.digest = c.Digest()
	return stats, nil
}

// gatNames maps lowercase map names to their .gat paths.
func gatNames(dir string) (map[string]string, error) {
	names := make(map[string]string)
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(path), ".gat") {
			return nil
		}
		name := strings.ToLower(strings.TrimSuffix(d.Name(), filepath.Ext(d.Name())))
		if len(name) >= mapcache.NameLength {
			return fmt.Errorf("map name %q longer than %d characters", name, mapcache.NameLength-1)
		}
		if prev, dup := names[name]; dup {
			return fmt.Errorf("map %s found twice: %s and %s", name, prev, path)
		}
		names[name] = path
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", dir, err)
	}
	return names, nil
}

func loadWaterLevels(path string) (map[string]float32, error) {
	levels := make(map[string]float32)
	if path == "" {
		return levels, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading water levels %s: %w", path, err)
	}
	var raw map[string]float32
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing water levels %s: %w", path, err)
	}
	for name, h := range raw {
		levels[strings.ToLower(name)] = h
	}
	return levels, nil
}
