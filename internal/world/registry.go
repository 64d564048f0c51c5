package world

import (
	"fmt"
	"iter"
	"log/slog"
	"runtime"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/udisondev/zonecore/internal/cell"
	"github.com/udisondev/zonecore/internal/mapcache"
	"github.com/udisondev/zonecore/internal/mapindex"
)

// DefaultMaxMaps matches the classic per-server map limit.
const DefaultMaxMaps = 1500

// Options tune registry construction.
type Options struct {
	MaxMaps        int                // capacity; 0 means DefaultMaxMaps
	Workers        int                // parallel decoders; 0 means GOMAXPROCS
	CellStackLimit int                // 0 disables stacking checks
	MapFlags       map[string]MapFlag // initial flags by map name
}

// Registry owns every loaded map. Construct one at startup with
// NewRegistry and pass it to whoever needs world access.
type Registry struct {
	dir     mapindex.Directory
	maps    []*Map
	byIndex []MapID // directory index id -> slot
	digest  string
}

// NewRegistry loads every map listed by dir, in directory order, from
// cache. Map handles are slot positions. Any decode failure aborts the
// whole load; maps listed by dir but absent from the cache are skipped.
func NewRegistry(dir mapindex.Directory, cache *mapcache.Cache, opts Options) (*Registry, error) {
	if opts.MaxMaps <= 0 {
		opts.MaxMaps = DefaultMaxMaps
	}
	if opts.Workers <= 0 {
		opts.Workers = runtime.GOMAXPROCS(0)
	}

	type job struct {
		dir   mapindex.Entry
		cache mapcache.Entry
	}
	var jobs []job
	maxIndex := 0
	for _, e := range dir.Entries() {
		ce, ok := cache.Lookup(e.Name)
		if !ok {
			slog.Warn("map not found in cache, skipping", "map", e.Name, "index", e.Index)
			continue
		}
		jobs = append(jobs, job{dir: e, cache: ce})
		maxIndex = max(maxIndex, e.Index)
	}
	if len(jobs) > opts.MaxMaps {
		return nil, fmt.Errorf("%w: %d maps, limit %d", ErrCapacity, len(jobs), opts.MaxMaps)
	}

	scratch := sync.Pool{New: func() any {
		b := mapcache.NewScratch()
		return &b
	}}

	maps := make([]*Map, len(jobs))
	var g errgroup.Group
	g.SetLimit(opts.Workers)
	for i, j := range jobs {
		g.Go(func() error {
			buf := scratch.Get().(*[]byte)
			defer scratch.Put(buf)

			cells, err := mapcache.Decode(j.cache, *buf)
			if err != nil {
				return fmt.Errorf("loading map %s: %w", j.dir.Name, err)
			}
			maps[i] = newMap(MapID(i), j.dir.Index, j.dir.Name,
				int(j.cache.Width), int(j.cache.Height), cells, opts.CellStackLimit)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	r := &Registry{
		dir:     dir,
		maps:    maps,
		byIndex: make([]MapID, maxIndex+1),
		digest:  cache.Digest(),
	}
	for i := range r.byIndex {
		r.byIndex[i] = InvalidMapID
	}
	for _, m := range maps {
		r.byIndex[m.index] = m.id
		slog.Debug("map loaded", "map", m.name, "id", m.id, "width", m.width, "height", m.height)
	}

	for name, f := range opts.MapFlags {
		m, err := r.MapByName(name)
		if err != nil {
			slog.Warn("map flags for unknown map", "map", name)
			continue
		}
		m.SetFlag(f, true)
	}

	slog.Info("maps loaded", "maps", len(maps), "skipped", len(dir.Entries())-len(maps), "digest", r.digest)
	return r, nil
}

// Len returns the number of loaded maps.
func (r *Registry) Len() int {
	return len(r.maps)
}

// Map resolves a handle in O(1).
func (r *Registry) Map(id MapID) (*Map, error) {
	if id < 0 || int(id) >= len(r.maps) {
		return nil, fmt.Errorf("%w: handle %d", ErrMapNotFound, id)
	}
	return r.maps[id], nil
}

// ResolveName returns the handle of a map by name via the directory.
func (r *Registry) ResolveName(name string) (MapID, error) {
	index, ok := r.dir.IndexOf(name)
	if !ok {
		return InvalidMapID, fmt.Errorf("%w: %q", ErrMapNotFound, name)
	}
	m, err := r.MapByIndex(index)
	if err != nil {
		return InvalidMapID, fmt.Errorf("%w: %q not loaded", ErrMapNotFound, name)
	}
	return m.id, nil
}

// MapByName resolves a map by name.
func (r *Registry) MapByName(name string) (*Map, error) {
	id, err := r.ResolveName(strings.TrimSpace(name))
	if err != nil {
		return nil, err
	}
	return r.maps[id], nil
}

// MapByIndex resolves a map by directory index id.
func (r *Registry) MapByIndex(index int) (*Map, error) {
	if index < 0 || index >= len(r.byIndex) || r.byIndex[index] == InvalidMapID {
		return nil, fmt.Errorf("%w: index %d", ErrMapNotFound, index)
	}
	return r.maps[r.byIndex[index]], nil
}

// Maps yields every loaded map in handle order.
func (r *Registry) Maps() iter.Seq[*Map] {
	return func(yield func(*Map) bool) {
		for _, m := range r.maps {
			if !yield(m) {
				return
			}
		}
	}
}

// CheckCell runs a cell query on map id. An unknown map is
// ErrMapNotFound, never a plain false.
func (r *Registry) CheckCell(id MapID, x, y int, chk cell.Check) (bool, error) {
	m, err := r.Map(id)
	if err != nil {
		return false, err
	}
	return m.CheckCell(x, y, chk), nil
}

// Insert indexes e on the map named by e.Map.
func (r *Registry) Insert(e Entity) (Handle, error) {
	m, err := r.Map(e.Map)
	if err != nil {
		return Handle{}, err
	}
	return m.Insert(e)
}

// Remove unlinks h; stale handles are a no-op.
func (r *Registry) Remove(h Handle) bool {
	m, err := r.Map(h.m)
	if err != nil {
		return false
	}
	return m.Remove(h)
}

// Move repositions h on its map.
func (r *Registry) Move(h Handle, x, y int) error {
	m, err := r.Map(h.m)
	if err != nil {
		return err
	}
	return m.Move(h, x, y)
}

// Query runs a block-radius entity query on map id.
func (r *Registry) Query(id MapID, cx, cy, radius int, mask EntityType) (iter.Seq[Entity], error) {
	m, err := r.Map(id)
	if err != nil {
		return nil, err
	}
	return m.Query(cx, cy, radius, mask)
}

// Transfer moves an entity to another map: it is removed from the source,
// then inserted into the destination. The two map locks are never held
// together, so the entity is briefly on no map. The destination,
// coordinates and the entity id's absence from the destination are
// checked first; if the final insert still fails the entity stays
// removed and the error is returned.
func (r *Registry) Transfer(h Handle, to MapID, x, y int) (Handle, error) {
	src, err := r.Map(h.m)
	if err != nil {
		return Handle{}, err
	}
	dst, err := r.Map(to)
	if err != nil {
		return Handle{}, err
	}
	if !dst.InBounds(x, y) {
		return Handle{}, fmt.Errorf("%w: (%d, %d) on %s", ErrOutOfRange, x, y, dst.name)
	}

	e, ok := src.Get(h)
	if !ok {
		return Handle{}, ErrNotIndexed
	}
	if dst != src {
		if _, dup := dst.Lookup(e.ID); dup {
			return Handle{}, fmt.Errorf("%w: entity %d on %s", ErrDuplicateEntity, e.ID, dst.name)
		}
	}
	if !src.Remove(h) {
		return Handle{}, ErrNotIndexed
	}

	e.Map, e.X, e.Y = to, x, y
	nh, err := dst.Insert(e)
	if err != nil {
		return Handle{}, fmt.Errorf("transferring entity %d to %s: %w", e.ID, dst.name, err)
	}
	return nh, nil
}

// TotalUsers sums the player counters of every map.
func (r *Registry) TotalUsers() int {
	n := 0
	for _, m := range r.maps {
		n += m.Users()
	}
	return n
}

// Stats is a diagnostics snapshot.
type Stats struct {
	Maps     int
	Cells    int
	Blocks   int
	Entities int
	Users    int
	Digest   string
}

// Stats collects a diagnostics snapshot across all maps.
func (r *Registry) Stats() Stats {
	s := Stats{Maps: len(r.maps), Digest: r.digest}
	for _, m := range r.maps {
		s.Cells += m.width * m.height
		s.Blocks += m.wb * m.hb
		s.Entities += m.Len()
		s.Users += m.Users()
	}
	return s
}
