package world

import (
	"iter"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/udisondev/zonecore/internal/mapcache"
	"github.com/udisondev/zonecore/internal/mapindex"
)

type testMap struct {
	index int
	name  string
	w, h  int
	codes []byte // nil means all ground
}

func groundCodes(w, h int) []byte {
	return make([]byte, w*h)
}

func buildCache(t testing.TB, maps ...testMap) *mapcache.Cache {
	t.Helper()
	data := make([]mapcache.MapData, 0, len(maps))
	for _, m := range maps {
		codes := m.codes
		if codes == nil {
			codes = groundCodes(m.w, m.h)
		}
		data = append(data, mapcache.MapData{Name: m.name, Width: uint16(m.w), Height: uint16(m.h), Codes: codes})
	}
	payload, err := mapcache.Encode(data)
	require.NoError(t, err)
	c, err := mapcache.Parse(payload)
	require.NoError(t, err)
	return c
}

func buildDir(t testing.TB, maps ...testMap) *mapindex.Index {
	t.Helper()
	entries := make([]mapindex.Entry, 0, len(maps))
	for _, m := range maps {
		entries = append(entries, mapindex.Entry{Index: m.index, Name: m.name})
	}
	dir, err := mapindex.New(entries)
	require.NoError(t, err)
	return dir
}

func newTestRegistry(t testing.TB, opts Options, maps ...testMap) *Registry {
	t.Helper()
	r, err := NewRegistry(buildDir(t, maps...), buildCache(t, maps...), opts)
	require.NoError(t, err)
	return r
}

// newTestMap returns a single w x h all-ground map with handle 0.
func newTestMap(t testing.TB, w, h int) *Map {
	t.Helper()
	r := newTestRegistry(t, Options{}, testMap{index: 1, name: "test", w: w, h: h})
	m, err := r.Map(0)
	require.NoError(t, err)
	return m
}

func collectIDs(seq iter.Seq[Entity]) []uint32 {
	var ids []uint32
	for e := range seq {
		ids = append(ids, e.ID)
	}
	return ids
}
