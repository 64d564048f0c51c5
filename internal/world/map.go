// Package world owns the loaded maps and the entities indexed on them.
package world

import (
	"sync"
	"sync/atomic"

	"github.com/udisondev/zonecore/internal/cell"
)

// MapID is a loaded map's slot in the registry.
type MapID int32

// InvalidMapID never resolves.
const InvalidMapID MapID = -1

// Map is one loaded playable area. Dimensions, cells and blocks are sized
// at load and never resized. mu guards dynamic cell bits and block
// membership; terrain bits are immutable.
type Map struct {
	id     MapID
	index  int // directory index id
	name   string
	width  int
	height int
	wb, hb int

	stackLimit int

	mu     sync.RWMutex
	cells  []cell.Cell
	blocks []block
	arena  arena

	users atomic.Int32
	flags atomic.Uint32
}

func newMap(id MapID, index int, name string, width, height int, cells []cell.Cell, stackLimit int) *Map {
	wb, hb := BlocksFor(width, height)
	return &Map{
		id:         id,
		index:      index,
		name:       name,
		width:      width,
		height:     height,
		wb:         wb,
		hb:         hb,
		stackLimit: stackLimit,
		cells:      cells,
		blocks:     make([]block, wb*hb),
		arena:      newArena(),
	}
}

// ID returns the registry handle.
func (m *Map) ID() MapID {
	return m.id
}

// Index returns the directory index id.
func (m *Map) Index() int {
	return m.index
}

// Name returns the map name.
func (m *Map) Name() string {
	return m.name
}

// Width returns the width in cells.
func (m *Map) Width() int {
	return m.width
}

// Height returns the height in cells.
func (m *Map) Height() int {
	return m.height
}

// BlockWidth returns the number of block columns.
func (m *Map) BlockWidth() int {
	return m.wb
}

// BlockHeight returns the number of block rows.
func (m *Map) BlockHeight() int {
	return m.hb
}

// InBounds reports whether (x, y) lies on the map.
func (m *Map) InBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < m.width && y < m.height
}

func (m *Map) cellIndex(x, y int) int {
	return x + y*m.width
}

func (m *Map) blockIndex(x, y int) int32 {
	bx, by := BlockCoord(x, y)
	return int32(bx + by*m.wb)
}

// Users returns the number of players on the map.
func (m *Map) Users() int {
	return int(m.users.Load())
}

// AddUser increments the player counter.
func (m *Map) AddUser() int {
	return int(m.users.Add(1))
}

// RemoveUser decrements the player counter, never below zero.
func (m *Map) RemoveUser() int {
	for {
		n := m.users.Load()
		if n <= 0 {
			return 0
		}
		if m.users.CompareAndSwap(n, n-1) {
			return int(n - 1)
		}
	}
}
