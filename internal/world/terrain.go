package world

import (
	"fmt"

	"github.com/udisondev/zonecore/internal/cell"
)

// Cell returns the raw cell at (x, y).
func (m *Map) Cell(x, y int) (cell.Cell, bool) {
	if !m.InBounds(x, y) {
		return 0, false
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.cells[m.cellIndex(x, y)], true
}

// Terrain returns a copy of the cell array, row-major.
func (m *Map) Terrain() []cell.Cell {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]cell.Cell, len(m.cells))
	copy(out, m.cells)
	return out
}

// CheckCell answers a cell query. Off-map coordinates get the
// conservative answer instead of an error: blocked for NoPass/NoReach,
// false otherwise.
func (m *Map) CheckCell(x, y int, chk cell.Check) bool {
	if !m.InBounds(x, y) {
		return chk.OutOfBounds()
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	stacked := false
	switch chk {
	case cell.CheckPass, cell.CheckNoPass, cell.CheckStack:
		stacked = m.stackedLocked(x, y)
	}
	return chk.Eval(m.cells[m.cellIndex(x, y)], stacked)
}

// stackedLocked reports whether (x, y) holds at least stackLimit
// char entities. A limit of zero disables stacking checks.
func (m *Map) stackedLocked(x, y int) bool {
	if m.stackLimit <= 0 {
		return false
	}
	return m.countAtLocked(x, y, TypeChar) >= m.stackLimit
}

// SetCellFlag sets or clears dynamic bits on one cell.
func (m *Map) SetCellFlag(x, y int, flag cell.Cell, on bool) error {
	_, err := m.SetAreaFlag(x, y, x, y, flag, on)
	return err
}

// SetAreaFlag sets or clears dynamic bits on every cell of the rectangle
// (x0, y0)-(x1, y1), inclusive and clipped to the map. It returns the
// number of cells touched; a rectangle entirely off the map is ErrOutOfRange.
func (m *Map) SetAreaFlag(x0, y0, x1, y1 int, flag cell.Cell, on bool) (int, error) {
	if !cell.IsDynamic(flag) {
		return 0, fmt.Errorf("%w: %#x", ErrNotDynamic, uint16(flag))
	}

	x0, y0, x1, y1, ok := m.clip(x0, y0, x1, y1)
	if !ok {
		return 0, fmt.Errorf("%w: area on map %s", ErrOutOfRange, m.name)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	n := 0
	for y := y0; y <= y1; y++ {
		row := y * m.width
		for x := x0; x <= x1; x++ {
			if on {
				m.cells[row+x] = m.cells[row+x].With(flag)
			} else {
				m.cells[row+x] = m.cells[row+x].Without(flag)
			}
			n++
		}
	}
	return n, nil
}

// clip normalizes and clips a cell rectangle to the map.
func (m *Map) clip(x0, y0, x1, y1 int) (int, int, int, int, bool) {
	if x0 > x1 {
		x0, x1 = x1, x0
	}
	if y0 > y1 {
		y0, y1 = y1, y0
	}
	x0, y0 = max(x0, 0), max(y0, 0)
	x1, y1 = min(x1, m.width-1), min(y1, m.height-1)
	if x0 > x1 || y0 > y1 {
		return 0, 0, 0, 0, false
	}
	return x0, y0, x1, y1, true
}
