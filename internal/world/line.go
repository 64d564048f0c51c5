package world

import (
	"iter"

	"github.com/udisondev/zonecore/internal/cell"
)

// Line yields the cells of a Bresenham line from (x0, y0) to (x1, y1),
// both ends included.
func Line(x0, y0, x1, y1 int) iter.Seq2[int, int] {
	return func(yield func(int, int) bool) {
		dx, dy := abs(x1-x0), abs(y1-y0)
		sx, sy := 1, 1
		if x0 > x1 {
			sx = -1
		}
		if y0 > y1 {
			sy = -1
		}

		x, y := x0, y0
		if !yield(x, y) {
			return
		}
		if dx >= dy {
			e := dx / 2
			for x != x1 {
				x += sx
				e += dy
				if e >= dx {
					y += sy
					e -= dx
				}
				if !yield(x, y) {
					return
				}
			}
			return
		}
		e := dy / 2
		for y != y1 {
			y += sy
			e += dx
			if e >= dy {
				x += sx
				e -= dy
			}
			if !yield(x, y) {
				return
			}
		}
	}
}

// LineOfSight reports whether a projectile can travel from (x0, y0) to
// (x1, y1): every cell on the line must be on the map and shootable.
// Cliffs pass, walls block.
func (m *Map) LineOfSight(x0, y0, x1, y1 int) bool {
	if !m.InBounds(x0, y0) || !m.InBounds(x1, y1) {
		return false
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	for x, y := range Line(x0, y0, x1, y1) {
		if !m.cells[m.cellIndex(x, y)].Has(cell.Shootable) {
			return false
		}
	}
	return true
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
