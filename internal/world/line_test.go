package world

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/zonecore/internal/cell"
)

func linePoints(x0, y0, x1, y1 int) [][2]int {
	var pts [][2]int
	for x, y := range Line(x0, y0, x1, y1) {
		pts = append(pts, [2]int{x, y})
	}
	return pts
}

func TestLine(t *testing.T) {
	assert.Equal(t, [][2]int{{0, 0}, {1, 0}, {2, 0}, {3, 0}}, linePoints(0, 0, 3, 0))
	assert.Equal(t, [][2]int{{2, 3}, {2, 2}, {2, 1}}, linePoints(2, 3, 2, 1))
	assert.Equal(t, [][2]int{{0, 0}, {1, 1}, {2, 2}}, linePoints(0, 0, 2, 2))
	assert.Equal(t, [][2]int{{5, 5}}, linePoints(5, 5, 5, 5))

	// steep line steps one row at a time
	pts := linePoints(0, 0, 2, 6)
	require.Len(t, pts, 7)
	assert.Equal(t, [2]int{0, 0}, pts[0])
	assert.Equal(t, [2]int{2, 6}, pts[6])
	for i := 1; i < len(pts); i++ {
		assert.Equal(t, pts[i-1][1]+1, pts[i][1])
		assert.LessOrEqual(t, abs(pts[i][0]-pts[i-1][0]), 1)
	}
}

func TestLine_EarlyStop(t *testing.T) {
	n := 0
	for range Line(0, 0, 100, 0) {
		n++
		if n == 3 {
			break
		}
	}
	assert.Equal(t, 3, n)
}

func TestLineOfSight(t *testing.T) {
	// 8x4: wall at (3,1), cliff at (3,2)
	codes := groundCodes(8, 4)
	codes[3+1*8] = cell.GatWall
	codes[3+2*8] = cell.GatCliff
	r := newTestRegistry(t, Options{}, testMap{index: 1, name: "los", w: 8, h: 4, codes: codes})
	m, _ := r.Map(0)

	assert.True(t, m.LineOfSight(0, 0, 7, 0))
	assert.False(t, m.LineOfSight(0, 1, 7, 1), "wall blocks")
	assert.True(t, m.LineOfSight(0, 2, 7, 2), "cliff is shootable")
	assert.False(t, m.LineOfSight(3, 1, 3, 1))
	assert.False(t, m.LineOfSight(0, 0, 8, 0))
	assert.False(t, m.LineOfSight(-1, 0, 0, 0))
}
