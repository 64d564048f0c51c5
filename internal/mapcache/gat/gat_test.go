package gat

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/zonecore/internal/cell"
)

func TestParseRoundTrip(t *testing.T) {
	src := &Table{
		Width:  3,
		Height: 2,
		Types:  []uint32{0, 1, 5, 0, 3, 0},
		Depth:  []float32{-10, 0, 0, 20, 0, 5},
	}

	got, err := Parse(src.Encode())
	require.NoError(t, err)
	assert.Equal(t, src, got)
}

func TestCodes_WaterLevel(t *testing.T) {
	tbl := &Table{
		Width:  4,
		Height: 1,
		Types:  []uint32{0, 0, 1, 300},
		Depth:  []float32{-5, 12, 50, 0},
	}

	assert.Equal(t, []byte{cell.GatGround, cell.GatGround, cell.GatWall, cell.GatWall}, tbl.Codes(NoWater))
	// only plain ground below the surface turns into water
	assert.Equal(t, []byte{cell.GatGround, cell.GatWater, cell.GatWall, cell.GatWall}, tbl.Codes(10))
}

func TestParse_Errors(t *testing.T) {
	_, err := Parse([]byte("GRAT"))
	assert.ErrorIs(t, err, ErrTruncated)

	bad := (&Table{Width: 1, Height: 1, Types: []uint32{0}, Depth: []float32{0}}).Encode()
	bad[0] = 'X'
	_, err = Parse(bad)
	assert.ErrorIs(t, err, ErrBadMagic)

	short := (&Table{Width: 2, Height: 2, Types: make([]uint32, 4), Depth: make([]float32, 4)}).Encode()
	_, err = Parse(short[:len(short)-1])
	assert.ErrorIs(t, err, ErrTruncated)

	zero := (&Table{Width: 0, Height: 2}).Encode()
	_, err = Parse(zero)
	assert.ErrorIs(t, err, ErrBadSize)
}

func TestRead(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prontera.gat")
	tbl := &Table{Width: 1, Height: 1, Types: []uint32{5}, Depth: []float32{0}}
	require.NoError(t, os.WriteFile(path, tbl.Encode(), 0o644))

	got, err := Read(path)
	require.NoError(t, err)
	assert.Equal(t, []byte{cell.GatCliff}, got.Codes(NoWater))
}
