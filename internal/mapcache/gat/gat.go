// Package gat reads ground altitude tables, the per-map terrain source the
// map cache is built from.
package gat

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/udisondev/zonecore/internal/cell"
)

const (
	headerSize = 14 // magic(4) + version(2) + width(4) + height(4)
	cellSize   = 20 // 4 x float32 height + uint32 type
)

var magic = [4]byte{'G', 'R', 'A', 'T'}

var (
	ErrBadMagic  = errors.New("not a gat file")
	ErrTruncated = errors.New("gat file truncated")
	ErrBadSize   = errors.New("gat dimensions out of range")
)

// NoWater disables the water level adjustment.
const NoWater = math.MaxFloat32

// Table is a decoded ground altitude table.
type Table struct {
	Width  int
	Height int
	Types  []uint32  // raw type per cell, row-major
	Depth  []float32 // average of the four corner heights per cell
}

// Read parses a .gat file.
func Read(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading gat %s: %w", path, err)
	}
	t, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing gat %s: %w", path, err)
	}
	return t, nil
}

// Parse decodes a gat payload.
func Parse(data []byte) (*Table, error) {
	if len(data) < headerSize {
		return nil, ErrTruncated
	}
	if [4]byte(data[0:4]) != magic {
		return nil, ErrBadMagic
	}

	w := int32(binary.LittleEndian.Uint32(data[6:10]))
	h := int32(binary.LittleEndian.Uint32(data[10:14]))
	if w <= 0 || h <= 0 || w > math.MaxUint16 || h > math.MaxUint16 {
		return nil, fmt.Errorf("%w: %dx%d", ErrBadSize, w, h)
	}

	n := int(w) * int(h)
	if len(data)-headerSize < n*cellSize {
		return nil, fmt.Errorf("%w: need %d cells", ErrTruncated, n)
	}

	t := &Table{
		Width:  int(w),
		Height: int(h),
		Types:  make([]uint32, n),
		Depth:  make([]float32, n),
	}

	off := headerSize
	for i := range n {
		var sum float32
		for k := range 4 {
			sum += math.Float32frombits(binary.LittleEndian.Uint32(data[off+k*4:]))
		}
		t.Depth[i] = sum / 4
		t.Types[i] = binary.LittleEndian.Uint32(data[off+16:])
		off += cellSize
	}

	return t, nil
}

// Codes converts the table to cache terrain codes. Plain ground lying
// deeper than waterLevel becomes water; pass NoWater to keep types as-is.
// Gat heights grow downwards, so "deeper" means a larger value.
func (t *Table) Codes(waterLevel float32) []byte {
	codes := make([]byte, len(t.Types))
	for i, typ := range t.Types {
		code := byte(cell.GatWall)
		if typ <= math.MaxUint8 {
			code = byte(typ)
		}
		if code == cell.GatGround && waterLevel != NoWater && t.Depth[i] > waterLevel {
			code = cell.GatWater
		}
		codes[i] = code
	}
	return codes
}

// Encode writes t back in gat format (version 1.2).
func (t *Table) Encode() []byte {
	out := make([]byte, headerSize+len(t.Types)*cellSize)
	copy(out[0:4], magic[:])
	out[4], out[5] = 1, 2
	binary.LittleEndian.PutUint32(out[6:], uint32(t.Width))
	binary.LittleEndian.PutUint32(out[10:], uint32(t.Height))

	off := headerSize
	for i, typ := range t.Types {
		bits := math.Float32bits(t.Depth[i])
		for k := range 4 {
			binary.LittleEndian.PutUint32(out[off+k*4:], bits)
		}
		binary.LittleEndian.PutUint32(out[off+16:], typ)
		off += cellSize
	}
	return out
}
