package mapcache

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"strings"

	"github.com/klauspost/compress/zlib"
)

// MapData is one map's raw terrain as written into a cache.
type MapData struct {
	Name   string
	Width  uint16
	Height uint16
	Codes  []byte // gat type code per cell, row-major (x + y*Width)
}

// Encode builds a cache payload from maps, in the given order.
func Encode(maps []MapData) ([]byte, error) {
	if len(maps) > math.MaxUint16 {
		return nil, fmt.Errorf("%w: %d maps", ErrMapCount, len(maps))
	}

	var buf bytes.Buffer
	buf.Write(make([]byte, HeaderSize))

	seen := make(map[string]struct{}, len(maps))
	for _, m := range maps {
		if err := validateMapData(m); err != nil {
			return nil, mapErr(m.Name, err)
		}
		key := strings.ToLower(m.Name)
		if _, dup := seen[key]; dup {
			return nil, mapErr(m.Name, ErrDuplicateName)
		}
		seen[key] = struct{}{}

		compressed, err := deflate(m.Codes)
		if err != nil {
			return nil, mapErr(m.Name, err)
		}

		var desc [DescriptorSize]byte
		copy(desc[:NameLength-1], m.Name)
		binary.LittleEndian.PutUint16(desc[NameLength:], m.Width)
		binary.LittleEndian.PutUint16(desc[NameLength+2:], m.Height)
		binary.LittleEndian.PutUint32(desc[NameLength+4:], uint32(len(compressed)))
		buf.Write(desc[:])
		buf.Write(compressed)
	}

	out := buf.Bytes()
	if int64(len(out)) > math.MaxUint32 {
		return nil, fmt.Errorf("%w: payload of %d bytes", ErrFileSize, len(out))
	}
	binary.LittleEndian.PutUint32(out[0:4], uint32(len(out)))
	binary.LittleEndian.PutUint16(out[4:6], uint16(len(maps)))
	return out, nil
}

func validateMapData(m MapData) error {
	if m.Name == "" || len(m.Name) >= NameLength || strings.IndexByte(m.Name, 0) >= 0 {
		return fmt.Errorf("%w: %q", ErrBadName, m.Name)
	}
	if m.Width == 0 || m.Height == 0 {
		return fmt.Errorf("%w: %dx%d", ErrEmptyMap, m.Width, m.Height)
	}
	area := int(m.Width) * int(m.Height)
	if area > MaxMapArea {
		return fmt.Errorf("%w: %dx%d > %d cells", ErrMapTooLarge, m.Width, m.Height, MaxMapArea)
	}
	if len(m.Codes) != area {
		return fmt.Errorf("%w: have %d codes for %d cells", ErrSizeMismatch, len(m.Codes), area)
	}
	return nil
}

func deflate(codes []byte) ([]byte, error) {
	var buf bytes.Buffer
	zw, err := zlib.NewWriterLevel(&buf, zlib.BestCompression)
	if err != nil {
		return nil, fmt.Errorf("creating zlib writer: %w", err)
	}
	if _, err := zw.Write(codes); err != nil {
		return nil, fmt.Errorf("compressing cells: %w", err)
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("flushing zlib stream: %w", err)
	}
	return buf.Bytes(), nil
}
