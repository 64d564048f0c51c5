// Package mapcache reads and writes the compressed map cache: a single file
// holding the gat terrain codes of every map, one zlib stream per map.
package mapcache

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/zlib"
	"golang.org/x/crypto/blake2b"

	"github.com/udisondev/zonecore/internal/cell"
)

// Cache layout constants.
const (
	NameLength     = 12 // including the terminating NUL
	HeaderSize     = 6  // file_size u32 + map_count u16
	DescriptorSize = NameLength + 2 + 2 + 4

	MaxMapSide = 512
	MaxMapArea = MaxMapSide * MaxMapSide
)

// Header is the file-level header.
type Header struct {
	FileSize uint32
	MapCount uint16
}

// Descriptor describes one map inside the cache.
type Descriptor struct {
	Name   string
	Width  uint16
	Height uint16
	Len    uint32 // compressed byte count following the descriptor
}

// Area returns width*height in cells.
func (d Descriptor) Area() int {
	return int(d.Width) * int(d.Height)
}

// Entry is a descriptor plus its compressed bytes (a sub-slice of the payload).
type Entry struct {
	Descriptor
	data []byte
}

// Cache is a parsed, structurally validated map cache payload.
// Cell data stays compressed until Decode is called.
type Cache struct {
	header  Header
	entries []Entry
	byName  map[string]int
	digest  [blake2b.Size256]byte
}

// Load reads and parses a map cache file.
func Load(path string) (*Cache, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading map cache %s: %w", path, err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing map cache %s: %w", path, err)
	}
	return c, nil
}

// Parse validates the header and every descriptor of payload.
// Compressed bytes are not copied; payload must not be modified afterwards.
func Parse(payload []byte) (*Cache, error) {
	if len(payload) < HeaderSize {
		return nil, mapErr("", ErrShortHeader)
	}

	h := Header{
		FileSize: binary.LittleEndian.Uint32(payload[0:4]),
		MapCount: binary.LittleEndian.Uint16(payload[4:6]),
	}
	if int64(h.FileSize) != int64(len(payload)) {
		return nil, mapErr("", fmt.Errorf("%w: header says %d, got %d", ErrFileSize, h.FileSize, len(payload)))
	}

	c := &Cache{
		header:  h,
		entries: make([]Entry, 0, h.MapCount),
		byName:  make(map[string]int, h.MapCount),
		digest:  blake2b.Sum256(payload),
	}

	off := HeaderSize
	for i := range int(h.MapCount) {
		rest := len(payload) - off
		if rest == 0 {
			return nil, mapErr("", fmt.Errorf("%w: declared %d, found %d", ErrMapCount, h.MapCount, i))
		}
		if rest < DescriptorSize {
			return nil, mapErr("", fmt.Errorf("%w: descriptor %d needs %d bytes, %d left", ErrTruncated, i, DescriptorSize, rest))
		}

		d, err := parseDescriptor(payload[off : off+DescriptorSize])
		if err != nil {
			return nil, mapErr(d.Name, err)
		}
		off += DescriptorSize

		if int64(d.Len) > int64(len(payload)-off) {
			return nil, mapErr(d.Name, fmt.Errorf("%w: needs %d compressed bytes, %d left", ErrTruncated, d.Len, len(payload)-off))
		}
		key := strings.ToLower(d.Name)
		if _, dup := c.byName[key]; dup {
			return nil, mapErr(d.Name, ErrDuplicateName)
		}

		c.byName[key] = len(c.entries)
		c.entries = append(c.entries, Entry{Descriptor: d, data: payload[off : off+int(d.Len)]})
		off += int(d.Len)
	}

	if off != len(payload) {
		return nil, mapErr("", fmt.Errorf("%w: declared %d, %d trailing bytes", ErrMapCount, h.MapCount, len(payload)-off))
	}

	return c, nil
}

func parseDescriptor(b []byte) (Descriptor, error) {
	raw := b[:NameLength]
	end := bytes.IndexByte(raw, 0)
	if end < 0 {
		return Descriptor{Name: string(raw)}, fmt.Errorf("%w: name not terminated", ErrBadName)
	}

	d := Descriptor{
		Name:   string(raw[:end]),
		Width:  binary.LittleEndian.Uint16(b[NameLength:]),
		Height: binary.LittleEndian.Uint16(b[NameLength+2:]),
		Len:    binary.LittleEndian.Uint32(b[NameLength+4:]),
	}
	if d.Name == "" {
		return d, fmt.Errorf("%w: empty name", ErrBadName)
	}
	if d.Width == 0 || d.Height == 0 {
		return d, fmt.Errorf("%w: %dx%d", ErrEmptyMap, d.Width, d.Height)
	}
	if d.Area() > MaxMapArea {
		return d, fmt.Errorf("%w: %dx%d > %d cells", ErrMapTooLarge, d.Width, d.Height, MaxMapArea)
	}
	return d, nil
}

// Header returns the parsed file header.
func (c *Cache) Header() Header {
	return c.header
}

// Len returns the number of maps in the cache.
func (c *Cache) Len() int {
	return len(c.entries)
}

// Entries returns all entries in file order.
func (c *Cache) Entries() []Entry {
	return c.entries
}

// Lookup finds a map entry by name (case-insensitive).
func (c *Cache) Lookup(name string) (Entry, bool) {
	i, ok := c.byName[strings.ToLower(name)]
	if !ok {
		return Entry{}, false
	}
	return c.entries[i], true
}

// Digest returns the blake2b-256 of the whole payload, hex encoded.
func (c *Cache) Digest() string {
	return hex.EncodeToString(c.digest[:])
}

// NewScratch allocates a buffer large enough to decode any map.
func NewScratch() []byte {
	return make([]byte, MaxMapArea+1)
}

// Decode inflates e into scratch and translates the terrain codes into cells.
// On any failure no cell slice is returned. scratch must hold at least
// e.Area()+1 bytes; NewScratch fits every map.
func Decode(e Entry, scratch []byte) ([]cell.Cell, error) {
	want := e.Area()
	if len(scratch) < want+1 {
		return nil, mapErr(e.Name, fmt.Errorf("%w: need %d, have %d", ErrShortBuffer, want+1, len(scratch)))
	}

	codes, err := inflate(e.data, scratch[:want+1], want)
	if err != nil {
		return nil, mapErr(e.Name, err)
	}

	cells := make([]cell.Cell, want)
	for i, code := range codes {
		cells[i] = cell.FromGat(code)
	}
	return cells, nil
}

// inflate decompresses src into dst and requires exactly want bytes of
// output with every compressed byte consumed. dst must have room for want+1.
func inflate(src, dst []byte, want int) ([]byte, error) {
	br := bytes.NewReader(src)
	zr, err := zlib.NewReader(br)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	defer zr.Close()

	n := 0
	for {
		m, err := zr.Read(dst[n:])
		n += m
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
		}
		if n == len(dst) {
			return nil, fmt.Errorf("%w: more than %d bytes", ErrSizeMismatch, want)
		}
	}
	if n != want {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrSizeMismatch, n, want)
	}

	if br.Len() != 0 {
		return nil, fmt.Errorf("%w: %d bytes left after stream end", ErrCompressedLength, br.Len())
	}
	return dst[:n], nil
}
