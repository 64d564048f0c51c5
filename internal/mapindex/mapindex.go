// Package mapindex holds the map name <-> index directory shared by every
// server process. It is built once at startup and never mutated.
package mapindex

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
)

// MaxNameLength is the longest accepted map name (cache names hold 11 chars + NUL).
const MaxNameLength = 11

// MaxIndex bounds index ids so lookup tables keyed by id stay small.
const MaxIndex = 1 << 15

var (
	ErrBadName        = errors.New("invalid map name")
	ErrBadIndex       = errors.New("invalid map index")
	ErrDuplicateName  = errors.New("duplicate map name")
	ErrDuplicateIndex = errors.New("duplicate map index")
)

// Directory is the read-only view the world core consumes.
type Directory interface {
	// IndexOf returns the index id of a map name (case-insensitive).
	IndexOf(name string) (int, bool)
	// NameOf returns the name registered under an index id.
	NameOf(index int) (string, bool)
	// Entries returns every entry in directory order.
	Entries() []Entry
}

// Entry is one directory line.
type Entry struct {
	Index int
	Name  string
}

// Index is the in-memory Directory.
type Index struct {
	entries []Entry
	byName  map[string]int
	byIndex map[int]string
}

var _ Directory = (*Index)(nil)

// New validates entries and builds an Index preserving their order.
func New(entries []Entry) (*Index, error) {
	idx := &Index{
		entries: make([]Entry, 0, len(entries)),
		byName:  make(map[string]int, len(entries)),
		byIndex: make(map[int]string, len(entries)),
	}
	for _, e := range entries {
		if err := idx.add(e); err != nil {
			return nil, err
		}
	}
	return idx, nil
}

func (idx *Index) add(e Entry) error {
	if e.Name == "" || len(e.Name) > MaxNameLength || strings.ContainsAny(e.Name, " \t\x00") {
		return fmt.Errorf("%w: %q", ErrBadName, e.Name)
	}
	if e.Index <= 0 || e.Index >= MaxIndex {
		return fmt.Errorf("%w: %d for %q", ErrBadIndex, e.Index, e.Name)
	}
	key := strings.ToLower(e.Name)
	if prev, ok := idx.byName[key]; ok {
		return fmt.Errorf("%w: %q already has index %d", ErrDuplicateName, e.Name, prev)
	}
	if prev, ok := idx.byIndex[e.Index]; ok {
		return fmt.Errorf("%w: %d used by %q and %q", ErrDuplicateIndex, e.Index, prev, e.Name)
	}

	idx.byName[key] = e.Index
	idx.byIndex[e.Index] = e.Name
	idx.entries = append(idx.entries, e)
	return nil
}

// IndexOf returns the index id of name, compared case-insensitively.
func (idx *Index) IndexOf(name string) (int, bool) {
	i, ok := idx.byName[strings.ToLower(name)]
	return i, ok
}

// NameOf returns the name registered under index.
func (idx *Index) NameOf(index int) (string, bool) {
	name, ok := idx.byIndex[index]
	return name, ok
}

// Entries returns the entries in load order. The slice must not be modified.
func (idx *Index) Entries() []Entry {
	return idx.entries
}

// Len returns the number of entries.
func (idx *Index) Len() int {
	return len(idx.entries)
}

// LoadFile reads a map_index.txt style file.
func LoadFile(path string) (*Index, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening map index %s: %w", path, err)
	}
	defer f.Close()

	idx, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parsing map index %s: %w", path, err)
	}
	slog.Info("map index loaded", "path", path, "maps", idx.Len())
	return idx, nil
}

// Parse reads lines of "name [index]". Blank lines and lines starting with
// "//" are skipped; a missing index continues from the previous one (first is 1).
func Parse(r io.Reader) (*Index, error) {
	var entries []Entry
	last := 0
	lineNo := 0

	sc := bufio.NewScanner(r)
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "//") {
			continue
		}

		fields := strings.Fields(line)
		e := Entry{Name: fields[0], Index: last + 1}
		if len(fields) > 1 && !strings.HasPrefix(fields[1], "//") {
			n, err := strconv.Atoi(fields[1])
			if err != nil {
				return nil, fmt.Errorf("line %d: %w: %q", lineNo, ErrBadIndex, fields[1])
			}
			e.Index = n
		}
		entries = append(entries, e)
		last = e.Index
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("scanning map index: %w", err)
	}

	return New(entries)
}
