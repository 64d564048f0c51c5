package cell

// Cell packs one map position: low byte holds terrain bits set at load time,
// high byte holds dynamic area bits toggled by game events.
type Cell uint16

// Terrain bits.
const (
	Walkable  Cell = 1 << 0
	Shootable Cell = 1 << 1
	Water     Cell = 1 << 2
)

// Dynamic bits.
const (
	NPC           Cell = 1 << 8
	Basilica      Cell = 1 << 9
	LandProtector Cell = 1 << 10
	Maelstrom     Cell = 1 << 11
	NoVending     Cell = 1 << 12
	NoChat        Cell = 1 << 13
)

const (
	terrainMask Cell = 0x00FF
	dynamicMask Cell = 0xFF00
)

// Gat terrain type codes as stored in the map cache (one byte per cell).
const (
	GatGround byte = 0
	GatWall   byte = 1
	GatWater  byte = 3
	GatCliff  byte = 5
)

// FromGat translates a gat type code into terrain bits.
// Unknown codes decode as wall.
func FromGat(code byte) Cell {
	switch code {
	case 0, 2, 4, 6:
		return Walkable | Shootable
	case 3:
		return Walkable | Shootable | Water
	case 5:
		return Shootable
	default:
		return 0
	}
}

// Gat returns the canonical gat code for the cell's terrain bits.
func (c Cell) Gat() byte {
	switch {
	case c.Has(Water):
		return GatWater
	case c.IsWall():
		return GatWall
	case c.IsCliff():
		return GatCliff
	default:
		return GatGround
	}
}

// Has reports whether every bit of b is set.
func (c Cell) Has(b Cell) bool {
	return c&b == b
}

// With returns c with bits b set.
func (c Cell) With(b Cell) Cell {
	return c | b
}

// Without returns c with bits b cleared.
func (c Cell) Without(b Cell) Cell {
	return c &^ b
}

// IsWall is gat type 1: neither walkable nor shootable.
func (c Cell) IsWall() bool {
	return c&(Walkable|Shootable) == 0
}

// IsCliff is gat type 5: shootable over but not walkable.
func (c Cell) IsCliff() bool {
	return c&(Walkable|Shootable) == Shootable
}

// Terrain returns only the static terrain bits.
func (c Cell) Terrain() Cell {
	return c & terrainMask
}

// Dynamic returns only the dynamic area bits.
func (c Cell) Dynamic() Cell {
	return c & dynamicMask
}

// IsDynamic reports whether b consists solely of dynamic bits.
func IsDynamic(b Cell) bool {
	return b != 0 && b&terrainMask == 0
}
