package world

// BlockSize is the side of a block in cells.
const BlockSize = 8

// BlockCoord converts a cell coordinate to its block coordinate.
// Coordinates are non-negative once bounds-checked, so truncation is floor.
func BlockCoord(x, y int) (bx, by int) {
	return x / BlockSize, y / BlockSize
}

// BlocksFor returns the block grid size covering a width x height map:
// ceil(width/BlockSize) x ceil(height/BlockSize).
func BlocksFor(width, height int) (wb, hb int) {
	return (width + BlockSize - 1) / BlockSize, (height + BlockSize - 1) / BlockSize
}
