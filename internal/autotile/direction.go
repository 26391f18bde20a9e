// Package autotile resolves neighbour-occupancy patterns to sprite-sheet tiles.
//
// A cell's Orientation records which of its eight neighbours are filled.
// Artists author TileRequirements (possibly with wildcards) against sheet
// coordinates; a CoordinateSet expands those rules into a lookup from every
// concrete Orientation to the sheet tiles that may draw it.
package autotile

// Direction is one of the eight compass neighbours of a cell.
//
// The numeric value is the index used everywhere a direction is stored:
// TileRequirements.Dirs, the persisted JSON array and the Orientation bit.
type Direction uint8

const (
	N Direction = iota
	S
	E
	W
	NE
	NW
	SE
	SW
)

// NumDirections is the size of the neighbourhood.
const NumDirections = 8

// Directions lists every direction in index order.
var Directions = [NumDirections]Direction{N, S, E, W, NE, NW, SE, SW}

var directionNames = [NumDirections]string{"N", "S", "E", "W", "NE", "NW", "SE", "SW"}

// Screen convention: +x is east, +y is south.
var directionOffsets = [NumDirections][2]int{
	N:  {0, -1},
	S:  {0, 1},
	E:  {1, 0},
	W:  {-1, 0},
	NE: {1, -1},
	NW: {-1, -1},
	SE: {1, 1},
	SW: {-1, 1},
}

// Valid reports whether d names one of the eight neighbours.
func (d Direction) Valid() bool {
	return d < NumDirections
}

// Offset returns the unit offset from a cell to its neighbour in direction d.
func (d Direction) Offset() (dx, dy int) {
	if !d.Valid() {
		return 0, 0
	}
	o := directionOffsets[d]
	return o[0], o[1]
}

func (d Direction) String() string {
	if !d.Valid() {
		return "?"
	}
	return directionNames[d]
}

// Orient maps a unit offset to its direction. Offsets outside the 3x3
// neighbourhood, and the centre (0,0), have no direction.
func Orient(dx, dy int) (Direction, bool) {
	switch {
	case dx == 0 && dy == -1:
		return N, true
	case dx == 0 && dy == 1:
		return S, true
	case dx == 1 && dy == 0:
		return E, true
	case dx == -1 && dy == 0:
		return W, true
	case dx == 1 && dy == -1:
		return NE, true
	case dx == -1 && dy == -1:
		return NW, true
	case dx == 1 && dy == 1:
		return SE, true
	case dx == -1 && dy == 1:
		return SW, true
	}
	return 0, false
}
