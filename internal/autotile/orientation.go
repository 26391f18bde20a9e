package autotile

import "strings"

// Orientation is the set of neighbour directions asserted present for a cell.
// Bit i is set when Direction(i) is present.
type Orientation uint8

const (
	None Orientation = 0
	All  Orientation = 0xFF
)

// Flag returns the single-direction orientation for d.
func Flag(d Direction) Orientation {
	if !d.Valid() {
		return None
	}
	return 1 << d
}

// Contains reports whether direction d is present.
func (o Orientation) Contains(d Direction) bool {
	return o&Flag(d) != 0
}

// Has reports whether every direction in other is also in o.
func (o Orientation) Has(other Orientation) bool {
	return o&other == other
}

func (o Orientation) With(d Direction) Orientation {
	return o | Flag(d)
}

func (o Orientation) Without(d Direction) Orientation {
	return o &^ Flag(d)
}

func (o Orientation) Union(other Orientation) Orientation {
	return o | other
}

func (o Orientation) Difference(other Orientation) Orientation {
	return o &^ other
}

// Complement returns every direction not in o.
func (o Orientation) Complement() Orientation {
	return ^o
}

// Count returns how many directions are present.
func (o Orientation) Count() int {
	n := 0
	for v := o; v != 0; v &= v - 1 {
		n++
	}
	return n
}

// Requirements converts o to a fully concrete TileRequirements.
func (o Orientation) Requirements() TileRequirements {
	return FromOrientation(o)
}

func (o Orientation) String() string {
	switch o {
	case None:
		return "NONE"
	case All:
		return "ALL"
	}
	var parts []string
	for _, d := range Directions {
		if o.Contains(d) {
			parts = append(parts, d.String())
		}
	}
	return strings.Join(parts, "|")
}
