package autotile

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrInvalidDirection is returned when a requirement is addressed with
// something other than one of the eight directions.
var ErrInvalidDirection = errors.New("invalid direction")

// Requirement is the tri-state condition on one neighbour.
type Requirement int8

const (
	// Any matches the neighbour whether it is filled or not.
	Any Requirement = iota
	// Present requires the neighbour to be filled.
	Present
	// Absent requires the neighbour to be empty or off the grid.
	Absent
)

// Cycle advances Any -> Present -> Absent -> Any.
func (r Requirement) Cycle() Requirement {
	switch r {
	case Any:
		return Present
	case Present:
		return Absent
	}
	return Any
}

// Matches reports whether a neighbour with the given occupancy satisfies r.
func (r Requirement) Matches(filled bool) bool {
	switch r {
	case Present:
		return filled
	case Absent:
		return !filled
	}
	return true
}

func (r Requirement) String() string {
	switch r {
	case Present:
		return "+"
	case Absent:
		return "-"
	}
	return "?"
}

func (r Requirement) MarshalJSON() ([]byte, error) {
	switch r {
	case Any:
		return []byte("null"), nil
	case Present:
		return []byte("true"), nil
	case Absent:
		return []byte("false"), nil
	}
	return nil, fmt.Errorf("requirement %d out of range", int8(r))
}

func (r *Requirement) UnmarshalJSON(data []byte) error {
	switch string(bytes.TrimSpace(data)) {
	case "null":
		*r = Any
	case "true":
		*r = Present
	case "false":
		*r = Absent
	default:
		return fmt.Errorf("requirement must be true, false or null, got %s", data)
	}
	return nil
}

// TileRequirements is an authored, possibly partial, neighbour pattern.
// Dirs is indexed by Direction.
type TileRequirements struct {
	Dirs [NumDirections]Requirement `json:"dirs"`
}

// UnmarshalJSON requires exactly one entry per direction.
func (t *TileRequirements) UnmarshalJSON(data []byte) error {
	var raw struct {
		Dirs []Requirement `json:"dirs"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if len(raw.Dirs) != NumDirections {
		return fmt.Errorf("%w: dirs has %d entries, want %d", ErrCorrupt, len(raw.Dirs), NumDirections)
	}
	copy(t.Dirs[:], raw.Dirs)
	return nil
}

// FromOrientation returns the fully concrete requirement that matches
// exactly o: every direction in o is Present, every other one Absent.
func FromOrientation(o Orientation) TileRequirements {
	var req TileRequirements
	for _, d := range Directions {
		if o.Contains(d) {
			req.Dirs[d] = Present
		} else {
			req.Dirs[d] = Absent
		}
	}
	return req
}

// Get returns the requirement for direction d.
func (t TileRequirements) Get(d Direction) (Requirement, error) {
	if !d.Valid() {
		return Any, fmt.Errorf("%w: %d", ErrInvalidDirection, d)
	}
	return t.Dirs[d], nil
}

// Set replaces the requirement for direction d.
func (t *TileRequirements) Set(d Direction, r Requirement) error {
	if !d.Valid() {
		return fmt.Errorf("%w: %d", ErrInvalidDirection, d)
	}
	t.Dirs[d] = r
	return nil
}

// Orientation converts t to the set of directions required Present.
// Wildcards and Absent directions both come out clear.
func (t TileRequirements) Orientation() Orientation {
	o := None
	for _, d := range Directions {
		if t.Dirs[d] == Present {
			o = o.With(d)
		}
	}
	return o
}

// Wildcards returns the directions left as Any, in index order.
func (t TileRequirements) Wildcards() []Direction {
	var out []Direction
	for _, d := range Directions {
		if t.Dirs[d] == Any {
			out = append(out, d)
		}
	}
	return out
}

// Concrete reports whether t has no wildcards.
func (t TileRequirements) Concrete() bool {
	for _, r := range t.Dirs {
		if r == Any {
			return false
		}
	}
	return true
}

// Matches reports whether the concrete orientation o satisfies t.
func (t TileRequirements) Matches(o Orientation) bool {
	for _, d := range Directions {
		if !t.Dirs[d].Matches(o.Contains(d)) {
			return false
		}
	}
	return true
}

func (t TileRequirements) String() string {
	var b bytes.Buffer
	for i, d := range Directions {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(t.Dirs[d].String())
		b.WriteString(d.String())
	}
	return b.String()
}
