package autotile

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrBadCoordinate is returned when a persisted "x:y" key cannot be parsed.
var ErrBadCoordinate = errors.New("malformed grid coordinate")

// GridCoordinate addresses a cell, either on a tilemap or on a sprite sheet.
type GridCoordinate struct {
	X int
	Y int
}

// Coord is shorthand for GridCoordinate{X: x, Y: y}.
func Coord(x, y int) GridCoordinate {
	return GridCoordinate{X: x, Y: y}
}

// Compare orders coordinates row-major: by Y, then by X.
func (c GridCoordinate) Compare(other GridCoordinate) int {
	switch {
	case c.Y < other.Y:
		return -1
	case c.Y > other.Y:
		return 1
	case c.X < other.X:
		return -1
	case c.X > other.X:
		return 1
	}
	return 0
}

// Offset returns the coordinate displaced by (dx, dy).
func (c GridCoordinate) Offset(dx, dy int) GridCoordinate {
	return GridCoordinate{X: c.X + dx, Y: c.Y + dy}
}

// In reports whether c lies inside a width x height grid.
func (c GridCoordinate) In(width, height int) bool {
	return c.X >= 0 && c.Y >= 0 && c.X < width && c.Y < height
}

// Index packs c into a row-major index for a grid of the given width.
func (c GridCoordinate) Index(width int) int {
	return c.Y*width + c.X
}

func (c GridCoordinate) String() string {
	return strconv.Itoa(c.X) + ":" + strconv.Itoa(c.Y)
}

// ParseGridCoordinate is the inverse of String.
func ParseGridCoordinate(s string) (GridCoordinate, error) {
	xs, ys, ok := strings.Cut(s, ":")
	if !ok {
		return GridCoordinate{}, fmt.Errorf("%w: %q", ErrBadCoordinate, s)
	}
	x, err := parseComponent(xs)
	if err != nil {
		return GridCoordinate{}, fmt.Errorf("%w: %q", ErrBadCoordinate, s)
	}
	y, err := parseComponent(ys)
	if err != nil {
		return GridCoordinate{}, fmt.Errorf("%w: %q", ErrBadCoordinate, s)
	}
	return GridCoordinate{X: x, Y: y}, nil
}

// parseComponent accepts only the digits String produces: no sign, no
// spaces, no leading zeros.
func parseComponent(s string) (int, error) {
	if s == "" {
		return 0, strconv.ErrSyntax
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, strconv.ErrSyntax
		}
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	if s != strconv.Itoa(v) {
		return 0, strconv.ErrSyntax
	}
	return v, nil
}

func (c GridCoordinate) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *GridCoordinate) UnmarshalText(text []byte) error {
	parsed, err := ParseGridCoordinate(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
