// Package tilemap holds the occupancy grid a rule table is applied to.
package tilemap

import (
	"fmt"
	"slices"
	"strings"

	"autotile-studio/internal/autotile"
)

// Cell is one grid cell. Orientation is meaningful only when Filled and
// always None otherwise.
type Cell struct {
	Filled      bool
	Orientation autotile.Orientation
}

// Resolver maps a concrete orientation to a sheet tile.
// *autotile.SpriteConfig satisfies it; run the pass inside Shared.View.
type Resolver interface {
	FindTileIndex(o autotile.Orientation) (autotile.GridCoordinate, bool)
}

// Instance is one drawable tile: where it goes on the grid and which
// sheet tile it shows.
type Instance struct {
	GridPos  autotile.GridCoordinate
	SheetPos autotile.GridCoordinate
}

// Pack flattens both coordinates to row-major indices, the layout a GPU
// instance buffer expects.
func (i Instance) Pack(gridWidth, sheetWidth int) (gridPos, sheetPos uint32) {
	return uint32(i.GridPos.Index(gridWidth)), uint32(i.SheetPos.Index(sheetWidth))
}

// Grid is a fixed-size occupancy grid. Every filled cell carries the
// orientation derived from its eight neighbours; off-grid neighbours count
// as empty.
type Grid struct {
	width, height int
	cells         []Cell // [y*width+x]

	instances []Instance
	unmatched []autotile.GridCoordinate
	dirty     bool
}

// New returns an empty width x height grid.
func New(width, height int) *Grid {
	if width <= 0 || height <= 0 {
		panic(fmt.Sprintf("tilemap: invalid size %dx%d", width, height))
	}
	return &Grid{
		width:  width,
		height: height,
		cells:  make([]Cell, width*height),
		dirty:  true,
	}
}

// NewFilled returns a width x height grid with every cell filled.
func NewFilled(width, height int) *Grid {
	g := New(width, height)
	g.reset(func(x, y int) bool { return true })
	return g
}

// Parse builds a grid from rows of '#' (filled) and '.' (empty).
func Parse(rows []string) (*Grid, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, fmt.Errorf("empty grid")
	}
	width := len(rows[0])
	for y, row := range rows {
		if len(row) != width {
			return nil, fmt.Errorf("row %d has %d cells, expected %d", y, len(row), width)
		}
		if i := strings.IndexFunc(row, func(r rune) bool { return r != '#' && r != '.' }); i >= 0 {
			return nil, fmt.Errorf("row %d: unexpected %q at column %d", y, row[i], i)
		}
	}
	g := New(width, len(rows))
	g.reset(func(x, y int) bool { return rows[y][x] == '#' })
	return g, nil
}

func (g *Grid) Width() int  { return g.width }
func (g *Grid) Height() int { return g.height }

func (g *Grid) in(x, y int) bool {
	return x >= 0 && x < g.width && y >= 0 && y < g.height
}

func (g *Grid) mustIn(x, y int) {
	if !g.in(x, y) {
		panic(fmt.Sprintf("tilemap: cell (%d, %d) outside %dx%d grid", x, y, g.width, g.height))
	}
}

// Tile returns the cell at (x, y). It panics outside the grid.
func (g *Grid) Tile(x, y int) Cell {
	g.mustIn(x, y)
	return g.cells[y*g.width+x]
}

// At is the non-panicking form of Tile.
func (g *Grid) At(x, y int) (Cell, bool) {
	if !g.in(x, y) {
		return Cell{}, false
	}
	return g.cells[y*g.width+x], true
}

// Filled reports whether (x, y) is filled. Off-grid cells are not.
func (g *Grid) Filled(x, y int) bool {
	c, ok := g.At(x, y)
	return ok && c.Filled
}

// orientationAt derives the orientation of (x, y) from its neighbours.
func (g *Grid) orientationAt(x, y int) autotile.Orientation {
	o := autotile.None
	for _, d := range autotile.Directions {
		dx, dy := d.Offset()
		if g.Filled(x+dx, y+dy) {
			o = o.With(d)
		}
	}
	return o
}

// rederive recomputes the orientation of (x, y) and its in-bounds neighbours.
func (g *Grid) rederive(x, y int) {
	for ny := y - 1; ny <= y+1; ny++ {
		for nx := x - 1; nx <= x+1; nx++ {
			if !g.in(nx, ny) {
				continue
			}
			c := &g.cells[ny*g.width+nx]
			if c.Filled {
				c.Orientation = g.orientationAt(nx, ny)
			} else {
				c.Orientation = autotile.None
			}
		}
	}
}

// reset sets every cell's occupancy from filled and derives all orientations.
func (g *Grid) reset(filled func(x, y int) bool) {
	for y := 0; y < g.height; y++ {
		for x := 0; x < g.width; x++ {
			g.cells[y*g.width+x] = Cell{Filled: filled(x, y)}
		}
	}
	for y := 0; y < g.height; y++ {
		for x := 0; x < g.width; x++ {
			c := &g.cells[y*g.width+x]
			if c.Filled {
				c.Orientation = g.orientationAt(x, y)
			}
		}
	}
	g.dirty = true
}

// Toggle flips (x, y) between empty and filled and refreshes the
// orientations it affects. It panics outside the grid.
func (g *Grid) Toggle(x, y int) {
	g.mustIn(x, y)
	c := &g.cells[y*g.width+x]
	c.Filled = !c.Filled
	g.rederive(x, y)
	g.dirty = true
}

// Set fills or clears (x, y), toggling only when the state changes.
func (g *Grid) Set(x, y int, filled bool) {
	if g.Tile(x, y).Filled != filled {
		g.Toggle(x, y)
	}
}

// ApplyChanges rebuilds the instance list if the grid is dirty and reports
// whether it did. Cells are visited row by row; filled cells with no
// matching rule are skipped and recorded in Unmatched.
func (g *Grid) ApplyChanges(r Resolver) bool {
	if !g.dirty {
		return false
	}
	g.instances = g.instances[:0]
	g.unmatched = g.unmatched[:0]
	for y := 0; y < g.height; y++ {
		for x := 0; x < g.width; x++ {
			c := g.cells[y*g.width+x]
			if !c.Filled {
				continue
			}
			pos := autotile.Coord(x, y)
			sheetPos, ok := r.FindTileIndex(c.Orientation)
			if !ok {
				g.unmatched = append(g.unmatched, pos)
				continue
			}
			g.instances = append(g.instances, Instance{GridPos: pos, SheetPos: sheetPos})
		}
	}
	g.dirty = false
	return true
}

// Instances returns the instance list from the last apply pass.
// The slice is reused by the next pass; copy it to keep it.
func (g *Grid) Instances() []Instance {
	return g.instances
}

func (g *Grid) InstanceCount() int {
	return len(g.instances)
}

// Unmatched lists the filled cells the last apply pass could not resolve.
func (g *Grid) Unmatched() []autotile.GridCoordinate {
	return g.unmatched
}

// Dirty reports whether the instance list is out of date.
func (g *Grid) Dirty() bool {
	return g.dirty
}

// Invalidate marks the instance list stale, e.g. after the rule table changed.
func (g *Grid) Invalidate() {
	g.dirty = true
}

// Cells returns a row-major copy of every cell.
func (g *Grid) Cells() []Cell {
	return slices.Clone(g.cells)
}

// Count returns the number of filled cells.
func (g *Grid) Count() int {
	n := 0
	for _, c := range g.cells {
		if c.Filled {
			n++
		}
	}
	return n
}

// Equal compares size and cell states.
func (g *Grid) Equal(other *Grid) bool {
	return g.width == other.width && g.height == other.height && slices.Equal(g.cells, other.cells)
}

// String renders the occupancy in the form Parse accepts.
func (g *Grid) String() string {
	var b strings.Builder
	for y := 0; y < g.height; y++ {
		for x := 0; x < g.width; x++ {
			if g.cells[y*g.width+x].Filled {
				b.WriteByte('#')
			} else {
				b.WriteByte('.')
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}
