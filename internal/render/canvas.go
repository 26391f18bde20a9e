package render

import "hash/fnv"

// Color is a 24-bit terminal colour.
type Color struct {
	R, G, B uint8
}

func RGB(r, g, b uint8) Color { return Color{r, g, b} }

// Lighten moves c a fraction of the way towards white.
func (c Color) Lighten(f float64) Color {
	mix := func(v uint8) uint8 { return v + uint8(float64(255-v)*f) }
	return Color{mix(c.R), mix(c.G), mix(c.B)}
}

// Cell is a single terminal cell.
type Cell struct {
	Ch     rune
	Fg, Bg Color
	Bold   bool
}

// Canvas is a width x height grid of cells, drawn by Compose and flushed
// by an Engine or a tcell screen.
type Canvas struct {
	Width, Height int
	cells         []Cell
}

func NewCanvas(width, height int) *Canvas {
	width, height = max(width, 0), max(height, 0)
	return &Canvas{Width: width, Height: height, cells: make([]Cell, width*height)}
}

func (c *Canvas) in(x, y int) bool {
	return x >= 0 && x < c.Width && y >= 0 && y < c.Height
}

// At returns the cell at (x, y), or a zero cell off the canvas.
func (c *Canvas) At(x, y int) Cell {
	if !c.in(x, y) {
		return Cell{}
	}
	return c.cells[y*c.Width+x]
}

// Set writes a cell, ignoring positions off the canvas.
func (c *Canvas) Set(x, y int, cell Cell) {
	if c.in(x, y) {
		c.cells[y*c.Width+x] = cell
	}
}

// Fill paints a rectangle with one cell.
func (c *Canvas) Fill(x, y, w, h int, cell Cell) {
	for row := y; row < y+h; row++ {
		for col := x; col < x+w; col++ {
			c.Set(col, row, cell)
		}
	}
}

// Text writes s starting at (x, y), stopping at maxX. It returns the
// column after the last rune written.
func (c *Canvas) Text(x, y, maxX int, s string, fg, bg Color, bold bool) int {
	for _, r := range s {
		if x >= maxX || x >= c.Width {
			break
		}
		c.Set(x, y, Cell{Ch: r, Fg: fg, Bg: bg, Bold: bold})
		x++
	}
	return x
}

// Row returns the runes of row y as a string, for tests and plain output.
func (c *Canvas) Row(y int) string {
	rs := make([]rune, c.Width)
	for x := range rs {
		ch := c.At(x, y).Ch
		if ch == 0 {
			ch = ' '
		}
		rs[x] = ch
	}
	return string(rs)
}

// palette colours sheet tiles that have no image swatch.
var palette = []Color{
	{86, 156, 214}, {78, 201, 176}, {220, 220, 170}, {206, 145, 120},
	{197, 134, 192}, {156, 220, 254}, {181, 206, 168}, {215, 186, 125},
	{244, 135, 113}, {128, 160, 255}, {106, 153, 85}, {209, 105, 105},
}

// HashColor picks a stable palette colour for key.
func HashColor(key string) Color {
	h := fnv.New32a()
	h.Write([]byte(key))
	return palette[h.Sum32()%uint32(len(palette))]
}
