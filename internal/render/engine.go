package render

import "strings"

// sentinel never matches a real cell, so the first frame repaints everything.
var sentinel = Cell{Ch: '\x00', Fg: Color{R: 255}, Bg: Color{B: 255}, Bold: true}

// Engine is a per-session double-buffer diff renderer.
type Engine struct {
	width, height int
	current       []Cell
	firstFrame    bool
}

// NewEngine creates a renderer for the given terminal dimensions.
func NewEngine(width, height int) *Engine {
	e := &Engine{}
	e.Resize(width, height)
	return e
}

// Resize adjusts the renderer for a new terminal size and forces a full repaint.
func (e *Engine) Resize(width, height int) {
	e.width, e.height = width, height
	e.current = make([]Cell, width*height)
	for i := range e.current {
		e.current[i] = sentinel
	}
	e.firstFrame = true
}

// Invalidate forces the next Draw to repaint every cell.
func (e *Engine) Invalidate() {
	e.firstFrame = true
}

// Draw returns the ANSI output that turns the previous frame into c.
// Only changed cells are emitted, and cursor moves are skipped for runs of
// adjacent cells.
func (e *Engine) Draw(c *Canvas) string {
	if c.Width != e.width || c.Height != e.height {
		e.Resize(c.Width, c.Height)
	}

	var sb strings.Builder
	sb.Grow(16384)

	lastRow, lastCol := -1, -1
	for y := 0; y < e.height; y++ {
		for x := 0; x < e.width; x++ {
			i := y*e.width + x
			nc := c.cells[i]
			if !e.firstFrame && nc == e.current[i] {
				continue
			}
			if y != lastRow || x != lastCol {
				sb.WriteString(MoveTo(y+1, x+1))
			}
			WriteCellSGR(&sb, nc)
			e.current[i] = nc
			lastRow, lastCol = y, x+1
		}
	}

	if sb.Len() > 0 {
		sb.WriteString(Reset)
	}
	e.firstFrame = false
	return sb.String()
}
