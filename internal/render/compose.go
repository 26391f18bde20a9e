package render

import (
	"fmt"

	"autotile-studio/internal/autotile"
	"autotile-studio/internal/editor"
)

const (
	HeaderRows = 1
	HUDRows    = 2

	// TileWidth is how many screen columns each map cell occupies.
	// 2 makes cells appear roughly square since terminal chars are ~2:1.
	TileWidth = 2

	ruleRows = 6 // label, 3x3 block, candidates, spacer
)

var (
	bgColor     = RGB(10, 10, 15)
	panelColor  = RGB(15, 18, 30)
	dimColor    = RGB(60, 65, 85)
	textColor   = RGB(180, 180, 195)
	focusColor  = RGB(255, 215, 90)
	errorColor  = RGB(150, 35, 35)
	emptyColor  = RGB(25, 25, 35)
	markerColor = RGB(245, 245, 245)
)

// tileColor is the colour a sheet tile is drawn with: its image swatch when
// a sheet is loaded, otherwise a stable palette colour.
func tileColor(f *editor.Frame, c autotile.GridCoordinate) Color {
	if f.Sheet != nil {
		if sw, ok := f.Sheet.Swatch(c); ok {
			return RGB(sw.R, sw.G, sw.B)
		}
	}
	return HashColor(c.String())
}

func contrast(bg Color) Color {
	if int(bg.R)*299+int(bg.G)*587+int(bg.B)*114 > 128000 {
		return RGB(15, 15, 20)
	}
	return RGB(235, 235, 240)
}

// Compose lays out an editor frame on a width x height canvas: the map on
// the left, the sheet and the rule under the sheet cursor on the right,
// and a status HUD along the bottom.
func Compose(f editor.Frame, width, height int) *Canvas {
	c := NewCanvas(width, height)
	c.Fill(0, 0, width, height, Cell{Ch: ' ', Bg: bgColor})
	if width < 20 || height < HeaderRows+HUDRows+4 {
		c.Text(0, 0, width, "terminal too small", textColor, bgColor, true)
		return c
	}

	sideW := max(16, min(f.SheetWidth*TileWidth+2, width/2))
	mapW := width - sideW - 1
	bodyH := height - HeaderRows - HUDRows

	drawHeader(c)
	drawMap(c, &f, 0, HeaderRows, mapW, bodyH)
	for y := HeaderRows; y < HeaderRows+bodyH; y++ {
		c.Set(mapW, y, Cell{Ch: '│', Fg: dimColor, Bg: bgColor})
	}
	sheetH := drawSheet(c, &f, mapW+1, HeaderRows, sideW, bodyH-ruleRows)
	drawRule(c, &f, mapW+1, HeaderRows+sheetH, sideW)
	drawHUD(c, &f)
	return c
}

func paneLabel(f *editor.Frame, p editor.Pane) (Color, bool) {
	if f.Pane == p {
		return focusColor, true
	}
	return textColor, false
}

func drawHeader(c *Canvas) {
	c.Fill(0, 0, c.Width, 1, Cell{Ch: ' ', Bg: panelColor})
	col := c.Text(1, 0, c.Width, "autotile-studio", focusColor, panelColor, true)
	col = c.Text(col, 0, c.Width, "  │  ", dimColor, panelColor, false)
	c.Text(col, 0, c.Width,
		"hjkl move · tab pane · space toggle · e cycle · a add · x del · c capture · b blob · r refill · s save · q quit",
		textColor, panelColor, false)
}

func drawMap(c *Canvas, f *editor.Frame, x0, y0, w, h int) {
	fg, bold := paneLabel(f, editor.PaneMap)
	c.Text(x0+1, y0, x0+w, fmt.Sprintf("map %dx%d", f.MapWidth, f.MapHeight), fg, bgColor, bold)
	y0++
	h--

	vp := NewViewport(f.MapCursor.X, f.MapCursor.Y, w/TileWidth, h, f.MapWidth, f.MapHeight)
	for vy := 0; vy < vp.ViewH; vy++ {
		for vx := 0; vx < vp.ViewW; vx++ {
			gx, gy := vp.CamX+vx, vp.CamY+vy
			cell := f.CellAt(gx, gy)
			sx, sy := x0+vx*TileWidth, y0+vy

			var left, right Cell
			switch {
			case !cell.Filled:
				left = Cell{Ch: '·', Fg: dimColor, Bg: bgColor}
				right = Cell{Ch: ' ', Bg: bgColor}
			case cell.Matched:
				bg := tileColor(f, cell.Sheet)
				left = Cell{Ch: Glyph(cell.Orientation), Fg: contrast(bg), Bg: bg}
				right = Cell{Ch: ' ', Fg: contrast(bg), Bg: bg}
				if cell.Orientation.Contains(autotile.E) {
					right.Ch = '─'
				}
			default:
				left = Cell{Ch: '?', Fg: markerColor, Bg: errorColor, Bold: true}
				right = Cell{Ch: ' ', Bg: errorColor}
			}

			if gx == f.MapCursor.X && gy == f.MapCursor.Y {
				left.Bold, right.Bold = true, true
				left.Bg, right.Bg = left.Bg.Lighten(0.35), right.Bg.Lighten(0.35)
				if f.Pane == editor.PaneMap {
					right.Ch, right.Fg = '◂', focusColor
				}
			}
			c.Set(sx, sy, left)
			c.Set(sx+1, sy, right)
		}
	}
}

// drawSheet draws the sheet grid and returns the rows it used.
func drawSheet(c *Canvas, f *editor.Frame, x0, y0, w, h int) int {
	fg, bold := paneLabel(f, editor.PaneSheet)
	c.Text(x0+1, y0, x0+w, fmt.Sprintf("sheet %dx%d  %v", f.SheetWidth, f.SheetHeight, f.SheetCursor), fg, bgColor, bold)

	candidates := make(map[autotile.GridCoordinate]bool, len(f.Candidates))
	for _, cand := range f.Candidates {
		candidates[cand] = true
	}

	vp := NewViewport(f.SheetCursor.X, f.SheetCursor.Y, (w-1)/TileWidth, max(h-1, 1), f.SheetWidth, f.SheetHeight)
	for vy := 0; vy < vp.ViewH; vy++ {
		for vx := 0; vx < vp.ViewW; vx++ {
			at := autotile.Coord(vp.CamX+vx, vp.CamY+vy)
			sx, sy := x0+1+vx*TileWidth, y0+1+vy

			left := Cell{Ch: '·', Fg: dimColor, Bg: emptyColor}
			right := Cell{Ch: ' ', Bg: emptyColor}
			if f.HasRuleAt(at) {
				bg := tileColor(f, at)
				left = Cell{Ch: '▪', Fg: contrast(bg), Bg: bg}
				right = Cell{Ch: ' ', Bg: bg}
			}
			if candidates[at] {
				right.Ch, right.Fg, right.Bold = '*', markerColor, true
			}
			if at == f.SheetCursor {
				left.Bg, right.Bg = left.Bg.Lighten(0.35), right.Bg.Lighten(0.35)
				left.Bold = true
				if f.Pane == editor.PaneSheet {
					right.Ch, right.Fg = '◂', focusColor
				}
			}
			c.Set(sx, sy, left)
			c.Set(sx+1, sy, right)
		}
	}
	return 1 + vp.ViewH + 1
}

func drawRule(c *Canvas, f *editor.Frame, x0, y0, w int) {
	fg, bold := paneLabel(f, editor.PaneRule)
	if !f.HasRule {
		c.Text(x0+1, y0, x0+w, fmt.Sprintf("rule %v: none", f.SheetCursor), fg, bgColor, bold)
		return
	}
	c.Text(x0+1, y0, x0+w, fmt.Sprintf("rule %v", f.SheetCursor), fg, bgColor, bold)

	rows := RuleGlyphs(f.Rule)
	for ry, row := range rows {
		for rx, ch := range row {
			cell := Cell{Ch: ch, Fg: textColor, Bg: panelColor}
			switch ch {
			case '+':
				cell.Fg = RGB(90, 220, 110)
			case '-':
				cell.Fg = RGB(230, 90, 90)
			case '#':
				cell.Fg = tileColor(f, f.SheetCursor)
			}
			sx, sy := x0+2+rx*3, y0+1+ry
			cursor := f.Pane == editor.PaneRule && rx-1 == f.RuleCursor[0] && ry-1 == f.RuleCursor[1]
			l, r := ' ', ' '
			if cursor {
				l, r = '[', ']'
			}
			c.Set(sx, sy, Cell{Ch: l, Fg: focusColor, Bg: panelColor})
			c.Set(sx+1, sy, cell)
			c.Set(sx+2, sy, Cell{Ch: r, Fg: focusColor, Bg: panelColor})
		}
	}
	c.Text(x0+1, y0+4, x0+w, fmt.Sprintf("%d candidates here", len(f.Candidates)), dimColor, bgColor, false)
}

func drawHUD(c *Canvas, f *editor.Frame) {
	y := c.Height - HUDRows
	c.Fill(0, y, c.Width, HUDRows, Cell{Ch: ' ', Bg: panelColor})
	c.Text(1, y, c.Width, f.Status, textColor, panelColor, false)

	stats := fmt.Sprintf("rules %d  coverage %d/256  tiles %d  unmatched %d",
		f.Rules, f.Coverage, f.Instances, f.Unmatched)
	statFg := textColor
	if f.Unmatched > 0 {
		statFg = RGB(240, 130, 110)
	}
	c.Text(1, y+1, c.Width, stats, statFg, panelColor, f.Unmatched > 0)
}
