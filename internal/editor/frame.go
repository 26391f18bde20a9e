package editor

import (
	"autotile-studio/internal/autotile"
	"autotile-studio/internal/sheet"
)

// Cell is one map cell as the renderer sees it.
type Cell struct {
	Filled      bool
	Orientation autotile.Orientation
	Matched     bool                    // a rule resolved this cell
	Sheet       autotile.GridCoordinate // valid when Matched
}

// Frame is an immutable snapshot of a session for rendering.
type Frame struct {
	Pane Pane

	MapWidth, MapHeight int
	Cells               []Cell // row-major
	MapCursor           autotile.GridCoordinate

	SheetWidth, SheetHeight int
	RuleAt                  []bool // row-major, true where a rule is authored
	SheetCursor             autotile.GridCoordinate
	Sheet                   *sheet.Sheet // nil without an image

	Rule       autotile.TileRequirements // rule under the sheet cursor
	HasRule    bool
	RuleCursor [2]int // dx, dy in -1..1

	Candidates []autotile.GridCoordinate // for the map cursor cell
	Instances  int
	Unmatched  int
	Coverage   int
	Rules      int
	Status     string
}

// CellAt returns the map cell at (x, y).
func (f *Frame) CellAt(x, y int) Cell {
	return f.Cells[y*f.MapWidth+x]
}

// HasRuleAt reports whether sheet tile c has a rule.
func (f *Frame) HasRuleAt(c autotile.GridCoordinate) bool {
	return c.In(f.SheetWidth, f.SheetHeight) && f.RuleAt[c.Index(f.SheetWidth)]
}

// Frame snapshots the session. Call Sync first for an up-to-date map.
func (e *Editor) Frame() Frame {
	g := e.grid
	f := Frame{
		Pane:        e.pane,
		MapWidth:    g.Width(),
		MapHeight:   g.Height(),
		Cells:       make([]Cell, g.Width()*g.Height()),
		MapCursor:   e.mapCursor,
		SheetCursor: e.sheetCursor,
		Sheet:       e.sheet,
		RuleCursor:  [2]int{e.ruleX, e.ruleY},
		Instances:   g.InstanceCount(),
		Unmatched:   len(g.Unmatched()),
		Status:      e.status,
	}

	for i, c := range g.Cells() {
		f.Cells[i] = Cell{Filled: c.Filled, Orientation: c.Orientation}
	}
	for _, inst := range g.Instances() {
		c := &f.Cells[inst.GridPos.Index(f.MapWidth)]
		c.Matched = true
		c.Sheet = inst.SheetPos
	}

	cursorCell := g.Tile(e.mapCursor.X, e.mapCursor.Y)
	e.shared.View(func(cfg *autotile.SpriteConfig) {
		f.SheetWidth, f.SheetHeight = cfg.GridWidth, cfg.GridHeight
		f.RuleAt = make([]bool, cfg.GridWidth*cfg.GridHeight)
		for _, r := range cfg.Rules() {
			f.RuleAt[r.Coord.Index(cfg.GridWidth)] = true
		}
		f.Rule, f.HasRule = cfg.Rule(e.sheetCursor)
		if cursorCell.Filled {
			f.Candidates = cfg.Candidates(cursorCell.Orientation)
		}
		f.Coverage = cfg.Coverage()
		f.Rules = cfg.Len()
	})
	return f
}
