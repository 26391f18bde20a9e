// Package editor implements one rule-authoring session: a preview map,
// a cursor over the sprite sheet and a 3x3 rule editor, all acting on a
// rule table shared with other sessions.
package editor

import (
	"errors"
	"fmt"
	"log/slog"

	"autotile-studio/internal/autotile"
	"autotile-studio/internal/sheet"
	"autotile-studio/internal/tilemap"
)

// ErrQuit is returned by Handle when the session asked to leave.
var ErrQuit = errors.New("quit")

// SaveFunc persists a rule table. It runs with the table read-locked.
type SaveFunc func(cfg *autotile.SpriteConfig) error

// Editor is a single session. It is not safe for concurrent use; the
// workspace drives every editor from its own goroutine.
type Editor struct {
	shared *autotile.Shared
	grid   *tilemap.Grid
	sheet  *sheet.Sheet

	save   SaveFunc
	refill func(g *tilemap.Grid)
	logger *slog.Logger

	revision uint64 // shared revision the grid was last resolved against
	synced   bool

	pane        Pane
	mapCursor   autotile.GridCoordinate
	sheetCursor autotile.GridCoordinate
	ruleX       int // -1..1
	ruleY       int // -1..1
	status      string
}

// Option configures an Editor.
type Option func(*Editor)

func WithSave(fn SaveFunc) Option {
	return func(e *Editor) { e.save = fn }
}

// WithRefill sets how ActionRefill regenerates the preview map.
func WithRefill(fn func(g *tilemap.Grid)) Option {
	return func(e *Editor) { e.refill = fn }
}

// WithSheet attaches the sprite sheet image used for colouring.
func WithSheet(s *sheet.Sheet) Option {
	return func(e *Editor) { e.sheet = s }
}

func WithLogger(l *slog.Logger) Option {
	return func(e *Editor) {
		if l != nil {
			e.logger = l
		}
	}
}

// New starts a session editing shared through the preview map grid.
func New(shared *autotile.Shared, grid *tilemap.Grid, opts ...Option) *Editor {
	e := &Editor{
		shared: shared,
		grid:   grid,
		refill: tilemap.Clear,
		logger: slog.New(slog.DiscardHandler),
		status: "ready",
	}
	for _, opt := range opts {
		opt(e)
	}
	e.mapCursor = autotile.Coord(grid.Width()/2, grid.Height()/2)
	return e
}

// Grid exposes the preview map.
func (e *Editor) Grid() *tilemap.Grid { return e.grid }

// Pane returns the focused pane.
func (e *Editor) Pane() Pane { return e.pane }

// Status returns the last status message.
func (e *Editor) Status() string { return e.status }

// MapCursor returns the map cursor position.
func (e *Editor) MapCursor() autotile.GridCoordinate { return e.mapCursor }

// SheetCursor returns the sheet cursor position.
func (e *Editor) SheetCursor() autotile.GridCoordinate { return e.sheetCursor }

// RuleDirection returns the direction under the rule cursor. ok is false
// on the centre cell.
func (e *Editor) RuleDirection() (autotile.Direction, bool) {
	return autotile.Orient(e.ruleX, e.ruleY)
}

func (e *Editor) sheetSize() (w, h int) {
	e.shared.View(func(cfg *autotile.SpriteConfig) {
		w, h = cfg.GridWidth, cfg.GridHeight
	})
	return w, h
}

// Handle applies one action. Errors are also reported in the status line;
// ErrQuit means the session should close.
func (e *Editor) Handle(a Action) error {
	err := e.handle(a)
	switch {
	case errors.Is(err, ErrQuit):
	case err != nil:
		e.status = err.Error()
		e.logger.Debug("action failed", "action", a, "err", err)
	}
	return err
}

func (e *Editor) handle(a Action) error {
	switch a {
	case ActionNone:
		return nil
	case ActionUp:
		e.move(0, -1)
	case ActionDown:
		e.move(0, 1)
	case ActionLeft:
		e.move(-1, 0)
	case ActionRight:
		e.move(1, 0)
	case ActionNextPane:
		e.pane = (e.pane + 1) % numPanes
		e.status = e.pane.String()
	case ActionToggle:
		switch e.pane {
		case PaneMap:
			e.grid.Toggle(e.mapCursor.X, e.mapCursor.Y)
		case PaneSheet:
			return e.addRule()
		case PaneRule:
			return e.cycle()
		}
	case ActionAddRule:
		return e.addRule()
	case ActionDeleteRule:
		return e.deleteRule()
	case ActionCycle:
		return e.cycle()
	case ActionCapture:
		return e.capture()
	case ActionStamp:
		return e.stamp()
	case ActionRefill:
		e.refill(e.grid)
		e.status = fmt.Sprintf("map refilled, %d cells", e.grid.Count())
	case ActionSave:
		return e.saveTable()
	case ActionQuit:
		return ErrQuit
	default:
		return fmt.Errorf("unknown action %d", a)
	}
	return nil
}

func clamp(v, lo, hi int) int {
	return max(lo, min(hi, v))
}

func (e *Editor) move(dx, dy int) {
	switch e.pane {
	case PaneMap:
		e.mapCursor = autotile.Coord(
			clamp(e.mapCursor.X+dx, 0, e.grid.Width()-1),
			clamp(e.mapCursor.Y+dy, 0, e.grid.Height()-1))
	case PaneSheet:
		w, h := e.sheetSize()
		e.sheetCursor = autotile.Coord(
			clamp(e.sheetCursor.X+dx, 0, w-1),
			clamp(e.sheetCursor.Y+dy, 0, h-1))
	case PaneRule:
		e.ruleX = clamp(e.ruleX+dx, -1, 1)
		e.ruleY = clamp(e.ruleY+dy, -1, 1)
	}
}

func (e *Editor) addRule() error {
	at := e.sheetCursor
	err := e.shared.Edit(func(cfg *autotile.SpriteConfig) error {
		if cfg.HasRule(at) {
			return fmt.Errorf("rule at %v already exists", at)
		}
		return cfg.InsertRule(at, autotile.TileRequirements{})
	})
	if err != nil {
		return err
	}
	e.status = fmt.Sprintf("added rule at %v", at)
	return nil
}

func (e *Editor) deleteRule() error {
	at := e.sheetCursor
	err := e.shared.Edit(func(cfg *autotile.SpriteConfig) error {
		if !cfg.RemoveRule(at) {
			return fmt.Errorf("%w %v", autotile.ErrNoRule, at)
		}
		return nil
	})
	if err != nil {
		return err
	}
	e.status = fmt.Sprintf("deleted rule at %v", at)
	return nil
}

func (e *Editor) cycle() error {
	d, ok := e.RuleDirection()
	if !ok {
		return errors.New("the centre cell is the tile itself")
	}
	at := e.sheetCursor
	var next autotile.Requirement
	err := e.shared.Edit(func(cfg *autotile.SpriteConfig) error {
		var err error
		next, err = cfg.CycleRequirement(at, d)
		return err
	})
	if err != nil {
		return err
	}
	e.status = fmt.Sprintf("%v %v = %v", at, d, next)
	return nil
}

func (e *Editor) capture() error {
	cell := e.grid.Tile(e.mapCursor.X, e.mapCursor.Y)
	if !cell.Filled {
		return fmt.Errorf("map cell %v is empty", e.mapCursor)
	}
	at := e.sheetCursor
	req := autotile.FromOrientation(cell.Orientation)
	if err := e.shared.Edit(func(cfg *autotile.SpriteConfig) error {
		return cfg.InsertRule(at, req)
	}); err != nil {
		return err
	}
	e.status = fmt.Sprintf("captured %v into %v", cell.Orientation, at)
	return nil
}

func (e *Editor) stamp() error {
	at := e.sheetCursor
	if err := e.shared.Edit(func(cfg *autotile.SpriteConfig) error {
		return autotile.ApplyTemplate(cfg, at, autotile.BlobTemplate())
	}); err != nil {
		return err
	}
	e.status = fmt.Sprintf("stamped blob template at %v", at)
	return nil
}

func (e *Editor) saveTable() error {
	if e.save == nil {
		return errors.New("no storage configured")
	}
	var err error
	var rules int
	e.shared.View(func(cfg *autotile.SpriteConfig) {
		rules = cfg.Len()
		err = e.save(cfg)
	})
	if err != nil {
		return fmt.Errorf("save: %w", err)
	}
	e.status = fmt.Sprintf("saved %d rules", rules)
	return nil
}

// Sync re-resolves the preview map if it changed or if the shared rule
// table moved on since the last pass. It reports whether anything was rebuilt.
func (e *Editor) Sync() bool {
	var rebuilt bool
	e.shared.ViewRevision(func(cfg *autotile.SpriteConfig, revision uint64) {
		if !e.synced || revision != e.revision {
			e.grid.Invalidate()
		}
		rebuilt = e.grid.ApplyChanges(cfg)
		e.revision = revision
		e.synced = true
	})
	return rebuilt
}
