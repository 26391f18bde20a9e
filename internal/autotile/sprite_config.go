package autotile

import (
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"math/rand"
	"slices"
	"sync"
	"time"
)

// ErrOutOfSheet is returned when a rule is placed outside the sprite sheet.
var ErrOutOfSheet = errors.New("coordinate outside sprite sheet")

// ErrNoRule is returned when editing a sheet coordinate that has no rule.
var ErrNoRule = errors.New("no rule at coordinate")

const (
	DefaultTileWidth  = 8
	DefaultTileHeight = 8
)

// SpriteConfig owns a sprite sheet's geometry, the rule table authored
// against it, and the index derived from that table.
//
// A SpriteConfig is not safe for concurrent mutation; share it through Shared.
type SpriteConfig struct {
	// Sheet size in tiles.
	GridWidth  int
	GridHeight int

	// Tile size in sheet pixels.
	TileWidth  int
	TileHeight int

	rules  map[GridCoordinate]TileRequirements
	coords *CoordinateSet

	rngMu  sync.Mutex
	rnd    Rand
	logger *slog.Logger
}

// Option configures a SpriteConfig.
type Option func(*SpriteConfig)

// WithRand sets the source used to pick between equally valid tiles.
func WithRand(r Rand) Option {
	return func(c *SpriteConfig) {
		c.rnd = r
	}
}

// WithLogger sets the logger used for load fallbacks and expansion warnings.
func WithLogger(l *slog.Logger) Option {
	return func(c *SpriteConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithTileSize overrides the default 8x8 tile size.
func WithTileSize(w, h int) Option {
	return func(c *SpriteConfig) {
		c.TileWidth = w
		c.TileHeight = h
	}
}

// New returns an empty rule table for a gridWidth x gridHeight sheet.
func New(gridWidth, gridHeight int, opts ...Option) *SpriteConfig {
	c := &SpriteConfig{
		GridWidth:  gridWidth,
		GridHeight: gridHeight,
		TileWidth:  DefaultTileWidth,
		TileHeight: DefaultTileHeight,
		rules:      make(map[GridCoordinate]TileRequirements),
		coords:     NewCoordinateSet(),
		logger:     slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.rnd == nil {
		c.rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return c
}

// SyncCoordinates rebuilds the orientation index from the rule table.
// Every mutator calls it, so the index is never stale after a method returns.
func (c *SpriteConfig) SyncCoordinates() {
	n := c.coords.Sync(c.rules)
	if n > LargeExpansionThreshold {
		c.logger.Warn("rule table expands to an unusually large index",
			"rules", len(c.rules), "registrations", n)
	}
}

// TileSizeUV returns the size of one tile as a fraction of the sheet.
func (c *SpriteConfig) TileSizeUV() [2]float32 {
	return [2]float32{1 / float32(c.GridWidth), 1 / float32(c.GridHeight)}
}

// PositionUV returns the normalized rectangle of sheet tile (x, y).
func (c *SpriteConfig) PositionUV(x, y int) (uvMin, uvMax [2]float32) {
	size := c.TileSizeUV()
	uvMin = [2]float32{size[0] * float32(x), size[1] * float32(y)}
	uvMax = [2]float32{size[0] * float32(x+1), size[1] * float32(y+1)}
	return uvMin, uvMax
}

// FindTileIndex resolves a concrete orientation to a sheet coordinate.
// It returns false when no rule matches.
func (c *SpriteConfig) FindTileIndex(o Orientation) (GridCoordinate, bool) {
	c.rngMu.Lock()
	defer c.rngMu.Unlock()
	return c.coords.Find(o, c.rnd)
}

// Candidates lists every sheet coordinate valid for o.
func (c *SpriteConfig) Candidates(o Orientation) []GridCoordinate {
	return c.coords.Candidates(o)
}

// Coordinates exposes the derived index.
func (c *SpriteConfig) Coordinates() *CoordinateSet {
	return c.coords
}

// Coverage returns how many of the 256 orientations resolve to a tile.
func (c *SpriteConfig) Coverage() int {
	return c.coords.Coverage()
}

// Uncovered lists the orientations that resolve to nothing.
func (c *SpriteConfig) Uncovered() []Orientation {
	return c.coords.Uncovered()
}

// Len returns the number of authored rules.
func (c *SpriteConfig) Len() int {
	return len(c.rules)
}

// Rule returns the requirements authored at sheet coordinate coord.
func (c *SpriteConfig) Rule(coord GridCoordinate) (TileRequirements, bool) {
	req, ok := c.rules[coord]
	return req, ok
}

// HasRule reports whether coord has an authored rule.
func (c *SpriteConfig) HasRule(coord GridCoordinate) bool {
	_, ok := c.rules[coord]
	return ok
}

// Rules returns the rule table in row-major sheet order.
func (c *SpriteConfig) Rules() []Rule {
	out := make([]Rule, 0, len(c.rules))
	for _, coord := range slices.SortedFunc(maps.Keys(c.rules), GridCoordinate.Compare) {
		out = append(out, Rule{Coord: coord, Requirements: c.rules[coord]})
	}
	return out
}

// InsertRule registers (or replaces) the rule at sheet coordinate coord.
func (c *SpriteConfig) InsertRule(coord GridCoordinate, req TileRequirements) error {
	if !coord.In(c.GridWidth, c.GridHeight) {
		return fmt.Errorf("%w: %v on %dx%d sheet", ErrOutOfSheet, coord, c.GridWidth, c.GridHeight)
	}
	c.rules[coord] = req
	c.SyncCoordinates()
	return nil
}

// RemoveRule deletes the rule at coord, reporting whether one existed.
func (c *SpriteConfig) RemoveRule(coord GridCoordinate) bool {
	if _, ok := c.rules[coord]; !ok {
		return false
	}
	delete(c.rules, coord)
	c.SyncCoordinates()
	return true
}

// SetRequirement changes one direction of an existing rule.
func (c *SpriteConfig) SetRequirement(coord GridCoordinate, d Direction, r Requirement) error {
	req, ok := c.rules[coord]
	if !ok {
		return fmt.Errorf("%w %v", ErrNoRule, coord)
	}
	if err := req.Set(d, r); err != nil {
		return err
	}
	c.rules[coord] = req
	c.SyncCoordinates()
	return nil
}

// CycleRequirement advances one direction of an existing rule through
// Any -> Present -> Absent and returns the new value.
func (c *SpriteConfig) CycleRequirement(coord GridCoordinate, d Direction) (Requirement, error) {
	req, ok := c.rules[coord]
	if !ok {
		return Any, fmt.Errorf("%w %v", ErrNoRule, coord)
	}
	cur, err := req.Get(d)
	if err != nil {
		return Any, err
	}
	next := cur.Cycle()
	if err := c.SetRequirement(coord, d, next); err != nil {
		return Any, err
	}
	return next, nil
}

// Equal compares geometry and rule tables. The derived index and the
// random source are not part of a config's identity.
func (c *SpriteConfig) Equal(other *SpriteConfig) bool {
	if c == nil || other == nil {
		return c == other
	}
	return c.GridWidth == other.GridWidth &&
		c.GridHeight == other.GridHeight &&
		c.TileWidth == other.TileWidth &&
		c.TileHeight == other.TileHeight &&
		maps.Equal(c.rules, other.rules)
}
