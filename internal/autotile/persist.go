package autotile

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrCorrupt marks a rule table document that could not be decoded.
// LoadOrCreate recovers from it; coordinate key errors are not recovered.
var ErrCorrupt = errors.New("corrupt rule table")

// MaxSheetTiles bounds GridWidth*GridHeight for decoded tables.
const MaxSheetTiles = 1 << 16

// jsonConfig is the on-disk format.
type jsonConfig struct {
	Orientations map[string]TileRequirements `json:"orientations"`
	GridWidth    int                         `json:"grid_width"`
	GridHeight   int                         `json:"grid_height"`
	TileWidth    int                         `json:"tile_width"`
	TileHeight   int                         `json:"tile_height"`
}

// Encode serializes the rule table. The derived index is not included.
// Keys are sorted, so equal tables encode to identical bytes.
func (c *SpriteConfig) Encode() ([]byte, error) {
	jc := jsonConfig{
		Orientations: make(map[string]TileRequirements, len(c.rules)),
		GridWidth:    c.GridWidth,
		GridHeight:   c.GridHeight,
		TileWidth:    c.TileWidth,
		TileHeight:   c.TileHeight,
	}
	for coord, req := range c.rules {
		jc.Orientations[coord.String()] = req
	}
	data, err := json.MarshalIndent(jc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal rule table: %w", err)
	}
	return append(data, '\n'), nil
}

// Decode parses a rule table document and syncs its index.
func Decode(data []byte, opts ...Option) (*SpriteConfig, error) {
	var jc jsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	if jc.GridWidth <= 0 || jc.GridHeight <= 0 {
		return nil, fmt.Errorf("%w: sheet size %dx%d", ErrCorrupt, jc.GridWidth, jc.GridHeight)
	}
	if jc.GridWidth > MaxSheetTiles || jc.GridHeight > MaxSheetTiles/jc.GridWidth {
		return nil, fmt.Errorf("%w: sheet size %dx%d exceeds %d tiles", ErrCorrupt, jc.GridWidth, jc.GridHeight, MaxSheetTiles)
	}

	c := New(jc.GridWidth, jc.GridHeight, opts...)
	if jc.TileWidth > 0 {
		c.TileWidth = jc.TileWidth
	}
	if jc.TileHeight > 0 {
		c.TileHeight = jc.TileHeight
	}

	for key, req := range jc.Orientations {
		coord, err := ParseGridCoordinate(key)
		if err != nil {
			return nil, err
		}
		if !coord.In(c.GridWidth, c.GridHeight) {
			return nil, fmt.Errorf("%w: key %q on %dx%d sheet", ErrOutOfSheet, key, c.GridWidth, c.GridHeight)
		}
		c.rules[coord] = req
	}
	c.SyncCoordinates()
	return c, nil
}

// Load reads the rule table stored at path. Every failure is returned.
func Load(path string, opts ...Option) (*SpriteConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rule table: %w", err)
	}
	c, err := Decode(data, opts...)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return c, nil
}

// Recoverable reports whether a Load error should fall back to a fresh
// table: unreadable files and undecodable documents are, malformed
// coordinate keys are not.
func Recoverable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrBadCoordinate) || errors.Is(err, ErrOutOfSheet) {
		return false
	}
	return true
}

// LoadOrCreate loads the rule table at path, or returns New(gridWidth,
// gridHeight) when the file is missing, unreadable or corrupt. A malformed
// coordinate key inside an otherwise valid document is returned as an error.
func LoadOrCreate(path string, gridWidth, gridHeight int, opts ...Option) (*SpriteConfig, error) {
	c, err := Load(path, opts...)
	if err == nil {
		return c, nil
	}
	if !Recoverable(err) {
		return nil, err
	}
	fresh := New(gridWidth, gridHeight, opts...)
	if !errors.Is(err, os.ErrNotExist) {
		fresh.logger.Warn("rule table unusable, starting empty", "path", path, "err", err)
	}
	fresh.SyncCoordinates()
	return fresh, nil
}

// Save writes the rule table to path, replacing any existing file atomically.
func (c *SpriteConfig) Save(path string) error {
	data, err := c.Encode()
	if err != nil {
		return err
	}
	return writeFileAtomic(path, data)
}

func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}
	f, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("save rule table: %w", err)
	}
	tmp := f.Name()
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("save rule table: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("save rule table: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("save rule table: %w", err)
	}
	return nil
}
