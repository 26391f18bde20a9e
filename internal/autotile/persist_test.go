package autotile_test

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"autotile-studio/internal/autotile"
)

func sampleConfig(t *testing.T) *autotile.SpriteConfig {
	t.Helper()
	cfg := autotile.New(16, 8, autotile.WithTileSize(16, 16))
	require.NoError(t, autotile.ApplyTemplate(cfg, autotile.Coord(0, 0), autotile.BlobTemplate()))
	require.NoError(t, cfg.InsertRule(autotile.Coord(7, 3), autotile.TileRequirements{}))
	require.NoError(t, cfg.InsertRule(autotile.Coord(15, 7), autotile.Require(autotile.Flag(autotile.NE), autotile.Flag(autotile.SW))))
	return cfg
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	orig := sampleConfig(t)

	data, err := orig.Encode()
	require.NoError(t, err)

	got, err := autotile.Decode(data)
	require.NoError(t, err)

	assert.True(t, orig.Equal(got), "decoded table differs")
	assert.True(t, orig.Coordinates().Equal(got.Coordinates()), "rebuilt index differs")
	assert.Equal(t, orig.Coverage(), got.Coverage())

	again, err := got.Encode()
	require.NoError(t, err)
	assert.Equal(t, string(data), string(again), "encoding is not stable")
}

func TestEncodeFormat(t *testing.T) {
	cfg := autotile.New(4, 2)
	req := autotile.Require(autotile.Flag(autotile.N), autotile.Flag(autotile.S))
	require.NoError(t, cfg.InsertRule(autotile.Coord(3, 1), req))

	data, err := cfg.Encode()
	require.NoError(t, err)

	want := `{
  "orientations": {
    "3:1": {
      "dirs": [
        true,
        false,
        null,
        null,
        null,
        null,
        null,
        null
      ]
    }
  },
  "grid_width": 4,
  "grid_height": 2,
  "tile_width": 8,
  "tile_height": 8
}
`
	assert.Equal(t, want, string(data))
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want error
	}{
		{"not json", `{{{`, autotile.ErrCorrupt},
		{"zero sheet", `{"orientations":{},"grid_width":0,"grid_height":4}`, autotile.ErrCorrupt},
		{"bad requirement", `{"orientations":{"0:0":{"dirs":[1,null,null,null,null,null,null,null]}},"grid_width":2,"grid_height":2}`, autotile.ErrCorrupt},
		{"bad key", `{"orientations":{"0-0":{"dirs":[null,null,null,null,null,null,null,null]}},"grid_width":2,"grid_height":2}`, autotile.ErrBadCoordinate},
		{"short dirs", `{"orientations":{"0:0":{"dirs":[true]}},"grid_width":2,"grid_height":2}`, autotile.ErrCorrupt},
		{"long dirs", `{"orientations":{"0:0":{"dirs":[true,true,true,true,true,true,true,true,true,true]}},"grid_width":2,"grid_height":2}`, autotile.ErrCorrupt},
		{"missing dirs", `{"orientations":{"0:0":{}},"grid_width":2,"grid_height":2}`, autotile.ErrCorrupt},
		{"padded key", `{"orientations":{"01:0":{"dirs":[true,true,true,true,true,true,true,true]}},"grid_width":2,"grid_height":2}`, autotile.ErrBadCoordinate},
		{"huge sheet", `{"orientations":{},"grid_width":100000,"grid_height":100000}`, autotile.ErrCorrupt},
		{"key off sheet", `{"orientations":{"2:0":{"dirs":[null,null,null,null,null,null,null,null]}},"grid_width":2,"grid_height":2}`, autotile.ErrOutOfSheet},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := autotile.Decode([]byte(tt.doc))
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.want), "err = %v, want %v", err, tt.want)
		})
	}
}

func TestDecodeDefaultsTileSize(t *testing.T) {
	cfg, err := autotile.Decode([]byte(`{"orientations":{},"grid_width":3,"grid_height":5}`))
	require.NoError(t, err)
	assert.Equal(t, autotile.DefaultTileWidth, cfg.TileWidth)
	assert.Equal(t, autotile.DefaultTileHeight, cfg.TileHeight)
	assert.Equal(t, 0, cfg.Len())
}

func TestLoadOrCreateMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nope.json")

	cfg, err := autotile.LoadOrCreate(path, 16, 16)
	require.NoError(t, err)
	assert.True(t, autotile.New(16, 16).Equal(cfg))
	assert.Equal(t, 0, cfg.Coverage())
}

func TestLoadOrCreateCorruptFallsBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.json")
	require.NoError(t, os.WriteFile(path, []byte("not a rule table"), 0o644))

	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))

	cfg, err := autotile.LoadOrCreate(path, 4, 4, autotile.WithLogger(logger))
	require.NoError(t, err)
	assert.True(t, autotile.New(4, 4).Equal(cfg))
	assert.True(t, strings.Contains(logs.String(), "starting empty"), "expected a warning, got %q", logs.String())
}

func TestLoadOrCreateBadKeyIsFatal(t *testing.T) {
	path := filepath.Join(t.TempDir(), "badkey.json")
	doc := `{"orientations":{"x:1":{"dirs":[null,null,null,null,null,null,null,null]}},"grid_width":4,"grid_height":4}`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	_, err := autotile.LoadOrCreate(path, 4, 4)
	require.Error(t, err)
	assert.ErrorIs(t, err, autotile.ErrBadCoordinate)
	assert.False(t, autotile.Recoverable(err))
}

func TestSaveLoad(t *testing.T) {
	orig := sampleConfig(t)
	path := filepath.Join(t.TempDir(), "nested", "dir", "tiles.json")

	require.NoError(t, orig.Save(path))

	got, err := autotile.Load(path)
	require.NoError(t, err)
	assert.True(t, orig.Equal(got))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary files left behind")
}

func TestDecodeSheetLimit(t *testing.T) {
	doc := fmt.Sprintf(`{"orientations":{},"grid_width":%d,"grid_height":1}`, autotile.MaxSheetTiles)
	_, err := autotile.Decode([]byte(doc))
	require.NoError(t, err)

	doc = fmt.Sprintf(`{"orientations":{},"grid_width":%d,"grid_height":2}`, autotile.MaxSheetTiles)
	_, err = autotile.Decode([]byte(doc))
	assert.ErrorIs(t, err, autotile.ErrCorrupt)
}

func TestLoadOrCreateShortDirsFallsBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "short.json")
	doc := `{"orientations":{"0:0":{"dirs":[true]}},"grid_width":2,"grid_height":2}`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	cfg, err := autotile.LoadOrCreate(path, 2, 2)
	require.NoError(t, err)
	assert.Equal(t, 0, cfg.Len())
}

func TestSaveFailures(t *testing.T) {
	dir := t.TempDir()
	cfg := sampleConfig(t)

	// Parent path is a regular file.
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))
	assert.Error(t, cfg.Save(filepath.Join(blocker, "tiles.json")))

	// Target is a directory, so the final rename fails.
	target := filepath.Join(dir, "taken")
	require.NoError(t, os.Mkdir(target, 0o755))
	assert.Error(t, cfg.Save(target))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
		assert.False(t, strings.HasSuffix(e.Name(), ".tmp"), "temporary file %s left behind", e.Name())
	}
	assert.ElementsMatch(t, []string{"blocker", "taken"}, names)
}

func TestMutatorsKeepIndexInSync(t *testing.T) {
	cfg := autotile.New(2, 2)
	at := autotile.Coord(1, 1)

	require.NoError(t, cfg.InsertRule(at, autotile.FromOrientation(autotile.None)))
	assert.Equal(t, 1, cfg.Coverage())

	next, err := cfg.CycleRequirement(at, autotile.N)
	require.NoError(t, err)
	assert.Equal(t, autotile.Present, next)
	assert.Equal(t, []autotile.GridCoordinate{at}, cfg.Candidates(autotile.Flag(autotile.N)))
	assert.Empty(t, cfg.Candidates(autotile.None))

	require.NoError(t, cfg.SetRequirement(at, autotile.E, autotile.Any))
	assert.Equal(t, 2, cfg.Coverage())

	assert.True(t, cfg.RemoveRule(at))
	assert.False(t, cfg.RemoveRule(at))
	assert.Equal(t, 0, cfg.Coverage())

	assert.ErrorIs(t, cfg.InsertRule(autotile.Coord(2, 0), autotile.TileRequirements{}), autotile.ErrOutOfSheet)
	assert.ErrorIs(t, cfg.SetRequirement(at, autotile.N, autotile.Present), autotile.ErrNoRule)
}

func TestPositionUV(t *testing.T) {
	cfg := autotile.New(4, 2)

	assert.Equal(t, [2]float32{0.25, 0.5}, cfg.TileSizeUV())

	uvMin, uvMax := cfg.PositionUV(1, 1)
	assert.InDelta(t, 0.25, uvMin[0], 1e-6)
	assert.InDelta(t, 0.5, uvMin[1], 1e-6)
	assert.InDelta(t, 0.5, uvMax[0], 1e-6)
	assert.InDelta(t, 1.0, uvMax[1], 1e-6)
}
