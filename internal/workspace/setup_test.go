package workspace

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"autotile-studio/internal/autotile"
	"autotile-studio/internal/config"
	"autotile-studio/internal/editor"
)

func TestFromConfigFileStore(t *testing.T) {
	cfg := config.Default()
	cfg.Tileset.Location = t.TempDir()
	cfg.Map.Width, cfg.Map.Height = 5, 3
	cfg.Map.Fill = "full"

	ws, st, err := FromConfig(cfg, nil)
	require.NoError(t, err)
	defer st.Close()

	id, frames := ws.AddSession("alice")
	ws.Step()
	f := <-frames
	assert.Equal(t, 5, f.MapWidth)
	assert.Equal(t, 16, f.SheetWidth)
	assert.True(t, f.CellAt(2, 1).Filled)

	send(ws, id, editor.ActionNextPane, editor.ActionAddRule)
	ws.Step()
	require.NoError(t, ws.Save())

	assert.Equal(t, cfg.Server.TickInterval(), ws.params.TickInterval)

	ids, err := st.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"default"}, ids)
}

func TestFromConfigSheetSizesGrid(t *testing.T) {
	dir := t.TempDir()
	img := image.NewRGBA(image.Rect(0, 0, 24, 16))
	for y := 0; y < 16; y++ {
		for x := 0; x < 24; x++ {
			img.Set(x, y, color.RGBA{R: 200, A: 255})
		}
	}
	path := filepath.Join(dir, "sheet.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())

	cfg := config.Default()
	cfg.Tileset.Location = dir
	cfg.Tileset.Sheet = path

	ws, st, err := FromConfig(cfg, nil)
	require.NoError(t, err)
	defer st.Close()

	var w, h int
	ws.params.Shared.View(func(c *autotile.SpriteConfig) {
		w, h = c.GridWidth, c.GridHeight
	})
	assert.Equal(t, 3, w)
	assert.Equal(t, 2, h)
}

func TestFromConfigTickRate(t *testing.T) {
	cfg := config.Default()
	cfg.Tileset.Location = t.TempDir()
	cfg.Server.TickRate = 50

	ws, st, err := FromConfig(cfg, nil)
	require.NoError(t, err)
	defer st.Close()
	assert.Equal(t, 20*time.Millisecond, ws.params.TickInterval)
}

func TestFromConfigErrors(t *testing.T) {
	cfg := config.Default()
	cfg.Tileset.Location = t.TempDir()
	cfg.Tileset.Sheet = filepath.Join(cfg.Tileset.Location, "missing.png")
	_, _, err := FromConfig(cfg, nil)
	assert.Error(t, err)

	cfg = config.Default()
	cfg.Tileset.Location = t.TempDir()
	cfg.Tileset.ID = "../escape"
	_, _, err = FromConfig(cfg, nil)
	assert.Error(t, err)
}
