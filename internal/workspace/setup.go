package workspace

import (
	"fmt"
	"log/slog"

	"autotile-studio/internal/autotile"
	"autotile-studio/internal/config"
	"autotile-studio/internal/sheet"
	"autotile-studio/internal/store"
	"autotile-studio/internal/tilemap"
)

// FromConfig opens the configured store, loads (or creates) the tileset
// and returns a workspace editing it. When a sheet image is configured the
// rule table grid takes its size from the image. The caller owns the
// returned store and must Close it.
func FromConfig(cfg *config.Config, logger *slog.Logger) (*Workspace, store.Store, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	ts := cfg.Tileset

	gridW, gridH := ts.GridWidth, ts.GridHeight
	var sh *sheet.Sheet
	if ts.Sheet != "" {
		var err error
		sh, err = sheet.Load(ts.Sheet, ts.TileWidth, ts.TileHeight)
		if err != nil {
			return nil, nil, err
		}
		gridW, gridH = sh.Columns, sh.Rows
		logger.Info("sheet loaded", "path", ts.Sheet, "columns", sh.Columns, "rows", sh.Rows)
	}

	st, err := store.Open(ts.Storage, ts.Location, store.Params{Logger: logger})
	if err != nil {
		return nil, nil, err
	}

	table, err := st.LoadOrCreate(ts.ID, gridW, gridH,
		autotile.WithTileSize(ts.TileWidth, ts.TileHeight),
		autotile.WithLogger(logger))
	if err != nil {
		st.Close()
		return nil, nil, fmt.Errorf("load tileset %q: %w", ts.ID, err)
	}
	logger.Info("tileset ready", "id", ts.ID, "rules", table.Len(), "coverage", table.Coverage())

	fill, err := tilemap.Filler(cfg.Map.Fill, cfg.Map.Density, cfg.Map.Seed, cfg.Map.Threshold)
	if err != nil {
		st.Close()
		return nil, nil, err
	}

	ws := New(Params{
		Shared:       autotile.Share(table),
		Store:        st,
		TilesetID:    ts.ID,
		MapWidth:     cfg.Map.Width,
		MapHeight:    cfg.Map.Height,
		Fill:         fill,
		Sheet:        sh,
		TickInterval: cfg.Server.TickInterval(),
		Logger:       logger,
	})
	return ws, st, nil
}
