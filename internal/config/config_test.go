package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestDefaults(t *testing.T) {
	cfg := Default()
	if cfg.Server.TickRate != 20 {
		t.Errorf("TickRate = %d, want 20", cfg.Server.TickRate)
	}
	if got := cfg.Server.TickInterval(); got != 50*time.Millisecond {
		t.Errorf("TickInterval = %v, want 50ms", got)
	}
	if cfg.Tileset.Storage != "file" || cfg.Tileset.Location != "tilesets" {
		t.Errorf("storage = %q at %q", cfg.Tileset.Storage, cfg.Tileset.Location)
	}
}

func TestLoad(t *testing.T) {
	doc := `
server:
  addr: ":2300"
  tick_rate: 30
tileset:
  id: cave
  storage: sqlite
  grid_width: 12
map:
  fill: random
  density: 0.4
  seed: 9
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	want := &Config{
		Server: ServerConfig{Addr: ":2300", HostKey: "host_key", TickRate: 30},
		Tileset: TilesetConfig{
			ID: "cave", Storage: "sqlite", Location: "tilesets.db",
			GridWidth: 12, GridHeight: 16, TileWidth: 8, TileHeight: 8,
		},
		Map: MapConfig{Width: 32, Height: 18, Fill: "random", Density: 0.4, Seed: 9, Threshold: 0.5},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Load mismatch (-want +got):\n%s", diff)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"bad yaml", "server: [1, 2"},
		{"storage", "tileset:\n  storage: redis\n"},
		{"fill", "map:\n  fill: checkerboard\n"},
		{"negative size", "map:\n  width: -3\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.doc)); err == nil {
				t.Errorf("Parse(%q) succeeded, want error", tt.doc)
			}
		})
	}
}

func TestLoadMissing(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
