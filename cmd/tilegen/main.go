// Command tilegen writes a starter rule table laid out as a blob tileset
// and can preview a noise map resolved against it.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"autotile-studio/internal/autotile"
	"autotile-studio/internal/render"
	"autotile-studio/internal/tilemap"
)

func main() {
	out := flag.String("out", "", "output rule table file (default: stdout)")
	width := flag.Int("width", 16, "sheet width in tiles")
	height := flag.Int("height", 16, "sheet height in tiles")
	origin := flag.String("origin", "0:0", "sheet tile of the template's top-left part, as x:y")
	preview := flag.Bool("preview", false, "print a noise map resolved against the table")
	seed := flag.Int64("seed", 0, "preview noise seed (0 = random)")
	size := flag.String("size", "48x16", "preview size as WxH")
	threshold := flag.Float64("threshold", 0.45, "preview fill threshold in [0, 1]")
	flag.Parse()

	at, err := autotile.ParseGridCoordinate(*origin)
	if err != nil {
		fail(err)
	}
	cfg, err := generate(*width, *height, at)
	if err != nil {
		fail(err)
	}

	fmt.Fprintf(os.Stderr, "Blob template at %v on a %dx%d sheet: %d rules, coverage %d/256\n",
		at, *width, *height, cfg.Len(), cfg.Coverage())

	if *out == "" {
		data, err := cfg.Encode()
		if err != nil {
			fail(err)
		}
		os.Stdout.Write(data)
	} else {
		if err := cfg.Save(*out); err != nil {
			fail(err)
		}
		fmt.Fprintf(os.Stderr, "Written to %s\n", *out)
	}

	if *preview {
		w, h, err := parseSize(*size)
		if err != nil {
			fail(err)
		}
		if *seed == 0 {
			*seed = time.Now().UnixNano()
		}
		fmt.Fprintf(os.Stderr, "\nPreview %dx%d (seed %d):\n", w, h, *seed)
		renderPreview(os.Stderr, cfg, w, h, *seed, *threshold)
	}
}

func fail(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

// generate builds a w x h rule table with the blob template stamped at origin.
func generate(w, h int, origin autotile.GridCoordinate) (*autotile.SpriteConfig, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("sheet size must be positive, got %dx%d", w, h)
	}
	cfg := autotile.New(w, h)
	if err := autotile.ApplyTemplate(cfg, origin, autotile.BlobTemplate()); err != nil {
		return nil, err
	}
	return cfg, nil
}

// renderPreview fills a w x h map with noise, resolves it and prints one
// glyph per cell: '.' empty, '?' unmatched, otherwise the cell's shape.
// It returns the unmatched count.
func renderPreview(out io.Writer, cfg *autotile.SpriteConfig, w, h int, seed int64, threshold float64) int {
	g := tilemap.New(w, h)
	tilemap.FillNoise(g, seed, threshold)
	g.ApplyChanges(cfg)

	unmatched := make(map[autotile.GridCoordinate]bool)
	for _, c := range g.Unmatched() {
		unmatched[c] = true
	}

	var sb strings.Builder
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			cell := g.Tile(x, y)
			switch {
			case !cell.Filled:
				sb.WriteRune('.')
			case unmatched[autotile.Coord(x, y)]:
				sb.WriteRune('?')
			default:
				sb.WriteRune(render.Glyph(cell.Orientation))
			}
		}
		sb.WriteByte('\n')
	}
	fmt.Fprint(out, sb.String())
	fmt.Fprintf(out, "%d tiles placed, %d unmatched\n", g.InstanceCount(), len(unmatched))
	return len(unmatched)
}

func parseSize(s string) (int, int, error) {
	w, h, ok := strings.Cut(s, "x")
	if !ok {
		return 0, 0, fmt.Errorf("invalid size %q (expected WxH)", s)
	}
	width, err := strconv.Atoi(w)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid width: %w", err)
	}
	height, err := strconv.Atoi(h)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid height: %w", err)
	}
	if width <= 0 || height <= 0 {
		return 0, 0, fmt.Errorf("size must be positive, got %dx%d", width, height)
	}
	return width, height, nil
}
