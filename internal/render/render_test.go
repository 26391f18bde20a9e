package render

import (
	"strings"
	"testing"

	"autotile-studio/internal/autotile"
	"autotile-studio/internal/editor"
	"autotile-studio/internal/tilemap"
)

func TestGlyph(t *testing.T) {
	n, s, e, w := autotile.Flag(autotile.N), autotile.Flag(autotile.S), autotile.Flag(autotile.E), autotile.Flag(autotile.W)
	tests := []struct {
		o    autotile.Orientation
		want rune
	}{
		{autotile.None, '▪'},
		{autotile.All, '┼'},
		{n | s, '│'},
		{e | w, '─'},
		{s | e, '┌'},
		{n | w | autotile.Flag(autotile.NW), '┘'},
		{n | s | e, '├'},
	}
	for _, tt := range tests {
		if got := Glyph(tt.o); got != tt.want {
			t.Errorf("Glyph(%v) = %q, want %q", tt.o, got, tt.want)
		}
	}
}

func TestRuleGlyphs(t *testing.T) {
	req := autotile.Require(autotile.Flag(autotile.N)|autotile.Flag(autotile.SE), autotile.Flag(autotile.W))
	got := RuleGlyphs(req)
	want := [3]string{"?+?", "-#?", "??+"}
	if got != want {
		t.Errorf("RuleGlyphs = %q, want %q", got, want)
	}
}

func TestViewport(t *testing.T) {
	tests := []struct {
		name                   string
		fx, fy, vw, vh, gw, gh int
		want                   Viewport
	}{
		{"centred", 10, 10, 4, 4, 20, 20, Viewport{8, 8, 4, 4}},
		{"clamped low", 0, 1, 4, 4, 20, 20, Viewport{0, 0, 4, 4}},
		{"clamped high", 19, 19, 4, 4, 20, 20, Viewport{16, 16, 4, 4}},
		{"grid smaller than view", 1, 1, 10, 10, 3, 2, Viewport{0, 0, 3, 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewViewport(tt.fx, tt.fy, tt.vw, tt.vh, tt.gw, tt.gh)
			if got != tt.want {
				t.Errorf("NewViewport = %+v, want %+v", got, tt.want)
			}
		})
	}

	vp := Viewport{CamX: 2, CamY: 3, ViewW: 4, ViewH: 4}
	if vx, vy, ok := vp.ToView(3, 3); !ok || vx != 1 || vy != 0 {
		t.Errorf("ToView(3, 3) = %d, %d, %v", vx, vy, ok)
	}
	if _, _, ok := vp.ToView(6, 3); ok {
		t.Errorf("ToView(6, 3) should be outside")
	}
}

func TestEngineDiff(t *testing.T) {
	c := NewCanvas(4, 2)
	c.Fill(0, 0, 4, 2, Cell{Ch: '.'})

	e := NewEngine(4, 2)
	first := e.Draw(c)
	if strings.Count(first, ".") != 8 {
		t.Fatalf("first frame should paint all 8 cells, got %q", first)
	}

	if out := e.Draw(c); out != "" {
		t.Errorf("unchanged frame produced output %q", out)
	}

	c.Set(2, 1, Cell{Ch: 'x'})
	c.Set(3, 1, Cell{Ch: 'y'})
	out := e.Draw(c)
	if !strings.HasPrefix(out, MoveTo(2, 3)) {
		t.Errorf("diff should start at row 2 col 3, got %q", out)
	}
	if strings.Count(out, CSI) != 1+2+1 {
		t.Errorf("adjacent cells should share one cursor move, got %q", out)
	}

	e.Invalidate()
	if out := e.Draw(c); strings.Count(out, "\x1b[0;") != 8 {
		t.Errorf("invalidated frame should repaint everything")
	}

	bigger := NewCanvas(5, 2)
	if out := e.Draw(bigger); strings.Count(out, "\x1b[0;") != 10 {
		t.Errorf("resize should repaint everything")
	}
}

func TestCanvasText(t *testing.T) {
	c := NewCanvas(6, 1)
	end := c.Text(1, 0, 4, "hello", Color{}, Color{}, false)
	if end != 4 {
		t.Errorf("Text returned %d, want 4", end)
	}
	if got := c.Row(0); got != " hel  " {
		t.Errorf("Row(0) = %q", got)
	}
	c.Set(-1, 0, Cell{Ch: 'z'})
	c.Set(9, 9, Cell{Ch: 'z'})
	if c.At(9, 9) != (Cell{}) {
		t.Errorf("off-canvas At should be zero")
	}
}

func TestHashColorStable(t *testing.T) {
	if HashColor("3:4") != HashColor("3:4") {
		t.Fatal("HashColor is not deterministic")
	}
}

func TestCompose(t *testing.T) {
	shared := autotile.Share(autotile.New(4, 4))
	ed := editor.New(shared, tilemap.NewFilled(6, 4))
	if err := ed.Handle(editor.ActionNextPane); err != nil {
		t.Fatal(err)
	}
	if err := ed.Handle(editor.ActionAddRule); err != nil {
		t.Fatal(err)
	}
	ed.Sync()

	c := Compose(ed.Frame(), 60, 16)
	if c.Width != 60 || c.Height != 16 {
		t.Fatalf("canvas is %dx%d", c.Width, c.Height)
	}

	var all strings.Builder
	for y := 0; y < c.Height; y++ {
		all.WriteString(c.Row(y))
		all.WriteByte('\n')
	}
	text := all.String()
	for _, want := range []string{"autotile-studio", "map 6x4", "sheet 4x4", "rule 0:0", "rules 1", "coverage 256/256", "unmatched 0"} {
		if !strings.Contains(text, want) {
			t.Errorf("composed frame missing %q:\n%s", want, text)
		}
	}
	if !strings.Contains(text, "┼") {
		t.Errorf("interior cell of a full map should draw as a cross:\n%s", text)
	}

	small := Compose(ed.Frame(), 10, 3)
	if !strings.HasPrefix(small.Row(0), "terminal") {
		t.Errorf("tiny terminal should show a notice, got %q", small.Row(0))
	}
}
