package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"autotile-studio/internal/autotile"
)

func TestParseSize(t *testing.T) {
	tests := []struct {
		in      string
		w, h    int
		wantErr bool
	}{
		{"48x16", 48, 16, false},
		{"1x1", 1, 1, false},
		{"48", 0, 0, true},
		{"ax3", 0, 0, true},
		{"3xb", 0, 0, true},
		{"0x5", 0, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			w, h, err := parseSize(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.w, w)
			assert.Equal(t, tt.h, h)
		})
	}
}

func TestGenerate(t *testing.T) {
	cfg, err := generate(8, 4, autotile.Coord(2, 1))
	require.NoError(t, err)
	assert.Equal(t, 13, cfg.Len())
	assert.True(t, cfg.HasRule(autotile.Coord(3, 2)), "center part should sit at origin+1:1")

	_, err = generate(8, 4, autotile.Coord(4, 2))
	assert.ErrorIs(t, err, autotile.ErrOutOfSheet)

	_, err = generate(0, 4, autotile.Coord(0, 0))
	assert.Error(t, err)
}

func TestRenderPreview(t *testing.T) {
	cfg, err := generate(5, 3, autotile.Coord(0, 0))
	require.NoError(t, err)

	var out strings.Builder
	unmatched := renderPreview(&out, cfg, 12, 6, 42, 0.45)

	lines := strings.Split(strings.TrimSuffix(out.String(), "\n"), "\n")
	require.Len(t, lines, 7)
	for _, line := range lines[:6] {
		assert.Equal(t, 12, len([]rune(line)))
	}
	assert.Equal(t, unmatched, strings.Count(out.String(), "?"))
	assert.Contains(t, lines[6], "unmatched")

	// A fully empty preview places nothing.
	out.Reset()
	assert.Zero(t, renderPreview(&out, cfg, 4, 2, 1, 2))
	assert.True(t, strings.HasPrefix(out.String(), "....\n....\n0 tiles placed"))
}
