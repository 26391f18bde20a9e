// Package sheet loads sprite sheet images and summarizes each tile.
package sheet

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"

	"autotile-studio/internal/autotile"
)

// Sheet is a decoded sprite sheet cut into equal tiles.
type Sheet struct {
	Path          string
	Columns, Rows int
	TileW, TileH  int // pixels

	swatches []color.RGBA // [row*Columns+col]
	empty    []bool
}

// Load decodes the PNG at path and cuts it into tileW x tileH tiles.
// The image size must be a whole number of tiles.
func Load(path string, tileW, tileH int) (*Sheet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	img, err := png.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	s, err := FromImage(img, tileW, tileH)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	s.Path = path
	return s, nil
}

// FromImage cuts an already decoded image into tiles.
func FromImage(img image.Image, tileW, tileH int) (*Sheet, error) {
	if tileW <= 0 || tileH <= 0 {
		return nil, fmt.Errorf("invalid tile size %dx%d", tileW, tileH)
	}
	b := img.Bounds()
	if b.Dx()%tileW != 0 || b.Dy()%tileH != 0 || b.Dx() == 0 || b.Dy() == 0 {
		return nil, fmt.Errorf("image %dx%d is not a whole number of %dx%d tiles", b.Dx(), b.Dy(), tileW, tileH)
	}

	s := &Sheet{
		Columns: b.Dx() / tileW,
		Rows:    b.Dy() / tileH,
		TileW:   tileW,
		TileH:   tileH,
	}
	s.swatches = make([]color.RGBA, s.Columns*s.Rows)
	s.empty = make([]bool, s.Columns*s.Rows)

	for row := 0; row < s.Rows; row++ {
		for col := 0; col < s.Columns; col++ {
			origin := image.Pt(b.Min.X+col*tileW, b.Min.Y+row*tileH)
			c, ok := average(img, image.Rectangle{Min: origin, Max: origin.Add(image.Pt(tileW, tileH))})
			s.swatches[row*s.Columns+col] = c
			s.empty[row*s.Columns+col] = !ok
		}
	}
	return s, nil
}

// transparent treats low alpha and magenta (#FF00FF) as see-through.
func transparent(r8, g8, b8 uint8, a uint32) bool {
	return a < 0x8000 || (r8 == 0xFF && g8 == 0x00 && b8 == 0xFF)
}

// average returns the mean opaque colour of rect, or false if every pixel
// is transparent.
func average(img image.Image, rect image.Rectangle) (color.RGBA, bool) {
	var sr, sg, sb, n int
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			r, g, b, a := img.At(x, y).RGBA()
			r8, g8, b8 := uint8(r>>8), uint8(g>>8), uint8(b>>8)
			if transparent(r8, g8, b8, a) {
				continue
			}
			sr += int(r8)
			sg += int(g8)
			sb += int(b8)
			n++
		}
	}
	if n == 0 {
		return color.RGBA{}, false
	}
	return color.RGBA{R: uint8(sr / n), G: uint8(sg / n), B: uint8(sb / n), A: 0xFF}, true
}

// Swatch returns the average colour of sheet tile c. ok is false for
// fully transparent tiles and coordinates off the sheet.
func (s *Sheet) Swatch(c autotile.GridCoordinate) (color.RGBA, bool) {
	if !c.In(s.Columns, s.Rows) {
		return color.RGBA{}, false
	}
	i := c.Index(s.Columns)
	return s.swatches[i], !s.empty[i]
}
