package render

import "autotile-studio/internal/autotile"

// boxGlyphs is indexed by N | S<<1 | E<<2 | W<<3.
var boxGlyphs = [16]rune{
	'▪', '╵', '╷', '│',
	'╶', '└', '┌', '├',
	'╴', '┘', '┐', '┤',
	'─', '┴', '┬', '┼',
}

// Glyph draws the cardinal connections of o as a box-drawing rune.
func Glyph(o autotile.Orientation) rune {
	i := 0
	for bit, d := range []autotile.Direction{autotile.N, autotile.S, autotile.E, autotile.W} {
		if o.Contains(d) {
			i |= 1 << bit
		}
	}
	return boxGlyphs[i]
}

// ruleLayout places each direction of a rule in a 3x3 block; the centre
// is the tile itself.
var ruleLayout = [3][3]struct {
	dir    autotile.Direction
	centre bool
}{
	{{dir: autotile.NW}, {dir: autotile.N}, {dir: autotile.NE}},
	{{dir: autotile.W}, {centre: true}, {dir: autotile.E}},
	{{dir: autotile.SW}, {dir: autotile.S}, {dir: autotile.SE}},
}

// RuleGlyphs renders a rule as three rows of '+' (filled), '-' (empty)
// and '?' (either), with '#' for the tile itself.
func RuleGlyphs(req autotile.TileRequirements) [3]string {
	var rows [3]string
	for y, row := range ruleLayout {
		b := make([]byte, 3)
		for x, slot := range row {
			if slot.centre {
				b[x] = '#'
				continue
			}
			b[x] = req.Dirs[slot.dir].String()[0]
		}
		rows[y] = string(b)
	}
	return rows
}
