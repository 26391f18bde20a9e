package autotile

import "fmt"

// Require builds a requirement with the directions in present required
// filled, those in absent required empty, and everything else a wildcard.
func Require(present, absent Orientation) TileRequirements {
	var req TileRequirements
	for _, d := range Directions {
		switch {
		case present.Contains(d):
			req.Dirs[d] = Present
		case absent.Contains(d):
			req.Dirs[d] = Absent
		}
	}
	return req
}

// BlobPart is one tile of a blob tileset layout.
type BlobPart struct {
	Name         string
	Offset       GridCoordinate // position relative to the template origin
	Requirements TileRequirements
}

var cardinals = Flag(N) | Flag(S) | Flag(E) | Flag(W)

// BlobTemplate returns the 13-part blob layout on a 5x3 sheet region:
//
//	outer_nw edge_n outer_ne inner_nw inner_ne
//	edge_w   center edge_e   inner_sw inner_se
//	outer_sw edge_s outer_se
//
// Edges and outer corners ignore diagonals. Inner corners need all four
// cardinals and exactly one missing diagonal. Orientations with three or
// more missing cardinals, opposite missing cardinals or several missing
// diagonals are left unmatched so the editor flags them.
func BlobTemplate() []BlobPart {
	return []BlobPart{
		{"outer_nw", Coord(0, 0), Require(Flag(S)|Flag(E), Flag(N)|Flag(W))},
		{"edge_n", Coord(1, 0), Require(Flag(S)|Flag(E)|Flag(W), Flag(N))},
		{"outer_ne", Coord(2, 0), Require(Flag(S)|Flag(W), Flag(N)|Flag(E))},
		{"inner_nw", Coord(3, 0), Require(cardinals|Flag(NE)|Flag(SW)|Flag(SE), Flag(NW))},
		{"inner_ne", Coord(4, 0), Require(cardinals|Flag(NW)|Flag(SW)|Flag(SE), Flag(NE))},

		{"edge_w", Coord(0, 1), Require(Flag(N)|Flag(S)|Flag(E), Flag(W))},
		{"center", Coord(1, 1), Require(All, None)},
		{"edge_e", Coord(2, 1), Require(Flag(N)|Flag(S)|Flag(W), Flag(E))},
		{"inner_sw", Coord(3, 1), Require(cardinals|Flag(NW)|Flag(NE)|Flag(SE), Flag(SW))},
		{"inner_se", Coord(4, 1), Require(cardinals|Flag(NW)|Flag(NE)|Flag(SW), Flag(SE))},

		{"outer_sw", Coord(0, 2), Require(Flag(N)|Flag(E), Flag(S)|Flag(W))},
		{"edge_s", Coord(1, 2), Require(Flag(N)|Flag(E)|Flag(W), Flag(S))},
		{"outer_se", Coord(2, 2), Require(Flag(N)|Flag(W), Flag(S)|Flag(E))},
	}
}

// TemplateSize returns the sheet region a template covers.
func TemplateSize(parts []BlobPart) (w, h int) {
	for _, p := range parts {
		w = max(w, p.Offset.X+1)
		h = max(h, p.Offset.Y+1)
	}
	return w, h
}

// ApplyTemplate inserts every part at origin+offset. Nothing is inserted
// if any part would fall off the sheet.
func ApplyTemplate(cfg *SpriteConfig, origin GridCoordinate, parts []BlobPart) error {
	for _, p := range parts {
		at := origin.Offset(p.Offset.X, p.Offset.Y)
		if !at.In(cfg.GridWidth, cfg.GridHeight) {
			return fmt.Errorf("template part %s at %v: %w", p.Name, at, ErrOutOfSheet)
		}
	}
	for _, p := range parts {
		cfg.rules[origin.Offset(p.Offset.X, p.Offset.Y)] = p.Requirements
	}
	cfg.SyncCoordinates()
	return nil
}
