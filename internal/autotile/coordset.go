package autotile

import (
	"slices"

	"github.com/zyedidia/generic/mapset"
)

// LargeExpansionThreshold is the number of (orientation, sheet tile)
// registrations above which a rebuild is reported as unusually large.
const LargeExpansionThreshold = 1 << 14

// Rand is the random source used to break ties between equally valid tiles.
// *math/rand.Rand satisfies it.
type Rand interface {
	Intn(n int) int
}

// Rule is one authored entry of a rule table.
type Rule struct {
	Coord        GridCoordinate
	Requirements TileRequirements
}

// CoordinateSet indexes every concrete Orientation to the sheet coordinates
// whose rule, after wildcard expansion, matches it exactly.
type CoordinateSet struct {
	index         map[Orientation]mapset.Set[GridCoordinate]
	registrations int
}

func NewCoordinateSet() *CoordinateSet {
	return &CoordinateSet{index: make(map[Orientation]mapset.Set[GridCoordinate])}
}

// Expand returns every concrete requirement a partial one stands for.
// Each wildcard doubles the working set, so k wildcards give 2^k results.
func Expand(req TileRequirements) []TileRequirements {
	set := []TileRequirements{req}
	for _, d := range Directions {
		if req.Dirs[d] != Any {
			continue
		}
		next := make([]TileRequirements, 0, len(set)*2)
		for _, r := range set {
			present, absent := r, r
			present.Dirs[d] = Present
			absent.Dirs[d] = Absent
			next = append(next, present, absent)
		}
		set = next
	}
	return set
}

// Sync rebuilds the index from an authored rule table and returns the
// number of registrations made.
func (s *CoordinateSet) Sync(rules map[GridCoordinate]TileRequirements) int {
	s.index = make(map[Orientation]mapset.Set[GridCoordinate])
	s.registrations = 0
	for coord, req := range rules {
		for _, concrete := range Expand(req) {
			s.Register(concrete.Orientation(), coord)
		}
	}
	return s.registrations
}

// Register adds coord as a candidate for the concrete orientation o.
func (s *CoordinateSet) Register(o Orientation, coord GridCoordinate) {
	set, ok := s.index[o]
	if !ok {
		set = mapset.New[GridCoordinate]()
		s.index[o] = set
	}
	if !set.Has(coord) {
		set.Put(coord)
		s.registrations++
	}
}

// Registrations returns the number of distinct (orientation, coordinate) pairs.
func (s *CoordinateSet) Registrations() int {
	return s.registrations
}

// Candidates returns the sheet coordinates registered for o in row-major order.
func (s *CoordinateSet) Candidates(o Orientation) []GridCoordinate {
	set, ok := s.index[o]
	if !ok || set.Size() == 0 {
		return nil
	}
	out := make([]GridCoordinate, 0, set.Size())
	set.Each(func(c GridCoordinate) {
		out = append(out, c)
	})
	slices.SortFunc(out, GridCoordinate.Compare)
	return out
}

// Find picks one candidate for o uniformly at random.
// The candidates are sorted first so a seeded rnd gives repeatable picks.
func (s *CoordinateSet) Find(o Orientation, rnd Rand) (GridCoordinate, bool) {
	candidates := s.Candidates(o)
	switch len(candidates) {
	case 0:
		return GridCoordinate{}, false
	case 1:
		return candidates[0], true
	}
	return candidates[rnd.Intn(len(candidates))], true
}

// Coverage returns how many of the 256 orientations have at least one candidate.
func (s *CoordinateSet) Coverage() int {
	n := 0
	for _, set := range s.index {
		if set.Size() > 0 {
			n++
		}
	}
	return n
}

// Uncovered lists the orientations no rule resolves, in ascending order.
func (s *CoordinateSet) Uncovered() []Orientation {
	var out []Orientation
	for v := 0; v <= int(All); v++ {
		o := Orientation(v)
		if set, ok := s.index[o]; !ok || set.Size() == 0 {
			out = append(out, o)
		}
	}
	return out
}

// Equal reports whether both indexes hold the same candidates for every orientation.
func (s *CoordinateSet) Equal(other *CoordinateSet) bool {
	for v := 0; v <= int(All); v++ {
		o := Orientation(v)
		if !slices.Equal(s.Candidates(o), other.Candidates(o)) {
			return false
		}
	}
	return true
}
