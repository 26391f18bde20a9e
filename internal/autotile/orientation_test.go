package autotile_test

import (
	"errors"
	"testing"

	"autotile-studio/internal/autotile"
)

func TestOrient(t *testing.T) {
	tests := []struct {
		dx, dy int
		want   autotile.Direction
		ok     bool
	}{
		{0, -1, autotile.N, true},
		{0, 1, autotile.S, true},
		{1, 0, autotile.E, true},
		{-1, 0, autotile.W, true},
		{1, -1, autotile.NE, true},
		{-1, -1, autotile.NW, true},
		{1, 1, autotile.SE, true},
		{-1, 1, autotile.SW, true},
		{0, 0, 0, false},
		{2, 0, 0, false},
		{0, -2, 0, false},
	}

	for _, tt := range tests {
		got, ok := autotile.Orient(tt.dx, tt.dy)
		if ok != tt.ok || (ok && got != tt.want) {
			t.Errorf("Orient(%d, %d) = %v, %v, want %v, %v", tt.dx, tt.dy, got, ok, tt.want, tt.ok)
		}
	}
}

func TestDirectionOffsetRoundTrip(t *testing.T) {
	for _, d := range autotile.Directions {
		dx, dy := d.Offset()
		got, ok := autotile.Orient(dx, dy)
		if !ok || got != d {
			t.Errorf("Orient(%v.Offset()) = %v, %v", d, got, ok)
		}
	}
}

func TestDiagonalsAreIndependentBits(t *testing.T) {
	seen := autotile.None
	for _, d := range autotile.Directions {
		f := autotile.Flag(d)
		if f.Count() != 1 {
			t.Fatalf("Flag(%v) = %08b, want exactly one bit", d, f)
		}
		if seen&f != 0 {
			t.Fatalf("Flag(%v) overlaps an earlier direction", d)
		}
		seen |= f
	}
	if seen != autotile.All {
		t.Errorf("union of all flags = %08b, want ALL", seen)
	}
}

func TestOrientationSetOps(t *testing.T) {
	o := autotile.None.With(autotile.N).With(autotile.SE)

	if !o.Contains(autotile.N) || !o.Contains(autotile.SE) || o.Contains(autotile.S) {
		t.Fatalf("With produced %v", o)
	}
	if got := o.Without(autotile.N); got != autotile.Flag(autotile.SE) {
		t.Errorf("Without(N) = %v, want SE", got)
	}
	if got := o.Union(autotile.Flag(autotile.W)); got.Count() != 3 {
		t.Errorf("Union count = %d, want 3", got.Count())
	}
	if got := autotile.All.Difference(o); got != o.Complement() {
		t.Errorf("ALL - o = %v, want complement %v", got, o.Complement())
	}
	if got := o.Complement().Complement(); got != o {
		t.Errorf("double complement = %v, want %v", got, o)
	}
	if !autotile.All.Has(o) || o.Has(autotile.All) {
		t.Errorf("Has is not a superset test")
	}
	if got := o.String(); got != "N|SE" {
		t.Errorf("String() = %q, want %q", got, "N|SE")
	}
	if autotile.None.String() != "NONE" || autotile.All.String() != "ALL" {
		t.Errorf("identity names = %q, %q", autotile.None, autotile.All)
	}
}

func TestRequirementsFromOrientationIsConcrete(t *testing.T) {
	for v := 0; v <= int(autotile.All); v++ {
		o := autotile.Orientation(v)
		req := autotile.FromOrientation(o)
		if !req.Concrete() {
			t.Fatalf("FromOrientation(%v) has wildcards", o)
		}
		if got := req.Orientation(); got != o {
			t.Fatalf("FromOrientation(%v).Orientation() = %v", o, got)
		}
		if !req.Matches(o) {
			t.Fatalf("FromOrientation(%v) does not match itself", o)
		}
	}
}

func TestRequirementsGetSet(t *testing.T) {
	var req autotile.TileRequirements

	if err := req.Set(autotile.NE, autotile.Present); err != nil {
		t.Fatalf("Set(NE): %v", err)
	}
	got, err := req.Get(autotile.NE)
	if err != nil || got != autotile.Present {
		t.Errorf("Get(NE) = %v, %v, want +", got, err)
	}
	if got, _ := req.Get(autotile.NW); got != autotile.Any {
		t.Errorf("Get(NW) = %v, want wildcard", got)
	}

	bad := autotile.Direction(autotile.NumDirections)
	if _, err := req.Get(bad); !errors.Is(err, autotile.ErrInvalidDirection) {
		t.Errorf("Get(invalid) err = %v, want ErrInvalidDirection", err)
	}
	if err := req.Set(bad, autotile.Absent); !errors.Is(err, autotile.ErrInvalidDirection) {
		t.Errorf("Set(invalid) err = %v, want ErrInvalidDirection", err)
	}
}

func TestRequirementCycle(t *testing.T) {
	r := autotile.Any
	want := []autotile.Requirement{autotile.Present, autotile.Absent, autotile.Any}
	for _, w := range want {
		r = r.Cycle()
		if r != w {
			t.Fatalf("Cycle() = %v, want %v", r, w)
		}
	}
}

func TestRequirementsOrientationIgnoresWildcards(t *testing.T) {
	req := autotile.Require(autotile.Flag(autotile.N)|autotile.Flag(autotile.E), autotile.Flag(autotile.S))
	if got, want := req.Orientation(), autotile.Flag(autotile.N)|autotile.Flag(autotile.E); got != want {
		t.Errorf("Orientation() = %v, want %v", got, want)
	}
	if got := len(req.Wildcards()); got != 5 {
		t.Errorf("len(Wildcards()) = %d, want 5", got)
	}
}
