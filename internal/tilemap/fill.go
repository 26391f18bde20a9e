package tilemap

import (
	"fmt"
	"math/rand"
)

// Float64er is the random source FillRandom draws from.
// *math/rand.Rand satisfies it.
type Float64er interface {
	Float64() float64
}

// FillRandom fills the whole grid and then clears each cell with
// probability p, giving a mostly solid map with scattered holes.
func FillRandom(g *Grid, rnd Float64er, p float64) {
	g.reset(func(x, y int) bool {
		return rnd.Float64() >= p
	})
}

// FillNoise fills cells whose fractal noise value exceeds threshold.
// Lower thresholds give larger islands.
func FillNoise(g *Grid, seed int64, threshold float64) {
	n := NewNoise(seed)
	g.reset(func(x, y int) bool {
		return n.Fractal(float64(x), float64(y), DefaultOctaves) > threshold
	})
}

// Clear empties the grid.
func Clear(g *Grid) {
	g.reset(func(x, y int) bool { return false })
}

// Filler returns the fill function named by kind: "empty", "full",
// "random" (holes with probability density) or "noise" (cells above
// threshold). Random fills draw from their own source seeded with seed.
func Filler(kind string, density float64, seed int64, threshold float64) (func(g *Grid), error) {
	switch kind {
	case "empty", "":
		return Clear, nil
	case "full":
		return func(g *Grid) {
			g.reset(func(x, y int) bool { return true })
		}, nil
	case "random":
		rnd := rand.New(rand.NewSource(seed))
		return func(g *Grid) { FillRandom(g, rnd, density) }, nil
	case "noise":
		// Each refill moves to the next seed so the map changes.
		next := seed
		return func(g *Grid) {
			FillNoise(g, next, threshold)
			next++
		}, nil
	}
	return nil, fmt.Errorf("unknown fill %q", kind)
}
