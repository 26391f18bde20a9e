package tilemap

import (
	"math"
	"math/rand"
)

// Noise is seeded 2D simplex noise.
type Noise struct {
	perm [512]uint8
}

// NewNoise shuffles a permutation table from seed.
func NewNoise(seed int64) *Noise {
	n := &Noise{}
	r := rand.New(rand.NewSource(seed))
	for i, v := range r.Perm(256) {
		n.perm[i] = uint8(v)
		n.perm[i+256] = uint8(v)
	}
	return n
}

const (
	skew   = 0.3660254037844386  // (sqrt(3) - 1) / 2
	unskew = 0.21132486540518713 // (3 - sqrt(3)) / 6
)

func gradient(hash uint8, x, y float64) float64 {
	h := hash & 7
	if h >= 4 {
		x, y = y, x
	}
	if h&1 != 0 {
		x = -x
	}
	if h&2 != 0 {
		y = -y
	}
	return x + y
}

func corner(hash uint8, x, y float64) float64 {
	t := 0.5 - x*x - y*y
	if t <= 0 {
		return 0
	}
	t *= t
	return t * t * gradient(hash, x, y)
}

// At returns noise in [-1, 1].
func (n *Noise) At(x, y float64) float64 {
	s := (x + y) * skew
	i, j := math.Floor(x+s), math.Floor(y+s)
	t := (i + j) * unskew
	x0, y0 := x-(i-t), y-(j-t)

	var i1, j1 int
	if x0 > y0 {
		i1 = 1
	} else {
		j1 = 1
	}

	ii, jj := int(i)&255, int(j)&255
	p := &n.perm
	sum := corner(p[ii+int(p[jj])], x0, y0)
	sum += corner(p[ii+i1+int(p[jj+j1])], x0-float64(i1)+unskew, y0-float64(j1)+unskew)
	sum += corner(p[ii+1+int(p[jj+1])], x0-1+2*unskew, y0-1+2*unskew)
	return max(-1, min(1, 70*sum))
}

// Octaves parameterizes fractal noise.
type Octaves struct {
	Frequency   float64
	Count       int
	Lacunarity  float64
	Persistence float64
}

// DefaultOctaves gives blobby islands a few tiles across.
var DefaultOctaves = Octaves{Frequency: 0.12, Count: 4, Lacunarity: 2, Persistence: 0.5}

// Fractal sums several octaves and normalizes the result to [0, 1].
func (n *Noise) Fractal(x, y float64, o Octaves) float64 {
	var total, norm float64
	freq, amp := o.Frequency, 1.0
	for range o.Count {
		total += n.At(x*freq, y*freq) * amp
		norm += amp
		freq *= o.Lacunarity
		amp *= o.Persistence
	}
	if norm == 0 {
		return 0.5
	}
	return (total/norm + 1) / 2
}
