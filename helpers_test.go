package bvol

import (
	"testing"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/floats/scalar"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
	"gonum.org/v1/gonum/stat/distuv"
)

const tol = 1e-9

func vecNear(a, b r3.Vec, tol float64) bool {
	return scalar.EqualWithinAbs(a.X, b.X, tol) &&
		scalar.EqualWithinAbs(a.Y, b.Y, tol) &&
		scalar.EqualWithinAbs(a.Z, b.Z, tol)
}

func assertVec(t *testing.T, msg string, got, want r3.Vec) {
	t.Helper()
	if !vecNear(got, want, tol) {
		t.Errorf("got %s = %v, want %v", msg, got, want)
	}
}

func assertFloat(t *testing.T, msg string, got, want float64) {
	t.Helper()
	if !scalar.EqualWithinAbs(got, want, tol) {
		t.Errorf("got %s = %v, want %v", msg, got, want)
	}
}

func assertTex(t *testing.T, msg string, got, want r2.Vec) {
	t.Helper()
	if !scalar.EqualWithinAbs(got.X, want.X, tol) || !scalar.EqualWithinAbs(got.Y, want.Y, tol) {
		t.Errorf("got %s = %v, want %v", msg, got, want)
	}
}

// sampler draws reproducible random geometry for property tests.
type sampler struct {
	unit distuv.Uniform
}

func newSampler(seed uint64) *sampler {
	return &sampler{distuv.Uniform{Min: 0, Max: 1, Src: rand.NewSource(seed)}}
}

// uniform returns a value uniformly drawn from [lo, hi).
func (s *sampler) uniform(lo, hi float64) float64 {
	return lo + s.unit.Rand()*(hi-lo)
}

func (s *sampler) vec(lo, hi float64) r3.Vec {
	return r3.Vec{X: s.uniform(lo, hi), Y: s.uniform(lo, hi), Z: s.uniform(lo, hi)}
}

// direction returns a random unit vector.
func (s *sampler) direction() r3.Vec {
	for {
		v := s.vec(-1, 1)
		if n := r3.Norm2(v); n > 0.01 && n <= 1 {
			return r3.Unit(v)
		}
	}
}

// box returns a random valid box with extents of at least 0.1.
func (s *sampler) box() Box {
	lower := s.vec(-10, 10)
	return Box{Lower: lower, Higher: r3.Add(lower, s.vec(0.1, 5))}
}

// interior returns a random point strictly inside b.
func (s *sampler) interior(b Box) r3.Vec {
	d := b.Dimensions()
	return r3.Vec{
		X: b.Lower.X + d.X*s.uniform(0.05, 0.95),
		Y: b.Lower.Y + d.Y*s.uniform(0.05, 0.95),
		Z: b.Lower.Z + d.Z*s.uniform(0.05, 0.95),
	}
}

// transform returns a random rotation, non-uniform scale and
// translation.
func (s *sampler) transform() Transform {
	scale := s.vec(0.5, 3)
	rot := Rotation(s.direction(), s.uniform(-3, 3))
	return Mul(Translation(s.vec(-20, 20)), Mul(rot, Scaling(scale)))
}
