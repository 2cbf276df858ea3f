package bvol

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

// A volume is the query surface shared by Box and Sphere.
type volume interface {
	FrontIntersection(Ray) (Hit, bool)
	BackIntersection(Ray) (Hit, bool)
	TransformedFrontIntersection(Ray, Transform, Transform) (Hit, bool)
	TransformedBackIntersection(Ray, Transform, Transform) (Hit, bool)
}

var (
	_ volume = Box{}
	_ volume = Sphere{}
)

// randomVolume returns a random box or sphere, and a point strictly
// inside it.
func randomVolume(s *sampler, i int) (volume, r3.Vec) {
	if i%2 == 0 {
		b := s.box()
		return b, s.interior(b)
	}
	sp := NewSphere(s.vec(-10, 10), s.uniform(0.1, 5))
	return sp, r3.Add(sp.Center(), r3.Scale(sp.Radius()*s.uniform(0, 0.95), s.direction()))
}

// outside returns a point at distance 40 from target, which lies
// outside every volume drawn by randomVolume.
func outside(s *sampler, target r3.Vec) r3.Vec {
	return r3.Add(target, r3.Scale(40, s.direction()))
}

func TestFrontBackComplement(t *testing.T) {
	s := newSampler(1)
	for i := 0; i < 1000; i++ {
		v, target := randomVolume(s, i)
		origin := outside(s, target)
		r := NewRay(origin, r3.Sub(target, origin))

		front, ok := v.FrontIntersection(r)
		require.True(t, ok, "front intersection of %v with %v", r, v)
		back, ok := v.BackIntersection(r)
		require.True(t, ok, "back intersection of %v with %v", r, v)

		assert.GreaterOrEqual(t, front.Distance, 0.0)
		assert.LessOrEqual(t, front.Distance, 1.0, "front hit lies before the interior target")
		assert.GreaterOrEqual(t, back.Distance, 1.0, "back hit lies after the interior target")
		assert.LessOrEqual(t, r3.Dot(front.Normal, r.Dir), 0.0)
		assert.GreaterOrEqual(t, r3.Dot(back.Normal, r.Dir), 0.0)
		assertVec(t, "front position", front.Position, r.Along(front.Distance))
		assertVec(t, "back position", back.Position, r.Along(back.Distance))

		for _, h := range []Hit{front, back} {
			assert.True(t, h.TexCoord.X >= 0 && h.TexCoord.X <= 1, "texture coordinate %v", h.TexCoord)
			assert.True(t, h.TexCoord.Y >= 0 && h.TexCoord.Y <= 1, "texture coordinate %v", h.TexCoord)
		}
	}
}

func TestContainmentExclusion(t *testing.T) {
	s := newSampler(2)
	for i := 0; i < 1000; i++ {
		v, inside := randomVolume(s, i)
		r := NewRay(inside, s.direction())

		_, ok := v.FrontIntersection(r)
		assert.False(t, ok, "front intersection from inside %v", v)
		back, ok := v.BackIntersection(r)
		if assert.True(t, ok, "back intersection from inside %v", v) {
			assert.Greater(t, back.Distance, 0.0)
			assert.GreaterOrEqual(t, r3.Dot(back.Normal, r.Dir), 0.0)
		}
	}
}

func TestMissBeyondBounds(t *testing.T) {
	s := newSampler(4)
	for i := 0; i < 1000; i++ {
		v, inside := randomVolume(s, i)

		// Pass the ray by at 15 units from an interior point, which is
		// beyond every extent randomVolume draws.
		dir := s.direction()
		side := r3.Cross(dir, s.direction())
		if r3.Norm(side) < 1e-3 {
			continue
		}
		origin := r3.Add(r3.Add(inside, r3.Scale(15, r3.Unit(side))), r3.Scale(-30, dir))
		r := NewRay(origin, dir)

		_, ok := v.FrontIntersection(r)
		assert.False(t, ok, "front intersection of %v with %v", r, v)
		_, ok = v.BackIntersection(r)
		assert.False(t, ok, "back intersection of %v with %v", r, v)
	}
}

func TestIdempotent(t *testing.T) {
	s := newSampler(6)
	for i := 0; i < 100; i++ {
		v, target := randomVolume(s, i)
		origin := outside(s, target)
		r := NewRay(origin, r3.Sub(target, origin))
		world := s.transform()
		inverse, err := world.Inverse()
		require.NoError(t, err)

		h1, ok1 := v.FrontIntersection(r)
		h2, ok2 := v.FrontIntersection(r)
		assert.Equal(t, ok1, ok2)
		assert.Equal(t, h1, h2)

		h1, ok1 = v.TransformedBackIntersection(r, world, inverse)
		h2, ok2 = v.TransformedBackIntersection(r, world, inverse)
		assert.Equal(t, ok1, ok2)
		assert.Equal(t, h1, h2)
	}
}

func TestTransformEquivariance(t *testing.T) {
	s := newSampler(8)
	for i := 0; i < 500; i++ {
		v, target := randomVolume(s, i)
		world := s.transform()
		inverse, err := world.Inverse()
		require.NoError(t, err)

		// Aim a world-space ray at the image of a local interior point.
		wTarget := world.Point(target)
		origin := r3.Add(wTarget, r3.Scale(100, s.direction()))
		r := NewRay(origin, r3.Sub(wTarget, origin))
		normals := world.NormalMatrix()

		for _, q := range []struct {
			name        string
			local       func(Ray) (Hit, bool)
			transformed func(Ray, Transform, Transform) (Hit, bool)
			sign        float64
		}{
			{"front", v.FrontIntersection, v.TransformedFrontIntersection, -1},
			{"back", v.BackIntersection, v.TransformedBackIntersection, 1},
		} {
			got, ok := q.transformed(r, world, inverse)
			require.True(t, ok, "%s: transformed intersection", q.name)
			local, ok := q.local(r.Transform(inverse))
			require.True(t, ok, "%s: local intersection", q.name)

			assertVec(t, q.name+" position", got.Position, world.Point(local.Position))
			assert.InDelta(t, 0, r3.Norm(r3.Sub(got.Position, r.Along(got.Distance))), 1e-7,
				"%s: position lies at the reported distance along the world ray", q.name)
			assertFloat(t, q.name+" distance", got.Distance, local.Distance)
			assertVec(t, q.name+" normal", got.Normal, r3.Unit(mulVec(&normals, local.Normal)))
			assertFloat(t, q.name+" normal length", r3.Norm(got.Normal), 1)
			assert.GreaterOrEqual(t, q.sign*r3.Dot(got.Normal, r.Dir), 0.0, "%s: normal orientation", q.name)
			assert.Equal(t, local.TexCoord, got.TexCoord)
		}
	}
}

func TestTransformedScenarios(t *testing.T) {
	// The unit cube rotated a quarter turn about Z and moved to x=10.
	world := Mul(Translation(r3.Vec{X: 10}), Rotation(r3.Vec{Z: 1}, math.Pi/2))
	inverse, err := world.Inverse()
	require.NoError(t, err)
	r := NewRay(r3.Vec{X: 10, Z: 5}, r3.Vec{Z: -1})
	h, ok := unitCube.TransformedFrontIntersection(r, world, inverse)
	require.True(t, ok)
	assertVec(t, "box position", h.Position, r3.Vec{X: 10, Z: 1})
	assertFloat(t, "box distance", h.Distance, 4)
	assertVec(t, "box normal", h.Normal, r3.Vec{Z: 1})

	r = NewRay(r3.Vec{X: 20, Y: 0.5}, r3.Vec{X: -1})
	h, ok = unitCube.TransformedBackIntersection(r, world, inverse)
	require.True(t, ok)
	assertVec(t, "box back position", h.Position, r3.Vec{X: 9, Y: 0.5})
	assertFloat(t, "box back distance", h.Distance, 11)
	assertVec(t, "box back normal", h.Normal, r3.Vec{X: -1})

	// A radius 2 sphere scaled by 2 and moved to x=10 is a radius 4
	// sphere in world space.
	world = Mul(Translation(r3.Vec{X: 10}), Scaling(r3.Vec{X: 2, Y: 2, Z: 2}))
	inverse, err = world.Inverse()
	require.NoError(t, err)
	sp := NewSphere(r3.Vec{}, 2)
	r = NewRay(r3.Vec{X: 20}, r3.Vec{X: -1})

	near, far, ok := sp.TransformedIntersections(r, world, inverse)
	require.True(t, ok)
	assertVec(t, "sphere near position", near.Position, r3.Vec{X: 14})
	assertFloat(t, "sphere near distance", near.Distance, 6)
	assertVec(t, "sphere near normal", near.Normal, r3.Vec{X: 1})
	assertVec(t, "sphere far position", far.Position, r3.Vec{X: 6})
	assertFloat(t, "sphere far distance", far.Distance, 14)
	assertVec(t, "sphere far normal", far.Normal, r3.Vec{X: -1})

	front, ok := sp.TransformedFrontIntersection(r, world, inverse)
	require.True(t, ok)
	assert.Equal(t, near, front)
	back, ok := sp.TransformedBackIntersection(r, world, inverse)
	require.True(t, ok)
	assert.Equal(t, far, back)
}
