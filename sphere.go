package bvol

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// A Sphere is a ball with a center and a non-negative radius.
//
// The zero Sphere is a point at the origin.
type Sphere struct {
	center    r3.Vec
	radius    float64
	invRadius float64 // 1/radius, or 0 if radius is 0
}

// NewSphere returns a sphere with the given center and radius. radius
// must be >= 0.
func NewSphere(center r3.Vec, radius float64) Sphere {
	if debugChecks {
		debugAssert(radius >= 0, "negative sphere radius")
	}
	s := Sphere{center: center, radius: radius}
	if radius > 0 {
		s.invRadius = 1 / radius
	}
	return s
}

// SphereFromBox returns the sphere through the corners of b: centered
// at b's center with half its diagonal as radius.
func SphereFromBox(b Box) Sphere {
	if debugChecks {
		debugAssert(b.IsValid(), "sphere from an invalid box")
	}
	return NewSphere(b.Center(), b.Diagonal()*0.5)
}

func (s Sphere) Center() r3.Vec { return s.center }
func (s Sphere) Radius() float64 { return s.radius }

// InverseRadius returns 1/Radius, or 0 for a zero radius.
func (s Sphere) InverseRadius() float64 { return s.invRadius }

// IsValid returns whether s has a finite center and a finite,
// non-negative radius.
func (s Sphere) IsValid() bool {
	return isFinite(s.center) && s.radius >= 0 && !math.IsInf(s.radius, 1)
}

// Contains returns whether p lies in s, including its surface.
func (s Sphere) Contains(p r3.Vec) bool {
	return r3.Norm2(r3.Sub(p, s.center)) <= s.radius*s.radius
}

// BoundingBox returns the smallest axis-aligned box containing s.
func (s Sphere) BoundingBox() Box {
	r := r3.Vec{X: s.radius, Y: s.radius, Z: s.radius}
	return Box{Lower: r3.Sub(s.center, r), Higher: r3.Add(s.center, r)}
}

// Intersections returns both points where the line through r meets s,
// in either direction from the origin of r. near has the smaller
// distance. A tangent line yields two equal hits. Distances may be
// negative.
func (s Sphere) Intersections(r Ray) (near, far Hit, ok bool) {
	t0, t1, ok := s.roots(r)
	if !ok {
		return Hit{}, Hit{}, false
	}
	return s.hit(r, t0), s.hit(r, t1), true
}

// IntersectionPoints is Intersections reduced to positions and
// distances.
func (s Sphere) IntersectionPoints(r Ray) (position0 r3.Vec, distance0 float64, position1 r3.Vec, distance1 float64, ok bool) {
	t0, t1, ok := s.roots(r)
	if !ok {
		return r3.Vec{}, 0, r3.Vec{}, 0, false
	}
	return r.Along(t0), t0, r.Along(t1), t1, true
}

// FrontIntersection returns where r enters s ahead of its origin. If
// the origin of r is inside s there is no entry ahead and
// FrontIntersection returns false.
func (s Sphere) FrontIntersection(r Ray) (Hit, bool) {
	t0, _, ok := s.roots(r)
	if !ok || t0 < 0 {
		return Hit{}, false
	}
	return s.hit(r, t0), true
}

// BackIntersection returns where r leaves s ahead of its origin. This
// is the far side of s for a ray starting outside, or the exit point
// for a ray starting inside.
func (s Sphere) BackIntersection(r Ray) (Hit, bool) {
	_, t1, ok := s.roots(r)
	if !ok || t1 < 0 {
		return Hit{}, false
	}
	return s.hit(r, t1), true
}

// FrontPoint is FrontIntersection reduced to position and distance.
func (s Sphere) FrontPoint(r Ray) (position r3.Vec, distance float64, ok bool) {
	h, ok := s.FrontIntersection(r)
	return h.Position, h.Distance, ok
}

// FrontPointNormal is FrontIntersection as position, distance and
// normal.
func (s Sphere) FrontPointNormal(r Ray) (position r3.Vec, distance float64, normal r3.Vec, ok bool) {
	h, ok := s.FrontIntersection(r)
	return h.Position, h.Distance, h.Normal, ok
}

// BackPoint is BackIntersection reduced to position and distance.
func (s Sphere) BackPoint(r Ray) (position r3.Vec, distance float64, ok bool) {
	h, ok := s.BackIntersection(r)
	return h.Position, h.Distance, ok
}

// BackPointNormal is BackIntersection as position, distance and
// normal.
func (s Sphere) BackPointNormal(r Ray) (position r3.Vec, distance float64, normal r3.Vec, ok bool) {
	h, ok := s.BackIntersection(r)
	return h.Position, h.Distance, h.Normal, ok
}

// TransformedIntersections is Intersections for a sphere given in a
// local frame. world maps local to world coordinates and inverse must
// be its inverse. Under a non-uniform scale the sphere is an ellipsoid
// in world coordinates; positions and normals are those of the
// ellipsoid.
func (s Sphere) TransformedIntersections(r Ray, world, inverse Transform) (near, far Hit, ok bool) {
	near, far, ok = s.Intersections(r.Transform(inverse))
	if !ok {
		return Hit{}, Hit{}, false
	}
	normals := transpose3(&inverse.linear)
	return near.transformed(world, &normals), far.transformed(world, &normals), true
}

// TransformedFrontIntersection is FrontIntersection for a sphere given
// in a local frame. See TransformedIntersections.
func (s Sphere) TransformedFrontIntersection(r Ray, world, inverse Transform) (Hit, bool) {
	return transformedQuery(r, world, inverse, s.FrontIntersection)
}

// TransformedBackIntersection is BackIntersection for a sphere given in
// a local frame. See TransformedIntersections.
func (s Sphere) TransformedBackIntersection(r Ray, world, inverse Transform) (Hit, bool) {
	return transformedQuery(r, world, inverse, s.BackIntersection)
}

// roots solves |r.Origin + t*r.Dir - center|² = radius² for t and
// returns the roots in increasing order.
func (s Sphere) roots(r Ray) (t0, t1 float64, ok bool) {
	oc := r3.Sub(r.Origin, s.center)
	a := r3.Dot(r.Dir, r.Dir)
	b := 2 * r3.Dot(r.Dir, oc)
	c := r3.Dot(oc, oc) - s.radius*s.radius
	if debugChecks {
		debugAssert(math.Sqrt(a) > DirectionEpsilon, "intersecting a degenerate ray")
	}

	disc := b*b - 4*a*c
	if disc < 0 {
		return 0, 0, false
	}

	// Computing both roots as (-b ± √disc)/2a cancels catastrophically
	// for one of them when |b| ≫ |4ac|. Instead, compute the root where
	// b and the square root add and recover the other from t0*t1 = c/a.
	q := -0.5 * (b + math.Copysign(math.Sqrt(disc), b))
	if q == 0 {
		// b = 0 and disc = 0, so c = 0: a double root at 0.
		return 0, 0, true
	}
	t0, t1 = q/a, c/q
	if t0 > t1 {
		t0, t1 = t1, t0
	}
	return t0, t1, true
}

func (s Sphere) hit(r Ray, t float64) Hit {
	p := r.Along(t)
	return Hit{
		Position: p,
		Distance: t,
		Normal:   r3.Scale(s.invRadius, r3.Sub(p, s.center)),
	}
}
