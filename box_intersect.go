package bvol

import (
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

// A boxFace is one face of a box, with its outward normal and the
// mapping from hit position to texture coordinate.
type boxFace struct {
	high   bool // face lies at Higher rather than Lower
	normal r3.Vec

	// The texture coordinate's X comes from axis texU and its Y from
	// axis texV, each normalized to [0, 1] over the box. Faces whose
	// in-plane basis is mirrored relative to the texture flip one axis.
	texU, texV   int
	flipU, flipV bool
}

// A boxSlab is a pair of parallel faces perpendicular to axis. u and v
// are the two in-plane axes.
type boxSlab struct {
	axis, u, v int
	lower      boxFace
	higher     boxFace
}

// boxSlabs are tested in order: Z, then X, then Y. A ray can only enter
// (or leave) a convex box through one face, so the first face that
// accepts the ray is the answer.
var boxSlabs = [3]boxSlab{
	{
		axis: 2, u: 0, v: 1,
		higher: boxFace{high: true, normal: r3.Vec{Z: 1}, texU: 0, texV: 1},
		lower:  boxFace{normal: r3.Vec{Z: -1}, texU: 0, texV: 1, flipU: true},
	},
	{
		axis: 0, u: 1, v: 2,
		higher: boxFace{high: true, normal: r3.Vec{X: 1}, texU: 2, texV: 1, flipU: true},
		lower:  boxFace{normal: r3.Vec{X: -1}, texU: 2, texV: 1},
	},
	{
		axis: 1, u: 0, v: 2,
		higher: boxFace{high: true, normal: r3.Vec{Y: 1}, texU: 0, texV: 2, flipV: true},
		lower:  boxFace{normal: r3.Vec{Y: -1}, texU: 0, texV: 2},
	},
}

// FrontIntersection returns where r enters b: the hit on a face whose
// outward normal opposes r.Dir, at distance >= 0. If the origin of r is
// inside b there is no entry ahead and FrontIntersection returns false.
func (b Box) FrontIntersection(r Ray) (Hit, bool) {
	return b.intersect(r, false)
}

// BackIntersection returns where r leaves b: the hit on a face whose
// outward normal points along r.Dir, at distance >= 0. This is the far
// side of b for a ray starting outside, or the exit point for a ray
// starting inside.
func (b Box) BackIntersection(r Ray) (Hit, bool) {
	return b.intersect(r, true)
}

// FrontPoint is FrontIntersection reduced to position and distance.
func (b Box) FrontPoint(r Ray) (position r3.Vec, distance float64, ok bool) {
	h, ok := b.intersect(r, false)
	return h.Position, h.Distance, ok
}

// FrontPointNormal is FrontIntersection without the texture coordinate.
func (b Box) FrontPointNormal(r Ray) (position r3.Vec, distance float64, normal r3.Vec, ok bool) {
	h, ok := b.intersect(r, false)
	return h.Position, h.Distance, h.Normal, ok
}

// BackPoint is BackIntersection reduced to position and distance.
func (b Box) BackPoint(r Ray) (position r3.Vec, distance float64, ok bool) {
	h, ok := b.intersect(r, true)
	return h.Position, h.Distance, ok
}

// BackPointNormal is BackIntersection without the texture coordinate.
func (b Box) BackPointNormal(r Ray) (position r3.Vec, distance float64, normal r3.Vec, ok bool) {
	h, ok := b.intersect(r, true)
	return h.Position, h.Distance, h.Normal, ok
}

// TransformedFrontIntersection is FrontIntersection for a box given in
// a local frame. world maps local to world coordinates and inverse must
// be its inverse. r and the returned hit are in world coordinates, and
// the hit distance is a parameter on r.
func (b Box) TransformedFrontIntersection(r Ray, world, inverse Transform) (Hit, bool) {
	return transformedQuery(r, world, inverse, b.FrontIntersection)
}

// TransformedBackIntersection is BackIntersection for a box given in a
// local frame. See TransformedFrontIntersection.
func (b Box) TransformedBackIntersection(r Ray, world, inverse Transform) (Hit, bool) {
	return transformedQuery(r, world, inverse, b.BackIntersection)
}

func (b Box) intersect(r Ray, back bool) (Hit, bool) {
	if debugChecks {
		debugAssert(b.IsValid(), "intersecting an invalid box")
		debugAssert(r.IsValid(), "intersecting an invalid ray")
	}

	o := [3]float64{r.Origin.X, r.Origin.Y, r.Origin.Z}
	d := [3]float64{r.Dir.X, r.Dir.Y, r.Dir.Z}
	lo := [3]float64{b.Lower.X, b.Lower.Y, b.Lower.Z}
	hi := [3]float64{b.Higher.X, b.Higher.Y, b.Higher.Z}

	for i := range boxSlabs {
		s := &boxSlabs[i]

		// The ray can only meet this slab's faces inside the box if it
		// is not already past the box on either in-plane axis and
		// moving away.
		if !mayCross(o[s.u], d[s.u], lo[s.u], hi[s.u]) || !mayCross(o[s.v], d[s.v], lo[s.v], hi[s.v]) {
			continue
		}

		// Pick the one face of the slab the ray moves toward.
		a := s.axis
		var f *boxFace
		if back {
			if d[a] > DirectionEpsilon && o[a] <= hi[a] {
				f = &s.higher
			} else if d[a] < -DirectionEpsilon && o[a] >= lo[a] {
				f = &s.lower
			}
		} else {
			if d[a] < -DirectionEpsilon && o[a] >= hi[a] {
				f = &s.higher
			} else if d[a] > DirectionEpsilon && o[a] <= lo[a] {
				f = &s.lower
			}
		}
		if f == nil {
			continue
		}
		plane := lo[a]
		if f.high {
			plane = hi[a]
		}

		// The ray meets the face plane at t = (plane-o[a])/d[a]. Rather
		// than dividing now, scale the in-plane hit coordinates by d[a]
		// and compare them against the scaled face bounds. Most rays
		// miss most faces, so the division is deferred until a face
		// accepts the ray.
		ud := o[s.u]*d[a] + (plane-o[a])*d[s.u]
		vd := o[s.v]*d[a] + (plane-o[a])*d[s.v]
		if !within(ud, lo[s.u]*d[a], hi[s.u]*d[a]) || !within(vd, lo[s.v]*d[a], hi[s.v]*d[a]) {
			continue
		}

		inv := 1 / d[a]
		var p [3]float64
		p[a] = plane
		p[s.u] = ud * inv
		p[s.v] = vd * inv
		h := Hit{
			Position: r3.Vec{X: p[0], Y: p[1], Z: p[2]},
			Distance: (plane - o[a]) * inv,
			Normal:   f.normal,
			TexCoord: f.texCoord(p, lo, hi),
		}
		if debugChecks {
			debugAssert(h.Distance >= 0, "negative hit distance")
			debugAssert(h.TexCoord.X >= 0 && h.TexCoord.X <= 1 && h.TexCoord.Y >= 0 && h.TexCoord.Y <= 1,
				"texture coordinate out of range")
			if back {
				debugAssert(r3.Dot(h.Normal, r.Dir) > 0, "back hit normal opposes ray")
			} else {
				debugAssert(r3.Dot(h.Normal, r.Dir) < 0, "front hit normal follows ray")
			}
		}
		return h, true
	}
	return Hit{}, false
}

// mayCross returns whether a ray with origin o and direction d along
// one axis is not already beyond [lo, hi] and moving further away.
func mayCross(o, d, lo, hi float64) bool {
	return (d < 0 || o <= hi) && (d > 0 || o >= lo)
}

// within returns whether x lies between bounds a and b, in either
// order.
func within(x, a, b float64) bool {
	if a > b {
		a, b = b, a
	}
	return x >= a && x <= b
}

func (f *boxFace) texCoord(p, lo, hi [3]float64) r2.Vec {
	u := (p[f.texU] - lo[f.texU]) * inverseExtent(hi[f.texU]-lo[f.texU])
	v := (p[f.texV] - lo[f.texV]) * inverseExtent(hi[f.texV]-lo[f.texV])
	if f.flipU {
		u = 1 - u
	}
	if f.flipV {
		v = 1 - v
	}
	// Clamping absorbs rounding at the face boundary.
	return r2.Vec{X: clamp01(u), Y: clamp01(v)}
}
