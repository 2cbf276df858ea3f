package bvol

import "gonum.org/v1/gonum/spatial/r3"

// A Ray is a half-line starting at Origin and moving along Dir.
//
// Dir need not be normalized. Hit distances are in units of Dir, so
// that a hit's position is Origin + Dir*distance; callers wanting
// metric distances should pass a unit direction. Box queries ignore
// direction components smaller than DirectionEpsilon, so very short
// directions should be rescaled.
type Ray struct {
	Origin r3.Vec
	Dir    r3.Vec
}

func NewRay(origin, dir r3.Vec) Ray {
	return Ray{Origin: origin, Dir: dir}
}

// IsValid returns whether r has a finite origin and a finite, non-zero
// direction.
func (r Ray) IsValid() bool {
	return isFinite(r.Origin) && isFinite(r.Dir) && r.Dir != (r3.Vec{})
}

// Along returns the point at parameter t on r.
func (r Ray) Along(t float64) r3.Vec {
	return r3.Add(r.Origin, r3.Scale(t, r.Dir))
}

// Transform maps r by t. The origin is mapped as a point and the
// direction by the linear part of t only. The direction is not
// renormalized, so a parameter on the result names the image of the
// same parameter on r.
func (r Ray) Transform(t Transform) Ray {
	return Ray{Origin: t.Point(r.Origin), Dir: t.Direction(r.Dir)}
}
