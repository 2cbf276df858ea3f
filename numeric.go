package bvol

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

const (
	// DirectionEpsilon is the smallest magnitude of a ray direction
	// component for which a face pair perpendicular to that axis is
	// tested. Smaller components are treated as parallel to the faces,
	// so the face test never divides by them.
	//
	// The threshold applies to the components as given, not to a
	// normalized direction. A ray whose direction is entirely below it,
	// such as (0, 0, -1e-13), meets no box face even if it points
	// straight at the box. Scale such directions up before querying.
	// Sphere queries reject directions shorter than DirectionEpsilon
	// in debug builds.
	DirectionEpsilon = 1e-12

	// ExtentEpsilon is the largest box extent treated as flat. A flat
	// extent maps to texture coordinate 0 rather than dividing by it.
	ExtentEpsilon = 1e-12
)

// inverseExtent returns 1/extent, or 0 for a flat extent.
func inverseExtent(extent float64) float64 {
	if extent > ExtentEpsilon {
		return 1 / extent
	}
	return 0
}

func clamp01(x float64) float64 {
	return math.Max(0, math.Min(x, 1))
}

// normalize returns the unit vector colinear to v, or the zero vector
// if v is too short to have a direction.
func normalize(v r3.Vec) r3.Vec {
	if r3.Norm2(v) <= ExtentEpsilon {
		return r3.Vec{}
	}
	return r3.Unit(v)
}

func isFinite(v r3.Vec) bool {
	return !math.IsNaN(v.X) && !math.IsInf(v.X, 0) &&
		!math.IsNaN(v.Y) && !math.IsInf(v.Y, 0) &&
		!math.IsNaN(v.Z) && !math.IsInf(v.Z, 0)
}
