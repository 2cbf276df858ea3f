package bvol

import (
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

// A Hit describes where a ray meets the surface of a volume.
type Hit struct {
	// Position is the point on the surface, equal to
	// ray.Along(Distance).
	Position r3.Vec

	// Distance is the ray parameter of Position. Front and back
	// queries only report hits with Distance >= 0.
	Distance float64

	// Normal is the outward unit surface normal at Position.
	Normal r3.Vec

	// TexCoord is the face-local texture coordinate for box hits, with
	// both components in [0, 1]. It is zero for sphere hits.
	TexCoord r2.Vec
}

// transformed maps a hit found in a volume's local frame back to the
// world frame. normals is the inverse-transpose of world's linear part.
func (h Hit) transformed(world Transform, normals *[3][3]float64) Hit {
	h.Position = world.Point(h.Position)
	h.Normal = normalize(mulVec(normals, h.Normal))
	return h
}

// transformedQuery runs query on r mapped into the local frame of
// inverse, and maps a resulting hit back by world.
//
// The ray direction is mapped linearly and not rescaled, so the local
// distance is also the world ray parameter. Normals are mapped by the
// transpose of inverse's linear part, which is the inverse-transpose of
// world's linear part, and then renormalized so non-uniform scale does
// not change their length.
func transformedQuery(r Ray, world, inverse Transform, query func(Ray) (Hit, bool)) (Hit, bool) {
	h, ok := query(r.Transform(inverse))
	if !ok {
		return Hit{}, false
	}
	normals := transpose3(&inverse.linear)
	return h.transformed(world, &normals), true
}
