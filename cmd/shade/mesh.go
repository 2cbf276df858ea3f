package main

import (
	"github.com/aclements/bvol"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

// A meshObstacle is a triangle mesh in world coordinates. Rays are
// first tested against the mesh's bounding sphere, which rejects most
// sun rays without touching any triangles.
type meshObstacle struct {
	name   string
	mesh   *Mesh
	bounds bvol.Box
	cull   bvol.Sphere
}

// NewMeshObstacle returns an obstacle for m after mapping it by world.
func NewMeshObstacle(name string, m *Mesh, world bvol.Transform) Obstacle {
	if world != bvol.Identity() {
		m = m.Transformed(world)
	}
	bounds := m.Bounds()
	return &meshObstacle{name, m, bounds, bvol.SphereFromBox(bounds)}
}

func (o *meshObstacle) Name() string { return o.name }

func (o *meshObstacle) Bounds() bvol.Box { return o.bounds }

// FrontIntersection returns the nearest triangle hit ahead of the ray
// origin.
func (o *meshObstacle) FrontIntersection(r bvol.Ray) (bvol.Hit, bool) {
	return o.intersect(r, false)
}

// BackIntersection returns the farthest triangle hit ahead of the ray
// origin.
func (o *meshObstacle) BackIntersection(r bvol.Ray) (bvol.Hit, bool) {
	return o.intersect(r, true)
}

func (o *meshObstacle) intersect(r bvol.Ray, back bool) (bvol.Hit, bool) {
	if !o.bounds.IsValid() {
		return bvol.Hit{}, false
	}
	// Anything ahead of the ray inside the sphere shows up as a back
	// hit on the sphere.
	if _, ok := o.cull.BackIntersection(r); !ok {
		return bvol.Hit{}, false
	}

	var best bvol.Hit
	found := false
	for i := range o.mesh.Tris {
		tri := o.mesh.Triangle(i)
		t, u, v, ok := intersectTriangle(r, &tri)
		if !ok {
			continue
		}
		if found && (back && t <= best.Distance || !back && t >= best.Distance) {
			continue
		}
		normal := r3.Cross(r3.Sub(tri[1], tri[0]), r3.Sub(tri[2], tri[0]))
		// Orient the normal like a volume's: against the ray on the
		// way in, along it on the way out.
		if d := r3.Dot(normal, r.Dir); back && d < 0 || !back && d > 0 {
			normal = r3.Scale(-1, normal)
		}
		best = bvol.Hit{
			Position: r.Along(t),
			Distance: t,
			Normal:   r3.Unit(normal),
			TexCoord: r2.Vec{X: u, Y: v},
		}
		found = true
	}
	return best, found
}

// intersectTriangle returns the ray parameter and barycentric
// coordinates of the point where r crosses tri. Both sides of the
// triangle are hit.
func intersectTriangle(r bvol.Ray, tri *r3.Triangle) (t, u, v float64, ok bool) {
	// Möller–Trumbore intersection, based on Wikipedia implementation
	// and the Scratchapixel implementation.
	const epsilon = 0.0000001
	edge1 := r3.Sub(tri[1], tri[0])
	edge2 := r3.Sub(tri[2], tri[0])
	h := r3.Cross(r.Dir, edge2)
	det := r3.Dot(edge1, h)
	// If the determinant is close to 0, the ray is parallel to the
	// plane of the triangle.
	if det > -epsilon && det < epsilon {
		return 0, 0, 0, false
	}
	invDet := 1 / det
	s := r3.Sub(r.Origin, tri[0])
	u = invDet * r3.Dot(s, h)
	if u < 0 || u > 1 {
		return 0, 0, 0, false
	}
	q := r3.Cross(s, edge1)
	v = invDet * r3.Dot(r.Dir, q)
	if v < 0 || u+v > 1 {
		return 0, 0, 0, false
	}
	t = invDet * r3.Dot(edge2, q)
	if t < epsilon {
		// There is a line intersection but not a ray intersection.
		return 0, 0, 0, false
	}
	return t, u, v, true
}

func (o *meshObstacle) cacheKey() any {
	return meshKey{o.mesh.Verts, o.mesh.Tris}
}
