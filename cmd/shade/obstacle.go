package main

import (
	"github.com/aclements/bvol"
	"gonum.org/v1/gonum/spatial/r3"
)

// An Obstacle is something in the scene that can block sunlight.
//
// FrontIntersection and BackIntersection follow the bvol conventions:
// the front hit is where a ray starting outside enters the obstacle and
// the back hit is where it leaves. A ray starting inside has no front
// hit. Meshes have no inside; their front and back hits are the nearest
// and farthest crossings ahead of the ray origin.
type Obstacle interface {
	Name() string

	// Bounds returns the world-space bounding box.
	Bounds() bvol.Box

	FrontIntersection(r bvol.Ray) (bvol.Hit, bool)
	BackIntersection(r bvol.Ray) (bvol.Hit, bool)

	// cacheKey returns a gob-encodable description of the obstacle's
	// geometry.
	cacheKey() any
}

// placement positions a local-frame volume in the world.
type placement struct {
	world, inverse bvol.Transform
	identity       bool
}

func newPlacement(world bvol.Transform) (placement, error) {
	inverse, err := world.Inverse()
	if err != nil {
		return placement{}, err
	}
	return placement{world, inverse, world == bvol.Identity()}, nil
}

// Cache key encodings of each obstacle kind.
type (
	boxKey struct {
		Lower, Higher r3.Vec
		World         [4][4]float64
	}
	sphereKey struct {
		Center r3.Vec
		Radius float64
		World  [4][4]float64
	}
	meshKey struct {
		Verts [][3]float32
		Tris  [][3]int
	}
)

type boxObstacle struct {
	name string
	box  bvol.Box
	placement
}

func NewBoxObstacle(name string, box bvol.Box, world bvol.Transform) (Obstacle, error) {
	p, err := newPlacement(world)
	if err != nil {
		return nil, err
	}
	return &boxObstacle{name, box, p}, nil
}

func (o *boxObstacle) Name() string { return o.name }

func (o *boxObstacle) Bounds() bvol.Box { return o.box.Transformed(o.world) }

func (o *boxObstacle) FrontIntersection(r bvol.Ray) (bvol.Hit, bool) {
	if o.identity {
		return o.box.FrontIntersection(r)
	}
	return o.box.TransformedFrontIntersection(r, o.world, o.inverse)
}

func (o *boxObstacle) BackIntersection(r bvol.Ray) (bvol.Hit, bool) {
	if o.identity {
		return o.box.BackIntersection(r)
	}
	return o.box.TransformedBackIntersection(r, o.world, o.inverse)
}

func (o *boxObstacle) cacheKey() any {
	return boxKey{o.box.Lower, o.box.Higher, o.world.Matrix()}
}

type sphereObstacle struct {
	name   string
	sphere bvol.Sphere
	placement
}

func NewSphereObstacle(name string, sphere bvol.Sphere, world bvol.Transform) (Obstacle, error) {
	p, err := newPlacement(world)
	if err != nil {
		return nil, err
	}
	return &sphereObstacle{name, sphere, p}, nil
}

func (o *sphereObstacle) Name() string { return o.name }

func (o *sphereObstacle) Bounds() bvol.Box { return o.sphere.BoundingBox().Transformed(o.world) }

func (o *sphereObstacle) FrontIntersection(r bvol.Ray) (bvol.Hit, bool) {
	if o.identity {
		return o.sphere.FrontIntersection(r)
	}
	return o.sphere.TransformedFrontIntersection(r, o.world, o.inverse)
}

func (o *sphereObstacle) BackIntersection(r bvol.Ray) (bvol.Hit, bool) {
	if o.identity {
		return o.sphere.BackIntersection(r)
	}
	return o.sphere.TransformedBackIntersection(r, o.world, o.inverse)
}

func (o *sphereObstacle) cacheKey() any {
	return sphereKey{o.sphere.Center(), o.sphere.Radius(), o.world.Matrix()}
}
