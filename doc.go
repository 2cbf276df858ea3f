// Package bvol answers ray queries against two bounding volumes: an
// axis-aligned box and a sphere.
//
// Every query reports whether, and where, a ray first enters (front) or
// last leaves (back) a volume ahead of its origin, together with the
// outward surface normal and, for boxes, a face-local texture
// coordinate. Each query also has a transformed-frame form that takes a
// local-to-world [Transform] and its inverse, so a volume can be stored
// in its own coordinate frame and queried with world-space rays.
//
// Boxes and spheres are immutable values. All queries are pure
// functions of their arguments and may be called concurrently.
//
// Queries trust their preconditions: the volume must be valid and the
// ray direction non-zero. These are only checked when built with the
// "debug" build tag.
package bvol
