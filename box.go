package bvol

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// A Box is an axis-aligned box spanning Lower to Higher, inclusive.
//
// A valid box has Lower <= Higher in every component. A box with
// Lower > Higher in any component holds no volume; InvalidBox returns
// the canonical such box, which is also the identity for Add and Union.
type Box struct {
	Lower, Higher r3.Vec
}

// NewBox returns the smallest box containing the corners a and b.
func NewBox(a, b r3.Vec) Box {
	return Box{
		Lower:  r3.Vec{X: math.Min(a.X, b.X), Y: math.Min(a.Y, b.Y), Z: math.Min(a.Z, b.Z)},
		Higher: r3.Vec{X: math.Max(a.X, b.X), Y: math.Max(a.Y, b.Y), Z: math.Max(a.Z, b.Z)},
	}
}

// InvalidBox returns a box that contains nothing.
func InvalidBox() Box {
	inf := math.Inf(1)
	return Box{
		Lower:  r3.Vec{X: inf, Y: inf, Z: inf},
		Higher: r3.Vec{X: -inf, Y: -inf, Z: -inf},
	}
}

// BoxFromPoints returns the smallest box containing pts. If pts is
// empty, it returns InvalidBox().
func BoxFromPoints(pts ...r3.Vec) Box {
	b := InvalidBox()
	for _, p := range pts {
		b = b.Add(p)
	}
	return b
}

// IsValid returns whether b spans a (possibly flat) volume.
func (b Box) IsValid() bool {
	return b.Lower.X <= b.Higher.X && b.Lower.Y <= b.Higher.Y && b.Lower.Z <= b.Higher.Z
}

// Add returns the smallest box containing b and p.
func (b Box) Add(p r3.Vec) Box {
	return Box{
		Lower:  r3.Vec{X: math.Min(b.Lower.X, p.X), Y: math.Min(b.Lower.Y, p.Y), Z: math.Min(b.Lower.Z, p.Z)},
		Higher: r3.Vec{X: math.Max(b.Higher.X, p.X), Y: math.Max(b.Higher.Y, p.Y), Z: math.Max(b.Higher.Z, p.Z)},
	}
}

// Union returns the smallest box containing b and o.
func (b Box) Union(o Box) Box {
	if !o.IsValid() {
		return b
	}
	return b.Add(o.Lower).Add(o.Higher)
}

// Contains returns whether p lies in b, including its surface.
func (b Box) Contains(p r3.Vec) bool {
	return p.X >= b.Lower.X && p.X <= b.Higher.X &&
		p.Y >= b.Lower.Y && p.Y <= b.Higher.Y &&
		p.Z >= b.Lower.Z && p.Z <= b.Higher.Z
}

func (b Box) XDimension() float64 { return b.Higher.X - b.Lower.X }
func (b Box) YDimension() float64 { return b.Higher.Y - b.Lower.Y }
func (b Box) ZDimension() float64 { return b.Higher.Z - b.Lower.Z }

// Dimensions returns the extent of b along each axis.
func (b Box) Dimensions() r3.Vec {
	return r3.Sub(b.Higher, b.Lower)
}

func (b Box) Center() r3.Vec {
	return r3.Scale(0.5, r3.Add(b.Lower, b.Higher))
}

// Diagonal returns the distance between opposite corners of b.
func (b Box) Diagonal() float64 {
	return r3.Norm(b.Dimensions())
}

// Corners returns the eight corners of b. Corner i takes its X from
// Higher if bit 0 of i is set, Y if bit 1 is set, and Z if bit 2 is
// set, and otherwise from Lower.
func (b Box) Corners() [8]r3.Vec {
	var out [8]r3.Vec
	for i := range out {
		c := b.Lower
		if i&1 != 0 {
			c.X = b.Higher.X
		}
		if i&2 != 0 {
			c.Y = b.Higher.Y
		}
		if i&4 != 0 {
			c.Z = b.Higher.Z
		}
		out[i] = c
	}
	return out
}

// Transformed returns the smallest axis-aligned box containing b mapped
// by t. An invalid box stays invalid.
func (b Box) Transformed(t Transform) Box {
	if !b.IsValid() {
		return b
	}
	out := InvalidBox()
	for _, c := range b.Corners() {
		out = out.Add(t.Point(c))
	}
	return out
}
