package bvol

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"
)

// ErrSingular is returned when inverting a transform whose linear part
// has no inverse.
var ErrSingular = errors.New("bvol: singular transform")

// A Transform is an affine map p ↦ L·p + T, where L is a 3×3 linear
// part (rotation, scale, shear) and T a translation. In homogeneous
// form it is a 4×4 matrix whose last row is (0, 0, 0, 1).
//
// The zero Transform maps everything to the origin; use Identity for
// the identity map.
type Transform struct {
	linear      [3][3]float64 // row-major
	translation r3.Vec
}

// Identity returns the identity transform.
func Identity() Transform {
	return Transform{linear: [3][3]float64{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}}
}

// NewTransform returns the transform with the given row-major linear
// part and translation.
func NewTransform(linear [3][3]float64, translation r3.Vec) Transform {
	return Transform{linear: linear, translation: translation}
}

// Translation returns a transform that translates by v.
func Translation(v r3.Vec) Transform {
	t := Identity()
	t.translation = v
	return t
}

// Scaling returns a transform that scales each axis by the matching
// component of s.
func Scaling(s r3.Vec) Transform {
	return Transform{linear: [3][3]float64{{s.X, 0, 0}, {0, s.Y, 0}, {0, 0, s.Z}}}
}

// Rotation returns a transform that rotates by angle radians around
// axis, counter-clockwise when looking down axis toward the origin.
// axis need not be normalized. A zero axis yields the identity.
func Rotation(axis r3.Vec, angle float64) Transform {
	k := normalize(axis)
	if k == (r3.Vec{}) {
		return Identity()
	}
	// Rodrigues' rotation formula: R = cI + s[k]× + (1-c)kkᵀ.
	s, c := math.Sincos(angle)
	t := 1 - c
	return Transform{linear: [3][3]float64{
		{c + t*k.X*k.X, t*k.X*k.Y - s*k.Z, t*k.X*k.Z + s*k.Y},
		{t*k.Y*k.X + s*k.Z, c + t*k.Y*k.Y, t*k.Y*k.Z - s*k.X},
		{t*k.Z*k.X - s*k.Y, t*k.Z*k.Y + s*k.X, c + t*k.Z*k.Z},
	}}
}

// Mul returns the composition a∘b, which applies b first and then a.
func Mul(a, b Transform) Transform {
	var out Transform
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			out.linear[i][j] = a.linear[i][0]*b.linear[0][j] +
				a.linear[i][1]*b.linear[1][j] +
				a.linear[i][2]*b.linear[2][j]
		}
	}
	out.translation = r3.Add(a.Direction(b.translation), a.translation)
	return out
}

// Linear returns the row-major linear part of t.
func (t Transform) Linear() [3][3]float64 {
	return t.linear
}

// Translation returns the translation part of t.
func (t Transform) Translation() r3.Vec {
	return t.translation
}

// Matrix returns t as a row-major homogeneous 4×4 matrix.
func (t Transform) Matrix() [4][4]float64 {
	l, v := t.linear, t.translation
	return [4][4]float64{
		{l[0][0], l[0][1], l[0][2], v.X},
		{l[1][0], l[1][1], l[1][2], v.Y},
		{l[2][0], l[2][1], l[2][2], v.Z},
		{0, 0, 0, 1},
	}
}

// Point maps the point p by t.
func (t Transform) Point(p r3.Vec) r3.Vec {
	return r3.Add(t.Direction(p), t.translation)
}

// Direction maps the direction d by the linear part of t. Translation
// does not apply to directions.
func (t Transform) Direction(d r3.Vec) r3.Vec {
	return mulVec(&t.linear, d)
}

// Inverse returns the inverse of t. It returns an error wrapping
// ErrSingular if the linear part of t cannot be inverted.
func (t Transform) Inverse() (Transform, error) {
	inv, err := invert3(&t.linear)
	if err != nil {
		return Transform{}, err
	}
	out := Transform{linear: inv}
	out.translation = r3.Scale(-1, out.Direction(t.translation))
	return out, nil
}

// NormalMatrix returns the inverse-transpose of the linear part of t,
// which maps surface normals. If the linear part is singular, it
// returns the zero matrix, so mapped normals collapse to zero.
func (t Transform) NormalMatrix() [3][3]float64 {
	inv, err := invert3(&t.linear)
	if err != nil {
		return [3][3]float64{}
	}
	return transpose3(&inv)
}

// String formats t as a homogeneous 4×4 matrix.
func (t Transform) String() string {
	m := t.Matrix()
	data := make([]float64, 0, 16)
	for _, row := range m {
		data = append(data, row[:]...)
	}
	return fmt.Sprintf("%v", mat.Formatted(mat.NewDense(4, 4, data), mat.Squeeze()))
}

func mulVec(m *[3][3]float64, v r3.Vec) r3.Vec {
	return r3.Vec{
		X: m[0][0]*v.X + m[0][1]*v.Y + m[0][2]*v.Z,
		Y: m[1][0]*v.X + m[1][1]*v.Y + m[1][2]*v.Z,
		Z: m[2][0]*v.X + m[2][1]*v.Y + m[2][2]*v.Z,
	}
}

func transpose3(m *[3][3]float64) [3][3]float64 {
	var out [3][3]float64
	for i := range m {
		for j := range m[i] {
			out[j][i] = m[i][j]
		}
	}
	return out
}

func invert3(m *[3][3]float64) ([3][3]float64, error) {
	a := mat.NewDense(3, 3, []float64{
		m[0][0], m[0][1], m[0][2],
		m[1][0], m[1][1], m[1][2],
		m[2][0], m[2][1], m[2][2],
	})
	var inv mat.Dense
	if err := inv.Inverse(a); err != nil {
		// An ill-conditioned matrix still has a usable inverse; only
		// an exactly singular one does not.
		var cond mat.Condition
		if !errors.As(err, &cond) || math.IsInf(float64(cond), 1) {
			return [3][3]float64{}, fmt.Errorf("%w: %v", ErrSingular, err)
		}
	}
	var out [3][3]float64
	for i := range out {
		for j := range out[i] {
			out[i][j] = inv.At(i, j)
		}
	}
	return out, nil
}
