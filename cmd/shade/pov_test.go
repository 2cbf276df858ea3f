package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/aclements/bvol"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestPOVVec(t *testing.T) {
	assert.Equal(t, "<1, 3, 2>", povVec(r3.Vec{X: 1, Y: 2, Z: 3}))
}

func TestPOVMatrix(t *testing.T) {
	for _, test := range []struct {
		t    bvol.Transform
		want string
	}{
		{bvol.Identity(), "<1, 0, 0, 0, 1, 0, 0, 0, 1, 0, 0, 0>"},
		{bvol.Translation(r3.Vec{X: 1, Y: 2, Z: 3}), "<1, 0, 0, 0, 1, 0, 0, 0, 1, 1, 3, 2>"},
		{bvol.Scaling(r3.Vec{X: 1, Y: 2, Z: 3}), "<1, 0, 0, 0, 3, 0, 0, 0, 2, 0, 0, 0>"},
		// Shear model X by model Y: x' = x + 5y. In POV-Ray axes model Y
		// is the third axis, so the entry lands in the third row.
		{bvol.NewTransform([3][3]float64{{1, 5, 0}, {0, 1, 0}, {0, 0, 1}}, r3.Vec{}), "<1, 0, 0, 0, 1, 0, 5, 0, 1, 0, 0, 0>"},
	} {
		assert.Equal(t, test.want, povMatrix(test.t))
	}
}

func povTestModel(t *testing.T) *ShadeModel {
	t.Helper()
	m := NewShadeModel(testLat, testLon, 0)
	m.AddBuilding(mustBox(t, "garage", bvol.NewBox(r3.Vec{X: 100}, r3.Vec{X: 200, Y: 50, Z: 80}), bvol.Identity()))
	tree, err := NewSphereObstacle("maple", bvol.NewSphere(r3.Vec{Z: 200}, 100), bvol.Scaling(r3.Vec{X: 1, Y: 1, Z: 2}))
	require.NoError(t, err)
	m.AddFoliage(tree)
	m.AddBuilding(NewMeshObstacle("house", readCube(t), bvol.Identity()))
	return m
}

func TestWritePOV(t *testing.T) {
	m := povTestModel(t)
	var buf bytes.Buffer
	require.NoError(t, m.WritePOV(&buf, r3.Vec{Z: 96}, r3.Vec{X: -240, Y: -240, Z: 120}, solsticeNoon))
	src := buf.String()

	for _, want := range []string{
		"#declare TestPos = <0, 96, 0>;",
		"location TestPos + <-240, 120, -240>",
		"light_source {",
		"// garage\nbox {\n\t<100, 0, 0>, <200, 80, 50>\n\ttexture { pigment { color White } }\n}",
		"// maple\nsphere {\n\t<0, 200, 0>, 100\n\tmatrix <1, 0, 0, 0, 2, 0, 0, 0, 1, 0, 0, 0>\n\ttexture { pigment { color ForestGreen } }\n}",
		"// house\nmesh2 {",
		"\t\t8,\n",
		"\t\t12,\n",
	} {
		assert.Contains(t, src, want)
	}
	assert.Equal(t, strings.Count(src, "{"), strings.Count(src, "}"), "balanced braces")

	buf.Reset()
	require.NoError(t, m.WritePOV(&buf, r3.Vec{}, r3.Vec{X: 1}, solsticeNoon.Add(-12*time.Hour)))
	assert.NotContains(t, buf.String(), "light_source", "no sun at night")
}
