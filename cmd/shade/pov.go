package main

import (
	"bytes"
	"fmt"
	"io"
	"text/template"
	"time"

	"github.com/aclements/bvol"
	"gonum.org/v1/gonum/spatial/r3"
)

// POV-Ray is Y-up and left-handed. Swapping Y and Z maps the model frame
// onto it:
//
//	blue/Y
//	  |  green/Z/North
//	  | /
//	  |/____ red/X
var povAxes = [3]int{0, 2, 1}

// povSunDistance is how far along the sun ray the light source is
// placed.
const povSunDistance = 1e7

type povScene struct {
	TestPos      string
	CameraOffset string
	Sun          string // Empty if the sun is down
	Time         string
}

// WritePOV writes a POV-Ray scene showing m's obstacles, the test point
// with its compass axes, and the sun at time t. Rendering it is left to
// the caller.
func (m *ShadeModel) WritePOV(w io.Writer, testPos, cameraOffset r3.Vec, t time.Time) error {
	var buf bytes.Buffer
	scene := povScene{
		TestPos:      povVec(testPos),
		CameraOffset: povVec(cameraOffset),
		Time:         t.Format(time.RFC3339),
	}
	if sun := GetSunPos(t, m.lat, m.lon); sun.Altitude >= 0 {
		scene.Sun = povVec(sun.Ray(testPos).Along(povSunDistance))
	}
	if err := povSceneTemplate.Execute(&buf, &scene); err != nil {
		return fmt.Errorf("writing POV-Ray input: %w", err)
	}
	for _, l := range m.layers {
		color := "White"
		if l.foliage {
			color = "ForestGreen"
		}
		fmt.Fprintf(&buf, "// %s\n", l.obstacle.Name())
		if err := writePOVObject(&buf, l.obstacle, color); err != nil {
			return err
		}
	}
	_, err := w.Write(buf.Bytes())
	return err
}

func writePOVObject(buf *bytes.Buffer, o Obstacle, color string) error {
	switch o := o.(type) {
	case *boxObstacle:
		fmt.Fprintf(buf, "box {\n\t%s, %s\n", povVec(o.box.Lower), povVec(o.box.Higher))
		writePOVPlacement(buf, o.placement)
	case *sphereObstacle:
		fmt.Fprintf(buf, "sphere {\n\t%s, %v\n", povVec(o.sphere.Center()), o.sphere.Radius())
		writePOVPlacement(buf, o.placement)
	case *meshObstacle:
		writePOVMesh(buf, o.mesh)
	default:
		return fmt.Errorf("no POV-Ray form for obstacle %q (%T)", o.Name(), o)
	}
	fmt.Fprintf(buf, "\ttexture { pigment { color %s } }\n}\n", color)
	return nil
}

func writePOVPlacement(buf *bytes.Buffer, p placement) {
	if !p.identity {
		fmt.Fprintf(buf, "\tmatrix %s\n", povMatrix(p.world))
	}
}

// writePOVMesh writes the opening and geometry of a mesh2 object.
func writePOVMesh(buf *bytes.Buffer, m *Mesh) {
	fmt.Fprintf(buf, "mesh2 {\n")
	fmt.Fprintf(buf, "\tvertex_vectors {\n")
	fmt.Fprintf(buf, "\t\t%d,\n", len(m.Verts))
	for i := range m.Verts {
		fmt.Fprintf(buf, "\t\t%s,\n", povVec(m.Vert(i)))
	}
	fmt.Fprintf(buf, "\t}\n")
	fmt.Fprintf(buf, "\tface_indices {\n")
	fmt.Fprintf(buf, "\t\t%d,\n", len(m.Tris))
	for _, tri := range m.Tris {
		fmt.Fprintf(buf, "\t\t<%d, %d, %d>,\n", tri[0], tri[1], tri[2])
	}
	fmt.Fprintf(buf, "\t}\n")
}

func povVec(v r3.Vec) string {
	c := [3]float64{v.X, v.Y, v.Z}
	return fmt.Sprintf("<%v, %v, %v>", c[povAxes[0]], c[povAxes[1]], c[povAxes[2]])
}

// povMatrix returns t as a POV-Ray matrix in POV-Ray's axes. POV-Ray
// multiplies row vectors, so the linear part is written transposed with
// the translation as the last row.
func povMatrix(t bvol.Transform) string {
	l := t.Linear()
	tr := t.Translation()
	trc := [3]float64{tr.X, tr.Y, tr.Z}
	var vals []any
	for c := 0; c < 3; c++ {
		for r := 0; r < 3; r++ {
			vals = append(vals, l[povAxes[r]][povAxes[c]])
		}
	}
	for _, a := range povAxes {
		vals = append(vals, trc[a])
	}
	return fmt.Sprintf("<%v, %v, %v, %v, %v, %v, %v, %v, %v, %v, %v, %v>", vals...)
}

var povSceneTemplate = template.Must(template.New("").Parse(`// Sun at {{.Time}}
#include "colors.inc"

#declare TestPos = {{.TestPos}};

global_settings {
	ambient_light 0
	radiosity {
		pretrace_start 0.08
		pretrace_end   0.01
		count 120
		error_bound 0.25
		recursion_limit 1
	}
	assumed_gamma 1.0
}

sky_sphere{
	pigment{ gradient y
	color_map{
		[0.0 color rgb<1,1,1> ]
		[0.3 color rgb<0.18,0.28,0.75>*0.8]
		[1.0 color rgb<0.15,0.28,0.75>*0.5]}
		scale 1.05
		translate<0,-0.05,0>
	}
}

camera {
	location TestPos + {{.CameraOffset}}
	look_at TestPos
}
{{if .Sun}}
light_source {
	{{.Sun}}
	color White
}
{{end}}
sphere {
	TestPos, 6
	texture { pigment { color Green }}
}

// These colors match SketchUp
cylinder {
	TestPos, TestPos + <3*12,0,0>, 3
	texture { pigment { color Red }}
}
cylinder {
	TestPos, TestPos + <0,3*12,0>, 3
	texture { pigment { color Blue }}
}
cylinder {
	TestPos, TestPos + <0,0,3*12>, 3
	texture { pigment { color Green }}
}
text {
	ttf "cyrvetic.ttf" "N" 1, 0
	pigment { Green }
	scale <2*12, 2*12, 1>
	rotate <0, -90, 0>
	translate TestPos + <0, 0, 3*12 + 6>
}

`))
