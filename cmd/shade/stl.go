package main

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/aclements/bvol"
	"gonum.org/v1/gonum/spatial/r3"
)

// A Mesh is an indexed triangle mesh. Vertices shared between
// triangles are stored once.
type Mesh struct {
	Header string

	Verts [][3]float32
	Tris  [][3]int
}

// ReadSTLFile reads a binary STL file.
func ReadSTLFile(path string) (*Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	m, err := ReadSTL(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// ReadSTL reads a binary STL stream. Facet normals in the stream are
// ignored.
func ReadSTL(r io.Reader) (*Mesh, error) {
	m := new(Mesh)

	var header struct {
		H    [80]byte
		NTri uint32
	}
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return nil, fmt.Errorf("reading STL header: %w", err)
	}
	m.Header = strings.TrimRight(string(header.H[:]), " \x00")

	vertMap := make(map[[3]float32]int)

	var vert [3]float32
	var tri [3]int
	const (
		normalSize = 3 * 4
		facetSize  = normalSize + 3*3*4 + 2 // normal, vertexes, attribute count
	)
	buf := make([]byte, facetSize)
	for i := 0; i < int(header.NTri); i++ {
		if _, err := io.ReadFull(r, buf); err != nil {
			return nil, fmt.Errorf("reading STL facet %d of %d: %w", i, header.NTri, err)
		}
		for v := range tri {
			for c := range vert {
				vert[c] = math.Float32frombits(binary.LittleEndian.Uint32(buf[normalSize+12*v+4*c:]))
			}
			idx, ok := vertMap[vert]
			if !ok {
				idx = len(m.Verts)
				m.Verts = append(m.Verts, vert)
				vertMap[vert] = idx
			}
			tri[v] = idx
		}
		m.Tris = append(m.Tris, tri)
	}

	return m, nil
}

// Vert returns vertex i as a vector.
func (m *Mesh) Vert(i int) r3.Vec {
	v := m.Verts[i]
	return r3.Vec{X: float64(v[0]), Y: float64(v[1]), Z: float64(v[2])}
}

// Triangle returns triangle i.
func (m *Mesh) Triangle(i int) r3.Triangle {
	var tri r3.Triangle
	for j, idx := range m.Tris[i] {
		tri[j] = m.Vert(idx)
	}
	return tri
}

// Bounds returns the axis-aligned bounding box of m's vertices.
func (m *Mesh) Bounds() bvol.Box {
	b := bvol.InvalidBox()
	for i := range m.Verts {
		b = b.Add(m.Vert(i))
	}
	return b
}

// Transformed returns a copy of m with every vertex mapped by t.
func (m *Mesh) Transformed(t bvol.Transform) *Mesh {
	out := &Mesh{
		Header: m.Header,
		Verts:  make([][3]float32, len(m.Verts)),
		Tris:   append([][3]int(nil), m.Tris...),
	}
	for i := range m.Verts {
		p := t.Point(m.Vert(i))
		out.Verts[i] = [3]float32{float32(p.X), float32(p.Y), float32(p.Z)}
	}
	return out
}
