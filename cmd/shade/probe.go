package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/aclements/bvol"
	"gonum.org/v1/gonum/spatial/r3"
)

// Probe casts r through every obstacle in m and writes a table of the
// front and back hits.
func (m *ShadeModel) Probe(w io.Writer, r bvol.Ray) error {
	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
	fmt.Fprintf(tw, "obstacle\tquery\tdistance\tposition\tnormal\ttexcoord\n")
	for _, o := range m.Obstacles() {
		for _, q := range []struct {
			name  string
			query func(bvol.Ray) (bvol.Hit, bool)
		}{
			{"front", o.FrontIntersection},
			{"back", o.BackIntersection},
		} {
			h, ok := q.query(r)
			if !ok {
				fmt.Fprintf(tw, "%s\t%s\tmiss\t\t\t\n", o.Name(), q.name)
				continue
			}
			fmt.Fprintf(tw, "%s\t%s\t%.4g\t%s\t%s\t(%.3f, %.3f)\n",
				o.Name(), q.name, h.Distance, fmtVec(h.Position), fmtVec(h.Normal), h.TexCoord.X, h.TexCoord.Y)
		}
	}
	return tw.Flush()
}

func fmtVec(v r3.Vec) string {
	return fmt.Sprintf("(%.4g, %.4g, %.4g)", v.X, v.Y, v.Z)
}
