package main

import (
	"image/color"
	"time"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
)

// state classifies the direct light on the test point.
type state uint8

const (
	stateShade   state = iota // Blocked by a building, or night
	stateFoliage              // Blocked only by foliage
	stateSun                  // Unobstructed
)

func (l SunLight) state() state {
	switch {
	case l.Altitude < 0 || l.Light == 0:
		return stateShade
	case l.Foliage:
		return stateFoliage
	}
	return stateSun
}

var stateColors = map[state]color.Color{
	stateFoliage: color.RGBA{R: 40, G: 160, B: 40, A: 255},
	stateSun:     color.RGBA{R: 255, G: 255, B: 0, A: 255},
}

// RunsPlot plots contiguous stretches of sun and foliage shade as
// filled regions over day (X) and time of day (Y).
func (o *IntensityOverTime) RunsPlot() (*plot.Plot, error) {
	plt := o.newPlot("Direct sun")
	times := make([]time.Time, len(o.light))
	states := make([]state, len(o.light))
	for i, l := range o.light {
		times[i], states[i] = l.T, l.state()
	}
	for _, p := range tracePolys(toVisual(findChanges(times, states))) {
		poly, err := plotter.NewPolygon(p.xys...)
		if err != nil {
			return nil, err
		}
		poly.Color = stateColors[p.s]
		poly.LineStyle.Width = 0
		plt.Add(poly)
	}
	return plt, nil
}

// A change is a transition between states at time t.
type change struct {
	t             time.Time
	before, after state
}

// findChanges returns the state transitions in a time series. The
// series starts from state 0. A non-zero state that continues across
// midnight gets a no-op change at the start of the new day so every
// day's runs are closed.
func findChanges(times []time.Time, states []state) (changes []change) {
	for i, t := range times {
		if i == 0 {
			if states[0] != 0 {
				changes = append(changes, change{t, 0, states[0]})
			}
			continue
		}
		if states[i] != states[i-1] {
			changes = append(changes, change{t, states[i-1], states[i]})
		}
		if states[i] != 0 && !sameDay(times[i-1], t) {
			changes = append(changes, change{t, states[i], states[i]})
		}
	}
	return
}

// vChange is a [change] converted into "visual space": X is noon of its
// day in Unix seconds and Y its time of day. Working in visual space
// sidesteps DST shifts.
type vChange struct {
	change
	xy  plotter.XY
	day int // Day index
}

func toVisual(changes []change) []vChange {
	var base = time.Date(2000, 1, 1, 12, 0, 0, 0, time.UTC)
	vcs := make([]vChange, len(changes))
	for i, c := range changes {
		day, _ := splitTime(c.t)
		vcs[i] = vChange{
			change: c,
			xy:     plotter.XY{X: float64(day.Unix()), Y: float64(timeOfDay(c.t))},
			day:    int(day.Sub(base) / (24 * time.Hour)),
		}
	}
	return vcs
}

// overlaps returns whether the runs a1→a2 and b1→b2 are in the same
// state and overlap in time of day.
func overlaps(a1, a2, b1, b2 vChange) bool {
	if a1.after != a2.before || b1.after != b2.before {
		panic("bad change span")
	}
	if a1.after != b1.after {
		return false
	}
	return b1.xy.Y < a2.xy.Y && a1.xy.Y < b2.xy.Y
}

type poly struct {
	xys []plotter.XYer
	s   state
}

// polyTracer joins the per-day runs in a change list into polygon
// outlines.
//
// For all of this terminology, we assume we're in quadrant I of a
// cartesian system (so time increases going up and going right).
type polyTracer struct {
	cs []vChange

	// traced tracks which edge points we've traced the right side of
	// while moving in the +X direction.
	traced []bool
}

func tracePolys(cs []vChange) []*poly {
	pt := &polyTracer{cs: cs, traced: make([]bool, len(cs))}

	// Create one poly for each state. A poly can consist of several
	// paths.
	byState := make(map[state]*poly)
	var polys []*poly
	for i := range cs {
		// Don't trace state 0. This avoids creating a CCW trace around
		// the outside, and also avoids tracing any interior state 0
		// polygons, which are simply unnecessary.
		if pt.traced[i] || cs[i].before == 0 {
			continue
		}
		s := cs[i].before
		p := byState[s]
		if p == nil {
			p = &poly{s: s}
			byState[s] = p
			polys = append(polys, p)
		}
		p.xys = append(p.xys, pt.trace(i))
	}
	return polys
}

// trace traces one edge, starting at cs[start] in the +X direction. If
// you picture yourself walking the edge, it always follows the "right"
// side of the edge (for example, at a three-way intersection). The
// result is a clockwise edge for the outside of a polygon and a
// counter-clockwise edge for a hole.
func (pt *polyTracer) trace(start int) plotter.XYs {
	cs := pt.cs
	var xys plotter.XYs
	dir := 1
	for i := start; len(xys) == 0 || i != start; {
		xys = append(xys, cs[i].xy)
		if dir == 1 {
			// We only record when we're moving right. If you picture
			// two concentric circles, this means we'll do three traces:
			// the two outer edges in CW order and the inner edge (a
			// second time) in CCW order.
			pt.traced[i] = true
			i, dir = pt.stepRight(i)
		} else {
			i, dir = pt.stepLeft(i)
		}
	}
	return xys
}

// stepRight finds the point after cs[i] when walking in +X.
func (pt *polyTracer) stepRight(i int) (int, int) {
	cs := pt.cs
	// Find the latest overlapping run on the next day.
	best := -1
	for j := i + 1; j < len(cs) && cs[j].day <= cs[i].day+1; j++ {
		if cs[j].day == cs[i].day+1 && overlaps(cs[i-1], cs[i], cs[j-1], cs[j]) {
			best = j
		}
	}
	if best == -1 {
		// Follow this edge down and reverse direction.
		return i - 1, -1
	}
	// See if we can bend even further to the left, into a
	// direction-reversing concavity. E.g., are we coming from X:
	//
	//    \
	//     \
	//    X
	//    /
	if i+1 < len(cs) && cs[i+1].day == cs[i].day && cs[best-1].xy.Y < cs[i+1].xy.Y && cs[i+1].xy.Y < cs[best].xy.Y {
		return i + 1, -1
	}
	return best, 1
}

// stepLeft finds the point after cs[i] when walking in -X.
func (pt *polyTracer) stepLeft(i int) (int, int) {
	cs := pt.cs
	// Find the earliest overlapping run on the previous day.
	best := -1
	for j := i - 1; j >= 0 && cs[j].day >= cs[i].day-1; j-- {
		if cs[j].day == cs[i].day-1 && overlaps(cs[i], cs[i+1], cs[j], cs[j+1]) {
			best = j
		}
	}
	if best == -1 {
		// Follow this edge up and reverse direction.
		return i + 1, 1
	}
	if i > 0 && cs[i-1].day == cs[i].day && cs[best].xy.Y < cs[i-1].xy.Y && cs[i-1].xy.Y < cs[best+1].xy.Y {
		return i - 1, 1
	}
	return best, -1
}
