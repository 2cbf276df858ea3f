package main

import (
	"image/color"
	"time"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
)

// HeatMap plots global intensity by day (X) and time of day (Y).
func (o *IntensityOverTime) HeatMap() *plot.Plot {
	plt := o.newPlot("Global intensity (W/m²)")
	grid := o.intensityGrid()
	if grid == nil {
		return plt
	}

	pal := palette.Heat(256, 1)
	hm := plotter.NewHeatMap(grid, pal)
	hm.Underflow = color.Black
	hm.Rasterized = true
	plt.Add(hm)

	return plt
}

// intensityGrid lays out the samples on a day by time-of-day grid. The
// columns start at the first day, and the rows are narrowed to the
// times of day when the sun is ever up. It returns nil if the sun never
// rises.
func (o *IntensityOverTime) intensityGrid() *sunIntensityGrid {
	if len(o.light) == 0 {
		return nil
	}

	type cell struct {
		intensity float64
		col, row  int
	}

	startDay, _ := splitTime(o.light[0].T)
	cMax, rMin, rMax := 0, -1, -1
	cells := make([]cell, len(o.light))
	for i, sun := range o.light {
		c := &cells[i]
		day, _ := splitTime(sun.T)
		c.intensity = sun.GlobalIntensity(o.elevationFeet)
		c.col = int(day.Sub(startDay) / (24 * time.Hour))
		c.row = int(timeOfDay(sun.T) / o.increment)
		cMax = max(cMax, c.col)
		if c.intensity > 0 {
			if rMin < 0 || c.row < rMin {
				rMin = c.row
			}
			rMax = max(rMax, c.row)
		}
	}
	if rMin < 0 {
		return nil
	}

	intensity := make([][]float64, cMax+1)
	for i := range intensity {
		intensity[i] = make([]float64, rMax-rMin+1)
	}
	for _, c := range cells {
		if c.row < rMin || c.row > rMax {
			continue
		}
		intensity[c.col][c.row-rMin] = c.intensity
	}
	return &sunIntensityGrid{intensity, startDay, time.Duration(rMin) * o.increment, o.increment}
}

// sunIntensityGrid is a plotter.GridXYZ. X values are Unix seconds of
// noon on each day and Y values are time.Durations since midnight.
type sunIntensityGrid struct {
	intensity [][]float64
	startDay  time.Time
	startTOD  time.Duration
	increment time.Duration
}

func (si *sunIntensityGrid) Dims() (c, r int) {
	if len(si.intensity) == 0 {
		return 0, 0
	}
	return len(si.intensity), len(si.intensity[0])
}

func (si *sunIntensityGrid) Z(c, r int) float64 {
	return si.intensity[c][r]
}

func (si *sunIntensityGrid) X(c int) float64 {
	t := si.startDay.Add(time.Duration(c) * (24 * time.Hour))
	return float64(t.Unix())
}

func (si *sunIntensityGrid) Y(r int) float64 {
	return float64(si.startTOD + time.Duration(r)*si.increment)
}

func (si *sunIntensityGrid) Min() float64 {
	// Return 1 rather than 0 so that the "0" value when the sun isn't
	// in the sky renders in the underflow color.
	return 1
}

func (si *sunIntensityGrid) Max() float64 {
	// Solar radiation at sea level on the equator at noon.
	//
	// TODO: It's higher at higher elevations. Maybe I should just let
	// gonum find the max?
	return 1042
}

// HoursPlot plots the hours of unobstructed sun on each day.
func (o *IntensityOverTime) HoursPlot() (*plot.Plot, error) {
	plt := o.newPlot("Direct sun per day")
	plt.X.Tick.Marker = solsticeTicks{}
	plt.Y.Tick.Marker = durationTicks{targetTicks: 6}
	plt.Y.Min = 0

	days, hours := o.SunHours()
	xys := make(plotter.XYs, len(days))
	for i := range days {
		xys[i] = plotter.XY{X: float64(days[i].Unix()), Y: float64(hours[i])}
	}
	line, err := plotter.NewLine(xys)
	if err != nil {
		return nil, err
	}
	line.Color = color.RGBA{R: 255, G: 255, B: 0, A: 255}
	plt.Add(line)
	return plt, nil
}
