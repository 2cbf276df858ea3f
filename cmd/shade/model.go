package main

import (
	"context"
	"fmt"
	"image/color"
	"log"
	"time"

	"gonum.org/v1/gonum/spatial/r3"
	"gonum.org/v1/plot"
)

// A ShadeModel computes the sun exposure on a test point among a set of
// obstacles.
//
// The coordinate system is as follows:
//
//	Z/up
//	|  Y/north
//	| /
//	|/____ X/east
type ShadeModel struct {
	lat, lon float64

	elevationFeet float64

	layers []*shadeLayer
}

// NewShadeModel returns a shade model where the origin is at the given
// latitude, longitude, and elevation. Latitude and longitude are in
// degrees, where north and east are positive, respectively. Elevation
// is in feet.
func NewShadeModel(latitude, longitude float64, elevationFeet float64) *ShadeModel {
	return &ShadeModel{
		lat:           latitude,
		lon:           longitude,
		elevationFeet: elevationFeet,
	}
}

type shadeLayer struct {
	obstacle Obstacle
	foliage  bool

	// transmissivity returns the transmissivity of this layer on the
	// given date in a range of 0 to 1. For a fully opaque layer, this
	// returns 0. For foliage, this varies over the year.
	transmissivity func(date time.Time) float64
}

// AddBuilding adds an opaque obstacle.
func (m *ShadeModel) AddBuilding(o Obstacle) {
	m.layers = append(m.layers, &shadeLayer{o, false, func(time.Time) float64 { return 0 }})
}

// AddFoliage adds a tree canopy whose transmissivity follows the
// seasons.
func (m *ShadeModel) AddFoliage(o Obstacle) {
	m.layers = append(m.layers, &shadeLayer{o, true, foliageTransmissivity})
}

func foliageTransmissivity(date time.Time) float64 {
	// Based on Transmissivity of solar radiation through crowns of
	// single urban trees—application for outdoor thermal comfort
	// modelling. Konarska, et al.
	//
	// Foliated and defoliated trees have ~5% and ~50%
	// transmissivity, respectively. Use the meteorological seasons
	// to interpolate between these.
	//
	// TODO: This assumes northern hemisphere, and mid-latitudes at
	// that.
	day := date.YearDay()
	const (
		// Assume a normal year. This is all approximate anyway.
		Feb28 = 59
		May31 = 151
		Aug31 = 243
		Nov30 = 334
	)
	switch {
	default: // Winter
		return 0.5
	case day <= Feb28: // Winter
		return 0.5
	case day <= May31: // Spring
		return 0.5 + float64(day-Feb28)/(May31-Feb28)*(0.05-0.5)
	case day <= Aug31: // Summer
		return 0.05
	case day <= Nov30: // Fall
		return 0.05 + float64(day-Aug31)/(Nov30-Aug31)*(0.5-0.05)
	}
}

// Obstacles returns the obstacles in the order they were added.
func (m *ShadeModel) Obstacles() []Obstacle {
	obs := make([]Obstacle, len(m.layers))
	for i, l := range m.layers {
		obs[i] = l.obstacle
	}
	return obs
}

type IntensityOverTime struct {
	light []SunLight

	elevationFeet float64
	increment     time.Duration
}

// yearTimes returns the sample times of year in loc, every increment.
func yearTimes(year int, increment time.Duration, loc *time.Location) []time.Time {
	var times []time.Time
	t := time.Date(year, 1, 1, 0, 0, 0, 0, loc)
	for t.Year() == year {
		times = append(times, t)
		t = t.Add(increment)
	}
	return times
}

// IntensityOverYear traces the sun from testPos every increment over
// year. Results are loaded from and saved to cache when it is non-nil.
func (m *ShadeModel) IntensityOverYear(ctx context.Context, cache *Cache, year int, increment time.Duration, testPos r3.Vec) (*IntensityOverTime, error) {
	// TODO: If I compute my own sun positions, I can skip the times
	// below the horizon entirely.
	times := yearTimes(year, increment, time.Local)

	keyArgs := []any{m.lat, m.lon, testPos, times}
	for _, l := range m.layers {
		keyArgs = append(keyArgs, l.obstacle.cacheKey(), l.foliage)
	}
	ck, err := MakeCacheKey(keyArgs...)
	if err != nil {
		return nil, err
	}
	var light []SunLight
	hit, err := cache.Load(ck, &light)
	if err != nil {
		log.Printf("loading cached sun light: %s", err)
	}
	if !hit {
		light, err = m.computeSunLight(ctx, testPos, times)
		if err != nil {
			return nil, err
		}
		if err := cache.Save(ck, light); err != nil {
			log.Printf("saving sun light to cache: %s", err)
		}
	}

	return &IntensityOverTime{light, m.elevationFeet, increment}, nil
}

func (o *IntensityOverTime) newPlot(title string) *plot.Plot {
	plt := plot.New()
	plt.Title.Text = title
	plt.X.Tick.Marker = dayOfYearTicks{}
	plt.Y.Tick.Marker = timeOfDayTicks{targetTicks: 8}
	plt.BackgroundColor = color.Black
	for _, elt := range []*color.Color{
		&plt.Title.TextStyle.Color,
		&plt.X.Color,
		&plt.X.Tick.Color,
		&plt.X.Tick.Label.Color,
		&plt.X.Label.TextStyle.Color,
		&plt.Y.Color,
		&plt.Y.Tick.Color,
		&plt.Y.Tick.Label.Color,
		&plt.Y.Label.TextStyle.Color,
	} {
		*elt = color.White
	}
	return plt
}

// SunHours returns the hours of unobstructed sun on each day, in order.
func (o *IntensityOverTime) SunHours() (days []time.Time, hours []time.Duration) {
	for _, l := range o.light {
		day, _ := splitTime(l.T)
		if len(days) == 0 || !days[len(days)-1].Equal(day) {
			days = append(days, day)
			hours = append(hours, 0)
		}
		if l.state() == stateSun {
			hours[len(hours)-1] += o.increment
		}
	}
	return
}

func (o *IntensityOverTime) String() string {
	days, hours := o.SunHours()
	var total time.Duration
	for _, h := range hours {
		total += h
	}
	return fmt.Sprintf("%d samples over %d days, %s of direct sun", len(o.light), len(days), total)
}

var splitTimeDay = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)

// splitTime splits t into day and time of day. For the day, we put it
// at noon to "center" it on that date. In all cases, we put the result
// in UTC since that's the time zone gonum will render it in and it
// avoids further complications with DST.
func splitTime(t time.Time) (day, tod time.Time) {
	day = time.Date(t.Year(), t.Month(), t.Day(), 12, 0, 0, 0, time.UTC)
	tod = time.Date(2000, 1, 1, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
	return
}

// timeOfDay returns t's offset from midnight in its own location.
func timeOfDay(t time.Time) time.Duration {
	_, tod := splitTime(t)
	return tod.Sub(splitTimeDay)
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}
