package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// hourly returns hourly samples over days days starting at midnight UTC
// on March 1, 2022, with state s from hour on to hour off each day.
func hourly(days, on, off int, s state) ([]time.Time, []state) {
	start := time.Date(2022, 3, 1, 0, 0, 0, 0, time.UTC)
	var times []time.Time
	var states []state
	for h := 0; h < 24*days; h++ {
		times = append(times, start.Add(time.Duration(h)*time.Hour))
		st := stateShade
		if hod := h % 24; on <= hod && hod < off {
			st = s
		}
		states = append(states, st)
	}
	return times, states
}

func TestFindChanges(t *testing.T) {
	times, states := hourly(2, 10, 14, stateSun)
	changes := findChanges(times, states)
	require.Len(t, changes, 4)
	assert.Equal(t, change{times[10], stateShade, stateSun}, changes[0])
	assert.Equal(t, change{times[14], stateSun, stateShade}, changes[1])
	assert.Equal(t, change{times[34], stateShade, stateSun}, changes[2])

	// Sun across midnight, as in a polar summer.
	times, states = hourly(2, 0, 24, stateSun)
	changes = findChanges(times, states)
	require.Len(t, changes, 2)
	assert.Equal(t, change{times[0], stateShade, stateSun}, changes[0])
	assert.Equal(t, change{times[24], stateSun, stateSun}, changes[1])
}

func TestTracePolys(t *testing.T) {
	times, states := hourly(3, 10, 14, stateSun)
	polys := tracePolys(toVisual(findChanges(times, states)))
	require.Len(t, polys, 1)
	p := polys[0]
	assert.Equal(t, stateSun, p.s)
	require.Len(t, p.xys, 1)

	outline := p.xys[0]
	require.Equal(t, 6, outline.Len())
	day0, _ := splitTime(times[0])
	day2, _ := splitTime(times[48])
	// Clockwise from the top of the first day.
	for i, want := range []struct {
		day time.Time
		tod time.Duration
	}{
		{day0, 14 * time.Hour},
		{day0.Add(24 * time.Hour), 14 * time.Hour},
		{day2, 14 * time.Hour},
		{day2, 10 * time.Hour},
		{day0.Add(24 * time.Hour), 10 * time.Hour},
		{day0, 10 * time.Hour},
	} {
		x, y := outline.XY(i)
		assert.Equal(t, float64(want.day.Unix()), x, "point %d", i)
		assert.Equal(t, float64(want.tod), y, "point %d", i)
	}
}

func TestTracePolysStates(t *testing.T) {
	// Foliage shade in the morning, sun in the afternoon.
	times, states := hourly(2, 8, 16, stateSun)
	for i, tm := range times {
		if states[i] == stateSun && tm.Hour() < 12 {
			states[i] = stateFoliage
		}
	}
	polys := tracePolys(toVisual(findChanges(times, states)))
	require.Len(t, polys, 2)
	got := map[state]int{}
	for _, p := range polys {
		got[p.s] = len(p.xys)
	}
	assert.Equal(t, map[state]int{stateFoliage: 1, stateSun: 1}, got)
}

func TestSunLightState(t *testing.T) {
	for _, test := range []struct {
		l    SunLight
		want state
	}{
		{SunLight{SunPos: SunPos{Altitude: -5}}, stateShade},
		{SunLight{SunPos: SunPos{Altitude: 30}}, stateShade},
		{SunLight{SunPos: SunPos{Altitude: 30}, Light: 0.05, Foliage: true}, stateFoliage},
		{SunLight{SunPos: SunPos{Altitude: 30}, Light: 1}, stateSun},
	} {
		assert.Equal(t, test.want, test.l.state(), "%+v", test.l)
	}
}
