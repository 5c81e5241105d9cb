package chart

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestViewportReset(t *testing.T) {
	var v viewport

	v.reset(500)
	require.Equal(t, 400.0, v.start)
	require.Equal(t, 500.0, v.end)

	v.reset(30)
	require.Equal(t, 0.0, v.start)
	require.Equal(t, 30.0, v.end)

	v.reset(0)
	require.Equal(t, 0.0, v.width())
}

func TestPanBoundary(t *testing.T) {
	var v viewport
	v.reset(200)

	// No sequence of pans may push start below 0 or end past the data.
	deltas := []float64{-50, -500, 30, 1000, -3, 7, -99999, 99999}
	for _, d := range deltas {
		v.pan(d, 200)
		require.GreaterOrEqual(t, v.start, 0.0)
		require.LessOrEqual(t, v.end, 200.0)
		require.InDelta(t, 100.0, v.width(), 1e-9)
	}
}

func TestPanAcrossFullRange(t *testing.T) {
	var v viewport
	v.reset(150)

	v.pan(-1000, 150)
	require.Equal(t, 0.0, v.start)
	require.Equal(t, 100.0, v.end)

	v.pan(1000, 150)
	require.Equal(t, 50.0, v.start)
	require.Equal(t, 150.0, v.end)
}

func TestZoomMonotonicity(t *testing.T) {
	var v viewport
	v.reset(300)

	prev := v.width()
	for i := 0; i < 100; i++ {
		v.zoom(zoomInStep, (v.start+v.end)/2, 300)
		w := v.width()
		if prev > minVisible+1e-9 {
			require.Less(t, w, prev)
		} else {
			// At the floor further zoom-in is a no-op.
			require.InDelta(t, minVisible, w, 1e-9)
		}
		require.GreaterOrEqual(t, w, float64(minVisible)-1e-9)
		prev = w
	}
	require.InDelta(t, minVisible, v.width(), 1e-9)
}

func TestZoomOutClampsToData(t *testing.T) {
	var v viewport
	v.reset(120)

	for i := 0; i < 50; i++ {
		v.zoom(zoomOutStep, v.start+v.width()/2, 120)
	}
	require.Equal(t, 0.0, v.start)
	require.Equal(t, 120.0, v.end)
}

func TestZoomAnchorStaysFixed(t *testing.T) {
	var v viewport
	v.reset(1000)
	v.start, v.end = 300, 500

	anchor := 350.0 // quarter of the way in
	relBefore := (anchor - v.start) / v.width()
	v.zoom(zoomInStep, anchor, 1000)
	relAfter := (anchor - v.start) / v.width()
	require.InDelta(t, relBefore, relAfter, 1e-9)
}

func TestZoomSmallDataset(t *testing.T) {
	var v viewport
	v.reset(4)

	// With fewer candles than the usual floor, the floor is the dataset.
	v.zoom(zoomInStep, 2, 4)
	require.Equal(t, 0.0, v.start)
	require.Equal(t, 4.0, v.end)
}

func TestZoomDriftBounded(t *testing.T) {
	var v viewport
	v.reset(5000)
	v.start, v.end = 2000, 3000

	anchor := 2300.0
	s0, w0 := v.start, v.width()
	for i := 0; i < 400; i++ {
		v.zoom(zoomInStep, anchor, 5000)
		v.zoom(zoomOutStep, anchor, 5000)
	}
	require.InDelta(t, s0, v.start, 1e-6)
	require.InDelta(t, w0, v.width(), 1e-6)
	require.Less(t, math.Abs(v.width()-w0)/w0, 1e-9)
}

func TestTrackingAndExtend(t *testing.T) {
	var v viewport
	v.reset(50)
	require.True(t, v.tracking(50))

	v.extend(51)
	require.Equal(t, 51.0, v.end)
	require.Equal(t, 0.0, v.start)

	// A window panned away from the live edge stops tracking, and
	// panning back to the edge resumes it.
	v.start, v.end = 10, 40
	require.False(t, v.tracking(51))
	v.pan(100, 51)
	require.True(t, v.tracking(51))
}
