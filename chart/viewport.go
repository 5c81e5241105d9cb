package chart

import "math"

// ── viewport ──────────────────────────────────────────────────────────────────

const (
	// minVisible is the zoom-in floor in candles.
	minVisible = 10
	// defaultVisible is the trailing window shown after a full data load.
	defaultVisible = 100
	// zoomOutStep and zoomInStep are the per-wheel-tick factors.
	zoomOutStep = 1.1
	zoomInStep  = 1.0 / 1.1
)

// viewport is the visible fractional index range [start, end) into the
// candle array. It works purely in index space; pixel conversion happens
// in the scale layer, so this logic tests headlessly.
type viewport struct {
	start, end float64
}

func (v *viewport) width() float64 { return v.end - v.start }

// reset shows the trailing min(defaultVisible, n) candles.
func (v *viewport) reset(n int) {
	w := math.Min(defaultVisible, float64(n))
	v.end = float64(n)
	v.start = v.end - w
}

// tracking reports whether the viewport currently includes the live edge.
func (v *viewport) tracking(n int) bool {
	return v.end >= float64(n)-1e-9
}

// extend grows the live edge by one appended candle, keeping start put.
func (v *viewport) extend(n int) {
	v.end = float64(n)
	if v.start < 0 {
		v.start = 0
	}
}

// pan shifts the window by an index delta and clamps to [0, n] without
// changing the width.
func (v *viewport) pan(delta float64, n int) {
	v.start += delta
	v.end += delta
	v.clamp(n)
}

// zoom scales the width by factor (>1 widens, <1 narrows) keeping the
// given fractional index at the same relative position, then clamps the
// width to [minVisible, n] and the bounds to [0, n].
func (v *viewport) zoom(factor, anchor float64, n int) {
	w := v.width()
	if w <= 0 || n == 0 {
		return
	}
	nw := w * factor
	minW := math.Min(minVisible, float64(n))
	if nw < minW {
		nw = minW
	}
	if nw > float64(n) {
		nw = float64(n)
	}
	rel := (anchor - v.start) / w
	v.start = anchor - rel*nw
	v.end = v.start + nw
	v.clamp(n)
}

// clamp slides the window back inside [0, n], shrinking only when the
// width exceeds the data length.
func (v *viewport) clamp(n int) {
	fn := float64(n)
	w := v.width()
	if w > fn {
		v.start, v.end = 0, fn
		return
	}
	if v.start < 0 {
		v.start = 0
		v.end = w
	}
	if v.end > fn {
		v.end = fn
		v.start = fn - w
	}
	if v.start < 0 {
		v.start = 0
	}
}
