package chart

import (
	"fmt"
	"math"
	"time"

	"github.com/altanbat/candleterm/model/candle"
)

// ── geometry & mappings ───────────────────────────────────────────────────────

const (
	// pricePad is the fraction of the visible span padded on each side.
	pricePad = 0.05
	// minPriceSpan substitutes for a zero-width price range.
	minPriceSpan = 1.0
	// priceGridRows is the horizontal gridline count.
	priceGridRows = 5
	// volumeCap keeps the tallest volume bar below the pane ceiling.
	volumeCap = 0.8
)

// scale is the per-frame geometry: pane rectangles plus the affine maps
// between data coordinates and cells. It is derived from the current
// canvas size, options, viewport and visible candles, and is thrown away
// after the frame.
type scale struct {
	w, h int

	plotX, plotY int // price pane
	plotW, plotH int
	volY, volH   int // volume pane, volH == 0 when hidden
	axisX, axisW int // right label gutter
	sepY         int // separator row, -1 when absent
	timeY        int // time label row, -1 when absent

	start float64 // viewport copy
	slot  float64 // cells per candle
	first int     // store index of vis[0]

	min, max float64 // padded price range
	volMax   float64
}

// buildScale lays out the panes and derives the mappings. vis and first
// come from the series window for the viewport.
func buildScale(o Options, w, h int, vp viewport, vis []candle.Candle, first int) *scale {
	s := &scale{w: w, h: h, start: vp.start, first: first, sepY: -1, timeY: -1}

	innerX := o.Padding.Left
	innerY := o.Padding.Top
	innerW := w - o.Padding.Left - o.Padding.Right
	innerH := h - o.Padding.Top - o.Padding.Bottom
	if innerW < 1 {
		innerX, innerW = 0, w
	}
	if innerH < 1 {
		innerY, innerH = 0, h
	}

	s.min, s.max = paddedRange(vis)
	s.volMax = volumeMax(vis)

	// Right gutter sized to the widest label it will carry.
	s.axisW = axisWidth(s.min, s.max)
	if s.axisW > innerW/2 {
		s.axisW = innerW / 2
	}
	s.plotX = innerX
	s.plotW = innerW - s.axisW
	if s.plotW < 1 {
		s.plotW = 1
		s.axisW = innerW - 1
	}
	s.axisX = s.plotX + s.plotW

	// Bottom rows: separator plus time labels when there is room.
	rows := innerH
	if rows >= 6 {
		s.timeY = innerY + innerH - 1
		s.sepY = s.timeY - 1
		rows -= 2
	}

	if o.showVolume() && rows >= 5 {
		s.volH = int(math.Round(float64(rows) * o.VolumeHeight))
		if s.volH < 2 {
			s.volH = 2
		}
		if s.volH > rows-2 {
			s.volH = rows - 2
		}
	}
	s.plotY = innerY
	s.plotH = rows - s.volH
	if s.plotH < 1 {
		s.plotH = 1
	}
	s.volY = s.plotY + s.plotH

	width := vp.width()
	if width <= 0 {
		width = 1
	}
	s.slot = float64(s.plotW) / width
	return s
}

// paddedRange is the visible [min(low), max(high)] padded by 5% per side,
// or a fixed unit span centered on the price when the range is flat.
func paddedRange(vis []candle.Candle) (lo, hi float64) {
	lo, hi, ok := priceRange(vis)
	if !ok {
		return 0, 1
	}
	if hi == lo {
		return lo - minPriceSpan/2, hi + minPriceSpan/2
	}
	pad := (hi - lo) * pricePad
	return lo - pad, hi + pad
}

// priceToY maps a price to a row, row 0 of the pane being the max.
func (s *scale) priceToY(p float64) int {
	span := s.max - s.min
	if span <= 0 {
		span = minPriceSpan
	}
	frac := (s.max - p) / span
	y := s.plotY + int(math.Round(frac*float64(s.plotH-1)))
	return y
}

// yToPrice is the inverse of priceToY.
func (s *scale) yToPrice(y int) float64 {
	denom := float64(s.plotH - 1)
	if denom <= 0 {
		denom = 1
	}
	frac := float64(y-s.plotY) / denom
	return s.max - frac*(s.max-s.min)
}

// inPricePane reports whether the row lies in the price sub-region.
func (s *scale) inPricePane(y int) bool {
	return y >= s.plotY && y < s.plotY+s.plotH
}

// colIn reports whether the column lies inside the plot panes.
func (s *scale) colIn(x int) bool {
	return x >= s.plotX && x < s.plotX+s.plotW
}

// inPlot reports whether the cell lies inside the full plot area, price
// and volume panes included.
func (s *scale) inPlot(x, y int) bool {
	return s.colIn(x) && y >= s.plotY && y < s.volY+s.volH
}

// indexToX maps a store index to the center column of its slot.
func (s *scale) indexToX(i int) int {
	return s.plotX + int(math.Round((float64(i)-s.start+0.5)*s.slot-0.5))
}

// xToIndex maps a column back to the store index of the candle whose
// slot covers it. The column center is mapped so slot boundaries do not
// flip on rounding.
func (s *scale) xToIndex(x int) int {
	if s.slot <= 0 {
		return s.first
	}
	return int(math.Floor(s.start + (float64(x-s.plotX)+0.5)/s.slot))
}

// anchorIndex is the fractional index under a column, for zoom anchoring.
func (s *scale) anchorIndex(x int) float64 {
	if s.plotW <= 0 {
		return s.start
	}
	return s.start + float64(x-s.plotX)/s.slot
}

// bodyWidth is the candle body thickness in cells for the given fraction.
func (s *scale) bodyWidth(frac float64) int {
	w := int(s.slot * frac)
	if w < 1 {
		w = 1
	}
	return w
}

// volumeBar returns the bar height in eighth-cells for a volume value.
func (s *scale) volumeBar(v float64) int {
	if s.volMax <= 0 || s.volH <= 0 {
		return 0
	}
	return int(math.Round(v / s.volMax * float64(s.volH) * volumeCap * 8))
}

// ── label formatting ──────────────────────────────────────────────────────────

// formatPrice abbreviates with K/M above 1e3/1e6 for axis labels.
func formatPrice(v float64) string {
	av := math.Abs(v)
	switch {
	case av >= 1e6:
		return fmt.Sprintf("%.2fM", v/1e6)
	case av >= 1e3:
		return fmt.Sprintf("%.2fK", v/1e3)
	case av >= 1:
		return fmt.Sprintf("%.2f", v)
	default:
		return fmt.Sprintf("%.4f", v)
	}
}

// formatPriceFull is the unabbreviated form used by the crosshair tag,
// the mark badge and the tooltip.
func formatPriceFull(v float64) string {
	if math.Abs(v) < 1 {
		return fmt.Sprintf("%.5f", v)
	}
	return fmt.Sprintf("%.2f", v)
}

// formatVolume abbreviates volume for the tooltip.
func formatVolume(v float64) string {
	switch {
	case v >= 1e6:
		return fmt.Sprintf("%.2fM", v/1e6)
	case v >= 1e3:
		return fmt.Sprintf("%.2fK", v/1e3)
	default:
		return fmt.Sprintf("%.0f", v)
	}
}

// formatTime picks the x-axis stamp format from the visible span: clock
// time intraday, date once the window covers days.
func formatTime(unixSec int64, spanSec int64) string {
	t := time.Unix(unixSec, 0).UTC()
	if spanSec >= 48*3600 {
		return t.Format("01/02")
	}
	return t.Format("15:04")
}

// formatTimeFull is the crosshair timestamp.
func formatTimeFull(unixSec int64) string {
	return time.Unix(unixSec, 0).UTC().Format("01/02 15:04")
}

// axisWidth sizes the right gutter for the widest label drawn into it.
func axisWidth(lo, hi float64) int {
	w := 0
	for _, s := range []string{
		formatPrice(lo), formatPrice(hi),
		formatPriceFull(lo), formatPriceFull(hi),
	} {
		if len(s) > w {
			w = len(s)
		}
	}
	// One margin column plus the badge arrow.
	w += 2
	if w < 6 {
		w = 6
	}
	return w
}
