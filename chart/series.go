package chart

import (
	"cmp"
	"math"
	"slices"

	"github.com/altanbat/candleterm/model/candle"
)

// ── data store ────────────────────────────────────────────────────────────────

// series owns the candle array backing a chart. It keeps the data sorted
// by open time with no duplicate timestamps, and silently drops candles
// that fail validation rather than repairing them.
type series struct {
	data []candle.Candle
}

// updateResult tells the caller how an incremental update landed so the
// viewport can follow appends at the live edge.
type updateResult int

const (
	updateIgnored updateResult = iota
	updateReplaced
	updateAppended
)

// replace swaps in a full snapshot: invalid candles dropped, the rest
// sorted ascending by time, later entries winning on duplicate stamps.
// Returns how many candles were kept.
func (s *series) replace(in []candle.Candle) int {
	cleaned := make([]candle.Candle, 0, len(in))
	for _, c := range in {
		if c.Valid() {
			cleaned = append(cleaned, c)
		}
	}
	slices.SortStableFunc(cleaned, func(a, b candle.Candle) int {
		return cmp.Compare(a.Time, b.Time)
	})
	// Stable sort keeps input order within a timestamp; keep the last.
	dedup := cleaned[:0]
	for i, c := range cleaned {
		if i+1 < len(cleaned) && cleaned[i+1].Time == c.Time {
			continue
		}
		dedup = append(dedup, c)
	}
	s.data = dedup
	return len(dedup)
}

// update applies one streaming candle. Matching the newest timestamp
// replaces the newest candle, a later timestamp appends, anything older
// or invalid is ignored.
func (s *series) update(c candle.Candle) updateResult {
	if !c.Valid() {
		return updateIgnored
	}
	n := len(s.data)
	if n == 0 {
		s.data = append(s.data, c)
		return updateAppended
	}
	last := s.data[n-1].Time
	switch {
	case c.Time == last:
		s.data[n-1] = c
		return updateReplaced
	case c.Time > last:
		s.data = append(s.data, c)
		return updateAppended
	default:
		return updateIgnored
	}
}

func (s *series) len() int { return len(s.data) }

func (s *series) at(i int) candle.Candle { return s.data[i] }

// window returns the candles overlapping the fractional range [start,end)
// plus the store index of the first one. Partially visible edge candles
// are included.
func (s *series) window(start, end float64) (out []candle.Candle, first int) {
	n := len(s.data)
	if n == 0 || end <= start {
		return nil, 0
	}
	first = int(math.Floor(start))
	if first < 0 {
		first = 0
	}
	lastEx := int(math.Ceil(end))
	if lastEx > n {
		lastEx = n
	}
	if first >= lastEx {
		return nil, first
	}
	return s.data[first:lastEx], first
}

// priceRange scans a window for its low/high extremes.
func priceRange(vis []candle.Candle) (lo, hi float64, ok bool) {
	lo, hi = math.MaxFloat64, -math.MaxFloat64
	for _, c := range vis {
		if c.Low < lo {
			lo = c.Low
		}
		if c.High > hi {
			hi = c.High
		}
	}
	if hi < lo {
		return 0, 0, false
	}
	return lo, hi, true
}

// volumeMax scans a window for its largest volume.
func volumeMax(vis []candle.Candle) float64 {
	var m float64
	for _, c := range vis {
		if c.Volume > m {
			m = c.Volume
		}
	}
	return m
}
