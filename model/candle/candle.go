package candle

import "math"

// maxPrice is the sanity ceiling for any OHLC field. Values at or above
// it are treated as feed corruption and the candle is dropped.
const maxPrice = 1e15

// Candle is one OHLCV bucket. Time is the bucket open in unix seconds.
type Candle struct {
	Time   int64   `json:"time" yaml:"time"`
	Open   float64 `json:"open" yaml:"open"`
	High   float64 `json:"high" yaml:"high"`
	Low    float64 `json:"low" yaml:"low"`
	Close  float64 `json:"close" yaml:"close"`
	Volume float64 `json:"volume" yaml:"volume"`
}

// Valid reports whether the candle is internally consistent: a positive
// bucket time, every OHLC field finite, positive and under the sanity
// ceiling, the high at least max(open, close, low) and the low at most
// min(open, close, high). Volume may be zero but not negative or
// non-finite.
func (c Candle) Valid() bool {
	if c.Time <= 0 {
		return false
	}
	for _, v := range [...]float64{c.Open, c.High, c.Low, c.Close} {
		if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 || v >= maxPrice {
			return false
		}
	}
	if math.IsNaN(c.Volume) || math.IsInf(c.Volume, 0) || c.Volume < 0 {
		return false
	}
	if c.High < c.Open || c.High < c.Close || c.High < c.Low {
		return false
	}
	if c.Low > c.Open || c.Low > c.Close {
		return false
	}
	return true
}

// Bullish reports whether the candle closed at or above its open.
// Doji candles count as bullish so flat markets render in the up color.
func (c Candle) Bullish() bool {
	return c.Close >= c.Open
}

// Merge folds a trade price into the candle, widening the range and
// moving the close. Volume is incremented by the given amount.
func (c *Candle) Merge(price, vol float64) {
	if price > c.High {
		c.High = price
	}
	if price < c.Low {
		c.Low = price
	}
	c.Close = price
	c.Volume += vol
}

// Tick is one quote update from the stream: best bid/ask, the midpoint
// and the venue mark price. Time is in unix milliseconds.
type Tick struct {
	Symbol string  `json:"symbol"`
	Bid    float64 `json:"bid"`
	Ask    float64 `json:"ask"`
	Mid    float64 `json:"mid"`
	Spread float64 `json:"spread"`
	Mark   float64 `json:"mark"`
	Time   int64   `json:"timestamp"`
}

// Price returns the tick price used for candle building: the midpoint
// when present, otherwise the mark.
func (t Tick) Price() float64 {
	if t.Mid > 0 {
		return t.Mid
	}
	return t.Mark
}

// Valid reports whether the tick carries a usable price.
func (t Tick) Valid() bool {
	p := t.Price()
	return !math.IsNaN(p) && !math.IsInf(p, 0) && p > 0 && p < maxPrice
}
