package candle

import "fmt"

// Interval is a candle bucket size in seconds.
type Interval int64

const (
	Interval1m  Interval = 60
	Interval5m  Interval = 300
	Interval15m Interval = 900
	Interval1h  Interval = 3600
	Interval4h  Interval = 14400
	Interval1d  Interval = 86400
)

// Intervals lists the supported bucket sizes in ascending order.
var Intervals = []Interval{
	Interval1m, Interval5m, Interval15m, Interval1h, Interval4h, Interval1d,
}

// ParseInterval maps a timeframe label to an interval. It accepts both
// the short labels ("1m", "4h", "1d") and the wire forms the history
// endpoint takes ("1", "240", "D").
func ParseInterval(s string) (Interval, error) {
	switch s {
	case "1", "1m":
		return Interval1m, nil
	case "5", "5m":
		return Interval5m, nil
	case "15", "15m":
		return Interval15m, nil
	case "60", "1H", "1h":
		return Interval1h, nil
	case "240", "4H", "4h":
		return Interval4h, nil
	case "D", "1D", "1d":
		return Interval1d, nil
	}
	return 0, fmt.Errorf("candle: unknown timeframe %q", s)
}

// String returns the short label, e.g. "15m".
func (iv Interval) String() string {
	switch iv {
	case Interval1m:
		return "1m"
	case Interval5m:
		return "5m"
	case Interval15m:
		return "15m"
	case Interval1h:
		return "1h"
	case Interval4h:
		return "4h"
	case Interval1d:
		return "1d"
	}
	return fmt.Sprintf("%ds", int64(iv))
}

// Param returns the form the history endpoint expects in its timeframe
// query parameter.
func (iv Interval) Param() string {
	switch iv {
	case Interval1m:
		return "1"
	case Interval5m:
		return "5"
	case Interval15m:
		return "15"
	case Interval1h:
		return "60"
	case Interval4h:
		return "240"
	case Interval1d:
		return "D"
	}
	return fmt.Sprintf("%d", int64(iv))
}

// Next cycles to the following interval, wrapping past the last one.
func (iv Interval) Next() Interval {
	for i, v := range Intervals {
		if v == iv {
			return Intervals[(i+1)%len(Intervals)]
		}
	}
	return Interval15m
}

// Bucket aligns a unix-seconds timestamp down to the interval boundary.
func (iv Interval) Bucket(unixSec int64) int64 {
	if iv <= 0 {
		return unixSec
	}
	return unixSec / int64(iv) * int64(iv)
}
