package feed

import (
	"time"

	"github.com/altanbat/candleterm/model/candle"
)

// Builder folds a tick stream into forming candles for one interval.
// Every accepted tick emits the current bucket, so the consumer sees the
// candle grow in place and roll over on bucket boundaries; volume counts
// ticks, matching what the candle service does with its own feed. Stale
// ticks from before the current bucket are dropped.
//
// Builder is not safe for concurrent use; drive it from one goroutine or
// one update loop.
type Builder struct {
	iv   candle.Interval
	cur  candle.Candle
	live bool
	emit func(candle.Candle)
}

func NewBuilder(iv candle.Interval, emit func(candle.Candle)) *Builder {
	return &Builder{iv: iv, emit: emit}
}

// Reset switches the interval and forgets the forming bucket.
func (b *Builder) Reset(iv candle.Interval) {
	b.iv = iv
	b.live = false
}

// Interval returns the active bucket size.
func (b *Builder) Interval() candle.Interval { return b.iv }

// Tick folds one quote update in.
func (b *Builder) Tick(t candle.Tick) {
	if !t.Valid() {
		return
	}
	sec := t.Time / 1000
	if sec <= 0 {
		sec = time.Now().Unix()
	}
	bucket := b.iv.Bucket(sec)
	price := t.Price()

	switch {
	case !b.live || bucket > b.cur.Time:
		b.cur = candle.Candle{
			Time: bucket,
			Open: price, High: price, Low: price, Close: price,
			Volume: 1,
		}
		b.live = true
	case bucket == b.cur.Time:
		b.cur.Merge(price, 1)
	default:
		// Tick from a bucket that already rolled over.
		return
	}
	b.emit(b.cur)
}
