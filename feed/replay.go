package feed

import (
	"context"
	"hash/fnv"
	"math"
	"math/rand"
	"time"

	"github.com/altanbat/candleterm/model/candle"
)

// Synthetic generates count deterministic candles for a symbol, ending
// at the current bucket, the same way the candle service seeds history
// when it has no real data: a hash-chained walk with a slight downward
// drift into the past, alternating bull and bear bodies.
func Synthetic(symbol string, iv candle.Interval, count int, base float64) []candle.Candle {
	return syntheticAt(symbol, iv, count, base, time.Now().Unix())
}

func syntheticAt(symbol string, iv candle.Interval, count int, base float64, now int64) []candle.Candle {
	if count <= 0 || base <= 0 || math.IsNaN(base) || math.IsInf(base, 0) {
		return nil
	}
	h := fnv.New64a()
	h.Write([]byte(symbol))
	seed := h.Sum64() + uint64(iv)

	out := make([]candle.Candle, 0, count)
	for i := count; i >= 1; i-- {
		t := iv.Bucket(now - int64(i)*int64(iv))
		ut := uint64(t)

		openNoise := (float64((seed+ut*3)%1000) - 500) / 100000
		bodyDir := 1.0
		if i%2 != 0 {
			bodyDir = -1.0
		}
		bodySize := float64((seed+ut*11)%500+100) / 100000
		wickUp := float64((seed+ut*13)%300) / 100000
		wickDown := float64((seed+ut*17)%300) / 100000
		drift := float64(i) * 0.00005

		b := base * (1.0 - drift)
		o := b * (1.0 + openNoise)
		c := o * (1.0 + bodyDir*bodySize)
		out = append(out, candle.Candle{
			Time:   t,
			Open:   o,
			High:   math.Max(o, c) * (1.0 + wickUp),
			Low:    math.Min(o, c) * (1.0 - wickDown),
			Close:  c,
			Volume: 10.0 + float64((seed+ut)%50),
		})
	}
	return out
}

// Replay is an offline tick source: a random walk around a base price,
// emitted on a fixed cadence. It lets the terminal run with no service
// behind it, over the same handler contract as the live stream.
type Replay struct {
	symbol string
	base   float64
	every  time.Duration
}

func NewReplay(symbol string, base float64, every time.Duration) *Replay {
	if every <= 0 {
		every = 500 * time.Millisecond
	}
	return &Replay{symbol: symbol, base: base, every: every}
}

// Subscribe starts the tick loop. The handler contract matches the live
// Subscribe: called from the source goroutine until unsubscribed.
func (r *Replay) Subscribe(ctx context.Context, handler TickHandler) Token {
	ctx, cancel := context.WithCancel(ctx)

	go func() {
		rng := rand.New(rand.NewSource(time.Now().UnixNano()))
		price := r.base
		ticker := time.NewTicker(r.every)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				price *= 1 + (rng.Float64()-0.5)*0.002
				if price <= 0 {
					price = r.base
				}
				bid := price * 0.999
				ask := price * 1.001
				handler(candle.Tick{
					Symbol: r.symbol,
					Bid:    bid,
					Ask:    ask,
					Mid:    price,
					Spread: ask - bid,
					Mark:   price,
					Time:   now.UnixMilli(),
				})
			}
		}
	}()

	return &token{cancel: cancel}
}
