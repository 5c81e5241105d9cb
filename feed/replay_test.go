package feed

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/altanbat/candleterm/model/candle"
)

func TestSyntheticDeterministic(t *testing.T) {
	now := int64(1700000000)
	a := syntheticAt("USD-MNT", candle.Interval15m, 50, 3500, now)
	b := syntheticAt("USD-MNT", candle.Interval15m, 50, 3500, now)
	require.Equal(t, a, b)

	other := syntheticAt("BTC-MNT", candle.Interval15m, 50, 3500, now)
	require.NotEqual(t, a, other)
}

func TestSyntheticShape(t *testing.T) {
	now := int64(1700000000)
	iv := candle.Interval15m
	got := syntheticAt("USD-MNT", iv, 120, 3500, now)
	require.Len(t, got, 120)

	for i, c := range got {
		require.True(t, c.Valid(), "candle %d: %+v", i, c)
		require.Zero(t, c.Time%int64(iv), "candle %d not bucket aligned", i)
		if i > 0 {
			require.Equal(t, got[i-1].Time+int64(iv), c.Time, "candle %d not contiguous", i)
		}
		// The walk stays near the base price.
		require.InEpsilon(t, 3500.0, c.Close, 0.05)
	}
}

func TestSyntheticRejectsBadArgs(t *testing.T) {
	require.Nil(t, Synthetic("USD-MNT", candle.Interval15m, 0, 3500))
	require.Nil(t, Synthetic("USD-MNT", candle.Interval15m, 10, 0))
	require.Nil(t, Synthetic("USD-MNT", candle.Interval15m, -5, 3500))
}

func TestReplayEmitsTicks(t *testing.T) {
	ticks := make(chan candle.Tick, 16)
	r := NewReplay("OFFLINE", 3500, 5*time.Millisecond)
	tok := r.Subscribe(context.Background(), func(tk candle.Tick) {
		select {
		case ticks <- tk:
		default:
		}
	})
	defer tok.Unsubscribe()

	select {
	case tk := <-ticks:
		require.Equal(t, "OFFLINE", tk.Symbol)
		require.True(t, tk.Valid())
		require.Greater(t, tk.Ask, tk.Bid)
		require.Greater(t, tk.Time, int64(0))
	case <-time.After(2 * time.Second):
		t.Fatal("no tick within deadline")
	}
}
