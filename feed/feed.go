// Package feed talks to the market data service: candle history and
// quote snapshots over REST, plus the live tick stream over WebSocket
// or SSE. Chart code never touches the wire; it consumes the candle and
// tick values this package hands out.
package feed

import (
	"context"

	"github.com/altanbat/candleterm/model/candle"
)

// TickHandler receives every quote update from a stream subscription.
// Handlers run on the stream goroutine and must not block.
type TickHandler func(candle.Tick)

// Token cancels a stream subscription.
type Token interface {
	Unsubscribe()
}

type token struct {
	cancel context.CancelFunc
}

func (t *token) Unsubscribe() { t.cancel() }
