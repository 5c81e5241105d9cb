package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/altanbat/candleterm/model/candle"
)

const (
	initialBackoff = time.Second
	maxBackoff     = 30 * time.Second
)

// Subscribe opens the live quote stream and invokes handler for every
// tick until the token is unsubscribed or ctx is cancelled. The
// transport follows the URL scheme: ws/wss speaks WebSocket, http/https
// consumes the SSE endpoint. The connection reconnects automatically
// with doubling backoff.
func Subscribe(ctx context.Context, rawURL string, handler TickHandler, log zerolog.Logger) (Token, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("feed: stream url: %w", err)
	}

	var connect func(context.Context) error
	switch u.Scheme {
	case "ws", "wss":
		connect = func(ctx context.Context) error {
			return readWS(ctx, rawURL, handler, log)
		}
	case "http", "https":
		connect = func(ctx context.Context) error {
			return readSSE(ctx, rawURL, handler, log)
		}
	default:
		return nil, fmt.Errorf("feed: stream url %q: unsupported scheme %q", rawURL, u.Scheme)
	}

	ctx, cancel := context.WithCancel(ctx)
	go func() {
		backoff := initialBackoff
		for {
			if ctx.Err() != nil {
				return
			}
			if err := connect(ctx); err != nil && ctx.Err() == nil {
				log.Warn().Err(err).Dur("backoff", backoff).Msg("stream dropped, reconnecting")
				select {
				case <-time.After(backoff):
				case <-ctx.Done():
					return
				}
				if backoff < maxBackoff {
					backoff *= 2
				}
			} else {
				backoff = initialBackoff
			}
		}
	}()

	return &token{cancel: cancel}, nil
}

// wsMsg is the WebSocket message envelope. The stream reuses the SSE
// event names, so quote batches arrive as {"event":"quotes","data":[…]}.
type wsMsg struct {
	Event string        `json:"event"`
	Code  string        `json:"code"`
	Msg   string        `json:"msg"`
	Data  []candle.Tick `json:"data"`
}

// readWS maintains a single WebSocket session.
func readWS(ctx context.Context, rawURL string, handler TickHandler, log zerolog.Logger) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, rawURL, nil)
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}
	defer conn.Close()

	// Close the connection on context cancellation.
	go func() {
		<-ctx.Done()
		conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		conn.Close()
	}()

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("read: %w", err)
		}

		// The server sends plain text "ping" frames, not protocol pings.
		if string(msg) == "ping" {
			if err := conn.WriteMessage(websocket.TextMessage, []byte("pong")); err != nil {
				return fmt.Errorf("pong: %w", err)
			}
			continue
		}

		ticks, err := parseStreamMessage(msg)
		if err != nil {
			log.Debug().Err(err).Msg("unparseable stream message")
			continue
		}
		dispatch(ticks, handler, log)
	}
}

// parseStreamMessage unwraps a quotes envelope into ticks. Acks and
// other event types yield no ticks; an error event surfaces as error.
func parseStreamMessage(msg []byte) ([]candle.Tick, error) {
	var m wsMsg
	if err := json.Unmarshal(msg, &m); err != nil {
		return nil, err
	}
	switch m.Event {
	case "quotes":
		return m.Data, nil
	case "error":
		return nil, fmt.Errorf("api error %s: %s", m.Code, m.Msg)
	default:
		return nil, nil
	}
}

// dispatch forwards valid ticks and counts the garbage.
func dispatch(ticks []candle.Tick, handler TickHandler, log zerolog.Logger) {
	dropped := 0
	for _, t := range ticks {
		if !t.Valid() {
			dropped++
			continue
		}
		handler(t)
	}
	if dropped > 0 {
		log.Debug().Int("dropped", dropped).Msg("stream carried invalid ticks")
	}
}
