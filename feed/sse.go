package feed

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/altanbat/candleterm/model/candle"
)

// sseClient has no overall timeout: the stream is expected to stay open
// until the subscription context is cancelled.
var sseClient = &http.Client{}

// readSSE consumes one text/event-stream session, dispatching every
// "quotes" event. Other event names on the stream (positions, levels)
// are skipped.
func readSSE(ctx context.Context, rawURL string, handler TickHandler, log zerolog.Logger) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := sseClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("connect: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %s", resp.Status)
	}

	sc := bufio.NewScanner(resp.Body)
	// A quotes event carries every active symbol in one data line.
	sc.Buffer(make([]byte, 64*1024), 1024*1024)

	var event string
	var data strings.Builder
	for sc.Scan() {
		line := sc.Text()
		switch {
		case line == "":
			if event == "quotes" && data.Len() > 0 {
				var ticks []candle.Tick
				if err := json.Unmarshal([]byte(data.String()), &ticks); err != nil {
					log.Debug().Err(err).Msg("unparseable quotes event")
				} else {
					dispatch(ticks, handler, log)
				}
			}
			event = ""
			data.Reset()
		case strings.HasPrefix(line, "event:"):
			event = strings.TrimSpace(line[len("event:"):])
		case strings.HasPrefix(line, "data:"):
			// Successive data lines of one event concatenate.
			data.WriteString(strings.TrimSpace(line[len("data:"):]))
		case strings.HasPrefix(line, ":"):
			// Comment keep-alive.
		}
	}
	if err := sc.Err(); err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("read: %w", err)
	}
	return fmt.Errorf("stream closed by server")
}
