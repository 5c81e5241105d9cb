package feed

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"

	"github.com/altanbat/candleterm/model/candle"
)

const (
	candlesPath = "/api/candles/{symbol}"
	quotePath   = "/api/quote/{symbol}"
	quotesPath  = "/api/quotes"

	// maxLimit is the server-side cap on candles per history request.
	maxLimit = 500
)

// Client is the REST side of the market data service.
type Client struct {
	http *resty.Client
	log  zerolog.Logger
}

// NewClient builds a REST client for the given base URL, e.g.
// "http://localhost:8080".
func NewClient(baseURL string, timeout time.Duration, log zerolog.Logger) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	rc := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetRetryCount(2).
		SetRetryWaitTime(500 * time.Millisecond)
	return &Client{http: rc, log: log}
}

// historyResponse is the candle history envelope.
type historyResponse struct {
	Symbol    string          `json:"symbol"`
	Timeframe string          `json:"timeframe"`
	Candles   []candle.Candle `json:"candles"`
}

// History fetches up to limit candles for symbol at the given interval,
// oldest first. Candles failing validation are dropped here so callers
// only ever see sane data.
func (c *Client) History(ctx context.Context, symbol string, iv candle.Interval, limit int) ([]candle.Candle, error) {
	if limit <= 0 || limit > maxLimit {
		limit = maxLimit
	}
	var out historyResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParam("symbol", symbol).
		SetQueryParam("timeframe", iv.Param()).
		SetQueryParam("limit", strconv.Itoa(limit)).
		SetResult(&out).
		Get(candlesPath)
	if err != nil {
		return nil, fmt.Errorf("feed: history %s: %w", symbol, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("feed: history %s: unexpected status %s", symbol, resp.Status())
	}

	kept := make([]candle.Candle, 0, len(out.Candles))
	for _, k := range out.Candles {
		if k.Valid() {
			kept = append(kept, k)
		}
	}
	if dropped := len(out.Candles) - len(kept); dropped > 0 {
		c.log.Debug().
			Str("symbol", symbol).
			Str("timeframe", iv.String()).
			Int("dropped", dropped).
			Msg("history contained invalid candles")
	}
	return kept, nil
}

// Quote fetches the current quote for one symbol.
func (c *Client) Quote(ctx context.Context, symbol string) (candle.Tick, error) {
	var out candle.Tick
	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParam("symbol", symbol).
		SetResult(&out).
		Get(quotePath)
	if err != nil {
		return candle.Tick{}, fmt.Errorf("feed: quote %s: %w", symbol, err)
	}
	if resp.IsError() {
		return candle.Tick{}, fmt.Errorf("feed: quote %s: unexpected status %s", symbol, resp.Status())
	}
	return out, nil
}

// Quotes fetches the quote snapshot for every active symbol.
func (c *Client) Quotes(ctx context.Context) ([]candle.Tick, error) {
	var out []candle.Tick
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&out).
		Get(quotesPath)
	if err != nil {
		return nil, fmt.Errorf("feed: quotes: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("feed: quotes: unexpected status %s", resp.Status())
	}
	return out, nil
}
