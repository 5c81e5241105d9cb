package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/altanbat/candleterm/config"
	"github.com/altanbat/candleterm/feed"
	"github.com/altanbat/candleterm/model/candle"
)

func main() {
	var (
		cfgPath = flag.String("config", "", "path to config.yaml")
		server  = flag.String("server", "", "service base URL (overrides config)")
		stream  = flag.String("stream", "", "stream URL (overrides config)")
		symbol  = flag.String("symbol", "", "instrument symbol (overrides config)")
		tf      = flag.String("tf", "", "timeframe: 1m 5m 15m 1h 4h 1d (overrides config)")
		limit   = flag.Int("limit", 0, "history candles to fetch (overrides config)")
		offline = flag.Bool("offline", false, "run on synthetic data, no service needed")
	)
	flag.Parse()

	cfg, err := config.LoadWithEnv(*cfgPath)
	if err != nil {
		fatal(err)
	}
	if *server != "" {
		cfg.Server.BaseURL = *server
		cfg.Server.StreamURL = strings.TrimRight(*server, "/") + "/api/stream"
	}
	if *stream != "" {
		cfg.Server.StreamURL = *stream
	}
	if *symbol != "" {
		cfg.Market.Symbol = *symbol
	}
	if *tf != "" {
		cfg.Market.Timeframe = *tf
	}
	if *limit > 0 {
		cfg.Market.HistoryLimit = *limit
	}
	if err := cfg.Validate(); err != nil {
		fatal(err)
	}

	log := newLogger(cfg)
	iv := cfg.Timeframe()

	// The tick channel bridges the feed goroutine into the update loop.
	// Sends never block: when the UI stalls, quotes are dropped rather
	// than backing up the stream reader.
	ticks := make(chan candle.Tick, 128)
	push := func(t candle.Tick) {
		select {
		case ticks <- t:
		default:
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var client *feed.Client
	if *offline {
		tok := feed.NewReplay(cfg.Market.Symbol, offlineBasePrice, 500*time.Millisecond).
			Subscribe(ctx, push)
		defer tok.Unsubscribe()
	} else {
		client = feed.NewClient(cfg.Server.BaseURL, cfg.Server.Timeout, log)
		tok, err := feed.Subscribe(ctx, cfg.Server.StreamURL, push, log)
		if err != nil {
			fatal(err)
		}
		defer tok.Unsubscribe()
	}

	log.Info().
		Str("symbol", cfg.Market.Symbol).
		Str("timeframe", iv.String()).
		Bool("offline", *offline).
		Msg("starting")

	p := tea.NewProgram(
		newApp(cfg, log, client, iv, ticks),
		tea.WithAltScreen(),
		tea.WithMouseAllMotion(),
	)
	if _, err := p.Run(); err != nil {
		log.Error().Err(err).Msg("tui error")
		fatal(err)
	}
}

// newLogger writes to the configured file, or nowhere: the terminal
// belongs to the UI, so stdout and stderr are never log sinks.
func newLogger(cfg *config.Config) zerolog.Logger {
	level, _ := zerolog.ParseLevel(cfg.Log.Level)
	var w io.Writer = io.Discard
	if cfg.Log.File != "" {
		if f, err := os.OpenFile(cfg.Log.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644); err == nil {
			w = f
		}
	}
	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "candleterm:", err)
	os.Exit(1)
}
