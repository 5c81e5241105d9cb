package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
	"github.com/rs/zerolog"

	"github.com/altanbat/candleterm/chart"
	"github.com/altanbat/candleterm/config"
	"github.com/altanbat/candleterm/export"
	"github.com/altanbat/candleterm/feed"
	"github.com/altanbat/candleterm/model/candle"
)

// offlineBasePrice anchors the synthetic feed when no service is behind
// the terminal.
const offlineBasePrice = 3500

// historyRetryDelay paces history refetches after a failed load.
const historyRetryDelay = 5 * time.Second

// ── styles ────────────────────────────────────────────────────────────────────

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#abb2bf"))
	footerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#5c6370"))
	noticeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#61afef"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#e06c75"))
)

// ── messages ──────────────────────────────────────────────────────────────────

type tickMsg struct{ t candle.Tick }

type historyMsg struct {
	iv      candle.Interval
	candles []candle.Candle
	mark    float64
	err     error
}

type retryMsg struct{ iv candle.Interval }

type exportedMsg struct {
	path string
	err  error
}

// ── model ─────────────────────────────────────────────────────────────────────

type app struct {
	cfg    *config.Config
	log    zerolog.Logger
	client *feed.Client // nil when running offline

	symbol string
	iv     candle.Interval

	zm      *zone.Manager
	chart   *chart.Chart
	builder *feed.Builder
	ticks   <-chan candle.Tick

	last    candle.Tick
	status  string
	notice  string
	loading bool

	width, height int
}

func newApp(cfg *config.Config, log zerolog.Logger, client *feed.Client, iv candle.Interval, ticks <-chan candle.Tick) app {
	zm := zone.New()
	ch := chart.New(chart.Options{
		Theme:        cfg.UI.Theme,
		CandleWidth:  cfg.UI.CandleWidth,
		ShowVolume:   cfg.UI.ShowVolume,
		VolumeHeight: cfg.UI.VolumeHeight,
	})
	ch.SetZoneManager(zm)
	ch.SetOverlayLines(positionLines(cfg))

	status := "connecting"
	if client == nil {
		status = "offline"
	}

	return app{
		cfg:     cfg,
		log:     log,
		client:  client,
		symbol:  cfg.Market.Symbol,
		iv:      iv,
		zm:      zm,
		chart:   ch,
		builder: feed.NewBuilder(iv, ch.UpdateCandle),
		ticks:   ticks,
		status:  status,
		loading: true,
	}
}

// positionLines maps the configured position levels onto chart overlays.
func positionLines(cfg *config.Config) []chart.OverlayLine {
	var lines []chart.OverlayLine
	add := func(label, color string, price float64) {
		if price > 0 {
			lines = append(lines, chart.OverlayLine{Price: price, Label: label, Color: color})
		}
	}
	add("ENTRY", "#61afef", cfg.Position.Entry)
	add("LIQ", "#e06c75", cfg.Position.Liquidation)
	add("TP", "#98c379", cfg.Position.TakeProfit)
	add("SL", "#d19a66", cfg.Position.StopLoss)
	return lines
}

// ── Init / Update / View ──────────────────────────────────────────────────────

func (m app) Init() tea.Cmd {
	return tea.Batch(m.fetchHistory(m.iv), m.waitForTick())
}

func (m app) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.chart.Resize(msg.Width, max(msg.Height-2, 1))
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "t":
			m.iv = m.iv.Next()
			m.builder.Reset(m.iv)
			m.loading = true
			return m, m.fetchHistory(m.iv)
		case "c":
			if m.chart.Type() == chart.TypeCandles {
				m.chart.SetChartType(chart.TypeLine)
			} else {
				m.chart.SetChartType(chart.TypeCandles)
			}
			return m, nil
		case "T":
			m.chart.SetTheme(nextTheme(m.chart.ThemeName()))
			return m, nil
		case "s":
			return m, m.exportSnapshot()
		}
		m.chart.Update(msg)
		return m, nil

	case tea.MouseMsg:
		m.chart.Update(msg)
		return m, nil

	case tickMsg:
		m.last = msg.t
		m.builder.Tick(msg.t)
		m.chart.SetMarkPrice(msg.t.Price())
		if m.client != nil {
			m.status = "live"
		}
		return m, m.waitForTick()

	case historyMsg:
		// A stale fetch: the timeframe moved on while it was in flight.
		if msg.iv != m.iv {
			return m, nil
		}
		m.loading = false
		if msg.err != nil {
			m.status = "error"
			m.notice = msg.err.Error()
			m.log.Error().Err(msg.err).Msg("history fetch failed")
			return m, retryHistory(msg.iv)
		}
		m.chart.SetData(msg.candles)
		if msg.mark > 0 {
			m.chart.SetMarkPrice(msg.mark)
		}
		if m.client != nil && m.status != "live" {
			m.status = "ready"
		}
		m.notice = ""
		m.log.Info().
			Int("candles", len(msg.candles)).
			Str("timeframe", msg.iv.String()).
			Msg("history loaded")
		return m, nil

	case retryMsg:
		// The timeframe may have moved on while the delay ran.
		if msg.iv != m.iv {
			return m, nil
		}
		m.loading = true
		return m, m.fetchHistory(m.iv)

	case exportedMsg:
		if msg.err != nil {
			m.notice = "export failed: " + msg.err.Error()
			m.log.Error().Err(msg.err).Msg("snapshot export failed")
		} else {
			m.notice = "saved " + msg.path
			m.log.Info().Str("path", msg.path).Msg("snapshot exported")
		}
		return m, nil
	}

	return m, nil
}

func (m app) View() string {
	if m.width == 0 {
		return "connecting…"
	}
	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteByte('\n')
	b.WriteString(m.chart.View())
	b.WriteByte('\n')
	b.WriteString(m.renderFooter())
	return m.zm.Scan(b.String())
}

// ── commands ──────────────────────────────────────────────────────────────────

// waitForTick blocks on the channel and returns a Cmd that fires tickMsg.
func (m app) waitForTick() tea.Cmd {
	ch := m.ticks
	return func() tea.Msg {
		return tickMsg{<-ch}
	}
}

// retryHistory schedules a refetch after a failed load.
func retryHistory(iv candle.Interval) tea.Cmd {
	return tea.Tick(historyRetryDelay, func(time.Time) tea.Msg {
		return retryMsg{iv: iv}
	})
}

func (m app) fetchHistory(iv candle.Interval) tea.Cmd {
	client := m.client
	symbol := m.symbol
	limit := m.cfg.Market.HistoryLimit
	timeout := m.cfg.Server.Timeout
	return func() tea.Msg {
		if client == nil {
			cs := feed.Synthetic(symbol, iv, limit, offlineBasePrice)
			var mark float64
			if n := len(cs); n > 0 {
				mark = cs[n-1].Close
			}
			return historyMsg{iv: iv, candles: cs, mark: mark}
		}

		ctx, cancel := context.WithTimeout(context.Background(), timeout+5*time.Second)
		defer cancel()
		cs, err := client.History(ctx, symbol, iv, limit)
		if err != nil {
			return historyMsg{iv: iv, err: err}
		}
		// The quote seeds the mark line before the stream warms up;
		// losing it is not worth failing the whole load.
		var mark float64
		if q, err := client.Quote(ctx, symbol); err == nil {
			mark = q.Price()
		}
		return historyMsg{iv: iv, candles: cs, mark: mark}
	}
}

func (m app) exportSnapshot() tea.Cmd {
	snap := export.Snapshot{
		Symbol:    m.symbol,
		Timeframe: m.iv.String(),
		Candles:   m.chart.Candles(),
	}
	if ms := m.chart.Marks(); len(ms) > 0 {
		snap.Mark = ms[len(ms)-1]
	}
	for _, l := range positionLines(m.cfg) {
		snap.Levels = append(snap.Levels, export.Level{Label: l.Label, Price: l.Price, Color: l.Color})
	}
	path := fmt.Sprintf("candleterm-%s-%d.html", strings.ToLower(m.symbol), time.Now().Unix())
	return func() tea.Msg {
		return exportedMsg{path: path, err: export.WriteFile(path, snap)}
	}
}

// ── header / footer ───────────────────────────────────────────────────────────

func (m app) renderHeader() string {
	status := m.status
	if m.loading {
		status = "loading"
	}
	line := fmt.Sprintf("%s  %s  [%s]", m.symbol, m.iv, status)
	if last, ok := m.chart.Last(); ok {
		line += fmt.Sprintf("  O:%.2f H:%.2f L:%.2f C:%.2f V:%s",
			last.Open, last.High, last.Low, last.Close, trimVolume(last.Volume))
	}
	if m.last.Bid > 0 && m.last.Ask > 0 {
		line += fmt.Sprintf("  bid:%.2f ask:%.2f", m.last.Bid, m.last.Ask)
	}
	return headerStyle.Render(line)
}

func (m app) renderFooter() string {
	if m.notice != "" {
		if m.status == "error" || strings.HasPrefix(m.notice, "export failed") {
			return errorStyle.Render(m.notice)
		}
		return noticeStyle.Render(m.notice)
	}
	mode := "line"
	if m.chart.Type() == chart.TypeLine {
		mode = "candles"
	}
	return footerStyle.Render(fmt.Sprintf(
		"[q] quit  [t] %s  [c] %s  [T] theme  [s] export  [←/→] pan  [+/-] zoom  [0] reset",
		m.iv.Next(), mode))
}

func nextTheme(cur string) string {
	for i, n := range chart.ThemeNames {
		if n == cur {
			return chart.ThemeNames[(i+1)%len(chart.ThemeNames)]
		}
	}
	return chart.ThemeNames[0]
}

func trimVolume(v float64) string {
	if v >= 1000 {
		return fmt.Sprintf("%.1fK", v/1000)
	}
	return fmt.Sprintf("%.0f", v)
}
