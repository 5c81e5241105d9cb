// Package chart renders an OHLCV candlestick chart on a terminal cell
// grid, with mouse pan/zoom, a crosshair tooltip, a live mark price line
// and horizontal overlay annotations. It is a plain component: feed it
// candles, hand it bubbletea messages and splice View into your frame.
package chart

import (
	"math"
	"slices"

	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"

	"github.com/altanbat/candleterm/model/candle"
)

// ChartType selects the price pane style.
type ChartType string

const (
	TypeCandles ChartType = "candles"
	TypeLine    ChartType = "line"
)

// OverlayLine is a horizontal annotation (entry, liquidation, TP, SL).
// The overlay set is replaced wholesale by SetOverlayLines; lines carry
// no identity between calls.
type OverlayLine struct {
	Price float64
	Color string
	Label string
	Dash  []int
}

// Chart is one chart instance. It owns its canvas and all of its state,
// including the bounded mark price history, so panes never share data.
// All methods must be called from the host program's update loop; the
// chart does no locking and no background work.
type Chart struct {
	opts Options
	th   theme
	cv   *canvas

	s  series
	vp viewport

	typ      ChartType
	cross    *point
	overlays []OverlayLine
	marks    *ring

	drag      bool
	lastDragX int

	focused bool
	zm      *zone.Manager
	zoneID  string
	closed  bool
}

// New builds a chart with defaults filled in. Call Resize before the
// first View to give it its box.
func New(opts Options) *Chart {
	o := opts.normalized()
	return &Chart{
		opts:    o,
		th:      buildTheme(o.Theme, o),
		cv:      newCanvas(80, 24),
		typ:     TypeCandles,
		marks:   newRing(o.MarkDepth),
		focused: true,
	}
}

// ── data entry points ─────────────────────────────────────────────────────────

// SetData validates and replaces the whole candle array, dropping
// violators silently, and resets the viewport to the trailing window.
// Returns the number of candles kept.
func (c *Chart) SetData(candles []candle.Candle) int {
	if c.closed {
		return 0
	}
	kept := c.s.replace(candles)
	c.vp.reset(kept)
	return kept
}

// UpdateCandle applies one streaming candle: same time as the newest
// entry replaces it, a later time appends, an earlier time is dropped.
// When the viewport was tracking the live edge an append extends it.
func (c *Chart) UpdateCandle(k candle.Candle) {
	if c.closed {
		return
	}
	n := c.s.len()
	wasTracking := n == 0 || c.vp.tracking(n)
	if c.s.update(k) == updateAppended && wasTracking {
		c.vp.extend(c.s.len())
	}
}

// SetMarkPrice records a mark price tick into the chart's bounded
// history and moves the dashed mark line. Non-finite or non-positive
// values are ignored.
func (c *Chart) SetMarkPrice(p float64) {
	if c.closed || math.IsNaN(p) || math.IsInf(p, 0) || p <= 0 {
		return
	}
	c.marks.push(p)
}

// SetOverlayLines replaces the whole annotation set.
func (c *Chart) SetOverlayLines(lines []OverlayLine) {
	if c.closed {
		return
	}
	c.overlays = slices.Clone(lines)
}

// SetChartType switches between candles and line. Unknown types are
// ignored.
func (c *Chart) SetChartType(t ChartType) {
	if c.closed {
		return
	}
	if t == TypeCandles || t == TypeLine {
		c.typ = t
	}
}

// SetTheme swaps the palette preset; unknown names fall back to dark.
func (c *Chart) SetTheme(name string) {
	if c.closed {
		return
	}
	c.th = buildTheme(name, c.opts)
	c.opts.Theme = c.th.name
}

// ── surface ───────────────────────────────────────────────────────────────────

// Resize sets the chart box in cells. The host calls this with its own
// layout box; the chart never assumes the full terminal.
func (c *Chart) Resize(w, h int) {
	if c.closed {
		return
	}
	c.cv.resize(w, h)
}

// SetFocus gates keyboard and mouse handling.
func (c *Chart) SetFocus(focused bool) {
	if c.closed {
		return
	}
	c.focused = focused
	if !focused {
		c.cross = nil
		c.drag = false
	}
}

// Focused reports whether the chart is consuming input.
func (c *Chart) Focused() bool { return c.focused && !c.closed }

// SetZoneManager registers the chart with a bubblezone manager so mouse
// coordinates resolve correctly wherever the host splices the view. The
// host must wrap its final frame with the manager's Scan.
func (c *Chart) SetZoneManager(zm *zone.Manager) {
	if c.closed {
		return
	}
	c.zm = zm
	if zm != nil && c.zoneID == "" {
		c.zoneID = zm.NewPrefix()
	}
}

// Close releases the chart's references. Every later call is a no-op
// and View returns an empty frame; a closed chart can never take down
// the host UI.
func (c *Chart) Close() {
	if c.closed {
		return
	}
	c.closed = true
	c.cv = nil
	c.s.data = nil
	c.overlays = nil
	c.marks = nil
	c.cross = nil
	c.zm = nil
}

// ── reads ─────────────────────────────────────────────────────────────────────

// Len returns the stored candle count.
func (c *Chart) Len() int { return c.s.len() }

// Last returns the newest stored candle.
func (c *Chart) Last() (candle.Candle, bool) {
	if c.s.len() == 0 {
		return candle.Candle{}, false
	}
	return c.s.at(c.s.len() - 1), true
}

// Candles copies the full stored array.
func (c *Chart) Candles() []candle.Candle {
	return slices.Clone(c.s.data)
}

// VisibleCandles copies the candles overlapping the viewport.
func (c *Chart) VisibleCandles() []candle.Candle {
	vis, _ := c.s.window(c.vp.start, c.vp.end)
	return slices.Clone(vis)
}

// Viewport returns the fractional visible index range.
func (c *Chart) Viewport() (start, end float64) {
	return c.vp.start, c.vp.end
}

// Marks copies the retained mark price history, oldest first.
func (c *Chart) Marks() []float64 {
	if c.closed {
		return nil
	}
	return c.marks.values()
}

// Type returns the active chart type.
func (c *Chart) Type() ChartType { return c.typ }

// ThemeName returns the active palette name.
func (c *Chart) ThemeName() string { return c.th.name }

// ── interaction ───────────────────────────────────────────────────────────────

// Update handles mouse and key messages. The host forwards messages
// after its own handling; window sizing stays with the host via Resize.
func (c *Chart) Update(msg tea.Msg) {
	if c.closed || !c.focused {
		return
	}
	switch m := msg.(type) {
	case tea.MouseMsg:
		c.handleMouse(m)
	case tea.KeyMsg:
		c.handleKey(m)
	}
}

func (c *Chart) handleMouse(m tea.MouseMsg) {
	x, y, in := c.locate(m)
	if !in {
		// Pointer out of bounds counts as a leave: drop the drag and
		// the crosshair.
		c.cross = nil
		c.drag = false
		return
	}
	n := c.s.len()
	sc := c.currentScale()

	switch {
	case m.Button == tea.MouseButtonWheelUp:
		c.vp.zoom(zoomInStep, sc.anchorIndex(x), n)
	case m.Button == tea.MouseButtonWheelDown:
		c.vp.zoom(zoomOutStep, sc.anchorIndex(x), n)
	case m.Action == tea.MouseActionPress && m.Button == tea.MouseButtonLeft:
		c.drag = true
		c.lastDragX = x
		c.cross = &point{x, y}
	case m.Action == tea.MouseActionRelease:
		c.drag = false
		c.cross = &point{x, y}
	case m.Action == tea.MouseActionMotion:
		if c.drag && sc.plotW > 0 {
			dx := x - c.lastDragX
			// Content follows the pointer: dragging right reveals
			// earlier candles.
			c.vp.pan(-float64(dx)*c.vp.width()/float64(sc.plotW), n)
			c.lastDragX = x
		}
		c.cross = &point{x, y}
	}
}

func (c *Chart) handleKey(m tea.KeyMsg) {
	n := c.s.len()
	if n == 0 {
		return
	}
	step := c.vp.width() * 0.1
	if step < 1 {
		step = 1
	}
	center := (c.vp.start + c.vp.end) / 2
	switch m.String() {
	case "left", "h":
		c.vp.pan(-step, n)
	case "right", "l":
		c.vp.pan(step, n)
	case "+", "=":
		c.vp.zoom(zoomInStep, center, n)
	case "-", "_":
		c.vp.zoom(zoomOutStep, center, n)
	case "0":
		c.vp.reset(n)
	}
}

// locate resolves a mouse message to chart-local cell coordinates.
func (c *Chart) locate(m tea.MouseMsg) (x, y int, ok bool) {
	if c.zm != nil && c.zoneID != "" {
		z := c.zm.Get(c.zoneID)
		if !z.InBounds(m) {
			return 0, 0, false
		}
		x, y = z.Pos(m)
		return x, y, true
	}
	if m.X < 0 || m.X >= c.cv.w || m.Y < 0 || m.Y >= c.cv.h {
		return 0, 0, false
	}
	return m.X, m.Y, true
}

// currentScale rebuilds the frame geometry for event handling.
func (c *Chart) currentScale() *scale {
	vis, first := c.s.window(c.vp.start, c.vp.end)
	return buildScale(c.opts, c.cv.w, c.cv.h, c.vp, vis, first)
}

// ── view ──────────────────────────────────────────────────────────────────────

// View renders the frame. It is a pure read of chart state; calling it
// twice with nothing in between yields identical output.
func (c *Chart) View() string {
	if c.closed {
		return ""
	}
	frame := c.draw()
	if c.zm != nil && c.zoneID != "" {
		frame = c.zm.Mark(c.zoneID, frame)
	}
	return frame
}
