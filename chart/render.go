package chart

import (
	"math"

	"github.com/altanbat/candleterm/model/candle"
)

// ── draw pass ─────────────────────────────────────────────────────────────────

// eighths maps 0..8 filled eighth-cells to partial block runes.
var eighths = [...]rune{' ', '▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// draw repaints the whole frame from current state. The pass only reads
// chart state and writes cells, so repeated calls yield identical output.
func (c *Chart) draw() string {
	c.cv.clear(c.th.blank)

	vis, first := c.s.window(c.vp.start, c.vp.end)
	if len(vis) == 0 {
		c.drawPlaceholder()
		return c.cv.String()
	}
	sc := buildScale(c.opts, c.cv.w, c.cv.h, c.vp, vis, first)

	c.drawGrid(sc, vis)
	if c.typ == TypeCandles {
		c.drawCandles(sc, vis)
	}
	c.drawVolumeBars(sc, vis)
	c.drawPriceAxis(sc)
	c.drawTimeAxis(sc, vis)
	if c.typ == TypeLine {
		c.drawCloseLine(sc, vis)
	}
	c.drawCrosshair(sc, vis)
	c.drawMarkLine(sc, vis)
	c.drawOverlays(sc)
	return c.cv.String()
}

func (c *Chart) drawPlaceholder() {
	msg := "No data"
	c.cv.text((c.cv.w-len(msg))/2, c.cv.h/2, msg, c.th.dim)
}

// gridRows returns the rows carrying horizontal gridlines, top to bottom.
func gridRows(sc *scale) []int {
	rows := make([]int, 0, priceGridRows)
	for g := 0; g < priceGridRows; g++ {
		frac := float64(g) / float64(priceGridRows-1)
		y := sc.plotY + int(math.Round(frac*float64(sc.plotH-1)))
		if len(rows) > 0 && rows[len(rows)-1] == y {
			continue
		}
		rows = append(rows, y)
	}
	return rows
}

// timeStep spaces vertical gridlines and time labels at about a sixth of
// the visible window.
func timeStep(visible int) int {
	step := visible / 6
	if step < 1 {
		step = 1
	}
	return step
}

func (c *Chart) drawGrid(sc *scale, vis []candle.Candle) {
	for _, y := range gridRows(sc) {
		c.cv.hline(sc.plotX, sc.plotX+sc.plotW-1, y, '─', c.th.grid, nil)
	}
	step := timeStep(len(vis))
	for i := 0; i < len(vis); i += step {
		x := sc.indexToX(sc.first + i)
		if !sc.colIn(x) {
			continue
		}
		c.cv.vline(x, sc.plotY, sc.volY+sc.volH-1, '│', c.th.grid, nil)
	}
}

func (c *Chart) drawCandles(sc *scale, vis []candle.Candle) {
	bw := sc.bodyWidth(c.opts.CandleWidth)
	for i, k := range vis {
		x := sc.indexToX(sc.first + i)
		st := c.th.down
		if k.Bullish() {
			st = c.th.up
		}

		yHigh := sc.priceToY(k.High)
		yLow := sc.priceToY(k.Low)
		yTop := sc.priceToY(math.Max(k.Open, k.Close))
		yBot := sc.priceToY(math.Min(k.Open, k.Close))

		if sc.colIn(x) {
			for y := yHigh; y <= yLow; y++ {
				if sc.inPricePane(y) {
					c.cv.put(x, y, '│', c.th.wick)
				}
			}
		}
		// yBot >= yTop always holds, so a doji still paints one row.
		x0 := x - (bw-1)/2
		for xx := x0; xx < x0+bw; xx++ {
			if !sc.colIn(xx) {
				continue
			}
			for y := yTop; y <= yBot; y++ {
				if sc.inPricePane(y) {
					c.cv.put(xx, y, '█', st)
				}
			}
		}
	}
}

func (c *Chart) drawVolumeBars(sc *scale, vis []candle.Candle) {
	if sc.volH <= 0 || sc.volMax <= 0 {
		return
	}
	bw := sc.bodyWidth(c.opts.CandleWidth)
	baseY := sc.volY + sc.volH - 1
	for i, k := range vis {
		e := sc.volumeBar(k.Volume)
		if e <= 0 {
			continue
		}
		st := c.th.volDown
		if k.Bullish() {
			st = c.th.volUp
		}
		x := sc.indexToX(sc.first + i)
		x0 := x - (bw-1)/2
		full, rem := e/8, e%8
		for xx := x0; xx < x0+bw; xx++ {
			if !sc.colIn(xx) {
				continue
			}
			for f := 0; f < full; f++ {
				c.cv.put(xx, baseY-f, '█', st)
			}
			if rem > 0 && baseY-full >= sc.volY {
				c.cv.put(xx, baseY-full, eighths[rem], st)
			}
		}
	}
}

func (c *Chart) drawPriceAxis(sc *scale) {
	for y := sc.plotY; y < sc.volY+sc.volH; y++ {
		c.cv.put(sc.axisX, y, '│', c.th.grid)
	}
	for _, y := range gridRows(sc) {
		c.cv.textRight(sc.axisX+sc.axisW-1, y, formatPrice(sc.yToPrice(y)), c.th.axis)
	}
}

func (c *Chart) drawTimeAxis(sc *scale, vis []candle.Candle) {
	if sc.sepY >= 0 {
		c.cv.hline(sc.plotX, sc.axisX+sc.axisW-1, sc.sepY, '─', c.th.grid, nil)
		c.cv.put(sc.axisX, sc.sepY, '┴', c.th.grid)
	}
	if sc.timeY < 0 {
		return
	}
	span := vis[len(vis)-1].Time - vis[0].Time
	step := timeStep(len(vis))
	lastEnd := -2
	for i := 0; i < len(vis); i += step {
		x := sc.indexToX(sc.first + i)
		stamp := formatTime(vis[i].Time, span)
		x0 := x - len(stamp)/2
		if x0 <= lastEnd+1 || x0 < sc.plotX {
			continue
		}
		if x0+len(stamp) > sc.axisX {
			break
		}
		c.cv.text(x0, sc.timeY, stamp, c.th.axis)
		lastEnd = x0 + len(stamp) - 1
	}
}

func (c *Chart) drawCloseLine(sc *scale, vis []candle.Candle) {
	prevX, prevY := 0, 0
	for i, k := range vis {
		x := sc.indexToX(sc.first + i)
		y := sc.priceToY(k.Close)
		if i > 0 {
			for _, p := range linePoints(prevX, prevY, x, y) {
				if sc.colIn(p.x) && sc.inPricePane(p.y) {
					c.cv.put(p.x, p.y, '•', c.th.accent)
				}
			}
		}
		prevX, prevY = x, y
	}
}

func (c *Chart) drawCrosshair(sc *scale, vis []candle.Candle) {
	if c.cross == nil {
		return
	}
	x, y := c.cross.x, c.cross.y
	if !sc.inPlot(x, y) {
		return
	}
	c.cv.vline(x, sc.plotY, sc.volY+sc.volH-1, '┊', c.th.crosshair, []int{1, 1})
	if sc.inPricePane(y) {
		c.cv.hline(sc.plotX, sc.plotX+sc.plotW-1, y, '┄', c.th.crosshair, []int{1, 1})
		c.cv.put(x, y, '┼', c.th.crosshair)
		c.cv.text(sc.axisX+1, y, formatPriceFull(sc.yToPrice(y)), c.th.crossTag)
	}

	idx := sc.xToIndex(x)
	if idx < sc.first {
		idx = sc.first
	}
	if idx > sc.first+len(vis)-1 {
		idx = sc.first + len(vis) - 1
	}
	k := vis[idx-sc.first]
	if sc.timeY >= 0 {
		stamp := formatTimeFull(k.Time)
		x0 := x - len(stamp)/2
		if x0 < sc.plotX {
			x0 = sc.plotX
		}
		if x0+len(stamp) > sc.axisX {
			x0 = sc.axisX - len(stamp)
		}
		c.cv.text(x0, sc.timeY, stamp, c.th.crossTag)
	}
	c.drawTooltip(sc, k, x)
}

// drawTooltip draws the OHLCV box beside the crosshair column, flipping
// to the left side when the right edge would clip it.
func (c *Chart) drawTooltip(sc *scale, k candle.Candle, cx int) {
	lines := []string{
		formatTimeFull(k.Time),
		"O " + formatPriceFull(k.Open),
		"H " + formatPriceFull(k.High),
		"L " + formatPriceFull(k.Low),
		"C " + formatPriceFull(k.Close),
		"V " + formatVolume(k.Volume),
	}
	width := 0
	for _, l := range lines {
		if len(l) > width {
			width = len(l)
		}
	}
	boxW := width + 4
	boxH := len(lines) + 2

	x0 := cx + 2
	if x0+boxW > sc.plotX+sc.plotW {
		x0 = cx - 1 - boxW
	}
	if x0 < sc.plotX {
		x0 = sc.plotX
	}
	y0 := sc.plotY + 1
	if y0+boxH > sc.plotY+sc.plotH {
		y0 = sc.plotY
	}

	st := c.th.tooltip
	c.cv.put(x0, y0, '╭', st)
	c.cv.put(x0+boxW-1, y0, '╮', st)
	c.cv.put(x0, y0+boxH-1, '╰', st)
	c.cv.put(x0+boxW-1, y0+boxH-1, '╯', st)
	c.cv.hline(x0+1, x0+boxW-2, y0, '─', st, nil)
	c.cv.hline(x0+1, x0+boxW-2, y0+boxH-1, '─', st, nil)
	for i, l := range lines {
		y := y0 + 1 + i
		c.cv.put(x0, y, '│', st)
		c.cv.put(x0+boxW-1, y, '│', st)
		c.cv.text(x0+1, y, " "+l, st)
		for x := x0 + 2 + len(l); x < x0+boxW-1; x++ {
			c.cv.put(x, y, ' ', st)
		}
	}
}

// drawMarkLine paints the dashed mark price line, falling back to the
// last close before any tick arrives. The badge colors by direction
// against the previous retained mark.
func (c *Chart) drawMarkLine(sc *scale, vis []candle.Candle) {
	price, ok := c.marks.last()
	if !ok {
		price = vis[len(vis)-1].Close
	}
	y := sc.priceToY(price)
	if !sc.inPricePane(y) {
		return
	}
	c.cv.hline(sc.plotX, sc.plotX+sc.plotW-1, y, '╌', c.th.markLine, nil)

	badge := c.th.markUp
	if prev, ok := c.marks.prev(); ok && price < prev {
		badge = c.th.markDown
	}
	c.cv.put(sc.axisX, y, '▸', c.th.markLine)
	c.cv.text(sc.axisX+1, y, formatPriceFull(price), badge)
}

func (c *Chart) drawOverlays(sc *scale) {
	for _, l := range c.overlays {
		y := sc.priceToY(l.Price)
		if !sc.inPricePane(y) {
			continue
		}
		dash := l.Dash
		if len(dash) == 0 {
			dash = []int{2, 1}
		}
		c.cv.hline(sc.plotX, sc.plotX+sc.plotW-1, y, '─', c.th.lineStyle(l.Color), dash)
		if l.Label != "" {
			tag := " " + l.Label + " " + formatPriceFull(l.Price) + " "
			c.cv.text(sc.plotX+1, y, tag, c.th.tagStyle(l.Color))
		}
	}
}
