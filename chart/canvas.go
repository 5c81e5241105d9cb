package chart

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ── cell grid ─────────────────────────────────────────────────────────────────

// canvas is a rows × cols grid of pre-rendered one-rune cells. Every draw
// pass clears it and repaints in full, so a frame never depends on the
// previous one.
type canvas struct {
	w, h  int
	cells [][]string
}

func newCanvas(w, h int) *canvas {
	cv := &canvas{}
	cv.resize(w, h)
	return cv
}

func (cv *canvas) resize(w, h int) {
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	cv.w, cv.h = w, h
	cv.cells = make([][]string, h)
	for r := range cv.cells {
		cv.cells[r] = make([]string, w)
	}
}

// clear fills every cell with the given pre-rendered blank.
func (cv *canvas) clear(blank string) {
	for r := range cv.cells {
		row := cv.cells[r]
		for c := range row {
			row[c] = blank
		}
	}
}

// set writes one pre-rendered cell, ignoring out-of-bounds coordinates.
func (cv *canvas) set(x, y int, cell string) {
	if x < 0 || x >= cv.w || y < 0 || y >= cv.h {
		return
	}
	cv.cells[y][x] = cell
}

// put styles and writes a single rune at x,y.
func (cv *canvas) put(x, y int, r rune, st lipgloss.Style) {
	cv.set(x, y, st.Render(string(r)))
}

// text writes a string left to right starting at x,y, clipped to the grid.
func (cv *canvas) text(x, y int, s string, st lipgloss.Style) {
	for i, r := range []rune(s) {
		cv.put(x+i, y, r, st)
	}
}

// textRight writes a string so that its last rune lands on x.
func (cv *canvas) textRight(x, y int, s string, st lipgloss.Style) {
	cv.text(x-len([]rune(s))+1, y, s, st)
}

// hline draws a horizontal run of r from x0 to x1 inclusive. A non-empty
// dash pattern alternates painted and skipped runs, e.g. {1, 1} dots every
// other cell and {3, 1} leaves one gap per three cells.
func (cv *canvas) hline(x0, x1, y int, r rune, st lipgloss.Style, dash []int) {
	for x := x0; x <= x1; x++ {
		if dashOn(dash, x-x0) {
			cv.put(x, y, r, st)
		}
	}
}

// vline draws a vertical run of r from y0 to y1 inclusive.
func (cv *canvas) vline(x, y0, y1 int, r rune, st lipgloss.Style, dash []int) {
	for y := y0; y <= y1; y++ {
		if dashOn(dash, y-y0) {
			cv.put(x, y, r, st)
		}
	}
}

// dashOn reports whether offset i falls on a painted run of the pattern.
func dashOn(dash []int, i int) bool {
	if len(dash) == 0 {
		return true
	}
	period := 0
	for _, d := range dash {
		if d > 0 {
			period += d
		}
	}
	if period == 0 {
		return true
	}
	i %= period
	on := true
	for _, d := range dash {
		if d <= 0 {
			continue
		}
		if i < d {
			return on
		}
		i -= d
		on = !on
	}
	return on
}

// String joins the grid into the frame handed to bubbletea.
func (cv *canvas) String() string {
	var b strings.Builder
	b.Grow(cv.w * cv.h * 2)
	for r := 0; r < cv.h; r++ {
		if r > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(strings.Join(cv.cells[r], ""))
	}
	return b.String()
}

// ── line rasterizing ──────────────────────────────────────────────────────────

type point struct{ x, y int }

// linePoints walks a straight segment cell by cell (Bresenham).
func linePoints(x0, y0, x1, y1 int) []point {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy
	pts := make([]point, 0, dx-dy+1)
	for {
		pts = append(pts, point{x0, y0})
		if x0 == x1 && y0 == y1 {
			return pts
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
