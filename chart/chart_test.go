package chart

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"
	"github.com/stretchr/testify/require"

	"github.com/altanbat/candleterm/model/candle"
)

func TestSetDataResetsViewport(t *testing.T) {
	c := New(Options{})
	c.Resize(100, 30)

	data := make([]candle.Candle, 0, 250)
	for i := 0; i < 250; i++ {
		data = append(data, mkCandle(int64(i+1)*60, 10, 11, 9, 10, 1))
	}
	require.Equal(t, 250, c.SetData(data))

	start, end := c.Viewport()
	require.Equal(t, 150.0, start)
	require.Equal(t, 250.0, end)

	// Short histories show everything.
	require.Equal(t, 30, c.SetData(data[:30]))
	start, end = c.Viewport()
	require.Equal(t, 0.0, start)
	require.Equal(t, 30.0, end)
}

func TestStreamingUpdateFlow(t *testing.T) {
	c := New(Options{})
	c.Resize(100, 30)
	c.SetData([]candle.Candle{
		mkCandle(1000, 10, 12, 9, 11, 100),
		mkCandle(1060, 11, 13, 10, 12, 150),
	})

	// Refining the forming bucket keeps the length.
	c.UpdateCandle(mkCandle(1060, 11, 14, 10, 13, 200))
	require.Equal(t, 2, c.Len())
	last, ok := c.Last()
	require.True(t, ok)
	require.Equal(t, 14.0, last.High)
	require.Equal(t, 13.0, last.Close)
	require.Equal(t, 200.0, last.Volume)

	// A new bucket extends the live edge while tracking.
	c.UpdateCandle(mkCandle(1120, 13, 15, 12, 14, 20))
	require.Equal(t, 3, c.Len())
	_, end := c.Viewport()
	require.Equal(t, 3.0, end)

	// Stale ticks never land.
	c.UpdateCandle(mkCandle(500, 1, 2, 1, 2, 1))
	require.Equal(t, 3, c.Len())
}

func TestUpdateCandleAwayFromLiveEdge(t *testing.T) {
	c := New(Options{})
	c.Resize(100, 30)
	data := make([]candle.Candle, 0, 200)
	for i := 0; i < 200; i++ {
		data = append(data, mkCandle(int64(i+1)*60, 10, 11, 9, 10, 1))
	}
	c.SetData(data)

	// Pan back into history so the viewport is off the live edge.
	c.vp.pan(-80, c.Len())
	start0, end0 := c.Viewport()

	c.UpdateCandle(mkCandle(201*60, 10, 11, 9, 10, 1))
	require.Equal(t, 201, c.Len())
	start, end := c.Viewport()
	require.Equal(t, start0, start)
	require.Equal(t, end0, end)
}

func TestUpdateCandleIntoEmptyChart(t *testing.T) {
	c := New(Options{})
	c.Resize(80, 24)
	c.UpdateCandle(mkCandle(60, 10, 11, 9, 10, 1))
	require.Equal(t, 1, c.Len())
	start, end := c.Viewport()
	require.Equal(t, 0.0, start)
	require.Equal(t, 1.0, end)
}

func TestWheelZoom(t *testing.T) {
	c := newTestChart(200)
	w0 := c.vp.width()

	c.Update(tea.MouseMsg{X: 50, Y: 10, Action: tea.MouseActionPress, Button: tea.MouseButtonWheelUp})
	require.Less(t, c.vp.width(), w0)

	c.Update(tea.MouseMsg{X: 50, Y: 10, Action: tea.MouseActionPress, Button: tea.MouseButtonWheelDown})
	require.InDelta(t, w0, c.vp.width(), w0*0.02)
}

func TestDragPan(t *testing.T) {
	c := newTestChart(200)
	start0, _ := c.Viewport()

	c.Update(tea.MouseMsg{X: 60, Y: 10, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	require.True(t, c.drag)

	// Dragging left reveals later data; here we are already at the live
	// edge, so drag right to reveal history.
	c.Update(tea.MouseMsg{X: 70, Y: 10, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft})
	start1, _ := c.Viewport()
	require.Less(t, start1, start0)
	require.NotNil(t, c.cross)

	c.Update(tea.MouseMsg{X: 70, Y: 10, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft})
	require.False(t, c.drag)

	// Motion after release moves only the crosshair.
	c.Update(tea.MouseMsg{X: 40, Y: 12, Action: tea.MouseActionMotion})
	start2, _ := c.Viewport()
	require.Equal(t, start1, start2)
	require.Equal(t, point{40, 12}, *c.cross)
}

func TestPointerLeaveCancelsDrag(t *testing.T) {
	c := newTestChart(50)
	c.Update(tea.MouseMsg{X: 30, Y: 10, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	require.True(t, c.drag)

	c.Update(tea.MouseMsg{X: -5, Y: 10, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft})
	require.False(t, c.drag)
	require.Nil(t, c.cross)
}

func TestKeyboardPanZoom(t *testing.T) {
	c := newTestChart(200)
	start0, _ := c.Viewport()

	c.Update(tea.KeyMsg{Type: tea.KeyLeft})
	start1, _ := c.Viewport()
	require.Less(t, start1, start0)

	w0 := c.vp.width()
	c.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'+'}})
	require.Less(t, c.vp.width(), w0)

	c.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'0'}})
	start2, end2 := c.Viewport()
	require.Equal(t, 100.0, start2)
	require.Equal(t, 200.0, end2)
}

func TestUnfocusedIgnoresInput(t *testing.T) {
	c := newTestChart(200)
	c.SetFocus(false)
	start0, _ := c.Viewport()

	c.Update(tea.KeyMsg{Type: tea.KeyLeft})
	c.Update(tea.MouseMsg{X: 30, Y: 10, Action: tea.MouseActionMotion})
	start1, _ := c.Viewport()
	require.Equal(t, start0, start1)
	require.Nil(t, c.cross)
}

func TestMarkHistoryBounded(t *testing.T) {
	c := New(Options{MarkDepth: 4})
	c.Resize(80, 24)

	for i := 1; i <= 10; i++ {
		c.SetMarkPrice(float64(i))
	}
	require.Equal(t, []float64{7, 8, 9, 10}, c.Marks())

	// Junk marks never land in the history.
	c.SetMarkPrice(-1)
	c.SetMarkPrice(0)
	require.Len(t, c.Marks(), 4)
	require.Equal(t, 10.0, c.Marks()[3])
}

func TestMarkHistoryPerInstance(t *testing.T) {
	a := New(Options{})
	b := New(Options{})
	a.SetMarkPrice(1)
	a.SetMarkPrice(2)
	b.SetMarkPrice(9)

	require.Equal(t, []float64{1, 2}, a.Marks())
	require.Equal(t, []float64{9}, b.Marks())
}

func TestSetThemeFallback(t *testing.T) {
	c := New(Options{})
	require.Equal(t, "dark", c.ThemeName())

	c.SetTheme("light")
	require.Equal(t, "light", c.ThemeName())

	c.SetTheme("solarized-unknown")
	require.Equal(t, "dark", c.ThemeName())
}

func TestSetChartTypeUnknownIgnored(t *testing.T) {
	c := New(Options{})
	c.SetChartType(TypeLine)
	require.Equal(t, TypeLine, c.Type())

	c.SetChartType(ChartType("heikin-ashi"))
	require.Equal(t, TypeLine, c.Type())
}

func TestCloseMakesCallsSafe(t *testing.T) {
	c := newTestChart(20)
	c.Close()

	require.Equal(t, 0, c.SetData([]candle.Candle{mkCandle(60, 1, 2, 1, 2, 0)}))
	c.UpdateCandle(mkCandle(120, 1, 2, 1, 2, 0))
	c.SetMarkPrice(5)
	c.SetOverlayLines([]OverlayLine{{Price: 1}})
	c.SetTheme("light")
	c.Resize(10, 10)
	c.Update(tea.KeyMsg{Type: tea.KeyLeft})
	c.Update(tea.MouseMsg{X: 1, Y: 1, Action: tea.MouseActionMotion})

	require.Equal(t, "", c.View())
	require.Nil(t, c.Marks())
	require.False(t, c.Focused())

	// Closing twice is fine.
	c.Close()
}

func TestZoneManagerWiring(t *testing.T) {
	zm := zone.New()
	c := newTestChart(30)
	c.SetZoneManager(zm)
	require.NotEmpty(t, c.zoneID)

	// The marked frame still carries the chart content.
	require.Contains(t, plain(zm.Scan(c.View())), "█")
}

func TestVisibleCandlesReadPath(t *testing.T) {
	c := newTestChart(200)
	vis := c.VisibleCandles()
	require.Len(t, vis, 100)

	// The copy is detached from the store.
	vis[0].Close = -999
	vis2 := c.VisibleCandles()
	require.NotEqual(t, vis[0].Close, vis2[0].Close)
}
