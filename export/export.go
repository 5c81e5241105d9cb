// Package export renders a chart snapshot to a standalone HTML page so a
// session can be inspected outside the terminal. The page mirrors what
// the terminal shows: candles, volume, the mark price and any position
// levels, drawn with go-echarts.
package export

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/altanbat/candleterm/model/candle"
)

// Export palette, matching the terminal's dark theme.
const (
	colorUp    = "#98c379"
	colorDown  = "#e06c75"
	colorMark  = "#e5c07b"
	colorLevel = "#61afef"
)

// Level is one horizontal price line on the exported chart.
type Level struct {
	Label string
	Price float64
	Color string
}

// Snapshot is everything the page needs, detached from live state.
type Snapshot struct {
	Symbol    string
	Timeframe string
	Candles   []candle.Candle
	Levels    []Level
	Mark      float64
}

// WriteHTML renders the snapshot as a self-contained HTML page.
func WriteHTML(w io.Writer, snap Snapshot) error {
	if len(snap.Candles) == 0 {
		return fmt.Errorf("export: no candles to render")
	}

	page := components.NewPage()
	page.PageTitle = fmt.Sprintf("%s %s", snap.Symbol, snap.Timeframe)
	page.AddCharts(klineChart(snap), volumeChart(snap))

	if err := page.Render(w); err != nil {
		return fmt.Errorf("export: render: %w", err)
	}
	return nil
}

// WriteFile renders the snapshot into path, replacing any existing file.
func WriteFile(path string, snap Snapshot) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}
	if err := WriteHTML(f, snap); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	return nil
}

func formatStamp(sec int64) string {
	return time.Unix(sec, 0).UTC().Format("01/02 15:04")
}

func timeAxis(cs []candle.Candle) []string {
	x := make([]string, len(cs))
	for i, c := range cs {
		x[i] = formatStamp(c.Time)
	}
	return x
}

func klineChart(snap Snapshot) *charts.Kline {
	x := timeAxis(snap.Candles)
	kv := make([]opts.KlineData, len(snap.Candles))
	for i, c := range snap.Candles {
		// Kline value order is open, close, low, high.
		kv[i] = opts.KlineData{Value: [4]float64{c.Open, c.Close, c.Low, c.High}}
	}

	kline := charts.NewKLine()
	kline.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title: fmt.Sprintf("%s %s", snap.Symbol, snap.Timeframe),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithYAxisOpts(opts.YAxis{Scale: opts.Bool(true)}),
		charts.WithDataZoomOpts(opts.DataZoom{Start: 0, End: 100, XAxisIndex: []int{0}}),
	)
	kline.SetXAxis(x).
		AddSeries(snap.Symbol, kv).
		SetSeriesOptions(charts.WithItemStyleOpts(opts.ItemStyle{
			Color:        colorUp,
			Color0:       colorDown,
			BorderColor:  colorUp,
			BorderColor0: colorDown,
		}))

	if lines := levelChart(snap, x); lines != nil {
		kline.Overlap(lines)
	}
	return kline
}

// levelChart flattens the mark price and levels into constant line
// series overlapping the candles. Returns nil when there is nothing to
// draw.
func levelChart(snap Snapshot, x []string) *charts.Line {
	type flat struct {
		label string
		price float64
		color string
	}
	var fs []flat
	if snap.Mark > 0 {
		fs = append(fs, flat{"Mark", snap.Mark, colorMark})
	}
	for _, lv := range snap.Levels {
		if lv.Price <= 0 {
			continue
		}
		color := lv.Color
		if color == "" {
			color = colorLevel
		}
		fs = append(fs, flat{lv.Label, lv.Price, color})
	}
	if len(fs) == 0 {
		return nil
	}

	line := charts.NewLine()
	line.SetXAxis(x)
	for _, f := range fs {
		data := make([]opts.LineData, len(x))
		for i := range data {
			data[i] = opts.LineData{Value: f.price}
		}
		line.AddSeries(f.label, data,
			charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(false)}),
			charts.WithLineStyleOpts(opts.LineStyle{Color: f.color, Type: "dashed"}),
		)
	}
	return line
}

func volumeChart(snap Snapshot) *charts.Bar {
	x := timeAxis(snap.Candles)
	bv := make([]opts.BarData, len(snap.Candles))
	for i, c := range snap.Candles {
		color := colorDown
		if c.Bullish() {
			color = colorUp
		}
		bv[i] = opts.BarData{
			Value:     c.Volume,
			ItemStyle: &opts.ItemStyle{Color: color},
		}
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Volume"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithDataZoomOpts(opts.DataZoom{Start: 0, End: 100, XAxisIndex: []int{0}}),
	)
	bar.SetXAxis(x).AddSeries("Volume", bv)
	return bar
}
