package export

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/altanbat/candleterm/model/candle"
)

func testSnapshot() Snapshot {
	return Snapshot{
		Symbol:    "USD-MNT",
		Timeframe: "15m",
		Candles: []candle.Candle{
			{Time: 1700000100, Open: 3550, High: 3560, Low: 3545, Close: 3555, Volume: 20},
			{Time: 1700001000, Open: 3555, High: 3570, Low: 3550, Close: 3565, Volume: 35},
			{Time: 1700001900, Open: 3565, High: 3566, Low: 3540, Close: 3542, Volume: 50},
		},
		Levels: []Level{
			{Label: "Entry", Price: 3548},
			{Label: "Liq", Price: 3500, Color: "#ff0000"},
		},
		Mark: 3551.5,
	}
}

func TestWriteHTML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteHTML(&buf, testSnapshot()))

	html := buf.String()
	require.Contains(t, html, "<html>")
	require.Contains(t, html, "USD-MNT 15m")
	require.Contains(t, html, "Volume")
	require.Contains(t, html, "Entry")
	require.Contains(t, html, "Liq")
	require.Contains(t, html, "Mark")
	// Kline values carry open, close, low, high.
	require.Contains(t, html, "3550")
}

func TestWriteHTMLEmptySnapshot(t *testing.T) {
	var buf bytes.Buffer
	err := WriteHTML(&buf, Snapshot{Symbol: "USD-MNT"})
	require.Error(t, err)
	require.Zero(t, buf.Len())
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snap.html")
	require.NoError(t, WriteFile(path, testSnapshot()))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(raw), "USD-MNT 15m")
}

func TestLevelChartSkipsNonPositive(t *testing.T) {
	snap := testSnapshot()
	snap.Mark = 0
	snap.Levels = []Level{{Label: "Zero", Price: 0}, {Label: "Neg", Price: -5}}
	require.Nil(t, levelChart(snap, []string{"a", "b"}))
}
