package chart

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuildThemeFallback(t *testing.T) {
	th := buildTheme("no-such-theme", Options{}.normalized())
	require.Equal(t, "dark", th.name)
	require.Equal(t, themes["dark"].Bg, th.pal.Bg)
}

func TestBuildThemeOverrides(t *testing.T) {
	o := Options{UpColor: "#123456", GridColor: "#654321"}.normalized()
	th := buildTheme("dark", o)
	require.Equal(t, "#123456", th.pal.Up)
	require.Equal(t, "#654321", th.pal.Grid)
	// Untouched entries keep the palette value.
	require.Equal(t, themes["dark"].Down, th.pal.Down)
}

func TestThemeNamesAllResolve(t *testing.T) {
	for _, name := range ThemeNames {
		th := buildTheme(name, Options{}.normalized())
		require.Equal(t, name, th.name)
		require.NotEmpty(t, th.pal.Up)
		require.NotEmpty(t, th.pal.Down)
		require.NotEmpty(t, th.blank)
	}
}

func TestOptionsNormalized(t *testing.T) {
	o := Options{}.normalized()
	require.Equal(t, "dark", o.Theme)
	require.Equal(t, 0.8, o.CandleWidth)
	require.Equal(t, 0.2, o.VolumeHeight)
	require.Equal(t, 64, o.MarkDepth)
	require.True(t, o.showVolume())

	o = Options{CandleWidth: 3, VolumeHeight: 0.9, MarkDepth: 1, ShowVolume: Bool(false)}.normalized()
	require.Equal(t, 0.8, o.CandleWidth)
	require.Equal(t, 0.2, o.VolumeHeight)
	require.Equal(t, 64, o.MarkDepth)
	require.False(t, o.showVolume())

	o = Options{Padding: Padding{Top: -2, Left: 3}}.normalized()
	require.Equal(t, 0, o.Padding.Top)
	require.Equal(t, 3, o.Padding.Left)
}
