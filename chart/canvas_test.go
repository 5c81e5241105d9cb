package chart

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/require"
)

func TestCanvasBounds(t *testing.T) {
	cv := newCanvas(5, 3)
	st := lipgloss.NewStyle()
	cv.clear(" ")

	cv.put(0, 0, 'a', st)
	cv.put(4, 2, 'b', st)
	cv.put(-1, 0, 'x', st)
	cv.put(5, 0, 'x', st)
	cv.put(0, 3, 'x', st)

	out := plain(cv.String())
	rows := strings.Split(out, "\n")
	require.Len(t, rows, 3)
	require.Equal(t, "a    ", rows[0])
	require.Equal(t, "    b", rows[2])
	require.NotContains(t, out, "x")
}

func TestCanvasTextClipping(t *testing.T) {
	cv := newCanvas(5, 1)
	cv.clear(" ")
	cv.text(3, 0, "hello", lipgloss.NewStyle())
	require.Equal(t, "   he", plain(cv.String()))

	cv.clear(" ")
	cv.textRight(4, 0, "ok", lipgloss.NewStyle())
	require.Equal(t, "   ok", plain(cv.String()))
}

func TestCanvasResizeClamp(t *testing.T) {
	cv := newCanvas(0, -2)
	require.Equal(t, 1, cv.w)
	require.Equal(t, 1, cv.h)
}

func TestDashPatterns(t *testing.T) {
	// Solid when no pattern.
	for i := 0; i < 5; i++ {
		require.True(t, dashOn(nil, i))
	}
	// {1,1} alternates.
	want := []bool{true, false, true, false, true, false}
	for i, w := range want {
		require.Equal(t, w, dashOn([]int{1, 1}, i), "i=%d", i)
	}
	// {2,1} paints two, skips one.
	want = []bool{true, true, false, true, true, false}
	for i, w := range want {
		require.Equal(t, w, dashOn([]int{2, 1}, i), "i=%d", i)
	}
	// Degenerate patterns stay solid.
	require.True(t, dashOn([]int{0, 0}, 3))
	require.True(t, dashOn([]int{-1}, 2))
}

func TestLinePoints(t *testing.T) {
	pts := linePoints(0, 0, 3, 0)
	require.Equal(t, []point{{0, 0}, {1, 0}, {2, 0}, {3, 0}}, pts)

	pts = linePoints(0, 0, 0, 2)
	require.Equal(t, []point{{0, 0}, {0, 1}, {0, 2}}, pts)

	pts = linePoints(0, 0, 2, 2)
	require.Equal(t, []point{{0, 0}, {1, 1}, {2, 2}}, pts)

	// A steep reverse segment still starts and ends on the endpoints.
	pts = linePoints(5, 4, 3, 0)
	require.Equal(t, point{5, 4}, pts[0])
	require.Equal(t, point{3, 0}, pts[len(pts)-1])
	require.Len(t, pts, 5)
}
