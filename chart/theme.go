package chart

import "github.com/charmbracelet/lipgloss"

// ── palettes ──────────────────────────────────────────────────────────────────

// palette is the raw color set of a theme. Options may override single
// entries before the styles are built.
type palette struct {
	Bg        string
	PanelBg   string
	Text      string
	Dim       string
	Grid      string
	Up        string
	Down      string
	Wick      string
	Accent    string
	Crosshair string
	VolUp     string
	VolDown   string
}

// themes keys are the names accepted by SetTheme. "dark" follows the One
// Half Dark terminal scheme.
var themes = map[string]palette{
	"dark": {
		Bg:        "#282c34",
		PanelBg:   "#21252b",
		Text:      "#abb2bf",
		Dim:       "#5c6370",
		Grid:      "#3e4451",
		Up:        "#98c379",
		Down:      "#e06c75",
		Wick:      "#5c6370",
		Accent:    "#61afef",
		Crosshair: "#e5c07b",
		VolUp:     "#4b5e48",
		VolDown:   "#6e4a50",
	},
	"light": {
		Bg:        "#fafafa",
		PanelBg:   "#f0f0f1",
		Text:      "#383a42",
		Dim:       "#a0a1a7",
		Grid:      "#dbdbdc",
		Up:        "#50a14f",
		Down:      "#e45649",
		Wick:      "#a0a1a7",
		Accent:    "#4078f2",
		Crosshair: "#c18401",
		VolUp:     "#b5d4b4",
		VolDown:   "#ecb8b3",
	},
	"mono": {
		Bg:        "#000000",
		PanelBg:   "#111111",
		Text:      "#cccccc",
		Dim:       "#555555",
		Grid:      "#333333",
		Up:        "#ffffff",
		Down:      "#777777",
		Wick:      "#555555",
		Accent:    "#cccccc",
		Crosshair: "#ffffff",
		VolUp:     "#444444",
		VolDown:   "#2a2a2a",
	},
}

// ThemeNames lists the built-in themes in cycling order.
var ThemeNames = []string{"dark", "light", "mono"}

// ── prebuilt styles ───────────────────────────────────────────────────────────

// theme holds every style the renderer needs, built once per theme or
// option change so the draw pass never constructs styles.
type theme struct {
	name  string
	pal   palette
	blank string // pre-rendered background cell

	text      lipgloss.Style
	dim       lipgloss.Style
	grid      lipgloss.Style
	axis      lipgloss.Style
	up        lipgloss.Style
	down      lipgloss.Style
	wick      lipgloss.Style
	accent    lipgloss.Style
	crosshair lipgloss.Style
	crossTag  lipgloss.Style
	volUp     lipgloss.Style
	volDown   lipgloss.Style
	tooltip   lipgloss.Style
	markLine  lipgloss.Style
	markUp    lipgloss.Style
	markDown  lipgloss.Style
}

// buildTheme resolves a theme name, applies option color overrides and
// prebuilds the style set. Unknown names fall back to "dark".
func buildTheme(name string, o Options) theme {
	pal, ok := themes[name]
	if !ok {
		name = "dark"
		pal = themes[name]
	}
	override(&pal.Bg, o.BgColor)
	override(&pal.Text, o.TextColor)
	override(&pal.Grid, o.GridColor)
	override(&pal.Up, o.UpColor)
	override(&pal.Down, o.DownColor)
	override(&pal.Crosshair, o.CrosshairColor)
	override(&pal.VolUp, o.VolumeUpColor)
	override(&pal.VolDown, o.VolumeDownColor)

	bg := lipgloss.Color(pal.Bg)
	on := func(fg string) lipgloss.Style {
		return lipgloss.NewStyle().Foreground(lipgloss.Color(fg)).Background(bg)
	}

	th := theme{
		name:      name,
		pal:       pal,
		text:      on(pal.Text),
		dim:       on(pal.Dim),
		grid:      on(pal.Grid),
		axis:      on(pal.Dim),
		up:        on(pal.Up),
		down:      on(pal.Down),
		wick:      on(pal.Wick),
		accent:    on(pal.Accent),
		crosshair: on(pal.Crosshair),
		volUp:     on(pal.VolUp),
		volDown:   on(pal.VolDown),
		markLine:  on(pal.Accent),
		crossTag: lipgloss.NewStyle().
			Foreground(lipgloss.Color(pal.Bg)).
			Background(lipgloss.Color(pal.Crosshair)),
		tooltip: lipgloss.NewStyle().
			Foreground(lipgloss.Color(pal.Text)).
			Background(lipgloss.Color(pal.PanelBg)),
		markUp: lipgloss.NewStyle().
			Foreground(lipgloss.Color(pal.Bg)).
			Background(lipgloss.Color(pal.Up)),
		markDown: lipgloss.NewStyle().
			Foreground(lipgloss.Color(pal.Bg)).
			Background(lipgloss.Color(pal.Down)),
	}
	th.blank = th.text.Render(" ")
	return th
}

func override(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

// lineStyle builds a one-off style for an overlay line color on the
// theme background.
func (th theme) lineStyle(color string) lipgloss.Style {
	if color == "" {
		return th.accent
	}
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(color)).
		Background(lipgloss.Color(th.pal.Bg))
}

// tagStyle builds the inverted label style for an overlay line.
func (th theme) tagStyle(color string) lipgloss.Style {
	if color == "" {
		color = th.pal.Accent
	}
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(th.pal.Bg)).
		Background(lipgloss.Color(color))
}
