package chart

import "github.com/creasty/defaults"

// ── options ───────────────────────────────────────────────────────────────────

// Padding is empty rows/columns kept clear inside the chart box.
type Padding struct {
	Top    int `default:"0" yaml:"top"`
	Right  int `default:"0" yaml:"right"`
	Bottom int `default:"0" yaml:"bottom"`
	Left   int `default:"0" yaml:"left"`
}

// Options configures a Chart. The zero value is usable: New fills every
// unset field from its default tag. Color fields are hex strings and
// override the active theme when non-empty.
type Options struct {
	// Theme picks the base palette: "dark", "light" or "mono".
	Theme string `default:"dark" yaml:"theme"`

	UpColor        string `yaml:"up_color"`
	DownColor      string `yaml:"down_color"`
	BgColor        string `yaml:"bg_color"`
	GridColor      string `yaml:"grid_color"`
	TextColor      string `yaml:"text_color"`
	CrosshairColor string `yaml:"crosshair_color"`

	// CandleWidth is the body width as a fraction of the per-candle slot.
	CandleWidth float64 `default:"0.8" yaml:"candle_width"`

	// ShowVolume toggles the volume pane. nil means on.
	ShowVolume      *bool   `default:"true" yaml:"show_volume"`
	VolumeHeight    float64 `default:"0.2" yaml:"volume_height"`
	VolumeUpColor   string  `yaml:"volume_up_color"`
	VolumeDownColor string  `yaml:"volume_down_color"`

	Padding Padding `yaml:"padding"`

	// MarkDepth bounds the retained mark price history per chart.
	MarkDepth int `default:"64" yaml:"mark_depth"`
}

// Bool returns a pointer for the optional bool fields.
func Bool(v bool) *bool { return &v }

// normalized applies defaults and clamps fractions into sane ranges.
func (o Options) normalized() Options {
	_ = defaults.Set(&o)
	if o.CandleWidth <= 0 || o.CandleWidth > 1 {
		o.CandleWidth = 0.8
	}
	if o.VolumeHeight <= 0 || o.VolumeHeight > 0.5 {
		o.VolumeHeight = 0.2
	}
	if o.MarkDepth < 2 {
		o.MarkDepth = 64
	}
	clampPad := func(p *int) {
		if *p < 0 {
			*p = 0
		}
	}
	clampPad(&o.Padding.Top)
	clampPad(&o.Padding.Right)
	clampPad(&o.Padding.Bottom)
	clampPad(&o.Padding.Left)
	return o
}

func (o Options) showVolume() bool {
	return o.ShowVolume == nil || *o.ShowVolume
}
