// Package config loads the terminal's YAML configuration. A missing
// file is not an error: every field has a default, so the binary runs
// with zero setup against a local service.
package config

import (
	"fmt"
	"math"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/altanbat/candleterm/model/candle"
)

type Config struct {
	Server struct {
		BaseURL   string        `yaml:"base_url" default:"http://localhost:8080"`
		StreamURL string        `yaml:"stream_url"`
		Timeout   time.Duration `yaml:"timeout" default:"10s"`
	} `yaml:"server"`
	Market struct {
		Symbol       string `yaml:"symbol" default:"USD-MNT"`
		Timeframe    string `yaml:"timeframe" default:"15m"`
		HistoryLimit int    `yaml:"history_limit" default:"100"`
	} `yaml:"market"`
	UI struct {
		Theme        string  `yaml:"theme" default:"dark"`
		CandleWidth  float64 `yaml:"candle_width" default:"0.8"`
		ShowVolume   *bool   `yaml:"show_volume" default:"true"`
		VolumeHeight float64 `yaml:"volume_height" default:"0.2"`
	} `yaml:"ui"`
	Position struct {
		Entry       float64 `yaml:"entry"`
		Liquidation float64 `yaml:"liquidation"`
		TakeProfit  float64 `yaml:"take_profit"`
		StopLoss    float64 `yaml:"stop_loss"`
	} `yaml:"position"`
	Log struct {
		File  string `yaml:"file"`
		Level string `yaml:"level" default:"info"`
	} `yaml:"log"`
}

// Default returns the zero-setup configuration.
func Default() *Config {
	var c Config
	defaults.MustSet(&c)
	c.normalize()
	return &c
}

// Load reads and parses a YAML configuration file. An empty path or a
// missing file yields the defaults.
func Load(path string) (*Config, error) {
	c, err := parse(path)
	if err != nil {
		return nil, err
	}
	c.normalize()
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return c, nil
}

// LoadWithEnv loads the file and overrides with CANDLETERM_* environment
// variables before validating.
func LoadWithEnv(path string) (*Config, error) {
	c, err := parse(path)
	if err != nil {
		return nil, err
	}
	c.applyEnv()
	c.normalize()
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return c, nil
}

func parse(path string) (*Config, error) {
	var c Config
	if path != "" {
		b, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
			// Fall through to defaults.
		case err != nil:
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(b, &c); err != nil {
				return nil, fmt.Errorf("config: parse %s: %w", path, err)
			}
		}
	}
	if err := defaults.Set(&c); err != nil {
		return nil, fmt.Errorf("config: defaults: %w", err)
	}
	return &c, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("CANDLETERM_SERVER"); v != "" {
		c.Server.BaseURL = v
	}
	if v := os.Getenv("CANDLETERM_STREAM"); v != "" {
		c.Server.StreamURL = v
	}
	if v := os.Getenv("CANDLETERM_SYMBOL"); v != "" {
		c.Market.Symbol = v
	}
	if v := os.Getenv("CANDLETERM_TIMEFRAME"); v != "" {
		c.Market.Timeframe = v
	}
	if v := os.Getenv("CANDLETERM_HISTORY_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Market.HistoryLimit = n
		}
	}
	if v := os.Getenv("CANDLETERM_THEME"); v != "" {
		c.UI.Theme = v
	}
	if v := os.Getenv("CANDLETERM_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("CANDLETERM_LOG_FILE"); v != "" {
		c.Log.File = v
	}
}

func (c *Config) normalize() {
	if c.Server.StreamURL == "" && c.Server.BaseURL != "" {
		c.Server.StreamURL = strings.TrimRight(c.Server.BaseURL, "/") + "/api/stream"
	}
	if c.Market.HistoryLimit <= 0 {
		c.Market.HistoryLimit = 100
	}
	if c.Market.HistoryLimit > 500 {
		c.Market.HistoryLimit = 500
	}
}

// Validate checks the fields the app cannot limp along without.
func (c *Config) Validate() error {
	if u, err := url.Parse(c.Server.BaseURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("server.base_url %q must be an http(s) URL", c.Server.BaseURL)
	}
	if u, err := url.Parse(c.Server.StreamURL); err != nil ||
		(u.Scheme != "http" && u.Scheme != "https" && u.Scheme != "ws" && u.Scheme != "wss") {
		return fmt.Errorf("server.stream_url %q must be an http(s) or ws(s) URL", c.Server.StreamURL)
	}
	if c.Market.Symbol == "" {
		return fmt.Errorf("market.symbol is required")
	}
	if _, err := candle.ParseInterval(c.Market.Timeframe); err != nil {
		return fmt.Errorf("market.timeframe: %w", err)
	}
	if _, err := zerolog.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level %q: %w", c.Log.Level, err)
	}
	for _, p := range []struct {
		name string
		v    float64
	}{
		{"position.entry", c.Position.Entry},
		{"position.liquidation", c.Position.Liquidation},
		{"position.take_profit", c.Position.TakeProfit},
		{"position.stop_loss", c.Position.StopLoss},
	} {
		if p.v < 0 || math.IsNaN(p.v) || math.IsInf(p.v, 0) {
			return fmt.Errorf("%s must be zero or a positive price", p.name)
		}
	}
	return nil
}

// Timeframe returns the parsed market timeframe. Call after Validate.
func (c *Config) Timeframe() candle.Interval {
	iv, err := candle.ParseInterval(c.Market.Timeframe)
	if err != nil {
		return candle.Interval15m
	}
	return iv
}
