package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"candleview/chart"
	"candleview/datafeed"
	"candleview/event"
	"candleview/pkg/logger"
)

const envPrefix = "CANDLEVIEW_"

type Feed struct {
	BaseURL        string        `yaml:"base_url"`
	Broker         string        `yaml:"broker"`
	Symbol         string        `yaml:"symbol"`
	Timeframe      int           `yaml:"timeframe"`
	Start          int64         `yaml:"start"`
	End            int64         `yaml:"end"`
	UseMessagePack bool          `yaml:"use_message_pack"`
	Timeout        time.Duration `yaml:"timeout"`
}

type Loader struct {
	SortBars       bool          `yaml:"sort_bars"`
	Retries        uint64        `yaml:"retries"`
	RetryInterval  time.Duration `yaml:"retry_interval"`
	CacheTTL       time.Duration `yaml:"cache_ttl"`
	MaxEntries     int           `yaml:"max_entries"`
	LoadingDelay   time.Duration `yaml:"loading_delay"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
}

type Chart struct {
	BarWidth float64 `yaml:"bar_width"`
	Timezone string  `yaml:"timezone"`
}

type Config struct {
	Feed   Feed          `yaml:"feed"`
	Loader Loader        `yaml:"loader"`
	Chart  Chart         `yaml:"chart"`
	Log    logger.Config `yaml:"log"`
}

// Load reads the YAML file at path, applies environment overrides and fills
// in defaults. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if len(data) > 0 {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config: %w", err)
			}
		}
	}

	if v := os.Getenv(envPrefix + "BASE_URL"); v != "" {
		cfg.Feed.BaseURL = v
	}
	if v := os.Getenv(envPrefix + "BROKER"); v != "" {
		cfg.Feed.Broker = v
	}
	if v := os.Getenv(envPrefix + "SYMBOL"); v != "" {
		cfg.Feed.Symbol = v
	}
	if v := os.Getenv(envPrefix + "LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}

	cfg.setDefaults()
	return cfg, nil
}

func (c *Config) setDefaults() {
	if c.Feed.BaseURL == "" {
		c.Feed.BaseURL = datafeed.DefaultBaseURL
	}
	if c.Feed.Broker == "" {
		c.Feed.Broker = "Advanced"
	}
	if c.Feed.Symbol == "" {
		c.Feed.Symbol = "EURUSD"
	}
	if c.Feed.Timeframe == 0 {
		c.Feed.Timeframe = 1
	}
	if c.Feed.Start == 0 && c.Feed.End == 0 {
		c.Feed.Start, c.Feed.End = 57674, 59113
	}
	if c.Feed.Timeout == 0 {
		c.Feed.Timeout = time.Minute
	}
	if c.Loader.RetryInterval == 0 {
		c.Loader.RetryInterval = 500 * time.Millisecond
	}
	if c.Loader.CacheTTL == 0 {
		c.Loader.CacheTTL = 5 * time.Minute
	}
	if c.Loader.MaxEntries == 0 {
		c.Loader.MaxEntries = 32
	}
	if c.Loader.LoadingDelay == 0 {
		c.Loader.LoadingDelay = chart.DefaultLoadingDelay
	}
	if c.Loader.RequestTimeout == 0 {
		c.Loader.RequestTimeout = 2 * time.Minute
	}
	if c.Chart.BarWidth == 0 {
		c.Chart.BarWidth = chart.DefaultBarWidth
	}
	if c.Chart.Timezone == "" {
		c.Chart.Timezone = "Local"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

// Validate checks that all required fields are set and in range.
func (c *Config) Validate() error {
	if c.Feed.BaseURL == "" {
		return fmt.Errorf("feed.base_url is required")
	}
	if c.Feed.Broker == "" {
		return fmt.Errorf("feed.broker is required")
	}
	if c.Feed.Symbol == "" {
		return fmt.Errorf("feed.symbol is required")
	}
	if c.Feed.Timeframe <= 0 {
		return fmt.Errorf("feed.timeframe must be positive")
	}
	if c.Feed.End < c.Feed.Start {
		return fmt.Errorf("feed.end must not be before feed.start")
	}
	if c.Loader.MaxEntries < 0 {
		return fmt.Errorf("loader.max_entries must not be negative")
	}
	if c.Chart.BarWidth < chart.MinBarWidth || c.Chart.BarWidth > chart.MaxBarWidth {
		return fmt.Errorf("chart.bar_width must be within [%g, %g]", chart.MinBarWidth, chart.MaxBarWidth)
	}
	if _, err := time.LoadLocation(c.Chart.Timezone); err != nil {
		return fmt.Errorf("chart.timezone: %w", err)
	}
	return nil
}

// Location returns the time zone of the chart.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Chart.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// Query is the base query of the configured feed.
func (c *Config) Query() event.Query {
	return event.Query{
		Broker:         c.Feed.Broker,
		Symbol:         c.Feed.Symbol,
		Timeframe:      c.Feed.Timeframe,
		Start:          c.Feed.Start,
		End:            c.Feed.End,
		UseMessagePack: c.Feed.UseMessagePack,
	}
}
