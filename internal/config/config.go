// Package config loads and validates tool configuration via Viper.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config captures all configuration knobs loaded via Viper.
type Config struct {
	Crawl   CrawlConfig   `mapstructure:"crawl"`
	Process ProcessConfig `mapstructure:"process"`
	Metrics MetricsConfig `mapstructure:"metrics"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// CrawlConfig governs the crawl engine.
type CrawlConfig struct {
	MaxPages       int    `mapstructure:"max_pages"`
	OutputDir      string `mapstructure:"output_dir"`
	Threads        int    `mapstructure:"threads"`
	UserAgent      string `mapstructure:"user_agent"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
	SkipVerify     bool   `mapstructure:"skip_verify"`
}

// ProcessConfig governs the processing pipeline.
type ProcessConfig struct {
	Threads    int    `mapstructure:"threads"`
	Processor  string `mapstructure:"processor"`
	Export     string `mapstructure:"export"`
	ExportFile string `mapstructure:"export_file"`
}

// MetricsConfig controls the optional debug server.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Addr    string `mapstructure:"addr"`
}

// LoggingConfig toggles zap development features.
type LoggingConfig struct {
	Development bool `mapstructure:"development"`
}

// Load builds a Config from disk/environment.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("WEBMINER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("crawl.max_pages", -1)
	v.SetDefault("crawl.output_dir", "output")
	v.SetDefault("crawl.threads", 5)
	v.SetDefault("crawl.user_agent", "webminer/1.0")
	v.SetDefault("crawl.timeout_seconds", 30)
	v.SetDefault("crawl.skip_verify", false)
	v.SetDefault("process.threads", 4)
	v.SetDefault("process.processor", "generic")
	v.SetDefault("process.export", "json")
	v.SetDefault("process.export_file", "")
	v.SetDefault("metrics.enabled", false)
	v.SetDefault("metrics.addr", ":9090")
	v.SetDefault("logging.development", true)
}

// Validate enforces required values and reasonable limits.
func (c Config) Validate() error {
	if c.Crawl.Threads <= 0 {
		return fmt.Errorf("crawl.threads must be > 0")
	}
	if c.Crawl.TimeoutSeconds <= 0 {
		return fmt.Errorf("crawl.timeout_seconds must be > 0")
	}
	if c.Process.Threads < 0 {
		return fmt.Errorf("process.threads must be >= 0")
	}
	switch c.Process.Export {
	case "json", "csv", "database":
	default:
		return fmt.Errorf("process.export must be json, csv, or database")
	}
	if c.Metrics.Enabled && c.Metrics.Addr == "" {
		return fmt.Errorf("metrics.addr must be set when metrics are enabled")
	}
	return nil
}

// FetchTimeout converts the crawl timeout into a duration.
func (c Config) FetchTimeout() time.Duration {
	return time.Duration(c.Crawl.TimeoutSeconds) * time.Second
}
