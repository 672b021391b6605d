package config

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"promcheck/checks"
)

// Config holds every configurable value for a health check run.
type Config struct {
	// Exporter
	URL     string        `mapstructure:"url"`     // e.g. http://localhost:8091
	Timeout time.Duration `mapstructure:"timeout"` // scrape timeout

	// Checks
	FreshFor   float64  `mapstructure:"fresh-for"`   // seconds a Fresh value may lag
	CheckUp    []string `mapstructure:"check-up"`    // metric names that must be >= 1
	CheckFresh []string `mapstructure:"check-fresh"` // metric names holding recent unix seconds

	LogLevel string `mapstructure:"log-level"` // debug|info|warn|error
}

const (
	DefaultURL      = "http://localhost:8091"
	DefaultFreshFor = 300.0
	DefaultTimeout  = 10 * time.Second
	DefaultLogLevel = "warn"
	envPrefix       = "PROMCHECK"
)

// Load reads configuration from (in decreasing priority):
//  1. command-line flags in args
//  2. environment variables (e.g. PROMCHECK_FRESH_FOR)
//  3. a yaml file named by --config / PROMCHECK_CONFIG, if given
//  4. built-in defaults
//
// It returns a fully populated *Config or an error.
func Load(args []string) (*Config, error) {
	fs := newFlagSet()
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	v := viper.New()

	// Environment variables - PROMCHECK_ prefix, "-" maps to "_"
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlags(fs); err != nil {
		return nil, fmt.Errorf("cannot bind flags: %w", err)
	}

	if path := v.GetString("config"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("cannot read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("cannot decode config: %w", err)
	}
	cfg.CheckUp = splitNames(cfg.CheckUp)
	cfg.CheckFresh = splitNames(cfg.CheckFresh)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Usage describes the command-line flags.
func Usage() string {
	return "Usage of promcheck:\n" + newFlagSet().FlagUsages()
}

func newFlagSet() *pflag.FlagSet {
	fs := pflag.NewFlagSet("promcheck", pflag.ContinueOnError)
	fs.SetOutput(io.Discard) // parse errors are returned, not printed
	fs.String("url", DefaultURL, "URL of prometheus exporter")
	fs.Float64("fresh-for", DefaultFreshFor, "For how many seconds a metric is considered fresh")
	fs.StringArray("check-up", nil, `Checks if this metric is "up", 1.0 or greater (repeatable)`)
	fs.StringArray("check-fresh", nil, `Checks if this metric is "fresh", not too far from current unix time in seconds (repeatable)`)
	fs.Duration("timeout", DefaultTimeout, "Timeout for scraping the exporter")
	fs.String("log-level", DefaultLogLevel, "Log level: debug|info|warn|error")
	fs.String("config", "", "Optional yaml config file")
	return fs
}

// Validate checks the values Load cannot default away.
func (c *Config) Validate() error {
	if c.URL == "" {
		return fmt.Errorf("url must not be empty")
	}
	if c.FreshFor < 0 {
		return fmt.Errorf("fresh-for must not be negative, got %v", c.FreshFor)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", c.Timeout)
	}
	return nil
}

// Checks resolves the requested names into checks: Up checks first, then
// Fresh checks, each in the order given.
func (c *Config) Checks() []checks.Check {
	list := checks.FromNames(checks.Up, c.CheckUp...)
	return append(list, checks.FromNames(checks.Fresh, c.CheckFresh...)...)
}

// splitNames flattens comma or whitespace separated entries, as they
// arrive from environment variables.
func splitNames(in []string) []string {
	var out []string
	for _, s := range in {
		out = append(out, strings.FieldsFunc(s, func(r rune) bool {
			return r == ',' || r == ' ' || r == '\t' || r == '\n'
		})...)
	}
	return out
}
