package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ppsnap/ppsnap"
	"github.com/ppsnap/ppsnap/tradegate"
)

// Config is the host-boundary configuration: where the export lives, the
// portfolio base currency, and whether missing prices are filled from the
// live quote source.
type Config struct {
	Path         string            `yaml:"path"`
	BaseCurrency string            `yaml:"base_currency"`
	LiveQuotes   bool              `yaml:"live_quotes"`
	QuoteTimeout duration          `yaml:"quote_timeout"`
	QuoteBudget  duration          `yaml:"quote_budget"`
	Tickers      map[string]string `yaml:"tickers"` // position identifier -> quote symbol
}

// duration accepts "10s" style values in the YAML configuration.
type duration time.Duration

func (d *duration) UnmarshalYAML(node *yaml.Node) error {
	v, err := time.ParseDuration(node.Value)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", node.Value, err)
	}
	*d = duration(v)
	return nil
}

// loadConfig reads the YAML configuration. No path, or a missing file at the
// default location, yields the zero configuration: flags alone are enough to
// run.
func loadConfig(path string) (Config, error) {
	var cfg Config
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, fmt.Errorf("configuration file %q not found", path)
	}
	if err != nil {
		return cfg, fmt.Errorf("cannot read configuration %q: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("cannot parse configuration %q: %w", path, err)
	}
	return cfg, nil
}

// options translates the configuration into snapshot build options.
func (c Config) options() ppsnap.Options {
	opts := ppsnap.Options{
		BaseCurrency:    c.BaseCurrency,
		TickerOverrides: c.Tickers,
		QuoteTimeout:    time.Duration(c.QuoteTimeout),
		QuoteBudget:     time.Duration(c.QuoteBudget),
	}
	if c.LiveQuotes {
		opts.Quoter = &tradegate.Client{}
	}
	return opts
}
