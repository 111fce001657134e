package cmd

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pps.yaml")
	raw := `path: /srv/depot/portfolio.xml
base_currency: CHF
live_quotes: true
quote_timeout: 5s
tickers:
  Siemens AG: DE0007236101
`
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := loadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Path != "/srv/depot/portfolio.xml" || cfg.BaseCurrency != "CHF" {
		t.Errorf("cfg = %+v", cfg)
	}
	if time.Duration(cfg.QuoteTimeout) != 5*time.Second {
		t.Errorf("quote timeout = %s, want 5s", time.Duration(cfg.QuoteTimeout))
	}
	if cfg.Tickers["Siemens AG"] != "DE0007236101" {
		t.Errorf("tickers = %v", cfg.Tickers)
	}

	opts := cfg.options()
	if opts.BaseCurrency != "CHF" || opts.Quoter == nil {
		t.Errorf("options = %+v, want CHF with a live quoter", opts)
	}
}

func TestLoadConfig_NoPath(t *testing.T) {
	cfg, err := loadConfig("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.options().Quoter != nil {
		t.Error("the zero configuration must not enable live quotes")
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	if _, err := loadConfig(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected an error for an explicitly named missing file")
	}
}
