// Package cmd implements the CLI application to inspect portfolio exports.
package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/charmbracelet/glamour"
	"github.com/google/subcommands"

	"github.com/ppsnap/ppsnap"
)

// Register the subcommands.
// A main package calls Register() to allow subcommands, and Execute() on the
// user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&snapshotCmd{}, "reports")
	c.Register(&statusCmd{}, "reports")
	c.Register(&exportCmd{}, "reports")
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to
// use global variables.

var configFile = flag.String("config", "", "Path to the YAML configuration file")

// buildSnapshot loads the configuration and builds one snapshot from the
// export file. An empty file argument falls back to the configured path.
func buildSnapshot(ctx context.Context, file string) (*ppsnap.Snapshot, error) {
	cfg, err := loadConfig(*configFile)
	if err != nil {
		return nil, err
	}
	if file == "" {
		file = cfg.Path
	}
	if file == "" {
		return nil, fmt.Errorf("no export file: pass -f or set 'path' in the configuration")
	}
	return ppsnap.LoadSnapshot(ctx, file, cfg.options())
}

// printMarkdown renders markdown for the terminal, falling back to the raw
// text when rendering fails (e.g. no TTY).
func printMarkdown(md string) {
	out, err := glamour.Render(md, "auto")
	if err != nil {
		fmt.Println(md)
		return
	}
	fmt.Print(out)
}
