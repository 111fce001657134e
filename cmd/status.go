package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/ppsnap/ppsnap/renderer"
)

// statusCmd holds the flags for the 'status' subcommand.
type statusCmd struct {
	file string
}

func (*statusCmd) Name() string     { return "status" }
func (*statusCmd) Synopsis() string { return "display the diagnostics of parsing an export file" }
func (*statusCmd) Usage() string {
	return `pps status [-f <export-file>]

  Parses an export and displays the diagnostic record: detected source kind,
  delimiter, header language, position count, and warnings.
`
}

func (c *statusCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.file, "f", "", "Export file to parse. Defaults to the configured path.")
}

func (c *statusCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	snapshot, err := buildSnapshot(ctx, c.file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error building snapshot: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.DiagnosticsMarkdown(snapshot))
	return subcommands.ExitSuccess
}
