// Package renderer turns snapshots into markdown reports for the terminal.
package renderer

import (
	"fmt"
	"strings"

	"github.com/ppsnap/ppsnap"
)

// SnapshotMarkdown renders the positions and totals of a snapshot as a
// markdown document.
func SnapshotMarkdown(s *ppsnap.Snapshot) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Portfolio Snapshot\n\n")

	fmt.Fprintln(&b, "| Security | Quantity | Price | Value | Cost | Gain | Gain % |")
	fmt.Fprintln(&b, "|:---|---:|---:|---:|---:|---:|---:|")
	for p := range s.Positions() {
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s | %s |\n",
			label(p),
			p.Quantity(),
			moneyOr(p.Price()),
			moneyOr(p.MarketValue()),
			p.CostBasis(),
			signedOr(p.Gain()),
			pctOr(p.GainPct()),
		)
	}
	pct := "-"
	if v, ok := s.TotalGainPct(); ok {
		pct = v.SignedString()
	}
	fmt.Fprintf(&b, "| **Total (%s)** | | | **%s** | **%s** | **%s** | **%s** |\n",
		s.BaseCurrency(), s.TotalValue(), s.TotalCost(), s.TotalGain().SignedString(), pct)

	return b.String()
}

// DiagnosticsMarkdown renders the status record of a snapshot: where the
// data came from, what was detected, and everything worth a warning.
func DiagnosticsMarkdown(s *ppsnap.Snapshot) string {
	d := s.Diagnostics()
	var b strings.Builder
	fmt.Fprintf(&b, "# Snapshot Status\n\n")
	fmt.Fprintf(&b, "- source: %s\n", s.SourceKind())
	if d.Delimiter != 0 {
		fmt.Fprintf(&b, "- delimiter: %q\n", d.Delimiter)
	}
	if d.HeaderLang != "" {
		fmt.Fprintf(&b, "- header language: %s\n", d.HeaderLang)
	}
	fmt.Fprintf(&b, "- positions: %d\n", d.Positions)
	if len(d.Warnings) == 0 {
		fmt.Fprintf(&b, "- warnings: none\n")
		return b.String()
	}
	fmt.Fprintf(&b, "\n## Warnings\n\n")
	for _, w := range d.Warnings {
		fmt.Fprintf(&b, "- %s\n", w)
	}
	return b.String()
}

func label(p *ppsnap.Position) string {
	if p.Ticker() != "" && p.Ticker() != p.Name() {
		return fmt.Sprintf("%s (%s)", p.Name(), p.Ticker())
	}
	return p.Name()
}

func moneyOr(m ppsnap.Money, ok bool) string {
	if !ok {
		return "-"
	}
	return m.String()
}

func signedOr(m ppsnap.Money, ok bool) string {
	if !ok {
		return "-"
	}
	return m.SignedString()
}

func pctOr(p ppsnap.Percent, ok bool) string {
	if !ok {
		return "-"
	}
	return p.SignedString()
}
