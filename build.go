package ppsnap

import (
	"context"
	"fmt"
	"os"
	"time"
)

// DefaultCurrency is the portfolio base currency assumed when a source does
// not state one and the caller does not configure one.
const DefaultCurrency = "EUR"

const (
	defaultQuoteTimeout = 10 * time.Second
	defaultQuoteBudget  = 30 * time.Second
)

// Options configures one snapshot build. The zero value disables enrichment
// and assumes the default base currency.
type Options struct {
	// BaseCurrency applies to positions whose source omits a currency, and
	// decides which positions the totals cover.
	BaseCurrency string
	// Quoter, when set, fills in market prices missing from the source.
	// Parsed prices are never replaced.
	Quoter Quoter
	// TickerOverrides maps a position identifier to the symbol to quote,
	// for securities whose name does not resemble a ticker.
	TickerOverrides map[string]string
	// QuoteTimeout bounds each single quote lookup.
	QuoteTimeout time.Duration
	// QuoteBudget bounds the whole enrichment phase; symbols still
	// unresolved when it expires count as unavailable.
	QuoteBudget time.Duration
}

func (o Options) base() string {
	if o.BaseCurrency != "" {
		return o.BaseCurrency
	}
	return DefaultCurrency
}

// LoadSnapshot reads an export file and builds a snapshot from its content.
func LoadSnapshot(ctx context.Context, path string, opts Options) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read export file: %w", err)
	}
	return BuildSnapshot(ctx, data, opts)
}

// BuildSnapshot runs the whole pipeline over raw export bytes: sniff the
// container, parse and aggregate with the matching parser, derive totals,
// and optionally enrich missing prices.
//
// It always returns either a complete snapshot or an error, never a
// partially-filled result. A detected binary container is not an error: it
// yields an empty snapshot whose diagnostics explain the situation. The
// builder holds no state between calls; concurrent builds are independent.
func BuildSnapshot(ctx context.Context, data []byte, opts Options) (*Snapshot, error) {
	base := opts.base()

	kind, payload, err := Sniff(data)
	if err != nil {
		return nil, err
	}

	var source SourceKind
	var positions []*Position
	var diags Diagnostics
	switch kind {
	case ContainerUnsupportedBinary:
		diags.Warnings = append(diags.Warnings,
			"unsupported binary container (PPPBV): save the portfolio as XML or export holdings as CSV instead")
		return newSnapshot(SourceUnsupportedBinary, base, nil, diags), nil

	case ContainerXML:
		var warnings []string
		positions, warnings, err = parsePortfolioXML(payload, base)
		if err != nil {
			return nil, err
		}
		source = SourceXML
		diags.Warnings = warnings

	case ContainerTabular:
		raw := string(payload)
		det, err := detectTabular(raw)
		if err != nil {
			return nil, err
		}
		diags.Delimiter = det.delimiter
		diags.HeaderLang = det.lang

		if det.shape == sheetTransactions {
			events, warnings, err := parseTransactionsCSV(raw, det, base)
			if err != nil {
				return nil, err
			}
			var aggWarnings []string
			positions, aggWarnings = Aggregate(events, base)
			diags.Warnings = append(warnings, aggWarnings...)
			source = SourceTransactionsCSV
		} else {
			var warnings []string
			positions, warnings, err = parseHoldingsCSV(raw, det, base)
			if err != nil {
				return nil, err
			}
			diags.Warnings = warnings
			source = SourceHoldingsCSV
		}
	}

	if opts.Quoter != nil {
		warnings, err := enrich(ctx, positions, opts)
		if err != nil {
			return nil, err
		}
		diags.Warnings = append(diags.Warnings, warnings...)
	}

	return newSnapshot(source, base, positions, diags), nil
}

// enrich fills in missing prices from the quote source, one concurrent
// lookup per symbol, each under its own timeout and all under the phase
// budget. Lookups share no mutable state: each one merges into its own
// position after all results are in. When the parent context is canceled
// the whole attempt is discarded instead of returning a half-enriched
// snapshot.
func enrich(ctx context.Context, positions []*Position, opts Options) ([]string, error) {
	timeout := opts.QuoteTimeout
	if timeout <= 0 {
		timeout = defaultQuoteTimeout
	}
	budget := opts.QuoteBudget
	if budget <= 0 {
		budget = defaultQuoteBudget
	}

	type lookup struct {
		pos    *Position
		symbol string
		quote  Quote
		err    error
	}
	var lookups []*lookup
	for _, p := range positions {
		if p.hasPrice {
			continue
		}
		symbol := opts.TickerOverrides[p.Identifier()]
		if symbol == "" && tickerLike(p.Identifier()) {
			symbol = p.Identifier()
		}
		if symbol == "" {
			continue
		}
		lookups = append(lookups, &lookup{pos: p, symbol: symbol})
	}
	if len(lookups) == 0 {
		return nil, nil
	}

	phase, cancel := context.WithTimeout(ctx, budget)
	defer cancel()

	done := make(chan *lookup, len(lookups))
	for _, l := range lookups {
		go func(l *lookup) {
			qctx, qcancel := context.WithTimeout(phase, timeout)
			defer qcancel()
			l.quote, l.err = opts.Quoter.Quote(qctx, l.symbol)
			done <- l
		}(l)
	}
	for range lookups {
		<-done
	}
	if err := ctx.Err(); err != nil {
		// the caller abandoned the refresh, discard the attempt.
		return nil, err
	}

	var warnings []string
	for _, l := range lookups {
		if l.err != nil {
			warnings = append(warnings, fmt.Sprintf("no quote for %s: %v", l.symbol, l.err))
			continue
		}
		if l.quote.Currency != "" && l.quote.Currency != l.pos.Currency() {
			warnings = append(warnings, fmt.Sprintf("quote for %s is in %s, position is in %s, ignored",
				l.symbol, l.quote.Currency, l.pos.Currency()))
			continue
		}
		l.pos.fillPrice(M(l.quote.Price, l.pos.Currency()))
	}
	return warnings, nil
}
