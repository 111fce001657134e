// Package ppsnap normalizes personal-investment-portfolio exports into one
// canonical, currency-aware snapshot of holdings.
//
// Three incompatible export formats are supported: a tabular holdings
// export (one row per aggregated position), a tabular transaction-history
// export (one row per buy/sell/delivery event), and an XML application
// export, possibly wrapped in a zip-like .portfolio container. The
// proprietary binary container variant is detected and reported, never
// decoded.
//
// The pipeline is a single one-directional pass over the raw bytes:
//   - Sniff classifies the container and extracts the payload.
//   - The tabular detector infers the delimiter and maps German or English
//     column headers to semantic fields.
//   - The format-specific parser produces positions, either directly
//     (holdings) or through the shared weighted-average-cost aggregation
//     of transaction events (transaction CSV and XML).
//   - Optionally, a Quoter fills in market prices missing from the source,
//     without ever replacing a parsed price.
//
// The result is an immutable Snapshot carrying every net position, derived
// totals, and a diagnostic record of what was detected and what went wrong.
// Nothing is persisted between builds; every refresh starts from scratch.
//
// This package serves as the foundational logic for the `pps` command-line
// tool.
package ppsnap
