package ppsnap

import (
	"fmt"
	"iter"
)

// SourceKind identifies which of the supported export formats a snapshot was
// built from.
type SourceKind int

const (
	SourceUnknown SourceKind = iota
	SourceHoldingsCSV
	SourceTransactionsCSV
	SourceXML
	SourceUnsupportedBinary
)

func (k SourceKind) String() string {
	switch k {
	case SourceHoldingsCSV:
		return "holdings_csv"
	case SourceTransactionsCSV:
		return "transactions_csv"
	case SourceXML:
		return "xml"
	case SourceUnsupportedBinary:
		return "unsupported_binary"
	default:
		return "unknown"
	}
}

// Diagnostics describes how a snapshot was obtained: what the sniffer and
// detectors decided, and everything that went slightly wrong along the way.
type Diagnostics struct {
	Delimiter  rune   // detected field delimiter, 0 for non-tabular sources
	HeaderLang string // "de" or "en" for tabular sources
	Positions  int
	Warnings   []string
}

// Snapshot is the immutable result of one full parse cycle: every net
// position, portfolio totals, and the diagnostics of how it was produced.
//
// Totals only aggregate positions held in the snapshot's base currency,
// there is no FX conversion; positions in other currencies are excluded and
// called out in the warnings.
type Snapshot struct {
	positions []*Position
	index     map[string]*Position
	kind      SourceKind
	base      string
	diags     Diagnostics
}

// newSnapshot builds a snapshot over positions, merging duplicates and
// recording totals-related warnings.
func newSnapshot(kind SourceKind, base string, positions []*Position, diags Diagnostics) *Snapshot {
	s := &Snapshot{
		kind:  kind,
		base:  base,
		index: make(map[string]*Position),
	}
	for _, p := range positions {
		if prev, dup := s.index[p.Identifier()]; dup {
			// a transaction source yielding the same identifier twice merges,
			// it never produces duplicate entries.
			if c := prev.cost.Currency(); p.cost.Currency() != c {
				diags.Warnings = append(diags.Warnings,
					fmt.Sprintf("currency mismatch for %s: %s vs %s", p.Identifier(), c, p.cost.Currency()))
			}
			prev.quantity = prev.quantity.Add(p.quantity)
			prev.cost = prev.cost.Add(M(p.cost.Amount(), prev.cost.Currency()))
			if !prev.hasPrice && p.hasPrice {
				prev.price, prev.hasPrice, prev.enriched = p.price, true, p.enriched
			}
			continue
		}
		s.index[p.Identifier()] = p
		s.positions = append(s.positions, p)
	}
	for _, p := range s.positions {
		if p.Currency() != base {
			diags.Warnings = append(diags.Warnings,
				fmt.Sprintf("position %s in %s excluded from %s totals", p.Identifier(), p.Currency(), base))
		}
	}
	diags.Positions = len(s.positions)
	s.diags = diags
	return s
}

// On iteration order: positions keep the order of their first appearance in
// the source.

// Positions returns an iterator over all positions of the snapshot.
func (s *Snapshot) Positions() iter.Seq[*Position] {
	return func(yield func(*Position) bool) {
		for _, p := range s.positions {
			if !yield(p) {
				return
			}
		}
	}
}

// Position returns the position for the given identifier.
func (s *Snapshot) Position(identifier string) (*Position, bool) {
	p, ok := s.index[identifier]
	return p, ok
}

func (s *Snapshot) Len() int                 { return len(s.positions) }
func (s *Snapshot) SourceKind() SourceKind   { return s.kind }
func (s *Snapshot) BaseCurrency() string     { return s.base }
func (s *Snapshot) Diagnostics() Diagnostics { return s.diags }

// comparable reports whether a position takes part in the totals.
func (s *Snapshot) comparable(p *Position) bool { return p.Currency() == s.base }

// TotalValue sums the market value of all base-currency positions with a
// known price.
func (s *Snapshot) TotalValue() Money {
	total := M(0, s.base)
	for _, p := range s.positions {
		if !s.comparable(p) {
			continue
		}
		if v, ok := p.MarketValue(); ok {
			total = total.Add(v)
		}
	}
	return total
}

// TotalCost sums the cost basis of all base-currency positions.
func (s *Snapshot) TotalCost() Money {
	total := M(0, s.base)
	for _, p := range s.positions {
		if s.comparable(p) {
			total = total.Add(p.cost)
		}
	}
	return total
}

// TotalGain sums the gain of all base-currency positions with a known price.
func (s *Snapshot) TotalGain() Money {
	total := M(0, s.base)
	for _, p := range s.positions {
		if !s.comparable(p) {
			continue
		}
		if g, ok := p.Gain(); ok {
			total = total.Add(g)
		}
	}
	return total
}

// TotalGainPct returns the total gain relative to the total cost. Absent
// when the total cost is zero.
func (s *Snapshot) TotalGainPct() (Percent, bool) {
	cost := s.TotalCost()
	if cost.IsZero() {
		return Percent{}, false
	}
	return PercentOf(s.TotalGain().Amount(), cost.Amount()), true
}
