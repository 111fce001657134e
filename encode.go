package ppsnap

import "github.com/shopspring/decimal"

// JSON encoding of snapshots for the export command and for host
// integrations that prefer one machine-readable record over rendered text.
// Field order is fixed by the jsonObjectWriter so exports diff cleanly.

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

func (p *Position) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("name", p.name)
	w.Optional("ticker", p.ticker)
	w.Append("quantity", p.quantity)
	w.Append("costBasis", p.cost)
	if p.hasPrice {
		w.Append("price", p.price)
	}
	if value, ok := p.MarketValue(); ok {
		w.Append("value", value)
	}
	if gain, ok := p.Gain(); ok {
		w.Append("gain", gain)
	}
	if pct, ok := p.GainPct(); ok {
		w.Append("gainPct", pct)
	}
	w.Optional("enriched", p.enriched)
	return w.MarshalJSON()
}

func (s *Snapshot) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("source", s.kind.String())
	w.Append("baseCurrency", s.base)
	w.Append("totalValue", s.TotalValue())
	w.Append("totalCost", s.TotalCost())
	w.Append("totalGain", s.TotalGain())
	if pct, ok := s.TotalGainPct(); ok {
		w.Append("totalGainPct", pct)
	}
	w.Append("positions", s.positions)
	w.Append("diagnostics", s.diags)
	return w.MarshalJSON()
}

func (d Diagnostics) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	if d.Delimiter != 0 {
		w.Append("delimiter", string(d.Delimiter))
	}
	w.Optional("headerLang", d.HeaderLang)
	w.Append("positions", d.Positions)
	if len(d.Warnings) > 0 {
		w.Append("warnings", d.Warnings)
	}
	return w.MarshalJSON()
}
