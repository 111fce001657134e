package ppsnap

// Position is the net holding of one security: quantity, cost basis, and the
// latest known market price when any source provided one.
//
// Value, gain and gain% are never stored, they are always derived from
// quantity, price and cost basis.
type Position struct {
	name     string
	ticker   string
	quantity Quantity
	cost     Money
	price    Money
	hasPrice bool
	enriched bool // price came from a live quote, not from the parsed source
}

// Identifier returns the unique key of the position within a snapshot:
// the ticker when the source provided one, the security name otherwise.
func (p *Position) Identifier() string {
	if p.ticker != "" {
		return p.ticker
	}
	return p.name
}

func (p *Position) Name() string       { return p.name }
func (p *Position) Ticker() string     { return p.ticker }
func (p *Position) Quantity() Quantity { return p.quantity }
func (p *Position) CostBasis() Money   { return p.cost }
func (p *Position) Currency() string   { return p.cost.Currency() }

// Price returns the latest known market price per unit, and whether one is
// known at all.
func (p *Position) Price() (Money, bool) { return p.price, p.hasPrice }

// Enriched reports whether the price was filled in by a live quote rather
// than parsed from the source file.
func (p *Position) Enriched() bool { return p.enriched }

// MarketValue returns quantity times price. It is absent when no price is
// known.
func (p *Position) MarketValue() (Money, bool) {
	if !p.hasPrice {
		return Money{}, false
	}
	return p.price.Mul(p.quantity), true
}

// Gain returns market value minus cost basis, absent when no price is known.
func (p *Position) Gain() (Money, bool) {
	value, ok := p.MarketValue()
	if !ok {
		return Money{}, false
	}
	return value.Sub(p.cost), true
}

// GainPct returns the gain as a percentage of the cost basis. It is absent,
// not zero, when the cost basis is zero or no price is known.
func (p *Position) GainPct() (Percent, bool) {
	gain, ok := p.Gain()
	if !ok || p.cost.IsZero() {
		return Percent{}, false
	}
	return PercentOf(gain.Amount(), p.cost.Amount()), true
}

// setPrice records a parsed market price. Parsed prices are authoritative
// and are never replaced by enrichment.
func (p *Position) setPrice(price Money) {
	p.price = price
	p.hasPrice = true
	p.enriched = false
}

// fillPrice records an enriched price, only if no parsed price exists.
func (p *Position) fillPrice(price Money) bool {
	if p.hasPrice {
		return false
	}
	p.price = price
	p.hasPrice = true
	p.enriched = true
	return true
}
