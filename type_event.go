package ppsnap

import "time"

// EventType classifies a portfolio transaction event.
type EventType int

const (
	Buy EventType = iota
	Sell
	InboundDelivery
	OutboundDelivery
)

func (t EventType) String() string {
	switch t {
	case Buy:
		return "buy"
	case Sell:
		return "sell"
	case InboundDelivery:
		return "inbound_delivery"
	case OutboundDelivery:
		return "outbound_delivery"
	default:
		return "unknown"
	}
}

// increases reports whether the event adds shares to a position.
func (t EventType) increases() bool { return t == Buy || t == InboundDelivery }

// TransactionEvent is one buy/sell/transfer event as parsed from a
// transaction-history export. It only exists between parsing and
// aggregation, the resulting Positions are what a Snapshot keeps.
type TransactionEvent struct {
	Name     string // security name
	Ticker   string // ticker symbol or ISIN when the source provides one
	Type     EventType
	Quantity Quantity  // magnitude, always non-negative
	Amount   Money     // gross cash amount, always non-negative
	Time     time.Time // ordering within aggregation only; zero means unknown
}

// Identifier returns the key under which events merge into one position.
func (e TransactionEvent) Identifier() string {
	if e.Ticker != "" {
		return e.Ticker
	}
	return e.Name
}
