package ppsnap

import (
	"context"
	"errors"
	"regexp"

	"github.com/shopspring/decimal"
)

// ErrQuoteUnavailable is returned by a Quoter when it has no price for a
// symbol. It is never fatal for a snapshot, only a warning.
var ErrQuoteUnavailable = errors.New("quote unavailable")

// Quote is one price observation from an external quote source.
type Quote struct {
	Price    decimal.Decimal
	Currency string
}

// Quoter is the capability to fetch the latest price for a ticker symbol.
// Implementations may block on the network and must honor the context.
type Quoter interface {
	Quote(ctx context.Context, symbol string) (Quote, error)
}

var tickerPattern = regexp.MustCompile(`^[A-Z0-9]{1,8}(\.[A-Z0-9]{1,6})?$|^[A-Z]{2}[A-Z0-9]{9}[0-9]$`)

// tickerLike reports whether an identifier looks like a tradeable symbol or
// an ISIN, as opposed to a free-form security name.
func tickerLike(id string) bool {
	return tickerPattern.MatchString(id)
}
