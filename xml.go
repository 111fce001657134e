package ppsnap

import (
	"encoding/xml"
	"fmt"
	"regexp"
	"time"

	"github.com/shopspring/decimal"
)

// The XML application export stores amounts in cents and share counts with
// eight decimal digits of precision.
const (
	xmlAmountExp = -2
	xmlSharesExp = -8
)

// xmlEventTypes maps the transaction type literals of the export to event
// types. Everything else in the file (dividends, fees, cash transfers) does
// not move shares and is ignored.
var xmlEventTypes = map[string]EventType{
	"BUY":               Buy,
	"SELL":              Sell,
	"DELIVERY_INBOUND":  InboundDelivery,
	"DELIVERY_OUTBOUND": OutboundDelivery,
}

type xmlDocument struct {
	XMLName      xml.Name         `xml:"client"`
	Securities   []xmlSecurity    `xml:"securities>security"`
	Transactions []xmlTransaction `xml:"portfolios>portfolio>transactions>portfolio-transaction"`
}

type xmlSecurity struct {
	UUID         string     `xml:"uuid"`
	Name         string     `xml:"name"`
	TickerSymbol string     `xml:"tickerSymbol"`
	ISIN         string     `xml:"isin"`
	CurrencyCode string     `xml:"currencyCode"`
	Prices       []xmlPrice `xml:"prices>price"`
}

type xmlPrice struct {
	T string `xml:"t,attr"` // price date, 2006-01-02
	V int64  `xml:"v,attr"` // scaled price value
}

type xmlTransaction struct {
	Type         string         `xml:"type"`
	Date         string         `xml:"date"` // 2006-01-02T15:04
	CurrencyCode string         `xml:"currencyCode"`
	Amount       int64          `xml:"amount"`
	Shares       int64          `xml:"shares"`
	Security     xmlSecurityRef `xml:"security"`
}

type xmlSecurityRef struct {
	Reference string `xml:"reference,attr"`
}

// securityRefPattern matches the XPath-like references transactions use to
// point at their security, e.g. "../../../../securities/security[3]". The
// serializer elides "[1]" for the first security.
var securityRefPattern = regexp.MustCompile(`securities/security(?:\[(\d+)\])?$`)

// parsePortfolioXML extracts buy/sell/delivery transactions and the latest
// known prices from an XML application export, and feeds them through the
// same aggregation routine as the tabular path.
func parsePortfolioXML(data []byte, base string) ([]*Position, []string, error) {
	var doc xmlDocument
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, nil, fmt.Errorf("malformed portfolio XML: %w", err)
	}

	var events []TransactionEvent
	var warnings []string
	for _, tx := range doc.Transactions {
		typ, ok := xmlEventTypes[tx.Type]
		if !ok {
			continue
		}
		sec, ok := resolveSecurity(doc.Securities, tx.Security.Reference)
		if !ok {
			warnings = append(warnings, fmt.Sprintf("transaction with unresolvable security reference %q, skipped", tx.Security.Reference))
			continue
		}
		currency := sec.CurrencyCode
		if currency == "" {
			currency = base
		}
		when, _ := time.Parse("2006-01-02T15:04", tx.Date)
		events = append(events, TransactionEvent{
			Name:     sec.Name,
			Ticker:   securityTicker(sec),
			Type:     typ,
			Quantity: Q(decimal.New(tx.Shares, xmlSharesExp)).Abs(),
			Amount:   M(decimal.New(tx.Amount, xmlAmountExp).Abs(), currency),
			Time:     when,
		})
	}

	positions, aggWarnings := Aggregate(events, base)
	warnings = append(warnings, aggWarnings...)

	// Attach the latest known price per security. A security with
	// transactions but no price entry keeps its price absent.
	for _, sec := range doc.Securities {
		price, ok := latestPrice(sec)
		if !ok {
			continue
		}
		id := securityTicker(sec)
		if id == "" {
			id = sec.Name
		}
		for _, p := range positions {
			if p.Identifier() == id {
				currency := sec.CurrencyCode
				if currency == "" {
					currency = base
				}
				p.setPrice(M(price, currency))
			}
		}
	}
	return positions, warnings, nil
}

func securityTicker(sec xmlSecurity) string {
	if sec.TickerSymbol != "" {
		return sec.TickerSymbol
	}
	return sec.ISIN
}

// resolveSecurity follows a transaction's security reference to the indexed
// entry of the securities list. Indices in references are 1-based; a
// reference without an index means the first security.
func resolveSecurity(securities []xmlSecurity, ref string) (xmlSecurity, bool) {
	m := securityRefPattern.FindStringSubmatch(ref)
	if m == nil {
		return xmlSecurity{}, false
	}
	idx := 1
	if m[1] != "" {
		fmt.Sscanf(m[1], "%d", &idx)
	}
	if idx < 1 || idx > len(securities) {
		return xmlSecurity{}, false
	}
	return securities[idx-1], true
}

// latestPrice returns the price entry with the most recent date, unscaled.
func latestPrice(sec xmlSecurity) (decimal.Decimal, bool) {
	latest := ""
	var raw int64
	for _, pr := range sec.Prices {
		// dates are ISO formatted, lexicographic order is date order.
		if pr.T >= latest {
			latest, raw = pr.T, pr.V
		}
	}
	if latest == "" {
		return decimal.Zero, false
	}
	return unscalePrice(raw), true
}

// unscalePrice undoes the integer scaling of price values. The export is not
// explicit about the scale, so try the largest plausible divider first and
// accept the first result in a sane per-unit price range.
func unscalePrice(v int64) decimal.Decimal {
	lo := decimal.NewFromFloat(0.01)
	hi := decimal.NewFromInt(1_000_000)
	for exp := int32(-8); exp <= 0; exp++ {
		p := decimal.New(v, exp)
		if p.GreaterThanOrEqual(lo) && p.LessThanOrEqual(hi) {
			return p
		}
	}
	return decimal.NewFromInt(v)
}
