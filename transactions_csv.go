package ppsnap

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"
)

// eventTypeNames maps the German and English transaction-type values of a
// transaction-history export to event types. Types that do not move shares
// (dividends, fees, taxes, deposits) are absent on purpose and their rows
// are skipped.
var eventTypeNames = map[string]EventType{
	"kauf":                Buy,
	"buy":                 Buy,
	"verkauf":             Sell,
	"sell":                Sell,
	"einlieferung":        InboundDelivery,
	"delivery (inbound)":  InboundDelivery,
	"inbound delivery":    InboundDelivery,
	"transfer (inbound)":  InboundDelivery,
	"auslieferung":        OutboundDelivery,
	"delivery (outbound)": OutboundDelivery,
	"outbound delivery":   OutboundDelivery,
	"transfer (outbound)": OutboundDelivery,
}

// csvTimeLayouts in the order they are tried. German exports write
// 02.01.2006, English ones 2006-01-02, both with an optional time of day.
var csvTimeLayouts = []string{
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"02.01.2006 15:04",
	"02.01.2006",
}

// parseTransactionsCSV maps a transaction-history export to events, one row
// per buy/sell/delivery. Rows of other transaction types are not position
// events and are skipped silently; rows with unparseable numbers are skipped
// with a warning.
func parseTransactionsCSV(raw string, det *detection, base string) ([]TransactionEvent, []string, error) {
	r := csv.NewReader(strings.NewReader(raw))
	r.Comma = det.delimiter
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	var events []TransactionEvent
	var warnings []string
	line := 0
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("skipping unreadable row: %v", err))
			continue
		}
		line++
		if line == 1 || blankRow(row) {
			continue
		}

		typ, ok := eventTypeNames[strings.ToLower(det.cell(row, fieldType))]
		if !ok {
			continue
		}
		name := det.cell(row, fieldName)
		qty, ok, err := decodeCell(det.cell(row, fieldQuantity))
		if err != nil || !ok {
			warnings = append(warnings, fmt.Sprintf("row %d (%s): no usable quantity, skipped", line, name))
			continue
		}
		amount, ok, err := decodeCell(det.cell(row, fieldAmount))
		if err != nil || !ok {
			warnings = append(warnings, fmt.Sprintf("row %d (%s): no usable amount, skipped", line, name))
			continue
		}

		currency := det.cell(row, fieldCurrency)
		if currency == "" {
			currency = base
		}

		events = append(events, TransactionEvent{
			Name:   name,
			Ticker: det.cell(row, fieldTicker),
			Type:   typ,
			// buys are often exported with a negative cash amount; events
			// carry magnitudes, the event type holds the direction.
			Quantity: Q(qty).Abs(),
			Amount:   M(amount.Abs(), currency),
			Time:     parseCSVTime(det.cell(row, fieldDate)),
		})
	}
	return events, warnings, nil
}

func parseCSVTime(s string) time.Time {
	for _, layout := range csvTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
