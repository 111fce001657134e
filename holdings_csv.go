package ppsnap

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"
)

// parseHoldingsCSV maps a "current holdings" export to positions, one row
// per position. Rows missing the mandatory name or quantity are skipped with
// a warning, as are rows with an unparseable numeric token; neither is fatal
// for the file.
func parseHoldingsCSV(raw string, det *detection, base string) ([]*Position, []string, error) {
	r := csv.NewReader(strings.NewReader(raw))
	r.Comma = det.delimiter
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	var positions []*Position
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

		name := det.cell(row, fieldName)
		if name == "" {
			warnings = append(warnings, fmt.Sprintf("row %d: no security name, skipped", line))
			continue
		}
		qty, ok, err := decodeCell(det.cell(row, fieldQuantity))
		if err != nil || !ok {
			warnings = append(warnings, fmt.Sprintf("row %d (%s): no usable quantity, skipped", line, name))
			continue
		}

		price, hasPrice, err := decodeCell(det.cell(row, fieldPrice))
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("row %d (%s): %v, skipped", line, name, err))
			continue
		}
		cost, _, err := decodeCell(det.cell(row, fieldCost))
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("row %d (%s): %v, skipped", line, name, err))
			continue
		}
		value, hasValue, err := decodeCell(det.cell(row, fieldValue))
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("row %d (%s): %v, skipped", line, name, err))
			continue
		}
		gain, hasGain, err := decodeCell(det.cell(row, fieldGainAbs))
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("row %d (%s): %v, skipped", line, name, err))
			continue
		}

		currency := det.cell(row, fieldCurrency)
		if currency == "" {
			currency = base
		}

		// Holdings exports do not always carry every column; the missing
		// ones derive from the others.
		if cost.IsZero() && hasValue && hasGain {
			cost = value.Sub(gain)
		}
		if !hasPrice && hasValue && !qty.IsZero() {
			price, hasPrice = value.Div(qty), true
		}

		p := &Position{
			name:     name,
			ticker:   det.cell(row, fieldTicker),
			quantity: Q(qty),
			cost:     M(cost, currency),
		}
		if hasPrice {
			p.setPrice(M(price, currency))
		}
		positions = append(positions, p)
	}
	return positions, warnings, nil
}

// decodeCell decodes an optional numeric cell. Empty cells and the "-"
// placeholder mean absent, not zero and not an error.
func decodeCell(s string) (decimal.Decimal, bool, error) {
	if s == "" || s == "-" {
		return decimal.Zero, false, nil
	}
	d, err := DecodeNumber(s)
	if err != nil {
		return decimal.Zero, false, err
	}
	return d, true, nil
}

func blankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
