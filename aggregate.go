package ppsnap

import (
	"fmt"
	"sort"
)

// Aggregate folds a sequence of transaction events into net positions using
// weighted average cost accounting:
//
//   - buy / inbound delivery: quantity += q, cost basis += amount
//   - sell / outbound delivery: cost basis -= (cost basis / quantity) · q,
//     then quantity -= q
//
// Events are folded per identifier in timestamp order; events without a
// timestamp, or with equal timestamps, keep their original order. The same
// routine serves the CSV and the XML path, so the two can never diverge.
//
// A quantity driven negative by sells exceeding recorded buys is preserved,
// not clamped, and reported as a warning: it surfaces incomplete source data
// instead of hiding it.
func Aggregate(events []TransactionEvent, baseCurrency string) ([]*Position, []string) {
	groups := make(map[string][]TransactionEvent)
	var order []string
	for _, e := range events {
		id := e.Identifier()
		if _, seen := groups[id]; !seen {
			order = append(order, id)
		}
		groups[id] = append(groups[id], e)
	}

	var positions []*Position
	var warnings []string
	for _, id := range order {
		evs := groups[id]
		sort.SliceStable(evs, func(i, j int) bool {
			return evs[i].Time.Before(evs[j].Time)
		})

		p := &Position{name: evs[0].Name, ticker: evs[0].Ticker}
		for _, e := range evs {
			amount := e.Amount
			if amount.Currency() == "" {
				amount = M(amount.Amount(), baseCurrency)
			}
			if c := p.cost.Currency(); c != "" && amount.Currency() != c {
				warnings = append(warnings, fmt.Sprintf("currency mismatch for %s: %s vs %s", id, c, amount.Currency()))
				amount = M(amount.Amount(), c)
			}
			if e.Type.increases() {
				p.quantity = p.quantity.Add(e.Quantity)
				p.cost = p.cost.Add(amount)
			} else {
				if !p.quantity.IsZero() {
					avgCost := p.cost.Div(p.quantity)
					p.cost = p.cost.Sub(avgCost.Mul(e.Quantity))
				}
				p.quantity = p.quantity.Sub(e.Quantity)
			}
		}
		if p.cost.Currency() == "" {
			p.cost = M(0, baseCurrency)
		}
		if p.quantity.IsNegative() {
			warnings = append(warnings, fmt.Sprintf("negative quantity for %s: %s", id, p.quantity))
		}
		positions = append(positions, p)
	}
	return positions, warnings
}
