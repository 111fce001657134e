package ppsnap

import (
	"strings"
	"testing"
	"time"
)

func day(d int) time.Time {
	return time.Date(2024, time.January, d, 0, 0, 0, 0, time.UTC)
}

func TestAggregate_WeightedAverageCost(t *testing.T) {
	events := []TransactionEvent{
		{Name: "Apple Inc.", Ticker: "AAPL", Type: Buy, Quantity: Q(10), Amount: M(1000, "EUR"), Time: day(1)},
		{Name: "Apple Inc.", Ticker: "AAPL", Type: Buy, Quantity: Q(10), Amount: M(2000, "EUR"), Time: day(2)},
		{Name: "Apple Inc.", Ticker: "AAPL", Type: Sell, Quantity: Q(5), Amount: M(900, "EUR"), Time: day(3)},
	}
	positions, warnings := Aggregate(events, "EUR")
	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", warnings)
	}
	if len(positions) != 1 {
		t.Fatalf("got %d positions, want 1", len(positions))
	}
	p := positions[0]
	// 20 shares cost 3000, so 5 sold shares release 750 of cost basis.
	if got := p.Quantity(); !got.Equal(Q(15)) {
		t.Errorf("quantity = %s, want 15", got)
	}
	if got := p.CostBasis(); !got.Equal(M(2250, "EUR")) {
		t.Errorf("cost basis = %s, want 2250", got)
	}
	if got := p.CostBasis().Currency(); got != "EUR" {
		t.Errorf("currency = %q, want EUR", got)
	}
}

func TestAggregate_DeliveriesActLikeTrades(t *testing.T) {
	events := []TransactionEvent{
		{Name: "Siemens AG", Type: InboundDelivery, Quantity: Q(4), Amount: M(400, "EUR"), Time: day(1)},
		{Name: "Siemens AG", Type: OutboundDelivery, Quantity: Q(1), Amount: M(120, "EUR"), Time: day(2)},
	}
	positions, warnings := Aggregate(events, "EUR")
	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", warnings)
	}
	p := positions[0]
	if !p.Quantity().Equal(Q(3)) {
		t.Errorf("quantity = %s, want 3", p.Quantity())
	}
	// The outbound amount is irrelevant, average cost (100) drives the release.
	if !p.CostBasis().Equal(M(300, "EUR")) {
		t.Errorf("cost basis = %s, want 300", p.CostBasis())
	}
}

// Events are folded in timestamp order regardless of file order, so a sell
// recorded before its buy still sees the buy's cost basis.
func TestAggregate_SortsByTime(t *testing.T) {
	events := []TransactionEvent{
		{Name: "Apple Inc.", Type: Sell, Quantity: Q(5), Amount: M(900, "EUR"), Time: day(3)},
		{Name: "Apple Inc.", Type: Buy, Quantity: Q(10), Amount: M(1000, "EUR"), Time: day(1)},
	}
	positions, _ := Aggregate(events, "EUR")
	p := positions[0]
	if !p.Quantity().Equal(Q(5)) {
		t.Errorf("quantity = %s, want 5", p.Quantity())
	}
	if !p.CostBasis().Equal(M(500, "EUR")) {
		t.Errorf("cost basis = %s, want 500", p.CostBasis())
	}
}

func TestAggregate_NegativeQuantityWarns(t *testing.T) {
	events := []TransactionEvent{
		{Name: "Apple Inc.", Type: Buy, Quantity: Q(5), Amount: M(500, "EUR"), Time: day(1)},
		{Name: "Apple Inc.", Type: Sell, Quantity: Q(8), Amount: M(800, "EUR"), Time: day(2)},
	}
	positions, warnings := Aggregate(events, "EUR")
	p := positions[0]
	if !p.Quantity().IsNegative() {
		t.Errorf("quantity = %s, want negative", p.Quantity())
	}
	if len(warnings) != 1 || !strings.Contains(warnings[0], "negative quantity") {
		t.Errorf("warnings = %v, want one negative-quantity warning", warnings)
	}
}

// A sell with no shares on the books must not divide by zero; the quantity
// goes negative and the cost basis stays untouched.
func TestAggregate_SellFromEmptyPosition(t *testing.T) {
	events := []TransactionEvent{
		{Name: "Apple Inc.", Type: Sell, Quantity: Q(3), Amount: M(300, "EUR"), Time: day(1)},
	}
	positions, warnings := Aggregate(events, "EUR")
	p := positions[0]
	if !p.Quantity().Equal(Q(-3)) {
		t.Errorf("quantity = %s, want -3", p.Quantity())
	}
	if !p.CostBasis().IsZero() {
		t.Errorf("cost basis = %s, want 0", p.CostBasis())
	}
	if len(warnings) != 1 {
		t.Errorf("warnings = %v, want one", warnings)
	}
}

func TestAggregate_GroupsByIdentifier(t *testing.T) {
	events := []TransactionEvent{
		{Name: "Apple Inc.", Ticker: "AAPL", Type: Buy, Quantity: Q(1), Amount: M(100, "EUR"), Time: day(1)},
		{Name: "Siemens AG", Type: Buy, Quantity: Q(2), Amount: M(200, "EUR"), Time: day(1)},
		{Name: "Apple Incorporated", Ticker: "AAPL", Type: Buy, Quantity: Q(1), Amount: M(110, "EUR"), Time: day(2)},
	}
	positions, _ := Aggregate(events, "EUR")
	if len(positions) != 2 {
		t.Fatalf("got %d positions, want 2", len(positions))
	}
	// First appearance order is preserved.
	if positions[0].Identifier() != "AAPL" || positions[1].Identifier() != "Siemens AG" {
		t.Errorf("order = %s, %s", positions[0].Identifier(), positions[1].Identifier())
	}
	if !positions[0].Quantity().Equal(Q(2)) {
		t.Errorf("AAPL quantity = %s, want 2", positions[0].Quantity())
	}
}

func TestAggregate_CurrencyMismatchWarns(t *testing.T) {
	events := []TransactionEvent{
		{Name: "Apple Inc.", Type: Buy, Quantity: Q(1), Amount: M(100, "EUR"), Time: day(1)},
		{Name: "Apple Inc.", Type: Buy, Quantity: Q(1), Amount: M(100, "USD"), Time: day(2)},
	}
	_, warnings := Aggregate(events, "EUR")
	if len(warnings) != 1 || !strings.Contains(warnings[0], "currency mismatch") {
		t.Errorf("warnings = %v, want one currency-mismatch warning", warnings)
	}
}

func TestAggregate_BaseCurrencyFallback(t *testing.T) {
	events := []TransactionEvent{
		{Name: "Apple Inc.", Type: Buy, Quantity: Q(1), Amount: M(100, ""), Time: day(1)},
	}
	positions, _ := Aggregate(events, "CHF")
	if got := positions[0].Currency(); got != "CHF" {
		t.Errorf("currency = %q, want CHF", got)
	}
}
