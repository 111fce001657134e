package ppsnap

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

// portfolioXML is a trimmed-down application export: two securities, the
// second one referenced without an explicit index, and a mix of trades,
// deliveries and ignored transaction types.
const portfolioXML = `<?xml version="1.0" encoding="UTF-8"?>
<client>
  <version>60</version>
  <baseCurrency>EUR</baseCurrency>
  <securities>
    <security>
      <uuid>aaaa-1111</uuid>
      <name>Siemens AG</name>
      <isin>DE0007236101</isin>
      <currencyCode>EUR</currencyCode>
      <prices/>
    </security>
    <security>
      <uuid>bbbb-2222</uuid>
      <name>Apple Inc.</name>
      <tickerSymbol>AAPL</tickerSymbol>
      <isin>US0378331005</isin>
      <currencyCode>EUR</currencyCode>
      <prices>
        <price t="2024-01-03" v="14800000000"/>
        <price t="2024-01-05" v="15500000000"/>
      </prices>
    </security>
  </securities>
  <portfolios>
    <portfolio>
      <uuid>pppp-0000</uuid>
      <name>Depot</name>
      <transactions>
        <portfolio-transaction>
          <date>2024-01-02T00:00</date>
          <currencyCode>EUR</currencyCode>
          <amount>150000</amount>
          <shares>1000000000</shares>
          <type>BUY</type>
          <security class="security" reference="../../../../securities/security[2]"/>
        </portfolio-transaction>
        <portfolio-transaction>
          <date>2024-02-02T00:00</date>
          <currencyCode>EUR</currencyCode>
          <amount>62000</amount>
          <shares>400000000</shares>
          <type>SELL</type>
          <security class="security" reference="../../../../securities/security[2]"/>
        </portfolio-transaction>
        <portfolio-transaction>
          <date>2024-03-02T00:00</date>
          <currencyCode>EUR</currencyCode>
          <amount>50000</amount>
          <shares>200000000</shares>
          <type>DELIVERY_INBOUND</type>
          <security class="security" reference="../../../../securities/security"/>
        </portfolio-transaction>
        <portfolio-transaction>
          <date>2024-03-15T00:00</date>
          <currencyCode>EUR</currencyCode>
          <amount>1200</amount>
          <shares>0</shares>
          <type>DIVIDENDS</type>
          <security class="security" reference="../../../../securities/security[2]"/>
        </portfolio-transaction>
      </transactions>
    </portfolio>
  </portfolios>
</client>`

func TestParsePortfolioXML(t *testing.T) {
	positions, warnings, err := parsePortfolioXML([]byte(portfolioXML), "EUR")
	if err != nil {
		t.Fatal(err)
	}
	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", warnings)
	}
	if len(positions) != 2 {
		t.Fatalf("got %d positions, want 2", len(positions))
	}

	apple := positions[0]
	if apple.Identifier() != "AAPL" {
		t.Fatalf("identifier = %q, want AAPL", apple.Identifier())
	}
	// Buy 10 for 1500, sell 4: 6 shares remain at average cost 150.
	if !apple.Quantity().Equal(Q(6)) {
		t.Errorf("quantity = %s, want 6", apple.Quantity())
	}
	if !apple.CostBasis().Equal(M(900, "EUR")) {
		t.Errorf("cost basis = %s, want 900 EUR", apple.CostBasis())
	}
	price, ok := apple.Price()
	if !ok {
		t.Fatal("Apple has price entries, price must be present")
	}
	if !price.Equal(M(155, "EUR")) {
		t.Errorf("price = %s, want 155 EUR (latest entry wins)", price)
	}
	if apple.Enriched() {
		t.Error("a parsed price must not count as enriched")
	}

	// The reference without an index points at the first security.
	siemens := positions[1]
	if siemens.Identifier() != "DE0007236101" {
		t.Fatalf("identifier = %q, want DE0007236101", siemens.Identifier())
	}
	if !siemens.Quantity().Equal(Q(2)) {
		t.Errorf("quantity = %s, want 2", siemens.Quantity())
	}
	if !siemens.CostBasis().Equal(M(500, "EUR")) {
		t.Errorf("cost basis = %s, want 500 EUR", siemens.CostBasis())
	}
	if _, ok := siemens.Price(); ok {
		t.Error("Siemens has no price entries, price must be absent")
	}
}

func TestParsePortfolioXML_Malformed(t *testing.T) {
	if _, _, err := parsePortfolioXML([]byte("<client><securities>"), "EUR"); err == nil {
		t.Fatal("expected an error for truncated XML")
	}
}

func TestParsePortfolioXML_UnresolvableReference(t *testing.T) {
	const doc = `<client>
  <securities>
    <security><name>Apple Inc.</name></security>
  </securities>
  <portfolios><portfolio><transactions>
    <portfolio-transaction>
      <date>2024-01-02T00:00</date>
      <amount>150000</amount>
      <shares>1000000000</shares>
      <type>BUY</type>
      <security reference="../../../../securities/security[7]"/>
    </portfolio-transaction>
  </transactions></portfolio></portfolios>
</client>`
	positions, warnings, err := parsePortfolioXML([]byte(doc), "EUR")
	if err != nil {
		t.Fatal(err)
	}
	if len(positions) != 0 {
		t.Errorf("got %d positions, want 0", len(positions))
	}
	if len(warnings) != 1 || !strings.Contains(warnings[0], "unresolvable security reference") {
		t.Errorf("warnings = %v, want one unresolvable-reference warning", warnings)
	}
}

func TestResolveSecurity(t *testing.T) {
	securities := []xmlSecurity{{Name: "first"}, {Name: "second"}, {Name: "third"}}
	testCases := []struct {
		ref  string
		want string
		ok   bool
	}{
		{"../../../../securities/security", "first", true},
		{"../../../../securities/security[1]", "first", true},
		{"../../../../securities/security[3]", "third", true},
		{"../../../../securities/security[4]", "", false},
		{"../../../../securities/security[0]", "", false},
		{"../../accounts/account[1]", "", false},
		{"", "", false},
	}
	for _, tc := range testCases {
		t.Run(tc.ref, func(t *testing.T) {
			sec, ok := resolveSecurity(securities, tc.ref)
			if ok != tc.ok || sec.Name != tc.want {
				t.Errorf("resolveSecurity(%q) = %q, %v; want %q, %v", tc.ref, sec.Name, ok, tc.want, tc.ok)
			}
		})
	}
}

func TestUnscalePrice(t *testing.T) {
	testCases := []struct {
		v    int64
		want string
	}{
		{15500000000, "155"}, // 10^8 scale
		{1250, "0.0125"},     // largest divider yielding a plausible price wins
		{1, "0.01"},
		{0, "0"}, // nothing plausible, returned raw
	}
	for _, tc := range testCases {
		want, _ := decimal.NewFromString(tc.want)
		if got := unscalePrice(tc.v); !got.Equal(want) {
			t.Errorf("unscalePrice(%d) = %s, want %s", tc.v, got, want)
		}
	}
}
