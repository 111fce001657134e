package ppsnap

import "testing"

func TestMoney_String(t *testing.T) {
	testCases := []struct {
		m    Money
		want string
	}{
		{M(1234.56, "EUR"), "€1,234.56"},
		{M(0, "EUR"), "€0.00"},
		{M(-42.5, "USD"), "-$42.50"},
	}
	for _, tc := range testCases {
		if got := tc.m.String(); got != tc.want {
			t.Errorf("String() = %q, want %q", got, tc.want)
		}
	}
}

func TestMoney_SignedString(t *testing.T) {
	if got := M(300, "EUR").SignedString(); got != "+€300.00" {
		t.Errorf("positive = %q", got)
	}
	if got := M(0, "EUR").SignedString(); got != "-" {
		t.Errorf("zero = %q, want \"-\"", got)
	}
}

// The zero Money carries no currency and is neutral for sums, so totals can
// start from the zero value.
func TestMoney_WeakCurrency(t *testing.T) {
	var total Money
	total = total.Add(M(100, "EUR"))
	total = total.Add(M(50, "EUR"))
	if total.Currency() != "EUR" || !total.Equal(M(150, "EUR")) {
		t.Errorf("total = %s %s", total, total.Currency())
	}
}

func TestMoney_MismatchPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("adding EUR to USD must panic")
		}
	}()
	M(1, "EUR").Add(M(1, "USD"))
}

func TestMoney_MulDiv(t *testing.T) {
	price := M(150, "EUR")
	if got := price.Mul(Q(10)); !got.Equal(M(1500, "EUR")) {
		t.Errorf("Mul = %s, want 1500 EUR", got)
	}
	if got := M(1500, "EUR").Div(Q(10)); !got.Equal(price) {
		t.Errorf("Div = %s, want 150 EUR", got)
	}
}

func TestPercent(t *testing.T) {
	p := PercentOf(M(300, "").Amount(), M(1200, "").Amount())
	if got := p.String(); got != "25%" {
		t.Errorf("String() = %q, want 25%%", got)
	}
	if got := p.SignedString(); got != "+25%" {
		t.Errorf("SignedString() = %q, want +25%%", got)
	}
	zero := PercentOf(M(0, "").Amount(), M(1, "").Amount())
	if got := zero.SignedString(); got != "-" {
		t.Errorf("zero SignedString() = %q, want \"-\"", got)
	}
}
