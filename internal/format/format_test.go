package format

import (
	"testing"
	"time"
)

func TestFmtCurrencyINR(t *testing.T) {
	cases := []struct {
		amount float64
		want   string
	}{
		{0, "₹0.00"},
		{999.5, "₹999.50"},
		{1999, "₹1,999.00"},
		{30997, "₹30,997.00"},
		{1234567.891, "₹1,234,567.89"},
		{-250, "-₹250.00"},
	}
	for _, c := range cases {
		if got := FmtCurrency(c.amount, "INR", "en"); got != c.want {
			t.Errorf("FmtCurrency(%v) = %s, want %s", c.amount, got, c.want)
		}
	}
}

func TestFmtCurrencyOtherCurrencies(t *testing.T) {
	if got := FmtCurrency(12.5, "USD", "en"); got != "$12.50" {
		t.Errorf("USD: got %s", got)
	}
	if got := FmtCurrency(12.5, "EUR", "en"); got != "EUR 12.50" {
		t.Errorf("EUR: got %s", got)
	}
}

func TestFmtDate(t *testing.T) {
	d := time.Date(2026, 7, 14, 0, 0, 0, 0, time.UTC)
	if got := FmtDate(d, "en"); got != "Jul 14, 2026" {
		t.Errorf("en: got %s", got)
	}
	if got := FmtDate(d, "hi"); got != "14-07-2026" {
		t.Errorf("hi: got %s", got)
	}
}
