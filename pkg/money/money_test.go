package money

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/shopspring/decimal"
)

func TestParse(t *testing.T) {
	str := func(s string) *string { return &s }

	tests := []struct {
		name string
		in   any
		want float64
	}{
		{"nil", nil, 0},
		{"nil string pointer", (*string)(nil), 0},
		{"plain number", 1500.0, 1500},
		{"int", 2500, 2500},
		{"numeric string", "1200", 1200},
		{"currency suffix", "5000 FCFA", 5000},
		{"grouped with comma", "1 234,00 FCFA", 123400},
		{"dot decimal", "12.75", 12.75},
		{"negative", "-300", -300},
		{"double dot keeps prefix", "12.5.3", 12.5},
		{"letters only", "gratuit", 0},
		{"empty", "", 0},
		{"string pointer", str("7 000"), 7000},
		{"json number", json.Number("42.5"), 42.5},
		{"NaN", math.NaN(), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Parse(tt.in); got != tt.want {
				t.Fatalf("Parse(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestSplitPayoutConservesPrice(t *testing.T) {
	rate := decimal.RequireFromString("0.70")

	prices := []string{"1", "5", "500", "1001", "2500", "3333", "12345.50", "50000", "999999"}
	for _, p := range prices {
		price := decimal.RequireFromString(p)
		split := SplitPayout(price, rate)

		if !split.Driver.Add(split.Platform).Equal(price) {
			t.Fatalf("price %s: driver %s + platform %s != price", p, split.Driver, split.Platform)
		}
		if !split.Driver.Equal(split.Driver.Round(0)) {
			t.Fatalf("price %s: driver share %s is not a whole unit", p, split.Driver)
		}
	}
}

func TestSplitPayoutKnownValues(t *testing.T) {
	rate := decimal.RequireFromString("0.70")

	tests := []struct {
		price, driver, platform string
	}{
		{"2500", "1750", "750"},
		{"1001", "701", "300"},
		{"5", "4", "1"},
	}

	for _, tt := range tests {
		split := SplitPayout(decimal.RequireFromString(tt.price), rate)
		if split.Driver.String() != tt.driver || split.Platform.String() != tt.platform {
			t.Fatalf("price %s: got %s/%s, want %s/%s", tt.price, split.Driver, split.Platform, tt.driver, tt.platform)
		}
	}
}
