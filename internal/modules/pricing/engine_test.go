package pricing

import (
	"testing"

	"motogo-backend/internal/config"
)

func testTariff() config.PricingConfig {
	return config.PricingConfig{
		BaseFare:     30,
		DistanceRate: 12,
		MinimumFare:  50,
		DriverShare:  0.85,
		CardFeeRate:  0.03,
		RoundingUnit: 5,
	}
}

func TestQuoteMinimumFare(t *testing.T) {
	engine := NewEngine(testTariff())

	// Zero distance: subtotal 30 < minimum 50, so the minimum fare applies.
	b := engine.Quote(0)
	if b.BasePrice != 50 {
		t.Fatalf("expected base price 50, got %v", b.BasePrice)
	}
	if b.Price != 50 {
		t.Fatalf("expected stored price 50, got %d", b.Price)
	}
	// 50 * 0.85 = 42.5 → 45; 50 * 0.15 = 7.5 → 10.
	if b.DriverEarnings != 45 {
		t.Fatalf("expected driver earnings 45, got %d", b.DriverEarnings)
	}
	if b.PlatformEarnings != 10 {
		t.Fatalf("expected platform earnings 10, got %d", b.PlatformEarnings)
	}
	if b.CustomerPaysCash != 55 {
		t.Fatalf("expected cash total 55, got %d", b.CustomerPaysCash)
	}
	// 50 * 0.03 = 1.5 → 5.
	if b.ProcessingFee != 5 {
		t.Fatalf("expected processing fee 5, got %d", b.ProcessingFee)
	}
	if b.CustomerPaysCard != 60 {
		t.Fatalf("expected card total 60, got %d", b.CustomerPaysCard)
	}
}

func TestQuoteDistanceCharge(t *testing.T) {
	engine := NewEngine(testTariff())

	// 10 km: 30 + 10*12 = 150, above the minimum.
	b := engine.Quote(10)
	if b.DistanceCharge != 120 {
		t.Fatalf("expected distance charge 120, got %v", b.DistanceCharge)
	}
	if b.BasePrice != 150 {
		t.Fatalf("expected base price 150, got %v", b.BasePrice)
	}
	// 127.5 → 130, 22.5 → 25.
	if b.DriverEarnings != 130 || b.PlatformEarnings != 25 {
		t.Fatalf("unexpected earnings: driver %d platform %d", b.DriverEarnings, b.PlatformEarnings)
	}
	if b.CustomerPaysCash != 155 {
		t.Fatalf("expected cash total 155, got %d", b.CustomerPaysCash)
	}
}

func TestQuoteMonotonicInDistance(t *testing.T) {
	engine := NewEngine(testTariff())

	prev := -1.0
	for _, d := range []float64{0, 0.5, 1, 1.67, 3, 5, 10, 42.5, 100} {
		b := engine.Quote(d)
		if b.BasePrice < prev {
			t.Fatalf("base price decreased at distance %v: %v < %v", d, b.BasePrice, prev)
		}
		if b.Price <= 0 {
			t.Fatalf("price must be positive, got %d at distance %v", b.Price, d)
		}
		prev = b.BasePrice
	}
}

func TestRoundUp(t *testing.T) {
	cases := []struct {
		in   float64
		unit int
		want int
	}{
		{0, 5, 0},
		{0.01, 5, 5},
		{5, 5, 5},
		{5.01, 5, 10},
		{42.5, 5, 45},
		{7.5, 5, 10},
		{1.5, 5, 5},
		{99, 5, 100},
		{12, 10, 20},
	}
	for _, tc := range cases {
		got := RoundUp(tc.in, tc.unit)
		if got != tc.want {
			t.Errorf("RoundUp(%v, %d) = %d, want %d", tc.in, tc.unit, got, tc.want)
		}
		if got < int(tc.in) {
			t.Errorf("RoundUp(%v, %d) = %d is below input", tc.in, tc.unit, got)
		}
		if got%tc.unit != 0 {
			t.Errorf("RoundUp(%v, %d) = %d is not a multiple of %d", tc.in, tc.unit, got, tc.unit)
		}
	}
}
