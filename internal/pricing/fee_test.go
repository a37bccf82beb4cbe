package pricing

import (
	"math"
	"testing"

	"github.com/arbworks/crossbook/internal/domain"
)

func TestKalshiFeeCents(t *testing.T) {
	cases := []struct {
		price domain.PriceCents
		want  domain.PriceCents
	}{
		// ceil(7 * 50 * 50 / 10000) = ceil(1.75) = 2
		{price: 50, want: 2},
		// ceil(7 * 10 * 90 / 10000) = ceil(0.63) = 1
		{price: 10, want: 1},
		// ceil(7 * 40 * 60 / 10000) = ceil(1.68) = 2
		{price: 40, want: 2},
		{price: 1, want: 1},
		{price: 99, want: 1},
		// No fee outside the quoted range.
		{price: 0, want: 0},
		{price: 100, want: 0},
		{price: 150, want: 0},
	}
	for _, tc := range cases {
		if got := KalshiFeeCents(tc.price); got != tc.want {
			t.Errorf("KalshiFeeCents(%d) = %d, want %d", tc.price, got, tc.want)
		}
	}
}

func TestKalshiFeeMinimumCharge(t *testing.T) {
	for p := domain.PriceCents(1); p <= 99; p++ {
		if fee := KalshiFeeCents(p); fee < 1 {
			t.Errorf("KalshiFeeCents(%d) = %d, want >= 1", p, fee)
		}
	}
}

func TestPriceToCents(t *testing.T) {
	cases := []struct {
		price float64
		want  domain.PriceCents
	}{
		{0.50, 50},
		{0.01, 1},
		{0.99, 99},
		{0.005, 1}, // rounds up
		{1.50, 99}, // clamped
		{-0.10, 0}, // clamped
	}
	for _, tc := range cases {
		if got := PriceToCents(tc.price); got != tc.want {
			t.Errorf("PriceToCents(%v) = %d, want %d", tc.price, got, tc.want)
		}
	}
}

func TestPriceRoundTrip(t *testing.T) {
	for c := 1; c <= 99; c++ {
		price := CentsToPrice(domain.PriceCents(c))
		back := PriceToCents(price)
		if back != domain.PriceCents(c) {
			t.Errorf("round trip %d -> %v -> %d", c, price, back)
		}
	}
	if diff := math.Abs(CentsToPrice(50) - 0.50); diff > 0.001 {
		t.Errorf("CentsToPrice(50) = %v, want 0.50", CentsToPrice(50))
	}
}
