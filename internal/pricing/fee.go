// Package pricing implements cent-denominated price conversions and the
// Kalshi taker fee curve. All arithmetic is exact in cents; the fee uses
// ceiling rounding so results match the venue's published schedule.
package pricing

import (
	"math"

	"github.com/arbworks/crossbook/internal/domain"
)

// KalshiFeeCents returns the Kalshi taker fee in cents for a contract priced
// at p cents: ceil(0.07 * P * (1-P)) expressed in cents, with a 1-cent
// minimum whenever a fee applies. Prices of 0 (no quote) and >= 100 carry no
// fee. The curve is concave and peaks at mid-price.
func KalshiFeeCents(priceCents domain.PriceCents) domain.PriceCents {
	if priceCents == 0 || priceCents >= 100 {
		return 0
	}
	p := float64(priceCents) / 100.0
	fee := domain.PriceCents(math.Ceil(0.07 * p * (1 - p) * 100.0))
	if fee < 1 {
		fee = 1
	}
	return fee
}

// PriceToCents converts a decimal price in [0.01, 0.99] to cents, rounding
// to the nearest cent and clamping to [0, 99].
func PriceToCents(price float64) domain.PriceCents {
	c := int(math.Round(price * 100.0))
	if c < 0 {
		c = 0
	}
	if c > 99 {
		c = 99
	}
	return domain.PriceCents(c)
}

// CentsToPrice converts a cent price back to its decimal form.
func CentsToPrice(cents domain.PriceCents) float64 {
	return float64(cents) / 100.0
}
