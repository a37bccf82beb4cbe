package feed

import (
	"math"

	"github.com/arbworks/crossbook/internal/domain"
)

// clampCents converts a wire integer to a price. Out-of-range values map to
// the "no quote" sentinel rather than wrapping.
func clampCents(v int64) domain.PriceCents {
	if v < 1 || v > 99 {
		return domain.NoPrice
	}
	return domain.PriceCents(v)
}

// clampSize converts a wire integer to a size, saturating at the type's
// maximum.
func clampSize(v int64) domain.SizeCents {
	if v < 0 {
		return 0
	}
	if v > math.MaxUint16 {
		return math.MaxUint16
	}
	return domain.SizeCents(v)
}
