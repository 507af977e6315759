package calculator

import (
	"math"
	"strconv"

	"SMACrossover/internal/model"
)

func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// ValidatePrice reports whether a price is a finite, positive value inside
// the configured range.
func ValidatePrice(price float64, b model.Bounds) bool {
	if math.IsNaN(price) || math.IsInf(price, 0) {
		return false
	}
	if price <= 0 {
		return false
	}
	return price >= b.MinValue && price <= b.MaxValue
}

// ValidateSMA applies the same range check to an SMA value.
func ValidateSMA(sma float64, b model.Bounds) bool {
	return ValidatePrice(sma, b)
}

// CrossValidate checks that price and SMA are reasonable relative to each
// other: both individually valid, ratio within [MinRatio, MaxRatio], and the
// normalized magnitude difference within MaxMagnitudeDiff. These are sanity
// gates against corrupted inputs, not domain rules. Callers decide whether a
// false result is fatal.
func CrossValidate(price, sma float64, b model.Bounds) bool {
	if !ValidatePrice(price, b) || !ValidateSMA(sma, b) {
		return false
	}
	ratio := price / sma
	if ratio < b.MinRatio || ratio > b.MaxRatio {
		return false
	}
	magnitudeDiff := math.Abs(price-sma) / math.Max(price, sma)
	return magnitudeDiff <= b.MaxMagnitudeDiff
}
