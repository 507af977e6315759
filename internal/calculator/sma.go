package calculator

import (
	"sort"

	"SMACrossover/internal/model"
)

// SMA computes the trailing simple moving average over the period most recent
// points of the series, anchored to the most recent date in the window. The
// series must hold at least period distinct dated points; the arithmetic mean
// is exact, with no weighting and no exclusion of outliers.
func SMA(series model.NormalizedSeries, period int, b model.Bounds) (model.SMAResult, error) {
	if period <= 0 {
		return model.SMAResult{}, model.NewValidationError(
			"SMAComputer", "period", "", "SMA period must be positive, got %d", period)
	}
	if len(series) < period {
		return model.SMAResult{}, model.NewValidationError(
			"SMAComputer", "series", "",
			"insufficient historical data: %d days available, %d days required for SMA calculation",
			len(series), period)
	}

	// The window is the period most recent dates regardless of the order the
	// caller handed the series in.
	window := make(model.NormalizedSeries, len(series))
	copy(window, series)
	sort.Slice(window, func(i, j int) bool { return window[i].Date > window[j].Date })
	window = window[:period]

	sum := 0.0
	for _, p := range window {
		sum += p.AdjustedClose
	}
	value := sum / float64(period)

	if !ValidateSMA(value, b) {
		return model.SMAResult{}, model.NewValidationError(
			"SMAComputer", "calculated_sma", formatValue(value),
			"calculated SMA value %v is outside valid range (%v-%v)", value, b.MinValue, b.MaxValue)
	}

	return model.SMAResult{Date: window[0].Date, Value: value}, nil
}
