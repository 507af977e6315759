package model

// Payload is a provider-shaped daily series response after the fetch layer has
// decoded it: a metadata block reduced to the last-refreshed date, plus a
// date-keyed map of raw string fields. The fetch adapter that built the payload
// records which field carries the adjusted close in Schema.
type Payload struct {
	Symbol        string
	LastRefreshed string
	Series        map[string]map[string]string
	Schema        Schema
}

// Schema names the provider field that holds the adjusted closing value.
// Alpha Vantage uses "5. adjusted close"; its SMA endpoint uses "SMA".
type Schema struct {
	AdjustedClose string
}

// TimeSeriesPoint is a single dated observation. Immutable once parsed.
type TimeSeriesPoint struct {
	Date          string
	AdjustedClose float64
}

// NormalizedSeries is an ordered collection of points, most recent first,
// with unique dates. Non-empty after successful extraction.
type NormalizedSeries []TimeSeriesPoint

// Dates returns the series dates in order (most recent first).
func (s NormalizedSeries) Dates() []string {
	dates := make([]string, len(s))
	for i, p := range s {
		dates[i] = p.Date
	}
	return dates
}

// SMAResult is a simple moving average anchored to the most recent date of
// the window it was computed from.
type SMAResult struct {
	Date  string
	Value float64
}

// DatedValue is a single (date, value) pair reduced from one series, the unit
// the direct-comparison synchronization path works on.
type DatedValue struct {
	Date  string
	Value float64
}

// Observation is a validated, date-aligned (date, price, sma) triple. Both
// values have passed range validation and cross-validation, and the price and
// SMA dates matched exactly.
type Observation struct {
	Symbol string  `json:"symbol"`
	Date   string  `json:"date"`
	Price  float64 `json:"price"`
	SMA    float64 `json:"sma"`
}

// Bounds holds the sanity limits applied to prices, SMA values, and their
// relationship. The ratio and magnitude limits are heuristic gates, kept
// configurable rather than hard-coded.
type Bounds struct {
	MinValue         float64
	MaxValue         float64
	MinRatio         float64
	MaxRatio         float64
	MaxMagnitudeDiff float64
}

// DefaultBounds returns the standard validation limits.
func DefaultBounds() Bounds {
	return Bounds{
		MinValue:         0.01,
		MaxValue:         10000.0,
		MinRatio:         0.1,
		MaxRatio:         10.0,
		MaxMagnitudeDiff: 5.0,
	}
}

// StalenessAction selects what happens when data is older than the configured
// maximum age. A single policy shared by every freshness check.
type StalenessAction string

const (
	StalenessWarn   StalenessAction = "warn"
	StalenessReject StalenessAction = "reject"
)
