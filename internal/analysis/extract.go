package analysis

import (
	"log"
	"regexp"
	"sort"
	"strconv"
	"time"

	"SMACrossover/internal/calculator"
	"SMACrossover/internal/model"
)

var datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// Extractor parses provider payloads into normalized time series data.
// Everything it rejects is reported with the offending field and value; it
// never substitutes defaults.
type Extractor struct {
	Bounds model.Bounds
	Now    func() time.Time
}

// NewExtractor creates an extractor with the given bounds and wall-clock time.
func NewExtractor(b model.Bounds) *Extractor {
	return &Extractor{Bounds: b, Now: time.Now}
}

// LatestPoint extracts the single most recent (date, value) pair from a
// payload: the metadata's last-refreshed date and the value the payload's
// schema names for that date.
func (e *Extractor) LatestPoint(p *model.Payload) (model.TimeSeriesPoint, error) {
	date, err := e.validateDate(p.LastRefreshed)
	if err != nil {
		return model.TimeSeriesPoint{}, err
	}
	if len(p.Series) == 0 {
		return model.TimeSeriesPoint{}, model.NewValidationError(
			"TimeSeriesExtractor", "series", "", "missing time series section in response")
	}
	return e.PointAt(p, date)
}

// PointAt extracts the (date, value) pair for one specific date.
func (e *Extractor) PointAt(p *model.Payload, date string) (model.TimeSeriesPoint, error) {
	if _, err := e.validateDate(date); err != nil {
		return model.TimeSeriesPoint{}, err
	}
	fields, ok := p.Series[date]
	if !ok {
		return model.TimeSeriesPoint{}, model.NewValidationError(
			"TimeSeriesExtractor", "series", date, "no data found for date %s in time series", date)
	}
	value, err := e.parseField(fields, p.Schema.AdjustedClose, date)
	if err != nil {
		return model.TimeSeriesPoint{}, err
	}
	return model.TimeSeriesPoint{Date: date, AdjustedClose: value}, nil
}

// Normalize converts the full payload into a NormalizedSeries: unique dates,
// most recent first, every value parsed and range-checked. Any malformed
// entry fails the whole extraction.
func (e *Extractor) Normalize(p *model.Payload) (model.NormalizedSeries, error) {
	if len(p.Series) == 0 {
		return nil, model.NewValidationError(
			"TimeSeriesExtractor", "series", "", "missing time series section in response")
	}

	dates := make([]string, 0, len(p.Series))
	for d := range p.Series {
		dates = append(dates, d)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(dates)))

	series := make(model.NormalizedSeries, 0, len(dates))
	for _, d := range dates {
		if _, err := e.validateDate(d); err != nil {
			return nil, err
		}
		value, err := e.parseField(p.Series[d], p.Schema.AdjustedClose, d)
		if err != nil {
			return nil, err
		}
		series = append(series, model.TimeSeriesPoint{Date: d, AdjustedClose: value})
	}
	return series, nil
}

func (e *Extractor) parseField(fields map[string]string, key, date string) (float64, error) {
	raw, ok := fields[key]
	if !ok || raw == "" {
		return 0, model.NewValidationError(
			"TimeSeriesExtractor", key, date, "missing %q field for date %s", key, date)
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, model.NewValidationError(
			"TimeSeriesExtractor", key, raw, "invalid value for date %s: %q", date, raw)
	}
	if !calculator.ValidatePrice(value, e.Bounds) {
		return 0, model.NewValidationError(
			"TimeSeriesExtractor", key, raw,
			"value %v for date %s is outside valid range (%v-%v)",
			value, date, e.Bounds.MinValue, e.Bounds.MaxValue)
	}
	return value, nil
}

// validateDate checks the YYYY-MM-DD shape, parseability, and that the date
// is not in the future. Dates older than ten years only log a warning.
func (e *Extractor) validateDate(date string) (string, error) {
	if date == "" {
		return "", model.NewValidationError(
			"TimeSeriesExtractor", "date", "", "missing last-refreshed date in metadata")
	}
	if !datePattern.MatchString(date) {
		return "", model.NewValidationError(
			"TimeSeriesExtractor", "date", date, "date format must be YYYY-MM-DD, got: %s", date)
	}
	parsed, err := time.Parse("2006-01-02", date)
	if err != nil {
		return "", model.NewValidationError(
			"TimeSeriesExtractor", "date", date, "invalid date value: %s", date)
	}
	now := e.Now()
	if parsed.After(now) {
		return "", model.NewValidationError(
			"TimeSeriesExtractor", "date", date, "date cannot be in the future: %s", date)
	}
	if parsed.Before(now.AddDate(-10, 0, 0)) {
		log.Printf("[WARN] date is more than 10 years old: %s", date)
	}
	return date, nil
}
