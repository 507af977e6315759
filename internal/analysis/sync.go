package analysis

import (
	"log"
	"strconv"
	"time"

	"SMACrossover/internal/calculator"
	"SMACrossover/internal/model"
)

// Synchronizer aligns two independently sourced series by date and enforces
// freshness. One StalenessAction governs every freshness check, whichever
// entry point found the stale date.
type Synchronizer struct {
	MaxAgeDays int
	Action     model.StalenessAction
	Bounds     model.Bounds
	Now        func() time.Time
}

// NewSynchronizer creates a synchronizer with the given freshness policy.
func NewSynchronizer(maxAgeDays int, action model.StalenessAction, b model.Bounds) *Synchronizer {
	return &Synchronizer{MaxAgeDays: maxAgeDays, Action: action, Bounds: b, Now: time.Now}
}

// LatestCommonDate returns the most recent date present in both payloads.
// Lexicographic max equals chronological max for ISO dates. With no common
// date it fails, reporting each side's size and range; it never guesses or
// interpolates a substitute date.
func (s *Synchronizer) LatestCommonDate(price, sma *model.Payload) (string, error) {
	latest := ""
	for d := range price.Series {
		if _, ok := sma.Series[d]; !ok {
			continue
		}
		if d > latest {
			latest = d
		}
	}
	if latest == "" {
		return "", &model.SyncError{
			Msg:        "no synchronized dates found between price and SMA data",
			PriceDates: summarizeDates(price.Series),
			SMADates:   summarizeDates(sma.Series),
		}
	}
	log.Printf("[INFO] latest synchronized date: %s", latest)
	return latest, nil
}

// ValidateSync checks two already-reduced (date, value) pairs: the dates must
// match exactly (no tolerance window), the date must be well-formed, both
// values must cross-validate, and the date must satisfy the freshness policy.
// Returns the validated date.
func (s *Synchronizer) ValidateSync(price, sma model.DatedValue) (string, error) {
	if price.Date != sma.Date {
		return "", &model.SyncError{
			Msg:        "price and SMA dates do not match: price=" + price.Date + ", sma=" + sma.Date,
			PriceDates: model.DateSetSummary{Count: 1, Min: price.Date, Max: price.Date},
			SMADates:   model.DateSetSummary{Count: 1, Min: sma.Date, Max: sma.Date},
		}
	}
	if !datePattern.MatchString(price.Date) {
		return "", model.NewValidationError(
			"DataSynchronizer", "date", price.Date, "date format must be YYYY-MM-DD, got: %s", price.Date)
	}
	if _, err := time.Parse("2006-01-02", price.Date); err != nil {
		return "", model.NewValidationError(
			"DataSynchronizer", "date", price.Date, "invalid date value: %s", price.Date)
	}
	if !calculator.CrossValidate(price.Value, sma.Value, s.Bounds) {
		return "", model.NewValidationError(
			"DataSynchronizer", "data_integrity",
			"price:"+formatValue(price.Value)+", sma:"+formatValue(sma.Value),
			"cross-validation failed for price=%v, sma=%v", price.Value, sma.Value)
	}
	if err := s.CheckFreshness(price.Date); err != nil {
		return "", err
	}
	return price.Date, nil
}

// CheckFreshness computes the data age and applies the staleness policy:
// warn logs and continues, reject fails.
func (s *Synchronizer) CheckFreshness(date string) error {
	parsed, err := time.Parse("2006-01-02", date)
	if err != nil {
		return model.NewValidationError(
			"DataSynchronizer", "date", date, "invalid date for freshness check: %s", date)
	}
	ageDays := int(s.Now().Sub(parsed).Hours() / 24)
	if ageDays <= s.MaxAgeDays {
		log.Printf("[INFO] data is %d days old, within maximum of %d days", ageDays, s.MaxAgeDays)
		return nil
	}
	if s.Action == model.StalenessWarn {
		log.Printf("[WARN] data is %d days old, exceeds maximum of %d days", ageDays, s.MaxAgeDays)
		return nil
	}
	return model.NewValidationError(
		"DataSynchronizer", "date", date,
		"data is %d days old, exceeds maximum of %d days", ageDays, s.MaxAgeDays)
}

func summarizeDates(series map[string]map[string]string) model.DateSetSummary {
	sum := model.DateSetSummary{Count: len(series)}
	for d := range series {
		if sum.Min == "" || d < sum.Min {
			sum.Min = d
		}
		if d > sum.Max {
			sum.Max = d
		}
	}
	return sum
}

func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
