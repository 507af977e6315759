package strategy

import (
	"fmt"
	"math"
	"regexp"

	"SMACrossover/internal/calculator"
	"SMACrossover/internal/model"
)

var datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// Comparator derives the single-ticker signal from one price and one SMA.
type Comparator struct {
	Bounds model.Bounds
}

// NewComparator creates a comparator with the given validation bounds.
func NewComparator(b model.Bounds) *Comparator {
	return &Comparator{Bounds: b}
}

// Compare returns the three-way price/SMA comparison. Equality is exact
// floating-point equality: effectively unreachable with real market data, but
// kept as a defined outcome rather than folded into either side.
func (c *Comparator) Compare(price, sma float64) (model.Comparison, error) {
	if !calculator.ValidatePrice(price, c.Bounds) {
		return "", model.NewValidationError(
			"SignalEngine", "closing_price", fmt.Sprintf("%v", price), "invalid closing price: %v", price)
	}
	if !calculator.ValidateSMA(sma, c.Bounds) {
		return "", model.NewValidationError(
			"SignalEngine", "sma_value", fmt.Sprintf("%v", sma), "invalid SMA value: %v", sma)
	}
	switch {
	case price > sma:
		return model.ComparisonAbove, nil
	case price < sma:
		return model.ComparisonBelow, nil
	default:
		return model.ComparisonEqual, nil
	}
}

// percentageDifference computes (price - sma) / sma * 100, unrounded.
func percentageDifference(price, sma float64) (float64, error) {
	if sma == 0 {
		return 0, model.NewValidationError(
			"SignalEngine", "sma_value", "0", "SMA value cannot be zero for percentage calculation")
	}
	return (price - sma) / sma * 100, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func trendSignal(price, sma float64) model.TrendSignal {
	switch {
	case price > sma:
		return model.TrendBullish
	case price < sma:
		return model.TrendBearish
	default:
		return model.TrendNeutral
	}
}

func comparisonMessage(cmp model.Comparison) string {
	switch cmp {
	case model.ComparisonAbove:
		return "The stock price is above the 200-day moving average."
	case model.ComparisonBelow:
		return "The stock price is below the 200-day moving average."
	default:
		return "The stock price equals the 200-day moving average."
	}
}

// GenerateComparisonResult performs the complete single-ticker analysis for
// one validated (price, sma, date) input.
func (c *Comparator) GenerateComparisonResult(symbol string, price, sma float64, date string) (*model.ComparisonResult, error) {
	if !datePattern.MatchString(date) {
		return nil, model.NewValidationError(
			"SignalEngine", "date", date, "invalid date format: %s, expected YYYY-MM-DD", date)
	}

	comparison, err := c.Compare(price, sma)
	if err != nil {
		return nil, err
	}
	pct, err := percentageDifference(price, sma)
	if err != nil {
		return nil, err
	}

	direction := "above"
	if pct < 0 {
		direction = "below"
	}
	detailed := fmt.Sprintf("%s closed at $%.2f on %s, which is %.2f%% %s its 200-day SMA of $%.2f.",
		symbol, price, date, math.Abs(pct), direction, sma)

	return &model.ComparisonResult{
		Symbol:               symbol,
		Date:                 date,
		ClosingPrice:         price,
		SMAValue:             sma,
		Comparison:           comparison,
		PercentageDifference: round2(pct),
		TrendSignal:          trendSignal(price, sma),
		Message:              comparisonMessage(comparison),
		DetailedMessage:      detailed,
	}, nil
}

// Analyze is the single-value analysis path: status, rounded percentage
// difference, and signal strength buckets over the absolute difference.
func (c *Comparator) Analyze(price, sma float64) (*model.Analysis, error) {
	if !calculator.ValidatePrice(price, c.Bounds) {
		return nil, model.NewValidationError(
			"SignalEngine", "current_price", fmt.Sprintf("%v", price), "invalid current price: %v", price)
	}
	if !calculator.ValidateSMA(sma, c.Bounds) {
		return nil, model.NewValidationError(
			"SignalEngine", "sma_value", fmt.Sprintf("%v", sma), "invalid SMA value: %v", sma)
	}
	pct, err := percentageDifference(price, sma)
	if err != nil {
		return nil, err
	}

	status := "below"
	if price > sma {
		status = "above"
	}

	strength := model.StrengthWeak
	switch abs := math.Abs(pct); {
	case abs > 10:
		strength = model.StrengthStrong
	case abs > 5:
		strength = model.StrengthModerate
	}

	return &model.Analysis{
		Status:               status,
		PercentageDifference: round2(pct),
		SignalStrength:       strength,
		CurrentPrice:         price,
		SMAValue:             sma,
		AbsoluteDifference:   round2(math.Abs(price - sma)),
	}, nil
}

// Recommendation renders the trading recommendation text for an analysis.
func Recommendation(a *model.Analysis) string {
	pct := math.Abs(a.PercentageDifference)
	if a.Status == "above" {
		switch a.SignalStrength {
		case model.StrengthStrong:
			return fmt.Sprintf("BULLISH SIGNAL: Price is %.2f%% above 200-day SMA. Strong upward momentum indicated.", pct)
		case model.StrengthModerate:
			return fmt.Sprintf("POSITIVE SIGNAL: Price is %.2f%% above 200-day SMA. Moderate upward trend.", pct)
		default:
			return fmt.Sprintf("NEUTRAL-POSITIVE: Price is %.2f%% above 200-day SMA. Weak signal, monitor for trend confirmation.", pct)
		}
	}
	switch a.SignalStrength {
	case model.StrengthStrong:
		return fmt.Sprintf("BEARISH SIGNAL: Price is %.2f%% below 200-day SMA. Strong downward momentum indicated.", pct)
	case model.StrengthModerate:
		return fmt.Sprintf("NEGATIVE SIGNAL: Price is %.2f%% below 200-day SMA. Moderate downward trend.", pct)
	default:
		return fmt.Sprintf("NEUTRAL-NEGATIVE: Price is %.2f%% below 200-day SMA. Weak signal, monitor for trend confirmation.", pct)
	}
}
