package model

// Comparison is the three-way outcome of comparing price to SMA.
type Comparison string

const (
	ComparisonAbove Comparison = "ABOVE"
	ComparisonBelow Comparison = "BELOW"
	ComparisonEqual Comparison = "EQUAL"
)

// TrendSignal is the trend reading derived from the same comparison. It
// duplicates Comparison's three-way outcome; both fields are kept for a
// backward-compatible output shape.
type TrendSignal string

const (
	TrendBullish TrendSignal = "BULLISH"
	TrendBearish TrendSignal = "BEARISH"
	TrendNeutral TrendSignal = "NEUTRAL"
)

// SignalStrength buckets the absolute percentage difference.
type SignalStrength string

const (
	StrengthWeak     SignalStrength = "weak"
	StrengthModerate SignalStrength = "moderate"
	StrengthStrong   SignalStrength = "strong"
)

// ComparisonResult is the full single-ticker analysis output, recomputed per
// request and handed to the reporting layer as plain data.
type ComparisonResult struct {
	Symbol               string      `json:"symbol"`
	Date                 string      `json:"date"`
	ClosingPrice         float64     `json:"closing_price"`
	SMAValue             float64     `json:"sma_value"`
	Comparison           Comparison  `json:"comparison"`
	PercentageDifference float64     `json:"percentage_difference"`
	TrendSignal          TrendSignal `json:"trend_signal"`
	Message              string      `json:"message"`
	DetailedMessage      string      `json:"detailed_message"`
}

// Analysis is the single-value analysis path output: status, strength, and
// the raw differences, without the templated result messages.
type Analysis struct {
	Status               string         `json:"status"` // "above" or "below"
	PercentageDifference float64        `json:"percentage_difference"`
	SignalStrength       SignalStrength `json:"signal_strength"`
	CurrentPrice         float64        `json:"current_price"`
	SMAValue             float64        `json:"sma_value"`
	AbsoluteDifference   float64        `json:"absolute_difference"`
}

// Recommendation is one of the five multi-ticker policy states.
type Recommendation string

const (
	RecommendBuyHold    Recommendation = "BUY_HOLD"
	RecommendSellDCA    Recommendation = "SELL_DCA"
	RecommendDeleverage Recommendation = "DELEVERAGE"
	RecommendExitCash   Recommendation = "EXIT_CASH"
	RecommendMaintain   Recommendation = "MAINTAIN"
)

// TickerDetail is the per-ticker display block of a multi-ticker assessment.
type TickerDetail struct {
	Price          float64 `json:"price"`
	SMA            float64 `json:"sma"`
	PercentageDiff float64 `json:"percentage_diff"`
	Status         string  `json:"status"`
	Color          string  `json:"color"`
}

// MultiTickerAssessment is the multi-ticker policy output. Priority runs from
// 1 (highest urgency) to 5 (lowest). SignalEvent is empty when no threshold
// is being approached.
type MultiTickerAssessment struct {
	Date           string                  `json:"date"`
	Recommendation Recommendation          `json:"recommendation"`
	Priority       int                     `json:"priority"`
	Explanation    string                  `json:"explanation"`
	SignalEvent    string                  `json:"signal_event,omitempty"`
	Tickers        map[string]TickerDetail `json:"tickers"`
}

// Thresholds configures the multi-ticker policy, in percentage points.
type Thresholds struct {
	PrimaryBuy        float64
	PrimarySell       float64
	ProtectiveWarning float64
	ProtectiveDanger  float64
}

// DefaultThresholds returns the standard policy thresholds.
func DefaultThresholds() Thresholds {
	return Thresholds{
		PrimaryBuy:        4.0,
		PrimarySell:       -3.0,
		ProtectiveWarning: 30.0,
		ProtectiveDanger:  40.0,
	}
}
