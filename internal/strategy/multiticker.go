package strategy

import (
	"fmt"
	"math"

	"SMACrossover/internal/calculator"
	"SMACrossover/internal/model"
)

// Priority values per recommendation, 1 is highest urgency.
const (
	priorityExitCash   = 1
	priorityDeleverage = 2
	prioritySellDCA    = 3
	priorityBuyHold    = 4
	priorityMaintain   = 5
)

// signalEventBand is how close (in percentage points) a live value must be to
// a threshold before a near-threshold alert fires.
const signalEventBand = 0.5

// MultiEngine applies the layered threshold policy across a primary ticker, a
// protective (bubble-protection) ticker, and an optional display-only
// reference ticker.
type MultiEngine struct {
	Thresholds model.Thresholds
	Bounds     model.Bounds
}

// NewMultiEngine creates an engine with the given thresholds and bounds.
func NewMultiEngine(th model.Thresholds, b model.Bounds) *MultiEngine {
	return &MultiEngine{Thresholds: th, Bounds: b}
}

// Analyze produces the multi-ticker assessment for one date. The decision
// ladder is evaluated top-down and the first match wins; the ordering is the
// business rule and must not change:
//
//	1. protective >= danger     -> EXIT_CASH
//	2. protective >= warning    -> DELEVERAGE
//	3. primary    <= sell       -> SELL_DCA
//	4. primary    >= buy        -> BUY_HOLD
//	5. otherwise                -> MAINTAIN
//
// The reference observation, when present, is carried into the output for
// display only and never participates in the decision.
func (e *MultiEngine) Analyze(primary, protective model.Observation, reference *model.Observation, date string) (*model.MultiTickerAssessment, error) {
	if !datePattern.MatchString(date) {
		return nil, model.NewValidationError(
			"MultiTickerEngine", "date", date, "invalid date format: %s, expected YYYY-MM-DD", date)
	}

	primaryPct, err := e.observedPct(primary)
	if err != nil {
		return nil, err
	}
	protectivePct, err := e.observedPct(protective)
	if err != nil {
		return nil, err
	}

	th := e.Thresholds
	assessment := &model.MultiTickerAssessment{
		Date:    date,
		Tickers: make(map[string]model.TickerDetail, 3),
	}

	switch {
	case protectivePct >= th.ProtectiveDanger:
		assessment.Recommendation = model.RecommendExitCash
		assessment.Priority = priorityExitCash
		assessment.Explanation = fmt.Sprintf(
			"%s is %.2f%% above its SMA, at or above the %.1f%% danger threshold: exit leveraged positions and move to cash.",
			protective.Symbol, protectivePct, th.ProtectiveDanger)
	case protectivePct >= th.ProtectiveWarning:
		assessment.Recommendation = model.RecommendDeleverage
		assessment.Priority = priorityDeleverage
		assessment.Explanation = fmt.Sprintf(
			"%s is %.2f%% above its SMA, at or above the %.1f%% warning threshold: deleverage into %s.",
			protective.Symbol, protectivePct, th.ProtectiveWarning, protective.Symbol)
	case primaryPct <= th.PrimarySell:
		assessment.Recommendation = model.RecommendSellDCA
		assessment.Priority = prioritySellDCA
		assessment.Explanation = fmt.Sprintf(
			"%s is %.2f%% below its SMA, at or below the %.1f%% sell threshold: sell %s and DCA into %s.",
			primary.Symbol, math.Abs(primaryPct), th.PrimarySell, primary.Symbol, protective.Symbol)
	case primaryPct >= th.PrimaryBuy:
		assessment.Recommendation = model.RecommendBuyHold
		assessment.Priority = priorityBuyHold
		assessment.Explanation = fmt.Sprintf(
			"%s is %.2f%% above its SMA, at or above the %.1f%% buy threshold: buy and hold the leveraged position.",
			primary.Symbol, primaryPct, th.PrimaryBuy)
	default:
		assessment.Recommendation = model.RecommendMaintain
		assessment.Priority = priorityMaintain
		assessment.Explanation = fmt.Sprintf(
			"%s is %.2f%% from its SMA, between the sell (%.1f%%) and buy (%.1f%%) thresholds: maintain current positions.",
			primary.Symbol, primaryPct, th.PrimarySell, th.PrimaryBuy)
	}

	assessment.SignalEvent = e.signalEvent(primary.Symbol, protective.Symbol, primaryPct, protectivePct)

	assessment.Tickers[primary.Symbol] = primaryDetail(primary, primaryPct, th)
	assessment.Tickers[protective.Symbol] = protectiveDetail(protective, protectivePct, th)
	if reference != nil {
		refPct, err := e.observedPct(*reference)
		if err != nil {
			return nil, err
		}
		assessment.Tickers[reference.Symbol] = model.TickerDetail{
			Price:          reference.Price,
			SMA:            reference.SMA,
			PercentageDiff: round2(refPct),
			Status:         "reference only",
			Color:          "gray",
		}
	}

	return assessment, nil
}

func (e *MultiEngine) observedPct(obs model.Observation) (float64, error) {
	if !calculator.ValidatePrice(obs.Price, e.Bounds) {
		return 0, model.NewValidationError(
			"MultiTickerEngine", "price", fmt.Sprintf("%v", obs.Price),
			"invalid price for %s: %v", obs.Symbol, obs.Price)
	}
	if !calculator.ValidateSMA(obs.SMA, e.Bounds) {
		return 0, model.NewValidationError(
			"MultiTickerEngine", "sma", fmt.Sprintf("%v", obs.SMA),
			"invalid SMA for %s: %v", obs.Symbol, obs.SMA)
	}
	return percentageDifference(obs.Price, obs.SMA)
}

// signalEvent reports the first threshold within the alert band, checked in
// fixed order: danger, warning, buy, sell. Only one event is ever reported.
func (e *MultiEngine) signalEvent(primarySym, protectiveSym string, primaryPct, protectivePct float64) string {
	th := e.Thresholds
	switch {
	case math.Abs(protectivePct-th.ProtectiveDanger) <= signalEventBand:
		return fmt.Sprintf("%s is within %.1f points of the %.1f%% danger threshold (currently %.2f%%)",
			protectiveSym, signalEventBand, th.ProtectiveDanger, protectivePct)
	case math.Abs(protectivePct-th.ProtectiveWarning) <= signalEventBand:
		return fmt.Sprintf("%s is within %.1f points of the %.1f%% warning threshold (currently %.2f%%)",
			protectiveSym, signalEventBand, th.ProtectiveWarning, protectivePct)
	case math.Abs(primaryPct-th.PrimaryBuy) <= signalEventBand:
		return fmt.Sprintf("%s is within %.1f points of the %.1f%% buy threshold (currently %.2f%%)",
			primarySym, signalEventBand, th.PrimaryBuy, primaryPct)
	case math.Abs(primaryPct-th.PrimarySell) <= signalEventBand:
		return fmt.Sprintf("%s is within %.1f points of the %.1f%% sell threshold (currently %.2f%%)",
			primarySym, signalEventBand, th.PrimarySell, primaryPct)
	}
	return ""
}

func primaryDetail(obs model.Observation, pct float64, th model.Thresholds) model.TickerDetail {
	status, color := "in neutral zone", "yellow"
	switch {
	case pct >= th.PrimaryBuy:
		status, color = "above buy threshold", "green"
	case pct <= th.PrimarySell:
		status, color = "below sell threshold", "red"
	}
	return model.TickerDetail{
		Price:          obs.Price,
		SMA:            obs.SMA,
		PercentageDiff: round2(pct),
		Status:         status,
		Color:          color,
	}
}

func protectiveDetail(obs model.Observation, pct float64, th model.Thresholds) model.TickerDetail {
	status, color := "safe zone", "green"
	switch {
	case pct >= th.ProtectiveDanger:
		status, color = "danger zone", "red"
	case pct >= th.ProtectiveWarning:
		status, color = "warning zone", "orange"
	}
	return model.TickerDetail{
		Price:          obs.Price,
		SMA:            obs.SMA,
		PercentageDiff: round2(pct),
		Status:         status,
		Color:          color,
	}
}
