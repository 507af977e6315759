package notifier

import (
	"errors"
	"strings"
	"testing"

	"SMACrossover/internal/model"
)

func sampleResult() *model.ComparisonResult {
	return &model.ComparisonResult{
		Symbol:               "TQQQ",
		Date:                 "2025-08-06",
		ClosingPrice:         88.84,
		SMAValue:             74.08,
		Comparison:           model.ComparisonAbove,
		PercentageDifference: 19.92,
		TrendSignal:          model.TrendBullish,
		Message:              "The stock price is above the 200-day moving average.",
		DetailedMessage:      "TQQQ closed at $88.84 on 2025-08-06, which is 19.92% above its 200-day SMA of $74.08.",
	}
}

func sampleAnalysis() *model.Analysis {
	return &model.Analysis{
		Status:               "above",
		PercentageDifference: 19.92,
		SignalStrength:       model.StrengthStrong,
		CurrentPrice:         88.84,
		SMAValue:             74.08,
	}
}

func TestFormatComparisonSubject(t *testing.T) {
	got := FormatComparisonSubject(sampleResult())
	want := "TQQQ Analysis: ABOVE 200-Day SMA - 2025-08-06"
	if got != want {
		t.Errorf("subject = %q, want %q", got, want)
	}
}

func TestFormatComparisonText(t *testing.T) {
	text := FormatComparisonText(sampleResult(), sampleAnalysis(), "BULLISH SIGNAL: test")
	for _, want := range []string{
		"TQQQ Analysis Report | 2025-08-06",
		"$88.84",
		"$74.08",
		"+19.92%",
		"BULLISH SIGNAL: test",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("text report missing %q:\n%s", want, text)
		}
	}
}

func TestFormatComparisonHTML(t *testing.T) {
	html := FormatComparisonHTML(sampleResult(), sampleAnalysis(), "BULLISH SIGNAL: test")
	if !strings.Contains(html, "<html>") || !strings.Contains(html, "</html>") {
		t.Error("expected a complete html document")
	}
	if !strings.Contains(html, "TQQQ closed at $88.84") {
		t.Errorf("html report missing detailed message:\n%s", html)
	}
}

func sampleAssessment() *model.MultiTickerAssessment {
	return &model.MultiTickerAssessment{
		Date:           "2025-08-06",
		Recommendation: model.RecommendBuyHold,
		Priority:       4,
		Explanation:    "TQQQ is 5.00% above its SMA, at or above the 4.0% buy threshold: buy and hold the leveraged position.",
		Tickers: map[string]model.TickerDetail{
			"TQQQ": {Price: 105, SMA: 100, PercentageDiff: 5.0, Status: "above buy threshold", Color: "green"},
			"SPY":  {Price: 110, SMA: 100, PercentageDiff: 10.0, Status: "safe zone", Color: "green"},
		},
	}
}

func TestFormatAssessmentSubject(t *testing.T) {
	got := FormatAssessmentSubject(sampleAssessment())
	want := "Multi-Ticker Assessment: BUY_HOLD - 2025-08-06"
	if got != want {
		t.Errorf("subject = %q, want %q", got, want)
	}
}

func TestFormatAssessmentText_SortedTickers(t *testing.T) {
	text := FormatAssessmentText(sampleAssessment())
	if !strings.Contains(text, "Recommendation: BUY_HOLD (priority 4)") {
		t.Errorf("missing recommendation line:\n%s", text)
	}
	spy := strings.Index(text, "SPY")
	tqqq := strings.Index(text, "TQQQ")
	if spy < 0 || tqqq < 0 {
		t.Fatalf("missing ticker rows:\n%s", text)
	}
	if spy > tqqq {
		t.Error("ticker rows should be sorted alphabetically")
	}
}

func TestFormatAssessmentText_SignalEvent(t *testing.T) {
	as := sampleAssessment()
	if strings.Contains(FormatAssessmentText(as), "Signal event") {
		t.Error("signal event line should be omitted when empty")
	}
	as.SignalEvent = "SPY is within 0.5 points of the 40.0% danger threshold (currently 40.30%)"
	if !strings.Contains(FormatAssessmentText(as), "Signal event: SPY is within") {
		t.Error("signal event line should appear when set")
	}
}

func TestFormatAssessmentHTML_RowColors(t *testing.T) {
	html := FormatAssessmentHTML(sampleAssessment())
	if !strings.Contains(html, `style="color:green"`) {
		t.Errorf("expected colored status cells:\n%s", html)
	}
}

func TestErrorKind(t *testing.T) {
	tests := []struct {
		name string
		err  error
		kind string
	}{
		{"sync", &model.SyncError{Msg: "no synchronized dates"}, "Data Synchronization"},
		{"validation", model.NewValidationError("SignalEngine", "date", "x", "bad date"), "Data Validation"},
		{"config", &model.ConfigError{Section: "analysis", Key: "mode", Msg: "bad"}, "Configuration"},
		{"plain", errors.New("connection refused"), "Application"},
		{"wrapped validation", errors.Join(errors.New("outer"), model.NewValidationError("SignalEngine", "date", "x", "bad date")), "Data Validation"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := errorKind(tt.err); got != tt.kind {
				t.Errorf("errorKind = %q, want %q", got, tt.kind)
			}
		})
	}
}

func TestFormatErrorText(t *testing.T) {
	err := model.NewValidationError("DataSynchronizer", "date", "2020-01-01", "data is 7 days old, exceeds maximum of 5 days")
	text := FormatErrorText("TQQQ", err)
	if !strings.Contains(text, "Analysis failed for TQQQ") {
		t.Errorf("missing failure line:\n%s", text)
	}
	if !strings.Contains(text, "Error type: Data Validation") {
		t.Errorf("missing error type:\n%s", text)
	}
	if !strings.Contains(text, "7 days old") {
		t.Errorf("missing error detail:\n%s", text)
	}
}

func TestFormatErrorSubject(t *testing.T) {
	subject := FormatErrorSubject("TQQQ", &model.SyncError{Msg: "no synchronized dates"})
	if !strings.HasPrefix(subject, "TQQQ Analysis Error - Data Synchronization - ") {
		t.Errorf("unexpected subject: %q", subject)
	}
}
