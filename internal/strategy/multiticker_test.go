package strategy

import (
	"strings"
	"testing"

	"SMACrossover/internal/model"
)

func testEngine() *MultiEngine {
	return NewMultiEngine(model.DefaultThresholds(), model.DefaultBounds())
}

func obs(symbol string, price, sma float64) model.Observation {
	return model.Observation{Symbol: symbol, Date: "2025-08-06", Price: price, SMA: sma}
}

func TestAnalyze_DecisionLadder(t *testing.T) {
	tests := []struct {
		name       string
		primary    model.Observation
		protective model.Observation
		want       model.Recommendation
		priority   int
	}{
		// 5% above buy threshold, protective safe.
		{"buy and hold", obs("TQQQ", 105, 100), obs("SPY", 110, 100), model.RecommendBuyHold, 4},
		// Protective 35% above its SMA crosses the 30% warning line.
		{"deleverage", obs("TQQQ", 105, 100), obs("SPY", 135, 100), model.RecommendDeleverage, 2},
		// Protective 45% above its SMA crosses the 40% danger line.
		{"exit cash", obs("TQQQ", 105, 100), obs("SPY", 145, 100), model.RecommendExitCash, 1},
		// Primary 5% below its SMA crosses the -3% sell line.
		{"sell dca", obs("TQQQ", 95, 100), obs("SPY", 110, 100), model.RecommendSellDCA, 3},
		// Neither side crosses a line.
		{"maintain", obs("TQQQ", 102, 100), obs("SPY", 110, 100), model.RecommendMaintain, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := testEngine().Analyze(tt.primary, tt.protective, nil, "2025-08-06")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if a.Recommendation != tt.want {
				t.Errorf("recommendation = %s, want %s", a.Recommendation, tt.want)
			}
			if a.Priority != tt.priority {
				t.Errorf("priority = %d, want %d", a.Priority, tt.priority)
			}
			if a.Explanation == "" {
				t.Error("explanation must not be empty")
			}
		})
	}
}

func TestAnalyze_ProtectiveOutranksPrimary(t *testing.T) {
	// Primary would say SELL_DCA; protective danger wins.
	a, err := testEngine().Analyze(obs("TQQQ", 95, 100), obs("SPY", 145, 100), nil, "2025-08-06")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.Recommendation != model.RecommendExitCash {
		t.Errorf("expected EXIT_CASH to outrank SELL_DCA, got %s", a.Recommendation)
	}
	if a.Priority != 1 {
		t.Errorf("expected priority 1, got %d", a.Priority)
	}
}

func TestAnalyze_ThresholdsAreInclusive(t *testing.T) {
	tests := []struct {
		name       string
		primary    model.Observation
		protective model.Observation
		want       model.Recommendation
	}{
		{"exactly at buy threshold", obs("TQQQ", 104, 100), obs("SPY", 110, 100), model.RecommendBuyHold},
		{"just under buy threshold", obs("TQQQ", 103.99, 100), obs("SPY", 110, 100), model.RecommendMaintain},
		{"exactly at sell threshold", obs("TQQQ", 97, 100), obs("SPY", 110, 100), model.RecommendSellDCA},
		{"exactly at warning threshold", obs("TQQQ", 102, 100), obs("SPY", 130, 100), model.RecommendDeleverage},
		{"exactly at danger threshold", obs("TQQQ", 102, 100), obs("SPY", 140, 100), model.RecommendExitCash},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := testEngine().Analyze(tt.primary, tt.protective, nil, "2025-08-06")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if a.Recommendation != tt.want {
				t.Errorf("recommendation = %s, want %s", a.Recommendation, tt.want)
			}
		})
	}
}

func TestAnalyze_SignalEvents(t *testing.T) {
	t.Run("near danger threshold", func(t *testing.T) {
		// Protective at 40.3% is within 0.5 points of the 40% danger line.
		a, err := testEngine().Analyze(obs("TQQQ", 102, 100), obs("SPY", 140.3, 100), nil, "2025-08-06")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(a.SignalEvent, "danger threshold") {
			t.Errorf("expected danger threshold event, got %q", a.SignalEvent)
		}
	})
	t.Run("near buy threshold", func(t *testing.T) {
		a, err := testEngine().Analyze(obs("TQQQ", 104.3, 100), obs("SPY", 110, 100), nil, "2025-08-06")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(a.SignalEvent, "buy threshold") {
			t.Errorf("expected buy threshold event, got %q", a.SignalEvent)
		}
	})
	t.Run("no event away from thresholds", func(t *testing.T) {
		a, err := testEngine().Analyze(obs("TQQQ", 102, 100), obs("SPY", 110, 100), nil, "2025-08-06")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if a.SignalEvent != "" {
			t.Errorf("expected no signal event, got %q", a.SignalEvent)
		}
	})
	t.Run("danger event checked before buy", func(t *testing.T) {
		// Both tickers sit inside an alert band; only the danger event fires.
		a, err := testEngine().Analyze(obs("TQQQ", 104.2, 100), obs("SPY", 139.8, 100), nil, "2025-08-06")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(a.SignalEvent, "danger threshold") {
			t.Errorf("expected the danger event to win, got %q", a.SignalEvent)
		}
	})
}

func TestAnalyze_TickerDetails(t *testing.T) {
	a, err := testEngine().Analyze(obs("TQQQ", 105, 100), obs("SPY", 135, 100), nil, "2025-08-06")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	primary, ok := a.Tickers["TQQQ"]
	if !ok {
		t.Fatal("missing primary ticker detail")
	}
	if primary.Status != "above buy threshold" || primary.Color != "green" {
		t.Errorf("primary detail = %s/%s, want above buy threshold/green", primary.Status, primary.Color)
	}
	if primary.PercentageDiff != 5.0 {
		t.Errorf("primary pct = %v, want 5.0", primary.PercentageDiff)
	}
	protective, ok := a.Tickers["SPY"]
	if !ok {
		t.Fatal("missing protective ticker detail")
	}
	if protective.Status != "warning zone" || protective.Color != "orange" {
		t.Errorf("protective detail = %s/%s, want warning zone/orange", protective.Status, protective.Color)
	}
}

func TestAnalyze_ReferenceIsDisplayOnly(t *testing.T) {
	// Reference is deep below its SMA; the decision must ignore it.
	ref := obs("QQQ", 50, 100)
	a, err := testEngine().Analyze(obs("TQQQ", 105, 100), obs("SPY", 110, 100), &ref, "2025-08-06")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.Recommendation != model.RecommendBuyHold {
		t.Errorf("reference must not influence the decision, got %s", a.Recommendation)
	}
	detail, ok := a.Tickers["QQQ"]
	if !ok {
		t.Fatal("missing reference ticker detail")
	}
	if detail.Status != "reference only" || detail.Color != "gray" {
		t.Errorf("reference detail = %s/%s, want reference only/gray", detail.Status, detail.Color)
	}
	if detail.PercentageDiff != -50.0 {
		t.Errorf("reference pct = %v, want -50.0", detail.PercentageDiff)
	}
}

func TestAnalyze_InvalidInputs(t *testing.T) {
	e := testEngine()
	if _, err := e.Analyze(obs("TQQQ", 105, 100), obs("SPY", 110, 100), nil, "bad-date"); err == nil {
		t.Error("expected error for invalid date")
	}
	if _, err := e.Analyze(obs("TQQQ", -5, 100), obs("SPY", 110, 100), nil, "2025-08-06"); err == nil {
		t.Error("expected error for invalid primary price")
	}
	if _, err := e.Analyze(obs("TQQQ", 105, 100), obs("SPY", 110, 0), nil, "2025-08-06"); err == nil {
		t.Error("expected error for invalid protective SMA")
	}
}
