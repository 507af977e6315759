package calculator

import (
	"errors"
	"math"
	"strings"
	"testing"

	"SMACrossover/internal/model"
)

func series(points ...model.TimeSeriesPoint) model.NormalizedSeries {
	return model.NormalizedSeries(points)
}

func TestSMA_ThreePointWindow(t *testing.T) {
	s := series(
		model.TimeSeriesPoint{Date: "2025-08-06", AdjustedClose: 46.00},
		model.TimeSeriesPoint{Date: "2025-08-05", AdjustedClose: 44.00},
		model.TimeSeriesPoint{Date: "2025-08-04", AdjustedClose: 42.00},
	)
	result, err := SMA(s, 3, model.DefaultBounds())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(result.Value-44.00) > 1e-9 {
		t.Errorf("expected SMA 44.00, got %v", result.Value)
	}
	if result.Date != "2025-08-06" {
		t.Errorf("expected anchor date 2025-08-06, got %s", result.Date)
	}
}

func TestSMA_WindowIsMostRecentPoints(t *testing.T) {
	// Five points, period 2: only the two most recent dates participate.
	s := series(
		model.TimeSeriesPoint{Date: "2025-08-01", AdjustedClose: 10},
		model.TimeSeriesPoint{Date: "2025-08-05", AdjustedClose: 50},
		model.TimeSeriesPoint{Date: "2025-08-03", AdjustedClose: 30},
		model.TimeSeriesPoint{Date: "2025-08-04", AdjustedClose: 40},
		model.TimeSeriesPoint{Date: "2025-08-02", AdjustedClose: 20},
	)
	result, err := SMA(s, 2, model.DefaultBounds())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(result.Value-45.0) > 1e-9 {
		t.Errorf("expected SMA 45.0 from the two most recent points, got %v", result.Value)
	}
	if result.Date != "2025-08-05" {
		t.Errorf("expected anchor date 2025-08-05, got %s", result.Date)
	}
}

func TestSMA_ExactMean(t *testing.T) {
	values := []float64{101.5, 99.25, 103.75, 98.0, 100.0}
	s := make(model.NormalizedSeries, len(values))
	dates := []string{"2025-08-06", "2025-08-05", "2025-08-04", "2025-08-01", "2025-07-31"}
	sum := 0.0
	for i, v := range values {
		s[i] = model.TimeSeriesPoint{Date: dates[i], AdjustedClose: v}
		sum += v
	}
	result, err := SMA(s, len(values), model.DefaultBounds())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(result.Value-sum/float64(len(values))) > 1e-9 {
		t.Errorf("expected exact mean %v, got %v", sum/float64(len(values)), result.Value)
	}
}

func TestSMA_InsufficientHistory(t *testing.T) {
	s := series(
		model.TimeSeriesPoint{Date: "2025-08-06", AdjustedClose: 46.00},
		model.TimeSeriesPoint{Date: "2025-08-05", AdjustedClose: 44.00},
	)
	_, err := SMA(s, 5, model.DefaultBounds())
	if err == nil {
		t.Fatal("expected error for insufficient history")
	}
	var valErr *model.ValidationError
	if !errors.As(err, &valErr) {
		t.Fatalf("expected ValidationError, got %T", err)
	}
	if !strings.Contains(err.Error(), "2 days available") || !strings.Contains(err.Error(), "5 days required") {
		t.Errorf("error should cite available and required counts: %v", err)
	}
}

func TestSMA_InvalidPeriod(t *testing.T) {
	s := series(model.TimeSeriesPoint{Date: "2025-08-06", AdjustedClose: 46.00})
	for _, period := range []int{0, -1} {
		if _, err := SMA(s, period, model.DefaultBounds()); err == nil {
			t.Errorf("expected error for period %d", period)
		}
	}
}

func TestSMA_ResultOutOfRange(t *testing.T) {
	// Values that skipped normalization can average below the floor.
	b := model.Bounds{MinValue: 50, MaxValue: 10000, MinRatio: 0.1, MaxRatio: 10, MaxMagnitudeDiff: 5}
	s := series(
		model.TimeSeriesPoint{Date: "2025-08-06", AdjustedClose: 60},
		model.TimeSeriesPoint{Date: "2025-08-05", AdjustedClose: 30},
	)
	_, err := SMA(s, 2, b)
	if err == nil {
		t.Fatal("expected error for out-of-range SMA result")
	}
	if !strings.Contains(err.Error(), "calculated_sma") {
		t.Errorf("error should name the calculated_sma field: %v", err)
	}
}
