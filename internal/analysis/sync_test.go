package analysis

import (
	"errors"
	"strings"
	"testing"

	"SMACrossover/internal/model"
)

func testSynchronizer(action model.StalenessAction) *Synchronizer {
	s := NewSynchronizer(5, action, model.DefaultBounds())
	s.Now = fixedNow
	return s
}

func seriesWithDates(dates ...string) map[string]map[string]string {
	m := make(map[string]map[string]string, len(dates))
	for _, d := range dates {
		m[d] = map[string]string{adjCloseKey: "100.0"}
	}
	return m
}

func TestLatestCommonDate(t *testing.T) {
	price := &model.Payload{Series: seriesWithDates("2025-08-04", "2025-08-05", "2025-08-06")}
	sma := &model.Payload{Series: seriesWithDates("2025-08-03", "2025-08-04", "2025-08-05")}

	date, err := testSynchronizer(model.StalenessWarn).LatestCommonDate(price, sma)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if date != "2025-08-05" {
		t.Errorf("expected 2025-08-05, got %s", date)
	}
}

func TestLatestCommonDate_NoOverlap(t *testing.T) {
	price := &model.Payload{Series: seriesWithDates("2025-08-05", "2025-08-06")}
	sma := &model.Payload{Series: seriesWithDates("2025-08-01", "2025-08-02")}

	_, err := testSynchronizer(model.StalenessWarn).LatestCommonDate(price, sma)
	if err == nil {
		t.Fatal("expected error for disjoint date sets")
	}
	var syncErr *model.SyncError
	if !errors.As(err, &syncErr) {
		t.Fatalf("expected SyncError, got %T: %v", err, err)
	}
	if syncErr.PriceDates.Count != 2 || syncErr.SMADates.Count != 2 {
		t.Errorf("summary should report both set sizes: %+v", syncErr)
	}
	if syncErr.PriceDates.Min != "2025-08-05" || syncErr.PriceDates.Max != "2025-08-06" {
		t.Errorf("price date range wrong: %+v", syncErr.PriceDates)
	}
}

func TestValidateSync(t *testing.T) {
	s := testSynchronizer(model.StalenessWarn)
	date, err := s.ValidateSync(
		model.DatedValue{Date: "2025-08-06", Value: 88.84},
		model.DatedValue{Date: "2025-08-06", Value: 74.08},
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if date != "2025-08-06" {
		t.Errorf("expected 2025-08-06, got %s", date)
	}
}

func TestValidateSync_DateMismatch(t *testing.T) {
	s := testSynchronizer(model.StalenessWarn)
	_, err := s.ValidateSync(
		model.DatedValue{Date: "2025-08-06", Value: 88.84},
		model.DatedValue{Date: "2025-08-05", Value: 74.08},
	)
	if err == nil {
		t.Fatal("expected error for mismatched dates")
	}
	var syncErr *model.SyncError
	if !errors.As(err, &syncErr) {
		t.Fatalf("expected SyncError, got %T: %v", err, err)
	}
}

func TestValidateSync_CrossValidationFailure(t *testing.T) {
	s := testSynchronizer(model.StalenessWarn)
	// Ratio 20x exceeds the 10x bound.
	_, err := s.ValidateSync(
		model.DatedValue{Date: "2025-08-06", Value: 200},
		model.DatedValue{Date: "2025-08-06", Value: 10},
	)
	if err == nil {
		t.Fatal("expected cross-validation error")
	}
	if !strings.Contains(err.Error(), "data_integrity") {
		t.Errorf("error should name the data_integrity field: %v", err)
	}
}

func TestValidateSync_BadDateFormat(t *testing.T) {
	s := testSynchronizer(model.StalenessWarn)
	_, err := s.ValidateSync(
		model.DatedValue{Date: "08/06/2025", Value: 88.84},
		model.DatedValue{Date: "08/06/2025", Value: 74.08},
	)
	if err == nil {
		t.Fatal("expected error for malformed date")
	}
}

func TestCheckFreshness(t *testing.T) {
	// Now is fixed at 2025-08-08; 2025-08-01 is 7 days old against a 5-day max.
	t.Run("fresh date passes", func(t *testing.T) {
		if err := testSynchronizer(model.StalenessReject).CheckFreshness("2025-08-06"); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})
	t.Run("stale date with warn continues", func(t *testing.T) {
		if err := testSynchronizer(model.StalenessWarn).CheckFreshness("2025-08-01"); err != nil {
			t.Errorf("warn action should not fail: %v", err)
		}
	})
	t.Run("stale date with reject fails", func(t *testing.T) {
		err := testSynchronizer(model.StalenessReject).CheckFreshness("2025-08-01")
		if err == nil {
			t.Fatal("expected error for stale data with reject action")
		}
		if !strings.Contains(err.Error(), "7 days old") {
			t.Errorf("error should report the computed age: %v", err)
		}
	})
	t.Run("unparsable date fails", func(t *testing.T) {
		if err := testSynchronizer(model.StalenessWarn).CheckFreshness("not-a-date"); err == nil {
			t.Fatal("expected error for unparsable date")
		}
	})
}
