package sponsor

import (
	"math"
	"testing"
	"time"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

// -----------------------------------------------------------------------------
// Normalize function tests
// -----------------------------------------------------------------------------

func TestNormalize_SameDayNoReset(t *testing.T) {
	rec := UsageRecord{
		UserID:       "0xabc",
		LastReset:    time.Date(2025, time.March, 10, 8, 0, 0, 0, time.UTC),
		DailyCount:   2,
		MonthlyCount: 5,
	}

	later := time.Date(2025, time.March, 10, 23, 59, 0, 0, time.UTC)
	got := Normalize(rec, later)

	if got.DailyCount != 2 || got.MonthlyCount != 5 {
		t.Errorf("expected counters unchanged within the same day, got daily=%d monthly=%d",
			got.DailyCount, got.MonthlyCount)
	}
}

func TestNormalize_NewDayResetsDaily(t *testing.T) {
	rec := UsageRecord{
		UserID:       "0xabc",
		LastReset:    time.Date(2025, time.March, 10, 23, 0, 0, 0, time.UTC),
		DailyCount:   3,
		MonthlyCount: 5,
	}

	// One hour later, but a new calendar day.
	nextDay := time.Date(2025, time.March, 11, 0, 0, 0, 0, time.UTC)
	got := Normalize(rec, nextDay)

	if got.DailyCount != 0 {
		t.Errorf("expected DailyCount=0 on a new calendar day, got %d", got.DailyCount)
	}
	if got.MonthlyCount != 5 {
		t.Errorf("expected MonthlyCount preserved across a day change, got %d", got.MonthlyCount)
	}
}

func TestNormalize_NewMonthResetsBoth(t *testing.T) {
	rec := UsageRecord{
		UserID:       "0xabc",
		LastReset:    time.Date(2025, time.March, 31, 12, 0, 0, 0, time.UTC),
		DailyCount:   3,
		MonthlyCount: 9,
	}

	got := Normalize(rec, time.Date(2025, time.April, 1, 12, 0, 0, 0, time.UTC))

	if got.DailyCount != 0 {
		t.Errorf("expected DailyCount=0 on a new month, got %d", got.DailyCount)
	}
	if got.MonthlyCount != 0 {
		t.Errorf("expected MonthlyCount=0 on a new month, got %d", got.MonthlyCount)
	}
}

func TestNormalize_NewYearSameMonthNumber(t *testing.T) {
	// March 2025 vs March 2026 is a different month even though the month
	// number matches.
	rec := UsageRecord{
		UserID:       "0xabc",
		LastReset:    time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC),
		DailyCount:   1,
		MonthlyCount: 8,
	}

	got := Normalize(rec, time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC))

	if got.MonthlyCount != 0 || got.DailyCount != 0 {
		t.Errorf("expected full reset across a year boundary, got daily=%d monthly=%d",
			got.DailyCount, got.MonthlyCount)
	}
}

func TestNormalize_LeavesLastResetUntouched(t *testing.T) {
	reset := time.Date(2025, time.March, 10, 8, 0, 0, 0, time.UTC)
	rec := UsageRecord{UserID: "0xabc", LastReset: reset, DailyCount: 3}

	got := Normalize(rec, reset.AddDate(0, 0, 1))

	if !got.LastReset.Equal(reset) {
		t.Errorf("Normalize must not move LastReset: got %v", got.LastReset)
	}
}

func TestNormalize_PreservesTotalValue(t *testing.T) {
	rec := UsageRecord{
		UserID:              "0xabc",
		LastReset:           time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC),
		DailyCount:          3,
		MonthlyCount:        9,
		TotalValueSponsored: 0.72,
	}

	got := Normalize(rec, time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC))

	if got.TotalValueSponsored != 0.72 {
		t.Errorf("TotalValueSponsored must survive resets, got %v", got.TotalValueSponsored)
	}
}

// -----------------------------------------------------------------------------
// Apply function tests
// -----------------------------------------------------------------------------

func TestApply_SeedsNewRecord(t *testing.T) {
	cfg := DefaultConfig()
	now := time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)

	got := Apply(UsageRecord{}, false, cfg, "0xabc", now)

	if got.UserID != "0xabc" {
		t.Errorf("expected UserID=0xabc, got %q", got.UserID)
	}
	if got.DailyCount != 1 || got.MonthlyCount != 1 {
		t.Errorf("expected counters at 1 for a fresh record, got daily=%d monthly=%d",
			got.DailyCount, got.MonthlyCount)
	}
	if got.TotalValueSponsored != cfg.CostPerOperation {
		t.Errorf("expected TotalValueSponsored=%v, got %v", cfg.CostPerOperation, got.TotalValueSponsored)
	}
	if !got.LastReset.Equal(now) {
		t.Errorf("expected LastReset=now, got %v", got.LastReset)
	}
}

func TestApply_IncrementsExistingRecord(t *testing.T) {
	cfg := DefaultConfig()
	now := time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)
	rec := UsageRecord{
		UserID:              "0xabc",
		LastReset:           now.Add(-time.Hour),
		DailyCount:          1,
		MonthlyCount:        4,
		TotalValueSponsored: 0.32,
	}

	got := Apply(rec, true, cfg, "0xabc", now)

	if got.DailyCount != 2 {
		t.Errorf("expected DailyCount=2, got %d", got.DailyCount)
	}
	if got.MonthlyCount != 5 {
		t.Errorf("expected MonthlyCount=5, got %d", got.MonthlyCount)
	}
	if !almostEqual(got.TotalValueSponsored, 0.4) {
		t.Errorf("expected TotalValueSponsored=0.4, got %v", got.TotalValueSponsored)
	}
}

func TestApply_ResetsAcrossDayBoundary(t *testing.T) {
	cfg := DefaultConfig()
	rec := UsageRecord{
		UserID:       "0xabc",
		LastReset:    time.Date(2025, time.March, 10, 23, 0, 0, 0, time.UTC),
		DailyCount:   3,
		MonthlyCount: 6,
	}

	nextDay := time.Date(2025, time.March, 11, 1, 0, 0, 0, time.UTC)
	got := Apply(rec, true, cfg, "0xabc", nextDay)

	if got.DailyCount != 1 {
		t.Errorf("expected DailyCount=1 after a day-boundary reset, got %d", got.DailyCount)
	}
	if got.MonthlyCount != 7 {
		t.Errorf("expected MonthlyCount=7 (preserved plus one), got %d", got.MonthlyCount)
	}
	if !got.LastReset.Equal(nextDay) {
		t.Errorf("expected LastReset moved to now, got %v", got.LastReset)
	}
}

func TestApply_ResetsAcrossMonthBoundary(t *testing.T) {
	cfg := DefaultConfig()
	rec := UsageRecord{
		UserID:       "0xabc",
		LastReset:    time.Date(2025, time.March, 31, 12, 0, 0, 0, time.UTC),
		DailyCount:   3,
		MonthlyCount: 10,
	}

	got := Apply(rec, true, cfg, "0xabc", time.Date(2025, time.April, 1, 12, 0, 0, 0, time.UTC))

	if got.DailyCount != 1 || got.MonthlyCount != 1 {
		t.Errorf("expected both counters at 1 after a month-boundary reset, got daily=%d monthly=%d",
			got.DailyCount, got.MonthlyCount)
	}
}
