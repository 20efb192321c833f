package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/pearlfi/sponsorgate/adapters/clock"
	"github.com/pearlfi/sponsorgate/adapters/idgen"
	"github.com/pearlfi/sponsorgate/adapters/memory"
	"github.com/pearlfi/sponsorgate/adapters/metrics"
	"github.com/pearlfi/sponsorgate/adapters/provider"
	"github.com/pearlfi/sponsorgate/domain/sponsor"
)

const (
	userA = "0xa11ce00000000000000000000000000000000000000000000000000000000001"
	userB = "0xb0b0000000000000000000000000000000000000000000000000000000000002"

	txKind = "dHJhbnNhY3Rpb24ga2luZA=="
)

type fixture struct {
	service  *SponsorService
	store    *memory.UsageStore
	provider *provider.MockProvider
	clock    *clock.Fake
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := memory.NewUsageStore()
	mock := provider.NewMockProvider()
	fake := clock.NewFake(time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC))

	service := NewSponsorService(SponsorDeps{
		Store:    store,
		Provider: mock,
		Clock:    fake,
		IDGen:    idgen.NewSequential("attempt-"),
		Logger:   zerolog.Nop(),
		Metrics:  metrics.NewWithRegistry(prometheus.NewRegistry()),
	}, sponsor.DefaultConfig())

	return &fixture{service: service, store: store, provider: mock, clock: fake}
}

func (f *fixture) sponsorOK(t *testing.T, user string) SponsorOutcome {
	t.Helper()

	outcome, err := f.service.Sponsor(context.Background(), user, txKind, 0, "position_creation")
	if err != nil {
		t.Fatalf("Sponsor failed: %v", err)
	}
	if outcome.Denied != nil {
		t.Fatalf("unexpected denial: %s", outcome.Denied.Reason)
	}
	return outcome
}

// -----------------------------------------------------------------------------
// Sponsor flow tests
// -----------------------------------------------------------------------------

func TestSponsor_GrantsAndRecords(t *testing.T) {
	f := newFixture(t)

	outcome := f.sponsorOK(t, userA)

	if outcome.Result.Digest == "" {
		t.Errorf("expected a digest from the provider")
	}
	if outcome.AttemptID != "attempt-1" {
		t.Errorf("expected attempt-1, got %q", outcome.AttemptID)
	}
	if outcome.Remaining.DailyPositions != 2 {
		t.Errorf("expected 2 daily positions remaining, got %d", outcome.Remaining.DailyPositions)
	}

	rec, ok, _ := f.store.Get(context.Background(), userA)
	if !ok {
		t.Fatalf("expected a usage record after sponsorship")
	}
	if rec.DailyCount != 1 || rec.MonthlyCount != 1 {
		t.Errorf("expected counters at 1, got daily=%d monthly=%d", rec.DailyCount, rec.MonthlyCount)
	}
}

func TestSponsor_DailyLimitDenies(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		f.sponsorOK(t, userA)
	}

	outcome, err := f.service.Sponsor(ctx, userA, txKind, 0, "position_creation")
	if err != nil {
		t.Fatalf("Sponsor failed: %v", err)
	}
	if outcome.Denied == nil {
		t.Fatalf("expected denial on the fourth same-day sponsorship")
	}
	if outcome.Denied.Reason != sponsor.ReasonDailyLimit {
		t.Errorf("expected %q, got %q", sponsor.ReasonDailyLimit, outcome.Denied.Reason)
	}
	if f.provider.CallCount() != 3 {
		t.Errorf("denied request must not reach the provider, got %d calls", f.provider.CallCount())
	}
}

func TestSponsor_MonthlyLimitDenies(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// Ten sponsorships spread across days within one month.
	for i := 0; i < 10; i++ {
		f.sponsorOK(t, userA)
		if (i+1)%2 == 0 {
			f.clock.NextDay()
		}
	}

	outcome, err := f.service.Sponsor(ctx, userA, txKind, 0, "position_creation")
	if err != nil {
		t.Fatalf("Sponsor failed: %v", err)
	}
	if outcome.Denied == nil {
		t.Fatalf("expected denial on the eleventh sponsorship this month")
	}
	if outcome.Denied.Reason != sponsor.ReasonMonthlyLimit {
		t.Errorf("expected %q, got %q", sponsor.ReasonMonthlyLimit, outcome.Denied.Reason)
	}
}

func TestSponsor_DayBoundaryRestoresDailyAllowance(t *testing.T) {
	f := newFixture(t)

	for i := 0; i < 3; i++ {
		f.sponsorOK(t, userA)
	}
	f.clock.NextDay()

	outcome := f.sponsorOK(t, userA)

	if outcome.Remaining.DailyPositions != 2 {
		t.Errorf("expected 2 daily positions after day reset and one use, got %d",
			outcome.Remaining.DailyPositions)
	}
	if outcome.Remaining.MonthlyPositions != 6 {
		t.Errorf("expected monthly count to carry over (10-4=6), got %d",
			outcome.Remaining.MonthlyPositions)
	}
}

func TestSponsor_MonthBoundaryRestoresEverything(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		f.sponsorOK(t, userA)
		f.clock.NextDay()
	}
	// At the monthly limit somewhere mid-April by now; jump a full month.
	f.clock.NextMonth()

	outcome, err := f.service.Sponsor(ctx, userA, txKind, 0, "position_creation")
	if err != nil {
		t.Fatalf("Sponsor failed: %v", err)
	}
	if outcome.Denied != nil {
		t.Errorf("expected eligibility after month change, got denial %q", outcome.Denied.Reason)
	}
}

func TestSponsor_ProviderFailureDoesNotRecord(t *testing.T) {
	f := newFixture(t)
	f.provider.FailWith = errors.New("enoki unavailable")

	_, err := f.service.Sponsor(context.Background(), userA, txKind, 0, "position_creation")
	if err == nil {
		t.Fatalf("expected error when the provider fails")
	}

	if _, ok, _ := f.store.Get(context.Background(), userA); ok {
		t.Errorf("usage must not be recorded when the provider fails")
	}
}

func TestSponsor_HighDeclaredValueWithinLimits(t *testing.T) {
	f := newFixture(t)

	outcome, err := f.service.Sponsor(context.Background(), userA, txKind, 150, "position_creation")
	if err != nil {
		t.Fatalf("Sponsor failed: %v", err)
	}
	if outcome.Denied != nil {
		t.Errorf("declared value above 100 must not cause denial, got %q", outcome.Denied.Reason)
	}
}

func TestSponsor_UsersAreIndependent(t *testing.T) {
	f := newFixture(t)

	for i := 0; i < 3; i++ {
		f.sponsorOK(t, userA)
	}

	outcome := f.sponsorOK(t, userB)
	if outcome.Remaining.DailyPositions != 2 {
		t.Errorf("user B should be unaffected by user A's usage, got %d remaining",
			outcome.Remaining.DailyPositions)
	}
}

// -----------------------------------------------------------------------------
// Query operation tests
// -----------------------------------------------------------------------------

func TestCheckEligibility_DoesNotModifyUsage(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.sponsorOK(t, userA)
	before, _, _ := f.store.Get(ctx, userA)

	for i := 0; i < 5; i++ {
		if _, err := f.service.CheckEligibility(ctx, userA, 0); err != nil {
			t.Fatalf("CheckEligibility failed: %v", err)
		}
	}

	after, _, _ := f.store.Get(ctx, userA)
	if before != after {
		t.Errorf("eligibility checks must not modify stored usage: before=%+v after=%+v", before, after)
	}
}

func TestRemainingLimits_NewUser(t *testing.T) {
	f := newFixture(t)

	remaining, err := f.service.RemainingLimits(context.Background(), userA)
	if err != nil {
		t.Fatalf("RemainingLimits failed: %v", err)
	}
	if remaining.DailyPositions != 3 || remaining.MonthlyPositions != 10 {
		t.Errorf("expected full limits for a new user, got %+v", remaining)
	}
}

func TestRemainingLimits_CountsDown(t *testing.T) {
	f := newFixture(t)

	f.sponsorOK(t, userA)
	f.sponsorOK(t, userA)

	remaining, _ := f.service.RemainingLimits(context.Background(), userA)
	if remaining.DailyPositions != 1 {
		t.Errorf("expected 1 daily position after 2 uses, got %d", remaining.DailyPositions)
	}
	if remaining.MonthlyPositions != 8 {
		t.Errorf("expected 8 monthly positions after 2 uses, got %d", remaining.MonthlyPositions)
	}
}

func TestAggregateStats(t *testing.T) {
	f := newFixture(t)

	f.sponsorOK(t, userA)
	f.sponsorOK(t, userA)
	f.sponsorOK(t, userB)

	stats, err := f.service.AggregateStats(context.Background())
	if err != nil {
		t.Fatalf("AggregateStats failed: %v", err)
	}
	if stats.TotalUsers != 2 {
		t.Errorf("expected 2 users, got %d", stats.TotalUsers)
	}
	if stats.TotalPositionsSponsored != 3 {
		t.Errorf("expected 3 positions sponsored, got %d", stats.TotalPositionsSponsored)
	}
}

func TestAggregateStats_Empty(t *testing.T) {
	f := newFixture(t)

	stats, err := f.service.AggregateStats(context.Background())
	if err != nil {
		t.Fatalf("AggregateStats failed: %v", err)
	}
	if stats.TotalUsers != 0 || stats.AveragePerUser != 0 {
		t.Errorf("expected zeroed stats with no users, got %+v", stats)
	}
}

// -----------------------------------------------------------------------------
// Hot reload tests
// -----------------------------------------------------------------------------

func TestUpdateLimits_TakesEffectImmediately(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.sponsorOK(t, userA)
	f.sponsorOK(t, userA)

	// Tighten the daily limit below current usage.
	limits := sponsor.DefaultConfig()
	limits.DailyPositions = 2
	f.service.UpdateLimits(limits)

	outcome, err := f.service.Sponsor(ctx, userA, txKind, 0, "position_creation")
	if err != nil {
		t.Fatalf("Sponsor failed: %v", err)
	}
	if outcome.Denied == nil {
		t.Fatalf("expected denial under the tightened limit")
	}
	if outcome.Denied.Limits.DailyPositions != 2 {
		t.Errorf("expected denial to report the new limit, got %d", outcome.Denied.Limits.DailyPositions)
	}
}
