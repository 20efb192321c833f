// Package app provides application services that orchestrate domain logic.
package app

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/pearlfi/sponsorgate/adapters/metrics"
	"github.com/pearlfi/sponsorgate/domain/sponsor"
	"github.com/pearlfi/sponsorgate/ports"
)

// SponsorService tracks per-user sponsorship usage and orchestrates
// gas sponsorship through the configured provider.
type SponsorService struct {
	store    ports.UsageStore
	provider ports.SponsorshipProvider
	clock    ports.Clock
	idGen    ports.IDGenerator
	logger   zerolog.Logger
	metrics  *metrics.Collector

	// Dynamic limits (hot-reloadable)
	limits atomic.Pointer[sponsor.Config]
}

// SponsorDeps contains dependencies for SponsorService.
type SponsorDeps struct {
	Store    ports.UsageStore
	Provider ports.SponsorshipProvider
	Clock    ports.Clock
	IDGen    ports.IDGenerator
	Logger   zerolog.Logger
	Metrics  *metrics.Collector
}

// NewSponsorService creates a new sponsor service with the given limits.
func NewSponsorService(deps SponsorDeps, limits sponsor.Config) *SponsorService {
	s := &SponsorService{
		store:    deps.Store,
		provider: deps.Provider,
		clock:    deps.Clock,
		idGen:    deps.IDGen,
		logger:   deps.Logger,
		metrics:  deps.Metrics,
	}
	s.UpdateLimits(limits)
	return s
}

// UpdateLimits updates the hot-reloadable sponsorship limits.
// This is thread-safe and can be called while handling requests.
func (s *SponsorService) UpdateLimits(limits sponsor.Config) {
	s.limits.Store(&limits)
}

// Limits returns the current sponsorship limits.
func (s *SponsorService) Limits() sponsor.Config {
	return *s.limits.Load()
}

// CheckEligibility reports whether the user may have another position
// sponsored right now. It never modifies stored usage.
func (s *SponsorService) CheckEligibility(ctx context.Context, userID string, declaredValue float64) (sponsor.CheckResult, error) {
	rec, exists, err := s.store.Get(ctx, userID)
	if err != nil {
		return sponsor.CheckResult{}, fmt.Errorf("load usage: %w", err)
	}

	result := sponsor.Check(rec, exists, s.Limits(), declaredValue, s.clock.Now())
	if !result.Eligible && s.metrics != nil {
		s.metrics.EligibilityDenials.WithLabelValues(denialLabel(result.Reason)).Inc()
	}
	return result, nil
}

// RecordUsage counts one sponsored position against the user's limits.
// Call it only after the provider accepted the sponsorship.
func (s *SponsorService) RecordUsage(ctx context.Context, userID string) error {
	now := s.clock.Now()

	rec, exists, err := s.store.Get(ctx, userID)
	if err != nil {
		return fmt.Errorf("load usage: %w", err)
	}

	limits := s.Limits()
	updated := sponsor.Apply(rec, exists, limits, userID, now)
	if err := s.store.Put(ctx, updated); err != nil {
		return fmt.Errorf("store usage: %w", err)
	}

	if s.metrics != nil {
		s.metrics.SponsoredCostUSD.Add(limits.CostPerOperation)
	}

	s.logger.Debug().
		Str("user", userID).
		Int("daily", updated.DailyCount).
		Int("monthly", updated.MonthlyCount).
		Float64("total_value", updated.TotalValueSponsored).
		Msg("usage recorded")

	return nil
}

// RemainingLimits returns how much sponsorship headroom the user has left.
func (s *SponsorService) RemainingLimits(ctx context.Context, userID string) (sponsor.Limits, error) {
	rec, exists, err := s.store.Get(ctx, userID)
	if err != nil {
		return sponsor.Limits{}, fmt.Errorf("load usage: %w", err)
	}
	return sponsor.Remaining(rec, exists, s.Limits(), s.clock.Now()), nil
}

// AggregateStats returns usage statistics across all tracked users.
func (s *SponsorService) AggregateStats(ctx context.Context) (sponsor.Stats, error) {
	records, err := s.store.All(ctx)
	if err != nil {
		return sponsor.Stats{}, fmt.Errorf("load usage records: %w", err)
	}
	return sponsor.AggregateStats(records), nil
}

// SponsorOutcome is the result of a sponsorship attempt.
type SponsorOutcome struct {
	// Denied is set when the user is over a limit. The provider was
	// not contacted and nothing was recorded.
	Denied *sponsor.CheckResult

	// Result holds the provider response when sponsorship succeeded.
	Result ports.SponsorResult

	// AttemptID identifies this attempt in logs.
	AttemptID string

	// Remaining reflects the user's headroom after recording usage.
	Remaining sponsor.Limits
}

// Sponsor runs the full sponsorship flow for one transaction:
// eligibility check, provider call, then usage recording.
//
// Usage is recorded only after the provider succeeds. A recording
// failure after a successful sponsorship is logged but not returned;
// the user already has a sponsored transaction in hand.
func (s *SponsorService) Sponsor(ctx context.Context, userID, transactionKindBytes string, declaredValue float64, operationTag string) (SponsorOutcome, error) {
	check, err := s.CheckEligibility(ctx, userID, declaredValue)
	if err != nil {
		return SponsorOutcome{}, err
	}
	if !check.Eligible {
		s.logger.Info().
			Str("user", userID).
			Str("reason", check.Reason).
			Msg("sponsorship denied")
		return SponsorOutcome{Denied: &check}, nil
	}

	attemptID := s.idGen.New()
	req := ports.SponsorRequest{
		AttemptID:            attemptID,
		Sender:               userID,
		TransactionKindBytes: transactionKindBytes,
		EstimatedValueUSD:    declaredValue,
		OperationTag:         operationTag,
	}

	start := s.clock.Now()
	result, err := s.provider.SponsorTransaction(ctx, req)
	if s.metrics != nil {
		s.metrics.ProviderDuration.WithLabelValues(s.provider.Name()).
			Observe(s.clock.Now().Sub(start).Seconds())
	}
	if err != nil {
		if s.metrics != nil {
			s.metrics.ProviderErrors.WithLabelValues(s.provider.Name()).Inc()
		}
		s.logger.Error().
			Err(err).
			Str("user", userID).
			Str("attempt", attemptID).
			Msg("provider sponsorship failed")
		return SponsorOutcome{}, fmt.Errorf("sponsor transaction: %w", err)
	}

	if s.metrics != nil {
		tag := operationTag
		if tag == "" {
			tag = "unknown"
		}
		s.metrics.SponsorshipsTotal.WithLabelValues(s.provider.Name(), tag).Inc()
	}

	if err := s.RecordUsage(ctx, userID); err != nil {
		// The transaction is already sponsored; losing one usage tick
		// is preferable to failing the request.
		s.logger.Error().
			Err(err).
			Str("user", userID).
			Str("attempt", attemptID).
			Msg("usage recording failed after successful sponsorship")
	}

	remaining, err := s.RemainingLimits(ctx, userID)
	if err != nil {
		s.logger.Warn().Err(err).Str("user", userID).Msg("remaining limits unavailable")
		remaining = sponsor.Limits{}
	}

	s.logger.Info().
		Str("user", userID).
		Str("attempt", attemptID).
		Str("digest", result.Digest).
		Str("provider", s.provider.Name()).
		Msg("transaction sponsored")

	return SponsorOutcome{
		Result:    result,
		AttemptID: attemptID,
		Remaining: remaining,
	}, nil
}

// denialLabel maps a denial reason to a low-cardinality metric label.
func denialLabel(reason string) string {
	switch reason {
	case sponsor.ReasonDailyLimit:
		return "daily_limit"
	case sponsor.ReasonMonthlyLimit:
		return "monthly_limit"
	default:
		return "other"
	}
}
