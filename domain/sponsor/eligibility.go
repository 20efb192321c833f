package sponsor

import (
	"math"
	"time"
)

// Denial reasons surfaced to callers. These strings are part of the API
// contract and must not change without versioning.
const (
	ReasonDailyLimit   = "Daily sponsorship limit reached"
	ReasonMonthlyLimit = "Monthly sponsorship limit reached"
)

// highValueThresholdUSD marks positions that are always sponsored
// regardless of declared value. The branch is only reached after the limit
// checks pass, so it decides nothing the fallthrough would not; callers
// may rely on declared value never changing the outcome.
const highValueThresholdUSD = 100

// Config holds eligibility limits and accounting settings (value type).
type Config struct {
	DailyPositions   int     // max sponsored positions per calendar day
	MonthlyPositions int     // max sponsored positions per calendar month
	TotalValueUSD    float64 // advertised total sponsorship value cap
	CostPerOperation float64 // fixed estimated cost added per sponsorship
}

// DefaultConfig returns the limits used when none are configured.
func DefaultConfig() Config {
	return Config{
		DailyPositions:   3,
		MonthlyPositions: 10,
		TotalValueUSD:    50,
		CostPerOperation: 0.08,
	}
}

// Limits is the static limits payload included with eligibility decisions
// and status responses.
type Limits struct {
	DailyPositions           int     `json:"dailyPositions"`
	MonthlyPositions         int     `json:"monthlyPositions"`
	TotalSponsorshipValueUSD float64 `json:"totalSponsorshipValueUSD"`
}

// Limits returns the configured limits as an API payload.
func (c Config) Limits() Limits {
	return Limits{
		DailyPositions:           c.DailyPositions,
		MonthlyPositions:         c.MonthlyPositions,
		TotalSponsorshipValueUSD: c.TotalValueUSD,
	}
}

// CheckResult represents the outcome of an eligibility check (value type).
type CheckResult struct {
	Eligible bool
	Reason   string
	Limits   *Limits // populated when not eligible
}

// Check decides whether a new sponsorship may be granted.
// A user with no record (exists=false) is eligible with full limits.
// This is a PURE function - no side effects; counter resets are applied
// as a read-only view, never persisted here.
func Check(rec UsageRecord, exists bool, cfg Config, declaredValue float64, now time.Time) CheckResult {
	if !exists {
		return CheckResult{Eligible: true}
	}

	rec = Normalize(rec, now)

	if rec.DailyCount >= cfg.DailyPositions {
		limits := cfg.Limits()
		return CheckResult{Eligible: false, Reason: ReasonDailyLimit, Limits: &limits}
	}

	if rec.MonthlyCount >= cfg.MonthlyPositions {
		limits := cfg.Limits()
		return CheckResult{Eligible: false, Reason: ReasonMonthlyLimit, Limits: &limits}
	}

	// High-value override. Unreachable as a distinct outcome: the limit
	// checks above already short-circuit.
	if declaredValue > highValueThresholdUSD {
		return CheckResult{Eligible: true}
	}

	return CheckResult{Eligible: true}
}

// Remaining computes the headroom left under each limit.
// Counts never push remaining values below zero.
// This is a PURE function.
func Remaining(rec UsageRecord, exists bool, cfg Config, now time.Time) Limits {
	if !exists {
		return cfg.Limits()
	}

	rec = Normalize(rec, now)

	return Limits{
		DailyPositions:           max(0, cfg.DailyPositions-rec.DailyCount),
		MonthlyPositions:         max(0, cfg.MonthlyPositions-rec.MonthlyCount),
		TotalSponsorshipValueUSD: math.Max(0, cfg.TotalValueUSD-rec.TotalValueSponsored),
	}
}
