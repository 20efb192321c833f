// Package sponsor provides pure functions for sponsorship eligibility
// and usage accounting. All functions are deterministic with no side effects.
package sponsor

import "time"

// UsageRecord tracks granted sponsorships for a single user address.
type UsageRecord struct {
	UserID              string
	LastReset           time.Time
	DailyCount          int
	MonthlyCount        int
	TotalValueSponsored float64 // accumulated estimated cost in USD, never decreases
}

// Normalize returns the record with calendar resets applied as of now.
// Daily and monthly counters reset when the calendar day or month has
// changed since LastReset, by date component comparison rather than
// elapsed duration. This is a PURE function; LastReset is left untouched
// so repeated calls are idempotent within the same day.
func Normalize(rec UsageRecord, now time.Time) UsageRecord {
	ly, lm, ld := rec.LastReset.Date()
	ny, nm, nd := now.Date()

	if ly != ny || lm != nm {
		// New calendar month implies a new calendar day as well.
		rec.MonthlyCount = 0
		rec.DailyCount = 0
		return rec
	}

	if ld != nd {
		rec.DailyCount = 0
	}

	return rec
}

// Apply records one granted sponsorship on a usage record.
// A missing record (exists=false) is seeded fresh for userID.
// This is a PURE function - callers persist the returned record.
func Apply(rec UsageRecord, exists bool, cfg Config, userID string, now time.Time) UsageRecord {
	if !exists {
		rec = UsageRecord{UserID: userID, LastReset: now}
	} else {
		rec = Normalize(rec, now)
	}

	rec.DailyCount++
	rec.MonthlyCount++
	rec.TotalValueSponsored += cfg.CostPerOperation
	rec.LastReset = now

	return rec
}
