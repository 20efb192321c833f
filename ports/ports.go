// Package ports defines interfaces (contracts) between layers.
// These interfaces enable dependency injection and testability.
// Implementations live in adapters/.
package ports

import (
	"context"
	"time"

	"github.com/pearlfi/sponsorgate/domain/sponsor"
)

// -----------------------------------------------------------------------------
// Infrastructure Ports
// -----------------------------------------------------------------------------

// Clock abstracts time for testability.
type Clock interface {
	Now() time.Time
}

// IDGenerator generates unique identifiers.
type IDGenerator interface {
	New() string
}

// -----------------------------------------------------------------------------
// Data Store Ports
// -----------------------------------------------------------------------------

// UsageStore holds per-user sponsorship usage records.
// The sponsorship service is the sole owner of the mapping; no other
// component mutates records. Implementations must be safe for concurrent
// use, but read-modify-write across Get/Put is not atomic - two in-flight
// requests for the same user may both pass an eligibility check before
// either records usage. That transient over-limit is a tolerated soft
// limit, not a hard guarantee.
type UsageStore interface {
	// Get retrieves the record for a user address.
	// The second return value reports whether a record exists.
	Get(ctx context.Context, userID string) (sponsor.UsageRecord, bool, error)

	// Put stores or replaces the record for rec.UserID.
	Put(ctx context.Context, rec sponsor.UsageRecord) error

	// All returns every stored record.
	All(ctx context.Context) ([]sponsor.UsageRecord, error)

	// Count returns the number of users with a record.
	Count(ctx context.Context) (int, error)
}

// -----------------------------------------------------------------------------
// External Service Ports
// -----------------------------------------------------------------------------

// SponsorRequest describes one transaction to sponsor.
type SponsorRequest struct {
	AttemptID            string  // unique per attempt, for logs and tracing
	Sender               string  // user's Sui address
	TransactionKindBytes string  // base64-encoded transaction block kind
	EstimatedValueUSD    float64 // caller-declared value, observability only
	OperationTag         string  // e.g. "position_creation"
}

// SponsorResult is the provider's answer for a sponsored transaction.
type SponsorResult struct {
	Digest         string // transaction digest assigned by the provider
	Bytes          string // base64-encoded sponsored transaction bytes
	SponsorAddress string // gas owner address, if reported
}

// SponsorshipProvider interfaces with an external gas sponsorship service
// (Enoki or a compatible paymaster API).
type SponsorshipProvider interface {
	// Name returns the provider name (e.g. "enoki").
	Name() string

	// SponsorTransaction asks the provider to attach sponsored gas to the
	// given transaction. The service's usage counters are only updated
	// after this returns without error.
	SponsorTransaction(ctx context.Context, req SponsorRequest) (SponsorResult, error)

	// HealthCheck verifies the provider is reachable.
	HealthCheck(ctx context.Context) error
}

// ChainClient talks to a ledger fullnode. Used for readiness only; this
// service never decodes or verifies transaction content.
type ChainClient interface {
	// ChainIdentifier returns the identifier of the connected network.
	ChainIdentifier(ctx context.Context) (string, error)

	// HealthCheck verifies the fullnode is reachable.
	HealthCheck(ctx context.Context) error
}
