package provider

import (
	"context"
	"errors"

	"github.com/pearlfi/sponsorgate/ports"
)

// ErrSponsorshipDisabled is returned when no provider is configured.
var ErrSponsorshipDisabled = errors.New("sponsorship is not configured")

// NoopProvider is a no-op provider for when sponsorship is disabled.
// Eligibility and limits endpoints keep working; sponsor calls fail.
type NoopProvider struct{}

// NewNoopProvider creates a new no-op sponsorship provider.
func NewNoopProvider() *NoopProvider {
	return &NoopProvider{}
}

// Name returns the provider name.
func (p *NoopProvider) Name() string {
	return "none"
}

// SponsorTransaction returns an error as sponsorship is disabled.
func (p *NoopProvider) SponsorTransaction(ctx context.Context, req ports.SponsorRequest) (ports.SponsorResult, error) {
	return ports.SponsorResult{}, ErrSponsorshipDisabled
}

// HealthCheck always succeeds; there is nothing to reach.
func (p *NoopProvider) HealthCheck(ctx context.Context) error {
	return nil
}

// Ensure interface compliance.
var _ ports.SponsorshipProvider = (*NoopProvider)(nil)
