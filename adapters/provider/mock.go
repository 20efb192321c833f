package provider

import (
	"context"
	"fmt"
	"sync"

	"github.com/pearlfi/sponsorgate/ports"
)

// MockProvider is a test double that records sponsorship calls.
type MockProvider struct {
	mu       sync.Mutex
	requests []ports.SponsorRequest

	// FailWith, when set, is returned by SponsorTransaction.
	FailWith error
	// HealthErr, when set, is returned by HealthCheck.
	HealthErr error
}

// NewMockProvider creates a new mock sponsorship provider.
func NewMockProvider() *MockProvider {
	return &MockProvider{}
}

// Name returns the provider name.
func (p *MockProvider) Name() string {
	return "mock"
}

// SponsorTransaction records the request and returns a deterministic result.
func (p *MockProvider) SponsorTransaction(ctx context.Context, req ports.SponsorRequest) (ports.SponsorResult, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.FailWith != nil {
		return ports.SponsorResult{}, p.FailWith
	}

	p.requests = append(p.requests, req)
	return ports.SponsorResult{
		Digest:         fmt.Sprintf("mock-digest-%d", len(p.requests)),
		Bytes:          "bW9ja3Nwb25zb3JlZHR4",
		SponsorAddress: "0xab12000000000000000000000000000000000000000000000000000000000000",
	}, nil
}

// HealthCheck returns the configured health error, if any.
func (p *MockProvider) HealthCheck(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.HealthErr
}

// Requests returns a copy of all recorded requests.
func (p *MockProvider) Requests() []ports.SponsorRequest {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]ports.SponsorRequest{}, p.requests...)
}

// CallCount returns how many sponsorships were granted.
func (p *MockProvider) CallCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.requests)
}

// Reset clears recorded requests and configured failures.
func (p *MockProvider) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.requests = nil
	p.FailWith = nil
	p.HealthErr = nil
}

// Ensure interface compliance.
var _ ports.SponsorshipProvider = (*MockProvider)(nil)
