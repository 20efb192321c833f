package provider

import (
	"fmt"

	"github.com/pearlfi/sponsorgate/config"
	"github.com/pearlfi/sponsorgate/ports"
)

// New creates a sponsorship provider from configuration.
func New(cfg config.ProviderConfig) (ports.SponsorshipProvider, error) {
	switch cfg.Mode {
	case "enoki":
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("enoki API key is required")
		}
		return NewEnokiProvider(EnokiConfig{
			APIKey:  cfg.APIKey,
			Network: cfg.Network,
			BaseURL: cfg.BaseURL,
			Timeout: cfg.Timeout,
		}), nil

	case "mock", "test":
		// Test double - grants every sponsorship without an external call.
		return NewMockProvider(), nil

	case "none", "":
		return NewNoopProvider(), nil

	default:
		return nil, fmt.Errorf("unknown sponsorship provider: %s", cfg.Mode)
	}
}
