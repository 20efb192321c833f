package bootstrap

import (
	"testing"
	"time"

	"github.com/pearlfi/sponsorgate/config"
)

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Host:         "127.0.0.1",
			Port:         18080,
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 5 * time.Second,
		},
		Provider: config.ProviderConfig{
			Mode:    "mock",
			Network: "testnet",
		},
		Fullnode: config.FullnodeConfig{
			URL:     "https://fullnode.testnet.sui.io:443",
			Timeout: 5 * time.Second,
		},
		Sponsorship: config.SponsorshipConfig{
			DailyPositions:   3,
			MonthlyPositions: 10,
			TotalValueUSD:    50,
			CostPerOperation: 0.08,
		},
		Logging: config.LoggingConfig{Level: "error", Format: "json"},
	}
}

func TestNew_WiresApplication(t *testing.T) {
	app, err := New(testConfig())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	if app.HTTPServer == nil {
		t.Fatalf("expected HTTP server to be configured")
	}
	if app.HTTPServer.Addr != "127.0.0.1:18080" {
		t.Errorf("expected addr 127.0.0.1:18080, got %q", app.HTTPServer.Addr)
	}
	if app.Service() == nil {
		t.Errorf("expected sponsor service to be wired")
	}

	limits := app.Service().Limits()
	if limits.DailyPositions != 3 || limits.MonthlyPositions != 10 {
		t.Errorf("expected configured limits 3/10, got %+v", limits)
	}

	if err := app.Shutdown(); err != nil {
		t.Errorf("Shutdown failed: %v", err)
	}
}

func TestNew_RejectsBrokenProvider(t *testing.T) {
	cfg := testConfig()
	cfg.Provider.Mode = "enoki" // no API key

	if _, err := New(cfg); err == nil {
		t.Errorf("expected error for enoki mode without API key")
	}
}

func TestSponsorLimits_Conversion(t *testing.T) {
	limits := sponsorLimits(config.SponsorshipConfig{
		DailyPositions:   5,
		MonthlyPositions: 15,
		TotalValueUSD:    75,
		CostPerOperation: 0.1,
	})

	if limits.DailyPositions != 5 || limits.MonthlyPositions != 15 {
		t.Errorf("position limits not converted: %+v", limits)
	}
	if limits.TotalValueUSD != 75 || limits.CostPerOperation != 0.1 {
		t.Errorf("value limits not converted: %+v", limits)
	}
}
