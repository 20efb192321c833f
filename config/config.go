// Package config provides configuration loading and validation.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure.
type Config struct {
	Server      ServerConfig      `yaml:"server"`
	Provider    ProviderConfig    `yaml:"provider"`
	Fullnode    FullnodeConfig    `yaml:"fullnode"`
	Sponsorship SponsorshipConfig `yaml:"sponsorship"`
	Logging     LoggingConfig     `yaml:"logging"`
	Metrics     MetricsConfig     `yaml:"metrics"`
	OpenAPI     OpenAPIConfig     `yaml:"openapi"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Host         string        `yaml:"host"`
	Port         int           `yaml:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// ProviderConfig configures the sponsorship provider.
// Use "enoki" for the Mysten Enoki API or "none" to disable sponsoring.
type ProviderConfig struct {
	Mode    string        `yaml:"mode"` // "enoki", "none" or "mock"
	APIKey  string        `yaml:"api_key,omitempty"`
	Network string        `yaml:"network"` // "mainnet", "testnet", "devnet"
	BaseURL string        `yaml:"base_url,omitempty"`
	Timeout time.Duration `yaml:"timeout"`
}

// FullnodeConfig configures the Sui fullnode used for readiness checks.
type FullnodeConfig struct {
	URL     string        `yaml:"url"`
	Timeout time.Duration `yaml:"timeout"`
}

// SponsorshipConfig configures per-user sponsorship limits.
type SponsorshipConfig struct {
	DailyPositions   int     `yaml:"daily_positions"`
	MonthlyPositions int     `yaml:"monthly_positions"`
	TotalValueUSD    float64 `yaml:"total_value_usd"`
	CostPerOperation float64 `yaml:"cost_per_operation"`
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `yaml:"format"` // "json" or "console"
}

// MetricsConfig configures Prometheus metrics.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"` // Enable /metrics endpoint
	Path    string `yaml:"path"`    // Custom path (default: /metrics)
}

// OpenAPIConfig configures OpenAPI/Swagger documentation.
type OpenAPIConfig struct {
	Enabled bool `yaml:"enabled"` // Enable OpenAPI endpoints
}

// Load reads configuration from a YAML file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	// Expand environment variables
	data = []byte(os.ExpandEnv(string(data)))

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	// Environment variables always override file values
	applyEnvOverrides(&cfg)

	setDefaults(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}

// LoadFromEnv creates configuration entirely from environment variables.
// This is useful for Docker deployments where no config file is needed.
//
// Environment variables:
//
//	SPONSORGATE_PROVIDER_MODE     - Provider mode: enoki or none
//	SPONSORGATE_PROVIDER_API_KEY  - Enoki private API key
//	SPONSORGATE_PROVIDER_NETWORK  - Network: mainnet, testnet, devnet (default: testnet)
//	SPONSORGATE_FULLNODE_URL      - Sui fullnode RPC URL
//	SPONSORGATE_SERVER_HOST       - Server host (default: 0.0.0.0)
//	SPONSORGATE_SERVER_PORT       - Server port (default: 8080)
//	SPONSORGATE_LOG_LEVEL         - Log level: debug, info, warn, error (default: info)
//	SPONSORGATE_LOG_FORMAT        - Log format: json or console (default: json)
//	SPONSORGATE_METRICS_ENABLED   - Enable /metrics endpoint (default: true)
//	SPONSORGATE_OPENAPI_ENABLED   - Enable OpenAPI/Swagger (default: true)
func LoadFromEnv() (*Config, error) {
	var cfg Config

	applyEnvOverrides(&cfg)
	setDefaults(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}

// LoadWithFallback tries to load from file, falls back to environment variables.
func LoadWithFallback(path string) (*Config, error) {
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			return Load(path)
		}
	}

	if HasEnvConfig() {
		return LoadFromEnv()
	}

	return nil, fmt.Errorf("no configuration found: provide config file or set SPONSORGATE_PROVIDER_MODE")
}

// HasEnvConfig returns true if essential environment variables are set.
func HasEnvConfig() bool {
	return os.Getenv("SPONSORGATE_PROVIDER_MODE") != ""
}

// applyEnvOverrides applies SPONSORGATE_* environment variables to the config.
func applyEnvOverrides(cfg *Config) {
	// Server configuration
	if v := os.Getenv("SPONSORGATE_SERVER_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv("SPONSORGATE_SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("SPONSORGATE_SERVER_READ_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Server.ReadTimeout = d
		}
	}
	if v := os.Getenv("SPONSORGATE_SERVER_WRITE_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Server.WriteTimeout = d
		}
	}

	// Provider configuration
	if v := os.Getenv("SPONSORGATE_PROVIDER_MODE"); v != "" {
		cfg.Provider.Mode = v
	}
	if v := os.Getenv("SPONSORGATE_PROVIDER_API_KEY"); v != "" {
		cfg.Provider.APIKey = v
	}
	if v := os.Getenv("SPONSORGATE_PROVIDER_NETWORK"); v != "" {
		cfg.Provider.Network = v
	}
	if v := os.Getenv("SPONSORGATE_PROVIDER_BASE_URL"); v != "" {
		cfg.Provider.BaseURL = v
	}
	if v := os.Getenv("SPONSORGATE_PROVIDER_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Provider.Timeout = d
		}
	}

	// Fullnode configuration
	if v := os.Getenv("SPONSORGATE_FULLNODE_URL"); v != "" {
		cfg.Fullnode.URL = v
	}
	if v := os.Getenv("SPONSORGATE_FULLNODE_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Fullnode.Timeout = d
		}
	}

	// Sponsorship limits
	if v := os.Getenv("SPONSORGATE_SPONSORSHIP_DAILY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Sponsorship.DailyPositions = n
		}
	}
	if v := os.Getenv("SPONSORGATE_SPONSORSHIP_MONTHLY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Sponsorship.MonthlyPositions = n
		}
	}
	if v := os.Getenv("SPONSORGATE_SPONSORSHIP_TOTAL_VALUE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Sponsorship.TotalValueUSD = f
		}
	}
	if v := os.Getenv("SPONSORGATE_SPONSORSHIP_COST_PER_OP"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Sponsorship.CostPerOperation = f
		}
	}

	// Logging configuration
	if v := os.Getenv("SPONSORGATE_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("SPONSORGATE_LOG_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}

	// Metrics configuration
	if v := os.Getenv("SPONSORGATE_METRICS_ENABLED"); v != "" {
		cfg.Metrics.Enabled = parseBool(v)
	}
	if v := os.Getenv("SPONSORGATE_METRICS_PATH"); v != "" {
		cfg.Metrics.Path = v
	}

	// OpenAPI configuration
	if v := os.Getenv("SPONSORGATE_OPENAPI_ENABLED"); v != "" {
		cfg.OpenAPI.Enabled = parseBool(v)
	}
}

// parseBool parses a boolean from common string values.
func parseBool(v string) bool {
	v = strings.ToLower(strings.TrimSpace(v))
	return v == "true" || v == "1" || v == "yes" || v == "on"
}

func setDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "0.0.0.0"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 30 * time.Second
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 60 * time.Second
	}

	if cfg.Provider.Mode == "" {
		cfg.Provider.Mode = "none"
	}
	if cfg.Provider.Network == "" {
		cfg.Provider.Network = "testnet"
	}
	if cfg.Provider.Timeout == 0 {
		cfg.Provider.Timeout = 30 * time.Second
	}

	if cfg.Fullnode.URL == "" {
		cfg.Fullnode.URL = fullnodeURLFor(cfg.Provider.Network)
	}
	if cfg.Fullnode.Timeout == 0 {
		cfg.Fullnode.Timeout = 10 * time.Second
	}

	if cfg.Sponsorship.DailyPositions == 0 {
		cfg.Sponsorship.DailyPositions = 3
	}
	if cfg.Sponsorship.MonthlyPositions == 0 {
		cfg.Sponsorship.MonthlyPositions = 10
	}
	if cfg.Sponsorship.TotalValueUSD == 0 {
		cfg.Sponsorship.TotalValueUSD = 50
	}
	if cfg.Sponsorship.CostPerOperation == 0 {
		cfg.Sponsorship.CostPerOperation = 0.08
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
}

// fullnodeURLFor returns the public fullnode endpoint for a network.
func fullnodeURLFor(network string) string {
	switch network {
	case "mainnet":
		return "https://fullnode.mainnet.sui.io:443"
	case "devnet":
		return "https://fullnode.devnet.sui.io:443"
	default:
		return "https://fullnode.testnet.sui.io:443"
	}
}

func validate(cfg *Config) error {
	validProviderModes := map[string]bool{"enoki": true, "none": true, "mock": true}
	if !validProviderModes[cfg.Provider.Mode] {
		return fmt.Errorf("provider.mode must be 'enoki', 'none' or 'mock', got %q", cfg.Provider.Mode)
	}
	if cfg.Provider.Mode == "enoki" && cfg.Provider.APIKey == "" {
		return fmt.Errorf("provider.api_key is required when provider.mode is 'enoki'")
	}

	validNetworks := map[string]bool{"mainnet": true, "testnet": true, "devnet": true}
	if !validNetworks[cfg.Provider.Network] {
		return fmt.Errorf("provider.network must be 'mainnet', 'testnet' or 'devnet', got %q", cfg.Provider.Network)
	}

	if cfg.Fullnode.URL == "" {
		return fmt.Errorf("fullnode.url is required")
	}

	if cfg.Sponsorship.DailyPositions < 0 {
		return fmt.Errorf("sponsorship.daily_positions must not be negative")
	}
	if cfg.Sponsorship.MonthlyPositions < 0 {
		return fmt.Errorf("sponsorship.monthly_positions must not be negative")
	}
	if cfg.Sponsorship.TotalValueUSD < 0 {
		return fmt.Errorf("sponsorship.total_value_usd must not be negative")
	}
	if cfg.Sponsorship.CostPerOperation < 0 {
		return fmt.Errorf("sponsorship.cost_per_operation must not be negative")
	}

	return nil
}
