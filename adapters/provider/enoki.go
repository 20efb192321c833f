// Package provider contains sponsorship provider adapters.
package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/pearlfi/sponsorgate/ports"
)

// EnokiConfig holds Enoki configuration.
type EnokiConfig struct {
	APIKey  string        // private API key, sent as a bearer token
	Network string        // "mainnet", "testnet" or "devnet"
	BaseURL string        // override for testing; default is the public API
	Timeout time.Duration // per-request timeout; default 30s
}

// EnokiProvider implements ports.SponsorshipProvider against the Mysten
// Enoki sponsored-transaction API.
type EnokiProvider struct {
	config     EnokiConfig
	httpClient *http.Client
	baseURL    string
}

// NewEnokiProvider creates a new Enoki sponsorship provider.
func NewEnokiProvider(config EnokiConfig) *EnokiProvider {
	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = "https://api.enoki.mystenlabs.com/v1"
	}
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &EnokiProvider{
		config:     config,
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
	}
}

// Name returns the provider name.
func (p *EnokiProvider) Name() string {
	return "enoki"
}

// SponsorTransaction submits the transaction kind bytes for gas sponsorship.
func (p *EnokiProvider) SponsorTransaction(ctx context.Context, req ports.SponsorRequest) (ports.SponsorResult, error) {
	payload := map[string]interface{}{
		"network":              p.config.Network,
		"sender":               req.Sender,
		"transactionKindBytes": req.TransactionKindBytes,
	}

	resp, err := p.doRequest(ctx, "POST", "/transaction-blocks/sponsor", payload)
	if err != nil {
		return ports.SponsorResult{}, err
	}

	data, ok := resp["data"].(map[string]interface{})
	if !ok {
		return ports.SponsorResult{}, errors.New("invalid response format")
	}

	result := ports.SponsorResult{}
	if digest, ok := data["digest"].(string); ok {
		result.Digest = digest
	}
	if b, ok := data["bytes"].(string); ok {
		result.Bytes = b
	}
	if sponsorAddr, ok := data["sponsor"].(string); ok {
		result.SponsorAddress = sponsorAddr
	}

	if result.Digest == "" {
		return ports.SponsorResult{}, errors.New("sponsorship response missing digest")
	}

	return result, nil
}

// HealthCheck verifies the API key is valid and the service is reachable.
func (p *EnokiProvider) HealthCheck(ctx context.Context) error {
	_, err := p.doRequest(ctx, "GET", "/app", nil)
	return err
}

func (p *EnokiProvider) doRequest(ctx context.Context, method, endpoint string, payload map[string]interface{}) (map[string]interface{}, error) {
	var body io.Reader
	if payload != nil {
		jsonBody, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		body = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, p.baseURL+endpoint, body)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Authorization", "Bearer "+p.config.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("enoki API error (%d): %s", resp.StatusCode, string(respBody))
	}

	if resp.StatusCode == 204 {
		return nil, nil
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var result map[string]interface{}
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	return result, nil
}

// Ensure interface compliance.
var _ ports.SponsorshipProvider = (*EnokiProvider)(nil)
