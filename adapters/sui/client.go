// Package sui provides a thin JSON-RPC client for a Sui fullnode.
// It exists for readiness checks only; transaction content is never
// decoded or verified here.
package sui

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

// ClientConfig holds fullnode connection settings.
type ClientConfig struct {
	URL     string        // fullnode JSON-RPC endpoint
	Timeout time.Duration // per-request timeout; default 10s
}

// Client is a minimal Sui JSON-RPC client.
type Client struct {
	url        string
	httpClient *http.Client
}

// NewClient creates a new fullnode client.
func NewClient(cfg ClientConfig) (*Client, error) {
	if cfg.URL == "" {
		return nil, errors.New("fullnode URL is required")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &Client{
		url:        cfg.URL,
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      int    `json:"id"`
	Method  string `json:"method"`
	Params  []any  `json:"params"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type rpcResponse struct {
	Result json.RawMessage `json:"result"`
	Error  *rpcError       `json:"error"`
}

// ChainIdentifier returns the identifier of the connected network
// (e.g. "35834a8a" for mainnet).
func (c *Client) ChainIdentifier(ctx context.Context) (string, error) {
	raw, err := c.call(ctx, "sui_getChainIdentifier", nil)
	if err != nil {
		return "", err
	}

	var id string
	if err := json.Unmarshal(raw, &id); err != nil {
		return "", fmt.Errorf("decode chain identifier: %w", err)
	}
	return id, nil
}

// HealthCheck verifies the fullnode answers RPC calls.
func (c *Client) HealthCheck(ctx context.Context) error {
	_, err := c.ChainIdentifier(ctx)
	return err
}

func (c *Client) call(ctx context.Context, method string, params []any) (json.RawMessage, error) {
	if params == nil {
		params = []any{}
	}

	body, err := json.Marshal(rpcRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  method,
		Params:  params,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("fullnode error (%d): %s", resp.StatusCode, string(respBody))
	}

	var rpcResp rpcResponse
	if err := json.NewDecoder(resp.Body).Decode(&rpcResp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if rpcResp.Error != nil {
		return nil, fmt.Errorf("rpc error %d: %s", rpcResp.Error.Code, rpcResp.Error.Message)
	}

	return rpcResp.Result, nil
}

// Ensure interface compliance.
var _ ports.ChainClient = (*Client)(nil)
