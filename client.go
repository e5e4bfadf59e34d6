package orion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	// DefaultBaseURL is the Orion agent-execution service.
	DefaultBaseURL = "https://app-orion-dev.azurewebsites.net"

	runPath        = "/api/agents/run"
	defaultTimeout = 60 * time.Second
	maxErrorBody   = 2048
)

// ClientConfig describes how to reach the Orion backend. The zero value is
// usable when the API key comes from SetDefaultKey or the environment.
type ClientConfig struct {
	// APIKey overrides the process default and the ORION_API_KEY variable.
	APIKey string
	// BaseURL defaults to DefaultBaseURL; a trailing slash is trimmed.
	BaseURL string
	// HTTPClient defaults to one with a 60s timeout. Transport-level
	// timeouts live here; the orchestration loop has none of its own.
	HTTPClient *http.Client
	// Logger defaults to a no-op logger.
	Logger *zap.Logger
}

// Client is the HTTP implementation of Backend: one POST per round-trip,
// bearer-authenticated, JSON in and out.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient builds a Client, resolving the API key from the config, the
// process default, or the environment. Fails fast when no key is available.
func NewClient(cfg ClientConfig) (*Client, error) {
	key, err := resolveKey(strings.TrimSpace(cfg.APIKey))
	if err != nil {
		return nil, err
	}
	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	baseURL = strings.TrimRight(baseURL, "/")
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL:    baseURL,
		apiKey:     key,
		httpClient: httpClient,
		logger:     logger,
	}, nil
}

// Run performs one backend round-trip. A non-success status becomes an
// APIError with a truncated copy of the body.
func (c *Client) Run(ctx context.Context, req *Request) (*Response, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}
	endpoint := c.baseURL + runPath
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	c.logger.Debug("orion round-trip",
		zap.String("agent_type", string(req.AgentType)),
		zap.Int("tools", len(req.Tools)),
		zap.Int("tool_results", len(req.ToolResults)),
		zap.Int("delegation_results", len(req.DelegationResults)))

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("orion request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(body)),
		}
	}

	var out Response
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &out, nil
}

var _ Backend = (*Client)(nil)
