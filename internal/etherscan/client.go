// Package etherscan is a minimal client for the Etherscan V2 account and
// nametag APIs, covering the three calls the scoring system needs.
package etherscan

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// Default configuration values.
const (
	DefaultBaseURL    = "https://api.etherscan.io/v2/api"
	DefaultChainID    = 1
	DefaultTimeout    = 30 * time.Second
	DefaultMaxRetries = 2
	DefaultRetryDelay = 1 * time.Second
)

// ErrNoAPIKey is returned by fetch methods when no API credential is
// configured.
var ErrNoAPIKey = errors.New("etherscan api key is not configured")

// Client calls the Etherscan V2 HTTP API.
type Client struct {
	baseURL    string
	apiKey     string
	chainID    int
	client     *http.Client
	maxRetries int
	retryDelay time.Duration
}

// ClientOption configures Client.
type ClientOption func(*Client)

// WithBaseURL overrides the API base URL (used by tests).
func WithBaseURL(u string) ClientOption {
	return func(c *Client) {
		c.baseURL = u
	}
}

// WithChainID sets the target chain ID.
func WithChainID(id int) ClientOption {
	return func(c *Client) {
		c.chainID = id
	}
}

// WithTimeout sets HTTP client timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.client.Timeout = d
	}
}

// WithMaxRetries sets maximum retry attempts.
func WithMaxRetries(n int) ClientOption {
	return func(c *Client) {
		c.maxRetries = n
	}
}

// WithHTTPClient sets custom http.Client.
func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *Client) {
		c.client = client
	}
}

// NewClient creates a new Etherscan client. An empty apiKey is allowed;
// fetch methods then fail with ErrNoAPIKey and label lookups report the
// credential as not configured.
func NewClient(apiKey string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:    DefaultBaseURL,
		apiKey:     apiKey,
		chainID:    DefaultChainID,
		client:     &http.Client{Timeout: DefaultTimeout},
		maxRetries: DefaultMaxRetries,
		retryDelay: DefaultRetryDelay,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Configured reports whether an API credential is present.
func (c *Client) Configured() bool {
	return c.apiKey != ""
}

// apiResponse is the Etherscan envelope. Result is an array on success and
// a plain string on errors and empty results.
type apiResponse struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Result  json.RawMessage `json:"result"`
}

// noTransactionsFound is the result string Etherscan returns for wallets
// with no history. It is an empty result, not an error.
const noTransactionsFound = "No transactions found"

// get performs one API call with retries, decoding the envelope.
func (c *Client) get(ctx context.Context, params url.Values) (*apiResponse, error) {
	params.Set("chainid", fmt.Sprintf("%d", c.chainID))
	params.Set("apikey", c.apiKey)
	reqURL := c.baseURL + "?" + params.Encode()

	delay := c.retryDelay
	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
			delay *= 2
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return nil, fmt.Errorf("create request: %w", err)
		}

		resp, err := c.client.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("http request: %w", err)
			continue
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = fmt.Errorf("read response: %w", err)
			continue
		}

		if resp.StatusCode != http.StatusOK {
			lastErr = fmt.Errorf("http status %d", resp.StatusCode)
			continue
		}

		var envelope apiResponse
		if err := json.Unmarshal(body, &envelope); err != nil {
			lastErr = fmt.Errorf("decode response: %w", err)
			continue
		}

		return &envelope, nil
	}

	return nil, lastErr
}

// resultString extracts the result payload when it is a plain string.
func (r *apiResponse) resultString() string {
	var s string
	if err := json.Unmarshal(r.Result, &s); err != nil {
		return ""
	}
	return s
}
