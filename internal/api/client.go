// Package api is the HTTP client for the pricing backend. Every read and
// write the tool performs goes through here. The backend owns all computed
// figures; nothing in this package recomputes one locally.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"launchdeck/internal/logging"
)

// DefaultBaseURL is where a locally run backend listens.
const DefaultBaseURL = "http://127.0.0.1:8000"

// Config holds client construction options.
type Config struct {
	BaseURL string
	Token   string // Optional bearer token, sent as Authorization: Bearer <token>
	Timeout time.Duration
}

// DefaultConfig returns the client configuration used when nothing is set.
func DefaultConfig() Config {
	return Config{
		BaseURL: DefaultBaseURL,
		Timeout: 30 * time.Second,
	}
}

// Client talks to the pricing backend.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// New creates a client with a tuned transport.
func New(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		token:   cfg.Token,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
			Transport: &http.Transport{
				DialContext:           (&net.Dialer{Timeout: 5 * time.Second, KeepAlive: 15 * time.Second}).DialContext,
				MaxIdleConns:          100,
				IdleConnTimeout:       90 * time.Second,
				TLSHandshakeTimeout:   5 * time.Second,
				ExpectContinueTimeout: 1 * time.Second,
			},
		},
	}
}

// BaseURL returns the configured backend address.
func (c *Client) BaseURL() string { return c.baseURL }

// newRequest builds a request with the headers every call carries. The
// X-Request-ID matches the one used for client-side log correlation.
func (c *Client) newRequest(ctx context.Context, method, endpoint, reqID string, body interface{}) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("X-Request-ID", reqID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	return req, nil
}

// doJSON runs one request and decodes the JSON response into out.
// Passing a nil out discards the body.
func (c *Client) doJSON(ctx context.Context, method, endpoint string, body, out interface{}) error {
	reqID := uuid.NewString()
	rl := logging.WithRequestID(logging.CategoryAPI, reqID)

	req, err := c.newRequest(ctx, method, endpoint, reqID, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		rl.Error("%s %s failed: %v", method, endpoint, err)
		return fmt.Errorf("%s %s: %w", method, endpoint, err)
	}
	defer resp.Body.Close()

	rl.Info("%s %s -> %d (%v)", method, endpoint, resp.StatusCode, time.Since(start).Round(time.Millisecond))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return newStatusError(method, endpoint, resp)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s %s response: %w", method, endpoint, err)
	}
	return nil
}

// download runs one request and returns the raw response body. Used for
// endpoints that stream a file instead of JSON.
func (c *Client) download(ctx context.Context, method, endpoint string, body interface{}) ([]byte, error) {
	reqID := uuid.NewString()
	rl := logging.WithRequestID(logging.CategoryAPI, reqID)

	req, err := c.newRequest(ctx, method, endpoint, reqID, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/octet-stream")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		rl.Error("%s %s failed: %v", method, endpoint, err)
		return nil, fmt.Errorf("%s %s: %w", method, endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		rl.Info("%s %s -> %d (%v)", method, endpoint, resp.StatusCode, time.Since(start).Round(time.Millisecond))
		return nil, newStatusError(method, endpoint, resp)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s %s response: %w", method, endpoint, err)
	}
	rl.Info("%s %s -> %d (%d bytes, %v)", method, endpoint, resp.StatusCode, len(data), time.Since(start).Round(time.Millisecond))
	return data, nil
}
