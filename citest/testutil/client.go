package testutil

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"
)

// TestClient provides HTTP client utilities for testing
type TestClient struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewTestClient creates a new test HTTP client
func NewTestClient(baseURL string) *TestClient {
	return &TestClient{
		BaseURL: baseURL,
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// RequestOption configures HTTP requests
type RequestOption func(*http.Request)

// WithHeader adds a header to the request
func WithHeader(key, value string) RequestOption {
	return func(r *http.Request) {
		r.Header.Set(key, value)
	}
}

// Response wraps HTTP response with helpers
type Response struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
}

// JSON unmarshals response body into v
func (r *Response) JSON(v any) error {
	return json.Unmarshal(r.Body, v)
}

// String returns response body as string
func (r *Response) String() string {
	return string(r.Body)
}

// IsSuccess returns true if status code is 2xx
func (r *Response) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Get performs HTTP GET request
func (c *TestClient) Get(ctx context.Context, path string, opts ...RequestOption) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	for _, opt := range opts {
		opt(req)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Headers:    resp.Header,
		Body:       body,
	}, nil
}

// Configuration is the decoded /api/config response.
type Configuration struct {
	Presets    []map[string]any          `json:"presets"`
	Fields     []map[string]any          `json:"fields"`
	Messages   map[string]map[string]any `json:"messages"`
	Defaults   map[string]any            `json:"defaults"`
	Metadata   map[string]any            `json:"metadata"`
	Stylesheet string                    `json:"stylesheet"`
	Format     string                    `json:"_format"`
}

// PresetNames returns the preset names in response order.
func (c *Configuration) PresetNames() []string {
	names := make([]string, 0, len(c.Presets))
	for _, p := range c.Presets {
		name, _ := p["name"].(string)
		names = append(names, name)
	}
	return names
}

// GetConfig fetches /api/config.
func (c *TestClient) GetConfig(ctx context.Context) (*Configuration, error) {
	resp, err := c.Get(ctx, "/api/config")
	if err != nil {
		return nil, err
	}
	if !resp.IsSuccess() {
		return nil, fmt.Errorf("get config failed: %d %s", resp.StatusCode, resp.String())
	}

	var cfg Configuration
	if err := resp.JSON(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// DialWebSocket connects to /ws.
func (c *TestClient) DialWebSocket(ctx context.Context) (*websocket.Conn, error) {
	url := "ws" + strings.TrimPrefix(c.BaseURL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to dial websocket: %w", err)
	}
	return conn, nil
}
