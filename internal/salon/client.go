// Package salon is the HTTP client for the remote salon backend. It owns the
// wire contract for bookings: creation, listing, cancellation and the lenient
// decode of whatever field spelling the legacy API returns.
package salon

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/glamora-hn/booking-engine/pkg/logging"
)

const defaultTimeout = 20 * time.Second

// TokenSource supplies the bearer token for authenticated calls. The
// surrounding application injects it; an empty token means the call goes out
// unauthenticated and the backend decides.
type TokenSource interface {
	Token() string
}

// TokenFunc adapts a plain function to a TokenSource.
type TokenFunc func() string

// Token implements TokenSource.
func (f TokenFunc) Token() string { return f() }

// Client is a lightweight REST client for the salon booking API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource
	logger     *logging.Logger
}

// NewClient creates a salon API client rooted at baseURL.
func NewClient(baseURL string, tokens TokenSource, logger *logging.Logger) *Client {
	if logger == nil {
		logger = logging.Default()
	}
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		tokens: tokens,
		logger: logger,
	}
}

// SetTimeout overrides the HTTP client timeout.
func (c *Client) SetTimeout(d time.Duration) {
	c.httpClient.Timeout = d
}

func (c *Client) do(ctx context.Context, method, path string, payload any, header http.Header) (int, []byte, error) {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return 0, nil, fmt.Errorf("salon: marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return 0, nil, fmt.Errorf("salon: create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.tokens != nil {
		if token := c.tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Set(k, v)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("salon: http request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("salon: read response: %w", err)
	}
	return resp.StatusCode, respBody, nil
}

// apiError extracts the backend's message field from an error body, falling
// back to "HTTP <status>" when the body is not the expected JSON shape.
// Callers surface the text as-is; status codes are not part of the contract.
func apiError(status int, body []byte) error {
	var envelope struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Message != "" {
		return fmt.Errorf("%s", envelope.Message)
	}
	return fmt.Errorf("HTTP %d", status)
}

func is2xx(status int) bool {
	return status >= 200 && status <= 299
}
