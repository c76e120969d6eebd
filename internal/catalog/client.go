package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/glamora-hn/booking-engine/pkg/logging"
)

const defaultTimeout = 20 * time.Second

// Client lists services and stylists from the salon backend.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *logging.Logger
}

// NewClient creates a catalog client for the given API base URL.
func NewClient(baseURL string, logger *logging.Logger) *Client {
	if logger == nil {
		logger = logging.Default()
	}
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		logger: logger,
	}
}

// listEnvelope tolerates both the paginated `{data:[...]}` envelope and a
// bare array, which the backend returns depending on the `all` flag.
type listEnvelope[T any] struct {
	Data []T `json:"data"`
}

// ListServices returns every service offering, active or not. Callers decide
// what to show based on the Active flag.
func (c *Client) ListServices(ctx context.Context) ([]ServiceOffering, error) {
	rows, err := list[serviceRow](ctx, c, "/services?all=1&include_inactive=1")
	if err != nil {
		return nil, err
	}
	services := make([]ServiceOffering, 0, len(rows))
	for _, r := range rows {
		services = append(services, r.toOffering())
	}
	return services, nil
}

// ListStylists returns the public stylist roster.
func (c *Client) ListStylists(ctx context.Context) ([]StylistProfile, error) {
	rows, err := list[stylistRow](ctx, c, "/catalog/stylists?all=1")
	if err != nil {
		return nil, err
	}
	stylists := make([]StylistProfile, 0, len(rows))
	for _, r := range rows {
		stylists = append(stylists, r.toProfile())
	}
	return stylists, nil
}

func list[T any](ctx context.Context, c *Client, path string) ([]T, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("catalog: create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("catalog: http request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("catalog: read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("catalog: status %d for %s", resp.StatusCode, path)
	}

	var bare []T
	if err := json.Unmarshal(body, &bare); err == nil {
		return bare, nil
	}
	var env listEnvelope[T]
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("catalog: unmarshal response: %w", err)
	}
	return env.Data, nil
}
