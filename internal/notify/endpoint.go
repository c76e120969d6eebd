package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/glamora-hn/booking-engine/internal/booking"
	"github.com/glamora-hn/booking-engine/pkg/logging"
)

// EndpointSender POSTs booking confirmations to a webhook endpoint as JSON.
// An empty URL disables it: Post logs the skip and returns nil, so deployments
// without a webhook behave the same as ones with a broken sender config.
type EndpointSender struct {
	url        string
	httpClient *http.Client
	logger     *logging.Logger
}

// NewEndpointSender creates a webhook sender for url; "" means disabled.
func NewEndpointSender(url string, logger *logging.Logger) *EndpointSender {
	if logger == nil {
		logger = logging.Default()
	}
	return &EndpointSender{
		url: url,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger: logger,
	}
}

// Post delivers the confirmation to the webhook.
func (s *EndpointSender) Post(ctx context.Context, c booking.Confirmation) error {
	if s.url == "" {
		s.logger.Debug("notify: confirmation endpoint not configured, skipping")
		return nil
	}

	payload, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("notify: marshal confirmation: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("notify: create endpoint request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("notify: endpoint post failed: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= 400 {
		return fmt.Errorf("notify: endpoint returned status %d", resp.StatusCode)
	}
	s.logger.Info("confirmation posted to endpoint", "booking_id", c.BookingID, "status", resp.StatusCode)
	return nil
}
