package salon

import (
	"context"

	"github.com/glamora-hn/booking-engine/internal/booking"
)

// Gateway adapts the salon client to the workflow's submission port.
type Gateway struct {
	client       *Client
	taxRate      float64
	includeItems bool
}

var _ booking.Gateway = (*Gateway)(nil)

// NewGateway wraps client with the pricing context needed to build the wire
// payload. includeItems controls whether the item line rides along on create.
func NewGateway(client *Client, taxRate float64, includeItems bool) *Gateway {
	return &Gateway{
		client:       client,
		taxRate:      taxRate,
		includeItems: includeItems,
	}
}

// CreateBooking builds the wire payload from the submission and performs a
// single create call. The backend's error message passes through untouched.
func (g *Gateway) CreateBooking(ctx context.Context, sub booking.Submission) (string, error) {
	req := NewCreateBookingRequest(sub, g.taxRate, g.includeItems)
	created, err := g.client.CreateBooking(ctx, req)
	if err != nil {
		return "", err
	}
	return string(created.ID), nil
}
