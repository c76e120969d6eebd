package salon

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/glamora-hn/booking-engine/internal/booking"
)

// LineItem is one service line on a booking creation request.
type LineItem struct {
	ServiceID string  `json:"service_id"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
}

// CreateBookingRequest is the backend's booking creation contract.
type CreateBookingRequest struct {
	UserID      string     `json:"user_id"`
	StylistID   *string    `json:"stylist_id"`
	ServiceDate string     `json:"service_date"` // YYYY-MM-DD
	ServiceTime string     `json:"service_time"` // HH:mm:ss (24h)
	Notes       *string    `json:"notes"`
	Subtotal    float64    `json:"subtotal"`
	Tax         float64    `json:"tax"`
	TotalPrice  float64    `json:"total_price"`
	Status      int        `json:"status"`
	Items       []LineItem `json:"items,omitempty"`
}

// Booking is the server-confirmed record echoed back on create. The legacy
// backend serializes decimal columns as strings; they are display values and
// must not be re-parsed for arithmetic.
type Booking struct {
	ID          flexString `json:"id"`
	UserID      flexString `json:"user_id"`
	StylistID   flexString `json:"stylist_id"`
	ServiceDate string     `json:"service_date"`
	ServiceTime string     `json:"service_time"`
	Notes       *string    `json:"notes"`
	Subtotal    flexString `json:"subtotal"`
	Tax         flexString `json:"tax"`
	TotalPrice  flexString `json:"total_price"`
	Status      int        `json:"status"`
	CreatedAt   *string    `json:"created_at"`
}

// NewCreateBookingRequest builds the wire payload from the workflow's
// submission. Totals and the canonical time come from the booking codecs so
// the payload matches the confirm-step summary digit for digit; status is
// always the pending code at creation.
func NewCreateBookingRequest(sub booking.Submission, taxRate float64, includeItems bool) CreateBookingRequest {
	totals := booking.ComputeTotals(sub.Service.Price, taxRate)

	req := CreateBookingRequest{
		UserID:      sub.UserID,
		StylistID:   nullable(sub.StylistID),
		ServiceDate: sub.Date,
		ServiceTime: booking.ParseClockLabel(sub.TimeLabel),
		Notes:       nullable(sub.Notes),
		Subtotal:    totals.Subtotal,
		Tax:         totals.Tax,
		TotalPrice:  totals.Total,
		Status:      booking.StatusCode(booking.StatusPending),
	}
	if includeItems {
		req.Items = []LineItem{
			{
				ServiceID: sub.Service.ID,
				Quantity:  1,
				UnitPrice: sub.Service.Price,
			},
		}
	}
	return req
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// CreateBooking submits a booking creation request. It never retries: a
// create is not idempotent on the backend, and a blind retry risks a
// duplicate appointment. An idempotency key is attached per attempt so a
// backend that supports fencing can dedupe; one that doesn't just ignores it.
func (c *Client) CreateBooking(ctx context.Context, req CreateBookingRequest) (*Booking, error) {
	header := http.Header{}
	header.Set("X-Idempotency-Key", uuid.NewString())

	status, body, err := c.do(ctx, http.MethodPost, "/bookings", req, header)
	if err != nil {
		return nil, err
	}
	if !is2xx(status) {
		c.logger.Error("salon: booking create rejected", "status", status)
		return nil, apiError(status, body)
	}

	var created Booking
	if err := json.Unmarshal(body, &created); err != nil {
		return nil, fmt.Errorf("salon: unmarshal booking: %w", err)
	}
	c.logger.Info("salon: booking created", "booking_id", string(created.ID), "status", created.Status)
	return &created, nil
}

// AddBookingItem appends a service line to an existing booking.
func (c *Client) AddBookingItem(ctx context.Context, bookingID string, item LineItem) error {
	status, body, err := c.do(ctx, http.MethodPost, "/bookings/"+bookingID+"/items", item, nil)
	if err != nil {
		return err
	}
	if !is2xx(status) {
		return apiError(status, body)
	}
	return nil
}

// CancelBooking cancels an appointment. No request body; any non-2xx is a
// failure with the same message extraction as creation.
func (c *Client) CancelBooking(ctx context.Context, bookingID string) error {
	status, body, err := c.do(ctx, http.MethodPost, "/bookings/"+bookingID+"/cancel", nil, nil)
	if err != nil {
		return err
	}
	if !is2xx(status) {
		c.logger.Error("salon: booking cancel rejected", "booking_id", bookingID, "status", status)
		return apiError(status, body)
	}
	c.logger.Info("salon: booking cancelled", "booking_id", bookingID)
	return nil
}
