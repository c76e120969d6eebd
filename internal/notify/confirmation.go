// Package notify delivers booking confirmations to customers. Delivery is
// best-effort by contract: the workflow logs a failure here and still reports
// the booking as submitted.
package notify

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/glamora-hn/booking-engine/internal/booking"
	"github.com/glamora-hn/booking-engine/pkg/logging"
)

// Service fans a booking confirmation out to the configured channels: email
// to the customer and an optional webhook for downstream automation.
type Service struct {
	email    EmailSender
	endpoint *EndpointSender
	logger   *logging.Logger
}

var _ booking.ConfirmationNotifier = (*Service)(nil)

// NewService creates a confirmation service. Either channel may be nil.
func NewService(email EmailSender, endpoint *EndpointSender, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{
		email:    email,
		endpoint: endpoint,
		logger:   logger,
	}
}

// SendBookingConfirmation formats and delivers the confirmation. All
// configured channels are attempted even if one fails; the combined error is
// returned for logging.
func (s *Service) SendBookingConfirmation(ctx context.Context, c booking.Confirmation) error {
	var errs []error

	if s.email != nil && c.CustomerEmail != "" {
		msg := EmailMessage{
			To:      c.CustomerEmail,
			ToName:  c.CustomerName,
			Subject: fmt.Sprintf("Your appointment on %s is booked", c.Date),
			Body:    confirmationBody(c),
		}
		if err := s.email.Send(ctx, msg); err != nil {
			errs = append(errs, err)
		}
	}

	if s.endpoint != nil {
		if err := s.endpoint.Post(ctx, c); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

func confirmationBody(c booking.Confirmation) string {
	var b strings.Builder
	name := c.CustomerName
	if name == "" {
		name = "there"
	}
	fmt.Fprintf(&b, "Hi %s,\n\n", name)
	fmt.Fprintf(&b, "Your booking is confirmed.\n\n")
	fmt.Fprintf(&b, "Service: %s\n", c.ServiceName)
	if c.StylistName != "" {
		fmt.Fprintf(&b, "Stylist: %s\n", c.StylistName)
	}
	fmt.Fprintf(&b, "Date: %s\n", c.Date)
	fmt.Fprintf(&b, "Time: %s\n", c.Time)
	fmt.Fprintf(&b, "Total: L %.2f\n\n", c.Total)
	fmt.Fprintf(&b, "Booking reference: %s\n", c.BookingID)
	return b.String()
}
