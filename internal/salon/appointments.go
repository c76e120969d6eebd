package salon

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/glamora-hn/booking-engine/internal/booking"
)

// AppointmentItem is one line of an appointment, normalized for display.
type AppointmentItem struct {
	ID        string   `json:"id"`
	ServiceID string   `json:"serviceId,omitempty"`
	Name      string   `json:"name,omitempty"`
	Quantity  int      `json:"quantity"`
	UnitPrice float64  `json:"unitPrice"`
	LineTotal float64  `json:"lineTotal"`
	Duration  *int     `json:"duration,omitempty"`
	ListPrice *float64 `json:"listPrice,omitempty"`
}

// Appointment is the normalized read model for a user's booking. Time is in
// 12-hour display form and status is the four-valued string vocabulary,
// whatever spelling the backend used.
type Appointment struct {
	ID          string            `json:"id"`
	UserID      string            `json:"userId"`
	StylistID   string            `json:"stylistId,omitempty"`
	StylistName string            `json:"stylistName,omitempty"`
	Date        string            `json:"date,omitempty"`
	Time        string            `json:"time,omitempty"`
	Status      booking.Status    `json:"status"`
	Notes       string            `json:"notes,omitempty"`
	Price       float64           `json:"price"`
	ServiceName string            `json:"serviceName,omitempty"`
	Items       []AppointmentItem `json:"items"`
}

// appointmentRow is the raw backend row. The listing endpoint mixes camelCase
// and snake_case for the same concepts depending on which query produced the
// row, so every field has both spellings and the decode picks whichever is set.
type appointmentRow struct {
	ID          json.Number          `json:"id"`
	UserID      json.Number          `json:"userId"`
	UserIDSnake json.Number          `json:"user_id"`
	StylistID   *json.Number         `json:"stylistId"`
	StylistName *string              `json:"stylistName"`
	Date        *string              `json:"date"`
	Time        *string              `json:"time"`
	Status      any                  `json:"status"`
	StatusInt   *int                 `json:"statusInt"`
	Notes       *string              `json:"notes"`
	Price       json.Number          `json:"price"`
	TotalPrice  flexString           `json:"total_price"`
	ServiceName *string              `json:"serviceName"`
	Items       []appointmentItemRow `json:"items"`
}

type appointmentItemRow struct {
	ID             json.Number  `json:"id"`
	ServiceID      *json.Number `json:"serviceId"`
	Name           *string      `json:"name"`
	Quantity       json.Number  `json:"quantity"`
	UnitPrice      json.Number  `json:"unitPrice"`
	UnitPriceSnake json.Number  `json:"unit_price"`
	LineTotal      json.Number  `json:"lineTotal"`
	Duration       *int         `json:"duration"`
	ListPrice      *float64     `json:"listPrice"`
}

// flexString tolerates string, number and null for the same field.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		*f = ""
		return nil
	}
	*f = flexString(strings.Trim(s, `"`))
	return nil
}

func (r appointmentRow) toAppointment() Appointment {
	userID := r.UserID.String()
	if userID == "" {
		userID = r.UserIDSnake.String()
	}

	status := booking.DecodeStatusValue(r.Status)
	if _, isName := r.Status.(string); !isName && r.StatusInt != nil {
		status = booking.DecodeStatusValue(*r.StatusInt)
	}

	price := numberToFloat(r.Price)
	if price == 0 {
		price = parseAmount(string(r.TotalPrice))
	}

	items := make([]AppointmentItem, 0, len(r.Items))
	for _, it := range r.Items {
		items = append(items, it.toItem())
	}

	return Appointment{
		ID:          r.ID.String(),
		UserID:      userID,
		StylistID:   numberOrEmpty(r.StylistID),
		StylistName: deref(r.StylistName),
		Date:        deref(r.Date),
		Time:        booking.DisplayClock(deref(r.Time)),
		Status:      status,
		Notes:       deref(r.Notes),
		Price:       price,
		ServiceName: serviceName(r),
		Items:       items,
	}
}

func (r appointmentItemRow) toItem() AppointmentItem {
	unitPrice := numberToFloat(r.UnitPrice)
	if unitPrice == 0 {
		unitPrice = numberToFloat(r.UnitPriceSnake)
	}
	quantity := int(numberToFloat(r.Quantity))
	lineTotal := numberToFloat(r.LineTotal)
	if lineTotal == 0 {
		lineTotal = unitPrice * float64(quantity)
	}
	return AppointmentItem{
		ID:        r.ID.String(),
		ServiceID: numberOrEmpty(r.ServiceID),
		Name:      deref(r.Name),
		Quantity:  quantity,
		UnitPrice: unitPrice,
		LineTotal: lineTotal,
		Duration:  r.Duration,
		ListPrice: r.ListPrice,
	}
}

// serviceName prefers the precomputed label and otherwise derives one from
// the item lines, same as the listing UI always has.
func serviceName(r appointmentRow) string {
	if r.ServiceName != nil && *r.ServiceName != "" {
		return *r.ServiceName
	}
	switch len(r.Items) {
	case 0:
		return ""
	case 1:
		return deref(r.Items[0].Name)
	default:
		return fmt.Sprintf("%d services", len(r.Items))
	}
}

// ListMyBookings returns the authenticated user's appointments, normalized.
// The endpoint returns either a {data:[...]} envelope or a bare array.
func (c *Client) ListMyBookings(ctx context.Context) ([]Appointment, error) {
	status, body, err := c.do(ctx, http.MethodGet, "/bookings/me", nil, nil)
	if err != nil {
		return nil, err
	}
	if !is2xx(status) {
		return nil, apiError(status, body)
	}

	var rows []appointmentRow
	if err := json.Unmarshal(body, &rows); err != nil {
		var envelope struct {
			Data []appointmentRow `json:"data"`
		}
		if err := json.Unmarshal(body, &envelope); err != nil {
			return nil, fmt.Errorf("salon: unmarshal bookings: %w", err)
		}
		rows = envelope.Data
	}

	appointments := make([]Appointment, 0, len(rows))
	for _, r := range rows {
		appointments = append(appointments, r.toAppointment())
	}
	return appointments, nil
}

func numberToFloat(n json.Number) float64 {
	return parseAmount(n.String())
}

func parseAmount(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return v
}

func numberOrEmpty(n *json.Number) string {
	if n == nil {
		return ""
	}
	return n.String()
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
