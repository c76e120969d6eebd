package salon

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glamora-hn/booking-engine/internal/booking"
)

func appointmentsServer(t *testing.T, body string) *Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/bookings/me", r.URL.Path)
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, staticToken("tok"), nil)
}

func TestListMyBookingsEnvelope(t *testing.T) {
	c := appointmentsServer(t, `{"data":[
		{"id":501,"userId":42,"stylistId":7,"stylistName":"Maria","date":"2026-09-15","time":"21:30:00","status":"confirmed","price":1380,
		 "items":[{"id":1,"serviceId":3,"name":"Balayage","quantity":1,"unitPrice":1200,"lineTotal":1200}]}
	]}`)

	got, err := c.ListMyBookings(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)

	a := got[0]
	assert.Equal(t, "501", a.ID)
	assert.Equal(t, "42", a.UserID)
	assert.Equal(t, "7", a.StylistID)
	assert.Equal(t, "Maria", a.StylistName)
	assert.Equal(t, "9:30 PM", a.Time)
	assert.Equal(t, booking.StatusConfirmed, a.Status)
	assert.InDelta(t, 1380.0, a.Price, 1e-9)
	assert.Equal(t, "Balayage", a.ServiceName)
	require.Len(t, a.Items, 1)
	assert.InDelta(t, 1200.0, a.Items[0].LineTotal, 1e-9)
}

func TestListMyBookingsBareArraySnakeCase(t *testing.T) {
	c := appointmentsServer(t, `[
		{"id":"502","user_id":"42","stylistId":null,"date":"2026-09-16","time":"09:00:00","status":2,"total_price":"450.00",
		 "items":[{"id":"9","name":"Cut","quantity":2,"unit_price":"225.00"},{"id":"10","name":"Wash","quantity":1,"unit_price":"0"}]}
	]`)

	got, err := c.ListMyBookings(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)

	a := got[0]
	assert.Equal(t, "502", a.ID)
	assert.Equal(t, "42", a.UserID)
	assert.Empty(t, a.StylistID)
	assert.Equal(t, "9:00 AM", a.Time)
	assert.Equal(t, booking.StatusCompleted, a.Status)
	assert.InDelta(t, 450.0, a.Price, 1e-9)
	assert.Equal(t, "2 services", a.ServiceName)

	// line total falls back to unit price times quantity
	require.Len(t, a.Items, 2)
	assert.InDelta(t, 450.0, a.Items[0].LineTotal, 1e-9)
	assert.Equal(t, 2, a.Items[0].Quantity)
}

func TestListMyBookingsStatusIntField(t *testing.T) {
	c := appointmentsServer(t, `[{"id":1,"userId":42,"statusInt":3}]`)

	got, err := c.ListMyBookings(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, booking.StatusCancelled, got[0].Status)
}

func TestListMyBookingsUnknownStatusDefaultsPending(t *testing.T) {
	c := appointmentsServer(t, `[{"id":1,"userId":42,"status":"archived"}]`)

	got, err := c.ListMyBookings(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, booking.StatusPending, got[0].Status)
}

func TestListMyBookingsEmpty(t *testing.T) {
	c := appointmentsServer(t, `{"data":[]}`)
	got, err := c.ListMyBookings(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestListMyBookingsBackendError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte(`{"message":"upstream down"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, staticToken("tok"), nil)
	_, err := c.ListMyBookings(context.Background())
	assert.EqualError(t, err, "upstream down")
}
