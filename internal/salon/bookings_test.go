package salon

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glamora-hn/booking-engine/internal/booking"
	"github.com/glamora-hn/booking-engine/internal/catalog"
)

var testSubmission = booking.Submission{
	UserID:    "42",
	StylistID: "7",
	Date:      "2026-09-15",
	TimeLabel: "9:30 pm",
	Notes:     "first visit",
	Service:   catalog.ServiceOffering{ID: "3", Name: "Balayage", Price: 1200, Category: "Color"},
}

func TestNewCreateBookingRequest(t *testing.T) {
	req := NewCreateBookingRequest(testSubmission, 0.15, true)

	assert.Equal(t, "42", req.UserID)
	require.NotNil(t, req.StylistID)
	assert.Equal(t, "7", *req.StylistID)
	assert.Equal(t, "2026-09-15", req.ServiceDate)
	assert.Equal(t, "21:30:00", req.ServiceTime)
	require.NotNil(t, req.Notes)
	assert.Equal(t, "first visit", *req.Notes)
	assert.InDelta(t, 1200.0, req.Subtotal, 1e-9)
	assert.InDelta(t, 180.0, req.Tax, 1e-9)
	assert.InDelta(t, 1380.0, req.TotalPrice, 1e-9)
	assert.Equal(t, 0, req.Status)
	require.Len(t, req.Items, 1)
	assert.Equal(t, "3", req.Items[0].ServiceID)
	assert.Equal(t, 1, req.Items[0].Quantity)
}

func TestNewCreateBookingRequestNullables(t *testing.T) {
	sub := testSubmission
	sub.StylistID = ""
	sub.Notes = ""
	req := NewCreateBookingRequest(sub, 0.15, false)

	assert.Nil(t, req.StylistID)
	assert.Nil(t, req.Notes)
	assert.Nil(t, req.Items)
}

func TestCreateBookingSubmitsPayload(t *testing.T) {
	var gotBody map[string]any
	var gotKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/bookings", r.URL.Path)
		gotKey = r.Header.Get("X-Idempotency-Key")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":501,"user_id":"42","subtotal":"1200.00","tax":"180.00","total_price":"1380.00","status":0}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, staticToken("tok"), nil)
	created, err := c.CreateBooking(context.Background(), NewCreateBookingRequest(testSubmission, 0.15, true))
	require.NoError(t, err)

	assert.Equal(t, "501", string(created.ID))
	assert.Equal(t, "1380.00", string(created.TotalPrice))
	assert.Equal(t, "21:30:00", gotBody["service_time"])
	assert.Equal(t, float64(0), gotBody["status"])
	_, err = uuid.Parse(gotKey)
	assert.NoError(t, err, "idempotency key must be a uuid")
}

func TestCreateBookingDoesNotRetry(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"message":"Slot taken"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, staticToken("tok"), nil)
	_, err := c.CreateBooking(context.Background(), NewCreateBookingRequest(testSubmission, 0.15, true))
	require.EqualError(t, err, "Slot taken")
	assert.Equal(t, 1, calls)
}

func TestAddBookingItem(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/bookings/501/items", r.URL.Path)
		var item LineItem
		require.NoError(t, json.NewDecoder(r.Body).Decode(&item))
		assert.Equal(t, "3", item.ServiceID)
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, staticToken("tok"), nil)
	err := c.AddBookingItem(context.Background(), "501", LineItem{ServiceID: "3", Quantity: 1, UnitPrice: 1200})
	assert.NoError(t, err)
}

func TestCancelBooking(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/bookings/501/cancel", r.URL.Path)
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, staticToken("tok"), nil)
	assert.NoError(t, c.CancelBooking(context.Background(), "501"))
}

func TestCancelBookingError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"message":"Not your booking"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, staticToken("tok"), nil)
	assert.EqualError(t, c.CancelBooking(context.Background(), "501"), "Not your booking")
}

func TestGatewayCreateBooking(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":"501","status":0}`))
	}))
	defer srv.Close()

	gw := NewGateway(NewClient(srv.URL, staticToken("tok"), nil), 0.15, true)
	id, err := gw.CreateBooking(context.Background(), testSubmission)
	require.NoError(t, err)
	assert.Equal(t, "501", id)
}
