package handlers

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glamora-hn/booking-engine/internal/booking"
	"github.com/glamora-hn/booking-engine/internal/salon"
)

type stubBackend struct {
	appointments []salon.Appointment
	listErr      error
	cancelErr    error
	cancelled    []string
}

func (s *stubBackend) ListMyBookings(ctx context.Context) ([]salon.Appointment, error) {
	return s.appointments, s.listErr
}

func (s *stubBackend) CancelBooking(ctx context.Context, bookingID string) error {
	if s.cancelErr != nil {
		return s.cancelErr
	}
	s.cancelled = append(s.cancelled, bookingID)
	return nil
}

type stubNames map[string]string

func (s stubNames) Lookup(ctx context.Context, id string) (string, error) {
	return s[id], nil
}

func appointmentsRouter(backend AppointmentLister, names NameResolver) *chi.Mux {
	h := NewAppointmentsHandler(backend, names, nil)
	r := chi.NewRouter()
	r.Group(h.Routes)
	return r
}

func TestAppointmentsList(t *testing.T) {
	backend := &stubBackend{appointments: []salon.Appointment{
		{ID: "501", UserID: "42", Status: booking.StatusConfirmed, ServiceName: "Balayage"},
	}}
	r := appointmentsRouter(backend, nil)

	rec, payload := doRequest(t, r, authedRequest(http.MethodGet, "/appointments", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	data, _ := payload["data"].([]any)
	require.Len(t, data, 1)
	row, _ := data[0].(map[string]any)
	assert.Equal(t, "501", row["id"])
	assert.Equal(t, "confirmed", row["status"])
}

func TestAppointmentsListFillsStylistNames(t *testing.T) {
	backend := &stubBackend{appointments: []salon.Appointment{
		{ID: "501", StylistID: "1"},
		{ID: "502", StylistID: "2", StylistName: "Lucia"},
	}}
	r := appointmentsRouter(backend, stubNames{"1": "Maria"})

	rec, payload := doRequest(t, r, authedRequest(http.MethodGet, "/appointments", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	data, _ := payload["data"].([]any)
	require.Len(t, data, 2)
	first, _ := data[0].(map[string]any)
	second, _ := data[1].(map[string]any)
	assert.Equal(t, "Maria", first["stylistName"])
	assert.Equal(t, "Lucia", second["stylistName"])
}

func TestAppointmentsListBackendError(t *testing.T) {
	r := appointmentsRouter(&stubBackend{listErr: errors.New("upstream down")}, nil)
	rec, payload := doRequest(t, r, authedRequest(http.MethodGet, "/appointments", nil))
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Equal(t, "upstream down", payload["error"])
}

func TestAppointmentsCancel(t *testing.T) {
	backend := &stubBackend{}
	r := appointmentsRouter(backend, nil)

	rec, payload := doRequest(t, r, authedRequest(http.MethodPost, "/appointments/501/cancel", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "501", payload["cancelled"])
	assert.Equal(t, []string{"501"}, backend.cancelled)
}

func TestAppointmentsCancelRejected(t *testing.T) {
	r := appointmentsRouter(&stubBackend{cancelErr: errors.New("Not your booking")}, nil)
	rec, payload := doRequest(t, r, authedRequest(http.MethodPost, "/appointments/501/cancel", nil))
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Equal(t, "Not your booking", payload["error"])
}
