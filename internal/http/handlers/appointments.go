package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/glamora-hn/booking-engine/internal/directory"
	"github.com/glamora-hn/booking-engine/internal/salon"
	"github.com/glamora-hn/booking-engine/pkg/logging"
)

// AppointmentLister reads the caller's appointments from the backend.
type AppointmentLister interface {
	ListMyBookings(ctx context.Context) ([]salon.Appointment, error)
	CancelBooking(ctx context.Context, bookingID string) error
}

// NameResolver resolves stylist ids to display names.
type NameResolver interface {
	Lookup(ctx context.Context, id string) (string, error)
}

// AppointmentsHandler serves the user's appointment history.
type AppointmentsHandler struct {
	backend AppointmentLister
	names   NameResolver
	logger  *logging.Logger
}

var _ NameResolver = (*directory.Cache)(nil)

// NewAppointmentsHandler creates the appointments handler. names may be nil;
// rows then keep whatever stylist name the backend sent.
func NewAppointmentsHandler(backend AppointmentLister, names NameResolver, logger *logging.Logger) *AppointmentsHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &AppointmentsHandler{
		backend: backend,
		names:   names,
		logger:  logger,
	}
}

// Routes mounts the appointment endpoints.
func (h *AppointmentsHandler) Routes(r chi.Router) {
	r.Get("/appointments", h.List)
	r.Post("/appointments/{bookingID}/cancel", h.Cancel)
}

// List returns the caller's appointments, newest shape the backend offers,
// with stylist names filled in from the directory when the row lacks one.
func (h *AppointmentsHandler) List(w http.ResponseWriter, r *http.Request) {
	appointments, err := h.backend.ListMyBookings(r.Context())
	if err != nil {
		h.logger.Error("appointments list failed", "error", err)
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}

	if h.names != nil {
		for i := range appointments {
			a := &appointments[i]
			if a.StylistName != "" || a.StylistID == "" {
				continue
			}
			name, err := h.names.Lookup(r.Context(), a.StylistID)
			if err != nil {
				h.logger.Warn("appointments: stylist name lookup failed", "stylist_id", a.StylistID, "error", err)
				break
			}
			a.StylistName = name
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{"data": appointments})
}

// Cancel cancels one appointment. The backend's message passes through on
// rejection.
func (h *AppointmentsHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	bookingID := chi.URLParam(r, "bookingID")
	if err := h.backend.CancelBooking(r.Context(), bookingID); err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"cancelled": bookingID})
}
