// Package handlers exposes the booking workflow and appointment listing over
// REST. Each handler owns its routes and mounts them on the shared router.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/glamora-hn/booking-engine/internal/booking"
	"github.com/glamora-hn/booking-engine/internal/catalog"
	"github.com/glamora-hn/booking-engine/internal/http/middleware"
	"github.com/glamora-hn/booking-engine/internal/observability/metrics"
	"github.com/glamora-hn/booking-engine/pkg/logging"
)

// CatalogSource lists the bookable services and the stylist roster.
type CatalogSource interface {
	ListServices(ctx context.Context) ([]catalog.ServiceOffering, error)
	ListStylists(ctx context.Context) ([]catalog.StylistProfile, error)
}

// BookingHandler drives the multi-step booking workflow over REST sessions.
type BookingHandler struct {
	catalog        CatalogSource
	gateway        booking.Gateway
	notifier       booking.ConfirmationNotifier
	sessions       *SessionStore
	taxRate        float64
	reservationFee float64
	logger         *logging.Logger
	metrics        *metrics.BookingMetrics
}

// NewBookingHandler creates the workflow handler.
func NewBookingHandler(cat CatalogSource, gw booking.Gateway, notifier booking.ConfirmationNotifier, sessions *SessionStore, taxRate, reservationFee float64, logger *logging.Logger, m *metrics.BookingMetrics) *BookingHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &BookingHandler{
		catalog:        cat,
		gateway:        gw,
		notifier:       notifier,
		sessions:       sessions,
		taxRate:        taxRate,
		reservationFee: reservationFee,
		logger:         logger,
		metrics:        m,
	}
}

// Routes mounts the session endpoints.
func (h *BookingHandler) Routes(r chi.Router) {
	r.Post("/book/sessions", h.StartSession)
	r.Route("/book/sessions/{sessionID}", func(r chi.Router) {
		r.Get("/", h.GetSession)
		r.Post("/service", h.SelectService)
		r.Post("/stylist", h.SelectStylist)
		r.Post("/schedule", h.SetSchedule)
		r.Post("/back", h.Back)
		r.Post("/confirm", h.Confirm)
	})
}

type sessionState struct {
	SessionID        string                    `json:"sessionId"`
	Step             booking.Step              `json:"step"`
	Selection        booking.Selection         `json:"selection"`
	Services         []catalog.ServiceOffering `json:"services"`
	EligibleStylists []catalog.StylistProfile  `json:"eligibleStylists"`
	Summary          booking.Summary           `json:"summary"`
	BookingID        string                    `json:"bookingId,omitempty"`
}

func (h *BookingHandler) state(sess *Session) sessionState {
	return sessionState{
		SessionID:        sess.ID,
		Step:             sess.Workflow.Step(),
		Selection:        sess.Workflow.Selection(),
		Services:         sess.Services,
		EligibleStylists: sess.Workflow.EligibleStylists(),
		Summary:          sess.Workflow.Summary(),
		BookingID:        sess.Workflow.BookingID(),
	}
}

// StartSession snapshots the catalog and opens a workflow session for the
// authenticated user.
func (h *BookingHandler) StartSession(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	services, err := h.catalog.ListServices(r.Context())
	if err != nil {
		h.logger.Error("booking session: list services failed", "error", err)
		writeError(w, http.StatusBadGateway, "catalog unavailable")
		return
	}
	roster, err := h.catalog.ListStylists(r.Context())
	if err != nil {
		h.logger.Error("booking session: list stylists failed", "error", err)
		writeError(w, http.StatusBadGateway, "catalog unavailable")
		return
	}

	user := booking.User{ID: claims.UserID(), Name: claims.Name, Email: claims.Email}
	wf := booking.NewWorkflow(user, roster, h.taxRate, h.reservationFee, h.gateway, h.notifier, h.logger, h.metrics)
	sess := h.sessions.Create(user.ID, wf, services)

	h.logger.Info("booking session started", "session_id", sess.ID, "user_id", user.ID)
	writeJSON(w, http.StatusCreated, h.state(sess))
}

// GetSession returns the current workflow state.
func (h *BookingHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, h.state(sess))
}

// SelectService records the chosen service.
func (h *BookingHandler) SelectService(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	var req struct {
		ServiceID string `json:"service_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	svc, found := sess.ServiceByID(req.ServiceID)
	if !found {
		writeError(w, http.StatusUnprocessableEntity, "unknown service")
		return
	}
	if err := sess.Workflow.SelectService(svc); err != nil {
		h.writeWorkflowError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.state(sess))
}

// SelectStylist records the chosen stylist; an empty id skips the choice.
func (h *BookingHandler) SelectStylist(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	var req struct {
		StylistID string `json:"stylist_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := sess.Workflow.SelectStylist(req.StylistID); err != nil {
		h.writeWorkflowError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.state(sess))
}

// SetSchedule records date, time and notes.
func (h *BookingHandler) SetSchedule(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	var req struct {
		Date  string `json:"date"`
		Time  string `json:"time"`
		Notes string `json:"notes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := sess.Workflow.SetSchedule(req.Date, req.Time, req.Notes); err != nil {
		h.writeWorkflowError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.state(sess))
}

// Back steps the workflow backwards.
func (h *BookingHandler) Back(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	sess.Workflow.Back()
	writeJSON(w, http.StatusOK, h.state(sess))
}

// Confirm submits the booking. Concurrent confirms on the same session get a
// conflict; a backend rejection surfaces its message with a gateway status.
func (h *BookingHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	bookingID, err := sess.Workflow.Confirm(r.Context())
	if err != nil {
		switch {
		case errors.Is(err, booking.ErrSubmissionInFlight), errors.Is(err, booking.ErrAlreadySubmitted):
			writeError(w, http.StatusConflict, err.Error())
		case errors.Is(err, booking.ErrNoService), errors.Is(err, booking.ErrNoSchedule):
			writeError(w, http.StatusUnprocessableEntity, err.Error())
		default:
			writeError(w, http.StatusBadGateway, err.Error())
		}
		return
	}

	state := h.state(sess)
	state.BookingID = bookingID
	writeJSON(w, http.StatusCreated, state)
}

// session loads the request's session and checks it belongs to the caller.
// A session owned by someone else reads as not found.
func (h *BookingHandler) session(w http.ResponseWriter, r *http.Request) (*Session, bool) {
	claims, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return nil, false
	}
	sess, found := h.sessions.Get(chi.URLParam(r, "sessionID"))
	if !found || sess.UserID != claims.UserID() {
		writeError(w, http.StatusNotFound, "session not found")
		return nil, false
	}
	return sess, true
}

func (h *BookingHandler) writeWorkflowError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, booking.ErrAlreadySubmitted):
		writeError(w, http.StatusConflict, err.Error())
	default:
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
