package booking

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/glamora-hn/booking-engine/internal/catalog"
	"github.com/glamora-hn/booking-engine/internal/observability/metrics"
	"github.com/glamora-hn/booking-engine/pkg/logging"
)

// Step identifies where a booking workflow currently is. Steps advance in a
// fixed order and only ever move one position at a time.
type Step string

const (
	StepSelectService  Step = "select_service"
	StepSelectStylist  Step = "select_stylist"
	StepSelectDateTime Step = "select_datetime"
	StepConfirm        Step = "confirm"
	StepSubmitted      Step = "submitted"
)

var stepOrder = []Step{
	StepSelectService,
	StepSelectStylist,
	StepSelectDateTime,
	StepConfirm,
	StepSubmitted,
}

// User identifies the customer driving the workflow.
type User struct {
	ID    string
	Name  string
	Email string
}

// Selection is the accumulated state of the flow. StylistID empty means "any
// stylist"; that is a valid final choice, not a missing one.
type Selection struct {
	ServiceID string `json:"serviceId"`
	StylistID string `json:"stylistId,omitempty"`
	Date      string `json:"date,omitempty"`
	TimeLabel string `json:"time,omitempty"`
	Notes     string `json:"notes,omitempty"`
}

// Submission is everything the gateway needs to create the booking.
type Submission struct {
	UserID    string
	StylistID string
	Date      string
	TimeLabel string
	Notes     string
	Service   catalog.ServiceOffering
}

// Gateway creates the booking against the salon backend and returns the
// created booking id. Implementations must not retry on their own.
type Gateway interface {
	CreateBooking(ctx context.Context, sub Submission) (string, error)
}

// Confirmation carries everything a post-booking notification needs.
type Confirmation struct {
	BookingID     string  `json:"bookingId"`
	CustomerName  string  `json:"customerName"`
	CustomerEmail string  `json:"customerEmail"`
	ServiceName   string  `json:"serviceName"`
	StylistName   string  `json:"stylistName,omitempty"`
	Date          string  `json:"date"`
	Time          string  `json:"time"`
	Total         float64 `json:"total"`
}

// ConfirmationNotifier delivers the booking confirmation. It is strictly
// best-effort: Confirm logs a notifier error and otherwise ignores it.
type ConfirmationNotifier interface {
	SendBookingConfirmation(ctx context.Context, c Confirmation) error
}

var (
	// ErrSubmissionInFlight is returned when Confirm is called while an
	// earlier Confirm on the same workflow has not finished.
	ErrSubmissionInFlight = errors.New("booking submission already in flight")

	// ErrNoService is returned when an action requires a selected service.
	ErrNoService = errors.New("no service selected")

	// ErrNoSchedule is returned when confirm or advance requires a date
	// and time that have not been chosen.
	ErrNoSchedule = errors.New("date and time are required")

	// ErrUnknownStylist is returned when the chosen stylist is not on the
	// roster the workflow was built with.
	ErrUnknownStylist = errors.New("unknown stylist")

	// ErrAlreadySubmitted is returned for any mutation after a successful
	// Confirm.
	ErrAlreadySubmitted = errors.New("booking already submitted")
)

// Summary is the confirm-step recap: the human-readable selection plus the
// money amounts, recomputed from the same codecs the submission uses.
type Summary struct {
	ServiceName    string  `json:"serviceName"`
	StylistName    string  `json:"stylistName"`
	Date           string  `json:"date"`
	Time           string  `json:"time"`
	Totals         Totals  `json:"totals"`
	ReservationFee float64 `json:"reservationFee"`
	Remaining      float64 `json:"remaining"`
}

// Workflow is the multi-step booking state machine for a single user session.
// All methods are safe for concurrent use; Confirm in particular guarantees
// at most one create call reaches the gateway at a time.
type Workflow struct {
	user           User
	roster         []catalog.StylistProfile
	taxRate        float64
	reservationFee float64
	gateway        Gateway
	notifier       ConfirmationNotifier
	logger         *logging.Logger
	metrics        *metrics.BookingMetrics

	mu        sync.Mutex
	step      Step
	sel       Selection
	service   *catalog.ServiceOffering
	inFlight  bool
	bookingID string
}

// NewWorkflow starts a workflow at the service selection step.
func NewWorkflow(user User, roster []catalog.StylistProfile, taxRate, reservationFee float64, gw Gateway, notifier ConfirmationNotifier, logger *logging.Logger, m *metrics.BookingMetrics) *Workflow {
	if logger == nil {
		logger = logging.Default()
	}
	return &Workflow{
		user:           user,
		roster:         roster,
		taxRate:        taxRate,
		reservationFee: reservationFee,
		gateway:        gw,
		notifier:       notifier,
		logger:         logger,
		metrics:        m,
		step:           StepSelectService,
	}
}

// Step returns the current step.
func (w *Workflow) Step() Step {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.step
}

// Selection returns a copy of the accumulated selection.
func (w *Workflow) Selection() Selection {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.sel
}

// Service returns the selected service, or nil before one is chosen.
func (w *Workflow) Service() *catalog.ServiceOffering {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.service == nil {
		return nil
	}
	svc := *w.service
	return &svc
}

// BookingID returns the created booking id after a successful Confirm.
func (w *Workflow) BookingID() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.bookingID
}

// SelectService records the chosen service and advances to stylist selection.
// Re-selecting replaces the previous choice.
func (w *Workflow) SelectService(svc catalog.ServiceOffering) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.step == StepSubmitted {
		return ErrAlreadySubmitted
	}
	w.service = &svc
	w.sel.ServiceID = svc.ID
	w.setStep(StepSelectStylist)
	return nil
}

// SelectStylist records the chosen stylist and advances to scheduling. The
// stylist must be on the roster; an empty id is the same as SkipStylist.
func (w *Workflow) SelectStylist(stylistID string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.step == StepSubmitted {
		return ErrAlreadySubmitted
	}
	if w.service == nil {
		return ErrNoService
	}
	if stylistID != "" && w.rosterName(stylistID) == "" {
		return ErrUnknownStylist
	}
	w.sel.StylistID = stylistID
	w.setStep(StepSelectDateTime)
	return nil
}

// SkipStylist clears the stylist choice and advances to scheduling.
func (w *Workflow) SkipStylist() error {
	return w.SelectStylist("")
}

// SetSchedule records date, time label and optional notes, then advances to
// the confirm step.
func (w *Workflow) SetSchedule(date, timeLabel, notes string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.step == StepSubmitted {
		return ErrAlreadySubmitted
	}
	if w.service == nil {
		return ErrNoService
	}
	if date == "" || timeLabel == "" {
		return ErrNoSchedule
	}
	w.sel.Date = date
	w.sel.TimeLabel = timeLabel
	w.sel.Notes = notes
	w.setStep(StepConfirm)
	return nil
}

// Next advances one step, enforcing the same guards the setters do.
func (w *Workflow) Next() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	switch w.step {
	case StepSelectService:
		if w.service == nil {
			return ErrNoService
		}
		w.setStep(StepSelectStylist)
	case StepSelectStylist:
		w.setStep(StepSelectDateTime)
	case StepSelectDateTime:
		if w.sel.Date == "" || w.sel.TimeLabel == "" {
			return ErrNoSchedule
		}
		w.setStep(StepConfirm)
	case StepConfirm:
		return errors.New("confirm step requires Confirm")
	case StepSubmitted:
		return ErrAlreadySubmitted
	}
	return nil
}

// Back moves one step backwards. It is a no-op on the first step and after
// submission; a submitted booking cannot be un-submitted.
func (w *Workflow) Back() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.step == StepSubmitted {
		return
	}
	for i, s := range stepOrder {
		if s == w.step && i > 0 {
			w.setStep(stepOrder[i-1])
			return
		}
	}
}

// EligibleStylists returns the roster filtered by the current service.
func (w *Workflow) EligibleStylists() []catalog.StylistProfile {
	w.mu.Lock()
	defer w.mu.Unlock()
	return EligibleStylists(w.roster, w.service)
}

// Summary recomputes the confirm-step recap from the current selection.
func (w *Workflow) Summary() Summary {
	w.mu.Lock()
	defer w.mu.Unlock()

	var serviceName string
	var price float64
	if w.service != nil {
		serviceName = w.service.Name
		price = w.service.Price
	}
	totals := ComputeTotals(price, w.taxRate)
	return Summary{
		ServiceName:    serviceName,
		StylistName:    w.rosterName(w.sel.StylistID),
		Date:           w.sel.Date,
		Time:           DisplayClock(w.sel.TimeLabel),
		Totals:         totals,
		ReservationFee: w.reservationFee,
		Remaining:      ComputeRemaining(totals.Total, w.reservationFee),
	}
}

// Confirm submits the booking. Exactly one create call reaches the gateway
// per successful confirmation: concurrent calls fail fast with
// ErrSubmissionInFlight, and a gateway failure leaves the workflow at the
// confirm step so the user can retry deliberately. On success the
// confirmation notification is sent best-effort before the created id is
// returned.
func (w *Workflow) Confirm(ctx context.Context) (string, error) {
	w.mu.Lock()
	if w.step == StepSubmitted {
		w.mu.Unlock()
		return "", ErrAlreadySubmitted
	}
	if w.inFlight {
		w.mu.Unlock()
		return "", ErrSubmissionInFlight
	}
	if w.service == nil {
		w.mu.Unlock()
		return "", ErrNoService
	}
	if w.sel.Date == "" || w.sel.TimeLabel == "" {
		w.mu.Unlock()
		return "", ErrNoSchedule
	}
	w.inFlight = true
	sub := Submission{
		UserID:    w.user.ID,
		StylistID: w.sel.StylistID,
		Date:      w.sel.Date,
		TimeLabel: w.sel.TimeLabel,
		Notes:     w.sel.Notes,
		Service:   *w.service,
	}
	w.mu.Unlock()

	start := time.Now()
	bookingID, err := w.gateway.CreateBooking(ctx, sub)
	elapsed := time.Since(start).Seconds()

	w.mu.Lock()
	w.inFlight = false
	if err != nil {
		w.mu.Unlock()
		w.metrics.ObserveSubmission("rejected")
		w.metrics.ObserveSubmitLatency("rejected", elapsed)
		w.logger.Error("booking submission rejected", "user_id", w.user.ID, "error", err)
		return "", err
	}
	w.bookingID = bookingID
	w.setStep(StepSubmitted)
	confirmation := w.confirmation(bookingID)
	w.mu.Unlock()

	w.metrics.ObserveSubmission("created")
	w.metrics.ObserveSubmitLatency("created", elapsed)
	w.logger.Info("booking submitted", "user_id", w.user.ID, "booking_id", bookingID)

	if w.notifier != nil {
		if nerr := w.notifier.SendBookingConfirmation(ctx, confirmation); nerr != nil {
			w.logger.Error("booking confirmation notification failed", "booking_id", bookingID, "error", nerr)
		}
	}
	return bookingID, nil
}

// confirmation builds the notification payload. Caller holds the lock.
func (w *Workflow) confirmation(bookingID string) Confirmation {
	totals := ComputeTotals(w.service.Price, w.taxRate)
	return Confirmation{
		BookingID:     bookingID,
		CustomerName:  w.user.Name,
		CustomerEmail: w.user.Email,
		ServiceName:   w.service.Name,
		StylistName:   w.rosterName(w.sel.StylistID),
		Date:          w.sel.Date,
		Time:          DisplayClock(w.sel.TimeLabel),
		Total:         totals.Total,
	}
}

// rosterName resolves a stylist id to a display name. Caller holds the lock.
func (w *Workflow) rosterName(stylistID string) string {
	if stylistID == "" {
		return ""
	}
	for _, s := range w.roster {
		if s.ID == stylistID {
			return s.Name
		}
	}
	return ""
}

// setStep records a transition. Caller holds the lock.
func (w *Workflow) setStep(s Step) {
	if w.step == s {
		return
	}
	w.step = s
	w.metrics.ObserveStep(string(s))
}
