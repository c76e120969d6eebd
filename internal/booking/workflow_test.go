package booking

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glamora-hn/booking-engine/internal/catalog"
)

type fakeGateway struct {
	mu      sync.Mutex
	calls   int
	subs    []Submission
	id      string
	err     error
	started chan struct{} // closed on first call when set
	release chan struct{} // when set, CreateBooking blocks until closed
}

func (g *fakeGateway) CreateBooking(ctx context.Context, sub Submission) (string, error) {
	g.mu.Lock()
	g.calls++
	first := g.calls == 1
	g.subs = append(g.subs, sub)
	started := g.started
	release := g.release
	g.mu.Unlock()
	if started != nil && first {
		close(started)
	}
	if release != nil {
		<-release
	}
	if g.err != nil {
		return "", g.err
	}
	return g.id, nil
}

func (g *fakeGateway) callCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls
}

type fakeNotifier struct {
	mu   sync.Mutex
	sent []Confirmation
	err  error
}

func (n *fakeNotifier) SendBookingConfirmation(_ context.Context, c Confirmation) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, c)
	return n.err
}

var (
	testUser    = User{ID: "42", Name: "Carla", Email: "carla@example.com"}
	testService = catalog.ServiceOffering{ID: "7", Name: "Balayage", Price: 1200, Category: "Color"}
	testRoster  = []catalog.StylistProfile{
		{ID: "1", Name: "Maria", Specialty: "Color"},
		{ID: "2", Name: "Lucia", Specialty: "Cuts"},
	}
)

func newTestWorkflow(gw Gateway, n ConfirmationNotifier) *Workflow {
	return NewWorkflow(testUser, testRoster, 0.15, 300, gw, n, nil, nil)
}

func advanceToConfirm(t *testing.T, w *Workflow) {
	t.Helper()
	require.NoError(t, w.SelectService(testService))
	require.NoError(t, w.SelectStylist("1"))
	require.NoError(t, w.SetSchedule("2026-09-15", "9:30 pm", "first visit"))
	require.Equal(t, StepConfirm, w.Step())
}

func TestWorkflowHappyPath(t *testing.T) {
	gw := &fakeGateway{id: "501"}
	notifier := &fakeNotifier{}
	w := newTestWorkflow(gw, notifier)

	assert.Equal(t, StepSelectService, w.Step())
	advanceToConfirm(t, w)

	id, err := w.Confirm(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "501", id)
	assert.Equal(t, StepSubmitted, w.Step())
	assert.Equal(t, "501", w.BookingID())
	assert.Equal(t, 1, gw.callCount())

	require.Len(t, gw.subs, 1)
	sub := gw.subs[0]
	assert.Equal(t, "42", sub.UserID)
	assert.Equal(t, "1", sub.StylistID)
	assert.Equal(t, "9:30 pm", sub.TimeLabel)
	assert.Equal(t, "Balayage", sub.Service.Name)

	require.Len(t, notifier.sent, 1)
	c := notifier.sent[0]
	assert.Equal(t, "501", c.BookingID)
	assert.Equal(t, "Carla", c.CustomerName)
	assert.Equal(t, "Maria", c.StylistName)
	assert.Equal(t, "9:30 PM", c.Time)
	assert.InDelta(t, 1380.0, c.Total, 1e-9)
}

func TestWorkflowConcurrentConfirmSubmitsOnce(t *testing.T) {
	gw := &fakeGateway{id: "501", started: make(chan struct{}), release: make(chan struct{})}
	w := newTestWorkflow(gw, nil)
	advanceToConfirm(t, w)

	firstDone := make(chan error, 1)
	go func() {
		_, err := w.Confirm(context.Background())
		firstDone <- err
	}()

	// Wait until the first confirm is inside the gateway call, then race a
	// second one against it.
	<-gw.started
	_, err := w.Confirm(context.Background())
	assert.ErrorIs(t, err, ErrSubmissionInFlight)

	close(gw.release)
	require.NoError(t, <-firstDone)
	assert.Equal(t, 1, gw.callCount())
}

func TestWorkflowGatewayFailureStaysAtConfirm(t *testing.T) {
	gw := &fakeGateway{err: errors.New("Slot taken")}
	w := newTestWorkflow(gw, nil)
	advanceToConfirm(t, w)

	_, err := w.Confirm(context.Background())
	require.EqualError(t, err, "Slot taken")
	assert.Equal(t, StepConfirm, w.Step())
	assert.Empty(t, w.BookingID())

	// The guard must be released so a deliberate retry can go through.
	gw.err = nil
	gw.id = "502"
	id, err := w.Confirm(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "502", id)
	assert.Equal(t, 2, gw.callCount())
}

func TestWorkflowNotifierFailureDoesNotFailBooking(t *testing.T) {
	gw := &fakeGateway{id: "501"}
	notifier := &fakeNotifier{err: errors.New("smtp down")}
	w := newTestWorkflow(gw, notifier)
	advanceToConfirm(t, w)

	id, err := w.Confirm(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "501", id)
	assert.Equal(t, StepSubmitted, w.Step())
}

func TestWorkflowConfirmValidation(t *testing.T) {
	w := newTestWorkflow(&fakeGateway{id: "501"}, nil)

	_, err := w.Confirm(context.Background())
	assert.ErrorIs(t, err, ErrNoService)

	require.NoError(t, w.SelectService(testService))
	require.NoError(t, w.SkipStylist())
	_, err = w.Confirm(context.Background())
	assert.ErrorIs(t, err, ErrNoSchedule)
	assert.Equal(t, StepSelectDateTime, w.Step())
}

func TestWorkflowSkipStylistClearsChoice(t *testing.T) {
	w := newTestWorkflow(&fakeGateway{id: "501"}, nil)
	require.NoError(t, w.SelectService(testService))
	require.NoError(t, w.SelectStylist("2"))
	assert.Equal(t, "2", w.Selection().StylistID)

	w.Back()
	require.NoError(t, w.SkipStylist())
	assert.Empty(t, w.Selection().StylistID)
	assert.Equal(t, StepSelectDateTime, w.Step())
}

func TestWorkflowSelectStylistUnknown(t *testing.T) {
	w := newTestWorkflow(&fakeGateway{}, nil)
	require.NoError(t, w.SelectService(testService))
	assert.ErrorIs(t, w.SelectStylist("99"), ErrUnknownStylist)
	assert.Equal(t, StepSelectStylist, w.Step())
}

func TestWorkflowBackNavigation(t *testing.T) {
	w := newTestWorkflow(&fakeGateway{}, nil)
	w.Back() // no-op on the first step
	assert.Equal(t, StepSelectService, w.Step())

	require.NoError(t, w.SelectService(testService))
	require.NoError(t, w.SkipStylist())
	assert.Equal(t, StepSelectDateTime, w.Step())

	w.Back()
	assert.Equal(t, StepSelectStylist, w.Step())
	w.Back()
	assert.Equal(t, StepSelectService, w.Step())
}

func TestWorkflowNextGuards(t *testing.T) {
	w := newTestWorkflow(&fakeGateway{}, nil)
	assert.ErrorIs(t, w.Next(), ErrNoService)

	require.NoError(t, w.SelectService(testService))
	require.NoError(t, w.Next()) // stylist step is optional
	assert.Equal(t, StepSelectDateTime, w.Step())
	assert.ErrorIs(t, w.Next(), ErrNoSchedule)
}

func TestWorkflowMutationAfterSubmit(t *testing.T) {
	gw := &fakeGateway{id: "501"}
	w := newTestWorkflow(gw, nil)
	advanceToConfirm(t, w)
	_, err := w.Confirm(context.Background())
	require.NoError(t, err)

	assert.ErrorIs(t, w.SelectService(testService), ErrAlreadySubmitted)
	_, err = w.Confirm(context.Background())
	assert.ErrorIs(t, err, ErrAlreadySubmitted)
	w.Back()
	assert.Equal(t, StepSubmitted, w.Step())
	assert.Equal(t, 1, gw.callCount())
}

func TestWorkflowEligibleStylists(t *testing.T) {
	w := newTestWorkflow(&fakeGateway{}, nil)
	assert.Equal(t, testRoster, w.EligibleStylists())

	require.NoError(t, w.SelectService(testService))
	got := w.EligibleStylists()
	require.Len(t, got, 1)
	assert.Equal(t, "Maria", got[0].Name)
}

func TestWorkflowSummary(t *testing.T) {
	w := newTestWorkflow(&fakeGateway{}, nil)
	require.NoError(t, w.SelectService(testService))
	require.NoError(t, w.SelectStylist("1"))
	require.NoError(t, w.SetSchedule("2026-09-15", "13:05", ""))

	s := w.Summary()
	assert.Equal(t, "Balayage", s.ServiceName)
	assert.Equal(t, "Maria", s.StylistName)
	assert.Equal(t, "1:05 PM", s.Time)
	assert.InDelta(t, 1200.0, s.Totals.Subtotal, 1e-9)
	assert.InDelta(t, 180.0, s.Totals.Tax, 1e-9)
	assert.InDelta(t, 1380.0, s.Totals.Total, 1e-9)
	assert.InDelta(t, 1080.0, s.Remaining, 1e-9)
}
