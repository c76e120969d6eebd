package router

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glamora-hn/booking-engine/internal/http/handlers"
)

func testRouter() http.Handler {
	reg := prometheus.NewRegistry()
	return New(&Config{
		BookingHandler:      handlers.NewBookingHandler(nil, nil, nil, handlers.NewSessionStore(time.Minute), 0.15, 300, nil, nil),
		AppointmentsHandler: handlers.NewAppointmentsHandler(nil, nil, nil),
		MetricsHandler:      promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
		UserJWTSecret:       "secret",
		CORSAllowedOrigins:  []string{"https://glamora.example"},
	})
}

func TestHealthIsPublic(t *testing.T) {
	rec := httptest.NewRecorder()
	testRouter().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestMetricsIsPublic(t *testing.T) {
	rec := httptest.NewRecorder()
	testRouter().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestBookingRoutesRequireAuth(t *testing.T) {
	for _, target := range []string{"/book/sessions", "/appointments"} {
		method := http.MethodPost
		if target == "/appointments" {
			method = http.MethodGet
		}
		rec := httptest.NewRecorder()
		testRouter().ServeHTTP(rec, httptest.NewRequest(method, target, nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code, target)
	}
}

func TestCORSPreflight(t *testing.T) {
	req := httptest.NewRequest(http.MethodOptions, "/book/sessions", nil)
	req.Header.Set("Origin", "https://glamora.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()

	testRouter().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "https://glamora.example", rec.Header().Get("Access-Control-Allow-Origin"))
}
