package web

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fleetstat/fleetstat/internal/logger"
	"github.com/fleetstat/fleetstat/internal/metrics"
	"github.com/fleetstat/fleetstat/internal/render"
	"github.com/fleetstat/fleetstat/internal/status"
)

func newTestServer(t *testing.T) (*Server, *render.Renderer) {
	t.Helper()
	r, err := render.New("", 10*time.Second, logger.Noop())
	require.NoError(t, err)
	return New("127.0.0.1:0", r, metrics.New(), logger.Noop()), r
}

func TestIndexBeforeFirstRender(t *testing.T) {
	s, _ := newTestServer(t)

	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestIndexServesLatestPage(t *testing.T) {
	s, r := newTestServer(t)

	now := time.Now()
	require.NoError(t, r.Render([]status.Entry{
		{Hostname: "gpu1", Text: "gpu1 is fine\n", LastUpdated: now},
	}))

	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, w.Body.String(), "gpu1 is fine")
}

func TestHealthz(t *testing.T) {
	s, r := newTestServer(t)
	require.NoError(t, r.Render([]status.Entry{
		{Hostname: "gpu1", Text: "ok\n", LastUpdated: time.Now()},
	}))

	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok","renders":1}`, w.Body.String())
}

func TestMetricsEndpoint(t *testing.T) {
	met := metrics.New()
	met.Renders.Inc()

	r, err := render.New("", 10*time.Second, logger.Noop())
	require.NoError(t, err)
	s := New("127.0.0.1:0", r, met, logger.Noop())

	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "fleetstat_renders_total")
}

func TestMetricsDisabledWithoutRegistry(t *testing.T) {
	r, err := render.New("", 10*time.Second, logger.Noop())
	require.NoError(t, err)
	s := New("127.0.0.1:0", r, nil, logger.Noop())

	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
}
