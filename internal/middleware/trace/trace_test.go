package trace

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	applog "bikedash/internal/log"
)

type sample struct {
	method, route string
	status        int
}

type recordingObserver struct {
	samples []sample
}

func (o *recordingObserver) ObserveHTTP(method, route string, status int, _ time.Duration) {
	o.samples = append(o.samples, sample{method, route, status})
}

func newTestLogger(buf *bytes.Buffer) *applog.Logger {
	return applog.New(applog.Config{
		Handler:   slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}),
		Component: applog.ComponentHTTP,
	})
}

func TestMiddlewareTagsRequestAndObservesRoute(t *testing.T) {
	var buf bytes.Buffer
	obs := &recordingObserver{}

	var seenID string
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/charts/{name}", func(w http.ResponseWriter, r *http.Request) {
		seenID = GetRequestID(r.Context())
		w.WriteHeader(http.StatusTeapot)
	})

	h := NewMiddleware(func(*http.Request) string { return "10.0.0.1" }, newTestLogger(&buf), obs).Middleware(mux)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/charts/hour-ranking", nil))

	require.True(t, strings.HasPrefix(seenID, "req_"))
	assert.Equal(t, seenID, rec.Header().Get(RequestIDHeader))
	require.Len(t, obs.samples, 1)
	assert.Equal(t, sample{http.MethodGet, "GET /api/charts/{name}", http.StatusTeapot}, obs.samples[0])

	logs := buf.String()
	assert.Contains(t, logs, "HTTP request started")
	assert.Contains(t, logs, "HTTP request completed")
	assert.Contains(t, logs, "client_ip=10.0.0.1")
}

func TestMiddlewareUnmatchedRouteLabel(t *testing.T) {
	var buf bytes.Buffer
	obs := &recordingObserver{}
	mux := http.NewServeMux()

	h := NewMiddleware(nil, newTestLogger(&buf), obs).Middleware(mux)
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nope", nil))

	require.Len(t, obs.samples, 1)
	assert.Equal(t, unmatchedRoute, obs.samples[0].route)
	assert.Equal(t, http.StatusNotFound, obs.samples[0].status)
}

func TestGenerateRequestIDIsUnique(t *testing.T) {
	seen := make(map[string]bool)
	for range 100 {
		id := GenerateRequestID()
		assert.False(t, seen[id])
		seen[id] = true
	}
	assert.Empty(t, GetRequestID(httptest.NewRequest(http.MethodGet, "/", nil).Context()))
}
