package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObservePanel(t *testing.T) {
	m := New()
	m.ObservePanel("hour-ranking", OutcomeChart)
	m.ObservePanel("hour-ranking", OutcomeChart)
	m.ObservePanel("category-distribution", OutcomeNoData)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.panelRendersTotal.WithLabelValues("hour-ranking", OutcomeChart)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.panelRendersTotal.WithLabelValues("category-distribution", OutcomeNoData)))
}

func TestSetDataset(t *testing.T) {
	m := New()
	first := time.Date(2011, 1, 1, 0, 0, 0, 0, time.UTC)
	last := time.Date(2012, 12, 31, 0, 0, 0, 0, time.UTC)
	m.SetDataset(731, 17379, first, last)

	assert.Equal(t, 731.0, testutil.ToFloat64(m.datasetRows.WithLabelValues("daily")))
	assert.Equal(t, 17379.0, testutil.ToFloat64(m.datasetRows.WithLabelValues("hourly")))
	assert.Equal(t, float64(last.Unix()), testutil.ToFloat64(m.datasetBounds.WithLabelValues("last")))
}

func TestHandlerExposesMetrics(t *testing.T) {
	m := New()
	m.ObserveHTTP(http.MethodGet, "GET /ui/panels", http.StatusOK, 12*time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `bikedash_http_requests_total{method="GET",route="GET /ui/panels",status_code="200"} 1`)
	assert.Contains(t, string(body), "go_goroutines")
}
