package http

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bikedash/internal/core"
)

var testBounds = core.NewDateRange(core.NewDate(2011, 1, 1), core.NewDate(2012, 12, 31))

func TestParseDateRange(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		want     core.DateRange
		warnings int
	}{
		{
			name:  "missing defaults to bounds",
			query: "",
			want:  testBounds,
		},
		{
			name:  "both set",
			query: "start=2011-03-01&end=2011-03-31",
			want:  core.NewDateRange(core.NewDate(2011, 3, 1), core.NewDate(2011, 3, 31)),
		},
		{
			name:  "only start",
			query: "start=2012-06-01",
			want:  core.NewDateRange(core.NewDate(2012, 6, 1), testBounds.End),
		},
		{
			name:     "garbage end falls back with warning",
			query:    "start=2011-02-01&end=yesterday",
			want:     core.NewDateRange(core.NewDate(2011, 2, 1), testBounds.End),
			warnings: 1,
		},
		{
			name:  "inverted kept",
			query: "start=2012-01-01&end=2011-01-01",
			want:  core.NewDateRange(core.NewDate(2012, 1, 1), core.NewDate(2011, 1, 1)),
		},
		{
			name:  "outside data not clamped",
			query: "start=2030-01-01&end=2030-12-31",
			want:  core.NewDateRange(core.NewDate(2030, 1, 1), core.NewDate(2030, 12, 31)),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := url.ParseQuery(tt.query)
			require.NoError(t, err)
			got := ParseDateRange(q, testBounds)
			assert.Equal(t, tt.want, got.Range)
			assert.Len(t, got.Warnings, tt.warnings)
		})
	}
}

func TestPanelName(t *testing.T) {
	mux := http.NewServeMux()
	var got string
	mux.HandleFunc("GET /api/charts/{name}", func(_ http.ResponseWriter, r *http.Request) {
		got = PanelName(r)
	})
	mux.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/charts/Hour-Ranking", nil))
	assert.Equal(t, "hour-ranking", got)
}
