// Package metrics provides Prometheus metrics for the dashboard.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "bikedash"

// Panel outcomes recorded by ObservePanel.
const (
	OutcomeChart  = "chart"
	OutcomeNoData = "no_data"
	OutcomeError  = "error"
)

// Metrics holds the collectors on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	panelRendersTotal   *prometheus.CounterVec
	datasetRows         *prometheus.GaugeVec
	datasetBounds       *prometheus.GaugeVec
}

// New creates and registers the dashboard metrics together with the
// Go runtime and process collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),

		httpRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "route", "status_code"},
		),
		httpRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "Time taken for HTTP requests",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		panelRendersTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "panel_renders_total",
				Help:      "Dashboard panels rendered, by outcome",
			},
			[]string{"panel", "outcome"}, // outcome: chart, no_data, error
		),
		datasetRows: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "dataset_rows",
				Help:      "Rows loaded per base table",
			},
			[]string{"table"},
		),
		datasetBounds: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "dataset_bound_timestamp_seconds",
				Help:      "First and last date present in the dataset, as unix time",
			},
			[]string{"bound"},
		),
	}

	m.registry.MustRegister(
		m.httpRequestsTotal,
		m.httpRequestDuration,
		m.panelRendersTotal,
		m.datasetRows,
		m.datasetBounds,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// ObserveHTTP records one served request. route is the mux pattern, not the raw path.
func (m *Metrics) ObserveHTTP(method, route string, status int, d time.Duration) {
	m.httpRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpRequestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

// ObservePanel counts one panel render.
func (m *Metrics) ObservePanel(panel, outcome string) {
	m.panelRendersTotal.WithLabelValues(panel, outcome).Inc()
}

// SetDataset publishes the loaded table sizes and date bounds.
func (m *Metrics) SetDataset(dailyRows, hourlyRows int, first, last time.Time) {
	m.datasetRows.WithLabelValues("daily").Set(float64(dailyRows))
	m.datasetRows.WithLabelValues("hourly").Set(float64(hourlyRows))
	if !first.IsZero() {
		m.datasetBounds.WithLabelValues("first").Set(float64(first.Unix()))
		m.datasetBounds.WithLabelValues("last").Set(float64(last.Unix()))
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
