// Package metrics owns the Prometheus collectors exported on /metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	registry *prometheus.Registry

	Requests      *prometheus.CounterVec
	Duration      *prometheus.HistogramVec
	WorkbookLoads *prometheus.CounterVec
	RowsLoaded    *prometheus.GaugeVec
}

// New builds the collectors on a private registry so tests can create as
// many instances as they like.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "careboard_http_requests_total",
			Help: "HTTP requests by method, route pattern and status code.",
		}, []string{"method", "route", "status"}),
		Duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "careboard_http_request_duration_seconds",
			Help:    "HTTP request latency by method and route pattern.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		WorkbookLoads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "careboard_workbook_loads_total",
			Help: "Workbook parses, excluding cache hits.",
		}, []string{"file"}),
		RowsLoaded: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "careboard_rows_loaded",
			Help: "Records produced by the last spreadsheet load of a resource.",
		}, []string{"resource"}),
	}
	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.Requests,
		m.Duration,
		m.WorkbookLoads,
		m.RowsLoaded,
	)
	return m
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// WorkbookLoaded satisfies workbook.Observer.
func (m *Metrics) WorkbookLoaded(file string) {
	m.WorkbookLoads.WithLabelValues(file).Inc()
}

func (m *Metrics) ResourceRows(resource string, n int) {
	m.RowsLoaded.WithLabelValues(resource).Set(float64(n))
}
