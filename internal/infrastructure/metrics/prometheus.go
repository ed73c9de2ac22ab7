package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// PrometheusExporter exports metrics to Prometheus format.
type PrometheusExporter struct {
	gatherer prometheus.Gatherer

	requests         *prometheus.CounterVec
	duration         *prometheus.HistogramVec
	errors           *prometheus.CounterVec
	findings         prometheus.Histogram
	graphUnavailable prometheus.Counter
	reports          *prometheus.CounterVec
	reportFailures   *prometheus.CounterVec
}

// NewPrometheusExporter creates a new Prometheus exporter registered on reg.
// A fresh registry per exporter avoids duplicate registration in tests.
func NewPrometheusExporter(reg *prometheus.Registry) *PrometheusExporter {
	factory := promauto.With(reg)

	return &PrometheusExporter{
		gatherer: reg,
		requests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fraudlens_requests_total",
				Help: "Total number of requests",
			},
			[]string{"transport", "method"},
		),
		duration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "fraudlens_request_duration_seconds",
				Help:    "Duration of requests in seconds",
				Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0, 5.0, 10.0, 30.0},
			},
			[]string{"transport", "method"},
		),
		errors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fraudlens_request_errors_total",
				Help: "Total number of failed requests",
			},
			[]string{"transport", "method"},
		),
		findings: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "fraudlens_lookup_findings",
			Help:    "Number of findings returned per transfer lookup",
			Buckets: []float64{0, 1, 2, 3, 5, 10},
		}),
		graphUnavailable: factory.NewCounter(prometheus.CounterOpts{
			Name: "fraudlens_graph_unavailable_total",
			Help: "Total number of lookups that could not reach the graph store",
		}),
		reports: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fraudlens_reports_total",
				Help: "Total number of generated reports",
			},
			[]string{"strategy"},
		),
		reportFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fraudlens_report_failures_total",
				Help: "Total number of failed report generations",
			},
			[]string{"strategy"},
		),
	}
}

// Handler serves the registry in the Prometheus text format.
func (e *PrometheusExporter) Handler() http.Handler {
	return promhttp.HandlerFor(e.gatherer, promhttp.HandlerOpts{})
}

// RecordRequest records a request in Prometheus.
func (e *PrometheusExporter) RecordRequest(transport, method string) {
	e.requests.WithLabelValues(transport, method).Inc()
}

// RecordDuration records a duration in Prometheus.
func (e *PrometheusExporter) RecordDuration(transport, method string, durationSeconds float64) {
	e.duration.WithLabelValues(transport, method).Observe(durationSeconds)
}

// RecordError records an error in Prometheus.
func (e *PrometheusExporter) RecordError(transport, method string) {
	e.errors.WithLabelValues(transport, method).Inc()
}

// RecordLookup records the size of a lookup result.
func (e *PrometheusExporter) RecordLookup(findings int) {
	e.findings.Observe(float64(findings))
}

// RecordGraphUnavailable records a graph store failure.
func (e *PrometheusExporter) RecordGraphUnavailable() {
	e.graphUnavailable.Inc()
}

// RecordReport records a generated report.
func (e *PrometheusExporter) RecordReport(strategy string) {
	e.reports.WithLabelValues(strategy).Inc()
}

// RecordReportFailure records a failed report generation.
func (e *PrometheusExporter) RecordReportFailure(strategy string) {
	e.reportFailures.WithLabelValues(strategy).Inc()
}
