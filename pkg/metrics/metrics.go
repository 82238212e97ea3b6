// Package metrics exposes Prometheus counters for the signature editor.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	registry *prometheus.Registry

	Compositions       prometheus.Counter
	CopyAttempts       *prometheus.CounterVec
	ValidationFailures *prometheus.CounterVec
	LogoResizes        prometheus.Counter
	HTTPRequests       *prometheus.CounterVec
	HTTPDuration       *prometheus.HistogramVec
}

// New registers the editor metrics on a fresh registry, together with the Go
// runtime and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,
		Compositions: f.NewCounter(prometheus.CounterOpts{
			Name: "firma_compositions_total",
			Help: "Total number of signatures composed",
		}),
		CopyAttempts: f.NewCounterVec(prometheus.CounterOpts{
			Name: "firma_copy_attempts_total",
			Help: "Clipboard publish attempts by result",
		}, []string{"result"}),
		ValidationFailures: f.NewCounterVec(prometheus.CounterOpts{
			Name: "firma_validation_failures_total",
			Help: "Field validation failures by field",
		}, []string{"field"}),
		LogoResizes: f.NewCounter(prometheus.CounterOpts{
			Name: "firma_logo_resizes_total",
			Help: "Measured logo size changes applied past the hysteresis threshold",
		}),
		HTTPRequests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "firma_http_requests_total",
			Help: "HTTP requests by method, route and status",
		}, []string{"method", "route", "status"}),
		HTTPDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "firma_http_request_duration_seconds",
			Help:    "HTTP request latency by route",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
	}
}

func (m *Metrics) IncrementCompositions() {
	m.Compositions.Inc()
}

// ObserveCopy records a clipboard publish outcome.
func (m *Metrics) ObserveCopy(result string) {
	m.CopyAttempts.WithLabelValues(result).Inc()
}

func (m *Metrics) IncrementValidationFailure(field string) {
	m.ValidationFailures.WithLabelValues(field).Inc()
}

func (m *Metrics) IncrementLogoResizes() {
	m.LogoResizes.Inc()
}

// ObserveRequest records one served HTTP request.
func (m *Metrics) ObserveRequest(method, route string, status int, d time.Duration) {
	m.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.HTTPDuration.WithLabelValues(route).Observe(d.Seconds())
}

// Registry returns the registry the metrics are registered on.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
