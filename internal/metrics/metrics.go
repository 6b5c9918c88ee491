// Package metrics exposes Prometheus instrumentation for the devportal.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the devportal metric set.
type Metrics struct {
	httpRequests *prometheus.HistogramVec
	inFlight     prometheus.Gauge

	SlugProbes   *prometheus.CounterVec
	Submissions  *prometheus.CounterVec
	Translations prometheus.Counter
}

// New creates the metric set registered against the given registerer.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		httpRequests: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "devportal_http_request_duration_seconds",
			Help:    "HTTP request latency by method, path, and status.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path", "status"}),
		inFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "devportal_http_requests_in_flight",
			Help: "HTTP requests currently being served.",
		}),
		SlugProbes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "devportal_slug_probes_total",
			Help: "Slug availability probes by outcome.",
		}, []string{"outcome"}),
		Submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "devportal_account_submissions_total",
			Help: "Developer account submissions by outcome.",
		}, []string{"outcome"}),
		Translations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "devportal_translation_lookups_total",
			Help: "Batched app translation lookups served.",
		}),
	}

	reg.MustRegister(m.httpRequests, m.inFlight, m.SlugProbes, m.Submissions, m.Translations)
	return m
}

// RecordHTTPRequest records one served request.
func (m *Metrics) RecordHTTPRequest(method, path, status string, duration time.Duration) {
	m.httpRequests.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

// IncrementInFlight marks a request as started.
func (m *Metrics) IncrementInFlight() { m.inFlight.Inc() }

// DecrementInFlight marks a request as finished.
func (m *Metrics) DecrementInFlight() { m.inFlight.Dec() }
