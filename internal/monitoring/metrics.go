package monitoring

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	ClassificationsTotal *prometheus.CounterVec
	BatchItemsTotal      *prometheus.CounterVec
	BatchSize            prometheus.Histogram
	RateLimitedTotal     prometheus.Counter
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
}

// NewMetrics registers the application metrics on a private registry
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		ClassificationsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "scraper_classifications_total",
			Help: "The total number of URL classifications",
		}, []string{"site", "confidence"}),
		BatchItemsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "scraper_batch_items_total",
			Help: "The total number of batch items processed",
		}, []string{"site", "status"}), // status: success, failure
		BatchSize: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "scraper_batch_size",
			Help:    "Number of URLs received per batch request",
			Buckets: []float64{0, 1, 2, 5, 10, 25, 50},
		}),
		RateLimitedTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "scraper_rate_limited_total",
			Help: "The total number of requests rejected by the rate limiter",
		}),
		HTTPRequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		}, []string{"method", "path", "status"}),
		HTTPRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path", "status"}),
	}
}

// Handler exposes the registry in the Prometheus text format
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.HandlerFor(prometheus.NewRegistry(), promhttp.HandlerOpts{})
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry returns the underlying registry
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

func (m *Metrics) IncClassification(site, confidence string) {
	if m == nil {
		return
	}
	m.ClassificationsTotal.WithLabelValues(site, confidence).Inc()
}

func (m *Metrics) IncBatchItem(site string, success bool) {
	if m == nil {
		return
	}
	status := "success"
	if !success {
		status = "failure"
	}
	m.BatchItemsTotal.WithLabelValues(site, status).Inc()
}

func (m *Metrics) ObserveBatchSize(n int) {
	if m == nil {
		return
	}
	m.BatchSize.Observe(float64(n))
}

func (m *Metrics) IncRateLimited() {
	if m == nil {
		return
	}
	m.RateLimitedTotal.Inc()
}

func (m *Metrics) ObserveHTTPRequest(method, path, status string, d time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path, status).Observe(d.Seconds())
}
