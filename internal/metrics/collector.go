package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "validationly"

// Collector groups the service's Prometheus instruments on a private registry.
// A nil *Collector is valid and records nothing.
type Collector struct {
	registry *prometheus.Registry

	requests         *prometheus.CounterVec
	requestDuration  *prometheus.HistogramVec
	rateLimited      prometheus.Counter
	attempts         *prometheus.CounterVec
	attemptLatency   *prometheus.HistogramVec
	degradedSections *prometheus.CounterVec
	confidence       prometheus.Histogram
}

func NewCollector() *Collector {
	reg := prometheus.NewRegistry()

	c := &Collector{
		registry: reg,
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status code.",
		}, []string{"route", "method", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   []float64{0.05, 0.1, 0.5, 1, 2.5, 5, 10, 20, 40, 80},
		}, []string{"route"}),
		rateLimited: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rate_limited_total",
			Help:      "Requests rejected by admission control.",
		}),
		attempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "inference_attempts_total",
			Help:      "Model attempts by provider, model and outcome.",
		}, []string{"provider", "model", "outcome"}),
		attemptLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "inference_attempt_duration_seconds",
			Help:      "Latency of a single model attempt.",
			Buckets:   []float64{0.25, 0.5, 1, 2, 3, 5, 8, 15, 30},
		}, []string{"provider", "model"}),
		degradedSections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "degraded_sections_total",
			Help:      "Result sections replaced by localized defaults.",
		}, []string{"section", "reason"}),
		confidence: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "inference_confidence",
			Help:      "Confidence assigned to successful cascade runs.",
			Buckets:   prometheus.LinearBuckets(50, 10, 6),
		}),
	}

	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		c.requests,
		c.requestDuration,
		c.rateLimited,
		c.attempts,
		c.attemptLatency,
		c.degradedSections,
		c.confidence,
	)

	return c
}

func (c *Collector) ObserveRequest(route, method string, status int, elapsed time.Duration) {
	if c == nil {
		return
	}
	c.requests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	c.requestDuration.WithLabelValues(route).Observe(elapsed.Seconds())
}

func (c *Collector) RateLimited() {
	if c == nil {
		return
	}
	c.rateLimited.Inc()
}

// ObserveAttempt records one model attempt. outcome is "success" or the failure kind.
func (c *Collector) ObserveAttempt(provider, model, outcome string, elapsed time.Duration) {
	if c == nil {
		return
	}
	c.attempts.WithLabelValues(provider, model, outcome).Inc()
	c.attemptLatency.WithLabelValues(provider, model).Observe(elapsed.Seconds())
}

func (c *Collector) Degraded(section, reason string) {
	if c == nil {
		return
	}
	c.degradedSections.WithLabelValues(section, reason).Inc()
}

func (c *Collector) ObserveConfidence(score int) {
	if c == nil {
		return
	}
	c.confidence.Observe(float64(score))
}

// Handler exposes the private registry in the Prometheus text format.
func (c *Collector) Handler() http.Handler {
	if c == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

func (c *Collector) Registry() *prometheus.Registry {
	if c == nil {
		return nil
	}
	return c.registry
}
