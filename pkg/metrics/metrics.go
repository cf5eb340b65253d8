package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder holds the gateway's Prometheus metrics.
type Recorder struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	uploadsTotal    *prometheus.CounterVec
	stagedBytes     prometheus.Histogram
}

// Option configures the Recorder.
type Option func(*config)

type config struct {
	namespace string
	buckets   []float64
	registry  prometheus.Registerer
}

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) Option {
	return func(c *config) { c.namespace = namespace }
}

// WithBuckets sets the histogram buckets for request duration.
func WithBuckets(buckets []float64) Option {
	return func(c *config) { c.buckets = buckets }
}

// WithRegistry sets the Prometheus registry. Defaults to the global one.
func WithRegistry(registry prometheus.Registerer) Option {
	return func(c *config) {
		if registry != nil {
			c.registry = registry
		}
	}
}

// NewRecorder registers and returns the gateway metrics.
func NewRecorder(opts ...Option) *Recorder {
	cfg := &config{
		namespace: "gateway",
		buckets:   prometheus.DefBuckets,
		registry:  prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	factory := promauto.With(cfg.registry)

	return &Recorder{
		requestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: cfg.namespace,
			Name:      "http_requests_total",
			Help:      "Total HTTP requests by path and status code",
		}, []string{"path", "status"}),

		requestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: cfg.namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   cfg.buckets,
		}, []string{"path"}),

		uploadsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: cfg.namespace,
			Name:      "uploads_total",
			Help:      "Upload requests by terminal lifecycle state",
		}, []string{"state"}),

		stagedBytes: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: cfg.namespace,
			Name:      "staged_file_bytes",
			Help:      "Size of staged upload files in bytes",
			Buckets:   []float64{1 << 10, 64 << 10, 1 << 20, 16 << 20, 64 << 20, 100 << 20},
		}),
	}
}

// RecordRequest records one HTTP request.
func (r *Recorder) RecordRequest(path string, status int, seconds float64) {
	r.requestsTotal.WithLabelValues(path, statusLabel(status)).Inc()
	r.requestDuration.WithLabelValues(path).Observe(seconds)
}

// RecordUpload records an upload request's terminal state.
func (r *Recorder) RecordUpload(state string) {
	r.uploadsTotal.WithLabelValues(state).Inc()
}

// RecordStagedBytes records the size of a staged file.
func (r *Recorder) RecordStagedBytes(n int64) {
	r.stagedBytes.Observe(float64(n))
}

// statusLabel keeps label cardinality at the status-class level.
func statusLabel(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
