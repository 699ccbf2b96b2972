package actai

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics instruments outgoing API calls.
type Metrics struct {
	requestDuration *prometheus.HistogramVec
	requests        *prometheus.CounterVec
}

// NewMetrics registers the client metrics with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		requestDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "actai_client_request_duration_seconds",
				Help:    "ActAI API request duration in seconds",
				Buckets: prometheus.ExponentialBuckets(0.005, 2, 12), // 5ms to ~10s
			},
			[]string{"method", "endpoint", "status"},
		),
		requests: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "actai_client_requests_total",
				Help: "ActAI API requests by outcome",
			},
			[]string{"endpoint", "outcome"}, // outcome: ok, api_error, transport_error
		),
	}
}

func (m *Metrics) observe(method, endpoint string, status int, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	code := "none"
	if status > 0 {
		code = strconv.Itoa(status)
	}
	m.requestDuration.WithLabelValues(method, endpoint, code).Observe(d.Seconds())
	m.requests.WithLabelValues(endpoint, outcome).Inc()
}
