package metrics

import "github.com/prometheus/client_golang/prometheus"

// Upstream and pipeline Prometheus metrics.
var (
	UpstreamRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "gqlframes",
			Name:      "upstream_requests_total",
			Help:      "Total number of GraphQL requests sent upstream",
		},
		[]string{"datasource", "operation", "status"},
	)

	UpstreamRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "gqlframes",
			Name:      "upstream_request_duration_seconds",
			Help:      "Upstream GraphQL request duration in seconds",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"datasource", "operation"},
	)

	FramesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "gqlframes",
			Name:      "frames_total",
			Help:      "Total number of frames produced",
		},
		[]string{"datasource"},
	)

	DocumentsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "gqlframes",
			Name:      "documents_total",
			Help:      "Total number of documents extracted from responses",
		},
		[]string{"datasource"},
	)
)

var upstreamMetricsRegistered bool

// RegisterUpstreamMetrics registers upstream and pipeline metrics. Must be called once from main.
func RegisterUpstreamMetrics() {
	if upstreamMetricsRegistered {
		return
	}
	prometheus.MustRegister(UpstreamRequestsTotal)
	prometheus.MustRegister(UpstreamRequestDuration)
	prometheus.MustRegister(FramesTotal)
	prometheus.MustRegister(DocumentsTotal)
	upstreamMetricsRegistered = true
}
