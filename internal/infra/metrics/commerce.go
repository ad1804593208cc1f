package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func init() {
	register(
		commerceRequestsTotal,
		commerceRequestDuration,
		commerceTokenRefreshTotal,
	)
}

var (
	commerceRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "commerce_requests_total",
			Help: "Commerce API calls by operation and outcome.",
		},
		[]string{"op", "outcome"},
	)

	commerceRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "commerce_request_duration_seconds",
			Help:    "Commerce API call latency.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"op"},
	)

	commerceTokenRefreshTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "commerce_token_refresh_total",
			Help: "Credential-grant token exchanges performed.",
		},
	)
)

// ObserveCommerceRequest records one finished commerce API call.
func ObserveCommerceRequest(op, outcome string, elapsed time.Duration) {
	commerceRequestsTotal.WithLabelValues(op, outcome).Inc()
	commerceRequestDuration.WithLabelValues(op).Observe(elapsed.Seconds())
}

func IncTokenRefresh() {
	commerceTokenRefreshTotal.Inc()
}
