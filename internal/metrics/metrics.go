package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	relayRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "chatrelay",
		Name:      "relay_requests_total",
		Help:      "Relay requests by relay and outcome.",
	}, []string{"relay", "outcome"})

	relayDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "chatrelay",
		Name:      "relay_duration_seconds",
		Help:      "Time spent handling relay requests, backend call included.",
		Buckets:   prometheus.ExponentialBuckets(0.05, 2, 10),
	}, []string{"relay"})
)

func init() {
	prometheus.MustRegister(relayRequests, relayDuration)
}

// Observe records one relay request. outcome is "ok" or the error kind.
func Observe(relay, outcome string, elapsed time.Duration) {
	relayRequests.WithLabelValues(relay, outcome).Inc()
	relayDuration.WithLabelValues(relay).Observe(elapsed.Seconds())
}

// Handler exposes the default registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.Handler()
}
