package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "restaurant_reservation",
			Name:      "http_requests_total",
			Help:      "HTTP requests by endpoint.",
		},
		[]string{"endpoint"},
	)

	seatings = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "restaurant_reservation",
			Name:      "seatings_total",
			Help:      "Seat and complete operations by result.",
		},
		[]string{"operation", "result"},
	)
)

// Register registers Prometheus metrics. Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(httpRequests, seatings)
	})
}

// IncHTTP increments the counter for an endpoint label.
func IncHTTP(endpoint string) {
	httpRequests.WithLabelValues(endpoint).Inc()
}

// IncSeating increments the seat/complete counter for an outcome.
func IncSeating(operation, result string) {
	seatings.WithLabelValues(operation, result).Inc()
}
