package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// AuthRequests counts authenticated requests by terminal status class.
	AuthRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "portal",
		Subsystem: "auth",
		Name:      "requests_total",
		Help:      "Authenticated requests by final HTTP status class.",
	}, []string{"code"})

	// AuthRetries counts requests replayed after a token refresh.
	AuthRetries = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "portal",
		Subsystem: "auth",
		Name:      "retries_total",
		Help:      "Requests retried once after a 401 refresh.",
	})

	// AuthRefreshes counts refresh attempts by outcome.
	AuthRefreshes = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "portal",
		Subsystem: "auth",
		Name:      "refreshes_total",
		Help:      "Token refresh attempts by outcome.",
	}, []string{"outcome"})
)

func init() {
	Prom.registry.MustRegister(AuthRequests, AuthRetries, AuthRefreshes)
}
