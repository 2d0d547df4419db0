// Package metrics holds the Prometheus collectors exported at /metrics.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lifeguard_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status_code"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "lifeguard_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"method", "route"},
	)

	AuthRejections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lifeguard_auth_rejections_total",
			Help: "Rejected init-data authentications by failure kind",
		},
		[]string{"kind"},
	)

	AccountsProvisioned = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "lifeguard_accounts_provisioned_total",
			Help: "Accounts created on first sign-in",
		},
	)

	IdentityConflicts = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "lifeguard_identity_conflicts_total",
			Help: "Concurrent first sign-ins resolved to the winning account",
		},
	)

	BotUpdates = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lifeguard_bot_updates_total",
			Help: "Telegram bot updates handled by command or callback",
		},
		[]string{"kind", "name"},
	)
)

// RecordHTTPRequest records one finished request.
func RecordHTTPRequest(method, route string, status int, d time.Duration) {
	HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	HTTPRequestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}
