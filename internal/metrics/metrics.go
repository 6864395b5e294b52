package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "auth_service",
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "auth_service",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "auth_service",
			Name:      "http_requests_in_flight",
			Help:      "Number of HTTP requests currently being processed",
		},
	)

	// Business metrics
	LoginAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "auth_service",
			Name:      "login_attempts_total",
			Help:      "Total number of login attempts",
		},
		[]string{"status"}, // success, invalid_credentials
	)

	RegistrationsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "auth_service",
			Name:      "registrations_total",
			Help:      "Total number of user registrations",
		},
	)

	// Password reset token lifecycle. The sweep counter is the observability
	// outlet for the bulk-delete count returned by the token store.
	ResetTokensIssuedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "auth_service",
			Name:      "reset_tokens_issued_total",
			Help:      "Password reset tokens issued",
		},
	)

	ResetTokensConsumedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "auth_service",
			Name:      "reset_tokens_consumed_total",
			Help:      "Password reset tokens redeemed successfully",
		},
	)

	ResetTokensSweptTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "auth_service",
			Name:      "reset_tokens_swept_total",
			Help:      "Expired password reset tokens removed by the opportunistic sweep",
		},
	)
)
