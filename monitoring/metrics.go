package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HttpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	ResponseTimeHistogram = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_response_time_seconds",
			Help:    "Histogram of response times",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	PaymentsConfirmedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payments_confirmed_total",
			Help: "Payment confirmations that actually flipped the paid flag, by path (poll/webhook)",
		},
		[]string{"path"},
	)

	WebhooksRejectedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "webhooks_rejected_total",
			Help: "Webhook deliveries rejected due to invalid signature",
		},
	)

	WithdrawalsApprovedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "withdrawals_approved_total",
			Help: "Approved withdrawal requests",
		},
	)
)
