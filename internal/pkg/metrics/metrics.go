package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	HTTPRequests        *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	Quotes              *prometheus.CounterVec
	Orders              prometheus.Counter
	Spins               *prometheus.CounterVec
	SpinRejections      *prometheus.CounterVec
	WalletCredits       prometheus.Counter
	ArchiveFailures     prometheus.Counter
}

// New registers all collectors on reg. Tests pass a fresh
// prometheus.NewRegistry() to avoid duplicate registration.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		HTTPRequests: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "washday_http_requests_total",
				Help: "Total HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		HTTPRequestDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "washday_http_request_duration_seconds",
				Help:    "HTTP request latency",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		Quotes: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "washday_quotes_total",
				Help: "Delivery quotes computed, by speed label",
			},
			[]string{"speed_label"},
		),
		Orders: f.NewCounter(
			prometheus.CounterOpts{
				Name: "washday_orders_created_total",
				Help: "Orders persisted",
			},
		),
		Spins: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "washday_spins_total",
				Help: "Settled spins, by segment",
			},
			[]string{"segment"},
		),
		SpinRejections: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "washday_spin_rejections_total",
				Help: "Rejected spin requests, by reason",
			},
			[]string{"reason"},
		),
		WalletCredits: f.NewCounter(
			prometheus.CounterOpts{
				Name: "washday_wallet_credits_total",
				Help: "Operator wallet top-ups",
			},
		),
		ArchiveFailures: f.NewCounter(
			prometheus.CounterOpts{
				Name: "washday_spin_archive_failures_total",
				Help: "Spin records that could not be archived to PostgreSQL",
			},
		),
	}
}

// NewNop returns collectors registered on a private registry.
func NewNop() *Metrics {
	return New(prometheus.NewRegistry())
}
