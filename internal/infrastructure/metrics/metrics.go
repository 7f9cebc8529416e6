package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics.
type Metrics struct {
	// Transfer metrics
	TransfersCompleted prometheus.Counter
	TransfersRejected  *prometheus.CounterVec
	TransferDuration   prometheus.Histogram
	TransferAmount     prometheus.Histogram
	IdempotentReplays  prometheus.Counter

	// Account metrics
	AccountsCreated prometheus.Counter
	FundingsApplied prometheus.Counter

	// API metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Rate limiting metrics
	RateLimitHits *prometheus.CounterVec
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		TransfersCompleted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "coreledger_transfers_completed_total",
			Help: "Total number of transfers completed",
		}),
		TransfersRejected: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "coreledger_transfers_rejected_total",
				Help: "Total number of transfers rejected by reason",
			},
			[]string{"reason"},
		),
		TransferDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "coreledger_transfer_duration_seconds",
			Help:    "Duration of transfer operations",
			Buckets: prometheus.DefBuckets,
		}),
		TransferAmount: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "coreledger_transfer_amount",
			Help:    "Transfer amounts",
			Buckets: []float64{1, 10, 100, 1000, 10000, 100000, 1000000},
		}),
		IdempotentReplays: promauto.NewCounter(prometheus.CounterOpts{
			Name: "coreledger_idempotent_replays_total",
			Help: "Total number of transfer requests answered from a prior outcome",
		}),

		AccountsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "coreledger_accounts_created_total",
			Help: "Total number of accounts created",
		}),
		FundingsApplied: promauto.NewCounter(prometheus.CounterOpts{
			Name: "coreledger_fundings_applied_total",
			Help: "Total number of funding entries appended",
		}),

		HTTPRequests: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "coreledger_http_requests_total",
				Help: "Total HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "coreledger_http_duration_seconds",
				Help:    "HTTP request duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),

		RateLimitHits: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "coreledger_rate_limit_hits_total",
				Help: "Total rate limit hits",
			},
			[]string{"ip"},
		),
	}
}
