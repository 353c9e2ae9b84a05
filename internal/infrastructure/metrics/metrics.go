package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Account metrics
	AccountsCreated   prometheus.Counter
	AccountOperations *prometheus.CounterVec

	// Transaction metrics
	TransactionsFunded   prometheus.Counter
	TransactionsReleased prometheus.Counter
	TransactionsRefunded prometheus.Counter
	TransactionAmount    prometheus.Histogram
	TransactionErrors    *prometheus.CounterVec

	// Dispute metrics
	DisputesOpened       prometheus.Counter
	DisputeEventsAdded   prometheus.Counter
	OpenDisputesByReason *prometheus.GaugeVec

	// Overview metrics
	OverviewBuilds    prometheus.Counter
	OverviewCacheHits prometheus.Counter
	OverviewDuration  prometheus.Histogram

	// API metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Database metrics
	DBQueries     *prometheus.CounterVec
	DBDuration    *prometheus.HistogramVec
	DBConnections prometheus.Gauge
	DBErrors      *prometheus.CounterVec

	// Redis metrics
	RedisOperations *prometheus.CounterVec
	RedisErrors     *prometheus.CounterVec

	// Authentication metrics
	AuthAttempts *prometheus.CounterVec
	AuthFailures *prometheus.CounterVec

	// Rate limiting metrics
	RateLimitHits *prometheus.CounterVec

	// Activity log metrics
	ActivityEntriesCreated *prometheus.CounterVec
}

// New creates and registers all Prometheus metrics
func New() *Metrics {
	return NewWithRegistry(nil)
}

// NewWithRegistry registers metrics on the given registry. A nil registry
// uses the default one.
func NewWithRegistry(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		// Account metrics
		AccountsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "gigvora_escrow_accounts_created_total",
			Help: "Total number of escrow accounts created",
		}),
		AccountOperations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gigvora_escrow_account_operations_total",
				Help: "Total account operations by type",
			},
			[]string{"operation"},
		),

		// Transaction metrics
		TransactionsFunded: factory.NewCounter(prometheus.CounterOpts{
			Name: "gigvora_escrow_transactions_funded_total",
			Help: "Total number of transactions funded into escrow",
		}),
		TransactionsReleased: factory.NewCounter(prometheus.CounterOpts{
			Name: "gigvora_escrow_transactions_released_total",
			Help: "Total number of transactions released",
		}),
		TransactionsRefunded: factory.NewCounter(prometheus.CounterOpts{
			Name: "gigvora_escrow_transactions_refunded_total",
			Help: "Total number of transactions refunded",
		}),
		TransactionAmount: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "gigvora_escrow_transaction_amount",
			Help:    "Gross transaction amounts",
			Buckets: []float64{10, 100, 500, 1000, 5000, 10000, 50000, 100000},
		}),
		TransactionErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gigvora_escrow_transaction_errors_total",
				Help: "Total number of transaction errors by type",
			},
			[]string{"error_type"},
		),

		// Dispute metrics
		DisputesOpened: factory.NewCounter(prometheus.CounterOpts{
			Name: "gigvora_escrow_disputes_opened_total",
			Help: "Total number of disputes opened",
		}),
		DisputeEventsAdded: factory.NewCounter(prometheus.CounterOpts{
			Name: "gigvora_escrow_dispute_events_total",
			Help: "Total number of dispute timeline events appended",
		}),
		OpenDisputesByReason: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "gigvora_escrow_open_disputes",
				Help: "Currently open disputes by reason code",
			},
			[]string{"reason_code"},
		),

		// Overview metrics
		OverviewBuilds: factory.NewCounter(prometheus.CounterOpts{
			Name: "gigvora_escrow_overview_builds_total",
			Help: "Total number of overview snapshots built from the database",
		}),
		OverviewCacheHits: factory.NewCounter(prometheus.CounterOpts{
			Name: "gigvora_escrow_overview_cache_hits_total",
			Help: "Total number of overview requests served from cache",
		}),
		OverviewDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "gigvora_escrow_overview_duration_seconds",
			Help:    "Duration of overview builds",
			Buckets: prometheus.DefBuckets,
		}),

		// API metrics
		HTTPRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gigvora_escrow_http_requests_total",
				Help: "Total HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "gigvora_escrow_http_duration_seconds",
				Help:    "HTTP request duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),

		// Database metrics
		DBQueries: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gigvora_escrow_db_queries_total",
				Help: "Total database queries",
			},
			[]string{"operation", "table"},
		),
		DBDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "gigvora_escrow_db_query_duration_seconds",
				Help:    "Database query duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation", "table"},
		),
		DBConnections: factory.NewGauge(prometheus.GaugeOpts{
			Name: "gigvora_escrow_db_connections",
			Help: "Current number of database connections",
		}),
		DBErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gigvora_escrow_db_errors_total",
				Help: "Total database errors",
			},
			[]string{"operation"},
		),

		// Redis metrics
		RedisOperations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gigvora_escrow_redis_operations_total",
				Help: "Total Redis operations",
			},
			[]string{"operation"},
		),
		RedisErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gigvora_escrow_redis_errors_total",
				Help: "Total Redis errors",
			},
			[]string{"operation"},
		),

		// Authentication metrics
		AuthAttempts: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gigvora_escrow_auth_attempts_total",
				Help: "Total authentication attempts",
			},
			[]string{"status"},
		),
		AuthFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gigvora_escrow_auth_failures_total",
				Help: "Total authentication failures",
			},
			[]string{"reason"},
		),

		// Rate limiting metrics
		RateLimitHits: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gigvora_escrow_rate_limit_hits_total",
				Help: "Total rate limit hits",
			},
			[]string{"ip"},
		),

		// Activity log metrics
		ActivityEntriesCreated: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gigvora_escrow_activity_entries_total",
				Help: "Total activity log entries created",
			},
			[]string{"action", "status"},
		),
	}
}
