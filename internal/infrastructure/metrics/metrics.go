package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Account metrics
	AccountsOpened prometheus.Counter
	OpeningBalance prometheus.Histogram

	// Transaction metrics
	TransactionsApplied *prometheus.CounterVec
	TransactionErrors   *prometheus.CounterVec
	TransactionDuration prometheus.Histogram
	TransactionAmount   prometheus.Histogram

	// Statement and balance metrics
	BalanceLookups   prometheus.Counter
	StatementQueries prometheus.Counter
	BalanceCacheHits *prometheus.CounterVec

	// Database metrics
	DBRetries     prometheus.Counter
	DBConnections prometheus.Gauge

	// Reconciliation metrics
	ConsistencyChecks     prometheus.Counter
	ConsistencyMismatches prometheus.Gauge
}

// New creates and registers all Prometheus metrics
func New() *Metrics {
	return &Metrics{
		// Account metrics
		AccountsOpened: promauto.NewCounter(prometheus.CounterOpts{
			Name: "accountsvc_accounts_opened_total",
			Help: "Total number of bank accounts opened",
		}),
		OpeningBalance: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "accountsvc_opening_balance",
			Help:    "Opening balances of newly created accounts",
			Buckets: []float64{1000, 5000, 10000, 50000, 100000, 1000000},
		}),

		// Transaction metrics
		TransactionsApplied: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "accountsvc_transactions_applied_total",
				Help: "Total number of transactions applied by kind",
			},
			[]string{"kind"},
		),
		TransactionErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "accountsvc_transaction_errors_total",
				Help: "Total number of transaction failures by type",
			},
			[]string{"error_type"},
		),
		TransactionDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "accountsvc_transaction_duration_seconds",
			Help:    "Duration of transaction processing",
			Buckets: prometheus.DefBuckets,
		}),
		TransactionAmount: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "accountsvc_transaction_amount",
			Help:    "Transaction amounts",
			Buckets: []float64{1, 10, 100, 1000, 10000, 100000, 1000000},
		}),

		// Statement and balance metrics
		BalanceLookups: promauto.NewCounter(prometheus.CounterOpts{
			Name: "accountsvc_balance_lookups_total",
			Help: "Total number of balance lookups",
		}),
		StatementQueries: promauto.NewCounter(prometheus.CounterOpts{
			Name: "accountsvc_statement_queries_total",
			Help: "Total number of mini statement queries",
		}),
		BalanceCacheHits: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "accountsvc_balance_cache_total",
				Help: "Balance cache lookups by outcome",
			},
			[]string{"outcome"},
		),

		// Database metrics
		DBRetries: promauto.NewCounter(prometheus.CounterOpts{
			Name: "accountsvc_db_retries_total",
			Help: "Total database operations retried after contention",
		}),
		DBConnections: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "accountsvc_db_connections",
			Help: "Current number of database connections",
		}),

		// Reconciliation metrics
		ConsistencyChecks: promauto.NewCounter(prometheus.CounterOpts{
			Name: "accountsvc_consistency_checks_total",
			Help: "Total number of ledger consistency checks",
		}),
		ConsistencyMismatches: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "accountsvc_consistency_mismatches",
			Help: "Accounts whose balance disagreed with their activity log at last check",
		}),
	}
}
