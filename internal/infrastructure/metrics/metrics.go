package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the ledger-level Prometheus metrics. HTTP-level metrics
// live in the middleware package.
type Metrics struct {
	AccountsOpened   prometheus.Counter
	LedgerOperations *prometheus.CounterVec
	LedgerErrors     *prometheus.CounterVec
	MovementAmount   *prometheus.HistogramVec
}

// New creates and registers all ledger metrics.
func New() *Metrics {
	return &Metrics{
		AccountsOpened: promauto.NewCounter(prometheus.CounterOpts{
			Name: "gobank_accounts_opened_total",
			Help: "Total number of accounts opened",
		}),
		LedgerOperations: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gobank_ledger_operations_total",
				Help: "Total ledger operations by kind",
			},
			[]string{"kind"},
		),
		LedgerErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gobank_ledger_errors_total",
				Help: "Total failed ledger operations by kind",
			},
			[]string{"kind"},
		),
		MovementAmount: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "gobank_movement_amount",
				Help:    "Movement amounts by kind",
				Buckets: []float64{1, 10, 100, 1000, 10000, 100000, 1000000},
			},
			[]string{"kind"},
		),
	}
}
