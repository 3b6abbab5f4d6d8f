// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// Scoring metrics
	ScoresComputed *prometheus.CounterVec
	ScoreDuration  prometheus.Histogram
	FinalScore     prometheus.Histogram

	// Reputation scan metrics
	LabelLookups *prometheus.CounterVec
	ScamFlagged  prometheus.Counter
	ScanDuration prometheus.Histogram

	// Ingestion metrics
	IngestRuns         *prometheus.CounterVec
	TransactionsStored prometheus.Counter
	TransfersStored    prometheus.Counter

	// Storage metrics
	StoreReadErrors *prometheus.CounterVec

	// Cache metrics
	CacheRequests *prometheus.CounterVec
}

// NewMetrics creates a new Metrics instance with all metrics registered.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "wallet_scoring"
	}

	return &Metrics{
		ScoresComputed: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "scoring",
			Name:      "scores_computed_total",
			Help:      "Total number of scoring requests by outcome",
		}, []string{"status"}),
		ScoreDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "scoring",
			Name:      "score_duration_seconds",
			Help:      "End-to-end scoring duration in seconds",
			Buckets:   []float64{0.01, 0.1, 0.5, 1, 5, 15, 30, 60},
		}),
		FinalScore: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "scoring",
			Name:      "final_score",
			Help:      "Distribution of computed composite scores",
			Buckets:   []float64{10, 20, 30, 40, 50, 60, 70, 80, 90, 100},
		}),

		LabelLookups: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "reputation",
			Name:      "label_lookups_total",
			Help:      "Total number of label service lookups by outcome",
		}, []string{"status"}),
		ScamFlagged: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "reputation",
			Name:      "scam_counterparties_flagged_total",
			Help:      "Total number of counterparties classified as scam",
		}),
		ScanDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "reputation",
			Name:      "scan_duration_seconds",
			Help:      "Counterparty scan duration in seconds",
			Buckets:   []float64{0.1, 1, 5, 15, 30, 60, 120},
		}),

		IngestRuns: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingestion",
			Name:      "runs_total",
			Help:      "Total number of ingestion runs by status",
		}, []string{"status"}),
		TransactionsStored: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingestion",
			Name:      "transactions_stored_total",
			Help:      "Total number of transactions persisted",
		}),
		TransfersStored: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingestion",
			Name:      "token_transfers_stored_total",
			Help:      "Total number of token transfers persisted",
		}),

		StoreReadErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "storage",
			Name:      "read_errors_total",
			Help:      "Total number of store read failures degraded to empty results",
		}, []string{"store"}),

		CacheRequests: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "requests_total",
			Help:      "Total number of score cache requests by outcome",
		}, []string{"outcome"}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// DefaultMetrics is the default metrics instance.
var DefaultMetrics = NewMetrics("")

// RecordScoreComputed records one scoring request outcome and its score.
func RecordScoreComputed(status string, finalScore float64, seconds float64) {
	DefaultMetrics.ScoresComputed.WithLabelValues(status).Inc()
	DefaultMetrics.ScoreDuration.Observe(seconds)
	if status == "ok" {
		DefaultMetrics.FinalScore.Observe(finalScore)
	}
}

// RecordLabelLookup records one label service lookup outcome.
func RecordLabelLookup(status string) {
	DefaultMetrics.LabelLookups.WithLabelValues(status).Inc()
}

// RecordScamFlagged increments the flagged counterparty counter.
func RecordScamFlagged() {
	DefaultMetrics.ScamFlagged.Inc()
}

// RecordScanDuration records a counterparty scan duration.
func RecordScanDuration(seconds float64) {
	DefaultMetrics.ScanDuration.Observe(seconds)
}

// RecordIngestRun records one ingestion run and its stored row counts.
func RecordIngestRun(status string, txCount, transferCount int) {
	DefaultMetrics.IngestRuns.WithLabelValues(status).Inc()
	DefaultMetrics.TransactionsStored.Add(float64(txCount))
	DefaultMetrics.TransfersStored.Add(float64(transferCount))
}

// RecordStoreReadError records a store read failure degraded to empty.
func RecordStoreReadError(store string) {
	DefaultMetrics.StoreReadErrors.WithLabelValues(store).Inc()
}

// RecordCacheRequest records a score cache hit, miss, or error.
func RecordCacheRequest(outcome string) {
	DefaultMetrics.CacheRequests.WithLabelValues(outcome).Inc()
}
