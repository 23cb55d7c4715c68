package metrics

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Market selection metrics
	SelectionAnalyses = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "polysentinel_selection_analyses_total",
			Help: "Total number of market selection analyses",
		},
		[]string{"pattern", "source"}, // source: computed|cache
	)

	SelectionTradesAccepted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "polysentinel_selection_trades_accepted_total",
			Help: "Total number of trades appended to wallet histories",
		},
	)

	SelectionTradesRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "polysentinel_selection_trades_rejected_total",
			Help: "Total number of rejected trades",
		},
		[]string{"reason"}, // reason: invalid|duplicate|future
	)

	SelectionSuspicion = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "polysentinel_selection_suspicion_score",
			Help:    "Distribution of market selection suspicion scores",
			Buckets: []float64{0, 10, 20, 30, 40, 50, 60, 70, 80, 90, 100},
		},
	)

	// Correlation metrics
	CorrelationAnalyses = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "polysentinel_correlation_analyses_total",
			Help: "Total number of correlation analyses",
		},
		[]string{"impact", "source"}, // source: computed|cache
	)

	CorrelationBoost = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "polysentinel_correlation_boost",
			Help:    "Distribution of applied correlation boosts",
			Buckets: []float64{0, 2.5, 5, 10, 15, 20, 25, 30, 40, 50},
		},
	)

	CorrelationPatternsFired = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "polysentinel_correlation_patterns_fired_total",
			Help: "Total number of fired correlation patterns",
		},
		[]string{"pattern"},
	)

	EffectivenessOutcomes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "polysentinel_boost_effectiveness_total",
			Help: "Reviewed boost outcomes",
		},
		[]string{"pattern", "outcome"}, // outcome: correct|incorrect
	)

	// Shared metrics
	AnalysisDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "polysentinel_analysis_duration_seconds",
			Help:    "Analysis duration in seconds",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
		},
		[]string{"operation"},
	)

	BatchItems = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "polysentinel_batch_items_total",
			Help: "Total number of batch items processed",
		},
		[]string{"operation", "status"}, // status: success|error
	)
)

var initOnce sync.Once

// Init registers all metrics with Prometheus
func Init() {
	initOnce.Do(func() {
		prometheus.MustRegister(SelectionAnalyses)
		prometheus.MustRegister(SelectionTradesAccepted)
		prometheus.MustRegister(SelectionTradesRejected)
		prometheus.MustRegister(SelectionSuspicion)

		prometheus.MustRegister(CorrelationAnalyses)
		prometheus.MustRegister(CorrelationBoost)
		prometheus.MustRegister(CorrelationPatternsFired)
		prometheus.MustRegister(EffectivenessOutcomes)

		prometheus.MustRegister(AnalysisDuration)
		prometheus.MustRegister(BatchItems)
	})
}

// Handler returns Prometheus HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}

func source(fromCache bool) string {
	if fromCache {
		return "cache"
	}
	return "computed"
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

// RecordSelectionAnalysis records one analyzer call
func RecordSelectionAnalysis(pattern string, suspicion float64, fromCache bool, duration time.Duration) {
	SelectionAnalyses.WithLabelValues(pattern, source(fromCache)).Inc()
	AnalysisDuration.WithLabelValues("selection").Observe(duration.Seconds())
	if !fromCache {
		SelectionSuspicion.Observe(suspicion)
	}
}

// RecordTradeRejected records a rejected trade
func RecordTradeRejected(reason string) {
	SelectionTradesRejected.WithLabelValues(reason).Inc()
}

// RecordTradesAccepted records appended trades
func RecordTradesAccepted(n int) {
	SelectionTradesAccepted.Add(float64(n))
}

// RecordCorrelationAnalysis records one scorer call
func RecordCorrelationAnalysis(impact string, boost float64, patterns []string, fromCache bool, duration time.Duration) {
	CorrelationAnalyses.WithLabelValues(impact, source(fromCache)).Inc()
	AnalysisDuration.WithLabelValues("correlation").Observe(duration.Seconds())
	if fromCache {
		return
	}
	CorrelationBoost.Observe(boost)
	for _, p := range patterns {
		CorrelationPatternsFired.WithLabelValues(p).Inc()
	}
}

// RecordEffectiveness records a reviewed boost outcome
func RecordEffectiveness(pattern string, wasCorrect bool) {
	outcome := "incorrect"
	if wasCorrect {
		outcome = "correct"
	}
	EffectivenessOutcomes.WithLabelValues(pattern, outcome).Inc()
}

// RecordBatchItem records one batch slot
func RecordBatchItem(operation string, err error) {
	BatchItems.WithLabelValues(operation, status(err)).Inc()
}
