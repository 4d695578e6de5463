// Package metrics provides the centralized Prometheus registry for the prediction service.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "hedge_bets"

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	PredictionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "predictions_total",
		Help:      "Total number of completed predictions by stat and recommendation",
	}, []string{"stat", "recommendation"})
	PredictionErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "prediction_errors_total",
		Help:      "Total number of failed predictions by error kind",
	}, []string{"kind"})
	LowSampleWarningsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "low_sample_warnings_total",
		Help:      "Total number of predictions made from fewer games than recommended",
	})
	ScenariosPersistedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "scenarios_persisted_total",
		Help:      "Total number of betting scenarios written to storage",
	})
)

// Histogram metrics
var (
	PredictionDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "prediction_duration_seconds",
		Help:      "Duration of end-to-end scenario predictions in seconds",
		Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5},
	}, []string{"predictor"})
	WinProbability = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "win_probability",
		Help:      "Distribution of computed win probabilities",
		Buckets:   []float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 1.0},
	}, []string{"direction"})
)

// Gauge metrics
var (
	CurrentSeason = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "current_season",
		Help:      "Season used as default prediction context",
	})
	CurrentWeek = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "current_week",
		Help:      "Week used as default prediction context",
	})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		// Register prediction metrics
		registry.MustRegister(PredictionsTotal)
		registry.MustRegister(PredictionErrorsTotal)
		registry.MustRegister(LowSampleWarningsTotal)
		registry.MustRegister(ScenariosPersistedTotal)
		registry.MustRegister(PredictionDuration)
		registry.MustRegister(WinProbability)
		registry.MustRegister(CurrentSeason)
		registry.MustRegister(CurrentWeek)

		// Register predictor metrics
		registry.MustRegister(PredictorCacheHitRatio)
		registry.MustRegister(PredictorCacheLookupsTotal)
		registry.MustRegister(RemotePredictorRequestsTotal)
		registry.MustRegister(RemotePredictorLatency)

		// Register HTTP metrics
		registry.MustRegister(HTTPRequestsTotal)
		registry.MustRegister(HTTPRequestDuration)
	})
	return registry
}

// GetRegistry returns the global Prometheus registry.
func GetRegistry() *prometheus.Registry {
	return InitRegistry()
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.HandlerFor(GetRegistry(), promhttp.HandlerOpts{})
}

// RecordPrediction records a completed prediction.
func RecordPrediction(predictor, stat, direction, recommendation string, winProbability, durationSeconds float64) {
	PredictionsTotal.WithLabelValues(stat, recommendation).Inc()
	WinProbability.WithLabelValues(direction).Observe(winProbability)
	PredictionDuration.WithLabelValues(predictor).Observe(durationSeconds)
}

// RecordPredictionError records a failed prediction by error kind.
func RecordPredictionError(kind string) {
	PredictionErrorsTotal.WithLabelValues(kind).Inc()
}

// RecordLowSampleWarning records a prediction made on a short history.
func RecordLowSampleWarning() {
	LowSampleWarningsTotal.Inc()
}

// RecordScenarioPersisted records a scenario write.
func RecordScenarioPersisted() {
	ScenariosPersistedTotal.Inc()
}

// UpdatePredictionContext sets the default season and week gauges.
func UpdatePredictionContext(season, week int) {
	CurrentSeason.Set(float64(season))
	CurrentWeek.Set(float64(week))
}
