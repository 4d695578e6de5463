package metrics

import "github.com/prometheus/client_golang/prometheus"

// Predictor-specific metrics
var (
	PredictorCacheHitRatio = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "predictor_cache_hit_ratio",
		Help:      "Quantile prediction cache hit ratio",
	})
	PredictorCacheLookupsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "predictor_cache_lookups_total",
		Help:      "Total number of prediction cache lookups by result",
	}, []string{"result"}) // hit, miss
	RemotePredictorRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "remote_predictor_requests_total",
		Help:      "Total number of model server requests by outcome",
	}, []string{"outcome"})
	RemotePredictorLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "remote_predictor_latency_seconds",
		Help:      "Model server request latency in seconds",
		Buckets:   prometheus.DefBuckets,
	})
)

// RecordCacheLookup records a cache lookup and the current hit ratio.
func RecordCacheLookup(hit bool, ratio float64) {
	result := "miss"
	if hit {
		result = "hit"
	}
	PredictorCacheLookupsTotal.WithLabelValues(result).Inc()
	PredictorCacheHitRatio.Set(ratio)
}

// RecordRemotePrediction records a model server call.
func RecordRemotePrediction(outcome string, durationSeconds float64) {
	RemotePredictorRequestsTotal.WithLabelValues(outcome).Inc()
	RemotePredictorLatency.Observe(durationSeconds)
}
