package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsRegistry(t *testing.T) {
	InitRegistry()
	registry := GetRegistry()

	assert.NotNil(t, registry)
	assert.IsType(t, &prometheus.Registry{}, registry)
	assert.Same(t, registry, InitRegistry())
}

// scrape renders the registry the way Prometheus would read it.
func scrape(t *testing.T) string {
	t.Helper()
	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	return rec.Body.String()
}

func TestRecordPrediction(t *testing.T) {
	InitRegistry()

	assert.NotPanics(t, func() {
		RecordPrediction("weighted", "passing_yards", "over", "Strong Bet", 0.87, 0.002)
	})
	body := scrape(t)
	assert.Contains(t, body, `hedge_bets_predictions_total{recommendation="Strong Bet",stat="passing_yards"}`)
	assert.Contains(t, body, `hedge_bets_prediction_duration_seconds_count{predictor="weighted"}`)
}

func TestRecordPredictionError(t *testing.T) {
	InitRegistry()

	tests := []struct {
		name string
		kind string
	}{
		{name: "invalid stat", kind: "invalid_stat"},
		{name: "insufficient data", kind: "insufficient_data"},
		{name: "timeout", kind: "prediction_timeout"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			RecordPredictionError(tt.kind)
			assert.Contains(t, scrape(t), `hedge_bets_prediction_errors_total{kind="`+tt.kind+`"}`)
		})
	}
}

func TestRecordCacheLookup(t *testing.T) {
	InitRegistry()

	RecordCacheLookup(true, 0.75)
	assert.Contains(t, scrape(t), "hedge_bets_predictor_cache_hit_ratio 0.75")

	RecordCacheLookup(false, 0.5)
	assert.Contains(t, scrape(t), "hedge_bets_predictor_cache_hit_ratio 0.5")
}

func TestUpdatePredictionContext(t *testing.T) {
	InitRegistry()

	UpdatePredictionContext(2025, 9)
	body := scrape(t)
	assert.Contains(t, body, "hedge_bets_current_season 2025")
	assert.Contains(t, body, "hedge_bets_current_week 9")
}

func TestMetricsHandler(t *testing.T) {
	InitRegistry()
	RecordHTTPRequest("/api/v1/predictions", http.StatusOK, 0.01)
	RecordLowSampleWarning()
	RecordScenarioPersisted()
	RecordRemotePrediction("success", 0.2)

	assert.Implements(t, (*http.Handler)(nil), Handler())

	body := scrape(t)
	assert.Contains(t, body, "hedge_bets_http_requests_total")
	assert.Contains(t, body, "hedge_bets_low_sample_warnings_total")
	assert.True(t, strings.Contains(body, "hedge_bets_remote_predictor_latency_seconds_bucket"))
}

func BenchmarkRecordPrediction(b *testing.B) {
	InitRegistry()

	for i := 0; i < b.N; i++ {
		RecordPrediction("weighted", "receptions", "under", "Pass", 0.5, 0.001)
	}
}
