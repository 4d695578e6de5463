package models

import (
	"math"

	"github.com/shopspring/decimal"
)

// Quantiles are the pessimistic, median and optimistic estimates of a stat.
type Quantiles struct {
	Q10 float64 `json:"q10"`
	Q50 float64 `json:"q50"`
	Q90 float64 `json:"q90"`
}

// Ordered reports whether Q10 <= Q50 <= Q90.
func (q Quantiles) Ordered() bool {
	return q.Q10 <= q.Q50 && q.Q50 <= q.Q90
}

// Finite reports whether every quantile is a finite number.
func (q Quantiles) Finite() bool {
	for _, v := range []float64{q.Q10, q.Q50, q.Q90} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Width returns Q90 - Q10.
func (q Quantiles) Width() float64 {
	return q.Q90 - q.Q10
}

// Normalize clamps the quantiles at zero and restores their ordering.
func (q Quantiles) Normalize() Quantiles {
	out := Quantiles{
		Q10: math.Max(0, q.Q10),
		Q50: math.Max(0, q.Q50),
		Q90: math.Max(0, q.Q90),
	}
	if out.Q50 < out.Q10 {
		out.Q10, out.Q50 = out.Q50, out.Q10
	}
	if out.Q90 < out.Q50 {
		out.Q90 = out.Q50
	}
	return out
}

// PredictionResult is the full output of one scenario evaluation. The engine
// hands it out by value and keeps no reference to it.
type PredictionResult struct {
	PlayerName      string            `json:"player"`
	Position        Position          `json:"position"`
	Team            string            `json:"team"`
	Stat            StatKey           `json:"stat"`
	Direction       Direction         `json:"bet_type"`
	Threshold       float64           `json:"threshold"`
	Quantiles       Quantiles         `json:"prediction"`
	WinProbability  float64           `json:"win_probability"`
	ExpectedValue   float64           `json:"expected_value"`
	ExpectedProfit  decimal.Decimal   `json:"expected_profit"`
	ConfidenceLevel ConfidenceLevel   `json:"confidence_level"`
	Recommendation  Recommendation    `json:"recommendation"`
	StatDisplayName string            `json:"stat_display_name"`
	StatUnit        string            `json:"stat_unit"`
	Context         PredictionContext `json:"context"`
	GamesAnalyzed   int               `json:"games_analyzed"`
	Predictor       string            `json:"predictor"`
	Warning         string            `json:"warning,omitempty"`
}

// PredictionRecord is the flat form handed to JSON and database callers.
type PredictionRecord struct {
	Player          string  `json:"player"`
	Position        string  `json:"position"`
	Team            string  `json:"team"`
	BetType         string  `json:"bet_type"`
	Threshold       float64 `json:"threshold"`
	Q10             float64 `json:"q10"`
	Q50             float64 `json:"q50"`
	Q90             float64 `json:"q90"`
	WinProbability  float64 `json:"win_probability"`
	ExpectedValue   float64 `json:"expected_value"`
	ExpectedProfit  string  `json:"expected_profit"`
	ConfidenceLevel string  `json:"confidence_level"`
	Recommendation  string  `json:"recommendation"`
	StatDisplayName string  `json:"stat_display_name"`
	StatUnit        string  `json:"stat_unit"`
	GamesAnalyzed   int     `json:"games_analyzed"`
	Season          int     `json:"season"`
	Week            int     `json:"week"`
	Warning         string  `json:"warning,omitempty"`
}

// Record flattens the result, rounding for display.
func (r PredictionResult) Record() PredictionRecord {
	return PredictionRecord{
		Player:          r.PlayerName,
		Position:        string(r.Position),
		Team:            r.Team,
		BetType:         string(r.Direction),
		Threshold:       r.Threshold,
		Q10:             round(r.Quantiles.Q10, 2),
		Q50:             round(r.Quantiles.Q50, 2),
		Q90:             round(r.Quantiles.Q90, 2),
		WinProbability:  round(r.WinProbability, 3),
		ExpectedValue:   round(r.ExpectedValue, 3),
		ExpectedProfit:  r.ExpectedProfit.StringFixed(2),
		ConfidenceLevel: string(r.ConfidenceLevel),
		Recommendation:  string(r.Recommendation),
		StatDisplayName: r.StatDisplayName,
		StatUnit:        r.StatUnit,
		GamesAnalyzed:   r.GamesAnalyzed,
		Season:          r.Context.Season,
		Week:            r.Context.Week,
		Warning:         r.Warning,
	}
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
