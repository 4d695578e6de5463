package logger

import (
	"github.com/sirupsen/logrus"

	"github.com/yourusername/hedge-bets/internal/models"
)

// PredictionLogger provides dedicated logging for the prediction engine.
type PredictionLogger struct {
	*logrus.Entry
}

// NewPredictionLogger creates a new prediction logger.
func NewPredictionLogger(baseLogger *logrus.Logger) *PredictionLogger {
	return &PredictionLogger{
		Entry: baseLogger.WithField("component", "prediction"),
	}
}

// LogPredictionRequest logs an incoming scenario.
func (pl *PredictionLogger) LogPredictionRequest(s *models.BettingScenario, games int) {
	pl.WithFields(logrus.Fields{
		"player":    s.PlayerName,
		"position":  s.Position,
		"team":      s.Team,
		"action":    s.Action,
		"bet_type":  s.Direction,
		"threshold": s.Threshold.String(),
		"games":     games,
	}).Debug("Prediction requested")
}

// LogPredictionResult logs a completed prediction.
func (pl *PredictionLogger) LogPredictionResult(r *models.PredictionResult, reasoning string, latencyMs float64) {
	pl.WithFields(logrus.Fields{
		"player":          r.PlayerName,
		"stat":            r.Stat,
		"bet_type":        r.Direction,
		"threshold":       r.Threshold,
		"q10":             r.Quantiles.Q10,
		"q50":             r.Quantiles.Q50,
		"q90":             r.Quantiles.Q90,
		"win_probability": r.WinProbability,
		"expected_value":  r.ExpectedValue,
		"confidence":      r.ConfidenceLevel,
		"recommendation":  r.Recommendation,
		"reasoning":       reasoning,
		"predictor":       r.Predictor,
		"latency_ms":      latencyMs,
	}).Info("Prediction completed")
}

// LogLowSample logs a prediction made from a short history.
func (pl *PredictionLogger) LogLowSample(player string, stat models.StatKey, games, minGames int) {
	pl.WithFields(logrus.Fields{
		"player":    player,
		"stat":      stat,
		"games":     games,
		"min_games": minGames,
	}).Warn("Prediction based on limited game history")
}

// LogPredictionError logs a failed prediction.
func (pl *PredictionLogger) LogPredictionError(player, action string, err error) {
	entry := pl.WithFields(logrus.Fields{
		"player":     player,
		"action":     action,
		"error_kind": models.ErrorKind(err),
		"error":      err.Error(),
	})
	if models.ErrorKind(err) == "internal" {
		entry.Error("Prediction failed")
		return
	}
	entry.Warn("Prediction rejected")
}
