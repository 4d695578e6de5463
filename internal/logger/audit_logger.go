package logger

import (
	"github.com/sirupsen/logrus"

	"github.com/yourusername/hedge-bets/internal/models"
)

// AuditLogger provides dedicated audit trail logging.
type AuditLogger struct {
	*logrus.Entry
}

// NewAuditLogger creates a new audit logger.
func NewAuditLogger(baseLogger *logrus.Logger) *AuditLogger {
	return &AuditLogger{
		Entry: baseLogger.WithField("component", "audit"),
	}
}

// LogScenarioPersisted logs a stored betting scenario and its prediction.
func (al *AuditLogger) LogScenarioPersisted(s *models.BettingScenario, r *models.PredictionResult) {
	fields := logrus.Fields{
		"scenario_id": s.ID.String(),
		"player":      s.PlayerName,
		"action":      s.Action,
		"bet_type":    s.Direction,
		"threshold":   s.Threshold.String(),
		"stake":       s.Stake.String(),
		"created_at":  s.CreatedAt.Unix(),
	}
	if r != nil {
		fields["recommendation"] = r.Recommendation
		fields["win_probability"] = r.WinProbability
	}
	al.WithFields(fields).Info("Betting scenario recorded")
}

// LogConfigChange logs a runtime configuration change.
func (al *AuditLogger) LogConfigChange(parameterName string, oldValue, newValue interface{}, changedBy string) {
	al.WithFields(logrus.Fields{
		"parameter_name": parameterName,
		"old_value":      oldValue,
		"new_value":      newValue,
		"changed_by":     changedBy,
	}).Info("Configuration changed")
}
