package service

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/hedge-bets/internal/history"
	"github.com/yourusername/hedge-bets/internal/logger"
	"github.com/yourusername/hedge-bets/internal/metrics"
	"github.com/yourusername/hedge-bets/internal/models"
)

// ContextTracker caches the season and week being predicted. The scheduler
// refreshes it; request handlers only read it.
type ContextTracker struct {
	store    history.Store
	fallback models.PredictionContext
	logger   *logrus.Logger
	audit    *logger.AuditLogger

	mu      sync.RWMutex
	current models.PredictionContext
}

// NewContextTracker starts at fallback until the first Refresh.
func NewContextTracker(store history.Store, fallback models.PredictionContext, log *logrus.Logger) *ContextTracker {
	if log == nil {
		log = logger.Discard()
	}
	return &ContextTracker{
		store:    store,
		fallback: fallback,
		logger:   log,
		audit:    logger.NewAuditLogger(log),
		current:  fallback,
	}
}

// Current returns the cached context.
func (t *ContextTracker) Current() models.PredictionContext {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.current
}

// Refresh re-derives the context from the latest game on file. On failure the
// previous value is kept and the error returned.
func (t *ContextTracker) Refresh(ctx context.Context) (models.PredictionContext, error) {
	next, err := history.CurrentContext(ctx, t.store, t.fallback)
	if err != nil {
		t.logger.WithError(err).Warn("Failed to refresh prediction context, keeping previous value")
		return t.Current(), err
	}

	t.mu.Lock()
	prev := t.current
	t.current = next
	t.mu.Unlock()

	metrics.UpdatePredictionContext(next.Season, next.Week)
	if prev != next {
		t.audit.LogConfigChange("prediction_context",
			logrus.Fields{"season": prev.Season, "week": prev.Week},
			logrus.Fields{"season": next.Season, "week": next.Week},
			"context_refresh")
	}
	return next, nil
}
