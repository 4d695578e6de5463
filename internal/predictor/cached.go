package predictor

import (
	"context"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/hedge-bets/internal/models"
)

// CachedPredictor wraps a Predictor with quantile caching. Errors are never
// cached.
type CachedPredictor struct {
	next   Predictor
	cache  *QuantileCache
	logger *logrus.Entry
}

// NewCachedPredictor creates a caching decorator
func NewCachedPredictor(next Predictor, qc *QuantileCache, logger *logrus.Logger) *CachedPredictor {
	if logger == nil {
		logger = logrus.New()
		logger.SetOutput(io.Discard)
	}
	return &CachedPredictor{
		next:   next,
		cache:  qc,
		logger: logger.WithField("component", "predictor_cache"),
	}
}

// Name implements Predictor, reporting the wrapped model.
func (c *CachedPredictor) Name() string { return c.next.Name() }

// Predict implements Predictor.
func (c *CachedPredictor) Predict(ctx context.Context, in Input) (models.Quantiles, error) {
	key := Fingerprint(c.next.Name(), in)
	if q, ok := c.cache.Get(key); ok {
		c.logger.WithField("cache_key", key[:12]).Debug("Cache hit for quantiles")
		return q, nil
	}

	q, err := c.next.Predict(ctx, in)
	if err != nil {
		return models.Quantiles{}, err
	}
	c.cache.Set(key, q)
	return q, nil
}

// Stats returns cache statistics
func (c *CachedPredictor) Stats() (hits, misses uint64, ratio float64) {
	return c.cache.Stats()
}
