package predictor

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strconv"
	"sync/atomic"
	"time"

	cache "github.com/patrickmn/go-cache"

	"github.com/yourusername/hedge-bets/internal/metrics"
	"github.com/yourusername/hedge-bets/internal/models"
)

// QuantileCache provides in-memory caching for quantile predictions
type QuantileCache struct {
	cache     *cache.Cache
	ttl       time.Duration
	maxSize   int
	hitCount  atomic.Uint64
	missCount atomic.Uint64
}

// NewQuantileCache creates a new quantile cache
func NewQuantileCache(ttl time.Duration, maxSize int) *QuantileCache {
	return &QuantileCache{
		cache:   cache.New(ttl, ttl*2),
		ttl:     ttl,
		maxSize: maxSize,
	}
}

// Get retrieves cached quantiles
func (qc *QuantileCache) Get(key string) (models.Quantiles, bool) {
	if v, found := qc.cache.Get(key); found {
		if q, ok := v.(models.Quantiles); ok {
			qc.hitCount.Add(1)
			qc.updateMetrics(true)
			return q, true
		}
	}
	qc.missCount.Add(1)
	qc.updateMetrics(false)
	return models.Quantiles{}, false
}

// Set stores quantiles in cache
func (qc *QuantileCache) Set(key string, q models.Quantiles) {
	if qc.maxSize > 0 && qc.cache.ItemCount() >= qc.maxSize {
		qc.cache.DeleteExpired()
		if qc.cache.ItemCount() >= qc.maxSize {
			return
		}
	}
	qc.cache.Set(key, q, qc.ttl)
}

// Clear flushes the entire cache
func (qc *QuantileCache) Clear() {
	qc.cache.Flush()
	qc.hitCount.Store(0)
	qc.missCount.Store(0)
}

// Stats returns cache statistics
func (qc *QuantileCache) Stats() (hits, misses uint64, ratio float64) {
	hits = qc.hitCount.Load()
	misses = qc.missCount.Load()
	if total := hits + misses; total > 0 {
		ratio = float64(hits) / float64(total)
	}
	return
}

// ItemCount returns the number of items in cache
func (qc *QuantileCache) ItemCount() int {
	return qc.cache.ItemCount()
}

func (qc *QuantileCache) updateMetrics(hit bool) {
	_, _, ratio := qc.Stats()
	metrics.RecordCacheLookup(hit, ratio)
}

// Fingerprint returns a stable SHA-256 key for the input as seen by the
// named predictor.
func Fingerprint(predictor string, in Input) string {
	h := sha256.New()
	fmt.Fprintf(h, "%s|%s|%s|%s|%d|%d|%t|%d\n",
		predictor, in.Stat, in.Position, in.Team, in.Season, in.Week, in.IsPlayoff, len(in.History))

	keys := make([]string, 0, 8)
	for _, g := range in.History {
		fmt.Fprintf(h, "%d:%d:%s", g.Season, g.Week, g.SeasonType)
		keys = keys[:0]
		for k := range g.Stats {
			keys = append(keys, string(k))
		}
		sort.Strings(keys)
		for _, k := range keys {
			h.Write([]byte("|" + k + "="))
			h.Write([]byte(strconv.FormatFloat(g.Stats[models.StatKey(k)], 'g', -1, 64)))
		}
		h.Write([]byte("\n"))
	}
	return hex.EncodeToString(h.Sum(nil))
}
