package main

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/hedge-bets/internal/config"
	"github.com/yourusername/hedge-bets/internal/database"
	"github.com/yourusername/hedge-bets/internal/engine"
	"github.com/yourusername/hedge-bets/internal/evaluator"
	"github.com/yourusername/hedge-bets/internal/history"
	"github.com/yourusername/hedge-bets/internal/httpclient"
	"github.com/yourusername/hedge-bets/internal/predictor"
	"github.com/yourusername/hedge-bets/internal/recommend"
	"github.com/yourusername/hedge-bets/internal/repository"
)

// buildPredictor returns the configured strategy, wrapped in the quantile
// cache when enabled. The returned cleanup releases remote connections.
func buildPredictor(cfg *config.Config, log *logrus.Logger) (predictor.Predictor, func(), error) {
	var (
		p       predictor.Predictor
		cleanup = func() {}
	)

	switch cfg.Predictor.Kind {
	case "weighted":
		p = predictor.NewWeightedPredictor(predictor.WeightedConfig{
			HalfLife:          cfg.Predictor.HalfLife,
			PriorSeasonWeight: cfg.Predictor.PriorSeasonWeight,
			PriorWeight:       cfg.Predictor.PriorWeight,
			PlayoffMultiplier: cfg.Predictor.PlayoffMultiplier,
			TeamMultipliers:   cfg.Predictor.TeamMultipliers,
		})
	case "remote":
		rc := cfg.Predictor.Remote
		client := httpclient.DefaultConfig()
		client.Timeout = time.Duration(rc.TimeoutSeconds) * time.Second
		client.MaxRetries = rc.RetryAttempts
		client.RateLimit = rc.RateLimit
		client.Burst = rc.Burst
		client.CircuitBreakerMax = rc.CircuitBreakerMax
		client.CircuitCooldown = time.Duration(rc.CircuitCooldownSeconds) * time.Second

		remote := predictor.NewRemotePredictor(predictor.RemoteConfig{
			BaseURL: rc.URL,
			APIKey:  rc.APIKey,
			Client:  client,
		}, log)
		p = remote
		cleanup = func() {
			if err := remote.Close(); err != nil {
				log.WithError(err).Warn("Failed to close remote predictor")
			}
		}
	default:
		return nil, nil, fmt.Errorf("unknown predictor kind %q", cfg.Predictor.Kind)
	}

	if cfg.Predictor.Cache.Enabled {
		qc := predictor.NewQuantileCache(cfg.CacheTTL(), cfg.Predictor.Cache.MaxSize)
		p = predictor.NewCachedPredictor(p, qc, log)
	}

	log.WithFields(logrus.Fields{
		"predictor": p.Name(),
		"cached":    cfg.Predictor.Cache.Enabled,
	}).Info("Predictor initialized")
	return p, cleanup, nil
}

// buildEngine assembles the prediction facade from configuration.
func buildEngine(cfg *config.Config, log *logrus.Logger) (*engine.Engine, func(), error) {
	ev, err := evaluator.New(evaluator.Config{
		MinProbability: cfg.Evaluator.MinProbability,
		HighMaxSpread:  cfg.Evaluator.HighConfidenceMaxSpread,
		LowMinSpread:   cfg.Evaluator.LowConfidenceMinSpread,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("invalid evaluator configuration: %w", err)
	}

	rec, err := recommend.New(recommend.Config{
		StrongProbability: cfg.Recommendation.StrongProbability,
		WeakProbability:   cfg.Recommendation.WeakProbability,
		EVEpsilon:         cfg.Recommendation.EVEpsilon,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("invalid recommendation configuration: %w", err)
	}

	p, cleanup, err := buildPredictor(cfg, log)
	if err != nil {
		return nil, nil, err
	}

	eng := engine.New(engine.Config{
		Timeout:         cfg.PredictorTimeout(),
		MinGamesWarning: cfg.Predictor.MinGamesWarning,
	}, p, ev, rec, log)
	return eng, cleanup, nil
}

// storage bundles the history store, scenario repository and the optional
// database they share.
type storage struct {
	store     history.Store
	scenarios repository.ScenarioRepository
	db        *database.DB
}

func (s *storage) Close() {
	if s.db != nil {
		s.db.Close()
	}
}

// buildStorage connects to PostgreSQL when enabled. Without a database,
// history comes from the JSON file and scenarios are kept in memory.
func buildStorage(ctx context.Context, cfg *config.Config, log *logrus.Logger) (*storage, error) {
	s := &storage{}

	if cfg.Database.Enabled {
		db, err := database.Initialize(ctx, cfg, log)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		s.db = db

		repos, err := repository.NewRepositories(db)
		if err != nil {
			db.Close()
			return nil, err
		}
		s.scenarios = repos.Scenario
	} else {
		s.scenarios = repository.NewMemoryRepositories().Scenario
		log.Warn("Database disabled, scenarios are kept in memory only")
	}

	switch cfg.History.Source {
	case "postgres":
		s.store = history.NewPostgresStore(s.db)
	default:
		fs, err := history.LoadFile(cfg.History.FilePath)
		if err != nil {
			s.Close()
			return nil, err
		}
		s.store = fs
	}

	log.WithFields(logrus.Fields{
		"history_source": cfg.History.Source,
		"database":       cfg.Database.Enabled,
	}).Info("Storage initialized")
	return s, nil
}
