// Package engine sequences stat resolution, quantile prediction, outcome
// evaluation and recommendation into one call per betting scenario.
package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/hedge-bets/internal/evaluator"
	"github.com/yourusername/hedge-bets/internal/logger"
	"github.com/yourusername/hedge-bets/internal/metrics"
	"github.com/yourusername/hedge-bets/internal/models"
	"github.com/yourusername/hedge-bets/internal/oddsmath"
	"github.com/yourusername/hedge-bets/internal/predictor"
	"github.com/yourusername/hedge-bets/internal/recommend"
	"github.com/yourusername/hedge-bets/internal/stats"
)

// Config holds facade settings.
type Config struct {
	// Timeout bounds model inference.
	Timeout time.Duration
	// MinGamesWarning is the history length below which a warning is attached.
	MinGamesWarning int
}

// DefaultConfig returns the production settings.
func DefaultConfig() Config {
	return Config{
		Timeout:         2 * time.Second,
		MinGamesWarning: 3,
	}
}

// Engine is safe for concurrent use; it holds no per-call state.
type Engine struct {
	cfg         Config
	predictor   predictor.Predictor
	evaluator   *evaluator.Evaluator
	recommender *recommend.Recommender
	log         *logger.PredictionLogger
}

// New creates an Engine. A nil logger discards output.
func New(cfg Config, p predictor.Predictor, ev *evaluator.Evaluator, rec *recommend.Recommender, log *logrus.Logger) *Engine {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultConfig().Timeout
	}
	if cfg.MinGamesWarning <= 0 {
		cfg.MinGamesWarning = DefaultConfig().MinGamesWarning
	}
	if log == nil {
		log = logger.Discard()
	}
	return &Engine{
		cfg:         cfg,
		predictor:   p,
		evaluator:   ev,
		recommender: rec,
		log:         logger.NewPredictionLogger(log),
	}
}

// PredictorName reports the configured model.
func (e *Engine) PredictorName() string { return e.predictor.Name() }

// PredictFromScenario prices one scenario against the player's history,
// ordered most-recent-last. The first failure is returned unchanged.
func (e *Engine) PredictFromScenario(ctx context.Context, s *models.BettingScenario, history []models.GameRecord, pctx models.PredictionContext) (models.PredictionResult, error) {
	start := time.Now()
	e.log.LogPredictionRequest(s, len(history))

	result, reasoning, err := e.predict(ctx, s, history, pctx)
	if err != nil {
		metrics.RecordPredictionError(models.ErrorKind(err))
		e.log.LogPredictionError(s.PlayerName, s.Action, err)
		return models.PredictionResult{}, err
	}

	elapsed := time.Since(start)
	metrics.RecordPrediction(result.Predictor, string(result.Stat), string(result.Direction),
		string(result.Recommendation), result.WinProbability, elapsed.Seconds())
	if result.Warning != "" {
		metrics.RecordLowSampleWarning()
		e.log.LogLowSample(result.PlayerName, result.Stat, result.GamesAnalyzed, e.cfg.MinGamesWarning)
	}
	e.log.LogPredictionResult(&result, reasoning, float64(elapsed.Microseconds())/1000)
	return result, nil
}

func (e *Engine) predict(ctx context.Context, s *models.BettingScenario, history []models.GameRecord, pctx models.PredictionContext) (models.PredictionResult, string, error) {
	if err := s.Validate(); err != nil {
		return models.PredictionResult{}, "", err
	}

	stat, err := stats.Resolve(s.Action, s.Position)
	if err != nil {
		return models.PredictionResult{}, "", err
	}

	threshold := s.ThresholdFloat()
	played := models.GamesWithStat(history, stat)
	q, err := e.runPredictor(ctx, predictor.Input{
		Stat:      stat,
		Position:  s.Position,
		Team:      s.Team,
		History:   history,
		Season:    pctx.Season,
		Week:      pctx.Week,
		IsPlayoff: pctx.IsPlayoff,
	})
	if err != nil {
		return models.PredictionResult{}, "", err
	}

	outcome, err := e.evaluator.Evaluate(q, s.Direction, threshold, s.AmericanOdds)
	if err != nil {
		return models.PredictionResult{}, "", err
	}

	decision := e.recommender.Decide(outcome.WinProbability, outcome.ExpectedValue, outcome.Confidence)

	result := models.PredictionResult{
		PlayerName:      s.PlayerName,
		Position:        s.Position,
		Team:            s.Team,
		Stat:            stat,
		Direction:       s.Direction,
		Threshold:       threshold,
		Quantiles:       q,
		WinProbability:  outcome.WinProbability,
		ExpectedValue:   outcome.ExpectedValue,
		ExpectedProfit:  oddsmath.ExpectedProfit(s.Stake, outcome.ExpectedValue),
		ConfidenceLevel: outcome.Confidence,
		Recommendation:  decision.Recommendation,
		StatDisplayName: stats.DisplayName(stat),
		StatUnit:        stats.Unit(stat),
		Context:         pctx,
		GamesAnalyzed:   played,
		Predictor:       e.predictor.Name(),
		Warning:         e.lowSampleWarning(played),
	}
	return result, decision.Reasoning(), nil
}

type predictOutcome struct {
	q   models.Quantiles
	err error
}

// runPredictor bounds inference by the configured timeout even when the
// predictor ignores its context.
func (e *Engine) runPredictor(ctx context.Context, in predictor.Input) (models.Quantiles, error) {
	ctx, cancel := context.WithTimeout(ctx, e.cfg.Timeout)
	defer cancel()

	done := make(chan predictOutcome, 1)
	go func() {
		q, err := e.predictor.Predict(ctx, in)
		done <- predictOutcome{q: q, err: err}
	}()

	select {
	case out := <-done:
		if out.err != nil {
			return models.Quantiles{}, e.classify(ctx, out.err)
		}
		return out.q, nil
	case <-ctx.Done():
		return models.Quantiles{}, e.classify(ctx, ctx.Err())
	}
}

// classify passes domain errors through untouched and maps everything else
// to a timeout or an internal fault.
func (e *Engine) classify(ctx context.Context, err error) error {
	if models.ErrorKind(err) != "internal" || errors.Is(err, models.ErrInternal) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return &models.PredictionTimeoutError{Predictor: e.predictor.Name(), Budget: e.cfg.Timeout.String()}
	}
	if errors.Is(err, context.Canceled) {
		return err
	}
	return &models.InternalError{Op: "predict", Err: err}
}

func (e *Engine) lowSampleWarning(games int) string {
	if games == 0 || games >= e.cfg.MinGamesWarning {
		return ""
	}
	return fmt.Sprintf("Limited data available. Only %d games found. Predictions may be less accurate.", games)
}
