// Package service wires player lookup, game history, the prediction engine
// and scenario persistence into the operations the API and CLI expose.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/hedge-bets/internal/engine"
	"github.com/yourusername/hedge-bets/internal/history"
	"github.com/yourusername/hedge-bets/internal/logger"
	"github.com/yourusername/hedge-bets/internal/metrics"
	"github.com/yourusername/hedge-bets/internal/models"
	"github.com/yourusername/hedge-bets/internal/repository"
	"github.com/yourusername/hedge-bets/internal/tracing"
)

const (
	suggestionLimit = 5
	freeAgentTeam   = "FA"
)

// PredictRequest is a proposition as a user submits it. Position and team
// come from the roster, not the request.
type PredictRequest struct {
	Player       string          `json:"player"`
	Action       string          `json:"action"`
	BetType      string          `json:"bet_type"`
	ActionAmount decimal.Decimal `json:"action_amount"`
	BetAmount    decimal.Decimal `json:"bet_amount"`
	AmericanOdds *int            `json:"american_odds,omitempty"`
	// Season and Week override the tracked context when both are set.
	Season    int  `json:"season,omitempty"`
	Week      int  `json:"week,omitempty"`
	IsPlayoff bool `json:"is_playoff,omitempty"`
}

// Prediction is a priced and stored scenario.
type Prediction struct {
	ScenarioID uuid.UUID
	Player     models.Player
	Scenario   models.BettingScenario
	Result     models.PredictionResult
}

// PredictionService handles prediction requests end to end
type PredictionService struct {
	engine    *engine.Engine
	store     history.Store
	scenarios repository.ScenarioRepository
	tracker   *ContextTracker
	games     int
	audit     *logger.AuditLogger
	logger    *logrus.Logger
}

// NewPredictionService creates a new prediction service
func NewPredictionService(
	eng *engine.Engine,
	store history.Store,
	scenarios repository.ScenarioRepository,
	tracker *ContextTracker,
	games int,
	log *logrus.Logger,
) *PredictionService {
	if games <= 0 {
		games = history.DefaultGames
	}
	if log == nil {
		log = logger.Discard()
	}
	return &PredictionService{
		engine:    eng,
		store:     store,
		scenarios: scenarios,
		tracker:   tracker,
		games:     games,
		audit:     logger.NewAuditLogger(log),
		logger:    log,
	}
}

// Predict looks the player up, prices the proposition against their recent
// games and stores the scenario with its prediction. Nothing is stored when
// any step before persistence fails.
func (s *PredictionService) Predict(ctx context.Context, req PredictRequest) (_ *Prediction, err error) {
	ctx, seg := tracing.StartSubsegment(ctx, "predict")
	defer func() { tracing.End(seg, err) }()

	if strings.TrimSpace(req.Player) == "" {
		return nil, fmt.Errorf("%w: player is required", models.ErrInvalidScenario)
	}

	player, err := s.findPlayer(ctx, req.Player)
	if err != nil {
		return nil, err
	}

	scenario := &models.BettingScenario{
		PlayerName:   player.DisplayName,
		Position:     player.Position,
		Team:         player.Team,
		Action:       req.Action,
		Direction:    models.Direction(strings.ToLower(strings.TrimSpace(req.BetType))),
		Threshold:    req.ActionAmount,
		Stake:        req.BetAmount,
		AmericanOdds: req.AmericanOdds,
	}
	if scenario.Team == "" {
		scenario.Team = freeAgentTeam
	}
	if err := scenario.Validate(); err != nil {
		return nil, err
	}

	games, err := s.store.RecentGames(ctx, player.ID, s.games)
	if err != nil {
		return nil, fmt.Errorf("failed to load game history for %s: %w", player.DisplayName, err)
	}

	result, err := s.engine.PredictFromScenario(ctx, scenario, games, s.predictionContext(req))
	if err != nil {
		return nil, err
	}

	if err := s.scenarios.Create(ctx, scenario, &result); err != nil {
		return nil, fmt.Errorf("failed to save scenario: %w", err)
	}
	metrics.RecordScenarioPersisted()
	s.audit.LogScenarioPersisted(scenario, &result)
	tracing.AddAnnotation(ctx, "stat", string(result.Stat))
	tracing.AddAnnotation(ctx, "recommendation", string(result.Recommendation))

	return &Prediction{
		ScenarioID: scenario.ID,
		Player:     player,
		Scenario:   *scenario,
		Result:     result,
	}, nil
}

// GetScenario returns a stored scenario.
func (s *PredictionService) GetScenario(ctx context.Context, id uuid.UUID) (*models.ScenarioRecord, error) {
	return s.scenarios.GetByID(ctx, id)
}

// ListScenarios returns stored scenarios newest first.
func (s *PredictionService) ListScenarios(ctx context.Context, limit, offset int) ([]*models.ScenarioRecord, error) {
	return s.scenarios.List(ctx, limit, offset)
}

// PlayersByTeam lists a team's roster, optionally by position.
func (s *PredictionService) PlayersByTeam(ctx context.Context, team string, position models.Position) ([]models.Player, error) {
	if position != "" && !position.Valid() {
		return nil, &models.InvalidPositionError{Position: string(position)}
	}
	return s.store.PlayersByTeam(ctx, team, position)
}

// SearchPlayers finds players whose name contains query.
func (s *PredictionService) SearchPlayers(ctx context.Context, query string, filter history.Filter, limit int) ([]models.Player, error) {
	if filter.Position != "" && !filter.Position.Valid() {
		return nil, &models.InvalidPositionError{Position: string(filter.Position)}
	}
	return s.store.SearchPlayers(ctx, query, filter, limit)
}

// CurrentContext reports the season and week predictions target.
func (s *PredictionService) CurrentContext() models.PredictionContext {
	return s.tracker.Current()
}

func (s *PredictionService) predictionContext(req PredictRequest) models.PredictionContext {
	if req.Season > 0 && req.Week > 0 {
		return models.PredictionContext{Season: req.Season, Week: req.Week, IsPlayoff: req.IsPlayoff}
	}
	pctx := s.tracker.Current()
	pctx.IsPlayoff = req.IsPlayoff
	return pctx
}

// findPlayer resolves a display name, attaching roster suggestions when it
// does not match anyone.
func (s *PredictionService) findPlayer(ctx context.Context, name string) (models.Player, error) {
	player, err := s.store.FindPlayer(ctx, name)
	if err == nil {
		return player, nil
	}
	if !errors.Is(err, models.ErrNotFound) {
		return models.Player{}, fmt.Errorf("failed to look up player: %w", err)
	}

	return models.Player{}, &models.PlayerNotFoundError{Name: name, Suggestions: s.suggest(ctx, name)}
}

// suggest searches by the full name, then by the last word of it.
func (s *PredictionService) suggest(ctx context.Context, name string) []string {
	queries := []string{strings.TrimSpace(name)}
	if fields := strings.Fields(name); len(fields) > 1 {
		queries = append(queries, fields[len(fields)-1])
	}

	for _, q := range queries {
		players, err := s.store.SearchPlayers(ctx, q, history.Filter{}, suggestionLimit)
		if err != nil {
			s.logger.WithError(err).Warn("Player suggestion search failed")
			return nil
		}
		if len(players) > 0 {
			names := make([]string, len(players))
			for i, p := range players {
				names[i] = p.DisplayName
			}
			return names
		}
	}
	return nil
}
