package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/yourusername/hedge-bets/internal/database"
	"github.com/yourusername/hedge-bets/internal/models"
)

const scenarioColumns = `
	id, team, player, player_position, bet_type, action, action_amount, bet_amount, american_odds,
	created_at, stat, q10, q50, q90, prediction_score, expected_value, expected_profit,
	confidence_level, recommendation, games_analyzed, season, week, warning, is_processed`

// PostgresScenarioRepository implements ScenarioRepository for PostgreSQL
type PostgresScenarioRepository struct {
	db *database.DB
}

// NewPostgresScenarioRepository creates a new scenario repository
func NewPostgresScenarioRepository(db *database.DB) ScenarioRepository {
	return &PostgresScenarioRepository{db: db}
}

// Create inserts a scenario with its prediction columns
func (r *PostgresScenarioRepository) Create(ctx context.Context, s *models.BettingScenario, result *models.PredictionResult) error {
	prepare(s)
	rec := newRecord(s, result)

	query := `
		INSERT INTO betting_scenarios (` + scenarioColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17,
		        $18, $19, $20, $21, $22, $23, $24)
	`

	var (
		stat, confidence, recommendation, warning *string
		q10, q50, q90, score, ev                  *float64
		profit                                    decimal.NullDecimal
		games, season, week                       *int
	)
	if p := rec.Prediction; p != nil {
		statKey := string(rec.Stat)
		stat, confidence, recommendation = &statKey, &p.ConfidenceLevel, &p.Recommendation
		q10, q50, q90, score, ev = &p.Q10, &p.Q50, &p.Q90, &p.WinProbability, &p.ExpectedValue
		games, season, week = &p.GamesAnalyzed, &p.Season, &p.Week
		if p.Warning != "" {
			warning = &p.Warning
		}
		profit = decimal.NullDecimal{Decimal: result.ExpectedProfit, Valid: true}
	}

	_, err := r.db.Exec(ctx, query,
		s.ID, s.Team, s.PlayerName, s.Position, s.Direction, s.Action, s.Threshold, s.Stake, s.AmericanOdds,
		s.CreatedAt, stat, q10, q50, q90, score, ev, profit,
		confidence, recommendation, games, season, week, warning, rec.IsProcessed,
	)
	if err != nil {
		return fmt.Errorf("failed to create betting scenario: %w", err)
	}

	return nil
}

// GetByID retrieves a scenario by ID
func (r *PostgresScenarioRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.ScenarioRecord, error) {
	query := `SELECT ` + scenarioColumns + ` FROM betting_scenarios WHERE id = $1`

	rec, err := scanScenario(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: betting scenario %s", models.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get betting scenario: %w", err)
	}

	return rec, nil
}

// List retrieves scenarios newest first
func (r *PostgresScenarioRepository) List(ctx context.Context, limit, offset int) ([]*models.ScenarioRecord, error) {
	limit, offset = normalizeLimit(limit, offset)
	query := `SELECT ` + scenarioColumns + ` FROM betting_scenarios
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2`

	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query betting scenarios: %w", err)
	}
	defer rows.Close()

	records := []*models.ScenarioRecord{}
	for rows.Next() {
		rec, err := scanScenario(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan betting scenario: %w", err)
		}
		records = append(records, rec)
	}

	return records, rows.Err()
}

func scanScenario(row pgx.Row) (*models.ScenarioRecord, error) {
	var (
		rec                                       models.ScenarioRecord
		position, direction                       string
		stat, confidence, recommendation, warning *string
		q10, q50, q90, score, ev                  *float64
		profit                                    decimal.NullDecimal
		games, season, week                       *int
	)
	s := &rec.BettingScenario

	err := row.Scan(
		&s.ID, &s.Team, &s.PlayerName, &position, &direction, &s.Action, &s.Threshold, &s.Stake, &s.AmericanOdds,
		&s.CreatedAt, &stat, &q10, &q50, &q90, &score, &ev, &profit,
		&confidence, &recommendation, &games, &season, &week, &warning, &rec.IsProcessed,
	)
	if err != nil {
		return nil, err
	}
	s.Position = models.Position(position)
	s.Direction = models.Direction(direction)

	if stat != nil && q50 != nil {
		rec.Stat = models.StatKey(*stat)
		threshold, _ := s.Threshold.Float64()
		rec.Prediction = &models.PredictionRecord{
			Player:          s.PlayerName,
			Position:        position,
			Team:            s.Team,
			BetType:         direction,
			Threshold:       threshold,
			Q10:             deref(q10),
			Q50:             *q50,
			Q90:             deref(q90),
			WinProbability:  deref(score),
			ExpectedValue:   deref(ev),
			ExpectedProfit:  profit.Decimal.StringFixed(2),
			ConfidenceLevel: derefString(confidence),
			Recommendation:  derefString(recommendation),
			GamesAnalyzed:   derefInt(games),
			Season:          derefInt(season),
			Week:            derefInt(week),
			Warning:         derefString(warning),
		}
		fillStatLabels(&rec)
	}

	return &rec, nil
}

func deref(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

func derefInt(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}

func derefString(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
