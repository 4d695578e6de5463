package history

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/yourusername/hedge-bets/internal/database"
	"github.com/yourusername/hedge-bets/internal/models"
	"github.com/yourusername/hedge-bets/internal/teams"
)

// statColumns lists the player_game_stats columns in models.AllStatKeys
// order. Column names equal the stat keys.
var statColumns = func() string {
	keys := models.AllStatKeys()
	cols := make([]string, len(keys))
	for i, k := range keys {
		cols[i] = string(k) + "::float8"
	}
	return strings.Join(cols, ", ")
}()

const playerColumns = `player_id, display_name, position, current_team, jersey_number`

// PostgresStore reads players and player_game_stats.
type PostgresStore struct {
	db *database.DB
}

// NewPostgresStore creates a store over an open pool.
func NewPostgresStore(db *database.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// RecentGames implements Provider.
func (s *PostgresStore) RecentGames(ctx context.Context, playerID string, limit int) ([]models.GameRecord, error) {
	if limit <= 0 {
		limit = DefaultGames
	}
	query := `
		SELECT season, week, season_type, ` + statColumns + `
		FROM player_game_stats
		WHERE player_id = $1
		ORDER BY season DESC, week DESC
		LIMIT $2
	`

	rows, err := s.db.Query(ctx, query, playerID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query game history: %w", err)
	}
	defer rows.Close()

	var games []models.GameRecord
	for rows.Next() {
		g, err := scanGame(rows)
		if err != nil {
			return nil, err
		}
		games = append(games, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read game history: %w", err)
	}

	reverse(games)
	return games, nil
}

// scanGame converts one row, dropping NULL stats rather than zero-filling them.
func scanGame(row pgx.Row) (models.GameRecord, error) {
	keys := models.AllStatKeys()
	values := make([]*float64, len(keys))

	var season, week int
	var seasonType string
	dest := []any{&season, &week, &seasonType}
	for i := range values {
		dest = append(dest, &values[i])
	}
	if err := row.Scan(dest...); err != nil {
		return models.GameRecord{}, fmt.Errorf("failed to scan game: %w", err)
	}

	stats := make(map[models.StatKey]float64, len(keys))
	for i, v := range values {
		if v != nil {
			stats[keys[i]] = *v
		}
	}
	return models.NewGameRecord(season, week, models.SeasonType(seasonType), stats)
}

// FindPlayer implements Store.
func (s *PostgresStore) FindPlayer(ctx context.Context, name string) (models.Player, error) {
	query := `SELECT ` + playerColumns + ` FROM players
		WHERE LOWER(display_name) = LOWER($1)
		ORDER BY player_id
		LIMIT 1`

	p, err := scanPlayer(s.db.QueryRow(ctx, query, strings.TrimSpace(name)))
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Player{}, fmt.Errorf("%w: player %q", models.ErrNotFound, name)
	}
	if err != nil {
		return models.Player{}, fmt.Errorf("failed to find player: %w", err)
	}
	return p, nil
}

// SearchPlayers implements Store.
func (s *PostgresStore) SearchPlayers(ctx context.Context, query string, filter Filter, limit int) ([]models.Player, error) {
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	team := ""
	if filter.Team != "" {
		team = teams.Standardize(filter.Team)
	}
	sql := `SELECT ` + playerColumns + ` FROM players
		WHERE (display_name ILIKE '%' || $1::text || '%' OR short_name ILIKE '%' || $1::text || '%')
		  AND ($2::text = '' OR position = $2::text)
		  AND ($3::text = '' OR current_team = $3::text)
		ORDER BY display_name
		LIMIT $4`

	return s.queryPlayers(ctx, sql, escapeLike(strings.TrimSpace(query)), string(filter.Position), team, limit)
}

// PlayersByTeam implements Store.
func (s *PostgresStore) PlayersByTeam(ctx context.Context, team string, position models.Position) ([]models.Player, error) {
	sql := `SELECT ` + playerColumns + ` FROM players
		WHERE current_team = $1 AND ($2::text = '' OR position = $2::text)
		ORDER BY display_name`

	return s.queryPlayers(ctx, sql, teams.Standardize(team), string(position))
}

// LatestRegularGame implements Store.
func (s *PostgresStore) LatestRegularGame(ctx context.Context) (int, int, bool, error) {
	var season, week int
	err := s.db.QueryRow(ctx, `
		SELECT season, week FROM player_game_stats
		WHERE season_type = 'REG'
		ORDER BY season DESC, week DESC
		LIMIT 1`).Scan(&season, &week)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, 0, false, nil
	}
	if err != nil {
		return 0, 0, false, fmt.Errorf("failed to query latest game: %w", err)
	}
	return season, week, true, nil
}

func (s *PostgresStore) queryPlayers(ctx context.Context, sql string, args ...any) ([]models.Player, error) {
	rows, err := s.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query players: %w", err)
	}
	defer rows.Close()

	players := []models.Player{}
	for rows.Next() {
		p, err := scanPlayer(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan player: %w", err)
		}
		players = append(players, p)
	}
	return players, rows.Err()
}

func scanPlayer(row pgx.Row) (models.Player, error) {
	var p models.Player
	var position string
	var team *string
	if err := row.Scan(&p.ID, &p.DisplayName, &position, &team, &p.JerseyNumber); err != nil {
		return models.Player{}, err
	}
	p.Position = models.Position(position)
	if team != nil {
		p.Team = *team
	}
	return p, nil
}

// escapeLike escapes LIKE wildcards in user input.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
