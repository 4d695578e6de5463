package history

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/hedge-bets/internal/database"
	"github.com/yourusername/hedge-bets/internal/logger"
	"github.com/yourusername/hedge-bets/internal/models"
)

var loadPlayerColumns = []string{"player_id", "display_name", "position", "current_team", "jersey_number"}

// loadGameColumns is the key columns followed by one column per stat key.
var loadGameColumns = func() []string {
	cols := []string{"player_id", "season", "week", "season_type"}
	for _, k := range models.AllStatKeys() {
		cols = append(cols, string(k))
	}
	return cols
}()

// LoadOptions narrows what a load writes.
type LoadOptions struct {
	// Years keeps only games from these seasons. Empty loads every season.
	Years []int
	// SkipPlayers leaves the players table untouched.
	SkipPlayers bool
	// Clear empties both tables before loading.
	Clear bool
}

// LoadResult counts what a load wrote.
type LoadResult struct {
	PlayersUpserted int
	PlayersSkipped  int
	GamesUpserted   int
	GamesSkipped    int
	Cleared         bool
}

// Summary returns a one-line description of the load.
func (r LoadResult) Summary() string {
	return fmt.Sprintf("players=%d players_skipped=%d games=%d games_skipped=%d cleared=%t",
		r.PlayersUpserted, r.PlayersSkipped, r.GamesUpserted, r.GamesSkipped, r.Cleared)
}

// Loader copies a validated dataset into players and player_game_stats.
type Loader struct {
	db     *database.DB
	logger *logrus.Logger
}

// NewLoader creates a loader over an open pool.
func NewLoader(db *database.DB, log *logrus.Logger) *Loader {
	if log == nil {
		log = logger.Discard()
	}
	return &Loader{db: db, logger: log}
}

// Load upserts the dataset in one transaction. Rows are bulk copied into
// temporary staging tables and merged on their primary keys, so loading the
// same data twice leaves the tables unchanged. Players outside QB/RB/WR/TE
// are skipped, as are games for players missing from the players table.
func (l *Loader) Load(ctx context.Context, ds Dataset, opts LoadOptions) (LoadResult, error) {
	store, err := NewFileStore(ds)
	if err != nil {
		return LoadResult{}, err
	}

	var result LoadResult
	players := store.playerRows(&result)
	games := store.gameRows(opts.Years)

	err = l.db.WithTransaction(ctx, func(tx pgx.Tx) error {
		if opts.Clear {
			if _, err := tx.Exec(ctx, `DELETE FROM player_game_stats`); err != nil {
				return fmt.Errorf("failed to clear game stats: %w", err)
			}
			if _, err := tx.Exec(ctx, `DELETE FROM players`); err != nil {
				return fmt.Errorf("failed to clear players: %w", err)
			}
			result.Cleared = true
		}

		if !opts.SkipPlayers {
			n, err := upsertPlayers(ctx, tx, players)
			if err != nil {
				return err
			}
			result.PlayersUpserted = n
		} else {
			result.PlayersSkipped += len(players)
		}

		n, err := upsertGames(ctx, tx, games)
		if err != nil {
			return err
		}
		result.GamesUpserted = n
		result.GamesSkipped = len(games) - n
		return nil
	})
	if err != nil {
		return LoadResult{}, err
	}

	l.logger.WithFields(logrus.Fields{
		"players":         result.PlayersUpserted,
		"players_skipped": result.PlayersSkipped,
		"games":           result.GamesUpserted,
		"games_skipped":   result.GamesSkipped,
		"cleared":         result.Cleared,
		"years":           opts.Years,
	}).Info("History loaded")
	return result, nil
}

func (s *FileStore) playerRows(result *LoadResult) [][]interface{} {
	rows := make([][]interface{}, 0, len(s.players))
	for _, p := range s.players {
		if !p.Position.Valid() {
			result.PlayersSkipped++
			continue
		}
		var team, jersey interface{}
		if p.Team != "" {
			team = p.Team
		}
		if p.JerseyNumber != nil {
			jersey = int32(*p.JerseyNumber)
		}
		rows = append(rows, []interface{}{p.ID, p.DisplayName, string(p.Position), team, jersey})
	}
	return rows
}

// gameRows flattens every history into stat columns, leaving unreported
// stats NULL. A later record for the same game replaces an earlier one.
func (s *FileStore) gameRows(years []int) [][]interface{} {
	keep := make(map[int]bool, len(years))
	for _, y := range years {
		keep[y] = true
	}

	ids := make([]string, 0, len(s.games))
	for id := range s.games {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	keys := models.AllStatKeys()
	var rows [][]interface{}
	for _, id := range ids {
		index := make(map[string]int)
		for _, g := range s.games[id] {
			if len(keep) > 0 && !keep[g.Season] {
				continue
			}
			row := []interface{}{id, int32(g.Season), int32(g.Week), string(g.SeasonType)}
			for _, k := range keys {
				if v, ok := g.Value(k); ok {
					row = append(row, v)
				} else {
					row = append(row, nil)
				}
			}

			key := fmt.Sprintf("%d/%d/%s", g.Season, g.Week, g.SeasonType)
			if i, ok := index[key]; ok {
				rows[i] = row
				continue
			}
			index[key] = len(rows)
			rows = append(rows, row)
		}
	}
	return rows
}

func upsertPlayers(ctx context.Context, tx pgx.Tx, rows [][]interface{}) (int, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	if err := stage(ctx, tx, "players", "players_stage", loadPlayerColumns, rows); err != nil {
		return 0, err
	}

	tag, err := tx.Exec(ctx, `
		INSERT INTO players (player_id, display_name, position, current_team, jersey_number)
		SELECT player_id, display_name, position, current_team, jersey_number FROM players_stage
		ON CONFLICT (player_id) DO UPDATE SET
			display_name = EXCLUDED.display_name,
			position = EXCLUDED.position,
			current_team = EXCLUDED.current_team,
			jersey_number = EXCLUDED.jersey_number
	`)
	if err != nil {
		return 0, fmt.Errorf("failed to upsert players: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

func upsertGames(ctx context.Context, tx pgx.Tx, rows [][]interface{}) (int, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	if err := stage(ctx, tx, "player_game_stats", "player_game_stats_stage", loadGameColumns, rows); err != nil {
		return 0, err
	}

	selected := make([]string, len(loadGameColumns))
	updates := make([]string, 0, len(loadGameColumns))
	for i, c := range loadGameColumns {
		selected[i] = "s." + c
		if i >= 4 {
			updates = append(updates, c+" = EXCLUDED."+c)
		}
	}

	query := `
		INSERT INTO player_game_stats (` + strings.Join(loadGameColumns, ", ") + `)
		SELECT ` + strings.Join(selected, ", ") + `
		FROM player_game_stats_stage s
		JOIN players p ON p.player_id = s.player_id
		ON CONFLICT (player_id, season, week, season_type) DO UPDATE SET
			` + strings.Join(updates, ",\n\t\t\t")

	tag, err := tx.Exec(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("failed to upsert game stats: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

// stage creates a transaction-scoped copy of table's shape and bulk copies
// rows into it.
func stage(ctx context.Context, tx pgx.Tx, table, stageTable string, columns []string, rows [][]interface{}) error {
	create := `CREATE TEMP TABLE ` + stageTable + ` (LIKE ` + table + ` INCLUDING DEFAULTS) ON COMMIT DROP`
	if _, err := tx.Exec(ctx, create); err != nil {
		return fmt.Errorf("failed to create %s: %w", stageTable, err)
	}

	count, err := tx.CopyFrom(ctx, pgx.Identifier{stageTable}, columns, pgx.CopyFromRows(rows))
	if err != nil {
		return fmt.Errorf("failed to copy into %s: %w", stageTable, err)
	}
	if count != int64(len(rows)) {
		return fmt.Errorf("copied %d rows into %s, expected %d", count, stageTable, len(rows))
	}
	return nil
}
