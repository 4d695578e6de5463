package history

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/yourusername/hedge-bets/internal/models"
	"github.com/yourusername/hedge-bets/internal/teams"
)

// Dataset is the on-disk form of a FileStore: a roster plus each player's
// games keyed by player ID, in any order.
type Dataset struct {
	Players []models.Player                `json:"players"`
	Games   map[string][]models.GameRecord `json:"games"`
}

// FileStore serves a Dataset from memory. It is read-only after
// construction and safe for concurrent use.
type FileStore struct {
	players []models.Player
	games   map[string][]models.GameRecord
}

// NewFileStore validates the dataset and orders every history oldest first.
func NewFileStore(ds Dataset) (*FileStore, error) {
	s := &FileStore{
		players: make([]models.Player, 0, len(ds.Players)),
		games:   make(map[string][]models.GameRecord, len(ds.Games)),
	}

	seen := make(map[string]bool, len(ds.Players))
	for _, p := range ds.Players {
		if p.ID == "" || strings.TrimSpace(p.DisplayName) == "" {
			return nil, fmt.Errorf("player entry needs an id and a name: %+v", p)
		}
		if seen[p.ID] {
			return nil, fmt.Errorf("duplicate player id %s", p.ID)
		}
		seen[p.ID] = true
		p.Team = teams.Standardize(p.Team)
		s.players = append(s.players, p)
	}
	sort.Slice(s.players, func(i, j int) bool { return s.players[i].DisplayName < s.players[j].DisplayName })

	for id, games := range ds.Games {
		validated, err := validateGames(games)
		if err != nil {
			return nil, fmt.Errorf("player %s: %w", id, err)
		}
		s.games[id] = validated
	}
	return s, nil
}

// LoadFile reads a Dataset from a JSON file.
func LoadFile(path string) (*FileStore, error) {
	ds, err := ReadDataset(path)
	if err != nil {
		return nil, err
	}
	return NewFileStore(ds)
}

// ReadDataset decodes a Dataset from a JSON file without validating it.
func ReadDataset(path string) (Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return Dataset{}, fmt.Errorf("failed to open history file: %w", err)
	}
	defer f.Close()

	var ds Dataset
	if err := json.NewDecoder(f).Decode(&ds); err != nil {
		return Dataset{}, fmt.Errorf("failed to decode history file %s: %w", path, err)
	}
	return ds, nil
}

// DecodeGames reads a bare JSON array of games, as the CLI accepts, and
// returns it validated and oldest first.
func DecodeGames(r io.Reader) ([]models.GameRecord, error) {
	var games []models.GameRecord
	if err := json.NewDecoder(r).Decode(&games); err != nil {
		return nil, fmt.Errorf("failed to decode games: %w", err)
	}
	return validateGames(games)
}

// validateGames rebuilds every record through models.NewGameRecord so the
// result shares no maps with the input.
func validateGames(games []models.GameRecord) ([]models.GameRecord, error) {
	out := make([]models.GameRecord, 0, len(games))
	for i, g := range games {
		rec, err := models.NewGameRecord(g.Season, g.Week, g.SeasonType, g.Stats)
		if err != nil {
			return nil, fmt.Errorf("game %d: %w", i, err)
		}
		out = append(out, rec)
	}
	sortChronological(out)
	return out, nil
}

// RecentGames implements Provider. An unknown player has no games.
func (s *FileStore) RecentGames(ctx context.Context, playerID string, limit int) ([]models.GameRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = DefaultGames
	}
	games := s.games[playerID]
	if len(games) == 0 {
		return []models.GameRecord{}, nil
	}
	return tail(games, limit), nil
}

// FindPlayer implements Store.
func (s *FileStore) FindPlayer(_ context.Context, name string) (models.Player, error) {
	want := strings.ToLower(strings.TrimSpace(name))
	for _, p := range s.players {
		if strings.ToLower(p.DisplayName) == want {
			return p, nil
		}
	}
	return models.Player{}, fmt.Errorf("%w: player %q", models.ErrNotFound, name)
}

// SearchPlayers implements Store.
func (s *FileStore) SearchPlayers(_ context.Context, query string, filter Filter, limit int) ([]models.Player, error) {
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	q := strings.ToLower(strings.TrimSpace(query))
	team := ""
	if filter.Team != "" {
		team = teams.Standardize(filter.Team)
	}

	out := []models.Player{}
	for _, p := range s.players {
		if len(out) == limit {
			break
		}
		if !strings.Contains(strings.ToLower(p.DisplayName), q) {
			continue
		}
		if filter.Position != "" && p.Position != filter.Position {
			continue
		}
		if team != "" && p.Team != team {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

// PlayersByTeam implements Store.
func (s *FileStore) PlayersByTeam(ctx context.Context, team string, position models.Position) ([]models.Player, error) {
	return s.SearchPlayers(ctx, "", Filter{Position: position, Team: team}, len(s.players)+1)
}

// LatestRegularGame implements Store.
func (s *FileStore) LatestRegularGame(_ context.Context) (int, int, bool, error) {
	var season, week int
	found := false
	for _, games := range s.games {
		for _, g := range games {
			if g.SeasonType != models.SeasonTypeRegular {
				continue
			}
			if !found || g.Season > season || (g.Season == season && g.Week > week) {
				season, week, found = g.Season, g.Week, true
			}
		}
	}
	return season, week, found, nil
}
