package history

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/hedge-bets/internal/models"
)

const (
	mahomesID = "00-0033873"
	kelceID   = "00-0030506"
)

func loadTestStore(t *testing.T) *FileStore {
	t.Helper()
	s, err := LoadFile("testdata/history.json")
	require.NoError(t, err)
	return s
}

// TestRecentGamesOrder tests that games come back oldest first and trimmed to the limit
func TestRecentGamesOrder(t *testing.T) {
	s := loadTestStore(t)
	ctx := context.Background()

	games, err := s.RecentGames(ctx, mahomesID, 8)
	require.NoError(t, err)
	require.Len(t, games, 8)
	for i, g := range games {
		assert.Equal(t, 2025, g.Season)
		assert.Equal(t, i+1, g.Week)
	}
	last, ok := games[7].Value(models.StatPassingYards)
	require.True(t, ok)
	assert.Equal(t, 278.0, last)

	all, err := s.RecentGames(ctx, mahomesID, 50)
	require.NoError(t, err)
	require.Len(t, all, 9)
	assert.Equal(t, models.SeasonTypePost, all[0].SeasonType)
	assert.Equal(t, 2024, all[0].Season)
}

func TestRecentGamesUnknownPlayer(t *testing.T) {
	games, err := loadTestStore(t).RecentGames(context.Background(), "nobody", 8)
	require.NoError(t, err)
	assert.Empty(t, games)
}

func TestRecentGamesReturnsCopy(t *testing.T) {
	s := loadTestStore(t)
	games, err := s.RecentGames(context.Background(), kelceID, 8)
	require.NoError(t, err)
	games[0].Week = 99

	again, err := s.RecentGames(context.Background(), kelceID, 8)
	require.NoError(t, err)
	assert.Equal(t, 5, again[0].Week)
}

func TestRecentGamesCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := loadTestStore(t).RecentGames(ctx, mahomesID, 8)
	assert.ErrorIs(t, err, context.Canceled)
}

// TestMissingStatsStayMissing tests that unreported stats are not zero-filled
func TestMissingStatsStayMissing(t *testing.T) {
	games, err := loadTestStore(t).RecentGames(context.Background(), kelceID, 8)
	require.NoError(t, err)

	_, ok := games[0].Value(models.StatTargets)
	assert.False(t, ok)
	v, ok := games[0].Value(models.StatReceptions)
	assert.True(t, ok)
	assert.Equal(t, 6.0, v)
}

func TestFindPlayer(t *testing.T) {
	s := loadTestStore(t)
	ctx := context.Background()

	p, err := s.FindPlayer(ctx, "  patrick MAHOMES ")
	require.NoError(t, err)
	assert.Equal(t, mahomesID, p.ID)
	assert.Equal(t, models.PositionQB, p.Position)
	assert.Equal(t, "KC", p.Team)
	require.NotNil(t, p.JerseyNumber)
	assert.Equal(t, 15, *p.JerseyNumber)

	_, err = s.FindPlayer(ctx, "Patrick")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

// TestSearchPlayers tests substring search with position and team filters
func TestSearchPlayers(t *testing.T) {
	s := loadTestStore(t)
	ctx := context.Background()

	tests := []struct {
		name   string
		query  string
		filter Filter
		limit  int
		want   []string
	}{
		{"substring", "ma", Filter{}, 0, []string{"Patrick Mahomes"}},
		{"everyone on team", "", Filter{Team: "Kansas City Chiefs"}, 0, []string{"Patrick Mahomes", "Rookie Backup", "Travis Kelce"}},
		{"position filter", "", Filter{Position: models.PositionQB}, 0, []string{"Patrick Mahomes", "Rookie Backup"}},
		{"limit", "", Filter{}, 2, []string{"Patrick Mahomes", "Rookie Backup"}},
		{"other team", "", Filter{Team: "BUF"}, 0, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.SearchPlayers(ctx, tt.query, tt.filter, tt.limit)
			require.NoError(t, err)
			names := make([]string, len(got))
			for i, p := range got {
				names[i] = p.DisplayName
			}
			assert.Equal(t, tt.want, names)
		})
	}
}

func TestPlayersByTeam(t *testing.T) {
	s := loadTestStore(t)

	players, err := s.PlayersByTeam(context.Background(), "kc", models.PositionTE)
	require.NoError(t, err)
	require.Len(t, players, 1)
	assert.Equal(t, "Travis Kelce", players[0].DisplayName)
}

func TestCurrentContext(t *testing.T) {
	fallback := models.PredictionContext{Season: 2025, Week: 8}

	pctx, err := CurrentContext(context.Background(), loadTestStore(t), fallback)
	require.NoError(t, err)
	assert.Equal(t, models.PredictionContext{Season: 2025, Week: 9}, pctx)

	empty, err := NewFileStore(Dataset{})
	require.NoError(t, err)
	pctx, err = CurrentContext(context.Background(), empty, fallback)
	require.NoError(t, err)
	assert.Equal(t, fallback, pctx)
}

func TestDecodeGames(t *testing.T) {
	f, err := os.Open("testdata/games.json")
	require.NoError(t, err)
	defer f.Close()

	games, err := DecodeGames(f)
	require.NoError(t, err)
	require.Len(t, games, 3)
	assert.Equal(t, []int{1, 2, 3}, []int{games[0].Week, games[1].Week, games[2].Week})
}

// TestDecodeGamesRejectsBadRecords tests boundary validation of incoming games
func TestDecodeGamesRejectsBadRecords(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"unknown stat", `[{"season":2025,"week":1,"season_type":"REG","stats":{"sacks":2}}]`},
		{"week out of range", `[{"season":2025,"week":23,"season_type":"REG","stats":{}}]`},
		{"bad season type", `[{"season":2025,"week":1,"season_type":"PRE","stats":{}}]`},
		{"negative receptions", `[{"season":2025,"week":1,"season_type":"REG","stats":{"receptions":-3}}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeGames(strings.NewReader(tt.input))
			assert.ErrorIs(t, err, models.ErrInvalidGameRecord)
		})
	}

	_, err := DecodeGames(strings.NewReader(`{not json`))
	assert.Error(t, err)

	games, err := DecodeGames(strings.NewReader(`[{"season":2025,"week":1,"season_type":"REG","stats":{"rushing_yards":-4}}]`))
	require.NoError(t, err)
	v, _ := games[0].Value(models.StatRushingYards)
	assert.Equal(t, -4.0, v)
}

func TestNewFileStoreRejectsDuplicates(t *testing.T) {
	_, err := NewFileStore(Dataset{Players: []models.Player{
		{ID: "1", DisplayName: "A"},
		{ID: "1", DisplayName: "B"},
	}})
	assert.Error(t, err)

	_, err = NewFileStore(Dataset{Players: []models.Player{{ID: "", DisplayName: "A"}}})
	assert.Error(t, err)
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile("testdata/absent.json")
	assert.Error(t, err)
}
