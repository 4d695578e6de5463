package predictor

import (
	"github.com/yourusername/hedge-bets/internal/models"
)

// gamesOf builds a regular-season history with one value per game for stat,
// ordered most-recent-last.
func gamesOf(season int, stat models.StatKey, values ...float64) []models.GameRecord {
	out := make([]models.GameRecord, len(values))
	for i, v := range values {
		out[i] = models.GameRecord{
			Season:     season,
			Week:       i + 1,
			SeasonType: models.SeasonTypeRegular,
			Stats:      map[models.StatKey]float64{stat: v},
		}
	}
	return out
}

func qbInput(history []models.GameRecord) Input {
	return Input{
		Stat:     models.StatPassingYards,
		Position: models.PositionQB,
		Team:     "KC",
		History:  history,
		Season:   2024,
		Week:     len(history) + 1,
	}
}
