// Package stats maps free-text betting actions onto canonical stat keys and
// holds the read-only stat metadata tables.
package stats

import (
	"sort"
	"strings"

	"github.com/yourusername/hedge-bets/internal/models"
)

type statInfo struct {
	display string
	unit    string
}

var statTable = map[models.StatKey]statInfo{
	models.StatPassingYards:         {"Passing Yards", "yds"},
	models.StatPassingTDs:           {"Passing Touchdowns", "TDs"},
	models.StatCompletions:          {"Completions", "comp"},
	models.StatAttempts:             {"Attempts", "att"},
	models.StatPassingInterceptions: {"Interceptions", "INTs"},
	models.StatRushingYards:         {"Rushing Yards", "yds"},
	models.StatRushingTDs:           {"Rushing Touchdowns", "TDs"},
	models.StatReceivingYards:       {"Receiving Yards", "yds"},
	models.StatReceivingTDs:         {"Receiving Touchdowns", "TDs"},
	models.StatReceptions:           {"Receptions", "rec"},
	models.StatTargets:              {"Targets", "tgts"},
}

var positionStats = map[models.Position][]models.StatKey{
	models.PositionQB: {
		models.StatPassingYards, models.StatPassingTDs, models.StatCompletions,
		models.StatAttempts, models.StatPassingInterceptions, models.StatRushingYards,
	},
	models.PositionRB: {
		models.StatRushingYards, models.StatRushingTDs, models.StatReceptions,
		models.StatReceivingYards, models.StatReceivingTDs,
	},
	models.PositionWR: {
		models.StatReceivingYards, models.StatReceptions, models.StatReceivingTDs, models.StatTargets,
	},
	models.PositionTE: {
		models.StatReceivingYards, models.StatReceptions, models.StatReceivingTDs,
	},
}

// touchdownStat resolves the generic "Touchdowns" action per position.
var touchdownStat = map[models.Position]models.StatKey{
	models.PositionQB: models.StatPassingTDs,
	models.PositionRB: models.StatRushingTDs,
	models.PositionWR: models.StatReceivingTDs,
	models.PositionTE: models.StatReceivingTDs,
}

const touchdownsAction = "touchdowns"

// actionIndex maps normalized action text to a stat key. Built once from the
// display names, the canonical keys and a handful of aliases.
var actionIndex = buildActionIndex()

var aliases = map[string]models.StatKey{
	"interceptions": models.StatPassingInterceptions,
	"ints":          models.StatPassingInterceptions,
	"pass yards":    models.StatPassingYards,
	"pass tds":      models.StatPassingTDs,
	"rush yards":    models.StatRushingYards,
	"rush tds":      models.StatRushingTDs,
	"rec yards":     models.StatReceivingYards,
	"rec tds":       models.StatReceivingTDs,
	"catches":       models.StatReceptions,
}

func buildActionIndex() map[string]models.StatKey {
	idx := make(map[string]models.StatKey, len(statTable)*2+len(aliases))
	for key, info := range statTable {
		idx[normalize(info.display)] = key
		idx[normalize(string(key))] = key
	}
	for text, key := range aliases {
		idx[text] = key
	}
	return idx
}

// normalize lower-cases, trims and collapses whitespace, treating '_' and '-'
// as word separators.
func normalize(text string) string {
	text = strings.ToLower(text)
	text = strings.NewReplacer("_", " ", "-", " ").Replace(text)
	return strings.Join(strings.Fields(text), " ")
}

// ParsePosition validates a position string, accepting any case.
func ParsePosition(position string) (models.Position, error) {
	p := models.Position(strings.ToUpper(strings.TrimSpace(position)))
	if !p.Valid() {
		return "", &models.InvalidPositionError{Position: position}
	}
	return p, nil
}

// Resolve maps action text to the stat key it names and checks the stat is
// modelled for the position.
func Resolve(action string, position models.Position) (models.StatKey, error) {
	if !position.Valid() {
		return "", &models.InvalidPositionError{Position: string(position)}
	}

	text := normalize(action)
	var key models.StatKey
	switch text {
	case touchdownsAction, "tds", "td":
		key = touchdownStat[position]
	default:
		k, ok := actionIndex[text]
		if !ok {
			return "", &models.UnknownActionError{Action: action, Valid: Actions()}
		}
		key = k
	}

	if !Supports(position, key) {
		return "", &models.InvalidStatError{Position: position, Stat: key, Available: StatsFor(position)}
	}
	return key, nil
}

// Supports reports whether key is modelled for position.
func Supports(position models.Position, key models.StatKey) bool {
	for _, s := range positionStats[position] {
		if s == key {
			return true
		}
	}
	return false
}

// StatsFor returns a copy of the stat keys modelled for position.
func StatsFor(position models.Position) []models.StatKey {
	src := positionStats[position]
	out := make([]models.StatKey, len(src))
	copy(out, src)
	return out
}

// DisplayName returns the human label for key, or the key itself if unknown.
func DisplayName(key models.StatKey) string {
	if info, ok := statTable[key]; ok {
		return info.display
	}
	return string(key)
}

// Unit returns the short display unit for key.
func Unit(key models.StatKey) string {
	return statTable[key].unit
}

// Actions lists every display name accepted by Resolve plus "Touchdowns",
// sorted alphabetically.
func Actions() []string {
	out := make([]string, 0, len(statTable)+1)
	for _, info := range statTable {
		out = append(out, info.display)
	}
	out = append(out, "Touchdowns")
	sort.Strings(out)
	return out
}

// ActionsFor lists the display names valid for a position.
func ActionsFor(position models.Position) []string {
	keys := positionStats[position]
	out := make([]string, 0, len(keys)+1)
	for _, k := range keys {
		out = append(out, statTable[k].display)
	}
	if len(keys) > 0 {
		out = append(out, "Touchdowns")
	}
	return out
}
