// Package teams maps NFL team abbreviations to full names, including
// historical names that older game data still uses.
package teams

import (
	"sort"
	"strings"
)

// Team is one franchise.
type Team struct {
	Abbreviation string `json:"abbreviation"`
	Name         string `json:"name"`
}

var byAbbreviation = map[string]string{
	"ARI": "Arizona Cardinals",
	"ATL": "Atlanta Falcons",
	"BAL": "Baltimore Ravens",
	"BUF": "Buffalo Bills",
	"CAR": "Carolina Panthers",
	"CHI": "Chicago Bears",
	"CIN": "Cincinnati Bengals",
	"CLE": "Cleveland Browns",
	"DAL": "Dallas Cowboys",
	"DEN": "Denver Broncos",
	"DET": "Detroit Lions",
	"GB":  "Green Bay Packers",
	"HOU": "Houston Texans",
	"IND": "Indianapolis Colts",
	"JAX": "Jacksonville Jaguars",
	"KC":  "Kansas City Chiefs",
	"LA":  "Los Angeles Rams",
	"LAC": "Los Angeles Chargers",
	"LV":  "Las Vegas Raiders",
	"MIA": "Miami Dolphins",
	"MIN": "Minnesota Vikings",
	"NE":  "New England Patriots",
	"NO":  "New Orleans Saints",
	"NYG": "New York Giants",
	"NYJ": "New York Jets",
	"PHI": "Philadelphia Eagles",
	"PIT": "Pittsburgh Steelers",
	"SEA": "Seattle Seahawks",
	"SF":  "San Francisco 49ers",
	"TB":  "Tampa Bay Buccaneers",
	"TEN": "Tennessee Titans",
	"WAS": "Washington Commanders",
}

// aliases maps former franchise names to the current abbreviation.
var aliases = map[string]string{
	"washington football team": "WAS",
	"washington redskins":      "WAS",
	"oakland raiders":          "LV",
	"san diego chargers":       "LAC",
	"st. louis rams":           "LA",
}

// byName is the reverse of byAbbreviation, keyed by lower-cased name.
var byName = func() map[string]string {
	m := make(map[string]string, len(byAbbreviation))
	for abb, name := range byAbbreviation {
		m[strings.ToLower(name)] = abb
	}
	return m
}()

// FullName returns the franchise name for an abbreviation, or the input
// unchanged when it is not a known abbreviation.
func FullName(abbreviation string) string {
	if name, ok := byAbbreviation[strings.ToUpper(strings.TrimSpace(abbreviation))]; ok {
		return name
	}
	return abbreviation
}

// Abbreviation returns the abbreviation for a current or historical team
// name, or the input unchanged when the name is unknown.
func Abbreviation(name string) string {
	key := strings.ToLower(strings.TrimSpace(name))
	if abb, ok := byName[key]; ok {
		return abb
	}
	if abb, ok := aliases[key]; ok {
		return abb
	}
	return name
}

// Standardize accepts an abbreviation or a name and returns the abbreviation.
func Standardize(team string) string {
	upper := strings.ToUpper(strings.TrimSpace(team))
	if _, ok := byAbbreviation[upper]; ok {
		return upper
	}
	return Abbreviation(team)
}

// Known reports whether team resolves to a current franchise.
func Known(team string) bool {
	_, ok := byAbbreviation[Standardize(team)]
	return ok
}

// All returns every franchise sorted by name.
func All() []Team {
	out := make([]Team, 0, len(byAbbreviation))
	for abb, name := range byAbbreviation {
		out = append(out, Team{Abbreviation: abb, Name: name})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
