// Package aggregate folds closing innings into per-team runs and balls for and against.
package aggregate

import (
	"sort"

	"github.com/okian/nrr/internal/domain/model"
)

// Table maps a team name to its season totals. Treat it as immutable: Fold and
// Merge always return a fresh Table.
type Table map[string]model.Totals

// Fold sums runs and NRR balls per batting team ("for") and per bowling team
// ("against"). A team seen on only one side still gets a row with the other
// side left at zero.
func Fold(innings []model.Innings) Table {
	out := make(Table)
	for _, in := range innings {
		out[in.BattingTeam] = out[in.BattingTeam].Add(model.Totals{RunsFor: in.Runs, BallsFor: in.NRRBalls})
		out[in.BowlingTeam] = out[in.BowlingTeam].Add(model.Totals{RunsAgainst: in.Runs, BallsAgainst: in.NRRBalls})
	}
	return out
}

// Merge returns the sum of t and o. Neither input is modified.
func (t Table) Merge(o Table) Table {
	out := make(Table, len(t)+len(o))
	for team, tot := range t {
		out[team] = tot
	}
	for team, tot := range o {
		out[team] = out[team].Add(tot)
	}
	return out
}

// Teams returns the team names in ascending order.
func (t Table) Teams() []string {
	teams := make([]string, 0, len(t))
	for team := range t {
		teams = append(teams, team)
	}
	sort.Strings(teams)
	return teams
}
