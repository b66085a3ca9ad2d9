// Package outcome resolves closing innings into match results and points.
package outcome

import (
	"sort"

	"github.com/okian/nrr/internal/domain/model"
	"github.com/okian/nrr/internal/domain/overs"
)

// League defaults.
const (
	DefaultWinPoints      = 4
	DefaultTiePoints      = 2
	DefaultNoResultPoints = 2
	LeagueBonusRatio      = 1.25
)

// Points is the league's points scheme.
type Points struct {
	Win      int
	Tie      int
	NoResult int
}

// For returns the points a record earns, performance bonus included.
func (p Points) For(r model.Record) int {
	return r.Won*p.Win + r.Tied*p.Tie + r.NoResult*p.NoResult + r.Bonus
}

// Table maps a team name to its match record. Treat it as immutable.
type Table map[string]model.Record

// Merge returns the sum of t and o. Neither input is modified.
func (t Table) Merge(o Table) Table {
	out := make(Table, len(t)+len(o))
	for team, rec := range t {
		out[team] = rec
	}
	for team, rec := range o {
		out[team] = out[team].Add(rec)
	}
	return out
}

// Resolver turns innings into per-team results.
type Resolver struct {
	points     Points
	bonusRatio float64
}

// NewResolver creates a Resolver with configuration options.
func NewResolver(opts ...Option) *Resolver {
	r := &Resolver{
		points: Points{Win: DefaultWinPoints, Tie: DefaultTiePoints, NoResult: DefaultNoResultPoints},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Points returns the configured points scheme.
func (r *Resolver) Points() Points {
	return r.points
}

// Resolve groups innings by (match, date) and scores each match. A match with
// exactly two innings is decided on runs; any other count is a no-result for
// both participants. Abandoned fixtures without any innings score a no-result
// for their two teams; fixtures that do have innings are ignored.
func (r *Resolver) Resolve(innings []model.Innings, abandoned ...model.Fixture) Table {
	matches := make(map[model.MatchKey][]model.Innings)
	for _, in := range innings {
		matches[in.MatchKey] = append(matches[in.MatchKey], in)
	}

	out := make(Table)
	credit := func(team string, rec model.Record) {
		if team != "" {
			out[team] = out[team].Add(rec)
		}
	}

	for key, group := range matches {
		if len(group) != 2 {
			home, away := participants(key, group)
			credit(home, model.Record{NoResult: 1})
			credit(away, model.Record{NoResult: 1})
			continue
		}
		sort.Slice(group, func(i, j int) bool { return group[i].Innings < group[j].Innings })
		first, second := group[0], group[1]
		switch {
		case first.Runs == second.Runs:
			credit(first.BattingTeam, model.Record{Tied: 1})
			credit(second.BattingTeam, model.Record{Tied: 1})
		case first.Runs > second.Runs:
			credit(first.BattingTeam, model.Record{Won: 1, Bonus: r.bonus(first, second)})
			credit(second.BattingTeam, model.Record{Lost: 1})
		default:
			credit(second.BattingTeam, model.Record{Won: 1, Bonus: r.bonus(second, first)})
			credit(first.BattingTeam, model.Record{Lost: 1})
		}
	}

	for _, f := range abandoned {
		if _, played := matches[f.MatchKey]; played {
			continue
		}
		credit(f.Home, model.Record{NoResult: 1})
		credit(f.Away, model.Record{NoResult: 1})
	}
	return out
}

// participants names the two teams of an undecided match, preferring the
// recorded innings over the match label.
func participants(key model.MatchKey, group []model.Innings) (string, string) {
	if len(group) > 0 {
		return group[0].BattingTeam, group[0].BowlingTeam
	}
	home, away, _ := model.SplitMatch(key.Match)
	return home, away
}

// bonus returns 1 when the winner's run rate is at least the configured
// multiple of the loser's.
func (r *Resolver) bonus(winner, loser model.Innings) int {
	if r.bonusRatio <= 0 {
		return 0
	}
	wr, ok := RunRate(winner.Runs, winner.NRRBalls)
	if !ok {
		return 0
	}
	lr, ok := RunRate(loser.Runs, loser.NRRBalls)
	if !ok {
		return 0
	}
	if wr >= r.bonusRatio*lr {
		return 1
	}
	return 0
}

// RunRate returns runs per over. ok is false when no balls were faced.
func RunRate(runs, balls int) (float64, bool) {
	if balls <= 0 {
		return 0, false
	}
	return float64(runs) / (float64(balls) / overs.BallsPerOver), true
}
