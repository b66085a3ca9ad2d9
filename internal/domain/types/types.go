// Package types contains the read shapes shared by the API and renderers.
package types

import (
	"github.com/okian/nrr/internal/domain/model"
	"github.com/okian/nrr/internal/domain/outcome"
	"github.com/okian/nrr/internal/domain/overs"
	"github.com/okian/nrr/internal/domain/standings"
)

// Entry represents one standings row.
type Entry struct {
	Rank         int      `json:"rank"`
	Team         string   `json:"team"`
	Played       int      `json:"m"`
	Won          int      `json:"w"`
	Lost         int      `json:"l"`
	Tied         int      `json:"t"`
	NoResult     int      `json:"nr"`
	Bonus        int      `json:"bp"`
	Points       int      `json:"pt"`
	NRR          *float64 `json:"nrr"`
	RunsFor      int      `json:"runs_for"`
	OversFor     string   `json:"overs_for"`
	RunsAgainst  int      `json:"runs_against"`
	OversAgainst string   `json:"overs_against"`
}

// Group is one ranked group table.
type Group struct {
	Name    string  `json:"name"`
	Entries []Entry `json:"entries"`
}

// Standings is the North/South view of a table.
type Standings struct {
	North Group `json:"north"`
	South Group `json:"south"`
}

// NewEntry converts a standings row. An undefined NRR becomes a nil pointer.
func NewEntry(r standings.Row) Entry {
	e := Entry{
		Rank:         r.Rank,
		Team:         r.Team,
		Played:       r.Played,
		Won:          r.Won,
		Lost:         r.Lost,
		Tied:         r.Tied,
		NoResult:     r.NoResult,
		Bonus:        r.Bonus,
		Points:       r.Points,
		RunsFor:      r.RunsFor,
		OversFor:     r.OversFor(),
		RunsAgainst:  r.RunsAgainst,
		OversAgainst: r.OversAgainst(),
	}
	if r.NRR.Defined {
		v := r.NRR.Value
		e.NRR = &v
	}
	return e
}

// NewGroup converts a ranked table under a group name.
func NewGroup(name string, t standings.Table) Group {
	entries := make([]Entry, 0, len(t.Rows))
	for _, r := range t.Rows {
		entries = append(entries, NewEntry(r))
	}
	return Group{Name: name, Entries: entries}
}

// NewStandings converts both groups.
func NewStandings(g standings.Groups) Standings {
	return Standings{
		North: NewGroup(standings.GroupNorth, g.North),
		South: NewGroup(standings.GroupSouth, g.South),
	}
}

// Rejection describes a future match that was not merged.
type Rejection struct {
	Index  int    `json:"index"`
	Match  string `json:"match"`
	Reason string `json:"reason"`
}

// NewRejections converts projector rejections. Match labels use the entered
// team names in batting order.
func NewRejections(rs []standings.Rejection) []Rejection {
	out := make([]Rejection, 0, len(rs))
	for _, r := range rs {
		out = append(out, Rejection{
			Index:  r.Index,
			Match:  model.MatchLabel(r.Match.Team1, r.Match.Team2),
			Reason: r.Err.Error(),
		})
	}
	return out
}

// TeamStanding is one team's row plus the group it ranks in.
type TeamStanding struct {
	Group string `json:"group"`
	Entry
}

// Projection is a standings table with future matches merged in.
type Projection struct {
	ID        string      `json:"id"`
	Standings Standings   `json:"standings"`
	Accepted  int         `json:"accepted"`
	Rejected  []Rejection `json:"rejected"`
	// Unknown lists accepted team names absent from the historical table.
	Unknown []string `json:"unknown"`
}

// Chase is a chase target and the latest overs it must be reached by.
type Chase struct {
	Target  int    `json:"target"`
	ByOvers string `json:"by_overs"`
}

// Targets lists the bonus-point scenarios for a first-innings score.
type Targets struct {
	Runs        int     `json:"runs"`
	Overs       string  `json:"overs"`
	MaxConceded int     `json:"max_conceded"`
	Chases      []Chase `json:"chases"`
}

// NewTargets converts bonus targets for a first innings of runs in balls.
func NewTargets(runs, balls int, tg outcome.Targets) Targets {
	out := Targets{
		Runs:        runs,
		Overs:       overs.Format(balls),
		MaxConceded: tg.MaxConceded,
		Chases:      make([]Chase, 0, len(tg.Chases)),
	}
	for _, c := range tg.Chases {
		out.Chases = append(out.Chases, Chase{Target: c.Target, ByOvers: overs.Format(c.ByBalls)})
	}
	return out
}
