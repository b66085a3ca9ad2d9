// Package standings merges team totals and match records into a ranked table.
//
// Ordering: points DESC, then NRR DESC with undefined NRR last, then team name
// ASC so that equal rows always come out in the same order.
package standings

import (
	"sort"

	"github.com/okian/nrr/internal/domain/aggregate"
	"github.com/okian/nrr/internal/domain/innings"
	"github.com/okian/nrr/internal/domain/model"
	"github.com/okian/nrr/internal/domain/outcome"
	"github.com/okian/nrr/internal/domain/overs"
)

// Base is the historical state a table is built from. It is never mutated;
// Merge returns a new Base.
type Base struct {
	Totals  aggregate.Table
	Records outcome.Table
}

// Build folds closing innings into a Base.
func Build(in []model.Innings, resolver *outcome.Resolver, abandoned ...model.Fixture) Base {
	return Base{
		Totals:  aggregate.Fold(in),
		Records: resolver.Resolve(in, abandoned...),
	}
}

// FromDeliveries normalizes raw deliveries and builds a Base.
func FromDeliveries(ds []model.Delivery, n *innings.Normalizer, resolver *outcome.Resolver, abandoned ...model.Fixture) Base {
	return Build(n.Close(ds), resolver, abandoned...)
}

// Merge returns the sum of b and o.
func (b Base) Merge(o Base) Base {
	return Base{
		Totals:  b.Totals.Merge(o.Totals),
		Records: b.Records.Merge(o.Records),
	}
}

// Teams returns every team present in either totals or records, sorted.
func (b Base) Teams() []string {
	seen := make(map[string]struct{}, len(b.Totals)+len(b.Records))
	for team := range b.Totals {
		seen[team] = struct{}{}
	}
	for team := range b.Records {
		seen[team] = struct{}{}
	}
	teams := make([]string, 0, len(seen))
	for team := range seen {
		teams = append(teams, team)
	}
	sort.Strings(teams)
	return teams
}

// Has reports whether team appears in b.
func (b Base) Has(team string) bool {
	_, inTotals := b.Totals[team]
	_, inRecords := b.Records[team]
	return inTotals || inRecords
}

// Row is one line of the standings table.
type Row struct {
	Rank     int
	Team     string
	Played   int
	Won      int
	Lost     int
	Tied     int
	NoResult int
	Bonus    int // performance bonus plus configured bonus
	Points   int
	NRR      NRR
	model.Totals
}

// OversFor renders the balls faced in overs notation.
func (r Row) OversFor() string { return overs.Format(r.BallsFor) }

// OversAgainst renders the balls bowled in overs notation.
func (r Row) OversAgainst() string { return overs.Format(r.BallsAgainst) }

// Table is a ranked standings table.
type Table struct {
	Rows []Row
}

// Find returns the row for team.
func (t Table) Find(team string) (Row, bool) {
	for _, r := range t.Rows {
		if r.Team == team {
			return r, true
		}
	}
	return Row{}, false
}

// Merge outer-joins totals and records, adds the configured bonus once per
// team, derives NRR and ranks the rows.
func Merge(b Base, points outcome.Points, bonus map[string]int) Table {
	teams := b.Teams()
	rows := make([]Row, 0, len(teams))
	for _, team := range teams {
		rec := b.Records[team]
		tot := b.Totals[team]
		extra := bonus[team]
		rows = append(rows, Row{
			Team:     team,
			Played:   rec.Played(),
			Won:      rec.Won,
			Lost:     rec.Lost,
			Tied:     rec.Tied,
			NoResult: rec.NoResult,
			Bonus:    rec.Bonus + extra,
			Points:   points.For(rec) + extra,
			NRR:      ComputeNRR(tot),
			Totals:   tot,
		})
	}
	sortRows(rows)
	return Table{Rows: rows}
}

// ranksBefore reports whether a ranks above b.
func ranksBefore(a, b Row) bool {
	if a.Points != b.Points {
		return a.Points > b.Points
	}
	if a.NRR != b.NRR {
		return b.NRR.Less(a.NRR)
	}
	return a.Team < b.Team
}

func sortRows(rows []Row) {
	sort.SliceStable(rows, func(i, j int) bool { return ranksBefore(rows[i], rows[j]) })
	for i := range rows {
		rows[i].Rank = i + 1
	}
}
