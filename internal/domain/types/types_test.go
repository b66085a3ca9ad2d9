package types_test

import (
	"encoding/json"
	"testing"

	"github.com/okian/nrr/internal/domain/model"
	"github.com/okian/nrr/internal/domain/outcome"
	"github.com/okian/nrr/internal/domain/standings"
	types "github.com/okian/nrr/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func TestNewEntry(t *testing.T) {
	Convey("Given a standings row with a defined NRR", t, func() {
		row := standings.Row{
			Rank: 1, Team: "Yorkshire Women", Played: 2, Won: 2, Bonus: 2, Points: 10,
			NRR:    standings.NRR{Value: 1.5, Defined: true},
			Totals: model.Totals{RunsFor: 300, BallsFor: 225, RunsAgainst: 240, BallsAgainst: 240},
		}

		Convey("When converting it", func() {
			e := types.NewEntry(row)

			Convey("Then overs are rendered in cricket notation", func() {
				So(e.OversFor, ShouldEqual, "37.3")
				So(e.OversAgainst, ShouldEqual, "40.0")
				So(*e.NRR, ShouldEqual, 1.5)
				So(e.Points, ShouldEqual, 10)
			})
		})
	})

	Convey("Given a row without an NRR", t, func() {
		e := types.NewEntry(standings.Row{Team: "Kent Women", NoResult: 1, Points: 2})

		Convey("Then the JSON carries a null rate", func() {
			b, err := json.Marshal(e)
			So(err, ShouldBeNil)
			So(string(b), ShouldContainSubstring, `"nrr":null`)
			So(string(b), ShouldContainSubstring, `"overs_for":"0.0"`)
		})
	})
}

func TestNewStandings(t *testing.T) {
	Convey("Given partitioned groups", t, func() {
		g := standings.Groups{
			North: standings.Table{Rows: []standings.Row{{Rank: 1, Team: "A"}}},
		}

		Convey("Then both groups are named and the empty one has no entries", func() {
			s := types.NewStandings(g)
			So(s.North.Name, ShouldEqual, standings.GroupNorth)
			So(s.South.Name, ShouldEqual, standings.GroupSouth)
			So(len(s.North.Entries), ShouldEqual, 1)
			So(s.South.Entries, ShouldBeEmpty)
		})
	})
}

func TestNewRejections(t *testing.T) {
	Convey("Given a projector rejection", t, func() {
		rs := []standings.Rejection{{
			Index: 2,
			Match: model.FutureMatch{Team1: "A", Team2: "A"},
			Err:   standings.ErrSameTeam,
		}}

		Convey("Then it carries the index, label and reason", func() {
			out := types.NewRejections(rs)
			So(len(out), ShouldEqual, 1)
			So(out[0].Index, ShouldEqual, 2)
			So(out[0].Match, ShouldEqual, "A v A")
			So(out[0].Reason, ShouldEqual, standings.ErrSameTeam.Error())
		})
	})
}

func TestNewTargets(t *testing.T) {
	Convey("Given bonus targets", t, func() {
		tg := outcome.Targets{MaxConceded: 128, Chases: []outcome.Chase{{Target: 161, ByBalls: 96}}}

		Convey("Then balls are shown as overs", func() {
			out := types.NewTargets(160, 120, tg)
			So(out.Overs, ShouldEqual, "20.0")
			So(out.MaxConceded, ShouldEqual, 128)
			So(out.Chases, ShouldResemble, []types.Chase{{Target: 161, ByOvers: "16.0"}})
		})
	})
}
