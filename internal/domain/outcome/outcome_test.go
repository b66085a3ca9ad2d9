package outcome_test

import (
	"errors"
	"testing"

	"github.com/okian/nrr/internal/domain/model"
	"github.com/okian/nrr/internal/domain/outcome"
	. "github.com/smartystreets/goconvey/convey"
)

func inns(match string, no int, bat, bowl string, runs, nrrBalls int) model.Innings {
	return model.Innings{
		InningsKey:  model.InningsKey{MatchKey: model.MatchKey{Match: match, Date: "2025-06-01"}, Innings: no},
		BattingTeam: bat,
		BowlingTeam: bowl,
		Runs:        runs,
		NRRBalls:    nrrBalls,
	}
}

func TestResolve(t *testing.T) {
	Convey("Given a resolver with league points", t, func() {
		r := outcome.NewResolver()

		Convey("When the side batting first scores more", func() {
			tbl := r.Resolve([]model.Innings{
				inns("A v B", 1, "A", "B", 180, 120),
				inns("A v B", 2, "B", "A", 150, 120),
			})

			Convey("Then it wins and the other side loses", func() {
				So(tbl["A"], ShouldResemble, model.Record{Won: 1})
				So(tbl["B"], ShouldResemble, model.Record{Lost: 1})
				So(r.Points().For(tbl["A"]), ShouldEqual, 4)
				So(r.Points().For(tbl["B"]), ShouldEqual, 0)
			})
		})

		Convey("When the chasing side scores more", func() {
			tbl := r.Resolve([]model.Innings{
				inns("A v B", 2, "B", "A", 151, 110),
				inns("A v B", 1, "A", "B", 150, 120),
			})

			So(tbl["B"].Won, ShouldEqual, 1)
			So(tbl["A"].Lost, ShouldEqual, 1)
		})

		Convey("When both sides score the same", func() {
			tbl := r.Resolve([]model.Innings{
				inns("A v B", 1, "A", "B", 150, 120),
				inns("A v B", 2, "B", "A", 150, 120),
			})

			Convey("Then both tie for two points", func() {
				So(tbl["A"], ShouldResemble, model.Record{Tied: 1})
				So(tbl["B"], ShouldResemble, model.Record{Tied: 1})
				So(r.Points().For(tbl["B"]), ShouldEqual, 2)
			})
		})

		Convey("When only one innings was recorded", func() {
			tbl := r.Resolve([]model.Innings{inns("A v B", 1, "A", "B", 60, 42)})

			Convey("Then both sides get a no-result", func() {
				So(tbl["A"], ShouldResemble, model.Record{NoResult: 1})
				So(tbl["B"], ShouldResemble, model.Record{NoResult: 1})
				So(tbl["A"].Played(), ShouldEqual, 1)
				So(r.Points().For(tbl["A"]), ShouldEqual, 2)
			})
		})

		Convey("When an abandoned fixture has no innings at all", func() {
			f := model.Fixture{MatchKey: model.MatchKey{Match: "C v D", Date: "2025-06-02"}, Home: "C", Away: "D"}
			tbl := r.Resolve(nil, f)

			Convey("Then its teams get a no-result", func() {
				So(tbl["C"].NoResult, ShouldEqual, 1)
				So(tbl["D"].NoResult, ShouldEqual, 1)
			})
		})

		Convey("When an abandoned fixture does have innings", func() {
			f := model.Fixture{MatchKey: model.MatchKey{Match: "A v B", Date: "2025-06-01"}, Home: "A", Away: "B"}
			tbl := r.Resolve([]model.Innings{
				inns("A v B", 1, "A", "B", 180, 120),
				inns("A v B", 2, "B", "A", 150, 120),
			}, f)

			Convey("Then the recorded result stands", func() {
				So(tbl["A"], ShouldResemble, model.Record{Won: 1})
				So(tbl["B"], ShouldResemble, model.Record{Lost: 1})
			})
		})
	})
}

func TestPerformanceBonus(t *testing.T) {
	Convey("Given a resolver awarding the performance bonus", t, func() {
		r := outcome.NewResolver(outcome.WithPerformanceBonus(outcome.LeagueBonusRatio))

		Convey("When the winner scores at 1.25x the loser's rate or better", func() {
			tbl := r.Resolve([]model.Innings{
				inns("A v B", 1, "A", "B", 200, 120),
				inns("A v B", 2, "B", "A", 100, 120),
			})

			Convey("Then the winner earns a bonus point", func() {
				So(tbl["A"], ShouldResemble, model.Record{Won: 1, Bonus: 1})
				So(r.Points().For(tbl["A"]), ShouldEqual, 5)
				So(tbl["B"].Bonus, ShouldEqual, 0)
			})
		})

		Convey("When the winner falls short of the ratio", func() {
			tbl := r.Resolve([]model.Innings{
				inns("A v B", 1, "A", "B", 180, 120),
				inns("A v B", 2, "B", "A", 150, 120),
			})

			So(tbl["A"].Bonus, ShouldEqual, 0)
		})

		Convey("When the loser faced no balls", func() {
			tbl := r.Resolve([]model.Innings{
				inns("A v B", 1, "A", "B", 10, 6),
				inns("A v B", 2, "B", "A", 0, 0),
			})

			Convey("Then no bonus is awarded", func() {
				So(tbl["A"].Bonus, ShouldEqual, 0)
			})
		})
	})

	Convey("Given custom points", t, func() {
		r := outcome.NewResolver(outcome.WithPoints(2, 1, 1))

		So(r.Points().For(model.Record{Won: 2, Tied: 1, NoResult: 1}), ShouldEqual, 6)
	})
}

func TestMerge(t *testing.T) {
	Convey("Given two outcome tables", t, func() {
		x := outcome.Table{"A": {Won: 1}}
		y := outcome.Table{"A": {Lost: 1}, "B": {Won: 1}}

		Convey("Then merging adds records without touching inputs", func() {
			So(x.Merge(y), ShouldResemble, y.Merge(x))
			So(x.Merge(y)["A"], ShouldResemble, model.Record{Won: 1, Lost: 1})
			So(x["A"], ShouldResemble, model.Record{Won: 1})
		})
	})
}

func TestBonusTargets(t *testing.T) {
	Convey("Given a first innings of 160 in 20 overs", t, func() {
		tg, err := outcome.BonusTargets(160, 120, outcome.LeagueBonusRatio, 120)

		Convey("Then the defender may concede at most 128", func() {
			So(err, ShouldBeNil)
			So(tg.MaxConceded, ShouldEqual, 128)
		})

		Convey("And six chase targets are listed", func() {
			So(len(tg.Chases), ShouldEqual, 6)
			So(tg.Chases[0], ShouldResemble, outcome.Chase{Target: 161, ByBalls: 96})
			So(tg.Chases[5].Target, ShouldEqual, 166)
		})
	})

	Convey("Given a quota shorter than any bonus chase", t, func() {
		tg, err := outcome.BonusTargets(100, 120, outcome.LeagueBonusRatio, 60)

		So(err, ShouldBeNil)
		So(tg.Chases, ShouldBeEmpty)
	})

	Convey("Given an innings without a run rate", t, func() {
		_, err := outcome.BonusTargets(0, 120, outcome.LeagueBonusRatio, 120)
		So(errors.Is(err, outcome.ErrUndefinedRate), ShouldBeTrue)

		_, err = outcome.BonusTargets(50, 0, outcome.LeagueBonusRatio, 120)
		So(errors.Is(err, outcome.ErrUndefinedRate), ShouldBeTrue)
	})
}
