package service_test

import (
	"context"
	"errors"
	"testing"

	service "github.com/okian/nrr/internal/app"
	"github.com/okian/nrr/internal/domain/model"
	"github.com/okian/nrr/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	// Initialize logging for tests
	err := logger.Init()
	if err != nil {
		panic(err)
	}
}

func closing(match, date string, innNo int, bat, bowl string, over, ball, runs, wickets int) model.Delivery {
	return model.Delivery{
		Match: match, Date: date, Innings: innNo,
		Over: over, Ball: ball, Legal: true,
		BattingTeam: bat, BowlingTeam: bowl,
		Runs: runs, Wickets: wickets,
	}
}

// season: A beat B by 30, B beat C who were bowled out in 19.3.
func season() []model.Delivery {
	return []model.Delivery{
		closing("A v B", "2025-06-01", 1, "A", "B", 1, 1, 4, 0),
		closing("A v B", "2025-06-01", 1, "A", "B", 20, 6, 180, 5),
		closing("A v B", "2025-06-01", 2, "B", "A", 20, 6, 150, 8),
		closing("B v C", "2025-06-02", 1, "B", "C", 20, 6, 160, 6),
		closing("B v C", "2025-06-02", 2, "C", "B", 19, 3, 100, 10),
	}
}

func newService(opts ...service.Option) *service.Service {
	base := []service.Option{
		service.WithDeliveries(season()),
		service.WithBonusPoints(map[string]int{"C": 1}),
		service.WithNorthGroup([]string{"A"}),
	}
	return service.New(append(base, opts...)...)
}

func TestService_Lifecycle(t *testing.T) {
	Convey("Given a service that has not started", t, func() {
		svc := newService()

		Convey("Then queries fail with ErrNotStarted", func() {
			_, err := svc.Standings(context.Background())
			So(errors.Is(err, service.ErrNotStarted), ShouldBeTrue)
			So(svc.GetStats()["started"], ShouldEqual, false)
		})
	})

	Convey("Given a service without any delivery source", t, func() {
		svc := service.New()

		Convey("Then Start fails", func() {
			So(errors.Is(svc.Start(context.Background()), service.ErrNoData), ShouldBeTrue)
		})
	})

	Convey("Given a started service", t, func() {
		svc := newService()
		So(svc.Start(context.Background()), ShouldBeNil)
		So(svc.Start(context.Background()), ShouldBeNil)

		Convey("Then stats describe the loaded season", func() {
			stats := svc.GetStats()
			So(stats["started"], ShouldEqual, true)
			So(stats["teams"], ShouldEqual, 3)
			So(stats["deliveries"], ShouldEqual, 5)
			So(stats["innings"], ShouldEqual, 4)
		})

		Convey("When it is stopped", func() {
			svc.Stop()

			So(svc.GetStats()["started"], ShouldEqual, false)
		})
	})
}

func TestService_Standings(t *testing.T) {
	Convey("Given a started service", t, func() {
		ctx := context.Background()
		svc := newService()
		So(svc.Start(ctx), ShouldBeNil)
		defer svc.Stop()

		Convey("When the standings are requested", func() {
			s, err := svc.Standings(ctx)
			So(err, ShouldBeNil)

			Convey("Then North holds only A", func() {
				So(len(s.North.Entries), ShouldEqual, 1)
				So(s.North.Entries[0].Team, ShouldEqual, "A")
				So(*s.North.Entries[0].NRR, ShouldEqual, 1.5)
			})

			Convey("And South is ranked by points then NRR", func() {
				So(len(s.South.Entries), ShouldEqual, 2)
				So(s.South.Entries[0].Team, ShouldEqual, "B")
				So(*s.South.Entries[0].NRR, ShouldEqual, 0.75)
				So(s.South.Entries[1].Team, ShouldEqual, "C")
				So(s.South.Entries[1].Points, ShouldEqual, 1)
				So(s.South.Entries[1].OversFor, ShouldEqual, "20.0")
			})
		})

		Convey("When a single team is looked up", func() {
			ts, err := svc.Rank(ctx, " C ")

			Convey("Then its group rank and configured bonus are returned", func() {
				So(err, ShouldBeNil)
				So(ts.Group, ShouldEqual, "South")
				So(ts.Rank, ShouldEqual, 2)
				So(ts.Bonus, ShouldEqual, 1)
				So(ts.Lost, ShouldEqual, 1)
			})
		})

		Convey("When an unknown team is looked up", func() {
			_, err := svc.Rank(ctx, "Z")

			So(errors.Is(err, service.ErrTeamNotFound), ShouldBeTrue)
		})
	})
}

func TestService_Project(t *testing.T) {
	Convey("Given a started service", t, func() {
		ctx := context.Background()
		svc := newService()
		So(svc.Start(ctx), ShouldBeNil)
		defer svc.Stop()

		Convey("When C thrashes A and an invalid entry is added", func() {
			proj, err := svc.Project(ctx, []model.FutureMatch{
				{Team1: "C", Team2: "A", Runs1: 200, Overs1: 20.0, Runs2: 100, Overs2: 20.0},
				{Team1: "A", Team2: "A", Runs1: 100, Overs1: 20.0, Runs2: 90, Overs2: 20.0},
			})
			So(err, ShouldBeNil)

			Convey("Then the valid match merges with a performance bonus", func() {
				So(proj.ID, ShouldNotBeEmpty)
				So(proj.Accepted, ShouldEqual, 1)
				south := proj.Standings.South.Entries
				So(south[0].Team, ShouldEqual, "C")
				So(south[0].Points, ShouldEqual, 6)
				So(south[0].Bonus, ShouldEqual, 2)
				So(*south[0].NRR, ShouldEqual, 1.0)
				So(*proj.Standings.North.Entries[0].NRR, ShouldEqual, -1.75)
			})

			Convey("And the invalid entry is reported by position", func() {
				So(len(proj.Rejected), ShouldEqual, 1)
				So(proj.Rejected[0].Index, ShouldEqual, 1)
				So(proj.Rejected[0].Match, ShouldEqual, "A v A")
			})

			Convey("And the base table is untouched", func() {
				s, err := svc.Standings(ctx)
				So(err, ShouldBeNil)
				So(s.North.Entries[0].Points, ShouldEqual, 4)
				So(s.South.Entries[1].Points, ShouldEqual, 1)
			})
		})

		Convey("When a projected innings runs past the quota Targets enforces", func() {
			_, terr := svc.Targets(ctx, 160, 20.1)
			proj, err := svc.Project(ctx, []model.FutureMatch{
				{Team1: "C", Team2: "A", Runs1: 200, Overs1: 20.1, Runs2: 100, Overs2: 20.0},
				{Team1: "C", Team2: "A", Runs1: 200, Overs1: 1e19, Runs2: 100, Overs2: 20.0},
			})
			base, _ := svc.Standings(ctx)

			Convey("Then both surfaces refuse it", func() {
				So(errors.Is(terr, service.ErrInvalidInput), ShouldBeTrue)
				So(err, ShouldBeNil)
				So(proj.Accepted, ShouldEqual, 0)
				So(len(proj.Rejected), ShouldEqual, 2)
				So(proj.Rejected[0].Reason, ShouldContainSubstring, "quota")
				So(proj.Standings, ShouldResemble, base)
			})
		})

		Convey("When a projected match names a new team", func() {
			proj, err := svc.Project(ctx, []model.FutureMatch{
				{Team1: "D", Team2: "A", Runs1: 120, Overs1: 20.0, Runs2: 121, Overs2: 18.2},
			})
			So(err, ShouldBeNil)

			Convey("Then it is accepted, flagged and placed in South", func() {
				So(proj.Accepted, ShouldEqual, 1)
				So(proj.Unknown, ShouldResemble, []string{"D"})
				So(len(proj.Standings.South.Entries), ShouldEqual, 3)
			})
		})

		Convey("When no future matches are given", func() {
			proj, err := svc.Project(ctx, nil)
			base, _ := svc.Standings(ctx)

			Convey("Then the projection equals the current table", func() {
				So(err, ShouldBeNil)
				So(proj.Standings, ShouldResemble, base)
				So(proj.Rejected, ShouldBeEmpty)
			})
		})
	})

	Convey("Given a strict service", t, func() {
		ctx := context.Background()
		svc := newService(service.WithStrictTeams(true))
		So(svc.Start(ctx), ShouldBeNil)
		defer svc.Stop()

		proj, err := svc.Project(ctx, []model.FutureMatch{
			{Team1: "D", Team2: "A", Runs1: 120, Overs1: 20.0, Runs2: 121, Overs2: 18.2},
		})

		Convey("Then unknown teams are rejected", func() {
			So(err, ShouldBeNil)
			So(proj.Accepted, ShouldEqual, 0)
			So(len(proj.Rejected), ShouldEqual, 1)
		})
	})
}

func TestService_Targets(t *testing.T) {
	Convey("Given a service with the league ratio", t, func() {
		ctx := context.Background()
		svc := newService()

		Convey("When a side makes 160 in 20 overs", func() {
			tg, err := svc.Targets(ctx, 160, 20.0)

			Convey("Then the bonus scenarios are listed", func() {
				So(err, ShouldBeNil)
				So(tg.Overs, ShouldEqual, "20.0")
				So(tg.MaxConceded, ShouldEqual, 128)
				So(len(tg.Chases), ShouldEqual, 6)
				So(tg.Chases[0].ByOvers, ShouldEqual, "16.0")
			})
		})

		Convey("When the input is impossible", func() {
			for _, tc := range []struct {
				runs int
				ov   float64
			}{{160, 19.6}, {0, 20.0}, {-1, 10.0}, {200, 21.0}} {
				_, err := svc.Targets(ctx, tc.runs, tc.ov)
				So(errors.Is(err, service.ErrInvalidInput), ShouldBeTrue)
			}
		})
	})
}
