package api_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/okian/nrr/internal/adapters/http/api"
	service "github.com/okian/nrr/internal/app"
	"github.com/okian/nrr/internal/domain/model"
	"github.com/okian/nrr/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

type mockDeps struct {
	standings types.Standings
	err       error
	projected []model.FutureMatch
	runs      int
	overs     float64
}

func (m *mockDeps) Standings(ctx context.Context) (types.Standings, error) {
	return m.standings, m.err
}

func (m *mockDeps) Rank(ctx context.Context, team string) (types.TeamStanding, error) {
	if m.err != nil {
		return types.TeamStanding{}, m.err
	}
	for _, g := range []types.Group{m.standings.North, m.standings.South} {
		for _, e := range g.Entries {
			if e.Team == team {
				return types.TeamStanding{Group: g.Name, Entry: e}, nil
			}
		}
	}
	return types.TeamStanding{}, fmt.Errorf("%w: %s", service.ErrTeamNotFound, team)
}

func (m *mockDeps) Project(ctx context.Context, futures []model.FutureMatch) (types.Projection, error) {
	if m.err != nil {
		return types.Projection{}, m.err
	}
	m.projected = futures
	return types.Projection{ID: "p-1", Standings: m.standings, Accepted: len(futures)}, nil
}

func (m *mockDeps) Targets(ctx context.Context, runs int, overs float64) (types.Targets, error) {
	if m.err != nil {
		return types.Targets{}, m.err
	}
	if runs <= 0 {
		return types.Targets{}, fmt.Errorf("%w: runs must be positive", service.ErrInvalidInput)
	}
	m.runs, m.overs = runs, overs
	return types.Targets{Runs: runs, Overs: "20.0", MaxConceded: 128}, nil
}

func (m *mockDeps) GetStats() map[string]any {
	return map[string]any{"started": true, "teams": 2}
}

func newMux(deps *mockDeps, opts ...api.Option) *http.ServeMux {
	mux := http.NewServeMux()
	api.NewServer(deps, opts...).Register(context.Background(), mux)
	return mux
}

func do(mux *http.ServeMux, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	return w
}

func nrr(v float64) *float64 { return &v }

func sampleStandings() types.Standings {
	return types.Standings{
		North: types.Group{Name: "North", Entries: []types.Entry{
			{Rank: 1, Team: "Yorkshire Women", Played: 2, Won: 2, Points: 8, NRR: nrr(1.25)},
		}},
		South: types.Group{Name: "South", Entries: []types.Entry{
			{Rank: 1, Team: "Middlesex Women", Played: 2, Lost: 2, Points: 0},
		}},
	}
}

func TestServerRoutes(t *testing.T) {
	Convey("Given a registered API server", t, func() {
		deps := &mockDeps{standings: sampleStandings()}
		mux := newMux(deps)

		Convey("When health is requested as JSON", func() {
			w := do(mux, http.MethodGet, "/healthz", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, `"status":"ok"`)
		})

		Convey("When health is requested as plain text", func() {
			req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
			req.Header.Set("Accept", "text/plain")
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			Convey("Then Prometheus metrics are served", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Body.String(), ShouldContainSubstring, "nrr_")
			})
		})

		Convey("When stats are requested", func() {
			w := do(mux, http.MethodGet, "/stats", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, `"started":true`)
			So(w.Body.String(), ShouldContainSubstring, `"uptimeSeconds":`)
		})

		Convey("When a route is called with the wrong method", func() {
			So(do(mux, http.MethodPost, "/standings", "").Code, ShouldEqual, http.StatusMethodNotAllowed)
			So(do(mux, http.MethodGet, "/projections", "").Code, ShouldEqual, http.StatusMethodNotAllowed)
			So(do(mux, http.MethodGet, "/targets", "").Code, ShouldEqual, http.StatusMethodNotAllowed)
		})
	})
}

func TestStandingsHandlers(t *testing.T) {
	Convey("Given standings with one team per group", t, func() {
		deps := &mockDeps{standings: sampleStandings()}
		mux := newMux(deps)

		Convey("When the full table is requested", func() {
			w := do(mux, http.MethodGet, "/standings", "")

			Convey("Then both groups are returned", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				var got types.Standings
				So(json.Unmarshal(w.Body.Bytes(), &got), ShouldBeNil)
				So(got.North.Entries[0].Team, ShouldEqual, "Yorkshire Women")
				So(*got.North.Entries[0].NRR, ShouldEqual, 1.25)
				So(got.South.Entries[0].NRR, ShouldBeNil)
			})
		})

		Convey("When a team with spaces in its name is requested", func() {
			w := do(mux, http.MethodGet, "/standings/Middlesex%20Women", "")

			Convey("Then its row and group are returned", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				var got types.TeamStanding
				So(json.Unmarshal(w.Body.Bytes(), &got), ShouldBeNil)
				So(got.Group, ShouldEqual, "South")
				So(got.Team, ShouldEqual, "Middlesex Women")
			})
		})

		Convey("When an unknown team is requested", func() {
			w := do(mux, http.MethodGet, "/standings/Nobody", "")
			So(w.Code, ShouldEqual, http.StatusNotFound)
			So(w.Body.String(), ShouldContainSubstring, `"code":"not_found"`)
		})

		Convey("When the team segment is empty", func() {
			So(do(mux, http.MethodGet, "/standings/", "").Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When the service has not started", func() {
			deps.err = service.ErrNotStarted
			So(do(mux, http.MethodGet, "/standings", "").Code, ShouldEqual, http.StatusServiceUnavailable)
		})

		Convey("When the service fails unexpectedly", func() {
			deps.err = fmt.Errorf("disk on fire")
			w := do(mux, http.MethodGet, "/standings", "")
			So(w.Code, ShouldEqual, http.StatusInternalServerError)
			So(w.Body.String(), ShouldContainSubstring, "internal_error")
		})
	})
}

func TestProjectionHandler(t *testing.T) {
	Convey("Given a projections endpoint limited to two matches", t, func() {
		deps := &mockDeps{standings: sampleStandings()}
		mux := newMux(deps, api.WithMaxFutureMatches(2))

		Convey("When one future match is posted", func() {
			body := `{"matches":[{"team1":"Yorkshire Women","team2":"Middlesex Women","runs1":160,"overs1":20,"runs2":120,"overs2":19.3,"all_out2":true}]}`
			w := do(mux, http.MethodPost, "/projections", body)

			Convey("Then the match reaches the service intact", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(len(deps.projected), ShouldEqual, 1)
				So(deps.projected[0].Overs2, ShouldEqual, 19.3)
				So(deps.projected[0].AllOut2, ShouldBeTrue)
			})

			Convey("And the projection is returned", func() {
				var got types.Projection
				So(json.Unmarshal(w.Body.Bytes(), &got), ShouldBeNil)
				So(got.ID, ShouldEqual, "p-1")
				So(got.Accepted, ShouldEqual, 1)
			})
		})

		Convey("When too many matches are posted", func() {
			m := `{"team1":"A","team2":"B","runs1":1,"overs1":1,"runs2":0,"overs2":1}`
			w := do(mux, http.MethodPost, "/projections", `{"matches":[`+m+`,`+m+`,`+m+`]}`)
			So(w.Code, ShouldEqual, http.StatusRequestEntityTooLarge)
			So(deps.projected, ShouldBeNil)
		})

		Convey("When the body is not JSON", func() {
			So(do(mux, http.MethodPost, "/projections", `nope`).Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When the body has unknown fields", func() {
			So(do(mux, http.MethodPost, "/projections", `{"fixtures":[]}`).Code, ShouldEqual, http.StatusBadRequest)
		})
	})
}

func TestTargetsHandler(t *testing.T) {
	Convey("Given a targets endpoint", t, func() {
		deps := &mockDeps{}
		mux := newMux(deps)

		Convey("When a valid first innings is posted", func() {
			w := do(mux, http.MethodPost, "/targets", `{"runs":160,"overs":20}`)
			So(w.Code, ShouldEqual, http.StatusOK)
			So(deps.runs, ShouldEqual, 160)
			So(deps.overs, ShouldEqual, 20.0)
			So(w.Body.String(), ShouldContainSubstring, `"max_conceded":128`)
		})

		Convey("When overs are missing", func() {
			w := do(mux, http.MethodPost, "/targets", `{"runs":160}`)
			So(w.Code, ShouldEqual, http.StatusBadRequest)
			So(w.Body.String(), ShouldContainSubstring, "missing overs")
		})

		Convey("When the service rejects the input", func() {
			So(do(mux, http.MethodPost, "/targets", `{"runs":0,"overs":20}`).Code, ShouldEqual, http.StatusBadRequest)
		})
	})
}
