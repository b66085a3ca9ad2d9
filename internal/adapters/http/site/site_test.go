package site

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/okian/nrr/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

type stubSource struct {
	st  types.Standings
	err error
}

func (s stubSource) Standings(context.Context) (types.Standings, error) { return s.st, s.err }

func TestRootHandler(t *testing.T) {
	Convey("Given a registered standings page", t, func() {
		src := stubSource{st: types.Standings{
			North: types.Group{Name: "North", Entries: []types.Entry{{Rank: 1, Team: "Yorkshire Women", Points: 4}}},
			South: types.Group{Name: "South", Entries: []types.Entry{{Rank: 1, Team: "Kent <Women>", Points: 2}}},
		}}
		mux := http.NewServeMux()
		Register(context.Background(), mux, src)

		Convey("When the root is requested", func() {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			Convey("Then both groups are rendered as HTML", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Header().Get("Content-Type"), ShouldContainSubstring, "text/html")
				So(w.Body.String(), ShouldContainSubstring, "North Group")
				So(w.Body.String(), ShouldContainSubstring, "Yorkshire Women")
			})

			Convey("And team names are escaped", func() {
				So(w.Body.String(), ShouldNotContainSubstring, "Kent <Women>")
			})
		})

		Convey("When an unknown path is requested", func() {
			req := httptest.NewRequest(http.MethodGet, "/nope", nil)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)
			So(w.Code, ShouldEqual, http.StatusNotFound)
		})
	})

	Convey("Given a source that is not ready", t, func() {
		h := NewRootHandler(stubSource{err: errors.New("not started")})
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

		So(w.Code, ShouldEqual, http.StatusServiceUnavailable)
	})
}
