package api

import (
	"errors"
	"testing"

	service "github.com/okian/nrr/internal/app"
	. "github.com/smartystreets/goconvey/convey"
)

func TestOpError(t *testing.T) {
	Convey("Given an error wrapped with an op and a kind", t, func() {
		err := WrapKind("api.get_team", ErrNotFound, service.ErrTeamNotFound)

		Convey("Then both the kind and the cause match", func() {
			So(errors.Is(err, ErrNotFound), ShouldBeTrue)
			So(errors.Is(err, service.ErrTeamNotFound), ShouldBeTrue)
			So(errors.Is(err, ErrBadRequest), ShouldBeFalse)
		})

		Convey("And the message names the op first", func() {
			So(err.Error(), ShouldStartWith, "api.get_team: not found: ")
		})
	})

	Convey("Given kind-only and cause-only errors", t, func() {
		So(NewKind("op", ErrBadRequest).Error(), ShouldEqual, "op: bad request")
		So(Wrap("op", errors.New("boom")).Error(), ShouldEqual, "op: boom")
	})
}

func TestErrorTypeFor(t *testing.T) {
	Convey("Given HTTP error statuses", t, func() {
		cases := []struct {
			status int
			want   string
		}{
			{400, "client_error"},
			{404, "not_found"},
			{405, "method_not_allowed"},
			{413, "too_large"},
			{500, "server_error"},
			{503, "unavailable"},
		}
		for _, c := range cases {
			So(errorTypeFor(c.status), ShouldEqual, c.want)
		}
	})
}
