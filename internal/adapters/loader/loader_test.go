package loader_test

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/okian/nrr/internal/adapters/loader"
	. "github.com/smartystreets/goconvey/convey"
)

const sample = ` Match , Date ,Innings,Over,Actual Ball,Legal Ball,Batting Team,Bowling Team,Team Runs,Team Wickets,Striker
A v B,2025-06-01,1,1,1,Yes,A,B,4,0,x
A v B,2025-06-01,1,20,6,Yes,A,B,180,5,y

A v B,2025-06-01,2,19,3.0,No,B,A,150,10,z
`

func TestRead(t *testing.T) {
	Convey("Given a delivery CSV with padded headers and an extra column", t, func() {
		ds, err := loader.Read(context.Background(), strings.NewReader(sample))

		Convey("Then every non-blank row is parsed", func() {
			So(err, ShouldBeNil)
			So(len(ds), ShouldEqual, 3)
			So(ds[1].Over, ShouldEqual, 20)
			So(ds[1].Ball, ShouldEqual, 6)
			So(ds[1].Legal, ShouldBeTrue)
			So(ds[1].Runs, ShouldEqual, 180)
		})

		Convey("And integral floats and non-legal markers are understood", func() {
			So(ds[2].Ball, ShouldEqual, 3)
			So(ds[2].Legal, ShouldBeFalse)
			So(ds[2].Wickets, ShouldEqual, 10)
			So(ds[2].BattingTeam, ShouldEqual, "B")
		})
	})

	Convey("Given a file using the short Ball header", t, func() {
		in := "Match,Date,Innings,Over,Ball,Legal Ball,Batting Team,Bowling Team,Team Runs,Team Wickets\n" +
			"A v B,d,1,2,4,yes,A,B,10,1\n"
		ds, err := loader.Read(context.Background(), strings.NewReader(in))

		So(err, ShouldBeNil)
		So(ds[0].Ball, ShouldEqual, 4)
		So(ds[0].Legal, ShouldBeTrue)
	})

	Convey("Given a file missing a required column", t, func() {
		_, err := loader.Read(context.Background(), strings.NewReader("Match,Date\nA v B,d\n"))

		So(errors.Is(err, loader.ErrMissingColumn), ShouldBeTrue)
	})

	Convey("Given a row with a non-numeric over", t, func() {
		in := "Match,Date,Innings,Over,Actual Ball,Legal Ball,Batting Team,Bowling Team,Team Runs,Team Wickets\n" +
			"A v B,d,1,x,4,Yes,A,B,10,1\n"
		_, err := loader.Read(context.Background(), strings.NewReader(in))

		Convey("Then the error names the line", func() {
			So(errors.Is(err, loader.ErrBadRecord), ShouldBeTrue)
			So(err.Error(), ShouldContainSubstring, "line 2")
		})
	})

	Convey("Given an empty input", t, func() {
		ds, err := loader.Read(context.Background(), strings.NewReader(""))

		So(err, ShouldBeNil)
		So(ds, ShouldBeEmpty)
	})
}

func TestLoad(t *testing.T) {
	Convey("Given a delivery file on disk", t, func() {
		path := filepath.Join(t.TempDir(), "deliveries.csv")
		So(os.WriteFile(path, []byte(sample), 0o600), ShouldBeNil)
		sum := sha256.Sum256([]byte(sample))

		Convey("When loading it", func() {
			res, err := loader.Load(context.Background(), path)

			Convey("Then deliveries and the content hash are returned", func() {
				So(err, ShouldBeNil)
				So(len(res.Deliveries), ShouldEqual, 3)
				So(res.Fingerprint, ShouldEqual, hex.EncodeToString(sum[:]))
			})

			Convey("And Fingerprint agrees without parsing", func() {
				fp, err := loader.Fingerprint(path)
				So(err, ShouldBeNil)
				So(fp, ShouldEqual, res.Fingerprint)
			})
		})

		Convey("When the file does not exist", func() {
			_, err := loader.Load(context.Background(), filepath.Join(t.TempDir(), "missing.csv"))

			So(errors.Is(err, os.ErrNotExist), ShouldBeTrue)
		})
	})
}
