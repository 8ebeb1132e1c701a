package scoring_test

import (
	"math"
	"testing"

	"github.com/okian/poolwatch/internal/domain/model"
	scoring "github.com/okian/poolwatch/internal/domain/scoring"
	. "github.com/smartystreets/goconvey/convey"
)

func TestNormalize(t *testing.T) {
	Convey("Given raw score tokens", t, func() {
		Convey("When the token is even par", func() {
			So(scoring.Normalize("E"), ShouldEqual, 0)
			So(scoring.Normalize("  E\n"), ShouldEqual, 0)
		})

		Convey("When the token is a signed integer", func() {
			So(scoring.Normalize("-3"), ShouldEqual, -3)
			So(scoring.Normalize("+5"), ShouldEqual, 5)
			So(scoring.Normalize("7"), ShouldEqual, 7)
			So(scoring.Normalize(" -12 "), ShouldEqual, -12)
		})

		Convey("When the token is not a score", func() {
			for _, raw := range []string{"garbage", "", "   ", "CUT", "WD", "--", "e", "1.5", "3-"} {
				So(scoring.Normalize(raw), ShouldEqual, scoring.Sentinel)
			}
		})

		Convey("Then the sentinel outranks any realistic score", func() {
			So(scoring.Sentinel, ShouldEqual, math.MaxInt)
			So(scoring.Normalize("garbage"), ShouldBeGreaterThan, 1_000_000)
			So(scoring.IsSentinel(scoring.Normalize("garbage")), ShouldBeTrue)
			So(scoring.IsSentinel(0), ShouldBeFalse)
		})
	})
}

func TestFormat(t *testing.T) {
	Convey("Given normalized scores", t, func() {
		So(scoring.Format(0), ShouldEqual, "E")
		So(scoring.Format(4), ShouldEqual, "+4")
		So(scoring.Format(-6), ShouldEqual, "-6")
		So(scoring.Format(scoring.Sentinel), ShouldEqual, "--")
	})

	Convey("Given a formatted score", t, func() {
		Convey("Then normalizing it round-trips", func() {
			for _, n := range []int{-9, -1, 0, 1, 12} {
				So(scoring.Normalize(scoring.Format(n)), ShouldEqual, n)
			}
		})
	})
}

func TestDisplay(t *testing.T) {
	Convey("Given a parsed score", t, func() {
		So(scoring.Display(-2, "-2"), ShouldEqual, "-2")
		So(scoring.Display(0, "E"), ShouldEqual, "E")
	})

	Convey("Given an unparseable token", t, func() {
		So(scoring.Display(scoring.Normalize("WD"), "WD"), ShouldEqual, "WD")

		Convey("Then a missing token falls back to the sentinel text", func() {
			So(scoring.Display(scoring.Sentinel, ""), ShouldEqual, "--")
		})
	})
}

func TestNormalizeTeams(t *testing.T) {
	Convey("Given extracted teams with raw tokens", t, func() {
		teams := []model.Team{
			{Name: "Alpha", Raw: "-4", Players: []model.Player{{Name: "A", Raw: "E"}, {Name: "B", Raw: "WD"}}},
			{Name: "Bravo", Raw: ""},
		}

		Convey("When normalizing them", func() {
			scoring.NormalizeTeams(teams)

			Convey("Then every score is filled in place", func() {
				So(teams[0].Score, ShouldEqual, -4)
				So(teams[0].Players[0].Score, ShouldEqual, 0)
				So(teams[0].Players[1].Score, ShouldEqual, scoring.Sentinel)
				So(teams[1].Score, ShouldEqual, scoring.Sentinel)
			})
		})
	})
}
