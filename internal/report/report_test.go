package report_test

import (
	"strings"
	"testing"
	"time"

	"github.com/hucklog/hucklog/internal/domain/model"
	"github.com/hucklog/hucklog/internal/domain/rules"
	"github.com/hucklog/hucklog/internal/report"
	. "github.com/smartystreets/goconvey/convey"
)

func roster() model.Directory {
	return model.NewDirectory(map[string]string{
		"U1": "Alice",
		"U2": "Bob",
		"U3": "Carol",
	})
}

func TestThrowingLeaderboard(t *testing.T) {
	Convey("Given Alice 90, Bob 45 and Carol 0 minutes", t, func() {
		f := report.New(rules.Current())
		totals := map[string]model.Tally{
			"U1": {Throw: 90},
			"U2": {Throw: 45},
			"U3": {},
		}

		Convey("When rendering the leaderboard", func() {
			out := f.ThrowingLeaderboard(roster(), totals)

			Convey("Then ranks descend and the zero row is omitted", func() {
				So(out, ShouldEqual, "*Full Throwing Leaderboard*\n"+
					"*1. Alice* with 90 minutes\n"+
					"*2. Bob* with 45 minutes")
			})
		})
	})

	Convey("Given a tie", t, func() {
		f := report.New(rules.Current())
		totals := map[string]model.Tally{
			"U1": {Throw: 45},
			"U2": {Throw: 45},
		}

		Convey("When rendering twice", func() {
			first := f.ThrowingLeaderboard(roster(), totals)
			second := f.ThrowingLeaderboard(roster(), totals)

			Convey("Then the tie-break is deterministic (roster order)", func() {
				So(first, ShouldEqual, second)
				So(strings.Index(first, "Alice"), ShouldBeLessThan, strings.Index(first, "Bob"))
			})
		})
	})
}

func TestWorkoutLeaderboard(t *testing.T) {
	Convey("Given folded workout points", t, func() {
		f := report.New(rules.Current())
		totals := map[string]model.Tally{
			"U1": {Gym: 1, Lift: 1.5},
			"U2": {Gym: 3},
		}

		Convey("When rendering with a gym+lift fold", func() {
			out := f.WorkoutLeaderboard(roster(), totals, func(t model.Tally) float64 {
				return t.Gym + t.Lift
			})

			Convey("Then points render with fractions preserved", func() {
				So(out, ShouldEqual, "*Full Workout Leaderboard*\n"+
					"*1. Bob* with 3 points\n"+
					"*2. Alice* with 2.5 points")
			})
		})
	})
}

func TestWeeklySummaries(t *testing.T) {
	Convey("Given one member at goal and two behind", t, func() {
		f := report.New(rules.Current())
		totals := map[string]model.Tally{
			"U1": {Throw: 90, Lift: 1.5},
			"U2": {Throw: 30},
			"U3": {},
		}

		Convey("When rendering the throwing summary", func() {
			out := f.WeeklyThrowSummary(roster(), totals)

			Convey("Then counts, total and star thrower appear", func() {
				So(out, ShouldContainSubstring, "*Weekly Update!*")
				So(out, ShouldContainSubstring, "Overall Progress: 1/3 reached 60 minutes")
				So(out, ShouldContainSubstring, "120 total minutes of throwing")
				So(out, ShouldContainSubstring, ":star2: thrower: <@U1> with 90 minutes")
			})
		})

		Convey("When rendering the lifting summary", func() {
			out := f.WeeklyLiftSummary(roster(), totals)

			Convey("Then the lift compliance count and points total appear", func() {
				So(out, ShouldContainSubstring, "Overall Progress: 1/3 have lifted this week")
				So(out, ShouldContainSubstring, "1.5 points of lifts")
			})
		})

		Convey("When rendering the behind lists", func() {
			throws := f.ThrowBehindList(roster(), totals)
			lifts := f.LiftBehindList(roster(), totals)

			Convey("Then members behind are mentioned with what is left", func() {
				So(throws, ShouldContainSubstring, "<@U2> - 30 minutes left")
				So(throws, ShouldContainSubstring, "<@U3> - 60 minutes left")
				So(throws, ShouldNotContainSubstring, "<@U1>")

				So(lifts, ShouldContainSubstring, "<@U2>")
				So(lifts, ShouldContainSubstring, "<@U3>")
				So(lifts, ShouldNotContainSubstring, "<@U1>")
			})
		})
	})

	Convey("Given a fully idle week", t, func() {
		f := report.New(rules.Current())
		totals := map[string]model.Tally{"U1": {}, "U2": {}, "U3": {}}

		Convey("When rendering the throwing summary", func() {
			out := f.WeeklyThrowSummary(roster(), totals)

			Convey("Then the star line still names the first roster member", func() {
				So(out, ShouldContainSubstring, ":star2: thrower: <@U1> with 0 minutes")
			})
		})
	})

	Convey("Given a week with no idle throwers", t, func() {
		f := report.New(rules.Current())
		totals := map[string]model.Tally{
			"U1": {Throw: 60}, "U2": {Throw: 75}, "U3": {Throw: 90},
		}

		Convey("When rendering the behind list", func() {
			out := f.ThrowBehindList(roster(), totals)

			Convey("Then it says None!", func() {
				So(out, ShouldEqual, "*Under 60 minutes:*\nNone!")
			})
		})
	})
}

func TestCaptainsReport(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Fatal(err)
	}

	Convey("Given last week's totals", t, func() {
		f := report.New(rules.Current())
		week := model.WeekOf(time.Date(2025, 1, 15, 10, 0, 0, 0, loc))
		totals := map[string]model.Tally{
			"U1": {Throw: 90, Lift: 1.5},
			"U2": {Throw: 30, Lift: 1.5},
			"U3": {Throw: 75},
		}

		Convey("When rendering the captains report", func() {
			out := f.CaptainsReport(roster(), totals, week, loc)

			Convey("Then the week label and named offenders appear", func() {
				So(out, ShouldContainSubstring, "*Captains Report 01/13-01/19*")
				So(out, ShouldContainSubstring, "*Bob* - 30 minutes thrown")
				So(out, ShouldNotContainSubstring, "*Alice* - ")
				So(out, ShouldContainSubstring, "*Lifters under one lift:*\n*Carol*")
			})
		})
	})

	Convey("Given a fully compliant week", t, func() {
		f := report.New(rules.Current())
		week := model.WeekOf(time.Date(2025, 1, 15, 10, 0, 0, 0, loc))
		totals := map[string]model.Tally{
			"U1": {Throw: 60, Lift: 1.5},
			"U2": {Throw: 60, Lift: 1.5},
			"U3": {Throw: 60, Lift: 1.5},
		}

		Convey("When rendering", func() {
			out := f.CaptainsReport(roster(), totals, week, loc)

			Convey("Then both sections say None!", func() {
				So(strings.Count(out, "None!"), ShouldEqual, 2)
			})
		})
	})
}
