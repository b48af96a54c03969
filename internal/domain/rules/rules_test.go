package rules_test

import (
	"errors"
	"testing"

	"github.com/hucklog/hucklog/internal/domain/rules"
	. "github.com/smartystreets/goconvey/convey"
)

func TestForVersion(t *testing.T) {
	Convey("Given the ruleset table", t, func() {
		Convey("When selecting the current version", func() {
			r, err := rules.ForVersion(rules.VersionFall2025)
			So(err, ShouldBeNil)

			Convey("Then workout is its own category", func() {
				var workout rules.Marker
				for _, m := range r.Markers() {
					if m.Token == "!workout" {
						workout = m
					}
				}
				So(workout.Category, ShouldEqual, rules.Workout)
				So(workout.Points, ShouldEqual, 1.5)
				So(r.CombineWorkout(), ShouldBeTrue)
			})

			Convey("Then caps match the evaluation sheet", func() {
				So(r.Cap(rules.Throw), ShouldEqual, 2)
				So(r.Cap(rules.Gym), ShouldEqual, 2)
				So(r.Cap(rules.Lift), ShouldEqual, 1.5)
				So(r.Cap(rules.Workout), ShouldEqual, 1.5)
				So(r.Cap(""), ShouldEqual, 6)
			})

			Convey("Then throwing normalizes at 2 points per hour", func() {
				So(r.ThrowPoints(60), ShouldEqual, 2)
				So(r.ThrowPoints(30), ShouldEqual, 1)
				So(r.ThrowPoints(0), ShouldEqual, 0)
			})

			Convey("Then the goals match", func() {
				So(r.WeeklyGoal(), ShouldEqual, 4)
				So(r.WeeklyThrowGoal(), ShouldEqual, 2)
				So(r.WeeklyLiftGoal(), ShouldEqual, 1.5)
				So(r.SemesterGoal(), ShouldEqual, 52)
				So(r.ThrowThresholdMinutes(), ShouldEqual, 60)
				So(r.LiftThresholdPoints(), ShouldEqual, 1.5)
			})
		})

		Convey("When selecting the legacy version", func() {
			r, err := rules.ForVersion(rules.VersionFall2024)
			So(err, ShouldBeNil)

			Convey("Then workout weighs into gym", func() {
				var workout rules.Marker
				for _, m := range r.Markers() {
					if m.Token == "!workout" {
						workout = m
					}
				}
				So(workout.Category, ShouldEqual, rules.Gym)
				So(r.CombineWorkout(), ShouldBeFalse)
			})
		})

		Convey("When selecting an unknown version", func() {
			_, err := rules.ForVersion("spring-1999")

			Convey("Then it should fail with the sentinel", func() {
				So(errors.Is(err, rules.ErrUnknownVersion), ShouldBeTrue)
			})
		})
	})
}
