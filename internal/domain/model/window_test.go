package model_test

import (
	"testing"
	"time"

	"github.com/hucklog/hucklog/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestWindow(t *testing.T) {
	Convey("Given a bounded window", t, func() {
		w := model.Between(100, 1000)

		Convey("Then the bounds are inclusive", func() {
			So(w.Contains(100), ShouldBeTrue)
			So(w.Contains(1000), ShouldBeTrue)
			So(w.Contains(500), ShouldBeTrue)
		})

		Convey("Then just outside the bounds is excluded", func() {
			So(w.Contains(99.999999), ShouldBeFalse)
			// one microsecond past the end
			So(w.Contains(1000.000001), ShouldBeFalse)
		})
	})

	Convey("Given an unbounded window", t, func() {
		w := model.Since(100)

		Convey("Then everything at or after start is included", func() {
			So(w.Contains(100), ShouldBeTrue)
			So(w.Contains(1e12), ShouldBeTrue)
			So(w.Contains(99), ShouldBeFalse)
		})

		Convey("Then it reports no upper bound", func() {
			_, bounded := w.End()
			So(bounded, ShouldBeFalse)
		})
	})
}

func TestWeekOf(t *testing.T) {
	Convey("Given the team timezone", t, func() {
		loc, err := time.LoadLocation("America/New_York")
		So(err, ShouldBeNil)

		Convey("When building the week of a Wednesday", func() {
			// Wednesday 2025-01-15 13:45 local
			wed := time.Date(2025, 1, 15, 13, 45, 0, 0, loc)
			w := model.WeekOf(wed)

			Convey("Then the window starts Monday 00:00", func() {
				start := w.StartTime(loc)
				So(start.Weekday(), ShouldEqual, time.Monday)
				So(start.Day(), ShouldEqual, 13)
				So(start.Hour(), ShouldEqual, 0)
				So(start.Minute(), ShouldEqual, 0)
			})

			Convey("Then the window ends Sunday 23:59:59.999999", func() {
				end, bounded := w.End()
				So(bounded, ShouldBeTrue)
				endT := w.EndTime(loc)
				So(endT.Weekday(), ShouldEqual, time.Sunday)
				So(endT.Day(), ShouldEqual, 19)
				So(w.Contains(end), ShouldBeTrue)
				So(w.Contains(end+0.000001), ShouldBeFalse)
			})
		})

		Convey("When building the week of a Monday", func() {
			mon := time.Date(2025, 1, 13, 0, 0, 0, 0, loc)
			w := model.WeekOf(mon)

			Convey("Then the window starts on the same day", func() {
				So(w.StartTime(loc).Day(), ShouldEqual, 13)
			})
		})

		Convey("When building the week of a Sunday", func() {
			sun := time.Date(2025, 1, 19, 23, 0, 0, 0, loc)
			w := model.WeekOf(sun)

			Convey("Then the window still starts the previous Monday", func() {
				So(w.StartTime(loc).Day(), ShouldEqual, 13)
			})
		})
	})
}

func TestDirectory(t *testing.T) {
	Convey("Given a directory built from a name map", t, func() {
		d := model.NewDirectory(map[string]string{
			"U2": "Bob",
			"U1": "Alice",
			"U3": "Carol",
		})

		Convey("Then members are ordered by id", func() {
			members := d.Members()
			So(len(members), ShouldEqual, 3)
			So(members[0].ID, ShouldEqual, "U1")
			So(members[1].ID, ShouldEqual, "U2")
			So(members[2].ID, ShouldEqual, "U3")
		})

		Convey("Then lookups work", func() {
			name, ok := d.Name("U2")
			So(ok, ShouldBeTrue)
			So(name, ShouldEqual, "Bob")
			So(d.Has("U9"), ShouldBeFalse)
			So(d.Len(), ShouldEqual, 3)
		})
	})
}
