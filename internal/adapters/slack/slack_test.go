package slack

import (
	"errors"
	"testing"

	api "github.com/slack-go/slack"
	. "github.com/smartystreets/goconvey/convey"
)

func TestWrapTransport(t *testing.T) {
	Convey("Given a wrapped API failure", t, func() {
		err := wrapTransport("fetch history page", errors.New("rate limited"))

		Convey("Then it matches the transport sentinel and keeps the cause", func() {
			So(errors.Is(err, ErrTransport), ShouldBeTrue)
			So(err.Error(), ShouldContainSubstring, "fetch history page")
			So(err.Error(), ShouldContainSubstring, "rate limited")
		})
	})
}

func TestListenerAllowed(t *testing.T) {
	Convey("Given a listener bound to a captains channel", t, func() {
		lst := &Listener{captainsChannel: "C0CAPT"}

		Convey("Then DMs and the captains channel are allowed", func() {
			So(lst.allowed("D12345"), ShouldBeTrue)
			So(lst.allowed("C0CAPT"), ShouldBeTrue)
		})

		Convey("And other channels are refused", func() {
			So(lst.allowed("C99999"), ShouldBeFalse)
			So(lst.allowed("G12345"), ShouldBeFalse)
		})
	})
}

func TestToModel(t *testing.T) {
	Convey("Given an API message", t, func() {
		m := api.Message{}
		m.Text = "!gym"
		m.User = "U1"
		m.Timestamp = "1700000000.000100"
		m.ThreadTimestamp = "1700000000.000000"

		Convey("Then the record carries text, author and both timestamps", func() {
			rec := toModel(m)
			So(rec.Text, ShouldEqual, "!gym")
			So(rec.User, ShouldEqual, "U1")
			So(rec.TS, ShouldEqual, "1700000000.000100")
			So(rec.ThreadTS, ShouldEqual, "1700000000.000000")
		})
	})
}
