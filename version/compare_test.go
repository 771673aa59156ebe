package version

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestCompare(t *testing.T) {
	Convey("Given two versions", t, func() {
		Convey("Newer major wins over everything else", func() {
			c, err := Compare("1.0.0", "0.9.9")
			So(err, ShouldBeNil)
			So(c, ShouldEqual, 1)
		})

		Convey("The v prefix is ignored", func() {
			c, err := Compare("v0.3.0", "0.3.0")
			So(err, ShouldBeNil)
			So(c, ShouldEqual, 0)
		})

		Convey("Older patch loses", func() {
			c, err := Compare("0.3.0", "0.3.1")
			So(err, ShouldBeNil)
			So(c, ShouldEqual, -1)
		})

		Convey("Garbage is an error", func() {
			_, err := Compare("latest", "0.3.0")
			So(err, ShouldNotBeNil)
		})
	})
}
