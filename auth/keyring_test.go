package auth

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/zalando/go-keyring"
)

func init() {
	keyring.MockInit()
}

func TestToken(t *testing.T) {
	Convey("Given an empty keyring", t, func() {
		Reset(func() { _ = DeleteToken("openai") })

		Convey("No token is found", func() {
			_, err := GetToken("openai")
			So(err, ShouldEqual, ErrNoToken)
			So(HasToken("openai"), ShouldBeFalse)
		})

		Convey("A stored token is returned per responder", func() {
			So(SetToken("openai", "sk-test"), ShouldBeNil)

			token, err := GetToken("openai")
			So(err, ShouldBeNil)
			So(token, ShouldEqual, "sk-test")
			So(HasToken("other"), ShouldBeFalse)
		})

		Convey("Deleting is idempotent", func() {
			So(SetToken("openai", "sk-test"), ShouldBeNil)
			So(DeleteToken("openai"), ShouldBeNil)
			So(DeleteToken("openai"), ShouldBeNil)
			So(HasToken("openai"), ShouldBeFalse)
		})
	})
}
