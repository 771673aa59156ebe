package script

import (
	"testing"

	"github.com/bavarder-cli/bavarder/filesystem"
	. "github.com/smartystreets/goconvey/convey"
	lua "github.com/yuin/gopher-lua"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestLoad(t *testing.T) {
	Convey("Given a script on disk", t, func() {
		path := "/responders/greet.lua"
		So(filesystem.API().WriteFile(path, []byte(`function Ask(p) return "hi " .. p end`), 0644), ShouldBeNil)
		Reset(func() { Forget(path) })

		Convey("Loading defines its globals", func() {
			L := lua.NewState()
			defer L.Close()

			So(Load(L, path), ShouldBeNil)
			So(L.GetGlobal("Ask").Type(), ShouldEqual, lua.LTFunction)
		})

		Convey("The compiled form is reused until forgotten", func() {
			first, err := Compile(path)
			So(err, ShouldBeNil)

			So(filesystem.API().WriteFile(path, []byte(`syntax error here`), 0644), ShouldBeNil)
			second, err := Compile(path)
			So(err, ShouldBeNil)
			So(second, ShouldEqual, first)

			Forget(path)
			_, err = Compile(path)
			So(err, ShouldNotBeNil)
		})
	})

	Convey("Loading a missing script fails", t, func() {
		So(Load(lua.NewState(), "/nope.lua"), ShouldNotBeNil)
	})
}
