package filesystem

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/afero"
)

func TestApi(t *testing.T) {
	Convey("Filesystem API", t, func() {
		Convey("Should default to OsFs", func() {
			SetOsFs()
			fs := API()
			So(fs, ShouldNotBeNil)
			So(fs.Name(), ShouldEqual, "OsFs")
		})

		Convey("Should switch to MemMapFs", func() {
			SetMemMapFs()
			fs := API()
			So(fs, ShouldNotBeNil)
			So(fs.Name(), ShouldEqual, "MemMapFS")
		})

		Convey("Should accept any backend", func() {
			SetBackend(afero.NewReadOnlyFs(afero.NewMemMapFs()))
			So(API().Name(), ShouldEqual, "ReadOnlyFilter")
			SetMemMapFs()
		})
	})
}

func TestWriteAtomic(t *testing.T) {
	Convey("Given an in-memory filesystem", t, func() {
		SetMemMapFs()
		So(API().MkdirAll("/data", 0755), ShouldBeNil)

		Convey("WriteAtomic replaces the content and leaves no temporary file", func() {
			So(WriteAtomic("/data/file.json", []byte("one"), 0644), ShouldBeNil)
			So(WriteAtomic("/data/file.json", []byte("two"), 0644), ShouldBeNil)

			content, err := API().ReadFile("/data/file.json")
			So(err, ShouldBeNil)
			So(string(content), ShouldEqual, "two")

			exists, _ := API().Exists("/data/file.json.tmp")
			So(exists, ShouldBeFalse)
		})

		Convey("WriteAtomic fails on a read-only backend", func() {
			SetBackend(afero.NewReadOnlyFs(afero.NewMemMapFs()))
			defer SetMemMapFs()
			So(WriteAtomic("/data/file.json", []byte("x"), 0644), ShouldNotBeNil)
		})
	})
}
