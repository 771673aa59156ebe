package stylesheet

import (
	"errors"
	"strings"
	"testing"

	"github.com/bavarder-cli/bavarder/filesystem"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestClassify(t *testing.T) {
	Convey("Classify", t, func() {
		Convey("Plain CSS is passthrough", func() {
			line, err := Classify(1, "body { color: red; }")
			So(err, ShouldBeNil)
			So(line.Kind, ShouldEqual, Passthrough)
			So(line.Text, ShouldEqual, "body { color: red; }")
		})

		Convey("A non palette name is a variable", func() {
			line, err := Classify(1, "@define-color accent_bg_color #3584e4;")
			So(err, ShouldBeNil)
			So(line.Kind, ShouldEqual, Variable)
			So(line.Name, ShouldEqual, "accent_bg_color")
			So(line.Value, ShouldEqual, "#3584e4")
		})

		Convey("Values may contain spaces", func() {
			line, err := Classify(1, "@define-color window_bg_color mix(#fff, @view_bg_color, 0.5);")
			So(err, ShouldBeNil)
			So(line.Value, ShouldEqual, "mix(#fff, @view_bg_color, 0.5)")
		})

		Convey("Indentation and tabs are accepted", func() {
			line, err := Classify(1, "\t@define-color\tcard_fg_color\trgba(0, 0, 0, 0.8) ;")
			So(err, ShouldBeNil)
			So(line.Name, ShouldEqual, "card_fg_color")
			So(line.Value, ShouldEqual, "rgba(0, 0, 0, 0.8)")
		})

		Convey("A palette name is split into family and shade", func() {
			line, err := Classify(1, "@define-color light_4 #c0bfbc;")
			So(err, ShouldBeNil)
			So(line.Kind, ShouldEqual, Palette)
			So(line.Family, ShouldEqual, "light")
			So(line.Shade, ShouldEqual, "4")
			So(line.Value, ShouldEqual, "#c0bfbc")
		})

		Convey("A longer word starting with the marker is not a declaration", func() {
			line, err := Classify(1, "@define-colors nothing here")
			So(err, ShouldBeNil)
			So(line.Kind, ShouldEqual, Passthrough)
		})

		Convey("Malformed declarations are reported with their line", func() {
			for _, text := range []string{
				"@define-color",
				"@define-color   ",
				"@define-color accent_color;",
				"@define-color accent_color ;",
				"@define-color blue_ #fff;",
				"@define-color blue_10 #fff;",
			} {
				_, err := Classify(7, text)
				So(err, ShouldNotBeNil)
				So(errors.Is(err, ErrMalformedDeclaration), ShouldBeTrue)

				var malformed *MalformedDeclarationError
				So(errors.As(err, &malformed), ShouldBeTrue)
				So(malformed.Line, ShouldEqual, 7)
				So(malformed.Text, ShouldEqual, text)
			}
		})
	})
}

func TestExtract(t *testing.T) {
	Convey("Extract", t, func() {
		Convey("The canonical example", func() {
			result, err := ExtractString("@define-color blue_3 #123456;\nbody{color:red}\n")
			So(err, ShouldBeNil)
			So(result.Palette["blue"]["3"], ShouldEqual, "#123456")
			So(result.Passthrough, ShouldEqual, "body{color:red}\n")
			So(result.Variables, ShouldBeEmpty)
		})

		Convey("Every family is initialized even when unused", func() {
			result, err := ExtractString("")
			So(err, ShouldBeNil)
			So(len(result.Palette), ShouldEqual, 9)
			for _, prefix := range Families {
				So(result.Palette[FamilyName(prefix)], ShouldNotBeNil)
			}
			So(result.Declarations(), ShouldEqual, 0)
		})

		Convey("Declarations and passthrough are mutually exclusive", func() {
			source := strings.Join([]string{
				"/* header */",
				"@define-color view_fg_color #000000;",
				"",
				"@define-color red_1 #f66151;",
				"window { background: @view_bg_color; }",
				"@define-color view_bg_color #ffffff;",
			}, "\n")

			result, err := ExtractString(source)
			So(err, ShouldBeNil)
			So(result.Variables, ShouldResemble, map[string]string{
				"view_fg_color": "#000000",
				"view_bg_color": "#ffffff",
			})
			So(result.Palette["red"], ShouldResemble, map[string]string{"1": "#f66151"})
			So(result.Passthrough, ShouldEqual, "/* header */\n\nwindow { background: @view_bg_color; }\n")
			So(result.Passthrough, ShouldNotContainSubstring, "@define-color")
			So(result.Declarations(), ShouldEqual, 3)
		})

		Convey("CRLF line endings are normalized", func() {
			result, err := ExtractString("@define-color accent_color #1c71d8;\r\na{}\r\n")
			So(err, ShouldBeNil)
			So(result.Variables["accent_color"], ShouldEqual, "#1c71d8")
			So(result.Passthrough, ShouldEqual, "a{}\n")
		})

		Convey("The last declaration of a name wins", func() {
			result, err := ExtractString("@define-color accent_color #111;\n@define-color accent_color #222;\n")
			So(err, ShouldBeNil)
			So(result.Variables["accent_color"], ShouldEqual, "#222")
		})

		Convey("A malformed line fails the whole extraction", func() {
			result, err := ExtractString("a{}\n@define-color broken\n")
			So(result, ShouldBeNil)
			So(errors.Is(err, ErrMalformedDeclaration), ShouldBeTrue)
			So(err.Error(), ShouldContainSubstring, "line 2")
		})
	})
}

func TestExtractFile(t *testing.T) {
	Convey("ExtractFile", t, func() {
		Convey("A missing file is ErrThemeSourceMissing", func() {
			_, err := ExtractFile("/nowhere/gtk.css")
			So(errors.Is(err, ErrThemeSourceMissing), ShouldBeTrue)
		})

		Convey("An existing file is extracted", func() {
			So(filesystem.API().WriteFile("/themes/gtk.css", []byte("@define-color green_2 #57e389;\n"), 0644), ShouldBeNil)
			result, err := ExtractFile("/themes/gtk.css")
			So(err, ShouldBeNil)
			So(result.Palette["green"]["2"], ShouldEqual, "#57e389")
		})
	})
}
