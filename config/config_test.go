package config

import (
	"path/filepath"
	"testing"

	"github.com/bavarder-cli/bavarder/constant"
	"github.com/bavarder-cli/bavarder/filesystem"
	"github.com/bavarder-cli/bavarder/key"
	"github.com/bavarder-cli/bavarder/where"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestSetup(t *testing.T) {
	Convey("Config Setup", t, func() {
		Convey("Should initialize without error", func() {
			err := Setup()
			So(err, ShouldBeNil)
		})

		Convey("Should have default values populated", func() {
			_ = Setup()
			for name := range Default {
				So(viper.IsSet(name), ShouldBeTrue)
			}
			So(viper.GetString(key.RenderBaseURI), ShouldEqual, "file://localhost/")
			So(viper.GetStringSlice(key.RespondersEnabled), ShouldResemble, []string{"echo"})
		})

		Convey("EnvKeyReplacer should convert dots to underscores", func() {
			result := EnvKeyReplacer.Replace("preview.open_browser")
			So(result, ShouldEqual, "preview_open_browser")
		})
	})
}

func TestField(t *testing.T) {
	Convey("Given a registered field", t, func() {
		field := Default[key.PromptClearAfterSend]

		Convey("Env should carry the application prefix", func() {
			So(field.Env(), ShouldEqual, "BAVARDER_PROMPT_CLEAR_AFTER_SEND")
		})

		Convey("typeName should follow the default value", func() {
			So(field.typeName(), ShouldEqual, "bool")
			So((&Field{Value: []string{}}).typeName(), ShouldEqual, "[]string")
		})
	})
}

func TestSnapshot(t *testing.T) {
	Convey("Given a snapshot taken from viper", t, func() {
		viper.Set(key.OpenAIModel, "local-model")
		snap := Take(key.OpenAIModel, key.RespondersTimeout)

		Convey("It keeps the value after viper changes", func() {
			viper.Set(key.OpenAIModel, "other")
			So(snap.String(key.OpenAIModel), ShouldEqual, "local-model")
		})

		Convey("With does not mutate the original", func() {
			changed := snap.With(key.RespondersTimeout, 5)
			So(changed.Int(key.RespondersTimeout), ShouldEqual, 5)
			So(snap.Int(key.RespondersTimeout), ShouldNotEqual, 5)
		})

		Convey("Missing keys read as zero values", func() {
			So(snap.Has(key.PreviewListen), ShouldBeFalse)
			So(snap.Bool(key.PreviewListen), ShouldBeFalse)
			So(snap.Strings(key.PreviewListen), ShouldBeEmpty)
		})
	})
}

func readBack(path string) *viper.Viper {
	v := viper.New()
	v.SetFs(filesystem.API())
	v.SetConfigFile(path)
	So(v.ReadInConfig(), ShouldBeNil)
	return v
}

func TestPersist(t *testing.T) {
	Convey("Given no config file", t, func() {
		So(Setup(), ShouldBeNil)
		path := filepath.Join(where.Config(), constant.Bavarder+".toml")
		_ = filesystem.API().Remove(path)

		Convey("Persist creates it with the new value", func() {
			So(Persist(key.RespondersDefault, "openai"), ShouldBeNil)
			So(readBack(path).GetString(key.RespondersDefault), ShouldEqual, "openai")

			Convey("And later writes update it", func() {
				So(Persist(key.RespondersDefault, "echo"), ShouldBeNil)
				So(readBack(path).GetString(key.RespondersDefault), ShouldEqual, "echo")
			})
		})
	})
}
