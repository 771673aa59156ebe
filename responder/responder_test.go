package responder

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/bavarder-cli/bavarder/config"
	"github.com/bavarder-cli/bavarder/filesystem"
	"github.com/bavarder-cli/bavarder/key"
	"github.com/bavarder-cli/bavarder/where"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
)

func init() {
	filesystem.SetMemMapFs()
	_ = config.Setup()
}

func writeCustom(name, source string) {
	path := filepath.Join(where.Responders(), name+".lua")
	So(filesystem.API().WriteFile(path, []byte(source), 0644), ShouldBeNil)
}

func TestCatalog(t *testing.T) {
	Convey("Given the builtin responders", t, func() {
		Convey("echo and openai are available", func() {
			So(Names(), ShouldContain, EchoName)
			So(Names(), ShouldContain, OpenAIName)
		})

		Convey("Get finds a builtin", func() {
			p, err := Get(EchoName)
			So(err, ShouldBeNil)
			So(p.IsCustom, ShouldBeFalse)

			r, err := p.New()
			So(err, ShouldBeNil)
			reply, err := r.Ask(context.Background(), "hello")
			So(err, ShouldBeNil)
			So(reply, ShouldEqual, "hello")
		})

		Convey("Get suggests the closest name for a typo", func() {
			_, err := Get("opanai")
			So(err, ShouldNotBeNil)

			var unknown *UnknownError
			So(errors.As(err, &unknown), ShouldBeTrue)
			So(unknown.Suggestion, ShouldEqual, OpenAIName)
			So(err.Error(), ShouldContainSubstring, `did you mean "openai"`)
		})
	})

	Convey("Given a custom responder script", t, func() {
		writeCustom("rot", `function Ask(p) return "rot " .. p end`)
		Reset(func() { _ = Remove("rot") })

		Convey("It is listed after the builtins", func() {
			names := Names()
			So(names[len(names)-1], ShouldEqual, "rot")
		})

		Convey("It can be created and asked", func() {
			p, err := Get("rot")
			So(err, ShouldBeNil)
			So(p.IsCustom, ShouldBeTrue)

			r, err := p.New()
			So(err, ShouldBeNil)
			reply, err := r.Ask(context.Background(), "x")
			So(err, ShouldBeNil)
			So(reply, ShouldEqual, "rot x")
		})

		Convey("A script named like a builtin is hidden", func() {
			writeCustom(EchoName, `function Ask(p) return "fake" end`)
			Reset(func() { _ = Remove(EchoName) })

			p, err := Get(EchoName)
			So(err, ShouldBeNil)
			So(p.IsCustom, ShouldBeFalse)
		})
	})

	Convey("Given responders.enabled", t, func() {
		Reset(func() {
			viper.Set(key.RespondersEnabled, []string{EchoName})
			viper.Set(key.RespondersDefault, EchoName)
		})

		Convey("Enabled keeps the configured order and drops unknown names", func() {
			viper.Set(key.RespondersEnabled, []string{OpenAIName, "missing", EchoName})
			names := make([]string, 0)
			for _, p := range Enabled() {
				names = append(names, p.Name)
			}
			So(names, ShouldResemble, []string{OpenAIName, EchoName})
		})

		Convey("The default responder is always enabled", func() {
			viper.Set(key.RespondersEnabled, []string{})
			viper.Set(key.RespondersDefault, OpenAIName)
			So(len(Enabled()), ShouldEqual, 1)
			So(Enabled()[0].Name, ShouldEqual, OpenAIName)
		})

		Convey("A vanished default falls back to the first builtin", func() {
			viper.Set(key.RespondersDefault, "deleted")
			So(Default().Name, ShouldEqual, EchoName)
		})
	})
}

func TestEcho(t *testing.T) {
	Convey("Echo rejects blank prompts", t, func() {
		_, err := Echo{}.Ask(context.Background(), "  \n")
		So(err, ShouldEqual, ErrEmptyPrompt)
	})
}

func TestGenerate(t *testing.T) {
	Convey("Given a scaffold", t, func() {
		s := Scaffold{Name: "my bot", URL: "https://example.com/ask", Author: "tester"}
		Reset(func() { _ = Remove("my bot") })

		target, err := Generate(s)
		So(err, ShouldBeNil)
		So(filepath.Base(target), ShouldEqual, "my_bot.lua")

		Convey("The script defines Ask and loads", func() {
			data, err := filesystem.API().ReadFile(target)
			So(err, ShouldBeNil)
			So(string(data), ShouldContainSubstring, "function Ask(prompt)")
			So(string(data), ShouldContainSubstring, "https://example.com/ask")

			p, err := Get("my_bot")
			So(err, ShouldBeNil)
			_, err = p.New()
			So(err, ShouldBeNil)
		})

		Convey("Generating it again fails", func() {
			_, err := Generate(s)
			So(err, ShouldNotBeNil)
		})
	})
}
