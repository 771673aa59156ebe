package tui

import (
	"errors"
	"strings"
	"testing"

	"github.com/bavarder-cli/bavarder/config"
	"github.com/bavarder-cli/bavarder/coordinator"
	"github.com/bavarder-cli/bavarder/filesystem"
	"github.com/bavarder-cli/bavarder/job"
	"github.com/bavarder-cli/bavarder/key"
	tea "github.com/charmbracelet/bubbletea"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
)

func init() {
	filesystem.SetMemMapFs()
	if err := config.Setup(); err != nil {
		panic(err)
	}
}

type fakeSurface struct {
	loaded  []string
	loading bool
	reveals int
}

func (f *fakeSurface) LoadDocument(html, _ string) error {
	f.loaded = append(f.loaded, html)
	f.loading = true
	return nil
}

func (f *fakeSurface) IsLoading() bool { return f.loading }

func (f *fakeSurface) Reveal() error {
	f.reveals++
	return nil
}

type fixture struct {
	bubble  *statefulBubble
	surface *fakeSurface
	copied  []string
}

func newFixture() *fixture {
	f := &fixture{surface: &fakeSurface{}}
	f.bubble = newBubble(&Options{
		Surface: func() (coordinator.Surface, error) {
			return f.surface, nil
		},
		Clipboard: func(text string) error {
			f.copied = append(f.copied, text)
			return nil
		},
	})
	return f
}

func (f *fixture) send(msgs ...tea.Msg) {
	for _, msg := range msgs {
		f.bubble.Update(msg)
	}
}

func typed(text string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)}
}

func TestPrompt(t *testing.T) {
	Convey("Given a fresh TUI", t, func() {
		viper.Set(key.PromptShowSuggestions, false)
		f := newFixture()

		So(f.bubble.state, ShouldEqual, promptState)
		So(f.bubble.provider.Name, ShouldEqual, "echo")

		Convey("An empty prompt is not sent", func() {
			f.send(typed("   "), tea.KeyMsg{Type: tea.KeyEnter})
			So(f.bubble.busy, ShouldBeFalse)
		})

		Convey("When a prompt is asked", func() {
			f.send(typed("hello"))
			_, cmd := f.bubble.Update(tea.KeyMsg{Type: tea.KeyEnter})

			So(cmd, ShouldNotBeNil)
			So(f.bubble.busy, ShouldBeTrue)
			So(f.bubble.prompt, ShouldEqual, "hello")

			Convey("Typing is ignored until the reply arrives", func() {
				f.send(typed("zzz"))
				So(f.bubble.inputC.Value(), ShouldEqual, "hello")
			})

			Convey("The reply is shown and handed to the preview", func() {
				f.send(job.Result{Prompt: "hello", Responder: "echo", Response: "**hello**"})

				So(f.bubble.busy, ShouldBeFalse)
				So(f.bubble.reply(), ShouldEqual, "**hello**")
				So(f.surface.loaded, ShouldHaveLength, 1)
				So(f.surface.loaded[0], ShouldContainSubstring, "<strong>hello</strong>")

				Convey("And can be copied", func() {
					f.send(tea.KeyMsg{Type: tea.KeyCtrlY}, tea.KeyMsg{Type: tea.KeyCtrlP})
					So(f.copied, ShouldResemble, []string{"**hello**", "hello"})
				})

				Convey("A second reply waits for the first load", func() {
					f.send(job.Result{Prompt: "b", Responder: "echo", Response: "second"})
					So(f.surface.loaded, ShouldHaveLength, 1)

					f.send(surfaceEventMsg{event: coordinator.LoadFinished})
					So(f.surface.loaded, ShouldHaveLength, 2)
					So(f.surface.loaded[1], ShouldContainSubstring, "second")
				})

				Convey("Clearing drops the reply", func() {
					f.send(tea.KeyMsg{Type: tea.KeyCtrlL})
					So(f.bubble.reply(), ShouldBeEmpty)

					f.send(tea.KeyMsg{Type: tea.KeyCtrlY})
					So(f.copied, ShouldBeEmpty)
				})
			})

			Convey("A failed query renders its error", func() {
				f.send(job.Result{Prompt: "hello", Responder: "echo", Err: errors.New("upstream refused")})

				So(f.bubble.reply(), ShouldEqual, "upstream refused")
				So(f.surface.loaded, ShouldHaveLength, 1)
				So(f.surface.loaded[0], ShouldContainSubstring, "<p>upstream refused</p>")
				So(f.bubble.View(), ShouldContainSubstring, "echo failed")
			})
		})
	})
}

func TestResponders(t *testing.T) {
	Convey("Given a fresh TUI", t, func() {
		f := newFixture()

		Convey("The responder list opens and closes", func() {
			f.send(tea.KeyMsg{Type: tea.KeyCtrlR})
			So(f.bubble.state, ShouldEqual, respondersState)
			So(f.bubble.respondersC.Items(), ShouldNotBeEmpty)

			f.send(tea.KeyMsg{Type: tea.KeyEsc})
			So(f.bubble.state, ShouldEqual, promptState)
		})

		Convey("Picking a responder switches to it", func() {
			f.send(tea.KeyMsg{Type: tea.KeyCtrlR}, tea.KeyMsg{Type: tea.KeyEnter})
			So(f.bubble.state, ShouldEqual, promptState)
			So(f.bubble.provider.Name, ShouldEqual, "echo")
		})
	})

	Convey("Given an unknown responder", t, func() {
		b := newBubble(&Options{Responder: "ecko"})
		b.Init()

		So(b.state, ShouldEqual, errorState)
		So(b.lastError.Error(), ShouldContainSubstring, "echo")

		Convey("Going back returns to the prompt", func() {
			b.Update(tea.KeyMsg{Type: tea.KeyEsc})
			So(b.state, ShouldEqual, promptState)
		})
	})
}

func TestView(t *testing.T) {
	Convey("The prompt view names the responder", t, func() {
		f := newFixture()
		f.send(tea.WindowSizeMsg{Width: 80, Height: 24})

		view := f.bubble.View()
		So(view, ShouldContainSubstring, "Bavarder")
		So(strings.Contains(view, "echo"), ShouldBeTrue)
	})
}
