package query

import (
	"fmt"
	"sync"
	"testing"

	"github.com/bavarder-cli/bavarder/filesystem"
	"github.com/bavarder-cli/bavarder/key"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestQuery(t *testing.T) {
	Convey("Given prompt history", t, func() {
		viper.Set(key.PromptSaveHistory, true)
		viper.Set(key.PromptShowSuggestions, true)
		Reset(func() { _ = Clear() })

		So(Remember("explain goroutines", 1), ShouldBeNil)
		So(Remember("explain channels", 5), ShouldBeNil)

		Convey("Suggestions are ordered by rank", func() {
			So(SuggestMany("explain"), ShouldResemble, []string{"explain channels", "explain goroutines"})
			So(Suggest("expl").MustGet(), ShouldEqual, "explain channels")
		})

		Convey("Matching is fuzzy and ignores case", func() {
			So(SuggestMany("EXPgor"), ShouldResemble, []string{"explain goroutines"})
		})

		Convey("Remembering again raises the rank", func() {
			_ = SuggestMany("explain")
			So(Remember("  explain goroutines  ", 10), ShouldBeNil)
			So(SuggestMany("explain")[0], ShouldEqual, "explain goroutines")
		})

		Convey("Forgotten prompts are not suggested", func() {
			So(Forget("explain channels"), ShouldBeNil)
			So(SuggestMany("explain"), ShouldResemble, []string{"explain goroutines"})
		})

		Convey("Prompts can be remembered while suggestions are read", func() {
			var wg sync.WaitGroup
			wg.Add(2)

			go func() {
				defer wg.Done()
				for i := 0; i < 50; i++ {
					_ = Remember(fmt.Sprintf("explain maps %d", i), 1)
				}
			}()

			go func() {
				defer wg.Done()
				for i := 0; i < 50; i++ {
					_ = Remember("explain goroutines", 1)
				}
			}()

			for i := 0; i < 50; i++ {
				_ = SuggestMany("explain")
			}
			wg.Wait()

			suggestions := SuggestMany("explain")
			So(suggestions, ShouldHaveLength, 52)
			So(suggestions[0], ShouldEqual, "explain goroutines")
		})

		Convey("Blank input suggests nothing", func() {
			So(SuggestMany("   "), ShouldBeEmpty)
			So(Suggest("").IsAbsent(), ShouldBeTrue)
		})

		Convey("Suggestions can be turned off", func() {
			viper.Set(key.PromptShowSuggestions, false)
			So(SuggestMany("explain"), ShouldBeEmpty)
		})

		Convey("History can be turned off", func() {
			viper.Set(key.PromptSaveHistory, false)
			So(Remember("secret", 1), ShouldBeNil)
			viper.Set(key.PromptSaveHistory, true)
			So(SuggestMany("secret"), ShouldBeEmpty)
		})
	})
}
