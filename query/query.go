// Package query remembers sent prompts and suggests them back while typing.
package query

import (
	"strings"
	"sync"

	"github.com/bavarder-cli/bavarder/filesystem"
	"github.com/bavarder-cli/bavarder/key"
	"github.com/bavarder-cli/bavarder/where"
	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/metafates/gache"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/viper"
	"golang.org/x/exp/slices"
)

type promptRecord struct {
	Rank   int    `json:"rank"`
	Prompt string `json:"prompt"`
}

var cacher = gache.New[map[string]*promptRecord](
	&gache.Options{
		Path:       where.Prompts(),
		FileSystem: &filesystem.GacheFs{},
	},
)

// historyMu serializes every read-modify-write of the stored history.
// Lock order is suggestionCacheMu before historyMu.
var historyMu sync.Mutex

var (
	suggestionCache   = make(map[string][]*promptRecord)
	suggestionCacheMu sync.Mutex
)

// Remember records a sent prompt or raises its rank by weight.
// It does nothing when prompt.save_history is off.
func Remember(prompt string, weight int) error {
	if !viper.GetBool(key.PromptSaveHistory) {
		return nil
	}

	prompt = sanitize(prompt)
	if prompt == "" {
		return nil
	}

	historyMu.Lock()
	cached := load()
	if record, ok := cached[prompt]; ok {
		record.Rank += weight
	} else {
		cached[prompt] = &promptRecord{Rank: weight, Prompt: prompt}
	}
	err := cacher.Set(cached)
	historyMu.Unlock()

	invalidate()
	return err
}

// Forget removes a prompt from the history.
func Forget(prompt string) error {
	historyMu.Lock()
	cached := load()
	delete(cached, sanitize(prompt))
	err := cacher.Set(cached)
	historyMu.Unlock()

	invalidate()
	return err
}

// Clear empties the history.
func Clear() error {
	historyMu.Lock()
	err := cacher.Set(make(map[string]*promptRecord))
	historyMu.Unlock()

	invalidate()
	return err
}

// Suggest returns the best remembered prompt matching the partial input.
func Suggest(prompt string) mo.Option[string] {
	suggestions := SuggestMany(prompt)
	if len(suggestions) == 0 {
		return mo.None[string]()
	}
	return mo.Some(suggestions[0])
}

// SuggestMany returns remembered prompts fuzzily matching the partial input, most used first.
func SuggestMany(prompt string) []string {
	if !viper.GetBool(key.PromptShowSuggestions) {
		return []string{}
	}

	prompt = sanitize(prompt)
	if prompt == "" {
		return []string{}
	}

	suggestionCacheMu.Lock()
	defer suggestionCacheMu.Unlock()

	records, ok := suggestionCache[prompt]
	if !ok {
		historyMu.Lock()
		snapshot := load()
		historyMu.Unlock()

		for _, record := range snapshot {
			if fuzzy.MatchFold(prompt, record.Prompt) {
				records = append(records, record)
			}
		}

		slices.SortFunc(records, func(a, b *promptRecord) int {
			if a.Rank != b.Rank {
				return b.Rank - a.Rank
			}
			return strings.Compare(a.Prompt, b.Prompt)
		})

		suggestionCache[prompt] = records
	}

	return lo.Map(records, func(r *promptRecord, _ int) string {
		return r.Prompt
	})
}

// load returns a private copy of the stored history. Callers must hold historyMu.
func load() map[string]*promptRecord {
	cached, expired, err := cacher.Get()
	if expired || err != nil || cached == nil {
		return make(map[string]*promptRecord)
	}

	copied := make(map[string]*promptRecord, len(cached))
	for prompt, record := range cached {
		if record == nil {
			continue
		}
		r := *record
		copied[prompt] = &r
	}
	return copied
}

func invalidate() {
	suggestionCacheMu.Lock()
	suggestionCache = make(map[string][]*promptRecord)
	suggestionCacheMu.Unlock()
}

func sanitize(prompt string) string {
	return strings.TrimSpace(prompt)
}
