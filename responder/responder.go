// Package responder manages the built-in and custom responders a prompt can be sent to.
package responder

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"

	"github.com/bavarder-cli/bavarder/config"
	"github.com/bavarder-cli/bavarder/filesystem"
	"github.com/bavarder-cli/bavarder/key"
	"github.com/bavarder-cli/bavarder/responder/custom"
	"github.com/bavarder-cli/bavarder/util"
	"github.com/bavarder-cli/bavarder/where"
	levenshtein "github.com/ka-weihe/fast-levenshtein"
	"github.com/samber/lo"
	"github.com/spf13/viper"
)

// Responder answers a prompt with markdown.
type Responder interface {
	Name() string
	Ask(ctx context.Context, prompt string) (string, error)
}

// Provider describes a responder that can be created on demand.
type Provider struct {
	ID          string
	Name        string
	Description string
	IsCustom    bool
	// NeedsToken marks responders that read an API token from the keyring.
	NeedsToken bool
	Create     func(settings config.Snapshot) (Responder, error)
}

func (p *Provider) String() string {
	return p.Name
}

// Settings are the configuration keys responders may read.
func Settings() []string {
	return []string{
		key.RespondersTimeout,
		key.OpenAIEndpoint,
		key.OpenAIModel,
		key.OpenAISystemPrompt,
	}
}

// New creates the responder with a snapshot of the current settings.
func (p *Provider) New() (Responder, error) {
	return p.Create(config.Take(Settings()...))
}

// Builtins returns the responders compiled into the program.
func Builtins() []*Provider {
	return []*Provider{
		{
			ID:          EchoName,
			Name:        EchoName,
			Description: "Replies with the prompt itself",
			Create: func(config.Snapshot) (Responder, error) {
				return Echo{}, nil
			},
		},
		{
			ID:          OpenAIName,
			Name:        OpenAIName,
			Description: "Any OpenAI compatible chat completions API",
			NeedsToken:  true,
			Create: func(settings config.Snapshot) (Responder, error) {
				return NewOpenAI(settings), nil
			},
		},
	}
}

// Customs returns the Lua responders found in the responders directory.
func Customs() []*Provider {
	providers, _ := CustomProviders()
	return providers
}

// CustomProviders lists the Lua scripts in the responders directory.
func CustomProviders() ([]*Provider, error) {
	dir := where.Responders()
	files, err := filesystem.API().ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var providers []*Provider
	for _, f := range files {
		if f.IsDir() || filepath.Ext(f.Name()) != custom.Extension {
			continue
		}

		path := filepath.Join(dir, f.Name())
		name := util.FileStem(f.Name())

		providers = append(providers, &Provider{
			ID:          custom.IDfromName(name),
			Name:        name,
			Description: path,
			IsCustom:    true,
			Create: func(settings config.Snapshot) (Responder, error) {
				r, err := custom.Load(path, settings)
				if err != nil {
					return nil, err
				}
				return r, nil
			},
		})
	}

	sort.Slice(providers, func(i, j int) bool {
		return providers[i].Name < providers[j].Name
	})

	return providers, nil
}

// All returns builtins followed by customs. A custom script never shadows a builtin.
func All() []*Provider {
	builtins := Builtins()
	customs := lo.Filter(Customs(), func(p *Provider, _ int) bool {
		_, taken := lo.Find(builtins, func(b *Provider) bool { return b.Name == p.Name })
		return !taken
	})
	return append(builtins, customs...)
}

// Names returns the names of all responders.
func Names() []string {
	return lo.Map(All(), func(p *Provider, _ int) string { return p.Name })
}

// UnknownError is returned by Get for a name no responder has.
type UnknownError struct {
	Name       string
	Suggestion string
}

func (e *UnknownError) Error() string {
	if e.Suggestion == "" {
		return fmt.Sprintf("unknown responder %q", e.Name)
	}
	return fmt.Sprintf("unknown responder %q, did you mean %q?", e.Name, e.Suggestion)
}

// Get finds a responder by name.
func Get(name string) (*Provider, error) {
	all := All()
	if p, ok := lo.Find(all, func(p *Provider) bool { return p.Name == name }); ok {
		return p, nil
	}

	return nil, &UnknownError{Name: name, Suggestion: closest(name, Names())}
}

// Default returns the configured default responder, or the first builtin if it no longer exists.
func Default() *Provider {
	if p, err := Get(viper.GetString(key.RespondersDefault)); err == nil {
		return p
	}
	return Builtins()[0]
}

// Enabled returns the responders listed in responders.enabled, in that order.
// The default responder is always included.
func Enabled() []*Provider {
	names := lo.Uniq(append(viper.GetStringSlice(key.RespondersEnabled), Default().Name))

	return lo.FilterMap(names, func(name string, _ int) (*Provider, bool) {
		p, err := Get(name)
		return p, err == nil
	})
}

func closest(name string, candidates []string) string {
	if len(candidates) == 0 {
		return ""
	}

	return lo.MinBy(candidates, func(a, b string) bool {
		return levenshtein.Distance(name, a) < levenshtein.Distance(name, b)
	})
}
