// Package render turns markdown replies into complete, themed HTML documents.
package render

import (
	"bytes"
	_ "embed"
	"html"
	"strings"

	"github.com/bavarder-cli/bavarder/config"
	"github.com/bavarder-cli/bavarder/key"
	"github.com/bavarder-cli/bavarder/log"
	"github.com/bavarder-cli/bavarder/theme"
	"github.com/bavarder-cli/bavarder/where"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	gmhtml "github.com/yuin/goldmark/renderer/html"
)

// Placeholders of the document template.
const (
	ThemePlaceholder    = "{theme_css}"
	ResponsePlaceholder = "{response}"
)

//go:embed template.html
var documentTemplate string

// Document is a finished HTML page.
type Document string

func (d Document) String() string {
	return string(d)
}

// Options controls a Renderer.
type Options struct {
	// ThemeSource is the stylesheet to theme from. Empty selects the built-in theme.
	ThemeSource string
	// Sanitize strips scripts and unsafe attributes from the converted markup.
	Sanitize bool
}

// Renderer converts markdown with a fixed extension profile.
// It holds no per-call state and is safe for concurrent use.
type Renderer struct {
	options  Options
	markdown goldmark.Markdown
	policy   *bluemonday.Policy
}

// New creates a renderer.
func New(options Options) *Renderer {
	r := &Renderer{
		options: options,
		markdown: goldmark.New(
			goldmark.WithExtensions(
				extension.GFM,
				extension.DefinitionList,
				extension.Footnote,
			),
			goldmark.WithParserOptions(
				parser.WithAutoHeadingID(),
				parser.WithAttribute(),
			),
			goldmark.WithRendererOptions(
				gmhtml.WithUnsafe(),
			),
		),
	}

	if options.Sanitize {
		r.policy = sanitizer()
	}

	return r
}

// Configured creates a renderer from the current configuration.
func Configured() *Renderer {
	return FromSnapshot(config.Take(key.ThemeUseHost, key.RenderSanitize).With(key.ThemeSource, where.ThemeSource()))
}

// FromSnapshot creates a renderer from a settings snapshot.
func FromSnapshot(settings config.Snapshot) *Renderer {
	options := Options{Sanitize: settings.Bool(key.RenderSanitize)}
	if settings.Bool(key.ThemeUseHost) {
		options.ThemeSource = settings.String(key.ThemeSource)
	}
	return New(options)
}

// Options returns the options the renderer was created with.
func (r *Renderer) Options() Options {
	return r.options
}

// Fragment converts markup to an HTML fragment.
func (r *Renderer) Fragment(markup string) (string, error) {
	var buf bytes.Buffer
	if err := r.markdown.Convert([]byte(markup), &buf); err != nil {
		return "", err
	}

	if r.policy != nil {
		return r.policy.Sanitize(buf.String()), nil
	}

	return buf.String(), nil
}

// Render produces the full document for markup, themed from the configured source.
// A conversion failure is rendered as the document's content.
func (r *Renderer) Render(markup string) Document {
	fragment, err := r.Fragment(markup)
	if err != nil {
		log.Errorf("convert markdown: %s", err)
		fragment = `<pre class="error">` + html.EscapeString(err.Error()) + `</pre>`
	}

	return Compose(fragment, theme.Compose(r.options.ThemeSource))
}

// Compose fills the document template. The substitution is a single pass,
// so a placeholder appearing inside the fragment or the theme is left alone.
func Compose(fragment string, bindings theme.Bindings) Document {
	replacer := strings.NewReplacer(
		ThemePlaceholder, bindings.CSS(),
		ResponsePlaceholder, fragment,
	)
	return Document(replacer.Replace(documentTemplate))
}

func sanitizer() *bluemonday.Policy {
	policy := bluemonday.UGCPolicy()
	policy.AllowAttrs("id").Globally()
	policy.AllowAttrs("class").Matching(bluemonday.SpaceSeparatedTokens).Globally()
	policy.AllowAttrs("type").Matching(bluemonday.Paragraph).OnElements("input")
	policy.AllowAttrs("checked", "disabled").OnElements("input")
	policy.AllowElements("input")
	return policy
}
