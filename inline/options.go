package inline

import (
	"fmt"
	"io"
	"strings"

	"github.com/bavarder-cli/bavarder/coordinator"
	"github.com/bavarder-cli/bavarder/render"
	"github.com/bavarder-cli/bavarder/responder"
	"github.com/samber/lo"
)

// Format selects what Run writes.
type Format int

const (
	// FormatPreview shows the document on the preview surface.
	FormatPreview Format = iota
	// FormatHTML writes the complete document.
	FormatHTML
	// FormatJSON writes an Output.
	FormatJSON
	// FormatPlain writes the reply rendered for the terminal.
	FormatPlain
)

var formatNames = map[Format]string{
	FormatPreview: "preview",
	FormatHTML:    "html",
	FormatJSON:    "json",
	FormatPlain:   "plain",
}

func (f Format) String() string {
	return formatNames[f]
}

// ParseFormat is the inverse of Format.String.
func ParseFormat(name string) (Format, error) {
	format, ok := lo.FindKey(formatNames, strings.ToLower(name))
	if !ok {
		return FormatPreview, fmt.Errorf("unknown format %q, expected one of %s", name, strings.Join(lo.Values(formatNames), ", "))
	}
	return format, nil
}

// SurfaceBuilder builds a surface factory whose load events reach onLoadEvent.
type SurfaceBuilder func(onLoadEvent func(coordinator.LoadEvent)) coordinator.SurfaceFactory

// Options configures a one-shot query.
type Options struct {
	Out       io.Writer
	Prompt    string
	Responder responder.Responder
	Format    Format
	Renderer  *render.Renderer

	// Surface is required by FormatPreview.
	Surface SurfaceBuilder
	// BaseURI the surface resolves relative links against.
	BaseURI string
	// Linger keeps the preview served after the document loaded, until the context ends.
	Linger bool

	// Style is the glamour style of FormatPlain.
	Style string
	// Width wraps FormatPlain. Zero means 80.
	Width int
}
