// Package stylesheet extracts color declarations from GTK-style stylesheets.
//
// Only one form is recognized, one per physical line:
//
//	@define-color <name> <value>;
//
// Names starting with a palette family prefix (blue_, light_, ...) are
// grouped by family and shade, every other name is a plain variable, and all
// remaining lines are kept verbatim as passthrough CSS.
package stylesheet

import (
	"strings"
	"unicode"

	"github.com/bavarder-cli/bavarder/constant"
)

// Kind tells how a line was classified.
type Kind int

const (
	Passthrough Kind = iota
	Variable
	Palette
)

func (k Kind) String() string {
	switch k {
	case Variable:
		return "variable"
	case Palette:
		return "palette"
	default:
		return "passthrough"
	}
}

// Families lists the palette family prefixes, in the order GNOME defines them.
var Families = []string{
	"blue_",
	"green_",
	"yellow_",
	"orange_",
	"red_",
	"purple_",
	"brown_",
	"light_",
	"dark_",
}

// FamilyName returns the palette key of a family prefix ("blue_" -> "blue").
func FamilyName(prefix string) string {
	return strings.TrimSuffix(prefix, "_")
}

// Line is one classified stylesheet line.
// Text is only set for Passthrough, Name and Value only for declarations,
// Family and Shade only for Palette.
type Line struct {
	Kind   Kind
	Text   string
	Name   string
	Value  string
	Family string
	Shade  string
}

// Classify parses a single line, without its line terminator.
// number is used for error reporting only.
func Classify(number int, text string) (Line, error) {
	idx := strings.Index(text, constant.ThemeMarker)
	if idx < 0 {
		return Line{Kind: Passthrough, Text: text}, nil
	}

	rest := text[idx+len(constant.ThemeMarker):]

	// "@define-colors" or similar is not our marker.
	if rest != "" && !unicode.IsSpace(rune(rest[0])) {
		return Line{Kind: Passthrough, Text: text}, nil
	}

	rest = strings.TrimSpace(rest)
	split := strings.IndexFunc(rest, unicode.IsSpace)
	if split <= 0 {
		return Line{}, &MalformedDeclarationError{Line: number, Text: text}
	}

	name := rest[:split]
	value := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(rest[split:]), ";"))
	if value == "" {
		return Line{}, &MalformedDeclarationError{Line: number, Text: text}
	}

	for _, prefix := range Families {
		if !strings.HasPrefix(name, prefix) {
			continue
		}

		shade := strings.TrimPrefix(name, prefix)
		if len(shade) != 1 {
			return Line{}, &MalformedDeclarationError{Line: number, Text: text}
		}

		return Line{
			Kind:   Palette,
			Name:   name,
			Value:  value,
			Family: FamilyName(prefix),
			Shade:  shade,
		}, nil
	}

	return Line{Kind: Variable, Name: name, Value: value}, nil
}
