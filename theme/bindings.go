// Package theme resolves the CSS custom properties rendered documents are styled with.
package theme

import (
	"strings"
)

// Origin tells where a set of bindings came from.
type Origin int

const (
	// Fallback is the built-in light/dark theme.
	Fallback Origin = iota
	// Custom bindings were extracted from the host stylesheet.
	Custom
)

func (o Origin) String() string {
	if o == Custom {
		return "custom"
	}
	return "fallback"
}

// Property is a single CSS custom property binding.
type Property struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Bindings is the complete theme of one rendered document.
// Dark is only used by the fallback theme and is emitted behind a
// prefers-color-scheme media query, so the viewer picks the variant.
type Bindings struct {
	Origin      Origin     `json:"origin"`
	Properties  []Property `json:"properties"`
	Dark        []Property `json:"dark,omitempty"`
	Passthrough string     `json:"passthrough,omitempty"`
}

// Lookup returns the value bound to name in the light (or only) variant.
func (b Bindings) Lookup(name string) (string, bool) {
	for _, p := range b.Properties {
		if p.Name == name {
			return p.Value, true
		}
	}
	return "", false
}

// CSS serializes the bindings into a style block ready for the document template.
func (b Bindings) CSS() string {
	var sb strings.Builder

	writeRoot(&sb, "", b.Properties)

	if len(b.Dark) > 0 {
		sb.WriteString("@media (prefers-color-scheme: dark) {\n")
		writeRoot(&sb, "  ", b.Dark)
		sb.WriteString("}\n")
	}

	sb.WriteString(b.Passthrough)
	return sb.String()
}

func writeRoot(sb *strings.Builder, indent string, properties []Property) {
	sb.WriteString(indent)
	sb.WriteString(":root {\n")
	for _, p := range properties {
		sb.WriteString(indent)
		sb.WriteString("  ")
		sb.WriteString(p.Name)
		sb.WriteString(": ")
		sb.WriteString(p.Value)
		sb.WriteString(";\n")
	}
	sb.WriteString(indent)
	sb.WriteString(" \n")
	sb.WriteString(indent)
	sb.WriteString("}\n")
}
