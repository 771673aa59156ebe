package theme

import (
	"errors"
	"fmt"

	"github.com/bavarder-cli/bavarder/log"
	"github.com/bavarder-cli/bavarder/stylesheet"
	"github.com/samber/lo"
)

var (
	// ErrThemeSourceMissing is re-exported from the stylesheet package.
	ErrThemeSourceMissing = stylesheet.ErrThemeSourceMissing

	// ErrMalformedDeclaration is re-exported from the stylesheet package.
	ErrMalformedDeclaration = stylesheet.ErrMalformedDeclaration

	// ErrNoVariables means the stylesheet exists but declares no variables.
	ErrNoVariables = errors.New("theme source declares no variables")

	// ErrRequiredPropertyMissing is matched by every *RequiredPropertyMissingError.
	ErrRequiredPropertyMissing = errors.New("required theme variable missing")
)

// RequiredPropertyMissingError names the variable a sourced property needed.
type RequiredPropertyMissingError struct {
	Property string
	Variable string
}

func (e *RequiredPropertyMissingError) Error() string {
	return fmt.Sprintf("%s: %s (for %s)", ErrRequiredPropertyMissing, e.Variable, e.Property)
}

func (e *RequiredPropertyMissingError) Is(target error) bool {
	return target == ErrRequiredPropertyMissing
}

// Compose returns the bindings for the stylesheet at path, falling back to
// the built-in theme for any reason the stylesheet cannot be used.
// An empty path selects the built-in theme directly.
func Compose(path string) Bindings {
	bindings, err := Resolve(path)
	if err != nil {
		log.WithField("source", path).Debugf("using built-in theme: %s", err)
	}
	return bindings
}

// Resolve is Compose that also reports why the fallback was chosen.
// The returned bindings are always usable.
func Resolve(path string) (Bindings, error) {
	if path == "" {
		return Adwaita(), ErrThemeSourceMissing
	}

	result, err := stylesheet.ExtractFile(path)
	if err != nil {
		return Adwaita(), err
	}

	return FromResult(result)
}

// FromResult builds custom bindings from an extraction result.
func FromResult(result *stylesheet.Result) (Bindings, error) {
	if result == nil || len(result.Variables) == 0 {
		return Adwaita(), ErrNoVariables
	}

	properties := make([]Property, 0, len(required)+len(structural))
	for _, r := range required {
		value, ok := result.Variables[r.variable]
		if !ok {
			return Adwaita(), &RequiredPropertyMissingError{Property: r.property, Variable: r.variable}
		}

		properties = append(properties, Property{Name: r.property, Value: value})
	}

	properties = append(properties, structural...)

	return Bindings{
		Origin:      Custom,
		Properties:  properties,
		Passthrough: result.Passthrough,
	}, nil
}

// RequiredVariables lists the stylesheet variables the custom path needs, once each.
func RequiredVariables() []string {
	return lo.Uniq(lo.Map(required, func(r sourced, _ int) string {
		return r.variable
	}))
}
