package stylesheet

import (
	"errors"
	"fmt"
)

var (
	// ErrThemeSourceMissing is returned when the stylesheet does not exist.
	ErrThemeSourceMissing = errors.New("theme source missing")

	// ErrMalformedDeclaration is matched by every *MalformedDeclarationError.
	ErrMalformedDeclaration = errors.New("malformed color declaration")
)

// MalformedDeclarationError reports a line carrying the declaration marker
// without a usable name and value.
type MalformedDeclarationError struct {
	Line int
	Text string
}

func (e *MalformedDeclarationError) Error() string {
	return fmt.Sprintf("line %d: %s: %q", e.Line, ErrMalformedDeclaration, e.Text)
}

func (e *MalformedDeclarationError) Is(target error) bool {
	return target == ErrMalformedDeclaration
}
