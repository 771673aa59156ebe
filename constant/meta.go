// Package constant defines immutable application-level identifiers and configuration defaults.
package constant

const (
	// Bavarder is the canonical application identifier used for filesystem paths and CLI branding.
	Bavarder = "bavarder"

	// Version is the current application semantic version string.
	Version = "0.3.0"

	// UserAgent is the default HTTP User-Agent string used for requests made by built-in responders.
	UserAgent = Bavarder + "/" + Version
)

// Build metadata, overridden at link time with -ldflags "-X".
var (
	BuiltAt  = "unknown"
	BuiltBy  = "unknown"
	Revision = "unknown"
)
