package tui

import (
	"github.com/bavarder-cli/bavarder/coordinator"
	"github.com/bavarder-cli/bavarder/key"
	"github.com/bavarder-cli/bavarder/preview"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/viper"
)

// Options configures the TUI.
type Options struct {
	// Responder overrides responders.default for this session.
	Responder string
	// Prompt pre-fills the input.
	Prompt string

	// Surface builds the preview surface. Run sets it from the configuration.
	Surface coordinator.SurfaceFactory
	// Clipboard replaces the system clipboard.
	Clipboard func(string) error
}

// Run starts the TUI and blocks until it quits.
func Run(options *Options) error {
	var program *tea.Program

	if options.Surface == nil && viper.GetBool(key.PreviewEnable) {
		options.Surface = preview.Factory(preview.ConfiguredOptions(func(event coordinator.LoadEvent) {
			program.Send(surfaceEventMsg{event: event})
		}))
	}

	bubble := newBubble(options)
	defer bubble.closeSurface()

	program = tea.NewProgram(bubble, tea.WithAltScreen())
	_, err := program.Run()
	return err
}
