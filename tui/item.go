package tui

import (
	"fmt"

	"github.com/bavarder-cli/bavarder/auth"
	"github.com/bavarder-cli/bavarder/icon"
	"github.com/bavarder-cli/bavarder/responder"
	"github.com/bavarder-cli/bavarder/style"
	"github.com/charmbracelet/lipgloss"
)

// listItem adapts a value to list.Item.
type listItem struct {
	internal interface{}
	marked   bool
}

func (t *listItem) getMark() string {
	switch t.internal.(type) {
	case *responder.Provider:
		return lipgloss.NewStyle().Bold(true).Foreground(style.AccentColor).Render(icon.Get(icon.Mark))
	default:
		return ""
	}
}

func (t *listItem) Title() (title string) {
	switch e := t.internal.(type) {
	case *responder.Provider:
		title = e.Name
	case string:
		title = e
	default:
		title = t.FilterValue()
	}

	if title != "" && t.marked {
		title = fmt.Sprintf("%s %s", title, t.getMark())
	}

	return
}

func (t *listItem) Description() (description string) {
	switch e := t.internal.(type) {
	case *responder.Provider:
		if e.IsCustom {
			description = icon.Get(icon.Lua) + " " + e.Description
		} else {
			description = e.Description
		}

		if e.NeedsToken && !auth.HasToken(e.Name) {
			description += style.Faint(" (no token)")
		}
	}

	return
}

func (t *listItem) FilterValue() string {
	switch e := t.internal.(type) {
	case *responder.Provider:
		return e.Name
	case string:
		return e
	default:
		return ""
	}
}
