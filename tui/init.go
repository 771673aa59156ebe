package tui

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

func (b *statefulBubble) Init() tea.Cmd {
	if b.lastError != nil {
		b.raiseError(b.lastError)
	}

	return textinput.Blink
}
