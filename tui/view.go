package tui

import (
	"fmt"
	"strings"

	"github.com/bavarder-cli/bavarder/color"
	"github.com/bavarder-cli/bavarder/icon"
	"github.com/bavarder-cli/bavarder/style"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wrap"
)

var (
	listExtraPaddingStyle = lipgloss.NewStyle().Padding(1, 2, 1, 0)
	paddingStyle          = lipgloss.NewStyle().Padding(1, 2)
)

// Lines around the reply: title, blank, input, suggestion, status, help.
const promptChromeHeight = 7

func (b *statefulBubble) View() string {
	var output string

	switch b.state {
	case promptState:
		output = b.viewPrompt()
	case respondersState:
		output = b.viewResponders()
	case errorState:
		output = b.viewError()
	default:
		output = "Unknown state"
	}

	return b.notifier.View(output)
}

func (b *statefulBubble) viewPrompt() string {
	title := style.Title("Bavarder") + " " + style.Tag(style.Base, style.SecondaryColor)(b.provider.Name)

	var input string
	if b.busy {
		input = b.spinnerC.View() + " " + style.Faint("Asking "+b.provider.Name+"...")
	} else {
		input = b.inputC.View()
	}

	var suggestion string
	if s, ok := b.suggestion.Get(); ok {
		suggestion = style.Faint(fmt.Sprintf("%s %s", icon.Get(icon.Search), s))
	}

	lines := []string{
		title,
		"",
		style.Truncate(b.width)(input),
		suggestion,
	}

	if result, ok := b.lastResult.Get(); ok {
		status := fmt.Sprintf("%s %s in %s", icon.Get(icon.Success), result.Responder, result.Elapsed.Round(1e6))
		if result.Failed() {
			status = style.Fg(color.Red)(fmt.Sprintf("%s %s failed", icon.Get(icon.Fail), result.Responder))
		}
		lines = append(lines, style.Faint(status), b.replyC.View())
	}

	return b.renderLines(true, lines)
}

func (b *statefulBubble) viewResponders() string {
	return listExtraPaddingStyle.Render(b.respondersC.View())
}

func (b *statefulBubble) viewError() string {
	errorStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	errorBody := errorStyle.Render(b.lastError.Error())
	errorMsg := wrap.String(errorBody, b.width)
	return b.renderLines(
		true,
		[]string{
			style.ErrorTitle("Error"),
			"",
			icon.Get(icon.Fail) + " Something went wrong:",
			"",
			errorMsg,
		},
	)
}

func (b *statefulBubble) renderLines(addHelp bool, lines []string) string {
	h := lipgloss.Height(strings.Join(lines, "\n"))
	l := strings.Join(lines, "\n")
	if addHelp {
		if b.height > h {
			l += strings.Repeat("\n", b.height-h)
		}
		l += b.helpC.View(b.keymap)
	}

	return paddingStyle.Render(l)
}
