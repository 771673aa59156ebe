// Package tui is the interactive chat front end.
package tui

import (
	"context"
	"fmt"

	"github.com/atotto/clipboard"
	"github.com/bavarder-cli/bavarder/constant"
	"github.com/bavarder-cli/bavarder/coordinator"
	"github.com/bavarder-cli/bavarder/internal/ui"
	"github.com/bavarder-cli/bavarder/job"
	"github.com/bavarder-cli/bavarder/key"
	"github.com/bavarder-cli/bavarder/render"
	"github.com/bavarder-cli/bavarder/responder"
	"github.com/bavarder-cli/bavarder/style"
	"github.com/bavarder-cli/bavarder/util"
	"github.com/charmbracelet/bubbles/help"
	bubblesKey "github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/viper"
)

// statefulBubble is the whole TUI state. The coordinator lives here, so every
// surface transition happens on the bubbletea update loop.
type statefulBubble struct {
	state         state
	statesHistory util.Stack[state]
	// busy is set while a query is outstanding; input is blocked meanwhile.
	busy bool

	keymap *statefulKeymap

	// components
	spinnerC    spinner.Model
	inputC      textinput.Model
	respondersC list.Model
	replyC      viewport.Model
	helpC       help.Model

	provider   *responder.Provider
	responders map[string]responder.Responder

	renderer    *render.Renderer
	coordinator *coordinator.Coordinator
	markdown    *glamour.TermRenderer

	prompt     string
	lastResult mo.Option[job.Result]
	lastError  error

	suggestion mo.Option[string]

	width, height int
	notifier      *ui.Model
	clipboard     func(string) error

	ctx     context.Context
	options *Options
}

// surfaceEventMsg carries a preview load event onto the update loop.
type surfaceEventMsg struct {
	event coordinator.LoadEvent
}

func (b *statefulBubble) raiseError(err error) {
	b.lastError = err
	b.newState(errorState)
}

func (b *statefulBubble) setState(s state) {
	b.state = s
	b.keymap.setState(s)
}

func (b *statefulBubble) newState(s state) {
	if b.state == s {
		return
	}

	b.statesHistory.Push(b.state)
	b.setState(s)
}

func (b *statefulBubble) previousState() {
	if b.statesHistory.Len() > 0 {
		b.setState(b.statesHistory.Pop())
	}
}

func (b *statefulBubble) setBusy(busy bool) {
	b.busy = busy
	b.keymap.busy = busy
}

// reply is the text of the last answer, or of the error that replaced it.
func (b *statefulBubble) reply() string {
	if result, ok := b.lastResult.Get(); ok {
		return result.Text()
	}
	return ""
}

func (b *statefulBubble) resize(width, height int) {
	x, y := paddingStyle.GetFrameSize()
	xx, yy := listExtraPaddingStyle.GetFrameSize()

	b.width = width - x
	b.height = height - y

	listWidth := width - xx
	listHeight := height - yy

	b.respondersC.SetSize(listWidth, listHeight)
	b.respondersC.Help.Width = listWidth
	b.helpC.Width = listWidth

	b.inputC.Width = max(b.width-lipgloss.Width(b.inputC.Prompt)-1, 1)

	b.replyC.Width = b.width
	b.replyC.Height = max(b.height-promptChromeHeight, 1)

	b.markdown = newMarkdownRenderer(b.width)
	b.refreshReply()
}

// refreshReply re-renders the last reply into the terminal pane.
func (b *statefulBubble) refreshReply() {
	b.replyC.SetContent(renderTerminal(b.markdown, b.reply()))
}

func (b *statefulBubble) copyText(text string) tea.Cmd {
	if text == "" {
		return nil
	}

	if err := b.clipboard(text); err != nil {
		return ui.Notify("Copy failed: " + err.Error())
	}

	return ui.Notify("Text copied")
}

func newMarkdownRenderer(width int) *glamour.TermRenderer {
	styleOption := glamour.WithStandardStyle(viper.GetString(key.TUIStyle))
	if viper.GetString(key.TUIStyle) == "auto" {
		styleOption = glamour.WithAutoStyle()
	}

	renderer, err := glamour.NewTermRenderer(styleOption, glamour.WithWordWrap(max(width, 20)))
	if err != nil {
		return nil
	}
	return renderer
}

func renderTerminal(renderer *glamour.TermRenderer, markdown string) string {
	if renderer == nil || markdown == "" {
		return markdown
	}

	out, err := renderer.Render(markdown)
	if err != nil {
		return markdown
	}
	return out
}

func newBubble(options *Options) *statefulBubble {
	keymap := newStatefulKeymap()
	bubble := statefulBubble{
		statesHistory: util.Stack[state]{},
		keymap:        keymap,
		responders:    make(map[string]responder.Responder),
		renderer:      render.Configured(),
		notifier:      &ui.Model{},
		clipboard:     clipboard.WriteAll,
		ctx:           context.Background(),
		options:       options,
	}

	if options.Clipboard != nil {
		bubble.clipboard = options.Clipboard
	}

	if options.Surface != nil {
		bubble.coordinator = coordinator.New(
			options.Surface,
			coordinator.WithBaseURI(viper.GetString(key.RenderBaseURI)),
		)
	}

	bubble.helpC = help.New()

	bubble.spinnerC = spinner.New()
	bubble.spinnerC.Spinner = spinner.Dot
	bubble.spinnerC.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	bubble.inputC = textinput.New()
	bubble.inputC.Placeholder = fmt.Sprintf("Ask anything (v%s)", constant.Version)
	bubble.inputC.Prompt = viper.GetString(key.TUIPromptString)

	bubble.replyC = viewport.New(0, 0)

	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = lipgloss.NewStyle().
		Border(lipgloss.ThickBorder(), false, false, false, true).
		BorderForeground(style.AccentColor).
		Foreground(style.AccentColor).
		Padding(0, 0, 0, 1)
	delegate.Styles.NormalTitle = delegate.Styles.NormalTitle.Foreground(lipgloss.Color("7"))
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedTitle

	bubble.respondersC = list.New([]list.Item{}, delegate, 0, 0)
	bubble.respondersC.KeyMap = keymap.forList()
	bubble.respondersC.AdditionalShortHelpKeys = keymap.ShortHelp
	bubble.respondersC.AdditionalFullHelpKeys = func() []bubblesKey.Binding {
		return keymap.FullHelp()[0]
	}
	bubble.respondersC.Title = "Responders"
	bubble.respondersC.Styles.Title = lipgloss.NewStyle().Foreground(style.Base).Background(style.AccentColor).Padding(0, 1)
	bubble.respondersC.Styles.NoItems = paddingStyle
	bubble.respondersC.SetShowPagination(false)
	bubble.respondersC.SetShowStatusBar(false)
	bubble.respondersC.SetStatusBarItemName("responder", "responders")

	bubble.provider = responder.Default()
	if options.Responder != "" {
		if p, err := responder.Get(options.Responder); err == nil {
			bubble.provider = p
		} else {
			bubble.lastError = err
		}
	}

	if options.Prompt != "" {
		bubble.inputC.SetValue(options.Prompt)
	}

	if w, h, err := util.TerminalSize(); err == nil {
		bubble.resize(w, h)
	} else {
		bubble.markdown = newMarkdownRenderer(80)
	}

	bubble.inputC.Focus()
	bubble.setState(promptState)

	return &bubble
}

// closeSurface releases the preview, if one was created.
func (b *statefulBubble) closeSurface() {
	if b.coordinator == nil {
		return
	}

	if surface, ok := b.coordinator.Surface().Get(); ok {
		if closer, ok := surface.(interface{ Close() error }); ok {
			_ = closer.Close()
		}
	}
}

// responderItems lists the enabled responders, marking the current one.
func (b *statefulBubble) responderItems() []list.Item {
	enabled := responder.Enabled()
	if _, ok := lo.Find(enabled, func(p *responder.Provider) bool { return p.Name == b.provider.Name }); !ok {
		enabled = append([]*responder.Provider{b.provider}, enabled...)
	}

	return lo.Map(enabled, func(p *responder.Provider, _ int) list.Item {
		return &listItem{internal: p, marked: p.Name == b.provider.Name}
	})
}
