package tui

import (
	"strings"

	"github.com/bavarder-cli/bavarder/config"
	"github.com/bavarder-cli/bavarder/internal/ui"
	"github.com/bavarder-cli/bavarder/job"
	"github.com/bavarder-cli/bavarder/key"
	"github.com/bavarder-cli/bavarder/log"
	"github.com/bavarder-cli/bavarder/open"
	"github.com/bavarder-cli/bavarder/query"
	"github.com/bavarder-cli/bavarder/responder"
	bubblesKey "github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/samber/mo"
	"github.com/spf13/viper"
)

func (b *statefulBubble) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	// Captures string and ui.ClearNotificationMsg
	if uiCmd := b.notifier.Update(msg); uiCmd != nil {
		cmd = uiCmd
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		b.resize(msg.Width, msg.Height)
	case surfaceEventMsg:
		if b.coordinator != nil {
			if err := b.coordinator.HandleLoadEvent(msg.event); err != nil {
				log.Error(err)
				return b, tea.Batch(cmd, ui.Notify("Preview: "+err.Error()))
			}
		}
		return b, cmd
	case job.Result:
		return b, tea.Batch(cmd, b.handleResult(msg))
	case tea.KeyMsg:
		if bubblesKey.Matches(msg, b.keymap.forceQuit) {
			return b, b.quit()
		}

		// Only scrolling while a query is outstanding.
		if b.busy {
			switch {
			case bubblesKey.Matches(msg, b.keymap.scrollUp, b.keymap.scrollDown):
				var scrollCmd tea.Cmd
				b.replyC, scrollCmd = b.replyC.Update(msg)
				return b, tea.Batch(cmd, scrollCmd)
			default:
				return b, cmd
			}
		}
	case spinner.TickMsg:
		if !b.busy {
			return b, cmd
		}
		var spinnerCmd tea.Cmd
		b.spinnerC, spinnerCmd = b.spinnerC.Update(msg)
		return b, tea.Batch(cmd, spinnerCmd)
	}

	var stateCmd tea.Cmd
	switch b.state {
	case promptState:
		stateCmd = b.updatePrompt(msg)
	case respondersState:
		stateCmd = b.updateResponders(msg)
	case errorState:
		stateCmd = b.updateError(msg)
	}

	return b, tea.Batch(cmd, stateCmd)
}

func (b *statefulBubble) updatePrompt(msg tea.Msg) tea.Cmd {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case bubblesKey.Matches(msg, b.keymap.ask):
			return b.ask()
		case bubblesKey.Matches(msg, b.keymap.acceptSuggestion):
			if suggestion, ok := b.suggestion.Get(); ok {
				b.inputC.SetValue(suggestion)
				b.inputC.CursorEnd()
				b.suggestion = mo.None[string]()
			}
			return nil
		case bubblesKey.Matches(msg, b.keymap.chooseResponder):
			b.newState(respondersState)
			return b.respondersC.SetItems(b.responderItems())
		case bubblesKey.Matches(msg, b.keymap.copyPrompt):
			return b.copyText(b.prompt)
		case bubblesKey.Matches(msg, b.keymap.copyReply):
			return b.copyText(b.reply())
		case bubblesKey.Matches(msg, b.keymap.clear):
			b.inputC.Reset()
			b.prompt = ""
			b.suggestion = mo.None[string]()
			b.lastResult = mo.None[job.Result]()
			b.refreshReply()
			return nil
		case bubblesKey.Matches(msg, b.keymap.openPreview):
			return b.openPreview()
		case bubblesKey.Matches(msg, b.keymap.scrollUp, b.keymap.scrollDown):
			var cmd tea.Cmd
			b.replyC, cmd = b.replyC.Update(msg)
			return cmd
		case bubblesKey.Matches(msg, b.keymap.back):
			return b.quit()
		}
	}

	var cmd tea.Cmd
	b.inputC, cmd = b.inputC.Update(msg)
	b.updateSuggestion()
	return cmd
}

func (b *statefulBubble) updateSuggestion() {
	b.suggestion = mo.None[string]()

	value := b.inputC.Value()
	if value == "" || !viper.GetBool(key.PromptShowSuggestions) {
		return
	}

	if suggestion, ok := query.Suggest(value).Get(); ok && suggestion != value {
		b.suggestion = mo.Some(suggestion)
	}
}

func (b *statefulBubble) ask() tea.Cmd {
	prompt := strings.TrimSpace(b.inputC.Value())
	if prompt == "" {
		return nil
	}

	r, err := b.responder()
	if err != nil {
		b.raiseError(err)
		return nil
	}

	b.prompt = prompt
	b.suggestion = mo.None[string]()
	b.setBusy(true)

	go func() {
		if err := query.Remember(prompt, 1); err != nil {
			log.Warn(err)
		}
	}()

	return tea.Batch(job.Cmd(b.ctx, prompt, r), b.spinnerC.Tick)
}

// responder returns the live responder for the current provider, creating it once.
func (b *statefulBubble) responder() (responder.Responder, error) {
	if r, ok := b.responders[b.provider.Name]; ok {
		return r, nil
	}

	r, err := b.provider.New()
	if err != nil {
		return nil, err
	}

	b.responders[b.provider.Name] = r
	return r, nil
}

func (b *statefulBubble) handleResult(result job.Result) tea.Cmd {
	b.setBusy(false)
	b.lastResult = mo.Some(result)
	b.refreshReply()
	b.replyC.GotoTop()

	if viper.GetBool(key.PromptClearAfterSend) {
		b.inputC.Reset()
	}

	if b.coordinator == nil {
		return nil
	}

	document := b.renderer.Render(result.Text())
	if err := b.coordinator.LoadWebview(document); err != nil {
		log.Error(err)
		return ui.Notify("Preview: " + err.Error())
	}

	return nil
}

func (b *statefulBubble) openPreview() tea.Cmd {
	if b.coordinator == nil {
		return ui.Notify("Preview is disabled")
	}

	surface, ok := b.coordinator.Surface().Get()
	if !ok {
		return ui.Notify("Nothing to preview yet")
	}

	located, ok := surface.(interface{ URL() string })
	if !ok {
		return nil
	}

	if err := open.Start(located.URL()); err != nil {
		return ui.Notify("Could not open preview: " + err.Error())
	}

	return nil
}

func (b *statefulBubble) updateResponders(msg tea.Msg) tea.Cmd {
	if msg, ok := msg.(tea.KeyMsg); ok && b.respondersC.FilterState() != list.Filtering {
		switch {
		case bubblesKey.Matches(msg, b.keymap.confirm):
			if item, ok := b.respondersC.SelectedItem().(*listItem); ok {
				b.provider = item.internal.(*responder.Provider)
			}
			b.previousState()
			return nil
		case bubblesKey.Matches(msg, b.keymap.saveAsDefault):
			item, ok := b.respondersC.SelectedItem().(*listItem)
			if !ok {
				return nil
			}

			provider := item.internal.(*responder.Provider)
			if err := config.Persist(key.RespondersDefault, provider.Name); err != nil {
				b.raiseError(err)
				return nil
			}

			b.provider = provider
			return tea.Batch(b.respondersC.SetItems(b.responderItems()), ui.Notify("Saved "+provider.Name+" as default"))
		case bubblesKey.Matches(msg, b.keymap.back):
			b.previousState()
			return nil
		}
	}

	var cmd tea.Cmd
	b.respondersC, cmd = b.respondersC.Update(msg)
	return cmd
}

func (b *statefulBubble) updateError(msg tea.Msg) tea.Cmd {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case bubblesKey.Matches(msg, b.keymap.back):
			b.lastError = nil
			b.previousState()
		case bubblesKey.Matches(msg, b.keymap.quit):
			return b.quit()
		}
	}

	return nil
}

// quit remembers the responder, releases the live ones and leaves the program.
func (b *statefulBubble) quit() tea.Cmd {
	if viper.GetString(key.RespondersDefault) != b.provider.Name {
		if err := config.Persist(key.RespondersDefault, b.provider.Name); err != nil {
			log.Warn(err)
		}
	}

	for name, r := range b.responders {
		if closer, ok := r.(interface{ Close() }); ok {
			closer.Close()
		}
		delete(b.responders, name)
	}

	return tea.Quit
}
