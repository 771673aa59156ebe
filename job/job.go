// Package job runs a responder query off the owning goroutine and hands the result back.
package job

import (
	"context"
	"fmt"
	"time"

	"github.com/bavarder-cli/bavarder/log"
	"github.com/bavarder-cli/bavarder/responder"
	tea "github.com/charmbracelet/bubbletea"
)

// Result of one query.
type Result struct {
	Prompt    string
	Responder string
	Response  string
	Err       error
	Elapsed   time.Duration
}

// Text is what gets rendered: the response, or the error message if the query failed.
func (r Result) Text() string {
	if r.Err != nil {
		return r.Err.Error()
	}
	return r.Response
}

// Failed reports whether the responder returned an error.
func (r Result) Failed() bool {
	return r.Err != nil
}

// Task is a query running in the background.
type Task struct {
	done chan struct{}
}

// Wait blocks until the task finished and its handoff returned.
func (t *Task) Wait() {
	<-t.done
}

// Done is closed when the task finished.
func (t *Task) Done() <-chan struct{} {
	return t.done
}

// Start asks r on a new goroutine and passes the result to handoff.
// handoff runs on that goroutine, so it should only post the result to the owner.
func Start(ctx context.Context, prompt string, r responder.Responder, handoff func(Result)) *Task {
	t := &Task{done: make(chan struct{})}

	go func() {
		defer close(t.done)
		handoff(Run(ctx, prompt, r))
	}()

	return t
}

// Run asks r synchronously. A panicking responder yields an error result.
func Run(ctx context.Context, prompt string, r responder.Responder) (result Result) {
	result.Prompt = prompt
	result.Responder = r.Name()

	start := time.Now()
	defer func() {
		result.Elapsed = time.Since(start)

		if err := recover(); err != nil {
			result.Response = ""
			result.Err = fmt.Errorf("%s panicked: %v", result.Responder, err)
		}

		if result.Err != nil {
			log.WithField("responder", result.Responder).Warnf("query failed after %s: %s", result.Elapsed, result.Err)
		} else {
			log.WithField("responder", result.Responder).Infof("query answered in %s", result.Elapsed)
		}
	}()

	result.Response, result.Err = r.Ask(ctx, prompt)
	return
}

// Cmd is the bubbletea form of Start: the Result arrives as a message.
func Cmd(ctx context.Context, prompt string, r responder.Responder) tea.Cmd {
	return func() tea.Msg {
		return Run(ctx, prompt, r)
	}
}
