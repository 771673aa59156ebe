// Package loop runs posted functions on a single goroutine.
package loop

import (
	"context"
	"sync"
)

// Loop serializes work onto the goroutine that calls Run.
type Loop struct {
	tasks chan func()
	done  chan struct{}
	once  sync.Once
}

// New creates a loop that buffers up to size posted functions.
func New(size int) *Loop {
	return &Loop{
		tasks: make(chan func(), size),
		done:  make(chan struct{}),
	}
}

// Post schedules fn to run on the loop goroutine.
// It reports false if the loop was stopped and fn will never run.
// Safe to call from any goroutine.
func (l *Loop) Post(fn func()) bool {
	select {
	case <-l.done:
		return false
	default:
	}

	select {
	case l.tasks <- fn:
		return true
	case <-l.done:
		return false
	}
}

// Run executes posted functions in order until Stop is called or ctx ends.
// Functions already queued when Stop is called are dropped.
func (l *Loop) Run(ctx context.Context) error {
	for {
		select {
		case <-l.done:
			return nil
		case <-ctx.Done():
			l.Stop()
			return ctx.Err()
		case fn := <-l.tasks:
			fn()
		}
	}
}

// Stop ends Run. It may be called more than once and from any goroutine.
func (l *Loop) Stop() {
	l.once.Do(func() {
		close(l.done)
	})
}

// Done is closed once the loop is stopped.
func (l *Loop) Done() <-chan struct{} {
	return l.done
}
