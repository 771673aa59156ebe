// Package coordinator sequences documents onto a single display surface.
//
// The Coordinator is a small state machine:
//
//	Idle --LoadWebview--> Loading --LoadFinished--> Shown --LoadWebview--> Loading
//
// While Loading, new documents wait in a single pending slot where the latest
// one wins. The first completed load reveals the surface.
//
// A Coordinator is not safe for concurrent use. Every method, including
// HandleLoadEvent, must be called from the goroutine that owns it.
package coordinator

import (
	"errors"
	"fmt"

	"github.com/bavarder-cli/bavarder/constant"
	"github.com/bavarder-cli/bavarder/log"
	"github.com/bavarder-cli/bavarder/render"
	"github.com/samber/mo"
)

// State of the coordinator.
type State int

const (
	// Idle means no document was ever handed to the surface.
	Idle State = iota
	// Loading means a document was handed off and its completion not yet observed.
	Loading
	// Shown means the last handed document finished loading.
	Shown
)

func (s State) String() string {
	switch s {
	case Loading:
		return "loading"
	case Shown:
		return "shown"
	default:
		return "idle"
	}
}

// Step is what a caller asks the coordinator to do.
type Step int

const (
	// StepLoadWebview hands a document to the surface.
	StepLoadWebview Step = iota
	// StepRender makes the surface visible.
	StepRender
)

func (s Step) String() string {
	if s == StepRender {
		return "render"
	}
	return "load-webview"
}

// Request pairs a document with the step to apply.
type Request struct {
	Document render.Document
	Step     Step
}

// ErrNoSurface is returned when the surface factory is missing.
var ErrNoSurface = errors.New("no surface factory")

// Coordinator owns the surface and its state machine.
type Coordinator struct {
	factory SurfaceFactory
	surface Surface
	baseURI string

	state   State
	current mo.Option[render.Document]
	pending mo.Option[render.Document]
	visible bool

	handoffs int
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithBaseURI overrides the base URI documents are loaded with.
func WithBaseURI(uri string) Option {
	return func(c *Coordinator) {
		c.baseURI = uri
	}
}

// New creates a coordinator. The factory is not called until the first document arrives.
func New(factory SurfaceFactory, options ...Option) *Coordinator {
	c := &Coordinator{
		factory: factory,
		baseURI: constant.BaseURI,
	}

	for _, option := range options {
		option(c)
	}

	return c
}

// Show applies a request.
func (c *Coordinator) Show(request Request) error {
	switch request.Step {
	case StepRender:
		return c.Render()
	default:
		return c.LoadWebview(request.Document)
	}
}

// LoadWebview hands doc to the surface, or queues it behind the load in flight.
func (c *Coordinator) LoadWebview(doc render.Document) error {
	if c.state == Loading {
		if c.pending.IsPresent() {
			log.Debug("coordinator: superseding pending document")
		}
		c.pending = mo.Some(doc)
		return nil
	}

	return c.handoff(doc)
}

// Render makes the surface visible. Only the first call has any effect.
// It reveals the surface and never reloads the current document.
func (c *Coordinator) Render() error {
	if c.visible {
		return nil
	}

	c.visible = true

	// Revealed right after construction instead.
	if c.surface == nil {
		return nil
	}

	return c.surface.Reveal()
}

// HandleLoadEvent advances the state machine on a surface notification.
func (c *Coordinator) HandleLoadEvent(event LoadEvent) error {
	if event != LoadFinished {
		return nil
	}

	if c.state != Loading {
		log.Debugf("coordinator: ignoring %s while %s", event, c.state)
		return nil
	}

	if doc, ok := c.pending.Get(); ok {
		c.pending = mo.None[render.Document]()
		if err := c.handoff(doc); err != nil {
			// The previous load still completed, so it is shown.
			return errors.Join(err, c.Render())
		}
		return nil
	}

	c.state = Shown
	return c.Render()
}

func (c *Coordinator) handoff(doc render.Document) error {
	if err := c.ensureSurface(); err != nil {
		return err
	}

	if err := c.surface.LoadDocument(doc.String(), c.baseURI); err != nil {
		// The previous load did complete; do not wait for another one.
		if c.state == Loading {
			c.state = Shown
		}
		return fmt.Errorf("load document: %w", err)
	}

	c.current = mo.Some(doc)
	c.state = Loading
	c.handoffs++
	return nil
}

func (c *Coordinator) ensureSurface() error {
	if c.surface != nil {
		return nil
	}

	if c.factory == nil {
		return ErrNoSurface
	}

	surface, err := c.factory()
	if err != nil {
		return fmt.Errorf("create surface: %w", err)
	}

	c.surface = surface
	log.Info("coordinator: surface created")

	if c.visible {
		return c.surface.Reveal()
	}

	return nil
}

// State returns the current state.
func (c *Coordinator) State() State {
	return c.state
}

// Visible reports whether the surface was revealed.
func (c *Coordinator) Visible() bool {
	return c.visible
}

// Current returns the document last handed to the surface.
func (c *Coordinator) Current() mo.Option[render.Document] {
	return c.current
}

// Pending returns the document waiting behind the load in flight.
func (c *Coordinator) Pending() mo.Option[render.Document] {
	return c.pending
}

// Handoffs counts documents handed to the surface so far.
func (c *Coordinator) Handoffs() int {
	return c.handoffs
}

// Surface returns the surface, if it was created.
func (c *Coordinator) Surface() mo.Option[Surface] {
	if c.surface == nil {
		return mo.None[Surface]()
	}
	return mo.Some(c.surface)
}
