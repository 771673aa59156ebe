// Package inline runs a single query without the TUI.
package inline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/bavarder-cli/bavarder/coordinator"
	"github.com/bavarder-cli/bavarder/internal/loop"
	"github.com/bavarder-cli/bavarder/job"
	"github.com/bavarder-cli/bavarder/log"
	"github.com/bavarder-cli/bavarder/render"
	"github.com/charmbracelet/glamour"
	"golang.org/x/sync/errgroup"
)

// ErrNoSurface is returned for FormatPreview without a surface builder.
var ErrNoSurface = errors.New("preview requested but no surface is available")

// Run asks the responder once and writes the result in the requested format.
// A failing responder is not an error: its message becomes the reply.
func Run(ctx context.Context, options *Options) error {
	if options.Out == nil {
		options.Out = os.Stdout
	}

	if options.Renderer == nil {
		options.Renderer = render.Configured()
	}

	if options.Format == FormatPreview {
		return runPreview(ctx, options)
	}

	result := job.Run(ctx, options.Prompt, options.Responder)

	switch options.Format {
	case FormatHTML:
		_, err := io.WriteString(options.Out, options.Renderer.Render(result.Text()).String())
		return err
	case FormatJSON:
		return writeJson(options.Out, newOutput(result, options.Renderer.Render(result.Text()).String()))
	case FormatPlain:
		return writePlain(options.Out, result.Text(), options)
	default:
		return fmt.Errorf("unsupported format %s", options.Format)
	}
}

func writePlain(out io.Writer, markdown string, options *Options) error {
	width := options.Width
	if width <= 0 {
		width = 80
	}

	styleOption := glamour.WithStandardStyle(options.Style)
	if options.Style == "" || options.Style == "auto" {
		styleOption = glamour.WithAutoStyle()
	}

	renderer, err := glamour.NewTermRenderer(styleOption, glamour.WithWordWrap(width))
	if err != nil {
		return err
	}

	rendered, err := renderer.Render(markdown)
	if err != nil {
		return err
	}

	_, err = io.WriteString(out, rendered)
	return err
}

// runPreview drives the coordinator from a loop goroutine. The query runs on
// its own goroutine and posts the rendered document back to the loop.
func runPreview(ctx context.Context, options *Options) error {
	if options.Surface == nil {
		return ErrNoSurface
	}

	var (
		l     = loop.New(16)
		c     *coordinator.Coordinator
		shown = make(chan struct{})
		fail  = make(chan error, 1)
		once  sync.Once
	)

	reportShown := func() {
		once.Do(func() {
			close(shown)
		})
	}

	factory := options.Surface(func(event coordinator.LoadEvent) {
		l.Post(func() {
			if err := c.HandleLoadEvent(event); err != nil {
				log.Error(err)
			}

			if c.State() == coordinator.Shown && !c.Pending().IsPresent() {
				reportShown()
			}
		})
	})

	var coordinatorOptions []coordinator.Option
	if options.BaseURI != "" {
		coordinatorOptions = append(coordinatorOptions, coordinator.WithBaseURI(options.BaseURI))
	}
	c = coordinator.New(factory, coordinatorOptions...)

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		return l.Run(groupCtx)
	})

	group.Go(func() error {
		defer l.Stop()

		task := job.Start(groupCtx, options.Prompt, options.Responder, func(result job.Result) {
			document := options.Renderer.Render(result.Text())
			l.Post(func() {
				if err := c.LoadWebview(document); err != nil {
					fail <- err
					return
				}

				// The page has to be opened by hand when the browser is not launched.
				if surface, ok := c.Surface().Get(); ok {
					if located, ok := surface.(interface{ URL() string }); ok {
						fmt.Fprintln(options.Out, located.URL())
					}
				}
			})
		})
		task.Wait()

		select {
		case <-shown:
			log.Info("preview shown")
		case err := <-fail:
			return err
		case <-groupCtx.Done():
			return nil
		}

		if options.Linger {
			<-groupCtx.Done()
		}

		return nil
	})

	err := group.Wait()

	// Loop stopped, the coordinator is ours again.
	if surface, ok := c.Surface().Get(); ok {
		if closer, ok := surface.(io.Closer); ok {
			if closeErr := closer.Close(); closeErr != nil {
				log.Warn(closeErr)
			}
		}
	}

	if errors.Is(err, context.Canceled) {
		return nil
	}

	return err
}
