package coordinator

// LoadEvent is a load progress notification emitted by a Surface.
type LoadEvent int

const (
	LoadStarted LoadEvent = iota
	LoadFinished
)

func (e LoadEvent) String() string {
	if e == LoadFinished {
		return "load-finished"
	}
	return "load-started"
}

// Surface displays one HTML document at a time.
//
// Implementations report progress through the observer given to the
// SurfaceFactory; the Coordinator expects those events to be delivered on
// its owning goroutine.
type Surface interface {
	// LoadDocument starts displaying html, resolving relative URLs against baseURI.
	LoadDocument(html, baseURI string) error
	// IsLoading reports whether a LoadDocument has not finished yet.
	IsLoading() bool
	// Reveal makes the surface visible. It is called at most once.
	Reveal() error
}

// SurfaceFactory builds the surface on first use.
type SurfaceFactory func() (Surface, error)
