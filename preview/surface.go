// Package preview shows rendered documents in a browser tab kept in sync over a websocket.
//
// The Surface serves a small shell page holding an iframe. Every document handed to
// LoadDocument is pushed to all connected pages, which report back when the iframe
// finished loading it.
package preview

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/bavarder-cli/bavarder/coordinator"
	"github.com/bavarder-cli/bavarder/key"
	"github.com/bavarder-cli/bavarder/log"
	"github.com/bavarder-cli/bavarder/open"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/spf13/viper"
)

//go:embed shell.html
var shellPage []byte

// Options configures a Surface.
type Options struct {
	// Listen is the TCP address to serve on. Port 0 picks a free port.
	Listen              string
	OpenBrowser         bool
	InterceptLinks      bool
	SuppressContextMenu bool

	// OnLoadEvent is called from connection goroutines, never from a Surface method.
	// It should post the event to the owner.
	OnLoadEvent func(coordinator.LoadEvent)
	// OpenLink opens an external link. Defaults to the system handler.
	OpenLink func(uri string) error
}

// ConfiguredOptions reads the preview settings.
func ConfiguredOptions(onLoadEvent func(coordinator.LoadEvent)) Options {
	return Options{
		Listen:              viper.GetString(key.PreviewListen),
		OpenBrowser:         viper.GetBool(key.PreviewOpenBrowser),
		InterceptLinks:      viper.GetBool(key.PreviewInterceptLinks),
		SuppressContextMenu: viper.GetBool(key.PreviewSuppressContextMenu),
		OnLoadEvent:         onLoadEvent,
	}
}

type client struct {
	id   uuid.UUID
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *client) send(message Message) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.write(message)
}

// write needs c.mu held.
func (c *client) write(message Message) error {
	_ = c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
	return c.conn.WriteJSON(message)
}

// Surface is a coordinator.Surface backed by browser tabs.
type Surface struct {
	options  Options
	listener net.Listener
	server   *http.Server
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[uuid.UUID]*client
	current *Message
	seq     uint64
	loading bool
	visible bool
	closed  bool
}

// New starts serving the preview page.
func New(options Options) (*Surface, error) {
	if options.Listen == "" {
		options.Listen = "127.0.0.1:0"
	}

	if options.OpenLink == nil {
		options.OpenLink = open.Start
	}

	listener, err := net.Listen("tcp", options.Listen)
	if err != nil {
		return nil, fmt.Errorf("listen on %s: %w", options.Listen, err)
	}

	s := &Surface{
		options:  options,
		listener: listener,
		clients:  make(map[uuid.UUID]*client),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || origin == "http://"+r.Host
			},
		},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleShell)
	mux.HandleFunc("/ws", s.handleSocket)

	s.server = &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Errorf("preview: serve: %s", err)
		}
	}()

	log.WithField("url", s.URL()).Info("preview: serving")

	if options.OpenBrowser {
		if err := options.OpenLink(s.URL()); err != nil {
			log.Warnf("preview: open browser: %s", err)
		}
	}

	return s, nil
}

// Factory adapts New to a coordinator.SurfaceFactory.
func Factory(options Options) coordinator.SurfaceFactory {
	return func() (coordinator.Surface, error) {
		s, err := New(options)
		if err != nil {
			return nil, err
		}
		return s, nil
	}
}

// URL of the preview page.
func (s *Surface) URL() string {
	return "http://" + s.listener.Addr().String() + "/"
}

// LoadDocument pushes html to every connected page.
func (s *Surface) LoadDocument(html, baseURI string) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return net.ErrClosed
	}

	s.seq++
	message := Message{Type: TypeLoad, Seq: s.seq, HTML: html, BaseURI: baseURI}
	s.current = &message
	s.loading = true
	clients := s.snapshotClients()
	s.mu.Unlock()

	s.broadcast(clients, message)
	return nil
}

// IsLoading reports whether the last document was not yet shown by any page.
func (s *Surface) IsLoading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Reveal makes the iframe visible on every page, including pages that connect later.
func (s *Surface) Reveal() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return net.ErrClosed
	}
	s.visible = true
	clients := s.snapshotClients()
	s.mu.Unlock()

	s.broadcast(clients, Message{Type: TypeReveal})
	return nil
}

// Clients counts connected pages.
func (s *Surface) Clients() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}

// Close stops the server and disconnects every page.
func (s *Surface) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	clients := s.snapshotClients()
	s.mu.Unlock()

	for _, c := range clients {
		_ = c.conn.Close()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}

func (s *Surface) snapshotClients() []*client {
	clients := make([]*client, 0, len(s.clients))
	for _, c := range s.clients {
		clients = append(clients, c)
	}
	return clients
}

func (s *Surface) broadcast(clients []*client, message Message) {
	for _, c := range clients {
		if err := c.send(message); err != nil {
			log.WithField("client", c.id).Warnf("preview: send %s: %s", message.Type, err)
			s.drop(c)
		}
	}
}

func (s *Surface) drop(c *client) {
	s.mu.Lock()
	delete(s.clients, c.id)
	s.mu.Unlock()
	_ = c.conn.Close()
}

func (s *Surface) notify(event coordinator.LoadEvent) {
	if s.options.OnLoadEvent != nil {
		s.options.OnLoadEvent(event)
	}
}

func (s *Surface) handleShell(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(shellPage)
}

func (s *Surface) handleSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warnf("preview: upgrade: %s", err)
		return
	}

	c := &client{id: uuid.New(), conn: conn}

	// Held until the greeting is out, so broadcasts of newer documents queue behind it.
	c.mu.Lock()

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		c.mu.Unlock()
		_ = conn.Close()
		return
	}
	s.clients[c.id] = c
	current, visible := s.current, s.visible
	s.mu.Unlock()

	log.WithField("client", c.id).Debug("preview: page connected")

	greeting := []Message{{
		Type:                TypeSettings,
		InterceptLinks:      s.options.InterceptLinks,
		SuppressContextMenu: s.options.SuppressContextMenu,
	}}
	if current != nil {
		greeting = append(greeting, *current)
	}
	if visible {
		greeting = append(greeting, Message{Type: TypeReveal})
	}

	for _, message := range greeting {
		if err := c.write(message); err != nil {
			c.mu.Unlock()
			s.drop(c)
			return
		}
	}
	c.mu.Unlock()

	s.read(c)
}

func (s *Surface) read(c *client) {
	defer s.drop(c)

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.WithField("client", c.id).Debugf("preview: read: %s", err)
			}
			return
		}

		var message Message
		if err := json.Unmarshal(data, &message); err != nil {
			log.WithField("client", c.id).Warnf("preview: bad message: %s", err)
			continue
		}

		s.handle(message)
	}
}

func (s *Surface) handle(message Message) {
	switch message.Type {
	case TypeFinished:
		s.mu.Lock()
		// The first page to show the current document completes the load.
		finished := s.loading && message.Seq == s.seq
		if finished {
			s.loading = false
		}
		s.mu.Unlock()

		if finished {
			s.notify(coordinator.LoadFinished)
		}
	case TypeNavigate:
		s.navigate(message.URI)
	case TypeStarted:
		s.mu.Lock()
		current := message.Seq == s.seq
		s.mu.Unlock()

		if current {
			s.notify(coordinator.LoadStarted)
		}
	default:
		log.Debugf("preview: ignoring message %q", message.Type)
	}
}

func (s *Surface) navigate(uri string) {
	if !IsExternal(uri) {
		log.Debugf("preview: refusing navigation to %q", uri)
		return
	}

	if err := s.options.OpenLink(ExternalURL(uri)); err != nil {
		log.Warnf("preview: open %s: %s", uri, err)
	}
}
