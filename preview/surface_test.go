package preview

import (
	"fmt"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/bavarder-cli/bavarder/coordinator"
	"github.com/gorilla/websocket"
	. "github.com/smartystreets/goconvey/convey"
)

type fixture struct {
	surface *Surface
	events  chan coordinator.LoadEvent
	opened  chan string
}

func newFixture() *fixture {
	f := &fixture{
		events: make(chan coordinator.LoadEvent, 8),
		opened: make(chan string, 8),
	}

	s, err := New(Options{
		Listen:              "127.0.0.1:0",
		InterceptLinks:      true,
		SuppressContextMenu: true,
		OnLoadEvent:         func(e coordinator.LoadEvent) { f.events <- e },
		OpenLink: func(uri string) error {
			f.opened <- uri
			return nil
		},
	})
	So(err, ShouldBeNil)
	f.surface = s
	return f
}

func (f *fixture) dial() *websocket.Conn {
	url := "ws" + strings.TrimPrefix(f.surface.URL(), "http") + "ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	So(err, ShouldBeNil)
	return conn
}

func receive(conn *websocket.Conn) Message {
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var message Message
	So(conn.ReadJSON(&message), ShouldBeNil)
	return message
}

func (f *fixture) event() coordinator.LoadEvent {
	select {
	case e := <-f.events:
		return e
	case <-time.After(2 * time.Second):
		return -1
	}
}

func TestSurface(t *testing.T) {
	Convey("Given a running preview", t, func() {
		f := newFixture()
		Reset(func() { _ = f.surface.Close() })

		Convey("The shell page is served", func() {
			resp, err := http.Get(f.surface.URL())
			So(err, ShouldBeNil)
			defer resp.Body.Close()

			body, _ := io.ReadAll(resp.Body)
			So(resp.StatusCode, ShouldEqual, http.StatusOK)
			So(string(body), ShouldContainSubstring, `<iframe id="surface"`)
		})

		Convey("Given a connected page", func() {
			conn := f.dial()
			defer conn.Close()

			settings := receive(conn)
			So(settings.Type, ShouldEqual, TypeSettings)
			So(settings.InterceptLinks, ShouldBeTrue)
			So(settings.SuppressContextMenu, ShouldBeTrue)

			Convey("A document is pushed and its completion reported once", func() {
				So(f.surface.LoadDocument("<p>A</p>", "file://localhost/"), ShouldBeNil)
				So(f.surface.IsLoading(), ShouldBeTrue)

				load := receive(conn)
				So(load.Type, ShouldEqual, TypeLoad)
				So(load.HTML, ShouldEqual, "<p>A</p>")
				So(load.BaseURI, ShouldEqual, "file://localhost/")

				So(conn.WriteJSON(Message{Type: TypeStarted, Seq: load.Seq}), ShouldBeNil)
				So(f.event(), ShouldEqual, coordinator.LoadStarted)

				So(conn.WriteJSON(Message{Type: TypeFinished, Seq: load.Seq}), ShouldBeNil)
				So(f.event(), ShouldEqual, coordinator.LoadFinished)
				So(f.surface.IsLoading(), ShouldBeFalse)

				So(conn.WriteJSON(Message{Type: TypeFinished, Seq: load.Seq}), ShouldBeNil)
				So(conn.WriteJSON(Message{Type: TypeNavigate, URI: "https://go.dev"}), ShouldBeNil)
				So(<-f.opened, ShouldEqual, "https://go.dev")
				So(len(f.events), ShouldEqual, 0)
			})

			Convey("Completion of a superseded document is ignored", func() {
				So(f.surface.LoadDocument("A", ""), ShouldBeNil)
				first := receive(conn)
				So(f.surface.LoadDocument("B", ""), ShouldBeNil)
				second := receive(conn)

				So(conn.WriteJSON(Message{Type: TypeFinished, Seq: first.Seq}), ShouldBeNil)
				So(conn.WriteJSON(Message{Type: TypeFinished, Seq: second.Seq}), ShouldBeNil)
				So(f.event(), ShouldEqual, coordinator.LoadFinished)
				So(len(f.events), ShouldEqual, 0)
			})

			Convey("Reveal reaches the page", func() {
				So(f.surface.Reveal(), ShouldBeNil)
				So(receive(conn).Type, ShouldEqual, TypeReveal)
			})

			Convey("Links are routed by the link policy", func() {
				So(conn.WriteJSON(Message{Type: TypeNavigate, URI: "file:///etc/passwd"}), ShouldBeNil)
				So(conn.WriteJSON(Message{Type: TypeNavigate, URI: "www.example.com"}), ShouldBeNil)
				So(<-f.opened, ShouldEqual, "https://www.example.com")
			})
		})

		Convey("A page connecting late catches up", func() {
			So(f.surface.LoadDocument("<p>A</p>", ""), ShouldBeNil)
			So(f.surface.Reveal(), ShouldBeNil)

			conn := f.dial()
			defer conn.Close()

			So(receive(conn).Type, ShouldEqual, TypeSettings)
			load := receive(conn)
			So(load.Type, ShouldEqual, TypeLoad)
			So(load.HTML, ShouldEqual, "<p>A</p>")
			So(receive(conn).Type, ShouldEqual, TypeReveal)
		})

		Convey("A page connecting during loads sees them in order", func() {
			done := make(chan struct{})
			go func() {
				defer close(done)
				for i := 0; i < 50; i++ {
					_ = f.surface.LoadDocument(fmt.Sprintf("doc %d", i), "")
				}
			}()

			conn := f.dial()
			defer conn.Close()
			So(receive(conn).Type, ShouldEqual, TypeSettings)

			var last uint64
			for {
				load := receive(conn)
				So(load.Type, ShouldEqual, TypeLoad)
				So(load.Seq, ShouldBeGreaterThan, last)
				last = load.Seq
				if load.HTML == "doc 49" {
					break
				}
			}
			<-done

			So(f.surface.LoadDocument("final", ""), ShouldBeNil)
			So(receive(conn).HTML, ShouldEqual, "final")
		})

		Convey("A closed surface refuses documents", func() {
			So(f.surface.Close(), ShouldBeNil)
			So(f.surface.LoadDocument("A", ""), ShouldNotBeNil)
			So(f.surface.Close(), ShouldBeNil)
		})
	})
}

func TestPolicy(t *testing.T) {
	Convey("External links", t, func() {
		So(IsExternal("http://a"), ShouldBeTrue)
		So(IsExternal("https://a"), ShouldBeTrue)
		So(IsExternal("www.a.org"), ShouldBeTrue)
		So(IsExternal("file:///tmp/x"), ShouldBeFalse)
		So(IsExternal("#section"), ShouldBeFalse)
		So(IsExternal("about:blank"), ShouldBeFalse)
		So(ExternalURL("www.a.org"), ShouldEqual, "https://www.a.org")
		So(ExternalURL("http://a"), ShouldEqual, "http://a")
	})
}
