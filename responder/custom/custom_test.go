package custom

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/bavarder-cli/bavarder/config"
	"github.com/bavarder-cli/bavarder/filesystem"
	"github.com/bavarder-cli/bavarder/internal/script"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	filesystem.SetMemMapFs()
}

func writeScript(name, source string) string {
	path := filepath.Join("/responders", name+Extension)
	So(filesystem.API().WriteFile(path, []byte(source), 0644), ShouldBeNil)
	script.Forget(path)
	return path
}

func TestLoad(t *testing.T) {
	Convey("Given a script defining Ask", t, func() {
		path := writeScript("shout", `function Ask(prompt) return string.upper(prompt) end`)

		r, err := Load(path, config.SnapshotOf(nil))
		So(err, ShouldBeNil)
		defer r.Close()

		Convey("It is named after the file", func() {
			So(r.Name(), ShouldEqual, "shout")
			So(r.ID(), ShouldEqual, "shout custom")
		})

		Convey("Ask returns the script's reply", func() {
			reply, err := r.Ask(context.Background(), "hello")
			So(err, ShouldBeNil)
			So(reply, ShouldEqual, "HELLO")
		})
	})

	Convey("Given a script without Ask", t, func() {
		path := writeScript("mute", `local x = 1`)

		_, err := Load(path, config.SnapshotOf(nil))
		So(err, ShouldNotBeNil)
		So(err.Error(), ShouldContainSubstring, "Ask")
	})

	Convey("Given a script that raises", t, func() {
		path := writeScript("grumpy", `function Ask(prompt) error("no answer for " .. prompt) end`)

		r, err := Load(path, config.SnapshotOf(nil))
		So(err, ShouldBeNil)

		_, err = r.Ask(context.Background(), "x")
		So(err, ShouldNotBeNil)
		So(err.Error(), ShouldContainSubstring, "no answer for x")
	})

	Convey("Given a script returning a non string", t, func() {
		path := writeScript("numeric", `function Ask(prompt) return {} end`)

		r, err := Load(path, config.SnapshotOf(nil))
		So(err, ShouldBeNil)

		_, err = r.Ask(context.Background(), "x")
		So(err, ShouldNotBeNil)
	})

	Convey("Given a script reading settings", t, func() {
		path := writeScript("settings", `function Ask(prompt) return bavarder.setting("openai.model") or "none" end`)

		r, err := Load(path, config.SnapshotOf(map[string]any{"openai.model": "tiny"}))
		So(err, ShouldBeNil)

		reply, err := r.Ask(context.Background(), "x")
		So(err, ShouldBeNil)
		So(reply, ShouldEqual, "tiny")
	})
}

func TestHTTP(t *testing.T) {
	Convey("Given a responder calling an HTTP endpoint", t, func() {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Echo", r.Header.Get("X-Test"))
			_, _ = fmt.Fprintf(w, `{"reply": "%s %s"}`, r.Method, r.URL.Path)
		}))
		defer server.Close()

		path := writeScript("remote", fmt.Sprintf(`
local json = require("json")

function Ask(prompt)
	local response = http_tls.request({
		method = "POST",
		url = "%s/" .. prompt,
		headers = { ["X-Test"] = "yes" },
		body = "{}",
	})
	if response.status ~= 200 or response.headers["X-Echo"] ~= "yes" then
		error("bad response")
	end
	return json.decode(response.body).reply
end
`, server.URL))

		r, err := Load(path, config.SnapshotOf(nil))
		So(err, ShouldBeNil)

		reply, err := r.Ask(context.Background(), "hello")
		So(err, ShouldBeNil)
		So(reply, ShouldEqual, "POST /hello")
	})
}
