package responder

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bavarder-cli/bavarder/auth"
	"github.com/bavarder-cli/bavarder/config"
	"github.com/bavarder-cli/bavarder/constant"
	"github.com/bavarder-cli/bavarder/key"
	"github.com/samber/lo"
	"github.com/sashabaranov/go-openai"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/zalando/go-keyring"
)

func init() {
	keyring.MockInit()
}

func TestOpenAI(t *testing.T) {
	Convey("Given a chat completions server", t, func() {
		var (
			got           openai.ChatCompletionRequest
			authorization string
			userAgent     string
		)

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authorization = r.Header.Get("Authorization")
			userAgent = r.Header.Get("User-Agent")
			if r.URL.Path != "/v1/chat/completions" {
				w.WriteHeader(http.StatusNotFound)
				return
			}

			_ = json.NewDecoder(r.Body).Decode(&got)
			if len(got.Messages) > 0 && got.Messages[len(got.Messages)-1].Content == "fail" {
				w.WriteHeader(http.StatusTooManyRequests)
				_, _ = w.Write([]byte(`{"error": {"message": "rate limited"}}`))
				return
			}

			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"id": "c1", "object": "chat.completion", "model": "tiny", "choices": [{"index": 0, "message": {"role": "assistant", "content": "**hi**"}, "finish_reason": "stop"}]}`))
		}))
		defer server.Close()

		settings := config.SnapshotOf(map[string]any{
			key.OpenAIEndpoint:     server.URL + "/v1/",
			key.OpenAIModel:        "tiny",
			key.OpenAISystemPrompt: "be brief",
			key.RespondersTimeout:  5,
		})
		o := NewOpenAI(settings)
		o.Client = server.Client()

		Convey("The reply is the first choice", func() {
			reply, err := o.Ask(context.Background(), "hello")
			So(err, ShouldBeNil)
			So(reply, ShouldEqual, "**hi**")
			So(got.Model, ShouldEqual, "tiny")
			So(lo.Map(got.Messages, func(m openai.ChatCompletionMessage, _ int) string {
				return m.Role + ": " + m.Content
			}), ShouldResemble, []string{"system: be brief", "user: hello"})
			So(userAgent, ShouldEqual, constant.UserAgent)
		})

		Convey("Without a stored token no Authorization header is sent", func() {
			_, err := o.Ask(context.Background(), "hello")
			So(err, ShouldBeNil)
			So(authorization, ShouldBeEmpty)
		})

		Convey("A stored token is sent as a bearer token", func() {
			So(auth.SetToken(OpenAIName, "sk-test"), ShouldBeNil)
			Reset(func() { _ = auth.DeleteToken(OpenAIName) })

			_, err := o.Ask(context.Background(), "hello")
			So(err, ShouldBeNil)
			So(authorization, ShouldEqual, "Bearer sk-test")
		})

		Convey("API errors carry the server message", func() {
			_, err := o.Ask(context.Background(), "fail")
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldEqual, "openai: rate limited")
		})

		Convey("A wrong endpoint reports the status", func() {
			o.Endpoint = server.URL
			_, err := o.Ask(context.Background(), "hello")
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "404")
		})

		Convey("An empty choice list is an error", func() {
			empty := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(`{"choices": []}`))
			}))
			defer empty.Close()

			o.Endpoint = empty.URL
			o.Client = empty.Client()
			_, err := o.Ask(context.Background(), "hello")
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldEqual, "openai: no choices in response")
		})

		Convey("Blank prompts are not sent", func() {
			_, err := o.Ask(context.Background(), " ")
			So(err, ShouldEqual, ErrEmptyPrompt)
		})
	})
}
