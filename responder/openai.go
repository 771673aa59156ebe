package responder

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/bavarder-cli/bavarder/auth"
	"github.com/bavarder-cli/bavarder/config"
	"github.com/bavarder-cli/bavarder/constant"
	"github.com/bavarder-cli/bavarder/key"
	"github.com/bavarder-cli/bavarder/log"
	"github.com/bavarder-cli/bavarder/network"
	"github.com/sashabaranov/go-openai"
)

// OpenAIName is the name of the chat completions responder and of its keyring entry.
const OpenAIName = "openai"

// OpenAI talks to an OpenAI compatible chat completions endpoint.
type OpenAI struct {
	Endpoint     string
	Model        string
	SystemPrompt string
	Timeout      time.Duration
	Client       *http.Client
	// Token returns the bearer token. A keyring miss means no Authorization header.
	Token func() (string, error)
}

// NewOpenAI configures the responder from settings.
func NewOpenAI(settings config.Snapshot) *OpenAI {
	return &OpenAI{
		Endpoint:     strings.TrimSuffix(settings.String(key.OpenAIEndpoint), "/"),
		Model:        settings.String(key.OpenAIModel),
		SystemPrompt: settings.String(key.OpenAISystemPrompt),
		Timeout:      time.Duration(settings.Int(key.RespondersTimeout)) * time.Second,
		Client:       network.Client,
		Token: func() (string, error) {
			return auth.GetToken(OpenAIName)
		},
	}
}

func (*OpenAI) Name() string {
	return OpenAIName
}

// userAgent stamps every request made by the go-openai client.
type userAgent struct {
	client *http.Client
}

func (u userAgent) Do(req *http.Request) (*http.Response, error) {
	req.Header.Set("User-Agent", constant.UserAgent)
	return u.client.Do(req)
}

// Ask sends prompt as a single user message and returns the first choice.
func (o *OpenAI) Ask(ctx context.Context, prompt string) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", ErrEmptyPrompt
	}

	if o.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.Timeout)
		defer cancel()
	}

	token, err := o.token()
	if err != nil {
		return "", err
	}

	cfg := openai.DefaultConfig(token)
	cfg.BaseURL = o.Endpoint
	cfg.HTTPClient = userAgent{client: o.Client}

	var messages []openai.ChatCompletionMessage
	if o.SystemPrompt != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: o.SystemPrompt,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: prompt,
	})

	resp, err := openai.NewClientWithConfig(cfg).CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:    o.Model,
		Messages: messages,
	})
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) && apiErr.Message != "" {
			return "", fmt.Errorf("%s: %s", OpenAIName, apiErr.Message)
		}
		return "", fmt.Errorf("%s request: %w", OpenAIName, err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%s: no choices in response", OpenAIName)
	}

	return resp.Choices[0].Message.Content, nil
}

func (o *OpenAI) token() (string, error) {
	if o.Token == nil {
		return "", nil
	}

	token, err := o.Token()
	if errors.Is(err, auth.ErrNoToken) {
		log.Debugf("%s: no token stored, sending unauthenticated request", OpenAIName)
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read token: %w", err)
	}

	return token, nil
}
