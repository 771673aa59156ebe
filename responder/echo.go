package responder

import (
	"context"
	"errors"
	"strings"
)

// EchoName is the name of the echo responder.
const EchoName = "echo"

// ErrEmptyPrompt is returned for prompts with no text.
var ErrEmptyPrompt = errors.New("empty prompt")

// Echo replies with the prompt. It needs no network and is the default responder.
type Echo struct{}

func (Echo) Name() string {
	return EchoName
}

func (Echo) Ask(_ context.Context, prompt string) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", ErrEmptyPrompt
	}
	return prompt, nil
}
