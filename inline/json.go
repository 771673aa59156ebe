package inline

import (
	"encoding/json"
	"io"

	"github.com/bavarder-cli/bavarder/job"
)

// Output is the FormatJSON result.
type Output struct {
	// Prompt as sent to the responder.
	Prompt string `json:"prompt"`
	// Responder is the name of the responder that answered.
	Responder string `json:"responder"`
	// Response is the markdown reply. Empty when Error is set.
	Response string `json:"response"`
	// Error is the responder error, if any.
	Error string `json:"error,omitempty"`
	// ElapsedMs is how long the responder took.
	ElapsedMs int64 `json:"elapsed_ms"`
	// HTML is the rendered document.
	HTML string `json:"html"`
}

func newOutput(result job.Result, html string) *Output {
	output := &Output{
		Prompt:    result.Prompt,
		Responder: result.Responder,
		Response:  result.Response,
		ElapsedMs: result.Elapsed.Milliseconds(),
		HTML:      html,
	}

	if result.Err != nil {
		output.Error = result.Err.Error()
	}

	return output
}

func writeJson(out io.Writer, output *Output) error {
	encoder := json.NewEncoder(out)
	encoder.SetEscapeHTML(false)
	return encoder.Encode(output)
}
