package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"os/signal"
	"reflect"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/bavarder-cli/bavarder/coordinator"
	"github.com/bavarder-cli/bavarder/filesystem"
	"github.com/bavarder-cli/bavarder/inline"
	"github.com/bavarder-cli/bavarder/key"
	"github.com/bavarder-cli/bavarder/log"
	"github.com/bavarder-cli/bavarder/preview"
	"github.com/bavarder-cli/bavarder/query"
	"github.com/bavarder-cli/bavarder/render"
	"github.com/bavarder-cli/bavarder/responder"
	"github.com/bavarder-cli/bavarder/util"
	"github.com/invopop/jsonschema"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"
)

func init() {
	rootCmd.AddCommand(askCmd)

	askCmd.Flags().StringP("responder", "r", "", "Responder to ask instead of the default one")
	lo.Must0(askCmd.RegisterFlagCompletionFunc("responder", completionResponders))
	askCmd.Flags().Bool("pick", false, "Choose the responder interactively")
	askCmd.MarkFlagsMutuallyExclusive("responder", "pick")

	askCmd.Flags().Bool("html", false, "Write the rendered HTML document")
	askCmd.Flags().BoolP("json", "j", false, "Write the reply and the document as JSON")
	askCmd.Flags().Bool("plain", false, "Write the reply formatted for the terminal")
	askCmd.MarkFlagsMutuallyExclusive("html", "json", "plain")

	askCmd.Flags().StringP("output", "o", "", "Write to a file instead of stdout")
	askCmd.Flags().BoolP("linger", "l", false, "Keep serving the preview until interrupted")

	askCmd.AddCommand(askSchemaCmd)
}

// askCmd sends one prompt and shows the reply.
var askCmd = &cobra.Command{
	Use:   "ask [prompt]",
	Short: "Ask a single question without the TUI",
	Long: `Ask a single question without the TUI.
The prompt is taken from the arguments, from stdin when it is not a terminal, or asked for interactively.
Without a format flag the reply is shown on the browser preview.`,
	Example: `  bavarder ask "What is the airspeed velocity of an unladen swallow?"
  echo "Summarize RFC 2324" | bavarder ask --plain
  bavarder ask -r openai --json "hello" > reply.json`,
	Run: func(cmd *cobra.Command, args []string) {
		prompt, err := readPrompt(args)
		handleErr(err)

		provider, err := pickResponder(cmd)
		handleErr(err)

		r, err := provider.New()
		handleErr(err)

		if closer, ok := r.(interface{ Close() }); ok {
			defer closer.Close()
		}

		format := inline.FormatPreview
		switch {
		case lo.Must(cmd.Flags().GetBool("html")):
			format = inline.FormatHTML
		case lo.Must(cmd.Flags().GetBool("json")):
			format = inline.FormatJSON
		case lo.Must(cmd.Flags().GetBool("plain")):
			format = inline.FormatPlain
		case !viper.GetBool(key.PreviewEnable):
			format = inline.FormatPlain
		}

		var out io.Writer = os.Stdout
		if output := lo.Must(cmd.Flags().GetString("output")); output != "" {
			file, err := filesystem.API().Create(output)
			handleErr(err)
			defer util.Ignore(file.Close)
			out = file
		}

		if err := query.Remember(prompt, 1); err != nil {
			log.Warn(err)
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		width, _, err := util.TerminalSize()
		if err != nil {
			width = 80
		}

		options := &inline.Options{
			Out:       out,
			Prompt:    prompt,
			Responder: r,
			Format:    format,
			Renderer:  render.Configured(),
			Surface: func(onLoadEvent func(coordinator.LoadEvent)) coordinator.SurfaceFactory {
				return preview.Factory(preview.ConfiguredOptions(onLoadEvent))
			},
			BaseURI: viper.GetString(key.RenderBaseURI),
			Linger:  lo.Must(cmd.Flags().GetBool("linger")),
			Style:   viper.GetString(key.TUIStyle),
			Width:   width,
		}

		handleErr(inline.Run(ctx, options))
	},
}

func readPrompt(args []string) (string, error) {
	prompt := strings.TrimSpace(strings.Join(args, " "))
	if prompt != "" {
		return prompt, nil
	}

	if !term.IsTerminal(int(os.Stdin.Fd())) {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", err
		}

		prompt = strings.TrimSpace(string(data))
		if prompt == "" {
			return "", errors.New("empty prompt on stdin")
		}
		return prompt, nil
	}

	input := survey.Input{
		Message: "Prompt:",
		Suggest: query.SuggestMany,
	}
	err := survey.AskOne(&input, &prompt, survey.WithValidator(survey.Required))
	return strings.TrimSpace(prompt), err
}

func pickResponder(cmd *cobra.Command) (*responder.Provider, error) {
	if name := lo.Must(cmd.Flags().GetString("responder")); name != "" {
		return responder.Get(name)
	}

	if !lo.Must(cmd.Flags().GetBool("pick")) {
		return responder.Default(), nil
	}

	names := lo.Map(responder.Enabled(), func(p *responder.Provider, _ int) string {
		return p.Name
	})

	selection := survey.Select{
		Message: "Responder:",
		Options: names,
		Default: responder.Default().Name,
	}

	var name string
	if err := survey.AskOne(&selection, &name); err != nil {
		return nil, err
	}

	return responder.Get(name)
}

// askSchemaCmd prints the JSON schema of ask --json.
var askSchemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the JSON schema of the ask --json output",
	Run: func(cmd *cobra.Command, args []string) {
		reflector := new(jsonschema.Reflector)
		reflector.Anonymous = true
		reflector.Namer = func(t reflect.Type) string {
			return "inline." + t.Name()
		}

		schema := reflector.Reflect(&inline.Output{})
		handleErr(json.NewEncoder(cmd.OutOrStdout()).Encode(schema))
	},
}
