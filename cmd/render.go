package cmd

import (
	"io"
	"os"

	"github.com/bavarder-cli/bavarder/filesystem"
	"github.com/bavarder-cli/bavarder/key"
	"github.com/bavarder-cli/bavarder/render"
	"github.com/bavarder-cli/bavarder/util"
	"github.com/bavarder-cli/bavarder/where"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.AddCommand(renderCmd)

	renderCmd.Flags().StringP("output", "o", "", "Write to a file instead of stdout")
	renderCmd.Flags().StringP("theme", "t", "", "Stylesheet to theme the document from")
	renderCmd.Flags().Bool("fallback-theme", false, "Use the built-in theme")
	renderCmd.Flags().BoolP("fragment", "f", false, "Write only the converted markup, without the document around it")
	renderCmd.Flags().BoolP("sanitize", "s", false, "Drop scripts and unsafe attributes")
	renderCmd.MarkFlagsMutuallyExclusive("theme", "fallback-theme")

	lo.Must0(viper.BindPFlag(key.RenderSanitize, renderCmd.Flags().Lookup("sanitize")))
}

// renderCmd converts markdown to a themed HTML document.
var renderCmd = &cobra.Command{
	Use:   "render [file]",
	Short: "Render markdown to a themed HTML document",
	Long:  "Render a markdown file, or stdin when no file (or -) is given, to the same HTML document the preview shows.",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		var (
			input []byte
			err   error
		)

		if len(args) == 0 || args[0] == "-" {
			input, err = io.ReadAll(os.Stdin)
		} else {
			input, err = filesystem.API().ReadFile(args[0])
		}
		handleErr(err)

		options := render.Options{Sanitize: viper.GetBool(key.RenderSanitize)}
		switch {
		case lo.Must(cmd.Flags().GetBool("fallback-theme")):
		case cmd.Flags().Changed("theme"):
			options.ThemeSource = lo.Must(cmd.Flags().GetString("theme"))
		case viper.GetBool(key.ThemeUseHost):
			options.ThemeSource = where.ThemeSource()
		}

		renderer := render.New(options)

		var out io.Writer = cmd.OutOrStdout()
		if output := lo.Must(cmd.Flags().GetString("output")); output != "" {
			file, err := filesystem.API().Create(output)
			handleErr(err)
			defer util.Ignore(file.Close)
			out = file
		}

		if lo.Must(cmd.Flags().GetBool("fragment")) {
			fragment, err := renderer.Fragment(string(input))
			handleErr(err)
			_, err = io.WriteString(out, fragment)
			handleErr(err)
			return
		}

		_, err = io.WriteString(out, renderer.Render(string(input)).String())
		handleErr(err)
	},
}
