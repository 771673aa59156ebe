package cmd

import (
	"encoding/json"
	"errors"
	"sort"

	"github.com/bavarder-cli/bavarder/color"
	"github.com/bavarder-cli/bavarder/icon"
	"github.com/bavarder-cli/bavarder/stylesheet"
	"github.com/bavarder-cli/bavarder/style"
	"github.com/bavarder-cli/bavarder/theme"
	"github.com/bavarder-cli/bavarder/where"
	"github.com/muesli/reflow/indent"
	"github.com/muesli/reflow/wordwrap"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(themeCmd)

	themeCmd.Flags().StringP("source", "s", "", "Stylesheet to read instead of the configured one")
	themeCmd.Flags().BoolP("json", "j", false, "Format the output as JSON")
	themeCmd.Flags().BoolP("css", "c", false, "Print only the CSS injected into documents")
	themeCmd.MarkFlagsMutuallyExclusive("json", "css")
}

// themeReport is what themeCmd shows.
type themeReport struct {
	Source    string                       `json:"source"`
	Required  []string                     `json:"required"`
	Fallback  string                       `json:"fallback,omitempty"`
	Variables map[string]string            `json:"variables"`
	Palette   map[string]map[string]string `json:"palette"`
	Bindings  theme.Bindings               `json:"bindings"`
}

// themeCmd shows how the stylesheet is turned into document bindings.
var themeCmd = &cobra.Command{
	Use:   "theme",
	Short: "Show the theme extracted from the stylesheet",
	Run: func(cmd *cobra.Command, args []string) {
		source := lo.Must(cmd.Flags().GetString("source"))
		if source == "" {
			source = where.ThemeSource()
		}

		report := themeReport{
			Source:    source,
			Required:  theme.RequiredVariables(),
			Variables: map[string]string{},
			Palette:   map[string]map[string]string{},
		}

		result, err := stylesheet.ExtractFile(source)
		if err == nil {
			report.Variables = result.Variables
			report.Palette = result.Palette
			report.Bindings, err = theme.FromResult(result)
		}

		if err != nil {
			report.Fallback = err.Error()
			report.Bindings = theme.Adwaita()
		}

		switch {
		case lo.Must(cmd.Flags().GetBool("json")):
			encoder := json.NewEncoder(cmd.OutOrStdout())
			encoder.SetIndent("", "  ")
			handleErr(encoder.Encode(report))
		case lo.Must(cmd.Flags().GetBool("css")):
			cmd.Print(report.Bindings.CSS())
		default:
			printTheme(cmd, report, err)
		}
	},
}

func printTheme(cmd *cobra.Command, report themeReport, err error) {
	header := style.New().Foreground(color.HiBlue).Bold(true).Render
	name := style.Fg(color.Purple)

	cmd.Printf("%s %s\n", header("Source:"), report.Source)
	if err != nil {
		reason := wordwrap.String(report.Fallback, 72)
		if errors.Is(err, theme.ErrThemeSourceMissing) {
			cmd.Printf("%s %s\n", icon.Get(icon.Warn), style.Faint("not found, using the built-in theme"))
		} else {
			cmd.Printf("%s %s\n%s\n", icon.Get(icon.Warn), style.Faint("using the built-in theme:"), indent.String(reason, 2))
		}
	}

	cmd.Println()
	cmd.Println(header("Required:"))
	for _, v := range report.Required {
		mark := icon.Get(icon.Success)
		if _, ok := report.Variables[v]; !ok {
			mark = icon.Get(icon.Fail)
		}
		cmd.Printf("  %s %s\n", mark, name(v))
	}

	if len(report.Variables) > 0 {
		cmd.Println()
		cmd.Println(header("Variables:"))
		for _, k := range sortedKeys(report.Variables) {
			cmd.Printf("  %s %s\n", name(k), report.Variables[k])
		}
	}

	families := lo.Filter(sortedKeys(report.Palette), func(family string, _ int) bool {
		return len(report.Palette[family]) > 0
	})
	if len(families) > 0 {
		cmd.Println()
		cmd.Println(header("Palette:"))
		for _, family := range families {
			shades := report.Palette[family]
			cmd.Printf("  %s\n", style.Bold(family))
			for _, shade := range sortedKeys(shades) {
				cmd.Printf("    %s %s %s\n", style.Fg(color.New(shades[shade]))("██"), shade, style.Faint(shades[shade]))
			}
		}
	}

	cmd.Println()
	cmd.Printf("%s %s\n", header("Bindings:"), style.Faint(report.Bindings.Origin.String()))
	for _, p := range report.Bindings.Properties {
		cmd.Printf("  %s %s\n", name(p.Name), p.Value)
	}

	if len(report.Bindings.Dark) > 0 {
		cmd.Printf("  %s\n", style.Faint("dark:"))
		for _, p := range report.Bindings.Dark {
			cmd.Printf("  %s %s\n", name(p.Name), p.Value)
		}
	}

	if report.Bindings.Passthrough != "" {
		cmd.Println()
		cmd.Println(header("Passthrough:"))
		cmd.Println(indent.String(report.Bindings.Passthrough, 2))
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := lo.Keys(m)
	sort.Strings(keys)
	return keys
}
