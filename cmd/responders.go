package cmd

import (
	"context"
	"fmt"
	"os"
	"os/user"
	"time"

	"github.com/bavarder-cli/bavarder/auth"
	"github.com/bavarder-cli/bavarder/color"
	"github.com/bavarder-cli/bavarder/config"
	"github.com/bavarder-cli/bavarder/icon"
	"github.com/bavarder-cli/bavarder/key"
	"github.com/bavarder-cli/bavarder/responder"
	"github.com/bavarder-cli/bavarder/style"
	"github.com/bavarder-cli/bavarder/util"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func completionCustomResponders(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	customs, err := responder.CustomProviders()
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}

	return lo.Map(customs, func(p *responder.Provider, _ int) string {
		return p.Name
	}), cobra.ShellCompDirectiveNoFileComp
}

func init() {
	rootCmd.AddCommand(respondersCmd)
}

// respondersCmd provides a parent command for managing responders.
var respondersCmd = &cobra.Command{
	Use:     "responders",
	Aliases: []string{"responder"},
	Short:   "Manage built-in and custom responders",
}

func init() {
	respondersCmd.AddCommand(respondersListCmd)

	respondersListCmd.Flags().BoolP("raw", "r", false, "Suppress headers and markers in the output")
	respondersListCmd.Flags().BoolP("custom", "c", false, "Display only custom Lua responders")
	respondersListCmd.Flags().BoolP("builtin", "b", false, "Display only built-in responders")

	respondersListCmd.MarkFlagsMutuallyExclusive("custom", "builtin")
	respondersListCmd.SetOut(os.Stdout)
}

// respondersListCmd displays every responder.
var respondersListCmd = &cobra.Command{
	Use:   "list",
	Short: "Display all available responders",
	Run: func(cmd *cobra.Command, args []string) {
		raw := lo.Must(cmd.Flags().GetBool("raw"))
		headerStyle := style.New().Foreground(color.HiBlue).Bold(true).Render
		h := func(s string) {
			if !raw {
				cmd.Println(headerStyle(s))
			}
		}

		var (
			defaultName = responder.Default().Name
			enabled     = lo.Map(responder.Enabled(), func(p *responder.Provider, _ int) string { return p.Name })
		)

		line := func(p *responder.Provider) string {
			if raw {
				return p.Name
			}

			s := p.Name
			if p.Name == defaultName {
				s += " " + style.Fg(color.Green)(icon.Get(icon.Mark))
			}

			var notes []string
			if !lo.Contains(enabled, p.Name) {
				notes = append(notes, "disabled")
			}
			if p.NeedsToken && !auth.HasToken(p.Name) {
				notes = append(notes, "no token")
			}

			s += " " + style.Faint(p.Description)
			for _, note := range notes {
				s += " " + style.Fg(color.Yellow)("("+note+")")
			}

			return s
		}

		printBuiltin := func() {
			h("Builtin:")
			for _, p := range responder.Builtins() {
				cmd.Println(line(p))
			}
		}

		printCustom := func() {
			h("Custom:")
			customs, err := responder.CustomProviders()
			handleErr(err)
			for _, p := range customs {
				cmd.Println(line(p))
			}
		}

		switch {
		case lo.Must(cmd.Flags().GetBool("builtin")):
			printBuiltin()
		case lo.Must(cmd.Flags().GetBool("custom")):
			printCustom()
		default:
			printBuiltin()
			if !raw {
				cmd.Println()
			}
			printCustom()
		}
	},
}

func init() {
	respondersCmd.AddCommand(respondersRemoveCmd)

	respondersRemoveCmd.Flags().StringArrayP("name", "n", []string{}, "Name of the custom responder(s) to remove")
	lo.Must0(respondersRemoveCmd.RegisterFlagCompletionFunc("name", completionCustomResponders))
}

// respondersRemoveCmd deletes custom Lua responders.
var respondersRemoveCmd = &cobra.Command{
	Use:               "remove [name...]",
	Short:             "Remove custom Lua responders",
	ValidArgsFunction: completionCustomResponders,
	Run: func(cmd *cobra.Command, args []string) {
		names := append(args, lo.Must(cmd.Flags().GetStringArray("name"))...)
		if len(names) == 0 {
			handleErr(cmd.Help())
			return
		}

		for _, name := range names {
			handleErr(responder.Remove(name))
			fmt.Printf("%s successfully removed %s\n", icon.Get(icon.Success), style.Fg(color.Yellow)(name))
		}
	},
}

func init() {
	respondersCmd.AddCommand(respondersInstallCmd)
	respondersInstallCmd.Flags().BoolP("enable", "e", true, "Add the responder to responders.enabled")
}

// respondersInstallCmd downloads a Lua responder.
var respondersInstallCmd = &cobra.Command{
	Use:   "install <url>",
	Short: "Download a Lua responder script",
	Long:  "Download a Lua responder script. Installing the same URL again updates the script when it changed.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()

		target, updated, err := responder.Install(ctx, args[0])
		handleErr(err)

		if !updated {
			fmt.Printf("%s %s is up to date\n", icon.Get(icon.Success), target)
			return
		}

		fmt.Printf("%s installed %s\n", icon.Get(icon.Success), style.Fg(color.Yellow)(target))

		if lo.Must(cmd.Flags().GetBool("enable")) {
			name := util.FileStem(target)
			enabled := viper.GetStringSlice(key.RespondersEnabled)
			if !lo.Contains(enabled, name) {
				handleErr(config.Persist(key.RespondersEnabled, append(enabled, name)))
			}
		}
	},
}

func init() {
	respondersCmd.AddCommand(respondersGenCmd)

	respondersGenCmd.Flags().StringP("name", "n", "", "Name of the new responder")
	respondersGenCmd.Flags().StringP("url", "u", "", "Endpoint the responder talks to")

	lo.Must0(respondersGenCmd.MarkFlagRequired("name"))
	lo.Must0(respondersGenCmd.MarkFlagRequired("url"))
}

// respondersGenCmd scaffolds a Lua responder script.
var respondersGenCmd = &cobra.Command{
	Use:   "gen",
	Short: "Generate a new Lua responder from a template",
	Long:  `Generate a Lua responder script defining the Ask function, ready to be edited.`,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.SetOut(os.Stdout)

		author := "Anonymous"
		if usr, err := user.Current(); err == nil {
			author = usr.Username
		}

		target, err := responder.Generate(responder.Scaffold{
			Name:   lo.Must(cmd.Flags().GetString("name")),
			URL:    lo.Must(cmd.Flags().GetString("url")),
			Author: author,
		})
		handleErr(err)

		cmd.Println(target)
	},
}
