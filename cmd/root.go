// Package cmd implements the command-line interface for bavarder.
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/bavarder-cli/bavarder/color"
	"github.com/bavarder-cli/bavarder/constant"
	"github.com/bavarder-cli/bavarder/icon"
	"github.com/bavarder-cli/bavarder/key"
	"github.com/bavarder-cli/bavarder/log"
	"github.com/bavarder-cli/bavarder/responder"
	"github.com/bavarder-cli/bavarder/style"
	"github.com/bavarder-cli/bavarder/tui"
	"github.com/bavarder-cli/bavarder/util"
	"github.com/bavarder-cli/bavarder/version"
	"github.com/bavarder-cli/bavarder/where"
	cc "github.com/ivanpirog/coloredcobra"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func completionResponders(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	return responder.Names(), cobra.ShellCompDirectiveNoFileComp
}

func init() {
	rootCmd.Flags().BoolP("version", "v", false, "Print the application version")

	rootCmd.PersistentFlags().StringP("icons", "I", "", "Set the visual icon variant (e.g., nerd, emoji, squares)")
	lo.Must0(rootCmd.RegisterFlagCompletionFunc("icons", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return icon.AvailableVariants(), cobra.ShellCompDirectiveDefault
	}))
	lo.Must0(viper.BindPFlag(key.IconsVariant, rootCmd.PersistentFlags().Lookup("icons")))

	rootCmd.PersistentFlags().Bool("no-preview", false, "Do not show replies on the browser preview")

	rootCmd.Flags().StringP("responder", "r", "", "Responder to start with instead of the default one")
	lo.Must0(rootCmd.RegisterFlagCompletionFunc("responder", completionResponders))

	rootCmd.Flags().StringP("prompt", "p", "", "Pre-fill the prompt")

	helpFunc := rootCmd.HelpFunc()
	rootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		helpFunc(cmd, args)
		version.Notify()
	})

	// Leftovers of a previous run.
	go func() {
		_ = util.Delete(where.Temp())
	}()
}

// rootCmd starts the chat TUI.
var rootCmd = &cobra.Command{
	Use:   constant.Bavarder,
	Short: "Chit-chat with an AI from the terminal",
	Long: constant.AsciiArtLogo + "\n" +
		style.New().Italic(true).Foreground(color.HiRed).Render("    - Chit-chat with an AI, replies rendered as themed HTML"),
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if lo.Must(cmd.Flags().GetBool("no-preview")) {
			viper.Set(key.PreviewEnable, false)
		}
	},
	Run: func(cmd *cobra.Command, args []string) {
		if cmd.Flags().Changed("version") {
			versionCmd.Run(versionCmd, args)
			return
		}

		options := tui.Options{
			Responder: lo.Must(cmd.Flags().GetString("responder")),
			Prompt:    lo.Must(cmd.Flags().GetString("prompt")),
		}
		handleErr(tui.Run(&options))
	},
}

// Execute initializes child command routing and processes the CLI entry point.
func Execute() {
	if viper.GetBool(key.CliColored) {
		cc.Init(&cc.Config{
			RootCmd:       rootCmd,
			Headings:      cc.HiCyan + cc.Bold + cc.Underline,
			Commands:      cc.HiYellow + cc.Bold,
			Example:       cc.Italic,
			ExecName:      cc.Bold,
			Flags:         cc.Bold,
			FlagsDataType: cc.Italic + cc.HiBlue,
		})
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func handleErr(err error) {
	if err != nil {
		log.Error(err)
		_, _ = fmt.Fprintf(os.Stderr, "%s %s\n", icon.Get(icon.Fail), strings.Trim(err.Error(), " \n"))
		os.Exit(1)
	}
}
