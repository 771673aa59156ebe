package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/bavarder-cli/bavarder/auth"
	"github.com/bavarder-cli/bavarder/color"
	"github.com/bavarder-cli/bavarder/icon"
	"github.com/bavarder-cli/bavarder/key"
	"github.com/bavarder-cli/bavarder/open"
	"github.com/bavarder-cli/bavarder/responder"
	"github.com/bavarder-cli/bavarder/style"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"
)

// openAIKeysPage is where tokens for the default OpenAI endpoint are created.
const openAIKeysPage = "https://platform.openai.com/api-keys"

func init() {
	rootCmd.AddCommand(authCmd)
}

// authCmd manages the API tokens kept in the system keyring.
var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage responder API tokens stored in the system keyring",
}

func init() {
	authCmd.AddCommand(authSetCmd)
	authSetCmd.Flags().Bool("stdin", false, "Read the token from stdin")
}

// authSetCmd stores a token for a responder.
var authSetCmd = &cobra.Command{
	Use:               "set <responder>",
	Short:             "Store the API token of a responder",
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: completionResponders,
	Run: func(cmd *cobra.Command, args []string) {
		p, err := responder.Get(args[0])
		handleErr(err)

		var token string
		if lo.Must(cmd.Flags().GetBool("stdin")) || !term.IsTerminal(int(os.Stdin.Fd())) {
			data, err := io.ReadAll(os.Stdin)
			handleErr(err)
			token = string(data)
		} else {
			if p.Name == responder.OpenAIName && strings.Contains(viper.GetString(key.OpenAIEndpoint), "api.openai.com") {
				confirm := survey.Confirm{
					Message: "Open browser to create a token?",
					Default: false,
				}

				var openInBrowser bool
				err := survey.AskOne(&confirm, &openInBrowser)
				if err == nil && openInBrowser {
					err = open.Start(openAIKeysPage)
				}

				if err != nil || !openInBrowser {
					fmt.Println("Tokens can be created at:")
					fmt.Println(openAIKeysPage)
				}
			}

			input := survey.Password{
				Message: fmt.Sprintf("Token for %s:", p.Name),
			}
			handleErr(survey.AskOne(&input, &token))
		}

		token = strings.TrimSpace(token)
		if token == "" {
			handleErr(errors.New("empty token"))
		}

		handleErr(auth.SetToken(p.Name, token))
		fmt.Printf("%s token for %s saved\n", icon.Get(icon.Success), style.Fg(color.Yellow)(p.Name))
	},
}

func init() {
	authCmd.AddCommand(authDeleteCmd)
}

// authDeleteCmd removes a stored token.
var authDeleteCmd = &cobra.Command{
	Use:               "delete <responder>",
	Aliases:           []string{"remove"},
	Short:             "Remove the API token of a responder",
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: completionResponders,
	Run: func(cmd *cobra.Command, args []string) {
		handleErr(auth.DeleteToken(args[0]))
		fmt.Printf("%s token for %s removed\n", icon.Get(icon.Success), style.Fg(color.Yellow)(args[0]))
	},
}
