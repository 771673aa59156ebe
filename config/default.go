// Package config provides centralized management for application settings, defaults, and the Viper-based configuration engine.
package config

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"text/template"

	"github.com/bavarder-cli/bavarder/color"
	"github.com/bavarder-cli/bavarder/constant"
	"github.com/bavarder-cli/bavarder/key"
	"github.com/bavarder-cli/bavarder/style"
	"github.com/samber/lo"
	"github.com/spf13/viper"
)

// Field represents a configuration field definition.
type Field struct {
	Key         string
	Value       any
	Description string
}

// Pretty returns a colored string representation of the field for display.
func (f *Field) Pretty() string {
	var b strings.Builder
	lo.Must0(prettyTemplate.Execute(&b, f))
	return b.String()
}

// Env returns the environment variable name for this field.
func (f *Field) Env() string {
	env := strings.ToUpper(EnvKeyReplacer.Replace(f.Key))
	prefix := strings.ToUpper(constant.Bavarder + "_")
	if strings.HasPrefix(env, prefix) {
		return env
	}
	return prefix + env
}

// MarshalJSON customizes JSON output to include current and default values.
func (f *Field) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Key         string `json:"key"`
		Value       any    `json:"value"`
		Default     any    `json:"default"`
		Description string `json:"description"`
		Type        string `json:"type"`
	}{
		Key:         f.Key,
		Value:       viper.Get(f.Key),
		Default:     f.Value,
		Description: f.Description,
		Type:        f.typeName(),
	})
}

// typeName returns the string representation of the field's underlying value type.
func (f *Field) typeName() string {
	switch f.Value.(type) {
	case string:
		return "string"
	case int:
		return "int"
	case bool:
		return "bool"
	case []string:
		return "[]string"
	case []int:
		return "[]int"
	default:
		return "unknown"
	}
}

// Default holds the map of all configuration fields.
var Default = make(map[string]Field)

// EnvExposed holds keys that are bound to environment variables.
var EnvExposed []string

func init() {
	register := func(k string, v any, desc string) {
		if _, exists := Default[k]; exists {
			panic("Duplicate config key: " + k)
		}
		f := Field{Key: k, Value: v, Description: desc}
		Default[k] = f
		EnvExposed = append(EnvExposed, k)
	}

	register(key.RespondersDefault, "echo", "Responder selected on start.\nUpdated with the last used responder on quit.\nType \"bavarder responders list\" to show available responders")
	register(key.RespondersEnabled, []string{"echo"}, "Responders offered in the selector")
	register(key.RespondersTimeout, 120, "Seconds before a network responder gives up")
	register(key.OpenAIEndpoint, "https://api.openai.com/v1", "Base URL of an OpenAI-compatible API")
	register(key.OpenAIModel, "gpt-4o-mini", "Model used by the openai responder")
	register(key.OpenAISystemPrompt, "", "System message sent before every prompt.\nLeave empty to send none")
	register(key.PromptClearAfterSend, false, "Clear the prompt once a reply arrives")
	register(key.PromptSaveHistory, true, "Remember prompts for suggestions")
	register(key.PromptShowSuggestions, true, "Show prompt suggestions while typing")
	register(key.ThemeSource, "", "Stylesheet to extract the document theme from.\nEmpty means the GTK 4 user stylesheet (gtk-4.0/gtk.css)")
	register(key.ThemeUseHost, true, "Theme documents from the host stylesheet.\nWhen disabled the built-in light/dark theme is always used")
	register(key.RenderSanitize, false, "Sanitize rendered HTML, dropping scripts and unsafe attributes")
	register(key.RenderBaseURI, "file://localhost/", "Base URI documents are loaded with")
	register(key.PreviewEnable, true, "Show replies on the live browser preview")
	register(key.PreviewListen, "127.0.0.1:0", "Address the preview server listens on")
	register(key.PreviewOpenBrowser, true, "Open the preview in the default browser when it is first needed")
	register(key.PreviewInterceptLinks, true, "Open http, https and www links in the default browser instead of inside the preview")
	register(key.PreviewSuppressContextMenu, true, "Hide reload, back, forward and stop from the preview context menu")
	register(key.TUIPromptString, "> ", "Prompt string to use")
	register(key.TUIStyle, "dark", "Glamour style used for replies in the terminal.\nAvailable options are: dark, light, notty, ascii, dracula, tokyo-night, pink")
	register(key.IconsVariant, "plain", "Icons variant.\nAvailable options are: emoji, kaomoji, plain, squares, nerd (nerd-font required)")
	register(key.LogsWrite, false, "Write logs")
	register(key.LogsLevel, "info", "Available options are: (from less to most verbose)\npanic, fatal, error, warn, info, debug, trace")
	register(key.LogsJson, false, "Use json format for logs")
	register(key.CliColored, true, "Enable colored CLI output")
	register(key.CliVersionCheck, true, "Enable automatic version check")
}

var prettyTemplate = lo.Must(template.New("pretty").Funcs(template.FuncMap{
	"faint":    style.Faint,
	"bold":     style.Bold,
	"purple":   style.Fg(color.Purple),
	"blue":     style.Fg(color.Blue),
	"cyan":     style.Fg(color.Cyan),
	"value":    func(k string) any { return viper.Get(k) },
	"typename": func(v any) string { return reflect.TypeOf(v).String() },
	"hl": func(v any) string {
		switch value := v.(type) {
		case bool:
			b := strconv.FormatBool(value)
			if value {
				return style.Fg(color.Green)(b)
			}
			return style.Fg(color.Red)(b)
		case string:
			return style.Fg(color.Yellow)(value)
		default:
			return fmt.Sprint(value)
		}
	},
}).Parse(`{{ faint .Description }}
{{ blue "Key:" }}     {{ purple .Key }}
{{ blue "Env:" }}     {{ .Env }}
{{ blue "Value:" }}   {{ hl (value .Key) }}
{{ blue "Default:" }} {{ hl (.Value) }}
{{ blue "Type:" }}    {{ typename .Value }}`))
