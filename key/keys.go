// Package key defines the canonical set of configuration identifiers used for centralized settings management.
package key

// Responder Selection - these keys control which responders are offered and which one answers.
const (
	RespondersDefault = "responders.default"
	RespondersEnabled = "responders.enabled"
	RespondersTimeout = "responders.timeout"
)

// OpenAI-compatible Responder - these keys configure the built-in chat completions client.
const (
	OpenAIEndpoint     = "openai.endpoint"
	OpenAIModel        = "openai.model"
	OpenAISystemPrompt = "openai.system_prompt"
)

// Prompt Handling - these keys govern what happens to the prompt around a query.
const (
	PromptClearAfterSend  = "prompt.clear_after_send"
	PromptSaveHistory     = "prompt.save_history"
	PromptShowSuggestions = "prompt.show_suggestions"
)

// Theming - these keys select the stylesheet the rendered document is themed from.
const (
	ThemeSource  = "theme.source"
	ThemeUseHost = "theme.use_host"
)

// Rendering - these keys tune the markdown to HTML conversion.
const (
	RenderSanitize = "render.sanitize"
	RenderBaseURI  = "render.base_uri"
)

// Preview Surface - these keys configure the live browser preview.
const (
	PreviewEnable              = "preview.enable"
	PreviewListen              = "preview.listen"
	PreviewOpenBrowser         = "preview.open_browser"
	PreviewInterceptLinks      = "preview.intercept_links"
	PreviewSuppressContextMenu = "preview.suppress_context_menu"
)

// Terminal User Interface (TUI) - these keys define the interactive environment's styling.
const (
	TUIPromptString = "tui.prompt"
	TUIStyle        = "tui.style"
)

// Iconography - these keys manage the visual rendering of UI symbols.
const (
	IconsVariant = "icons.variant"
)

// Logging Infrastructure - these keys manage the application's internal diagnostics.
const (
	LogsWrite = "logs.write"
	LogsLevel = "logs.level"
	LogsJson  = "logs.json"
)

// CLI Execution Environment - these settings govern the non-TUI application behavior.
const (
	CliColored      = "cli.colored"
	CliVersionCheck = "cli.version_check"
)
