package icon

// Icon identifies a symbol in the registry.
type Icon int

const (
	Lua Icon = iota
	Go
	Success
	Fail
	Warn
	Progress
	Mark
	Link
	Search
	Question
	Copy
	Send
	Preview
	Theme
)

var icons = map[Icon]*iconDef{
	Lua: {
		emoji:   "🌙",
		nerd:    "",
		plain:   "Lua",
		kaomoji: "(◕‿◕)",
		squares: "◩",
	},
	Go: {
		emoji:   "🐹",
		nerd:    "",
		plain:   "Go",
		kaomoji: "ʕ•ᴥ•ʔ",
		squares: "◪",
	},
	Success: {
		emoji:   "🎉",
		nerd:    "",
		plain:   "Success",
		kaomoji: "(ᵔ◡ᵔ)",
		squares: "▣",
	},
	Fail: {
		emoji:   "💩",
		nerd:    "",
		plain:   "Fail",
		kaomoji: "(╯°□°)╯︵ ┻━┻",
		squares: "▨",
	},
	Warn: {
		emoji:   "⚠️",
		nerd:    "",
		plain:   "Warn",
		kaomoji: "(・_・ヾ",
		squares: "◬",
	},
	Progress: {
		emoji:   "⏳",
		nerd:    "",
		plain:   "...",
		kaomoji: "(¬‿¬)",
		squares: "◫",
	},
	Mark: {
		emoji:   "✅",
		nerd:    "",
		plain:   "*",
		kaomoji: "(* ^ ω ^)",
		squares: "■",
	},
	Link: {
		emoji:   "🔗",
		nerd:    "",
		plain:   "Link",
		kaomoji: "(ʘ‿ʘ)",
		squares: "⬚",
	},
	Search: {
		emoji:   "🔍",
		nerd:    "",
		plain:   "?",
		kaomoji: "(⊙_⊙)",
		squares: "◲",
	},
	Question: {
		emoji:   "❓",
		nerd:    "",
		plain:   "?",
		kaomoji: "(・・?)",
		squares: "◇",
	},
	Copy: {
		emoji:   "📋",
		nerd:    "",
		plain:   "Copy",
		kaomoji: "(っ˘ڡ˘ς)",
		squares: "◰",
	},
	Send: {
		emoji:   "📨",
		nerd:    "",
		plain:   ">",
		kaomoji: "(ﾉ◕ヮ◕)ﾉ",
		squares: "▶",
	},
	Preview: {
		emoji:   "🖥️",
		nerd:    "",
		plain:   "Preview",
		kaomoji: "(°ロ°)",
		squares: "▢",
	},
	Theme: {
		emoji:   "🎨",
		nerd:    "",
		plain:   "Theme",
		kaomoji: "(✿◠‿◠)",
		squares: "◧",
	},
}
