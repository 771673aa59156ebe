package theme

// Custom property names understood by the document template.
const (
	TextColor             = "--text-color"
	BackgroundColor       = "--background-color"
	AltBackgroundColor    = "--alt-background-color"
	LinkColor             = "--link-color"
	BlockquoteTextColor   = "--blockquote-text-color"
	BlockquoteBorderColor = "--blockquote-border-color"
	HeaderBorderColor     = "--header-border-color"
	HrBackgroundColor     = "--hr-background-color"
	TableTrBorderColor    = "--table-tr-border-color"
	TableTdBorderColor    = "--table-td-border-color"
	KbdTextColor          = "--kbd-text-color"
	KbdBackgroundColor    = "--kbd-background-color"
	KbdBorderColor        = "--kbd-border-color"
	KbdShadowColor        = "--kbd-shadow-color"
)

type sourced struct {
	property string
	variable string
}

// required maps each sourced property to the stylesheet variable it is read from.
// Only five variables are consulted; several properties share one.
var required = []sourced{
	{TextColor, "view_fg_color"},
	{BackgroundColor, "view_bg_color"},
	{AltBackgroundColor, "view_bg_color"},
	{LinkColor, "accent_fg_color"},
	{BlockquoteTextColor, "card_fg_color"},
	{BlockquoteBorderColor, "card_bg_color"},
	{KbdTextColor, "view_fg_color"},
}

// structural properties are never taken from the stylesheet.
var structural = []Property{
	{HeaderBorderColor, "#e1e2e4"},
	{HrBackgroundColor, "#d8dadd"},
	{TableTrBorderColor, "#bdc1c6"},
	{TableTdBorderColor, "#d6d8da"},
}

var adwaitaLight = []Property{
	{TextColor, "#2e3436"},
	{BackgroundColor, "#f6f5f4"},
	{AltBackgroundColor, "#edeeef"},
	{LinkColor, "#0d71de"},
	{BlockquoteTextColor, "#747e85"},
	{BlockquoteBorderColor, "#d6d8da"},
	{HeaderBorderColor, "#e1e2e4"},
	{HrBackgroundColor, "#d8dadd"},
	{TableTrBorderColor, "#bdc1c6"},
	{TableTdBorderColor, "#d6d8da"},
	{KbdTextColor, "#4e585e"},
	{KbdBackgroundColor, "#f1f1f1"},
	{KbdBorderColor, "#bdc1c6"},
	{KbdShadowColor, "#8c939a"},
}

var adwaitaDark = []Property{
	{TextColor, "#eeeeec"},
	{BackgroundColor, "#353535"},
	{AltBackgroundColor, "#3a3a3a"},
	{LinkColor, "#b5daff"},
	{BlockquoteTextColor, "#a8a8a6"},
	{BlockquoteBorderColor, "#525252"},
	{HeaderBorderColor, "#474747"},
	{HrBackgroundColor, "#505050"},
	{TableTrBorderColor, "#696969"},
	{TableTdBorderColor, "#525252"},
	{KbdTextColor, "#cececc"},
	{KbdBackgroundColor, "#3c3c3c"},
	{KbdBorderColor, "#696969"},
	{KbdShadowColor, "#979797"},
}

// Adwaita returns the built-in theme. Each call returns fresh slices.
func Adwaita() Bindings {
	return Bindings{
		Origin:     Fallback,
		Properties: append([]Property(nil), adwaitaLight...),
		Dark:       append([]Property(nil), adwaitaDark...),
	}
}
