package theme

import "github.com/charmbracelet/lipgloss"

// Palette is the raw color set a theme is built from. User theme files
// describe palettes; styles are derived in FromPalette.
type Palette struct {
	Background lipgloss.Color `json:"background" toml:"background"`
	Surface    lipgloss.Color `json:"surface"    toml:"surface"`
	Foreground lipgloss.Color `json:"foreground" toml:"foreground"`
	Muted      lipgloss.Color `json:"muted"      toml:"muted"`
	Primary    lipgloss.Color `json:"primary"    toml:"primary"`
	Secondary  lipgloss.Color `json:"secondary"  toml:"secondary"`
	Accent     lipgloss.Color `json:"accent"     toml:"accent"`
	Error      lipgloss.Color `json:"error"      toml:"error"`
	Success    lipgloss.Color `json:"success"    toml:"success"`
	Warning    lipgloss.Color `json:"warning"    toml:"warning"`
}

// Theme carries every style the UI renders with. It is threaded through
// draw calls explicitly; there is no process-global theme.
type Theme struct {
	Background lipgloss.Color

	TabBar      lipgloss.Style
	TabActive   lipgloss.Style
	TabInactive lipgloss.Style

	ViewTitle  lipgloss.Style
	Border     lipgloss.Style
	FieldLabel lipgloss.Style
	FieldValue lipgloss.Style
	Muted      lipgloss.Style
	Badge      lipgloss.Style

	StatusBar     lipgloss.Style
	HelpText      lipgloss.Style
	ErrorText     lipgloss.Style
	SuccessText   lipgloss.Style
	ErrorOverlay  lipgloss.Style
	DialogBox     lipgloss.Style
	DialogButton  lipgloss.Style
	DialogFocused lipgloss.Style

	ListSelected lipgloss.Style
	ListNormal   lipgloss.Style

	InputLabel   lipgloss.Style
	InputFocused lipgloss.Style
}

// FromPalette derives the full style set from a palette.
func FromPalette(p Palette) Theme {
	border := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.Muted)

	return Theme{
		Background: p.Background,

		TabBar: lipgloss.NewStyle().Foreground(p.Muted),
		TabActive: lipgloss.NewStyle().
			Foreground(p.Primary).
			Bold(true).
			Padding(0, 2).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(p.Primary),
		TabInactive: lipgloss.NewStyle().
			Foreground(p.Muted).
			Padding(0, 2).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(p.Muted),

		ViewTitle:  lipgloss.NewStyle().Foreground(p.Primary).Bold(true),
		Border:     border,
		FieldLabel: lipgloss.NewStyle().Foreground(p.Secondary).Bold(true),
		FieldValue: lipgloss.NewStyle().Foreground(p.Foreground),
		Muted:      lipgloss.NewStyle().Foreground(p.Muted),
		Badge: lipgloss.NewStyle().
			Foreground(p.Background).
			Background(p.Accent).
			Padding(0, 1),

		StatusBar:   lipgloss.NewStyle().Foreground(p.Muted),
		HelpText:    lipgloss.NewStyle().Foreground(p.Muted),
		ErrorText:   lipgloss.NewStyle().Foreground(p.Error).Bold(true),
		SuccessText: lipgloss.NewStyle().Foreground(p.Success),
		ErrorOverlay: lipgloss.NewStyle().
			Border(lipgloss.ThickBorder()).
			BorderForeground(p.Error).
			Foreground(p.Foreground).
			Background(p.Surface).
			Padding(1, 2),
		DialogBox: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.Warning).
			Padding(1, 2),
		DialogButton: lipgloss.NewStyle().
			Foreground(p.Muted).
			Padding(0, 3),
		DialogFocused: lipgloss.NewStyle().
			Foreground(p.Background).
			Background(p.Primary).
			Bold(true).
			Padding(0, 3),

		ListSelected: lipgloss.NewStyle().Foreground(p.Primary).Bold(true),
		ListNormal:   lipgloss.NewStyle().Foreground(p.Foreground),

		InputLabel:   lipgloss.NewStyle().Foreground(p.Secondary),
		InputFocused: lipgloss.NewStyle().Foreground(p.Accent).Bold(true),
	}
}

// Catppuccin flavours the original shipped with, plus a plain terminal theme.
func builtinPalettes() map[string]Palette {
	return map[string]Palette{
		"mocha": {
			Background: "#1e1e2e", Surface: "#313244", Foreground: "#cdd6f4",
			Muted: "#6c7086", Primary: "#cba6f7", Secondary: "#89b4fa",
			Accent: "#f5c2e7", Error: "#f38ba8", Success: "#a6e3a1", Warning: "#f9e2af",
		},
		"macchiato": {
			Background: "#24273a", Surface: "#363a4f", Foreground: "#cad3f5",
			Muted: "#6e738d", Primary: "#c6a0f6", Secondary: "#8aadf4",
			Accent: "#f5bde6", Error: "#ed8796", Success: "#a6da95", Warning: "#eed49f",
		},
		"frappe": {
			Background: "#303446", Surface: "#414559", Foreground: "#c6d0f5",
			Muted: "#737994", Primary: "#ca9ee6", Secondary: "#8caaee",
			Accent: "#f4b8e4", Error: "#e78284", Success: "#a6d189", Warning: "#e5c890",
		},
		"latte": {
			Background: "#eff1f5", Surface: "#ccd0da", Foreground: "#4c4f69",
			Muted: "#9ca0b0", Primary: "#8839ef", Secondary: "#1e66f5",
			Accent: "#ea76cb", Error: "#d20f39", Success: "#40a02b", Warning: "#df8e1d",
		},
	}
}

// DefaultKey is the theme applied when settings name an unknown theme.
const DefaultKey = "mocha"
