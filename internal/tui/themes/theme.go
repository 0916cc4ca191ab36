// Package themes holds the color schemes for the chat interface.
package themes

import "github.com/charmbracelet/lipgloss"

// Theme defines the visual style for the TUI.
type Theme struct {
	Title       lipgloss.Style
	Subtitle    lipgloss.Style
	Normal      lipgloss.Style
	UserLabel   lipgloss.Style
	MentorLabel lipgloss.Style
	Degraded    lipgloss.Style
	Pending     lipgloss.Style
	RoundedBox  lipgloss.Style
	Primary     lipgloss.Color
}

func build(primary, secondary, fg, muted, border, success lipgloss.Color) Theme {
	return Theme{
		Primary: primary,

		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(primary),
		Subtitle: lipgloss.NewStyle().
			Foreground(muted),
		Normal: lipgloss.NewStyle().
			Foreground(fg),
		UserLabel: lipgloss.NewStyle().
			Bold(true).
			Foreground(secondary),
		MentorLabel: lipgloss.NewStyle().
			Bold(true).
			Foreground(success),
		Degraded: lipgloss.NewStyle().
			Italic(true).
			Foreground(muted),
		Pending: lipgloss.NewStyle().
			Italic(true).
			Foreground(muted),
		RoundedBox: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(border).
			Padding(0, 1),
	}
}

// Default is the default theme.
var Default = build(
	lipgloss.Color("#2ecc71"),
	lipgloss.Color("#3b82f6"),
	lipgloss.Color("#fafafa"),
	lipgloss.Color("#737373"),
	lipgloss.Color("#404040"),
	lipgloss.Color("#10b981"),
)

// CatppuccinMocha is the Catppuccin Mocha theme.
var CatppuccinMocha = build(
	lipgloss.Color("#a6e3a1"),
	lipgloss.Color("#89b4fa"),
	lipgloss.Color("#cdd6f4"),
	lipgloss.Color("#6c7086"),
	lipgloss.Color("#45475a"),
	lipgloss.Color("#94e2d5"),
)

// ByName returns the named theme, falling back to Default.
func ByName(name string) Theme {
	switch name {
	case "catppuccin", "catppuccin-mocha":
		return CatppuccinMocha
	default:
		return Default
	}
}
