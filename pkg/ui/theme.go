package ui

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme holds the adaptive colors and pre-built styles used by the tree
// view. Styles are created once at startup instead of per-frame.
type Theme struct {
	Renderer *lipgloss.Renderer

	// Colors
	Primary   lipgloss.AdaptiveColor
	Secondary lipgloss.AdaptiveColor
	Subtext   lipgloss.AdaptiveColor

	// Selection states
	SelectedColor lipgloss.AdaptiveColor
	PartialColor  lipgloss.AdaptiveColor

	// UI Elements
	Border    lipgloss.AdaptiveColor
	Highlight lipgloss.AdaptiveColor
	Muted     lipgloss.AdaptiveColor

	// Styles
	Base      lipgloss.Style
	Selected  lipgloss.Style // cursor row highlight
	Branch    lipgloss.Style // tree prefix characters
	Indicator lipgloss.Style // expand/collapse glyph
	Checkbox  lipgloss.Style
	Status    lipgloss.Style
	Error     lipgloss.Style
	Help      lipgloss.Style
}

// DefaultTheme returns the standard Dracula-inspired theme (adaptive)
func DefaultTheme(r *lipgloss.Renderer) Theme {
	t := Theme{
		Renderer: r,

		Primary:   lipgloss.AdaptiveColor{Light: "#6B47D9", Dark: "#BD93F9"}, // Purple
		Secondary: lipgloss.AdaptiveColor{Light: "#555555", Dark: "#6272A4"}, // Gray
		Subtext:   lipgloss.AdaptiveColor{Light: "#666666", Dark: "#BFBFBF"}, // Dim

		SelectedColor: lipgloss.AdaptiveColor{Light: "#007700", Dark: "#50FA7B"}, // Green
		PartialColor:  lipgloss.AdaptiveColor{Light: "#B06800", Dark: "#FFB86C"}, // Orange

		Border:    lipgloss.AdaptiveColor{Light: "#AAAAAA", Dark: "#44475A"},
		Highlight: lipgloss.AdaptiveColor{Light: "#E0E0E0", Dark: "#44475A"},
		Muted:     lipgloss.AdaptiveColor{Light: "#555555", Dark: "#6272A4"},
	}

	t.Base = r.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#000000", Dark: "#F8F8F2"})
	t.Selected = r.NewStyle().Background(t.Highlight).Bold(true)
	t.Branch = r.NewStyle().Foreground(t.Muted)
	t.Indicator = r.NewStyle().Foreground(t.Secondary)
	t.Checkbox = r.NewStyle().Foreground(t.Primary)
	t.Status = r.NewStyle().Foreground(t.Subtext)
	t.Error = r.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#CC0000", Dark: "#FF5555"}).Bold(true)
	t.Help = r.NewStyle().Foreground(t.Muted)

	return t
}
