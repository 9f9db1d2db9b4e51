package tui

import "github.com/charmbracelet/lipgloss"

// Theme groups the lipgloss styles used across every screen.
type Theme struct {
	Title    lipgloss.Style
	Subtitle lipgloss.Style

	Selected lipgloss.Style
	Normal   lipgloss.Style
	Disabled lipgloss.Style
	Badge    lipgloss.Style

	StatusBar lipgloss.Style
	Notice    lipgloss.Style
	Error     lipgloss.Style
	Help      lipgloss.Style

	Box lipgloss.Style
}

var DefaultTheme = Theme{
	Title:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")),
	Subtitle: lipgloss.NewStyle().Foreground(lipgloss.Color("245")),

	Selected: lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("14")),
	Normal:   lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
	Disabled: lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
	Badge:    lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Italic(true),

	StatusBar: lipgloss.NewStyle().Foreground(lipgloss.Color("250")).Background(lipgloss.Color("236")),
	Notice:    lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
	Error:     lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
	Help:      lipgloss.NewStyle().Foreground(lipgloss.Color("241")),

	Box: lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1),
}
