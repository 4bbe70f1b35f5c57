package ui

import "github.com/charmbracelet/lipgloss"

// --- Theme Colors ---

var (
	ColorPrimary    = lipgloss.Color("#2f8f7a") // campus green
	ColorSecondary  = lipgloss.Color("#c9a227") // gold
	ColorAccent     = lipgloss.Color("#b5654a") // brick
	ColorBackground = lipgloss.Color("#14181c") // dark
	ColorText       = lipgloss.Color("#dfe3e6") // main text
	ColorMuted      = lipgloss.Color("#8f9aa5") // muted text
	ColorError      = lipgloss.Color("#b3474f") // red
	ColorWarning    = lipgloss.Color("#d19a45") // warning
	ColorBorder     = lipgloss.Color("#2a3640") // border
)

// --- Reusable Styles ---

var (
	TabActiveStyle = lipgloss.NewStyle().
			Foreground(ColorBackground).
			Background(ColorPrimary).
			Bold(true).
			Padding(0, 1)

	TabInactiveStyle = lipgloss.NewStyle().
				Foreground(ColorMuted).
				Padding(0, 1)

	SelectedStyle = lipgloss.NewStyle().
			Foreground(ColorPrimary).
			Bold(true)

	NormalStyle = lipgloss.NewStyle().
			Foreground(ColorText)

	MutedStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorError).
			Bold(true)

	WarningStyle = lipgloss.NewStyle().
			Foreground(ColorWarning)

	AccentStyle = lipgloss.NewStyle().
			Foreground(ColorAccent)

	FieldLabelStyle = lipgloss.NewStyle().
			Foreground(ColorSecondary).
			Bold(true)
)
