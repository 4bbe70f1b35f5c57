package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var dialogStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(lipgloss.Color("#2a3640")).
	Padding(1, 2).
	Width(40)

// ConfirmDialog renders a yes/no confirmation.
func ConfirmDialog(title, message string) string {
	header := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#2f8f7a")).
		Bold(true).
		Render(title)

	body := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#8f9aa5")).
		Render(message)

	hint := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#8f9aa5")).
		Render("\ny: confirm | n: cancel")

	return dialogStyle.Render(header + "\n\n" + body + hint)
}

// ConfirmPreviewDialog renders a confirmation prompt above the rows of the
// record it affects.
func ConfirmPreviewDialog(title, prompt string, summary []TableRow, width int) string {
	sections := make([]string, 0, 3)
	sections = append(sections, lipgloss.NewStyle().
		Foreground(lipgloss.Color("#dfe3e6")).
		Bold(true).
		Render(SanitizeOneLine(prompt)))
	if len(summary) > 0 {
		sections = append(sections, Table("Record", summary, width))
	}
	hint := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#8f9aa5")).
		Render("y: confirm | n: cancel")
	sections = append(sections, hint)

	return TitledBox(title, strings.Join(sections, "\n\n"), width)
}
