package styles

import "github.com/charmbracelet/lipgloss"

// Panel returns the bordered style for a screen section. A focused panel
// (the open prompt) uses the accent border.
func Panel(focused bool) lipgloss.Style {
	border := T().Border
	if focused {
		border = T().BorderFocus
	}
	return lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Padding(0, 1)
}

// PanelWidth returns the content width of a panel rendered at outer width.
func PanelWidth(outer int) int {
	// border (2) + padding (2)
	return max(outer-4, 0)
}
