package ui

import "github.com/charmbracelet/lipgloss"

// ComposeLayout joins the form and transmit panels horizontally, with the
// menu bar on top and status bar on bottom.
func ComposeLayout(menuBar, formPanel, sentencePanel, statusBar string) string {
	middle := lipgloss.JoinHorizontal(lipgloss.Top, formPanel, sentencePanel)
	return lipgloss.JoinVertical(lipgloss.Left, menuBar, middle, statusBar)
}
