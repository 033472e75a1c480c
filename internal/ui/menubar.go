package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"gpssim.weilijiang.com/internal/config"
)

// RenderMenuBar renders the top menu bar.
func RenderMenuBar(width int, port string, running bool) string {
	title := fmt.Sprintf(" %s v%s ", config.AppName, config.AppVersion)

	keys := []struct{ key, label string }{
		{"Enter", "Go"},
		{"Tab", "Next"},
		{"</>", "Select"},
		{"Esc", "Quit"},
	}

	menu := ""
	for _, k := range keys {
		menu += "  " + StyleMenuKey.Render("["+k.key+"]") + StyleMenuLabel.Render(k.label)
	}

	status := StyleStatusStopped.Render("STOPPED")
	if running {
		status = StyleStatusRunning.Render("RUNNING")
	}

	if port == "" {
		port = "none"
	}
	portInfo := StyleMenuLabel.Render(fmt.Sprintf("Port: %s", port))

	left := StyleMenuKey.Render(title) + menu
	right := status + "  " + portInfo + " "

	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}
	return StyleMenuBar.Width(width).Render(left + strings.Repeat(" ", gap) + right)
}
