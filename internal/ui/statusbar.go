package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// Status is what the bottom bar reports.
type Status struct {
	Running  bool
	RunID    string
	Started  time.Time
	BaudRate int
	Rejected int
	Message  string
	Err      error
}

// Uptime renders how long a run has been going, or "-" when none is.
func Uptime(started, now time.Time) string {
	if started.IsZero() {
		return "-"
	}
	d := now.Sub(started)
	if d < 0 {
		d = 0
	}
	return d.Truncate(time.Second).String()
}

// RenderStatusBar renders the bottom status bar.
func RenderStatusBar(width int, s Status) string {
	state := StyleStatusStopped.Render("[STOPPED]")
	if s.Running {
		state = StyleStatusRunning.Render("[RUNNING]")
	}

	run := "-"
	if s.RunID != "" {
		run = s.RunID
		if len(run) > 8 {
			run = run[:8]
		}
	}
	info := fmt.Sprintf(" Run: %s  Up: %s  Baud: %d  Corrected: %d",
		run, Uptime(s.Started, time.Now()), s.BaudRate, s.Rejected)
	content := state + StyleStatusBar.Foreground(ColorGreen).Render(info)

	switch {
	case s.Err != nil:
		content += "  " + StyleStatusError.Render(s.Err.Error())
	case s.Message != "":
		content += "  " + StyleMenuLabel.Render(s.Message)
	}

	gap := width - lipgloss.Width(content)
	if gap < 0 {
		gap = 0
	}
	return StyleStatusBar.Width(width).Render(content + strings.Repeat(" ", gap))
}
