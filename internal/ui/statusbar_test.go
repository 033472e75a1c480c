package ui

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestUptime(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 10, 19, 8, 30, 0, 0, time.UTC)
	tests := []struct {
		started time.Time
		want    string
	}{
		{time.Time{}, "-"},
		{now.Add(-90*time.Second - 400*time.Millisecond), "1m30s"},
		{now.Add(time.Second), "0s"},
	}
	for _, tt := range tests {
		if got := Uptime(tt.started, now); got != tt.want {
			t.Fatalf("Uptime(%v): got %q want %q", tt.started, got, tt.want)
		}
	}
}

func TestStatusBarShowsRunAndError(t *testing.T) {
	t.Parallel()

	out := RenderStatusBar(160, Status{
		Running:  true,
		RunID:    "0123456789abcdef",
		Started:  time.Now().Add(-time.Minute),
		BaudRate: 9600,
		Rejected: 2,
		Err:      errors.New("port busy"),
	})
	for _, want := range []string{"RUNNING", "01234567", "Up: 1m", "9600", "Corrected: 2", "port busy"} {
		if !strings.Contains(out, want) {
			t.Fatalf("status bar %q missing %q", out, want)
		}
	}
}
