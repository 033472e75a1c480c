package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadEmptyPathReturnsDefaults(t *testing.T) {
	t.Parallel()

	s, err := Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if s.ProbeCount != ProbeCount || s.BaudRate != DefaultBaudRate {
		t.Fatalf("unexpected defaults: %+v", s)
	}
	if len(s.USBPatterns) != len(DefaultUSBPatterns) {
		t.Fatalf("unexpected usb patterns: %v", s.USBPatterns)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "gpssim.yaml")
	blob := "probe_count: 8\nprobe_timeout: 50ms\nbaud_rate: 9600\nusb_patterns:\n  - /dev/ttyAMA*\n"
	if err := os.WriteFile(path, []byte(blob), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if s.ProbeCount != 8 {
		t.Fatalf("probe_count: got %d want 8", s.ProbeCount)
	}
	if s.ProbeTimeout != 50*time.Millisecond {
		t.Fatalf("probe_timeout: got %s want 50ms", s.ProbeTimeout)
	}
	if s.BaudRate != 9600 {
		t.Fatalf("baud_rate: got %d want 9600", s.BaudRate)
	}
	if len(s.USBPatterns) != 1 || s.USBPatterns[0] != "/dev/ttyAMA*" {
		t.Fatalf("usb_patterns: got %v", s.USBPatterns)
	}
	if s.TickInterval != TickInterval {
		t.Fatalf("tick_interval should keep its default, got %s", s.TickInterval)
	}
}

func TestLoadRejectsNonStandardBaudRate(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "gpssim.yaml")
	if err := os.WriteFile(path, []byte("baud_rate: 1234\n"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	_, err := Load(path)
	if err == nil {
		t.Fatalf("expected error for non-standard baud rate")
	}
	if !strings.Contains(err.Error(), "standard rate") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	t.Parallel()

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestBaudRateOptionsStartAtNMEARate(t *testing.T) {
	t.Parallel()

	opts := BaudRateOptions()
	if opts[0] != "4800" {
		t.Fatalf("first option: got %q want 4800", opts[0])
	}
	if IsStandardBaudRate(4801) {
		t.Fatalf("4801 should not be standard")
	}
}
