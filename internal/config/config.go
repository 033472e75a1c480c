package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// Port discovery
	ProbeCount   = 256                    // Indexed serial devices probed at startup (0..255)
	ProbeTimeout = 250 * time.Millisecond // Give up on a single open after this long

	// Simulator
	DefaultBaudRate = 4800        // NMEA 0183 standard rate
	TickInterval    = time.Second // One fix per second
	SentenceLogSize = 200         // Transmitted sentences kept for the console

	// Console
	TextWidth = 50 // Width of free-text fields

	// App
	AppName    = "GPSSIM"
	AppVersion = "1.0"
)

// DefaultUSBPatterns are globbed in addition to the indexed probe because
// USB adapters are not reachable by index on Linux.
var DefaultUSBPatterns = []string{"/dev/ttyUSB*", "/dev/ttyACM*"}

// Settings holds launcher settings. They tune discovery, transport and
// logging; simulator field values are never stored here.
type Settings struct {
	ProbeCount   int           `yaml:"probe_count"`
	ProbeTimeout time.Duration `yaml:"probe_timeout"`
	USBPatterns  []string      `yaml:"usb_patterns"`
	BaudRate     int           `yaml:"baud_rate"`
	TickInterval time.Duration `yaml:"tick_interval"`
	LogFile      string        `yaml:"log_file"`
	LogLevel     string        `yaml:"log_level"`
}

// Default returns the built-in settings.
func Default() Settings {
	return Settings{
		ProbeCount:   ProbeCount,
		ProbeTimeout: ProbeTimeout,
		USBPatterns:  append([]string(nil), DefaultUSBPatterns...),
		BaudRate:     DefaultBaudRate,
		TickInterval: TickInterval,
		LogLevel:     "info",
	}
}

// Load reads a YAML settings file on top of the defaults. An empty path
// returns the defaults unchanged.
func Load(path string) (Settings, error) {
	s := Default()
	path = strings.TrimSpace(path)
	if path == "" {
		return s, nil
	}

	blob, err := os.ReadFile(path)
	if err != nil {
		return s, fmt.Errorf("read settings %q: %w", path, err)
	}
	if err := yaml.Unmarshal(blob, &s); err != nil {
		return s, fmt.Errorf("parse settings %q: %w", path, err)
	}
	if err := s.Validate(); err != nil {
		return s, fmt.Errorf("settings %q: %w", path, err)
	}
	return s, nil
}

// Validate reports the first setting that cannot be used.
func (s Settings) Validate() error {
	if s.ProbeCount < 0 {
		return fmt.Errorf("probe_count must not be negative, got %d", s.ProbeCount)
	}
	if s.ProbeTimeout <= 0 {
		return fmt.Errorf("probe_timeout must be positive, got %s", s.ProbeTimeout)
	}
	if s.TickInterval <= 0 {
		return fmt.Errorf("tick_interval must be positive, got %s", s.TickInterval)
	}
	if !IsStandardBaudRate(s.BaudRate) {
		return fmt.Errorf("baud_rate %d is not a standard rate", s.BaudRate)
	}
	switch strings.ToLower(s.LogLevel) {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log_level %q", s.LogLevel)
	}
	return nil
}
