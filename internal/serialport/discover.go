package serialport

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"runtime"
	"time"

	"go.bug.st/serial"
	"go.uber.org/zap"
)

// Opener opens a device by name. The result is closed as soon as the probe
// succeeds.
type Opener func(name string) (io.Closer, error)

// Options control a discovery pass. Zero values fall back to the real
// device layer.
type Options struct {
	ProbeCount   int           // indexed devices probed, 0..ProbeCount-1
	ProbeTimeout time.Duration // per-open deadline; zero waits forever
	USBPatterns  []string      // globbed after the indexed probe
	ProbeName    func(index int) string
	Open         Opener
	Glob         func(pattern string) ([]string, error)
	Logger       *zap.Logger
}

// OpenSerial opens name at the NMEA rate using go.bug.st/serial.
func OpenSerial(name string) (io.Closer, error) {
	return serial.Open(name, &serial.Mode{BaudRate: 4800})
}

// ProbeName maps an index to the platform device name for that index.
func ProbeName(index int) string {
	switch runtime.GOOS {
	case "windows":
		return fmt.Sprintf("COM%d", index+1)
	case "darwin":
		return fmt.Sprintf("/dev/cuad%d", index)
	default:
		return fmt.Sprintf("/dev/ttyS%d", index)
	}
}

// Discover returns the usable serial ports in natural order. The first
// entry is always "" (no device). Devices are opened and closed again
// immediately; probe failures are expected and skipped.
func Discover(ctx context.Context, opts Options) []string {
	if opts.ProbeName == nil {
		opts.ProbeName = ProbeName
	}
	if opts.Open == nil {
		opts.Open = OpenSerial
	}
	if opts.Glob == nil {
		opts.Glob = filepath.Glob
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.With(zap.String("component", "discovery"))

	ports := []string{""}
	seen := map[string]bool{"": true}
	add := func(name string) {
		if seen[name] {
			return
		}
		seen[name] = true
		ports = append(ports, name)
	}

	for i := 0; i < opts.ProbeCount; i++ {
		if ctx.Err() != nil {
			break
		}
		name := opts.ProbeName(i)
		if err := probe(opts.Open, name, opts.ProbeTimeout); err != nil {
			logger.Debug("probe failed", zap.String("port", name), zap.Error(err))
			continue
		}
		add(name)
	}

	for _, pattern := range opts.USBPatterns {
		matches, err := opts.Glob(pattern)
		if err != nil {
			logger.Debug("glob failed", zap.String("pattern", pattern), zap.Error(err))
			continue
		}
		for _, name := range matches {
			if ctx.Err() != nil {
				break
			}
			if seen[name] {
				continue
			}
			if err := probe(opts.Open, name, opts.ProbeTimeout); err != nil {
				logger.Debug("probe failed", zap.String("port", name), zap.Error(err))
				continue
			}
			add(name)
		}
	}

	SortNatural(ports)
	logger.Info("discovery finished", zap.Int("ports", len(ports)-1))
	return ports
}

type openResult struct {
	port io.Closer
	err  error
}

// probe opens and closes name. When the open outlives the timeout it is
// abandoned, and the late handle is closed by the probe goroutine.
func probe(open Opener, name string, timeout time.Duration) error {
	if timeout <= 0 {
		port, err := open(name)
		if err != nil {
			return err
		}
		return port.Close()
	}

	done := make(chan openResult)
	abandoned := make(chan struct{})
	go func() {
		port, err := open(name)
		select {
		case done <- openResult{port: port, err: err}:
		case <-abandoned:
			if err == nil {
				_ = port.Close()
			}
		}
	}()

	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case res := <-done:
		if res.err != nil {
			return res.err
		}
		return res.port.Close()
	case <-timer.C:
		close(abandoned)
		return fmt.Errorf("open %s: timed out after %s", name, timeout)
	}
}
