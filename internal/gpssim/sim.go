package gpssim

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.bug.st/serial"
	"go.uber.org/zap"
)

// PortOpener opens the transmit device at the given baud rate.
type PortOpener func(name string, baudRate int) (io.WriteCloser, error)

// Sim owns the receiver configuration and produces serve loops from it.
// Configuration writes must hold the Sim's lock.
type Sim struct {
	mu       sync.Mutex
	cfg      Config
	baudRate int

	interval time.Duration
	open     PortOpener
	observe  func(sentence string)
	logger   *zap.Logger
	rng      *rand.Rand
}

// Option configures a Sim.
type Option func(*Sim)

// WithInterval sets the time between fixes.
func WithInterval(d time.Duration) Option {
	return func(s *Sim) { s.interval = d }
}

// WithPortOpener replaces the serial device layer.
func WithPortOpener(open PortOpener) Option {
	return func(s *Sim) { s.open = open }
}

// WithObserver receives every sentence the serve loop emits, whether or not
// a device is attached. It runs on the serve goroutine.
func WithObserver(fn func(sentence string)) Option {
	return func(s *Sim) { s.observe = fn }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Sim) { s.logger = l }
}

// New creates a Sim holding DefaultConfig at 4800 baud.
func New(opts ...Option) *Sim {
	s := &Sim{
		cfg:      DefaultConfig(),
		baudRate: 4800,
		interval: time.Second,
		open:     OpenSerial,
		logger:   zap.NewNop(),
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With(zap.String("component", "gpssim"))
	return s
}

// OpenSerial opens name as 8N1 at baudRate.
func OpenSerial(name string, baudRate int) (io.WriteCloser, error) {
	return serial.Open(name, &serial.Mode{
		BaudRate: baudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	})
}

// Lock acquires the configuration lock.
func (s *Sim) Lock() { s.mu.Lock() }

// Unlock releases the configuration lock.
func (s *Sim) Unlock() { s.mu.Unlock() }

// Configure hands the live configuration to fn. The caller must hold the
// lock.
func (s *Sim) Configure(fn func(cfg *Config)) {
	fn(&s.cfg)
}

// SetBaudRate sets the rate used by the next Serve. The caller must hold
// the lock.
func (s *Sim) SetBaudRate(rate int) {
	s.baudRate = rate
}

// Snapshot returns a copy of the current configuration.
func (s *Sim) Snapshot() Config {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg.Clone()
}

// Serve opens port (unless it is empty) and starts emitting sentences on a
// new goroutine. It returns as soon as the loop is running; a device that
// cannot be opened is reported here.
func (s *Sim) Serve(ctx context.Context, port string) (*Run, error) {
	s.mu.Lock()
	baud := s.baudRate
	sats := constellation(s.rng, s.cfg.NumSats)
	for _, f := range s.cfg.Output {
		if !IsSupported(f) {
			s.logger.Warn("unsupported output format ignored", zap.String("format", f))
		}
	}
	s.mu.Unlock()

	var w io.WriteCloser
	if port != "" {
		var err error
		w, err = s.open(port, baud)
		if err != nil {
			return nil, fmt.Errorf("open %s at %d baud: %w", port, baud, err)
		}
	}

	run := Go(ctx, func(ctx context.Context) error {
		if w != nil {
			defer w.Close()
		}
		return s.loop(ctx, w, sats)
	})
	s.logger.Info("serving",
		zap.String("run", run.ID),
		zap.String("port", port),
		zap.Int("baud", baud),
		zap.Duration("interval", s.interval))
	return run, nil
}

func (s *Sim) loop(ctx context.Context, w io.Writer, sats []satellite) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		if err := s.emit(w, sats); err != nil {
			s.logger.Warn("transmit failed", zap.Error(err))
			return err
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			s.mu.Lock()
			s.cfg.step(s.interval, s.rng)
			s.mu.Unlock()
		}
	}
}

// emit renders one fix from a consistent snapshot and writes it outside the
// lock, so a slow device never stalls a reconfiguration.
func (s *Sim) emit(w io.Writer, sats []satellite) error {
	s.mu.Lock()
	now := time.Now()
	if s.cfg.DateTime != nil {
		now = *s.cfg.DateTime
	}
	lines := s.cfg.sentences(now, sats)
	s.mu.Unlock()

	if w != nil && len(lines) > 0 {
		if _, err := io.WriteString(w, strings.Join(lines, "")); err != nil {
			return fmt.Errorf("write sentences: %w", err)
		}
	}
	if s.observe != nil {
		for _, line := range lines {
			s.observe(strings.TrimRight(line, "\r\n"))
		}
	}
	return nil
}

// Run is a handle to one serve loop.
type Run struct {
	ID      string
	Started time.Time

	cancel context.CancelFunc
	done   chan struct{}
	err    error
}

// Go runs fn on a new goroutine under a cancellable context derived from
// ctx and returns its handle.
func Go(ctx context.Context, fn func(ctx context.Context) error) *Run {
	ctx, cancel := context.WithCancel(ctx)
	r := &Run{
		ID:      uuid.NewString(),
		Started: time.Now(),
		cancel:  cancel,
		done:    make(chan struct{}),
	}
	go func() {
		defer close(r.done)
		defer cancel()
		r.err = fn(ctx)
	}()
	return r
}

// Stop cancels the loop and waits for it to exit. Safe to call repeatedly.
func (r *Run) Stop() {
	r.cancel()
	<-r.done
}

// Done is closed when the loop has exited.
func (r *Run) Done() <-chan struct{} { return r.done }

// Running reports whether the loop is still executing.
func (r *Run) Running() bool {
	select {
	case <-r.done:
		return false
	default:
		return true
	}
}

// Err returns the loop's exit error once Done is closed.
func (r *Run) Err() error {
	select {
	case <-r.done:
		return r.err
	default:
		return nil
	}
}
