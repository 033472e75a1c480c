package controller

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"gpssim.weilijiang.com/internal/form"
	"gpssim.weilijiang.com/internal/gpssim"
)

// fakeEngine records the order of engine calls and hands out real run
// handles whose loops just wait for cancellation.
type fakeEngine struct {
	mu  sync.Mutex
	cfg gpssim.Config

	baud       int
	serveErr   error
	panicOnCfg bool

	evMu    sync.Mutex
	events  []string
	runs    []*gpssim.Run
	overlap bool
}

func (e *fakeEngine) Lock()         { e.mu.Lock() }
func (e *fakeEngine) Unlock()       { e.mu.Unlock() }
func (e *fakeEngine) TryLock() bool { return e.mu.TryLock() }

func (e *fakeEngine) Configure(fn func(cfg *gpssim.Config)) {
	if e.panicOnCfg {
		panic("parser exploded")
	}
	fn(&e.cfg)
}

func (e *fakeEngine) SetBaudRate(rate int) { e.baud = rate }

func (e *fakeEngine) record(ev string) {
	e.evMu.Lock()
	defer e.evMu.Unlock()
	e.events = append(e.events, ev)
}

func (e *fakeEngine) Serve(ctx context.Context, port string) (*gpssim.Run, error) {
	if e.serveErr != nil {
		return nil, e.serveErr
	}
	e.evMu.Lock()
	for _, r := range e.runs {
		if r.Running() {
			e.overlap = true
		}
	}
	n := len(e.runs) + 1
	e.evMu.Unlock()

	e.record(fmt.Sprintf("serve#%d", n))
	run := gpssim.Go(ctx, func(ctx context.Context) error {
		<-ctx.Done()
		e.record(fmt.Sprintf("stop#%d", n))
		return nil
	})

	e.evMu.Lock()
	e.runs = append(e.runs, run)
	e.evMu.Unlock()
	return run, nil
}

func newController(e *fakeEngine) *Controller {
	p := form.New(func() time.Time { return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC) })
	return New(e, p, nil)
}

func TestRestartSequencing(t *testing.T) {
	t.Parallel()

	eng := &fakeEngine{}
	c := newController(eng)
	values := form.New(nil).Defaults()

	if c.State() != Stopped {
		t.Fatalf("new controller should be stopped")
	}
	if _, err := c.Restart(context.Background(), Request{Values: values, BaudRate: 4800}); err != nil {
		t.Fatalf("first restart: %v", err)
	}
	first := c.Current()
	if c.State() != Running {
		t.Fatalf("expected RUNNING after first restart")
	}

	if _, err := c.Restart(context.Background(), Request{Values: values, BaudRate: 9600}); err != nil {
		t.Fatalf("second restart: %v", err)
	}
	second := c.Current()

	want := []string{"serve#1", "stop#1", "serve#2"}
	eng.evMu.Lock()
	got := append([]string(nil), eng.events...)
	overlap := eng.overlap
	eng.evMu.Unlock()
	if fmt.Sprint(got) != fmt.Sprint(want) {
		t.Fatalf("events: got %v want %v", got, want)
	}
	if overlap {
		t.Fatalf("two runs were live at the same time")
	}
	if first.Running() || !second.Running() {
		t.Fatalf("only the latest run may be running")
	}
	if eng.baud != 9600 {
		t.Fatalf("baud: got %d want 9600", eng.baud)
	}

	c.Stop()
	c.Stop()
	if c.State() != Stopped || second.Running() {
		t.Fatalf("Stop should end the run")
	}
}

func TestRestartAppliesValuesAndCorrectsDisplay(t *testing.T) {
	t.Parallel()

	eng := &fakeEngine{}
	c := newController(eng)
	values := form.New(nil).Defaults()
	values["lat"] = "abc"
	values["lon"] = "12.3"

	res, err := c.Restart(context.Background(), Request{Values: values, Port: "", BaudRate: 4800})
	if err != nil {
		t.Fatalf("Restart returned error: %v", err)
	}
	defer c.Stop()

	if res.Display["lat"] != "" || res.Display["lon"] != "12.3" {
		t.Fatalf("display: lat=%q lon=%q", res.Display["lat"], res.Display["lon"])
	}
	eng.Lock()
	defer eng.Unlock()
	if eng.cfg.Lat != nil || eng.cfg.Lon == nil || *eng.cfg.Lon != 12.3 {
		t.Fatalf("engine config: lat=%v lon=%v", eng.cfg.Lat, eng.cfg.Lon)
	}
}

func TestRestartReplacesNonStandardBaud(t *testing.T) {
	t.Parallel()

	eng := &fakeEngine{}
	c := newController(eng)
	if _, err := c.Restart(context.Background(), Request{BaudRate: 1234}); err != nil {
		t.Fatalf("Restart returned error: %v", err)
	}
	defer c.Stop()
	if eng.baud != 4800 {
		t.Fatalf("baud: got %d want 4800", eng.baud)
	}
}

func TestRestartPropagatesServeFailure(t *testing.T) {
	t.Parallel()

	boom := errors.New("device busy")
	eng := &fakeEngine{serveErr: boom}
	c := newController(eng)

	res, err := c.Restart(context.Background(), Request{Values: form.Values{"lat": "x"}, Port: "/dev/ttyUSB0"})
	if !errors.Is(err, ErrEngineStart) || !errors.Is(err, boom) {
		t.Fatalf("expected wrapped start error, got %v", err)
	}
	if c.State() != Stopped || c.Current() != nil {
		t.Fatalf("controller should stay stopped after a failed start")
	}
	if res.Display["lat"] != "" {
		t.Fatalf("coercion should still have run, lat display %q", res.Display["lat"])
	}
	if !eng.TryLock() {
		t.Fatalf("engine lock still held after failed start")
	}
	eng.Unlock()
}

func TestLockReleasedWhenCoercionPanics(t *testing.T) {
	t.Parallel()

	eng := &fakeEngine{panicOnCfg: true}
	c := newController(eng)

	func() {
		defer func() {
			if recover() == nil {
				t.Fatalf("expected panic to propagate")
			}
		}()
		_, _ = c.Restart(context.Background(), Request{})
	}()

	if !eng.TryLock() {
		t.Fatalf("engine lock still held after panic")
	}
	eng.Unlock()

	eng.panicOnCfg = false
	if _, err := c.Restart(context.Background(), Request{BaudRate: 4800}); err != nil {
		t.Fatalf("restart after panic: %v", err)
	}
	c.Stop()
}

func TestStateReflectsRunThatEndedOnItsOwn(t *testing.T) {
	t.Parallel()

	eng := &fakeEngine{}
	c := newController(eng)
	if _, err := c.Restart(context.Background(), Request{BaudRate: 4800}); err != nil {
		t.Fatalf("Restart returned error: %v", err)
	}
	c.Current().Stop()
	if c.State() != Stopped {
		t.Fatalf("state should follow the run handle")
	}
	c.Stop()
}
