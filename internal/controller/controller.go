package controller

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"gpssim.weilijiang.com/internal/config"
	"gpssim.weilijiang.com/internal/form"
	"gpssim.weilijiang.com/internal/gpssim"
)

// ErrEngineStart wraps any failure of the simulator to start serving.
var ErrEngineStart = errors.New("simulator failed to start")

// Engine is the simulator as seen by the controller. Configure and
// SetBaudRate require the lock.
type Engine interface {
	Lock()
	Unlock()
	Configure(fn func(cfg *gpssim.Config))
	SetBaudRate(rate int)
	Serve(ctx context.Context, port string) (*gpssim.Run, error)
}

// State is the controller's view of the serve loop.
type State int

const (
	Stopped State = iota
	Running
)

func (s State) String() string {
	if s == Running {
		return "RUNNING"
	}
	return "STOPPED"
}

// Request is one operator commit.
type Request struct {
	Values   form.Values
	Port     string // "" runs without a device
	BaudRate int
}

// Controller owns the live run handle and serializes reconfiguration of
// the engine.
type Controller struct {
	engine   Engine
	pipeline *form.Pipeline
	logger   *zap.Logger

	mu  sync.Mutex
	run *gpssim.Run
}

// New creates a stopped controller.
func New(engine Engine, pipeline *form.Pipeline, logger *zap.Logger) *Controller {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Controller{
		engine:   engine,
		pipeline: pipeline,
		logger:   logger.With(zap.String("component", "controller")),
	}
}

// Restart stops any running simulation, coerces req.Values into the
// engine configuration under the engine lock and starts serving again.
// Rejected field values never abort the restart; the returned Result
// carries the corrected display. Only a failure to start serving is
// returned as an error, and the controller is then stopped.
func (c *Controller) Restart(ctx context.Context, req Request) (form.Result, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.stopLocked()

	res := c.apply(req)
	for _, o := range res.Rejected() {
		c.logger.Info("field rejected",
			zap.String("field", o.Key),
			zap.String("raw", o.Raw),
			zap.String("fallback", o.Fallback.String()),
			zap.Error(o.Err))
	}

	run, err := c.engine.Serve(ctx, req.Port)
	if err != nil {
		c.logger.Error("serve failed", zap.String("port", req.Port), zap.Error(err))
		return res, fmt.Errorf("%w: %w", ErrEngineStart, err)
	}
	c.run = run
	c.logger.Info("simulator started", zap.String("run", run.ID), zap.String("port", req.Port))
	return res, nil
}

// apply holds the engine lock for the whole coercion pass. The deferred
// unlock also covers a panic inside a field parser.
func (c *Controller) apply(req Request) form.Result {
	c.engine.Lock()
	defer c.engine.Unlock()

	var res form.Result
	c.engine.Configure(func(cfg *gpssim.Config) {
		res = c.pipeline.Coerce(req.Values, cfg)
	})

	baud := req.BaudRate
	if !config.IsStandardBaudRate(baud) {
		c.logger.Warn("non-standard baud rate replaced",
			zap.Int("requested", baud), zap.Int("used", config.DefaultBaudRate))
		baud = config.DefaultBaudRate
	}
	c.engine.SetBaudRate(baud)
	return res
}

// Stop terminates the running simulation, if any.
func (c *Controller) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopLocked()
}

func (c *Controller) stopLocked() {
	if c.run == nil {
		return
	}
	c.run.Stop()
	c.logger.Info("simulator stopped", zap.String("run", c.run.ID))
	c.run = nil
}

// State reports whether a serve loop is live. A loop that ended on its own
// (for example a device write error) reports Stopped.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.run != nil && c.run.Running() {
		return Running
	}
	return Stopped
}

// Current returns the live run handle, or nil.
func (c *Controller) Current() *gpssim.Run {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.run
}
