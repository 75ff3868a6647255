// Package sim provides a minimal fixed-rate stepping engine for
// driving the teleoperation controller without a full physics
// backend: an actuator-command array, pre-step callbacks, and
// first-order joint tracking toward the commanded values.
//
// A production deployment replaces this with the real simulator; the
// controller only ever sees the command array and the per-step call.
package sim

import (
	"context"
	"fmt"
	"time"
)

// StepFunc runs before each physics step with read/write access to
// the engine's actuator commands.
type StepFunc func(e *Engine)

// Engine owns the actuator-command array and the step loop. It
// satisfies the controller's Actuators interface.
type Engine struct {
	commands  []float64
	positions []float64
	callbacks []StepFunc
	hz        int

	// tracking is the per-step fraction each joint moves toward its
	// command, emulating actuator servo lag.
	tracking float64

	steps uint64
}

// Config holds engine parameters.
type Config struct {
	Actuators int     // size of the command array
	Hz        int     // step rate for Run; defaults to 60
	Tracking  float64 // per-step tracking fraction in (0, 1]; defaults to 0.2
}

// New creates an engine with all commands and positions at zero.
func New(cfg Config) (*Engine, error) {
	if cfg.Actuators <= 0 {
		return nil, fmt.Errorf("engine: need at least one actuator, got %d", cfg.Actuators)
	}
	if cfg.Hz <= 0 {
		cfg.Hz = 60
	}
	if cfg.Tracking <= 0 || cfg.Tracking > 1 {
		cfg.Tracking = 0.2
	}
	return &Engine{
		commands:  make([]float64, cfg.Actuators),
		positions: make([]float64, cfg.Actuators),
		hz:        cfg.Hz,
		tracking:  cfg.Tracking,
	}, nil
}

// Command returns the last commanded value for actuator i.
func (e *Engine) Command(i int) float64 { return e.commands[i] }

// SetCommand sets the commanded value for actuator i.
func (e *Engine) SetCommand(i int, v float64) { e.commands[i] = v }

// Position returns the simulated position of actuator i.
func (e *Engine) Position(i int) float64 { return e.positions[i] }

// NumActuators returns the size of the command array.
func (e *Engine) NumActuators() int { return len(e.commands) }

// Hz returns the configured step rate.
func (e *Engine) Hz() int { return e.hz }

// Steps returns how many steps have run.
func (e *Engine) Steps() uint64 { return e.steps }

// OnStep registers a callback invoked before every step, in
// registration order.
func (e *Engine) OnStep(fn StepFunc) {
	e.callbacks = append(e.callbacks, fn)
}

// Step runs the pre-step callbacks and advances the simulated
// actuators one step toward their commands.
func (e *Engine) Step() {
	for _, fn := range e.callbacks {
		fn(e)
	}
	for i := range e.positions {
		e.positions[i] += (e.commands[i] - e.positions[i]) * e.tracking
	}
	e.steps++
}

// Run steps the engine at its configured rate until the context is
// canceled.
func (e *Engine) Run(ctx context.Context) error {
	ticker := time.NewTicker(time.Second / time.Duration(e.hz))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			e.Step()
		}
	}
}
