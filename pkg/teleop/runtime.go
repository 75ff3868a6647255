package teleop

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gwillem/teleoparm/pkg/input"
	"github.com/gwillem/teleoparm/pkg/robot"
	"github.com/gwillem/teleoparm/pkg/sim"
)

// State is one runtime update published to the UI: the controller's
// per-arm snapshots plus the engine's actuator positions.
type State struct {
	Arms      []ArmSnapshot
	Positions []float64
	Timestamp time.Time
	Error     error
}

// Runtime wires the controller, the key tracker, and the stepping
// engine together and runs the loop. It registers the controller as
// the engine's pre-step callback, feeding it a fresh key snapshot
// each tick.
type Runtime struct {
	ctrl    *Controller
	engine  *sim.Engine
	tracker *input.Tracker
	mirror  *robot.Mirror

	mu      sync.Mutex
	keys    input.Snapshot
	running bool

	stateCh chan State
	logCh   chan string
}

// NewRuntime builds a runtime around an existing controller and
// engine. mirror may be nil.
func NewRuntime(ctrl *Controller, engine *sim.Engine, tracker *input.Tracker, mirror *robot.Mirror) *Runtime {
	r := &Runtime{
		ctrl:    ctrl,
		engine:  engine,
		tracker: tracker,
		mirror:  mirror,
		keys:    input.Snapshot{},
		stateCh: make(chan State, 1),
		logCh:   make(chan string, 10),
	}
	engine.OnStep(func(e *sim.Engine) {
		r.mu.Lock()
		keys := r.keys
		r.mu.Unlock()
		r.ctrl.Step(keys, e)
	})
	return r
}

// Touch forwards a key event into the tracker.
func (r *Runtime) Touch(key string) {
	r.tracker.Touch(key, time.Now())
}

// ClearKeys drops all held keys, e.g. on focus loss.
func (r *Runtime) ClearKeys() {
	r.tracker.Clear()
}

// States returns a channel that receives state updates.
func (r *Runtime) States() <-chan State {
	return r.stateCh
}

// Logs returns a channel that receives log messages.
func (r *Runtime) Logs() <-chan string {
	return r.logCh
}

// Hz returns the engine's step rate.
func (r *Runtime) Hz() int {
	return r.engine.Hz()
}

func (r *Runtime) log(format string, args ...any) {
	msg := fmt.Sprintf("[%s] %s", time.Now().Format("15:04:05"), fmt.Sprintf(format, args...))
	select {
	case r.logCh <- msg:
	default:
		// Drop if channel full
	}
}

// Start runs the step loop until the context is canceled.
func (r *Runtime) Start(ctx context.Context) error {
	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		return fmt.Errorf("already running")
	}
	r.running = true
	r.mu.Unlock()

	if r.mirror != nil {
		r.log("Hardware mirror attached")
	}
	r.log("Teleoperation started at %d Hz", r.engine.Hz())

	ticker := time.NewTicker(time.Second / time.Duration(r.engine.Hz()))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.shutdown()
			return ctx.Err()
		case now := <-ticker.C:
			r.step(ctx, now)
		}
	}
}

func (r *Runtime) step(ctx context.Context, now time.Time) {
	snap := r.tracker.Snapshot(now)
	r.mu.Lock()
	r.keys = snap
	r.mu.Unlock()

	r.engine.Step()

	if r.mirror != nil {
		if err := r.mirror.Sync(ctx, r.engine); err != nil {
			r.log("Mirror write error: %v", err)
		}
	}

	arms := make([]ArmSnapshot, r.ctrl.NumArms())
	for i := range arms {
		arms[i], _ = r.ctrl.Arm(i)
	}
	positions := make([]float64, r.engine.NumActuators())
	for i := range positions {
		positions[i] = r.engine.Position(i)
	}

	r.sendState(State{
		Arms:      arms,
		Positions: positions,
		Timestamp: now,
	})
}

func (r *Runtime) sendState(s State) {
	select {
	case r.stateCh <- s:
	default:
		// Drop old state if channel full, replace with new
		select {
		case <-r.stateCh:
		default:
		}
		r.stateCh <- s
	}
}

func (r *Runtime) shutdown() {
	r.mu.Lock()
	r.running = false
	r.mu.Unlock()
	r.log("Teleoperation stopped")
}
