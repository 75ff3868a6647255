package teleop

import (
	"context"
	"testing"
	"time"

	"github.com/gwillem/teleoparm/pkg/input"
	"github.com/gwillem/teleoparm/pkg/sim"
)

func testRuntime(t *testing.T) (*Runtime, *sim.Engine) {
	t.Helper()
	ctrl := mustController(t, testConfig())
	engine, err := sim.New(sim.Config{Actuators: 10})
	if err != nil {
		t.Fatal(err)
	}
	tracker := input.NewTracker(time.Second)
	return NewRuntime(ctrl, engine, tracker, nil), engine
}

func TestRuntime_StepFeedsControllerSnapshot(t *testing.T) {
	rt, engine := testRuntime(t)

	now := time.Now()
	rt.tracker.Touch("up", now)
	rt.step(context.Background(), now)

	if got := engine.Command(6); got != DefaultBaseSpeed {
		t.Errorf("base drive = %v after step, want %v", got, DefaultBaseSpeed)
	}
}

func TestRuntime_PublishesState(t *testing.T) {
	rt, engine := testRuntime(t)

	rt.step(context.Background(), time.Now())

	select {
	case s := <-rt.States():
		if len(s.Arms) != 1 {
			t.Errorf("state has %d arms, want 1", len(s.Arms))
		}
		if len(s.Positions) != engine.NumActuators() {
			t.Errorf("state has %d positions, want %d", len(s.Positions), engine.NumActuators())
		}
	default:
		t.Fatal("no state published after step")
	}
}

func TestRuntime_ClearKeysStopsMotion(t *testing.T) {
	rt, engine := testRuntime(t)
	now := time.Now()

	rt.tracker.Touch("up", now)
	rt.step(context.Background(), now)
	rt.ClearKeys()
	rt.step(context.Background(), now)

	// The base zeroes on the step after its key disappears.
	if got := engine.Command(6); got != 0 {
		t.Errorf("base drive = %v after ClearKeys, want 0", got)
	}
}

func TestRuntime_StartRejectsDoubleStart(t *testing.T) {
	rt, _ := testRuntime(t)

	ctx, cancel := context.WithCancel(context.Background())
	go rt.Start(ctx)
	time.Sleep(20 * time.Millisecond)

	if err := rt.Start(ctx); err == nil {
		t.Error("second Start did not fail")
	}
	cancel()
}
