package sim

import (
	"math"
	"testing"
)

func TestNew_Validates(t *testing.T) {
	if _, err := New(Config{Actuators: 0}); err == nil {
		t.Error("accepted zero actuators")
	}

	e, err := New(Config{Actuators: 4})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if e.Hz() != 60 {
		t.Errorf("default hz = %d, want 60", e.Hz())
	}
	if e.NumActuators() != 4 {
		t.Errorf("NumActuators = %d, want 4", e.NumActuators())
	}
}

func TestStep_RunsCallbacksInOrder(t *testing.T) {
	e, _ := New(Config{Actuators: 1})

	var order []int
	e.OnStep(func(*Engine) { order = append(order, 1) })
	e.OnStep(func(*Engine) { order = append(order, 2) })

	e.Step()
	e.Step()

	want := []int{1, 2, 1, 2}
	if len(order) != len(want) {
		t.Fatalf("callback order %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("callback order %v, want %v", order, want)
		}
	}
	if e.Steps() != 2 {
		t.Errorf("Steps = %d, want 2", e.Steps())
	}
}

func TestStep_CallbackSeesAndSetsCommands(t *testing.T) {
	e, _ := New(Config{Actuators: 2})
	e.SetCommand(0, 1.5)

	e.OnStep(func(eng *Engine) {
		eng.SetCommand(1, eng.Command(0)*2)
	})
	e.Step()

	if got := e.Command(1); got != 3.0 {
		t.Errorf("Command(1) = %v, want 3.0", got)
	}
}

func TestStep_PositionsTrackCommands(t *testing.T) {
	e, _ := New(Config{Actuators: 1, Tracking: 0.5})
	e.SetCommand(0, 1.0)

	e.Step()
	if got := e.Position(0); math.Abs(got-0.5) > 1e-9 {
		t.Errorf("position after 1 step = %v, want 0.5", got)
	}
	e.Step()
	if got := e.Position(0); math.Abs(got-0.75) > 1e-9 {
		t.Errorf("position after 2 steps = %v, want 0.75", got)
	}

	// Commands persist; positions converge.
	for i := 0; i < 100; i++ {
		e.Step()
	}
	if got := e.Position(0); math.Abs(got-1.0) > 1e-6 {
		t.Errorf("position did not converge: %v", got)
	}
}
