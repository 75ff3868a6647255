package input

import (
	"testing"
	"time"
)

func validArmKeys() ArmKeys {
	return ArmKeys{
		RotatePos: "q", RotateNeg: "e",
		XPos: "d", XNeg: "a",
		YPos: "w", YNeg: "s",
		PitchPos: "r", PitchNeg: "f",
		RollPos: "t", RollNeg: "g",
		Gripper: "z",
	}
}

func TestArmKeys_Validate(t *testing.T) {
	if err := validArmKeys().Validate(); err != nil {
		t.Fatalf("valid bindings rejected: %v", err)
	}

	missing := validArmKeys()
	missing.PitchNeg = ""
	if err := missing.Validate(); err == nil {
		t.Error("empty binding accepted")
	}

	dup := validArmKeys()
	dup.Gripper = "w"
	if err := dup.Validate(); err == nil {
		t.Error("duplicate binding accepted")
	}
}

func TestArmKeys_MovementExcludesGripper(t *testing.T) {
	keys := validArmKeys()
	move := keys.Movement()
	if len(move) != 10 {
		t.Fatalf("Movement() returned %d keys, want 10", len(move))
	}
	for _, k := range move {
		if k == keys.Gripper {
			t.Error("Movement() includes the gripper key")
		}
	}
}

func TestBaseHeadKeys_Validate(t *testing.T) {
	base := BaseKeys{Forward: "up", Back: "down", TurnLeft: "left", TurnRight: "right"}
	if err := base.Validate(); err != nil {
		t.Errorf("valid base bindings rejected: %v", err)
	}
	base.Back = "up"
	if err := base.Validate(); err == nil {
		t.Error("duplicate base binding accepted")
	}

	head := HeadKeys{PanPos: "j", PanNeg: "l", TiltPos: "i", TiltNeg: "k"}
	if err := head.Validate(); err != nil {
		t.Errorf("valid head bindings rejected: %v", err)
	}
	head.TiltNeg = ""
	if err := head.Validate(); err == nil {
		t.Error("empty head binding accepted")
	}
}

func TestSnapshot_Held(t *testing.T) {
	s := Snapshot{"a": true}
	if !s.Held("a") {
		t.Error("Held(a) = false")
	}
	if s.Held("b") {
		t.Error("Held(b) = true")
	}
	if !s.HeldAny([]string{"x", "a"}) {
		t.Error("HeldAny missed a held key")
	}
	if s.HeldAny([]string{"x", "y"}) {
		t.Error("HeldAny reported a key nothing holds")
	}
}

func TestTracker_HoldAndExpire(t *testing.T) {
	now := time.Unix(0, 0)
	tr := NewTracker(100 * time.Millisecond)

	tr.Touch("w", now)
	if !tr.Snapshot(now.Add(50 * time.Millisecond)).Held("w") {
		t.Error("key expired inside the hold window")
	}
	if tr.Snapshot(now.Add(200 * time.Millisecond)).Held("w") {
		t.Error("key still held after the window")
	}
}

func TestTracker_TouchExtendsHold(t *testing.T) {
	now := time.Unix(0, 0)
	tr := NewTracker(100 * time.Millisecond)

	tr.Touch("w", now)
	tr.Touch("w", now.Add(80*time.Millisecond)) // autorepeat
	if !tr.Snapshot(now.Add(150 * time.Millisecond)).Held("w") {
		t.Error("repeat event did not extend the hold")
	}
}

func TestTracker_Clear(t *testing.T) {
	now := time.Unix(0, 0)
	tr := NewTracker(0)

	tr.Touch("w", now)
	tr.Touch("a", now)
	tr.Clear()
	snap := tr.Snapshot(now)
	if len(snap) != 0 {
		t.Errorf("snapshot after Clear has %d keys", len(snap))
	}
}

func TestTracker_Release(t *testing.T) {
	now := time.Unix(0, 0)
	tr := NewTracker(time.Second)

	tr.Touch("w", now)
	tr.Release("w")
	if tr.Snapshot(now).Held("w") {
		t.Error("released key still held")
	}
}
