// Package input provides held-key snapshots and key-binding tables for
// the teleoperation controller.
//
// The controller never reads keyboard state ambiently: the host
// captures key events however it likes (browser listeners, terminal
// key messages, a gamepad shim) and hands the controller an immutable
// Snapshot once per simulation step.
package input

import "fmt"

// Snapshot is the set of keys held at the instant a simulation step
// begins. Callers must not mutate a snapshot after passing it on.
type Snapshot map[string]bool

// Held reports whether the key is currently held.
func (s Snapshot) Held(key string) bool { return s[key] }

// HeldAny reports whether any of the keys is currently held.
func (s Snapshot) HeldAny(keys []string) bool {
	for _, k := range keys {
		if s[k] {
			return true
		}
	}
	return false
}

// ArmKeys binds the 11 logical arm actions to key identifiers. Every
// field must be set; Validate rejects empty or duplicate bindings so a
// missing key can never silently disable an action.
type ArmKeys struct {
	RotatePos string `json:"rotate_pos"`
	RotateNeg string `json:"rotate_neg"`
	XPos      string `json:"x_pos"`
	XNeg      string `json:"x_neg"`
	YPos      string `json:"y_pos"`
	YNeg      string `json:"y_neg"`
	PitchPos  string `json:"pitch_pos"`
	PitchNeg  string `json:"pitch_neg"`
	RollPos   string `json:"roll_pos"`
	RollNeg   string `json:"roll_neg"`
	Gripper   string `json:"gripper"`
}

// Movement returns the 10 non-gripper bindings. Holding any of these
// makes the keyboard the active input source for the arm; the gripper
// key deliberately does not.
func (k ArmKeys) Movement() []string {
	return []string{
		k.RotatePos, k.RotateNeg,
		k.XPos, k.XNeg,
		k.YPos, k.YNeg,
		k.PitchPos, k.PitchNeg,
		k.RollPos, k.RollNeg,
	}
}

// Validate checks that all 11 bindings are present and distinct.
func (k ArmKeys) Validate() error {
	all := append(k.Movement(), k.Gripper)
	return validateBindings("arm", all)
}

// BaseKeys binds the 4 mobile-base drive actions.
type BaseKeys struct {
	Forward   string `json:"forward"`
	Back      string `json:"back"`
	TurnLeft  string `json:"turn_left"`
	TurnRight string `json:"turn_right"`
}

// Validate checks that all 4 bindings are present and distinct.
func (k BaseKeys) Validate() error {
	return validateBindings("base", []string{k.Forward, k.Back, k.TurnLeft, k.TurnRight})
}

// HeadKeys binds the 4 head pan/tilt actions.
type HeadKeys struct {
	PanPos  string `json:"pan_pos"`
	PanNeg  string `json:"pan_neg"`
	TiltPos string `json:"tilt_pos"`
	TiltNeg string `json:"tilt_neg"`
}

// Validate checks that all 4 bindings are present and distinct.
func (k HeadKeys) Validate() error {
	return validateBindings("head", []string{k.PanPos, k.PanNeg, k.TiltPos, k.TiltNeg})
}

func validateBindings(kind string, keys []string) error {
	seen := make(map[string]bool, len(keys))
	for i, k := range keys {
		if k == "" {
			return fmt.Errorf("%s keys: binding %d is empty", kind, i)
		}
		if seen[k] {
			return fmt.Errorf("%s keys: %q bound twice", kind, k)
		}
		seen[k] = true
	}
	return nil
}
