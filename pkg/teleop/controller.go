// Package teleop implements the per-step keyboard teleoperation
// controller for a robot with planar 2-link arms, a differential base,
// and a pan/tilt head.
//
// The controller owns no loop of its own: the simulation engine calls
// Step once before each physics step, passing the held-key snapshot
// and read/write access to its actuator-command array. Each arm
// arbitrates frame-by-frame between keyboard control and an optional
// external IK gizmo, handing the pose back and forth without jumps.
package teleop

import (
	"fmt"
	"math"

	"github.com/gwillem/teleoparm/pkg/input"
	"github.com/gwillem/teleoparm/pkg/kinematics"
)

// Controller drives all configured arms, the base, and the head from
// per-step key snapshots. It is not safe for concurrent use; the
// engine invokes Step from its single step-processing goroutine.
type Controller struct {
	arms []*armState
	base *baseState
	head *headState
}

// New builds a controller from a validated configuration. Arms seeded
// with initial joint angles back-derive their end-effector cursor via
// forward kinematics; others start at the default cursor pose via
// inverse kinematics.
func New(cfg Config) (*Controller, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("teleop config: %w", err)
	}

	c := &Controller{}
	for i := range cfg.Arms {
		c.arms = append(c.arms, newArmState(cfg.Arms[i]))
	}
	if cfg.Base != nil {
		c.base = &baseState{cfg: *cfg.Base, speed: cfg.Base.speed()}
	}
	if cfg.Head != nil {
		c.head = &headState{cfg: *cfg.Head}
	}
	return c, nil
}

// AttachGizmo connects the external IK subsystem for one arm. Passing
// nil detaches it.
func (c *Controller) AttachGizmo(arm int, g Gizmo) error {
	if arm < 0 || arm >= len(c.arms) {
		return fmt.Errorf("teleop: no arm %d", arm)
	}
	c.arms[arm].gizmo = g
	return nil
}

// Step runs one control pass: base, then each arm, then the head. The
// engine must call it exactly once per physics step, before stepping.
func (c *Controller) Step(keys input.Snapshot, act Actuators) {
	if c.base != nil {
		c.base.step(keys, act)
	}
	for _, a := range c.arms {
		a.step(keys, act)
	}
	if c.head != nil {
		c.head.step(keys, act)
	}
}

// ArmSnapshot is a read-only copy of one arm's controller state.
type ArmSnapshot struct {
	Joints      []float64
	EEX, EEY    float64
	Pitch       float64
	Active      bool
	GripperOpen bool
}

// Arm returns a snapshot of arm i's state, for display and tests.
func (c *Controller) Arm(i int) (ArmSnapshot, error) {
	if i < 0 || i >= len(c.arms) {
		return ArmSnapshot{}, fmt.Errorf("teleop: no arm %d", i)
	}
	a := c.arms[i]
	joints := make([]float64, len(a.targetJoints))
	copy(joints, a.targetJoints)
	return ArmSnapshot{
		Joints:      joints,
		EEX:         a.eeX,
		EEY:         a.eeY,
		Pitch:       a.pitch,
		Active:      a.controlActive,
		GripperOpen: a.gripperOpen,
	}, nil
}

// NumArms returns the number of configured arms.
func (c *Controller) NumArms() int { return len(c.arms) }

type armState struct {
	indices      []int
	keys         input.ArmKeys
	movementKeys []string
	linkage      kinematics.Linkage
	tipLength    float64
	gripOpen     float64
	gripClosed   float64
	gizmo        Gizmo

	targetJoints []float64
	eeX, eeY     float64
	pitch        float64

	gripperOpen       bool
	gripperKeyWasDown bool
	controlActive     bool
	ikWasEnabled      bool
}

func newArmState(cfg ArmConfig) *armState {
	open, closed := cfg.gripperAngles()
	a := &armState{
		indices:      cfg.Indices,
		keys:         cfg.Keys,
		movementKeys: cfg.Keys.Movement(),
		linkage:      cfg.linkage(),
		tipLength:    cfg.TipLength,
		gripOpen:     open,
		gripClosed:   closed,
		targetJoints: make([]float64, len(cfg.Indices)),
		gripperOpen:  true,
	}

	if cfg.InitJoints != nil {
		copy(a.targetJoints, cfg.InitJoints)
		a.pitch = a.targetJoints[3] - a.targetJoints[1] + a.targetJoints[2]
		x, y := a.linkage.Forward(a.targetJoints[1], a.targetJoints[2])
		a.eeX = x
		a.eeY = y - a.tipLength*math.Sin(a.pitch)
	} else {
		a.eeX = DefaultEEX
		a.eeY = DefaultEEY
		a.targetJoints[0] = cfg.InitRotation
		a.targetJoints[4] = cfg.InitRoll
		j2, j3 := a.linkage.Inverse(a.eeX, a.eeY)
		a.targetJoints[1] = j2
		a.targetJoints[2] = j3
		a.targetJoints[3] = j2 - j3
	}
	a.targetJoints[len(a.targetJoints)-1] = open
	return a
}

func (a *armState) step(keys input.Snapshot, act Actuators) {
	moving := keys.HeldAny(a.movementKeys)

	if moving && !a.controlActive {
		a.seize(act)
	} else if !moving && a.controlActive {
		a.release()
	}

	if a.controlActive {
		a.integrate(keys)
	}

	a.latchGripper(keys)

	// Solve every step, whether the cursor just moved or is stale. The
	// wrist-pitch rotation of the fixed tip is projected back onto the
	// 2-link solve point.
	yComp := a.eeY + a.tipLength*math.Sin(a.pitch)
	j2, j3 := a.linkage.Inverse(a.eeX, yComp)
	a.targetJoints[1] = j2
	a.targetJoints[2] = j3
	// Wrist pitch is an offset from the forearm angle, not absolute.
	a.targetJoints[3] = j2 - j3 + a.pitch

	if a.controlActive {
		for i := 0; i < len(a.targetJoints)-1; i++ {
			act.SetCommand(a.indices[i], a.targetJoints[i])
		}
	}

	// The gripper latch is independent of who owns the pose; its
	// actuator is written every step, in every state.
	last := len(a.targetJoints) - 1
	g := a.gripClosed
	if a.gripperOpen {
		g = a.gripOpen
	}
	a.targetJoints[last] = g
	act.SetCommand(a.indices[last], g)
}

// seize makes the keyboard the active input source. Internal state is
// resynchronized from the actuators' current commanded values, not
// from stale memory, so it does not matter what last set the pose.
func (a *armState) seize(act Actuators) {
	for i, idx := range a.indices {
		a.targetJoints[i] = act.Command(idx)
	}
	a.pitch = a.targetJoints[3] - a.targetJoints[1] + a.targetJoints[2]
	x, y := a.linkage.Forward(a.targetJoints[1], a.targetJoints[2])
	a.eeX = x
	a.eeY = y - a.tipLength*math.Sin(a.pitch)

	a.controlActive = true
	a.ikWasEnabled = false
	if a.gizmo != nil && a.gizmo.Enabled() {
		// Two input sources must never fight over the same actuators
		// within a step.
		a.ikWasEnabled = true
		a.gizmo.SetEnabled(false)
	}
}

// release hands the pose back. If the gizmo was enabled at seizure it
// is re-targeted to the arm's current pose before being re-enabled.
func (a *armState) release() {
	if a.ikWasEnabled && a.gizmo != nil {
		a.gizmo.SyncToSite()
		a.gizmo.SetEnabled(true)
	}
	a.ikWasEnabled = false
	a.controlActive = false
}

func (a *armState) integrate(keys input.Snapshot) {
	k := a.keys
	if keys.Held(k.RotatePos) {
		a.targetJoints[0] += JointStep
	}
	if keys.Held(k.RotateNeg) {
		a.targetJoints[0] -= JointStep
	}
	if keys.Held(k.XPos) {
		a.eeX += EEStep
	}
	if keys.Held(k.XNeg) {
		a.eeX -= EEStep
	}
	if keys.Held(k.YPos) {
		a.eeY += EEStep
	}
	if keys.Held(k.YNeg) {
		a.eeY -= EEStep
	}
	if keys.Held(k.PitchPos) {
		a.pitch += PitchStep
	}
	if keys.Held(k.PitchNeg) {
		a.pitch -= PitchStep
	}
	if keys.Held(k.RollPos) {
		a.targetJoints[4] += RollStep
	}
	if keys.Held(k.RollNeg) {
		a.targetJoints[4] -= RollStep
	}
}

// latchGripper flips the gripper latch on the rising edge of its key
// only, never while the key stays held.
func (a *armState) latchGripper(keys input.Snapshot) {
	down := keys.Held(a.keys.Gripper)
	if down && !a.gripperKeyWasDown {
		a.gripperOpen = !a.gripperOpen
	}
	a.gripperKeyWasDown = down
}

type baseState struct {
	cfg   BaseConfig
	speed float64

	linearActive  bool
	angularActive bool
}

// step does a three-way level check per drive axis. Zero is written
// once on the step following release, not on every idle step.
func (b *baseState) step(keys input.Snapshot, act Actuators) {
	k := b.cfg.Keys

	switch {
	case keys.Held(k.Forward):
		act.SetCommand(b.cfg.Indices[0], b.speed)
		b.linearActive = true
	case keys.Held(k.Back):
		act.SetCommand(b.cfg.Indices[0], -b.speed)
		b.linearActive = true
	default:
		if b.linearActive {
			act.SetCommand(b.cfg.Indices[0], 0)
			b.linearActive = false
		}
	}

	switch {
	case keys.Held(k.TurnLeft):
		act.SetCommand(b.cfg.Indices[1], b.speed)
		b.angularActive = true
	case keys.Held(k.TurnRight):
		act.SetCommand(b.cfg.Indices[1], -b.speed)
		b.angularActive = true
	default:
		if b.angularActive {
			act.SetCommand(b.cfg.Indices[1], 0)
			b.angularActive = false
		}
	}
}

type headState struct {
	cfg    HeadConfig
	angles [2]float64 // pan, tilt accumulators, unclamped
}

// step integrates head pan/tilt open loop. No handoff logic: nothing
// else competes for the head.
func (h *headState) step(keys input.Snapshot, act Actuators) {
	k := h.cfg.Keys

	switch {
	case keys.Held(k.PanPos):
		h.angles[0] += HeadStep
		act.SetCommand(h.cfg.Indices[0], h.angles[0])
	case keys.Held(k.PanNeg):
		h.angles[0] -= HeadStep
		act.SetCommand(h.cfg.Indices[0], h.angles[0])
	}

	switch {
	case keys.Held(k.TiltPos):
		h.angles[1] += HeadStep
		act.SetCommand(h.cfg.Indices[1], h.angles[1])
	case keys.Held(k.TiltNeg):
		h.angles[1] -= HeadStep
		act.SetCommand(h.cfg.Indices[1], h.angles[1])
	}
}
