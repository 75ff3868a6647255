package teleop

// Actuators is the controller's view of the simulation engine's
// actuator-command array: read back the last commanded value and write
// a new one, both keyed by integer actuator id. The engine owns the
// array; the controller only touches it inside Step.
type Actuators interface {
	Command(i int) float64
	SetCommand(i int, v float64)
}

// Gizmo is the optional external inverse-kinematics subsystem that can
// own an arm's pose while the keyboard is idle. A nil Gizmo is a valid
// state: the arm then simply holds position when no keys are held.
type Gizmo interface {
	// Enabled reports whether the gizmo currently drives the arm.
	Enabled() bool
	// SetEnabled toggles the gizmo on or off.
	SetEnabled(on bool)
	// SyncToSite re-targets the gizmo to the arm's current pose so
	// re-enabling it does not jump.
	SyncToSite()
}
