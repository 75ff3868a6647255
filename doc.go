// Package teleoparm provides keyboard teleoperation for a robot with
// planar 2-link arms, a differential base, and a pan/tilt head.
//
// The core is a per-step controller that converts a 2-D end-effector
// cursor into joint angles through closed-form inverse kinematics and
// arbitrates, frame by frame, between keyboard control and an external
// IK gizmo without discontinuity in the commanded pose.
//
// # Installation
//
//	go install github.com/gwillem/teleoparm/cmd/teleoparm@latest
//
// # Usage
//
// Write a default robot configuration, then start teleoperating:
//
//	teleoparm init
//	teleoparm run
//
// To mirror the commanded pose onto a physical servo arm, calibrate it
// first:
//
//	teleoparm setup
//	teleoparm run --mirror
//
// # Packages
//
// The module is organized into the following packages:
//
//   - cmd/teleoparm: CLI with run, setup, and init commands
//   - pkg/kinematics: closed-form 2-link planar IK/FK
//   - pkg/input: held-key snapshots, bindings, and the key tracker
//   - pkg/teleop: the per-step controller and runtime loop
//   - pkg/sim: minimal fixed-rate stepping engine
//   - pkg/robot: optional hardware mirror over a serial servo bus
package teleoparm
