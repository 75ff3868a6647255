// Package robot mirrors the engine's commanded joint angles onto a
// physical servo arm over a serial bus.
package robot

// MotorName identifies a motor in the arm.
type MotorName string

// Motor names for the 6-axis arm, in actuator-index order.
const (
	Rotation     MotorName = "rotation"
	ShoulderLift MotorName = "shoulder_lift"
	ElbowFlex    MotorName = "elbow_flex"
	WristPitch   MotorName = "wrist_pitch"
	WristRoll    MotorName = "wrist_roll"
	Gripper      MotorName = "gripper"
)

// AllMotors returns all motor names in order (matching servo IDs 1-6).
func AllMotors() []MotorName {
	return []MotorName{
		Rotation,
		ShoulderLift,
		ElbowFlex,
		WristPitch,
		WristRoll,
		Gripper,
	}
}
