package teleop

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/gwillem/teleoparm/pkg/input"
	"github.com/gwillem/teleoparm/pkg/kinematics"
)

const DefaultConfigFile = "teleoparm.json"

// Per-step increments. These are fixed per-call amounts, not scaled by
// elapsed time: the commanded rate follows the engine's step cadence.
const (
	JointStep = 0.01   // rad per step for directly driven joints
	RollStep  = 3 * JointStep
	EEStep    = 0.0015 // m per step per axis for the end-effector cursor
	PitchStep = 0.01   // rad per step for the wrist pitch accumulator
	HeadStep  = 0.01   // rad per step for head pan/tilt
)

// DefaultBaseSpeed is the drive command written while a base key is
// held, used when BaseConfig.Speed is unset.
const DefaultBaseSpeed = 0.4

// Default end-effector cursor for arms configured without initial
// joint angles.
const (
	DefaultEEX = 0.162
	DefaultEEY = 0.118
)

// Default gripper command angles, used when an arm config leaves both
// unset.
const (
	DefaultGripperOpen   = 0.6
	DefaultGripperClosed = 0.0
)

// ArmConfig describes one keyboard-driven arm. Indices lists the
// arm's actuator ids in order [rotation, shoulder, elbow, wrist pitch,
// wrist roll, ..., gripper]; the last entry is always the gripper.
type ArmConfig struct {
	Indices []int         `json:"indices"`
	Keys    input.ArmKeys `json:"keys"`

	// InitJoints, when present, seeds the arm's joint targets directly
	// and the end-effector cursor is back-derived through forward
	// kinematics. When absent the cursor starts at the default pose
	// (solved through inverse kinematics) with InitRotation/InitRoll
	// seeding the two non-IK joints.
	InitJoints   []float64 `json:"init_joints,omitempty"`
	InitRotation float64   `json:"init_rotation,omitempty"`
	InitRoll     float64   `json:"init_roll,omitempty"`

	// Linkage overrides the stock arm geometry.
	Linkage *kinematics.Linkage `json:"linkage,omitempty"`

	// TipLength is the fixed tip segment projected back onto the
	// 2-link solve point when the wrist pitches.
	TipLength float64 `json:"tip_length,omitempty"`

	GripperOpen   float64 `json:"gripper_open,omitempty"`
	GripperClosed float64 `json:"gripper_closed,omitempty"`
}

func (c *ArmConfig) validate() error {
	if len(c.Indices) < 6 {
		return fmt.Errorf("arm: need at least 6 actuator indices, got %d", len(c.Indices))
	}
	if err := c.Keys.Validate(); err != nil {
		return err
	}
	if c.InitJoints != nil && len(c.InitJoints) != len(c.Indices) {
		return fmt.Errorf("arm: init_joints has %d entries for %d actuators", len(c.InitJoints), len(c.Indices))
	}
	if c.Linkage != nil {
		if err := c.Linkage.Validate(); err != nil {
			return err
		}
	}
	if c.TipLength < 0 {
		return fmt.Errorf("arm: tip_length must not be negative, got %v", c.TipLength)
	}
	return nil
}

func (c *ArmConfig) linkage() kinematics.Linkage {
	if c.Linkage != nil {
		return *c.Linkage
	}
	return kinematics.Default()
}

func (c *ArmConfig) gripperAngles() (open, closed float64) {
	if c.GripperOpen == 0 && c.GripperClosed == 0 {
		return DefaultGripperOpen, DefaultGripperClosed
	}
	return c.GripperOpen, c.GripperClosed
}

// BaseConfig describes the mobile base's two drive actuators
// (linear, angular).
type BaseConfig struct {
	Indices [2]int         `json:"indices"`
	Keys    input.BaseKeys `json:"keys"`
	Speed   float64        `json:"speed,omitempty"`
}

func (c *BaseConfig) validate() error {
	return c.Keys.Validate()
}

func (c *BaseConfig) speed() float64 {
	if c.Speed <= 0 {
		return DefaultBaseSpeed
	}
	return c.Speed
}

// HeadConfig describes the 2-DOF head (pan, tilt).
type HeadConfig struct {
	Indices [2]int         `json:"indices"`
	Keys    input.HeadKeys `json:"keys"`
}

func (c *HeadConfig) validate() error {
	return c.Keys.Validate()
}

// Config is the full per-robot teleoperation configuration.
type Config struct {
	Arms []ArmConfig `json:"arms"`
	Base *BaseConfig `json:"base,omitempty"`
	Head *HeadConfig `json:"head,omitempty"`
}

// Validate checks every arm, base, and head record. A config that
// fails validation is a construction error, never silently truncated.
func (c *Config) Validate() error {
	for i := range c.Arms {
		if err := c.Arms[i].validate(); err != nil {
			return fmt.Errorf("arm %d: %w", i, err)
		}
	}
	if c.Base != nil {
		if err := c.Base.validate(); err != nil {
			return err
		}
	}
	if c.Head != nil {
		if err := c.Head.validate(); err != nil {
			return err
		}
	}
	return nil
}

// LoadConfig loads configuration from the default config file.
func LoadConfig() (*Config, error) {
	return LoadConfigFrom(DefaultConfigFile)
}

// LoadConfigFrom loads configuration from a specific file.
func LoadConfigFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return &cfg, nil
}

// Save saves configuration to the default config file.
func (c *Config) Save() error {
	return c.SaveTo(DefaultConfigFile)
}

// SaveTo saves configuration to a specific file.
func (c *Config) SaveTo(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ConfigExists returns true if the default config file exists.
func ConfigExists() bool {
	_, err := os.Stat(DefaultConfigFile)
	return err == nil
}

// DefaultConfig returns a single-arm desktop setup with WASD-style
// bindings, a base on arrow keys, and a head on IJKL.
func DefaultConfig() *Config {
	return &Config{
		Arms: []ArmConfig{{
			Indices: []int{0, 1, 2, 3, 4, 5},
			Keys: input.ArmKeys{
				RotatePos: "q", RotateNeg: "e",
				XPos: "d", XNeg: "a",
				YPos: "w", YNeg: "s",
				PitchPos: "r", PitchNeg: "f",
				RollPos: "t", RollNeg: "g",
				Gripper: "z",
			},
			TipLength: 0.108,
		}},
		Base: &BaseConfig{
			Indices: [2]int{6, 7},
			Keys: input.BaseKeys{
				Forward: "up", Back: "down",
				TurnLeft: "left", TurnRight: "right",
			},
		},
		Head: &HeadConfig{
			Indices: [2]int{8, 9},
			Keys: input.HeadKeys{
				PanPos: "j", PanNeg: "l",
				TiltPos: "i", TiltNeg: "k",
			},
		},
	}
}
