package robot

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
)

// TicksPerRev is the servo encoder resolution: raw positions cover one
// full revolution in 4096 counts.
const TicksPerRev = 4096

// MotorCalibration holds calibration data for a single motor. The
// homing offset is the raw position of the motor's zero angle; the
// range is the recorded mechanical travel in raw counts.
type MotorCalibration struct {
	ID           int `json:"id"`
	HomingOffset int `json:"homing_offset"`
	RangeMin     int `json:"range_min"`
	RangeMax     int `json:"range_max"`
}

// Calibration holds calibration data for all motors, keyed by motor name.
type Calibration map[MotorName]MotorCalibration

// LoadCalibration loads calibration data from a JSON file.
func LoadCalibration(path string) (Calibration, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read calibration file: %w", err)
	}

	var raw map[string]MotorCalibration
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse calibration JSON: %w", err)
	}

	cal := make(Calibration, len(raw))
	for name, mc := range raw {
		cal[MotorName(name)] = mc
	}

	return cal, nil
}

// RawFromRadians converts a joint angle to a raw servo position,
// clamped to the motor's recorded mechanical range.
func (c MotorCalibration) RawFromRadians(rad float64) int {
	raw := c.HomingOffset + int(rad/(2*math.Pi)*TicksPerRev)
	if raw < c.RangeMin {
		return c.RangeMin
	}
	if raw > c.RangeMax {
		return c.RangeMax
	}
	return raw
}

// RadiansFromRaw converts a raw servo position back to a joint angle.
func (c MotorCalibration) RadiansFromRaw(raw int) float64 {
	return float64(raw-c.HomingOffset) / TicksPerRev * 2 * math.Pi
}

// MotorIDs returns the servo IDs for all motors in the calibration.
func (c Calibration) MotorIDs() []int {
	ids := make([]int, 0, len(c))
	// Use AllMotors() to ensure consistent ordering
	for _, name := range AllMotors() {
		if mc, ok := c[name]; ok {
			ids = append(ids, mc.ID)
		}
	}
	return ids
}

// ByID returns motor name and calibration for a given servo ID.
func (c Calibration) ByID(id int) (MotorName, MotorCalibration, bool) {
	for name, mc := range c {
		if mc.ID == id {
			return name, mc, true
		}
	}
	return "", MotorCalibration{}, false
}
