package robot

import (
	"math"
	"testing"
)

func TestMotorCalibration_RawFromRadians(t *testing.T) {
	cal := MotorCalibration{
		HomingOffset: 2048,
		RangeMin:     0,
		RangeMax:     4095,
	}

	tests := []struct {
		rad      float64
		expected int
	}{
		{0, 2048},                // zero angle -> homing offset
		{math.Pi / 2, 2048 + 1024}, // quarter turn
		{-math.Pi / 2, 2048 - 1024},
		{math.Pi, 4095},          // half turn clamps at range max
	}

	for _, tt := range tests {
		got := cal.RawFromRadians(tt.rad)
		if got != tt.expected {
			t.Errorf("RawFromRadians(%f) = %d, want %d", tt.rad, got, tt.expected)
		}
	}
}

func TestMotorCalibration_RangeClamp(t *testing.T) {
	cal := MotorCalibration{
		HomingOffset: 2048,
		RangeMin:     1000,
		RangeMax:     3000,
	}

	if got := cal.RawFromRadians(10); got != 3000 {
		t.Errorf("RawFromRadians(10) = %d, want clamp to 3000", got)
	}
	if got := cal.RawFromRadians(-10); got != 1000 {
		t.Errorf("RawFromRadians(-10) = %d, want clamp to 1000", got)
	}
}

func TestMotorCalibration_RoundTrip(t *testing.T) {
	cal := MotorCalibration{
		HomingOffset: 1823,
		RangeMin:     0,
		RangeMax:     4095,
	}

	for rad := -2.0; rad <= 2.0; rad += 0.25 {
		raw := cal.RawFromRadians(rad)
		back := cal.RadiansFromRaw(raw)
		// One raw tick is ~0.0015 rad.
		if math.Abs(back-rad) > 0.002 {
			t.Errorf("round trip failed: %f -> %d -> %f", rad, raw, back)
		}
	}
}

func TestCalibration_MotorIDs(t *testing.T) {
	cal := Calibration{
		Rotation:     MotorCalibration{ID: 1},
		ShoulderLift: MotorCalibration{ID: 2},
		ElbowFlex:    MotorCalibration{ID: 3},
		WristPitch:   MotorCalibration{ID: 4},
		WristRoll:    MotorCalibration{ID: 5},
		Gripper:      MotorCalibration{ID: 6},
	}

	ids := cal.MotorIDs()
	expected := []int{1, 2, 3, 4, 5, 6}

	if len(ids) != len(expected) {
		t.Fatalf("MotorIDs returned %d IDs, want %d", len(ids), len(expected))
	}

	for i, id := range ids {
		if id != expected[i] {
			t.Errorf("MotorIDs()[%d] = %d, want %d", i, id, expected[i])
		}
	}
}

func TestCalibration_ByID(t *testing.T) {
	cal := Calibration{
		Rotation: MotorCalibration{ID: 1, RangeMin: 100, RangeMax: 200},
		Gripper:  MotorCalibration{ID: 6, RangeMin: 300, RangeMax: 400},
	}

	name, mc, ok := cal.ByID(1)
	if !ok {
		t.Fatal("ByID(1) returned false")
	}
	if name != Rotation {
		t.Errorf("ByID(1) returned name %s, want rotation", name)
	}
	if mc.RangeMin != 100 {
		t.Errorf("ByID(1) returned wrong calibration: %+v", mc)
	}

	_, _, ok = cal.ByID(99)
	if ok {
		t.Error("ByID(99) should return false")
	}
}
