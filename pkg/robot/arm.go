package robot

import (
	"context"
	"fmt"

	"github.com/hipsterbrown/feetech-servo/feetech"
)

// Arm is a physical servo arm on a serial bus.
type Arm struct {
	bus         *feetech.Bus
	group       *feetech.ServoGroup
	calibration Calibration
}

// NewArm opens the serial bus and builds the servo group from the
// calibration's motor IDs.
func NewArm(port string, cal Calibration) (*Arm, error) {
	bus, err := feetech.NewBus(feetech.BusConfig{
		Port:     port,
		BaudRate: 1_000_000,
		Protocol: feetech.ProtocolSTS,
	})
	if err != nil {
		return nil, fmt.Errorf("open bus: %w", err)
	}

	ids := cal.MotorIDs()
	group := feetech.NewServoGroupByIDs(bus, ids...)

	return &Arm{
		bus:         bus,
		group:       group,
		calibration: cal,
	}, nil
}

// Close closes the arm's bus connection.
func (a *Arm) Close() error {
	return a.bus.Close()
}

// Enable enables torque on all servos.
func (a *Arm) Enable(ctx context.Context) error {
	return a.group.EnableAll(ctx)
}

// Disable disables torque on all servos.
func (a *Arm) Disable(ctx context.Context) error {
	return a.group.DisableAll(ctx)
}

// ReadRadians reads current joint angles from all motors.
func (a *Arm) ReadRadians(ctx context.Context) (map[MotorName]float64, error) {
	rawPositions, err := a.group.Positions(ctx)
	if err != nil {
		return nil, fmt.Errorf("read positions: %w", err)
	}

	angles := make(map[MotorName]float64, len(rawPositions))
	for id, raw := range rawPositions {
		name, cal, ok := a.calibration.ByID(id)
		if !ok {
			continue
		}
		angles[name] = cal.RadiansFromRaw(raw)
	}

	return angles, nil
}

// WriteRadians writes target joint angles to all motors, clamped to
// each motor's calibrated range.
func (a *Arm) WriteRadians(ctx context.Context, angles map[MotorName]float64) error {
	rawPositions := make(feetech.PositionMap, len(angles))
	for name, rad := range angles {
		cal, ok := a.calibration[name]
		if !ok {
			continue
		}
		rawPositions[cal.ID] = cal.RawFromRadians(rad)
	}

	if err := a.group.SetPositions(ctx, rawPositions); err != nil {
		return fmt.Errorf("write positions: %w", err)
	}

	return nil
}

// CommandSource is the engine-side view the mirror reads from: the
// last commanded value per actuator id.
type CommandSource interface {
	Command(i int) float64
}

// Mirror copies an arm's commanded actuator values onto physical
// servos after each step. Indices maps motor order (AllMotors) to
// actuator ids in the engine's command array.
type Mirror struct {
	arm     *Arm
	indices []int
}

// NewMirror builds a mirror for one arm. indices must carry one
// actuator id per motor in AllMotors order.
func NewMirror(arm *Arm, indices []int) (*Mirror, error) {
	if len(indices) != len(AllMotors()) {
		return nil, fmt.Errorf("mirror: need %d actuator indices, got %d", len(AllMotors()), len(indices))
	}
	return &Mirror{arm: arm, indices: indices}, nil
}

// Sync writes the current commanded angles to the physical arm.
func (m *Mirror) Sync(ctx context.Context, src CommandSource) error {
	angles := make(map[MotorName]float64, len(m.indices))
	for i, name := range AllMotors() {
		angles[name] = src.Command(m.indices[i])
	}
	return m.arm.WriteRadians(ctx, angles)
}
