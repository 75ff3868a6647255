package kinematics

import (
	"math"
	"testing"
)

// wideLinkage has joint ranges loose enough that the range clamps never
// fire, isolating the trigonometric core.
func wideLinkage() Linkage {
	return Linkage{
		L1:          0.1159,
		L2:          0.1350,
		Joint2Range: Range{Min: -10, Max: 10},
		Joint3Range: Range{Min: -10, Max: 10},
	}
}

func TestInverse_RoundTripWithinReach(t *testing.T) {
	l := wideLinkage()

	// Sample radii strictly inside the annulus across many directions.
	radii := []float64{
		l.ReachMin() + 0.001,
		0.05, 0.1, 0.15, 0.2,
		l.ReachMax() - 0.001,
	}
	for _, r := range radii {
		for deg := 0; deg < 360; deg += 15 {
			a := float64(deg) * math.Pi / 180
			x, y := r*math.Cos(a), r*math.Sin(a)

			j2, j3 := l.Inverse(x, y)
			gx, gy := l.Forward(j2, j3)

			if math.Abs(gx-x) > 1e-9 || math.Abs(gy-y) > 1e-9 {
				t.Errorf("round trip (%.4f, %.4f): got (%.6f, %.6f)", x, y, gx, gy)
			}
		}
	}
}

func TestInverse_RoundTripWithOffsets(t *testing.T) {
	l := wideLinkage()
	l.Theta1Offset = 0.247
	l.Theta2Offset = 0.285

	x, y := 0.12, 0.09
	j2, j3 := l.Inverse(x, y)
	gx, gy := l.Forward(j2, j3)
	if math.Abs(gx-x) > 1e-9 || math.Abs(gy-y) > 1e-9 {
		t.Errorf("round trip with offsets: got (%.6f, %.6f), want (%.6f, %.6f)", gx, gy, x, y)
	}
}

func TestInverse_ClampBeyondMaxReach(t *testing.T) {
	l := wideLinkage()

	// A target far outside reach resolves to full extension along the
	// same direction.
	dirs := [][2]float64{{1, 0}, {0, 1}, {-1, 0}, {0, -1}, {3, 4}, {-2, 5}}
	for _, d := range dirs {
		n := math.Hypot(d[0], d[1])
		ux, uy := d[0]/n, d[1]/n

		j2, j3 := l.Inverse(ux*10, uy*10)
		gx, gy := l.Forward(j2, j3)

		wx, wy := ux*l.ReachMax(), uy*l.ReachMax()
		if math.Abs(gx-wx) > 1e-9 || math.Abs(gy-wy) > 1e-9 {
			t.Errorf("dir (%v, %v): got (%.6f, %.6f), want (%.6f, %.6f)", d[0], d[1], gx, gy, wx, wy)
		}
	}
}

func TestInverse_ClampBelowMinReach(t *testing.T) {
	l := wideLinkage()
	rMin := l.ReachMin()

	// A nonzero target inside the retraction radius resolves to rMin
	// along the same direction.
	j2, j3 := l.Inverse(rMin/3, rMin/4)
	gx, gy := l.Forward(j2, j3)

	n := math.Hypot(rMin/3, rMin/4)
	wx, wy := (rMin/3)/n*rMin, (rMin/4)/n*rMin
	if math.Abs(gx-wx) > 1e-9 || math.Abs(gy-wy) > 1e-9 {
		t.Errorf("retraction clamp: got (%.6f, %.6f), want (%.6f, %.6f)", gx, gy, wx, wy)
	}
}

func TestInverse_DegenerateOrigin(t *testing.T) {
	l := wideLinkage()

	// (0, 0) is passed through unscaled: no division by zero, no NaN.
	j2, j3 := l.Inverse(0, 0)
	if math.IsNaN(j2) || math.IsNaN(j3) {
		t.Fatalf("origin target produced NaN: (%v, %v)", j2, j3)
	}
}

func TestInverse_AcosGuardAtBoundary(t *testing.T) {
	l := wideLinkage()

	// Exactly at full extension and full retraction the law-of-cosines
	// argument lands on ±1; floating-point overshoot must not yield NaN.
	for _, r := range []float64{l.ReachMax(), l.ReachMin()} {
		j2, j3 := l.Inverse(r, 0)
		if math.IsNaN(j2) || math.IsNaN(j3) {
			t.Errorf("r=%v produced NaN: (%v, %v)", r, j2, j3)
		}
	}
}

func TestInverse_RangeClampIsLossy(t *testing.T) {
	l := wideLinkage()
	l.Joint3Range = Range{Min: 0, Max: 0.5}

	// A deep-elbow target forces joint3 against its limit; the result is
	// clamped silently and no longer reproduces the request.
	j2, j3 := l.Inverse(0.05, 0.02)
	if j3 != 0.5 {
		t.Fatalf("joint3 = %v, want clamp to 0.5", j3)
	}
	_ = j2
}

func TestInverse_DefaultLinkagePose(t *testing.T) {
	l := Default()

	// Default end-effector target of the stock arm.
	j2, j3 := l.Inverse(0.162, 0.118)
	if math.Abs(j2-1.5817) > 1e-3 {
		t.Errorf("joint2 = %.4f, want 1.5817", j2)
	}
	if math.Abs(j3-1.5804) > 1e-3 {
		t.Errorf("joint3 = %.4f, want 1.5804", j3)
	}
}

func TestLinkage_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Linkage)
		wantErr bool
	}{
		{"valid", func(l *Linkage) {}, false},
		{"zero l1", func(l *Linkage) { l.L1 = 0 }, true},
		{"negative l2", func(l *Linkage) { l.L2 = -1 }, true},
		{"inverted joint2 range", func(l *Linkage) { l.Joint2Range = Range{Min: 1, Max: -1} }, true},
		{"inverted joint3 range", func(l *Linkage) { l.Joint3Range = Range{Min: 2, Max: 1} }, true},
	}

	for _, tt := range tests {
		l := Default()
		tt.mutate(&l)
		err := l.Validate()
		if (err != nil) != tt.wantErr {
			t.Errorf("%s: Validate() = %v, wantErr %v", tt.name, err, tt.wantErr)
		}
	}
}

func TestRange_Clamp(t *testing.T) {
	r := Range{Min: -1, Max: 2}

	tests := []struct {
		in, want float64
	}{
		{-5, -1},
		{-1, -1},
		{0, 0},
		{2, 2},
		{7, 2},
	}
	for _, tt := range tests {
		if got := r.Clamp(tt.in); got != tt.want {
			t.Errorf("Clamp(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
