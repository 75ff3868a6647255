// Package kinematics implements closed-form kinematics for a 2-link
// planar linkage (upper arm + forearm), the geometry used by the arm's
// shoulder-lift and elbow joints.
package kinematics

import (
	"fmt"
	"math"
)

// Range is an ordered [Min, Max] joint limit in radians.
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Clamp returns v limited to the range.
func (r Range) Clamp(v float64) float64 {
	if v < r.Min {
		return r.Min
	}
	if v > r.Max {
		return r.Max
	}
	return v
}

// Linkage holds the immutable geometry of a 2-link planar arm.
// L1 and L2 are the upper-arm and forearm lengths in meters. The
// offsets account for the mechanical zero-position skew of the real
// arm, and the ranges are the hard joint limits applied to the solver
// output.
type Linkage struct {
	L1           float64 `json:"l1"`
	L2           float64 `json:"l2"`
	Theta1Offset float64 `json:"theta1_offset"`
	Theta2Offset float64 `json:"theta2_offset"`
	Joint2Range  Range   `json:"joint2_range"`
	Joint3Range  Range   `json:"joint3_range"`
}

// Default returns the linkage geometry of the stock 6-axis arm.
func Default() Linkage {
	return Linkage{
		L1:           0.1159,
		L2:           0.1350,
		Theta1Offset: 0.247,
		Theta2Offset: 0.285,
		Joint2Range:  Range{Min: -0.1, Max: 3.45},
		Joint3Range:  Range{Min: -0.2, Max: math.Pi},
	}
}

// Validate checks the linkage invariants.
func (l Linkage) Validate() error {
	if l.L1 <= 0 {
		return fmt.Errorf("linkage: l1 must be positive, got %v", l.L1)
	}
	if l.L2 <= 0 {
		return fmt.Errorf("linkage: l2 must be positive, got %v", l.L2)
	}
	if l.Joint2Range.Min > l.Joint2Range.Max {
		return fmt.Errorf("linkage: joint2 range min %v > max %v", l.Joint2Range.Min, l.Joint2Range.Max)
	}
	if l.Joint3Range.Min > l.Joint3Range.Max {
		return fmt.Errorf("linkage: joint3 range min %v > max %v", l.Joint3Range.Min, l.Joint3Range.Max)
	}
	return nil
}

// ReachMax returns the full-extension radius of the linkage.
func (l Linkage) ReachMax() float64 { return l.L1 + l.L2 }

// ReachMin returns the full-retraction radius of the linkage.
func (l Linkage) ReachMin() float64 { return math.Abs(l.L1 - l.L2) }

// Inverse solves the 2-link planar inverse kinematics for a target
// (x, y) in the linkage frame. Targets outside the reachable annulus
// are projected onto its boundary along the same direction before
// solving. The only elbow configuration produced is elbow-forward.
//
// The returned angles include the mechanical offsets and are clamped
// to the configured joint ranges; a clamped result may no longer
// reproduce the requested position under Forward. That is accepted
// lossy behavior at the hard limits, not an error.
func (l Linkage) Inverse(x, y float64) (joint2, joint3 float64) {
	r := math.Sqrt(x*x + y*y)
	rMax := l.ReachMax()
	rMin := l.ReachMin()

	if r > rMax {
		s := rMax / r
		x *= s
		y *= s
		r = rMax
	} else if r < rMin && r > 0 {
		// r == 0 is deliberately passed through unscaled; the joint
		// range clamps below absorb the resulting angle.
		s := rMin / r
		x *= s
		y *= s
		r = rMin
	}

	cosTheta2 := -(r*r - l.L1*l.L1 - l.L2*l.L2) / (2 * l.L1 * l.L2)
	// Guard acos against floating-point overshoot at the boundary.
	cosTheta2 = math.Max(-1, math.Min(1, cosTheta2))
	theta2 := math.Pi - math.Acos(cosTheta2)

	beta := math.Atan2(y, x)
	gamma := math.Atan2(l.L2*math.Sin(theta2), l.L1+l.L2*math.Cos(theta2))
	theta1 := beta + gamma

	joint2 = l.Joint2Range.Clamp(theta1 + l.Theta1Offset)
	joint3 = l.Joint3Range.Clamp(theta2 + l.Theta2Offset)
	return joint2, joint3
}

// Forward computes the end-effector position for a pair of joint
// angles. It is the exact trigonometric inverse of Inverse absent the
// reachability and joint-range clamps.
func (l Linkage) Forward(joint2, joint3 float64) (x, y float64) {
	theta1 := joint2 - l.Theta1Offset
	theta2 := joint3 - l.Theta2Offset

	r := math.Sqrt(l.L1*l.L1 + l.L2*l.L2 + 2*l.L1*l.L2*math.Cos(theta2))
	gamma := math.Atan2(l.L2*math.Sin(theta2), l.L1+l.L2*math.Cos(theta2))
	beta := theta1 - gamma

	return r * math.Cos(beta), r * math.Sin(beta)
}
