package tracing

import "math"

// State is a trajectory state vector. Its length is fixed by the RHS model
// and never changes during integration.
type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// GetPhi returns the angle of (x, y), unwrapped to the 2*pi branch nearest
// to phiNear. The result is always within pi of phiNear and equals
// atan2(y, x) modulo 2*pi. Tracking an angle through successive calls with
// the previous result as phiNear yields a continuous unwrapped angle
// without explicit winding-number bookkeeping.
func GetPhi(x, y, phiNear float64) float64 {
	phi := math.Atan2(y, x)
	if phi < 0 {
		phi += 2 * math.Pi
	}
	nearestMultiple := math.Round(phiNear/(2*math.Pi)) * 2 * math.Pi
	opt1 := nearestMultiple - 2*math.Pi + phi
	opt2 := nearestMultiple + phi
	opt3 := nearestMultiple + 2*math.Pi + phi
	dist1 := math.Abs(opt1 - phiNear)
	dist2 := math.Abs(opt2 - phiNear)
	dist3 := math.Abs(opt3 - phiNear)
	if dist1 <= math.Min(dist2, dist3) {
		return opt1
	}
	if dist2 <= math.Min(dist1, dist3) {
		return opt2
	}
	return opt3
}

// AxisMode selects how the first two state components map to the flux
// coordinates (s, theta). The Cartesian-like modes regularize the
// coordinate singularity at the magnetic axis s=0.
type AxisMode int

const (
	// AxisStandard stores (s, theta) directly.
	AxisStandard AxisMode = 0
	// AxisSqrtS stores (x, y) with x^2+y^2 = s.
	AxisSqrtS AxisMode = 1
	// AxisS stores (x, y) with sqrt(x^2+y^2) = s.
	AxisS AxisMode = 2
)

// FluxCoords recovers (s, theta) from the first two components of y.
func (m AxisMode) FluxCoords(y State) (s, theta float64) {
	switch m {
	case AxisSqrtS:
		return y[0]*y[0] + y[1]*y[1], math.Atan2(y[1], y[0])
	case AxisS:
		return math.Sqrt(y[0]*y[0] + y[1]*y[1]), math.Atan2(y[1], y[0])
	default:
		return y[0], y[1]
	}
}

// Regularized maps (s, theta) into the mode's first two state components.
func (m AxisMode) Regularized(s, theta float64) (c0, c1 float64) {
	sin, cos := math.Sincos(theta)
	switch m {
	case AxisSqrtS:
		return math.Sqrt(s) * cos, math.Sqrt(s) * sin
	case AxisS:
		return s * cos, s * sin
	default:
		return s, theta
	}
}

// DerivRegularized converts (ds/dt, dtheta/dt) into the time derivative of
// the mode's first two state components by the chain rule.
func (m AxisMode) DerivRegularized(s, theta, sdot, tdot float64) (d0, d1 float64) {
	sin, cos := math.Sincos(theta)
	switch m {
	case AxisSqrtS:
		sq := math.Sqrt(s)
		return sdot*cos/(2*sq) - sq*sin*tdot, sdot*sin/(2*sq) + sq*cos*tdot
	case AxisS:
		return sdot*cos - s*sin*tdot, sdot*sin + s*cos*tdot
	default:
		return sdot, tdot
	}
}

// transformOut copies y with the first two components mapped back to
// (s, theta) for output. For AxisStandard the state is returned as is.
func (m AxisMode) transformOut(y State) State {
	out := y.Clone()
	if m == AxisStandard {
		return out
	}
	out[0], out[1] = m.FluxCoords(y)
	return out
}
