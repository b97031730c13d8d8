package tracing

import "math"

// StoppingCriterion is evaluated once per accepted integration step with
// the post-step iteration count, step size, time and coordinate-transformed
// state. It returns true exactly when its bound is violated. Criteria may
// be stateful; they are not shared between concurrent trajectories.
type StoppingCriterion interface {
	Stop(iter int, dt, t float64, y State) bool
}

// IterationCriterion stops after a fixed number of accepted steps.
type IterationCriterion struct {
	Max int
}

func (c *IterationCriterion) Stop(iter int, dt, t float64, y State) bool {
	return iter >= c.Max
}

// MaxToroidalFluxCriterion stops once the flux label s exceeds Max.
type MaxToroidalFluxCriterion struct {
	Max float64
}

func (c *MaxToroidalFluxCriterion) Stop(iter int, dt, t float64, y State) bool {
	return y[0] >= c.Max
}

// MinToroidalFluxCriterion stops once the flux label s falls below Min.
type MinToroidalFluxCriterion struct {
	Min float64
}

func (c *MinToroidalFluxCriterion) Stop(iter int, dt, t float64, y State) bool {
	return y[0] <= c.Min
}

// ToroidalTransitCriterion stops after the unwrapped toroidal angle has
// advanced by Max full transits in either direction. For flux-coordinate
// states the angle is the zeta component; otherwise it is tracked from the
// (x, y) components with branch-cut unwrapping. Stateful: it remembers the
// initial angle of the trajectory.
type ToroidalTransitCriterion struct {
	Max  int
	Flux bool

	started bool
	phiInit float64
	phiLast float64
}

func (c *ToroidalTransitCriterion) Stop(iter int, dt, t float64, y State) bool {
	var phi float64
	if c.Flux {
		phi = y[2]
	} else {
		near := c.phiLast
		if !c.started {
			near = math.Pi
		}
		phi = GetPhi(y[0], y[1], near)
	}
	if !c.started {
		c.phiInit = phi
		c.started = true
	}
	c.phiLast = phi
	return math.Abs(phi-c.phiInit) >= 2*math.Pi*float64(c.Max)
}

// VparCriterion stops once |vpar| exceeds Bound.
type VparCriterion struct {
	Bound float64
}

func (c *VparCriterion) Stop(iter int, dt, t float64, y State) bool {
	return math.Abs(y[3]) >= c.Bound
}

// ZetaCriterion stops once the unwrapped toroidal angle component exceeds
// Bound in magnitude.
type ZetaCriterion struct {
	Bound float64
}

func (c *ZetaCriterion) Stop(iter int, dt, t float64, y State) bool {
	return math.Abs(y[2]) >= c.Bound
}

// LevelsetCriterion stops when a caller-supplied level-set function of the
// state changes sign relative to its value at the first step. An exact
// zero does not trigger. Stateful: it captures the initial sign.
type LevelsetCriterion struct {
	F func(y State) float64

	started bool
	signPos bool
}

func (c *LevelsetCriterion) Stop(iter int, dt, t float64, y State) bool {
	v := c.F(y)
	if !c.started {
		c.started = true
		c.signPos = v > 0
		return false
	}
	if v == 0 {
		return false
	}
	return (v > 0) != c.signPos
}

// StepSizeCriterion stops once the accepted step size falls below Min.
type StepSizeCriterion struct {
	Min float64
}

func (c *StepSizeCriterion) Stop(iter int, dt, t float64, y State) bool {
	return dt < c.Min
}
