package tracing

import (
	"fmt"
	"math"

	"github.com/sominlee1211/simsopt/internal/integrators"
)

// Sample is one recorded trajectory point. For axis-regularized states the
// first two components are transformed back to (s, theta) on output.
type Sample struct {
	T float64
	Y State
}

// Event records a refined crossing. Kind identifies the source: index i
// into the angular-plane list, len(phis)+i for the i-th vpar plane, or
// -(1+i) when the i-th stopping criterion fired.
type Event struct {
	T    float64
	Kind int
	Y    State
}

// Result holds the two output sequences of a trace, both ordered by time.
type Result struct {
	Samples []Sample
	Hits    []Event
}

const rootMaxIter = 200

// solve drives rhs from y at t=0 to tmax through an adaptive dense-output
// stepper, recording samples and detecting crossings of vpar planes,
// (phi - omega*t) planes and stopping criteria. Event classes are checked
// in that fixed order after every accepted step; the first triggering
// event of a class requested to stop terminates the trajectory.
func solve(rhs RHS, y State, tmax, dt, dtmax, abstol, reltol float64,
	phis, omegas []float64, criteria []StoppingCriterion, vpars []float64,
	phisStop, vparsStop, forgetExactPath bool) (*Result, error) {

	if tmax <= 0 || abstol <= 0 || reltol <= 0 {
		return nil, ErrBadOptions
	}
	if len(omegas) == 0 && len(phis) > 0 {
		omegas = make([]float64, len(phis))
	}
	if len(omegas) != len(phis) {
		return nil, ErrBadOptions
	}

	res := &Result{}
	flux := rhs.Flux()
	axis := rhs.Axis()
	n := rhs.Dim()

	dense := integrators.NewDopri5(func(t float64, yy, dydt []float64) {
		rhs.Derive(t, State(yy), State(dydt))
	}, abstol, reltol, dtmax)

	t := 0.0
	dense.Init(y, t, dt)

	iter := 0
	stop := false
	var phiLast, vparLast, tLast float64
	if flux {
		tLast = t
		phiLast = y[2]
		vparLast = y[3]
	} else {
		phiLast = GetPhi(y[0], y[1], math.Pi)
	}
	var phiCurrent, vparCurrent, tCurrent float64

	bits := uint(-math.Log2(abstol))
	cur := y.Clone()
	tmp := make(State, n)

	// refine evaluates the dense output inside [a, b] to locate the zero of
	// f, returning the bracket endpoint whose residual is smaller.
	refine := func(f func(float64) float64, a, b, fa, fb float64) (float64, error) {
		lo, hi, err := integrators.FindRoot(f, a, b, fa, fb, bits, rootMaxIter)
		if err != nil {
			return 0, err
		}
		f0, f1 := f(lo), f(hi)
		if math.Abs(f0) < math.Abs(f1) {
			return lo, nil
		}
		return hi, nil
	}

	for {
		if !forgetExactPath || t == 0 {
			res.Samples = append(res.Samples, Sample{T: t, Y: axis.transformOut(cur)})
		}

		stepStart, stepEnd, err := dense.Step()
		if err != nil {
			return res, &TraceError{Step: iter, Time: t, Wrapped: err}
		}
		iter++
		t = dense.CurrentTime()
		dense.CurrentState(cur)
		tCurrent = t
		if flux {
			phiCurrent = cur[2]
			vparCurrent = cur[3]
		} else {
			phiCurrent = GetPhi(cur[0], cur[1], phiLast)
		}
		dt = stepEnd - stepStart

		// vpar-plane crossings: a strict sign change across the step gates
		// each root search.
		for i, vpar := range vpars {
			d0 := vparLast - vpar
			d1 := vparCurrent - vpar
			if d0 == 0 || d1 == 0 || (d0 > 0) == (d1 > 0) {
				continue
			}
			var denseErr error
			rootfun := func(tq float64) float64 {
				if cerr := dense.CalcState(tq, tmp); cerr != nil && denseErr == nil {
					denseErr = cerr
				}
				return tmp[3] - vpar
			}
			troot, rerr := refine(rootfun, stepStart, stepEnd, d0, d1)
			if rerr == nil {
				rerr = denseErr
			}
			if rerr != nil {
				return res, &TraceError{Step: iter, Time: t, Wrapped: wrapRoot(rerr)}
			}
			if cerr := dense.CalcState(troot, tmp); cerr != nil {
				return res, &TraceError{Step: iter, Time: t, Wrapped: cerr}
			}
			ykeep := axis.transformOut(tmp)
			res.Hits = append(res.Hits, Event{T: troot, Kind: len(phis) + i, Y: ykeep})
			if vparsStop {
				res.Samples = append(res.Samples, Sample{T: troot, Y: ykeep})
				stop = true
				break
			}
		}

		// (phi - omega*t)-plane crossings: a change of winding number of
		// the unwrapped phase locates which 2*pi-shifted target was hit.
		for i, phi := range phis {
			omega := omegas[i]
			phaseLast := phiLast - omega*tLast
			phaseCurrent := phiCurrent - omega*tCurrent
			if tLast == 0 || math.Floor((phaseLast-phi)/(2*math.Pi)) == math.Floor((phaseCurrent-phi)/(2*math.Pi)) {
				continue
			}
			fak := math.Round(((phaseLast+phaseCurrent)/2 - phi) / (2 * math.Pi))
			phaseShift := fak*2*math.Pi + phi
			if !((phaseLast <= phaseShift && phaseShift <= phaseCurrent) ||
				(phaseCurrent <= phaseShift && phaseShift <= phaseLast)) {
				return res, &TraceError{Step: iter, Time: t, Wrapped: ErrLostBracket}
			}
			var denseErr error
			rootfun := func(tq float64) float64 {
				if cerr := dense.CalcState(tq, tmp); cerr != nil && denseErr == nil {
					denseErr = cerr
				}
				if flux {
					return tmp[2] - omega*tq - phaseShift
				}
				return GetPhi(tmp[0], tmp[1], phiLast) - omega*tq - phaseShift
			}
			troot, rerr := refine(rootfun, stepStart, stepEnd, phaseLast-phaseShift, phaseCurrent-phaseShift)
			if rerr == nil {
				rerr = denseErr
			}
			if rerr != nil {
				return res, &TraceError{Step: iter, Time: t, Wrapped: wrapRoot(rerr)}
			}
			if cerr := dense.CalcState(troot, tmp); cerr != nil {
				return res, &TraceError{Step: iter, Time: t, Wrapped: cerr}
			}
			ykeep := axis.transformOut(tmp)
			res.Hits = append(res.Hits, Event{T: troot, Kind: i, Y: ykeep})
			if phisStop {
				res.Samples = append(res.Samples, Sample{T: troot, Y: ykeep})
				stop = true
				break
			}
		}

		// stopping criteria, in caller-supplied order
		for i, sc := range criteria {
			if sc == nil {
				continue
			}
			ykeep := axis.transformOut(cur)
			if sc.Stop(iter, dt, t, ykeep) {
				stop = true
				res.Samples = append(res.Samples, Sample{T: t, Y: ykeep})
				res.Hits = append(res.Hits, Event{T: t, Kind: -1 - i, Y: ykeep})
				break
			}
		}

		tLast = tCurrent
		phiLast = phiCurrent
		vparLast = vparCurrent

		if t >= tmax || stop {
			break
		}
	}

	if !stop {
		if err := dense.CalcState(tmax, tmp); err != nil {
			return res, &TraceError{Step: iter, Time: t, Wrapped: err}
		}
		res.Samples = append(res.Samples, Sample{T: tmax, Y: axis.transformOut(tmp)})
	}
	return res, nil
}

func wrapRoot(err error) error {
	return fmt.Errorf("%w: %v", ErrRootRefine, err)
}
