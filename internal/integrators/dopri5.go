package integrators

import (
	"errors"
	"fmt"
	"math"
)

// Func evaluates dy/dt in place for the current state and time.
type Func func(t float64, y, dydt []float64)

// Dormand-Prince 5(4) coefficients
var (
	a2 = 1.0 / 5.0
	a3 = 3.0 / 10.0
	a4 = 4.0 / 5.0
	a5 = 8.0 / 9.0

	b21 = 1.0 / 5.0
	b31 = 3.0 / 40.0
	b32 = 9.0 / 40.0
	b41 = 44.0 / 45.0
	b42 = -56.0 / 15.0
	b43 = 32.0 / 9.0
	b51 = 19372.0 / 6561.0
	b52 = -25360.0 / 2187.0
	b53 = 64448.0 / 6561.0
	b54 = -212.0 / 729.0
	b61 = 9017.0 / 3168.0
	b62 = -355.0 / 33.0
	b63 = 46732.0 / 5247.0
	b64 = 49.0 / 176.0
	b65 = -5103.0 / 18656.0

	c1 = 35.0 / 384.0
	c3 = 500.0 / 1113.0
	c4 = 125.0 / 192.0
	c5 = -2187.0 / 6784.0
	c6 = 11.0 / 84.0

	dc1 = c1 - 5179.0/57600.0
	dc3 = c3 - 7571.0/16695.0
	dc4 = c4 - 393.0/640.0
	dc5 = c5 - -92097.0/339200.0
	dc6 = c6 - 187.0/2100.0
	dc7 = -1.0 / 40.0

	// dense-output interpolant coefficients (Hairer, Norsett, Wanner)
	d1 = -12715105075.0 / 11282082432.0
	d3 = 87487479700.0 / 32700410799.0
	d4 = -10690763975.0 / 1880347072.0
	d5 = 701980252875.0 / 199316789632.0
	d6 = -1453857185.0 / 822651844.0
	d7 = 69997945.0 / 29380423.0
)

var (
	// ErrStepUnderflow indicates the adaptive step size collapsed below the
	// representable floor while trying to satisfy the tolerances.
	ErrStepUnderflow = errors.New("integrators: adaptive step size underflow")

	// ErrNotInitialized indicates Step or CalcState before Init.
	ErrNotInitialized = errors.New("integrators: stepper not initialized")

	// ErrOutOfStep indicates a dense-output query outside the last
	// accepted step interval.
	ErrOutOfStep = errors.New("integrators: dense-output time outside current step")
)

// Dopri5 is an adaptive Dormand-Prince 5(4) stepper with dense output over
// the most recent accepted step. Not safe for concurrent use.
type Dopri5 struct {
	f     Func
	atol  float64
	rtol  float64
	dtmax float64

	safety   float64
	minScale float64
	maxScale float64

	n     int
	t     float64
	tPrev float64
	h     float64 // size of the last accepted step
	dt    float64 // proposal for the next step

	y, yPrev                   []float64
	k1, k2, k3, k4, k5, k6, k7 []float64
	ytmp                       []float64

	// dense-output polynomial for t in [tPrev, tPrev+h]
	rcont1, rcont2, rcont3, rcont4, rcont5 []float64

	ready bool
}

// NewDopri5 creates a stepper for f with the given absolute and relative
// tolerances and a hard cap on the step size.
func NewDopri5(f Func, atol, rtol, dtmax float64) *Dopri5 {
	return &Dopri5{
		f:        f,
		atol:     atol,
		rtol:     rtol,
		dtmax:    dtmax,
		safety:   0.9,
		minScale: 0.2,
		maxScale: 10.0,
	}
}

// Init sets the initial condition and the first step-size guess.
func (d *Dopri5) Init(y0 []float64, t0, dt0 float64) {
	n := len(y0)
	d.n = n
	d.t = t0
	d.tPrev = t0
	d.h = 0
	d.dt = dt0

	alloc := func() []float64 { return make([]float64, n) }
	d.y, d.yPrev = alloc(), alloc()
	d.k1, d.k2, d.k3, d.k4, d.k5, d.k6, d.k7 = alloc(), alloc(), alloc(), alloc(), alloc(), alloc(), alloc()
	d.ytmp = alloc()
	d.rcont1, d.rcont2, d.rcont3, d.rcont4, d.rcont5 = alloc(), alloc(), alloc(), alloc(), alloc()

	copy(d.y, y0)
	d.f(t0, d.y, d.k1) // first same as last: k1 is reused across steps
	d.ready = true
}

// CurrentTime returns the time of the last accepted state.
func (d *Dopri5) CurrentTime() float64 { return d.t }

// CurrentState copies the last accepted state into out.
func (d *Dopri5) CurrentState(out []float64) { copy(out, d.y) }

// Step advances one accepted adaptive step and returns the covered time
// interval [tPrev, tCur].
func (d *Dopri5) Step() (tPrev, tCur float64, err error) {
	if !d.ready {
		return 0, 0, ErrNotInitialized
	}

	for attempt := 0; ; attempt++ {
		if attempt > 200 {
			return 0, 0, fmt.Errorf("integrators: no acceptable step after %d attempts at t=%g: %w", attempt, d.t, ErrStepUnderflow)
		}
		h := math.Min(d.dt, d.dtmax)
		if h <= math.Abs(d.t)*1e-15 || h < math.SmallestNonzeroFloat64 {
			return 0, 0, fmt.Errorf("integrators: step %g too small at t=%g: %w", h, d.t, ErrStepUnderflow)
		}

		errNorm := d.attempt(h)

		if errNorm <= 1 {
			d.accept(h, errNorm)
			return d.tPrev, d.t, nil
		}
		scale := math.Max(d.minScale, d.safety*math.Pow(errNorm, -0.2))
		d.dt = h * scale
	}
}

// attempt trials a single step of size h, leaving the candidate state in
// ytmp and its derivative in k7, and returns the scaled error norm.
func (d *Dopri5) attempt(h float64) float64 {
	n := d.n
	t := d.t
	y := d.y

	for i := 0; i < n; i++ {
		d.ytmp[i] = y[i] + h*b21*d.k1[i]
	}
	d.f(t+a2*h, d.ytmp, d.k2)

	for i := 0; i < n; i++ {
		d.ytmp[i] = y[i] + h*(b31*d.k1[i]+b32*d.k2[i])
	}
	d.f(t+a3*h, d.ytmp, d.k3)

	for i := 0; i < n; i++ {
		d.ytmp[i] = y[i] + h*(b41*d.k1[i]+b42*d.k2[i]+b43*d.k3[i])
	}
	d.f(t+a4*h, d.ytmp, d.k4)

	for i := 0; i < n; i++ {
		d.ytmp[i] = y[i] + h*(b51*d.k1[i]+b52*d.k2[i]+b53*d.k3[i]+b54*d.k4[i])
	}
	d.f(t+a5*h, d.ytmp, d.k5)

	for i := 0; i < n; i++ {
		d.ytmp[i] = y[i] + h*(b61*d.k1[i]+b62*d.k2[i]+b63*d.k3[i]+b64*d.k4[i]+b65*d.k5[i])
	}
	d.f(t+h, d.ytmp, d.k6)

	for i := 0; i < n; i++ {
		d.ytmp[i] = y[i] + h*(c1*d.k1[i]+c3*d.k3[i]+c4*d.k4[i]+c5*d.k5[i]+c6*d.k6[i])
	}
	d.f(t+h, d.ytmp, d.k7)

	errNorm := 0.0
	for i := 0; i < n; i++ {
		e := h * (dc1*d.k1[i] + dc3*d.k3[i] + dc4*d.k4[i] + dc5*d.k5[i] + dc6*d.k6[i] + dc7*d.k7[i])
		sk := d.atol + d.rtol*math.Max(math.Abs(y[i]), math.Abs(d.ytmp[i]))
		errNorm += (e / sk) * (e / sk)
	}
	return math.Sqrt(errNorm / float64(n))
}

// accept commits the trial step and prepares the dense-output polynomial.
func (d *Dopri5) accept(h, errNorm float64) {
	n := d.n

	copy(d.yPrev, d.y)
	d.tPrev = d.t

	for i := 0; i < n; i++ {
		dy := d.ytmp[i] - d.yPrev[i]
		bspl := h*d.k1[i] - dy
		d.rcont1[i] = d.yPrev[i]
		d.rcont2[i] = dy
		d.rcont3[i] = bspl
		d.rcont4[i] = dy - h*d.k7[i] - bspl
		d.rcont5[i] = h * (d1*d.k1[i] + d3*d.k3[i] + d4*d.k4[i] + d5*d.k5[i] + d6*d.k6[i] + d7*d.k7[i])
	}

	copy(d.y, d.ytmp)
	copy(d.k1, d.k7)
	d.t = d.tPrev + h
	d.h = h

	scale := d.maxScale
	if errNorm > 0 {
		scale = math.Min(d.maxScale, d.safety*math.Pow(errNorm, -0.2))
	}
	d.dt = math.Min(h*scale, d.dtmax)
}

// CalcState evaluates the dense-output interpolant at a time inside the
// last accepted step.
func (d *Dopri5) CalcState(t float64, out []float64) error {
	if !d.ready {
		return ErrNotInitialized
	}
	if d.h == 0 {
		if t == d.t {
			copy(out, d.y)
			return nil
		}
		return ErrOutOfStep
	}
	lo, hi := d.tPrev, d.tPrev+d.h
	slack := 1e-12 * d.h
	if t < lo-slack || t > hi+slack {
		return fmt.Errorf("integrators: t=%g outside [%g, %g]: %w", t, lo, hi, ErrOutOfStep)
	}
	theta := (t - d.tPrev) / d.h
	theta1 := 1 - theta
	for i := 0; i < d.n; i++ {
		out[i] = d.rcont1[i] + theta*(d.rcont2[i]+theta1*(d.rcont3[i]+theta*(d.rcont4[i]+theta1*d.rcont5[i])))
	}
	return nil
}
