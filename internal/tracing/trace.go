package tracing

import (
	"fmt"
	"math"

	"github.com/sominlee1211/simsopt/internal/field"
)

// Options configures a trace. Phis lists target angular planes (toroidal
// angle phi in real space, zeta in Boozer coordinates); Omegas, when
// non-empty, gives each plane an angular velocity so the target rotates as
// phi + omega*t. VPars lists parallel-velocity thresholds. The stop flags
// select which event classes terminate the trajectory; criteria always do.
type Options struct {
	Tmax   float64
	AbsTol float64
	RelTol float64

	Phis   []float64
	Omegas []float64
	VPars  []float64

	Criteria []StoppingCriterion

	PhisStop  bool
	VParsStop bool

	// ForgetExactPath keeps only the initial and final/event samples,
	// trading trajectory fidelity for memory.
	ForgetExactPath bool

	AxisMode AxisMode
}

// step-size policy shared by all drivers: at most a quarter revolution per
// step, with a small fraction of that as the first trial step.
func stepBounds(r0, speed, frac float64) (dtmax, dt float64) {
	dtmax = r0 * 0.5 * math.Pi / speed
	return dtmax, frac * dtmax
}

// FieldLine traces a magnetic field line from xyz, parametrized by arc
// length up to Tmax.
func FieldLine(f field.MagneticField, xyz [3]float64, opt Options) (*Result, error) {
	rhs := &FieldLineRHS{Field: f}
	r0 := math.Hypot(xyz[0], xyz[1])
	// unit-speed parametrization
	dtmax, dt := stepBounds(r0, 1, 1e-5)
	y := State{xyz[0], xyz[1], xyz[2]}
	return solve(rhs, y, opt.Tmax, dt, dtmax, opt.AbsTol, opt.RelTol,
		opt.Phis, opt.Omegas, opt.Criteria, nil, opt.PhisStop, false, opt.ForgetExactPath)
}

// ParticleFullOrbit traces the Lorentz-force orbit of a particle with mass
// m and charge q from position xyz with velocity v.
func ParticleFullOrbit(f field.MagneticField, xyz, v [3]float64, m, q float64, opt Options) (*Result, error) {
	rhs := NewFullOrbitRHS(f, m, q)
	vtotal := math.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
	r0 := math.Hypot(xyz[0], xyz[1])
	dtmax, dt := stepBounds(r0, vtotal, 1e-3)
	y := State{xyz[0], xyz[1], xyz[2], v[0], v[1], v[2]}
	return solve(rhs, y, opt.Tmax, dt, dtmax, opt.AbsTol, opt.RelTol,
		opt.Phis, opt.Omegas, opt.Criteria, nil, opt.PhisStop, false, opt.ForgetExactPath)
}

// ParticleGuidingCenter traces the real-space guiding center of a particle
// with total speed vtotal and initial parallel velocity vtang. Only vacuum
// fields are supported; the magnetic moment is computed from the field
// strength at the initial position.
func ParticleGuidingCenter(f field.MagneticField, xyz [3]float64, m, q, vtotal, vtang float64, opt Options) (*Result, error) {
	if !f.Vacuum() {
		return nil, ErrNonVacuum
	}
	r := math.Hypot(xyz[0], xyz[1])
	phi := math.Atan2(xyz[1], xyz[0])
	if phi < 0 {
		phi += 2 * math.Pi
	}
	fs := f.SampleCyl(r, phi, xyz[2])
	vperp2 := vtotal*vtotal - vtang*vtang
	mu := vperp2 / (2 * fs.AbsB)

	rhs := &GuidingCenterRHS{Field: f, M: m, Q: q, Mu: mu}
	dtmax, dt := stepBounds(r, vtotal, 1e-3)
	y := State{xyz[0], xyz[1], xyz[2], vtang}
	return solve(rhs, y, opt.Tmax, dt, dtmax, opt.AbsTol, opt.RelTol,
		opt.Phis, opt.Omegas, opt.Criteria, nil, opt.PhisStop, false, opt.ForgetExactPath)
}

// ParticleGuidingCenterBoozer traces a guiding center in Boozer
// coordinates from (s, theta, zeta) = stz. vacuum selects the vacuum
// model; otherwise noK picks the K = 0 limit or the full K model. The
// evaluator must advertise the capabilities the model needs.
func ParticleGuidingCenterBoozer(f field.BoozerField, stz [3]float64, m, q, vtotal, vtang float64, vacuum, noK bool, opt Options) (*Result, error) {
	b := f.Sample(stz[0], stz[1], stz[2])
	vperp2 := vtotal*vtotal - vtang*vtang
	mu := vperp2 / (2 * b.ModB)

	r0 := math.Abs(b.G) / b.ModB
	dtmax, dt := stepBounds(r0, vtotal, 1e-3)

	c0, c1 := opt.AxisMode.Regularized(stz[0], stz[1])
	y := State{c0, c1, stz[2], vtang}

	var rhs RHS
	switch {
	case vacuum:
		rhs = &GuidingCenterVacuumBoozerRHS{Field: f, M: m, Q: q, Mu: mu, AxisMode: opt.AxisMode}
	case noK:
		if !f.Caps().Currents {
			return nil, fmt.Errorf("noK guiding center needs I, dG/ds and dI/ds: %w", ErrFieldCaps)
		}
		rhs = &GuidingCenterNoKBoozerRHS{Field: f, M: m, Q: q, Mu: mu, AxisMode: opt.AxisMode}
	default:
		caps := f.Caps()
		if !caps.Currents || !caps.K {
			return nil, fmt.Errorf("full guiding center needs currents and the K term: %w", ErrFieldCaps)
		}
		rhs = &GuidingCenterBoozerRHS{Field: f, M: m, Q: q, Mu: mu, AxisMode: opt.AxisMode}
	}
	return solve(rhs, y, opt.Tmax, dt, dtmax, opt.AbsTol, opt.RelTol,
		opt.Phis, opt.Omegas, opt.Criteria, opt.VPars, opt.PhisStop, opt.VParsStop, opt.ForgetExactPath)
}

// ParticleGuidingCenterBoozerPerturbed traces a guiding center in Boozer
// coordinates under a time-dependent potential perturbation. The magnetic
// moment mu is supplied by the caller; the state carries an explicit clock
// component so the perturbation phase depends on absolute time.
func ParticleGuidingCenterBoozerPerturbed(f field.BoozerField, stz [3]float64, m, q, vtotal, vtang, mu float64, vacuum bool, pert Perturbation, opt Options) (*Result, error) {
	if pert.Omega == 0 {
		return nil, fmt.Errorf("perturbation frequency must be nonzero: %w", ErrBadOptions)
	}
	b := f.Sample(stz[0], stz[1], stz[2])

	r0 := math.Abs(b.G) / b.ModB
	dtmax, dt := stepBounds(r0, vtotal, 1e-3)

	c0, c1 := opt.AxisMode.Regularized(stz[0], stz[1])
	y := State{c0, c1, stz[2], vtang, 0}

	var rhs RHS
	if vacuum {
		rhs = &GuidingCenterVacuumBoozerPerturbedRHS{Field: f, M: m, Q: q, Mu: mu, Pert: pert, AxisMode: opt.AxisMode}
	} else {
		if !f.Caps().Currents {
			return nil, fmt.Errorf("perturbed noK guiding center needs I, dG/ds and dI/ds: %w", ErrFieldCaps)
		}
		rhs = &GuidingCenterNoKBoozerPerturbedRHS{Field: f, M: m, Q: q, Mu: mu, Pert: pert, AxisMode: opt.AxisMode}
	}
	return solve(rhs, y, opt.Tmax, dt, dtmax, opt.AbsTol, opt.RelTol,
		opt.Phis, opt.Omegas, opt.Criteria, opt.VPars, opt.PhisStop, opt.VParsStop, opt.ForgetExactPath)
}
