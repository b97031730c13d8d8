package integrators

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrNoBracket indicates f(a) and f(b) do not have strictly opposite
	// signs, so no root is guaranteed in [a, b].
	ErrNoBracket = errors.New("integrators: interval does not bracket a root")

	// ErrRootIterations indicates the bracket did not shrink to tolerance
	// within the iteration budget.
	ErrRootIterations = errors.New("integrators: root refinement did not converge")
)

// FindRoot refines a root of f bracketed by [a, b] using the Illinois
// variant of regula falsi, which keeps a shrinking sign-change bracket at
// every iteration. fa and fb are the already-known values f(a) and f(b).
//
// The bracket is considered converged once its width reaches bits
// significant bits relative to the endpoints. Both final endpoints are
// returned; callers pick whichever evaluates closer to zero.
func FindRoot(f func(float64) float64, a, b, fa, fb float64, bits uint, maxIter int) (lo, hi float64, err error) {
	if a > b {
		a, b = b, a
		fa, fb = fb, fa
	}
	if fa == 0 {
		return a, a, nil
	}
	if fb == 0 {
		return b, b, nil
	}
	if math.Signbit(fa) == math.Signbit(fb) {
		return a, b, fmt.Errorf("f(%g)=%g and f(%g)=%g: %w", a, fa, b, fb, ErrNoBracket)
	}
	if bits > 52 {
		bits = 52
	}
	tol := math.Ldexp(1, 1-int(bits))

	converged := func(x, y float64) bool {
		return math.Abs(y-x) <= tol*math.Min(math.Abs(x), math.Abs(y))
	}

	side := 0
	for i := 0; i < maxIter; i++ {
		if converged(a, b) {
			return a, b, nil
		}

		m := (fa*b - fb*a) / (fa - fb)
		// keep the probe strictly interior, falling back to bisection
		if m <= a || m >= b || math.IsNaN(m) {
			m = 0.5 * (a + b)
		}
		if m <= a || m >= b {
			// endpoints are adjacent floats, the bracket cannot shrink further
			return a, b, nil
		}
		fm := f(m)
		if fm == 0 {
			return m, m, nil
		}
		if math.Signbit(fm) != math.Signbit(fb) {
			a, fa = b, fb
			side = 0
		} else if side == 1 {
			// stagnating endpoint: halve its weight (Illinois)
			fa *= 0.5
		} else {
			side = 1
		}
		b, fb = m, fm
		if a > b {
			a, b = b, a
			fa, fb = fb, fa
		}
	}
	if converged(a, b) {
		return a, b, nil
	}
	return a, b, fmt.Errorf("bracket [%g, %g] after %d iterations: %w", a, b, maxIter, ErrRootIterations)
}
