package tracing

import (
	"math"
	"math/rand"
	"testing"
)

func TestGetPhiStaysNearHint(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 1000; i++ {
		x := rng.NormFloat64()
		y := rng.NormFloat64()
		if x == 0 && y == 0 {
			continue
		}
		phiNear := rng.NormFloat64() * 50

		phi := GetPhi(x, y, phiNear)

		if math.Abs(phi-phiNear) > math.Pi+1e-12 {
			t.Fatalf("GetPhi(%f, %f, %f) = %f, further than pi from hint", x, y, phiNear, phi)
		}

		want := math.Atan2(y, x)
		if want < 0 {
			want += 2 * math.Pi
		}
		got := math.Mod(phi, 2*math.Pi)
		if got < 0 {
			got += 2 * math.Pi
		}
		diff := math.Abs(got - want)
		if diff > 1e-9 && math.Abs(diff-2*math.Pi) > 1e-9 {
			t.Fatalf("GetPhi(%f, %f, %f) = %f, not congruent to atan2 = %f", x, y, phiNear, phi, want)
		}
	}
}

func TestGetPhiUnwrapsContinuously(t *testing.T) {
	// walk two full turns; tracking with the previous result must give a
	// monotonically increasing unwrapped angle
	phi := GetPhi(1, 0, math.Pi)
	prev := phi
	for i := 1; i <= 400; i++ {
		a := float64(i) * 4 * math.Pi / 400
		phi = GetPhi(math.Cos(a), math.Sin(a), prev)
		if phi < prev {
			t.Fatalf("unwrapped angle decreased at step %d: %f -> %f", i, prev, phi)
		}
		prev = phi
	}
	if math.Abs(prev-4*math.Pi) > 1e-9 {
		t.Errorf("expected 4*pi after two turns, got %f", prev)
	}
}

func TestAxisModeRoundTrip(t *testing.T) {
	for _, mode := range []AxisMode{AxisSqrtS, AxisS} {
		for _, tc := range []struct{ s, theta float64 }{
			{0.25, 0.3}, {0.7, -1.2}, {0.04, 2.9},
		} {
			c0, c1 := mode.Regularized(tc.s, tc.theta)
			s, theta := mode.FluxCoords(State{c0, c1})
			if math.Abs(s-tc.s) > 1e-12 {
				t.Errorf("mode %d: s round trip %f -> %f", mode, tc.s, s)
			}
			if math.Abs(math.Mod(theta-tc.theta, 2*math.Pi)) > 1e-12 {
				t.Errorf("mode %d: theta round trip %f -> %f", mode, tc.theta, theta)
			}
		}
	}
}

func TestAxisModeDerivChainRule(t *testing.T) {
	// compare DerivRegularized against a finite difference of the
	// regularized coordinates along a smooth (s(t), theta(t)) path
	sOf := func(tt float64) float64 { return 0.3 + 0.1*math.Sin(tt) }
	thetaOf := func(tt float64) float64 { return 0.5 + 0.8*tt }
	sdotOf := func(tt float64) float64 { return 0.1 * math.Cos(tt) }
	tdot := 0.8

	for _, mode := range []AxisMode{AxisStandard, AxisSqrtS, AxisS} {
		t0 := 0.4
		h := 1e-6
		c0p, c1p := mode.Regularized(sOf(t0+h), thetaOf(t0+h))
		c0m, c1m := mode.Regularized(sOf(t0-h), thetaOf(t0-h))
		fd0 := (c0p - c0m) / (2 * h)
		fd1 := (c1p - c1m) / (2 * h)

		d0, d1 := mode.DerivRegularized(sOf(t0), thetaOf(t0), sdotOf(t0), tdot)
		if math.Abs(d0-fd0) > 1e-6 || math.Abs(d1-fd1) > 1e-6 {
			t.Errorf("mode %d: chain rule (%e, %e) vs finite difference (%e, %e)", mode, d0, d1, fd0, fd1)
		}
	}
}
