package tracing

import (
	"errors"
	"math"
	"reflect"
	"testing"

	. "github.com/onsi/gomega"

	"github.com/sominlee1211/simsopt/internal/field"
)

func defaultOptions(tmax float64) Options {
	return Options{Tmax: tmax, AbsTol: 1e-9, RelTol: 1e-9}
}

func TestFieldLineStraightInUniformField(t *testing.T) {
	f := field.NewUniformField(1, [3]float64{0, 0, 1})
	res, err := FieldLine(f, [3]float64{1, 0, 0}, defaultOptions(2))
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Hits) != 0 {
		t.Fatalf("unexpected events on a straight field line: %v", res.Hits)
	}
	last := res.Samples[len(res.Samples)-1]
	if last.T != 2 {
		t.Errorf("final sample at t=%v, want exactly tmax", last.T)
	}
	if math.Abs(last.Y[0]-1) > 1e-9 || math.Abs(last.Y[1]) > 1e-9 || math.Abs(last.Y[2]-2) > 1e-9 {
		t.Errorf("final point %v, want (1, 0, 2)", last.Y)
	}
}

func TestFieldLinePhiPlaneCrossings(t *testing.T) {
	g := NewWithT(t)
	f := field.NewToroidalField(1, 1)

	// unit-speed circle of radius 1: phi(t) = t
	opt := defaultOptions(5 * math.Pi)
	opt.Phis = []float64{math.Pi / 4}
	res, err := FieldLine(f, [3]float64{1, 0, 0}, opt)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(res.Hits).To(HaveLen(3))

	for k, hit := range res.Hits {
		want := math.Pi/4 + 2*math.Pi*float64(k)
		g.Expect(hit.Kind).To(Equal(0))
		g.Expect(hit.T).To(BeNumerically("~", want, 1e-6))
		phi := math.Atan2(hit.Y[1], hit.Y[0])
		g.Expect(phi).To(BeNumerically("~", math.Pi/4, 1e-6))
	}

	last := res.Samples[len(res.Samples)-1]
	g.Expect(last.T).To(Equal(opt.Tmax))
}

func TestFieldLineRotatingPlaneCrossings(t *testing.T) {
	g := NewWithT(t)
	f := field.NewToroidalField(1, 1)

	// phi(t) = t, so the phase phi - omega*t advances at rate 1/2 and
	// meets the pi/4 plane at t = pi/2 + 4*pi*k
	opt := defaultOptions(5 * math.Pi)
	opt.Phis = []float64{math.Pi / 4}
	opt.Omegas = []float64{0.5}
	res, err := FieldLine(f, [3]float64{1, 0, 0}, opt)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(res.Hits).To(HaveLen(2))

	for k, hit := range res.Hits {
		want := math.Pi/2 + 4*math.Pi*float64(k)
		g.Expect(hit.Kind).To(Equal(0))
		g.Expect(hit.T).To(BeNumerically("~", want, 1e-6))
		phase := math.Mod(math.Atan2(hit.Y[1], hit.Y[0])-0.5*hit.T, 2*math.Pi)
		if phase < 0 {
			phase += 2 * math.Pi
		}
		g.Expect(phase).To(BeNumerically("~", math.Pi/4, 1e-6))
	}

	last := res.Samples[len(res.Samples)-1]
	g.Expect(last.T).To(Equal(opt.Tmax))
}

func TestFieldLinePhisStop(t *testing.T) {
	f := field.NewToroidalField(1, 1)
	opt := defaultOptions(5 * math.Pi)
	opt.Phis = []float64{math.Pi / 4}
	opt.PhisStop = true
	res, err := FieldLine(f, [3]float64{1, 0, 0}, opt)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Hits) != 1 {
		t.Fatalf("got %d hits, want 1", len(res.Hits))
	}
	last := res.Samples[len(res.Samples)-1]
	if last.T != res.Hits[0].T {
		t.Errorf("final sample at t=%v, want the event time %v", last.T, res.Hits[0].T)
	}
	if math.Abs(res.Hits[0].T-math.Pi/4) > 1e-6 {
		t.Errorf("stopped at t=%v, want pi/4", res.Hits[0].T)
	}
}

func TestFieldLineTransitCriterion(t *testing.T) {
	f := field.NewToroidalField(1, 1)
	opt := defaultOptions(20)
	opt.Criteria = []StoppingCriterion{&ToroidalTransitCriterion{Max: 2}}
	res, err := FieldLine(f, [3]float64{1, 0, 0}, opt)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Hits) != 1 || res.Hits[0].Kind != -1 {
		t.Fatalf("got hits %v, want one criterion event with kind -1", res.Hits)
	}
	// criteria fire at step ends, so the stop overshoots 2 transits by at
	// most one step
	if res.Hits[0].T < 4*math.Pi-1e-6 || res.Hits[0].T > 4*math.Pi+math.Pi/2+1e-6 {
		t.Errorf("stopped at t=%v, want within one step past 4*pi", res.Hits[0].T)
	}
}

func TestFullOrbitGyration(t *testing.T) {
	f := field.NewUniformField(1, [3]float64{0, 0, 1})
	v := [3]float64{1e5, 0, 5e4}
	opt := defaultOptions(2e-7)
	res, err := ParticleFullOrbit(f, [3]float64{1, 0, 0}, v, protonMass, protonCharge, opt)
	if err != nil {
		t.Fatal(err)
	}

	speed0 := math.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
	rgyro := protonMass * 1e5 / protonCharge
	for _, s := range res.Samples {
		speed := math.Sqrt(s.Y[3]*s.Y[3] + s.Y[4]*s.Y[4] + s.Y[5]*s.Y[5])
		if relDiff(speed, speed0) > 1e-7 {
			t.Fatalf("speed drifted to %v at t=%v, started at %v", speed, s.T, speed0)
		}
		if math.Hypot(s.Y[0]-1, s.Y[1]) > 3*rgyro {
			t.Fatalf("orbit left the gyration disc at t=%v: %v", s.T, s.Y[:3])
		}
	}
	last := res.Samples[len(res.Samples)-1]
	if math.Abs(last.Y[2]-v[2]*opt.Tmax) > 1e-6 {
		t.Errorf("parallel displacement %v, want %v", last.Y[2], v[2]*opt.Tmax)
	}
}

func TestGuidingCenterVerticalDriftOrbit(t *testing.T) {
	// purely toroidal field, all-parallel velocity: the guiding center
	// streams around the circle r=1 and drifts vertically at
	// m*vpar^2/(q*|B|*R)
	f := field.NewToroidalField(1, 1)
	vtotal := 1e5
	opt := defaultOptions(1e-4)
	res, err := ParticleGuidingCenter(f, [3]float64{1, 0, 0}, protonMass, protonCharge, vtotal, vtotal, opt)
	if err != nil {
		t.Fatal(err)
	}
	last := res.Samples[len(res.Samples)-1]
	if math.Abs(math.Hypot(last.Y[0], last.Y[1])-1) > 1e-6 {
		t.Errorf("guiding center left the r=1 circle: %v", last.Y[:3])
	}
	wantZ := protonMass * vtotal * vtotal / protonCharge * opt.Tmax
	if relDiff(last.Y[2], wantZ) > 1e-6 {
		t.Errorf("vertical drift %v, want %v", last.Y[2], wantZ)
	}
	if relDiff(last.Y[3], vtotal) > 1e-9 {
		t.Errorf("vpar drifted to %v", last.Y[3])
	}
}

type nonVacuumField struct{}

func (nonVacuumField) SampleCyl(r, phi, z float64) field.Sample {
	return field.Sample{B: [3]float64{0, 0, 1}, AbsB: 1}
}
func (nonVacuumField) Vacuum() bool { return false }

func TestGuidingCenterRejectsNonVacuumField(t *testing.T) {
	_, err := ParticleGuidingCenter(nonVacuumField{}, [3]float64{1, 0, 0},
		protonMass, protonCharge, 1e5, 1e5, defaultOptions(1e-4))
	if !errors.Is(err, ErrNonVacuum) {
		t.Fatalf("got %v, want ErrNonVacuum", err)
	}
}

func TestBoozerEnergyConservation(t *testing.T) {
	f := field.NewAnalyticBoozerField(1, 1, 0.1, 0.42)
	vtotal, vtang := 1e5, 1e4
	stz := [3]float64{0.25, math.Pi, 0}

	b0 := f.Sample(stz[0], stz[1], stz[2])
	mu := (vtotal*vtotal - vtang*vtang) / (2 * b0.ModB)

	res, err := ParticleGuidingCenterBoozer(f, stz, protonMass, protonCharge,
		vtotal, vtang, true, false, defaultOptions(2e-4))
	if err != nil {
		t.Fatal(err)
	}

	e0 := 0.5*vtang*vtang + mu*b0.ModB
	for _, s := range res.Samples {
		b := f.Sample(s.Y[0], s.Y[1], s.Y[2])
		e := 0.5*s.Y[3]*s.Y[3] + mu*b.ModB
		if relDiff(e, e0) > 1e-6 {
			t.Fatalf("energy drifted to %v at t=%v, started at %v", e, s.T, e0)
		}
	}
}

func TestBoozerTrappedParticleVparPlane(t *testing.T) {
	g := NewWithT(t)

	// launched near the field minimum with a small parallel fraction, the
	// particle is mirror-trapped and vpar must cross zero
	f := field.NewAnalyticBoozerField(1, 1, 0.1, 0.42)
	opt := defaultOptions(1e-3)
	opt.VPars = []float64{0}
	opt.VParsStop = true

	res, err := ParticleGuidingCenterBoozer(f, [3]float64{0.25, math.Pi, 0},
		protonMass, protonCharge, 1e5, 1e4, true, false, opt)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(res.Hits).NotTo(BeEmpty())

	hit := res.Hits[0]
	g.Expect(hit.Kind).To(Equal(0))
	g.Expect(hit.T).To(BeNumerically(">", 0))
	g.Expect(hit.T).To(BeNumerically("<", opt.Tmax))
	g.Expect(math.Abs(hit.Y[3])).To(BeNumerically("<", 1.0))

	last := res.Samples[len(res.Samples)-1]
	g.Expect(last.T).To(Equal(hit.T))
}

func TestTraceDeterminism(t *testing.T) {
	f := field.NewAnalyticBoozerField(1, 1, 0.1, 0.42)
	run := func() *Result {
		res, err := ParticleGuidingCenterBoozer(f, [3]float64{0.25, math.Pi, 0},
			protonMass, protonCharge, 1e5, 1e4, true, false, defaultOptions(2e-4))
		if err != nil {
			t.Fatal(err)
		}
		return res
	}
	if !reflect.DeepEqual(run(), run()) {
		t.Error("identical traces produced different results")
	}
}

func TestForgetExactPath(t *testing.T) {
	f := field.NewAnalyticBoozerField(1, 1, 0.1, 0.42)
	opt := defaultOptions(2e-4)
	opt.ForgetExactPath = true
	res, err := ParticleGuidingCenterBoozer(f, [3]float64{0.25, math.Pi, 0},
		protonMass, protonCharge, 1e5, 8e4, true, false, opt)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Samples) != 2 {
		t.Fatalf("got %d samples, want initial and final only", len(res.Samples))
	}
	if res.Samples[0].T != 0 || res.Samples[1].T != opt.Tmax {
		t.Errorf("sample times %v, %v; want 0 and tmax", res.Samples[0].T, res.Samples[1].T)
	}
}

func TestBoozerAxisModesAgree(t *testing.T) {
	f := field.NewAnalyticBoozerField(1, 1, 0.1, 0.42)
	stz := [3]float64{0.25, math.Pi, 0}
	final := func(mode AxisMode) State {
		opt := defaultOptions(1e-4)
		opt.AxisMode = mode
		res, err := ParticleGuidingCenterBoozer(f, stz, protonMass, protonCharge,
			1e5, 8e4, true, false, opt)
		if err != nil {
			t.Fatal(err)
		}
		return res.Samples[len(res.Samples)-1].Y
	}

	ref := final(AxisStandard)
	for _, mode := range []AxisMode{AxisSqrtS, AxisS} {
		y := final(mode)
		if math.Abs(y[0]-ref[0]) > 1e-5 {
			t.Errorf("mode %d: final s=%v, standard gives %v", mode, y[0], ref[0])
		}
		if relDiff(y[3], ref[3]) > 1e-5 {
			t.Errorf("mode %d: final vpar=%v, standard gives %v", mode, y[3], ref[3])
		}
	}
}

func TestBoozerCapabilityChecks(t *testing.T) {
	noCurrents := field.NewAnalyticBoozerField(1, 1, 0.1, 0.42)
	_, err := ParticleGuidingCenterBoozer(noCurrents, [3]float64{0.25, 0, 0},
		protonMass, protonCharge, 1e5, 8e4, false, true, defaultOptions(1e-4))
	if !errors.Is(err, ErrFieldCaps) {
		t.Errorf("noK without currents: got %v, want ErrFieldCaps", err)
	}

	noK := &field.AnalyticBoozerField{
		B0: 1, G0: 1, Etabar: 0.1, Iota0: 0.42, M: 1, Psi0: 0.5,
		WithCurrents: true,
	}
	_, err = ParticleGuidingCenterBoozer(noK, [3]float64{0.25, 0, 0},
		protonMass, protonCharge, 1e5, 8e4, false, false, defaultOptions(1e-4))
	if !errors.Is(err, ErrFieldCaps) {
		t.Errorf("full model without K: got %v, want ErrFieldCaps", err)
	}
}

func TestPerturbedBoozerClock(t *testing.T) {
	f := field.NewAnalyticBoozerField(1, 1, 0.1, 0.42)
	stz := [3]float64{0.25, math.Pi, 0}
	vtotal, vtang := 1e5, 1e4
	b0 := f.Sample(stz[0], stz[1], stz[2])
	mu := (vtotal*vtotal - vtang*vtang) / (2 * b0.ModB)

	pert := Perturbation{Phihat: 5, Omega: 1e5, M: 1, N: 1}
	opt := defaultOptions(1e-4)
	res, err := ParticleGuidingCenterBoozerPerturbed(f, stz, protonMass, protonCharge,
		vtotal, vtang, mu, true, pert, opt)
	if err != nil {
		t.Fatal(err)
	}
	last := res.Samples[len(res.Samples)-1]
	if last.T != opt.Tmax {
		t.Errorf("final sample at t=%v, want tmax", last.T)
	}
	if math.Abs(last.Y[4]-last.T) > 1e-12+1e-9*last.T {
		t.Errorf("clock component %v disagrees with the sample time %v", last.Y[4], last.T)
	}
}

func TestPerturbedBoozerNeedsFrequency(t *testing.T) {
	f := field.NewAnalyticBoozerField(1, 1, 0.1, 0.42)
	_, err := ParticleGuidingCenterBoozerPerturbed(f, [3]float64{0.25, 0, 0},
		protonMass, protonCharge, 1e5, 1e4, 1e9, true,
		Perturbation{Phihat: 5, Omega: 0}, defaultOptions(1e-4))
	if !errors.Is(err, ErrBadOptions) {
		t.Fatalf("got %v, want ErrBadOptions", err)
	}
}
