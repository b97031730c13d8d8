package analysis

import (
	"math"
	"testing"

	"github.com/sominlee1211/simsopt/internal/field"
	"github.com/sominlee1211/simsopt/internal/tracing"
)

func TestRealSpaceSection(t *testing.T) {
	results := []*tracing.Result{
		{Hits: []tracing.Event{
			{T: 1, Kind: 0, Y: tracing.State{3, 4, 0.5}},
			{T: 2, Kind: 1, Y: tracing.State{1, 0, 0}},
		}},
		nil,
		{Hits: []tracing.Event{
			{T: 3, Kind: 0, Y: tracing.State{0, 2, -0.1}},
		}},
	}

	pts := RealSpaceSection(results, 0)
	if len(pts) != 2 {
		t.Fatalf("got %d points, want 2", len(pts))
	}
	if math.Abs(pts[0].X-5) > 1e-12 || pts[0].Y != 0.5 || pts[0].Trajectory != 0 {
		t.Errorf("first point %+v, want R=5 Z=0.5 from trajectory 0", pts[0])
	}
	if pts[1].Trajectory != 2 {
		t.Errorf("second point from trajectory %d, want 2", pts[1].Trajectory)
	}
}

func TestFluxSectionFoldsTheta(t *testing.T) {
	results := []*tracing.Result{
		{Hits: []tracing.Event{
			{T: 1, Kind: 0, Y: tracing.State{0.3, -0.5, 0, 1e4}},
			{T: 2, Kind: 0, Y: tracing.State{0.3, 7.0, 0, 1e4}},
		}},
	}
	pts := FluxSection(results, 0)
	if len(pts) != 2 {
		t.Fatalf("got %d points, want 2", len(pts))
	}
	for _, p := range pts {
		if p.Y < 0 || p.Y >= 2*math.Pi {
			t.Errorf("theta %v not folded into [0, 2*pi)", p.Y)
		}
	}
}

func TestConfinementStats(t *testing.T) {
	mk := func(lossT float64, lost bool) *tracing.Result {
		res := &tracing.Result{
			Samples: []tracing.Sample{{T: 0}, {T: lossT}},
		}
		if lost {
			res.Hits = []tracing.Event{{T: lossT, Kind: -1}}
		}
		return res
	}
	results := []*tracing.Result{
		mk(1.0, true),
		mk(3.0, true),
		mk(10.0, false),
		mk(10.0, false),
	}

	st := Confinement(results)
	if st.Total != 4 || st.Lost != 2 {
		t.Fatalf("got %d/%d lost, want 2/4", st.Lost, st.Total)
	}
	if st.LossFraction != 0.5 {
		t.Errorf("loss fraction %v, want 0.5", st.LossFraction)
	}
	if st.MeanLossTime != 2.0 {
		t.Errorf("mean loss time %v, want 2", st.MeanLossTime)
	}

	times, lost := LossTimes(results)
	if got := LossFractionAt(times, lost, 2.0); got != 0.25 {
		t.Errorf("loss fraction at t=2: %v, want 0.25", got)
	}
	if got := LossFractionAt(times, lost, 20.0); got != 0.5 {
		t.Errorf("loss fraction at t=20: %v, want 0.5", got)
	}
}

func TestDominantFrequencyOfSine(t *testing.T) {
	// 8 Hz sine sampled at 256 Hz for 2 seconds
	const (
		freq = 8.0
		rate = 256.0
		n    = 512
	)
	samples := make([]tracing.Sample, n)
	for i := range samples {
		tt := float64(i) / rate
		samples[i] = tracing.Sample{T: tt, Y: tracing.State{math.Sin(2 * math.Pi * freq * tt)}}
	}

	series, dt := Resample(samples, 0, n)
	got := DominantFrequency(series, dt)
	if math.Abs(got-freq) > 0.5 {
		t.Errorf("dominant frequency %v, want %v", got, freq)
	}
}

func TestResampleRecoversLinearSeries(t *testing.T) {
	samples := []tracing.Sample{
		{T: 0, Y: tracing.State{0}},
		{T: 0.1, Y: tracing.State{0.2}},
		{T: 0.7, Y: tracing.State{1.4}},
		{T: 1.0, Y: tracing.State{2.0}},
	}
	series, dt := Resample(samples, 0, 11)
	if math.Abs(dt-0.1) > 1e-12 {
		t.Fatalf("dt = %v, want 0.1", dt)
	}
	for i, v := range series {
		want := 2 * float64(i) * dt
		if math.Abs(v-want) > 1e-9 {
			t.Errorf("series[%d] = %v, want %v", i, v, want)
		}
	}
}

func TestEnergyDriftOfTracedOrbit(t *testing.T) {
	f := field.NewAnalyticBoozerField(1, 1, 0.1, 0.42)
	vtotal, vtang := 1e5, 8e4
	stz := [3]float64{0.25, math.Pi, 0}
	b0 := f.Sample(stz[0], stz[1], stz[2])
	mu := (vtotal*vtotal - vtang*vtang) / (2 * b0.ModB)

	res, err := tracing.ParticleGuidingCenterBoozer(f, stz,
		1.67262192369e-27, 1.602176634e-19, vtotal, vtang, true, false,
		tracing.Options{Tmax: 1e-4, AbsTol: 1e-9, RelTol: 1e-9})
	if err != nil {
		t.Fatal(err)
	}
	if drift := EnergyDrift(f, res.Samples, mu); drift > 1e-6 {
		t.Errorf("energy drift %v, want below 1e-6", drift)
	}
}
