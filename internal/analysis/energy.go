package analysis

import (
	"math"

	"github.com/sominlee1211/simsopt/internal/field"
	"github.com/sominlee1211/simsopt/internal/tracing"
)

// EnergyDrift returns the maximum relative drift of the guiding-center
// energy E = vpar^2/2 + mu*|B| along a Boozer trace. For a well-resolved
// unperturbed orbit the drift stays near the integration tolerance, so a
// large value flags a trace that cannot be trusted.
func EnergyDrift(f field.BoozerField, samples []tracing.Sample, mu float64) float64 {
	if len(samples) == 0 {
		return 0
	}
	energy := func(s tracing.Sample) float64 {
		b := f.Sample(s.Y[0], s.Y[1], s.Y[2])
		return 0.5*s.Y[3]*s.Y[3] + mu*b.ModB
	}

	e0 := energy(samples[0])
	if e0 == 0 {
		return 0
	}
	maxDrift := 0.0
	for _, s := range samples[1:] {
		drift := math.Abs(energy(s)-e0) / math.Abs(e0)
		maxDrift = math.Max(maxDrift, drift)
	}
	return maxDrift
}
