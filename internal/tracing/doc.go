// Package tracing integrates charged-particle and field-line trajectories
// through a magnetic field, detecting surface crossings and stopping
// conditions along the way.
//
// The package provides:
//
//   - a family of right-hand-side models ([FieldLineRHS], [FullOrbitRHS],
//     [GuidingCenterRHS] and the Boozer-coordinate guiding-center variants)
//   - a polymorphic [StoppingCriterion] protocol
//   - a single adaptive dense-output integration loop with event detection
//     and root refinement
//   - driver entry points ([FieldLine], [ParticleFullOrbit],
//     [ParticleGuidingCenter], [ParticleGuidingCenterBoozer],
//     [ParticleGuidingCenterBoozerPerturbed])
//
// # Example
//
//	f := field.NewToroidalField(1.0, 1.0)
//	res, err := tracing.FieldLine(f, [3]float64{1, 0, 0}, tracing.Options{
//		Tmax: 100, AbsTol: 1e-9, RelTol: 1e-9,
//		Phis: []float64{0, math.Pi},
//	})
//
// # Thread Safety
//
// A field evaluator handle is exclusively owned by one trajectory for the
// duration of a trace. Batched tracing may run trajectories on separate
// goroutines only when each one gets its own evaluator.
package tracing
