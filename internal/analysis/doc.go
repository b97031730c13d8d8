// Package analysis provides post-processing tools for traced trajectories.
//
// The package turns raw trace output into the quantities usually studied
// in confinement work:
//
//   - [RealSpaceSection], [FluxSection]: Poincaré sections from plane hits
//   - [Confinement]: loss-time statistics over a particle ensemble
//   - [PowerSpectrum], [DominantFrequency]: bounce/transit frequency content
//   - [EnergyDrift]: integration quality check for guiding-center traces
package analysis
