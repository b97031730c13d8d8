package field

// Sample holds the field quantities at a single query point in real space.
// All vector components are Cartesian.
type Sample struct {
	B        [3]float64
	AbsB     float64
	GradAbsB [3]float64
}

// BoozerSample holds the flux-coordinate quantities at a single query point
// (s, theta, zeta). Derivatives named D...Ds are taken with respect to the
// normalized flux label s, not psi.
type BoozerSample struct {
	ModB        float64
	DModBDs     float64
	DModBDtheta float64
	DModBDzeta  float64

	G    float64
	I    float64
	DGDs float64
	DIDs float64

	K        float64
	DKDtheta float64
	DKDzeta  float64

	Iota    float64
	DIotaDs float64
}

// MagneticField evaluates a magnetic field at cylindrical query points.
// SampleCyl returns an immutable snapshot of the field at (r, phi, z), so
// callers never read quantities belonging to a stale query point.
type MagneticField interface {
	SampleCyl(r, phi, z float64) Sample

	// Vacuum reports whether the field is curl-free in the tracing region.
	Vacuum() bool
}

// Caps describes which flux-coordinate quantities a Boozer evaluator can
// supply beyond the vacuum minimum (modB, its derivatives, G and iota).
type Caps struct {
	// Currents: toroidal current I, dG/ds and dI/ds.
	Currents bool
	// K: the covariant correction term K and its angular derivatives.
	K bool
}

// BoozerField evaluates a field in Boozer flux coordinates.
type BoozerField interface {
	Sample(s, theta, zeta float64) BoozerSample

	// PsiZero returns the flux normalization constant psi0, so that
	// psi = s * psi0.
	PsiZero() float64

	Caps() Caps
}
