package field

import "math"

// UniformField is a spatially constant field of magnitude B0 along Dir.
type UniformField struct {
	B0  float64
	Dir [3]float64
}

func NewUniformField(b0 float64, dir [3]float64) *UniformField {
	n := math.Sqrt(dir[0]*dir[0] + dir[1]*dir[1] + dir[2]*dir[2])
	return &UniformField{
		B0:  b0,
		Dir: [3]float64{dir[0] / n, dir[1] / n, dir[2] / n},
	}
}

func (f *UniformField) SampleCyl(r, phi, z float64) Sample {
	return Sample{
		B:    [3]float64{f.B0 * f.Dir[0], f.B0 * f.Dir[1], f.B0 * f.Dir[2]},
		AbsB: f.B0,
	}
}

func (f *UniformField) Vacuum() bool { return true }

// ToroidalField is the purely toroidal vacuum field B = B0*R0/R e_phi.
type ToroidalField struct {
	B0 float64
	R0 float64
}

func NewToroidalField(b0, r0 float64) *ToroidalField {
	return &ToroidalField{B0: b0, R0: r0}
}

func (f *ToroidalField) SampleCyl(r, phi, z float64) Sample {
	sin, cos := math.Sincos(phi)
	absB := f.B0 * f.R0 / r
	// |B| = B0*R0/R, so grad|B| = -(B0*R0/R^2) e_R.
	g := -absB / r
	return Sample{
		B:        [3]float64{-absB * sin, absB * cos, 0},
		AbsB:     absB,
		GradAbsB: [3]float64{g * cos, g * sin, 0},
	}
}

func (f *ToroidalField) Vacuum() bool { return true }

// AnalyticBoozerField is a quasi-symmetric model field with closed-form
// derivatives, suitable for tests and demo runs:
//
//	modB(s,theta,zeta) = B0*(1 + Etabar*r*cos(M*theta - N*zeta)), r = sqrt(2*s*psi0/B0)
//	iota(s) = Iota0 + Iota1*s
//	G(s)    = G0 + G1*s
//	I(s)    = I1*s
//	K       = K1*sqrt(s)*sin(M*theta - N*zeta)
//
// With psi0 = B0/2 the effective minor radius r reduces to sqrt(s).
type AnalyticBoozerField struct {
	B0     float64
	G0     float64
	G1     float64
	I1     float64
	K1     float64
	Etabar float64
	Iota0  float64
	Iota1  float64
	M      int
	N      int
	Psi0   float64

	WithCurrents bool
}

// NewAnalyticBoozerField returns a vacuum-like model with iota shear and
// helical field-strength modulation M=1, N=0.
func NewAnalyticBoozerField(b0, g0, etabar, iota0 float64) *AnalyticBoozerField {
	return &AnalyticBoozerField{
		B0:     b0,
		G0:     g0,
		Etabar: etabar,
		Iota0:  iota0,
		M:      1,
		Psi0:   b0 / 2,
	}
}

func (f *AnalyticBoozerField) PsiZero() float64 { return f.Psi0 }

func (f *AnalyticBoozerField) Caps() Caps {
	return Caps{Currents: f.WithCurrents, K: f.K1 != 0}
}

func (f *AnalyticBoozerField) Sample(s, theta, zeta float64) BoozerSample {
	angle := float64(f.M)*theta - float64(f.N)*zeta
	sin, cos := math.Sincos(angle)
	r := math.Sqrt(2 * s * f.Psi0 / f.B0)
	sqrtS := math.Sqrt(s)

	out := BoozerSample{
		ModB:        f.B0 * (1 + f.Etabar*r*cos),
		DModBDtheta: -f.B0 * f.Etabar * r * sin * float64(f.M),
		DModBDzeta:  f.B0 * f.Etabar * r * sin * float64(f.N),
		G:           f.G0 + f.G1*s,
		Iota:        f.Iota0 + f.Iota1*s,
		DIotaDs:     f.Iota1,
	}
	if r > 0 {
		// dr/ds = psi0/(B0*r)
		out.DModBDs = f.B0 * f.Etabar * cos * f.Psi0 / (f.B0 * r)
	}
	if f.WithCurrents {
		out.I = f.I1 * s
		out.DGDs = f.G1
		out.DIDs = f.I1
	}
	if f.K1 != 0 {
		out.K = f.K1 * sqrtS * sin
		out.DKDtheta = f.K1 * sqrtS * cos * float64(f.M)
		out.DKDzeta = -f.K1 * sqrtS * cos * float64(f.N)
	}
	return out
}
