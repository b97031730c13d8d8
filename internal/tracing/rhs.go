package tracing

import (
	"math"

	"github.com/sominlee1211/simsopt/internal/field"
)

// RHS is one member of the closed family of trajectory models. Derive
// writes dy/dt for the current state into dydt; both slices have length
// Dim. Flux reports whether the state lives in Boozer flux coordinates
// (s/x, theta/y, zeta, vpar, ...) rather than real space.
type RHS interface {
	Dim() int
	Axis() AxisMode
	Flux() bool
	Derive(t float64, y, dydt State)
}

// FieldLineRHS advances a point along the unit field direction, so the
// integration variable measures arc length.
type FieldLineRHS struct {
	Field field.MagneticField
}

func (r *FieldLineRHS) Dim() int       { return 3 }
func (r *FieldLineRHS) Axis() AxisMode { return AxisStandard }
func (r *FieldLineRHS) Flux() bool     { return false }

func (r *FieldLineRHS) Derive(t float64, y, dydt State) {
	rad := math.Hypot(y[0], y[1])
	phi := math.Atan2(y[1], y[0])
	if phi < 0 {
		phi += 2 * math.Pi
	}
	fs := r.Field.SampleCyl(rad, phi, y[2])
	dydt[0] = fs.B[0] / fs.AbsB
	dydt[1] = fs.B[1] / fs.AbsB
	dydt[2] = fs.B[2] / fs.AbsB
}

// FullOrbitRHS is the Lorentz-force model. The state is
// (x, y, z, vx, vy, vz) and a = (q/m) v x B.
type FullOrbitRHS struct {
	Field  field.MagneticField
	qOverM float64
}

func NewFullOrbitRHS(f field.MagneticField, m, q float64) *FullOrbitRHS {
	return &FullOrbitRHS{Field: f, qOverM: q / m}
}

func (r *FullOrbitRHS) Dim() int       { return 6 }
func (r *FullOrbitRHS) Axis() AxisMode { return AxisStandard }
func (r *FullOrbitRHS) Flux() bool     { return false }

func (r *FullOrbitRHS) Derive(t float64, y, dydt State) {
	rad := math.Hypot(y[0], y[1])
	phi := math.Atan2(y[1], y[0])
	if phi < 0 {
		phi += 2 * math.Pi
	}
	fs := r.Field.SampleCyl(rad, phi, y[2])
	vx, vy, vz := y[3], y[4], y[5]
	dydt[0] = vx
	dydt[1] = vy
	dydt[2] = vz
	dydt[3] = r.qOverM * (vy*fs.B[2] - vz*fs.B[1])
	dydt[4] = r.qOverM * (vz*fs.B[0] - vx*fs.B[2])
	dydt[5] = r.qOverM * (vx*fs.B[1] - vy*fs.B[0])
}

// GuidingCenterRHS is the real-space vacuum guiding-center model. The
// state is (x, y, z, vpar) with
//
//	d(x,y,z)/dt = vpar*B/|B| + m/(q*|B|^3) * (vperp^2/2 + vpar^2) B x grad(|B|)
//	dvpar/dt    = -mu * (B . grad(|B|)) / |B|
//
// where vperp^2 = 2*mu*|B|.
type GuidingCenterRHS struct {
	Field field.MagneticField
	M     float64
	Q     float64
	Mu    float64
}

func (r *GuidingCenterRHS) Dim() int       { return 4 }
func (r *GuidingCenterRHS) Axis() AxisMode { return AxisStandard }
func (r *GuidingCenterRHS) Flux() bool     { return false }

func (r *GuidingCenterRHS) Derive(t float64, y, dydt State) {
	rad := math.Hypot(y[0], y[1])
	phi := math.Atan2(y[1], y[0])
	if phi < 0 {
		phi += 2 * math.Pi
	}
	fs := r.Field.SampleCyl(rad, phi, y[2])
	vpar := y[3]

	bCrossGrad := [3]float64{
		fs.B[1]*fs.GradAbsB[2] - fs.B[2]*fs.GradAbsB[1],
		fs.B[2]*fs.GradAbsB[0] - fs.B[0]*fs.GradAbsB[2],
		fs.B[0]*fs.GradAbsB[1] - fs.B[1]*fs.GradAbsB[0],
	}
	vperp2 := 2 * r.Mu * fs.AbsB
	fak1 := vpar / fs.AbsB
	fak2 := r.M / (r.Q * math.Pow(fs.AbsB, 3)) * (0.5*vperp2 + vpar*vpar)
	dydt[0] = fak1*fs.B[0] + fak2*bCrossGrad[0]
	dydt[1] = fak1*fs.B[1] + fak2*bCrossGrad[1]
	dydt[2] = fak1*fs.B[2] + fak2*bCrossGrad[2]
	dydt[3] = -r.Mu * (fs.B[0]*fs.GradAbsB[0] + fs.B[1]*fs.GradAbsB[1] + fs.B[2]*fs.GradAbsB[2]) / fs.AbsB
}
