package tracing

import (
	"github.com/sominlee1211/simsopt/internal/field"
)

// GuidingCenterVacuumBoozerRHS is the vacuum guiding-center model in
// Boozer coordinates. The state is (s, theta, zeta, vpar) with
//
//	ds/dt     = -|B|_theta * m*(vpar^2/|B| + mu)/(q*psi0)
//	dtheta/dt =  |B|_s     * m*(vpar^2/|B| + mu)/(q*psi0) + iota*vpar*|B|/G
//	dzeta/dt  =  vpar*|B|/G
//	dvpar/dt  = -(iota*|B|_theta + |B|_zeta)*mu*|B|/G
type GuidingCenterVacuumBoozerRHS struct {
	Field    field.BoozerField
	M, Q, Mu float64
	AxisMode AxisMode
}

func (r *GuidingCenterVacuumBoozerRHS) Dim() int       { return 4 }
func (r *GuidingCenterVacuumBoozerRHS) Axis() AxisMode { return r.AxisMode }
func (r *GuidingCenterVacuumBoozerRHS) Flux() bool     { return true }

func (r *GuidingCenterVacuumBoozerRHS) Derive(t float64, y, dydt State) {
	vpar := y[3]
	s, theta := r.AxisMode.FluxCoords(y)
	b := r.Field.Sample(s, theta, y[2])
	psi0 := r.Field.PsiZero()

	fak1 := r.M*vpar*vpar/b.ModB + r.M*r.Mu

	sdot := -b.DModBDtheta * fak1 / (r.Q * psi0)
	tdot := b.DModBDs*fak1/(r.Q*psi0) + b.Iota*vpar*b.ModB/b.G

	dydt[0], dydt[1] = r.AxisMode.DerivRegularized(s, theta, sdot, tdot)
	dydt[2] = vpar * b.ModB / b.G
	dydt[3] = -(b.Iota*b.DModBDtheta + b.DModBDzeta) * r.Mu * b.ModB / b.G
}

// GuidingCenterNoKBoozerRHS includes the toroidal current terms but takes
// the K = 0 limit:
//
//	ds/dt     = (I*|B|_zeta - G*|B|_theta)*m*(vpar^2/|B| + mu)/(iota*D*psi0)
//	dtheta/dt = (G*|B|_psi*m*(vpar^2/|B| + mu) - (-q*iota + m*vpar*G'/|B|)*vpar*|B|)/(iota*D)
//	dzeta/dt  = ((q + m*vpar*I'/|B|)*vpar*|B| - |B|_psi*m*(vpar^2/|B| + mu)*I)/(iota*D)
//	dvpar/dt  = -(mu/vpar)*(|B|_psi*sdot*psi0 + |B|_theta*tdot + |B|_zeta*zdot)
//	D         = ((q + m*vpar*I'/|B|)*G - (-q*iota + m*vpar*G'/|B|)*I)/iota
//
// where primes are derivatives with respect to psi.
type GuidingCenterNoKBoozerRHS struct {
	Field    field.BoozerField
	M, Q, Mu float64
	AxisMode AxisMode
}

func (r *GuidingCenterNoKBoozerRHS) Dim() int       { return 4 }
func (r *GuidingCenterNoKBoozerRHS) Axis() AxisMode { return r.AxisMode }
func (r *GuidingCenterNoKBoozerRHS) Flux() bool     { return true }

func (r *GuidingCenterNoKBoozerRHS) Derive(t float64, y, dydt State) {
	vpar := y[3]
	s, theta := r.AxisMode.FluxCoords(y)
	b := r.Field.Sample(s, theta, y[2])
	psi0 := r.Field.PsiZero()

	dGdpsi := b.DGDs / psi0
	dIdpsi := b.DIDs / psi0
	dmodBdpsi := b.DModBDs / psi0
	fak1 := r.M*vpar*vpar/b.ModB + r.M*r.Mu
	D := ((r.Q+r.M*vpar*dIdpsi/b.ModB)*b.G - (-r.Q*b.Iota+r.M*vpar*dGdpsi/b.ModB)*b.I) / b.Iota

	sdot := (b.I*b.DModBDzeta - b.G*b.DModBDtheta) * fak1 / (D * b.Iota * psi0)
	tdot := (b.G*dmodBdpsi*fak1 - (-r.Q*b.Iota+r.M*vpar*dGdpsi/b.ModB)*vpar*b.ModB) / (D * b.Iota)

	dydt[0], dydt[1] = r.AxisMode.DerivRegularized(s, theta, sdot, tdot)
	dydt[2] = ((r.Q+r.M*vpar*dIdpsi/b.ModB)*vpar*b.ModB - dmodBdpsi*fak1*b.I) / (D * b.Iota)
	dydt[3] = -(r.Mu / vpar) * (dmodBdpsi*sdot*psi0 + b.DModBDtheta*tdot + b.DModBDzeta*dydt[2])
}

// GuidingCenterBoozerRHS is the full model with the covariant K term:
//
//	ds/dt     = (I*|B|_zeta - G*|B|_theta)*m*(vpar^2/|B| + mu)/(iota*D*psi0)
//	dtheta/dt = ((G*|B|_psi - K*|B|_zeta)*m*(vpar^2/|B| + mu) - C*vpar*|B|)/(iota*D)
//	dzeta/dt  = (F*vpar*|B| - (|B|_psi*I - |B|_theta*K)*m*(vpar^2/|B| + mu))/(iota*D)
//	dvpar/dt  = -(mu/vpar)*(|B|_psi*sdot*psi0 + |B|_theta*tdot + |B|_zeta*zdot)
//	C = -m*vpar*(K_zeta - G')/|B| - q*iota
//	F = -m*vpar*(K_theta - I')/|B| + q
//	D = (F*G - C*I)/iota
type GuidingCenterBoozerRHS struct {
	Field    field.BoozerField
	M, Q, Mu float64
	AxisMode AxisMode
}

func (r *GuidingCenterBoozerRHS) Dim() int       { return 4 }
func (r *GuidingCenterBoozerRHS) Axis() AxisMode { return r.AxisMode }
func (r *GuidingCenterBoozerRHS) Flux() bool     { return true }

func (r *GuidingCenterBoozerRHS) Derive(t float64, y, dydt State) {
	vpar := y[3]
	s, theta := r.AxisMode.FluxCoords(y)
	b := r.Field.Sample(s, theta, y[2])
	psi0 := r.Field.PsiZero()

	dGdpsi := b.DGDs / psi0
	dIdpsi := b.DIDs / psi0
	dmodBdpsi := b.DModBDs / psi0
	fak1 := r.M*vpar*vpar/b.ModB + r.M*r.Mu
	C := -r.M*vpar*(b.DKDzeta-dGdpsi)/b.ModB - r.Q*b.Iota
	F := -r.M*vpar*(b.DKDtheta-dIdpsi)/b.ModB + r.Q
	D := (F*b.G - C*b.I) / b.Iota

	sdot := (b.I*b.DModBDzeta - b.G*b.DModBDtheta) * fak1 / (D * b.Iota * psi0)
	tdot := (b.G*dmodBdpsi*fak1 - C*vpar*b.ModB - b.K*fak1*b.DModBDzeta) / (D * b.Iota)

	dydt[0], dydt[1] = r.AxisMode.DerivRegularized(s, theta, sdot, tdot)
	dydt[2] = (F*vpar*b.ModB - dmodBdpsi*fak1*b.I + b.K*fak1*b.DModBDtheta) / (D * b.Iota)
	dydt[3] = -(r.Mu / vpar) * (dmodBdpsi*sdot*psi0 + b.DModBDtheta*tdot + b.DModBDzeta*dydt[2])
}
