package tracing

import (
	"math"

	"github.com/sominlee1211/simsopt/internal/field"
)

// Perturbation is a time-dependent electrostatic potential
//
//	Phi = Phihat * sin(M*theta - N*zeta + Omega*t + Phase)
//
// applied by the perturbed Boozer guiding-center models.
type Perturbation struct {
	Phihat float64
	Omega  float64
	M      int
	N      int
	Phase  float64
}

// GuidingCenterVacuumBoozerPerturbedRHS is the vacuum Boozer model with a
// rotating potential perturbation. The state is
// (s, theta, zeta, vpar, time); the explicit clock component lets the
// perturbation phase depend on absolute time.
type GuidingCenterVacuumBoozerPerturbedRHS struct {
	Field    field.BoozerField
	M, Q, Mu float64
	Pert     Perturbation
	AxisMode AxisMode
}

func (r *GuidingCenterVacuumBoozerPerturbedRHS) Dim() int       { return 5 }
func (r *GuidingCenterVacuumBoozerPerturbedRHS) Axis() AxisMode { return r.AxisMode }
func (r *GuidingCenterVacuumBoozerPerturbedRHS) Flux() bool     { return true }

func (r *GuidingCenterVacuumBoozerPerturbedRHS) Derive(t float64, y, dydt State) {
	vpar := y[3]
	clock := y[4]
	s, theta := r.AxisMode.FluxCoords(y)
	b := r.Field.Sample(s, theta, y[2])
	psi0 := r.Field.PsiZero()

	diotadpsi := b.DIotaDs / psi0
	dmodBdpsi := b.DModBDs / psi0
	fak1 := r.M*vpar*vpar/b.ModB + r.M*r.Mu

	pm, pn := float64(r.Pert.M), float64(r.Pert.N)
	arg := pm*theta - pn*y[2] + r.Pert.Omega*clock + r.Pert.Phase
	Phi := r.Pert.Phihat * math.Sin(arg)
	dPhidpsi := 0.0
	Phidot := r.Pert.Phihat * r.Pert.Omega * math.Cos(arg)
	dPhidtheta := Phidot * pm / r.Pert.Omega
	dPhidzeta := -Phidot * pn / r.Pert.Omega
	alphadot := -Phidot * (b.Iota*pm - pn) / (r.Pert.Omega * b.G)
	dalphadtheta := -dPhidtheta * (b.Iota*pm - pn) / (r.Pert.Omega * b.G)
	dalphadpsi := -dPhidpsi*(b.Iota*pm-pn)/(r.Pert.Omega*b.G) -
		Phi*(diotadpsi*pm)/(r.Pert.Omega*b.G)

	sdot := (-b.DModBDtheta*fak1/r.Q + dalphadtheta*b.ModB*vpar - dPhidtheta) / psi0
	tdot := dmodBdpsi*fak1/r.Q + (b.Iota-dalphadpsi*b.G)*vpar*b.ModB/b.G + dPhidpsi

	dydt[0], dydt[1] = r.AxisMode.DerivRegularized(s, theta, sdot, tdot)
	dydt[2] = vpar * b.ModB / b.G
	dydt[3] = -b.ModB/(b.G*r.M)*(r.M*r.Mu*(b.DModBDzeta+dalphadtheta*dmodBdpsi*b.G+
		b.DModBDtheta*(b.Iota-dalphadpsi*b.G))+
		r.Q*(alphadot*b.G+dalphadtheta*b.G*dPhidpsi+(b.Iota-dalphadpsi*b.G)*dPhidtheta+dPhidzeta)) +
		vpar/b.ModB*(b.DModBDtheta*dPhidpsi-dmodBdpsi*dPhidtheta)
	dydt[4] = 1
}

// GuidingCenterNoKBoozerPerturbedRHS is the perturbed model with toroidal
// current terms in the K = 0 limit. The denominator term has no guard
// against near-zero values; the physical regime where that is safe is not
// documented upstream, so the formula is kept as is rather than clamped.
type GuidingCenterNoKBoozerPerturbedRHS struct {
	Field    field.BoozerField
	M, Q, Mu float64
	Pert     Perturbation
	AxisMode AxisMode
}

func (r *GuidingCenterNoKBoozerPerturbedRHS) Dim() int       { return 5 }
func (r *GuidingCenterNoKBoozerPerturbedRHS) Axis() AxisMode { return r.AxisMode }
func (r *GuidingCenterNoKBoozerPerturbedRHS) Flux() bool     { return true }

func (r *GuidingCenterNoKBoozerPerturbedRHS) Derive(t float64, y, dydt State) {
	vpar := y[3]
	clock := y[4]
	s, theta := r.AxisMode.FluxCoords(y)
	b := r.Field.Sample(s, theta, y[2])
	psi0 := r.Field.PsiZero()

	dGdpsi := b.DGDs / psi0
	dIdpsi := b.DIDs / psi0
	diotadpsi := b.DIotaDs / psi0
	dmodBdpsi := b.DModBDs / psi0
	fak1 := r.M*vpar*vpar/b.ModB + r.M*r.Mu

	pm, pn := float64(r.Pert.M), float64(r.Pert.N)
	GI := b.G + b.Iota*b.I
	arg := pm*theta - pn*y[2] + r.Pert.Omega*clock + r.Pert.Phase
	Phi := r.Pert.Phihat * math.Sin(arg)
	dPhidpsi := 0.0
	Phidot := r.Pert.Phihat * r.Pert.Omega * math.Cos(arg)
	dPhidtheta := Phidot * pm / r.Pert.Omega
	dPhidzeta := -Phidot * pn / r.Pert.Omega
	alpha := -Phi * (b.Iota*pm - pn) / (r.Pert.Omega * GI)
	alphadot := -Phidot * (b.Iota*pm - pn) / (r.Pert.Omega * GI)
	dalphadtheta := -dPhidtheta * (b.Iota*pm - pn) / (r.Pert.Omega * GI)
	dalphadzeta := -dPhidzeta * (b.Iota*pm - pn) / (r.Pert.Omega * GI)
	dalphadpsi := -dPhidpsi*(b.Iota*pm-pn)/(r.Pert.Omega*GI) -
		(Phi/r.Pert.Omega)*(diotadpsi*pm/GI-
			(b.Iota*pm-pn)/(GI*GI)*(dGdpsi+diotadpsi*b.I+b.Iota*dIdpsi))

	// q*G in vacuum
	denom := r.Q*(b.G+b.I*(-alpha*dGdpsi+b.Iota)+alpha*b.G*dIdpsi) +
		r.M*vpar/b.ModB*(-dGdpsi*b.I+b.G*dIdpsi)

	sdot := (-b.G*dPhidtheta*r.Q + b.I*dPhidzeta*r.Q +
		b.ModB*r.Q*vpar*(dalphadtheta*b.G-dalphadzeta*b.I) +
		(-b.DModBDtheta*b.G+b.DModBDzeta*b.I)*fak1) / (denom * psi0)
	tdot := (b.G*r.Q*dPhidpsi + b.ModB*r.Q*vpar*(-dalphadpsi*b.G-alpha*dGdpsi+b.Iota) -
		dGdpsi*r.M*vpar*vpar + dmodBdpsi*b.G*fak1) / denom

	dydt[0], dydt[1] = r.AxisMode.DerivRegularized(s, theta, sdot, tdot)
	dydt[2] = (-b.I*(dmodBdpsi*r.M*r.Mu+dPhidpsi*r.Q) +
		b.ModB*r.Q*vpar*(1+dalphadpsi*b.I+alpha*dIdpsi) +
		r.M*vpar*vpar/b.ModB*(b.ModB*dIdpsi-dmodBdpsi*b.I)) / denom
	dydt[3] = (b.ModB*r.Q/r.M*(-r.M*r.Mu*(b.DModBDzeta*(1+dalphadpsi*b.I+alpha*dIdpsi)+
		dmodBdpsi*(dalphadtheta*b.G-dalphadzeta*b.I)+
		b.DModBDtheta*(b.Iota-alpha*dGdpsi-dalphadpsi*b.G))-
		r.Q*(alphadot*(b.G+b.I*(b.Iota-alpha*dGdpsi)+alpha*b.G*dIdpsi)+
			(dalphadtheta*b.G-dalphadzeta*b.I)*dPhidpsi+
			(b.Iota-alpha*dGdpsi-dalphadpsi*b.G)*dPhidtheta+
			(1+alpha*dIdpsi+dalphadpsi*b.I)*dPhidzeta)) +
		r.Q*vpar/b.ModB*((b.DModBDtheta*b.G-b.DModBDzeta*b.I)*dPhidpsi+
			dmodBdpsi*(b.I*dPhidzeta-b.G*dPhidtheta)) +
		vpar*(r.M*r.Mu*(b.DModBDtheta*dGdpsi-b.DModBDzeta*dIdpsi)+
			r.Q*(alphadot*(dGdpsi*b.I-b.G*dIdpsi)+dGdpsi*dPhidtheta-dIdpsi*dPhidzeta))) / denom
	dydt[4] = 1
}
