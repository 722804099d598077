// Package symplectic provides a default, WHFast-style SymplecticCore: a
// second-order Wisdom-Holman mapping in democratic heliocentric (DH)
// coordinates, split into kepler/interaction/jump/com sub-steps exactly
// as the teacher's orbit propagation (Vallado-style closed-form Kepler
// solves in orbit.go) generalizes to an N-body Hamiltonian splitting.
package symplectic

import (
	"math"

	"github.com/rabotin-collab/hybridnbody"
)

// WHFast is the default SymplecticCore. It owns the democratic
// heliocentric particle buffer (p_jh).
type WHFast struct {
	pjh        []hybrid.Particle
	allocatedN int
}

// NewWHFast returns an empty WHFast core; EnsureCapacity allocates p_jh
// lazily on first use, matching the teacher's lazy-allocation discipline.
func NewWHFast() *WHFast { return &WHFast{} }

// EnsureCapacity implements hybrid.SymplecticCore.
func (w *WHFast) EnsureCapacity(n int) bool {
	if w.allocatedN >= n {
		return false
	}
	grown := make([]hybrid.Particle, n)
	copy(grown, w.pjh)
	w.pjh = grown
	w.allocatedN = n
	return true
}

// PJH implements hybrid.SymplecticCore.
func (w *WHFast) PJH() []hybrid.Particle { return w.pjh }

// SetDemocraticHeliocentric implements hybrid.SymplecticCore. WHFast only
// ever operates in DH coordinates, so this is a no-op kept for interface
// symmetry with collaborators that support multiple coordinate systems.
func (w *WHFast) SetDemocraticHeliocentric() {}

// KeplerStep advances each non-central body along its osculating
// two-body orbit about the central mass using the universal-variable
// f-and-g solution (Danby's method, as referenced by Vallado - the same
// family of algorithm the teacher cites in orbit.go).
func (w *WHFast) KeplerStep(sys *hybrid.System, dt float64) {
	m0 := sys.Particles[0].Mass
	mu := sys.G * m0
	n := sys.N()
	for i := 1; i < n; i++ {
		p := w.pjh[i]
		x, y, z, vx, vy, vz, ok := keplerAdvance(p.X, p.Y, p.Z, p.VX, p.VY, p.VZ, mu, dt)
		if !ok {
			// Degenerate (near-zero angular momentum or radius): fall
			// back to a linear drift rather than diverge.
			x, y, z = p.X+p.VX*dt, p.Y+p.VY*dt, p.Z+p.VZ*dt
			vx, vy, vz = p.VX, p.VY, p.VZ
		}
		w.pjh[i].X, w.pjh[i].Y, w.pjh[i].Z = x, y, z
		w.pjh[i].VX, w.pjh[i].VY, w.pjh[i].VZ = vx, vy, vz
	}
}

// InteractionStep applies the pairwise perturbation kick to the DH
// velocities of the non-central bodies, using the gravity oracle's
// mode-masked accelerations (far-field during the outer step).
func (w *WHFast) InteractionStep(sys *hybrid.System, dt float64) {
	acc := sys.Gravity.Accelerations(sys)
	n := sys.N()
	for i := 1; i < n; i++ {
		w.pjh[i].VX += acc[i][0] * dt
		w.pjh[i].VY += acc[i][1] * dt
		w.pjh[i].VZ += acc[i][2] * dt
	}
}

// JumpStep applies the DH-splitting correction coupling the central
// body's momentum to the others: every orbiting body's position shifts
// by dt * (sum of non-central momenta) / m0.
func (w *WHFast) JumpStep(sys *hybrid.System, dt float64) {
	n := sys.N()
	if n < 2 {
		return
	}
	m0 := sys.Particles[0].Mass
	var px, py, pz float64
	for i := 1; i < n; i++ {
		mi := w.pjh[i].Mass
		px += mi * w.pjh[i].VX
		py += mi * w.pjh[i].VY
		pz += mi * w.pjh[i].VZ
	}
	sx, sy, sz := dt*px/m0, dt*py/m0, dt*pz/m0
	for i := 1; i < n; i++ {
		w.pjh[i].X += sx
		w.pjh[i].Y += sy
		w.pjh[i].Z += sz
	}
}

// ComStep drifts the center of mass (stored in p_jh[0]) by dt.
func (w *WHFast) ComStep(sys *hybrid.System, dt float64) {
	w.pjh[0].X += w.pjh[0].VX * dt
	w.pjh[0].Y += w.pjh[0].VY * dt
	w.pjh[0].Z += w.pjh[0].VZ * dt
}

// keplerAdvance propagates a single Keplerian relative state (r, v) by
// dt under standard gravitational parameter mu, using universal-variable
// Stumpff-function iteration (Danby 1992, the same closed-form family
// cited by the teacher's orbit element conversions). Returns ok=false if
// Newton's method fails to converge or the orbit is degenerate.
func keplerAdvance(x, y, z, vx, vy, vz, mu, dt float64) (nx, ny, nz, nvx, nvy, nvz float64, ok bool) {
	r0 := math.Sqrt(x*x + y*y + z*z)
	v2 := vx*vx + vy*vy + vz*vz
	if r0 < 1e-14 || mu <= 0 {
		return 0, 0, 0, 0, 0, 0, false
	}
	vr0 := (x*vx + y*vy + z*vz) / r0
	alpha := 2/r0 - v2/mu // 1/a

	sqrtMu := math.Sqrt(mu)
	chi := sqrtMu * math.Abs(alpha) * dt // initial guess
	if math.Abs(alpha) < 1e-12 {
		// Parabolic-ish: use a simple guess based on angular momentum.
		hx, hy, hz := y*vz-z*vy, z*vx-x*vz, x*vy-y*vx
		h2 := hx*hx + hy*hy + hz*hz
		p := h2 / mu
		chi = math.Sqrt(p) // crude start
	}

	const maxIter = 100
	var c2, c3, r float64
	converged := false
	for iter := 0; iter < maxIter; iter++ {
		psi := chi * chi * alpha
		c2, c3 = stumpff(psi)
		r = chi*chi*c2 + vr0*chi/sqrtMu*(1-psi*c3) + r0*(1-psi*c2)
		if r == 0 {
			return 0, 0, 0, 0, 0, 0, false
		}
		fChi := (r0*vr0/sqrtMu)*chi*chi*c2 + (1-alpha*r0)*chi*chi*chi*c3 + r0*chi - sqrtMu*dt
		fPrime := r
		dChi := -fChi / fPrime
		chi += dChi
		if math.Abs(dChi) < 1e-10 {
			converged = true
			break
		}
	}
	if !converged || math.IsNaN(chi) {
		return 0, 0, 0, 0, 0, 0, false
	}

	psi := chi * chi * alpha
	c2, c3 = stumpff(psi)
	r = chi*chi*c2 + vr0*chi/sqrtMu*(1-psi*c3) + r0*(1-psi*c2)

	f := 1 - (chi*chi/r0)*c2
	g := dt - (chi*chi*chi/sqrtMu)*c3
	fdot := (sqrtMu / (r * r0)) * chi * (psi*c3 - 1)
	gdot := 1 - (chi*chi/r)*c2

	nx = f*x + g*vx
	ny = f*y + g*vy
	nz = f*z + g*vz
	nvx = fdot*x + gdot*vx
	nvy = fdot*y + gdot*vy
	nvz = fdot*z + gdot*vz
	return nx, ny, nz, nvx, nvy, nvz, true
}

// stumpff returns the Stumpff functions c2(psi), c3(psi) used by the
// universal-variable Kepler solver, valid for elliptic (psi>0),
// parabolic (psi==0) and hyperbolic (psi<0) orbits alike.
func stumpff(psi float64) (c2, c3 float64) {
	switch {
	case psi > 1e-6:
		sp := math.Sqrt(psi)
		c2 = (1 - math.Cos(sp)) / psi
		c3 = (sp - math.Sin(sp)) / (sp * sp * sp)
	case psi < -1e-6:
		sp := math.Sqrt(-psi)
		c2 = (1 - math.Cosh(sp)) / psi
		c3 = (math.Sinh(sp) - sp) / (sp * sp * sp)
	default:
		c2 = 0.5
		c3 = 1.0 / 6.0
	}
	return
}
