// Package gravity provides the default GravityOracle: a direct O(n^2)
// pairwise summation, mode-masked by the system's switching function,
// mirroring the teacher's perturbations.go direct-summation style scaled
// up from a single-spacecraft perturbation to a full N-body force law.
package gravity

import (
	"math"

	"github.com/rabotin-collab/hybridnbody"
)

// Oracle is the default GravityOracle. Besides the pairwise Newtonian
// sum it optionally adds the central body's J2 oblateness perturbation
// (Vallado's Cartesian-frame formula, the same one the teacher's
// Perturbations.Perturb applies to a single spacecraft's Cartesian
// state in perturbations.go), generalized here to every non-star
// particle. J2/CentralRadius are left at zero by NewOracle, which
// disables the perturbation entirely.
type Oracle struct {
	// J2 is the central body's second zonal harmonic; zero disables it.
	J2 float64
	// CentralRadius is the central body's equatorial radius, used by
	// the J2 term. Required (nonzero) whenever J2 != 0.
	CentralRadius float64
}

var _ hybrid.GravityOracle = (*Oracle)(nil)

// NewOracle returns a ready-to-use Oracle.
func NewOracle() *Oracle { return &Oracle{} }

// Accelerations implements hybrid.GravityOracle. Pairs are iterated in
// fixed (i,j) lexicographic order with i<j and accumulated in that same
// order into both endpoints, so repeated calls on identical input are
// bit-reproducible.
//
// During ModeOuter with a switching function wired (the only way the
// hybrid stepper ever drives this), star pairs (i==0) are skipped
// entirely: the star's full two-body pull on every other body is
// already supplied by SymplecticCore.KeplerStep, and the momentum
// coupling by JumpStep, so the oracle only ever contributes the
// non-central pairwise perturbation (spec.md §4.2: "the oracle only
// handles the perturbation piece"), weighted by 1-L(d,dcrit) to leave
// the near-encounter component for the sub-step. With no switching
// function configured (L == nil, standalone use outside the hybrid
// stepper), the oracle instead behaves as a plain unmasked N-body force
// law including the star, since there is no Kepler step to rely on.
// During ModeSub, non-star pairs are weighted by L(d,dcrit) (only the
// near-encounter component, the far-field part having already been
// folded into the outer step before the sub-step began), while star
// pairs are applied at full, unmasked weight, because no Kepler step
// exists inside the sub-step to supply the rest of the star's pull.
func (o *Oracle) Accelerations(sys *hybrid.System) [][3]float64 {
	n := sys.N()
	acc := make([][3]float64, n)

	particles := sys.Particles
	g := sys.G
	mode := sys.Mode()
	L := sys.L
	dcrit := sys.Dcrit()

	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if i == 0 && mode == hybrid.ModeOuter && L != nil {
				continue
			}

			dx := particles[j].X - particles[i].X
			dy := particles[j].Y - particles[i].Y
			dz := particles[j].Z - particles[i].Z
			d2 := dx*dx + dy*dy + dz*dz
			if d2 == 0 {
				continue
			}
			d := math.Sqrt(d2)
			invD3 := 1.0 / (d2 * d)

			weight := 1.0
			switch {
			case L == nil:
				weight = 1
			case i == 0 && mode == hybrid.ModeSub:
				weight = 1
			default:
				dc := dcrit[i]
				if dcrit[j] > dc {
					dc = dcrit[j]
				}
				lv := L(d, dc)
				if mode == hybrid.ModeOuter {
					weight = 1 - lv
				} else {
					weight = lv
				}
			}

			fx := g * dx * invD3 * weight
			fy := g * dy * invD3 * weight
			fz := g * dz * invD3 * weight

			mi := particles[i].Mass
			mj := particles[j].Mass

			acc[i][0] += fx * mj
			acc[i][1] += fy * mj
			acc[i][2] += fz * mj
			acc[j][0] -= fx * mi
			acc[j][1] -= fy * mi
			acc[j][2] -= fz * mi
		}
	}

	if o.J2 != 0 && n > 0 {
		x0, y0, z0 := particles[0].X, particles[0].Y, particles[0].Z
		mu0 := g * particles[0].Mass
		for i := 1; i < n; i++ {
			dx := particles[i].X - x0
			dy := particles[i].Y - y0
			dz := particles[i].Z - z0
			r2 := dx*dx + dy*dy + dz*dz
			r := math.Sqrt(r2)
			z2 := dz * dz
			coeff := -(3 * mu0 * o.J2 * o.CentralRadius * o.CentralRadius) / (2 * r2 * r2 * r)
			acc[i][0] += coeff * dx * (1 - 5*z2/r2)
			acc[i][1] += coeff * dy * (1 - 5*z2/r2)
			acc[i][2] += coeff * dz * (3 - 5*z2/r2)
		}
	}

	return acc
}
