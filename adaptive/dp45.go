// Package adaptive provides the default AdaptiveCore used inside a
// close-encounter sub-step: an embedded Dormand-Prince RK5(4) method
// with local error control, generalizing the teacher's fixed-step RK4
// Integrable driver (src/integrator/rk4.go) to the variable step size a
// stiff encounter needs.
package adaptive

import (
	"fmt"
	"math"

	"github.com/rabotin-collab/hybridnbody"
)

// Dormand-Prince 5(4) Butcher tableau (Dormand & Prince, 1980), the same
// coefficients underlying github.com/ready-steady/ode/dopri used
// elsewhere in this module as a cross-check oracle.
var (
	dpC = [7]float64{0, 1.0 / 5, 3.0 / 10, 4.0 / 5, 8.0 / 9, 1, 1}
	dpA = [7][6]float64{
		{},
		{1.0 / 5},
		{3.0 / 40, 9.0 / 40},
		{44.0 / 45, -56.0 / 15, 32.0 / 9},
		{19372.0 / 6561, -25360.0 / 2187, 64448.0 / 6561, -212.0 / 729},
		{9017.0 / 3168, -355.0 / 33, 46732.0 / 5247, 49.0 / 176, -5103.0 / 18656},
		{35.0 / 384, 0, 500.0 / 1113, 125.0 / 192, -2187.0 / 6784, 11.0 / 84},
	}
	dpB5 = [7]float64{35.0 / 384, 0, 500.0 / 1113, 125.0 / 192, -2187.0 / 6784, 11.0 / 84, 0}
	dpB4 = [7]float64{5179.0 / 57600, 0, 7571.0 / 16695, 393.0 / 640, -92097.0 / 339200, 187.0 / 2100, 1.0 / 40}
)

const (
	safety   = 0.9
	minScale = 0.2
	maxScale = 5.0
	errOrder = 5.0
)

// DP45 is the default AdaptiveCore: a dense-output-free embedded
// Dormand-Prince integrator operating directly on sys.Particles'
// position/velocity components, with accelerations supplied by
// sys.Gravity.
type DP45 struct {
	// Tol is the target local error per unit step (relative+absolute
	// mixed tolerance), defaulting to 1e-9 if zero.
	Tol float64

	lastErrNorm float64
}

var _ hybrid.AdaptiveCore = (*DP45)(nil)

// NewDP45 returns a DP45 core with the default tolerance.
func NewDP45() *DP45 { return &DP45{Tol: 1e-9} }

// Reset implements hybrid.AdaptiveCore.
func (d *DP45) Reset() {
	d.lastErrNorm = 0
}

// state is the flattened [x,y,z,vx,vy,vz]*n phase vector the Dormand-
// Prince stages operate on.
type state []float64

func packState(p []hybrid.Particle) state {
	s := make(state, 6*len(p))
	for i, b := range p {
		o := 6 * i
		s[o+0], s[o+1], s[o+2] = b.X, b.Y, b.Z
		s[o+3], s[o+4], s[o+5] = b.VX, b.VY, b.VZ
	}
	return s
}

func unpackState(s state, p []hybrid.Particle) {
	for i := range p {
		o := 6 * i
		p[i].X, p[i].Y, p[i].Z = s[o+0], s[o+1], s[o+2]
		p[i].VX, p[i].VY, p[i].VZ = s[o+3], s[o+4], s[o+5]
	}
}

// derivative evaluates d(state)/dt: velocities feed positions directly,
// accelerations come from sys.Gravity with the particle array
// temporarily set to the probe state.
func derivative(sys *hybrid.System, s state) state {
	n := len(s) / 6
	saved := make([]hybrid.Particle, n)
	copy(saved, sys.Particles)
	unpackState(s, sys.Particles)

	acc := sys.Gravity.Accelerations(sys)

	ds := make(state, len(s))
	for i := 0; i < n; i++ {
		o := 6 * i
		ds[o+0] = sys.Particles[i].VX
		ds[o+1] = sys.Particles[i].VY
		ds[o+2] = sys.Particles[i].VZ
		ds[o+3] = acc[i][0]
		ds[o+4] = acc[i][1]
		ds[o+5] = acc[i][2]
	}

	copy(sys.Particles, saved)
	return ds
}

// Step implements hybrid.AdaptiveCore: it attempts one Dormand-Prince
// step of size dt, shrinking dt on rejection by the error controller's
// factor (never below minScale) until the estimated local error is
// within tolerance, and returns the step actually taken plus the core's
// suggestion for the next step size. After maxShrinks rejected attempts
// it returns an error and advances nothing.
func (d *DP45) Step(sys *hybrid.System, dt float64) (advanced, nextDt float64, err error) {
	if d.Tol == 0 {
		d.Tol = 1e-9
	}
	n := sys.N()
	y0 := packState(sys.Particles)

	const maxShrinks = 50
	for shrink := 0; shrink < maxShrinks; shrink++ {
		var k [7]state
		k[0] = derivative(sys, y0)
		for stage := 1; stage < 7; stage++ {
			yi := make(state, len(y0))
			copy(yi, y0)
			for s := 0; s < stage; s++ {
				a := dpA[stage][s]
				if a == 0 {
					continue
				}
				for idx := range yi {
					yi[idx] += dt * a * k[s][idx]
				}
			}
			k[stage] = derivative(sys, yi)
		}

		y5 := make(state, len(y0))
		y4 := make(state, len(y0))
		copy(y5, y0)
		copy(y4, y0)
		for stage := 0; stage < 7; stage++ {
			for idx := range y0 {
				y5[idx] += dt * dpB5[stage] * k[stage][idx]
				y4[idx] += dt * dpB4[stage] * k[stage][idx]
			}
		}

		errNorm := 0.0
		for idx := range y5 {
			scale := 1e-9 + d.Tol*math.Max(math.Abs(y5[idx]), math.Abs(y0[idx]))
			e := (y5[idx] - y4[idx]) / scale
			errNorm += e * e
		}
		errNorm = math.Sqrt(errNorm / float64(len(y5)))
		d.lastErrNorm = errNorm

		if errNorm <= 1 || dt < 1e-300 {
			unpackState(y5, sys.Particles)
			scale := maxScale
			if errNorm > 0 {
				scale = safety * math.Pow(1/errNorm, 1/errOrder)
				scale = math.Min(maxScale, math.Max(minScale, scale))
			}
			return dt, dt * scale, nil
		}

		scale := safety * math.Pow(1/errNorm, 1/errOrder)
		scale = math.Max(minScale, scale)
		dt *= scale
	}

	return 0, dt, fmt.Errorf("adaptive: failed to converge a step for %d particles after %d shrinks", n, maxShrinks)
}
