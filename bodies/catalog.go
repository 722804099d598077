// Package bodies provides a small celestial-body catalog and a
// classical-orbital-elements seeding helper, generalizing the teacher's
// CelestialObject (celestial.go) and COE2RV conversion (orbit.go,
// NewOrbitFromOE) from a single-spacecraft mission context to seeding
// an N-body hybrid.System's initial Particle set.
package bodies

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/rabotin-collab/hybridnbody"
)

// Body mirrors the teacher's CelestialObject: name, physical radius and
// standard gravitational parameter, plus the oblateness terms the
// teacher's perturbations.go consumes. The default GravityOracle applies
// a J2 term only when its own J2/CentralRadius fields are set; nothing
// reads these fields from a Body automatically.
type Body struct {
	Name   string
	Radius float64 // km
	GM     float64 // km^3/s^2
	J2     float64
	J3     float64
	J4     float64
}

// AU is one astronomical unit in kilometers, same constant as the
// teacher's celestial.go.
const AU = 1.49597870700e8

// Sun, Earth, Jupiter are representative catalog entries; a real
// mission would normally load these from a data file, but the hybrid
// integrator itself is body-catalog agnostic (it operates on
// hybrid.Particle directly), so a small built-in set is enough to seed
// examples and tests.
var (
	Sun = Body{Name: "Sun", Radius: 696000, GM: 1.32712440018e11}

	Earth = Body{Name: "Earth", Radius: 6378.137, GM: 398600.4415, J2: 0.0010826269, J3: -0.0000025323, J4: -0.0000016204}

	Jupiter = Body{Name: "Jupiter", Radius: 71492, GM: 1.26686534e8}
)

const (
	eccentricityEpsilon = 1e-7
	angleEpsilon        = 1e-7
	deg2rad             = math.Pi / 180
)

// COE2RV converts classical orbital elements (a in km, e, and the four
// angles i/Ω/ω/ν in degrees) about a body with gravitational parameter
// mu into inertial position/velocity vectors, using the same p/q/w-frame
// construction as Vallado 4th ed. p.118 (NewOrbitFromOE's algorithm).
func COE2RV(a, e, i, raan, argp, nu, mu float64) (r, v [3]float64) {
	i *= deg2rad
	raan *= deg2rad
	argp *= deg2rad
	nu *= deg2rad

	if e < eccentricityEpsilon && i < angleEpsilon {
		raan, argp = 0, 0
	} else if e < eccentricityEpsilon {
		argp = 0
	} else if i < angleEpsilon {
		raan = 0
	}

	p := a * (1 - e*e)
	muOverP := math.Sqrt(mu / p)
	sinNu, cosNu := math.Sincos(nu)

	rPQW := []float64{p * cosNu / (1 + e*cosNu), p * sinNu / (1 + e*cosNu), 0}
	vPQW := []float64{-muOverP * sinNu, muOverP * (e + cosNu), 0}

	rot := r313(-argp, -i, -raan)
	rVec := mat.NewVecDense(3, rPQW)
	vVec := mat.NewVecDense(3, vPQW)
	var rOut, vOut mat.VecDense
	rOut.MulVec(rot, rVec)
	vOut.MulVec(rot, vVec)

	r = [3]float64{rOut.AtVec(0), rOut.AtVec(1), rOut.AtVec(2)}
	v = [3]float64{vOut.AtVec(0), vOut.AtVec(1), vOut.AtVec(2)}
	return
}

// r313 builds a 3-1-3 Euler-angle rotation matrix (Schaub & Junkins
// convention), the same construction as rotation.go's R3R1R3.
func r313(t1, t2, t3 float64) *mat.Dense {
	s1, c1 := math.Sincos(t1)
	s2, c2 := math.Sincos(t2)
	s3, c3 := math.Sincos(t3)
	return mat.NewDense(3, 3, []float64{
		c3*c1 - s3*c2*s1, c3*s1 + s3*c2*c1, s3 * s2,
		-s3*c1 - c3*c2*s1, -s3*s1 + c3*c2*c1, c3 * s2,
		s2 * s1, -s2 * c1, c2,
	})
}

// SeedParticle builds a hybrid.Particle for a body of the given mass
// (solar masses or any consistent unit matching the System's G) on a
// Keplerian orbit about a central mass with gravitational parameter mu
// = G*(m0+mass), typically used to seed all but index 0 of a
// hybrid.System's Particles.
func SeedParticle(mass, radius, a, e, incl, raan, argp, nu, mu float64) hybrid.Particle {
	r, v := COE2RV(a, e, incl, raan, argp, nu, mu)
	return hybrid.Particle{
		Mass:   mass,
		Radius: radius,
		X:      r[0], Y: r[1], Z: r[2],
		VX: v[0], VY: v[1], VZ: v[2],
	}
}
