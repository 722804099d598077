package hybrid

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

// fakeSymplectic is a minimal SymplecticCore stand-in for dcrit/predictor
// tests that only need a PJH buffer, not real Kepler propagation.
type fakeSymplectic struct {
	pjh []Particle
}

func (f *fakeSymplectic) EnsureCapacity(n int) bool {
	if len(f.pjh) >= n {
		return false
	}
	grown := make([]Particle, n)
	copy(grown, f.pjh)
	f.pjh = grown
	return true
}
func (f *fakeSymplectic) PJH() []Particle              { return f.pjh }
func (f *fakeSymplectic) SetDemocraticHeliocentric()   {}
func (f *fakeSymplectic) KeplerStep(s *System, dt float64)      {}
func (f *fakeSymplectic) InteractionStep(s *System, dt float64) {}
func (f *fakeSymplectic) JumpStep(s *System, dt float64)        {}
func (f *fakeSymplectic) ComStep(s *System, dt float64)         {}

func newDcritTestSystem(m0, mi, dx, dvx float64, dt, hillfac float64) *System {
	symp := &fakeSymplectic{pjh: []Particle{{Mass: m0}, {X: dx, Mass: mi}}}
	particles := []Particle{
		{Mass: m0},
		{Mass: mi, X: dx, VX: dvx},
	}
	s := NewSystem(particles, 1.0, symp, nil, nil, nil, nil)
	s.Dt = dt
	s.Hillfac = hillfac
	s.dcrit = make([]float64, 2)
	return s
}

func TestDcritVelocityCriterionDominates(t *testing.T) {
	// Large relative velocity, tiny Hill radius and physical radius: the
	// velocity-based criteria should dominate.
	s := newDcritTestSystem(1.0, 1e-12, 1.0, 10.0, 0.01, 3)
	recomputeDcrit(s)
	expectVel := math.Sqrt(10.0*10.0) * 0.4 * s.Dt
	assert.InDelta(t, expectVel, s.dcrit[1], 1e-9)
}

func TestDcritHillCriterionDominates(t *testing.T) {
	// A massive secondary nearly at rest relative to the star (semi-major
	// axis about 0.5) with a tiny dt: the Hill radius criterion should
	// dominate over velocity/physical criteria.
	s := newDcritTestSystem(1.0, 1e-3, 1.0, 1e-6, 1e-6, 3)
	recomputeDcrit(s)
	mu := s.G * (1.0 + 1e-3)
	r := 1.0
	v2 := 1e-6 * 1e-6
	denom := 2*mu - r*v2
	a := mu * r / denom
	hill := 3 * a * math.Pow(1e-3/3, 1./3.)
	assert.InDelta(t, hill, s.dcrit[1], 1e-9)
}

func TestDcritPhysicalRadiusCriterionDominates(t *testing.T) {
	s := newDcritTestSystem(1.0, 1e-12, 1.0, 1e-9, 1e-9, 3)
	s.Particles[1].Radius = 5.0
	recomputeDcrit(s)
	assert.InDelta(t, 10.0, s.dcrit[1], 1e-9)
}

func TestDcritCentralBodyIsTwiceRadius(t *testing.T) {
	s := newDcritTestSystem(1.0, 1e-9, 1.0, 0.1, 0.01, 3)
	s.Particles[0].Radius = 0.05
	recomputeDcrit(s)
	assert.InDelta(t, 0.1, s.dcrit[0], 1e-12)
}
