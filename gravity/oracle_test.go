package gravity

import (
	"math"
	"testing"

	"github.com/rabotin-collab/hybridnbody"
	"github.com/stretchr/testify/assert"
)

func newTestSystem() *hybrid.System {
	particles := []hybrid.Particle{
		{Mass: 1.0},
		{Mass: 1e-3, X: 1, Y: 0, Z: 0},
		{Mass: 1e-3, X: 0, Y: 2, Z: 0},
	}
	sys := hybrid.NewSystem(particles, 1.0, nil, nil, nil, nil, NewOracle())
	sys.NActive = -1
	sys.L = hybrid.PolynomialL
	sys.SetDcrit([]float64{0, 0, 0}) // zero dcrit: PolynomialL is 1 for every d>0, so ModeOuter's 1-L weight is 0
	return sys
}

func TestAccelerationsNewtonThirdLaw(t *testing.T) {
	sys := newTestSystem()
	o := NewOracle()
	acc := o.Accelerations(sys)

	sum := [3]float64{}
	for i := range acc {
		sum[0] += acc[i][0] * sys.Particles[i].Mass
		sum[1] += acc[i][1] * sys.Particles[i].Mass
		sum[2] += acc[i][2] * sys.Particles[i].Mass
	}
	// Momentum-rate conservation: mass-weighted accelerations sum to zero
	// for a closed pairwise force law.
	assert.InDelta(t, 0, sum[0], 1e-9)
	assert.InDelta(t, 0, sum[1], 1e-9)
	assert.InDelta(t, 0, sum[2], 1e-9)
}

func TestAccelerationsBitIdenticalAcrossCalls(t *testing.T) {
	sys := newTestSystem()
	o := NewOracle()
	acc1 := o.Accelerations(sys)
	acc2 := o.Accelerations(sys)
	for i := range acc1 {
		assert.Equal(t, acc1[i], acc2[i], "repeated calls on unchanged input must be bit-identical")
	}
}

func TestAccelerationsModeSubStarUnmasked(t *testing.T) {
	particles := []hybrid.Particle{
		{Mass: 1.0},
		{Mass: 1e-3, X: 1e-6, Y: 0, Z: 0},
	}
	sys := hybrid.NewSystem(particles, 1.0, nil, nil, nil, nil, NewOracle())
	sys.NActive = -1
	sys.L = func(d, dcrit float64) float64 { return 0 } // fully far-field
	sys.SetDcrit([]float64{0, 0})
	sys.SetMode(hybrid.ModeSub)

	o := NewOracle()
	acc := o.Accelerations(sys)
	// Even with L==0 (no near-field weight), the star's pull on body 1
	// must still be the full Newtonian value in ModeSub.
	dx := particles[1].X - particles[0].X
	want := sys.G * particles[0].Mass / (dx * dx)
	assert.InDelta(t, -want, acc[1][0], 1e-6*math.Abs(want))
}

func TestAccelerationsJ2PerturbsEquatorialBody(t *testing.T) {
	particles := []hybrid.Particle{
		{Mass: 1.0},
		{Mass: 1e-9, X: 2, Y: 0, Z: 0},
	}
	sys := hybrid.NewSystem(particles, 1.0, nil, nil, nil, nil, nil)
	sys.NActive = -1
	sys.SetDcrit([]float64{0, 0})

	o := &Oracle{J2: 1e-3, CentralRadius: 1.0}
	acc := o.Accelerations(sys)

	// Equatorial (z=0): the J2 term is purely radial (inward), adding to
	// the Newtonian pull, so the total x-acceleration magnitude exceeds
	// the pure two-body value.
	pureTwoBody := sys.G * particles[0].Mass / (2 * 2)
	assert.Greater(t, math.Abs(acc[1][0]), pureTwoBody)
}
