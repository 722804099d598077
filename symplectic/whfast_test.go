package symplectic

import (
	"math"
	"testing"

	"github.com/ready-steady/ode/dopri"
	"github.com/stretchr/testify/assert"
)

func TestKeplerAdvanceCircularOrbitPeriod(t *testing.T) {
	mu := 1.0
	r0 := 1.0
	v0 := math.Sqrt(mu / r0)
	period := 2 * math.Pi * math.Sqrt(r0*r0*r0/mu)

	x, y, z, vx, vy, vz, ok := keplerAdvance(r0, 0, 0, 0, v0, 0, mu, period)
	assert.True(t, ok)
	assert.InDelta(t, r0, x, 1e-6)
	assert.InDelta(t, 0, y, 1e-6)
	assert.InDelta(t, 0, z, 1e-9)
	assert.InDelta(t, 0, vx, 1e-6)
	assert.InDelta(t, v0, vy, 1e-6)
}

func TestKeplerAdvanceQuarterOrbit(t *testing.T) {
	mu := 1.0
	r0 := 1.0
	v0 := math.Sqrt(mu / r0)
	period := 2 * math.Pi * math.Sqrt(r0*r0*r0/mu)

	x, y, _, vx, vy, _, ok := keplerAdvance(r0, 0, 0, 0, v0, 0, mu, period/4)
	assert.True(t, ok)
	assert.InDelta(t, 0, x, 1e-6)
	assert.InDelta(t, r0, y, 1e-6)
	assert.InDelta(t, -v0, vx, 1e-6)
	assert.InDelta(t, 0, vy, 1e-6)
}

// TestKeplerAdvanceAgreesWithDopri cross-checks the closed-form
// universal-variable solver against an independent numerical Dormand-
// Prince integration of the same two-body problem.
func TestKeplerAdvanceAgreesWithDopri(t *testing.T) {
	mu := 1.0
	f := func(x float64, y, dy []float64) {
		r := math.Sqrt(y[0]*y[0] + y[1]*y[1])
		r3 := r * r * r
		dy[0] = y[2]
		dy[1] = y[3]
		dy[2] = -mu * y[0] / r3
		dy[3] = -mu * y[1] / r3
	}
	integrator, err := dopri.New(dopri.DefaultConfig())
	assert.NoError(t, err)

	y0 := []float64{1, 0, 0, 1}
	dt := 0.3
	xs := []float64{0, dt}
	ys, _, err := integrator.Compute(f, y0, xs)
	assert.NoError(t, err)
	wantX, wantY := ys[4], ys[5]

	gotX, gotY, _, _, _, _, ok := keplerAdvance(1, 0, 0, 0, 1, 0, mu, dt)
	assert.True(t, ok)
	assert.InDelta(t, wantX, gotX, 1e-5)
	assert.InDelta(t, wantY, gotY, 1e-5)
}

func TestStumpffEllipticParabolicHyperbolicAgreeAtZero(t *testing.T) {
	c2e, c3e := stumpff(1e-7)
	c2p, c3p := stumpff(0)
	c2h, c3h := stumpff(-1e-7)
	assert.InDelta(t, c2p, c2e, 1e-6)
	assert.InDelta(t, c2p, c2h, 1e-6)
	assert.InDelta(t, c3p, c3e, 1e-6)
	assert.InDelta(t, c3p, c3h, 1e-6)
}
