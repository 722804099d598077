package coords

import (
	"testing"

	"github.com/rabotin-collab/hybridnbody"
	"github.com/stretchr/testify/assert"
)

func TestRoundTrip(t *testing.T) {
	inertial := []hybrid.Particle{
		{Mass: 1.0, X: 0.1, Y: -0.2, Z: 0.05, VX: 0.01, VY: 0.02, VZ: -0.01},
		{Mass: 1e-3, X: 1.3, Y: 0.4, Z: -0.2, VX: -0.3, VY: 0.9, VZ: 0.1},
		{Mass: 2e-3, X: -0.7, Y: 1.1, Z: 0.3, VX: 0.2, VY: -0.1, VZ: 0.4},
	}
	n := len(inertial)
	dh := make([]hybrid.Particle, n)
	xf := NewTransform()

	xf.InertialToDH(inertial, dh, n)

	got := make([]hybrid.Particle, n)
	copy(got, inertial)
	xf.DHToInertial(got, dh, n)

	for i := 0; i < n; i++ {
		assert.InDelta(t, inertial[i].X, got[i].X, 1e-9)
		assert.InDelta(t, inertial[i].Y, got[i].Y, 1e-9)
		assert.InDelta(t, inertial[i].Z, got[i].Z, 1e-9)
		assert.InDelta(t, inertial[i].VX, got[i].VX, 1e-9)
		assert.InDelta(t, inertial[i].VY, got[i].VY, 1e-9)
		assert.InDelta(t, inertial[i].VZ, got[i].VZ, 1e-9)
	}
}

func TestDHOriginIsCentralBody(t *testing.T) {
	inertial := []hybrid.Particle{
		{Mass: 1.0, X: 5, Y: 5, Z: 5},
		{Mass: 1e-3, X: 6, Y: 5, Z: 5},
	}
	dh := make([]hybrid.Particle, 2)
	NewTransform().InertialToDH(inertial, dh, 2)
	assert.InDelta(t, 1.0, dh[1].X, 1e-9)
	assert.InDelta(t, 0.0, dh[1].Y, 1e-9)
}
