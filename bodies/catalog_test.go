package bodies

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCOE2RVCircularEquatorial(t *testing.T) {
	mu := Earth.GM
	a := Earth.Radius + 400
	r, v := COE2RV(a, 0, 0, 0, 0, 0, mu)

	gotR := math.Sqrt(r[0]*r[0] + r[1]*r[1] + r[2]*r[2])
	assert.InDelta(t, a, gotR, 1e-6)

	gotV := math.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
	wantV := math.Sqrt(mu / a)
	assert.InDelta(t, wantV, gotV, 1e-6)
}

func TestSeedParticleMatchesCOE2RV(t *testing.T) {
	mu := Sun.GM
	p := SeedParticle(1, 10, AU, 0.0167, 0.00005, 0, 102.9, 0, mu)
	r := math.Sqrt(p.X*p.X + p.Y*p.Y + p.Z*p.Z)
	assert.InDelta(t, AU*(1-0.0167), r, AU*1e-3)
}
