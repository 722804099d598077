package collision

import (
	"testing"

	"github.com/rabotin-collab/hybridnbody"
	"github.com/stretchr/testify/assert"
)

func TestScanMergesOverlappingPair(t *testing.T) {
	particles := []hybrid.Particle{
		{Mass: 1.0, Radius: 0.1},
		{Mass: 1e-3, Radius: 0.01, X: 0.005, VX: 1},
		{Mass: 2e-3, Radius: 0.01, X: 5},
	}
	sys := hybrid.NewSystem(particles, 1.0, nil, nil, nil, DirectScan{}, nil)
	sys.Particles[1].X, sys.Particles[0].X = 0.005, 0

	sys.Collisions.Scan(sys)

	assert.Len(t, sys.Particles, 2, "overlapping pair should merge into one")
	assert.InDelta(t, 1.001, sys.Particles[0].Mass, 1e-9)
	assert.InDelta(t, 5, sys.Particles[1].X, 1e-9, "non-overlapping trailing particle shifts down one slot, keeping its order")
}

func TestScanNoOverlapNoChange(t *testing.T) {
	particles := []hybrid.Particle{
		{Mass: 1.0, Radius: 0.01},
		{Mass: 1e-3, Radius: 0.01, X: 10},
	}
	sys := hybrid.NewSystem(particles, 1.0, nil, nil, nil, DirectScan{}, nil)
	sys.Collisions.Scan(sys)
	assert.Len(t, sys.Particles, 2)
}
