package hybrid

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// singleStepAdaptive is a minimal AdaptiveCore stand-in that always
// reports an advance of 1e6, more than any interval these tests request,
// in one call, so a test can
// drive runEncounterSubstep through exactly one Collisions.Scan without
// needing a real adaptive integration.
type singleStepAdaptive struct{}

func (singleStepAdaptive) Reset() {}
func (singleStepAdaptive) Step(s *System, dt float64) (advanced, nextDt float64, err error) {
	return 1e6, dt, nil
}

// mergeCompactedPair is a CollisionSearch stand-in that merges exactly the
// scratch-array pair at compacted positions (i,j), i<j, the same way
// collision.DirectScan.mergeInto does: the lower index absorbs the
// higher's mass and every following entry shifts down one. Used to force
// a merge at positions that are NOT the trailing members of the encounter
// set, since DirectScan's firstOverlap offers no such guarantee either.
type mergeCompactedPair struct {
	i, j int
	done bool
}

func (m *mergeCompactedPair) Scan(s *System) {
	if m.done {
		return
	}
	m.done = true
	p := s.Particles
	if m.j >= len(p) {
		return
	}
	p[m.i].Mass += p[m.j].Mass
	copy(p[m.j:], p[m.j+1:])
	s.Particles = p[:len(p)-1]
}

// TestEncounterSubstepUnwindSurvivesNonTrailingMerge reproduces the
// counter-example a reviewer traced through the old positional unwind:
// original indices 0 (star), 2, 5 and 7 are flagged for an encounter, so
// the compacted scratch order is [0, 2, 5, 7]. A merge at compacted
// positions (1,2) -- i.e. originals 2 and 5 -- is NOT the trailing pair,
// so the unwind must use Particle.Hash to reconcile survivors rather than
// assume scratch[k] still corresponds to the k-th originally flagged
// index (spec.md §9, first Open Question).
func TestEncounterSubstepUnwindSurvivesNonTrailingMerge(t *testing.T) {
	n := 8
	particles := make([]Particle, n)
	particles[0] = Particle{Mass: 1.0, Hash: 100}
	for i := 1; i < n; i++ {
		particles[i] = Particle{Mass: 1e-6, Hash: uint32(100 + i)}
	}

	pjh := make([]Particle, n)
	copy(pjh, particles)
	symp := &fakeSymplectic{pjh: pjh}

	collisions := &mergeCompactedPair{i: 1, j: 2} // compacted (1,2) == originals (2,5)

	s := NewSystem(particles, 1.0, symp, singleStepAdaptive{}, nil, collisions, nil)
	s.NActive = -1
	s.Dt = 1.0
	s.dcrit = make([]float64, n)
	s.pHold = make([]Particle, n)
	copy(s.pHold, particles)
	s.encounterIndices = make([]uint32, n)
	for _, i := range []int{0, 2, 5, 7} {
		s.encounterIndices[i] = 1
	}
	s.encounterN = 4

	runEncounterSubstep(s)

	assert.Equal(t, 7, s.N(), "original index 5 must be removed from the full system after the merge")
	assert.Equal(t, -1, s.NActive)

	pjhOut := s.Symplectic.PJH()
	assert.InDelta(t, 2e-6, pjhOut[2].Mass, 1e-15, "original body 2 must carry the merged mass, not body 7's state")

	found7, found5 := false, false
	for _, p := range s.Particles {
		switch p.Hash {
		case 107:
			found7 = true
			assert.InDelta(t, 1e-6, p.Mass, 1e-15, "original body 7 must keep its own mass, not be misassigned")
		case 105:
			found5 = true
		}
	}
	assert.True(t, found7, "original body 7 must survive the substep and remain findable by hash")
	assert.False(t, found5, "original body 5 was merged away and must not remain as a stale entry")
}
