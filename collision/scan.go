// Package collision provides the default CollisionSearch: a direct
// O(n^2) sphere-overlap test with perfectly-inelastic merging, in the
// same brute-force style as the teacher's station.go proximity checks
// generalized from a single chaser/target pair to the full particle set.
package collision

import (
	"math"

	"github.com/rabotin-collab/hybridnbody"
)

// DirectScan is the default CollisionSearch.
type DirectScan struct{}

var _ hybrid.CollisionSearch = DirectScan{}

// NewDirectScan returns a ready-to-use DirectScan.
func NewDirectScan() DirectScan { return DirectScan{} }

// Scan implements hybrid.CollisionSearch. Overlapping pairs are merged
// perfectly inelastically into the lower index, conserving mass and
// momentum; the higher index is then removed by shifting every
// following particle down one slot and truncating sys.Particles by one,
// repeated until no overlaps remain. firstOverlap makes no promise about
// which pair it returns, so the removed member is not necessarily the
// last body in the array or in any particular encounter set -- callers
// that need to reconcile state across a Scan (e.g. EncounterSubstep's
// unwind) match survivors by Particle.Hash in their preserved relative
// order rather than assuming the trailing member was removed.
func (DirectScan) Scan(sys *hybrid.System) {
	for {
		i, j, hit := firstOverlap(sys.Particles)
		if !hit {
			return
		}
		mergeInto(sys, i, j)
	}
}

func firstOverlap(p []hybrid.Particle) (i, j int, hit bool) {
	n := len(p)
	for a := 0; a < n; a++ {
		for b := a + 1; b < n; b++ {
			dx := p[a].X - p[b].X
			dy := p[a].Y - p[b].Y
			dz := p[a].Z - p[b].Z
			d2 := dx*dx + dy*dy + dz*dz
			rsum := p[a].Radius + p[b].Radius
			if rsum > 0 && d2 < rsum*rsum {
				return a, b, true
			}
		}
	}
	return 0, 0, false
}

// mergeInto folds particle j's mass and momentum into particle i (i<j),
// then removes slot j by shifting every following particle down one and
// truncating by one. The shift (rather than a swap with the last
// particle) keeps every remaining particle's relative order intact, so
// a scratch array shrunk by CollisionSearch during an encounter
// sub-step still matches its flagged bodies in compacted order
// (EncounterSubstep's unwind walks the scratch array sequentially,
// checking each survivor's Hash).
func mergeInto(sys *hybrid.System, i, j int) {
	p := sys.Particles
	mi, mj := p[i].Mass, p[j].Mass
	total := mi + mj

	p[i].VX = (mi*p[i].VX + mj*p[j].VX) / total
	p[i].VY = (mi*p[i].VY + mj*p[j].VY) / total
	p[i].VZ = (mi*p[i].VZ + mj*p[j].VZ) / total
	// Position stays at the lower-index survivor's, whichever body is
	// more massive; volumes add to keep the merged radius physically
	// sensible for future overlap tests.
	p[i].Radius = math.Cbrt(math.Pow(p[i].Radius, 3) + math.Pow(p[j].Radius, 3))
	p[i].Mass = total
	p[i].LastCollision = sys.T

	copy(p[j:], p[j+1:])
	sys.Particles = p[:len(p)-1]
}
