package hybrid

import "math"

// stallFactor is the fraction of the outer step Dt below which the
// adaptive core's suggested sub-step counts as stalled (spec.md §4.5
// step 7 / §7).
const stallFactor = 1e-14

// runEncounterSubstep implements spec.md §4.5. It only runs when
// EncounterN() >= 2; otherwise it is a no-op, matching the C source's
// early return.
func runEncounterSubstep(s *System) {
	if s.encounterN < 2 {
		return
	}

	// 1. Remember global counts.
	s.globalN = s.N()
	s.globalNactive = s.NActive

	// 2. Ensure scratch capacity.
	s.ensureEncounterCapacity(s.encounterN)

	// 3. Compact: copy the pre-Kepler DH state for each flagged body,
	// preserving the caller's live r/ap/hash/lastcollision, and count
	// active members as we go.
	live := s.Particles
	k := 0
	newActive := 0
	for i := 0; i < s.globalN; i++ {
		if s.encounterIndices[i] == 0 {
			continue
		}
		p := s.pHold[i]
		p.Radius = live[i].Radius
		p.Ap = live[i].Ap
		p.Hash = live[i].Hash
		p.LastCollision = live[i].LastCollision
		s.encounterParticles[k] = p
		s.encounterDcrit[k] = s.dcrit[i]
		// Record each flagged body's hash in compacted order; the unwind
		// below replays the same flagged-index scan, so encounterHash[k]
		// belongs to the k-th flagged index, and it reconciles survivors
		// without assuming any particular collision removed the trailing
		// member.
		s.encounterHash[k] = p.Hash
		if i < s.globalNactive || s.globalNactive == -1 {
			newActive++
		}
		k++
	}

	// 4. Pin the star at the origin of the encounter frame.
	s.encounterParticles[0].Mass = s.Particles[0].Mass
	s.encounterParticles[0].X, s.encounterParticles[0].Y, s.encounterParticles[0].Z = 0, 0, 0
	s.encounterParticles[0].VX, s.encounterParticles[0].VY, s.encounterParticles[0].VZ = 0, 0, 0

	// 5. Swap the simulation's particle view to the compacted scratch.
	outerParticles := s.Particles
	s.Particles = s.encounterParticles[:k]
	if s.globalNactive == -1 {
		s.NActive = -1
	} else {
		s.NActive = newActive
	}
	s.mode = ModeSub

	// 6. Snapshot time/step, reset the adaptive core, pick a tiny
	// starting sub-step.
	oldT := s.T
	oldDt := s.Dt
	tNeeded := s.T + oldDt

	s.Adaptive.Reset()
	subDt := 1e-4 * oldDt

	// 7. Advance until the interval is covered or the core stalls.
	for s.T < tNeeded && math.Abs(subDt/oldDt) > stallFactor {
		advanced, nextDt, err := s.Adaptive.Step(s, subDt)
		if err != nil {
			s.warn("hybrid", "sub-integrator step failed, aborting encounter substep", "error", err.Error())
			break
		}
		s.T += advanced
		subDt = nextDt

		s.Collisions.Scan(s)

		if s.T+subDt > tNeeded {
			subDt = tNeeded - s.T
		}
	}

	// 8. Unwind: match each pre-substep compacted entry back to its
	// original full-system index by Particle.Hash (spec.md §9, first
	// Open Question, resolved via the stable-identity path it names: a
	// collision can merge ANY two scratch members, not only a trailing
	// one, so the unwind cannot assume the k-th survivor is the k-th
	// flagged body). collision.DirectScan.mergeInto folds the
	// higher-indexed member of a pair into the lower-indexed one, leaves
	// every other survivor's Hash untouched and keeps survivors in their
	// relative order, so walking the final scratch array in order next
	// to the recorded hashes tells, for every originally flagged index,
	// whether it survived (the next survivor carries its hash) or was
	// merged away. Where hashes repeat (e.g. all zero), this matching
	// falls back to compacted position.
	pjh := s.Symplectic.PJH()
	scratch := s.Particles // the (possibly collision-shrunk) compacted view

	var removedOriginal []int
	totalMassNew := 0.0
	k = 0
	next := 0 // next unmatched survivor in scratch
	for i := 0; i < s.globalN; i++ {
		if s.encounterIndices[i] == 0 {
			continue
		}
		hash := s.encounterHash[k]
		k++

		if next >= len(scratch) || scratch[next].Hash != hash {
			// This body was merged into another during the substep; it
			// no longer has a separate identity and p_jh[i] is dropped
			// below via removeParticles (collisions only ever decrease
			// N, per §3 invariants).
			if i != 0 {
				removedOriginal = append(removedOriginal, i)
			}
			continue
		}

		sp := scratch[next]
		next++
		pjh[i] = sp
		outerParticles[i].Radius = sp.Radius
		outerParticles[i].Ap = sp.Ap
		outerParticles[i].Hash = sp.Hash
		outerParticles[i].LastCollision = sp.LastCollision
		outerParticles[i].Mass = sp.Mass
		totalMassNew += sp.Mass
	}

	// 9. The central body absorbs the (possibly reduced) total mass;
	// its position/velocity are restored from the pre-substep hold
	// buffer since the COM only advances via the outer com_step.
	pjh[0].Mass = totalMassNew
	pjh[0].X, pjh[0].Y, pjh[0].Z = s.pHold[0].X, s.pHold[0].Y, s.pHold[0].Z
	pjh[0].VX, pjh[0].VY, pjh[0].VZ = s.pHold[0].VX, s.pHold[0].VY, s.pHold[0].VZ

	// 10. Swap the particle view back and restore global scalars. The
	// scratch view shares encounterParticles' backing array, which keeps
	// its full allocated length for the next substep.
	s.Particles = outerParticles
	s.T = oldT
	s.Dt = oldDt
	s.mode = ModeOuter

	if len(removedOriginal) > 0 {
		removeParticles(s, removedOriginal)
	}
	s.NActive = s.globalNactive
}

// removeParticles deletes the given original full-system indices (sorted
// ascending, never including 0) from s.Particles, the DH buffer and the
// dcrit table in one pass, preserving the relative order of every
// surviving particle regardless of where in the array the removed
// indices fall (spec.md §9, first Open Question: no assumption that a
// collision removes only trailing members). NActive is decremented by
// however many removed indices were counted active.
func removeParticles(s *System, indices []int) {
	if len(indices) == 0 {
		return
	}
	pjh := s.Symplectic.PJH()
	n := len(s.Particles)

	removedActive := 0
	w, ri := 0, 0
	for r := 0; r < n; r++ {
		if ri < len(indices) && indices[ri] == r {
			ri++
			if s.globalNactive == -1 || r < s.globalNactive {
				removedActive++
			}
			continue
		}
		if w != r {
			s.Particles[w] = s.Particles[r]
			pjh[w] = pjh[r]
			s.dcrit[w] = s.dcrit[r]
		}
		w++
	}
	s.Particles = s.Particles[:w]

	if s.globalNactive != -1 {
		s.globalNactive -= removedActive
		if s.globalNactive < 0 {
			s.globalNactive = 0
		}
	}
}
