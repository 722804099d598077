package hybrid

// forceHybridGravityKernel implements spec.md §4.6/§6/§7's rule that the
// hybrid stepper never runs with a gravity kernel other than its own:
// if System.Gravity has been swapped for something other than the
// GravityOracle the System was constructed with, warn and force it back
// (mirrored in Part1 and Synchronize, matching integrator_mercurius.c's
// check in both mercurius_part1 and mercurius_synchronize).
func forceHybridGravityKernel(s *System) {
	if s.defaultGravity == nil || s.Gravity == s.defaultGravity {
		return
	}
	s.warn("hybrid", "user gravity kernel overridden", "kernel", s.Gravity)
	s.Gravity = s.defaultGravity
}

// Part1 performs the pre-step setup for one outer step: it grows
// capacities as needed, re-seeds DH coordinates and/or rebuilds the
// DcritTable when flagged, forces the DH coordinate convention, and
// defaults the switching function. It is idempotent and must be called
// once before each Part2.
func Part1(s *System) {
	if s.VarConfigN > 0 {
		s.warn("hybrid", "variational equations are not supported by the hybrid integrator")
	}

	s.ensureCapacity(s.N())

	if s.Dt == 0 {
		panic("hybrid: System.Dt must be set before Part1")
	}

	if s.SafeMode || s.RecalculateCoordinatesThisTimestep {
		s.RecalculateCoordinatesThisTimestep = false
		if !s.IsSynchronized {
			Synchronize(s)
			s.warn("hybrid", "recalculating heliocentric coordinates but pos/vel were not synchronized before")
		}
		s.Transform.InertialToDH(s.Particles, s.Symplectic.PJH(), s.N())
	}

	if s.RecalculateDcritThisTimestep {
		s.RecalculateDcritThisTimestep = false
		if !s.IsSynchronized {
			Synchronize(s)
			s.warn("hybrid", "recalculating dcrit but pos/vel were not synchronized before")
		}
		recomputeDcrit(s)
	}

	s.Symplectic.SetDemocraticHeliocentric()
	forceHybridGravityKernel(s)
	s.mode = ModeOuter

	if s.L == nil {
		s.L = PolynomialL
	}
}

// Part2 advances the system by one outer step of size S.Dt, executing
// the second-order symplectic splitting with an embedded encounter
// sub-integration (spec.md §4.6).
func Part2(s *System) {
	if s.IsSynchronized {
		s.Symplectic.InteractionStep(s, s.Dt/2)
	} else {
		s.Symplectic.InteractionStep(s, s.Dt)
	}
	s.Symplectic.JumpStep(s, s.Dt/2)
	s.Symplectic.ComStep(s, s.Dt)

	n := s.N()
	copy(s.pHold[:n], s.Symplectic.PJH()[:n])

	s.Symplectic.KeplerStep(s, s.Dt)

	predictEncounters(s)

	if s.encounterN >= 2 {
		runEncounterSubstep(s)
	}

	s.Symplectic.JumpStep(s, s.Dt/2)

	s.Transform.DHToInertial(s.Particles, s.Symplectic.PJH(), s.N())

	s.IsSynchronized = false
	if s.SafeMode {
		Synchronize(s)
	}

	s.T += s.Dt
	s.DtLastDone = s.Dt
}

// Synchronize completes the pending interaction half-step so the
// inertial array is self-consistent with p_jh at time T. A no-op if
// already synchronized.
func Synchronize(s *System) {
	if s.IsSynchronized {
		return
	}
	n := s.N()
	var syncPjh []Particle
	if s.KeepUnsynchronized {
		syncPjh = make([]Particle, n)
		copy(syncPjh, s.Symplectic.PJH()[:n])
	}

	s.Symplectic.SetDemocraticHeliocentric()
	forceHybridGravityKernel(s)
	s.mode = ModeOuter
	// Acceleration evaluation is implicit in InteractionStep for the
	// default symplectic core; explicit collaborators that need a
	// separate acceleration pass before the half-kick should do so
	// inside InteractionStep itself.
	s.Symplectic.InteractionStep(s, s.Dt/2)

	s.Transform.DHToInertial(s.Particles, s.Symplectic.PJH(), n)

	if s.KeepUnsynchronized {
		copy(s.Symplectic.PJH()[:n], syncPjh)
	} else {
		s.IsSynchronized = true
	}
}
