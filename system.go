package hybrid

import (
	kitlog "github.com/go-kit/log"
)

// System is the simulation handle threaded through every hybrid
// operation. It is deliberately an explicit value rather than
// process-wide state: every exported operation (Part1, Part2,
// Synchronize, Reset) takes a *System.
type System struct {
	// Particles is the caller-visible inertial array. During an
	// encounter sub-step this pointer is transiently swapped to the
	// compacted encounter view (see EncounterSubstep); outside collaborators
	// (GravityOracle, CollisionSearch, AdaptiveCore) must operate on
	// whatever Particles currently holds.
	Particles []Particle
	// NActive is the number of active (massive, perturbing) particles;
	// -1 means all particles are active.
	NActive int

	T          float64
	Dt         float64
	DtLastDone float64
	G          float64

	// Hillfac scales the Hill-radius contribution to dcrit. Default 3.
	Hillfac float64
	// SafeMode, if true, synchronizes immediately after every Part2.
	SafeMode bool
	// KeepUnsynchronized, if true, makes Synchronize restore p_jh instead
	// of leaving it advanced, so repeated Part2 calls stay bit-identical
	// whether or not SafeMode synchronizes in between.
	KeepUnsynchronized bool
	// RecalculateCoordinatesThisTimestep forces an inertial->DH re-seed
	// on the next Part1. One-shot: cleared after use.
	RecalculateCoordinatesThisTimestep bool
	// RecalculateDcritThisTimestep forces a DcritTable rebuild on the
	// next Part1. One-shot: cleared after use.
	RecalculateDcritThisTimestep bool
	// IsSynchronized is true iff the inertial array reflects a completed
	// outer step with no pending half-kick.
	IsSynchronized bool
	// VarConfigN is the number of variational-equation configurations
	// attached to the simulation. Mercurius-style hybrids do not support
	// them; a nonzero value only ever produces a warning.
	VarConfigN int

	Symplectic SymplecticCore
	Adaptive   AdaptiveCore
	Transform  CoordinateTransform
	Collisions CollisionSearch
	Gravity    GravityOracle
	L          SwitchingFunc

	mode Mode

	dcrit            []float64
	dcritAllocatedN  int
	encounterIndices []uint32
	encounterN       int
	allocatedN       int
	pHold            []Particle

	encounterParticles []Particle
	encounterDcrit     []float64
	encounterHash      []uint32
	encounterAllocN    int

	globalN       int
	globalNactive int

	// defaultGravity is the GravityOracle supplied to NewSystem: "the
	// hybrid's own kernel" that Part1/Synchronize force System.Gravity
	// back to whenever a caller has swapped in something else (spec.md
	// §4.6/§6/§7, "user gravity kernel overridden").
	defaultGravity GravityOracle

	Logger kitlog.Logger
}

// Mode returns the gravity-evaluation mode currently in effect. Exported
// as a method (rather than a field) so external GravityOracle
// implementations see it the same way internal code does.
func (s *System) Mode() Mode { return s.mode }

// N returns the number of particles currently visible (len(s.Particles)).
func (s *System) N() int { return len(s.Particles) }

// ActiveCount resolves NActive == -1 into the concrete active count.
func (s *System) ActiveCount() int {
	if s.NActive == -1 {
		return s.N()
	}
	return s.NActive
}

// Dcrit returns the current per-particle critical radius table, valid for
// the first N() entries.
func (s *System) Dcrit() []float64 { return s.dcrit }

// SetDcrit overwrites the critical-distance table directly, e.g. when
// restoring a checkpointed simulation without replaying a recompute.
// Must be at least N() entries long.
func (s *System) SetDcrit(d []float64) { s.dcrit = d }

// SetMode forces the gravity-evaluation mode. HybridStepper manages this
// itself during Part1/EncounterSubstep; exposed for harnesses driving a
// GravityOracle outside the normal stepper flow.
func (s *System) SetMode(m Mode) { s.mode = m }

// EncounterIndices returns the flag vector from the most recent
// EncounterPredictor pass: nonzero at i means body i is participating in
// the current encounter set.
func (s *System) EncounterIndices() []uint32 { return s.encounterIndices }

// EncounterN returns the number of flagged bodies (>= 1, star always
// included).
func (s *System) EncounterN() int { return s.encounterN }

// warn emits a warning in the teacher's level/subsys/message convention;
// it is a no-op if no logger was configured.
func (s *System) warn(subsys, message string, keyvals ...interface{}) {
	if s.Logger == nil {
		return
	}
	kv := append([]interface{}{"level", "warn", "subsys", subsys, "message", message}, keyvals...)
	s.Logger.Log(kv...)
}

// NewSystem returns a System with Mercurius-style defaults (hillfac=3,
// safe_mode=true) wired to the given collaborators, starting synchronized
// (no half-kick pending). Particles[0] must be the central body.
func NewSystem(particles []Particle, g float64, symp SymplecticCore, adapt AdaptiveCore, xform CoordinateTransform, coll CollisionSearch, grav GravityOracle) *System {
	s := &System{
		Particles:      particles,
		NActive:        -1,
		G:              g,
		Hillfac:        3,
		SafeMode:       true,
		IsSynchronized: true,
		Symplectic:     symp,
		Adaptive:       adapt,
		Transform:      xform,
		Collisions:     coll,
		Gravity:        grav,
		defaultGravity: grav,
	}
	return s
}

// ensureCapacity grows the mercurius-owned scratch arrays
// (dcrit, encounterIndices, pHold) to at least n, flagging dcrit/
// coordinate recomputation on growth exactly as spec.md's allocation
// discipline requires. Capacity never shrinks.
func (s *System) ensureCapacity(n int) {
	if s.dcritAllocatedN < n {
		s.dcritAllocatedN = n
		grown := make([]float64, n)
		copy(grown, s.dcrit)
		s.dcrit = grown
		s.RecalculateDcritThisTimestep = true
	}
	if s.allocatedN < n {
		s.allocatedN = n
		idx := make([]uint32, n)
		copy(idx, s.encounterIndices)
		s.encounterIndices = idx
		hold := make([]Particle, n)
		copy(hold, s.pHold)
		s.pHold = hold
	}
	if grew := s.Symplectic.EnsureCapacity(n); grew {
		s.RecalculateCoordinatesThisTimestep = true
	}
}

// ensureEncounterCapacity grows the encounter scratch arrays to at least
// n, reallocating only when capacity actually needs to grow (§3 Encounter
// scratch arrays).
func (s *System) ensureEncounterCapacity(n int) {
	if s.encounterAllocN < n {
		s.encounterAllocN = n
		s.encounterParticles = make([]Particle, n)
		s.encounterDcrit = make([]float64, n)
		s.encounterHash = make([]uint32, n)
	}
}

// Reset releases all owned buffers and restores the Mercurius defaults.
// It does not touch Particles, the SymplecticCore's PJH buffer capacity
// bookkeeping, or the collaborators themselves.
func Reset(s *System) {
	s.L = nil
	s.mode = ModeOuter
	s.encounterN = 0
	s.globalN = 0
	s.globalNactive = 0
	s.Hillfac = 3
	s.KeepUnsynchronized = false
	s.RecalculateCoordinatesThisTimestep = false
	s.RecalculateDcritThisTimestep = false

	s.encounterAllocN = 0
	s.encounterParticles = nil
	s.encounterDcrit = nil
	s.encounterHash = nil

	s.allocatedN = 0
	s.pHold = nil
	s.encounterIndices = nil

	s.dcritAllocatedN = 0
	s.dcrit = nil
}
