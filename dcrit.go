package hybrid

import "math"

// recomputeDcrit rebuilds the critical-distance table (spec.md §4.3).
// Entry 0 is 2*r0 (the central body's physical radius doubled). Entry i
// (i>=1) is the max of four criteria evaluated from the DH position
// p_jh[i] and the inertial velocity relative to the central body.
func recomputeDcrit(s *System) {
	n := s.N()
	s.dcrit[0] = 2 * s.Particles[0].Radius
	m0 := s.Particles[0].Mass
	pjh := s.Symplectic.PJH()
	for i := 1; i < n; i++ {
		dx, dy, dz := pjh[i].X, pjh[i].Y, pjh[i].Z
		dvx := s.Particles[i].VX - s.Particles[0].VX
		dvy := s.Particles[i].VY - s.Particles[0].VY
		dvz := s.Particles[i].VZ - s.Particles[0].VZ

		r := math.Sqrt(dx*dx + dy*dy + dz*dz)
		v2 := dvx*dvx + dvy*dvy + dvz*dvz

		mi := s.Particles[i].Mass
		GM := s.G * (m0 + mi)

		denom := 2*GM - r*v2
		// Guard the parabolic edge case (denom == 0) with a tiny floor
		// rather than dividing by zero; v_c below takes |a| for unbound
		// orbits (a<0), while the Hill criterion keeps the signed a and so
		// contributes nothing for them, so only the zero-crossing needs
		// special handling (spec.md §9, second Open Question).
		if denom == 0 {
			denom = 1e-300
		}
		a := GM * r / denom
		vc := math.Sqrt(GM / math.Abs(a))

		dcrit := 0.0
		// Criterion 1: average velocity over the step.
		dcrit = math.Max(dcrit, vc*0.4*s.Dt)
		// Criterion 2: current velocity.
		dcrit = math.Max(dcrit, math.Sqrt(v2)*0.4*s.Dt)
		// Criterion 3: Hill radius.
		dcrit = math.Max(dcrit, s.Hillfac*a*math.Pow(mi/(3*m0), 1./3.))
		// Criterion 4: physical radius.
		dcrit = math.Max(dcrit, 2*s.Particles[i].Radius)

		s.dcrit[i] = dcrit
	}
}
