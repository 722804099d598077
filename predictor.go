package hybrid

import "math"

// predictEncounters implements spec.md §4.4: it reconstructs, for every
// pair (i,j) with i active, an approximate minimum squared separation
// over the step using a cubic-Hermite interpolant of r^2(t) built from
// the pre-Kepler ("old") and post-Kepler ("new") DH states, and flags a
// pair as an encounter when that minimum is within 1.1*max(dcrit_i,
// dcrit_j).
func predictEncounters(s *System) {
	pHo := s.pHold
	pHn := s.Symplectic.PJH()
	dcrit := s.dcrit
	n := s.N()
	nActive := s.ActiveCount()
	dt := s.Dt

	s.encounterIndices[0] = 1
	for i := 1; i < n; i++ {
		s.encounterIndices[i] = 0
	}
	s.encounterN = 1

	for i := 0; i < nActive; i++ {
		for j := i + 1; j < n; j++ {
			dxn := pHn[i].X - pHn[j].X
			dyn := pHn[i].Y - pHn[j].Y
			dzn := pHn[i].Z - pHn[j].Z
			dvxn := pHn[i].VX - pHn[j].VX
			dvyn := pHn[i].VY - pHn[j].VY
			dvzn := pHn[i].VZ - pHn[j].VZ
			rn := dxn*dxn + dyn*dyn + dzn*dzn

			dxo := pHo[i].X - pHo[j].X
			dyo := pHo[i].Y - pHo[j].Y
			dzo := pHo[i].Z - pHo[j].Z
			dvxo := pHo[i].VX - pHo[j].VX
			dvyo := pHo[i].VY - pHo[j].VY
			dvzo := pHo[i].VZ - pHo[j].VZ
			ro := dxo*dxo + dyo*dyo + dzo*dzo

			drndt := (dxn*dvxn + dyn*dvyn + dzn*dvzn) * 2
			drodt := (dxo*dvxo + dyo*dvyo + dzo*dvzo) * 2

			a := 6*(ro-rn) + 3*dt*(drodt+drndt)
			b := 6*(rn-ro) - 2*dt*(2*drodt+drndt)
			c := dt * drodt

			rmin := math.Min(rn, ro)

			if a != 0 {
				disc := b*b - 4*a*c
				sr := math.Sqrt(math.Max(0, disc))
				t1 := (-b + sr) / (2 * a)
				t2 := (-b - sr) / (2 * a)
				rmin = hermiteCandidate(t1, ro, rn, drodt, drndt, dt, rmin)
				rmin = hermiteCandidate(t2, ro, rn, drodt, drndt, dt, rmin)
			}

			if math.Sqrt(rmin) < 1.1*math.Max(dcrit[i], dcrit[j]) {
				if s.encounterIndices[i] == 0 {
					s.encounterIndices[i] = uint32(i)
					s.encounterN++
				}
				if s.encounterIndices[j] == 0 {
					s.encounterIndices[j] = uint32(j)
					s.encounterN++
				}
			}
		}
	}
}

// hermiteCandidate evaluates the cubic-Hermite form at root t (if it lies
// in the open interval (0,1), ignoring NaN roots) and folds it, clamped
// to nonnegative, into the running minimum.
func hermiteCandidate(t, ro, rn, drodt, drndt, dt, rmin float64) float64 {
	if math.IsNaN(t) || !(t > 0 && t < 1) {
		return rmin
	}
	h := (1-t)*(1-t)*(1+2*t)*ro +
		t*t*(3-2*t)*rn +
		t*(1-t)*(1-t)*dt*drodt -
		t*t*(1-t)*dt*drndt
	return math.Min(math.Max(h, 0), rmin)
}
