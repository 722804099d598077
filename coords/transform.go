// Package coords provides the default CoordinateTransform: conversion
// between inertial and democratic heliocentric (DH) coordinates, in the
// same style as the teacher's frame-conversion helpers in rotation.go
// (pure functions over position/velocity triples, no hidden state).
package coords

import "github.com/rabotin-collab/hybridnbody"

// Transform is the default, stateless CoordinateTransform.
type Transform struct{}

var _ hybrid.CoordinateTransform = Transform{}

// NewTransform returns a ready-to-use Transform.
func NewTransform() Transform { return Transform{} }

// InertialToDH fills dh from inertial: dh[0] holds the system barycenter
// (position and velocity), and dh[i] (i>=1) holds inertial[i] shifted so
// the central body sits at the DH origin, expressed in inertial
// velocity (not barycentric velocity) per the democratic-heliocentric
// convention.
func (Transform) InertialToDH(inertial, dh []hybrid.Particle, n int) {
	if n == 0 {
		return
	}
	var totalMass, cx, cy, cz, cvx, cvy, cvz float64
	for i := 0; i < n; i++ {
		m := inertial[i].Mass
		totalMass += m
		cx += m * inertial[i].X
		cy += m * inertial[i].Y
		cz += m * inertial[i].Z
		cvx += m * inertial[i].VX
		cvy += m * inertial[i].VY
		cvz += m * inertial[i].VZ
	}
	cx /= totalMass
	cy /= totalMass
	cz /= totalMass
	cvx /= totalMass
	cvy /= totalMass
	cvz /= totalMass

	dh[0].Mass = totalMass
	dh[0].X, dh[0].Y, dh[0].Z = cx, cy, cz
	dh[0].VX, dh[0].VY, dh[0].VZ = cvx, cvy, cvz

	x0, y0, z0 := inertial[0].X, inertial[0].Y, inertial[0].Z
	for i := 1; i < n; i++ {
		dh[i].Mass = inertial[i].Mass
		dh[i].X = inertial[i].X - x0
		dh[i].Y = inertial[i].Y - y0
		dh[i].Z = inertial[i].Z - z0
		dh[i].VX = inertial[i].VX
		dh[i].VY = inertial[i].VY
		dh[i].VZ = inertial[i].VZ
	}
}

// DHToInertial is the inverse of InertialToDH: it reconstructs inertial
// positions/velocities for bodies 1..n-1 from their DH state and the
// system barycenter stored in dh[0], then derives the central body's
// inertial state from the barycenter definition.
func (Transform) DHToInertial(inertial, dh []hybrid.Particle, n int) {
	if n == 0 {
		return
	}
	totalMass := dh[0].Mass
	m0 := inertial[0].Mass

	var sx, sy, sz, svx, svy, svz float64
	for i := 1; i < n; i++ {
		mi := dh[i].Mass
		sx += mi * dh[i].X
		sy += mi * dh[i].Y
		sz += mi * dh[i].Z
		svx += mi * dh[i].VX
		svy += mi * dh[i].VY
		svz += mi * dh[i].VZ
	}

	x0 := dh[0].X - sx/totalMass
	y0 := dh[0].Y - sy/totalMass
	z0 := dh[0].Z - sz/totalMass
	vx0 := (dh[0].VX*totalMass - svx) / m0
	vy0 := (dh[0].VY*totalMass - svy) / m0
	vz0 := (dh[0].VZ*totalMass - svz) / m0

	inertial[0].X, inertial[0].Y, inertial[0].Z = x0, y0, z0
	inertial[0].VX, inertial[0].VY, inertial[0].VZ = vx0, vy0, vz0
	inertial[0].Mass = m0

	for i := 1; i < n; i++ {
		inertial[i].X = dh[i].X + x0
		inertial[i].Y = dh[i].Y + y0
		inertial[i].Z = dh[i].Z + z0
		inertial[i].VX = dh[i].VX
		inertial[i].VY = dh[i].VY
		inertial[i].VZ = dh[i].VZ
	}
}
