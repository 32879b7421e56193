// Copyright 2024 The Pipeflow Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package driftflux

import "math"

// EnergyInputs bundles the data needed to evaluate one time step of the
// lumped-parameter energy equation for a cell: wall heat exchange with
// the surroundings, Joule-Thomson cooling on expansion, frictional
// heating, and the work done against gravity.
type EnergyInputs struct {
	T, Tamb        float64 // [K]
	D, Dx, Dt       float64
	UOverall       float64 // wall heat-transfer coefficient [W/m^2K]
	HeatEnabled    bool
	MuJT           float64 // Joule-Thomson coefficient [K/Pa]
	AlphaG         float64
	DPDxTotal      float64 // [Pa/m], for the -dP/dx*Dx JT expansion term
	DPDxFriction   float64 // [Pa/m], magnitude used for friction heating
	QVol           float64 // volumetric flow for friction heating [m^3/s]
	Theta          float64
	Cp             float64 // mixture heat capacity [J/kgK]
	MassFlowKgPerS float64 // total mass flow, used to convert the heat
	// source into a temperature change when present; falls back to a
	// per-unit-mass basis (Cp alone) when zero.
}

const tMinClamp = 100.0
const tMaxClamp = 500.0
const dtClampPerStep = 10.0

// StepTemperature returns the new clamped temperature after one step,
// combining wall heat transfer, Joule-Thomson cooling, friction heating and
// elevation work.
func StepTemperature(in EnergyInputs) float64 {
	if in.Cp <= 0 {
		return clampT(in.T)
	}

	mass := in.MassFlowKgPerS
	if mass <= 0 {
		mass = 1
	}

	var dTWall float64
	if in.HeatEnabled {
		qWall := in.UOverall * math.Pi * in.D * in.Dx * (in.Tamb - in.T) // [W]
		dTWall = qWall * in.Dt / (mass * in.Cp)
	}

	dTJT := -in.MuJT * in.AlphaG * (-in.DPDxTotal * in.Dx)

	dTFric := math.Abs(in.DPDxFriction) * in.QVol / (mass * in.Cp) * in.Dt

	dTElev := -gGrav * math.Sin(in.Theta) * in.Dx / in.Cp

	dT := dTWall + dTJT + dTFric + dTElev
	if dT > dtClampPerStep {
		dT = dtClampPerStep
	}
	if dT < -dtClampPerStep {
		dT = -dtClampPerStep
	}
	return clampT(in.T + dT)
}

func clampT(T float64) float64 {
	if T < tMinClamp {
		return tMinClamp
	}
	if T > tMaxClamp {
		return tMaxClamp
	}
	return T
}
