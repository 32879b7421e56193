// Copyright 2024 The Pipeflow Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package flux implements the AUSM+ (advection upstream splitting method)
// numerical flux at interior cell faces, plus the boundary-face flux
// assembly for each boundary condition kind. Follows fem/e_pp.go's
// residual-assembly scratchpad idiom, here adapted from per-integration-
// point quantities to per-face upwind quantities.
package flux

import "math"

// PhaseFace bundles the per-phase quantities needed on one side of a face.
type PhaseFace struct {
	RhoAlpha float64 // rho_k*alpha_k
	U        float64
	H        float64 // specific enthalpy
}

// Side bundles the full state on one side of a face (left or right cell).
type Side struct {
	Gas, Liq  PhaseFace
	Pressure  float64
	SoundSpd  float64 // representative sound speed for the mixture Mach split
	UMix      float64
}

// Vector is the assembled flux vector: (gas-mass, liquid-mass, momentum,
// energy) crossing one face, per unit area.
type Vector struct {
	GasMass, LiqMass, Momentum, Energy float64
}

// splitM is Liou's AUSM+ polynomial Mach-number split, smoothly blending a
// quadratic near-sonic form with the simple upwind split for |M|>1.
func splitM(M float64, plus bool) float64 {
	if math.Abs(M) <= 1 {
		if plus {
			return 0.25 * (M + 1) * (M + 1)
		}
		return -0.25 * (M - 1) * (M - 1)
	}
	if plus {
		return 0.5 * (M + math.Abs(M))
	}
	return 0.5 * (M - math.Abs(M))
}

// splitP is the matching AUSM+ pressure split.
func splitP(M, p float64, plus bool) float64 {
	if math.Abs(M) <= 1 {
		if plus {
			return p * 0.25 * (M+1)*(M+1) * (2 - M)
		}
		return p * 0.25 * (M-1)*(M-1) * (2 + M)
	}
	if plus {
		return p * 0.5 * (1 + sign(M))
	}
	return p * 0.5 * (1 - sign(M))
}

func sign(x float64) float64 {
	if x > 0 {
		return 1
	}
	if x < 0 {
		return -1
	}
	return 0
}

// Interior computes the AUSM+ flux vector at an interior face between a left
// and a right cell state.
func Interior(L, R Side) Vector {
	cFace := 0.5 * (L.SoundSpd + R.SoundSpd)
	if cFace < 1e-6 {
		cFace = 1e-6
	}

	mG := faceMach(L.Gas.U, R.Gas.U, cFace)
	mL := faceMach(L.Liq.U, R.Liq.U, cFace)
	mMixL := L.UMix / cFace
	mMixR := R.UMix / cFace

	pFace := splitP(mMixL, L.Pressure, true) + splitP(mMixR, R.Pressure, false)

	mdotG := phaseMassFlux(mG, cFace, L.Gas.RhoAlpha, R.Gas.RhoAlpha)
	mdotL := phaseMassFlux(mL, cFace, L.Liq.RhoAlpha, R.Liq.RhoAlpha)

	uG := upwindScalar(mG, L.Gas.U, R.Gas.U)
	uL := upwindScalar(mL, L.Liq.U, R.Liq.U)
	hG := upwindScalar(mG, L.Gas.H, R.Gas.H)
	hL := upwindScalar(mL, L.Liq.H, R.Liq.H)
	uMix := upwindScalar(mMixL+mMixR, L.UMix, R.UMix)

	return Vector{
		GasMass:  mdotG,
		LiqMass:  mdotL,
		Momentum: mdotG*uG + mdotL*uL + pFace,
		Energy:   mdotG*(hG+0.5*uG*uG) + mdotL*(hL+0.5*uL*uL) + pFace*uMix,
	}
}

// faceMach returns the combined (not mixture) face Mach number for one
// phase, via M_face = M+(L) + M-(R).
func faceMach(uL, uR, cFace float64) float64 {
	mL := uL / cFace
	mR := uR / cFace
	return splitM(mL, true) + splitM(mR, false)
}

func phaseMassFlux(mFace, cFace, rhoAlphaL, rhoAlphaR float64) float64 {
	if mFace > 0 {
		return mFace * cFace * rhoAlphaL
	}
	return mFace * cFace * rhoAlphaR
}

func upwindScalar(mFace float64, vL, vR float64) float64 {
	if mFace > 0 {
		return vL
	}
	return vR
}

// ClosedBoundary returns the flux vector for a closed end: zero mass/energy
// flux, momentum flux equal to the adjacent cell pressure.
func ClosedBoundary(cellPressure float64) Vector {
	return Vector{Momentum: cellPressure}
}

// ConstantPressureBoundary calls Interior with identical left/right state,
// the boundary cell with its pressure clamped to the BC value.
func ConstantPressureBoundary(cellSide Side, bcPressure float64) Vector {
	s := cellSide
	s.Pressure = bcPressure
	return Interior(s, s)
}

// InletStream bundles the quantities the inlet stream supplies for a
// constant-flow inlet boundary face: mass flux derived from the inlet
// mass flow and split by the inlet stream's own phase holdups, not the
// first cell's.
type InletStream struct {
	MassFlowKgS   float64
	AlphaG        float64
	AlphaL        float64
	UG, UL        float64
	HG, HL        float64
}

// ConstantFlowInlet assembles the boundary flux for a constant-flow inlet:
// mass flux split by the stream's own holdups, momentum using the boundary
// cell's pressure, energy using the stream's enthalpies plus kinetic term.
func ConstantFlowInlet(stream InletStream, areaM2, cellPressure float64) Vector {
	mdot := stream.MassFlowKgS / areaM2
	mdotG := mdot * stream.AlphaG
	mdotL := mdot * stream.AlphaL
	return Vector{
		GasMass:  mdotG,
		LiqMass:  mdotL,
		Momentum: mdotG*stream.UG + mdotL*stream.UL + cellPressure,
		Energy:   mdotG*(stream.HG+0.5*stream.UG*stream.UG) + mdotL*(stream.HL+0.5*stream.UL*stream.UL),
	}
}

// ConstantFlowOutlet is the mirror of ConstantFlowInlet using the outlet
// stream and the outlet cell's own properties.
func ConstantFlowOutlet(massFlowKgS, areaM2, alphaG, alphaL, uG, uL, hG, hL, cellPressure float64) Vector {
	mdot := massFlowKgS / areaM2
	mdotG := mdot * alphaG
	mdotL := mdot * alphaL
	return Vector{
		GasMass:  mdotG,
		LiqMass:  mdotL,
		Momentum: mdotG*uG + mdotL*uL + cellPressure,
		Energy:   mdotG*(hG+0.5*uG*uG) + mdotL*(hL+0.5*uL*uL),
	}
}
