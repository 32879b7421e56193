// Copyright 2024 The Pipeflow Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package geometry implements stratified circular-segment pipe geometry:
// level <-> holdup conversion, wetted perimeters and hydraulic diameters.
package geometry

import (
	"math"

	"github.com/cpmech/gosl/utl"
)

// hEps bounds the liquid level away from the pipe crown/invert so that
// acos and the derivative dA/dh never see a degenerate argument; maxIts
// caps the Newton and bisection iterations.
const (
	hEps   = 1e-10
	maxIts = 50
)

// State holds the stratified geometry derived from a liquid level (or
// equivalently a liquid holdup) in a circular pipe of diameter D.
type State struct {
	AL    float64 // liquid cross-section area [m^2]
	AG    float64 // gas cross-section area [m^2]
	SL    float64 // wetted perimeter, liquid [m]
	SG    float64 // wetted perimeter, gas [m]
	Si    float64 // interface width [m]
	DhL   float64 // hydraulic diameter, liquid [m]
	DhG   float64 // hydraulic diameter, gas [m]
	Half  float64 // beta/2, half the interface subtended angle [rad]
	H     float64 // liquid level [m]
	AlphaL float64 // liquid holdup = AL / (AL+AG)
}

// FromLevel computes stratified geometry from a liquid level h and pipe
// diameter D using the circular-segment identity
//
//	beta = 2*acos(1 - 2h/D)
//	AL   = R^2*(beta - sin(beta))/2
//	SL   = R*beta
//	SG   = R*(2*pi - beta)
//	Si   = 2*R*sin(beta/2)
func FromLevel(h, D float64) State {
	R := D / 2
	h = utl.Min(utl.Max(h, hEps), D-hEps)
	arg := utl.Min(utl.Max(1-2*h/D, -1), 1)
	beta := 2 * math.Acos(arg)
	A := math.Pi * R * R
	AL := R * R * (beta - math.Sin(beta)) / 2
	AG := A - AL
	SL := R * beta
	SG := R * (2*math.Pi - beta)
	Si := 2 * R * math.Sin(beta/2)
	var DhL, DhG float64
	if SL > 0 {
		DhL = 4 * AL / SL
	}
	if SG+Si > 0 {
		DhG = 4 * AG / (SG + Si)
	}
	return State{
		AL: AL, AG: AG, SL: SL, SG: SG, Si: Si,
		DhL: DhL, DhG: DhG, Half: beta / 2, H: h,
		AlphaL: AL / A,
	}
}

// FromHoldup computes stratified geometry from a liquid holdup alphaL in
// [0,1] and pipe diameter D. It seeds a Newton iteration at h = D*alphaL
// using dA/dh = 2*R*sin(beta/2) (see DdAdh) and falls back to bisection
// when the derivative becomes singular (|sin(beta)| < 1e-10, i.e. h near
// the pipe invert or crown).
func FromHoldup(alphaL, D float64) State {
	alphaL = utl.Min(utl.Max(alphaL, 0), 1)
	A := math.Pi * D * D / 4
	target := alphaL * A

	h := utl.Min(utl.Max(D*alphaL, hEps), D-hEps)

	for it := 0; it < maxIts; it++ {
		st := FromLevel(h, D)
		res := st.AL - target
		if math.Abs(res) < 1e-12*math.Max(A, 1) {
			return st
		}
		beta := 2 * st.Half
		if math.Abs(math.Sin(beta)) < 1e-10 {
			return bisectHoldup(alphaL, D)
		}
		dAdh := DdAdh(h, D)
		if dAdh <= 0 {
			return bisectHoldup(alphaL, D)
		}
		hNew := h - res/dAdh
		if hNew <= hEps || hNew >= D-hEps || math.IsNaN(hNew) {
			return bisectHoldup(alphaL, D)
		}
		h = hNew
	}
	return bisectHoldup(alphaL, D)
}

// bisectHoldup is the fallback solver used when the Newton iteration in
// FromHoldup degenerates (flat derivative near the pipe invert/crown).
func bisectHoldup(alphaL, D float64) State {
	A := math.Pi * D * D / 4
	target := alphaL * A
	lo, hi := hEps, D-hEps
	var mid float64
	for it := 0; it < maxIts; it++ {
		mid = 0.5 * (lo + hi)
		st := FromLevel(mid, D)
		if st.AL < target {
			lo = mid
		} else {
			hi = mid
		}
	}
	return FromLevel(mid, D)
}

// DdAdh returns dA/dh = Si, used directly by the Kelvin-Helmholtz stability
// check in the regime detector.
func DdAdh(h, D float64) float64 {
	return FromLevel(h, D).Si
}

// AnnularFilmThickness returns the liquid film thickness for the annular
// regime, delta = R*(1 - sqrt(1-alphaL)).
func AnnularFilmThickness(alphaL, D float64) float64 {
	alphaL = utl.Min(utl.Max(alphaL, 0), 1)
	R := D / 2
	return R * (1 - math.Sqrt(1-alphaL))
}
