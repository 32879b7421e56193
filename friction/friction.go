// Copyright 2024 The Pipeflow Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package friction implements single- and two-phase wall friction factors
// and the interfacial friction closures used by the drift-flux model.
package friction

import (
	"math"

	"github.com/cpmech/gosl/utl"

	"github.com/equinor/pipeflow/geometry"
	"github.com/equinor/pipeflow/regime"
)

const gradClamp = 1000.0 // Pa/m, suppresses runaway gradients

// DarcyFactor returns the Darcy (not Fanning) friction factor for a circular
// pipe of roughness eps and diameter D at Reynolds number Re.
//
//	Re<10        -> 6.4 (very-low-Re regularisation)
//	Re<2300      -> 64/Re (laminar, Poiseuille)
//	otherwise    -> Haaland correlation, floor 0.001
func DarcyFactor(Re, eps, D float64) float64 {
	switch {
	case Re < 10:
		return 6.4
	case Re < 2300:
		return 64 / Re
	}
	rel := eps / D / 3.7
	x := math.Pow(rel, 1.11) + 6.9/Re
	f := math.Pow(-1.8*math.Log10(x), -2)
	if f < 0.001 {
		f = 0.001
	}
	return f
}

// Inputs bundles the per-cell data friction closures need. It is a narrow,
// dependency-free view of cellstate.Cell so this package never imports the
// cellstate package.
type Inputs struct {
	Regime        regime.Regime
	D, Roughness  float64
	Geom          geometry.State // stratified geometry at current holdup
	RhoG, RhoL    float64
	MuG, MuL      float64
	UG, UL        float64 // phase velocities
	UM            float64 // mixture velocity
	AlphaG, AlphaL float64
}

// Result carries the friction closure output.
type Result struct {
	Gradient float64 // dP/dx from wall friction, Pa/m (negative opposes flow)
	Fi       float64 // interfacial friction factor (stratified/annular only)
}

// Gradient dispatches on flow regime and returns the wall-friction pressure
// gradient (Pa/m) plus the interfacial friction factor where applicable.
// Every output is clamped to +/-1000 Pa/m (gradClamp) to suppress runaway
// values from near-zero hydraulic diameters or velocities.
func Gradient(in Inputs) Result {
	switch in.Regime {
	case regime.SinglePhaseGas:
		return Result{Gradient: clamp(singlePhase(in.RhoG, in.MuG, in.UG, in.D, in.Roughness))}
	case regime.SinglePhaseLiquid:
		return Result{Gradient: clamp(singlePhase(in.RhoL, in.MuL, in.UL, in.D, in.Roughness))}
	case regime.StratifiedSmooth, regime.StratifiedWavy:
		return stratified(in)
	case regime.Annular, regime.Mist:
		return annular(in)
	default: // bubble, slug, dispersed-bubble, churn: homogeneous mixture
		return Result{Gradient: clamp(homogeneous(in))}
	}
}

func singlePhase(rho, mu, u, D, eps float64) float64 {
	if rho <= 0 || D <= 0 {
		return 0
	}
	Re := reynolds(rho, mu, u, D)
	f := DarcyFactor(Re, eps, D)
	return -sign(u) * f * rho * u * u / (2 * D)
}

func homogeneous(in Inputs) float64 {
	rhoM := in.AlphaG*in.RhoG + in.AlphaL*in.RhoL
	muM := in.AlphaG*in.MuG + in.AlphaL*in.MuL
	return singlePhase(rhoM, muM, in.UM, in.D, in.Roughness)
}

// stratified uses a two-fluid split over the wetted perimeters with
// phase-specific hydraulic diameters, plus the interfacial friction factor.
func stratified(in Inputs) Result {
	g := in.Geom
	var dpG, dpL float64
	if g.DhG > 0 && in.RhoG > 0 {
		ReG := reynolds(in.RhoG, in.MuG, in.UG, g.DhG)
		fG := DarcyFactor(ReG, in.Roughness, g.DhG)
		dpG = -sign(in.UG) * fG * in.RhoG * in.UG * in.UG / (2 * g.DhG) * (g.SG / utl.Max(in.D, 1e-9))
		_ = fG
	}
	if g.DhL > 0 && in.RhoL > 0 {
		ReL := reynolds(in.RhoL, in.MuL, in.UL, g.DhL)
		fL := DarcyFactor(ReL, in.Roughness, g.DhL)
		dpL = -sign(in.UL) * fL * in.RhoL * in.UL * in.UL / (2 * g.DhL) * (g.SL / utl.Max(in.D, 1e-9))
	}
	fi := InterfacialFactor(in)
	return Result{Gradient: clamp(dpG + dpL), Fi: fi}
}

// annular treats the gas core with Darcy-Weisbach using an effective
// roughness that lumps in half the film thickness.
func annular(in Inputs) Result {
	delta := geometry.AnnularFilmThickness(in.AlphaL, in.D)
	kEff := in.Roughness + 0.5*delta
	grad := singlePhase(in.RhoG, in.MuG, in.UG, in.D, kEff)
	return Result{Gradient: clamp(grad), Fi: InterfacialFactor(in)}
}

// InterfacialFactor implements the regime-specific interfacial friction
// factor. Stratified-wavy uses an Andritsos-Hanratty-style wave-enhancement
// over the smooth-interface value rather than a flat f_i=f_G, since waves
// visibly roughen the gas-liquid interface once the gas shears it.
func InterfacialFactor(in Inputs) float64 {
	ReG := reynolds(in.RhoG, in.MuG, in.UG, utl.Max(in.Geom.DhG, 1e-9))
	fG := DarcyFactor(ReG, in.Roughness, utl.Max(in.Geom.DhG, 1e-9))
	switch in.Regime {
	case regime.Annular:
		delta := geometry.AnnularFilmThickness(in.AlphaL, in.D)
		return fG * (1 + 300*delta/in.D)
	case regime.StratifiedWavy:
		hLOverD := in.Geom.H / in.D
		usgT := 5.0 // representative onset superficial gas velocity scale
		enhancement := 1 + 15*math.Sqrt(utl.Max(hLOverD, 0))*utl.Max(in.UG/usgT-1, 0)
		return fG * enhancement
	default: // stratified-smooth
		return fG
	}
}

func reynolds(rho, mu, u, D float64) float64 {
	if mu <= 0 {
		return 1e12
	}
	return rho * math.Abs(u) * D / mu
}

func clamp(x float64) float64 {
	return utl.Min(utl.Max(x, -gradClamp), gradClamp)
}

func sign(x float64) float64 {
	if x < 0 {
		return -1
	}
	if x > 0 {
		return 1
	}
	return 0
}
