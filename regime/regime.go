// Copyright 2024 The Pipeflow Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package regime implements the closed flow-regime tagged variant
// (stratified smooth/wavy, slug, bubble, dispersed bubble, churn, annular,
// mist, and the two single-phase fallbacks) and the Taitel-Dukler/Barnea
// mechanistic map used to classify it. Regimes are a fixed, exhaustive
// set and are dispatched with a switch, never interface polymorphism.
package regime

import "math"

// Regime is the closed tagged variant over the flow-pattern set.
type Regime int

const (
	StratifiedSmooth Regime = iota
	StratifiedWavy
	Slug
	Bubble
	DispersedBubble
	Churn
	Annular
	Mist
	SinglePhaseGas
	SinglePhaseLiquid
)

func (r Regime) String() string {
	switch r {
	case StratifiedSmooth:
		return "stratified-smooth"
	case StratifiedWavy:
		return "stratified-wavy"
	case Slug:
		return "slug"
	case Bubble:
		return "bubble"
	case DispersedBubble:
		return "dispersed-bubble"
	case Churn:
		return "churn"
	case Annular:
		return "annular"
	case Mist:
		return "mist"
	case SinglePhaseGas:
		return "single-phase-gas"
	case SinglePhaseLiquid:
		return "single-phase-liquid"
	default:
		return "unknown"
	}
}

const g = 9.81

// singlePhaseEps is the superficial-velocity threshold below which a phase
// is considered absent. Classification by superficial velocity (rather
// than holdup) avoids mis-classifying lean-gas or lean-liquid systems as
// two-phase when one phase is negligibly present.
const singlePhaseEps = 1e-6

// DefaultSurfaceTension returns a representative interfacial tension when
// the thermodynamic adapter cannot supply one.
func DefaultSurfaceTension(gasOil, gasWater, oilWater bool) float64 {
	switch {
	case gasWater:
		return 0.072
	case oilWater:
		return 0.030
	default:
		return 0.020 // gas-oil
	}
}

// Inputs bundles the data the mechanistic map needs for one cell.
type Inputs struct {
	USL, USG       float64 // superficial velocities [m/s]
	D, Theta       float64 // diameter [m], inclination [rad]
	RhoL, RhoG     float64
	MuL            float64
	Sigma          float64
	RoughnessOverD float64
}

// Detect classifies the flow regime at a cell using the mechanistic map:
// Taitel-Dukler for near-horizontal pipes (|theta|<=10deg), Barnea for
// more steeply inclined pipes.
func Detect(in Inputs) Regime {
	if in.USL < singlePhaseEps && in.USG < singlePhaseEps {
		// degenerate: no flow at all, treat as stagnant liquid.
		return SinglePhaseLiquid
	}
	if in.USL < singlePhaseEps {
		return SinglePhaseGas
	}
	if in.USG < singlePhaseEps {
		return SinglePhaseLiquid
	}

	deg10 := 10.0 * math.Pi / 180.0
	if math.Abs(in.Theta) <= deg10 {
		return taitelDukler(in)
	}
	return barnea(in)
}

func um(in Inputs) float64 { return in.USL + in.USG }

func weberNumber(in Inputs) float64 {
	if in.Sigma <= 0 {
		return 0
	}
	u := um(in)
	return in.RhoL * u * u * in.D / in.Sigma
}

func deltaRho(in Inputs) float64 { return in.RhoL - in.RhoG }

// TaitelSweepVelocity returns the minimum mixture velocity at which gas
// sweeps liquid out of a dip rather than letting it accumulate there, the
// Taitel-Dukler dispersed-bubble transition correlation reused here as
// accumulation.Zone.Update's release condition.
func TaitelSweepVelocity(usg float64) float64 {
	return 0.725 + 4.15*math.Sqrt(usg)
}

// taitelDukler implements the near-horizontal mechanistic map: dispersed
// bubble, then annular, then the stratified momentum balance paired with
// a Kelvin-Helmholtz stability check, and finally the smooth/wavy split.
func taitelDukler(in Inputs) Regime {
	U := um(in)

	// (1) dispersed bubble
	if weberNumber(in) > 20 && U > TaitelSweepVelocity(in.USG) && in.USG/U < 0.52 {
		return DispersedBubble
	}

	// (2) annular
	dRho := deltaRho(in)
	if in.Sigma > 0 && dRho > 0 {
		uAnn := 3.1 * math.Pow(in.Sigma*g*dRho/(in.RhoG*in.RhoG), 0.25)
		if in.USG > uAnn {
			return Annular
		}
	}

	// (3) stratified momentum balance + Kelvin-Helmholtz stability
	hL, st := solveStratifiedLevel(in)
	_ = hL
	if kelvinHelmholtzUnstable(in, st) {
		return Slug
	}

	// (4) smooth <-> wavy via Jeffreys sheltering
	if jeffreysUnstable(in) {
		return StratifiedWavy
	}
	return StratifiedSmooth
}

// barnea implements the inclined-pipe mechanistic map: dispersed-bubble
// and annular tests first, then an upward/downward split, since the
// onset of slugging differs for uphill and downhill inclined flow.
func barnea(in Inputs) Regime {
	U := um(in)
	if weberNumber(in) > 20 && U > TaitelSweepVelocity(in.USG) && in.USG/U < 0.52 {
		return DispersedBubble
	}
	dRho := deltaRho(in)
	if in.Sigma > 0 && dRho > 0 {
		uAnn := 3.1 * math.Pow(in.Sigma*g*dRho/(in.RhoG*in.RhoG), 0.25)
		if in.USG > uAnn {
			return Annular
		}
	}

	if in.Theta > 0 { // upward
		alphaG := 1.0
		if U > 0 {
			alphaG = in.USG / U
		}
		const alphaGCrit = 0.25
		if alphaG < alphaGCrit {
			return Bubble
		}
		return Slug
	}

	// downward
	_, st := solveStratifiedLevel(in)
	if kelvinHelmholtzUnstable(in, st) {
		return Slug
	}
	if jeffreysUnstable(in) {
		return StratifiedWavy
	}
	return StratifiedSmooth
}

// kelvinHelmholtzUnstable applies the Taitel-Dukler Kelvin-Helmholtz
// criterion U_G > U_G_crit = sqrt(dRho*g*hG*AG / (rhoG*Si)), using
// dA/dh = Si from the geometry package.
func kelvinHelmholtzUnstable(in Inputs, st stratLevelState) bool {
	if st.AG <= 0 || st.Si <= 0 || in.RhoG <= 0 {
		return false
	}
	dRho := deltaRho(in)
	if dRho <= 0 {
		return false
	}
	uGCrit := math.Sqrt(dRho * g * st.HG * st.AG / (in.RhoG * st.Si))
	uG := 0.0
	if st.AlphaG > 0 {
		uG = in.USG / st.AlphaG
	}
	return uG > uGCrit
}

// jeffreysUnstable applies the Jeffreys sheltering criterion for the
// smooth/wavy stratified transition, U_G_crit = sqrt(4*muL*dRho*g /
// (s*rhoG^2)) with sheltering coefficient s=0.01.
func jeffreysUnstable(in Inputs) bool {
	const s = 0.01
	dRho := deltaRho(in)
	if dRho <= 0 || in.RhoG <= 0 {
		return false
	}
	uGCrit := math.Sqrt(4 * in.MuL * dRho * g / (s * in.RhoG * in.RhoG))
	return in.USG > uGCrit
}

// MinimumSlip evaluates drift-flux slip for each candidate regime and
// returns the one with slip closest to unity. It is a diagnostic / map
// generator, not the production dispatch path.
func MinimumSlip(in Inputs, slipOf func(Regime) float64) Regime {
	candidates := []Regime{StratifiedSmooth, StratifiedWavy, Slug, Bubble, DispersedBubble, Churn, Annular, Mist}
	best := candidates[0]
	bestDist := math.Inf(1)
	for _, r := range candidates {
		d := math.Abs(slipOf(r) - 1)
		if d < bestDist {
			bestDist = d
			best = r
		}
	}
	return best
}
