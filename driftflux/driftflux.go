// Copyright 2024 The Pipeflow Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package driftflux implements the regime-dependent drift-flux closure:
// distribution coefficient C0 and drift velocity v_d, the holdup/phase
// velocity split from superficial velocities, the total pressure gradient,
// and the energy equation. Grounded on mdl/porous.Model's Init/Update
// iteration idiom from the teacher repository.
package driftflux

import (
	"math"

	"github.com/cpmech/gosl/utl"

	"github.com/equinor/pipeflow/friction"
	"github.com/equinor/pipeflow/geometry"
	"github.com/equinor/pipeflow/regime"
)

// Model holds the fixed iteration constants for the stratified holdup
// solve, mirroring mdl/porous.Model's NmaxIt/Itol constants.
type Model struct {
	NmaxIt int     // max iterations for the stratified momentum balance
	Itol   float64 // tolerance (relative, in level units)
}

// NewModel returns a Model with iteration defaults tight enough for the
// stratified level solve to converge within a handful of steps.
func NewModel() *Model {
	return &Model{NmaxIt: 20, Itol: 1e-9}
}

const gGrav = 9.81

// DegenerateMixture is returned by Solve when U_M < 1e-10 and U_SG > 0: the
// holdup equation denom=C0*U_M+v_d collapses and alphaG is set to 1.
type DegenerateMixture struct{}

func (DegenerateMixture) Error() string {
	return "driftflux: degenerate mixture (U_M~0 with U_SG>0)"
}

// Inputs bundles the per-cell data needed to evaluate the closure.
type Inputs struct {
	Regime     regime.Regime
	D, Theta   float64
	USG, USL   float64
	RhoG, RhoL float64
	MuG, MuL   float64
	Sigma      float64
	Roughness  float64
}

// Result is the drift-flux closure output for one cell.
type Result struct {
	C0, Vd           float64
	AlphaG, AlphaL   float64
	UG, UL           float64
	Slip             float64
	Geom             geometry.State
	DPDxGravity      float64
	DPDxFriction     float64
	DPDxTotal        float64
	InterfacialFi    float64
	Err              error // non-nil only for DegenerateMixture (non-fatal; alphaG set to 1)
}

// Solve computes the distribution coefficient C0 and drift velocity v_d
// for the cell's flow regime, uses them to split the mixture superficial
// velocity into phase holdups and phase velocities, and returns the total
// pressure gradient split into its gravity and friction components. The
// flow-acceleration contribution to the pressure gradient is neglected.
func (m *Model) Solve(in Inputs) Result {
	UM := in.USG + in.USL
	c0, vd, res := m.closure(in, UM)

	denom := c0*UM + vd
	var alphaG float64
	if UM < 1e-10 && in.USG > 0 {
		alphaG = 1
		res.Err = DegenerateMixture{}
	} else if denom > 1e-12 {
		alphaG = in.USG / denom
	} else {
		alphaG = 0
	}
	if alphaG < 0 {
		alphaG = 0
	}
	if alphaG > 1 {
		alphaG = 1
	}
	alphaL := 1 - alphaG

	var uG, uL float64
	if alphaG > 1e-9 {
		uG = in.USG / alphaG
	}
	if alphaL > 1e-9 {
		uL = in.USL / alphaL
	}
	slip := 1.0
	if uL != 0 {
		slip = uG / uL
	}

	res.C0, res.Vd = c0, vd
	res.AlphaG, res.AlphaL = alphaG, alphaL
	res.UG, res.UL = uG, uL
	res.Slip = slip
	res.Geom = geometry.FromHoldup(alphaL, in.D)

	rhoM := alphaG*in.RhoG + alphaL*in.RhoL
	res.DPDxGravity = -rhoM * gGrav * math.Sin(in.Theta)

	fr := friction.Gradient(friction.Inputs{
		Regime: in.Regime, D: in.D, Roughness: in.Roughness, Geom: res.Geom,
		RhoG: in.RhoG, RhoL: in.RhoL, MuG: in.MuG, MuL: in.MuL,
		UG: uG, UL: uL, UM: UM, AlphaG: alphaG, AlphaL: alphaL,
	})
	res.DPDxFriction = fr.Gradient
	res.InterfacialFi = fr.Fi
	res.DPDxTotal = res.DPDxGravity + res.DPDxFriction
	return res
}

// closure dispatches the regime-dependent C0/v_d pair: Zuber-Findlay-style
// constants for bubble/dispersed-bubble and annular/churn/mist flow,
// Bendiksen's correlation for slug flow. For stratified flow there is no
// meaningful drift velocity, so the momentum-balance holdup solve is
// instead folded into an effective C0 with v_d=0.
func (m *Model) closure(in Inputs, UM float64) (c0, vd float64, res Result) {
	dRho := in.RhoL - in.RhoG
	switch in.Regime {
	case regime.Bubble, regime.DispersedBubble:
		c0 = 1.2
		vBub := 0.0
		if in.Sigma > 0 && in.RhoL > 0 && dRho > 0 {
			vBub = 1.53 * math.Pow(gGrav*in.Sigma*dRho/(in.RhoL*in.RhoL), 0.25)
		}
		if math.Abs(in.Theta) < 0.01 {
			vd = 0.1 * vBub
		} else {
			vd = vBub * math.Abs(math.Sin(in.Theta))
		}
		return

	case regime.Slug:
		return m.bendiksen(in, UM, dRho)

	case regime.Annular, regime.Churn, regime.Mist:
		c0 = 1.0
		vd = 0.2 * math.Sqrt(gGrav*in.D*dRho/utl.Max(in.RhoL, 1e-9)) * math.Sin(in.Theta)
		return

	case regime.StratifiedSmooth, regime.StratifiedWavy:
		hL := m.solveStratifiedLevel(in)
		st := geometry.FromLevel(hL, in.D)
		uG := 0.0
		if st.AG > 0 {
			uG = in.USG / (st.AG / (math.Pi * in.D * in.D / 4))
		}
		if UM > 1e-9 {
			c0 = uG / UM
		} else {
			c0 = 1.0
		}
		vd = 0
		return

	default: // single-phase fallbacks
		c0 = 1.0
		vd = 0
		return
	}
}

// bendiksen implements the Bendiksen slug-flow C0/v_d closure: above a
// mixture Froude number of 3.5, C0 switches to its high-rate asymptotic
// value; the drift velocity blends Bendiksen's horizontal and vertical
// correlations linearly over inclination in [pi/6, pi/3].
func (m *Model) bendiksen(in Inputs, UM, dRho float64) (c0, vd float64, res Result) {
	FrM := 0.0
	if in.D > 0 {
		FrM = UM / math.Sqrt(gGrav*in.D)
	}
	if FrM > 3.5 {
		c0 = 1.2
	} else {
		c0 = 1.05 + 0.15*math.Sin(in.Theta)
	}
	vHoriz := 0.54 * math.Sqrt(gGrav*in.D*dRho/utl.Max(in.RhoL, 1e-9))
	vVert := 0.35 * math.Sqrt(gGrav*in.D*dRho/utl.Max(in.RhoL, 1e-9))
	absTheta := math.Abs(in.Theta)
	switch {
	case absTheta <= math.Pi/6:
		vd = vHoriz
	case absTheta >= math.Pi/3:
		vd = vVert
	default:
		frac := (absTheta - math.Pi/6) / (math.Pi/3 - math.Pi/6)
		vd = vHoriz + frac*(vVert-vHoriz)
	}
	return
}

// solveStratifiedLevel iterates the two-fluid momentum balance for the
// stratified liquid level: the wall/interfacial shear-stress ratio and the
// gravity component drive a fixed-step correction 0.05*D*(tauRatio-1-gravity)
// to the liquid level until it stops moving.
func (m *Model) solveStratifiedLevel(in Inputs) float64 {
	D := in.D
	h := 0.5 * D
	for it := 0; it < m.NmaxIt; it++ {
		st := geometry.FromLevel(h, D)
		if st.AG <= 0 || in.RhoG <= 0 {
			break
		}
		uG := in.USG / utl.Max(1-st.AlphaL, 1e-6)
		uL := in.USL / utl.Max(st.AlphaL, 1e-6)
		tauRatio := 1.0
		if uL != 0 {
			tauRatio = (in.RhoG * uG * uG) / utl.Max(in.RhoL*uL*uL, 1e-12)
		}
		gravityTerm := math.Sin(in.Theta)
		step := 0.05 * D * (tauRatio - 1 - gravityTerm)
		hNew := h + step
		if hNew <= 1e-9 {
			hNew = 1e-9
		}
		if hNew >= D-1e-9 {
			hNew = D - 1e-9
		}
		if math.Abs(hNew-h) < m.Itol*D {
			return hNew
		}
		h = hNew
	}
	return h
}
