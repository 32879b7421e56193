// Copyright 2024 The Pipeflow Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package flux

import (
	"math"
	"testing"
)

func uniformSide(rhoAlphaG, rhoAlphaL, u, p, c float64) Side {
	return Side{
		Gas: PhaseFace{RhoAlpha: rhoAlphaG, U: u, H: 1000},
		Liq: PhaseFace{RhoAlpha: rhoAlphaL, U: u, H: 500},
		Pressure: p, SoundSpd: c, UMix: u,
	}
}

func TestInteriorUniformFlowMatchesUpwind(t *testing.T) {
	s := uniformSide(5, 400, 2, 1e5, 300)
	v := Interior(s, s)
	if math.Abs(v.Momentum-(5*2*2+400*2*2+1e5)) > 1e-6 {
		t.Errorf("unexpected momentum flux: %v", v.Momentum)
	}
	if v.GasMass <= 0 || v.LiqMass <= 0 {
		t.Errorf("expected positive mass fluxes for positive velocity, got %v %v", v.GasMass, v.LiqMass)
	}
}

func TestInteriorReversesUpwindDirection(t *testing.T) {
	L := uniformSide(5, 400, -2, 1e5, 300)
	R := uniformSide(5, 400, -2, 1e5, 300)
	v := Interior(L, R)
	if v.GasMass > 0 {
		t.Errorf("expected negative gas mass flux for negative velocity, got %v", v.GasMass)
	}
}

func TestSupersonicSplitDegeneratesToUpwind(t *testing.T) {
	s := uniformSide(5, 400, 500, 1e5, 300) // M=5/3 > 1
	v := Interior(s, s)
	if math.IsNaN(v.Momentum) || math.IsInf(v.Momentum, 0) {
		t.Errorf("supersonic split produced non-finite flux: %v", v.Momentum)
	}
}

func TestClosedBoundary(t *testing.T) {
	v := ClosedBoundary(2e5)
	if v.GasMass != 0 || v.LiqMass != 0 || v.Energy != 0 {
		t.Errorf("closed boundary must zero mass/energy flux: %+v", v)
	}
	if v.Momentum != 2e5 {
		t.Errorf("closed boundary momentum should equal cell pressure: %v", v.Momentum)
	}
}

func TestConstantFlowInlet(t *testing.T) {
	stream := InletStream{MassFlowKgS: 10, AlphaG: 0.2, AlphaL: 0.8, UG: 5, UL: 1, HG: 1e5, HL: 2e5}
	v := ConstantFlowInlet(stream, 0.05, 1e5)
	wantMdot := 10.0 / 0.05
	if math.Abs(v.GasMass-wantMdot*0.2) > 1e-6 {
		t.Errorf("gas mass flux mismatch: %v", v.GasMass)
	}
	if math.Abs(v.LiqMass-wantMdot*0.8) > 1e-6 {
		t.Errorf("liq mass flux mismatch: %v", v.LiqMass)
	}
}

func TestConstantPressureBoundaryClampsPressure(t *testing.T) {
	s := uniformSide(5, 400, 1, 3e5, 300)
	v := ConstantPressureBoundary(s, 1e5)
	if math.Abs(v.Momentum-(5*1+400*1+1e5)) > 1e-6 {
		t.Errorf("expected BC pressure to override cell pressure in momentum flux: %v", v.Momentum)
	}
}
