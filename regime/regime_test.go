// Copyright 2024 The Pipeflow Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package regime

import "testing"

func TestSinglePhaseClassification(t *testing.T) {
	in := Inputs{USL: 0, USG: 5, D: 0.2, RhoL: 800, RhoG: 50, MuL: 1e-3, Sigma: 0.02}
	if got := Detect(in); got != SinglePhaseGas {
		t.Errorf("expected single-phase-gas, got %v", got)
	}
	in.USL, in.USG = 1.0, 0
	if got := Detect(in); got != SinglePhaseLiquid {
		t.Errorf("expected single-phase-liquid, got %v", got)
	}
}

func TestDispersedBubbleAtHighRate(t *testing.T) {
	in := Inputs{
		USL: 4.0, USG: 0.05, D: 0.15, Theta: 0,
		RhoL: 800, RhoG: 50, MuL: 1e-3, Sigma: 0.02,
	}
	got := Detect(in)
	if got != DispersedBubble {
		t.Errorf("expected dispersed-bubble for high-rate horizontal flow, got %v", got)
	}
}

func TestAnnularAtHighGasRate(t *testing.T) {
	in := Inputs{
		USL: 0.05, USG: 30, D: 0.15, Theta: 0,
		RhoL: 800, RhoG: 50, MuL: 1e-3, Sigma: 0.02,
	}
	if got := Detect(in); got != Annular {
		t.Errorf("expected annular at high gas rate, got %v", got)
	}
}

func TestUpwardBubbleVsSlugSplit(t *testing.T) {
	theta := 1.4 // > 10 deg, upward
	lowGas := Inputs{USL: 1.0, USG: 0.05, D: 0.15, Theta: theta, RhoL: 800, RhoG: 50, MuL: 1e-3, Sigma: 0.02}
	if got := Detect(lowGas); got != Bubble {
		t.Errorf("expected bubble at low alphaG upward, got %v", got)
	}
	highGas := Inputs{USL: 0.3, USG: 2.0, D: 0.15, Theta: theta, RhoL: 800, RhoG: 50, MuL: 1e-3, Sigma: 0.02}
	if got := Detect(highGas); got != Slug && got != Annular && got != DispersedBubble {
		t.Errorf("expected slug-family at high alphaG upward, got %v", got)
	}
}
