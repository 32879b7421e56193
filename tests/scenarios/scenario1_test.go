// Copyright 2024 The Pipeflow Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scenarios

import (
	"math"
	"testing"

	"github.com/equinor/pipeflow/ana"
	"github.com/equinor/pipeflow/config"
	"github.com/equinor/pipeflow/regime"
	"github.com/equinor/pipeflow/stream"
)

// Straight horizontal pipe, single-phase gas flow, checked against the
// Darcy-Weisbach pressure drop.
func TestScenario1StraightHorizontalSinglePhaseGas(t *testing.T) {
	cfg := config.Default()
	cfg.Pipe.LengthM = 1000
	cfg.Pipe.DiameterM = 0.2
	cfg.Pipe.NCells = 50
	cfg.Time.MaxSimTimeS = 120
	cfg.Time.CFL = 0.5
	cfg.Boundary.Inlet = config.ConstantFlow
	cfg.Boundary.InletMassFlow = 2
	cfg.Boundary.Outlet = config.ConstantPressure
	cfg.Boundary.OutletPressurePa = 40e5
	cfg.Slug.EnableInlet = false
	cfg.Slug.EnableTerrain = false

	inlet := stream.StaticInlet{MassFlow: 2, PBar: 40.9, TK: 288.15, GasFrac: 1.0}

	d, outlet, err := RunAndCheck(cfg, inlet, nil)
	if err != nil {
		t.Fatalf("unexpected fatal error: %v", err)
	}

	mdotErr := math.Abs(outlet.MassFlowKgPerS-2) / 2
	if mdotErr > 0.05 {
		t.Errorf("expected steady outlet mass flow within 5%% of 2 kg/s, got %v (err=%.3f)", outlet.MassFlowKgPerS, mdotErr)
	}

	first := d.Cells()[0]
	dpActual := first.Pressure - cfg.Boundary.OutletPressurePa
	dpRef := ana.DarcyPoiseuille(first.RhoG, first.MuG, first.UG, cfg.Pipe.LengthM, cfg.Pipe.DiameterM)
	if dpRef > 0 {
		ratio := dpActual / dpRef
		if ratio < 0.5 || ratio > 2.0 {
			t.Errorf("inlet pressure drop %v far from Darcy-Weisbach reference %v (ratio=%.2f)", dpActual, dpRef, ratio)
		}
	}

	for _, c := range d.Cells() {
		if c.Regime != regime.SinglePhaseGas {
			t.Errorf("expected single-phase-gas regime throughout, got %v at x=%.1f", c.Regime, c.Position)
		}
	}
	if len(d.SlugTracker().Active) != 0 || len(d.SlugTracker().Exits) != 0 {
		t.Errorf("expected no slugs generated in single-phase gas flow")
	}
}
