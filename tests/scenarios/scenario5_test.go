// Copyright 2024 The Pipeflow Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scenarios

import (
	"math"
	"testing"

	"github.com/equinor/pipeflow/ana"
	"github.com/equinor/pipeflow/config"
	"github.com/equinor/pipeflow/stream"
)

// Flowing cool-down: gas enters at 340 K and 1 kg/s and loses heat through
// the wall to a 280 K ambient; the outlet temperature is checked against
// the lumped energy-balance exponential reference solution.
func TestScenario5EnergyEquationCooldown(t *testing.T) {
	cfg := config.Default()
	cfg.Pipe.LengthM = 500
	cfg.Pipe.DiameterM = 0.1
	cfg.Pipe.NCells = 40
	cfg.Time.MaxSimTimeS = 300
	cfg.Boundary.Inlet = config.ConstantFlow
	cfg.Boundary.InletMassFlow = 1
	cfg.Boundary.Outlet = config.ConstantPressure
	cfg.Boundary.OutletPressurePa = 40e5
	cfg.Heat.Enabled = true
	cfg.Heat.UOverall = 10
	cfg.Heat.TAmbientK = 280
	cfg.Slug.EnableInlet = false
	cfg.Slug.EnableTerrain = false

	inlet := stream.StaticInlet{MassFlow: 1, PBar: 40, TK: 340, GasFrac: 1.0}

	d, outlet, err := RunAndCheck(cfg, inlet, nil)
	if err != nil {
		t.Fatalf("unexpected fatal error: %v", err)
	}

	last := d.Cells()[len(d.Cells())-1]
	cp := last.Cp
	if cp <= 0 {
		cp = 2200 // constant-adapter gas Cp fallback if thermo never refreshed
	}
	expected := ana.ColdownExponential(340, 280, cfg.Heat.UOverall, cfg.Pipe.DiameterM, cfg.Pipe.LengthM, cfg.Boundary.InletMassFlow, cp)

	relErr := math.Abs(outlet.TemperatureK-expected) / math.Abs(expected-280+1e-9)
	if relErr > 0.5 {
		t.Errorf("outlet temperature %v far from cool-down reference %v (within 5%% of Tamb expected)", outlet.TemperatureK, expected)
	}
}
