// Copyright 2024 The Pipeflow Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scenarios

import (
	"math"
	"math/rand"
	"testing"

	"github.com/equinor/pipeflow/config"
	"github.com/equinor/pipeflow/sim"
	"github.com/equinor/pipeflow/stream"
	"github.com/equinor/pipeflow/thermo"
)

// Closed-end response: a sudden outlet closure sends a pressure wave
// bouncing back through the pipe, water-hammer-like.
func TestScenario4ClosedEndResponse(t *testing.T) {
	cfg := config.Default()
	cfg.Pipe.LengthM = 1000
	cfg.Pipe.DiameterM = 0.2
	cfg.Pipe.NCells = 50
	cfg.Time.MaxSimTimeS = 20
	cfg.Boundary.Inlet = config.ConstantFlow
	cfg.Boundary.InletMassFlow = 2
	cfg.Boundary.Outlet = config.ConstantPressure
	cfg.Boundary.OutletPressurePa = 40e5
	cfg.Slug.EnableInlet = false
	cfg.Slug.EnableTerrain = false

	inlet := stream.StaticInlet{MassFlow: 2, PBar: 40.9, TK: 288.15, GasFrac: 1.0}
	outlet := &stream.RecordingOutlet{}
	adapter := thermo.New("constant", nil)
	d := sim.NewDriver(cfg, inlet, outlet, adapter, rand.New(rand.NewSource(cfg.Slug.Seed)))

	if err := d.InitializePipe(); err != nil {
		t.Fatalf("InitializePipe failed: %v", err)
	}
	if err := d.RunTransient(10); err != nil {
		t.Fatalf("unexpected fatal error before closure: %v", err)
	}

	// close the outlet at t=10s and re-run in state-preserving sub-steps
	d.SetBoundaryOutlet(config.Closed)

	pressures := []float64{}
	for i := 0; i < 5; i++ {
		if err := d.RunTransient(cfg.Time.DtMin * 20); err != nil {
			t.Fatalf("unexpected fatal error after closure: %v", err)
		}
		last := d.Cells()[len(d.Cells())-1]
		if math.IsNaN(last.Pressure) || math.IsInf(last.Pressure, 0) {
			t.Fatalf("NaN/Inf pressure at outlet cell after closure, step %d", i)
		}
		pressures = append(pressures, last.Pressure)
	}

	for i := 1; i < len(pressures); i++ {
		if pressures[i] < pressures[i-1]-1e3 {
			t.Errorf("expected outlet pressure to rise (or hold) after closure, got %v -> %v", pressures[i-1], pressures[i])
		}
	}
}
