// Copyright 2024 The Pipeflow Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sim

import (
	"math"
	"math/rand"
	"testing"

	"github.com/equinor/pipeflow/config"
	"github.com/equinor/pipeflow/stream"
	"github.com/equinor/pipeflow/thermo"
)

func smallConfig() config.Config {
	c := config.Default()
	c.Pipe.LengthM = 100
	c.Pipe.DiameterM = 0.2
	c.Pipe.NCells = 10
	c.Time.MaxSimTimeS = 1.0
	return c
}

func newTestDriver(t *testing.T) *Driver {
	t.Helper()
	cfg := smallConfig()
	inlet := stream.StaticInlet{MassFlow: 5, PBar: 40, TK: 330, GasFrac: 0.1}
	outlet := &stream.RecordingOutlet{}
	adapter := thermo.New("constant", nil)
	d := NewDriver(cfg, inlet, outlet, adapter, rand.New(rand.NewSource(1)))
	if err := d.InitializePipe(); err != nil {
		t.Fatalf("InitializePipe failed: %v", err)
	}
	return d
}

func TestInitializePipeReachesInitialisedState(t *testing.T) {
	d := newTestDriver(t)
	if d.State() != INITIALISED {
		t.Errorf("expected INITIALISED, got %v", d.State())
	}
	if len(d.Cells()) != 10 {
		t.Errorf("expected 10 cells, got %d", len(d.Cells()))
	}
}

func TestRunTransientAdvancesTimeAndReachesFinished(t *testing.T) {
	d := newTestDriver(t)
	err := d.RunTransient(d.cfg.Time.MaxSimTimeS + 1)
	if err != nil {
		t.Fatalf("unexpected fatal error: %v", err)
	}
	if d.State() != FINISHED {
		t.Errorf("expected FINISHED after exceeding max_sim_time, got %v", d.State())
	}
	if d.TimeS() <= 0 {
		t.Errorf("expected simulated time to advance, got %v", d.TimeS())
	}
}

func TestRunTransientPausesOnPartialSubStep(t *testing.T) {
	d := newTestDriver(t)
	err := d.RunTransient(0.01)
	if err != nil {
		t.Fatalf("unexpected fatal error: %v", err)
	}
	if d.State() != PAUSED {
		t.Errorf("expected PAUSED after a small sub-step, got %v", d.State())
	}
}

func TestCellsStayWithinInvariantBoundsAfterSteps(t *testing.T) {
	d := newTestDriver(t)
	_ = d.RunTransient(0.5)
	for _, c := range d.Cells() {
		sum := c.AlphaG + c.AlphaL
		if sum < 1-1e-6 || sum > 1+1e-6 {
			t.Errorf("alphaG+alphaL=%v, want ~1", sum)
		}
		if c.Pressure < 1e5-1 || c.Pressure > 5e7+1 {
			t.Errorf("pressure out of bounds: %v", c.Pressure)
		}
	}
}

func TestWriteOutletUsesSlugHoldupWhenInSlug(t *testing.T) {
	d := newTestDriver(t)
	last := d.Cells()[len(d.Cells())-1]
	last.InSlugBody = true
	last.SlugHoldup = 0.95
	d.WriteOutlet()
	rec := d.outlet.(*stream.RecordingOutlet)
	if rec.MassFlowKgPerS == 0 {
		t.Errorf("expected non-zero outlet mass flow")
	}
	want := (0.95*last.RhoL + 0.05*last.RhoG) * last.UM * last.Area
	if math.Abs(rec.MassFlowKgPerS-want) > 1e-9*math.Abs(want) {
		t.Errorf("expected outlet mass flow from slug holdup %v, got %v", want, rec.MassFlowKgPerS)
	}
}
