// Copyright 2024 The Pipeflow Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scenarios

import (
	"testing"

	"github.com/equinor/pipeflow/ana"
	"github.com/equinor/pipeflow/config"
	"github.com/equinor/pipeflow/stream"
)

// Two-phase horizontal pipe operated in the slug-flow regime: checks that
// some cells classify as slug or stratified-wavy, that at least five slugs
// exit at the outlet, and that the Zabaras reference frequency at the
// inlet is positive.
func TestScenario2TwoPhaseSlugFlowMap(t *testing.T) {
	cfg := config.Default()
	cfg.Pipe.LengthM = 500
	cfg.Pipe.DiameterM = 0.15
	cfg.Pipe.NCells = 40
	cfg.Time.MaxSimTimeS = 60
	cfg.Boundary.Inlet = config.ConstantFlow
	cfg.Boundary.InletMassFlow = 5
	cfg.Boundary.Outlet = config.ConstantPressure
	cfg.Boundary.OutletPressurePa = 50e5
	cfg.Slug.EnableInlet = true
	cfg.Slug.EnableTerrain = false

	inlet := stream.StaticInlet{MassFlow: 5, PBar: 50, TK: 300, GasFrac: 0.6}

	d, _, err := RunAndCheck(cfg, inlet, nil)
	if err != nil {
		t.Fatalf("unexpected fatal error: %v", err)
	}

	slugOrStratWavy := CountRegime(d, func(r string) bool {
		return r == "slug" || r == "stratified-wavy"
	})
	if slugOrStratWavy == 0 {
		t.Errorf("expected predominantly slug/stratified-wavy classification along the pipe, got none")
	}

	if len(d.SlugTracker().Exits) < 5 {
		t.Errorf("expected at least 5 slugs counted at outlet after 60 s, got %d", len(d.SlugTracker().Exits))
	}

	first := d.Cells()[0]
	fPredicted := ana.ZabarasFrequency(1-inlet.GasFrac, first.USL, first.USG, cfg.Pipe.DiameterM, 9.81)
	if fPredicted <= 0 {
		t.Errorf("expected positive Zabaras frequency reference, got %v", fPredicted)
	}
}
