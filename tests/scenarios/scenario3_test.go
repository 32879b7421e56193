// Copyright 2024 The Pipeflow Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scenarios

import (
	"testing"

	"github.com/equinor/pipeflow/config"
	"github.com/equinor/pipeflow/stream"
)

// buildVProfile returns a V-shaped elevation profile: flat 0-500m, down
// 20m by 1000m, up to 0 by 1500m, flat to 2000m, sampled at n cell centres
// over length L. It forms a terrain low point where liquid can pool and
// periodically release as a slug.
func buildVProfile(n int, L float64) []float64 {
	elev := make([]float64, n)
	dx := L / float64(n)
	for i := 0; i < n; i++ {
		x := (float64(i) + 0.5) * dx
		switch {
		case x <= 500:
			elev[i] = 0
		case x <= 1000:
			elev[i] = -20 * (x - 500) / 500
		case x <= 1500:
			elev[i] = -20 + 20*(x-1000)/500
		default:
			elev[i] = 0
		}
	}
	return elev
}

// Terrain V-profile pipeline where liquid pools at the low point and
// periodically releases as a terrain-induced slug.
func TestScenario3TerrainVProfileInducedSlugging(t *testing.T) {
	cfg := config.Default()
	cfg.Pipe.LengthM = 2000
	cfg.Pipe.DiameterM = 0.3
	cfg.Pipe.NCells = 40
	cfg.Pipe.ElevationProfile = buildVProfile(40, 2000)
	cfg.Time.MaxSimTimeS = 1200
	cfg.Boundary.Inlet = config.ConstantFlow
	cfg.Boundary.InletMassFlow = 3
	cfg.Boundary.Outlet = config.ConstantPressure
	cfg.Boundary.OutletPressurePa = 30e5
	cfg.Slug.EnableInlet = true
	cfg.Slug.EnableTerrain = true

	inlet := stream.StaticInlet{MassFlow: 3, PBar: 30, TK: 300, GasFrac: 0.85}

	d, _, err := RunAndCheck(cfg, inlet, nil)
	if err != nil {
		t.Fatalf("unexpected fatal error: %v", err)
	}

	if len(d.Cells()) == 0 {
		t.Fatal("expected non-empty cell array")
	}

	lowIdx := 0
	lowElev := d.Cells()[0].Elevation
	for i, c := range d.Cells() {
		if c.Elevation < lowElev {
			lowElev = c.Elevation
			lowIdx = i
		}
	}
	if lowIdx < 10 || lowIdx > 30 {
		t.Errorf("expected the low point near index ~20, got %d", lowIdx)
	}

	hasAccumulated := false
	for _, c := range d.Cells() {
		if c.AccumulatedLiquidVol > 0 {
			hasAccumulated = true
			break
		}
	}
	if !hasAccumulated {
		t.Errorf("expected non-zero accumulated liquid volume somewhere along the dip after >=120s")
	}

	if len(d.SlugTracker().Exits) == 0 && len(d.SlugTracker().Active) == 0 {
		t.Errorf("expected at least one terrain-released slug within t_max")
	}
}
