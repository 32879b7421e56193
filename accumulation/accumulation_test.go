// Copyright 2024 The Pipeflow Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package accumulation

import "testing"

func TestIdentifyLowPointsFindsDip(t *testing.T) {
	elev := []float64{10, 5, 0, 5, 10}
	diam := []float64{0.2, 0.2, 0.2, 0.2, 0.2}
	zones := IdentifyLowPoints(elev, diam, 1.0)
	if len(zones) != 1 {
		t.Fatalf("expected 1 zone, got %d", len(zones))
	}
	found := false
	for _, idx := range zones[0].CellIndices {
		if idx == 2 {
			found = true
		}
	}
	if !found {
		t.Errorf("expected zone to include the minimum cell, got %v", zones[0].CellIndices)
	}
}

func TestIdentifyLowPointsNoMinimaOnMonotoneProfile(t *testing.T) {
	elev := []float64{0, 1, 2, 3, 4}
	diam := []float64{0.2, 0.2, 0.2, 0.2, 0.2}
	zones := IdentifyLowPoints(elev, diam, 1.0)
	if len(zones) != 0 {
		t.Errorf("expected no zones on a monotone profile, got %d", len(zones))
	}
}

func TestZoneUpdateAccumulatesPositiveExcessOnly(t *testing.T) {
	z := &Zone{OverflowThresholdM3: 1e6, LastRelease: -1e9}
	samples := []CellSample{
		{Position: 10, AlphaL: 0.9, AlphaLEquilib: 0.3, AreaM2: 0.1, DxM: 1, UM: 1},
		{Position: 11, AlphaL: 0.1, AlphaLEquilib: 0.3, AreaM2: 0.1, DxM: 1, UM: 1}, // deficit, should not subtract
	}
	z.Update(0, 1, samples, 0, 0, 0.9)
	if z.AccumulatedVolumeM3 <= 0 {
		t.Errorf("expected positive accumulation from the excess cell, got %v", z.AccumulatedVolumeM3)
	}
}

func TestZoneReleaseFiresAboveThresholdAndSweepVelocity(t *testing.T) {
	z := &Zone{OverflowThresholdM3: 0.001, LastRelease: -1e9}
	samples := []CellSample{
		{Position: 10, AlphaL: 0.9, AlphaLEquilib: 0.1, AreaM2: 0.1, DxM: 1, UM: 2},
	}
	sc := z.Update(5.0, 1, samples, 10, 10, 0.9)
	if sc == nil {
		t.Fatalf("expected a release event")
	}
	if z.AccumulatedVolumeM3 != 0 {
		t.Errorf("expected accumulated volume reset after release")
	}
	if z.LastRelease != 5.0 {
		t.Errorf("expected last_release updated to t")
	}
}

func TestZoneReleaseDebounced(t *testing.T) {
	z := &Zone{OverflowThresholdM3: 0.001, LastRelease: 4.9}
	samples := []CellSample{
		{Position: 10, AlphaL: 0.9, AlphaLEquilib: 0.1, AreaM2: 0.1, DxM: 1, UM: 2},
	}
	sc := z.Update(5.0, 1, samples, 10, 10, 0.9)
	if sc != nil {
		t.Errorf("expected release suppressed by debounce")
	}
}
