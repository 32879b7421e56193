// Copyright 2024 The Pipeflow Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scenarios

import (
	"math/rand"
	"testing"

	"github.com/equinor/pipeflow/accumulation"
	"github.com/equinor/pipeflow/cellstate"
	"github.com/equinor/pipeflow/driftflux"
	"github.com/equinor/pipeflow/slug"
)

func makeUniformCells(n int, dx, diameter float64) []*cellstate.Cell {
	cells := make([]*cellstate.Cell, n)
	for i := 0; i < n; i++ {
		c := cellstate.New(float64(i)*dx, dx, diameter, 0, 0, 1e-4)
		c.SetPrimitives(0.6, 0.4, 3, 2, 10, 850, 40e5, 300)
		cells[i] = c
	}
	return cells
}

// Two slug units seeded 0.5 m apart merge into one survivor within 10 s.
// The merged unit spans from the trailing unit's tail to the leading unit's
// front, so its length is bounded by the two original lengths plus the
// merge gap. The survivor stays above the minimum slug length, so no unit
// dissipates in this run; the tracker's mass-conservation residual is
// checked at the end.
func TestScenario6SlugMergeAndDissipation(t *testing.T) {
	tr := slug.NewTracker(rand.New(rand.NewSource(1)), 2, 60, 1.0, true, false)
	tr.SeedTerrain(accumulation.SlugCharacteristics{TailPosition: 10, LengthM: 5, HoldupHLS: 0.9})
	tr.SeedTerrain(accumulation.SlugCharacteristics{TailPosition: 15.5, LengthM: 5, HoldupHLS: 0.9})

	if len(tr.Active) != 2 {
		t.Fatalf("expected 2 seeded slugs, got %d", len(tr.Active))
	}
	lenA := tr.Active[0].LengthM
	lenB := tr.Active[1].LengthM

	cells := makeUniformCells(200, 5.0, 0.2)
	mdl := driftflux.NewModel()

	const dt = 0.1
	steps := int(10.0 / dt)
	for i := 0; i < steps; i++ {
		tr.Advance(dt, cells, 1000, mdl, 50)
	}

	if len(tr.Active) != 1 {
		t.Fatalf("expected exactly one merged survivor after 10s, got %d active units", len(tr.Active))
	}
	survivor := tr.Active[0]
	if survivor.LengthM > lenA+lenB+tr.MergeGapM+1e-6 {
		t.Errorf("survivor length %v exceeds sum of originals plus merge gap %v", survivor.LengthM, lenA+lenB+tr.MergeGapM)
	}

	if res := tr.MassConservationResidual(); res > 1e-6*(tr.TotalBorrowedKg+1) {
		t.Errorf("mass conservation residual %v exceeds tolerance", res)
	}
}
