// Copyright 2024 The Pipeflow Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package slug

import (
	"math/rand"
	"testing"

	"github.com/equinor/pipeflow/accumulation"
	"github.com/equinor/pipeflow/cellstate"
	"github.com/equinor/pipeflow/driftflux"
)

func makeCells(n int, dx, diameter float64) []*cellstate.Cell {
	cells := make([]*cellstate.Cell, n)
	for i := 0; i < n; i++ {
		c := cellstate.New(float64(i)*dx, dx, diameter, 0, 0, 1e-4)
		c.SetPrimitives(0.5, 0.5, 2, 1, 10, 900, 1e6, 300)
		cells[i] = c
	}
	return cells
}

func TestSeedTerrainSpawnsUnit(t *testing.T) {
	tr := NewTracker(rand.New(rand.NewSource(1)), 2, 60, 1.0, true, false)
	tr.SeedTerrain(accumulation.SlugCharacteristics{TailPosition: 10, LengthM: 5, HoldupHLS: 0.9})
	if len(tr.Active) != 1 {
		t.Fatalf("expected 1 active unit, got %d", len(tr.Active))
	}
	if tr.Active[0].Front != 15 {
		t.Errorf("expected front at 15, got %v", tr.Active[0].Front)
	}
}

func TestAdvanceMovesFrontForward(t *testing.T) {
	tr := NewTracker(rand.New(rand.NewSource(1)), 2, 60, 1.0, true, false)
	tr.SeedTerrain(accumulation.SlugCharacteristics{TailPosition: 10, LengthM: 5, HoldupHLS: 0.9})
	front0 := tr.Active[0].Front
	cells := makeCells(50, 1.0, 0.2)
	mdl := driftflux.NewModel()
	tr.Advance(0.1, cells, 100, mdl, 50)
	if len(tr.Active) == 0 {
		t.Fatalf("unit unexpectedly removed")
	}
	if tr.Active[0].Front == front0 {
		t.Errorf("expected front position to advance")
	}
}

func TestMergeOverlappingCombinesUnits(t *testing.T) {
	tr := NewTracker(rand.New(rand.NewSource(1)), 2, 60, 1.0, false, false)
	tr.Active = []*Unit{
		{ID: 1, Tail: 20, Front: 25, LengthM: 5, HoldupBody: 0.9, MassKg: 10},
		{ID: 2, Tail: 10, Front: 20.5, LengthM: 10.5, HoldupBody: 0.8, MassKg: 20},
	}
	tr.mergeOverlapping()
	if len(tr.Active) != 1 {
		t.Fatalf("expected merge to combine into 1 unit, got %d", len(tr.Active))
	}
	if tr.Active[0].MassKg != 30 {
		t.Errorf("expected combined mass 30, got %v", tr.Active[0].MassKg)
	}
}

func TestRemoveExitedRecordsStats(t *testing.T) {
	tr := NewTracker(rand.New(rand.NewSource(1)), 2, 60, 1.0, false, false)
	tr.Active = []*Unit{{ID: 1, Tail: 101, Front: 105, LengthM: 4, MassKg: 5}}
	tr.removeExited(100, 1.0)
	if len(tr.Active) != 0 {
		t.Errorf("expected unit removed as exited")
	}
	if len(tr.Exits) != 1 {
		t.Fatalf("expected 1 exit record, got %d", len(tr.Exits))
	}
}

func TestMassConservationResidualZeroInitially(t *testing.T) {
	tr := NewTracker(rand.New(rand.NewSource(1)), 2, 60, 1.0, false, false)
	if tr.MassConservationResidual() != 0 {
		t.Errorf("expected zero residual with no activity")
	}
}
