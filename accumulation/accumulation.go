// Copyright 2024 The Pipeflow Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package accumulation implements the Eulerian low-point liquid-accumulation
// tracker: it groups cells into zones around terrain minima, integrates
// each zone's accumulated liquid volume per step, and detects release
// events that seed the Lagrangian slug tracker. Grounded on
// mdl/porous.Model's per-element state-update loop, adapted from a
// finite-element Gauss-point loop to a per-zone cell-group loop.
package accumulation

import "github.com/equinor/pipeflow/regime"

// zoneWidthFactor bounds how far from the local minimum a cell is still
// considered part of the same low-point zone, in diameters.
const zoneWidthFactor = 0.1

// flushVelocity is the local liquid velocity above which a zone
// is considered to be actively flushing rather than accumulating.
const flushVelocity = 2.0

// debounceSeconds is the minimum time between two releases from the same
// zone, to avoid chattering around the release threshold.
const debounceSeconds = 1.0

// Zone is a group of neighbouring cells around one terrain low point.
type Zone struct {
	CellIndices         []int
	AccumulatedVolumeM3 float64
	LastRelease         float64
	OverflowThresholdM3 float64
}

// CellSample is the per-cell data the tracker needs each step.
type CellSample struct {
	Position        float64
	AlphaL          float64
	AlphaLEquilib   float64
	UL              float64
	USG             float64
	AreaM2          float64
	DxM             float64
	UM              float64
}

// SlugCharacteristics is the release record emitted by a zone, consumed by
// the slug tracker as a terrain-initiation seed.
type SlugCharacteristics struct {
	ZoneIndex     int
	FrontPosition float64
	TailPosition  float64
	LengthM       float64
	VelocityMS    float64
	HoldupHLS     float64
	VolumeM3      float64
}

// IdentifyLowPoints scans an elevation profile once for local minima (cell i
// with elev[i]<elev[i-1] and elev[i]<elev[i+1]) and groups neighbouring
// cells within zoneWidthFactor*D of the minimum into one zone.
// overflowThresholdM3 is applied uniformly to every zone found.
func IdentifyLowPoints(elevation []float64, diameter []float64, overflowThresholdM3 float64) []*Zone {
	var zones []*Zone
	n := len(elevation)
	for i := 1; i < n-1; i++ {
		if elevation[i] < elevation[i-1] && elevation[i] < elevation[i+1] {
			zones = append(zones, growZone(i, elevation, diameter, overflowThresholdM3))
		}
	}
	return zones
}

func growZone(minIdx int, elevation, diameter []float64, overflowThresholdM3 float64) *Zone {
	n := len(elevation)
	band := zoneWidthFactor * diameter[minIdx]
	cells := []int{minIdx}
	for i := minIdx - 1; i >= 0; i-- {
		if elevation[i]-elevation[minIdx] > band {
			break
		}
		cells = append([]int{i}, cells...)
	}
	for i := minIdx + 1; i < n; i++ {
		if elevation[i]-elevation[minIdx] > band {
			break
		}
		cells = append(cells, i)
	}
	return &Zone{CellIndices: cells, OverflowThresholdM3: overflowThresholdM3, LastRelease: -1e9}
}

// Update integrates one zone's accumulated volume for the current step and
// checks the release condition, returning a non-nil SlugCharacteristics if
// release fires. A zone releases at most once per step.
func (z *Zone) Update(t, dt float64, samples []CellSample, downhillUSG, downhillUSL, slugHLS float64) *SlugCharacteristics {
	var dV float64
	var flushing bool
	for _, s := range samples {
		excess := s.AlphaL - s.AlphaLEquilib
		if excess > 0 {
			dV += excess * s.AreaM2 * s.DxM
		}
		if s.UL > flushVelocity {
			flushing = true
		}
	}
	if flushing {
		dV -= z.AccumulatedVolumeM3 * 0.1 * dt
	}
	z.AccumulatedVolumeM3 += dV
	if z.AccumulatedVolumeM3 < 0 {
		z.AccumulatedVolumeM3 = 0
	}

	if z.AccumulatedVolumeM3 < z.OverflowThresholdM3 {
		return nil
	}
	if downhillUSG+downhillUSL <= regime.TaitelSweepVelocity(downhillUSG) {
		return nil
	}
	if t-z.LastRelease < debounceSeconds {
		return nil
	}

	first, last := samples[0], samples[len(samples)-1]
	sc := &SlugCharacteristics{
		FrontPosition: last.Position + 0.5*last.DxM,
		TailPosition:  first.Position - 0.5*first.DxM,
		LengthM:       (last.Position + 0.5*last.DxM) - (first.Position - 0.5*first.DxM),
		VelocityMS:    last.UM,
		HoldupHLS:     slugHLS,
		VolumeM3:      z.AccumulatedVolumeM3,
	}
	z.AccumulatedVolumeM3 = 0
	z.LastRelease = t
	return sc
}
