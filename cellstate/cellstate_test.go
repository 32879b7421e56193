// Copyright 2024 The Pipeflow Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cellstate

import (
	"math"
	"testing"
)

func TestSetPrimitivesRenormalizesHoldup(t *testing.T) {
	c := New(0, 10, 0.2, 0, 0, 1e-4)
	c.SetPrimitives(1.5, -0.5, 5, 1, 50, 800, 40e5, 330)
	if math.Abs(c.AlphaG+c.AlphaL-1) > 1e-10 {
		t.Errorf("alphaG+alphaL = %v, want 1", c.AlphaG+c.AlphaL)
	}
	if c.AlphaG < HoldupEps || c.AlphaG > 1-HoldupEps {
		t.Errorf("alphaG out of bounds: %v", c.AlphaG)
	}
}

func TestPressureTemperatureClamp(t *testing.T) {
	c := New(0, 10, 0.2, 0, 0, 1e-4)
	c.SetPrimitives(0.5, 0.5, 1, 1, 50, 800, 1e9, 1000)
	if c.Pressure != MaxPressure {
		t.Errorf("pressure not clamped: %v", c.Pressure)
	}
	if c.Temperature != MaxTemp {
		t.Errorf("temperature not clamped: %v", c.Temperature)
	}
}

func TestVelocityClamp(t *testing.T) {
	c := New(0, 10, 0.2, 0, 0, 1e-4)
	c.SetPrimitives(0.5, 0.5, 1000, -1000, 50, 800, 40e5, 300)
	if c.UG != MaxVelocity || c.UL != -MaxVelocity {
		t.Errorf("velocities not clamped: UG=%v UL=%v", c.UG, c.UL)
	}
}

func TestBufferSnapshotIsolatesPrevFromWorking(t *testing.T) {
	c := New(0, 10, 0.2, 0, 0, 1e-4)
	c.SetPrimitives(0.5, 0.5, 1, 1, 50, 800, 40e5, 300)
	buf := NewBuffer([]*Cell{c})
	buf.Working[0].Pressure = 10e5
	if buf.Prev[0].Pressure == buf.Working[0].Pressure {
		t.Errorf("Prev should not alias Working")
	}
	buf.Snapshot()
	if buf.Prev[0].Pressure != buf.Working[0].Pressure {
		t.Errorf("Snapshot should copy Working into Prev")
	}
}
