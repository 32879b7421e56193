// Copyright 2024 The Pipeflow Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package stream defines the narrow inlet/outlet stream interfaces
// consumed/produced by the driver, generalised from the external-stream
// boundary fields the teacher's inp.Data reads from its input file
// (Wlevel, Surch) into an interface boundary.
package stream

// Inlet is the process-framework stream object feeding the pipe.
type Inlet interface {
	MassFlowKgPerS() float64
	PressureBar() float64
	TemperatureK() float64
	// GasFraction returns the phase split beta (vapor mass/mole fraction,
	// per adapter convention) used to seed per-phase mass flux at the
	// inlet boundary face.
	GasFraction() float64
}

// Outlet receives the solver's outlet stream results.
type Outlet interface {
	SetPressurePa(p float64)
	SetTemperatureK(t float64)
	SetMassFlowKgPerS(m float64)
}

// StaticInlet is a simple fixed-condition Inlet, useful for tests and
// simple standalone runs.
type StaticInlet struct {
	MassFlow    float64
	PBar        float64
	TK          float64
	GasFrac     float64
}

func (s StaticInlet) MassFlowKgPerS() float64 { return s.MassFlow }
func (s StaticInlet) PressureBar() float64    { return s.PBar }
func (s StaticInlet) TemperatureK() float64   { return s.TK }
func (s StaticInlet) GasFraction() float64    { return s.GasFrac }

// RecordingOutlet is a simple Outlet that just remembers the latest values,
// useful for tests and simple standalone runs.
type RecordingOutlet struct {
	PressurePa     float64
	TemperatureK   float64
	MassFlowKgPerS float64
}

func (r *RecordingOutlet) SetPressurePa(p float64)        { r.PressurePa = p }
func (r *RecordingOutlet) SetTemperatureK(t float64)      { r.TemperatureK = t }
func (r *RecordingOutlet) SetMassFlowKgPerS(m float64)    { r.MassFlowKgPerS = m }
