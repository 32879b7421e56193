// Copyright 2024 The Pipeflow Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package out writes the driver's history buffer and outlet stream to disk,
// grounded on gofem/tools/GenVtu.go's io.Ff-into-buffer-then-io.WriteFile
// idiom (here producing CSV instead of VTU, since the pipe domain has no
// mesh geometry to export).
package out

import (
	"bytes"

	"github.com/cpmech/gosl/io"

	"github.com/equinor/pipeflow/sim"
)

// WriteHistoryCSV dumps every sampled HistorySample to a CSV file: one row
// per (time, cell) pair, columns time,cell_index,position,pressure_pa,holdup_l.
func WriteHistoryCSV(path string, cells []float64, history []sim.HistorySample) {
	var buf bytes.Buffer
	io.Ff(&buf, "time,cell_index,position,pressure_pa,holdup_l\n")
	for _, s := range history {
		for i := range s.PressurePa {
			pos := 0.0
			if i < len(cells) {
				pos = cells[i]
			}
			io.Ff(&buf, "%g,%d,%g,%g,%g\n", s.TimeS, i, pos, s.PressurePa[i], s.HoldupL[i])
		}
	}
	io.WriteFile(path, &buf)
}

// WriteProfileCSV dumps a single profile snapshot (current cell state) to
// disk: one row per cell, columns position,pressure,temperature,alpha_l,
// regime.
func WriteProfileCSV(path string, d *sim.Driver) {
	var buf bytes.Buffer
	io.Ff(&buf, "position,pressure_pa,temperature_k,alpha_l,regime\n")
	for _, c := range d.Cells() {
		io.Ff(&buf, "%g,%g,%g,%g,%s\n", c.Position, c.Pressure, c.Temperature, c.AlphaL, c.Regime)
	}
	io.WriteFile(path, &buf)
}

// OutletLog accumulates a time series of outlet-stream samples for later
// export, mirroring the driver's own HistorySample accumulation but for the
// outlet endpoint specifically.
type OutletLog struct {
	TimeS       []float64
	PressurePa  []float64
	Temperature []float64
	MassFlow    []float64
}

// Sample appends the current outlet reading (time, pressure, temperature,
// mass flow) to the log.
func (l *OutletLog) Sample(t, pPa, tK, mdot float64) {
	l.TimeS = append(l.TimeS, t)
	l.PressurePa = append(l.PressurePa, pPa)
	l.Temperature = append(l.Temperature, tK)
	l.MassFlow = append(l.MassFlow, mdot)
}

// WriteCSV dumps the outlet log to disk.
func (l *OutletLog) WriteCSV(path string) {
	var buf bytes.Buffer
	io.Ff(&buf, "time,pressure_pa,temperature_k,mass_flow_kg_s\n")
	for i := range l.TimeS {
		io.Ff(&buf, "%g,%g,%g,%g\n", l.TimeS[i], l.PressurePa[i], l.Temperature[i], l.MassFlow[i])
	}
	io.WriteFile(path, &buf)
}
