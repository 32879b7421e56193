// Copyright 2024 The Pipeflow Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"flag"
	"math/rand"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/utl"

	"github.com/equinor/pipeflow/config"
	"github.com/equinor/pipeflow/out"
	"github.com/equinor/pipeflow/sim"
	"github.com/equinor/pipeflow/simerrors"
	"github.com/equinor/pipeflow/stream"
	"github.com/equinor/pipeflow/thermo"
)

func main() {

	verbose := true
	dirout := "/tmp/pipeflow"

	// catch errors, grounded on gofem's top-level main.go recover/CallerInfo
	// pattern (no mpi.Stop here: the pipe domain is a single 1D sequence of
	// cells, never partitioned across ranks, so gofem's MPI wiring has no
	// component left to serve).
	defer func() {
		if err := recover(); err != nil {
			chk.Verbose = true
			for i := 8; i > 3; i-- {
				chk.CallerInfo(i)
			}
			io.PfRed("ERROR: %v\n", err)
		}
	}()

	io.PfWhite("\nPipeflow -- transient multiphase pipe-flow solver\n\n")

	flag.Parse()
	var cfgfn string
	if len(flag.Args()) > 0 {
		cfgfn = flag.Arg(0)
	} else {
		chk.Panic("Please, provide a configuration filename. Ex.: pipe.json")
	}
	if len(flag.Args()) > 1 {
		dirout = flag.Arg(1)
	}
	if len(flag.Args()) > 2 {
		verbose = io.Atob(flag.Arg(2))
	}

	defer utl.DoProf(false)()

	cfg, err := config.Load(cfgfn)
	if err != nil {
		chk.Panic("cannot load config %q: %v", cfgfn, err)
	}

	inlet := stream.StaticInlet{
		MassFlow: cfg.Boundary.InletMassFlow,
		PBar:     cfg.Boundary.InletPressurePa / 1e5,
		TK:       cfg.Heat.TAmbientK,
		GasFrac:  0.5,
	}
	outlet := &stream.RecordingOutlet{}
	adapter := thermo.New(cfg.Thermo.Backend, nil)
	rng := rand.New(rand.NewSource(cfg.Slug.Seed))

	d := sim.NewDriver(cfg, inlet, outlet, adapter, rng)
	if err := d.InitializePipe(); err != nil {
		chk.Panic("InitializePipe failed: %v", err)
	}

	var outletLog out.OutletLog
	t := 0.0
	const reportEveryS = 1.0
	for t < cfg.Time.MaxSimTimeS {
		if err := d.RunTransient(reportEveryS); err != nil {
			chk.Panic("RunTransient failed at t=%.2f: %v", t, err)
		}
		t = d.TimeS()
		d.WriteOutlet()
		outletLog.Sample(t, outlet.PressurePa, outlet.TemperatureK, outlet.MassFlowKgPerS)
		if verbose {
			io.Pf("t=%8.2f s  outlet p=%10.2f bar  T=%7.2f K  mdot=%7.3f kg/s  instability_warnings=%d\n",
				t, outlet.PressurePa/1e5, outlet.TemperatureK, outlet.MassFlowKgPerS,
				d.Counters().Count(simerrors.NumericalInstability))
		}
		if d.State() == sim.FINISHED {
			break
		}
	}

	out.WriteProfileCSV(dirout+"/profile.csv", d)
	outletLog.WriteCSV(dirout + "/outlet.csv")

	if d.FatalError() != nil {
		chk.Panic("simulation ended with fatal error: %v", d.FatalError())
	}
}
