// Copyright 2024 The Pipeflow Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// +build ignore

package main

import (
	"flag"
	"math/rand"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/plt"

	"github.com/equinor/pipeflow/config"
	"github.com/equinor/pipeflow/sim"
	"github.com/equinor/pipeflow/stream"
	"github.com/equinor/pipeflow/thermo"
)

// ProfilePlot runs a configuration to its max_sim_time and renders the
// pressure/holdup profile plus a slug Gantt chart, grounded on
// tools/GenVtu.go's flag-parsed standalone-tool structure and
// ana/t_colpresfluid_test.go's plt.Subplot/plt.Plot/plt.Save usage.
func main() {
	defer func() {
		if err := recover(); err != nil {
			chk.Panic("ProfilePlot failed: %v", err)
		}
	}()

	cfgfn := "pipe.json"
	dirout := "/tmp/pipeflow"
	fnkey := "profile"

	flag.Parse()
	if len(flag.Args()) > 0 {
		cfgfn = flag.Arg(0)
	}
	if len(flag.Args()) > 1 {
		dirout = flag.Arg(1)
	}

	io.Pf("\nPipeflow ProfilePlot\n")
	io.Pf("  config = %s\n", cfgfn)

	cfg, err := config.Load(cfgfn)
	if err != nil {
		chk.Panic("cannot load config: %v", err)
	}

	inlet := stream.StaticInlet{
		MassFlow: cfg.Boundary.InletMassFlow,
		PBar:     cfg.Boundary.InletPressurePa / 1e5,
		TK:       cfg.Heat.TAmbientK,
		GasFrac:  0.5,
	}
	outlet := &stream.RecordingOutlet{}
	adapter := thermo.New(cfg.Thermo.Backend, nil)

	d := sim.NewDriver(cfg, inlet, outlet, adapter, rand.New(rand.NewSource(cfg.Slug.Seed)))
	if err := d.InitializePipe(); err != nil {
		chk.Panic("InitializePipe: %v", err)
	}
	if err := d.RunTransient(cfg.Time.MaxSimTimeS); err != nil {
		chk.Panic("RunTransient: %v", err)
	}

	plotProfile(d, dirout, fnkey)
	plotSlugGantt(d, dirout, fnkey)
}

func plotProfile(d *sim.Driver, dirout, fnkey string) {
	cells := d.Cells()
	x := make([]float64, len(cells))
	p := make([]float64, len(cells))
	alphaL := make([]float64, len(cells))
	for i, c := range cells {
		x[i] = c.Position
		p[i] = c.Pressure / 1e5
		alphaL[i] = c.AlphaL
	}

	plt.Reset(false, nil)
	plt.Subplot(2, 1, 1)
	plt.Plot(x, p, &plt.A{C: "b", Ls: "-", L: "pressure"})
	plt.Gll("$x$ [m]", "$p$ [bar]", nil)

	plt.Subplot(2, 1, 2)
	plt.Plot(x, alphaL, &plt.A{C: "g", Ls: "-", L: "holdup liquid"})
	plt.Gll("$x$ [m]", "$\\alpha_L$", nil)

	plt.Save(dirout, fnkey+"_profile")
}

// plotSlugGantt draws a short vertical tick at each exited slug's cumulative
// exit time, one row per exit in exit order; the tracker only retains exit
// records (slug.ExitRecord) after a unit leaves the pipe.
func plotSlugGantt(d *sim.Driver, dirout, fnkey string) {
	tr := d.SlugTracker()
	if len(tr.Exits) == 0 {
		return
	}
	plt.Reset(false, nil)
	t := 0.0
	for i, e := range tr.Exits {
		t += e.InterArrivalS
		y := float64(i)
		plt.Plot([]float64{t, t}, []float64{y, y + 0.8}, &plt.A{C: "r", Ls: "-"})
	}
	plt.Gll("exit time [s]", "slug index", nil)
	plt.Save(dirout, fnkey+"_slug_gantt")
}
