// Copyright 2024 The Pipeflow Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package scenarios implements six end-to-end transient pipe-flow
// integration scenarios, grounded on gofem's tests/check.go CompareResults
// helper: a single RunAndCheck entry point that drives a Driver to
// completion and hands the caller the finished Driver plus any fatal
// error, rather than comparing against a stored .cmp file (this domain has
// no golden-file reference results, only the closed-form ana package and
// physical invariants checked directly against the run).
package scenarios

import (
	"math/rand"

	"github.com/equinor/pipeflow/config"
	"github.com/equinor/pipeflow/sim"
	"github.com/equinor/pipeflow/stream"
	"github.com/equinor/pipeflow/thermo"
)

// RunAndCheck initialises and runs a Driver to cfg.Time.MaxSimTimeS using a
// ConstantAdapter-backed thermo stack and a StaticInlet/RecordingOutlet
// stream pair, returning the finished Driver for assertion by the caller.
func RunAndCheck(cfg config.Config, inlet stream.StaticInlet, thermoCfg map[string]float64) (*sim.Driver, *stream.RecordingOutlet, error) {
	outlet := &stream.RecordingOutlet{}
	adapter := thermo.New("constant", thermoCfg)
	rng := rand.New(rand.NewSource(cfg.Slug.Seed))

	d := sim.NewDriver(cfg, inlet, outlet, adapter, rng)
	if err := d.InitializePipe(); err != nil {
		return d, outlet, err
	}
	if err := d.RunTransient(cfg.Time.MaxSimTimeS); err != nil {
		return d, outlet, err
	}
	d.WriteOutlet()
	return d, outlet, nil
}

// CountRegime counts how many cells currently have a regime whose name
// satisfies want.
func CountRegime(d *sim.Driver, want func(string) bool) int {
	n := 0
	for _, c := range d.Cells() {
		if want(c.Regime.String()) {
			n++
		}
	}
	return n
}
