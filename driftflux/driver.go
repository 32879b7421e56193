// Copyright 2024 The Pipeflow Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package driftflux

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/num"
)

// Driver runs a consistency check of the gravity component of the
// pressure-gradient closure: its inclination derivative is compared with
// num.DerivCen. The friction component is not checked.
type Driver struct {
	Mdl     *Model
	TolDPDx float64
	VerD    bool
}

// NewDriver returns a Driver with the teacher's default tolerances.
func NewDriver(mdl *Model) *Driver {
	return &Driver{Mdl: mdl, TolDPDx: 1e-6, VerD: chk.Verbose}
}

// CheckGravityDerivative verifies dP/dx_gravity = d/dTheta(-rhoM*g*sin(theta))
// matches the analytical cos(theta) derivative at a fixed mixture density,
// using num.DerivCen exactly as the teacher's closure-consistency drivers do.
func (d *Driver) CheckGravityDerivative(in Inputs, theta0 float64) error {
	base := in
	base.Theta = theta0
	res := d.Mdl.Solve(base)
	rhoM := res.AlphaG*in.RhoG + res.AlphaL*in.RhoL

	ana := -rhoM * gGrav * math.Cos(theta0)
	numeric := num.DerivCen(func(x float64, args ...interface{}) float64 {
		in2 := in
		in2.Theta = x
		r := d.Mdl.Solve(in2)
		return -((r.AlphaG*in.RhoG + r.AlphaL*in.RhoL) * gGrav * math.Sin(x))
	}, theta0)

	return chk.PrintAnaNum(io.Sf("dPdx_gravity @ theta=%.4f", theta0), d.TolDPDx, ana, numeric, d.VerD)
}
