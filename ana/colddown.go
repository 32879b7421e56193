// Copyright 2024 The Pipeflow Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ana

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/ode"
)

// ColdownExponential returns the outlet temperature of a fluid losing heat
// to an ambient-temperature surrounding through a constant overall heat
// transfer coefficient along a pipe of length L: the steady-state solution
// Tamb + (Tin-Tamb)*exp(-U*pi*D*L/(mdot*Cp)) of the lumped energy balance.
func ColdownExponential(tin, tamb, uOverall, D, L, mdotKgPerS, cp float64) float64 {
	if mdotKgPerS <= 0 || cp <= 0 {
		return tin
	}
	arg := -uOverall * math.Pi * D * L / (mdotKgPerS * cp)
	return tamb + (tin-tamb)*math.Exp(arg)
}

// ColdownColumn integrates dT/dx = -U*pi*D*(T-Tamb)/(mdot*Cp) along the pipe
// length with gosl/ode, providing an independent numerical cross-check of
// ColdownExponential's closed form.
type ColdownColumn struct {
	Tin, Tamb, UOverall, D, MdotKgPerS, Cp float64
	sol                                    ode.ODE
}

// Init wires the ODE solver over xi := {T}.
func (o *ColdownColumn) Init() {
	silent := true
	o.sol.Init("Radau5", 1, func(f []float64, dx, x float64, xi []float64, args ...interface{}) error {
		T := xi[0]
		f[0] = -o.UOverall * math.Pi * o.D * (T - o.Tamb) / (o.MdotKgPerS * o.Cp)
		return nil
	}, nil, nil, nil, silent)
	o.sol.Distr = false
}

// TemperatureAt integrates from x=0 (T=Tin) to the given length and returns
// the outlet temperature.
func (o *ColdownColumn) TemperatureAt(L float64) float64 {
	xi := []float64{o.Tin}
	err := o.sol.Solve(xi, 0, L, L, false)
	if err != nil {
		chk.Panic("ColdownColumn failed integrating cool-down ODE: %v", err)
	}
	return xi[0]
}
