// Copyright 2024 The Pipeflow Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package ana holds closed-form and ODE-integrated reference solutions for
// single-phase pipe-flow pressure drop, slug frequency, and pipe cool-down,
// used by the test suite to independently cross-check the solver. Follows
// the analytical-solution-paired-with-a-gosl/ode-numerical-integration
// pattern used elsewhere in the corpus for checking closed-form results.
package ana

import "math"

// DarcyPoiseuille returns the Darcy-Weisbach pressure drop over a straight
// horizontal pipe run at mean velocity U, using the laminar 64/Re /
// turbulent Haaland friction factor split.
func DarcyPoiseuille(rho, mu, U, L, D float64) float64 {
	re := rho * math.Abs(U) * D / mu
	f := frictionFactor(re)
	return f * (L / D) * 0.5 * rho * U * U
}

// Poiseuille returns the exact laminar pressure drop 32·μ·U·L/D², derived
// directly from the Hagen-Poiseuille velocity profile rather than through
// a friction-factor correlation, so the two can be cross-checked against
// each other in the laminar regime.
func Poiseuille(mu, U, L, D float64) float64 {
	return 32 * mu * U * L / (D * D)
}

// frictionFactor mirrors friction.DarcyFactor's laminar/Haaland split,
// duplicated here (not imported) so ana stays a standalone reference
// independent of the package under test.
func frictionFactor(re float64) float64 {
	if re <= 0 {
		return 0
	}
	if re < 2300 {
		return 64 / re
	}
	const roughnessOverD = 1e-5 / 0.2
	inner := math.Pow(roughnessOverD/3.7, 1.11) + 6.9/re
	invSqrtF := -1.8 * math.Log10(inner)
	return 1 / (invSqrtF * invSqrtF)
}
