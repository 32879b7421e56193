// Copyright 2024 The Pipeflow Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package regime

import (
	"math"

	"github.com/cpmech/gosl/utl"

	"github.com/equinor/pipeflow/geometry"
)

// stratLevelState is the minimal geometry+phase-split view the KH check
// needs from the stratified momentum-balance solve.
type stratLevelState struct {
	HG, AG, Si, AlphaG float64
}

// solveStratifiedLevel iterates the two-fluid momentum balance for the
// stratified liquid level (<=20 iterations, fixed step
// 0.05*D*(tauRatio-1-gravityTerm)), seeded at half-full. This mirrors the
// DriftFlux stratified holdup solve but only needs to converge well enough
// to feed the KH stability check; DriftFlux owns the authoritative holdup.
func solveStratifiedLevel(in Inputs) (float64, stratLevelState) {
	D := in.D
	h := 0.5 * D
	const maxIts = 20
	for it := 0; it < maxIts; it++ {
		st := geometry.FromLevel(h, D)
		if st.AG <= 0 || in.RhoG <= 0 {
			break
		}
		uG := in.USG / utl.Max(1-st.AlphaL, 1e-6)
		uL := in.USL / utl.Max(st.AlphaL, 1e-6)
		tauRatio := 1.0
		if uL != 0 {
			tauRatio = (in.RhoG * uG * uG) / utl.Max(in.RhoL*uL*uL, 1e-12)
		}
		gravityTerm := math.Sin(in.Theta)
		step := 0.05 * D * (tauRatio - 1 - gravityTerm)
		hNew := h + step
		if hNew <= 1e-9 {
			hNew = 1e-9
		}
		if hNew >= D-1e-9 {
			hNew = D - 1e-9
		}
		if math.Abs(hNew-h) < 1e-9*D {
			h = hNew
			break
		}
		h = hNew
	}
	st := geometry.FromLevel(h, D)
	return h, stratLevelState{
		HG:     D - h,
		AG:     st.AG,
		Si:     st.Si,
		AlphaG: 1 - st.AlphaL,
	}
}
