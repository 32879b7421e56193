// Copyright 2024 The Pipeflow Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package config

import "math/rand"

// Sample returns the configured parameter's mean when uncertainty is
// disabled. When enabled, it draws one normally-distributed value around
// Mean with standard deviation StdDev using rng, for a Monte-Carlo batch
// run that perturbs one parameter (e.g. pipe.roughness) per run. rng is
// caller-owned so a batch driver can control reproducibility the same
// way sim.Driver's own *rand.Rand is injected for the slug tracker.
func (u Uncertainty) Sample(rng *rand.Rand) float64 {
	if !u.Enabled {
		return u.Mean
	}
	return u.Mean + rng.NormFloat64()*u.StdDev
}
