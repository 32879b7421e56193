// Copyright 2024 The Pipeflow Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ana

import "math"

// ZabarasFrequency returns the Zabaras correlation for inlet-generated
// slug frequency, f = 0.0226 * lambdaL^1.2 * Fr^2 / D, where Fr is the
// mixture Froude number (usl+usg)/sqrt(g*D) and lambdaL is the no-slip
// liquid holdup. Used both as slug.Tracker.SeedInlet's seeding rule and,
// independently here, as a reference frequency for slug-flow tests.
func ZabarasFrequency(lambdaL, usl, usg, D, g float64) float64 {
	um := usl + usg
	fr := um / math.Sqrt(g*D)
	return 0.0226 * math.Pow(lambdaL, 1.2) * fr * fr / D
}
