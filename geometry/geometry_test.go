// Copyright 2024 The Pipeflow Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package geometry

import (
	"math"
	"testing"
)

func TestRoundTrip(t *testing.T) {
	D := 0.2
	for _, frac := range []float64{0.01, 0.1, 0.3, 0.5, 0.7, 0.9, 0.99} {
		h := frac * D
		st := FromLevel(h, D)
		back := FromHoldup(st.AlphaL, D)
		tol := 1e-8 * D
		if math.Abs(back.H-h) > tol {
			t.Errorf("round-trip h=%.4f: got %.10f, tol %.2e", h, back.H, tol)
		}
	}
}

func TestHalfFullSplitsAreaEvenly(t *testing.T) {
	D := 0.3
	st := FromLevel(D/2, D)
	A := math.Pi * D * D / 4
	if math.Abs(st.AL-A/2) > 1e-9 {
		t.Errorf("half-full AL = %.10f, want %.10f", st.AL, A/2)
	}
	if math.Abs(st.AlphaL-0.5) > 1e-9 {
		t.Errorf("half-full alphaL = %.10f, want 0.5", st.AlphaL)
	}
}

func TestAnnularFilmThicknessBounds(t *testing.T) {
	D := 0.1
	if d := AnnularFilmThickness(0, D); d != 0 {
		t.Errorf("alphaL=0 should give zero film, got %v", d)
	}
	d := AnnularFilmThickness(1, D)
	if math.Abs(d-D/2) > 1e-9 {
		t.Errorf("alphaL=1 should give full-radius film, got %v want %v", d, D/2)
	}
}

func TestFromHoldupClampsExtremes(t *testing.T) {
	D := 0.2
	st := FromHoldup(0, D)
	if st.H <= 0 || st.H >= D {
		t.Errorf("clamped level out of range: %v", st.H)
	}
	st = FromHoldup(1, D)
	if st.H <= 0 || st.H >= D {
		t.Errorf("clamped level out of range: %v", st.H)
	}
}
