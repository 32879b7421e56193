// Copyright 2024 The Pipeflow Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package integrator implements CFL-adaptive time-step computation and four
// explicit time-integration schemes over a per-cell state vector: forward
// Euler, Heun's 2nd-order method, classical 4th-order Runge-Kutta, and the
// Shu-Osher strong-stability-preserving 3rd-order scheme. Scheme selection
// follows fem/solver.go's name-to-function allocator-registry pattern.
package integrator

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/utl"
)

// WaveSpeed bundles the per-cell data needed for the CFL computation.
type WaveSpeed struct {
	UG, UL, CG, CL float64
}

// StableDt computes the CFL-limited stable time step:
//
//	dt = CFL * min(Dx / maxwave)
//
// with per-cell maxwave = max(|u_G+-c|, |u_L+-c|), sound speed clamped to
// [10,1000] m/s, and NaN/Inf filtered out. If >=25% of cells produce a NaN
// wave speed the function reports that via the ok return, signalling the
// caller to fall back to dtMin and flag numerical instability.
func StableDt(dx []float64, waves []WaveSpeed, cfl, dtMin, dtMax float64) (dt float64, ok bool) {
	if len(dx) != len(waves) || len(dx) == 0 {
		return dtMin, true
	}
	best := math.Inf(1)
	nBad := 0
	for i, w := range waves {
		cG := clampSound(w.CG)
		cL := clampSound(w.CL)
		speeds := [4]float64{
			math.Abs(w.UG + cG), math.Abs(w.UG - cG),
			math.Abs(w.UL + cL), math.Abs(w.UL - cL),
		}
		maxWave := 0.0
		bad := false
		for _, s := range speeds {
			if math.IsNaN(s) || math.IsInf(s, 0) {
				bad = true
				continue
			}
			if s > maxWave {
				maxWave = s
			}
		}
		if bad {
			nBad++
			continue
		}
		if maxWave < 1e-9 {
			continue
		}
		local := dx[i] / maxWave
		if local < best {
			best = local
		}
	}
	if float64(nBad)/float64(len(waves)) >= 0.25 {
		return dtMin, false
	}
	if math.IsInf(best, 1) {
		best = dtMax
	}
	dt = cfl * best
	return clampDt(dt, dtMin, dtMax), true
}

func clampSound(c float64) float64 {
	return utl.Min(utl.Max(c, 10), 1000)
}

func clampDt(dt, dtMin, dtMax float64) float64 {
	return utl.Min(utl.Max(dt, dtMin), dtMax)
}

// RHS evaluates the semi-discrete right-hand side R(U) = -(Fright-Fleft)/Dx
// + S(U) for every cell, returning one slice of derivative vectors per
// cell. The caller supplies U (current state per cell, as a flat slice of
// component values per cell) and the flux+source assembly closure.
type RHS func(U [][]float64) [][]float64

// Scheme is a registered explicit time-stepping scheme.
type Scheme func(U [][]float64, dt float64, rhs RHS) [][]float64

// registry mirrors fem/solver.go's map[string]func(...) Solver pattern.
var registry = map[string]Scheme{
	"euler":   Euler,
	"rk2":     RK2,
	"rk4":     RK4,
	"ssp_rk3": SSPRK3,
}

// Get returns the registered scheme by name, panicking (teacher idiom:
// gofem panics at allocator-lookup time, a programmer/config error, not a
// runtime physical failure) if unknown.
func Get(name string) Scheme {
	s, ok := registry[name]
	if !ok {
		chk.Panic("integrator: unknown time-integration scheme %q", name)
	}
	return s
}

func addScaled(a, b [][]float64, scale float64) [][]float64 {
	out := make([][]float64, len(a))
	for i := range a {
		out[i] = make([]float64, len(a[i]))
		for j := range a[i] {
			out[i][j] = a[i][j] + scale*b[i][j]
		}
	}
	return out
}

func combine(coeffs []float64, states [][][]float64) [][]float64 {
	nCells := len(states[0])
	out := make([][]float64, nCells)
	for i := 0; i < nCells; i++ {
		nComp := len(states[0][i])
		out[i] = make([]float64, nComp)
		for j := 0; j < nComp; j++ {
			var acc float64
			for k, st := range states {
				acc += coeffs[k] * st[i][j]
			}
			out[i][j] = acc
		}
	}
	return out
}

// Euler is the forward-Euler (1st order) scheme.
func Euler(U [][]float64, dt float64, rhs RHS) [][]float64 {
	k1 := rhs(U)
	return addScaled(U, k1, dt)
}

// RK2 is Heun's method (2nd order).
func RK2(U [][]float64, dt float64, rhs RHS) [][]float64 {
	k1 := rhs(U)
	u1 := addScaled(U, k1, dt)
	k2 := rhs(u1)
	avg := combine([]float64{0.5, 0.5}, [][][]float64{k1, k2})
	return addScaled(U, avg, dt)
}

// RK4 is the classical 4th-order Runge-Kutta scheme (the transient
// default).
func RK4(U [][]float64, dt float64, rhs RHS) [][]float64 {
	k1 := rhs(U)
	u2 := addScaled(U, k1, dt/2)
	k2 := rhs(u2)
	u3 := addScaled(U, k2, dt/2)
	k3 := rhs(u3)
	u4 := addScaled(U, k3, dt)
	k4 := rhs(u4)
	avg := combine([]float64{1.0 / 6, 1.0 / 3, 1.0 / 3, 1.0 / 6}, [][][]float64{k1, k2, k3, k4})
	return addScaled(U, avg, dt)
}

// SSPRK3 is the Shu-Osher strong-stability-preserving 3rd-order scheme.
func SSPRK3(U [][]float64, dt float64, rhs RHS) [][]float64 {
	k1 := rhs(U)
	u1 := addScaled(U, k1, dt)

	k2 := rhs(u1)
	// u2 = 3/4*U + 1/4*(u1 + dt*k2)
	u2 := scaleCombine(0.75, U, 0.25, addScaled(u1, k2, dt))

	k3 := rhs(u2)
	u3 := scaleCombine(1.0/3, U, 2.0/3, addScaled(u2, k3, dt))
	return u3
}

func scaleCombine(a float64, A [][]float64, b float64, B [][]float64) [][]float64 {
	out := make([][]float64, len(A))
	for i := range A {
		out[i] = make([]float64, len(A[i]))
		for j := range A[i] {
			out[i][j] = a*A[i][j] + b*B[i][j]
		}
	}
	return out
}
