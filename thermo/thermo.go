// Copyright 2024 The Pipeflow Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package thermo defines the narrow external interface to the
// thermodynamic flash/EOS engine consumed by the driver, grounded on
// mdl/fluid.Model's narrow property-model surface. Backends register
// through a factory (ele.SetAllocator-style) because, unlike flow regimes,
// adapter backends are genuinely open-ended.
package thermo

import "github.com/cpmech/gosl/chk"

// ErrorKind classifies why a flash call could not return a result.
type ErrorKind int

const (
	OK ErrorKind = iota
	OutOfRange
	ConvergenceFailed
)

// PhaseProperties is the full set of phase properties the core needs from
// one flash call: densities, viscosities, enthalpies, sound speeds, molar
// masses, heat capacities, the Joule-Thomson coefficient, and surface
// tension.
type PhaseProperties struct {
	AlphaGVap float64 // vapor volume fraction implied by the flash
	RhoG      float64
	MuG       float64
	HG        float64
	CG        float64 // gas sound speed
	MG        float64 // gas molar mass
	CpG       float64
	MuJT      float64 // Joule-Thomson coefficient [K/Pa]
	RhoL      float64
	MuL       float64
	HL        float64
	CL        float64 // liquid sound speed
	ML        float64
	CpL       float64
	Sigma     float64
	Converged bool
	Error     ErrorKind
}

// Adapter is the narrow interface the core consumes; the flash/EOS engine
// itself lives entirely outside this module.
type Adapter interface {
	FlashPT(pPa, tK float64) (PhaseProperties, error)
	FlashPH(pPa, hSpecJPerKg float64) (PhaseProperties, error)
}

const (
	minP = 1e5
	maxP = 5e8
	minT = 200.0
	maxT = 500.0
)

// ValidateRange returns OutOfRange when P/T fall outside the adapter's
// valid domain.
func ValidateRange(pPa, tK float64) ErrorKind {
	if pPa < minP || pPa > maxP || tK < minT || tK > maxT {
		return OutOfRange
	}
	return OK
}

// allocators holds registered adapter constructors, keyed by backend name,
// mirroring ele.SetAllocator/ele.New.
var allocators = make(map[string]func(cfg map[string]float64) Adapter)

// Register installs a new adapter backend constructor under name.
func Register(name string, fn func(cfg map[string]float64) Adapter) {
	if _, ok := allocators[name]; ok {
		chk.Panic("thermo: adapter backend %q already registered", name)
	}
	allocators[name] = fn
}

// New instantiates a registered adapter backend by name.
func New(name string, cfg map[string]float64) Adapter {
	fn, ok := allocators[name]
	if !ok {
		chk.Panic("thermo: no adapter backend registered under %q", name)
	}
	return fn(cfg)
}
