// Copyright 2024 The Pipeflow Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package cellstate implements the per-cell primitive/conservative state of
// the pipe discretisation, grounded on mdl/porous.State's
// NewState/GetCopy/Set convention and fem/e_pp.go's States/StatesBkp/
// StatesAux triple-buffer idiom (previous/working/trial copies instead of
// in-place mutation during a step).
package cellstate

import (
	"github.com/cpmech/gosl/utl"

	"github.com/equinor/pipeflow/regime"
)

// Holdup bounds keep alpha_G/alpha_L away from 0/1 so every division in the
// closures stays well posed.
const HoldupEps = 1e-4

// Physical clamp bounds, guarding against runaway values after a bad
// closure evaluation or an ill-conditioned conservative-to-primitive
// inversion.
const (
	MaxVelocity  = 300.0
	MinPressure  = 1e5
	MaxPressure  = 5e7
	MinTemp      = 100.0
	MaxTemp      = 500.0
	MinSoundSpd  = 10.0
	MaxSoundSpd  = 1000.0
)

// Cell is one finite-volume cell of the pipe discretisation.
type Cell struct {
	// geometry, fixed at initialize_pipe
	Position    float64 // distance from inlet [m]
	Length      float64 // cell length Dx [m]
	Diameter    float64
	Area        float64
	Inclination float64 // [rad]
	Elevation   float64
	Roughness   float64

	// primitives
	Pressure    float64
	Temperature float64
	AlphaG      float64
	AlphaL      float64
	UG          float64
	UL          float64
	RhoG        float64
	RhoL        float64
	MuG         float64
	MuL         float64
	SoundSpeedG float64
	SoundSpeedL float64
	HG          float64 // specific enthalpy, gas [J/kg]
	HL          float64 // specific enthalpy, liquid [J/kg]
	Sigma       float64 // surface tension [N/m]
	Cp          float64 // mixture heat capacity [J/kgK]
	MuJT        float64 // Joule-Thomson coefficient [K/Pa]

	Regime regime.Regime

	// derived
	UM         float64
	RhoM       float64
	USG, USL   float64
	LiquidLevel float64

	// last closure outputs
	DPDxFriction float64
	DPDxGravity  float64

	// accumulation/slug flags
	IsLowPoint            bool
	IsHighPoint           bool
	InSlugBody            bool
	InSlugBubble          bool
	SlugHoldup            float64
	AccumulatedLiquidVol  float64

	MassTransferRate float64

	// conservative state, two-fluid variant: (rhoG*alphaG, rhoL*alphaL,
	// rhoM*uM, rhoM*E)
	U Conservative
}

// Conservative is the fixed-width conservative state vector.
//
// Three-fluid extension (design-level only): would add (rhoW*alphaW, oil
// momentum, water momentum) as three further components with separate
// phase velocities; not carried here.
type Conservative struct {
	MassG     float64 // rhoG*alphaG
	MassL     float64 // rhoL*alphaL
	Momentum  float64 // rhoM*uM
	Energy    float64 // rhoM*E
}

// New returns a Cell with its geometry and flow area set; primitives and
// the conservative state stay zero until SetPrimitives is called.
func New(position, length, diameter, inclination, elevation, roughness float64) *Cell {
	c := &Cell{
		Position: position, Length: length, Diameter: diameter,
		Inclination: inclination, Elevation: elevation, Roughness: roughness,
	}
	c.Area = areaOf(diameter)
	return c
}

func areaOf(D float64) float64 {
	return 3.141592653589793 * D * D / 4
}

// SetPrimitives assigns primitive fields, renormalises the holdups, clamps
// every invariant-bearing quantity, and recomputes the derived quantities
// and the conservative state.
func (c *Cell) SetPrimitives(alphaG, alphaL, uG, uL, rhoG, rhoL, P, T float64) {
	c.AlphaG, c.AlphaL = renormalize(alphaG, alphaL)
	c.UG = clampVel(uG)
	c.UL = clampVel(uL)
	c.RhoG = posOrTiny(rhoG)
	c.RhoL = posOrTiny(rhoL)
	c.Pressure = utl.Min(utl.Max(P, MinPressure), MaxPressure)
	c.Temperature = utl.Min(utl.Max(T, MinTemp), MaxTemp)
	c.deriveFromPrimitives()
	c.toConservative()
}

// deriveFromPrimitives recomputes mixture velocity/density and superficial
// velocities from the current primitives.
func (c *Cell) deriveFromPrimitives() {
	c.RhoM = c.AlphaG*c.RhoG + c.AlphaL*c.RhoL
	if c.RhoM > 0 {
		c.UM = (c.RhoG*c.AlphaG*c.UG + c.RhoL*c.AlphaL*c.UL) / c.RhoM
	}
	c.USG = c.AlphaG * c.UG
	c.USL = c.AlphaL * c.UL
}

// toConservative packs the primitive state into the conservative vector.
func (c *Cell) toConservative() {
	c.U = Conservative{
		MassG:    c.RhoG * c.AlphaG,
		MassL:    c.RhoL * c.AlphaL,
		Momentum: c.RhoM * c.UM,
		Energy:   c.RhoM * c.energyPerMass(),
	}
}

// energyPerMass is a lumped specific total energy (internal via enthalpy
// proxy + kinetic) used only to keep the conservative energy slot populated
// for the AUSM+ energy flux; the authoritative thermal state is the cell's
// temperature, refreshed via ThermoAdapter and the energy equation in
// package driftflux.
func (c *Cell) energyPerMass() float64 {
	hMix := 0.0
	if c.RhoM > 0 {
		hMix = (c.RhoG*c.AlphaG*c.HG + c.RhoL*c.AlphaL*c.HL) / c.RhoM
	}
	return hMix + 0.5*c.UM*c.UM
}

// FromConservative inverts the conservative vector back to primitives
// given a drift-flux holdup/velocity split (alphaG, uG, uL) supplied by the
// driftflux closure.
func (c *Cell) FromConservative(alphaG, uG, uL float64) {
	alphaG, alphaL := renormalize(alphaG, 1-alphaG)
	rhoG := c.U.MassG / utl.Max(alphaG, HoldupEps)
	rhoL := c.U.MassL / utl.Max(alphaL, HoldupEps)
	c.AlphaG, c.AlphaL = alphaG, alphaL
	c.RhoG, c.RhoL = posOrTiny(rhoG), posOrTiny(rhoL)
	c.UG, c.UL = clampVel(uG), clampVel(uL)
	c.deriveFromPrimitives()
}

// renormalize clamps alphaG/alphaL to [eps,1-eps] and rescales so they sum
// to exactly 1.
func renormalize(alphaG, alphaL float64) (float64, float64) {
	if alphaG < HoldupEps {
		alphaG = HoldupEps
	}
	if alphaG > 1-HoldupEps {
		alphaG = 1 - HoldupEps
	}
	alphaL = 1 - alphaG
	if alphaL < HoldupEps {
		alphaL = HoldupEps
		alphaG = 1 - HoldupEps
	}
	return alphaG, alphaL
}

func clampVel(u float64) float64 { return utl.Min(utl.Max(u, -MaxVelocity), MaxVelocity) }

func posOrTiny(x float64) float64 {
	if x <= 0 {
		return 1e-6
	}
	return x
}

// ClampSoundSpeed clamps a sound speed into [10,1000] m/s for use in CFL.
func ClampSoundSpeed(c float64) float64 { return utl.Min(utl.Max(c, MinSoundSpd), MaxSoundSpd) }

// Copy returns an independent deep copy of the cell, used by the triple
// buffer (prev/working/trial) during a step.
func (c *Cell) Copy() *Cell {
	cp := *c
	return &cp
}

// Buffer holds the previous/working/trial cell-array triple used across a
// step, mirroring fem/e_pp.go's States/StatesBkp/StatesAux.
type Buffer struct {
	Prev    []*Cell // snapshot at start-of-step (read-only during the step)
	Working []*Cell // cells being updated this step
	Trial   []*Cell // scratch copies for sub-stage (RK) evaluation
}

// NewBuffer allocates a Buffer for n cells by deep-copying the given cells
// into all three slots.
func NewBuffer(cells []*Cell) *Buffer {
	b := &Buffer{
		Prev:    make([]*Cell, len(cells)),
		Working: make([]*Cell, len(cells)),
		Trial:   make([]*Cell, len(cells)),
	}
	for i, c := range cells {
		b.Prev[i] = c.Copy()
		b.Working[i] = c.Copy()
		b.Trial[i] = c.Copy()
	}
	return b
}

// Snapshot refreshes Prev from Working, to be called at the start of a
// step before any face-flux evaluation.
func (b *Buffer) Snapshot() {
	for i, c := range b.Working {
		b.Prev[i] = c.Copy()
	}
}
