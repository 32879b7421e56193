// Copyright 2024 The Pipeflow Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package sim implements the transient pipe-flow driver state machine:
// mesh/initial-condition setup, the per-step ordering of flux/source/
// inversion/regime/accumulation/slug updates, and the error-recovery
// policy that separates locally-recoverable warnings from fatal failures.
// Grounded on fem.FEM's top-level driver struct (Sim/Summary/Domains/
// Solver composition) and fem/e_pp.go's States/StatesBkp/StatesAux
// triple-buffer idiom, here reused through cellstate.Buffer.
package sim

import (
	"math"
	"math/rand"

	"github.com/equinor/pipeflow/accumulation"
	"github.com/equinor/pipeflow/cellstate"
	"github.com/equinor/pipeflow/config"
	"github.com/equinor/pipeflow/driftflux"
	"github.com/equinor/pipeflow/flux"
	"github.com/equinor/pipeflow/integrator"
	"github.com/equinor/pipeflow/regime"
	"github.com/equinor/pipeflow/simerrors"
	"github.com/equinor/pipeflow/slug"
	"github.com/equinor/pipeflow/stream"
	"github.com/equinor/pipeflow/thermo"

	"github.com/cpmech/gosl/utl"
)

// State is the driver's life-cycle state.
type State int

const (
	IDLE State = iota
	INITIALISED
	RUNNING
	PAUSED
	FINISHED
)

func (s State) String() string {
	switch s {
	case IDLE:
		return "IDLE"
	case INITIALISED:
		return "INITIALISED"
	case RUNNING:
		return "RUNNING"
	case PAUSED:
		return "PAUSED"
	case FINISHED:
		return "FINISHED"
	default:
		return "Unknown"
	}
}

// maxConsecutiveInstability escalates NumericalInstability to fatal after
// this many consecutive bad steps.
const maxConsecutiveInstability = 10

const gGrav = 9.81

// HistorySample is one end-of-step snapshot of the pressure/holdup profile,
// captured every few steps rather than at every step to bound memory use.
type HistorySample struct {
	TimeS      float64
	PressurePa []float64
	HoldupL    []float64
}

// Driver runs a transient 1-D two-fluid pipe-flow simulation: it owns the
// cell array, the slug tracker and accumulation zones, the thermodynamic
// adapter, and the inlet/outlet stream endpoints, and advances them all
// together one CFL-limited step at a time.
type Driver struct {
	state State
	cfg   config.Config

	cells []*cellstate.Cell
	buf   *cellstate.Buffer
	mdl   *driftflux.Model

	inlet  stream.Inlet
	outlet stream.Outlet
	adapt  thermo.Adapter

	zones   []*accumulation.Zone
	tracker *slug.Tracker

	counters *simerrors.Counters
	fatal    error

	t                   float64
	lastDt              float64
	stepCount           int
	consecutiveBadSteps int

	History []HistorySample
}

// NewDriver wires a Driver from configuration and its external
// collaborators (stream endpoints, thermo adapter), grounded on
// fem.NewFEM's constructor pattern.
func NewDriver(cfg config.Config, inlet stream.Inlet, outlet stream.Outlet, adapt thermo.Adapter, rng *rand.Rand) *Driver {
	d := &Driver{
		cfg: cfg, inlet: inlet, outlet: outlet, adapt: adapt,
		counters: simerrors.NewCounters(), mdl: driftflux.NewModel(),
		state: IDLE,
	}
	d.tracker = slug.NewTracker(rng,
		cfg.Slug.LMinDiameters*cfg.Pipe.DiameterM, cfg.Slug.LMaxDiameters*cfg.Pipe.DiameterM,
		cfg.Slug.MergeDistanceM, cfg.Slug.EnableWake, cfg.Slug.EnableStochastic)
	return d
}

// State returns the driver's current life-cycle state.
func (d *Driver) State() State { return d.state }

// InitializePipe builds the mesh, assigns elevation/inclination, identifies
// low points, seeds the initial pressure/temperature profile, and runs one
// flash to seed phase properties. Must be called once before RunTransient.
func (d *Driver) InitializePipe() error {
	if err := d.cfg.Validate(); err != nil {
		return err
	}
	n := d.cfg.Pipe.NCells
	dx := d.cfg.Pipe.LengthM / float64(n)

	elevation := d.cfg.Pipe.ElevationProfile
	inclination := d.cfg.Pipe.InclinationProfile()
	if len(elevation) == 0 && len(inclination) == 0 {
		elevation = make([]float64, n)
	}

	cells := make([]*cellstate.Cell, n)
	pIn := d.inlet.PressureBar() * 1e5
	pOutEstimate := pIn - estimateHydrostaticFrictionDrop(d.cfg)
	tIn := d.inlet.TemperatureK()

	prevElev := 0.0
	for i := 0; i < n; i++ {
		x := (float64(i) + 0.5) * dx
		elev := 0.0
		theta := 0.0
		switch {
		case len(elevation) == n:
			elev = elevation[i]
			if i > 0 {
				theta = math.Atan2(elev-prevElev, dx)
			}
		case len(inclination) == n:
			theta = inclination[i]
			if i > 0 {
				elev = prevElev + dx*math.Sin(theta)
			}
		}
		prevElev = elev
		c := cellstate.New(x, dx, d.cfg.Pipe.DiameterM, theta, elev, d.cfg.Pipe.RoughnessM)
		frac := (float64(i) + 0.5) / float64(n)
		c.Pressure = pIn + frac*(pOutEstimate-pIn)
		c.Temperature = tIn
		cells[i] = c
	}
	d.cells = cells

	if err := d.refreshThermo(); err != nil {
		d.counters.Record(err.(*simerrors.Error))
	}

	beta := d.inlet.GasFraction()
	usl0 := d.inlet.MassFlowKgPerS() * (1 - beta) / (d.cells[0].RhoL * d.cells[0].Area)
	usg0 := d.inlet.MassFlowKgPerS() * beta / (d.cells[0].RhoG * d.cells[0].Area)
	for _, c := range d.cells {
		reg := regime.Detect(regime.Inputs{
			USL: usl0, USG: usg0, D: c.Diameter, Theta: c.Inclination,
			RhoL: c.RhoL, RhoG: c.RhoG, MuL: c.MuL, Sigma: c.Sigma,
		})
		res := d.mdl.Solve(driftflux.Inputs{
			Regime: reg, D: c.Diameter, Theta: c.Inclination, USG: usg0, USL: usl0,
			RhoG: c.RhoG, RhoL: c.RhoL, MuG: c.MuG, MuL: c.MuL, Sigma: c.Sigma, Roughness: c.Roughness,
		})
		c.SetPrimitives(res.AlphaG, res.AlphaL, res.UG, res.UL, c.RhoG, c.RhoL, c.Pressure, c.Temperature)
		c.Regime = reg
	}

	d.buf = cellstate.NewBuffer(d.cells)
	d.cells = d.buf.Working // alias: mutating d.cells in place mutates the buffer's working slot

	elevs := make([]float64, n)
	diams := make([]float64, n)
	for i, c := range d.cells {
		elevs[i] = c.Elevation
		diams[i] = c.Diameter
	}
	overflowM3 := 0.1 * d.cells[0].Area * dx
	d.zones = accumulation.IdentifyLowPoints(elevs, diams, overflowM3)

	d.t = 0
	d.stepCount = 0
	d.state = INITIALISED
	return nil
}

// estimateHydrostaticFrictionDrop gives a rough initial pressure-profile
// guess: a crude hydrostatic estimate over the net elevation change, just
// to seed a reasonable starting gradient before the first flux pass.
func estimateHydrostaticFrictionDrop(cfg config.Config) float64 {
	const rhoGuess = 800.0
	elev := cfg.Pipe.ElevationProfile
	if len(elev) < 2 {
		return 0
	}
	dz := elev[len(elev)-1] - elev[0]
	return rhoGuess * gGrav * dz * 0.1
}

// RunTransient sub-steps the driver until dtExternal of simulated time has
// been consumed, or a fatal error occurs.
func (d *Driver) RunTransient(dtExternal float64) error {
	if d.state != INITIALISED && d.state != PAUSED {
		return simerrors.New(simerrors.InvalidConfiguration, "RunTransient called in state %s", d.state)
	}
	d.state = RUNNING
	consumed := 0.0
	for consumed < dtExternal {
		if err := d.step(); err != nil {
			d.state = FINISHED
			d.fatal = err
			return err
		}
		consumed += d.lastDt
		if d.t >= d.cfg.Time.MaxSimTimeS {
			d.state = FINISHED
			return nil
		}
	}
	d.state = PAUSED
	return nil
}

// step performs exactly one internal CFL-limited step: (a) fluxes are
// assembled from a start-of-step snapshot so every cell sees a consistent
// state, (b) slug advance happens after the Eulerian conservative update,
// (c) accumulation and regime are refreshed before slug generation so new
// slugs seed from the current flow state, (d) history is sampled at the
// end of the step.
func (d *Driver) step() error {
	d.buf.Snapshot()
	prev := d.buf.Prev

	waves := make([]integrator.WaveSpeed, len(prev))
	dx := make([]float64, len(prev))
	for i, c := range prev {
		waves[i] = integrator.WaveSpeed{UG: c.UG, UL: c.UL, CG: c.SoundSpeedG, CL: c.SoundSpeedL}
		dx[i] = c.Length
	}
	dt, ok := integrator.StableDt(dx, waves, d.cfg.Time.CFL, d.cfg.Time.DtMin, d.cfg.Time.DtMax)
	if !ok {
		d.counters.Record(simerrors.New(simerrors.NumericalInstability, "wave-speed NaN in >=25%% of cells"))
		dt = d.cfg.Time.DtMin
	}
	d.lastDt = dt

	faces := d.assembleFaces(prev)

	badCount := 0
	for i, c := range d.cells {
		fL, fR := faces[i], faces[i+1]
		sg := -prev[i].RhoM * gGrav * math.Sin(c.Inclination)
		sf := prev[i].DPDxFriction

		dMassG := -(fR.GasMass - fL.GasMass) / c.Length
		dMassL := -(fR.LiqMass - fL.LiqMass) / c.Length
		dMom := -(fR.Momentum-fL.Momentum)/c.Length + sg + sf
		dEnergy := -(fR.Energy - fL.Energy) / c.Length

		u0 := prev[i].U.MassG + dt*dMassG
		u1 := prev[i].U.MassL + dt*dMassL
		u2 := prev[i].U.Momentum + dt*dMom
		u3 := prev[i].U.Energy + dt*dEnergy

		if anyNaN(u0, u1, u2, u3) {
			badCount++
			u0, u1, u2, u3 = prev[i].U.MassG, prev[i].U.MassL, prev[i].U.Momentum, prev[i].U.Energy
		}
		c.U = cellstate.Conservative{MassG: u0, MassL: u1, Momentum: u2, Energy: u3}

		d.invertToPrimitives(c, prev[i])
	}
	d.applyBoundaryPressure()

	if float64(badCount)/float64(len(d.cells)) >= 0.25 {
		d.consecutiveBadSteps++
		d.counters.Record(simerrors.New(simerrors.NumericalInstability, "%d/%d cells reverted to previous state", badCount, len(d.cells)))
	} else {
		d.consecutiveBadSteps = 0
	}
	if d.consecutiveBadSteps >= maxConsecutiveInstability {
		return simerrors.New(simerrors.NumericalInstability, "persisted for %d consecutive steps", d.consecutiveBadSteps)
	}

	d.t += dt
	d.stepCount++

	d.refreshRegimes()
	d.updateAccumulationAndSlugs(dt)

	if d.cfg.Thermo.EnableUpdates && d.stepCount%maxInt(d.cfg.Thermo.UpdateIntervalSteps, 1) == 0 {
		if err := d.refreshThermo(); err != nil {
			d.counters.Record(err.(*simerrors.Error))
		}
	}

	const historyEveryMSteps = 10
	if d.stepCount%historyEveryMSteps == 0 {
		d.sampleHistory()
	}

	return nil
}

func anyNaN(xs ...float64) bool {
	for _, x := range xs {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return true
		}
	}
	return false
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// invertToPrimitives recovers primitives from the updated conservative
// state using the drift-flux closure, freezing the previous step's phase
// densities to break the circularity between phase velocity and phase
// density, then applies the acoustic pressure-relaxation relation: the
// pressure change tracks the mixture density change through an effective
// sound speed, each bounded to a fraction of its previous value per step
// to damp acoustic transients the explicit scheme cannot otherwise resolve.
func (d *Driver) invertToPrimitives(c, prevC *cellstate.Cell) {
	rhoG, rhoL := prevC.RhoG, prevC.RhoL
	usg := c.U.MassG / rhoG
	usl := c.U.MassL / rhoL
	res := d.mdl.Solve(driftflux.Inputs{
		Regime: prevC.Regime, D: c.Diameter, Theta: c.Inclination,
		USG: usg, USL: usl, RhoG: rhoG, RhoL: rhoL,
		MuG: prevC.MuG, MuL: prevC.MuL, Sigma: prevC.Sigma, Roughness: c.Roughness,
	})
	c.SetPrimitives(res.AlphaG, res.AlphaL, res.UG, res.UL, rhoG, rhoL, c.Pressure, c.Temperature)

	rhoMNew := res.AlphaG*rhoG + res.AlphaL*rhoL
	rhoMOld := prevC.AlphaG*prevC.RhoG + prevC.AlphaL*prevC.RhoL
	dRho := rhoMNew - rhoMOld
	maxDRho := 0.05 * rhoMOld
	if maxDRho > 0 && math.Abs(dRho) > maxDRho {
		dRho = math.Copysign(maxDRho, dRho)
	}
	cMix := 0.5 * (prevC.SoundSpeedG + prevC.SoundSpeedL)
	dP := cMix * cMix * dRho
	maxDP := 0.05 * prevC.Pressure
	if math.Abs(dP) > maxDP {
		dP = math.Copysign(maxDP, dP)
	}
	c.Pressure = clampPressure(prevC.Pressure + dP)
	c.DPDxFriction = res.DPDxFriction
	c.DPDxGravity = res.DPDxGravity

	qVol := usg*c.Area + usl*c.Area
	c.Temperature = driftflux.StepTemperature(driftflux.EnergyInputs{
		T: prevC.Temperature, Tamb: d.cfg.Heat.TAmbientK,
		D: c.Diameter, Dx: c.Length, Dt: d.lastDt,
		UOverall: d.cfg.Heat.UOverall, HeatEnabled: d.cfg.Heat.Enabled,
		MuJT: prevC.MuJT, AlphaG: res.AlphaG,
		DPDxTotal: res.DPDxTotal, DPDxFriction: res.DPDxFriction, QVol: qVol,
		Theta: c.Inclination, Cp: prevC.Cp,
		MassFlowKgPerS: rhoG*usg*c.Area + rhoL*usl*c.Area,
	})
}

// applyBoundaryPressure overrides the first/last cell pressure with the BC
// value (constant-pressure ends) or a gravity-corrected extrapolation from
// the neighbour (closed ends).
func (d *Driver) applyBoundaryPressure() {
	n := len(d.cells)
	first, last := d.cells[0], d.cells[n-1]
	switch d.cfg.Boundary.Inlet {
	case config.ConstantPressure, config.TransientPressure:
		first.Pressure = clampPressure(d.cfg.Boundary.InletPressurePa)
	case config.Closed:
		first.Pressure = clampPressure(d.cells[1].Pressure - d.cells[1].DPDxGravity*d.cells[1].Length)
	}
	switch d.cfg.Boundary.Outlet {
	case config.ConstantPressure, config.TransientPressure:
		bc := d.cfg.Boundary.OutletPressurePa
		if bc < 1e5 {
			d.counters.Record(simerrors.New(simerrors.BoundaryUnsatisfiable, "outlet pressure %v below 1e5 Pa, clamped", bc))
			bc = 1e5
		}
		last.Pressure = clampPressure(bc)
	case config.Closed:
		last.Pressure = clampPressure(d.cells[n-2].Pressure + d.cells[n-2].DPDxGravity*d.cells[n-2].Length)
	}
}

func clampPressure(p float64) float64 {
	const minP, maxP = 1e5, 5e7
	return utl.Min(utl.Max(p, minP), maxP)
}

// assembleFaces builds AUSM+ fluxes for all N+1 faces (N-1 interior plus
// the two boundary faces), dispatched by boundary kind.
func (d *Driver) assembleFaces(cells []*cellstate.Cell) []flux.Vector {
	n := len(cells)
	faces := make([]flux.Vector, n+1)
	for i := 1; i < n; i++ {
		faces[i] = flux.Interior(sideOf(cells[i-1]), sideOf(cells[i]))
	}
	faces[0] = d.inletFace(cells[0])
	faces[n] = d.outletFace(cells[n-1])
	return faces
}

func sideOf(c *cellstate.Cell) flux.Side {
	return flux.Side{
		Gas:      flux.PhaseFace{RhoAlpha: c.RhoG * c.AlphaG, U: c.UG, H: c.HG},
		Liq:      flux.PhaseFace{RhoAlpha: c.RhoL * c.AlphaL, U: c.UL, H: c.HL},
		Pressure: c.Pressure, SoundSpd: 0.5 * (c.SoundSpeedG + c.SoundSpeedL), UMix: c.UM,
	}
}

func (d *Driver) inletFace(cell *cellstate.Cell) flux.Vector {
	switch d.cfg.Boundary.Inlet {
	case config.Closed:
		return flux.ClosedBoundary(cell.Pressure)
	case config.ConstantPressure, config.TransientPressure:
		return flux.ConstantPressureBoundary(sideOf(cell), d.cfg.Boundary.InletPressurePa)
	default: // constant_flow, transient_flow
		beta := d.inlet.GasFraction()
		mdot := d.inlet.MassFlowKgPerS()
		if d.cfg.Boundary.InletMassFlow != 0 {
			mdot = d.cfg.Boundary.InletMassFlow
		}
		return flux.ConstantFlowInlet(flux.InletStream{
			MassFlowKgS: mdot, AlphaG: beta, AlphaL: 1 - beta,
			UG: cell.UG, UL: cell.UL, HG: cell.HG, HL: cell.HL,
		}, cell.Area, cell.Pressure)
	}
}

func (d *Driver) outletFace(cell *cellstate.Cell) flux.Vector {
	switch d.cfg.Boundary.Outlet {
	case config.Closed:
		return flux.ClosedBoundary(cell.Pressure)
	case config.ConstantFlow, config.TransientFlow:
		return flux.ConstantFlowOutlet(d.cfg.Boundary.OutletMassFlow, cell.Area,
			cell.AlphaG, cell.AlphaL, cell.UG, cell.UL, cell.HG, cell.HL, cell.Pressure)
	default: // constant_pressure, transient_pressure
		bc := d.cfg.Boundary.OutletPressurePa
		if bc < 1e5 {
			bc = 1e5
		}
		return flux.ConstantPressureBoundary(sideOf(cell), bc)
	}
}

// refreshRegimes re-detects the flow regime at every cell from current
// primitives.
func (d *Driver) refreshRegimes() {
	for _, c := range d.cells {
		c.Regime = regime.Detect(regime.Inputs{
			USL: c.USL, USG: c.USG, D: c.Diameter, Theta: c.Inclination,
			RhoL: c.RhoL, RhoG: c.RhoG, MuL: c.MuL, Sigma: c.Sigma,
		})
	}
}

// updateAccumulationAndSlugs updates each low-point accumulation zone,
// seeds a terrain slug if a zone releases, seeds inlet-generated slugs,
// and advances the slug tracker. Accumulation and regime must be refreshed
// before slug generation so new slugs seed from the current flow state,
// and slug advance must run after the Eulerian conservative update (already
// satisfied: that update has already run by the time this is called).
func (d *Driver) updateAccumulationAndSlugs(dt float64) {
	for _, z := range d.zones {
		samples := make([]accumulation.CellSample, len(z.CellIndices))
		for j, idx := range z.CellIndices {
			c := d.cells[idx]
			samples[j] = accumulation.CellSample{
				Position: c.Position, AlphaL: c.AlphaL, AlphaLEquilib: 0.3,
				UL: c.UL, USG: c.USG, AreaM2: c.Area, DxM: c.Length, UM: c.UM,
			}
		}
		downhill := d.cells[z.CellIndices[len(z.CellIndices)-1]]
		slugHLS := clampFloat(1.0/(1.0+math.Pow(downhill.UM/8.66, 1.39)), 0.5, 0.98)
		if sc := z.Update(d.t, dt, samples, downhill.USG, downhill.USL, slugHLS); sc != nil {
			d.tracker.SeedTerrain(*sc)
		}
		for _, idx := range z.CellIndices {
			d.cells[idx].AccumulatedLiquidVol = z.AccumulatedVolumeM3
		}
	}

	if d.cfg.Slug.EnableInlet && len(d.cells) > 0 {
		first := d.cells[0]
		d.tracker.SeedInlet(dt, first.AlphaL, first.USL, first.USG, first.Diameter, d.cfg.Slug.InitialDiameters)
	}

	if mdotIn := d.inlet.MassFlowKgPerS(); mdotIn > 0 {
		for _, c := range d.cells {
			if math.Abs(c.UM) < 0.1 {
				c.UM = mdotIn / (c.RhoM * c.Area)
			}
		}
	}

	d.tracker.Advance(dt, d.cells, d.cfg.Pipe.LengthM, d.mdl, d.cells[0].RhoG)
}

func clampFloat(x, lo, hi float64) float64 {
	return utl.Min(utl.Max(x, lo), hi)
}

// refreshThermo calls the ThermoAdapter to refresh phase properties at
// every cell, keeping previous properties on failure.
func (d *Driver) refreshThermo() error {
	var lastWarn error
	for _, c := range d.cells {
		props, err := d.adapt.FlashPT(c.Pressure, c.Temperature)
		if err != nil || !props.Converged {
			lastWarn = simerrors.New(simerrors.ThermoFailureConvergence, "flash failed at x=%.2f: %v", c.Position, err)
			continue
		}
		c.RhoG, c.RhoL = props.RhoG, props.RhoL
		c.MuG, c.MuL = props.MuG, props.MuL
		c.HG, c.HL = props.HG, props.HL
		c.SoundSpeedG = cellstate.ClampSoundSpeed(props.CG)
		c.SoundSpeedL = cellstate.ClampSoundSpeed(props.CL)
		c.Sigma = props.Sigma
		c.MuJT = props.MuJT
		c.Cp = props.CpG*c.AlphaG + props.CpL*c.AlphaL
	}
	return lastWarn
}

func (d *Driver) sampleHistory() {
	p := make([]float64, len(d.cells))
	h := make([]float64, len(d.cells))
	for i, c := range d.cells {
		p[i] = c.Pressure
		h[i] = c.AlphaL
	}
	d.History = append(d.History, HistorySample{TimeS: d.t, PressurePa: p, HoldupL: h})
}

// WriteOutlet publishes the current outlet-cell state to the Outlet
// stream, using the slug body holdup in place of the cell holdup when the
// outlet cell is currently inside a slug body.
func (d *Driver) WriteOutlet() {
	last := d.cells[len(d.cells)-1]
	holdupL := last.AlphaL
	if last.InSlugBody {
		holdupL = last.SlugHoldup
	}
	effRho := holdupL*last.RhoL + (1-holdupL)*last.RhoG
	mdot := effRho * last.UM * last.Area
	d.outlet.SetPressurePa(last.Pressure)
	d.outlet.SetTemperatureK(last.Temperature)
	d.outlet.SetMassFlowKgPerS(mdot)
}

// Counters exposes the driver's accumulated warning counters.
func (d *Driver) Counters() *simerrors.Counters { return d.counters }

// Cells exposes the current cell array for inspection/testing.
func (d *Driver) Cells() []*cellstate.Cell { return d.cells }

// TimeS returns the simulated time reached so far.
func (d *Driver) TimeS() float64 { return d.t }

// FatalError returns the fatal error that ended the run, if any.
func (d *Driver) FatalError() error { return d.fatal }

// SlugTracker exposes the active slug-tracking state.
func (d *Driver) SlugTracker() *slug.Tracker { return d.tracker }

// SetBoundaryOutlet changes the outlet boundary-condition kind mid-run
// (e.g. simulating a valve closure). Only the kind is swapped;
// applyBoundaryPressure/outletFace already dispatch on d.cfg.Boundary.Outlet
// every step, so no other state needs to change.
func (d *Driver) SetBoundaryOutlet(kind config.BoundaryKind) {
	d.cfg.Boundary.Outlet = kind
}
