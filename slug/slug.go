// Copyright 2024 The Pipeflow Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package slug implements a Lagrangian slug-bubble unit tracker overlaid on
// the Eulerian cell array: slug initiation (inlet, terrain-release, and
// Kelvin-Helmholtz stochastic onset), wake interaction between consecutive
// units, per-slug front/tail advance, merging of overlapping units, and
// exit/dissipation with Gaussian mass redistribution back onto the cells.
// Grounded on the driver-style stateful update loop of mdl/porous/driver.go
// (iterate over a live collection each call, mutating in place) and on
// ele's per-unit id bookkeeping convention (auxiliary.go's Cell.Id/ele.Info
// metadata) adapted from finite elements to slug units.
package slug

import (
	"math"
	"math/rand"
	"sort"

	"github.com/cpmech/gosl/utl"

	"github.com/equinor/pipeflow/accumulation"
	"github.com/equinor/pipeflow/cellstate"
	"github.com/equinor/pipeflow/driftflux"
	"github.com/equinor/pipeflow/regime"
)

const (
	wakeLengthDiameters = 30.0
	mergeGapDefaultM    = 1.0
	dissipateAgeS       = 10.0
)

// Unit is one active Lagrangian slug/bubble pair.
type Unit struct {
	ID            int
	Front, Tail   float64 // positions [m]
	LengthM       float64
	LEqM          float64 // equilibrium length this unit is growing/decaying toward
	VFront, VTail float64
	HoldupBody    float64 // H_LS
	HoldupFilm    float64
	WakeCoef      float64
	AgeS          float64
	MassKg        float64
	VolumeM3      float64
}

// ExitRecord captures an outlet-exit event: the exiting unit's length and
// volume and the time elapsed since the previous exit, for outlet
// slug-frequency statistics.
type ExitRecord struct {
	LengthM, VolumeM3, InterArrivalS float64
}

// Tracker owns the active-slug list, the outlet exit-statistics vector, and
// the running mass-borrowed/mass-returned counters used to check that
// liquid absorbed into slug bodies is eventually returned to the cell
// array.
type Tracker struct {
	Active []*Unit
	rng    *rand.Rand
	nextID int

	TotalBorrowedKg float64
	TotalReturnedKg float64

	Exits          []ExitRecord
	sinceLastSeedS float64
	sinceLastExitS float64

	LMinM, LMaxM     float64
	MergeGapM        float64
	EnableWake       bool
	EnableStochastic bool
}

// NewTracker returns a Tracker seeded with rng for stochastic initiation and
// the randomised inlet seeding period. rng is caller-owned so a batch run can fix
// the seed for reproducible slug statistics across repeated simulations.
func NewTracker(rng *rand.Rand, lMinM, lMaxM, mergeGapM float64, enableWake, enableStochastic bool) *Tracker {
	return &Tracker{
		rng: rng, LMinM: lMinM, LMaxM: lMaxM, MergeGapM: mergeGapM,
		EnableWake: enableWake, EnableStochastic: enableStochastic,
	}
}

// CellView is the read/write subset of cellstate.Cell the tracker needs.
type CellView struct {
	Position, Length, Diameter, Area, Inclination float64
	AlphaL, UM, RhoL                              float64
}

func viewOf(c *cellstate.Cell) CellView {
	return CellView{
		Position: c.Position, Length: c.Length, Diameter: c.Diameter, Area: c.Area,
		Inclination: c.Inclination, AlphaL: c.AlphaL, UM: c.UM, RhoL: c.RhoL,
	}
}

// SeedInlet appends a hydrodynamic slug at the pipe inlet using the Zabaras
// frequency correlation f=0.0226*lambdaL^1.2*Fr^2/D, with the next arrival
// drawn as period*U(0.8,1.2) to avoid perfectly periodic seeding.
func (t *Tracker) SeedInlet(dt, lambdaL, usl, usg, D, initialDiameters float64) {
	um := usl + usg
	fr := 0.0
	if D > 0 {
		fr = um / math.Sqrt(9.81*D)
	}
	f := 0.0226 * math.Pow(lambdaL, 1.2) * fr * fr / D
	if f <= 0 {
		return
	}
	period := 1.0 / f
	period *= 0.8 + 0.4*t.rng.Float64() // U(0.8,1.2)
	t.sinceLastSeedS += dt
	if t.sinceLastSeedS < period {
		return
	}
	t.sinceLastSeedS = 0
	L0 := initialDiameters * D
	t.spawn(0, L0, 0.9)
}

// SeedTerrain appends a slug formed by an accumulation zone releasing its
// pooled liquid as a terrain-induced (externally emitted) slug unit.
func (t *Tracker) SeedTerrain(sc accumulation.SlugCharacteristics) {
	if sc.LengthM <= 0 {
		sc.LengthM = 1.0
	}
	t.spawn(sc.TailPosition, sc.LengthM, sc.HoldupHLS)
}

// SeedStochastic spawns a slug from a Kelvin-Helmholtz excess-velocity
// onset probability p=0.01*(dU-dUcrit)/dUcrit*dt, modelling the random
// timing of wave growth past the stability threshold.
func (t *Tracker) SeedStochastic(dt, dU, dUCrit, atPosition, D float64) {
	if !t.EnableStochastic || dUCrit <= 0 || dU <= dUCrit {
		return
	}
	p := 0.01 * (dU - dUCrit) / dUCrit * dt
	if t.rng.Float64() < p {
		t.spawn(atPosition, 20*D, 0.9)
	}
}

func (t *Tracker) spawn(tail, length, holdup float64) {
	t.nextID++
	t.Active = append(t.Active, &Unit{
		ID: t.nextID, Tail: tail, Front: tail + length,
		LengthM: length, LEqM: length, HoldupBody: holdup, HoldupFilm: holdup,
		WakeCoef: 1.0,
	})
}

// Advance runs one full per-step update over the active list: sort by front
// position, wake update, per-slug advance, merge overlapping units, then
// remove units that have exited the outlet or dissipated. cells must be
// ordered by increasing position.
func (t *Tracker) Advance(dt float64, cells []*cellstate.Cell, pipeLength float64, mdl *driftflux.Model, rhoG float64) {
	if len(t.Active) == 0 {
		return
	}
	views := make([]CellView, len(cells))
	for i, c := range cells {
		views[i] = viewOf(c)
	}

	sort.Slice(t.Active, func(i, j int) bool { return t.Active[i].Front > t.Active[j].Front })

	if t.EnableWake {
		t.updateWake(views)
	}
	for _, u := range t.Active {
		t.advanceOne(u, dt, views, mdl, rhoG)
	}
	t.mergeOverlapping()
	t.removeExited(pipeLength, dt)
	t.removeDissipated(cells)

	for i, c := range cells {
		c.InSlugBody = false
		c.InSlugBubble = false
		c.SlugHoldup = 0
	}
	for _, u := range t.Active {
		for _, c := range cells {
			if c.Position >= u.Tail && c.Position <= u.Front {
				c.InSlugBody = true
				c.SlugHoldup = u.HoldupBody
			}
		}
	}
}

// updateWake applies distance-to-preceding wake coefficients: linear
// interpolation from 1.0 (at wake_length, undisturbed) to 1.3 (touching,
// fully shielded in the preceding slug's wake).
func (t *Tracker) updateWake(views []CellView) {
	wakeLenM := wakeLengthDiameters * representativeDiameter(views)
	for i := 1; i < len(t.Active); i++ {
		preceding := t.Active[i-1] // ahead, since sorted descending by front
		following := t.Active[i]
		dist := preceding.Tail - following.Front
		if dist < 0 {
			dist = 0
		}
		if dist >= wakeLenM {
			following.WakeCoef = 1.0
			continue
		}
		frac := 1 - dist/wakeLenM
		following.WakeCoef = 1.0 + 0.3*frac
	}
	if len(t.Active) > 0 {
		t.Active[0].WakeCoef = 1.0
	}
}

func representativeDiameter(views []CellView) float64 {
	if len(views) == 0 {
		return 0.2
	}
	return views[len(views)/2].Diameter
}

// advanceOne advances a single unit's front/tail positions, updates its
// body/film holdups and length toward equilibrium, and tracks the
// liquid-mass pickup (film being swept into the body) and shedding
// (body depositing back into the film) this step.
func (t *Tracker) advanceOne(u *Unit, dt float64, views []CellView, mdl *driftflux.Model, rhoG float64) {
	cv, ok := cellAt(views, u.Front)
	if !ok {
		return
	}

	usl := cv.AlphaL * cv.UM
	usg := (1 - cv.AlphaL) * cv.UM
	res := mdl.Solve(driftflux.Inputs{
		Regime: regime.Slug, D: cv.Diameter, Theta: cv.Inclination,
		USG: usg, USL: usl, RhoG: rhoG, RhoL: cv.RhoL,
		MuG: 1.2e-5, MuL: 1e-3, Sigma: 0.03, Roughness: 1e-5,
	})
	vFront := res.C0*cv.UM + res.Vd
	vFront *= u.WakeCoef

	holdupLS := 1.0 / (1.0 + math.Pow(cv.UM/8.66, 1.39))
	holdupLS = utl.Min(utl.Max(holdupLS, 0.5), 0.98)
	u.HoldupBody = holdupLS
	u.HoldupFilm = utl.Min(utl.Max(cv.AlphaL, 0.05), 0.95)

	k := growthFactor(u.LengthM, u.LEqM)
	vTail := vFront * k

	filmVel := cv.UM * (1 - u.HoldupFilm) / utl.Max(1-holdupLS, 1e-6)
	slugVel := u.VFront

	pickupRate := cv.RhoL * cv.Area * u.HoldupFilm * (vFront - filmVel)
	sheddingRate := cv.RhoL * cv.Area * (holdupLS - u.HoldupFilm) * (vTail - slugVel)

	u.VFront, u.VTail = vFront, vTail
	u.Front += vFront * dt
	u.Tail += vTail * dt
	u.LengthM = u.Front - u.Tail
	u.LengthM = utl.Min(utl.Max(u.LengthM, t.LMinM), t.LMaxM)
	u.Tail = u.Front - u.LengthM

	netMass := (pickupRate - sheddingRate) * dt
	massBefore := u.MassKg
	u.MassKg += netMass
	if u.MassKg < 0 {
		u.MassKg = 0
	}
	u.VolumeM3 = u.LengthM * cv.Area * u.HoldupBody
	u.AgeS += dt

	if dm := u.MassKg - massBefore; dm > 0 {
		t.TotalBorrowedKg += dm
	} else {
		t.TotalReturnedKg -= dm
	}
}

// growthFactor returns the tail-velocity multiplier k driving L_s toward
// L_eq: grow (k<1, tail slower) if L_s<0.9*L_eq, decay (k>1) if L_s>1.2*L_eq.
func growthFactor(lengthM, lEqM float64) float64 {
	if lEqM <= 0 {
		return 1
	}
	ratio := lengthM / lEqM
	switch {
	case ratio < 0.9:
		return 0.95
	case ratio > 1.2:
		return 1.05
	default:
		return 1.0
	}
}

// mergeOverlapping absorbs a preceding slug into the following one when the
// gap between them closes to within MergeGapM. Active is sorted descending
// by front, so index i-1 is ahead of index i.
func (t *Tracker) mergeOverlapping() {
	merged := make([]*Unit, 0, len(t.Active))
	for i := 0; i < len(t.Active); i++ {
		if i == 0 {
			merged = append(merged, t.Active[i])
			continue
		}
		preceding := merged[len(merged)-1]
		following := t.Active[i]
		gap := preceding.Tail - following.Front
		if gap <= t.MergeGapM {
			totalLen := preceding.Front - following.Tail
			wAvg := (following.HoldupBody*following.LengthM + preceding.HoldupBody*preceding.LengthM) / utl.Max(totalLen, 1e-9)
			following.Front = preceding.Front
			following.LengthM = following.Front - following.Tail
			following.HoldupBody = wAvg
			following.VFront = preceding.VFront
			following.MassKg += preceding.MassKg
			following.VolumeM3 += preceding.VolumeM3
			following.LEqM = following.LengthM
			merged[len(merged)-1] = following
			continue
		}
		merged = append(merged, following)
	}
	t.Active = merged
}

// removeExited drops slugs whose tail has passed the outlet, recording an
// ExitRecord for outlet slug-frequency statistics.
func (t *Tracker) removeExited(pipeLength, dt float64) {
	kept := t.Active[:0]
	for _, u := range t.Active {
		if u.Tail > pipeLength {
			t.Exits = append(t.Exits, ExitRecord{
				LengthM: u.LengthM, VolumeM3: u.VolumeM3, InterArrivalS: t.sinceLastExitS,
			})
			t.sinceLastExitS = 0
			t.TotalReturnedKg += u.MassKg
			continue
		}
		kept = append(kept, u)
	}
	t.Active = kept
	t.sinceLastExitS += dt
}

// removeDissipated drops slugs that have shrunk below LMinM and aged beyond
// dissipateAgeS, redistributing their mass to the +-3 nearest cells with
// Gaussian weights.
func (t *Tracker) removeDissipated(cells []*cellstate.Cell) {
	kept := t.Active[:0]
	for _, u := range t.Active {
		if u.LengthM < t.LMinM && u.AgeS > dissipateAgeS {
			t.redistributeMass(u, cells)
			t.TotalReturnedKg += u.MassKg
			continue
		}
		kept = append(kept, u)
	}
	t.Active = kept
}

// redistributeMass spreads a dissipating unit's mass onto the +-3 cells
// around its midpoint using a Gaussian kernel over cell index offset.
func (t *Tracker) redistributeMass(u *Unit, cells []*cellstate.Cell) {
	mid := 0.5 * (u.Front + u.Tail)
	idx := nearestIndex(cells, mid)
	if idx < 0 {
		return
	}
	const sigma = 1.5
	offsets := []int{-3, -2, -1, 0, 1, 2, 3}
	weights := make([]float64, len(offsets))
	var sum float64
	for i, o := range offsets {
		w := math.Exp(-float64(o*o) / (2 * sigma * sigma))
		weights[i] = w
		sum += w
	}
	if sum <= 0 {
		return
	}
	for i, o := range offsets {
		j := idx + o
		if j < 0 || j >= len(cells) {
			continue
		}
		dMass := u.MassKg * weights[i] / sum
		dVol := dMass / utl.Max(cells[j].RhoL, 1e-6)
		cells[j].AccumulatedLiquidVol += dVol
	}
}

func nearestIndex(cells []*cellstate.Cell, position float64) int {
	best := -1
	bestDist := math.Inf(1)
	for i, c := range cells {
		d := math.Abs(c.Position - position)
		if d < bestDist {
			bestDist = d
			best = i
		}
	}
	return best
}

func cellAt(views []CellView, position float64) (CellView, bool) {
	if len(views) == 0 {
		return CellView{}, false
	}
	best := 0
	bestDist := math.Abs(views[0].Position - position)
	for i := 1; i < len(views); i++ {
		d := math.Abs(views[i].Position - position)
		if d < bestDist {
			bestDist = d
			best = i
		}
	}
	return views[best], true
}

// MassConservationResidual returns total_borrowed - total_returned -
// sum(active mass). It should stay near zero: every kilogram pulled from
// the film into a slug body is either still held by an active unit or has
// already been returned via exit or dissipation.
func (t *Tracker) MassConservationResidual() float64 {
	var activeMass float64
	for _, u := range t.Active {
		activeMass += u.MassKg
	}
	return t.TotalBorrowedKg - t.TotalReturnedKg - activeMass
}

