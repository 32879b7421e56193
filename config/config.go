// Copyright 2024 The Pipeflow Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package config implements the JSON-tagged configuration tree for a
// transient pipe-flow run: pipe geometry, time-stepping, boundary
// conditions, heat transfer, thermodynamic and regime-detection policy,
// and slug-tracker thresholds. Follows inp.Data/inp.SolverData's flat
// struct-with-json-tags style, with a few fields derived at load time.
package config

import (
	"encoding/json"
	"os"

	"github.com/cpmech/gosl/chk"
)

// BoundaryKind enumerates the boundary condition kinds a pipe end can be
// driven with: fixed mass flow, fixed pressure, closed (no flow), or a
// time-varying version of the flow/pressure kinds.
type BoundaryKind string

const (
	ConstantFlow      BoundaryKind = "constant_flow"
	ConstantPressure  BoundaryKind = "constant_pressure"
	Closed            BoundaryKind = "closed"
	TransientFlow     BoundaryKind = "transient_flow"
	TransientPressure BoundaryKind = "transient_pressure"
)

// Scheme enumerates the explicit time-integration schemes available for
// advancing the conservative state: forward Euler and second/third/
// fourth-order Runge-Kutta variants.
type Scheme string

const (
	Euler  Scheme = "euler"
	RK2    Scheme = "rk2"
	RK4    Scheme = "rk4"
	SSPRK3 Scheme = "ssp_rk3"
)

// RegimeDetection selects how flow regime and slip between phases are
// determined: a mechanistic Taitel-Dukler/Barnea style regime map, or a
// minimum-slip selector that picks the regime whose drift-flux slip ratio
// is closest to unity.
type RegimeDetection string

const (
	Mechanistic RegimeDetection = "mechanistic"
	MinimumSlip RegimeDetection = "minimum_slip"
)

// Pipe holds the pipe geometry section.
type Pipe struct {
	LengthM          float64   `json:"length"`
	DiameterM        float64   `json:"diameter"`
	RoughnessM       float64   `json:"roughness"`
	NCells           int       `json:"n_cells"`
	ElevationProfile []float64 `json:"elevation_profile,omitempty"`
	InclinationRad   []float64 `json:"inclination_profile,omitempty"`
}

// Time holds the time-stepping section.
type Time struct {
	MaxSimTimeS float64 `json:"max_sim_time"`
	CFL         float64 `json:"cfl"`
	DtMin       float64 `json:"dt_min"`
	DtMax       float64 `json:"dt_max"`
	Scheme      Scheme  `json:"scheme"`
}

// Boundary holds the boundary-condition section.
type Boundary struct {
	Inlet           BoundaryKind `json:"inlet"`
	Outlet          BoundaryKind `json:"outlet"`
	InletPressurePa float64      `json:"inlet_pressure"`
	OutletPressurePa float64     `json:"outlet_pressure"`
	InletMassFlow   float64      `json:"inlet_mass_flow"`
	OutletMassFlow  float64      `json:"outlet_mass_flow"`
}

// Heat holds the heat-transfer section.
type Heat struct {
	Enabled   bool    `json:"enabled"`
	UOverall  float64 `json:"U_overall"`
	TAmbientK float64 `json:"T_ambient"`
}

// ThermoSection holds the ThermoAdapter refresh policy.
type ThermoSection struct {
	UpdateIntervalSteps int  `json:"update_interval"`
	EnableUpdates       bool `json:"enable_updates"`
	Backend             string `json:"backend"`
}

// RegimeSection selects the regime-detection mode.
type RegimeSection struct {
	Detection RegimeDetection `json:"detection"`
}

// Slug holds the slug-tracker feature flags and thresholds.
type Slug struct {
	EnableInlet      bool    `json:"enable_inlet"`
	EnableTerrain    bool    `json:"enable_terrain"`
	EnableWake       bool    `json:"enable_wake"`
	EnableStochastic bool    `json:"enable_stochastic"`
	LMinDiameters    float64 `json:"L_min_diameters"`
	LMaxDiameters    float64 `json:"L_max_diameters"`
	InitialDiameters float64 `json:"initial_diameters"`
	WakeDiameters    float64 `json:"wake_diameters"`
	MaxWakeAcc       float64 `json:"max_wake_acc"`
	MergeDistanceM   float64 `json:"merge_distance"`
	Seed             int64   `json:"seed"`
}

// Logging holds ambient run-verbosity configuration.
type Logging struct {
	Verbose bool `json:"verbose"`
}

// Uncertainty optionally treats one configuration scalar (e.g. pipe
// roughness) as a random variable for Monte-Carlo sensitivity runs,
// drawn from a normal distribution with math/rand. Disabled by default.
type Uncertainty struct {
	Enabled       bool    `json:"enabled"`
	Parameter     string  `json:"parameter"` // e.g. "pipe.roughness"
	Distribution  string  `json:"distribution"`
	Mean          float64 `json:"mean"`
	StdDev        float64 `json:"stddev"`
}

// Config is the top-level configuration tree read from a JSON file.
type Config struct {
	Pipe        Pipe          `json:"pipe"`
	Time        Time          `json:"time"`
	Boundary    Boundary      `json:"boundary"`
	Heat        Heat          `json:"heat"`
	Thermo      ThermoSection `json:"thermo"`
	Regime      RegimeSection `json:"regime"`
	Slug        Slug          `json:"slug"`
	Logging     Logging       `json:"logging"`
	Uncertainty Uncertainty   `json:"uncertainty"`
}

// Default returns a Config populated with reasonable out-of-the-box
// values for a moderate-diameter, moderate-length pipeline run.
func Default() Config {
	return Config{
		Pipe: Pipe{RoughnessM: 1e-4, NCells: 50},
		Time: Time{CFL: 0.5, DtMin: 1e-4, DtMax: 10, Scheme: RK4},
		Boundary: Boundary{
			Inlet: ConstantFlow, Outlet: ConstantPressure,
		},
		Heat:   Heat{UOverall: 10, TAmbientK: 288.15},
		Thermo: ThermoSection{UpdateIntervalSteps: 10, EnableUpdates: true, Backend: "constant"},
		Regime: RegimeSection{Detection: Mechanistic},
		Slug: Slug{
			EnableInlet: true, EnableTerrain: true, EnableWake: true, EnableStochastic: false,
			LMinDiameters: 12, LMaxDiameters: 300, InitialDiameters: 20,
			WakeDiameters: 30, MaxWakeAcc: 1.3, MergeDistanceM: 1.0, Seed: 1,
		},
	}
}

// Load reads a JSON configuration file, overlaying it on top of Default().
func Load(path string) (Config, error) {
	cfg := Default()
	buf, err := os.ReadFile(path)
	if err != nil {
		return cfg, chk.Err("config: cannot read %q: %v", path, err)
	}
	if err := json.Unmarshal(buf, &cfg); err != nil {
		return cfg, chk.Err("config: cannot parse %q: %v", path, err)
	}
	cfg.ClampCFL()
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks configuration for internal consistency: pipe geometry
// that would produce a degenerate mesh, profile arrays that don't match
// the cell count, and boundary conditions that contradict each other
// (e.g. both ends closed but a non-zero flow specified). Errors here are
// fatal at initialisation, before any stepping begins.
func (c Config) Validate() error {
	if c.Pipe.NCells < 2 {
		return chk.Err("config: pipe.n_cells must be >= 2, got %d", c.Pipe.NCells)
	}
	if c.Pipe.DiameterM <= 0 {
		return chk.Err("config: pipe.diameter must be > 0, got %v", c.Pipe.DiameterM)
	}
	if c.Pipe.LengthM <= 0 {
		return chk.Err("config: pipe.length must be > 0, got %v", c.Pipe.LengthM)
	}
	if len(c.Pipe.ElevationProfile) != 0 && len(c.Pipe.ElevationProfile) != c.Pipe.NCells {
		return chk.Err("config: elevation_profile length %d != n_cells %d", len(c.Pipe.ElevationProfile), c.Pipe.NCells)
	}
	if len(c.Pipe.InclinationProfile()) != 0 && len(c.Pipe.InclinationProfile()) != c.Pipe.NCells {
		return chk.Err("config: inclination_profile length mismatch")
	}
	if c.Boundary.Inlet == Closed && c.Boundary.Outlet == Closed {
		if c.Boundary.InletMassFlow != 0 || c.Boundary.OutletMassFlow != 0 {
			return chk.Err("config: both ends closed but non-zero flow specified")
		}
	}
	return nil
}

// ClampCFL keeps time.cfl within [0.1,1.0]: below that an explicit
// scheme wastes time-stepping budget, above it the CFL stability
// condition for the AUSM+ update is no longer guaranteed. A silent
// clamp rather than a validation error.
func (c *Config) ClampCFL() {
	if c.Time.CFL < 0.1 {
		c.Time.CFL = 0.1
	}
	if c.Time.CFL > 1.0 {
		c.Time.CFL = 1.0
	}
}

// InclinationProfile returns the configured inclination profile (may be
// empty if elevation_profile was given instead).
func (p Pipe) InclinationProfile() []float64 { return p.InclinationRad }
