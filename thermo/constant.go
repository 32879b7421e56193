// Copyright 2024 The Pipeflow Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package thermo

// ConstantAdapter is a minimal testing/reference Adapter: densities follow
// the same linear compressibility law as the teacher's mdl/fluid.Model
// (R = R0 + C*(p-p0)), holding every other property fixed at the
// configured reference value. It exists so the core and its tests can run
// end-to-end without a real flash/EOS engine.
type ConstantAdapter struct {
	RhoG0, PG0, CG float64 // gas density compressibility: rhoG = RhoG0+CG*(p-PG0)
	RhoL0, PL0, CL float64
	MuG, MuL       float64
	HG0, HL0       float64
	SoundG, SoundL float64
	MGas, MLiq     float64
	CpGas, CpLiq   float64
	MuJT           float64
	Sigma          float64
}

func init() {
	Register("constant", func(cfg map[string]float64) Adapter {
		a := &ConstantAdapter{
			RhoG0: 50, PG0: 40e5, CG: 1.2e-6,
			RhoL0: 800, PL0: 40e5, CL: 4.5e-10,
			MuG: 1.2e-5, MuL: 1e-3,
			HG0: 700e3, HL0: 300e3,
			SoundG: 380, SoundL: 1300,
			MGas: 0.019, MLiq: 0.086,
			CpGas: 2200, CpLiq: 2100,
			MuJT:  3.5e-6,
			Sigma: 0.02,
		}
		for k, v := range cfg {
			switch k {
			case "RhoG0":
				a.RhoG0 = v
			case "RhoL0":
				a.RhoL0 = v
			case "MuJT":
				a.MuJT = v
			case "Sigma":
				a.Sigma = v
			}
		}
		return a
	})
}

// FlashPT returns phase properties at the given P,T; density varies
// linearly with pressure, everything else is held at the configured
// reference value (this adapter ignores T entirely -- it is a stand-in for
// a real EOS, not a model of real fluid behaviour).
func (a *ConstantAdapter) FlashPT(pPa, tK float64) (PhaseProperties, error) {
	if k := ValidateRange(pPa, tK); k != OK {
		return PhaseProperties{Error: k}, nil
	}
	return PhaseProperties{
		RhoG: a.RhoG0 + a.CG*(pPa-a.PG0),
		RhoL: a.RhoL0 + a.CL*(pPa-a.PL0),
		MuG:  a.MuG, MuL: a.MuL,
		HG: a.HG0, HL: a.HL0,
		CG: a.SoundG, CL: a.SoundL,
		MG: a.MGas, ML: a.MLiq,
		CpG: a.CpGas, CpL: a.CpLiq,
		MuJT:      a.MuJT,
		Sigma:     a.Sigma,
		Converged: true,
	}, nil
}

// FlashPH returns phase properties at the given P and specific enthalpy by
// inverting the constant-Cp relation T = hSpec/Cp, then delegating to
// FlashPT at that temperature.
func (a *ConstantAdapter) FlashPH(pPa, hSpecJPerKg float64) (PhaseProperties, error) {
	t := hSpecJPerKg / a.CpLiq
	return a.FlashPT(pPa, t)
}
