/*
Copyright © 2026 the CarbonFix authors.
This file is part of CarbonFix.

CarbonFix is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

CarbonFix is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with CarbonFix.  If not, see <http://www.gnu.org/licenses/>.
*/

// Package rubisco models the carboxylation and oxygenation kinetics of the
// RuBisCO enzyme with competitive inhibition between CO2 and O2.
//
// Concentrations are in μM and rates are per active site. Parameters are
// given either directly (Params) or as functions of temperature
// (ArrheniusRubisco), in which case the gas-phase affinity constants are
// converted to dissolved concentrations using package solubility.
package rubisco

import (
	"fmt"
)

// DefaultMolarMass is the mass per active site [g mol-1] used when
// none is reported.
const DefaultMolarMass = 65e3

// Model is a RuBisCO variant whose kinetic parameters can be evaluated at
// a given temperature.
type Model interface {
	Name() string

	// Concrete returns the kinetic parameters at temperature [K].
	Concrete(temperature float64) *Params
}

// Params holds the kinetic parameters of a RuBisCO variant at a fixed
// temperature. Params are not modified after construction and are safe
// for concurrent use.
//
// The specificity factor S is defined as
//
//	S = kcat_C * K_O / (kcat_O * K_C).
type Params struct {
	name      string
	kcatC     float64 // [s-1]
	kcatO     float64 // [s-1]
	kC        float64 // [μM]
	kO        float64 // [μM]
	s         float64 // [-]
	molarMass float64 // [g mol-1]
}

// NewParams returns RuBisCO parameters with carboxylation turnover
// kcatC [s-1], Michaelis constants kC for CO2 and kO for O2 [μM],
// and specificity factor s. molarMass is the mass per active site
// [g mol-1]. The oxygenation turnover number is derived from the others.
func NewParams(name string, kcatC, kC, kO, s, molarMass float64) *Params {
	return &Params{
		name:      name,
		kcatC:     kcatC,
		kC:        kC,
		kO:        kO,
		s:         s,
		kcatO:     kcatC * kO / (kC * s),
		molarMass: molarMass,
	}
}

// Name returns the name of the variant.
func (p *Params) Name() string { return p.name }

// KcatC returns the carboxylation turnover number [s-1].
func (p *Params) KcatC() float64 { return p.kcatC }

// KcatO returns the oxygenation turnover number [s-1].
func (p *Params) KcatO() float64 { return p.kcatO }

// KC returns the Michaelis constant for CO2 [μM].
func (p *Params) KC() float64 { return p.kC }

// KO returns the Michaelis constant for O2 [μM].
func (p *Params) KO() float64 { return p.kO }

// S returns the specificity factor as supplied.
func (p *Params) S() float64 { return p.s }

// MolarMass returns the mass per active site [g mol-1].
func (p *Params) MolarMass() float64 { return p.molarMass }

// Specificity recalculates the specificity factor from the turnover
// numbers and Michaelis constants.
func (p *Params) Specificity() float64 {
	return p.kcatC * p.kO / (p.kcatO * p.kC)
}

// Concrete returns p, whose parameters do not depend on temperature.
func (p *Params) Concrete(float64) *Params { return p }

// Rates returns the carboxylation (vc) and oxygenation (vo) rates per
// active site at the given CO2 and O2 concentrations [μM]. Zero
// concentrations are not checked and produce Inf or NaN.
func (p *Params) Rates(co2, o2 float64) (vc, vo float64) {
	vc = p.kcatC / (1 + p.kC/co2 + p.kC*o2/(p.kO*co2))
	vo = p.kcatO / (1 + p.kO/o2 + p.kO*co2/(p.kC*o2))
	return
}

// NetRate returns the net carboxylation rate assuming C2 photorespiration,
// which releases one CO2 for every two oxygenations.
func (p *Params) NetRate(co2, o2 float64) float64 {
	vc, vo := p.Rates(co2, o2)
	return vc - vo/2
}

// NetRatePerMass returns the net carboxylation rate per unit enzyme mass
// [mol CO2 g-1 s-1].
func (p *Params) NetRatePerMass(co2, o2 float64) float64 {
	return p.NetRate(co2, o2) / p.molarMass
}

// NetRates returns the net carboxylation rate for each pair of CO2 and O2
// concentrations.
func (p *Params) NetRates(co2, o2 []float64) ([]float64, error) {
	if len(co2) != len(o2) {
		return nil, fmt.Errorf("rubisco: %d CO2 concentrations but %d O2 concentrations", len(co2), len(o2))
	}
	o := make([]float64, len(co2))
	for i := range co2 {
		o[i] = p.NetRate(co2[i], o2[i])
	}
	return o, nil
}

// Validate returns an error if any parameter would be used as a
// non-positive divisor.
func (p *Params) Validate() error {
	for _, v := range []struct {
		name string
		val  float64
	}{
		{"K_C", p.kC},
		{"K_O", p.kO},
		{"S", p.s},
		{"molar mass", p.molarMass},
	} {
		if !(v.val > 0) {
			return fmt.Errorf("rubisco: %s: %s must be > 0; got %g", p.name, v.name, v.val)
		}
	}
	return nil
}

func (p *Params) String() string {
	return fmt.Sprintf("<Rubisco kcat_C=%.2f kcat_O=%.2f K_C=%.2f K_O=%.2f S=%.1f>",
		p.kcatC, p.kcatO, p.kC, p.kO, p.s)
}
