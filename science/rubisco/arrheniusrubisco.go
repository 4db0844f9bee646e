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

package rubisco

import (
	"fmt"

	"github.com/spatialmodel/carbonfix/science/solubility"
)

// DefaultRefTemp is the reference temperature of the built-in variants and
// of library variants that do not specify one [K].
const DefaultRefTemp = 298.15

// ArrheniusRubisco is a RuBisCO variant whose kinetic parameters depend on
// temperature. The Michaelis constants are reported as partial pressures
// [Pa] and the specificity factor is reported on a partial pressure basis;
// Concrete converts them to dissolved concentrations.
type ArrheniusRubisco struct {
	name          string
	kcatC, kC, kO Arrhenius
	s             Arrhenius
	refTemp       float64
	molarMass     float64
}

// NewArrheniusRubisco returns a temperature-dependent RuBisCO variant.
// kcatC is in s-1, kC and kO are in Pa, and s is unitless. refTemp [K]
// is the temperature used by Rates and NetRate.
func NewArrheniusRubisco(name string, kcatC, kC, kO, s Arrhenius, refTemp, molarMass float64) *ArrheniusRubisco {
	return &ArrheniusRubisco{
		name:      name,
		kcatC:     kcatC,
		kC:        kC,
		kO:        kO,
		s:         s,
		refTemp:   refTemp,
		molarMass: molarMass,
	}
}

// Name returns the name of the variant.
func (a *ArrheniusRubisco) Name() string { return a.name }

// RefTemp returns the temperature [K] used by Rates and NetRate.
func (a *ArrheniusRubisco) RefTemp() float64 { return a.refTemp }

// MolarMass returns the mass per active site [g mol-1].
func (a *ArrheniusRubisco) MolarMass() float64 { return a.molarMass }

// Parameters returns the temperature-dependent parameters.
func (a *ArrheniusRubisco) Parameters() (kcatC, kC, kO, s Arrhenius) {
	return a.kcatC, a.kC, a.kO, a.s
}

// Concrete returns the kinetic parameters at temperature t [K], with the
// Michaelis constants converted from Pa to μM and the specificity factor
// adjusted for the relative solubility of O2 and CO2.
func (a *ArrheniusRubisco) Concrete(t float64) *Params {
	kcatC := a.kcatC.Value(t)
	kC := a.kC.Value(t)
	kO := a.kO.Value(t)
	s := a.s.Value(t)

	// mol/L to μmol/L.
	kCμM := solubility.CO2.MolarConcentration(kC, t) * 1e6
	kOμM := solubility.O2.MolarConcentration(kO, t) * 1e6

	// S has K_O in the numerator and K_C in the denominator.
	solRatio := solubility.O2.Coefficient(t) / solubility.CO2.Coefficient(t)
	sSol := s * solRatio

	return NewParams(a.name, kcatC, kCμM, kOμM, sSol, a.molarMass)
}

// Rates returns the carboxylation and oxygenation rates per active site
// at the reference temperature. co2 and o2 are in μM.
func (a *ArrheniusRubisco) Rates(co2, o2 float64) (vc, vo float64) {
	return a.RatesAt(co2, o2, a.refTemp)
}

// RatesAt returns the carboxylation and oxygenation rates per active site
// at temperature t [K].
func (a *ArrheniusRubisco) RatesAt(co2, o2, t float64) (vc, vo float64) {
	return a.Concrete(t).Rates(co2, o2)
}

// NetRate returns the net carboxylation rate at the reference temperature.
func (a *ArrheniusRubisco) NetRate(co2, o2 float64) float64 {
	return a.NetRateAt(co2, o2, a.refTemp)
}

// NetRateAt returns the net carboxylation rate at temperature t [K].
func (a *ArrheniusRubisco) NetRateAt(co2, o2, t float64) float64 {
	return a.Concrete(t).NetRate(co2, o2)
}

// Validate checks the reference temperatures and the parameters at the
// reference temperature.
func (a *ArrheniusRubisco) Validate() error {
	if !(a.refTemp > 0) {
		return fmt.Errorf("rubisco: %s: reference temperature must be > 0 K; got %g", a.name, a.refTemp)
	}
	for _, p := range []Arrhenius{a.kcatC, a.kC, a.kO, a.s} {
		if err := p.Validate(); err != nil {
			return fmt.Errorf("rubisco: %s: %v", a.name, err)
		}
	}
	return a.Concrete(a.refTemp).Validate()
}

func (a *ArrheniusRubisco) String() string {
	return fmt.Sprintf("<ArrheniusRubisco kcat_C=%s K_C=%s K_O=%s S=%s>", a.kcatC, a.kC, a.kO, a.s)
}
