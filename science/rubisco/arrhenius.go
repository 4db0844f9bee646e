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
	"math"
)

// R is the universal gas constant [kJ mol-1 K-1].
const R = 8.314e-3

// Arrhenius is a parameter with Arrhenius temperature dependence.
// Temperatures are in kelvin.
type Arrhenius struct {
	ref     float64
	refTemp float64
	eAct    float64 // activation energy [kJ mol-1]
}

// NewArrhenius returns a parameter that has the value ref at
// temperature refTemp [K] and activation energy eAct [kJ mol-1].
func NewArrhenius(ref, refTemp, eAct float64) Arrhenius {
	return Arrhenius{ref: ref, refTemp: refTemp, eAct: eAct}
}

// Ref returns the value of the parameter at its reference temperature.
func (a Arrhenius) Ref() float64 { return a.ref }

// RefTemp returns the reference temperature [K].
func (a Arrhenius) RefTemp() float64 { return a.refTemp }

// ActivationEnergy returns the activation energy [kJ mol-1].
func (a Arrhenius) ActivationEnergy() float64 { return a.eAct }

// Value returns the value of the parameter at temperature t [K].
func (a Arrhenius) Value(t float64) float64 {
	expTerm := math.Exp((-a.eAct / (R * t)) * (a.refTemp - t) / a.refTemp)
	return a.ref * expTerm
}

// Validate returns an error if the reference temperature is not positive.
func (a Arrhenius) Validate() error {
	if !(a.refTemp > 0) {
		return fmt.Errorf("rubisco: Arrhenius reference temperature must be > 0 K; got %g", a.refTemp)
	}
	return nil
}

func (a Arrhenius) String() string {
	return fmt.Sprintf("<ArrheniusParam ref_val=%.2f ref_temp=%.2f e_act=%.2f>", a.ref, a.refTemp, a.eAct)
}
