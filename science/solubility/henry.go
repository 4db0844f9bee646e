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

// Package solubility calculates the temperature-dependent solubility of
// gases in water using Henry's law.
package solubility

import (
	"fmt"
	"math"

	"github.com/ctessum/unit"
	"github.com/gonum/floats"
)

// RefTemp is the reference temperature of the built-in gases [K].
const RefTemp = 298.15

// Built-in gases. Coefficients are from Sander (2015).
var (
	// O2 is the solubility of oxygen.
	O2 = New(1.2e-5, 1700, RefTemp, "O2")

	// CO2 is the solubility of carbon dioxide.
	CO2 = New(3.3e-4, 2400, RefTemp, "CO2")
)

// HenrysLaw holds the Henry's law solubility parameters of a single gas.
// It is an immutable value and is safe for concurrent use.
type HenrysLaw struct {
	name   string
	hcp    float64 // solubility coefficient at refTemp [mol m-3 Pa-1]
	tDep   float64 // temperature dependence, -d(ln H)/d(1/T) [K]
	refTmp float64 // [K]
}

// New returns the solubility of a gas with the solubility coefficient
// hcp [mol m-3 Pa-1] at reference temperature refTemp [K] and temperature
// dependence tDep [K]. name may be empty.
func New(hcp, tDep, refTemp float64, name string) HenrysLaw {
	return HenrysLaw{name: name, hcp: hcp, tDep: tDep, refTmp: refTemp}
}

// Name returns the name of the gas.
func (h HenrysLaw) Name() string { return h.name }

// RefTemp returns the reference temperature [K].
func (h HenrysLaw) RefTemp() float64 { return h.refTmp }

// TempDependence returns the temperature dependence constant [K].
func (h HenrysLaw) TempDependence() float64 { return h.tDep }

// RefCoefficient returns the solubility coefficient at the
// reference temperature [mol m-3 Pa-1].
func (h HenrysLaw) RefCoefficient() float64 {
	return h.Coefficient(h.refTmp)
}

// Coefficient returns the solubility coefficient H_cp [mol m-3 Pa-1]
// at temperature t [K]. t is not checked; t == 0 yields +Inf or NaN.
func (h HenrysLaw) Coefficient(t float64) float64 {
	tempTerm := 1/t - 1/h.refTmp
	return h.hcp * math.Exp(h.tDep*tempTerm)
}

// MolarConcentration returns the dissolved concentration [mol L-1]
// in equilibrium with partial pressure p [Pa] at temperature t [K].
func (h HenrysLaw) MolarConcentration(p, t float64) float64 {
	conc := p * h.Coefficient(t) // mol/m3
	// 1 L = 1e-3 m3
	return 1e-3 * conc
}

// RefMolarConcentration is MolarConcentration at the reference temperature.
func (h HenrysLaw) RefMolarConcentration(p float64) float64 {
	return h.MolarConcentration(p, h.refTmp)
}

// Coefficients returns the solubility coefficient at each of
// temperatures t.
func (h HenrysLaw) Coefficients(t []float64) []float64 {
	o := make([]float64, len(t))
	for i, tt := range t {
		o[i] = h.Coefficient(tt)
	}
	return o
}

// MolarConcentrations returns the dissolved concentration [mol L-1]
// for each of partial pressures p [Pa] at temperature t [K].
func (h HenrysLaw) MolarConcentrations(p []float64, t float64) []float64 {
	o := make([]float64, len(p))
	copy(o, p)
	floats.Scale(1e-3*h.Coefficient(t), o)
	return o
}

// MoleDim is the dimension representing an amount of substance.
var MoleDim = unit.NewDimension("mole")

// MolePerMeter3 is a molar concentration.
var MolePerMeter3 = unit.Dimensions{
	MoleDim:        1,
	unit.LengthDim: -3,
}

// MolarConcentrationUnit returns the dissolved concentration in
// equilibrium with partial pressure p at temperature t. p must have
// units of pressure and t must have units of temperature. The result
// has units of mol m-3.
func (h HenrysLaw) MolarConcentrationUnit(p, t *unit.Unit) (*unit.Unit, error) {
	if err := p.Check(unit.Pascal); err != nil {
		return nil, fmt.Errorf("solubility: partial pressure: %v", err)
	}
	if err := t.Check(unit.Kelvin); err != nil {
		return nil, fmt.Errorf("solubility: temperature: %v", err)
	}
	return unit.New(p.Value()*h.Coefficient(t.Value()), MolePerMeter3), nil
}

// Validate returns an error if the parameters can not produce a finite
// solubility coefficient.
func (h HenrysLaw) Validate() error {
	if !(h.refTmp > 0) {
		return fmt.Errorf("solubility: %s: reference temperature must be > 0 K; got %g", h.name, h.refTmp)
	}
	if !(h.hcp > 0) {
		return fmt.Errorf("solubility: %s: solubility coefficient must be > 0; got %g", h.name, h.hcp)
	}
	return nil
}

func (h HenrysLaw) String() string {
	return fmt.Sprintf("<HenrysLaw %s H_cp=%.3g t_dep=%.0f ref_temp=%.2f>",
		h.name, h.hcp, h.tDep, h.refTmp)
}
