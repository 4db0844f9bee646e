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

// Package carbonfix evaluates RuBisCO carboxylation kinetics over sets of
// temperatures and dissolved gas concentrations.
//
// The underlying models are in packages
// github.com/spatialmodel/carbonfix/science/solubility and
// github.com/spatialmodel/carbonfix/science/rubisco. This package combines
// them with user-defined output variables and writes the results to files.
package carbonfix

import (
	"fmt"

	"github.com/gonum/floats"
)

// Version gives the version number.
const Version = "0.1.0"

// Condition is an environmental condition at which kinetics are evaluated.
type Condition struct {
	Temperature float64 // [K]
	CO2         float64 // dissolved CO2 [μM]
	O2          float64 // dissolved O2 [μM]
}

// Grid returns every combination of the given temperatures [K] and CO2 and O2
// concentrations [μM]. Temperature varies slowest and O2 varies fastest.
func Grid(temps, co2, o2 []float64) []Condition {
	c := make([]Condition, 0, len(temps)*len(co2)*len(o2))
	for _, t := range temps {
		for _, cc := range co2 {
			for _, oo := range o2 {
				c = append(c, Condition{Temperature: t, CO2: cc, O2: oo})
			}
		}
	}
	return c
}

// Span returns n evenly spaced values from min to max, inclusive.
func Span(min, max float64, n int) ([]float64, error) {
	switch {
	case n < 1:
		return nil, fmt.Errorf("carbonfix: number of values must be at least 1; got %d", n)
	case n == 1:
		if min != max {
			return nil, fmt.Errorf("carbonfix: a single value can not span %g to %g", min, max)
		}
		return []float64{min}, nil
	}
	return floats.Span(make([]float64, n), min, max), nil
}
