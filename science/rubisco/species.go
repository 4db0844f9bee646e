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

// Measured RuBisCO variants. Parameters for PCC7942 are from
// Occhialini et al. (2016); the others are from Savir et al. (2010).
var (
	// PCC7942 is the form IB RuBisCO of Synechococcus elongatus PCC 7942.
	PCC7942 = NewParams("PCC7942", 14.4, 172, 585, 43, DefaultMolarMass)

	// Rubrum is the form II RuBisCO of Rhodospirillum rubrum.
	Rubrum = NewParams("Rubrum", 7.3, 80, 406, 12.3, 52e3)

	// Spinach is the RuBisCO of Spinacia oleracea.
	Spinach = NewParams("Spinach", 3.7, 14, 480, 80, DefaultMolarMass)

	// Maize is the RuBisCO of Zea mays.
	Maize = NewParams("Maize", 4.4, 34, 810, 78, DefaultMolarMass)

	// Tobacco is the RuBisCO of Nicotiana tabacum.
	Tobacco = NewParams("Tobacco", 3.4, 10.7, 295, 82, DefaultMolarMass)
)

// AThaliana is the temperature-dependent RuBisCO of Arabidopsis thaliana.
// The Michaelis constants are in Pa.
var AThaliana = NewArrheniusRubisco("A. thaliana",
	NewArrhenius(3.1, DefaultRefTemp, 59.6),
	NewArrhenius(36, DefaultRefTemp, 63.0),
	NewArrhenius(23100, DefaultRefTemp, 16.9),
	NewArrhenius(2003, DefaultRefTemp, -28.7),
	DefaultRefTemp, DefaultMolarMass)
