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

package carbonfixutil

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/carbonfix"
	"github.com/spatialmodel/carbonfix/science/rubisco"
	"github.com/spatialmodel/carbonfix/science/solubility"
)

// Species prints the variants in lib, with their kinetic parameters at
// the reference temperature.
func Species(w io.Writer, lib rubisco.Library) error {
	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
	fmt.Fprintln(tw, "Name\tkcat_C\tK_C\tK_O\tS\tTemperature dependent\t")
	for _, name := range lib.Names() {
		m, err := lib.Lookup(name)
		if err != nil {
			return err
		}
		p, tDep := referenceParams(m)
		fmt.Fprintf(tw, "%s\t%.3g\t%.3g\t%.3g\t%.4g\t%v\t\n", name, p.KcatC(), p.KC(), p.KO(), p.S(), tDep)
	}
	return tw.Flush()
}

// referenceParams returns the kinetic parameters of m at its reference
// temperature and whether m is temperature dependent.
func referenceParams(m rubisco.Model) (*rubisco.Params, bool) {
	if a, ok := m.(*rubisco.ArrheniusRubisco); ok {
		return a.Concrete(a.RefTemp()), true
	}
	return m.Concrete(rubisco.DefaultRefTemp), false
}

// Solubility prints the solubility coefficient [mol m-3 Pa-1] of gas h
// and the dissolved concentration [mol L-1] in equilibrium with partial
// pressure p [Pa] at temperature temp [K]. If temp is nil the reference
// temperature of h is used.
func Solubility(w io.Writer, h solubility.HenrysLaw, p float64, temp *float64) error {
	if err := h.Validate(); err != nil {
		return err
	}
	coef, conc, t := h.RefCoefficient(), h.RefMolarConcentration(p), h.RefTemp()
	if temp != nil {
		t = *temp
		coef, conc = h.Coefficient(t), h.MolarConcentration(p, t)
	}
	fmt.Fprintf(w, "%s at %g K:\n", h.Name(), t)
	fmt.Fprintf(w, "  solubility: %g mol m-3 Pa-1\n", coef)
	fmt.Fprintf(w, "  concentration at %g Pa: %g mol L-1 (%g μM)\n", p, conc, conc*1e6)
	return nil
}

// Rates prints the carboxylation, oxygenation, and net carboxylation rates
// of variant m at dissolved concentrations co2 and o2 [μM] and temperature
// temp [K]. If temp is nil, temperature-dependent variants are evaluated
// at their reference temperature.
func Rates(w io.Writer, m rubisco.Model, co2, o2 float64, temp *float64) error {
	var p *rubisco.Params
	var t float64
	if temp != nil {
		t = *temp
		p = m.Concrete(t)
	} else {
		var tDep bool
		p, tDep = referenceParams(m)
		if tDep {
			t = m.(*rubisco.ArrheniusRubisco).RefTemp()
		}
	}
	if err := p.Validate(); err != nil {
		return err
	}
	vc, vo := p.Rates(co2, o2)
	if t != 0 {
		fmt.Fprintf(w, "%s at %g K, CO2=%g μM, O2=%g μM:\n", m.Name(), t, co2, o2)
	} else {
		fmt.Fprintf(w, "%s at CO2=%g μM, O2=%g μM:\n", m.Name(), co2, o2)
	}
	fmt.Fprintf(w, "  %v\n", p)
	fmt.Fprintf(w, "  carboxylation rate: %g s-1\n", vc)
	fmt.Fprintf(w, "  oxygenation rate: %g s-1\n", vo)
	fmt.Fprintf(w, "  net carboxylation rate: %g s-1\n", p.NetRate(co2, o2))
	fmt.Fprintf(w, "  net carboxylation rate per mass: %g mol g-1 s-1\n", p.NetRatePerMass(co2, o2))
	return nil
}

// Sweep evaluates outputVars for variant m at each of conds. The results
// are saved to outputFile, which may be a blob storage location, or
// written to w as a table if outputFile is empty.
func Sweep(w io.Writer, log logrus.FieldLogger, m rubisco.Model, conds []carbonfix.Condition,
	outputVars map[string]string, outputFile string) error {

	startTime := time.Now()
	o, err := carbonfix.NewOutputter(outputVars, nil)
	if err != nil {
		return err
	}
	log.WithFields(logrus.Fields{
		"enzyme":     m.Name(),
		"conditions": len(conds),
		"outputs":    len(o.Names()),
	}).Info("evaluating")

	r, err := carbonfix.Evaluate(m, conds, o)
	if err != nil {
		return err
	}
	if outputFile == "" {
		return r.WriteTable(w)
	}
	var u uploader
	localFile, err := u.maybeUpload(outputFile)
	defer u.cleanup()
	if err != nil {
		return err
	}
	if err := r.Save(localFile); err != nil {
		return err
	}
	if err := u.upload(context.TODO()); err != nil {
		return err
	}
	log.WithFields(logrus.Fields{
		"file":     outputFile,
		"duration": time.Since(startTime),
	}).Info("saved results")
	return nil
}
