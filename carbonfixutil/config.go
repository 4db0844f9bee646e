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
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/lnashier/viper"
	"github.com/spatialmodel/carbonfix"
	"github.com/spatialmodel/carbonfix/science/rubisco"
	"github.com/spatialmodel/carbonfix/science/solubility"
	"github.com/spf13/cast"
	"github.com/spf13/cobra"
)

// checkOutputVars removes end lines and expands environment
// variables in the output variables.
func checkOutputVars(vars map[string]string) (map[string]string, error) {
	if len(vars) == 0 {
		return nil, fmt.Errorf("carbonfix: there are no variables specified for output. Please fill in " +
			"the OutputVariables configuration and try again")
	}
	o := make(map[string]string, len(vars))
	for k, v := range vars {
		v = strings.Replace(v, "\r\n", " ", -1)
		v = strings.Replace(v, "\n", " ", -1)
		o[os.ExpandEnv(k)] = os.ExpandEnv(v)
	}
	return o, nil
}

// checkOutputFile expands environment variables in the output file path
// and makes sure the output directory exists. An empty path means that
// the output should be printed rather than saved.
func checkOutputFile(f string) (string, error) {
	if f == "" {
		return "", nil
	}
	f = os.ExpandEnv(f)
	if IsBlob(f) {
		bucket, _, err := splitBlob(f)
		if err != nil {
			return f, err
		}
		if _, err = OpenBucket(context.TODO(), bucket); err != nil {
			return f, fmt.Errorf("carbonfix: error when checking OutputFile location: %v", err)
		}
		return f, nil
	}
	outdir := filepath.Dir(f)
	if _, err := os.Stat(outdir); err != nil {
		return f, fmt.Errorf("carbonfix: the OutputFile directory doesn't exist: %v", err)
	}
	return f, nil
}

// checkGas returns the solubility of the named gas.
func checkGas(gas string) (solubility.HenrysLaw, error) {
	switch strings.ToUpper(strings.TrimSpace(gas)) {
	case "O2":
		return solubility.O2, nil
	case "CO2":
		return solubility.CO2, nil
	default:
		return solubility.HenrysLaw{}, fmt.Errorf("carbonfix: invalid gas %q; valid options are O2 and CO2", gas)
	}
}

// checkConcentrations makes sure the dissolved gas concentrations
// are not negative.
func checkConcentrations(co2, o2 float64) (float64, float64, error) {
	if co2 < 0 || o2 < 0 {
		return co2, o2, fmt.Errorf("carbonfix: gas concentrations must not be negative; co2=%g, o2=%g", co2, o2)
	}
	return co2, o2, nil
}

// temperature returns the configured temperature, or nil if the temperature
// was not set by a command-line flag, an environment variable, or the
// configuration file.
func (cfg *Cfg) temperature(cmd *cobra.Command) (*float64, error) {
	const name = "temp"
	set := cfg.InConfig(name)
	if f := cmd.Flags().Lookup(name); f != nil && f.Changed {
		set = true
	}
	if _, ok := os.LookupEnv("CARBONFIX_TEMP"); ok {
		set = true
	}
	if !set {
		return nil, nil
	}
	t, err := cast.ToFloat64E(cfg.Get(name))
	if err != nil {
		return nil, fmt.Errorf("carbonfix: invalid temp: %v", err)
	}
	if t <= 0 {
		return nil, fmt.Errorf("carbonfix: temp must be greater than zero Kelvin; got %g", t)
	}
	return &t, nil
}

// library returns the built-in RuBisCO variants merged with any variants
// in the EnzymeLibrary file.
func (cfg *Cfg) library() (rubisco.Library, error) {
	lib := rubisco.Builtin()
	path := cfg.GetString("EnzymeLibrary")
	if path == "" {
		return lib, nil
	}
	r, err := openInput(context.TODO(), cfg.Log, os.ExpandEnv(path))
	if err != nil {
		return nil, err
	}
	defer r.Close()
	user, err := rubisco.DecodeLibrary(r)
	if err != nil {
		return nil, fmt.Errorf("carbonfix: reading EnzymeLibrary %s: %v", path, err)
	}
	lib.Merge(user)
	return lib, nil
}

// enzyme returns the RuBisCO variant named in the configuration.
func (cfg *Cfg) enzyme() (rubisco.Model, error) {
	lib, err := cfg.library()
	if err != nil {
		return nil, err
	}
	return lib.Lookup(cfg.GetString("enzyme"))
}

// conditions returns the grid of conditions specified by the
// Sweep configuration variables.
func (cfg *Cfg) conditions() ([]carbonfix.Condition, error) {
	temps, err := carbonfix.Span(cfg.GetFloat64("Sweep.TMin"), cfg.GetFloat64("Sweep.TMax"), cfg.GetInt("Sweep.NT"))
	if err != nil {
		return nil, err
	}
	co2, err := parseFloats("Sweep.CO2", cfg.Viper)
	if err != nil {
		return nil, err
	}
	o2, err := parseFloats("Sweep.O2", cfg.Viper)
	if err != nil {
		return nil, err
	}
	for i := range co2 {
		if _, _, err := checkConcentrations(co2[i], 0); err != nil {
			return nil, err
		}
	}
	for i := range o2 {
		if _, _, err := checkConcentrations(0, o2[i]); err != nil {
			return nil, err
		}
	}
	return carbonfix.Grid(temps, co2, o2), nil
}

// parseFloats returns a slice of numbers from a viper configuration,
// accounting for the fact that it may be a list of numbers from a
// configuration file or a list of strings from a command line argument.
func parseFloats(varName string, cfg *viper.Viper) ([]float64, error) {
	s, err := cast.ToStringSliceE(cfg.Get(varName))
	if err != nil {
		f, err2 := cast.ToFloat64E(cfg.Get(varName))
		if err2 != nil {
			return nil, fmt.Errorf("carbonfix: invalid %s: %v", varName, err)
		}
		return []float64{f}, nil
	}
	var o []float64
	for _, v := range s {
		for _, vv := range strings.Split(v, ",") {
			vv = strings.TrimSpace(vv)
			if vv == "" {
				continue
			}
			f, err := cast.ToFloat64E(vv)
			if err != nil {
				return nil, fmt.Errorf("carbonfix: invalid %s: %v", varName, err)
			}
			o = append(o, f)
		}
	}
	if len(o) == 0 {
		return nil, fmt.Errorf("carbonfix: %s must contain at least one value", varName)
	}
	return o, nil
}

// GetStringMapString returns a map[string]string from a viper configuration,
// accounting for the fact that it might be a json object if it was set
// from a command line argument.
func GetStringMapString(varName string, cfg *viper.Viper) (map[string]string, error) {
	i := cfg.Get(varName)
	switch i.(type) {
	case map[string]string:
		return i.(map[string]string), nil
	case map[string]interface{}:
		return cast.ToStringMapStringE(i)
	case string:
		b := bytes.NewBuffer(([]byte)(i.(string)))
		d := json.NewDecoder(b)
		o := make(map[string]string)
		if err := d.Decode(&o); err != nil {
			return nil, fmt.Errorf("carbonfix: invalid %s %q: %v", varName, i, err)
		}
		return o, nil
	default:
		return nil, fmt.Errorf("carbonfix: invalid type for %s: %#v", varName, i)
	}
}
