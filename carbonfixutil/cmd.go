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

// Package carbonfixutil contains the command-line interface to CarbonFix.
package carbonfixutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/lnashier/viper"
	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/carbonfix"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Cfg holds configuration information.
type Cfg struct {
	*viper.Viper

	// Root is the main command.
	Root *cobra.Command

	versionCmd, speciesCmd, solubilityCmd, ratesCmd, sweepCmd *cobra.Command

	// Log receives progress messages.
	Log *logrus.Logger

	options []option
}

type option struct {
	name, usage, shorthand string
	defaultVal             interface{}
	flagsets               []*pflag.FlagSet
}

// InitializeConfig creates the commands and configuration options.
func InitializeConfig() *Cfg {
	cfg := &Cfg{
		Viper: viper.New(),
		Log:   logrus.New(),
	}
	cfg.Log.Formatter = &logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339Nano,
	}

	cfg.Root = &cobra.Command{
		Use:   "carbonfix",
		Short: "RuBisCO carboxylation kinetics.",
		Long: `CarbonFix calculates the carboxylation and oxygenation rates of the
RuBisCO enzyme as a function of dissolved CO2 and O2 concentrations and
temperature, and the temperature-dependent solubility of gases in water.
Use the subcommands specified below to access the model functionality.

Refer to the subcommand documentation for configuration options and default settings.
Configuration can be changed by using a configuration file (and providing the
path to the file using the --config flag), by using command-line arguments,
or by setting environment variables in the format 'CARBONFIX_var' where 'var' is the
name of the variable to be set.
Refer to https://github.com/spf13/viper for additional configuration information.`,
		DisableAutoGenTag: true,
		PersistentPreRunE: func(*cobra.Command, []string) error { return cfg.setConfig() },
	}

	cfg.versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Long:  "version prints the version number of this version of CarbonFix.",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "CarbonFix v%s\n", carbonfix.Version)
		},
		DisableAutoGenTag: true,
	}

	cfg.speciesCmd = &cobra.Command{
		Use:   "species",
		Short: "List the available RuBisCO variants",
		Long: `species lists the built-in RuBisCO variants and any variants
defined in the file specified by the EnzymeLibrary configuration variable.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			lib, err := cfg.library()
			if err != nil {
				return err
			}
			return Species(cmd.OutOrStdout(), lib)
		},
		DisableAutoGenTag: true,
	}

	cfg.solubilityCmd = &cobra.Command{
		Use:   "solubility",
		Short: "Calculate the solubility of a gas",
		Long: `solubility calculates the Henry's law solubility coefficient of O2 or CO2
and the dissolved concentration in equilibrium with the given partial pressure.
If temp is not set, the reference temperature of the gas is used.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := checkGas(cfg.GetString("gas"))
			if err != nil {
				return err
			}
			temp, err := cfg.temperature(cmd)
			if err != nil {
				return err
			}
			return Solubility(cmd.OutOrStdout(), h, cfg.GetFloat64("pressure"), temp)
		},
		DisableAutoGenTag: true,
	}

	cfg.ratesCmd = &cobra.Command{
		Use:   "rates",
		Short: "Calculate carboxylation and oxygenation rates",
		Long: `rates calculates the carboxylation, oxygenation, and net carboxylation
rates per active site of a RuBisCO variant at the given dissolved CO2 and O2
concentrations. If temp is not set, the reference temperature of a
temperature-dependent variant is used.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := cfg.enzyme()
			if err != nil {
				return err
			}
			temp, err := cfg.temperature(cmd)
			if err != nil {
				return err
			}
			co2, o2, err := checkConcentrations(cfg.GetFloat64("co2"), cfg.GetFloat64("o2"))
			if err != nil {
				return err
			}
			cfg.Log.WithFields(logrus.Fields{
				"enzyme": m.Name(),
				"co2":    co2,
				"o2":     o2,
			}).Debug("calculating rates")
			return Rates(cmd.OutOrStdout(), m, co2, o2, temp)
		},
		DisableAutoGenTag: true,
	}

	cfg.sweepCmd = &cobra.Command{
		Use:   "sweep",
		Short: "Evaluate kinetics over a range of conditions",
		Long: `sweep evaluates a RuBisCO variant at every combination of
Sweep.NT temperatures from Sweep.TMin to Sweep.TMax and the CO2 and O2
concentrations in Sweep.CO2 and Sweep.O2, and calculates the
expressions in OutputVariables. The results are written to OutputFile,
or printed if OutputFile is empty.

	Model variables available to OutputVariables:
	T: temperature [K]
	CO2, O2: dissolved gas concentrations [μM]
	Vc, Vo: carboxylation and oxygenation rates per active site [s-1]
	NetRate: net carboxylation rate per active site [s-1]
	NetRatePerMass: net carboxylation rate per enzyme mass [mol g-1 s-1]
	KcatC, KcatO, KC, KO, S, MolarMass: kinetic parameters at T
	CO2Sol, O2Sol: gas solubility coefficients at T [mol m-3 Pa-1]`,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := cfg.enzyme()
			if err != nil {
				return err
			}
			conds, err := cfg.conditions()
			if err != nil {
				return err
			}
			outputVars, err := GetStringMapString("OutputVariables", cfg.Viper)
			if err != nil {
				return err
			}
			outputVars, err = checkOutputVars(outputVars)
			if err != nil {
				return err
			}
			outputFile, err := checkOutputFile(cfg.GetString("OutputFile"))
			if err != nil {
				return err
			}
			return Sweep(cmd.OutOrStdout(), cfg.Log, m, conds, outputVars, outputFile)
		},
		DisableAutoGenTag: true,
	}

	options := []option{
		{
			name: "config",
			usage: `
              config specifies the configuration file location.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{cfg.Root.PersistentFlags()},
		},
		{
			name: "LogLevel",
			usage: `
              LogLevel specifies the minimum level of log messages: one of
              debug, info, warning, and error.`,
			defaultVal: "info",
			flagsets:   []*pflag.FlagSet{cfg.Root.PersistentFlags()},
		},
		{
			name: "EnzymeLibrary",
			usage: `
              EnzymeLibrary is the path to a TOML file defining additional
              RuBisCO variants. Variants in the file replace built-in
              variants with the same name. It can include environment variables.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{cfg.Root.PersistentFlags()},
		},
		{
			name: "enzyme",
			usage: `
              enzyme is the name of the RuBisCO variant to use. Run the
              'species' command for the available options.`,
			shorthand:  "e",
			defaultVal: "A. thaliana",
			flagsets:   []*pflag.FlagSet{cfg.ratesCmd.Flags(), cfg.sweepCmd.Flags()},
		},
		{
			name: "gas",
			usage: `
              gas is the gas to calculate solubility for: O2 or CO2.`,
			defaultVal: "CO2",
			flagsets:   []*pflag.FlagSet{cfg.solubilityCmd.Flags()},
		},
		{
			name: "pressure",
			usage: `
              pressure is the partial pressure of the gas [Pa].`,
			shorthand:  "p",
			defaultVal: 40.0,
			flagsets:   []*pflag.FlagSet{cfg.solubilityCmd.Flags()},
		},
		{
			name: "temp",
			usage: `
              temp is the temperature [K]. If it is not set, the reference
              temperature of the model is used.`,
			shorthand:  "t",
			defaultVal: 298.15,
			flagsets:   []*pflag.FlagSet{cfg.solubilityCmd.Flags(), cfg.ratesCmd.Flags()},
		},
		{
			name: "co2",
			usage: `
              co2 is the dissolved CO2 concentration [μM].`,
			defaultVal: 10.0,
			flagsets:   []*pflag.FlagSet{cfg.ratesCmd.Flags()},
		},
		{
			name: "o2",
			usage: `
              o2 is the dissolved O2 concentration [μM].`,
			defaultVal: 250.0,
			flagsets:   []*pflag.FlagSet{cfg.ratesCmd.Flags()},
		},
		{
			name: "Sweep.TMin",
			usage: `
              Sweep.TMin is the lowest temperature in the sweep [K].`,
			defaultVal: 278.15,
			flagsets:   []*pflag.FlagSet{cfg.sweepCmd.Flags()},
		},
		{
			name: "Sweep.TMax",
			usage: `
              Sweep.TMax is the highest temperature in the sweep [K].`,
			defaultVal: 318.15,
			flagsets:   []*pflag.FlagSet{cfg.sweepCmd.Flags()},
		},
		{
			name: "Sweep.NT",
			usage: `
              Sweep.NT is the number of evenly spaced temperatures in the sweep.`,
			defaultVal: 9,
			flagsets:   []*pflag.FlagSet{cfg.sweepCmd.Flags()},
		},
		{
			name: "Sweep.CO2",
			usage: `
              Sweep.CO2 is a list of dissolved CO2 concentrations [μM].`,
			defaultVal: []string{"10"},
			flagsets:   []*pflag.FlagSet{cfg.sweepCmd.Flags()},
		},
		{
			name: "Sweep.O2",
			usage: `
              Sweep.O2 is a list of dissolved O2 concentrations [μM].`,
			defaultVal: []string{"250"},
			flagsets:   []*pflag.FlagSet{cfg.sweepCmd.Flags()},
		},
		{
			name: "OutputVariables",
			usage: `
              OutputVariables maps the names of output variables to
              expressions that calculate them from model variables,
              other output variables, and the functions exp, log, and celsius.`,
			defaultVal: carbonfix.DefaultOutputVariables,
			flagsets:   []*pflag.FlagSet{cfg.sweepCmd.Flags()},
		},
		{
			name: "OutputFile",
			usage: `
              OutputFile is the path to the desired output file location.
              The extension determines the format: .csv, .xlsx, or an image
              type (.png, .svg, .pdf) for a plot. If it is empty, the results
              are printed. It can include environment variables.`,
			defaultVal: "",
			shorthand:  "o",
			flagsets:   []*pflag.FlagSet{cfg.sweepCmd.Flags()},
		},
	}

	cfg.options = options

	// Set the prefix for configuration environment variables.
	cfg.SetEnvPrefix("CARBONFIX")
	cfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	cfg.AutomaticEnv()

	for _, option := range options {
		for i, set := range option.flagsets {
			if i != 0 { // We don't want to create the same flag twice.
				set.AddFlag(option.flagsets[0].Lookup(option.name))
				continue
			}
			switch v := option.defaultVal.(type) {
			case string:
				set.StringP(option.name, option.shorthand, v, option.usage)
			case []string:
				set.StringSliceP(option.name, option.shorthand, v, option.usage)
			case bool:
				set.BoolP(option.name, option.shorthand, v, option.usage)
			case int:
				set.IntP(option.name, option.shorthand, v, option.usage)
			case float64:
				set.Float64P(option.name, option.shorthand, v, option.usage)
			case map[string]string:
				b := bytes.NewBuffer(nil)
				e := json.NewEncoder(b)
				e.Encode(v)
				set.StringP(option.name, option.shorthand, strings.TrimSpace(b.String()), option.usage)
			default:
				panic("invalid argument type")
			}
		}
		cfg.BindPFlag(option.name, option.flagsets[0].Lookup(option.name))
	}

	// Link the commands together.
	cfg.Root.AddCommand(cfg.versionCmd)
	cfg.Root.AddCommand(cfg.speciesCmd)
	cfg.Root.AddCommand(cfg.solubilityCmd)
	cfg.Root.AddCommand(cfg.ratesCmd)
	cfg.Root.AddCommand(cfg.sweepCmd)

	return cfg
}

// setConfig finds and reads in the configuration file, if there is one,
// and sets the log level.
func (cfg *Cfg) setConfig() error {
	if cfgpath := cfg.GetString("config"); cfgpath != "" {
		cfg.SetConfigFile(os.ExpandEnv(cfgpath))
		if err := cfg.ReadInConfig(); err != nil {
			return fmt.Errorf("carbonfix: problem reading configuration file: %v", err)
		}
	}
	level, err := logrus.ParseLevel(cfg.GetString("LogLevel"))
	if err != nil {
		return fmt.Errorf("carbonfix: invalid LogLevel: %v", err)
	}
	cfg.Log.Level = level
	return nil
}
