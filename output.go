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

package carbonfix

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"

	"github.com/Knetic/govaluate"
	"github.com/spatialmodel/carbonfix/science/rubisco"
	"github.com/spatialmodel/carbonfix/science/solubility"
)

// ModelVariables are the variables available for use in output expressions,
// with their descriptions.
var ModelVariables = map[string]string{
	"T":              "temperature [K]",
	"CO2":            "dissolved CO2 concentration [μM]",
	"O2":             "dissolved O2 concentration [μM]",
	"Vc":             "carboxylation rate per active site [s-1]",
	"Vo":             "oxygenation rate per active site [s-1]",
	"NetRate":        "net carboxylation rate per active site [s-1]",
	"NetRatePerMass": "net carboxylation rate per enzyme mass [mol g-1 s-1]",
	"KcatC":          "carboxylation turnover number [s-1]",
	"KcatO":          "oxygenation turnover number [s-1]",
	"KC":             "Michaelis constant for CO2 [μM]",
	"KO":             "Michaelis constant for O2 [μM]",
	"S":              "specificity factor [-]",
	"MolarMass":      "mass per active site [g mol-1]",
	"CO2Sol":         "CO2 solubility coefficient [mol m-3 Pa-1]",
	"O2Sol":          "O2 solubility coefficient [mol m-3 Pa-1]",
}

// DefaultOutputVariables are the output variables used when none are specified.
var DefaultOutputVariables = map[string]string{
	"Vc":      "Vc",
	"Vo":      "Vo",
	"NetRate": "NetRate",
}

// conditionColumns are always included in the results.
var conditionColumns = []string{"T", "CO2", "O2"}

// modelValues calculates the values of ModelVariables at condition c.
// p must be m.Concrete(c.Temperature).
func modelValues(p *rubisco.Params, c Condition) map[string]interface{} {
	vc, vo := p.Rates(c.CO2, c.O2)
	net := vc - vo/2
	return map[string]interface{}{
		"T":              c.Temperature,
		"CO2":            c.CO2,
		"O2":             c.O2,
		"Vc":             vc,
		"Vo":             vo,
		"NetRate":        net,
		"NetRatePerMass": net / p.MolarMass(),
		"KcatC":          p.KcatC(),
		"KcatO":          p.KcatO(),
		"KC":             p.KC(),
		"KO":             p.KO(),
		"S":              p.S(),
		"MolarMass":      p.MolarMass(),
		"CO2Sol":         solubility.CO2.Coefficient(c.Temperature),
		"O2Sol":          solubility.O2.Coefficient(c.Temperature),
	}
}

// Outputter calculates output variables from model variables.
//
// outputVariables maps the names of the variables for which data
// should be returned to expressions that define how the
// requested data should be calculated. These expressions can utilize
// ModelVariables, other output variables, and functions.
type Outputter struct {
	outputVariables map[string]string
	outputFunctions map[string]govaluate.ExpressionFunction

	// order is the order in which the output variables must be
	// calculated so that each is calculated after the output
	// variables it depends on.
	order []string

	// names holds the sorted output variable names.
	names []string
}

// NewOutputter initializes a new Outputter and adds a set of default
// output functions. Default functions include:
//
// 'exp(x)' which applies the exponential function e^x.
//
// 'log(x)' which calculates the natural logarithm of x.
//
// 'celsius(T)' which converts a temperature in kelvin to degrees Celsius.
//
// If outputVariables is empty, DefaultOutputVariables are used.
func NewOutputter(outputVariables map[string]string, outputFunctions map[string]govaluate.ExpressionFunction) (*Outputter, error) {
	defaultOutputFuncs := map[string]govaluate.ExpressionFunction{
		"exp": func(arg ...interface{}) (interface{}, error) {
			x, err := numberArg("exp", arg)
			if err != nil {
				return nil, err
			}
			return math.Exp(x), nil
		},
		"log": func(arg ...interface{}) (interface{}, error) {
			x, err := numberArg("log", arg)
			if err != nil {
				return nil, err
			}
			return math.Log(x), nil
		},
		"celsius": func(arg ...interface{}) (interface{}, error) {
			x, err := numberArg("celsius", arg)
			if err != nil {
				return nil, err
			}
			return x - 273.15, nil
		},
	}
	for key, val := range outputFunctions {
		defaultOutputFuncs[key] = val
	}

	if len(outputVariables) == 0 {
		outputVariables = DefaultOutputVariables
	}
	o := &Outputter{
		outputVariables: make(map[string]string, len(outputVariables)),
		outputFunctions: defaultOutputFuncs,
	}
	for k, v := range outputVariables {
		v = strings.Replace(v, "\r\n", " ", -1)
		v = strings.Replace(v, "\n", " ", -1)
		o.outputVariables[k] = v
		o.names = append(o.names, k)
	}
	sort.Strings(o.names)

	if err := checkOutputNames(o.outputVariables); err != nil {
		return nil, err
	}
	deps, err := o.dependencies()
	if err != nil {
		return nil, err
	}
	if o.order, err = evaluationOrder(o.names, deps); err != nil {
		return nil, err
	}
	return o, nil
}

// numberArg returns the single numeric argument of function name.
func numberArg(name string, arg []interface{}) (float64, error) {
	if len(arg) != 1 {
		return math.NaN(), fmt.Errorf("carbonfix: got %d arguments for function '%s', but needs 1", len(arg), name)
	}
	x, ok := arg[0].(float64)
	if !ok {
		return math.NaN(), fmt.Errorf("carbonfix: function '%s' needs a number; got %T", name, arg[0])
	}
	return x, nil
}

// Names returns the sorted names of the output variables.
func (o *Outputter) Names() []string { return o.names }

// dependencies identifies the other output variables that each output
// variable depends on, and checks that all other variables are
// ModelVariables. A reference by an output variable to its own
// name refers to the model variable with that name.
func (o *Outputter) dependencies() (map[string][]string, error) {
	deps := make(map[string][]string)
	for _, key := range o.names {
		expression, err := govaluate.NewEvaluableExpressionWithFunctions(o.outputVariables[key], o.outputFunctions)
		if err != nil {
			return nil, fmt.Errorf("carbonfix: output variable '%s': %v", key, err)
		}
		for _, v := range removeDuplicates(expression.Vars()) {
			if _, ok := o.outputVariables[v]; ok && v != key {
				deps[key] = append(deps[key], v)
				continue
			}
			if _, ok := ModelVariables[v]; !ok {
				return nil, fmt.Errorf("carbonfix: output variable '%s': undefined variable name '%s'", key, v)
			}
		}
	}
	return deps, nil
}

// evaluationOrder sorts names so that every name comes after its
// dependencies, returning an error for circular references.
func evaluationOrder(names []string, deps map[string][]string) ([]string, error) {
	const (
		unvisited = iota
		visiting
		done
	)
	state := make(map[string]int)
	order := make([]string, 0, len(names))
	var visit func(n string, path []string) error
	visit = func(n string, path []string) error {
		switch state[n] {
		case done:
			return nil
		case visiting:
			return fmt.Errorf("carbonfix: circular reference in output variables: %s",
				strings.Join(append(path, n), " -> "))
		}
		state[n] = visiting
		for _, d := range deps[n] {
			if err := visit(d, append(path, n)); err != nil {
				return err
			}
		}
		state[n] = done
		order = append(order, n)
		return nil
	}
	for _, n := range names {
		if err := visit(n, nil); err != nil {
			return nil, err
		}
	}
	return order, nil
}

// removeDuplicates removes all duplicated strings from a slice, returning a
// slice that contains only unique strings.
func removeDuplicates(s []string) []string {
	result := make([]string, 0, len(s))
	seen := make(map[string]struct{})
	for _, val := range s {
		if _, ok := seen[val]; !ok {
			result = append(result, val)
			seen[val] = struct{}{}
		}
	}
	return result
}

// checkOutputNames checks that output variable names are valid column
// names and do not replace the condition columns.
func checkOutputNames(o map[string]string) error {
	valid := regexp.MustCompile(`^[A-Za-z]\w*$`)
	for key := range o {
		if !valid.MatchString(key) {
			return fmt.Errorf("carbonfix: output variable name '%s' includes unsupported characters", key)
		}
		for _, c := range conditionColumns {
			if key == c {
				return fmt.Errorf("carbonfix: output variable name '%s' is reserved for the condition", key)
			}
		}
	}
	return nil
}

// evaluator calculates output variables for one condition at a time.
// It is not safe for concurrent use.
type evaluator struct {
	o           *Outputter
	expressions map[string]*govaluate.EvaluableExpression
}

// evaluator compiles the output expressions.
func (o *Outputter) evaluator() (*evaluator, error) {
	e := &evaluator{o: o, expressions: make(map[string]*govaluate.EvaluableExpression)}
	for key, val := range o.outputVariables {
		expression, err := govaluate.NewEvaluableExpressionWithFunctions(val, o.outputFunctions)
		if err != nil {
			return nil, fmt.Errorf("carbonfix: output variable '%s': %v", key, err)
		}
		e.expressions[key] = expression
	}
	return e, nil
}

// evaluate calculates the output variables, in the order of o.names,
// from the given model variable values.
func (e *evaluator) evaluate(modelVals map[string]interface{}) ([]float64, error) {
	computed := make(map[string]float64, len(e.o.order))
	for _, key := range e.o.order {
		params := make(map[string]interface{}, len(modelVals)+len(computed))
		for k, v := range modelVals {
			params[k] = v
		}
		for k, v := range computed {
			if k != key {
				params[k] = v
			}
		}
		r, err := e.expressions[key].Evaluate(params)
		if err != nil {
			return nil, fmt.Errorf("carbonfix: evaluating output variable '%s': %v", key, err)
		}
		v, ok := r.(float64)
		if !ok {
			return nil, fmt.Errorf("carbonfix: output variable '%s' evaluates to %T, not a number", key, r)
		}
		computed[key] = v
	}
	vals := make([]float64, len(e.o.names))
	for i, n := range e.o.names {
		vals[i] = computed[n]
	}
	return vals, nil
}
