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
	"context"
	"fmt"
	"runtime"
	"strconv"
	"sync"

	"github.com/ctessum/requestcache"
	"github.com/spatialmodel/carbonfix/internal/hash"
	"github.com/spatialmodel/carbonfix/science/rubisco"
)

// ConcreteCacheSize is the number of temperature-specific parameter sets
// held in memory for reuse between evaluations.
var ConcreteCacheSize = 1000

var (
	concreteCache     *requestcache.Cache
	concreteCacheInit sync.Once
)

type concreteRequest struct {
	m rubisco.Model
	t float64
}

// concrete returns the parameters of m at temperature t. Results are shared
// among concurrent callers and subsequent evaluations.
func concrete(ctx context.Context, m rubisco.Model, t float64) (*rubisco.Params, error) {
	if _, ok := m.(*rubisco.Params); ok {
		return m.Concrete(t), nil
	}
	concreteCacheInit.Do(func() {
		concreteCache = requestcache.NewCache(func(ctx context.Context, request interface{}) (interface{}, error) {
			r := request.(concreteRequest)
			return r.m.Concrete(r.t), nil
		}, runtime.GOMAXPROCS(-1),
			requestcache.Deduplicate(), requestcache.Memory(ConcreteCacheSize))
	})
	req := concreteCache.NewRequest(ctx, concreteRequest{m: m, t: t},
		hash.Hash(m)+"_"+strconv.FormatFloat(t, 'g', -1, 64))
	p, err := req.Result()
	if err != nil {
		return nil, fmt.Errorf("carbonfix: calculating %s parameters at %g K: %v", m.Name(), t, err)
	}
	return p.(*rubisco.Params), nil
}

// Results holds evaluated variables. Each column has one value per
// evaluated condition.
type Results struct {
	// Names holds the column names: the condition columns T, CO2, and
	// O2, followed by the sorted output variable names.
	Names []string

	// Values holds the values of each column.
	Values map[string][]float64
}

func newResults(conds []Condition, outputNames []string) *Results {
	r := &Results{
		Names:  append(append([]string{}, conditionColumns...), outputNames...),
		Values: make(map[string][]float64),
	}
	for _, n := range r.Names {
		r.Values[n] = make([]float64, len(conds))
	}
	for i, c := range conds {
		r.Values["T"][i] = c.Temperature
		r.Values["CO2"][i] = c.CO2
		r.Values["O2"][i] = c.O2
	}
	return r
}

// Len returns the number of rows in r.
func (r *Results) Len() int {
	if len(r.Names) == 0 {
		return 0
	}
	return len(r.Values[r.Names[0]])
}

// Evaluate calculates the output variables specified by o for RuBisCO
// variant m at each of the given conditions. Conditions are
// evaluated concurrently.
func Evaluate(m rubisco.Model, conds []Condition, o *Outputter) (*Results, error) {
	if m == nil {
		return nil, fmt.Errorf("carbonfix: no RuBisCO variant specified")
	}
	if o == nil {
		return nil, fmt.Errorf("carbonfix: no outputter specified")
	}
	r := newResults(conds, o.names)
	outputs := make([][]float64, len(o.names))
	for i, n := range o.names {
		outputs[i] = r.Values[n]
	}

	ctx := context.TODO()
	nprocs := runtime.GOMAXPROCS(0) // number of processors
	errs := make([]error, nprocs)
	var wg sync.WaitGroup
	wg.Add(nprocs)
	for pp := 0; pp < nprocs; pp++ {
		go func(pp int) {
			defer wg.Done()
			e, err := o.evaluator()
			if err != nil {
				errs[pp] = err
				return
			}
			var p *rubisco.Params
			var lastT float64
			for ii := pp; ii < len(conds); ii += nprocs {
				c := conds[ii]
				if p == nil || c.Temperature != lastT {
					if p, err = concrete(ctx, m, c.Temperature); err != nil {
						errs[pp] = err
						return
					}
					lastT = c.Temperature
				}
				vals, err := e.evaluate(modelValues(p, c))
				if err != nil {
					errs[pp] = fmt.Errorf("%v (T=%g K, CO2=%g μM, O2=%g μM)", err, c.Temperature, c.CO2, c.O2)
					return
				}
				// Each row is only written by one goroutine.
				for j, v := range vals {
					outputs[j][ii] = v
				}
			}
		}(pp)
	}
	wg.Wait()
	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return r, nil
}
