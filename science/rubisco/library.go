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
	"io"
	"os"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
)

// Library holds RuBisCO variants by name. Names are matched
// without regard to case.
type Library map[string]Model

// Builtin returns a new Library holding the variants defined in this package.
func Builtin() Library {
	l := make(Library)
	for _, m := range []Model{PCC7942, Rubrum, Spinach, Maize, Tobacco, AThaliana} {
		l.Add(m)
	}
	return l
}

// Add adds m to the library, replacing any variant with the same name.
func (l Library) Add(m Model) {
	l[strings.ToLower(m.Name())] = m
}

// Merge adds all of the variants in o to l, replacing any with the same name.
func (l Library) Merge(o Library) {
	for _, m := range o {
		l.Add(m)
	}
}

// Lookup returns the variant with the given name.
func (l Library) Lookup(name string) (Model, error) {
	m, ok := l[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("rubisco: unknown variant '%s'; valid options are %s",
			name, strings.Join(l.Names(), ", "))
	}
	return m, nil
}

// Names returns the sorted names of the variants in the library.
func (l Library) Names() []string {
	names := make([]string, 0, len(l))
	for _, m := range l {
		names = append(names, m.Name())
	}
	sort.Strings(names)
	return names
}

// arrheniusRecord is the file representation of an Arrhenius parameter.
type arrheniusRecord struct {
	Value, RefTemp, EAct float64
}

func (r arrheniusRecord) arrhenius() Arrhenius {
	return NewArrhenius(r.Value, r.RefTemp, r.EAct)
}

// libraryFile is the file representation of a Library.
type libraryFile struct {
	Fixed []struct {
		Name             string
		KcatC, KC, KO, S float64
		MolarMass        *float64
	}
	TemperatureDependent []struct {
		Name               string
		RefTemp, MolarMass *float64
		KcatC, KC, KO, S   arrheniusRecord
	}
}

// orDefault returns *v, or def if v was not set.
func orDefault(v *float64, def float64) float64 {
	if v == nil {
		return def
	}
	return *v
}

// DecodeLibrary reads a library of RuBisCO variants in TOML format, for
// example:
//
//	[[Fixed]]
//	Name = "Custom"
//	KcatC = 5.0    # s-1
//	KC = 20.0      # μM
//	KO = 400.0     # μM
//	S = 90.0
//	MolarMass = 60000.0
//
//	[[TemperatureDependent]]
//	Name = "Warm"
//	RefTemp = 298.15
//	KcatC = {Value = 3.1, RefTemp = 298.15, EAct = 59.6}   # s-1, K, kJ/mol
//	KC = {Value = 36, RefTemp = 298.15, EAct = 63.0}       # Pa
//	KO = {Value = 23100, RefTemp = 298.15, EAct = 16.9}    # Pa
//	S = {Value = 2003, RefTemp = 298.15, EAct = -28.7}
//
// An omitted MolarMass defaults to DefaultMolarMass and an omitted RefTemp
// defaults to DefaultRefTemp. Values given explicitly, including zero, are
// used as is. Every variant is validated.
func DecodeLibrary(r io.Reader) (Library, error) {
	var f libraryFile
	md, err := toml.DecodeReader(r, &f)
	if err != nil {
		return nil, fmt.Errorf("rubisco: decoding library: %v", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("rubisco: decoding library: unknown keys %v", undecoded)
	}
	l := make(Library)
	add := func(m interface {
		Model
		Validate() error
	}) error {
		if m.Name() == "" {
			return fmt.Errorf("rubisco: decoding library: variant with no name")
		}
		if _, ok := l[strings.ToLower(m.Name())]; ok {
			return fmt.Errorf("rubisco: decoding library: duplicate variant '%s'", m.Name())
		}
		if err := m.Validate(); err != nil {
			return err
		}
		l.Add(m)
		return nil
	}
	for _, v := range f.Fixed {
		mw := orDefault(v.MolarMass, DefaultMolarMass)
		if err := add(NewParams(v.Name, v.KcatC, v.KC, v.KO, v.S, mw)); err != nil {
			return nil, err
		}
	}
	for _, v := range f.TemperatureDependent {
		m := NewArrheniusRubisco(v.Name, v.KcatC.arrhenius(), v.KC.arrhenius(),
			v.KO.arrhenius(), v.S.arrhenius(),
			orDefault(v.RefTemp, DefaultRefTemp), orDefault(v.MolarMass, DefaultMolarMass))
		if err := add(m); err != nil {
			return nil, err
		}
	}
	return l, nil
}

// ReadLibrary reads a library of RuBisCO variants from the TOML file
// at path, which can include environment variables.
func ReadLibrary(path string) (Library, error) {
	f, err := os.Open(os.ExpandEnv(path))
	if err != nil {
		return nil, fmt.Errorf("rubisco: opening library: %v", err)
	}
	defer f.Close()
	return DecodeLibrary(f)
}
