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
	"reflect"
	"testing"

	"github.com/gonum/floats"
	"github.com/spatialmodel/carbonfix/science/rubisco"
)

func TestGrid(t *testing.T) {
	g := Grid([]float64{290, 300}, []float64{10, 20}, []float64{250})
	want := []Condition{
		{Temperature: 290, CO2: 10, O2: 250},
		{Temperature: 290, CO2: 20, O2: 250},
		{Temperature: 300, CO2: 10, O2: 250},
		{Temperature: 300, CO2: 20, O2: 250},
	}
	if !reflect.DeepEqual(g, want) {
		t.Errorf("%v != %v", g, want)
	}
	if len(Grid(nil, []float64{1}, []float64{1})) != 0 {
		t.Error("an empty dimension should give no conditions")
	}
}

func TestSpan(t *testing.T) {
	s, err := Span(280, 320, 5)
	if err != nil {
		t.Fatal(err)
	}
	want := []float64{280, 290, 300, 310, 320}
	if !floats.EqualApprox(s, want, 1.e-12) {
		t.Errorf("%v != %v", s, want)
	}
	s, err = Span(300, 300, 1)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(s, []float64{300}) {
		t.Errorf("%v != [300]", s)
	}
	if _, err := Span(280, 320, 1); err == nil {
		t.Error("expected an error for a single value with a range")
	}
	if _, err := Span(280, 320, 0); err == nil {
		t.Error("expected an error for zero values")
	}
}

func TestConcreteCache(t *testing.T) {
	ctx := context.Background()
	p1, err := concrete(ctx, rubisco.AThaliana, 301)
	if err != nil {
		t.Fatal(err)
	}
	p2, err := concrete(ctx, rubisco.AThaliana, 301)
	if err != nil {
		t.Fatal(err)
	}
	if p1 != p2 {
		t.Error("repeated requests should share a result")
	}
	if want := rubisco.AThaliana.Concrete(301); !reflect.DeepEqual(p1, want) {
		t.Errorf("have %v, want %v", p1, want)
	}
	p3, err := concrete(ctx, rubisco.AThaliana, 302)
	if err != nil {
		t.Fatal(err)
	}
	if p3 == p1 {
		t.Error("different temperatures should not share a result")
	}
	if p, _ := concrete(ctx, rubisco.Spinach, 302); p != rubisco.Spinach {
		t.Error("fixed variants should be returned as is")
	}
}
