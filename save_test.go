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
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"testing"

	"github.com/gonum/floats"
	"github.com/spatialmodel/carbonfix/science/rubisco"
	"github.com/tealeg/xlsx"
)

func testResults(t *testing.T) *Results {
	o, err := NewOutputter(nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	conds := Grid([]float64{288.15, 298.15, 308.15}, []float64{10, 20}, []float64{250})
	r, err := Evaluate(rubisco.AThaliana, conds, o)
	if err != nil {
		t.Fatal(err)
	}
	return r
}

func TestWriteCSV(t *testing.T) {
	r := testResults(t)
	b := new(bytes.Buffer)
	if err := r.WriteCSV(b); err != nil {
		t.Fatal(err)
	}
	records, err := csv.NewReader(b).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != r.Len()+1 {
		t.Fatalf("got %d records; want %d", len(records), r.Len()+1)
	}
	if !reflect.DeepEqual(records[0], r.Names) {
		t.Errorf("header %v != %v", records[0], r.Names)
	}
	for i, rec := range records[1:] {
		for j, n := range r.Names {
			v, err := strconv.ParseFloat(rec[j], 64)
			if err != nil {
				t.Fatal(err)
			}
			if v != r.Values[n][i] {
				t.Errorf("row %d, %s: %g != %g", i, n, v, r.Values[n][i])
			}
		}
	}
}

func TestWriteTable(t *testing.T) {
	r := testResults(t)
	b := new(bytes.Buffer)
	if err := r.WriteTable(b); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(b.String()), "\n")
	if len(lines) != r.Len()+1 {
		t.Errorf("got %d lines; want %d", len(lines), r.Len()+1)
	}
	if !strings.Contains(lines[0], "NetRate") {
		t.Errorf("header missing NetRate: %s", lines[0])
	}
}

func TestSave(t *testing.T) {
	r := testResults(t)
	dir := t.TempDir()

	t.Run("csv", func(t *testing.T) {
		f := filepath.Join(dir, "out.csv")
		if err := r.Save(f); err != nil {
			t.Fatal(err)
		}
		b, err := os.ReadFile(f)
		if err != nil {
			t.Fatal(err)
		}
		if !strings.HasPrefix(string(b), "T,CO2,O2,NetRate,Vc,Vo\n") {
			t.Errorf("unexpected header: %s", b)
		}
	})
	t.Run("xlsx", func(t *testing.T) {
		f := filepath.Join(dir, "out.xlsx")
		if err := r.Save(f); err != nil {
			t.Fatal(err)
		}
		x, err := xlsx.OpenFile(f)
		if err != nil {
			t.Fatal(err)
		}
		sheet, ok := x.Sheet["Results"]
		if !ok {
			t.Fatal("missing Results sheet")
		}
		if len(sheet.Rows) != r.Len()+1 {
			t.Errorf("got %d rows; want %d", len(sheet.Rows), r.Len()+1)
		}
		if v := sheet.Rows[0].Cells[3].Value; v != "NetRate" {
			t.Errorf("header cell %s != NetRate", v)
		}
		v, err := sheet.Rows[1].Cells[3].Float()
		if err != nil {
			t.Fatal(err)
		}
		if !floats.EqualWithinAbsOrRel(v, r.Values["NetRate"][0], testTolerance, testTolerance) {
			t.Errorf("%g != %g", v, r.Values["NetRate"][0])
		}
	})
	t.Run("png", func(t *testing.T) {
		f := filepath.Join(dir, "out.png")
		if err := r.Save(f); err != nil {
			t.Fatal(err)
		}
		if fi, err := os.Stat(f); err != nil || fi.Size() == 0 {
			t.Errorf("plot not written: %v", err)
		}
	})
	t.Run("unsupported", func(t *testing.T) {
		if err := r.Save(filepath.Join(dir, "out.shp")); err == nil {
			t.Error("expected an error")
		}
	})
}
