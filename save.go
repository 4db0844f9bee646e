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
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/tealeg/xlsx"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// Save writes r to fileName, which can include environment variables.
// The format is determined by the file extension:
// ".csv" for comma-separated values, ".xlsx" for an Excel spreadsheet,
// and ".png", ".svg", ".pdf", ".eps", ".jpg", or ".tif" for a
// plot of each output variable against temperature.
func (r *Results) Save(fileName string) error {
	fileName = os.ExpandEnv(fileName)
	switch ext := strings.ToLower(filepath.Ext(fileName)); ext {
	case ".csv":
		f, err := os.Create(fileName)
		if err != nil {
			return fmt.Errorf("carbonfix: creating output file: %v", err)
		}
		if err := r.WriteCSV(f); err != nil {
			f.Close()
			return err
		}
		return f.Close()
	case ".xlsx":
		return r.saveXLSX(fileName)
	case ".png", ".svg", ".pdf", ".eps", ".jpg", ".jpeg", ".tif", ".tiff":
		return r.savePlot(fileName)
	default:
		return fmt.Errorf("carbonfix: unsupported output file type '%s'; valid options are .csv, .xlsx, .png, .svg, .pdf, .eps, .jpg, and .tif", ext)
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// WriteCSV writes r to w in comma-separated-value format with a header row.
func (r *Results) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(r.Names); err != nil {
		return fmt.Errorf("carbonfix: writing csv: %v", err)
	}
	row := make([]string, len(r.Names))
	for i := 0; i < r.Len(); i++ {
		for j, n := range r.Names {
			row[j] = formatFloat(r.Values[n][i])
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("carbonfix: writing csv: %v", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("carbonfix: writing csv: %v", err)
	}
	return nil
}

// WriteTable writes r to w as an aligned text table.
func (r *Results) WriteTable(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, strings.Join(r.Names, "\t")+"\t")
	row := make([]string, len(r.Names))
	for i := 0; i < r.Len(); i++ {
		for j, n := range r.Names {
			row[j] = strconv.FormatFloat(r.Values[n][i], 'g', 6, 64)
		}
		fmt.Fprintln(tw, strings.Join(row, "\t")+"\t")
	}
	return tw.Flush()
}

// saveXLSX writes r to a spreadsheet with a single sheet.
func (r *Results) saveXLSX(fileName string) error {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet("Results")
	if err != nil {
		return fmt.Errorf("carbonfix: creating spreadsheet: %v", err)
	}
	row := sheet.AddRow()
	for _, n := range r.Names {
		row.AddCell().SetString(n)
	}
	for i := 0; i < r.Len(); i++ {
		row = sheet.AddRow()
		for _, n := range r.Names {
			row.AddCell().SetFloat(r.Values[n][i])
		}
	}
	if err := f.Save(fileName); err != nil {
		return fmt.Errorf("carbonfix: saving spreadsheet: %v", err)
	}
	return nil
}

// gasPair identifies one line in a plot.
type gasPair struct{ co2, o2 float64 }

// savePlot plots each output variable against temperature, with one line
// for each combination of CO2 and O2 concentrations.
func (r *Results) savePlot(fileName string) error {
	p, err := plot.New()
	if err != nil {
		return fmt.Errorf("carbonfix: creating plot: %v", err)
	}
	p.X.Label.Text = "Temperature (K)"
	p.Legend.Top = true

	var pairs []gasPair
	rows := make(map[gasPair][]int)
	for i := 0; i < r.Len(); i++ {
		g := gasPair{co2: r.Values["CO2"][i], o2: r.Values["O2"][i]}
		if _, ok := rows[g]; !ok {
			pairs = append(pairs, g)
		}
		rows[g] = append(rows[g], i)
	}

	var lines []interface{}
	for _, n := range r.Names[len(conditionColumns):] {
		for _, g := range pairs {
			idx := rows[g]
			xy := make(plotter.XYs, len(idx))
			for j, i := range idx {
				xy[j].X = r.Values["T"][i]
				xy[j].Y = r.Values[n][i]
			}
			sort.Slice(xy, func(a, b int) bool { return xy[a].X < xy[b].X })
			label := n
			if len(pairs) > 1 {
				label = fmt.Sprintf("%s (CO2=%g μM, O2=%g μM)", n, g.co2, g.o2)
			}
			lines = append(lines, label, xy)
		}
	}
	if err := plotutil.AddLinePoints(p, lines...); err != nil {
		return fmt.Errorf("carbonfix: creating plot: %v", err)
	}
	if err := p.Save(6*vg.Inch, 4*vg.Inch, fileName); err != nil {
		return fmt.Errorf("carbonfix: saving plot: %v", err)
	}
	return nil
}
