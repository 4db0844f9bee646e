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
	"encoding/csv"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// run executes the command line args and returns what it printed.
func run(t *testing.T, args ...string) (string, error) {
	cfg := InitializeConfig()
	buf := new(bytes.Buffer)
	cfg.Root.SetOutput(buf)
	cfg.Root.SetArgs(args)
	err := cfg.Root.Execute()
	return buf.String(), err
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	if err != nil {
		t.Fatal(err)
	}
	if out != "CarbonFix v0.1.0\n" {
		t.Errorf("have %q", out)
	}
}

func TestSpecies(t *testing.T) {
	out, err := run(t, "species")
	if err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"A. thaliana", "PCC7942", "Rubrum", "Spinach", "Maize", "Tobacco"} {
		if !strings.Contains(out, name) {
			t.Errorf("missing %s in:\n%s", name, out)
		}
	}
}

func TestSolubility(t *testing.T) {
	t.Run("reference", func(t *testing.T) {
		out, err := run(t, "solubility", "--gas=O2")
		if err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(out, "O2 at 298.15 K") || !strings.Contains(out, "solubility: 1.2e-05 mol") {
			t.Errorf("unexpected output:\n%s", out)
		}
	})
	t.Run("temperature", func(t *testing.T) {
		out, err := run(t, "solubility", "--gas=co2", "--temp=310")
		if err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(out, "CO2 at 310 K") {
			t.Errorf("unexpected output:\n%s", out)
		}
	})
	t.Run("invalid gas", func(t *testing.T) {
		if _, err := run(t, "solubility", "--gas=N2"); err == nil {
			t.Error("expected an error")
		}
	})
}

func TestRates(t *testing.T) {
	t.Run("fixed", func(t *testing.T) {
		out, err := run(t, "rates", "--enzyme=PCC7942", "--co2=200", "--o2=200")
		if err != nil {
			t.Fatal(err)
		}
		for _, want := range []string{
			"PCC7942 at CO2=200 μM, O2=200 μM",
			"carboxylation rate: 6.685183",
			"oxygenation rate: 0.155469",
		} {
			if !strings.Contains(out, want) {
				t.Errorf("missing %q in:\n%s", want, out)
			}
		}
	})
	t.Run("reference temperature", func(t *testing.T) {
		out, err := run(t, "rates", "--enzyme=a. thaliana")
		if err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(out, "A. thaliana at 298.15 K") {
			t.Errorf("unexpected output:\n%s", out)
		}
	})
	t.Run("temperature", func(t *testing.T) {
		out, err := run(t, "rates", "-t", "305")
		if err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(out, "A. thaliana at 305 K") {
			t.Errorf("unexpected output:\n%s", out)
		}
	})
	t.Run("zero temperature", func(t *testing.T) {
		if _, err := run(t, "rates", "--temp=0"); err == nil {
			t.Error("expected an error")
		}
	})
	t.Run("negative concentration", func(t *testing.T) {
		if _, err := run(t, "rates", "--co2=-1"); err == nil {
			t.Error("expected an error")
		}
	})
	t.Run("unknown enzyme", func(t *testing.T) {
		_, err := run(t, "rates", "--enzyme=Kudzu")
		if err == nil || !strings.Contains(err.Error(), "Tobacco") {
			t.Errorf("expected an error listing the variants, got %v", err)
		}
	})
}

const testLibrary = `
[[Fixed]]
Name = "Custom"
KcatC = 5.0
KC = 20.0
KO = 400.0
S = 90.0
`

func TestEnzymeLibrary(t *testing.T) {
	t.Run("local", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "lib.toml")
		if err := os.WriteFile(path, []byte(testLibrary), 0644); err != nil {
			t.Fatal(err)
		}
		out, err := run(t, "rates", "--EnzymeLibrary="+path, "--enzyme=custom", "--co2=20", "--o2=0")
		if err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(out, "carboxylation rate: 2.5 s-1") {
			t.Errorf("unexpected output:\n%s", out)
		}
	})
	t.Run("http", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(testLibrary))
		}))
		defer srv.Close()
		out, err := run(t, "species", "--EnzymeLibrary="+srv.URL+"/lib.toml")
		if err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(out, "Custom") {
			t.Errorf("unexpected output:\n%s", out)
		}
	})
	t.Run("not found", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		defer srv.Close()
		if _, err := run(t, "species", "--EnzymeLibrary="+srv.URL+"/lib.toml"); err == nil {
			t.Error("expected an error")
		}
	})
}

func TestSweep(t *testing.T) {
	t.Run("table", func(t *testing.T) {
		out, err := run(t, "sweep", "--Sweep.NT=3", "--Sweep.CO2=10,20")
		if err != nil {
			t.Fatal(err)
		}
		lines := strings.Split(strings.TrimSpace(out), "\n")
		if len(lines) != 7 {
			t.Fatalf("have %d lines, want 7:\n%s", len(lines), out)
		}
		for _, col := range []string{"T", "CO2", "O2", "Vc", "Vo", "NetRate"} {
			if !strings.Contains(lines[0], col) {
				t.Errorf("header %q missing %s", lines[0], col)
			}
		}
	})
	t.Run("csv", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "out.csv")
		_, err := run(t, "sweep", "--enzyme=Spinach", "--Sweep.NT=2", "--Sweep.O2=0,250",
			`--OutputVariables={"Net":"NetRate","Half":"Net/2"}`, "--OutputFile="+path)
		if err != nil {
			t.Fatal(err)
		}
		f, err := os.Open(path)
		if err != nil {
			t.Fatal(err)
		}
		defer f.Close()
		recs, err := csv.NewReader(f).ReadAll()
		if err != nil {
			t.Fatal(err)
		}
		if len(recs) != 5 {
			t.Fatalf("have %d records, want 5", len(recs))
		}
		want := []string{"T", "CO2", "O2", "Half", "Net"}
		if strings.Join(recs[0], ",") != strings.Join(want, ",") {
			t.Errorf("header: have %v, want %v", recs[0], want)
		}
	})
	t.Run("malformed output variables", func(t *testing.T) {
		_, err := run(t, "sweep", `--OutputVariables={"X":"Vc"`)
		if err == nil || !strings.Contains(err.Error(), "OutputVariables") {
			t.Errorf("expected an OutputVariables error, got %v", err)
		}
	})
	t.Run("non-numeric function argument", func(t *testing.T) {
		if _, err := run(t, "sweep", `--OutputVariables={"X":"exp(T > 300)"}`); err == nil {
			t.Error("expected an error")
		}
	})
	t.Run("bad output variable", func(t *testing.T) {
		if _, err := run(t, "sweep", `--OutputVariables={"X":"Y"}`); err == nil {
			t.Error("expected an error")
		}
	})
	t.Run("bad temperatures", func(t *testing.T) {
		if _, err := run(t, "sweep", "--Sweep.NT=0"); err == nil {
			t.Error("expected an error")
		}
	})
	t.Run("missing directory", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "missing", "out.csv")
		if _, err := run(t, "sweep", "--OutputFile="+path); err == nil {
			t.Error("expected an error")
		}
	})
}

func TestConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	const config = `
enzyme = "Maize"
co2 = 100.0
temp = 300.0
`
	if err := os.WriteFile(path, []byte(config), 0644); err != nil {
		t.Fatal(err)
	}
	out, err := run(t, "rates", "--config="+path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Maize at 300 K, CO2=100 μM, O2=250 μM") {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestBadLogLevel(t *testing.T) {
	if _, err := run(t, "version", "--LogLevel=loud"); err == nil {
		t.Error("expected an error")
	}
}
