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
	"encoding/csv"
	"encoding/json"
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/carbonfix"
	"github.com/spatialmodel/carbonfix/science/rubisco"
)

func TestParseFloats(t *testing.T) {
	cfg := InitializeConfig()
	for _, test := range []struct {
		name string
		val  interface{}
		want []float64
		err  bool
	}{
		{name: "strings", val: []string{"1", "2.5"}, want: []float64{1, 2.5}},
		{name: "comma separated", val: []string{"1, 2", "3"}, want: []float64{1, 2, 3}},
		{name: "config list", val: []interface{}{10.0, int64(20)}, want: []float64{10, 20}},
		{name: "single", val: 4.0, want: []float64{4}},
		{name: "invalid", val: []string{"ten"}, err: true},
		{name: "empty", val: []string{}, err: true},
	} {
		t.Run(test.name, func(t *testing.T) {
			cfg.Set("Sweep.CO2", test.val)
			have, err := parseFloats("Sweep.CO2", cfg.Viper)
			if test.err {
				if err == nil {
					t.Error("expected an error")
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if !reflect.DeepEqual(have, test.want) {
				t.Errorf("have %v, want %v", have, test.want)
			}
		})
	}
}

func TestCheckOutputVars(t *testing.T) {
	os.Setenv("CARBONFIX_TEST_VAR", "Vc")
	defer os.Unsetenv("CARBONFIX_TEST_VAR")
	have, err := checkOutputVars(map[string]string{"A": "$CARBONFIX_TEST_VAR\n* 2"})
	if err != nil {
		t.Fatal(err)
	}
	if have["A"] != "Vc * 2" {
		t.Errorf("have %q", have["A"])
	}
	if _, err := checkOutputVars(nil); err == nil {
		t.Error("expected an error for no output variables")
	}
}

func TestCheckOutputFile(t *testing.T) {
	if f, err := checkOutputFile(""); err != nil || f != "" {
		t.Errorf("empty path: have %q, %v", f, err)
	}
	dir := t.TempDir()
	if _, err := checkOutputFile(filepath.Join(dir, "out.csv")); err != nil {
		t.Error(err)
	}
	if _, err := checkOutputFile(filepath.Join(dir, "missing", "out.csv")); err == nil {
		t.Error("expected an error for a missing directory")
	}
}

func TestGetStringMapString(t *testing.T) {
	cfg := InitializeConfig()
	want := map[string]string{"A": "Vc", "B": "Vo"}
	for _, val := range []interface{}{
		want,
		map[string]interface{}{"A": "Vc", "B": "Vo"},
		`{"A":"Vc","B":"Vo"}`,
	} {
		cfg.Set("OutputVariables", val)
		have, err := GetStringMapString("OutputVariables", cfg.Viper)
		if err != nil {
			t.Fatal(err)
		}
		if !reflect.DeepEqual(have, want) {
			t.Errorf("%#v: have %v, want %v", val, have, want)
		}
	}
	for _, val := range []interface{}{`{"A":"Vc"`, 12} {
		cfg.Set("OutputVariables", val)
		if _, err := GetStringMapString("OutputVariables", cfg.Viper); err == nil {
			t.Errorf("%#v: expected an error", val)
		}
	}
}

func TestOpenInput(t *testing.T) {
	log := logrus.New()
	path := filepath.Join(t.TempDir(), "lib.toml")
	if err := os.WriteFile(path, []byte(testLibrary), 0644); err != nil {
		t.Fatal(err)
	}
	r, err := openInput(context.Background(), log, path)
	if err != nil {
		t.Fatal(err)
	}
	r.Close()
	if _, err := openInput(context.Background(), log, path+".missing"); err == nil {
		t.Error("expected an error for a missing file")
	}
}

func TestMaybeUpload(t *testing.T) {
	var u uploader
	if f, err := u.maybeUpload("out.csv"); err != nil || f != "out.csv" {
		t.Errorf("local path: have %q, %v", f, err)
	}
	f, err := u.maybeUpload("gs://bucket/dir/out.xlsx")
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Base(f) != "out.xlsx" || !strings.HasPrefix(f, u.dir) {
		t.Errorf("staged path %q", f)
	}
	if len(u.files) != 1 || u.files[0][1] != "gs://bucket/dir/out.xlsx" {
		t.Errorf("files %v", u.files)
	}
	if err := u.cleanup(); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(u.dir); !os.IsNotExist(err) {
		t.Errorf("staging directory %s was not removed", u.dir)
	}
}

func TestSplitBlob(t *testing.T) {
	for _, test := range []struct{ path, bucket, key string }{
		{path: "gs://bucket/dir/out.csv", bucket: "gs://bucket", key: "dir/out.csv"},
		{path: "s3://bucket/out.csv", bucket: "s3://bucket", key: "out.csv"},
		{path: "file:///tmp/results/out.csv", bucket: "file:///tmp/results", key: "out.csv"},
		{path: "file://results/out.csv", bucket: "file://results", key: "out.csv"},
	} {
		bucket, key, err := splitBlob(test.path)
		if err != nil {
			t.Fatal(err)
		}
		if bucket != test.bucket || key != test.key {
			t.Errorf("%s: have (%s, %s), want (%s, %s)", test.path, bucket, key, test.bucket, test.key)
		}
	}
}

func TestBlobRoundTrip(t *testing.T) {
	dir := t.TempDir()
	lib := filepath.Join(dir, "lib.toml")
	if err := os.WriteFile(lib, []byte(testLibrary), 0644); err != nil {
		t.Fatal(err)
	}
	out, err := run(t, "rates", "--EnzymeLibrary=file://"+lib, "--enzyme=Custom", "--co2=20", "--o2=0")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "carboxylation rate: 2.5 s-1") {
		t.Errorf("unexpected output:\n%s", out)
	}

	result := "file://" + filepath.Join(dir, "out.csv")
	if _, err := run(t, "sweep", "--Sweep.NT=2", "--OutputFile="+result); err != nil {
		t.Fatal(err)
	}
	r, err := openInput(context.Background(), logrus.New(), result)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()
	recs, err := csv.NewReader(r).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 3 {
		t.Fatalf("have %d records, want 3", len(recs))
	}
	if want := "T,CO2,O2,NetRate,Vc,Vo"; strings.Join(recs[0], ",") != want {
		t.Errorf("header: have %v, want %s", recs[0], want)
	}

	if _, err := openInput(context.Background(), logrus.New(), "file://"+filepath.Join(dir, "missing.csv")); err == nil {
		t.Error("expected an error for a missing blob")
	}
}

func TestOpenInputRetry(t *testing.T) {
	var requests int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&requests, 1) == 1 {
			http.Error(w, "try again", http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(testLibrary))
	}))
	defer srv.Close()

	r, err := openInput(context.Background(), logrus.New(), srv.URL+"/lib.toml")
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()
	b, err := ioutil.ReadAll(r)
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != testLibrary {
		t.Errorf("have %q", b)
	}
	if n := atomic.LoadInt32(&requests); n != 2 {
		t.Errorf("have %d requests, want 2", n)
	}
}

func TestSweepCleansUp(t *testing.T) {
	tmp := t.TempDir()
	os.Setenv("TMPDIR", tmp)
	defer os.Unsetenv("TMPDIR")

	conds := []carbonfix.Condition{{Temperature: 298.15, CO2: 10, O2: 250}}
	// The extension is unsupported, so saving fails before any upload.
	err := Sweep(ioutil.Discard, logrus.New(), rubisco.Spinach, conds, nil, "gs://bucket/out.shp")
	if err == nil {
		t.Fatal("expected an error")
	}
	entries, err := ioutil.ReadDir(tmp)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("staging files were left behind: %d entries", len(entries))
	}
}

func TestConfigHandler(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`enzyme = "Tobacco"`), 0644); err != nil {
		t.Fatal(err)
	}
	cfg := InitializeConfig()
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/setConfig?config="+url.QueryEscape(path), nil)
	cfg.configHandler(w, r)
	if w.Code != http.StatusOK {
		t.Fatalf("status %d: %s", w.Code, w.Body.String())
	}
	var config map[string]interface{}
	if err := json.NewDecoder(w.Body).Decode(&config); err != nil {
		t.Fatal(err)
	}
	if config["enzyme"] != "Tobacco" {
		t.Errorf("enzyme: have %v", config["enzyme"])
	}
	if _, ok := config["Sweep.TMin"]; !ok {
		t.Error("missing Sweep.TMin")
	}

	w = httptest.NewRecorder()
	r = httptest.NewRequest(http.MethodGet, "/setConfig?config="+url.QueryEscape(path+".missing"), nil)
	cfg.configHandler(w, r)
	if w.Code != http.StatusNoContent {
		t.Errorf("missing file: status %d", w.Code)
	}
}
