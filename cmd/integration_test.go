package cmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/tabloom-cli/internal/crime"
)

const moviesCSV = `title,year,duration,ratingValue,gross,description,castList,directorList,genreList
Jaws,1975,124,8.1,"$260,000,000",Shark.,"['Roy Scheider', 'Robert Shaw']",['Steven Spielberg'],"['Adventure', 'Thriller']"
Lawrence of Arabia,1962,228,8.3,,Desert.,"[""Peter O'Toole""]",['David Lean'],"['Adventure', 'Drama']"
`

const crimeCSV = "OFFENSE_CODE_GROUP,OFFENSE_DESCRIPTION,DISTRICT,SHOOTING,OCCURRED_ON_DATE,UCR_PART,DAY_OF_WEEK,HOUR,Lat,Long\n" +
	"Larceny,LARCENY SHOPLIFTING,B2,,2024-03-01 14:30:00,Part One,Friday,14,42.33,-71.08\n" +
	"Aggravated Assault,ASSAULT,B2,Y,2024-03-01 23:10:00,Part One,Friday,23,42.31,-71.06\n" +
	"Vandalism,VANDALISM,D4,,2024-03-02 10:00:00,Part Two,Saturday,10,-1,-1\n"

var resettableFlags = []string{
	"min-rating", "year-from", "year-to", "max-duration", "genre", "seed",
	"district", "log-level", "metrics",
}

// runCmd executes the root command with args and returns what it printed.
func runCmd(t *testing.T, args ...string) string {
	t.Helper()
	out, err := execCmd(args...)
	if err != nil {
		t.Fatalf("command %v failed: %v", args, err)
	}
	return out
}

func execCmd(args ...string) (string, error) {
	// Reset bound variables; cobra keeps flag values between Execute calls
	movOutputPath, movJSON, movDirector, movRecommend = "", false, "", false
	movEpicMin, movTop, movYearFrom, movYearTo, movMaxDuration = 0, 0, 0, 0, 0
	movMinRating, movGenres, movSeed = 0, nil, 0
	crOutputPath, crJSON, crFrom, crTo, crDistricts = "", false, "", "", nil
	insOutputPath, insSampleRows, insMaxRows, insQuiet = "", 5, 100000, false
	insDelimiter, insDecimal, insThousands = "", "", ""
	cfgFile, flagLogLevel, flagMetrics = "", "", false
	for _, c := range []*cobra.Command{moviesCmd, crimeCmd, inspectCmd, rootCmd} {
		for _, name := range resettableFlags {
			if fl := c.Flags().Lookup(name); fl != nil {
				fl.Changed = false
			}
			if fl := c.PersistentFlags().Lookup(name); fl != nil {
				fl.Changed = false
			}
		}
	}

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

func isolateHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(home); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })
	return home
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return p
}

func TestCLI_MoviesReport(t *testing.T) {
	home := isolateHome(t)
	p := writeFile(t, home, "top.csv", moviesCSV)

	out := runCmd(t, "movies", p, "--epic-min", "200", "--recommend", "--genre", "Drama", "--seed", "1")
	for _, want := range []string{"# Movie Explorer: top.csv", "Lawrence of Arabia", "Steven Spielberg marathon", "Pick: **Lawrence of Arabia**"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}

func TestCLI_MoviesJSONMatchesCSV(t *testing.T) {
	home := isolateHome(t)
	csvPath := writeFile(t, home, "top.csv", moviesCSV)
	jsonPath := writeFile(t, home, "top.json", `[
	  {"title": "Jaws", "year": 1975, "duration": 124, "ratingValue": 8.1, "gross": 260000000, "description": "Shark.",
	   "castList": ["Roy Scheider", "Robert Shaw"], "directorList": ["Steven Spielberg"], "genreList": ["Adventure", "Thriller"]},
	  {"title": "Lawrence of Arabia", "year": 1962, "duration": 228, "ratingValue": 8.3, "gross": null, "description": "Desert.",
	   "castList": ["Peter O'Toole"], "directorList": ["David Lean"], "genreList": ["Adventure", "Drama"]}
	]`)

	decode := func(path string) map[string]any {
		var m map[string]any
		if err := json.Unmarshal([]byte(runCmd(t, "movies", path, "--json")), &m); err != nil {
			t.Fatalf("decode %s: %v", path, err)
		}
		delete(m, "dataset")
		return m
	}
	a, b := decode(csvPath), decode(jsonPath)
	ja, _ := json.Marshal(a)
	jb, _ := json.Marshal(b)
	if string(ja) != string(jb) {
		t.Fatalf("csv and json reports differ:\n%s\n%s", ja, jb)
	}
}

func TestCLI_MoviesMalformedListFails(t *testing.T) {
	home := isolateHome(t)
	p := writeFile(t, home, "bad.csv", "title,genreList\nA,\"['Drama'\"\n")
	if _, err := execCmd("movies", p); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestCLI_CrimeReport(t *testing.T) {
	home := isolateHome(t)
	p := writeFile(t, home, "incidents.csv", crimeCSV)

	out := runCmd(t, "crime", p, "--district", "B2", "--from", "2024-03-01", "--to", "2024-03-01")
	for _, want := range []string{"Records: 2", "Dropped without location: 1", "14:00"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}

	var rep crime.Report
	if err := json.Unmarshal([]byte(runCmd(t, "crime", p, "--json")), &rep); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if rep.KPI.Shootings != 1 || rep.KPI.Total != 2 {
		t.Fatalf("kpi = %+v", rep.KPI)
	}
}

func TestCLI_CrimeFallbackFile(t *testing.T) {
	home := isolateHome(t)
	writeFile(t, home, "crime.csv", crimeCSV)
	out := runCmd(t, "crime")
	if !strings.Contains(out, "Operations Dashboard: crime.csv") {
		t.Fatalf("fallback not used:\n%s", out)
	}
}

func TestCLI_CrimeHaltsWithoutData(t *testing.T) {
	home := isolateHome(t)

	_, err := execCmd("crime")
	if !errors.Is(err, crime.ErrNoData) {
		t.Fatalf("no file: err = %v, want ErrNoData", err)
	}

	p := writeFile(t, home, "nodate.csv", "DISTRICT,Lat,Long\nB2,42.3,-71.0\n")
	out, err := execCmd("crime", p)
	if !errors.Is(err, crime.ErrNoData) {
		t.Fatalf("missing date column: err = %v, want ErrNoData", err)
	}
	if strings.Contains(out, "Operations Dashboard") {
		t.Fatalf("report rendered despite halt:\n%s", out)
	}
}

func TestCLI_CrimeBadDates(t *testing.T) {
	home := isolateHome(t)
	p := writeFile(t, home, "incidents.csv", crimeCSV)
	if _, err := execCmd("crime", p, "--from", "March"); err == nil {
		t.Fatalf("expected invalid --from error")
	}
	if _, err := execCmd("crime", p, "--from", "2024-03-02", "--to", "2024-03-01"); err == nil {
		t.Fatalf("expected range error")
	}
}

func TestCLI_InspectWritesProfile(t *testing.T) {
	home := isolateHome(t)
	p := writeFile(t, home, "top.csv", moviesCSV)
	outPath := filepath.Join(home, "out", "profile.md")

	runCmd(t, "inspect", p, "-o", outPath)
	b, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("read profile: %v", err)
	}
	if !strings.Contains(string(b), "[SCHEMA]") || !strings.Contains(string(b), "castList") {
		t.Fatalf("unexpected profile:\n%s", b)
	}
}

func TestCLI_ConfigSetShow(t *testing.T) {
	home := isolateHome(t)
	runCmd(t, "config", "set", "top_n", "3")
	if _, err := os.Stat(filepath.Join(home, ".tabloom", "config.yaml")); err != nil {
		t.Fatalf("config not saved: %v", err)
	}
	out := runCmd(t, "config", "show")
	if !strings.Contains(out, "top_n: 3") || !strings.Contains(out, "crime_fallback_path: crime.csv") {
		t.Fatalf("show output:\n%s", out)
	}
	if _, err := execCmd("config", "set", "nope", "1"); err == nil {
		t.Fatalf("expected unknown key error")
	}
}

func TestCLI_MetricsFlag(t *testing.T) {
	home := isolateHome(t)
	p := writeFile(t, home, "incidents.csv", crimeCSV)
	out := runCmd(t, "crime", p, "--metrics")
	if !strings.Contains(out, `tabloom_loads_total{dataset="crime",outcome="ok"} 1`) {
		t.Fatalf("metrics missing:\n%s", out)
	}
}
