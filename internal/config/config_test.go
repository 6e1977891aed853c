package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	c, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.LogLevel != "info" || c.CrimeFallbackPath != "crime.csv" {
		t.Fatalf("defaults = %+v", c)
	}
	if c.EpicMinDuration != 220 || c.TopN != 10 || c.GenreTopN != 15 || c.OffenseTopN != 15 {
		t.Fatalf("numeric defaults = %+v", c)
	}
	if c.SpotlightDirector != "Steven Spielberg" || c.CacheMaxEntries != 1 {
		t.Fatalf("defaults = %+v", c)
	}
}

func TestLoad_FileThenEnv(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	p := filepath.Join(t.TempDir(), "cfg.yaml")
	if err := os.WriteFile(p, []byte("top_n: 3\ncrime_fallback_path: /data/boston.csv\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("TABLOOM_TOP_N", "7")
	c, err := Load(p)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.TopN != 7 {
		t.Fatalf("top_n = %d, want env value 7", c.TopN)
	}
	if c.CrimeFallbackPath != "/data/boston.csv" {
		t.Fatalf("crime_fallback_path = %q", c.CrimeFallbackPath)
	}
}

func TestSaveAndReload(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	c, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := c.Set("spotlight_director", "Akira Kurosawa"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := c.Set("epic_min_duration", "180"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := Save(c, ""); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := os.Stat(filepath.Join(home, ".tabloom", "config.yaml")); err != nil {
		t.Fatalf("config not written: %v", err)
	}
	again, err := Load("")
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if again.SpotlightDirector != "Akira Kurosawa" || again.EpicMinDuration != 180 {
		t.Fatalf("reloaded = %+v", again)
	}
}

func TestSet_Validation(t *testing.T) {
	c := &Global{}
	bad := map[string]string{
		"top_n":             "-1",
		"genre_top_n":       "many",
		"cache_max_entries": "0",
		"log_level":         "loud",
		"nope":              "x",
	}
	for k, v := range bad {
		if err := c.Set(k, v); err == nil {
			t.Fatalf("Set(%q, %q) should fail", k, v)
		}
	}
	if err := c.Set("offense_top_n", "5"); err != nil || c.OffenseTopN != 5 {
		t.Fatalf("offense_top_n = %d, %v", c.OffenseTopN, err)
	}
	for _, k := range Keys {
		if _, err := c.Get(k); err != nil {
			t.Fatalf("Get(%q): %v", k, err)
		}
	}
	if got, _ := c.Get("offense_top_n"); got != "5" {
		t.Fatalf("Get offense_top_n = %q", got)
	}
}
