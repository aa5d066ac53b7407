package verdant

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadStatsEmbedded(t *testing.T) {
	stats, err := LoadStats("")
	if err != nil {
		t.Fatal(err)
	}
	if len(stats) != 4 {
		t.Fatalf("len(stats) = %d, want 4", len(stats))
	}
	first := stats[0]
	if first.Region != "South America" || first.HectaresLost != 2900000 || first.Color != "#FF5722" {
		t.Errorf("stats[0] = %+v", first)
	}
	for _, s := range stats {
		if _, err := ParseColor(s.Color); err != nil {
			t.Errorf("%s: %v", s.Region, err)
		}
	}
}

func TestLoadSolutionsEmbedded(t *testing.T) {
	sols, err := LoadSolutions("")
	if err != nil {
		t.Fatal(err)
	}
	if len(sols) != 3 {
		t.Fatalf("len(solutions) = %d, want 3", len(sols))
	}
	if sols[0].ID != 1 || sols[0].Title != "Support Reforestation" || sols[0].ActionText != "Take action" {
		t.Errorf("solutions[0] = %+v", sols[0])
	}
}

func TestLoadStatsFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stats.csv")
	body := "region,year,hectares_lost,percent_of_total,color\nBorneo,2020,1234,5,#00FF00\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	stats, err := LoadStats(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(stats) != 1 || stats[0].Region != "Borneo" || stats[0].Year != 2020 {
		t.Errorf("stats = %+v", stats)
	}
}

func TestLoadStatsRejectsNegative(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stats.csv")
	body := "region,year,hectares_lost,percent_of_total,color\nNowhere,2020,-5,0,#000000\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := LoadStats(path)
	if err == nil || !strings.Contains(err.Error(), "negative") {
		t.Errorf("error = %v, want a negative-value error", err)
	}
}

func TestLoadStatsMissingFile(t *testing.T) {
	if _, err := LoadStats(filepath.Join(t.TempDir(), "none.csv")); err == nil {
		t.Error("expected error for a missing file")
	}
}

func TestWriteStatsRoundTrip(t *testing.T) {
	stats, err := LoadStats("")
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := WriteStats(&buf, stats); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(buf.String(), "region,year,hectares_lost,percent_of_total,color") {
		t.Errorf("missing header: %q", buf.String())
	}

	path := filepath.Join(t.TempDir(), "copy.csv")
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
	again, err := LoadStats(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(again) != len(stats) || again[3] != stats[3] {
		t.Errorf("round trip changed the data: %+v", again)
	}
}
