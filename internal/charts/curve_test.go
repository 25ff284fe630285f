package charts

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ramonehamilton/EDH-Deckbuilder/internal/deck"
)

func TestCurveBuckets(t *testing.T) {
	rows := []deck.Row{
		{Name: "Sol Ring", ManaValue: 1, Function: "Ramp"},
		{Name: "Cultivate", ManaValue: 3, Function: "Ramp"},
		{Name: "Signet", ManaValue: 2, Function: "Ramp"},
		{Name: "Another Two", ManaValue: 2, Function: "Other"},
		{Name: "Big Finisher", ManaValue: 9, Function: "Wincon/Finisher"},
		{Name: "Forest", ManaValue: 0, Function: "Land"},
	}

	points := Curve(rows)

	got := make(map[string]int)
	for _, p := range points {
		got[p.Label] = p.Count
	}

	if got["1"] != 1 || got["2"] != 2 || got["3"] != 1 {
		t.Errorf("unexpected buckets: %v", got)
	}
	if got["7+"] != 1 {
		t.Errorf("mana value 9 should land in the 7+ bucket: %v", got)
	}
	if _, ok := got["0"]; ok {
		t.Error("lands must not be counted")
	}
}

func TestRenderCurveWritesHTML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "curve.html")
	rows := []deck.Row{{Name: "Sol Ring", ManaValue: 1, Function: "Ramp"}}

	if err := RenderCurve(rows, DefaultConfig(), path); err != nil {
		t.Fatalf("RenderCurve failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "echarts") {
		t.Error("rendered file does not look like an echarts page")
	}
}
