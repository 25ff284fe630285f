package export

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ramonehamilton/EDH-Deckbuilder/internal/deck"
)

var sampleRows = []deck.Row{
	{Name: "Atraxa, Praetors' Voice", ManaValue: 4, Type: "Legendary Creature", Function: "Creature", ColorIdentity: "WUBG"},
	{Name: "Sol Ring", ManaValue: 1, Type: "Artifact", Function: "Ramp", ColorIdentity: ""},
}

func TestToWriterCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := ToWriter(&buf, FormatCSV, sampleRows, false); err != nil {
		t.Fatalf("ToWriter failed: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header + 2 rows, got %d lines", len(lines))
	}
	if lines[0] != "Name,Mana Value,Type,Function,Color Identity" {
		t.Errorf("header = %q", lines[0])
	}
	if !strings.Contains(lines[2], "Sol Ring") || !strings.Contains(lines[2], "1.00") {
		t.Errorf("row = %q", lines[2])
	}
}

func TestToWriterJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := ToWriter(&buf, FormatJSON, sampleRows, true); err != nil {
		t.Fatalf("ToWriter failed: %v", err)
	}
	if !strings.Contains(buf.String(), `"name": "Sol Ring"`) {
		t.Errorf("JSON output missing card: %s", buf.String())
	}
}

func TestToWriterRejectsNonSliceCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := ToWriter(&buf, FormatCSV, "not a slice", false); err == nil {
		t.Error("expected error for non-slice CSV export")
	}
}

func TestToFileOverwriteGuard(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deck.csv")
	opts := Options{Format: FormatCSV, FilePath: path}

	if err := ToFile(sampleRows, opts); err != nil {
		t.Fatalf("first export failed: %v", err)
	}
	if err := ToFile(sampleRows, opts); err == nil {
		t.Error("expected overwrite guard error")
	}

	opts.Overwrite = true
	if err := ToFile(sampleRows, opts); err != nil {
		t.Errorf("overwrite-enabled export failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "Atraxa") {
		t.Error("exported file missing deck data")
	}
}
