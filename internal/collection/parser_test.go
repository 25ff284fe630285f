package collection

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"sync"
	"testing"

	"github.com/ramonehamilton/EDH-Deckbuilder/internal/cards"
)

func TestParseCSV(t *testing.T) {
	input := "Name,Count\nSol Ring,1\nForest,10\n2 Cultivate,2\n"

	got, err := Parse(strings.NewReader(input), FormatCSV)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	want := []string{"Sol Ring", "Forest", "2 Cultivate"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Parse = %v, want %v", got, want)
	}
}

func TestParseCSVNoHeader(t *testing.T) {
	input := "Sol Ring,1\nForest,10\n"

	got, err := Parse(strings.NewReader(input), FormatCSV)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(got) != 2 || got[0] != "Sol Ring" {
		t.Errorf("Parse = %v, want [Sol Ring Forest]", got)
	}
}

func TestParseText(t *testing.T) {
	input := "Sol Ring\r\n\nForest\n  Island  \n"

	got, err := Parse(strings.NewReader(input), FormatText)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	want := []string{"Sol Ring", "Forest", "Island"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Parse = %v, want %v", got, want)
	}
}

func TestParseFileUnknownExtension(t *testing.T) {
	if _, err := ParseFile("collection.pdf"); err == nil {
		t.Error("expected error for unsupported extension")
	}
}

func TestParseFileText(t *testing.T) {
	path := filepath.Join(t.TempDir(), "collection.txt")
	if err := os.WriteFile(path, []byte("Sol Ring\nForest\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile failed: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("ParseFile = %v, want 2 entries", got)
	}
}

// stubLookup resolves names from a fixed table after normalization-friendly
// lowering, mimicking the fuzzy matcher loosely.
type stubLookup struct {
	mu    sync.Mutex
	calls int
	table map[string]*cards.Card
}

func (s *stubLookup) NamedFuzzy(_ context.Context, name string) (*cards.Card, error) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
	if c, ok := s.table[strings.ToLower(name)]; ok {
		return c, nil
	}
	return nil, errors.New("not found")
}

func TestBuildPoolDeduplicates(t *testing.T) {
	solRing := &cards.Card{Name: "Sol Ring", TypeLine: "Artifact"}
	lookup := &stubLookup{table: map[string]*cards.Card{
		"sol ring": solRing,
		"forest":   {Name: "Forest", TypeLine: "Basic Land — Forest"},
	}}
	resolver := cards.NewResolver(lookup)

	pool := BuildPool(context.Background(), resolver, []string{"2 Sol Ring", "Sol Ring", "Forest"}, 2)

	if len(pool.Cards) != 2 {
		t.Fatalf("pool size = %d, want 2 (duplicate Sol Ring collapsed)", len(pool.Cards))
	}
	got, ok := pool.Get("sol ring")
	if !ok || got != solRing {
		t.Errorf("pool should contain exactly one Sol Ring record, got %v", got)
	}
	if !pool.Contains("FOREST") {
		t.Error("pool lookup should be case-insensitive via normalization")
	}
}

func TestBuildPoolRecordsNotFound(t *testing.T) {
	lookup := &stubLookup{table: map[string]*cards.Card{
		"forest": {Name: "Forest"},
	}}
	resolver := cards.NewResolver(lookup)

	pool := BuildPool(context.Background(), resolver, []string{"Forest", "Xyzzy Dragon"}, 2)

	if len(pool.NotFound) != 1 || pool.NotFound[0] != "Xyzzy Dragon" {
		t.Errorf("NotFound = %v, want [Xyzzy Dragon]", pool.NotFound)
	}
	if len(pool.Keys) != 1 {
		t.Errorf("Keys = %v, want one entry", pool.Keys)
	}
}
