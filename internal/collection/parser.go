// Package collection reads a user's owned-card list and resolves it into the
// pool the deck assembler draws from. Two upload formats are supported: CSV
// (first column holds the card names) and plain text (one name per line).
package collection

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Format identifies a supported collection file format.
type Format string

const (
	// FormatCSV is a tabular file whose first column holds card names.
	FormatCSV Format = "csv"
	// FormatText is a line-oriented file, one card name per line.
	FormatText Format = "txt"
)

// headerWords are first-column values that mark a CSV header row rather
// than a card name.
var headerWords = map[string]bool{
	"name": true, "card": true, "card name": true, "cardname": true,
	"count": true, "quantity": true, "qty": true,
}

// ParseFile reads a collection file, choosing the format from the file
// extension. Unknown extensions are an input error: the caller should abort
// before making any external calls.
func ParseFile(path string) ([]string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return parseFile(path, FormatCSV)
	case ".txt":
		return parseFile(path, FormatText)
	default:
		return nil, fmt.Errorf("unsupported collection format %q (want .csv or .txt)", filepath.Ext(path))
	}
}

func parseFile(path string, format Format) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open collection file: %w", err)
	}
	defer func() { _ = f.Close() }()

	return Parse(f, format)
}

// Parse reads raw card names from r in the given format, preserving input
// order. Blank lines are skipped; quantity prefixes are kept for the
// normalizer to strip later.
func Parse(r io.Reader, format Format) ([]string, error) {
	switch format {
	case FormatCSV:
		return parseCSV(r)
	case FormatText:
		return parseText(r)
	default:
		return nil, fmt.Errorf("unsupported collection format %q", format)
	}
}

// parseCSV reads the first column of every row. A recognizable header row is
// skipped; ragged rows are tolerated since only the first field matters.
func parseCSV(r io.Reader) ([]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse CSV collection: %w", err)
	}

	var names []string
	for i, record := range records {
		if len(record) == 0 {
			continue
		}
		name := strings.TrimSpace(record[0])
		if name == "" {
			continue
		}
		if i == 0 && headerWords[strings.ToLower(name)] {
			continue
		}
		names = append(names, name)
	}
	return names, nil
}

func parseText(r io.Reader) ([]string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read collection: %w", err)
	}

	var names []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(strings.TrimSuffix(line, "\r"))
		if line != "" {
			names = append(names, line)
		}
	}
	return names, nil
}
