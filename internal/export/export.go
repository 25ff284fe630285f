// Package export writes the assembled deck and suggestion tables to CSV or
// JSON, to a file or any io.Writer. Column headers come from `csv` struct
// tags.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"reflect"
)

// Format represents the export format.
type Format string

const (
	// FormatCSV represents CSV export format.
	FormatCSV Format = "csv"
	// FormatJSON represents JSON export format.
	FormatJSON Format = "json"
)

// Options holds configuration for export operations.
type Options struct {
	Format     Format
	FilePath   string
	PrettyJSON bool
	Overwrite  bool
}

// ToFile exports data to the path configured in opts. data must be a slice
// of structs (or pointers to structs) for CSV.
func ToFile(data interface{}, opts Options) (err error) {
	file, fileErr := createFile(opts)
	if fileErr != nil {
		return fileErr
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	return ToWriter(file, opts.Format, data, opts.PrettyJSON)
}

// ToWriter exports data to w in the given format.
func ToWriter(w io.Writer, format Format, data interface{}, prettyJSON bool) error {
	switch format {
	case FormatJSON:
		encoder := json.NewEncoder(w)
		if prettyJSON {
			encoder.SetIndent("", "  ")
		}
		return encoder.Encode(data)
	case FormatCSV:
		return writeCSV(w, data)
	default:
		return fmt.Errorf("unsupported export format: %s", format)
	}
}

// createFile creates the output file, honoring the overwrite setting.
func createFile(opts Options) (*os.File, error) {
	if opts.FilePath == "" {
		return nil, fmt.Errorf("file path must be set")
	}

	dir := filepath.Dir(opts.FilePath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	if _, err := os.Stat(opts.FilePath); err == nil && !opts.Overwrite {
		return nil, fmt.Errorf("file already exists: %s (use overwrite option to replace)", opts.FilePath)
	}

	file, err := os.Create(opts.FilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}
	return file, nil
}

// writeCSV writes a slice of structs as CSV rows with a header line.
func writeCSV(w io.Writer, data interface{}) error {
	v := reflect.ValueOf(data)
	if v.Kind() != reflect.Slice {
		return fmt.Errorf("CSV export requires a slice, got %s", v.Kind())
	}
	if v.Len() == 0 {
		return fmt.Errorf("no data to export")
	}

	firstElem := v.Index(0)
	if firstElem.Kind() == reflect.Ptr {
		firstElem = firstElem.Elem()
	}
	if firstElem.Kind() != reflect.Struct {
		return fmt.Errorf("CSV export requires a slice of structs")
	}

	writer := csv.NewWriter(w)
	defer writer.Flush()

	if err := writer.Write(csvHeaders(firstElem.Type())); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for i := 0; i < v.Len(); i++ {
		elem := v.Index(i)
		if elem.Kind() == reflect.Ptr {
			elem = elem.Elem()
		}
		if err := writer.Write(csvRow(elem)); err != nil {
			return fmt.Errorf("failed to write CSV row %d: %w", i, err)
		}
	}

	return writer.Error()
}

// csvHeaders extracts column names from struct csv tags, falling back to the
// field name.
func csvHeaders(t reflect.Type) []string {
	var headers []string
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if tag := field.Tag.Get("csv"); tag != "" && tag != "-" {
			headers = append(headers, tag)
		} else if field.IsExported() && field.Tag.Get("csv") != "-" {
			headers = append(headers, field.Name)
		}
	}
	return headers
}

// csvRow converts one struct value to a CSV record.
func csvRow(v reflect.Value) []string {
	var row []string
	t := v.Type()
	for i := 0; i < v.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() || field.Tag.Get("csv") == "-" {
			continue
		}
		row = append(row, valueToString(v.Field(i)))
	}
	return row
}

func valueToString(v reflect.Value) string {
	if v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return ""
		}
		v = v.Elem()
	}

	switch v.Kind() {
	case reflect.String:
		return v.String()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return fmt.Sprintf("%d", v.Int())
	case reflect.Float32, reflect.Float64:
		return fmt.Sprintf("%.2f", v.Float())
	case reflect.Bool:
		return fmt.Sprintf("%t", v.Bool())
	default:
		return fmt.Sprintf("%v", v.Interface())
	}
}
