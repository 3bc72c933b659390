package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"actas/internal/domain"
)

// BOM is the UTF-8 byte order mark, written for Excel compatibility on Windows.
var BOM = []byte{0xEF, 0xBB, 0xBF}

// csvColumns defines the CSV header row.
var csvColumns = []string{
	"Table",
	"Field ID",
	"Value",
	"Confidence",
	"Method",
	"Origin",
	"Rationale",
}

// CSVWriter wraps csv.Writer for exporting resolution results.
type CSVWriter struct {
	csv *csv.Writer
}

// NewCSVWriter creates a CSVWriter that writes to w.
func NewCSVWriter(w io.Writer) *CSVWriter {
	return &CSVWriter{csv: csv.NewWriter(w)}
}

// WriteHeader writes the header row.
func (w *CSVWriter) WriteHeader() error {
	return w.csv.Write(csvColumns)
}

// WriteResults converts results to CSV rows and writes them.
func (w *CSVWriter) WriteResults(results []domain.ResolutionResult) error {
	for i := range results {
		if err := w.csv.Write(resultToRow(&results[i])); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes the underlying csv.Writer buffer.
func (w *CSVWriter) Flush() {
	w.csv.Flush()
}

// Error reports any error from a preceding write or flush.
func (w *CSVWriter) Error() error {
	return w.csv.Error()
}

func resultToRow(r *domain.ResolutionResult) []string {
	value := ""
	if r.Value != nil {
		value = strconv.Itoa(*r.Value)
	}
	return []string{
		strconv.Itoa(r.TableID),
		r.FieldID,
		value,
		fmt.Sprintf("%.2f", r.Confidence),
		string(r.Method),
		string(r.Origin),
		r.Rationale,
	}
}
