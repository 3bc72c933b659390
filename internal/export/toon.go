// Package export renders resolved documents as the artifacts downstream
// consumers read: the original two-column TOON text, CSV and XLSX.
package export

import (
	"fmt"
	"io"

	"actas/internal/domain"
)

// WriteTOON writes the classic "field : value" text format, one block per
// table. Only fields with a non-null value are rendered.
func WriteTOON(w io.Writer, results []domain.ResolutionResult) error {
	for _, tableID := range tableOrder(results) {
		var lines []string
		for _, r := range results {
			if r.TableID != tableID || r.Value == nil {
				continue
			}
			lines = append(lines, fmt.Sprintf("%s : %d", r.FieldID, *r.Value))
		}
		if len(lines) == 0 {
			continue
		}
		if _, err := fmt.Fprintf(w, "--- DATOS EXTRAÍDOS TABLA %d ---\n", tableID); err != nil {
			return err
		}
		for _, line := range lines {
			if _, err := fmt.Fprintln(w, line); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
	}
	return nil
}

// tableOrder returns the distinct table IDs in first-appearance order.
func tableOrder(results []domain.ResolutionResult) []int {
	seen := make(map[int]bool)
	var order []int
	for _, r := range results {
		if !seen[r.TableID] {
			seen[r.TableID] = true
			order = append(order, r.TableID)
		}
	}
	return order
}
