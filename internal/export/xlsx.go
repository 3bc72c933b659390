package export

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"actas/internal/domain"
)

var xlsxColumns = []string{"Field ID", "Value", "Confidence", "Method", "Origin", "Rationale"}

// WriteXLSX renders the results as a workbook with one sheet per table.
func WriteXLSX(results []domain.ResolutionResult) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	order := tableOrder(results)
	if len(order) == 0 {
		order = []int{1}
	}

	for i, tableID := range order {
		sheet := fmt.Sprintf("Tabla %d", tableID)
		if i == 0 {
			if err := f.SetSheetName("Sheet1", sheet); err != nil {
				return nil, fmt.Errorf("renaming sheet: %w", err)
			}
		} else {
			if _, err := f.NewSheet(sheet); err != nil {
				return nil, fmt.Errorf("creating sheet %s: %w", sheet, err)
			}
		}

		for col, name := range xlsxColumns {
			cell, err := excelize.CoordinatesToCellName(col+1, 1)
			if err != nil {
				return nil, fmt.Errorf("computing header cell: %w", err)
			}
			if err := f.SetCellValue(sheet, cell, name); err != nil {
				return nil, fmt.Errorf("writing header: %w", err)
			}
		}

		row := 2
		for j := range results {
			r := &results[j]
			if r.TableID != tableID {
				continue
			}
			values := []interface{}{r.FieldID, nil, r.Confidence, string(r.Method), string(r.Origin), r.Rationale}
			if r.Value != nil {
				values[1] = *r.Value
			}
			for col, v := range values {
				if v == nil {
					continue
				}
				cell, err := excelize.CoordinatesToCellName(col+1, row)
				if err != nil {
					return nil, fmt.Errorf("computing cell: %w", err)
				}
				if err := f.SetCellValue(sheet, cell, v); err != nil {
					return nil, fmt.Errorf("writing row %d: %w", row, err)
				}
			}
			row++
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("serializing workbook: %w", err)
	}
	return buf, nil
}
