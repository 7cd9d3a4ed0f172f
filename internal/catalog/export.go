package catalog

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/xuri/excelize/v2"

	"catalog-assistant/internal/models"
)

// ExportWorkbook writes records as a single-sheet spreadsheet named after the
// table. Columns are the union of record keys with id and name first.
func ExportWorkbook(w io.Writer, table string, records []models.GenericRecord) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), table); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	columns := exportColumns(records)
	header := make([]interface{}, len(columns))
	for i, col := range columns {
		header[i] = col
	}
	if err := f.SetSheetRow(table, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i, record := range records {
		row := make([]interface{}, len(columns))
		for j, col := range columns {
			row[j] = cellValue(record[col])
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(table, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}

	return f.Write(w)
}

func exportColumns(records []models.GenericRecord) []string {
	seen := make(map[string]bool)
	var rest []string
	for _, record := range records {
		for col := range record {
			if seen[col] {
				continue
			}
			seen[col] = true
			if col != "id" && col != "name" {
				rest = append(rest, col)
			}
		}
	}
	sort.Strings(rest)

	var columns []string
	for _, col := range []string{"id", "name"} {
		if seen[col] {
			columns = append(columns, col)
		}
	}
	return append(columns, rest...)
}

func cellValue(v interface{}) interface{} {
	switch val := v.(type) {
	case nil:
		return ""
	case string, bool, int, int64, float64, time.Time:
		return val
	default:
		return fmt.Sprint(val)
	}
}
