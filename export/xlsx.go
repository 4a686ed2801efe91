// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package export

import (
	"bytes"
	"fmt"
	"log/slog"

	"github.com/xuri/excelize/v2"

	"github.com/danielhkuo/mentoria/rowset"
)

// SheetName is the worksheet the listing is written to.
const SheetName = "Alumnos"

// ToXLSX renders rows as a single-sheet workbook with the same column rules
// as ToCSV. Numeric values are kept numeric. Empty input still produces a
// valid workbook with an empty sheet.
func ToXLSX(rows []rowset.Row) ([]byte, error) {
	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			slog.Error("failed to close workbook", "error", err)
		}
	}()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	if len(rows) > 0 {
		header := rows[0].Keys()
		if err := writeRow(f, 1, stringsToAny(header)); err != nil {
			return nil, err
		}
		for i, row := range rows {
			cells := make([]any, len(header))
			for j, key := range header {
				v, ok := row.Get(key)
				if !ok || v == nil {
					v = ""
				}
				cells[j] = v
			}
			if err := writeRow(f, i+2, cells); err != nil {
				return nil, err
			}
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeRow(f *excelize.File, n int, cells []any) error {
	cell, err := excelize.CoordinatesToCellName(1, n)
	if err != nil {
		return fmt.Errorf("cell name for row %d: %w", n, err)
	}
	if err := f.SetSheetRow(SheetName, cell, &cells); err != nil {
		return fmt.Errorf("write row %d: %w", n, err)
	}
	return nil
}

func stringsToAny(s []string) []any {
	out := make([]any, len(s))
	for i, v := range s {
		out[i] = v
	}
	return out
}
