// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package export

import (
	"bytes"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/danielhkuo/mentoria/rowset"
)

func readSheet(t *testing.T, data []byte) [][]string {
	t.Helper()
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Failed to open workbook: %v", err)
	}
	defer f.Close()

	if name := f.GetSheetName(0); name != SheetName {
		t.Errorf("Expected sheet %q, got %q", SheetName, name)
	}
	rows, err := f.GetRows(SheetName)
	if err != nil {
		t.Fatalf("Failed to read rows: %v", err)
	}
	return rows
}

func TestToXLSX(t *testing.T) {
	rows := []rowset.Row{
		{{Key: "Legajo", Value: "1001"}, {Key: "apellido", Value: "Gomez"}, {Key: "promedio_sin_aplazos", Value: 8.5}},
		{{Key: "apellido", Value: `O"Brien, Jr`}, {Key: "promedio_sin_aplazos", Value: 0.0}},
	}

	data, err := ToXLSX(rows)
	if err != nil {
		t.Fatalf("ToXLSX failed: %v", err)
	}

	got := readSheet(t, data)
	if len(got) != 3 {
		t.Fatalf("Expected header plus 2 rows, got %d", len(got))
	}

	wantHeader := []string{"Legajo", "apellido", "promedio_sin_aplazos"}
	for i, h := range wantHeader {
		if got[0][i] != h {
			t.Errorf("Header %d = %q, want %q", i, got[0][i], h)
		}
	}
	if got[1][1] != "Gomez" || got[1][2] != "8.5" {
		t.Errorf("Unexpected first row %v", got[1])
	}
	// missing Legajo renders empty, text stays verbatim
	if got[2][0] != "" || got[2][1] != `O"Brien, Jr` || got[2][2] != "0" {
		t.Errorf("Unexpected second row %v", got[2])
	}
}

func TestToXLSX_Empty(t *testing.T) {
	data, err := ToXLSX(nil)
	if err != nil {
		t.Fatalf("ToXLSX failed: %v", err)
	}
	if got := readSheet(t, data); len(got) != 0 {
		t.Errorf("Expected empty sheet, got %v", got)
	}
}
