package services

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

// buildFoilSheet writes rows into an in-memory workbook for parser tests.
func buildFoilSheet(t *testing.T, rows [][]string) *bytes.Buffer {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for r, row := range rows {
		for c, value := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				t.Fatalf("bad cell coordinates: %v", err)
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				t.Fatalf("failed to set cell %s: %v", cell, err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("failed to serialize workbook: %v", err)
	}
	return buf
}

func TestParseFoilSpreadsheet(t *testing.T) {
	tests := []struct {
		name string
		rows [][]string
		exp  FoilNumberMap
	}{
		{
			name: "plain headers",
			rows: [][]string{
				{"uid", "foil_number"},
				{"2025-0001", "F-101"},
				{"2025-0002", "F-102"},
			},
			exp: FoilNumberMap{"2025-0001": "F-101", "2025-0002": "F-102"},
		},
		{
			name: "case and spacing insensitive headers",
			rows: [][]string{
				{" UID ", "Foil No."},
				{"2025-0001", "F-101"},
			},
			exp: FoilNumberMap{"2025-0001": "F-101"},
		},
		{
			name: "extra columns and foil alias",
			rows: [][]string{
				{"Name", "UID", "Remarks", "FOIL NUMBER"},
				{"Sample", "2025-0001", "ok", "F-101"},
			},
			exp: FoilNumberMap{"2025-0001": "F-101"},
		},
		{
			name: "partial rows skipped",
			rows: [][]string{
				{"uid", "foil"},
				{"2025-0001", "F-101"},
				{"2025-0002", ""},
				{"", "F-103"},
				{"", ""},
				{"2025-0004", "F-104"},
			},
			exp: FoilNumberMap{"2025-0001": "F-101", "2025-0004": "F-104"},
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseFoilSpreadsheet(buildFoilSheet(t, tc.rows))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(got) != len(tc.exp) {
				t.Fatalf("expected %d entries, got %d", len(tc.exp), len(got))
			}
			for uid, foil := range tc.exp {
				if got[uid] != foil {
					t.Fatalf("uid %s: expected foil %s, got %s", uid, foil, got[uid])
				}
			}
		})
	}
}

func TestParseFoilSpreadsheetMissingColumns(t *testing.T) {
	tests := []struct {
		name       string
		rows       [][]string
		expMissing []string
	}{
		{
			name: "missing foil column",
			rows: [][]string{
				{"uid", "name"},
				{"2025-0001", "Sample"},
			},
			expMissing: []string{"foil_number"},
		},
		{
			name: "missing uid column",
			rows: [][]string{
				{"name", "foil_number"},
				{"Sample", "F-101"},
			},
			expMissing: []string{"uid"},
		},
		{
			name: "both columns missing",
			rows: [][]string{
				{"name", "remarks"},
			},
			expMissing: []string{"uid", "foil_number"},
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseFoilSpreadsheet(buildFoilSheet(t, tc.rows))
			var missingErr *MissingColumnsError
			if !errors.As(err, &missingErr) {
				t.Fatalf("expected MissingColumnsError, got %v", err)
			}
			if len(missingErr.Columns) != len(tc.expMissing) {
				t.Fatalf("expected missing %v, got %v", tc.expMissing, missingErr.Columns)
			}
			for i, col := range tc.expMissing {
				if missingErr.Columns[i] != col {
					t.Fatalf("expected missing %v, got %v", tc.expMissing, missingErr.Columns)
				}
			}
			if !strings.Contains(missingErr.Error(), tc.expMissing[0]) {
				t.Fatalf("error message %q does not name the missing column", missingErr.Error())
			}
		})
	}
}

func TestParseFoilSpreadsheetNoValidRows(t *testing.T) {
	rows := [][]string{
		{"uid", "foil_number"},
		{"2025-0001", ""},
		{"", "F-101"},
	}

	_, err := ParseFoilSpreadsheet(buildFoilSheet(t, rows))
	if !errors.Is(err, ErrNoValidRows) {
		t.Fatalf("expected ErrNoValidRows, got %v", err)
	}
}

func TestParseFoilSpreadsheetNotASpreadsheet(t *testing.T) {
	if _, err := ParseFoilSpreadsheet(strings.NewReader("not an xlsx payload")); err == nil {
		t.Fatalf("expected error for non-spreadsheet input")
	}
}

func TestFoilNumberMapUIDs(t *testing.T) {
	m := FoilNumberMap{"a": "1", "b": "2"}
	uids := m.UIDs()
	if len(uids) != 2 {
		t.Fatalf("expected 2 uids, got %d", len(uids))
	}
	seen := map[string]bool{}
	for _, uid := range uids {
		seen[uid] = true
	}
	if !seen["a"] || !seen["b"] {
		t.Fatalf("expected uids a and b, got %v", uids)
	}
}
