package services

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// FoilNumberMap maps a student UID to an externally-assigned foil number.
type FoilNumberMap map[string]string

// MissingColumnsError reports which logical columns a foil sheet lacks.
type MissingColumnsError struct {
	Columns []string
}

func (e *MissingColumnsError) Error() string {
	return "missing required columns: " + strings.Join(e.Columns, ", ")
}

// ErrNoValidRows is returned when the sheet has the required headers but
// no row carries both a UID and a foil number. Kept distinct from the
// missing-columns case so the user gets an actionable message.
var ErrNoValidRows = fmt.Errorf("no valid rows found in foil sheet")

// Hand-edited sheets label the foil column inconsistently.
var foilHeaderAliases = map[string]bool{
	"foil number": true,
	"foil no":     true,
	"foil no.":    true,
	"foil_number": true,
	"foilnumber":  true,
	"foil":        true,
}

// normalizeHeader trims, lowercases, and collapses runs of underscores and
// whitespace into a single space.
func normalizeHeader(h string) string {
	h = strings.ToLower(strings.TrimSpace(h))
	h = strings.ReplaceAll(h, "_", " ")
	return strings.Join(strings.Fields(h), " ")
}

// foilColumnIndex locates the uid and foil columns in a header row.
// A negative index means the column is absent.
func foilColumnIndex(headers []string) (uidCol, foilCol int) {
	uidCol, foilCol = -1, -1
	for i, h := range headers {
		switch normalized := normalizeHeader(h); {
		case normalized == "uid":
			if uidCol < 0 {
				uidCol = i
			}
		case foilHeaderAliases[normalized]:
			if foilCol < 0 {
				foilCol = i
			}
		}
	}
	return uidCol, foilCol
}

// isRowEmpty reports whether every cell in the row is blank.
func isRowEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// ParseFoilSpreadsheet reads the first sheet of an uploaded workbook into
// a UID to foil-number map.
//
// Header matching is case and space insensitive and accepts several foil
// aliases. Rows missing either value are skipped silently; only a sheet
// with zero usable rows is an error. File-type and size limits are
// enforced by the caller before this runs.
func ParseFoilSpreadsheet(r io.Reader) (FoilNumberMap, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open spreadsheet: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, fmt.Errorf("spreadsheet has no sheets")
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheetName, err)
	}
	if len(rows) == 0 {
		return nil, &MissingColumnsError{Columns: []string{"uid", "foil_number"}}
	}

	uidCol, foilCol := foilColumnIndex(rows[0])
	var missing []string
	if uidCol < 0 {
		missing = append(missing, "uid")
	}
	if foilCol < 0 {
		missing = append(missing, "foil_number")
	}
	if len(missing) > 0 {
		return nil, &MissingColumnsError{Columns: missing}
	}

	foilMap := make(FoilNumberMap)
	for _, row := range rows[1:] {
		if isRowEmpty(row) {
			continue
		}

		var uid, foil string
		if uidCol < len(row) {
			uid = strings.TrimSpace(row[uidCol])
		}
		if foilCol < len(row) {
			foil = strings.TrimSpace(row[foilCol])
		}

		// Partially filled rows are tolerated, not errors
		if uid == "" || foil == "" {
			continue
		}
		foilMap[uid] = foil
	}

	if len(foilMap) == 0 {
		return nil, ErrNoValidRows
	}

	return foilMap, nil
}

// UIDs returns the map's keys, the population restriction used by the
// counting and seating queries.
func (m FoilNumberMap) UIDs() []string {
	uids := make([]string, 0, len(m))
	for uid := range m {
		uids = append(uids, uid)
	}
	return uids
}
