package core

// validation.go provides structural validation for uploaded sheets.
//
// Validation happens at two levels:
//  1. Header detection: The header row must bind at least one code or model
//     column. ERP exports often stack title and date rows above the real
//     header, so the first rows are scanned rather than trusting row one.
//  2. Dataset validation: After normalization the dataset as a whole must
//     contain usable records; a sheet whose rows are all blank, or where no
//     row carries a code or model, is rejected rather than silently loaded.

import (
	"errors"
	"fmt"
	"strings"
)

// maxHeaderSearchRows bounds how deep the header scan looks.
var maxHeaderSearchRows = 10

var (
	ErrEmptyFile     = errors.New("file has no data rows")
	ErrNoHeader      = errors.New("no recognized columns in header")
	ErrNoUsableRows  = errors.New("no rows with a code or model")
	ErrSheetTooSmall = errors.New("sheet has a header but no data")
)

// findHeaderRow scans the leading rows for the first one that binds a code
// or model column. Returns the row index and its column map. A sheet with
// nothing but blank cells in the scan window counts as empty, not as an
// unrecognized header.
func findHeaderRow(rows [][]string) (int, ColumnMap, error) {
	limit := len(rows)
	if limit > maxHeaderSearchRows {
		limit = maxHeaderSearchRows
	}
	sawContent := false
	for i := 0; i < limit; i++ {
		if isEmptyRow(rows[i]) {
			continue
		}
		sawContent = true
		cols := ResolveColumns(rows[i])
		if cols.Has(FieldCode) || cols.Has(FieldModel) {
			return i, cols, nil
		}
	}
	if !sawContent {
		return 0, nil, ErrEmptyFile
	}
	return 0, nil, fmt.Errorf("%w: expected one of %s", ErrNoHeader, knownAliasList())
}

// validateRecords rejects datasets that would make every lookup fail.
// usable is the count of normalized records, skipped the count of rows
// dropped for lacking both code and model.
func validateRecords(usable, skipped int) error {
	if usable > 0 {
		return nil
	}
	if skipped > 0 {
		return ErrNoUsableRows
	}
	return ErrSheetTooSmall
}

// isEmptyRow checks if all cells in a row are empty after cleanup.
func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if CleanCell(cell) != "" {
			return false
		}
	}
	return true
}

// knownAliasList renders the accepted header names for error messages.
func knownAliasList() string {
	var names []string
	for _, spec := range recordFields {
		names = append(names, spec.Aliases...)
	}
	return strings.Join(names, ", ")
}
