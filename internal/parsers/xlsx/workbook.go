// Package xlsx converts spreadsheet exports into feed CSV text so that the
// CSV parser stays the single place where structure is checked.
package xlsx

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"

	"github.com/Digitalbradley/adbrain-legal-sub000/internal/parsers/csv"
)

// zip local file header, the container of every .xlsx workbook
var zipMagic = []byte("PK\x03\x04")

// IsWorkbook reports whether an upload should be read as a workbook
func IsWorkbook(fileName string, content []byte) bool {
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".xlsx", ".xlsm":
		return true
	case ".csv", ".txt", ".tsv":
		return false
	}
	return bytes.HasPrefix(content, zipMagic)
}

// ToCSV renders one sheet of the workbook as CSV text. An empty sheet name
// selects the first sheet. Line breaks inside cells become spaces since the
// feed dialect is strictly line-oriented.
func ToCSV(content []byte, sheet string) (string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return "", fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheetName, err := selectSheet(f.GetSheetList(), sheet)
	if err != nil {
		return "", err
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return "", fmt.Errorf("failed to read worksheet %q: %w", sheetName, err)
	}

	width := 0
	for _, row := range rows {
		width = max(width, len(row))
	}

	var b strings.Builder
	skipped := 0
	// GetRows drops trailing empty cells; every line is padded to the widest row
	values := make([]string, width)
	for _, row := range rows {
		if isEmptyRow(row) {
			skipped++
			continue
		}
		clear(values)
		for i, cell := range row {
			values[i] = flattenCell(cell)
		}
		b.WriteString(csv.FormatRecord(values))
		b.WriteByte('\n')
	}

	log.Debug().
		Str("sheet", sheetName).
		Int("rows", len(rows)-skipped).
		Int("columns", width).
		Msg("Converted worksheet to CSV")
	return b.String(), nil
}

func selectSheet(sheets []string, name string) (string, error) {
	if len(sheets) == 0 {
		return "", fmt.Errorf("workbook has no sheets")
	}
	if name == "" {
		return sheets[0], nil
	}
	for _, s := range sheets {
		if strings.EqualFold(s, name) {
			return s, nil
		}
	}
	return "", fmt.Errorf("sheet %q not found. Available sheets: %s", name, strings.Join(sheets, ", "))
}

func flattenCell(cell string) string {
	return strings.Join(strings.FieldsFunc(cell, func(r rune) bool {
		return r == '\r' || r == '\n'
	}), " ")
}

func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
