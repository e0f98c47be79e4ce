// Package importer reads furniture element lists from CSV, Excel and DXF
// files. CSV import detects the delimiter, and both CSV and Excel map
// columns by case-insensitive header names.
package importer

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/piwi3910/FurniCut/internal/model"
)

// ImportResult holds the results of an import operation. Rows that fail to
// parse are reported in Errors and skipped; the rest are still returned.
type ImportResult struct {
	Elements []model.Piece
	Errors   []string
	Warnings []string
}

// OK reports whether the import produced elements without errors.
func (r ImportResult) OK() bool {
	return len(r.Errors) == 0 && len(r.Elements) > 0
}

// ColumnMapping maps semantic column roles to their indices in the data.
// -1 means the column is absent.
type ColumnMapping struct {
	ID       int
	Width    int
	Height   int
	Depth    int
	Quantity int
}

// headerAliases maps canonical column names to their accepted aliases (all lowercase).
var headerAliases = map[string][]string{
	"id":       {"id", "element", "element id", "elementid", "nr", "no", "#"},
	"width":    {"width", "w", "length", "len"},
	"height":   {"height", "h"},
	"depth":    {"depth", "d", "thickness", "t"},
	"quantity": {"quantity", "qty", "count", "pcs", "pieces"},
}

// ImportFile picks the importer from the file extension.
func ImportFile(path string) ImportResult {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".txt", ".tsv":
		return ImportCSV(path)
	case ".xlsx", ".xlsm", ".xls":
		return ImportExcel(path)
	case ".dxf":
		return ImportDXF(path)
	default:
		return ImportResult{Errors: []string{fmt.Sprintf("Unsupported file type %q", filepath.Ext(path))}}
	}
}

// DetectCSVDelimiter reads the file content and determines the most likely CSV delimiter.
// It tries comma, semicolon, tab, and pipe. The delimiter that produces the most
// consistent (non-one) column count across lines wins.
func DetectCSVDelimiter(data []byte) rune {
	candidates := []rune{',', ';', '\t', '|'}
	bestDelimiter := ','
	bestScore := 0

	for _, delim := range candidates {
		reader := csv.NewReader(bytes.NewReader(data))
		reader.Comma = delim
		reader.LazyQuotes = true
		reader.FieldsPerRecord = -1

		records, err := reader.ReadAll()
		if err != nil || len(records) < 1 {
			continue
		}

		// Only delimiters that split the first row count
		firstCols := len(records[0])
		if firstCols < 2 {
			continue
		}

		score := 0
		for _, row := range records {
			if len(row) == firstCols {
				score++
			}
		}

		// Prefer consistency first, then more columns
		weighted := score*10 + firstCols
		if weighted > bestScore {
			bestScore = weighted
			bestDelimiter = delim
		}
	}

	return bestDelimiter
}

// DetectColumns examines a header row and returns a ColumnMapping.
// Returns the mapping and true if a header was detected, or the positional
// mapping (ID, Width, Height, Depth, Quantity) and false otherwise.
func DetectColumns(row []string) (ColumnMapping, bool) {
	mapping := ColumnMapping{ID: -1, Width: -1, Height: -1, Depth: -1, Quantity: -1}
	slots := map[string]*int{
		"id":       &mapping.ID,
		"width":    &mapping.Width,
		"height":   &mapping.Height,
		"depth":    &mapping.Depth,
		"quantity": &mapping.Quantity,
	}

	isHeader := false
	for i, cell := range row {
		normalized := strings.ToLower(strings.TrimSpace(cell))
		for role, aliases := range headerAliases {
			for _, alias := range aliases {
				if normalized != alias {
					continue
				}
				isHeader = true
				if slot := slots[role]; *slot == -1 {
					*slot = i
				}
			}
		}
	}

	if !isHeader {
		return ColumnMapping{ID: 0, Width: 1, Height: 2, Depth: 3, Quantity: 4}, false
	}
	return mapping, true
}

// getCell safely retrieves a cell value from a row by column index.
// Returns empty string if the index is out of range or negative.
func getCell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// parseDimension accepts integers and integral decimals such as "600.0".
func parseDimension(s string) (int, error) {
	if v, err := strconv.Atoi(s); err == nil {
		return v, nil
	}
	f, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
	if err != nil || f != float64(int(f)) {
		return 0, fmt.Errorf("not a whole number")
	}
	return int(f), nil
}

// row is one parsed line before quantity expansion.
type row struct {
	id       int64
	hasID    bool
	width    int
	height   int
	depth    int
	quantity int
}

// parseRow extracts element data from a row using the given column mapping.
// Returns the row and an error message, if any.
func parseRow(cells []string, mapping ColumnMapping, rowLabel string) (row, string) {
	var r row

	if idStr := getCell(cells, mapping.ID); idStr != "" {
		id, err := strconv.ParseInt(idStr, 10, 64)
		if err != nil {
			return row{}, fmt.Sprintf("%s: Invalid id '%s'", rowLabel, idStr)
		}
		r.id, r.hasID = id, true
	}

	widthStr := getCell(cells, mapping.Width)
	if widthStr == "" {
		return row{}, fmt.Sprintf("%s: Missing width value", rowLabel)
	}
	width, err := parseDimension(widthStr)
	if err != nil {
		return row{}, fmt.Sprintf("%s: Invalid width '%s'", rowLabel, widthStr)
	}

	heightStr := getCell(cells, mapping.Height)
	if heightStr == "" {
		return row{}, fmt.Sprintf("%s: Missing height value", rowLabel)
	}
	height, err := parseDimension(heightStr)
	if err != nil {
		return row{}, fmt.Sprintf("%s: Invalid height '%s'", rowLabel, heightStr)
	}

	if width <= 0 || height <= 0 {
		return row{}, fmt.Sprintf("%s: Width and height must be positive", rowLabel)
	}
	r.width, r.height = width, height

	if depthStr := getCell(cells, mapping.Depth); depthStr != "" {
		depth, err := parseDimension(depthStr)
		if err != nil {
			return row{}, fmt.Sprintf("%s: Invalid depth '%s'", rowLabel, depthStr)
		}
		if depth < 0 {
			return row{}, fmt.Sprintf("%s: Depth cannot be negative", rowLabel)
		}
		r.depth = depth
	}

	r.quantity = 1
	if qtyStr := getCell(cells, mapping.Quantity); qtyStr != "" {
		qty, err := strconv.Atoi(qtyStr)
		if err != nil {
			return row{}, fmt.Sprintf("%s: Invalid quantity '%s'", rowLabel, qtyStr)
		}
		if qty <= 0 {
			return row{}, fmt.Sprintf("%s: Quantity must be positive", rowLabel)
		}
		r.quantity = qty
	}

	return r, ""
}

// isEmptyRow returns true if the row has no meaningful content.
func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// ImportCSV imports elements from a CSV file.
// It automatically detects the delimiter and maps columns by header names.
// Supports comma, semicolon, tab, and pipe delimiters.
func ImportCSV(path string) ImportResult {
	result := ImportResult{}

	data, err := os.ReadFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open file: %v", err))
		return result
	}

	if len(bytes.TrimSpace(data)) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	delimiter := DetectCSVDelimiter(data)
	if delimiter != ',' {
		delimName := map[rune]string{';': "semicolon", '\t': "tab", '|': "pipe"}[delimiter]
		result.Warnings = append(result.Warnings, fmt.Sprintf("Detected %s delimiter", delimName))
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = delimiter
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read CSV: %v", err))
		return result
	}

	if len(records) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	return importFromRows(records, "Line", result.Warnings)
}

// ImportCSVFromReader imports elements from a CSV reader with a specific delimiter.
func ImportCSVFromReader(reader io.Reader, delimiter rune) ImportResult {
	result := ImportResult{}

	csvReader := csv.NewReader(reader)
	csvReader.Comma = delimiter
	csvReader.LazyQuotes = true
	csvReader.FieldsPerRecord = -1

	records, err := csvReader.ReadAll()
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read CSV: %v", err))
		return result
	}

	if len(records) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	return importFromRows(records, "Line", nil)
}

// ImportExcel imports elements from the first sheet of an Excel workbook
// and auto-detects column mapping from headers.
func ImportExcel(path string) ImportResult {
	result := ImportResult{}

	f, err := excelize.OpenFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open Excel file: %v", err))
		return result
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		result.Errors = append(result.Errors, "Excel file has no sheets")
		return result
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read Excel data: %v", err))
		return result
	}

	if len(rows) == 0 {
		result.Errors = append(result.Errors, "Sheet is empty")
		return result
	}

	return importFromRows(rows, "Row", nil)
}

// importFromRows is the shared import logic for both CSV and Excel data.
// Rows with a quantity above one expand into that many elements with
// consecutive ids. Rows without an id continue after the highest id seen.
func importFromRows(rows [][]string, rowPrefix string, initialWarnings []string) ImportResult {
	result := ImportResult{
		Warnings: initialWarnings,
	}

	if len(rows) == 0 {
		result.Errors = append(result.Errors, "No data rows found")
		return result
	}

	mapping, hasHeader := DetectColumns(rows[0])
	startRow := 0
	if hasHeader {
		startRow = 1
		result.Warnings = append(result.Warnings, "Detected header row, skipping")

		missing := []string{}
		if mapping.Width == -1 {
			missing = append(missing, "Width")
		}
		if mapping.Height == -1 {
			missing = append(missing, "Height")
		}
		if len(missing) > 0 {
			result.Errors = append(result.Errors, fmt.Sprintf("Required columns not found in header: %s", strings.Join(missing, ", ")))
			return result
		}
	} else if len(rows[0]) >= 3 {
		// A non-numeric width cell means an unrecognized header
		if _, err := parseDimension(strings.TrimSpace(rows[0][1])); err != nil {
			startRow = 1
			result.Warnings = append(result.Warnings, "Detected header row, skipping")
		}
	}

	var nextID int64 = 1
	seen := make(map[int64]bool)
	for i := startRow; i < len(rows); i++ {
		cells := rows[i]
		lineNum := i + 1

		if isEmptyRow(cells) {
			continue
		}

		rowLabel := fmt.Sprintf("%s %d", rowPrefix, lineNum)
		r, errMsg := parseRow(cells, mapping, rowLabel)
		if errMsg != "" {
			result.Errors = append(result.Errors, errMsg)
			continue
		}

		id := nextID
		if r.hasID {
			id = r.id
		}
		for q := 0; q < r.quantity; q++ {
			if seen[id] {
				result.Warnings = append(result.Warnings, fmt.Sprintf("%s: Duplicate element id %d", rowLabel, id))
			}
			seen[id] = true
			result.Elements = append(result.Elements, model.Piece{
				ID:     id,
				Width:  r.width,
				Height: r.height,
				Depth:  r.depth,
			})
			if id >= nextID {
				nextID = id + 1
			}
			id++
		}
	}

	if len(result.Elements) == 0 && len(result.Errors) == 0 {
		result.Errors = append(result.Errors, "No data rows found")
	}

	return result
}
