// Package importer reads block lists from CSV, Excel and DXF files.
// It supports automatic delimiter detection, flexible column mapping, and
// case-insensitive header recognition.
package importer

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/piwi3910/blockbuilder/internal/model"
)

// ImportResult holds the results of an import operation. Objects carry
// fresh ids and are not yet checked for collisions.
type ImportResult struct {
	Objects  []model.PlacedObject
	Errors   []string
	Warnings []string
}

// ColumnMapping maps semantic column roles to their indices in the data.
type ColumnMapping struct {
	Type     int
	X        int
	Y        int
	Rotation int
}

// headerAliases maps canonical column names to their accepted aliases (all lowercase).
var headerAliases = map[string][]string{
	"type":     {"type", "block", "name", "block type", "kind"},
	"x":        {"x", "left"},
	"y":        {"y", "top"},
	"rotation": {"rotation", "rot", "angle"},
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
// mapping (Type, X, Y, Rotation) and false if no header was found.
func DetectColumns(row []string) (ColumnMapping, bool) {
	mapping := ColumnMapping{Type: -1, X: -1, Y: -1, Rotation: -1}

	isHeader := false
	for i, cell := range row {
		normalized := strings.ToLower(strings.TrimSpace(cell))
		for role, aliases := range headerAliases {
			for _, alias := range aliases {
				if normalized != alias {
					continue
				}
				isHeader = true
				switch role {
				case "type":
					if mapping.Type == -1 {
						mapping.Type = i
					}
				case "x":
					if mapping.X == -1 {
						mapping.X = i
					}
				case "y":
					if mapping.Y == -1 {
						mapping.Y = i
					}
				case "rotation":
					if mapping.Rotation == -1 {
						mapping.Rotation = i
					}
				}
			}
		}
	}

	if !isHeader {
		return ColumnMapping{Type: 0, X: 1, Y: 2, Rotation: 3}, false
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

// parseRow extracts a block from a row using the given column mapping.
// Returns the object and any error message.
func parseRow(cat *model.Catalog, row []string, mapping ColumnMapping, rowLabel string) (model.PlacedObject, string) {
	typeStr := getCell(row, mapping.Type)
	if typeStr == "" {
		return model.PlacedObject{}, fmt.Sprintf("%s: Missing block type", rowLabel)
	}
	t := model.ObjectType(typeStr)
	if !cat.Has(t) {
		return model.PlacedObject{}, fmt.Sprintf("%s: Unknown block type '%s'", rowLabel, typeStr)
	}

	xStr := getCell(row, mapping.X)
	if xStr == "" {
		return model.PlacedObject{}, fmt.Sprintf("%s: Missing x value", rowLabel)
	}
	x, err := strconv.ParseFloat(xStr, 64)
	if err != nil {
		return model.PlacedObject{}, fmt.Sprintf("%s: Invalid x '%s'", rowLabel, xStr)
	}

	yStr := getCell(row, mapping.Y)
	if yStr == "" {
		return model.PlacedObject{}, fmt.Sprintf("%s: Missing y value", rowLabel)
	}
	y, err := strconv.ParseFloat(yStr, 64)
	if err != nil {
		return model.PlacedObject{}, fmt.Sprintf("%s: Invalid y '%s'", rowLabel, yStr)
	}

	o := model.NewPlacedObject(t, x, y)

	// Optional rotation, 0 when absent
	if rotStr := getCell(row, mapping.Rotation); rotStr != "" {
		deg, err := strconv.Atoi(rotStr)
		if err != nil {
			return model.PlacedObject{}, fmt.Sprintf("%s: Invalid rotation '%s'", rowLabel, rotStr)
		}
		rot, err := model.ParseRotation(deg)
		if err != nil {
			return model.PlacedObject{}, fmt.Sprintf("%s: Invalid rotation '%s', must be 0, 90, 180 or 270", rowLabel, rotStr)
		}
		o.Rotation = rot
	}
	return o, ""
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

// ImportCSV imports blocks from a CSV file.
// It automatically detects the delimiter and maps columns by header names.
// Supports comma, semicolon, tab, and pipe delimiters.
func ImportCSV(path string, cat *model.Catalog) ImportResult {
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

	return importFromRows(cat, records, "Line", result.Warnings)
}

// ImportCSVFromReader imports blocks from a CSV reader with a specific delimiter.
// This is useful for testing or when the delimiter is already known.
func ImportCSVFromReader(reader io.Reader, delimiter rune, cat *model.Catalog) ImportResult {
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

	return importFromRows(cat, records, "Line", nil)
}

// ImportExcel imports blocks from an Excel (.xlsx) file.
// Reads the first sheet and auto-detects column mapping from headers.
func ImportExcel(path string, cat *model.Catalog) ImportResult {
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

	return importFromRows(cat, rows, "Row", nil)
}

// importFromRows is the shared import logic for both CSV and Excel data.
// It detects headers, maps columns, and parses each row into a block.
func importFromRows(cat *model.Catalog, rows [][]string, rowPrefix string, initialWarnings []string) ImportResult {
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
		if mapping.Type == -1 {
			missing = append(missing, "Type")
		}
		if mapping.X == -1 {
			missing = append(missing, "X")
		}
		if mapping.Y == -1 {
			missing = append(missing, "Y")
		}
		if len(missing) > 0 {
			result.Errors = append(result.Errors, fmt.Sprintf("Required columns not found in header: %s", strings.Join(missing, ", ")))
			return result
		}
	} else if len(rows[0]) >= 3 {
		// An unrecognised header: the x column is not numeric.
		if _, err := strconv.ParseFloat(strings.TrimSpace(rows[0][1]), 64); err != nil {
			startRow = 1
			result.Warnings = append(result.Warnings, "Detected header row, skipping")
		}
	}

	for i := startRow; i < len(rows); i++ {
		row := rows[i]
		if isEmptyRow(row) {
			continue
		}

		rowLabel := fmt.Sprintf("%s %d", rowPrefix, i+1)
		o, errMsg := parseRow(cat, row, mapping, rowLabel)
		if errMsg != "" {
			result.Errors = append(result.Errors, errMsg)
			continue
		}
		result.Objects = append(result.Objects, o)
	}

	if len(result.Objects) == 0 && len(result.Errors) == 0 {
		result.Errors = append(result.Errors, "No data rows found")
	}
	return result
}
